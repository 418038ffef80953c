package reconcile_test

import (
	"context"
	"strconv"
	"testing"

	"product-configurator/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allKeys(n int) []string {
	keys := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		keys = append(keys, strconv.Itoa(i))
	}
	return keys
}

func TestReconcile_CreatesAllSlots(t *testing.T) {
	store := newMemStore()
	obs := &recorder{}
	g := reconcile.NewSetGenerator(store, reconcile.ProductSlotSpec(18), obs)

	created, err := g.Reconcile(context.Background(), "P1")
	require.NoError(t, err)

	assert.Equal(t, allKeys(18), created)
	assert.Equal(t, allKeys(18), store.values(reconcile.EntityProductSlot, reconcile.Filter{"product_model": "P1"}, "name"))
	assert.Equal(t, []int{18}, obs.slotsCreated)
}

func TestReconcile_SkipsExisting(t *testing.T) {
	store := newMemStore()
	store.seed(reconcile.EntityProductSlot, reconcile.Record{"product_model": "P1", "name": "5"})
	g := reconcile.NewSetGenerator(store, reconcile.ProductSlotSpec(18), nil)

	created, err := g.Reconcile(context.Background(), "P1")
	require.NoError(t, err)

	assert.Len(t, created, 17)
	assert.NotContains(t, created, "5")
	assert.Len(t, store.values(reconcile.EntityProductSlot, reconcile.Filter{"product_model": "P1", "name": "5"}, "name"), 1)
}

func TestReconcile_Idempotent(t *testing.T) {
	store := newMemStore()
	g := reconcile.NewSetGenerator(store, reconcile.ProductSlotSpec(18), nil)
	ctx := context.Background()

	_, err := g.Reconcile(ctx, "P1")
	require.NoError(t, err)
	before := store.values(reconcile.EntityProductSlot, reconcile.Filter{"product_model": "P1"}, "id")

	created, err := g.Reconcile(ctx, "P1")
	require.NoError(t, err)

	assert.Empty(t, created)
	assert.Equal(t, before, store.values(reconcile.EntityProductSlot, reconcile.Filter{"product_model": "P1"}, "id"))
}

func TestReconcile_BoundedPopulation(t *testing.T) {
	store := newMemStore()
	// Keys outside 1..N are left alone but never count toward new creates.
	store.seed(reconcile.EntityProductSlot, reconcile.Record{"product_model": "P1", "name": "A"})
	store.seed(reconcile.EntityProductSlot, reconcile.Record{"product_model": "P1", "name": "2"})
	g := reconcile.NewSetGenerator(store, reconcile.ProductSlotSpec(4), nil)

	created, err := g.Reconcile(context.Background(), "P1")
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "3", "4"}, created)
	assert.ElementsMatch(t, []string{"A", "2", "1", "3", "4"},
		store.values(reconcile.EntityProductSlot, reconcile.Filter{"product_model": "P1"}, "name"))
}

func TestReconcile_ParentsAreIndependent(t *testing.T) {
	store := newMemStore()
	store.seed(reconcile.EntityProductSlot, reconcile.Record{"product_model": "P2", "name": "1"})
	g := reconcile.NewSetGenerator(store, reconcile.ProductSlotSpec(3), nil)

	created, err := g.Reconcile(context.Background(), "P1")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, created)
}

func TestReconcile_EmptyParentIsNoOp(t *testing.T) {
	store := newMemStore()
	g := reconcile.NewSetGenerator(store, reconcile.ProductSlotSpec(18), nil)

	created, err := g.Reconcile(context.Background(), "")
	assert.NoError(t, err)
	assert.Empty(t, created)
	assert.Equal(t, 0, store.creates)
}

func TestReconcile_InvalidSpec(t *testing.T) {
	g := reconcile.NewSetGenerator(newMemStore(), reconcile.ProductSlotSpec(0), nil)

	_, err := g.Reconcile(context.Background(), "P1")
	assert.ErrorIs(t, err, reconcile.ErrInvalidSpec)
}

func TestReconcile_CreateFailureStopsLoop(t *testing.T) {
	store := newMemStore()
	store.failCreateAt = 4
	obs := &recorder{}
	g := reconcile.NewSetGenerator(store, reconcile.ProductSlotSpec(18), obs)

	created, err := g.Reconcile(context.Background(), "P1")

	assert.ErrorIs(t, err, reconcile.ErrStoreFailure)
	assert.Contains(t, err.Error(), "constraint violation")
	assert.Equal(t, []string{"1", "2", "3"}, created)
	// Earlier creates are not rolled back.
	assert.Equal(t, []string{"1", "2", "3"}, store.values(reconcile.EntityProductSlot, reconcile.Filter{"product_model": "P1"}, "name"))
	assert.Equal(t, []string{"create:product_slots"}, obs.storeFailures)

	// A retry fills the gap.
	store.failCreateAt = 0
	created, err = g.Reconcile(context.Background(), "P1")
	require.NoError(t, err)
	assert.Len(t, created, 15)
}

func TestReconcile_QueryFailure(t *testing.T) {
	store := newMemStore()
	store.failOps["query:product_slots"] = assert.AnError
	g := reconcile.NewSetGenerator(store, reconcile.ProductSlotSpec(18), nil)

	created, err := g.Reconcile(context.Background(), "P1")
	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, created)
	assert.Equal(t, 0, store.creates)
}
