package reconcile_test

import (
	"context"
	"errors"
	"testing"

	"product-configurator/core/reconcile"
	"product-configurator/core/reconcile/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	store := newMemStore()
	store.seed(reconcile.EntityProductSlot, reconcile.Record{"product_model": "P1", "name": "5"})
	obs := &recorder{}
	v := reconcile.NewValidator(store, reconcile.ProductSlotSpec(18), obs)
	ctx := context.Background()

	tests := []struct {
		name    string
		parent  string
		key     string
		wantErr error
	}{
		{"Duplicate key", "P1", "5", reconcile.ErrDuplicateKey},
		{"Free key", "P1", "19", nil},
		{"Same key other parent", "P2", "5", nil},
		{"Empty key", "P1", "", reconcile.ErrMissingKey},
		{"Blank key", "P1", "   ", reconcile.ErrMissingKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(ctx, tt.parent, tt.key)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Equal(t, []string{"5", "", "   "}, obs.rejected)
}

func TestValidate_DuplicateKeyError(t *testing.T) {
	store := newMemStore()
	store.seed(reconcile.EntityProductSlot, reconcile.Record{"product_model": "P1", "name": "5"})
	v := reconcile.NewValidator(store, reconcile.ProductSlotSpec(18), nil)

	err := v.Validate(context.Background(), "P1", "5")

	var dup *reconcile.DuplicateKeyError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "P1", dup.Parent)
	assert.Equal(t, "5", dup.Key)
	assert.Equal(t, "slot '5' already exists for the selected model", err.Error())
}

func TestValidate_IsReadOnly(t *testing.T) {
	store := new(mocks.Store)
	store.On("Exists", mock.Anything, reconcile.EntityProductSlot, reconcile.Filter{
		"product_model": "P1",
		"name":          "3",
	}).Return(false, nil)

	v := reconcile.NewValidator(store, reconcile.ProductSlotSpec(18), nil)
	assert.NoError(t, v.Validate(context.Background(), "P1", "3"))

	store.AssertExpectations(t)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestValidate_StoreFailure(t *testing.T) {
	cause := errors.New("connection refused")
	store := new(mocks.Store)
	store.On("Exists", mock.Anything, mock.Anything, mock.Anything).Return(false, cause)
	obs := &recorder{}

	v := reconcile.NewValidator(store, reconcile.ProductSlotSpec(18), obs)
	err := v.Validate(context.Background(), "P1", "3")

	assert.ErrorIs(t, err, reconcile.ErrStoreFailure)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, []string{"exists:product_slots"}, obs.storeFailures)
}
