package reconcile_test

import (
	"context"
	"testing"

	"product-configurator/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapObserver(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	obs := reconcile.NewZapObserver(zap.New(core))

	store := newMemStore()
	store.seed(reconcile.EntityProductSlot, reconcile.Record{"product_model": "P1", "name": "1"})
	e := reconcile.NewEngine(store, reconcile.Config{MaxSlots: 2, Origin: "reconcile"}, obs)
	ctx := context.Background()

	_, err := e.Handle(ctx, slotEvent(reconcile.PreCommit, "P1", "1"))
	require.Error(t, err)
	_, err = e.Handle(ctx, slotEvent(reconcile.PostCommit, "P1", "1"))
	require.NoError(t, err)
	ev := slotEvent(reconcile.PostCommit, "P1", "1")
	ev.Depth = 2
	_, err = e.Handle(ctx, ev)
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 3)

	assert.Equal(t, "validation_rejected", entries[0].ContextMap()["event"])
	assert.Equal(t, "1", entries[0].ContextMap()["key"])
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)

	assert.Equal(t, "slots_created", entries[1].ContextMap()["event"])
	assert.Equal(t, int64(1), entries[1].ContextMap()["count"])

	assert.Equal(t, "skipped", entries[2].ContextMap()["event"])
	assert.Equal(t, "nested trigger", entries[2].ContextMap()["reason"])
	assert.Equal(t, "post_commit", entries[2].ContextMap()["stage"])
}

func TestNewZapObserver_NilLogger(t *testing.T) {
	obs := reconcile.NewZapObserver(nil)
	assert.NotPanics(t, func() { obs.SlotsCreated("P1", 3) })
}
