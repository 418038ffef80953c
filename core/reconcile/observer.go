package reconcile

import "go.uber.org/zap"

// Observer receives discrete events emitted while reconciling.
// Implementations must not block; they run inline with the operation.
type Observer interface {
	// ValidationRejected fires when Validate rejects a proposed key.
	ValidationRejected(parent, key string, err error)
	// SlotsCreated fires after Reconcile with the number of children it created.
	SlotsCreated(parent string, count int)
	// ResyncDeleted fires after the delete phase of Resync.
	ResyncDeleted(parent string, count int)
	// ResyncCreated fires after the build phase of Resync.
	ResyncCreated(parent string, count int)
	// StoreFailed fires before a store failure is returned to the caller.
	StoreFailed(op, entity string, err error)
	// Skipped fires when the engine short-circuits an event.
	Skipped(ev Event, reason string)
}

// NopObserver discards every event.
type NopObserver struct{}

func (NopObserver) ValidationRejected(string, string, error) {}
func (NopObserver) SlotsCreated(string, int)                 {}
func (NopObserver) ResyncDeleted(string, int)                {}
func (NopObserver) ResyncCreated(string, int)                {}
func (NopObserver) StoreFailed(string, string, error)        {}
func (NopObserver) Skipped(Event, string)                    {}

// ZapObserver writes every event as a structured zap entry.
type ZapObserver struct {
	logger *zap.Logger
}

// NewZapObserver creates an observer that logs through l.
func NewZapObserver(l *zap.Logger) *ZapObserver {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapObserver{logger: l}
}

func (o *ZapObserver) ValidationRejected(parent, key string, err error) {
	o.logger.Warn("Validation rejected",
		zap.String("event", "validation_rejected"),
		zap.String("parent", parent),
		zap.String("key", key),
		zap.Error(err),
	)
}

func (o *ZapObserver) SlotsCreated(parent string, count int) {
	o.logger.Info("Slots created",
		zap.String("event", "slots_created"),
		zap.String("parent", parent),
		zap.Int("count", count),
	)
}

func (o *ZapObserver) ResyncDeleted(parent string, count int) {
	o.logger.Info("Resync deleted children",
		zap.String("event", "resync_deleted"),
		zap.String("parent", parent),
		zap.Int("count", count),
	)
}

func (o *ZapObserver) ResyncCreated(parent string, count int) {
	o.logger.Info("Resync created children",
		zap.String("event", "resync_created"),
		zap.String("parent", parent),
		zap.Int("count", count),
	)
}

func (o *ZapObserver) StoreFailed(op, entity string, err error) {
	o.logger.Error("Store operation failed",
		zap.String("event", "store_failed"),
		zap.String("op", op),
		zap.String("entity", entity),
		zap.Error(err),
	)
}

func (o *ZapObserver) Skipped(ev Event, reason string) {
	o.logger.Debug("Event skipped",
		zap.String("event", "skipped"),
		zap.String("entity", ev.Entity),
		zap.String("stage", ev.Stage.String()),
		zap.Int("depth", ev.Depth),
		zap.String("reason", reason),
	)
}
