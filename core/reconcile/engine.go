package reconcile

import (
	"context"
	"strings"
)

// Engine routes trigger events to the Validator, SetGenerator and DiffReconciler.
type Engine struct {
	cfg       Config
	slots     SlotSpec
	derived   DerivedSpec
	validator *Validator
	generator *SetGenerator
	resync    *DiffReconciler
	observer  Observer
}

// NewEngine creates an engine over store using the product domain specs.
func NewEngine(store Store, cfg Config, observer Observer) *Engine {
	return NewEngineWithSpecs(store, cfg, ProductSlotSpec(cfg.MaxSlots), QuotationSpec(), observer)
}

// NewEngineWithSpecs creates an engine with explicit collection specs.
func NewEngineWithSpecs(store Store, cfg Config, slots SlotSpec, derived DerivedSpec, observer Observer) *Engine {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Engine{
		cfg:       cfg,
		slots:     slots,
		derived:   derived,
		validator: NewValidator(store, slots, observer),
		generator: NewSetGenerator(store, slots, observer),
		resync:    NewDiffReconciler(store, derived, observer),
		observer:  observer,
	}
}

// Origin returns the tag the host must attach to writes made on the engine's behalf.
func (e *Engine) Origin() string {
	return e.cfg.Origin
}

// Handle runs the operation matching ev. Events that do not meet the trigger
// conditions return a skipped Outcome and a nil error.
func (e *Engine) Handle(ctx context.Context, ev Event) (*Outcome, error) {
	if ev.Depth > 1 {
		return e.skip(ev, "nested trigger")
	}
	if ev.Origin != "" && ev.Origin == e.cfg.Origin {
		return e.skip(ev, "own write")
	}

	switch ev.Entity {
	case e.slots.ChildEntity:
		return e.handleSlot(ctx, ev)
	case e.derived.ParentEntity:
		return e.handleQuotation(ctx, ev)
	default:
		return e.skip(ev, "unhandled entity")
	}
}

func (e *Engine) handleSlot(ctx context.Context, ev Event) (*Outcome, error) {
	if ev.Kind != MessageCreate {
		return e.skip(ev, "not a create message")
	}

	parentID := stringValue(ev.Payload[e.slots.ParentField])
	if parentID == "" {
		return e.skip(ev, "no parent selected")
	}

	switch ev.Stage {
	case PreCommit:
		key := stringValue(ev.Payload[e.slots.KeyField])
		if err := e.validator.Validate(ctx, parentID, key); err != nil {
			return nil, err
		}
		return &Outcome{Action: ActionValidate}, nil
	case PostCommit:
		created, err := e.generator.Reconcile(ctx, parentID)
		return &Outcome{Action: ActionGenerate, Created: created}, err
	default:
		return e.skip(ev, "unknown stage")
	}
}

func (e *Engine) handleQuotation(ctx context.Context, ev Event) (*Outcome, error) {
	if ev.Stage != PostCommit {
		return e.skip(ev, "not post-commit")
	}
	if ev.Kind != MessageCreate && ev.Kind != MessageUpdate {
		return e.skip(ev, "not a create or update message")
	}
	if ev.Kind == MessageUpdate && !ev.HasChanged(e.derived.SelectionField) {
		return e.skip(ev, "selection unchanged")
	}

	selection := strings.TrimSpace(stringValue(ev.Payload[e.derived.SelectionField]))
	if selection == "" {
		return e.skip(ev, "selection is null")
	}
	if ev.PrimaryID == "" {
		return e.skip(ev, "no primary id")
	}

	res, err := e.resync.Resync(ctx, ev.PrimaryID, selection)
	return &Outcome{Action: ActionResync, Resync: res}, err
}

func (e *Engine) skip(ev Event, reason string) (*Outcome, error) {
	e.observer.Skipped(ev, reason)
	return skipped(reason), nil
}

// Validate runs the validator directly, outside of any trigger.
func (e *Engine) Validate(ctx context.Context, parentID, key string) error {
	return e.validator.Validate(ctx, parentID, key)
}

// Reconcile runs the set generator directly, outside of any trigger.
func (e *Engine) Reconcile(ctx context.Context, parentID string) ([]string, error) {
	return e.generator.Reconcile(ctx, parentID)
}

// Resync runs the diff reconciler directly, outside of any trigger.
func (e *Engine) Resync(ctx context.Context, parentID, selection string) (ResyncResult, error) {
	return e.resync.Resync(ctx, parentID, selection)
}
