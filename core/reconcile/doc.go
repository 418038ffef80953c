// Package reconcile keeps child records in step with a selection made on their parent.
//
// Two collections are supported, both driven by trigger events delivered by a host
// pipeline:
//
//   - Slots: a fixed set of numbered children ("1".."MaxSlots") under a product model.
//     The Validator rejects duplicate keys before the mutation commits; the SetGenerator
//     creates missing keys after it commits.
//   - Quotation lines: a derived set recomputed from the option catalog whenever the
//     model selected on a quotation changes. The DiffReconciler deletes every existing
//     line and creates one line per distinct slot offered for the new model.
//
// # Stages
//
// Events carry an explicit Stage. A non-nil error returned at PreCommit must abort
// the host's whole mutation. Errors at PostCommit are reported; the parent mutation
// is already durable.
//
// # Reentrancy
//
// The engine ignores events with Depth > 1 and events whose Origin equals the
// configured origin tag, so writes it issues itself never trigger it again.
//
// # Concurrency
//
// Components hold no mutable state and may be shared. Calls for the same parent are
// not coordinated; the host must serialize mutations of one parent.
//
// # Usage
//
//	engine := reconcile.NewEngine(store, cfg.Reconcile, reconcile.NewZapObserver(log))
//	outcome, err := engine.Handle(ctx, reconcile.Event{
//	    Stage:   reconcile.PostCommit,
//	    Kind:    reconcile.MessageCreate,
//	    Entity:  reconcile.EntityProductSlot,
//	    Payload: reconcile.Record{"product_model": modelID, "name": "1"},
//	    Depth:   1,
//	})
package reconcile
