package reconcile

import "context"

// Record is a single row exchanged with a Store, keyed by column name.
type Record map[string]any

// Filter is a conjunction of equality conditions keyed by column name.
type Filter map[string]any

// Store is the CRUD/query contract the engine runs against.
// Implementations decide ordering of Query results; callers must not rely on it
// being stable across calls.
type Store interface {
	// Exists reports whether at least one record of entity matches filter.
	Exists(ctx context.Context, entity string, filter Filter) (bool, error)

	// Query returns the records of entity matching filter. When fields is empty
	// every column is returned.
	Query(ctx context.Context, entity string, filter Filter, fields ...string) ([]Record, error)

	// Create inserts a record and returns its identity.
	Create(ctx context.Context, entity string, fields Record) (string, error)

	// Delete removes the record with the given identity.
	// It returns ErrNotFound if no such record exists.
	Delete(ctx context.Context, entity string, id string) error
}

// Stage identifies where in the host's mutation lifecycle an event fires.
type Stage int

const (
	// PreCommit runs before the parent mutation is durably committed.
	// A rejection at this stage aborts the whole mutation.
	PreCommit Stage = iota + 1
	// PostCommit runs after the parent mutation committed.
	// Failures are reported but cannot undo the mutation.
	PostCommit
)

func (s Stage) String() string {
	switch s {
	case PreCommit:
		return "pre_commit"
	case PostCommit:
		return "post_commit"
	default:
		return "unknown"
	}
}

// MessageKind is the kind of mutation that produced an event.
type MessageKind string

const (
	MessageCreate MessageKind = "create"
	MessageUpdate MessageKind = "update"
	MessageDelete MessageKind = "delete"
)

// Event is what the host pipeline delivers for each qualifying mutation.
type Event struct {
	// Stage is the lifecycle point the event fires at.
	Stage Stage

	// Kind is the mutation kind (create or update).
	Kind MessageKind

	// Entity is the entity type of the mutated record.
	Entity string

	// PrimaryID is the identity of the mutated record. It may be empty for a
	// create at the pre-commit stage.
	PrimaryID string

	// ChangedFields lists the fields touched by the mutation.
	ChangedFields []string

	// Payload holds the proposed field values of the mutation.
	Payload Record

	// Depth is the host's transaction nesting depth. Writes issued while handling
	// an event arrive back with Depth > 1.
	Depth int

	// Origin tags the writer that caused the mutation, if known.
	Origin string
}

// HasChanged reports whether field is part of the event's changed-field set.
func (e Event) HasChanged(field string) bool {
	for _, f := range e.ChangedFields {
		if f == field {
			return true
		}
	}
	return false
}

// SlotSpec describes a fixed-set child collection: numbered children "1".."MaxSlots"
// hanging off a parent reference.
type SlotSpec struct {
	// ChildEntity is the entity type of the child records.
	ChildEntity string

	// ParentField is the child column holding the parent reference.
	ParentField string

	// KeyField is the child column holding the per-parent unique key.
	KeyField string

	// MaxSlots is the number of children generated per parent.
	MaxSlots int
}

// DerivedSpec describes a derived child collection recomputed from a catalog join.
type DerivedSpec struct {
	// ParentEntity is the entity type whose selection drives the children.
	ParentEntity string

	// SelectionField is the parent column holding the selection.
	SelectionField string

	// ChildEntity is the entity type of the derived children.
	ChildEntity string

	// ChildParentField is the child column referencing the parent.
	ChildParentField string

	// ChildSelectionField is the child column copying the selection.
	ChildSelectionField string

	// ChildSecondaryField is the child column holding the secondary key.
	ChildSecondaryField string

	// CatalogEntity is the entity type of the catalog entries.
	CatalogEntity string

	// CatalogSelectionField is the catalog column matched against the selection.
	CatalogSelectionField string

	// CatalogSecondaryField is the catalog column holding the secondary key.
	CatalogSecondaryField string
}

// Entity and column names of the product domain.
const (
	EntityProductModel     = "product_models"
	EntityProductSlot      = "product_slots"
	EntityProductOption    = "product_options"
	EntityProductQuotation = "product_quotations"
	EntityQuotationLine    = "generate_quotations"

	FieldID               = "id"
	FieldProductModel     = "product_model"
	FieldName             = "name"
	FieldSlot             = "slot"
	FieldProductQuotation = "product_quotation"
)

// ProductSlotSpec returns the slot collection of a product model.
func ProductSlotSpec(maxSlots int) SlotSpec {
	return SlotSpec{
		ChildEntity: EntityProductSlot,
		ParentField: FieldProductModel,
		KeyField:    FieldName,
		MaxSlots:    maxSlots,
	}
}

// QuotationSpec returns the quotation line collection of a product quotation.
func QuotationSpec() DerivedSpec {
	return DerivedSpec{
		ParentEntity:          EntityProductQuotation,
		SelectionField:        FieldProductModel,
		ChildEntity:           EntityQuotationLine,
		ChildParentField:      FieldProductQuotation,
		ChildSelectionField:   FieldProductModel,
		ChildSecondaryField:   FieldSlot,
		CatalogEntity:         EntityProductOption,
		CatalogSelectionField: FieldProductModel,
		CatalogSecondaryField: FieldSlot,
	}
}

// ResyncResult counts the children touched by a resync.
type ResyncResult struct {
	Deleted int `json:"deleted"`
	Created int `json:"created"`
}

// Action names the operation the engine ran for an event.
type Action string

const (
	ActionNone     Action = "none"
	ActionValidate Action = "validate"
	ActionGenerate Action = "generate"
	ActionResync   Action = "resync"
)

// Outcome reports what the engine did for a single event.
type Outcome struct {
	// Action is the operation that ran, or ActionNone when skipped.
	Action Action `json:"action"`

	// Skipped is true when trigger conditions were not met.
	Skipped bool `json:"skipped"`

	// Reason explains a skip.
	Reason string `json:"reason,omitempty"`

	// Created lists the slot keys created by a generate action.
	Created []string `json:"created,omitempty"`

	// Resync holds the counts of a resync action.
	Resync ResyncResult `json:"resync"`
}

func skipped(reason string) *Outcome {
	return &Outcome{Action: ActionNone, Skipped: true, Reason: reason}
}
