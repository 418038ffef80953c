package reconcile

import (
	"context"
	"strings"

	"product-configurator/core/utils"
)

// Validator rejects a proposed child key that already exists under its parent.
// It only reads from the store.
type Validator struct {
	store    Store
	spec     SlotSpec
	observer Observer
}

// NewValidator creates a Validator for the given slot collection.
func NewValidator(store Store, spec SlotSpec, observer Observer) *Validator {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Validator{store: store, spec: spec, observer: observer}
}

// Validate returns nil when key may be created under parentID.
// It returns ErrMissingKey for a blank key and a *DuplicateKeyError when the
// (parent, key) pair is taken.
func (v *Validator) Validate(ctx context.Context, parentID, key string) error {
	if strings.TrimSpace(key) == "" {
		v.observer.ValidationRejected(parentID, key, ErrMissingKey)
		return ErrMissingKey
	}

	exists, err := v.store.Exists(ctx, v.spec.ChildEntity, Filter{
		v.spec.ParentField: parentID,
		v.spec.KeyField:    key,
	})
	if err != nil {
		err = storeErr("exists", v.spec.ChildEntity, err)
		v.observer.StoreFailed("exists", v.spec.ChildEntity, err)
		return err
	}

	if exists {
		dup := &DuplicateKeyError{Parent: parentID, Key: key}
		v.observer.ValidationRejected(parentID, key, dup)
		return dup
	}

	return nil
}

// stringValue converts a store value to its string form, mapping nil to "".
func stringValue(v any) string {
	if v == nil {
		return ""
	}
	return utils.ToString(v)
}
