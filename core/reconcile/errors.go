package reconcile

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingKey is returned when the child-identifying field is absent or blank.
	ErrMissingKey = errors.New("reconcile: slot key is required and cannot be empty")

	// ErrDuplicateKey matches any *DuplicateKeyError.
	ErrDuplicateKey = errors.New("reconcile: duplicate key")

	// ErrStoreFailure matches any *StoreError.
	ErrStoreFailure = errors.New("reconcile: store failure")

	// ErrNotFound is returned by Store.Delete when the record does not exist.
	ErrNotFound = errors.New("reconcile: record not found")

	// ErrInvalidSpec is returned when a component is configured with an unusable spec.
	ErrInvalidSpec = errors.New("reconcile: invalid spec")
)

// DuplicateKeyError reports that a key already exists under a parent.
type DuplicateKeyError struct {
	Parent string
	Key    string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("slot '%s' already exists for the selected model", e.Key)
}

// Is makes errors.Is(err, ErrDuplicateKey) hold.
func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// StoreError wraps a failed Store call with the operation and entity involved.
type StoreError struct {
	Op     string
	Entity string
	Err    error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrStoreFailure) hold.
func (e *StoreError) Is(target error) bool {
	return target == ErrStoreFailure
}

func storeErr(op, entity string, err error) error {
	return &StoreError{Op: op, Entity: entity, Err: err}
}
