package product

import "errors"

var (
	// ErrMissingID is returned for an update or delete without a target id.
	ErrMissingID = errors.New("mutation requires an id")
	// ErrInvalidInput is returned for malformed request data.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoSelection is returned when resyncing a quotation without a product model.
	ErrNoSelection = errors.New("quotation has no product model selected")
)
