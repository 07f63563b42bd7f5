package transformer

import (
	"errors"
	"fmt"
)

// ErrFormat is matched by every FormatError via errors.Is.
var ErrFormat = errors.New("malformed currency value")

// FormatError reports a currency field that could not be reduced to an
// integer. It carries enough context to locate and fix the source data.
type FormatError struct {
	// Index is the 1-based position of the record in the collection.
	Index int

	// Field is the name of the offending field.
	Field string

	// Value is the raw value as decoded.
	Value any

	// Err is the underlying parse failure.
	Err error
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("record %d, field '%s': cannot normalize %#v: %v", e.Index, e.Field, e.Value, e.Err)
}

// Unwrap returns the underlying parse failure.
func (e *FormatError) Unwrap() error {
	return e.Err
}
