package extractor

import (
	"errors"
	"fmt"
)

var (
	// ErrStartMarkerNotFound means the text has no opening marker.
	ErrStartMarkerNotFound = errors.New("start marker not found")

	// ErrEndMarkerNotFound means no closing marker follows the opening one.
	ErrEndMarkerNotFound = errors.New("end marker not found")

	// ErrMarkersOverlap means the last end marker sits inside the start marker.
	ErrMarkersOverlap = errors.New("end marker precedes start of block")

	// ErrEmptyMarker means an extractor was configured without a marker.
	ErrEmptyMarker = errors.New("marker must not be empty")

	// ErrInvalidData means the extracted block is not a valid record array.
	ErrInvalidData = errors.New("invalid structured data")
)

// ExtractionError reports a failure to locate or decode the embedded block.
type ExtractionError struct {
	// Marker is the marker involved, if any.
	Marker string

	// Offset is the byte offset involved, if any.
	Offset int

	// Err is one of the sentinel errors above, possibly wrapping a decoder error.
	Err error
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	if e.Marker != "" {
		return fmt.Sprintf("extraction failed: %v (marker %q)", e.Err, e.Marker)
	}
	return fmt.Sprintf("extraction failed: %v", e.Err)
}

// Unwrap returns the underlying cause.
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// InvalidData wraps a decoding failure as an ExtractionError.
func InvalidData(err error) error {
	return &ExtractionError{Err: fmt.Errorf("%w: %w", ErrInvalidData, err)}
}
