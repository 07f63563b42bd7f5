// =============================================================================
// Catalog Normalizer - Block Extractor
// =============================================================================
//
// This module locates the serialized record array embedded inside a larger
// text file, so the rest of the pipeline never depends on the host format.
//
// LOCATION RULES:
//   - The block starts right after the FIRST occurrence of the start marker.
//   - The block ends right before the LAST occurrence of the end marker,
//     i.e. the nearest one found when scanning from the end of the file.
//
// EXAMPLE (defaults: both markers are a backtick):
//
//	package dummy
//
//	const CasingData = `[ {"product_name": "..."} ]`
//	                    ^                          ^
//	                    start marker               end marker
//
// =============================================================================

package extractor

import (
	"strings"
)

// DefaultMarker delimits a Go raw string literal.
const DefaultMarker = "`"

// Block describes where the embedded data sits inside the host text.
type Block struct {
	// Start is the byte offset of the first byte of the body.
	Start int

	// End is the byte offset one past the last byte of the body.
	End int

	// Body is text[Start:End].
	Body string
}

// Extractor finds the embedded data block in a text.
type Extractor interface {
	Extract(text string) (Block, error)
}

// MarkerExtractor finds a block between a start and an end marker.
type MarkerExtractor struct {
	StartMarker string
	EndMarker   string
}

// NewMarkerExtractor creates a MarkerExtractor. Empty markers fall back to
// DefaultMarker.
func NewMarkerExtractor(start, end string) *MarkerExtractor {
	if start == "" {
		start = DefaultMarker
	}
	if end == "" {
		end = DefaultMarker
	}
	return &MarkerExtractor{StartMarker: start, EndMarker: end}
}

// Extract implements Extractor.
func (m *MarkerExtractor) Extract(text string) (Block, error) {
	if m.StartMarker == "" || m.EndMarker == "" {
		return Block{}, &ExtractionError{Err: ErrEmptyMarker}
	}

	open := strings.Index(text, m.StartMarker)
	if open < 0 {
		return Block{}, &ExtractionError{Marker: m.StartMarker, Err: ErrStartMarkerNotFound}
	}
	start := open + len(m.StartMarker)

	end := strings.LastIndex(text, m.EndMarker)
	if end < 0 {
		return Block{}, &ExtractionError{Marker: m.EndMarker, Err: ErrEndMarkerNotFound}
	}
	if end < start {
		// With identical markers a single occurrence is both the opening
		// and the closing one, so there is no closing marker at all.
		if m.StartMarker == m.EndMarker && end == open {
			return Block{}, &ExtractionError{Marker: m.EndMarker, Offset: open, Err: ErrEndMarkerNotFound}
		}
		return Block{}, &ExtractionError{Marker: m.EndMarker, Offset: end, Err: ErrMarkersOverlap}
	}

	return Block{Start: start, End: end, Body: text[start:end]}, nil
}

// Splice returns text with the block body replaced by body. Everything
// outside [block.Start, block.End), including both markers, is unchanged.
func Splice(text string, block Block, body string) string {
	var b strings.Builder
	b.Grow(len(text) - (block.End - block.Start) + len(body))
	b.WriteString(text[:block.Start])
	b.WriteString(body)
	b.WriteString(text[block.End:])
	return b.String()
}
