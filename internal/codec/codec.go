// Package codec reads and writes the embedded record array.
//
// Numbers are decoded as json.Number so that fields the transformer does not
// touch are written back exactly as they were read.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ginjaninja78/catalog-normalizer/internal/extractor"
	"github.com/ginjaninja78/catalog-normalizer/internal/types"
)

// DefaultIndent is one level of indentation when none is configured.
const DefaultIndent = "  "

// Decode parses a JSON array of objects. Any failure is reported as an
// extractor.ExtractionError wrapping extractor.ErrInvalidData.
func Decode(data []byte) (types.Collection, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw []types.Record
	if err := dec.Decode(&raw); err != nil {
		return nil, extractor.InvalidData(err)
	}
	if raw == nil {
		return nil, extractor.InvalidData(errors.New("top-level value is not an array"))
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, extractor.InvalidData(errors.New("trailing data after array"))
	}

	for i, rec := range raw {
		if rec == nil {
			return nil, extractor.InvalidData(fmt.Errorf("record %d is null", i+1))
		}
	}

	return types.Collection(raw), nil
}

// Encode writes records as an indented JSON array. Object keys are sorted,
// HTML characters are not escaped and no trailing newline is written.
//
// PARAMETERS:
//   - records: The records to encode. A nil collection encodes as "[]".
//   - prefix: Written at the start of every line after the first.
//   - indent: One level of indentation.
func Encode(records types.Collection, prefix, indent string) ([]byte, error) {
	if records == nil {
		records = types.Collection{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent(prefix, indent)

	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("failed to encode records: %w", err)
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
