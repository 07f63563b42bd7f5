// =============================================================================
// Catalog Normalizer - Record Transformer
// =============================================================================
//
// This module rewrites currency-formatted string fields into integers and
// enriches every record with a random quantity and a sequential id.
//
// TRANSFORMATION STEPS (per record, in collection order):
//   1. For each currency field ("price", "discount_price" by default):
//        - the null sentinel ("null") is left untouched
//        - a string has every non-digit character removed and is parsed
//          as a non-negative integer ("Rp12.500" -> 12500)
//        - a number or a JSON null is passed through
//   2. "quantity" is drawn uniformly from [QuantityMin, QuantityMax]
//   3. "id" is set from an explicit counter which is then incremented
//
// FAILURE SEMANTICS:
//   The first malformed currency field aborts the whole transform. The input
//   collection is never mutated and no partial output is returned.
//
// =============================================================================

package transformer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ginjaninja78/catalog-normalizer/internal/types"
)

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// DefaultNullSentinel marks a field that has no value while staying
	// textually present.
	DefaultNullSentinel = "null"

	// DefaultQuantityMin is the inclusive lower bound for injected quantities.
	DefaultQuantityMin = 1

	// DefaultQuantityMax is the inclusive upper bound for injected quantities.
	DefaultQuantityMax = 100

	// DefaultFirstID is the id assigned to the first record.
	DefaultFirstID int64 = 1
)

// DefaultCurrencyFields returns the fields normalized when Options does not
// name any.
func DefaultCurrencyFields() []string {
	return []string{types.FieldPrice, types.FieldDiscountPrice}
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a Transformer. Zero values are replaced with defaults.
type Options struct {
	// CurrencyFields are the fields holding currency-formatted strings.
	CurrencyFields []string

	// NullSentinel is the literal string that is never coerced.
	NullSentinel string

	// QuantityMin and QuantityMax bound the injected quantity (inclusive).
	QuantityMin int
	QuantityMax int

	// Random supplies quantities. Nil means the process-wide generator.
	Random RandomSource
}

// =============================================================================
// TRANSFORMER
// =============================================================================

// Transformer normalizes and enriches record collections.
//
// A Transformer holds no mutable state of its own; the id counter is passed
// in and returned by Transform. The random source may carry state, so a
// seeded Transformer should not be shared between goroutines.
type Transformer struct {
	fields   []string
	sentinel string
	qtyMin   int
	qtyMax   int
	random   RandomSource
}

// Stats summarizes what a transform did.
type Stats struct {
	// Records is the number of records processed.
	Records int

	// Normalized counts currency values parsed from strings.
	Normalized int

	// SentinelsKept counts currency values equal to the null sentinel.
	SentinelsKept int

	// PassedThrough counts currency values that were already numeric or null.
	PassedThrough int
}

// Outcome is the full result of Run.
type Outcome struct {
	Records types.Collection
	NextID  int64
	Stats   Stats
}

// New creates a Transformer, applying defaults to unset options.
//
// RETURNS:
//   - An error if the quantity range is empty or below 1.
func New(opts Options) (*Transformer, error) {
	if len(opts.CurrencyFields) == 0 {
		opts.CurrencyFields = DefaultCurrencyFields()
	}
	if opts.NullSentinel == "" {
		opts.NullSentinel = DefaultNullSentinel
	}
	if opts.QuantityMin == 0 && opts.QuantityMax == 0 {
		opts.QuantityMin = DefaultQuantityMin
		opts.QuantityMax = DefaultQuantityMax
	}
	if opts.QuantityMin < 1 {
		return nil, fmt.Errorf("quantity minimum must be at least 1, got %d", opts.QuantityMin)
	}
	if opts.QuantityMax < opts.QuantityMin {
		return nil, fmt.Errorf("quantity range [%d, %d] is empty", opts.QuantityMin, opts.QuantityMax)
	}
	if opts.Random == nil {
		opts.Random = globalSource{}
	}

	fields := make([]string, len(opts.CurrencyFields))
	copy(fields, opts.CurrencyFields)

	return &Transformer{
		fields:   fields,
		sentinel: opts.NullSentinel,
		qtyMin:   opts.QuantityMin,
		qtyMax:   opts.QuantityMax,
		random:   opts.Random,
	}, nil
}

// Transform normalizes records using default options, numbering from 1.
func Transform(records types.Collection) (types.Collection, error) {
	t, err := New(Options{})
	if err != nil {
		return nil, err
	}
	out, _, err := t.Transform(records, DefaultFirstID)
	return out, err
}

// Transform returns a new collection with every record normalized and
// enriched, and the id that the next record would receive.
//
// PARAMETERS:
//   - records: The records to transform. They are not modified.
//   - nextID: The id assigned to the first record.
//
// RETURNS:
//   - The transformed collection (nil on error).
//   - The counter value after the last record (nextID on error).
//   - A *FormatError if any currency field is malformed.
func (t *Transformer) Transform(records types.Collection, nextID int64) (types.Collection, int64, error) {
	outcome, err := t.Run(records, nextID)
	if err != nil {
		return nil, nextID, err
	}
	return outcome.Records, outcome.NextID, nil
}

// Run is Transform with statistics.
func (t *Transformer) Run(records types.Collection, nextID int64) (*Outcome, error) {
	out := make(types.Collection, len(records))
	stats := Stats{}
	id := nextID

	for i, rec := range records {
		next := rec.Clone()

		for _, field := range t.fields {
			value, ok := next[field]
			if !ok {
				continue
			}

			normalized, action, err := t.normalizeCurrency(value)
			if err != nil {
				return nil, &FormatError{Index: i + 1, Field: field, Value: value, Err: err}
			}

			switch action {
			case actionNormalized:
				next[field] = normalized
				stats.Normalized++
			case actionSentinel:
				stats.SentinelsKept++
			case actionPassThrough:
				stats.PassedThrough++
			}
		}

		next[types.FieldQuantity] = int64(t.qtyMin + t.random.IntN(t.qtyMax-t.qtyMin+1))
		next[types.FieldID] = id
		id++

		out[i] = next
	}

	stats.Records = len(out)
	return &Outcome{Records: out, NextID: id, Stats: stats}, nil
}

// =============================================================================
// CURRENCY NORMALIZATION
// =============================================================================

type currencyAction int

const (
	actionNormalized currencyAction = iota
	actionSentinel
	actionPassThrough
)

// normalizeCurrency decides what happens to one currency value.
//
// A value that is already a number, or a JSON null, is treated as already
// normalized. Booleans, arrays and objects cannot be prices.
func (t *Transformer) normalizeCurrency(value any) (any, currencyAction, error) {
	switch v := value.(type) {
	case nil:
		return nil, actionPassThrough, nil
	case string:
		if v == t.sentinel {
			return v, actionSentinel, nil
		}
		n, err := ParseCurrency(v)
		if err != nil {
			return nil, actionNormalized, err
		}
		return n, actionNormalized, nil
	case json.Number, int, int32, int64, uint, uint32, uint64, float32, float64:
		return v, actionPassThrough, nil
	default:
		return nil, actionNormalized, fmt.Errorf("%w: unsupported value type %T", ErrFormat, value)
	}
}

// ParseCurrency strips every character that is not an ASCII decimal digit
// and parses what remains as a non-negative integer.
//
// EXAMPLE:
//
//	ParseCurrency("Rp12.500")  -> 12500
//	ParseCurrency("$ 1,299")   -> 1299
//	ParseCurrency("N/A")       -> error (no digits)
func ParseCurrency(s string) (int64, error) {
	digits := StripNonDigits(s)
	if digits == "" {
		return 0, fmt.Errorf("%w: no digits in %q", ErrFormat, s)
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return n, nil
}

// StripNonDigits keeps only the characters '0' through '9'. Digits from
// other scripts (Arabic-Indic, fullwidth, ...) are dropped like any other
// non-digit, so "Rp ١٢٣" strips to "" and fails ParseCurrency. Catalog
// prices are written with ASCII digits and no locale-aware parsing is done.
func StripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
