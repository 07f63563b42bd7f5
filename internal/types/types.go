// =============================================================================
// Catalog Normalizer - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - codec
//   - transformer
//   - validation
//   - report
//
// =============================================================================

package types

// =============================================================================
// RECORD TYPES
// =============================================================================

// Record is a single catalog item decoded from the embedded JSON array.
//
// Keys are the JSON field names. Values keep the shape the decoder produced:
// string, json.Number, bool, nil, []any or map[string]any. Fields produced by
// the transformer (normalized prices, quantity, id) are int64.
type Record map[string]any

// Collection is an ordered sequence of records. The position of a record in
// the collection determines the id it is assigned.
type Collection []Record

// =============================================================================
// KNOWN FIELD NAMES
// =============================================================================

const (
	// FieldProductName is passed through untouched and used for reporting.
	FieldProductName = "product_name"

	// FieldPrice is the primary currency field.
	FieldPrice = "price"

	// FieldDiscountPrice is the discounted currency field. It is nullable
	// independently of FieldPrice.
	FieldDiscountPrice = "discount_price"

	// FieldQuantity is injected on every record.
	FieldQuantity = "quantity"

	// FieldID is injected on every record.
	FieldID = "id"
)

// Clone returns a shallow copy of the record. Nested maps and slices are
// shared with the original.
func (r Record) Clone() Record {
	out := make(Record, len(r)+2)
	for k, v := range r {
		out[k] = v
	}
	return out
}
