// =============================================================================
// Catalog Normalizer - Operator Report
// =============================================================================
//
// This module renders what a normalize run did for a human reviewing it:
//   - a console summary of the first N transformed records, listing every
//     field with its value and its Go runtime type
//   - run totals (records, normalized values, sentinels kept)
//   - an optional XLSX workbook with every transformed record
//
// =============================================================================

package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/catalog-normalizer/internal/transformer"
	"github.com/ginjaninja78/catalog-normalizer/internal/types"
)

// leadingColumns are listed first, in this order, when present.
var leadingColumns = []string{
	types.FieldID,
	types.FieldProductName,
	types.FieldPrice,
	types.FieldDiscountPrice,
	types.FieldQuantity,
}

// Totals are the run-level numbers printed after the record listing.
type Totals struct {
	InputFile    string
	OutputFile   string
	BackupFile   string
	WorkbookFile string
	DryRun       bool
	Stats        transformer.Stats
	Warnings     int
	Duration     time.Duration
}

// WriteSummary prints up to limit records. A limit of zero or less prints
// only the header line.
func WriteSummary(w io.Writer, records types.Collection, limit int) error {
	shown := limit
	if shown < 0 {
		shown = 0
	}
	if shown > len(records) {
		shown = len(records)
	}

	ew := &errWriter{w: w}
	ew.printf("=== Transformed Records (showing %d of %d) ===\n", shown, len(records))

	for i := 0; i < shown; i++ {
		rec := records[i]
		keys := OrderedKeys(rec)

		width := 0
		for _, k := range keys {
			if len(k) > width {
				width = len(k)
			}
		}

		ew.printf("\nRecord %d\n", i+1)
		for _, k := range keys {
			v := rec[k]
			ew.printf("  %-*s : %s (%T)\n", width, k, FormatValue(v), v)
		}
	}

	return ew.err
}

// WriteTotals prints the run totals.
func WriteTotals(w io.Writer, t Totals) error {
	ew := &errWriter{w: w}

	ew.printf("\n=== Normalization Complete ===\n")
	ew.printf("Input file:        %s\n", t.InputFile)
	switch {
	case t.DryRun:
		ew.printf("Output file:       (dry run, nothing written)\n")
	case t.OutputFile != "":
		ew.printf("Output file:       %s\n", t.OutputFile)
	}
	if t.BackupFile != "" {
		ew.printf("Backup file:       %s\n", t.BackupFile)
	}
	if t.WorkbookFile != "" {
		ew.printf("Workbook:          %s\n", t.WorkbookFile)
	}
	ew.printf("Records:           %d\n", t.Stats.Records)
	ew.printf("Prices normalized: %d\n", t.Stats.Normalized)
	ew.printf("Sentinels kept:    %d\n", t.Stats.SentinelsKept)
	ew.printf("Passed through:    %d\n", t.Stats.PassedThrough)
	ew.printf("Warnings:          %d\n", t.Warnings)
	ew.printf("Time elapsed:      %s\n", t.Duration)

	return ew.err
}

// OrderedKeys returns the record's keys with the well-known fields first and
// the rest sorted.
func OrderedKeys(rec types.Record) []string {
	keys := make([]string, 0, len(rec))
	seen := make(map[string]bool, len(leadingColumns))

	for _, k := range leadingColumns {
		if _, ok := rec[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}

	rest := make([]string, 0, len(rec))
	for k := range rec {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)

	return append(keys, rest...)
}

// FormatValue renders a field value for the console. Strings are quoted so
// the "null" sentinel is distinguishable from a JSON null.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(val)
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = FormatValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("%v", val)
	}
}

// errWriter keeps the first write error so callers check once.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
