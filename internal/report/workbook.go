package report

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/catalog-normalizer/internal/types"
)

// DefaultSheetName is the sheet WriteWorkbook fills.
const DefaultSheetName = "Records"

// WriteWorkbook exports every record to an XLSX file at path.
//
// The header row holds the union of all record keys: the well-known fields
// first, the rest sorted. Integers and json.Number values are written as
// numbers; nested values are written as their JSON text.
func WriteWorkbook(path string, records types.Collection) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := DefaultSheetName
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	columns := Columns(records)

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, rec := range records {
		row := make([]any, len(columns))
		for j, c := range columns {
			v, ok := rec[c]
			if !ok {
				continue
			}
			row[j] = cellValue(v)
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if len(columns) > 0 {
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return fmt.Errorf("failed to freeze header: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	return nil
}

// Columns returns the union of record keys in report order.
func Columns(records types.Collection) []string {
	seen := make(map[string]bool)
	var columns []string

	for _, k := range leadingColumns {
		for _, rec := range records {
			if _, ok := rec[k]; ok {
				columns = append(columns, k)
				seen[k] = true
				break
			}
		}
	}

	var rest []string
	for _, rec := range records {
		for k := range rec {
			if !seen[k] {
				seen[k] = true
				rest = append(rest, k)
			}
		}
	}
	sort.Strings(rest)

	return append(columns, rest...)
}

// cellValue converts a record value into something excelize writes natively.
func cellValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return n
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case string, bool, int, int64, float64:
		return val
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(data)
	}
}
