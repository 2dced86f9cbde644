// =============================================================================
// I&C Cargo Billing Tool - Manifest Reader
// =============================================================================
//
// This module reads the raw manifest spreadsheet. It performs column selection
// only: every retained cell stays as text, and all cleaning (marker rows,
// fill-down, phone/name splitting, volume coercion) happens later in the
// normalizer. A missing or unreadable file is a fatal error; anything inside
// the cells is not.
//
// =============================================================================

package manifest

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// RawRow is one spreadsheet line after column selection, before any cleaning.
type RawRow struct {
	CustomerID   string
	ShippingMark string
	Contact      string
	MiscQty      string
	Volume       string
	ItemText     string

	// Line is the 1-based row number in the source sheet, kept for logging.
	Line int
}

// ReadRows reads the first sheet of the manifest workbook and maps each
// non-empty row to a RawRow using the given column layout.
func ReadRows(path string, cols Columns) ([]RawRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("manifest file has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	out := make([]RawRow, 0, len(rows))
	for i, row := range rows {
		if isRowEmpty(row) {
			continue
		}

		cell := func(idx int) string {
			if idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}

		out = append(out, RawRow{
			CustomerID:   cell(cols.CustomerID),
			ShippingMark: cell(cols.ShippingMark),
			Contact:      cell(cols.Contact),
			MiscQty:      cell(cols.MiscQty),
			Volume:       cell(cols.Volume),
			ItemText:     cell(cols.ItemText),
			Line:         i + 1,
		})
	}

	return out, nil
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
