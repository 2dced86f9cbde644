// =============================================================================
// I&C Cargo Billing Tool - Summary Spreadsheet Export
// =============================================================================
//
// One row per bill, same field set as the PDF invoice, written to a single
// "Summary" sheet. Money and volume columns are written as numbers so the
// spreadsheet stays sortable and summable.
//
// =============================================================================

package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/iccargo/billing-tool/internal/billing"
)

// SummarySheet is the name of the single sheet in the summary workbook.
const SummarySheet = "Summary"

var summaryHeader = []interface{}{
	"ShippingMark",
	"CustomerName",
	"Phone",
	"TotalCBM",
	"Rate_USD_per_CBM",
	"Subtotal_USD",
	"OtherCost_USD",
	"Total_USD",
	"InvoiceNumber",
	"ItemDescription",
}

// WriteSummary writes the consolidated bill report to an xlsx file.
func WriteSummary(bills []*billing.Bill, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}

	if err := f.SetSheetRow(SummarySheet, "A1", &summaryHeader); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}

	for i, b := range bills {
		row := []interface{}{
			b.MarksLabel(),
			b.CustomerName,
			b.Phone,
			b.TotalCBM.InexactFloat64(),
			b.RatePerCBM.InexactFloat64(),
			b.Subtotal.InexactFloat64(),
			b.OtherCost.InexactFloat64(),
			b.Total.InexactFloat64(),
			b.InvoiceNumber,
			b.ItemDescription,
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to locate summary row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row for %s: %w", b.CustomerName, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save summary file: %w", err)
	}
	return nil
}
