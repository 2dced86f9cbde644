// =============================================================================
// I&C Cargo Billing Tool - Invoice Renderer
// =============================================================================
//
// This module maps a Bill into the invoice HTML template and hands the result
// to the PDF engine. The only logic here is field mapping and display
// formatting; layout belongs to the template and PDF conversion belongs to
// the engine.
//
// =============================================================================

package invoice

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	_ "embed"

	"github.com/iccargo/billing-tool/internal/billing"
)

//go:embed template.html
var templateHTML string

var invoiceTmpl = template.Must(template.New("invoice").Parse(templateHTML))

// Engine converts a rendered HTML document into PDF bytes. The production
// implementation drives a headless browser; tests substitute a stub.
type Engine interface {
	Render(ctx context.Context, html string) ([]byte, error)
}

// fields are the template's named slots.
type fields struct {
	InvoiceNo        string
	InvoiceDate      string
	CustomerName     string
	Location         string
	Phone            string
	ShippingMarks    []string
	ItemDescription  string
	CBM              string
	RateUSD          string
	PaymentDetails   string
	SubtotalUSD      string
	OtherCostUSD     string
	TotalUSD         string
	Breakdown        []breakdownRow
	MinChargeApplies bool
}

type breakdownRow struct {
	ShippingMark string
	Quantity     int
	CBM          string
}

// Renderer turns Bills into PDF invoices.
type Renderer struct {
	engine Engine
}

// NewRenderer creates a renderer backed by the given PDF engine.
func NewRenderer(engine Engine) *Renderer {
	return &Renderer{engine: engine}
}

// HTML fills the invoice template for a bill. Exposed separately from
// RenderPDF so the output can be inspected without a browser.
func (r *Renderer) HTML(bill *billing.Bill, generated time.Time) (string, error) {
	data := fields{
		InvoiceNo:        bill.InvoiceNumber,
		InvoiceDate:      InvoiceDate(generated),
		CustomerName:     bill.CustomerName,
		Location:         bill.Location,
		Phone:            bill.Phone,
		ShippingMarks:    marksOrDefault(bill),
		ItemDescription:  bill.ItemDescription,
		CBM:              FormatCBM(bill.TotalCBM),
		RateUSD:          MoneyUSD(bill.RatePerCBM),
		PaymentDetails:   PaymentDetails(bill.RatePerCBM, bill.TotalCBM),
		SubtotalUSD:      MoneyUSD(bill.Subtotal),
		OtherCostUSD:     MoneyUSD(bill.OtherCost),
		TotalUSD:         MoneyUSD(bill.Total),
		MinChargeApplies: bill.MinChargeApplies,
	}

	for _, item := range bill.Breakdown {
		data.Breakdown = append(data.Breakdown, breakdownRow{
			ShippingMark: item.ShippingMark,
			Quantity:     item.Quantity,
			CBM:          FormatCBM(item.CBM),
		})
	}

	var buf bytes.Buffer
	if err := invoiceTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to fill invoice template: %w", err)
	}
	return buf.String(), nil
}

// RenderPDF fills the template and materializes it through the PDF engine.
func (r *Renderer) RenderPDF(ctx context.Context, bill *billing.Bill, generated time.Time) ([]byte, error) {
	html, err := r.HTML(bill, generated)
	if err != nil {
		return nil, err
	}

	pdf, err := r.engine.Render(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("pdf engine failed: %w", err)
	}
	return pdf, nil
}

func marksOrDefault(bill *billing.Bill) []string {
	if len(bill.ShippingMarks) == 0 {
		return []string{billing.NoShippingMark}
	}
	return bill.ShippingMarks
}
