// =============================================================================
// I&C Cargo Billing Tool - Bill Record
// =============================================================================
//
// Bill is the aggregated invoice record for one customer for one run. All
// billing totals are computed once at construction so renderers and exporters
// read a stable snapshot; nothing mutates a Bill after newBill returns.
//
// BILLING FORMULA:
//   subtotal = total_cbm * rate            when total_cbm >= 0.05
//   subtotal = max(total_cbm * rate, $10)  when total_cbm <  0.05
//   total    = subtotal + other_cost
//
// Amounts are exact decimals; rounding happens only at display time.
//
// =============================================================================

package billing

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Display defaults used when a group never yields the field.
const (
	UnknownCustomer = "UNKNOWN"
	NoPhone         = "NO_PHONE"
	NoShippingMark  = "NO_SHIPPING_MARK"
)

// minChargeThreshold is the CBM value below which the flat minimum applies.
// The boundary is exclusive: exactly 0.05 CBM is billed by the rate formula.
var minChargeThreshold = decimal.New(5, -2) // 0.05

// minCharge is the flat minimum in USD.
var minCharge = decimal.New(10, 0)

// Params are the run-level billing inputs shared by every Bill in a run.
type Params struct {
	// RatePerCBM is the USD rate per cubic meter. Must be positive.
	RatePerCBM decimal.Decimal

	// OtherCost is an extra USD amount added to every bill's total.
	OtherCost decimal.Decimal

	// Location is printed on every invoice.
	Location string

	// InvoicePrefix is the literal prefix of generated invoice numbers.
	InvoicePrefix string
}

// Validate checks the run-level inputs before any processing starts.
func (p Params) Validate() error {
	if p.RatePerCBM.Sign() <= 0 {
		return fmt.Errorf("rate per CBM must be positive, got %s", p.RatePerCBM)
	}
	if p.OtherCost.Sign() < 0 {
		return fmt.Errorf("other cost must not be negative, got %s", p.OtherCost)
	}
	return nil
}

// BreakdownItem is the per-shipping-mark detail printed on the invoice:
// one line per distinct mark with its summed quantity and volume.
type BreakdownItem struct {
	ShippingMark string
	Quantity     int
	CBM          decimal.Decimal
}

// Bill is the computed invoice record for one customer.
type Bill struct {
	// CustomerKey is the grouping key the bill was built under
	// (phone, falling back to name, customer id, then UNKNOWN).
	CustomerKey string

	CustomerName string
	Phone        string
	CustomerID   string
	Location     string

	// ShippingMarks are the customer's distinct marks in first-seen order.
	ShippingMarks []string

	ItemDescription string
	Breakdown       []BreakdownItem

	TotalCBM   decimal.Decimal
	RatePerCBM decimal.Decimal
	OtherCost  decimal.Decimal
	Subtotal   decimal.Decimal
	Total      decimal.Decimal

	// MinChargeApplies records that the volume fell under the 0.05 CBM
	// threshold, for the notice line on invoices and messages.
	MinChargeApplies bool

	InvoiceNumber string
}

// newBill finalizes a bill, computing the money fields and stamping the
// invoice number.
func newBill(b Bill, p Params, now time.Time) *Bill {
	b.RatePerCBM = p.RatePerCBM
	b.OtherCost = p.OtherCost
	b.Location = p.Location

	raw := b.TotalCBM.Mul(p.RatePerCBM)
	if b.TotalCBM.LessThan(minChargeThreshold) {
		b.MinChargeApplies = true
		b.Subtotal = decimal.Max(raw, minCharge)
	} else {
		b.Subtotal = raw
	}
	b.Total = b.Subtotal.Add(p.OtherCost)

	b.InvoiceNumber = invoiceNumber(p.InvoicePrefix, now)
	return &b
}

// MarksLabel joins the bill's shipping marks for display.
func (b *Bill) MarksLabel() string {
	if len(b.ShippingMarks) == 0 {
		return NoShippingMark
	}
	out := b.ShippingMarks[0]
	for _, m := range b.ShippingMarks[1:] {
		out += ", " + m
	}
	return out
}

// invoiceNumber builds "<prefix><year><8 digits>". The numeric token comes
// from a fresh UUID, so numbers are unique within a run with overwhelming
// probability but deliberately not sequential and not guaranteed globally
// unique.
func invoiceNumber(prefix string, now time.Time) string {
	u := uuid.New()
	token := binary.BigEndian.Uint32(u[:4]) % 100_000_000
	return fmt.Sprintf("%s%d%08d", prefix, now.Year(), token)
}
