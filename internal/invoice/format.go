// =============================================================================
// I&C Cargo Billing Tool - Display Formatting
// =============================================================================
//
// Formatting helpers shared by the invoice template and the exporters. All
// rounding happens here, at display time; the Bill itself carries exact
// amounts.
//
// =============================================================================

package invoice

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MoneyUSD formats an amount as two-decimal USD with thousands separators,
// e.g. "$1,234.50".
func MoneyUSD(d decimal.Decimal) string {
	s := d.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// FormatCBM renders a volume with two decimals, as printed on invoices.
func FormatCBM(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// PaymentDetails renders the calculation line exactly as it appears on the
// invoice, e.g. "240*0.42".
func PaymentDetails(rate, cbm decimal.Decimal) string {
	return strconv.FormatInt(rate.IntPart(), 10) + "*" + FormatCBM(cbm)
}

// InvoiceDate renders the generation date in the invoice's house style,
// e.g. "05TH AUG, 2026".
func InvoiceDate(t time.Time) string {
	return strings.ToUpper(t.Format("02TH Jan, 2006"))
}
