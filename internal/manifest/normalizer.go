// =============================================================================
// I&C Cargo Billing Tool - Row Normalizer
// =============================================================================
//
// This module cleans the raw manifest rows:
//   1. Drop container batch-header lines (fixed literal markers in the
//      customer-id column).
//   2. Forward-fill blank identity fields from the nearest preceding row that
//      had them. A manifest entry may span several physical rows of which
//      only the first carries the customer header.
//   3. Split the contact cell into (phone, name).
//   4. Coerce the volume cell to a number; unparsable values become 0 and the
//      row is retained, because a zero-volume line may still carry a shipping
//      mark or item text the customer's other rows need.
//   5. Normalize the shipping mark (uppercase, collapsed whitespace).
//
// This is a batch tool over dirty real-world exports: no cell value is ever
// a fatal error. Every unparsable value degrades to a safe default.
//
// =============================================================================

package manifest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// minPhoneDigits is the shortest digit run treated as a phone number when
// splitting the contact cell. Shorter runs stay part of the name.
const minPhoneDigits = 7

var phonePattern = regexp.MustCompile(fmt.Sprintf(`[0-9]{%d,}`, minPhoneDigits))

// Row is a cleaned manifest row ready for grouping and billing.
type Row struct {
	CustomerID   string
	ShippingMark string
	Phone        string
	Name         string
	MiscQty      string
	ItemText     string
	Volume       decimal.Decimal

	// Line is the 1-based row number in the source sheet.
	Line int
}

// fillState carries the last non-blank identity fields across the scan.
// It is threaded explicitly through Normalize rather than held as package
// state, so the normalizer stays a pure function of (state, row).
type fillState struct {
	customerID   string
	shippingMark string
	contact      string
}

// fill replaces blank identity fields on the raw row with the carried values
// and remembers any non-blank ones for the rows that follow.
func (st *fillState) fill(r *RawRow) {
	if r.CustomerID == "" {
		r.CustomerID = st.customerID
	} else {
		st.customerID = r.CustomerID
	}
	if r.ShippingMark == "" {
		r.ShippingMark = st.shippingMark
	} else {
		st.shippingMark = r.ShippingMark
	}
	if r.Contact == "" {
		r.Contact = st.contact
	} else {
		st.contact = r.Contact
	}
}

// Normalize cleans the raw rows in a single left-to-right scan. Batch-header
// rows are dropped entirely; every other row is retained. The fill state
// resets only at the start of the input, never mid-stream.
func Normalize(raws []RawRow, headerMarkers []string) []Row {
	var st fillState
	out := make([]Row, 0, len(raws))

	for _, raw := range raws {
		if isBatchHeader(raw.CustomerID, headerMarkers) {
			continue
		}

		st.fill(&raw)

		phone, name := SplitContact(raw.Contact)

		out = append(out, Row{
			CustomerID:   raw.CustomerID,
			ShippingMark: NormalizeMark(raw.ShippingMark),
			Phone:        phone,
			Name:         name,
			MiscQty:      raw.MiscQty,
			ItemText:     raw.ItemText,
			Volume:       parseVolume(raw.Volume),
			Line:         raw.Line,
		})
	}

	return out
}

// isBatchHeader reports whether the customer-id cell carries one of the
// container batch-header markers.
func isBatchHeader(cell string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(cell, m) {
			return true
		}
	}
	return false
}

// SplitContact splits combined contact text into (phone, name). The first
// contiguous run of at least minPhoneDigits digits is the phone; whatever
// remains, trimmed, is the name. With no qualifying digit run the whole text
// is the name. Blank text yields neither.
func SplitContact(text string) (phone, name string) {
	s := strings.TrimSpace(text)
	if s == "" {
		return "", ""
	}

	loc := phonePattern.FindStringIndex(s)
	if loc == nil {
		return "", collapseSpaces(s)
	}

	phone = s[loc[0]:loc[1]]
	name = collapseSpaces(s[:loc[0]] + " " + s[loc[1]:])
	return phone, name
}

// NormalizeMark uppercases a shipping mark and collapses internal whitespace.
func NormalizeMark(mark string) string {
	return strings.ToUpper(collapseSpaces(mark))
}

// parseVolume coerces a volume cell to a decimal. Blank or unparsable cells
// become 0.
func parseVolume(cell string) decimal.Decimal {
	s := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
