// =============================================================================
// I&C Cargo Billing Tool - Bill Aggregator
// =============================================================================
//
// This module groups normalized manifest rows by customer key and produces
// one Bill per customer. Grouping is stable: a customer's bill reflects all
// rows sharing its key, while shipping marks and group order preserve
// first-seen order.
//
// ITEM DESCRIPTION:
//   The misc-quantity cells ("1pallet", "10", "") are parsed as (count, unit)
//   and summed per unit across the group, rendered as e.g.
//   "13 CARTONS OF PERSONAL USE" or "1 PALLET, 3 CARTONS OF PERSONAL USE".
//   When every quantity cell in the group is blank, the first non-blank item
//   text is used instead, and failing that a generic default.
//
// =============================================================================

package billing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iccargo/billing-tool/internal/manifest"
)

var quantityPattern = regexp.MustCompile(`[0-9]+`)

// Aggregate groups the rows by customer key and returns one computed Bill per
// distinct key, in first-seen group order.
func Aggregate(rows []manifest.Row, p Params) []*Bill {
	var order []string
	groups := make(map[string][]manifest.Row)

	for _, r := range rows {
		key := CustomerKey(r)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}

	now := time.Now()
	bills := make([]*Bill, 0, len(order))
	for _, key := range order {
		bills = append(bills, buildBill(key, groups[key], p, now))
	}
	return bills
}

// buildBill assembles and computes the bill for one customer group.
func buildBill(key string, group []manifest.Row, p Params, now time.Time) *Bill {
	b := Bill{
		CustomerKey:  key,
		CustomerName: firstNonBlank(group, func(r manifest.Row) string { return r.Name }, UnknownCustomer),
		Phone:        firstNonBlank(group, func(r manifest.Row) string { return r.Phone }, NoPhone),
		CustomerID:   firstNonBlank(group, func(r manifest.Row) string { return r.CustomerID }, ""),
	}

	total := decimal.Zero
	for _, r := range group {
		total = total.Add(r.Volume)
	}
	b.TotalCBM = total

	b.ShippingMarks = distinctMarks(group)
	b.Breakdown = buildBreakdown(b.ShippingMarks, group)
	b.ItemDescription = describeItems(group)

	return newBill(b, p, now)
}

// distinctMarks returns the group's non-blank shipping marks, de-duplicated,
// in first-seen order.
func distinctMarks(group []manifest.Row) []string {
	var marks []string
	seen := make(map[string]bool)
	for _, r := range group {
		if r.ShippingMark == "" || seen[r.ShippingMark] {
			continue
		}
		seen[r.ShippingMark] = true
		marks = append(marks, r.ShippingMark)
	}
	return marks
}

// buildBreakdown sums quantity and volume per shipping mark, one entry per
// distinct mark in the order the marks first appeared.
func buildBreakdown(marks []string, group []manifest.Row) []BreakdownItem {
	items := make([]BreakdownItem, 0, len(marks))
	for _, mark := range marks {
		item := BreakdownItem{ShippingMark: mark, CBM: decimal.Zero}
		for _, r := range group {
			if r.ShippingMark != mark {
				continue
			}
			item.CBM = item.CBM.Add(r.Volume)
			if strings.TrimSpace(r.MiscQty) != "" {
				count, _ := parseQuantity(r.MiscQty)
				item.Quantity += count
			}
		}
		items = append(items, item)
	}
	return items
}

// describeItems renders the group's item description.
func describeItems(group []manifest.Row) string {
	var pallets, cartons int
	var anyQty bool

	for _, r := range group {
		if strings.TrimSpace(r.MiscQty) == "" {
			continue
		}
		anyQty = true
		count, unit := parseQuantity(r.MiscQty)
		if unit == "PALLET" {
			pallets += count
		} else {
			cartons += count
		}
	}

	if anyQty {
		var parts []string
		if pallets > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", pallets, pluralize("PALLET", pallets)))
		}
		if cartons > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", cartons, pluralize("CARTON", cartons)))
		}
		return strings.Join(parts, ", ") + " OF PERSONAL USE"
	}

	// No quantity cell anywhere in the group: fall back to the first
	// non-blank item text, then to the generic default.
	for _, r := range group {
		if v := strings.TrimSpace(r.ItemText); v != "" {
			return strings.ToUpper(v)
		}
	}
	return "PERSONAL USE"
}

// parseQuantity parses free-form quantity text like "1pallet" or "10" into a
// count and a unit. A missing number counts as 1; anything that is not a
// pallet is a carton.
func parseQuantity(text string) (count int, unit string) {
	s := strings.ToLower(strings.TrimSpace(text))

	count = 1
	if m := quantityPattern.FindString(s); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			count = n
		}
	}

	unit = "CARTON"
	if strings.Contains(s, "pallet") {
		unit = "PALLET"
	}
	return count, unit
}

func pluralize(unit string, n int) string {
	if n == 1 {
		return unit
	}
	return unit + "S"
}

// firstNonBlank returns the first non-blank value the selector yields across
// the group, or the fallback.
func firstNonBlank(group []manifest.Row, get func(manifest.Row) string, fallback string) string {
	for _, r := range group {
		if v := strings.TrimSpace(get(r)); v != "" {
			return v
		}
	}
	return fallback
}
