// =============================================================================
// I&C Cargo Billing Tool - Customer Resolver
// =============================================================================

package billing

import (
	"strings"

	"github.com/iccargo/billing-tool/internal/manifest"
)

// CustomerKey derives the grouping key for a normalized row. The priority
// chain is phone, then customer name, then customer id, then UNKNOWN; the
// first non-blank value wins. Phone is the primary dedup key: two rows with
// the same phone are the same customer even when the name spelling differs.
//
// Known ambiguity, accepted: two distinct customers with no phone and the
// same name collapse into one bill.
func CustomerKey(r manifest.Row) string {
	for _, candidate := range []string{r.Phone, r.Name, r.CustomerID} {
		if v := strings.TrimSpace(candidate); v != "" {
			return v
		}
	}
	return UnknownCustomer
}
