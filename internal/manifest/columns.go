// =============================================================================
// I&C Cargo Billing Tool - Manifest Column Layout
// =============================================================================
//
// The manifest export has six fixed leading columns. There is no header-name
// detection: the column-to-field mapping is positional and must match the
// business's export format. The layout lives in a typed struct so the
// assumption is explicit and swappable rather than buried as magic indices.
//
// DEFAULT LAYOUT (0-based):
//   | A               | B             | C                  | D          | E          | F         |
//   |-----------------|---------------|--------------------|------------|------------|-----------|
//   | customer id     | shipping mark | contact (phone+name)| misc qty  | volume CBM | item text |
//
// =============================================================================

package manifest

import "fmt"

// Columns maps manifest fields to 0-based spreadsheet column indices.
type Columns struct {
	// CustomerID is the column holding the manifest's customer identifier.
	// Container batch-header markers also appear in this column.
	CustomerID int `yaml:"customer_id"`

	// ShippingMark is the column holding the customer-assigned cargo label.
	ShippingMark int `yaml:"shipping_mark"`

	// Contact is the column holding combined phone/name text,
	// e.g. "0552161900 KASSIM" or a bare phone number.
	Contact int `yaml:"contact"`

	// MiscQty is the column holding free-form quantity text,
	// e.g. "1pallet", "10", or blank.
	MiscQty int `yaml:"misc_quantity"`

	// Volume is the column holding the shipment volume in cubic meters.
	Volume int `yaml:"volume_cbm"`

	// ItemText is the column holding a free-form item description, used only
	// as a fallback when the quantity column is blank for a whole customer.
	ItemText int `yaml:"item_text"`
}

// DefaultColumns returns the fixed A-F layout of the manifest export.
func DefaultColumns() Columns {
	return Columns{
		CustomerID:   0, // Column A
		ShippingMark: 1, // Column B
		Contact:      2, // Column C
		MiscQty:      3, // Column D
		Volume:       4, // Column E
		ItemText:     5, // Column F
	}
}

// Validate checks that all indices are non-negative and distinct.
func (c *Columns) Validate() error {
	indices := map[string]int{
		"customer_id":   c.CustomerID,
		"shipping_mark": c.ShippingMark,
		"contact":       c.Contact,
		"misc_quantity": c.MiscQty,
		"volume_cbm":    c.Volume,
		"item_text":     c.ItemText,
	}

	seen := make(map[int]string, len(indices))
	for name, idx := range indices {
		if idx < 0 {
			return fmt.Errorf("column index for %s must not be negative", name)
		}
		if other, dup := seen[idx]; dup {
			return fmt.Errorf("columns %s and %s share index %d", other, name, idx)
		}
		seen[idx] = name
	}
	return nil
}
