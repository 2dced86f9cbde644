// =============================================================================
// I&C Cargo Billing Tool - Notification Message Export
// =============================================================================
//
// This module renders the per-customer payment notification text and writes
// the full list to a CSV, one row per bill, paired with the phone number the
// message is addressed to. The text follows the fixed WhatsApp template the
// business sends out.
//
// =============================================================================

package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/iccargo/billing-tool/internal/billing"
	"github.com/iccargo/billing-tool/internal/invoice"
)

// Message renders the payment-notification text for one bill.
func Message(b *billing.Bill) string {
	paymentLine := fmt.Sprintf("%s * %s = %s",
		strconv.FormatInt(b.RatePerCBM.IntPart(), 10),
		invoice.FormatCBM(b.TotalCBM),
		invoice.MoneyUSD(b.Subtotal),
	)
	if b.MinChargeApplies {
		paymentLine = fmt.Sprintf("Min charge (CBM<0.05) = %s", invoice.MoneyUSD(b.Subtotal))
	}

	return "I&C CARGO – GOODS BILL\n" +
		fmt.Sprintf("Name: %s\n", b.CustomerName) +
		fmt.Sprintf("Phone: %s\n", b.Phone) +
		fmt.Sprintf("Shipping Mark: %s\n", b.MarksLabel()) +
		fmt.Sprintf("Total CBM: %s\n", invoice.FormatCBM(b.TotalCBM)) +
		fmt.Sprintf("Rate: %s/CBM → %s\n", invoice.MoneyUSD(b.RatePerCBM), paymentLine) +
		fmt.Sprintf("Other Cost: %s\n", invoice.MoneyUSD(b.OtherCost)) +
		fmt.Sprintf("Total: %s\n", invoice.MoneyUSD(b.Total)) +
		"Note: CBM below 0.05 is charged fixed $10."
}

// WriteMessages writes the notification list as a CSV with one row per bill.
func WriteMessages(bills []*billing.Bill, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create messages file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Phone", "ShippingMark", "CustomerName", "Message"}); err != nil {
		return fmt.Errorf("failed to write messages header: %w", err)
	}

	for _, b := range bills {
		record := []string{b.Phone, b.MarksLabel(), b.CustomerName, Message(b)}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write message for %s: %w", b.CustomerName, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush messages file: %w", err)
	}
	return nil
}
