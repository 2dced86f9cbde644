// =============================================================================
// I&C Cargo Billing Tool - Main Entry Point
// =============================================================================
//
// This is the main entry point for the billing tool CLI. It initializes the
// Cobra CLI framework and delegates command execution to the cmd package.
//
// USAGE:
//   icbill generate --input manifest.xlsx --rate 240   - Generate invoices
//   icbill version                                     - Display the version
//
// ARCHITECTURE:
//   - cmd/                : CLI command definitions (Cobra)
//   - internal/config/    : Run configuration (YAML + environment)
//   - internal/manifest/  : Spreadsheet reading and row normalization
//   - internal/billing/   : Customer resolution and bill aggregation
//   - internal/invoice/   : Invoice template rendering
//   - internal/pdf/       : HTML to PDF engine (headless Chrome)
//   - internal/export/    : Summary spreadsheet and notification exports
//   - internal/pipeline/  : Run orchestration
//   - pkg/fileutil/       : Output folder and filename helpers
//
// =============================================================================

package main

import (
	"github.com/iccargo/billing-tool/cmd"
)

func main() {
	cmd.Execute()
}
