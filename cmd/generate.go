// =============================================================================
// I&C Cargo Billing Tool - Generate Command
// =============================================================================
//
// This file defines the 'generate' command, the main command of the tool. It
// reads a shipping-manifest spreadsheet, groups rows per customer, applies
// the billing formula, and writes one PDF invoice per customer plus a summary
// spreadsheet and a WhatsApp notification list into a fresh timestamped
// output folder.
//
// COMMAND USAGE:
//   icbill generate --input <file.xlsx> --rate <usd-per-cbm> [flags]
//
// FLAGS:
//   --input       : Manifest spreadsheet to bill from (required)
//   --rate        : USD rate per CBM (required, positive)
//   --other-cost  : Extra USD amount added to every bill (default 0)
//   --out         : Output directory (default: the input file's directory)
//   --location    : Override the invoice location line
//   --dry-run     : Compute and log bills without writing anything
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iccargo/billing-tool/internal/config"
	"github.com/iccargo/billing-tool/internal/pdf"
	"github.com/iccargo/billing-tool/internal/pipeline"
)

var (
	inputPath string
	outputDir string
	rateStr   string
	otherStr  string
	location  string
	dryRun    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate invoices, a summary spreadsheet, and notification messages",
	Long: `The generate command runs the full billing pipeline over one manifest
spreadsheet. Rows are grouped per customer and billed by volume; each
customer gets a PDF invoice, and the whole run gets a Summary.xlsx and a
WhatsApp_Messages.csv, all inside a fresh timestamped folder.

Dirty cell values never abort a run: blank or unparsable fields degrade to
safe defaults. A bill whose PDF fails to render is reported and skipped;
the rest of the run still completes.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&inputPath, "input", "", "Manifest spreadsheet to bill from")
	generateCmd.Flags().StringVar(&outputDir, "out", "", "Output directory (default: the input file's directory)")
	generateCmd.Flags().StringVar(&rateStr, "rate", "", "USD rate per CBM")
	generateCmd.Flags().StringVar(&otherStr, "other-cost", "0", "Extra USD amount added to every bill")
	generateCmd.Flags().StringVar(&location, "location", "", "Override the invoice location line")
	generateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute and log bills without writing anything")

	generateCmd.MarkFlagRequired("input")
	generateCmd.MarkFlagRequired("rate")
}

func runGenerate(cmd *cobra.Command) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	setupLogger(env)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	rate, err := decimal.NewFromString(rateStr)
	if err != nil {
		return fmt.Errorf("rate must be a number, got %q", rateStr)
	}
	otherCost, err := decimal.NewFromString(otherStr)
	if err != nil {
		return fmt.Errorf("other cost must be a number, got %q", otherStr)
	}

	params := pipeline.Params{
		InputPath: inputPath,
		OutputDir: outputDir,
		Rate:      rate,
		OtherCost: otherCost,
		Location:  location,
		DryRun:    dryRun,
	}

	// The browser is only worth launching when PDFs will actually be
	// rendered.
	var runner *pipeline.Runner
	if dryRun {
		runner = pipeline.New(cfg, nil, log)
	} else {
		chromeBin := cfg.PDF.ChromeBin
		if env.ChromeBin != "" {
			chromeBin = env.ChromeBin
		}

		engine, err := pdf.NewChrome(chromeBin)
		if err != nil {
			return err
		}
		defer engine.Close()

		runner = pipeline.New(cfg, engine, log)
	}

	result, err := runner.Run(cmd.Context(), params)
	if err != nil {
		return err
	}

	if dryRun {
		fmt.Printf("Dry run: %d bill(s) computed from %d row(s), nothing written.\n",
			len(result.Bills), result.RowsRetained)
		return nil
	}

	fmt.Println("=== Run Complete ===")
	fmt.Printf("Bills:         %d\n", len(result.Bills))
	fmt.Printf("PDFs written:  %d\n", result.PDFsWritten)
	fmt.Printf("Failures:      %d\n", len(result.Failures))
	fmt.Printf("Output folder: %s\n", result.RunDir)

	if n := len(result.Failures); n > 0 {
		return fmt.Errorf("%d of %d invoices failed to render", n, len(result.Bills))
	}
	return nil
}
