// =============================================================================
// I&C Cargo Billing Tool - Run Pipeline
// =============================================================================
//
// This module orchestrates one generation run:
//
//   1. Validate the run inputs (fatal before any output is produced)
//   2. Read the manifest spreadsheet
//   3. Normalize rows (drop batch headers, fill down, coerce values)
//   4. Aggregate rows into per-customer bills
//   5. Render one PDF invoice per bill
//   6. Export the summary spreadsheet and notification CSV
//
// A failure to render one bill's PDF does not discard the rest of the run:
// the failure is recorded, the remaining bills are still rendered, and both
// exports still run. Only input validation and output-write errors abort.
//
// =============================================================================

package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iccargo/billing-tool/internal/billing"
	"github.com/iccargo/billing-tool/internal/config"
	"github.com/iccargo/billing-tool/internal/export"
	"github.com/iccargo/billing-tool/internal/invoice"
	"github.com/iccargo/billing-tool/internal/manifest"
	"github.com/iccargo/billing-tool/pkg/fileutil"
)

// Output file names inside the run folder.
const (
	pdfSubdir    = "PDFs"
	summaryFile  = "Summary.xlsx"
	messagesFile = "WhatsApp_Messages.csv"
)

// Params are the caller-supplied inputs for one run.
type Params struct {
	// InputPath is the manifest spreadsheet to bill from.
	InputPath string

	// OutputDir is where the timestamped run folder is created.
	OutputDir string

	// Rate is the USD/CBM rate for the run. Must be positive.
	Rate decimal.Decimal

	// OtherCost is an extra USD amount added to every bill.
	OtherCost decimal.Decimal

	// Location overrides the configured invoice location when non-empty.
	Location string

	// DryRun computes bills and logs what would be written, but writes
	// nothing.
	DryRun bool
}

// RenderFailure records one bill whose PDF could not be produced.
type RenderFailure struct {
	CustomerName  string
	InvoiceNumber string
	Err           error
}

// Result is the outcome of a run.
type Result struct {
	RunDir string
	Bills  []*billing.Bill

	RowsRead     int
	RowsRetained int
	PDFsWritten  int
	Failures     []RenderFailure

	SummaryPath  string
	MessagesPath string
	Elapsed      time.Duration
}

// Runner executes generation runs.
type Runner struct {
	cfg    *config.Config
	engine invoice.Engine
	log    zerolog.Logger
}

// New creates a Runner.
func New(cfg *config.Config, engine invoice.Engine, log zerolog.Logger) *Runner {
	return &Runner{cfg: cfg, engine: engine, log: log}
}

// Run executes one generation run. The returned error is fatal (invalid
// inputs or a failed export); per-bill render failures are reported through
// Result.Failures instead.
func (r *Runner) Run(ctx context.Context, p Params) (*Result, error) {
	start := time.Now()

	// =========================================================================
	// STEP 1: VALIDATE INPUTS
	// =========================================================================
	// Everything here fails before any output exists on disk.

	if _, err := os.Stat(p.InputPath); err != nil {
		return nil, fmt.Errorf("manifest file not accessible: %w", err)
	}

	params := billing.Params{
		RatePerCBM:    p.Rate,
		OtherCost:     p.OtherCost,
		Location:      r.cfg.Location,
		InvoicePrefix: r.cfg.InvoicePrefix,
	}
	if p.Location != "" {
		params.Location = p.Location
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	outputDir := p.OutputDir
	if outputDir == "" {
		outputDir = filepath.Dir(p.InputPath)
	}

	// =========================================================================
	// STEP 2-4: READ, NORMALIZE, AGGREGATE
	// =========================================================================

	r.log.Info().Str("input", p.InputPath).Msg("loading manifest")

	raws, err := r.readRows(p.InputPath)
	if err != nil {
		return nil, err
	}

	rows := r.normalize(raws)
	bills := billing.Aggregate(rows, params)

	r.log.Info().
		Int("rows_read", len(raws)).
		Int("rows_retained", len(rows)).
		Int("bills", len(bills)).
		Msg("bills computed")

	result := &Result{
		Bills:        bills,
		RowsRead:     len(raws),
		RowsRetained: len(rows),
	}

	if p.DryRun {
		for _, b := range bills {
			r.log.Info().
				Str("customer", b.CustomerName).
				Str("phone", b.Phone).
				Str("cbm", invoice.FormatCBM(b.TotalCBM)).
				Str("total", invoice.MoneyUSD(b.Total)).
				Msg("dry run: would generate invoice")
		}
		result.Elapsed = time.Since(start)
		return result, nil
	}

	// =========================================================================
	// STEP 5: RENDER PDF INVOICES
	// =========================================================================

	runDir, err := fileutil.RunDir(outputDir, r.cfg.OutputPrefix, start)
	if err != nil {
		return nil, err
	}
	result.RunDir = runDir

	pdfDir := filepath.Join(runDir, pdfSubdir)
	if err := fileutil.EnsureDir(pdfDir); err != nil {
		return nil, err
	}

	renderer := invoice.NewRenderer(r.engine)
	renderTimeout := time.Duration(r.cfg.PDF.RenderTimeoutSeconds) * time.Second

	for i, b := range bills {
		if err := r.renderOne(ctx, renderer, b, pdfDir, start, renderTimeout); err != nil {
			result.Failures = append(result.Failures, RenderFailure{
				CustomerName:  b.CustomerName,
				InvoiceNumber: b.InvoiceNumber,
				Err:           err,
			})
			r.log.Error().Err(err).
				Str("customer", b.CustomerName).
				Str("invoice", b.InvoiceNumber).
				Msg("invoice render failed")
			continue
		}

		result.PDFsWritten++
		if (i+1)%20 == 0 {
			r.log.Info().Int("done", i+1).Int("total", len(bills)).Msg("rendering invoices")
		}
	}

	// =========================================================================
	// STEP 6: EXPORTS
	// =========================================================================
	// Exports are pure functions of the bill list; they run even when some
	// invoices failed to render.

	result.SummaryPath = filepath.Join(runDir, summaryFile)
	if err := export.WriteSummary(bills, result.SummaryPath); err != nil {
		return result, err
	}

	result.MessagesPath = filepath.Join(runDir, messagesFile)
	if err := export.WriteMessages(bills, result.MessagesPath); err != nil {
		return result, err
	}

	result.Elapsed = time.Since(start)

	r.log.Info().
		Int("pdfs", result.PDFsWritten).
		Int("failures", len(result.Failures)).
		Str("folder", runDir).
		Dur("elapsed", result.Elapsed).
		Msg("run complete")

	return result, nil
}

// renderOne renders and writes a single invoice PDF under its own timeout.
func (r *Runner) renderOne(ctx context.Context, renderer *invoice.Renderer, b *billing.Bill, pdfDir string, generated time.Time, timeout time.Duration) error {
	renderCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		renderCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	data, err := renderer.RenderPDF(renderCtx, b, generated)
	if err != nil {
		return err
	}

	path := filepath.Join(pdfDir, pdfFilename(b))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}

	r.log.Debug().Str("file", path).Msg("invoice written")
	return nil
}

// pdfFilename derives the invoice file name from the customer name and the
// first shipping mark, sanitized for the filesystem.
func pdfFilename(b *billing.Bill) string {
	name := fileutil.SafeFilename(b.CustomerName)
	if name == "" {
		name = billing.UnknownCustomer
	}

	mark := billing.NoShippingMark
	if len(b.ShippingMarks) > 0 {
		mark = fileutil.SafeFilename(b.ShippingMarks[0])
	}

	return fmt.Sprintf("%s - %s.pdf", name, mark)
}

func (r *Runner) readRows(path string) ([]manifest.RawRow, error) {
	raws, err := manifest.ReadRows(path, *r.cfg.Columns)
	if err != nil {
		return nil, err
	}
	return raws, nil
}

func (r *Runner) normalize(raws []manifest.RawRow) []manifest.Row {
	rows := manifest.Normalize(raws, r.cfg.HeaderMarkers)
	if dropped := len(raws) - len(rows); dropped > 0 {
		r.log.Debug().Int("dropped", dropped).Msg("batch-header rows removed")
	}
	return rows
}
