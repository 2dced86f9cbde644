package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/iccargo/billing-tool/internal/config"
)

// stubEngine returns fixed PDF bytes, optionally failing the first n calls.
type stubEngine struct {
	calls    int
	failings int
}

func (s *stubEngine) Render(_ context.Context, _ string) ([]byte, error) {
	s.calls++
	if s.calls <= s.failings {
		return nil, errors.New("browser crashed")
	}
	return []byte("%PDF-stub"), nil
}

func writeManifest(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	path := filepath.Join(t.TempDir(), "CONTAINER LIST.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func testRunner(engine *stubEngine) *Runner {
	return New(config.Default(), engine, zerolog.Nop())
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestRunEndToEnd(t *testing.T) {
	// Two rows for the same phone, one of them a zero-volume continuation
	// line: exactly one bill at 0.12 CBM, billed by the formula.
	input := writeManifest(t, [][]interface{}{
		{"N005=TGBU9600716 CONTAINER", nil, nil, nil, nil, nil},
		{"101", "KK123", "596488627", "6", 0.12, "SHOES"},
		{nil, "KK124", nil, "4", nil, nil},
	})
	outDir := t.TempDir()

	engine := &stubEngine{}
	result, err := testRunner(engine).Run(context.Background(), Params{
		InputPath: input,
		OutputDir: outDir,
		Rate:      dec(t, "240"),
		OtherCost: decimal.Zero,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.RowsRead)
	assert.Equal(t, 2, result.RowsRetained, "batch-header row dropped")
	require.Len(t, result.Bills, 1)

	b := result.Bills[0]
	assert.Equal(t, "596488627", b.CustomerKey)
	assert.Equal(t, "0.12", b.TotalCBM.String())
	assert.True(t, b.Subtotal.Equal(dec(t, "28.8")))
	assert.False(t, b.MinChargeApplies)
	assert.Equal(t, []string{"KK123", "KK124"}, b.ShippingMarks)
	assert.Equal(t, "10 CARTONS OF PERSONAL USE", b.ItemDescription)

	assert.Equal(t, 1, result.PDFsWritten)
	assert.Empty(t, result.Failures)

	// All three outputs land inside the timestamped run folder.
	assert.FileExists(t, result.SummaryPath)
	assert.FileExists(t, result.MessagesPath)

	pdfs, err := filepath.Glob(filepath.Join(result.RunDir, "PDFs", "*.pdf"))
	require.NoError(t, err)
	require.Len(t, pdfs, 1)
	assert.Equal(t, "UNKNOWN - KK123.pdf", filepath.Base(pdfs[0]))

	data, err := os.ReadFile(pdfs[0])
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-stub"), data)
}

func TestRunMissingInputIsFatalBeforeOutput(t *testing.T) {
	outDir := t.TempDir()

	_, err := testRunner(&stubEngine{}).Run(context.Background(), Params{
		InputPath: filepath.Join(outDir, "nope.xlsx"),
		OutputDir: outDir,
		Rate:      dec(t, "240"),
	})
	require.Error(t, err)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no partial output on fatal validation error")
}

func TestRunInvalidRateIsFatal(t *testing.T) {
	input := writeManifest(t, [][]interface{}{
		{"101", "KK123", "596488627", "1", 0.12, ""},
	})

	_, err := testRunner(&stubEngine{}).Run(context.Background(), Params{
		InputPath: input,
		OutputDir: t.TempDir(),
		Rate:      decimal.Zero,
	})
	require.Error(t, err)
}

func TestRunIsolatesRenderFailures(t *testing.T) {
	input := writeManifest(t, [][]interface{}{
		{"101", "KK123", "111111111 AMA", "1", 0.12, ""},
		{"102", "S987", "222222222 KOFI", "2", 0.30, ""},
	})

	engine := &stubEngine{failings: 1}
	result, err := testRunner(engine).Run(context.Background(), Params{
		InputPath: input,
		OutputDir: t.TempDir(),
		Rate:      dec(t, "240"),
	})
	require.NoError(t, err, "render failures are not fatal")

	require.Len(t, result.Bills, 2)
	assert.Equal(t, 1, result.PDFsWritten)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "AMA", result.Failures[0].CustomerName)

	// Exports still cover every bill, failed renders included.
	assert.FileExists(t, result.SummaryPath)
	assert.FileExists(t, result.MessagesPath)
}

func TestRunDryRunWritesNothing(t *testing.T) {
	input := writeManifest(t, [][]interface{}{
		{"101", "KK123", "596488627", "1", 0.12, ""},
	})
	outDir := t.TempDir()

	result, err := New(config.Default(), nil, zerolog.Nop()).Run(context.Background(), Params{
		InputPath: input,
		OutputDir: outDir,
		Rate:      dec(t, "240"),
		DryRun:    true,
	})
	require.NoError(t, err)

	require.Len(t, result.Bills, 1)
	assert.Empty(t, result.RunDir)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
