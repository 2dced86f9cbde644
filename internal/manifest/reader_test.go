package manifest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeTestManifest(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	path := filepath.Join(t.TempDir(), "manifest.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadRows(t *testing.T) {
	path := writeTestManifest(t, [][]interface{}{
		{"101", "KK123", "0552161900 KASSIM", "1pallet", 0.18, "LEARNING MACHINE"},
		{nil, nil, nil, nil, nil, nil}, // fully empty, skipped
		{"", "S987", "596488627", "10", "", "SHOES"},
	})

	rows, err := ReadRows(path, DefaultColumns())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "101", rows[0].CustomerID)
	assert.Equal(t, "KK123", rows[0].ShippingMark)
	assert.Equal(t, "0552161900 KASSIM", rows[0].Contact)
	assert.Equal(t, "1pallet", rows[0].MiscQty)
	assert.Equal(t, "0.18", rows[0].Volume)
	assert.Equal(t, "LEARNING MACHINE", rows[0].ItemText)
	assert.Equal(t, 1, rows[0].Line)

	// The empty row is skipped but sheet line numbers are preserved.
	assert.Equal(t, 3, rows[1].Line)
	assert.Equal(t, "", rows[1].CustomerID)
	assert.Equal(t, "", rows[1].Volume)
}

func TestReadRowsMissingFile(t *testing.T) {
	_, err := ReadRows(filepath.Join(t.TempDir(), "nope.xlsx"), DefaultColumns())
	require.Error(t, err)
}

func TestReadRowsShortRows(t *testing.T) {
	// Rows narrower than the column layout must not panic; missing cells
	// read as blank.
	path := writeTestManifest(t, [][]interface{}{
		{"101", "KK123"},
	})

	rows, err := ReadRows(path, DefaultColumns())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0].Contact)
	assert.Equal(t, "", rows[0].ItemText)
}

func TestColumnsValidate(t *testing.T) {
	cols := DefaultColumns()
	require.NoError(t, cols.Validate())

	dup := DefaultColumns()
	dup.ItemText = dup.Volume
	require.Error(t, dup.Validate())

	neg := DefaultColumns()
	neg.CustomerID = -1
	require.Error(t, neg.Validate())
}
