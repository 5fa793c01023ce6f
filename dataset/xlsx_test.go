package dataset_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/openfleet/vrpkit/dataset"
)

// writeWorkbook lays down a minimal intake workbook and returns its path.
func writeWorkbook(t *testing.T, header []interface{}, records [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetList()[0]
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &rec))
	}

	path := filepath.Join(t.TempDir(), "points.xlsx")
	require.NoError(t, f.SaveAs(path))

	return path
}

func intakeHeader() []interface{} {
	return []interface{}{"Milk Dispatched Locations", "Name", "Latitude", "Longitude", "Milk QTY"}
}

func TestReadXLSX(t *testing.T) {
	path := writeWorkbook(t, intakeHeader(), [][]interface{}{
		{"MCC Buldhana", "Farm A", 20.1, 76.2, 120},
		{"MCC Buldhana", "Farm B", "north-ish", 76.3, 50},
		{"MCC Buldhana", "Farm C", 20.4, 76.4, ""},
		{"MCC Akola", "", 20.5, 76.5, 80},
		{"MCC Akola", "Null Island", 0, 0, 30},
	})

	rows, skipped, err := dataset.ReadXLSX(path, dataset.DefaultColumns())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Len(t, skipped, 2)

	require.Equal(t, "Farm A", rows[0].Name)
	require.Equal(t, int64(120), rows[0].Demand)
	require.Equal(t, "MCC Buldhana", rows[0].Dispatch)
	require.InDelta(t, 20.1, rows[0].Coord.Lat, 1e-9)

	// Blank demand is zero, not an error.
	require.Equal(t, int64(0), rows[1].Demand)

	// Missing name falls back to the sheet row number.
	require.Equal(t, "row-5", rows[2].Name)
	require.Equal(t, "MCC Akola", rows[2].Dispatch)

	require.Equal(t, "unparsable coordinates", skipped[0].Reason)
	require.Equal(t, "Farm B", skipped[0].Name)
	require.Equal(t, "invalid coordinates", skipped[1].Reason)
}

func TestReadXLSX_MissingColumns(t *testing.T) {
	path := writeWorkbook(t,
		[]interface{}{"Name", "Latitude", "Longitude"},
		[][]interface{}{{"Farm A", 20.1, 76.2}},
	)

	_, _, err := dataset.ReadXLSX(path, dataset.DefaultColumns())
	require.ErrorIs(t, err, dataset.ErrMissingColumns)
	require.Contains(t, err.Error(), "milk_dispatched_locations")
	require.Contains(t, err.Error(), "milk_qty")
}

func TestReadXLSX_HeaderOnly(t *testing.T) {
	path := writeWorkbook(t, intakeHeader(), nil)

	_, _, err := dataset.ReadXLSX(path, dataset.DefaultColumns())
	require.ErrorIs(t, err, dataset.ErrEmptySheet)
}

func TestReadXLSX_AbsentFile(t *testing.T) {
	_, _, err := dataset.ReadXLSX(filepath.Join(t.TempDir(), "absent.xlsx"), dataset.DefaultColumns())
	require.Error(t, err)
}
