package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/openfleet/vrpkit/travel"
)

// Columns names the workbook columns the intake reads, in normalized form
// (see NormalizeHeader).
type Columns struct {
	Dispatch string
	Name     string
	Lat      string
	Lon      string
	Demand   string
}

// DefaultColumns matches the milk-collection workbooks this pipeline was
// built for.
func DefaultColumns() Columns {
	return Columns{
		Dispatch: "milk_dispatched_locations",
		Name:     "name",
		Lat:      "latitude",
		Lon:      "longitude",
		Demand:   "milk_qty",
	}
}

// ReadXLSX loads the first sheet of the workbook into rows, applying the
// intake rules:
//
//   - headers are normalized before matching;
//   - rows with unparsable or invalid coordinates are skipped (reported);
//   - a missing/unparsable demand cell counts as zero, not an error;
//   - the Name column is optional (falls back to the row number).
//
// Returns the kept rows and the skip report.
func ReadXLSX(path string, cols Columns) ([]Row, []Skipped, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, ErrEmptySheet
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("dataset: read %s: %w", path, err)
	}
	if len(cells) < 2 {
		return nil, nil, ErrEmptySheet
	}

	// Header lookup by normalized name.
	index := make(map[string]int, len(cells[0]))
	for i, h := range cells[0] {
		index[NormalizeHeader(h)] = i
	}

	required := []string{cols.Dispatch, cols.Lat, cols.Lon, cols.Demand}
	var missing []string
	for _, c := range required {
		if _, ok := index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	nameIdx, hasName := index[cols.Name]

	var (
		rows    []Row
		skipped []Skipped
	)
	for i, rec := range cells[1:] {
		name := fmt.Sprintf("row-%d", i+2)
		if hasName {
			if v := cell(rec, nameIdx); v != "" {
				name = strings.TrimSpace(v)
			}
		}

		lat, latErr := strconv.ParseFloat(strings.TrimSpace(cell(rec, index[cols.Lat])), 64)
		lon, lonErr := strconv.ParseFloat(strings.TrimSpace(cell(rec, index[cols.Lon])), 64)
		if latErr != nil || lonErr != nil {
			skipped = append(skipped, Skipped{Index: i, Name: name, Reason: "unparsable coordinates"})
			continue
		}

		coord := travel.Coordinate{Lat: lat, Lon: lon}
		if !coord.Valid() {
			skipped = append(skipped, Skipped{Index: i, Name: name, Reason: "invalid coordinates"})
			continue
		}

		// NaN/blank demand means zero; the depot rows legitimately have none.
		var demand int64
		if v := strings.TrimSpace(cell(rec, index[cols.Demand])); v != "" {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
				demand = int64(parsed)
			}
		}

		rows = append(rows, Row{
			Dispatch: strings.TrimSpace(cell(rec, index[cols.Dispatch])),
			Name:     name,
			Coord:    coord,
			Demand:   demand,
		})
	}

	return rows, skipped, nil
}

// cell reads a record column defensively; excelize trims trailing empty
// cells from short rows.
func cell(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}

	return rec[idx]
}
