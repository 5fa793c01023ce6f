package dataset

import (
	"errors"
	"strings"

	"github.com/openfleet/vrpkit/travel"
)

// Sentinel errors for intake and assembly.
var (
	// ErrMissingColumns indicates the workbook lacks required columns.
	ErrMissingColumns = errors.New("dataset: missing required columns")

	// ErrEmptySheet indicates a workbook without a data sheet or rows.
	ErrEmptySheet = errors.New("dataset: empty worksheet")

	// ErrNoValidRows indicates a dispatch group with no usable rows.
	ErrNoValidRows = errors.New("dataset: no valid rows")

	// ErrNoDispatches indicates input rows without any dispatch grouping.
	ErrNoDispatches = errors.New("dataset: no dispatch groups")
)

// Row is one cleaned collection point from the intake spreadsheet.
type Row struct {
	Dispatch string // dispatch (depot) location the point delivers to
	Name     string // point name
	Coord    travel.Coordinate
	Demand   int64 // demand in load units; 0 rows are dropped as customers
}

// Skipped records a row the intake rejected, with the reason.
type Skipped struct {
	Index  int // zero-based data-row index in the sheet
	Name   string
	Reason string
}

// NormalizeHeader canonicalizes a column header the way the intake
// expects: trimmed, lower-cased, spaces to underscores.
func NormalizeHeader(h string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
}

// NormalizeKey builds the order-insensitive matching key for depot and
// fleet names: upper-cased words, sorted. "Dahid Bmc" → "BMC DAHID".
func NormalizeKey(name string) string {
	words := strings.Fields(strings.ToUpper(strings.TrimSpace(name)))
	if len(words) == 0 {
		return ""
	}

	// Insertion sort; depot names are a handful of words.
	for i := 1; i < len(words); i++ {
		for j := i; j > 0 && words[j] < words[j-1]; j-- {
			words[j], words[j-1] = words[j-1], words[j]
		}
	}

	return strings.Join(words, " ")
}

// Dedupe collapses rows sharing the same coordinate: the first occurrence
// keeps its position, the last occurrence wins the demand and name.
// Order is otherwise preserved.
func Dedupe(rows []Row) []Row {
	type slot struct{ pos int }
	seen := make(map[travel.Coordinate]slot, len(rows))
	out := make([]Row, 0, len(rows))

	for _, r := range rows {
		if s, ok := seen[r.Coord]; ok {
			out[s.pos].Demand = r.Demand
			out[s.pos].Name = r.Name
			continue
		}
		seen[r.Coord] = slot{pos: len(out)}
		out = append(out, r)
	}

	return out
}

// GroupByDispatch splits rows into per-dispatch groups, preserving the
// encounter order of both groups and rows.
func GroupByDispatch(rows []Row) (order []string, groups map[string][]Row) {
	groups = make(map[string][]Row)
	for _, r := range rows {
		if _, ok := groups[r.Dispatch]; !ok {
			order = append(order, r.Dispatch)
		}
		groups[r.Dispatch] = append(groups[r.Dispatch], r)
	}

	return order, groups
}
