package vrp

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/openfleet/vrpkit/travel"
)

// UnreachableSentinel is the meter value older tooling wrote for pairs the
// road network does not connect. Decoding maps it to +Inf; encoding maps
// +Inf back so files stay interchangeable with the original pipeline.
const UnreachableSentinel = 999999

// fileSchema mirrors the problem-file JSON layout. Single-depot files use
// "depot" (+ optionally a singular "vehicle_capacity"); multi-depot files
// use "starts"/"ends" with per-vehicle "vehicle_capacities".
type fileSchema struct {
	DispatchLocation  string       `json:"dispatch_location,omitempty"`
	DistanceMatrix    [][]*float64 `json:"distance_matrix"`
	Demands           []int64      `json:"demands,omitempty"`
	VehicleCapacities []int64      `json:"vehicle_capacities,omitempty"`
	VehicleCapacity   *int64       `json:"vehicle_capacity,omitempty"`
	NumVehicles       int          `json:"num_vehicles,omitempty"`
	Depot             *int         `json:"depot,omitempty"`
	Starts            []int        `json:"starts,omitempty"`
	Ends              []int        `json:"ends,omitempty"`
	Names             []string     `json:"names,omitempty"`
	Locations         []location   `json:"locations,omitempty"`

	// Time-dimension extension; absent in files from the older tooling.
	SpeedKmph       float64 `json:"speed_kmph,omitempty"`
	ServiceMinutes  float64 `json:"service_minutes,omitempty"`
	MaxRouteMinutes float64 `json:"max_route_minutes,omitempty"`
}

type location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// DecodeProblem parses a problem file into a validated-shape Problem.
// Full structural validation remains the caller's job via Problem.Validate;
// DecodeProblem only enforces schema-level consistency (ErrBadSchema).
//
// Defaults for minimal files: one vehicle, depot 0, effectively unlimited
// capacity, zero demands.
func DecodeProblem(data []byte) (*Problem, error) {
	var f fileSchema
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSchema, err)
	}

	n := len(f.DistanceMatrix)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty distance_matrix", ErrBadSchema)
	}

	// Matrix: null and the legacy sentinel both mean unreachable.
	rows := make([][]float64, n)
	var i, j int
	for i = 0; i < n; i++ {
		if len(f.DistanceMatrix[i]) != n {
			return nil, fmt.Errorf("%w: distance_matrix row %d", ErrBadSchema, i)
		}
		rows[i] = make([]float64, n)
		for j = 0; j < n; j++ {
			cell := f.DistanceMatrix[i][j]
			switch {
			case cell == nil:
				rows[i][j] = math.Inf(1)
			case *cell == UnreachableSentinel && i != j:
				rows[i][j] = math.Inf(1)
			default:
				rows[i][j] = *cell
			}
		}
	}
	m, err := travel.FromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSchema, err)
	}

	// Demands default to zero.
	demands := f.Demands
	if demands == nil {
		demands = make([]int64, n)
	}
	if len(demands) != n {
		return nil, fmt.Errorf("%w: demands length %d, want %d", ErrBadSchema, len(demands), n)
	}

	// Depot layout: scalar depot or starts/ends lists.
	starts, err := resolveStarts(&f)
	if err != nil {
		return nil, err
	}

	// Capacities: per-vehicle list, replicated singular, or unlimited.
	caps, err := resolveCapacities(&f, len(starts))
	if err != nil {
		return nil, err
	}

	// Depot set drives node kinds.
	isDepot := make([]bool, n)
	for _, s := range starts {
		if s < 0 || s >= n {
			return nil, fmt.Errorf("%w: start index %d", ErrBadSchema, s)
		}
		isDepot[s] = true
	}

	nodes := make([]Node, n)
	for i = 0; i < n; i++ {
		nodes[i] = Node{Demand: demands[i], Kind: KindCustomer}
		if isDepot[i] {
			nodes[i].Kind = KindDepot
		}
		if f.Names != nil && i < len(f.Names) {
			nodes[i].Name = f.Names[i]
		}
		if f.Locations != nil && i < len(f.Locations) {
			nodes[i].Lat = f.Locations[i].Lat
			nodes[i].Lon = f.Locations[i].Lon
		}
	}

	fleet := make(Fleet, len(starts))
	for i = 0; i < len(starts); i++ {
		fleet[i] = Vehicle{Capacity: caps[i], Depot: starts[i]}
	}

	p := &Problem{
		Label:           f.DispatchLocation,
		Matrix:          m,
		Nodes:           nodes,
		Fleet:           fleet,
		MaxRouteMinutes: f.MaxRouteMinutes,
	}
	if f.SpeedKmph > 0 {
		p.Profile = &travel.TimeProfile{
			SpeedKmph:      f.SpeedKmph,
			ServiceMinutes: f.ServiceMinutes,
		}
	}

	return p, nil
}

// resolveStarts normalizes the three accepted depot layouts into the
// per-vehicle start list. Ends must mirror starts: routes are closed.
func resolveStarts(f *fileSchema) ([]int, error) {
	if f.Starts != nil {
		if f.Ends == nil || len(f.Ends) != len(f.Starts) {
			return nil, fmt.Errorf("%w: starts/ends length mismatch", ErrBadSchema)
		}
		for i := range f.Starts {
			if f.Starts[i] != f.Ends[i] {
				return nil, fmt.Errorf("%w: open routes not supported (starts[%d] != ends[%d])", ErrBadSchema, i, i)
			}
		}
		if f.NumVehicles != 0 && f.NumVehicles != len(f.Starts) {
			return nil, fmt.Errorf("%w: num_vehicles %d, starts %d", ErrBadSchema, f.NumVehicles, len(f.Starts))
		}

		return f.Starts, nil
	}

	depot := 0
	if f.Depot != nil {
		depot = *f.Depot
	}
	nv := f.NumVehicles
	if nv == 0 {
		nv = len(f.VehicleCapacities)
	}
	if nv == 0 {
		nv = 1
	}
	starts := make([]int, nv)
	for i := range starts {
		starts[i] = depot
	}

	return starts, nil
}

// resolveCapacities returns one capacity per vehicle.
func resolveCapacities(f *fileSchema, vehicles int) ([]int64, error) {
	switch {
	case f.VehicleCapacities != nil:
		if len(f.VehicleCapacities) != vehicles {
			return nil, fmt.Errorf("%w: vehicle_capacities length %d, want %d",
				ErrBadSchema, len(f.VehicleCapacities), vehicles)
		}

		return f.VehicleCapacities, nil

	case f.VehicleCapacity != nil:
		caps := make([]int64, vehicles)
		for i := range caps {
			caps[i] = *f.VehicleCapacity
		}

		return caps, nil

	default:
		// No capacity given: effectively uncapacitated.
		caps := make([]int64, vehicles)
		for i := range caps {
			caps[i] = math.MaxInt64
		}

		return caps, nil
	}
}

// EncodeProblem serializes a Problem back into the problem-file schema.
// Single-depot fleets collapse to the scalar "depot" form; anything else
// writes starts/ends. +Inf distances become the legacy sentinel.
func EncodeProblem(p *Problem) ([]byte, error) {
	if p == nil {
		return nil, ErrNilProblem
	}
	if p.Matrix == nil {
		return nil, ErrNilMatrix
	}

	n := p.Matrix.Rows()
	f := fileSchema{
		DispatchLocation: p.Label,
		DistanceMatrix:   make([][]*float64, n),
		NumVehicles:      len(p.Fleet),
	}

	var i, j int
	for i = 0; i < n; i++ {
		row := p.Matrix.RowView(i)
		out := make([]*float64, n)
		for j = 0; j < n; j++ {
			v := row[j]
			if math.IsInf(v, 1) {
				v = UnreachableSentinel
			}
			cell := v
			out[j] = &cell
		}
		f.DistanceMatrix[i] = out
	}

	if len(p.Nodes) == n {
		f.Demands = make([]int64, n)
		f.Names = make([]string, n)
		f.Locations = make([]location, n)
		named := false
		located := false
		for i = 0; i < n; i++ {
			f.Demands[i] = p.Nodes[i].Demand
			f.Names[i] = p.Nodes[i].Name
			f.Locations[i] = location{Lat: p.Nodes[i].Lat, Lon: p.Nodes[i].Lon}
			if p.Nodes[i].Name != "" {
				named = true
			}
			if p.Nodes[i].Lat != 0 || p.Nodes[i].Lon != 0 {
				located = true
			}
		}
		if !named {
			f.Names = nil
		}
		if !located {
			f.Locations = nil
		}
	}

	f.VehicleCapacities = p.Fleet.Capacities()
	f.MaxRouteMinutes = p.MaxRouteMinutes
	if p.Profile != nil {
		f.SpeedKmph = p.Profile.SpeedKmph
		f.ServiceMinutes = p.Profile.ServiceMinutes
	}

	starts := p.Fleet.Starts()
	single := true
	for i = 1; i < len(starts); i++ {
		if starts[i] != starts[0] {
			single = false
			break
		}
	}
	if single && len(starts) > 0 {
		f.Depot = &starts[0]
	} else {
		f.Starts = starts
		f.Ends = starts
	}

	return json.MarshalIndent(f, "", "  ")
}
