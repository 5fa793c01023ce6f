package solver

import (
	"math"

	"github.com/openfleet/vrpkit/travel"
	"github.com/openfleet/vrpkit/vrp"
)

// roundScale stabilizes reported costs at 1e-9 resolution so results do
// not drift across platforms or optimization levels.
const roundScale = 1e9

// round1e9 rounds v to the nearest 1e-9. Infinities pass through.
func round1e9(v float64) float64 {
	if math.IsInf(v, 0) {
		return v
	}

	return math.Round(v*roundScale) / roundScale
}

// state is the mutable working set of one Solve run. Routes hold customer
// indices only; depots are implicit from the vehicle and re-attached when
// the final Solution is built.
type state struct {
	p       *vrp.Problem
	rows    [][]float64 // row views into the travel matrix, indexed by node
	routes  [][]int     // per-vehicle customer sequences
	loads   []int64     // per-vehicle accumulated demand
	timeDim bool
	profile travel.TimeProfile
	maxMin  float64
}

// newState captures the problem into hot-path-friendly form.
//
// Complexity: O(V) for row views plus O(F) slices.
func newState(p *vrp.Problem) *state {
	n := p.Matrix.Rows()
	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		rows[i] = p.Matrix.RowView(i)
	}

	s := &state{
		p:      p,
		rows:   rows,
		routes: make([][]int, len(p.Fleet)),
		loads:  make([]int64, len(p.Fleet)),
	}
	if p.TimeDimension() {
		s.timeDim = true
		s.profile = *p.Profile
		s.maxMin = p.MaxRouteMinutes
	}

	return s
}

// dist reads the arc cost in meters. Unreachable arcs are +Inf.
func (s *state) dist(from, to int) float64 {
	return s.rows[from][to]
}

// routeMeters sums the driving meters of a depot-anchored customer
// sequence for the given vehicle.
//
// Complexity: O(len(seq)).
func (s *state) routeMeters(vehicle int, seq []int) float64 {
	depot := s.p.Fleet[vehicle].Depot
	if len(seq) == 0 {
		return 0
	}

	var (
		sum  float64
		prev = depot
		i    int
	)
	for i = 0; i < len(seq); i++ {
		sum += s.dist(prev, seq[i])
		prev = seq[i]
	}
	sum += s.dist(prev, depot)

	return sum
}

// routeMinutes converts the same sequence into route minutes: driving time
// per leg plus service time at each customer stop. Returns 0 when the time
// dimension is off.
//
// Complexity: O(len(seq)).
func (s *state) routeMinutes(vehicle int, seq []int) float64 {
	if !s.timeDim || len(seq) == 0 {
		return 0
	}

	depot := s.p.Fleet[vehicle].Depot

	var (
		sum  float64
		prev = depot
		i    int
	)
	for i = 0; i < len(seq); i++ {
		sum += s.profile.StopMinutes(s.dist(prev, seq[i]))
		prev = seq[i]
	}
	sum += s.profile.Minutes(s.dist(prev, depot))

	return sum
}

// routeFeasible reports whether the sequence respects the vehicle's
// capacity and, when active, the route-time cap. Unreachable legs make a
// route infeasible through the +Inf propagation in routeMeters.
func (s *state) routeFeasible(vehicle int, seq []int, load int64) bool {
	if load > s.p.Fleet[vehicle].Capacity {
		return false
	}
	if math.IsInf(s.routeMeters(vehicle, seq), 1) {
		return false
	}
	if s.timeDim && s.routeMinutes(vehicle, seq) > s.maxMin {
		return false
	}

	return true
}

// totalMeters sums route meters across the fleet.
func (s *state) totalMeters() float64 {
	var sum float64
	for v := range s.routes {
		sum += s.routeMeters(v, s.routes[v])
	}

	return sum
}

// solution freezes the state into a vrp.Solution with depot-anchored node
// sequences and per-route dimensions.
func (s *state) solution() vrp.Solution {
	out := vrp.Solution{Routes: make([]vrp.Route, len(s.routes))}

	var v int
	for v = 0; v < len(s.routes); v++ {
		depot := s.p.Fleet[v].Depot
		seq := s.routes[v]

		nodes := make([]int, 0, len(seq)+2)
		nodes = append(nodes, depot)
		nodes = append(nodes, seq...)
		nodes = append(nodes, depot)

		r := vrp.Route{
			Vehicle: v,
			Nodes:   nodes,
			Load:    s.loads[v],
			Meters:  round1e9(s.routeMeters(v, seq)),
			Minutes: round1e9(s.routeMinutes(v, seq)),
		}
		out.Routes[v] = r

		out.TotalMeters += r.Meters
		out.TotalLoad += r.Load
		if !r.Empty() {
			out.VehiclesUsed++
		}
	}
	out.TotalMeters = round1e9(out.TotalMeters)

	return out
}
