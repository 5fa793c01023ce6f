package vrp

import "time"

// Route is one vehicle's itinerary: the full node sequence including the
// depot at both ends, plus the accumulated dimensions.
type Route struct {
	Vehicle int     // index into Problem.Fleet
	Nodes   []int   // node indices; Nodes[0] and Nodes[len-1] are the home depot
	Load    int64   // total demand collected
	Meters  float64 // total driving meters
	Minutes float64 // total route minutes (0 when the time dimension is off)
}

// Empty reports whether the vehicle never left its depot.
func (r Route) Empty() bool {
	return len(r.Nodes) <= 2
}

// Stops returns the number of customer visits on the route.
func (r Route) Stops() int {
	if r.Empty() {
		return 0
	}

	return len(r.Nodes) - 2
}

// Solution is the outcome of one solver run over a Problem.
type Solution struct {
	// Routes holds one entry per vehicle, in fleet order; unused vehicles
	// appear as empty depot-to-depot routes.
	Routes []Route

	// TotalMeters is the objective value: summed driving meters.
	TotalMeters float64

	// TotalLoad is the summed collected demand.
	TotalLoad int64

	// VehiclesUsed counts non-empty routes.
	VehiclesUsed int

	// Elapsed is the solver wall time.
	Elapsed time.Duration
}

// RouteFor returns the route of the given vehicle and whether it exists.
func (s Solution) RouteFor(vehicle int) (Route, bool) {
	if vehicle < 0 || vehicle >= len(s.Routes) {
		return Route{}, false
	}

	return s.Routes[vehicle], true
}
