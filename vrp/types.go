package vrp

import (
	"errors"
	"math"

	"github.com/openfleet/vrpkit/travel"
)

// Sentinel errors for problem construction and validation.
var (
	// ErrNilProblem indicates a nil *Problem was passed to an operation.
	ErrNilProblem = errors.New("vrp: problem is nil")

	// ErrNilMatrix indicates the problem carries no travel matrix.
	ErrNilMatrix = errors.New("vrp: travel matrix is nil")

	// ErrShapeMismatch indicates the matrix order differs from the node count.
	ErrShapeMismatch = errors.New("vrp: matrix order must match node count")

	// ErrNoCustomers indicates a problem without any customer node.
	ErrNoCustomers = errors.New("vrp: no customers")

	// ErrNoVehicles indicates an empty fleet.
	ErrNoVehicles = errors.New("vrp: no vehicles")

	// ErrDepotDemand indicates a depot node with non-zero demand.
	ErrDepotDemand = errors.New("vrp: depot demand must be zero")

	// ErrNegativeDemand indicates a customer with negative demand.
	ErrNegativeDemand = errors.New("vrp: negative demand")

	// ErrBadCapacity indicates a vehicle with non-positive capacity.
	ErrBadCapacity = errors.New("vrp: vehicle capacity must be positive")

	// ErrDepotOutOfRange indicates a vehicle anchored to a non-depot or
	// out-of-range node index.
	ErrDepotOutOfRange = errors.New("vrp: vehicle depot out of range")

	// ErrBadSchema indicates a problem file that violates the JSON schema
	// (missing matrix, inconsistent lengths, unknown depot layout).
	ErrBadSchema = errors.New("vrp: malformed problem file")
)

// NodeKind distinguishes depots from customers.
type NodeKind uint8

const (
	// KindCustomer is a demand point that must be visited exactly once.
	KindCustomer NodeKind = iota

	// KindDepot is a vehicle base; depots carry zero demand and may appear
	// on any number of routes as start/end anchors.
	KindDepot
)

// Node is one location in the problem: a depot or a customer.
type Node struct {
	Name   string   // display name; optional but unique names help reports
	Lat    float64  // WGS84 latitude; zero when unknown
	Lon    float64  // WGS84 longitude; zero when unknown
	Demand int64    // demand in load units (liters in the original runs)
	Kind   NodeKind // depot or customer
}

// Vehicle is one route slot: a capacity anchored to a home depot.
// Routes start and end at the same depot (closed routes).
type Vehicle struct {
	Capacity int64 // maximum load in the same units as Node.Demand
	Depot    int   // node index of the home depot
}

// Fleet is the ordered vehicle list; order defines vehicle ids.
type Fleet []Vehicle

// Starts projects the per-vehicle start depot indices.
func (f Fleet) Starts() []int {
	out := make([]int, len(f))
	for i := range f {
		out[i] = f[i].Depot
	}

	return out
}

// Capacities projects the per-vehicle capacities.
func (f Fleet) Capacities() []int64 {
	out := make([]int64, len(f))
	for i := range f {
		out[i] = f[i].Capacity
	}

	return out
}

// TotalCapacity sums all vehicle capacities, saturating at MaxInt64 so
// a fleet of uncapacitated vehicles stays unlimited instead of wrapping.
func (f Fleet) TotalCapacity() int64 {
	var sum int64
	for i := range f {
		c := f[i].Capacity
		if c > 0 && sum > math.MaxInt64-c {
			return math.MaxInt64
		}
		sum += c
	}

	return sum
}

// MaxCapacity returns the largest vehicle capacity (0 for an empty fleet).
func (f Fleet) MaxCapacity() int64 {
	var best int64
	for i := range f {
		if f[i].Capacity > best {
			best = f[i].Capacity
		}
	}

	return best
}

// Problem is a complete routing instance.
type Problem struct {
	// Label names the instance (used as dispatch_location in split files).
	Label string

	// Matrix holds pairwise road distances in meters over Nodes.
	Matrix *travel.Matrix

	// Nodes lists depots and customers; node index is the matrix index.
	Nodes []Node

	// Fleet lists the vehicles; empty routes are allowed in solutions.
	Fleet Fleet

	// Profile converts meters into minutes. Nil disables the time
	// dimension even when MaxRouteMinutes is set.
	Profile *travel.TimeProfile

	// MaxRouteMinutes caps each route's duration. Zero means unlimited.
	MaxRouteMinutes float64
}

// Customers returns the indices of all customer nodes in order.
func (p *Problem) Customers() []int {
	var out []int
	for i := range p.Nodes {
		if p.Nodes[i].Kind == KindCustomer {
			out = append(out, i)
		}
	}

	return out
}

// Depots returns the indices of all depot nodes in order.
func (p *Problem) Depots() []int {
	var out []int
	for i := range p.Nodes {
		if p.Nodes[i].Kind == KindDepot {
			out = append(out, i)
		}
	}

	return out
}

// TotalDemand sums customer demand.
func (p *Problem) TotalDemand() int64 {
	var sum int64
	for i := range p.Nodes {
		if p.Nodes[i].Kind == KindCustomer {
			sum += p.Nodes[i].Demand
		}
	}

	return sum
}

// TimeDimension reports whether the problem carries an active time
// dimension: a profile plus a positive route cap.
func (p *Problem) TimeDimension() bool {
	return p.Profile != nil && p.MaxRouteMinutes > 0
}
