package feasibility

import (
	"math"

	"github.com/openfleet/vrpkit/vrp"
)

// Kind classifies a finding.
type Kind uint8

const (
	// KindOversizedDemand marks a customer whose demand exceeds every
	// vehicle capacity in the fleet.
	KindOversizedDemand Kind = iota

	// KindUnreachable marks a customer with no finite round trip to any
	// depot.
	KindUnreachable

	// KindTimeExceeded marks a customer whose bare round trip to its
	// nearest depot already exceeds the route-time cap.
	KindTimeExceeded
)

// String implements fmt.Stringer for reports and logs.
func (k Kind) String() string {
	switch k {
	case KindOversizedDemand:
		return "oversized-demand"
	case KindUnreachable:
		return "unreachable"
	case KindTimeExceeded:
		return "time-exceeded"
	default:
		return "unknown"
	}
}

// Finding is one per-customer infeasibility with the numbers that prove it.
type Finding struct {
	Kind Kind
	Node int    // customer node index
	Name string // customer name, when the problem carries names

	// Capacity findings.
	Demand      int64 // the customer's demand
	MaxCapacity int64 // the largest vehicle capacity in the fleet

	// Reachability/time findings.
	NearestDepot    int     // depot index of the cheapest round trip (-1 when unreachable)
	RoundTripMeters float64 // round-trip distance via that depot
	MinutesNeeded   float64 // bare driving time for that round trip
	MinutesAllowed  float64 // the problem's route-time cap
}

// Report is the audit outcome.
type Report struct {
	Customers int // customers audited
	Depots    int // depots considered
	Findings  []Finding
}

// OK reports whether the audit found nothing fatal.
func (r Report) OK() bool { return len(r.Findings) == 0 }

// CountKind returns the number of findings of one kind.
func (r Report) CountKind(k Kind) int {
	count := 0
	for i := range r.Findings {
		if r.Findings[i].Kind == k {
			count++
		}
	}

	return count
}

// Check audits the problem. The capacity audit always runs; the
// reachability audit always runs; the time audit runs only when the
// problem carries an active time dimension (profile + positive cap).
//
// Deterministic: customers are audited in node order, and a customer
// yields at most one finding (capacity first, then reachability/time).
//
// Complexity: O(C·D) distance lookups.
func Check(p *vrp.Problem) (Report, error) {
	if err := p.Validate(); err != nil {
		return Report{}, err
	}

	var (
		report  Report
		depots  = p.Depots()
		maxCap  = p.Fleet.MaxCapacity()
		timeDim = p.TimeDimension()
	)
	report.Depots = len(depots)

	for _, c := range p.Customers() {
		report.Customers++
		node := p.Nodes[c]

		// Capacity audit.
		if node.Demand > maxCap {
			report.Findings = append(report.Findings, Finding{
				Kind:        KindOversizedDemand,
				Node:        c,
				Name:        node.Name,
				Demand:      node.Demand,
				MaxCapacity: maxCap,
			})
			continue
		}

		// Nearest-depot round trip.
		var (
			bestDepot = -1
			bestTrip  = math.Inf(1)
		)
		for _, d := range depots {
			out, err := p.Matrix.At(d, c)
			if err != nil {
				return Report{}, err
			}
			back, err := p.Matrix.At(c, d)
			if err != nil {
				return Report{}, err
			}
			trip := out + back
			if trip < bestTrip {
				bestTrip = trip
				bestDepot = d
			}
		}

		if bestDepot == -1 || math.IsInf(bestTrip, 1) {
			report.Findings = append(report.Findings, Finding{
				Kind:            KindUnreachable,
				Node:            c,
				Name:            node.Name,
				NearestDepot:    -1,
				RoundTripMeters: math.Inf(1),
			})
			continue
		}

		if !timeDim {
			continue
		}

		needed := p.Profile.Minutes(bestTrip)
		if needed > p.MaxRouteMinutes {
			report.Findings = append(report.Findings, Finding{
				Kind:            KindTimeExceeded,
				Node:            c,
				Name:            node.Name,
				NearestDepot:    bestDepot,
				RoundTripMeters: bestTrip,
				MinutesNeeded:   needed,
				MinutesAllowed:  p.MaxRouteMinutes,
			})
		}
	}

	return report, nil
}
