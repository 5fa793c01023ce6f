package solver

import "errors"

// Sentinel errors returned by the solver.
var (
	// ErrNoSolution indicates that no feasible assignment was found: total
	// demand exceeds fleet capacity, a customer fits no vehicle, or the
	// construction strategy stranded customers under the active
	// constraints. Run the feasibility audit for a per-customer diagnosis.
	ErrNoSolution = errors.New("solver: no feasible solution")

	// ErrUnknownStrategy indicates an unrecognized first-solution strategy.
	ErrUnknownStrategy = errors.New("solver: unknown strategy")

	// ErrBadOption indicates an out-of-domain option value (negative
	// epsilon, negative time limit, negative sweep cap).
	ErrBadOption = errors.New("solver: invalid option value")

	// ErrMissingProfile indicates MaxRouteMinutes was set on the problem
	// without a time profile to convert meters into minutes.
	ErrMissingProfile = errors.New("solver: max route time set without time profile")
)

// Strategy selects the first-solution construction algorithm.
type Strategy uint8

const (
	// CheapestArc extends each vehicle's route with the nearest feasible
	// unassigned customer until none fits, then moves to the next vehicle.
	CheapestArc Strategy = iota

	// ParallelSavings runs multi-depot Clarke–Wright savings merging.
	ParallelSavings
)

// String implements fmt.Stringer for logs and CLI flags.
func (s Strategy) String() string {
	switch s {
	case CheapestArc:
		return "cheapest-arc"
	case ParallelSavings:
		return "parallel-savings"
	default:
		return "unknown"
	}
}

// ParseStrategy maps the CLI/API spelling back to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "cheapest-arc", "":
		return CheapestArc, nil
	case "parallel-savings", "savings":
		return ParallelSavings, nil
	default:
		return 0, ErrUnknownStrategy
	}
}
