package solver

import (
	"context"
	"time"

	"github.com/openfleet/vrpkit/travel"
	"github.com/openfleet/vrpkit/vrp"
)

// Solve runs one full solver pass over the problem:
//
//	Stage 1 — validation: options, problem structure, matrix values.
//	Stage 2 — quick infeasibility cut: total demand vs fleet capacity.
//	Stage 3 — construction per opts.Strategy.
//	Stage 4 — optional local-search improvement under ctx/TimeLimit.
//	Stage 5 — freeze the solution (depot-anchored routes, dimensions,
//	          rounded totals, wall time).
//
// The context bounds the improvement loop only; construction is not
// interruptible (it is the cheap phase). A nil ctx is treated as
// context.Background().
//
// Errors: sentinels from this package, from vrp.Problem.Validate, and
// from travel.Validate.
func Solve(ctx context.Context, p *vrp.Problem, opts Options) (vrp.Solution, error) {
	started := time.Now()
	if ctx == nil {
		ctx = context.Background()
	}

	// Stage 1: validation.
	if err := validateOptions(opts); err != nil {
		return vrp.Solution{}, err
	}
	if err := p.Validate(); err != nil {
		return vrp.Solution{}, err
	}
	if p.MaxRouteMinutes > 0 && p.Profile == nil {
		return vrp.Solution{}, ErrMissingProfile
	}
	if err := travel.Validate(p.Matrix); err != nil {
		return vrp.Solution{}, err
	}

	// Stage 2: the cheapest possible cut before any search.
	if p.TotalDemand() > p.Fleet.TotalCapacity() {
		return vrp.Solution{}, ErrNoSolution
	}

	// Stage 3: construction.
	s := newState(p)
	var err error
	switch opts.Strategy {
	case CheapestArc:
		err = s.constructCheapestArc()
	case ParallelSavings:
		err = s.constructSavings()
	default:
		err = ErrUnknownStrategy
	}
	if err != nil {
		return vrp.Solution{}, err
	}

	// Stage 4: improvement.
	if opts.EnableLocalSearch {
		s.improve(ctx, opts)
	}

	// Stage 5: freeze.
	sol := s.solution()
	sol.Elapsed = time.Since(started)

	return sol, nil
}
