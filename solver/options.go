package solver

import "time"

// defaultEps is the minimum improvement a local-search move must deliver
// to be accepted; blocks FP-noise "improvements" that cause churn.
const defaultEps = 1e-9

// Options configures one Solve run.
//
// Strategy          – first-solution construction (CheapestArc default).
// EnableLocalSearch – run the 2-opt/relocate/swap improvement loop.
// BestImprovement   – scan full neighborhoods before committing a move;
//
//	slower, often slightly shorter routes.
//
// Eps               – acceptance threshold: a move must cut total meters
//
//	by more than Eps. Must be ≥ 0.
//
// Seed              – when non-zero, shuffles the improvement scan order
//
//	deterministically; zero keeps the canonical order.
//
// TimeLimit         – wall-clock budget for the improvement loop; zero
//
//	means unlimited. Construction always completes.
//
// MaxSweeps         – cap on improvement sweeps; zero means until
//
//	convergence.
type Options struct {
	Strategy          Strategy
	EnableLocalSearch bool
	BestImprovement   bool
	Eps               float64
	Seed              int64
	TimeLimit         time.Duration
	MaxSweeps         int
}

// Option mutates Options in the functional-options style.
type Option func(*Options)

// WithStrategy selects the first-solution construction algorithm.
func WithStrategy(s Strategy) Option {
	return func(o *Options) { o.Strategy = s }
}

// WithoutLocalSearch returns the construction result as-is.
func WithoutLocalSearch() Option {
	return func(o *Options) { o.EnableLocalSearch = false }
}

// WithBestImprovement switches local search from first-improvement to
// best-improvement neighborhood scans.
func WithBestImprovement() Option {
	return func(o *Options) { o.BestImprovement = true }
}

// WithEps overrides the move-acceptance threshold.
func WithEps(eps float64) Option {
	return func(o *Options) { o.Eps = eps }
}

// WithSeed sets the deterministic shuffle seed for the improvement loop.
func WithSeed(seed int64) Option {
	return func(o *Options) { o.Seed = seed }
}

// WithTimeLimit bounds improvement wall time.
func WithTimeLimit(d time.Duration) Option {
	return func(o *Options) { o.TimeLimit = d }
}

// WithMaxSweeps caps the number of improvement sweeps.
func WithMaxSweeps(n int) Option {
	return func(o *Options) { o.MaxSweeps = n }
}

// DefaultOptions returns the solver defaults: cheapest-arc construction,
// first-improvement local search enabled, Eps 1e-9, no seed, no limits.
func DefaultOptions() Options {
	return Options{
		Strategy:          CheapestArc,
		EnableLocalSearch: true,
		Eps:               defaultEps,
	}
}

// NewOptions folds functional options over DefaultOptions.
func NewOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, apply := range opts {
		apply(&o)
	}

	return o
}

// validateOptions rejects out-of-domain values with ErrBadOption and
// unknown strategies with ErrUnknownStrategy.
func validateOptions(o Options) error {
	if o.Eps < 0 || o.TimeLimit < 0 || o.MaxSweeps < 0 {
		return ErrBadOption
	}
	switch o.Strategy {
	case CheapestArc, ParallelSavings:
		return nil
	default:
		return ErrUnknownStrategy
	}
}
