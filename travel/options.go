package travel

// defaultTolerance bounds diagonal and symmetry drift introduced by matrix
// providers that round meters independently per direction.
const defaultTolerance = 1e-9

// Options configures matrix validation.
//
// Symmetric         – require |m[i][j]-m[j][i]| ≤ Tolerance for all pairs.
// AllowUnreachable  – accept +Inf off-diagonal entries (default true; road
//
//	networks legitimately contain disconnected pairs).
//
// Tolerance         – absolute tolerance for diagonal/symmetry checks.
type Options struct {
	Symmetric        bool
	AllowUnreachable bool
	Tolerance        float64
}

// Option mutates Options in the functional-options style.
type Option func(*Options)

// WithSymmetric requires the matrix to be symmetric within tolerance.
func WithSymmetric() Option {
	return func(o *Options) { o.Symmetric = true }
}

// WithDisallowUnreachable rejects +Inf entries; use for problems where
// every pair must be road-connected.
func WithDisallowUnreachable() Option {
	return func(o *Options) { o.AllowUnreachable = false }
}

// WithTolerance overrides the diagonal/symmetry tolerance.
// Non-positive values fall back to the default.
func WithTolerance(tol float64) Option {
	return func(o *Options) {
		if tol > 0 {
			o.Tolerance = tol
		}
	}
}

// DefaultOptions returns the validation defaults: asymmetric matrices
// accepted, unreachable pairs accepted, tolerance 1e-9.
func DefaultOptions() Options {
	return Options{
		Symmetric:        false,
		AllowUnreachable: true,
		Tolerance:        defaultTolerance,
	}
}
