package travel

import "math"

// Validate performs the full staged value check of a travel matrix:
//
//  1. Shape: non-nil, order ≥ 1.
//  2. Diagonal: |m[i][i]| ≤ tolerance, finite.
//  3. Values: no NaN anywhere; no negative off-diagonal entries;
//     +Inf rejected unless AllowUnreachable.
//  4. Symmetry: |m[i][j]-m[j][i]| ≤ tolerance when Symmetric.
//
// Deterministic, side-effect free, sentinel errors only.
//
// Complexity: O(n²) time, O(1) space.
func Validate(m *Matrix, opts ...Option) error {
	if m == nil || m.n <= 0 {
		return ErrInvalidDimensions
	}

	o := DefaultOptions()
	var apply Option
	for _, apply = range opts {
		apply(&o)
	}

	var (
		n        = m.n
		i, j     int
		aij, aji float64
	)

	// Stage 2: diagonal.
	for i = 0; i < n; i++ {
		aij = m.data[i*n+i]
		if math.IsNaN(aij) {
			return ErrNaNDistance
		}
		if math.Abs(aij) > o.Tolerance {
			return ErrBadDiagonal
		}
	}

	// Stage 3+4: off-diagonal values (and symmetry in the same pass).
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if i == j {
				continue
			}
			aij = m.data[i*n+j]
			if math.IsNaN(aij) {
				return ErrNaNDistance
			}
			if aij < 0 {
				return ErrNegativeDistance
			}
			if math.IsInf(aij, 1) && !o.AllowUnreachable {
				return ErrInfDistance
			}
			if o.Symmetric && j > i {
				aji = m.data[j*n+i]
				// Two infinities of the same sign are symmetric by definition.
				if math.IsInf(aij, 1) && math.IsInf(aji, 1) {
					continue
				}
				if math.Abs(aij-aji) > o.Tolerance {
					return ErrAsymmetry
				}
			}
		}
	}

	return nil
}
