package travel

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors shared by matrix construction and validation.
var (
	// ErrInvalidDimensions indicates a non-positive matrix order.
	ErrInvalidDimensions = errors.New("travel: matrix order must be > 0")

	// ErrIndexOutOfBounds indicates a row or column index outside [0..n).
	ErrIndexOutOfBounds = errors.New("travel: index out of bounds")

	// ErrNonSquare indicates ragged or rectangular input rows.
	ErrNonSquare = errors.New("travel: matrix must be square")

	// ErrBadDiagonal indicates a non-zero (beyond tolerance) self-distance.
	ErrBadDiagonal = errors.New("travel: diagonal must be zero")

	// ErrNegativeDistance indicates a negative entry; road distances are non-negative.
	ErrNegativeDistance = errors.New("travel: negative distance")

	// ErrNaNDistance indicates a NaN entry anywhere in the matrix.
	ErrNaNDistance = errors.New("travel: NaN distance")

	// ErrInfDistance indicates a +Inf entry when the caller disallowed
	// unreachable pairs (WithDisallowUnreachable).
	ErrInfDistance = errors.New("travel: unreachable pair not allowed")

	// ErrAsymmetry indicates |m[i][j]-m[j][i]| beyond tolerance when the
	// caller required a symmetric matrix.
	ErrAsymmetry = errors.New("travel: matrix must be symmetric")
)

// matrixErrorf wraps a sentinel with method context for debuggability.
func matrixErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("travel.Matrix.%s(%d,%d): %w", method, row, col, err)
}

// Matrix is a row-major n×n travel-cost matrix in meters.
// The flat backing slice keeps hot-path reads cache friendly.
type Matrix struct {
	n    int       // matrix order
	data []float64 // flat storage, length == n*n
}

// NewMatrix creates an n×n matrix initialized to zeros.
//
// Complexity: O(n²) time and memory.
func NewMatrix(n int) (*Matrix, error) {
	if n <= 0 {
		return nil, ErrInvalidDimensions
	}

	return &Matrix{n: n, data: make([]float64, n*n)}, nil
}

// FromRows copies rows into a new Matrix.
//
// Contract: len(rows) > 0 and every row has len(rows) entries.
// Values are copied verbatim; use Validate for value-level checks.
//
// Complexity: O(n²).
func FromRows(rows [][]float64) (*Matrix, error) {
	n := len(rows)
	if n == 0 {
		return nil, ErrInvalidDimensions
	}

	m := &Matrix{n: n, data: make([]float64, n*n)}

	var i int
	for i = 0; i < n; i++ {
		if len(rows[i]) != n {
			return nil, ErrNonSquare
		}
		copy(m.data[i*n:(i+1)*n], rows[i])
	}

	return m, nil
}

// Rows returns the matrix order (the matrix is always square).
func (m *Matrix) Rows() int { return m.n }

// indexOf computes the flat index for (row, col) or reports out-of-bounds.
func (m *Matrix) indexOf(row, col int) (int, error) {
	if row < 0 || row >= m.n || col < 0 || col >= m.n {
		return 0, ErrIndexOutOfBounds
	}

	return row*m.n + col, nil
}

// At retrieves the distance from row to col in meters.
func (m *Matrix) At(row, col int) (float64, error) {
	idx, err := m.indexOf(row, col)
	if err != nil {
		return 0, matrixErrorf("At", row, col, err)
	}

	return m.data[idx], nil
}

// Set assigns the distance from row to col in meters.
func (m *Matrix) Set(row, col int, meters float64) error {
	idx, err := m.indexOf(row, col)
	if err != nil {
		return matrixErrorf("Set", row, col, err)
	}
	m.data[idx] = meters

	return nil
}

// RowView returns the backing slice for one row without copying.
//
// Contract: 0 ≤ row < n (panics otherwise, like native slice indexing);
// the caller must not resize the returned slice. Solvers use this to read
// an entire cost row without per-cell bound checks.
func (m *Matrix) RowView(row int) []float64 {
	return m.data[row*m.n : (row+1)*m.n]
}

// Clone returns a deep copy of the matrix.
//
// Complexity: O(n²).
func (m *Matrix) Clone() *Matrix {
	data := make([]float64, len(m.data))
	copy(data, m.data)

	return &Matrix{n: m.n, data: data}
}

// ToRows materializes the matrix as [][]float64, one fresh slice per row.
// Used by codecs; solvers should prefer RowView.
//
// Complexity: O(n²).
func (m *Matrix) ToRows() [][]float64 {
	rows := make([][]float64, m.n)

	var i int
	for i = 0; i < m.n; i++ {
		rows[i] = make([]float64, m.n)
		copy(rows[i], m.RowView(i))
	}

	return rows
}

// Reachable reports whether the pair (row, col) is connected, i.e. the
// stored distance is finite. Out-of-range indices report false.
func (m *Matrix) Reachable(row, col int) bool {
	idx, err := m.indexOf(row, col)
	if err != nil {
		return false
	}

	return !math.IsInf(m.data[idx], 0) && !math.IsNaN(m.data[idx])
}
