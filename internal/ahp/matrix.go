package ahp

import (
	"fmt"
	"math"
)

// ReciprocityTolerance bounds |a(i,j)*a(j,i) - 1| for full matrices supplied by callers.
const ReciprocityTolerance = 1e-9

// ComparisonMatrix is a positive reciprocal pairwise-comparison matrix.
// It is immutable once built.
type ComparisonMatrix struct {
	n    int
	data []float64 // row-major n*n
}

// JudgmentCount returns the number of above-diagonal judgments for n items.
func JudgmentCount(n int) int {
	if n < 1 {
		return 0
	}
	return n * (n - 1) / 2
}

// BuildMatrix constructs an n×n matrix from its above-diagonal judgments given in
// row-major order: (0,1), (0,2), …, (0,n-1), (1,2), …, (n-2,n-1).
// The diagonal is set to 1 and each judgment's reciprocal is mirrored below it.
func BuildMatrix(n int, judgments []float64) (*ComparisonMatrix, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: need at least 1 item, got %d", ErrInvalidDimension, n)
	}
	if want := JudgmentCount(n); len(judgments) != want {
		return nil, fmt.Errorf("%w: %d items need %d judgments, got %d", ErrInvalidDimension, n, want, len(judgments))
	}

	m := &ComparisonMatrix{n: n, data: make([]float64, n*n)}
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1.0
	}

	k := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := judgments[k]
			if !validJudgment(v) {
				return nil, fmt.Errorf("%w: judgment %d (%d,%d) = %v", ErrInvalidJudgment, k, i, j, v)
			}
			m.data[i*n+j] = v
			m.data[j*n+i] = 1.0 / v
			k++
		}
	}
	return m, nil
}

// MatrixFromRows validates a full matrix produced elsewhere.
func MatrixFromRows(rows [][]float64) (*ComparisonMatrix, error) {
	n := len(rows)
	if n < 1 {
		return nil, fmt.Errorf("%w: empty matrix", ErrInvalidDimension)
	}
	m := &ComparisonMatrix{n: n, data: make([]float64, n*n)}
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d entries, want %d", ErrInvalidDimension, i, len(row), n)
		}
		for j, v := range row {
			if !validJudgment(v) {
				return nil, fmt.Errorf("%w: entry (%d,%d) = %v", ErrInvalidJudgment, i, j, v)
			}
			m.data[i*n+j] = v
		}
	}

	for i := 0; i < n; i++ {
		if math.Abs(m.At(i, i)-1.0) > ReciprocityTolerance {
			return nil, fmt.Errorf("%w: diagonal (%d,%d) = %v", ErrInconsistentStructure, i, i, m.At(i, i))
		}
		for j := i + 1; j < n; j++ {
			if math.Abs(m.At(i, j)*m.At(j, i)-1.0) > ReciprocityTolerance {
				return nil, fmt.Errorf("%w: (%d,%d) and (%d,%d) are not reciprocal", ErrInconsistentStructure, i, j, j, i)
			}
		}
	}
	return m, nil
}

func validJudgment(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Size returns n.
func (m *ComparisonMatrix) Size() int {
	if m == nil {
		return 0
	}
	return m.n
}

func (m *ComparisonMatrix) At(i, j int) float64 {
	return m.data[i*m.n+j]
}

// Row returns a copy of row i.
func (m *ComparisonMatrix) Row(i int) []float64 {
	out := make([]float64, m.n)
	copy(out, m.data[i*m.n:(i+1)*m.n])
	return out
}

// Rows returns a deep copy of the matrix.
func (m *ComparisonMatrix) Rows() [][]float64 {
	out := make([][]float64, m.Size())
	for i := range out {
		out[i] = m.Row(i)
	}
	return out
}

// Judgments returns the above-diagonal entries in the order BuildMatrix accepts.
func (m *ComparisonMatrix) Judgments() []float64 {
	out := make([]float64, 0, JudgmentCount(m.Size()))
	for i := 0; i < m.Size(); i++ {
		for j := i + 1; j < m.n; j++ {
			out = append(out, m.At(i, j))
		}
	}
	return out
}

// mulVec writes A·x into dst.
func (m *ComparisonMatrix) mulVec(dst, x []float64) {
	for i := 0; i < m.n; i++ {
		var s float64
		row := m.data[i*m.n : (i+1)*m.n]
		for j, a := range row {
			s += a * x[j]
		}
		dst[i] = s
	}
}
