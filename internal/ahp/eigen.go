package ahp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// dominantEigen runs a dense eigendecomposition and returns the real part of the
// eigenvector belonging to the eigenvalue with the greatest real part.
func dominantEigen(m *ComparisonMatrix) ([]float64, float64, error) {
	n := m.Size()
	data := make([]float64, len(m.data))
	copy(data, m.data)

	var eig mat.Eigen
	if ok := eig.Factorize(mat.NewDense(n, n, data), mat.EigenRight); !ok {
		return nil, 0, fmt.Errorf("%w: eigendecomposition failed", ErrInconsistentStructure)
	}
	values := eig.Values(nil)

	top := 0
	for i := 1; i < len(values); i++ {
		if real(values[i]) > real(values[top]) {
			top = i
		}
	}
	lambda := real(values[top])
	if math.Abs(imag(values[top])) > ZeroTolerance {
		return nil, 0, fmt.Errorf("%w: dominant eigenvalue %v is not real", ErrInconsistentStructure, values[top])
	}
	for i, v := range values {
		// Perron–Frobenius guarantees a simple dominant root for positive matrices,
		// so a tie means the input is not a valid comparison matrix.
		if i != top && math.Abs(real(v)-lambda) <= ZeroTolerance {
			return nil, 0, fmt.Errorf("%w: dominant eigenvalue %.6f is repeated", ErrInconsistentStructure, lambda)
		}
	}

	var vecs mat.CDense
	eig.VectorsTo(&vecs)
	raw := make([]float64, n)
	for i := range raw {
		raw[i] = real(vecs.At(i, top))
	}
	return raw, lambda, nil
}
