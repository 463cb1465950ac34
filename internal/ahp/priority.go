package ahp

import (
	"fmt"
	"math"
)

// Method selects how the dominant eigenvector is computed.
type Method string

const (
	MethodPower Method = "power"
	MethodEigen Method = "eigen"
)

// ZeroTolerance is the magnitude below which weight entries are treated as zero.
const ZeroTolerance = 1e-9

// PriorityResult is the normalized dominant eigenvector of one ComparisonMatrix.
type PriorityResult struct {
	Weights    []float64 `json:"weights"`
	LambdaMax  float64   `json:"lambda_max"`
	N          int       `json:"n"`
	Method     Method    `json:"method"`
	Iterations int       `json:"iterations,omitempty"`
}

// Extractor computes PriorityResults. The zero value is not usable; use NewExtractor.
type Extractor struct {
	method        Method
	maxIterations int
	tolerance     float64
}

// NewExtractor creates an Extractor from opts, filling unset fields with defaults.
func NewExtractor(opts Options) *Extractor {
	opts = opts.withDefaults()
	return &Extractor{
		method:        opts.Method,
		maxIterations: opts.MaxIterations,
		tolerance:     opts.Tolerance,
	}
}

// Method returns the configured extraction method.
func (e *Extractor) Method() Method { return e.method }

// Extract returns the priority vector and λmax of m.
func (e *Extractor) Extract(m *ComparisonMatrix) (PriorityResult, error) {
	n := m.Size()
	switch n {
	case 0:
		return PriorityResult{Weights: []float64{}, N: 0, Method: e.method}, nil
	case 1:
		return PriorityResult{Weights: []float64{1.0}, LambdaMax: 1.0, N: 1, Method: e.method}, nil
	}

	var (
		raw    []float64
		lambda float64
		iters  int
		err    error
	)
	switch e.method {
	case MethodEigen:
		raw, lambda, err = dominantEigen(m)
	default:
		raw, lambda, iters, err = e.powerIterate(m)
	}
	if err != nil {
		return PriorityResult{}, err
	}

	weights, err := normalize(raw)
	if err != nil {
		return PriorityResult{}, err
	}
	return PriorityResult{
		Weights:    weights,
		LambdaMax:  lambda,
		N:          n,
		Method:     e.method,
		Iterations: iters,
	}, nil
}

// powerIterate repeatedly multiplies a uniform seed by m, renormalizing to unit
// sum, until successive vectors differ by at most the tolerance.
func (e *Extractor) powerIterate(m *ComparisonMatrix) ([]float64, float64, int, error) {
	n := m.Size()
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = 1.0 / float64(n)
	}

	for iter := 1; iter <= e.maxIterations; iter++ {
		m.mulVec(y, x)
		var sum float64
		for _, v := range y {
			sum += v
		}
		if sum <= 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
			return nil, 0, iter, fmt.Errorf("%w: iterate sum %v", ErrInconsistentStructure, sum)
		}

		var delta float64
		for i := range y {
			y[i] /= sum
			if d := math.Abs(y[i] - x[i]); d > delta {
				delta = d
			}
		}
		x, y = y, x

		if delta <= e.tolerance {
			// x sums to 1, so Σ(A·x) = λ·Σx = λ.
			m.mulVec(y, x)
			var lambda float64
			for _, v := range y {
				lambda += v
			}
			return x, lambda, iter, nil
		}
	}
	return nil, 0, e.maxIterations, fmt.Errorf("%w after %d iterations", ErrNotConverged, e.maxIterations)
}

// normalize divides raw by its sum. A negative sum flips an eigenvector that the
// solver returned with overall negative sign.
func normalize(raw []float64) ([]float64, error) {
	var sum float64
	for _, v := range raw {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite eigenvector entry", ErrInconsistentStructure)
		}
		sum += v
	}
	if math.Abs(sum) <= ZeroTolerance {
		return nil, fmt.Errorf("%w: eigenvector sums to zero", ErrInconsistentStructure)
	}

	out := make([]float64, len(raw))
	for i, v := range raw {
		w := v / sum
		if w < -ZeroTolerance {
			return nil, fmt.Errorf("%w: weight %d is negative (%v)", ErrInconsistentStructure, i, w)
		}
		if w < ZeroTolerance {
			w = math.Max(w, 0)
		}
		out[i] = w
	}
	return out, nil
}

// Validate checks that the weights sum to 1 and none are negative.
func (p PriorityResult) Validate() error {
	if len(p.Weights) != p.N {
		return fmt.Errorf("%w: %d weights for n=%d", ErrInvalidDimension, len(p.Weights), p.N)
	}
	if p.N == 0 {
		return nil
	}
	var sum float64
	for i, w := range p.Weights {
		if w < -ZeroTolerance {
			return fmt.Errorf("negative weight %d: %f", i, w)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > ZeroTolerance {
		return fmt.Errorf("weights sum to %.12f, must sum to 1.0", sum)
	}
	return nil
}
