package ahp

import "fmt"

const (
	DefaultMaxIterations = 1000
	DefaultTolerance     = 1e-12
	// MinTolerance is the smallest convergence tolerance accepted. Below it the
	// iterates jitter by more than the tolerance and never settle.
	MinTolerance = 1e-15
)

// Options configures priority extraction and evaluation.
type Options struct {
	Method        Method
	MaxIterations int
	Tolerance     float64
	// Parallel computes the per-criterion priorities concurrently.
	Parallel bool
}

// DefaultOptions returns power iteration with parallel evaluation.
func DefaultOptions() Options {
	return Options{
		Method:        MethodPower,
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
		Parallel:      true,
	}
}

func (o Options) withDefaults() Options {
	if o.Method == "" {
		o.Method = MethodPower
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	return o
}

// Validate rejects unknown methods, non-positive limits and tolerances below
// MinTolerance.
func (o Options) Validate() error {
	switch o.Method {
	case MethodPower, MethodEigen:
	default:
		return fmt.Errorf("unknown extraction method %q", o.Method)
	}
	if o.MaxIterations <= 0 {
		return fmt.Errorf("max iterations must be positive, got %d", o.MaxIterations)
	}
	if o.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive, got %g", o.Tolerance)
	}
	if o.Tolerance < MinTolerance {
		return fmt.Errorf("tolerance %g is below the minimum %g", o.Tolerance, MinTolerance)
	}
	return nil
}
