package ahp

import "errors"

var (
	// ErrInvalidDimension reports a malformed item count, judgment count or matrix shape.
	ErrInvalidDimension = errors.New("invalid dimension")

	// ErrInvalidJudgment reports a judgment that is not a positive finite number.
	ErrInvalidJudgment = errors.New("invalid judgment")

	// ErrInconsistentStructure reports a matrix whose dominant eigenvector is not
	// strictly non-negative, or a full matrix that is not positive reciprocal.
	// High CR is not this error; that is reported through ConsistencyResult.
	ErrInconsistentStructure = errors.New("inconsistent matrix structure")

	// ErrMissingCriterionMatrix reports synthesis attempted without every
	// per-criterion alternative result.
	ErrMissingCriterionMatrix = errors.New("missing criterion matrix")

	ErrNotConverged     = errors.New("power iteration did not converge")
	ErrDuplicateLabel   = errors.New("duplicate label")
	ErrUnknownCriterion = errors.New("unknown criterion")
)
