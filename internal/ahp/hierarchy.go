package ahp

import (
	"fmt"
	"strings"
)

// CriteriaKey names the criteria-vs-criteria matrix in Missing().
const CriteriaKey = "criteria"

// Hierarchy is a two-level AHP problem: criteria, and alternatives compared under
// each criterion.
type Hierarchy struct {
	Name         string
	criteria     []string
	alternatives []string

	criteriaMatrix *ComparisonMatrix
	altMatrices    map[string]*ComparisonMatrix
}

// NewHierarchy validates the labels and returns an empty hierarchy.
func NewHierarchy(name string, criteria, alternatives []string) (*Hierarchy, error) {
	if len(criteria) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 criteria, got %d", ErrInvalidDimension, len(criteria))
	}
	if len(alternatives) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 alternatives, got %d", ErrInvalidDimension, len(alternatives))
	}
	if err := checkLabels("criterion", criteria); err != nil {
		return nil, err
	}
	if err := checkLabels("alternative", alternatives); err != nil {
		return nil, err
	}
	return &Hierarchy{
		Name:         name,
		criteria:     append([]string(nil), criteria...),
		alternatives: append([]string(nil), alternatives...),
		altMatrices:  make(map[string]*ComparisonMatrix, len(criteria)),
	}, nil
}

func checkLabels(kind string, labels []string) error {
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		if strings.TrimSpace(l) == "" {
			return fmt.Errorf("%w: empty %s label", ErrInvalidDimension, kind)
		}
		if seen[l] {
			return fmt.Errorf("%w: %s %q", ErrDuplicateLabel, kind, l)
		}
		seen[l] = true
	}
	return nil
}

func (h *Hierarchy) Criteria() []string     { return append([]string(nil), h.criteria...) }
func (h *Hierarchy) Alternatives() []string { return append([]string(nil), h.alternatives...) }

// SetCriteriaMatrix stores the m×m criteria matrix.
func (h *Hierarchy) SetCriteriaMatrix(m *ComparisonMatrix) error {
	if m.Size() != len(h.criteria) {
		return fmt.Errorf("%w: criteria matrix is %d×%d, want %d", ErrInvalidDimension, m.Size(), m.Size(), len(h.criteria))
	}
	h.criteriaMatrix = m
	return nil
}

// SetAlternativeMatrix stores the k×k alternatives matrix for one criterion.
func (h *Hierarchy) SetAlternativeMatrix(criterion string, m *ComparisonMatrix) error {
	if h.criterionIndex(criterion) < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownCriterion, criterion)
	}
	if m.Size() != len(h.alternatives) {
		return fmt.Errorf("%w: alternatives matrix for %q is %d×%d, want %d", ErrInvalidDimension, criterion, m.Size(), m.Size(), len(h.alternatives))
	}
	h.altMatrices[criterion] = m
	return nil
}

func (h *Hierarchy) CriteriaMatrix() *ComparisonMatrix { return h.criteriaMatrix }

func (h *Hierarchy) AlternativeMatrix(criterion string) *ComparisonMatrix {
	return h.altMatrices[criterion]
}

// Missing lists the matrices that still need judgments: CriteriaKey first, then
// criterion labels in order.
func (h *Hierarchy) Missing() []string {
	var missing []string
	if h.criteriaMatrix == nil {
		missing = append(missing, CriteriaKey)
	}
	for _, c := range h.criteria {
		if h.altMatrices[c] == nil {
			missing = append(missing, c)
		}
	}
	return missing
}

// Ready reports whether every required matrix is present.
func (h *Hierarchy) Ready() bool {
	return len(h.Missing()) == 0
}

func (h *Hierarchy) criterionIndex(c string) int {
	for i, name := range h.criteria {
		if name == c {
			return i
		}
	}
	return -1
}
