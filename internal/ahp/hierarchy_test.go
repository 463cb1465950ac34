package ahp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHierarchyValidation(t *testing.T) {
	tests := []struct {
		name         string
		criteria     []string
		alternatives []string
		want         error
	}{
		{"one criterion", []string{"a"}, []string{"x", "y"}, ErrInvalidDimension},
		{"one alternative", []string{"a", "b"}, []string{"x"}, ErrInvalidDimension},
		{"blank label", []string{"a", " "}, []string{"x", "y"}, ErrInvalidDimension},
		{"duplicate criterion", []string{"a", "a"}, []string{"x", "y"}, ErrDuplicateLabel},
		{"duplicate alternative", []string{"a", "b"}, []string{"x", "x"}, ErrDuplicateLabel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHierarchy("h", tt.criteria, tt.alternatives)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestHierarchyMissingAndReady(t *testing.T) {
	h, err := NewHierarchy("h", []string{"a", "b"}, []string{"x", "y", "z"})
	require.NoError(t, err)
	assert.Equal(t, []string{CriteriaKey, "a", "b"}, h.Missing())
	assert.False(t, h.Ready())

	require.NoError(t, h.SetCriteriaMatrix(mustMatrix(t, 2, []float64{2})))
	require.NoError(t, h.SetAlternativeMatrix("b", mustMatrix(t, 3, []float64{1, 2, 3})))
	assert.Equal(t, []string{"a"}, h.Missing())

	require.NoError(t, h.SetAlternativeMatrix("a", mustMatrix(t, 3, []float64{1, 1, 1})))
	assert.Empty(t, h.Missing())
	assert.True(t, h.Ready())
}

func TestHierarchySetMatrixErrors(t *testing.T) {
	h, err := NewHierarchy("h", []string{"a", "b"}, []string{"x", "y", "z"})
	require.NoError(t, err)

	assert.ErrorIs(t, h.SetCriteriaMatrix(mustMatrix(t, 3, []float64{1, 1, 1})), ErrInvalidDimension)
	assert.ErrorIs(t, h.SetAlternativeMatrix("c", mustMatrix(t, 3, []float64{1, 1, 1})), ErrUnknownCriterion)
	assert.ErrorIs(t, h.SetAlternativeMatrix("a", mustMatrix(t, 2, []float64{1})), ErrInvalidDimension)
}

func TestHierarchyLabelsAreCopied(t *testing.T) {
	criteria := []string{"a", "b"}
	h, err := NewHierarchy("h", criteria, []string{"x", "y"})
	require.NoError(t, err)
	criteria[0] = "changed"
	got := h.Criteria()
	got[1] = "changed"
	assert.Equal(t, []string{"a", "b"}, h.Criteria())
}
