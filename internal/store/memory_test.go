package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Store = (*MemoryStore)(nil)

func newProject(name, owner string) *Project {
	return &Project{
		Name:         name,
		Owner:        owner,
		Criteria:     []string{"Cost", "Performance"},
		Alternatives: []string{"Acme", "Globex"},
	}
}

func TestMemoryStoreProjectLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	p := newProject("vendor", "ops")
	require.NoError(t, s.CreateProject(ctx, p))
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.False(t, p.CreatedAt.IsZero())

	got, err := s.GetProject(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "vendor", got.Name)
	assert.Nil(t, got.CriteriaJudgments)

	require.NoError(t, s.SetCriteriaJudgments(ctx, p.ID, []float64{3}))
	require.NoError(t, s.SetAlternativeJudgments(ctx, p.ID, "Cost", []float64{0.5}))

	got, err = s.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []float64{3}, got.CriteriaJudgments)
	assert.Equal(t, []float64{0.5}, got.AlternativeJudgments["Cost"])

	require.NoError(t, s.DeleteProject(ctx, p.ID))
	got, err = s.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreMissingProject(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	id := uuid.New()

	assert.ErrorIs(t, s.DeleteProject(ctx, id), ErrNotFound)
	assert.ErrorIs(t, s.SetCriteriaJudgments(ctx, id, []float64{1}), ErrNotFound)
	assert.ErrorIs(t, s.SetAlternativeJudgments(ctx, id, "Cost", []float64{1}), ErrNotFound)
	assert.ErrorIs(t, s.RecordEvaluation(ctx, &EvaluationRecord{ProjectID: id}), ErrNotFound)

	rec, err := s.GetLatestEvaluation(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	p := newProject("vendor", "")
	require.NoError(t, s.CreateProject(ctx, p))
	require.NoError(t, s.SetAlternativeJudgments(ctx, p.ID, "Cost", []float64{2}))

	got, _ := s.GetProject(ctx, p.ID)
	got.Criteria[0] = "mutated"
	got.AlternativeJudgments["Cost"][0] = 9

	again, _ := s.GetProject(ctx, p.ID)
	assert.Equal(t, "Cost", again.Criteria[0])
	assert.Equal(t, []float64{2}, again.AlternativeJudgments["Cost"])
}

func TestMemoryStoreListFilters(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	for _, p := range []*Project{
		newProject("Vendor selection", "ops"),
		newProject("Office move", "ops"),
		newProject("vendor renewal", "finance"),
	} {
		require.NoError(t, s.CreateProject(ctx, p))
	}

	all, err := s.ListProjects(ctx, ProjectFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "vendor renewal", all[0].Name, "newest first")

	byOwner, _ := s.ListProjects(ctx, ProjectFilter{Owner: "ops"})
	assert.Len(t, byOwner, 2)

	byName, _ := s.ListProjects(ctx, ProjectFilter{Name: "VENDOR"})
	assert.Len(t, byName, 2)

	page, _ := s.ListProjects(ctx, ProjectFilter{Limit: 1, Offset: 1})
	require.Len(t, page, 1)
	assert.Equal(t, "Office move", page[0].Name)

	empty, _ := s.ListProjects(ctx, ProjectFilter{Offset: 10})
	assert.Empty(t, empty)
}

func TestMemoryStoreLatestEvaluation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	p := newProject("vendor", "")
	require.NoError(t, s.CreateProject(ctx, p))

	first := &EvaluationRecord{ProjectID: p.ID, Method: "power", TopAlternative: "Acme", Result: json.RawMessage(`{"n":1}`)}
	second := &EvaluationRecord{ProjectID: p.ID, Method: "eigen", TopAlternative: "Globex", Result: json.RawMessage(`{"n":2}`)}
	require.NoError(t, s.RecordEvaluation(ctx, first))
	require.NoError(t, s.RecordEvaluation(ctx, second))
	assert.NotEqual(t, first.ID, second.ID)

	latest, err := s.GetLatestEvaluation(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "Globex", latest.TopAlternative)
	assert.JSONEq(t, `{"n":2}`, string(latest.Result))

	got, _ := s.GetProject(ctx, p.ID)
	require.NotNil(t, got.LastEvaluatedAt)
}
