//go:build integration

package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
)

func setupTestDB(t *testing.T) *PostgresStore {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := NewPostgresStore(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		_, _ = s.pool.Exec(ctx, "TRUNCATE ahp_evaluations CASCADE")
		_, _ = s.pool.Exec(ctx, "TRUNCATE ahp_projects CASCADE")
		s.Close()
	})

	return s
}

func createTestProject(t *testing.T, s *PostgresStore) *Project {
	t.Helper()
	p := &Project{
		Name:         "Integration Project",
		Owner:        "test-owner",
		Criteria:     []string{"Cost", "Performance", "Security"},
		Alternatives: []string{"Acme", "Globex"},
	}
	if err := s.CreateProject(context.Background(), p); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	return p
}

func TestCreateAndGetProject(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()
	p := createTestProject(t, s)

	if p.ID == uuid.Nil {
		t.Fatal("expected non-nil project ID after create")
	}
	if p.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}

	got, err := s.GetProject(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected project, got nil")
	}
	if got.Name != "Integration Project" {
		t.Errorf("expected name 'Integration Project', got '%s'", got.Name)
	}
	if len(got.Criteria) != 3 || len(got.Alternatives) != 2 {
		t.Errorf("unexpected labels %v / %v", got.Criteria, got.Alternatives)
	}
	if got.CriteriaJudgments != nil {
		t.Errorf("expected no criteria judgments, got %v", got.CriteriaJudgments)
	}
}

func TestGetProjectNotFound(t *testing.T) {
	s := setupTestDB(t)
	got, err := s.GetProject(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != nil {
		t.Fatal("expected nil for missing project")
	}
}

func TestSetJudgments(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()
	p := createTestProject(t, s)

	if err := s.SetCriteriaJudgments(ctx, p.ID, []float64{3, 5, 2}); err != nil {
		t.Fatalf("SetCriteriaJudgments failed: %v", err)
	}
	if err := s.SetAlternativeJudgments(ctx, p.ID, "Cost", []float64{4}); err != nil {
		t.Fatalf("SetAlternativeJudgments failed: %v", err)
	}
	if err := s.SetAlternativeJudgments(ctx, p.ID, "Security", []float64{0.25}); err != nil {
		t.Fatalf("SetAlternativeJudgments failed: %v", err)
	}

	got, err := s.GetProject(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if len(got.CriteriaJudgments) != 3 || got.CriteriaJudgments[0] != 3 {
		t.Errorf("unexpected criteria judgments %v", got.CriteriaJudgments)
	}
	if got.AlternativeJudgments["Cost"][0] != 4 || got.AlternativeJudgments["Security"][0] != 0.25 {
		t.Errorf("unexpected alternative judgments %v", got.AlternativeJudgments)
	}
	if _, ok := got.AlternativeJudgments["Performance"]; ok {
		t.Error("expected Performance judgments to be absent")
	}

	if err := s.SetCriteriaJudgments(ctx, uuid.New(), []float64{1}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordAndGetLatestEvaluation(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()
	p := createTestProject(t, s)

	for _, top := range []string{"Acme", "Globex"} {
		e := &EvaluationRecord{
			ProjectID:      p.ID,
			Method:         "power",
			Consistent:     true,
			TopAlternative: top,
			Result:         json.RawMessage(`{"name":"Integration Project"}`),
		}
		if err := s.RecordEvaluation(ctx, e); err != nil {
			t.Fatalf("RecordEvaluation failed: %v", err)
		}
	}

	latest, err := s.GetLatestEvaluation(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetLatestEvaluation failed: %v", err)
	}
	if latest == nil || latest.TopAlternative != "Globex" {
		t.Fatalf("expected latest evaluation for Globex, got %+v", latest)
	}

	got, _ := s.GetProject(ctx, p.ID)
	if got.LastEvaluatedAt == nil {
		t.Error("expected last_evaluated_at to be set")
	}
}

func TestListAndDeleteProjects(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()
	p := createTestProject(t, s)
	createTestProject(t, s)

	projects, err := s.ListProjects(ctx, ProjectFilter{Owner: "test-owner"})
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}

	if err := s.DeleteProject(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProject failed: %v", err)
	}
	if err := s.DeleteProject(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}
