package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by mutations that target a missing project.
// Reads return (nil, nil) instead.
var ErrNotFound = errors.New("not found")

// Project is the persisted form of a two-level decision: its labels and the
// above-diagonal judgments entered so far.
type Project struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Owner        string    `json:"owner,omitempty"`
	Criteria     []string  `json:"criteria"`
	Alternatives []string  `json:"alternatives"`

	// Judgments
	CriteriaJudgments    []float64            `json:"criteria_judgments,omitempty"`
	AlternativeJudgments map[string][]float64 `json:"alternative_judgments,omitempty"`

	// Timestamps
	LastEvaluatedAt *time.Time `json:"last_evaluated_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type ProjectFilter struct {
	Owner  string
	Name   string
	Limit  int
	Offset int
}

// EvaluationRecord is a stored evaluation snapshot. Result holds the engine
// output as JSON so the store stays independent of the engine types.
type EvaluationRecord struct {
	ID             uuid.UUID       `json:"id"`
	ProjectID      uuid.UUID       `json:"project_id"`
	Method         string          `json:"method"`
	Consistent     bool            `json:"consistent"`
	TopAlternative string          `json:"top_alternative"`
	Result         json.RawMessage `json:"result"`
	CreatedAt      time.Time       `json:"created_at"`
}

type Store interface {
	CreateProject(ctx context.Context, p *Project) error
	GetProject(ctx context.Context, id uuid.UUID) (*Project, error)
	ListProjects(ctx context.Context, filter ProjectFilter) ([]*Project, error)
	DeleteProject(ctx context.Context, id uuid.UUID) error

	// Judgments
	SetCriteriaJudgments(ctx context.Context, id uuid.UUID, judgments []float64) error
	SetAlternativeJudgments(ctx context.Context, id uuid.UUID, criterion string, judgments []float64) error

	// Evaluations
	RecordEvaluation(ctx context.Context, e *EvaluationRecord) error
	GetLatestEvaluation(ctx context.Context, projectID uuid.UUID) (*EvaluationRecord, error)

	Migrate(ctx context.Context) error
	Close() error
}
