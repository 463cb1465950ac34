// Package evaluation turns stored projects into AHP hierarchies, runs the
// engine over them and announces the outcome.
package evaluation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Arbiter/internal/ahp"
	"github.com/MikeSquared-Agency/Arbiter/internal/hermes"
	"github.com/MikeSquared-Agency/Arbiter/internal/metrics"
	"github.com/MikeSquared-Agency/Arbiter/internal/store"
)

var (
	// ErrProjectNotFound is returned when the project ID does not exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrNoEvaluation is returned for a project that was never evaluated.
	ErrNoEvaluation = errors.New("no evaluation recorded")
)

// Service coordinates the store, the engine and the event bus.
// hermes and metrics are optional.
type Service struct {
	store       store.Store
	hermes      hermes.Client
	engine      *ahp.Engine
	metrics     *metrics.Recorder
	strictScale bool
	logger      *slog.Logger
}

func New(s store.Store, h hermes.Client, engine *ahp.Engine, rec *metrics.Recorder, strictScale bool, logger *slog.Logger) *Service {
	return &Service{
		store:       s,
		hermes:      h,
		engine:      engine,
		metrics:     rec,
		strictScale: strictScale,
		logger:      logger,
	}
}

// CreateProjectRequest is the input for a new project.
type CreateProjectRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Owner        string   `json:"owner,omitempty"`
	Criteria     []string `json:"criteria"`
	Alternatives []string `json:"alternatives"`
}

// Status reports which matrices a project still needs.
type Status struct {
	ProjectID uuid.UUID `json:"project_id"`
	Ready     bool      `json:"ready"`
	Missing   []string  `json:"missing"`
	Submitted []string  `json:"submitted"`
}

// Result is a completed, stored evaluation.
type Result struct {
	EvaluationID uuid.UUID       `json:"evaluation_id"`
	ProjectID    uuid.UUID       `json:"project_id"`
	Evaluation   *ahp.Evaluation `json:"evaluation"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (s *Service) CreateProject(ctx context.Context, req CreateProjectRequest) (*store.Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: project name is required", ahp.ErrInvalidDimension)
	}
	if _, err := ahp.NewHierarchy(name, req.Criteria, req.Alternatives); err != nil {
		return nil, err
	}

	p := &store.Project{
		Name:                 name,
		Description:          req.Description,
		Owner:                req.Owner,
		Criteria:             req.Criteria,
		Alternatives:         req.Alternatives,
		AlternativeJudgments: make(map[string][]float64),
	}
	if err := s.store.CreateProject(ctx, p); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.logger.Info("project created", "project_id", p.ID, "criteria", len(p.Criteria), "alternatives", len(p.Alternatives))
	s.publish(ctx, hermes.SubjectProjectCreated(p.ID.String()), hermes.ProjectCreatedEvent{
		ProjectID:    p.ID.String(),
		Name:         p.Name,
		Owner:        p.Owner,
		Criteria:     p.Criteria,
		Alternatives: p.Alternatives,
	})
	return p, nil
}

func (s *Service) GetProject(ctx context.Context, id uuid.UUID) (*store.Project, error) {
	p, err := s.store.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProjectNotFound
	}
	return p, nil
}

func (s *Service) ListProjects(ctx context.Context, filter store.ProjectFilter) ([]*store.Project, error) {
	return s.store.ListProjects(ctx, filter)
}

func (s *Service) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteProject(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	s.logger.Info("project deleted", "project_id", id)
	s.publish(ctx, hermes.SubjectProjectDeleted(id.String()), hermes.ProjectDeletedEvent{ProjectID: id.String()})
	return nil
}

// SubmitCriteriaMatrix validates and stores the criteria judgments and returns
// the matrix's priorities and consistency as a preview.
func (s *Service) SubmitCriteriaMatrix(ctx context.Context, id uuid.UUID, judgments []float64) (ahp.MatrixReport, error) {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return ahp.MatrixReport{}, err
	}
	report, err := s.analyze(ahp.CriteriaKey, p.Criteria, judgments)
	if err != nil {
		return ahp.MatrixReport{}, err
	}
	if err := s.store.SetCriteriaJudgments(ctx, id, judgments); err != nil {
		return ahp.MatrixReport{}, s.storeErr(err)
	}
	s.matrixSubmitted(ctx, id, report)
	return report, nil
}

// SubmitAlternativeMatrix stores the alternative judgments under one criterion.
func (s *Service) SubmitAlternativeMatrix(ctx context.Context, id uuid.UUID, criterion string, judgments []float64) (ahp.MatrixReport, error) {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return ahp.MatrixReport{}, err
	}
	if !contains(p.Criteria, criterion) {
		return ahp.MatrixReport{}, fmt.Errorf("%w: %q", ahp.ErrUnknownCriterion, criterion)
	}
	report, err := s.analyze(criterion, p.Alternatives, judgments)
	if err != nil {
		return ahp.MatrixReport{}, err
	}
	if err := s.store.SetAlternativeJudgments(ctx, id, criterion, judgments); err != nil {
		return ahp.MatrixReport{}, s.storeErr(err)
	}
	s.matrixSubmitted(ctx, id, report)
	return report, nil
}

func (s *Service) Status(ctx context.Context, id uuid.UUID) (*Status, error) {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	h, err := hierarchyFor(p)
	if err != nil {
		return nil, err
	}
	st := &Status{ProjectID: p.ID, Missing: h.Missing(), Submitted: []string{}}
	if st.Missing == nil {
		st.Missing = []string{}
	}
	if h.CriteriaMatrix() != nil {
		st.Submitted = append(st.Submitted, ahp.CriteriaKey)
	}
	for _, c := range p.Criteria {
		if h.AlternativeMatrix(c) != nil {
			st.Submitted = append(st.Submitted, c)
		}
	}
	st.Ready = len(st.Missing) == 0
	return st, nil
}

// Evaluate runs the full hierarchy, stores the outcome and publishes it.
// Inconsistent matrices are reported in the result and never block it.
func (s *Service) Evaluate(ctx context.Context, id uuid.UUID) (*Result, error) {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	h, err := hierarchyFor(p)
	if err != nil {
		s.observe(metrics.ResultError)
		return nil, err
	}
	if missing := h.Missing(); len(missing) > 0 {
		s.observe(metrics.ResultIncomplete)
		return nil, fmt.Errorf("%w: %s", ahp.ErrMissingCriterionMatrix, strings.Join(missing, ", "))
	}

	ev, err := s.engine.Evaluate(ctx, h)
	if err != nil {
		s.observe(metrics.ResultError)
		return nil, err
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal evaluation: %w", err)
	}
	rec := &store.EvaluationRecord{
		ProjectID:  p.ID,
		Method:     string(s.engine.Method()),
		Consistent: ev.Consistent,
		Result:     data,
	}
	if top, ok := ev.Ranking.Top(); ok {
		rec.TopAlternative = top.Alternative
	}
	if err := s.store.RecordEvaluation(ctx, rec); err != nil {
		return nil, s.storeErr(err)
	}

	if ev.Consistent {
		s.observe(metrics.ResultConsistent)
	} else {
		s.observe(metrics.ResultInconsistent)
	}
	s.logger.Info("project evaluated",
		"project_id", p.ID,
		"evaluation_id", rec.ID,
		"top", rec.TopAlternative,
		"consistent", ev.Consistent,
	)

	ranking := make([]hermes.RankedAlternative, len(ev.Ranking.Ranking))
	for i, r := range ev.Ranking.Ranking {
		ranking[i] = hermes.RankedAlternative{Alternative: r.Alternative, Score: r.Score}
	}
	s.publish(ctx, hermes.SubjectProjectEvaluated(p.ID.String()), hermes.ProjectEvaluatedEvent{
		ProjectID:    p.ID.String(),
		EvaluationID: rec.ID.String(),
		Method:       rec.Method,
		Consistent:   ev.Consistent,
		Ranking:      ranking,
		Timestamp:    rec.CreatedAt,
	})
	if !ev.Consistent {
		evt := hermes.ProjectInconsistentEvent{ProjectID: p.ID.String(), Warnings: ev.Warnings}
		for _, r := range ev.Inconsistent() {
			evt.Matrices = append(evt.Matrices, hermes.InconsistentMatrix{Matrix: r.Key, CR: r.Consistency.CR})
		}
		s.publish(ctx, hermes.SubjectProjectInconsistent(p.ID.String()), evt)
	}

	return &Result{EvaluationID: rec.ID, ProjectID: p.ID, Evaluation: ev, CreatedAt: rec.CreatedAt}, nil
}

func (s *Service) LatestEvaluation(ctx context.Context, id uuid.UUID) (*store.EvaluationRecord, error) {
	if _, err := s.GetProject(ctx, id); err != nil {
		return nil, err
	}
	rec, err := s.store.GetLatestEvaluation(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNoEvaluation
	}
	return rec, nil
}

// EvaluateMatrix checks a single matrix without touching any project.
func (s *Service) EvaluateMatrix(n int, judgments []float64, items []string) (ahp.MatrixReport, error) {
	if n < 1 {
		return ahp.MatrixReport{}, fmt.Errorf("%w: n must be at least 1, got %d", ahp.ErrInvalidDimension, n)
	}
	if len(judgments) != ahp.JudgmentCount(n) {
		return ahp.MatrixReport{}, fmt.Errorf("%w: %d judgments for n=%d, want %d", ahp.ErrInvalidDimension, len(judgments), n, ahp.JudgmentCount(n))
	}
	items, err := itemLabels(n, items)
	if err != nil {
		return ahp.MatrixReport{}, err
	}
	return s.analyze("matrix", items, judgments)
}

// MatrixCheck is the result of checking a full matrix. Judgments is the
// above-diagonal form accepted by the project endpoints.
type MatrixCheck struct {
	Report    ahp.MatrixReport `json:"report"`
	Rows      [][]float64      `json:"rows"`
	Judgments []float64        `json:"judgments"`
}

// EvaluateRows checks a full n×n matrix. The matrix must be reciprocal with a
// unit diagonal.
func (s *Service) EvaluateRows(rows [][]float64, items []string) (MatrixCheck, error) {
	m, err := ahp.MatrixFromRows(rows)
	if err != nil {
		return MatrixCheck{}, fmt.Errorf("matrix %q: %w", "matrix", err)
	}
	judgments := m.Judgments()
	if err := s.checkScale(judgments); err != nil {
		return MatrixCheck{}, err
	}
	items, err = itemLabels(m.Size(), items)
	if err != nil {
		return MatrixCheck{}, err
	}
	report, err := s.engine.Analyze("matrix", items, m)
	if err != nil {
		return MatrixCheck{}, err
	}
	return MatrixCheck{Report: report, Rows: m.Rows(), Judgments: judgments}, nil
}

func itemLabels(n int, items []string) ([]string, error) {
	if len(items) == 0 {
		items = make([]string, 0, n)
		for i := 1; i <= n; i++ {
			items = append(items, fmt.Sprintf("item%d", i))
		}
	}
	if len(items) != n {
		return nil, fmt.Errorf("%w: %d labels for n=%d", ahp.ErrInvalidDimension, len(items), n)
	}
	return items, nil
}

func (s *Service) checkScale(judgments []float64) error {
	if !s.strictScale {
		return nil
	}
	for i, v := range judgments {
		if !ahp.IsSaatyValue(v) {
			return fmt.Errorf("%w: judgment %d (%g) is not on the 1-9 scale", ahp.ErrInvalidJudgment, i, v)
		}
	}
	return nil
}

func (s *Service) analyze(key string, items []string, judgments []float64) (ahp.MatrixReport, error) {
	if err := s.checkScale(judgments); err != nil {
		return ahp.MatrixReport{}, err
	}
	m, err := ahp.BuildMatrix(len(items), judgments)
	if err != nil {
		return ahp.MatrixReport{}, fmt.Errorf("matrix %q: %w", key, err)
	}
	return s.engine.Analyze(key, items, m)
}

func (s *Service) matrixSubmitted(ctx context.Context, id uuid.UUID, r ahp.MatrixReport) {
	s.logger.Info("matrix submitted", "project_id", id, "matrix", r.Key, "cr", r.Consistency.CR)
	s.publish(ctx, hermes.SubjectMatrixSubmitted(id.String()), hermes.MatrixSubmittedEvent{
		ProjectID:  id.String(),
		Matrix:     r.Key,
		Size:       r.Priority.N,
		CR:         r.Consistency.CR,
		Acceptable: r.Consistency.Acceptable,
	})
}

func (s *Service) publish(ctx context.Context, subject string, evt interface{}) {
	if s.hermes == nil {
		return
	}
	if err := s.hermes.Publish(ctx, subject, evt); err != nil {
		s.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}

func (s *Service) observe(result string) {
	if s.metrics != nil {
		s.metrics.ObserveEvaluation(result)
	}
}

func (s *Service) storeErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrProjectNotFound
	}
	return err
}

// hierarchyFor rebuilds the hierarchy from stored judgments. Judgments for
// criteria no longer on the project are ignored.
func hierarchyFor(p *store.Project) (*ahp.Hierarchy, error) {
	h, err := ahp.NewHierarchy(p.Name, p.Criteria, p.Alternatives)
	if err != nil {
		return nil, err
	}
	if p.CriteriaJudgments != nil {
		m, err := ahp.BuildMatrix(len(p.Criteria), p.CriteriaJudgments)
		if err != nil {
			return nil, fmt.Errorf("matrix %q: %w", ahp.CriteriaKey, err)
		}
		if err := h.SetCriteriaMatrix(m); err != nil {
			return nil, err
		}
	}
	for _, c := range p.Criteria {
		judgments, ok := p.AlternativeJudgments[c]
		if !ok {
			continue
		}
		m, err := ahp.BuildMatrix(len(p.Alternatives), judgments)
		if err != nil {
			return nil, fmt.Errorf("matrix %q: %w", c, err)
		}
		if err := h.SetAlternativeMatrix(c, m); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
