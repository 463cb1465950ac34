package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps projects in process memory. It backs the service when no
// database is configured and doubles as the store in handler tests.
type MemoryStore struct {
	mu          sync.RWMutex
	projects    map[uuid.UUID]*Project
	evaluations map[uuid.UUID][]*EvaluationRecord
	now         func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects:    make(map[uuid.UUID]*Project),
		evaluations: make(map[uuid.UUID][]*EvaluationRecord),
		now:         time.Now,
	}
}

func (s *MemoryStore) CreateProject(_ context.Context, p *Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.AlternativeJudgments == nil {
		p.AlternativeJudgments = make(map[string][]float64)
	}
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt
	s.projects[p.ID] = cloneProject(p)
	return nil
}

func (s *MemoryStore) GetProject(_ context.Context, id uuid.UUID) (*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, nil
	}
	return cloneProject(p), nil
}

func (s *MemoryStore) ListProjects(_ context.Context, filter ProjectFilter) ([]*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Project
	for _, p := range s.projects {
		if filter.Owner != "" && p.Owner != filter.Owner {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Name)) {
			continue
		}
		out = append(out, cloneProject(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) DeleteProject(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return ErrNotFound
	}
	delete(s.projects, id)
	delete(s.evaluations, id)
	return nil
}

func (s *MemoryStore) SetCriteriaJudgments(_ context.Context, id uuid.UUID, judgments []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return ErrNotFound
	}
	p.CriteriaJudgments = append([]float64(nil), judgments...)
	p.UpdatedAt = s.now()
	return nil
}

func (s *MemoryStore) SetAlternativeJudgments(_ context.Context, id uuid.UUID, criterion string, judgments []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return ErrNotFound
	}
	p.AlternativeJudgments[criterion] = append([]float64{}, judgments...)
	p.UpdatedAt = s.now()
	return nil
}

func (s *MemoryStore) RecordEvaluation(_ context.Context, e *EvaluationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[e.ProjectID]
	if !ok {
		return ErrNotFound
	}
	e.ID = uuid.New()
	e.CreatedAt = s.now()
	at := e.CreatedAt
	p.LastEvaluatedAt = &at

	rec := *e
	rec.Result = append([]byte(nil), e.Result...)
	s.evaluations[e.ProjectID] = append(s.evaluations[e.ProjectID], &rec)
	return nil
}

func (s *MemoryStore) GetLatestEvaluation(_ context.Context, projectID uuid.UUID) (*EvaluationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := s.evaluations[projectID]
	if len(recs) == 0 {
		return nil, nil
	}
	rec := *recs[len(recs)-1]
	return &rec, nil
}

func (s *MemoryStore) Migrate(context.Context) error { return nil }
func (s *MemoryStore) Close() error                  { return nil }

func cloneProject(p *Project) *Project {
	c := *p
	c.Criteria = append([]string(nil), p.Criteria...)
	c.Alternatives = append([]string(nil), p.Alternatives...)
	c.CriteriaJudgments = append([]float64(nil), p.CriteriaJudgments...)
	c.AlternativeJudgments = make(map[string][]float64, len(p.AlternativeJudgments))
	for k, v := range p.AlternativeJudgments {
		c.AlternativeJudgments[k] = append([]float64(nil), v...)
	}
	if p.LastEvaluatedAt != nil {
		at := *p.LastEvaluatedAt
		c.LastEvaluatedAt = &at
	}
	return &c
}
