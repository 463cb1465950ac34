package ahp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// MatrixReport pairs one matrix's priorities with its consistency verdict.
type MatrixReport struct {
	// Key is CriteriaKey for the criteria matrix, otherwise the criterion label.
	Key         string            `json:"key"`
	Items       []string          `json:"items"`
	Priority    PriorityResult    `json:"priority"`
	Consistency ConsistencyResult `json:"consistency"`
}

// Evaluation is the full result of a hierarchy: every matrix's report plus the
// synthesized ranking. Inconsistent matrices are reported, never suppressed.
type Evaluation struct {
	Name         string          `json:"name"`
	Criteria     MatrixReport    `json:"criteria"`
	Alternatives []MatrixReport  `json:"alternatives"`
	Ranking      SynthesisResult `json:"ranking"`
	Consistent   bool            `json:"consistent"`
	Warnings     []string        `json:"warnings,omitempty"`
}

// Inconsistent returns the reports whose CR exceeds the threshold.
func (e *Evaluation) Inconsistent() []MatrixReport {
	var out []MatrixReport
	if !e.Criteria.Consistency.Acceptable {
		out = append(out, e.Criteria)
	}
	for _, r := range e.Alternatives {
		if !r.Consistency.Acceptable {
			out = append(out, r)
		}
	}
	return out
}

// Observer receives one callback per priority extraction.
type Observer interface {
	ObserveExtraction(method Method, n int, elapsed time.Duration, consistency ConsistencyResult, err error)
}

// Engine runs the extract → score → synthesize pipeline over a Hierarchy.
type Engine struct {
	extractor *Extractor
	parallel  bool
	observer  Observer
	logger    *slog.Logger
}

// NewEngine creates an Engine with the given options.
func NewEngine(opts Options, logger *slog.Logger) *Engine {
	opts = opts.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		extractor: NewExtractor(opts),
		parallel:  opts.Parallel,
		logger:    logger,
	}
}

// WithObserver sets the extraction observer and returns the engine.
func (e *Engine) WithObserver(o Observer) *Engine {
	e.observer = o
	return e
}

// Method returns the extraction method in use.
func (e *Engine) Method() Method { return e.extractor.Method() }

// Analyze extracts priorities from a single matrix and scores its consistency.
func (e *Engine) Analyze(key string, items []string, m *ComparisonMatrix) (MatrixReport, error) {
	start := time.Now()
	p, err := e.extractor.Extract(m)
	var c ConsistencyResult
	if err == nil {
		c = ScoreConsistency(p)
	}
	if e.observer != nil {
		e.observer.ObserveExtraction(e.extractor.Method(), m.Size(), time.Since(start), c, err)
	}
	if err != nil {
		return MatrixReport{}, fmt.Errorf("matrix %q: %w", key, err)
	}

	e.logger.Debug("priorities extracted",
		"matrix", key,
		"n", p.N,
		"lambda_max", p.LambdaMax,
		"cr", c.CR,
		"iterations", p.Iterations,
	)
	if !c.Acceptable {
		e.logger.Warn("inconsistent judgments", "matrix", key, "cr", c.CR)
	}
	return MatrixReport{Key: key, Items: items, Priority: p, Consistency: c}, nil
}

// Evaluate computes all m+1 priority results, scores them and synthesizes the
// ranking. Every matrix must be present.
func (e *Engine) Evaluate(ctx context.Context, h *Hierarchy) (*Evaluation, error) {
	if missing := h.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrMissingCriterionMatrix, missing)
	}

	criteria := h.Criteria()
	alternatives := h.Alternatives()
	reports := make([]MatrixReport, len(criteria)+1)

	jobs := make([]func() error, 0, len(reports))
	jobs = append(jobs, func() error {
		r, err := e.Analyze(CriteriaKey, criteria, h.CriteriaMatrix())
		reports[0] = r
		return err
	})
	for j, c := range criteria {
		jobs = append(jobs, func() error {
			r, err := e.Analyze(c, alternatives, h.AlternativeMatrix(c))
			reports[j+1] = r
			return err
		})
	}

	if e.parallel {
		g, gctx := errgroup.WithContext(ctx)
		for _, job := range jobs {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return job()
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for _, job := range jobs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := job(); err != nil {
				return nil, err
			}
		}
	}

	local := make([]*PriorityResult, len(criteria))
	for j := range criteria {
		local[j] = &reports[j+1].Priority
	}
	ranking, err := Synthesize(reports[0].Priority, local, Labels{Criteria: criteria, Alternatives: alternatives})
	if err != nil {
		return nil, err
	}

	ev := &Evaluation{
		Name:         h.Name,
		Criteria:     reports[0],
		Alternatives: reports[1:],
		Ranking:      ranking,
	}
	for _, r := range ev.Inconsistent() {
		ev.Warnings = append(ev.Warnings, fmt.Sprintf("%s: %s", r.Key, r.Consistency.Verdict()))
	}
	ev.Consistent = len(ev.Warnings) == 0
	return ev, nil
}
