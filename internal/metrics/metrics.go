// Package metrics exposes Prometheus instrumentation for the AHP engine and the
// evaluation service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/MikeSquared-Agency/Arbiter/internal/ahp"
)

// Recorder holds the collectors. It implements ahp.Observer.
type Recorder struct {
	matricesEvaluated  *prometheus.CounterVec
	extractionErrors   *prometheus.CounterVec
	inconsistent       *prometheus.CounterVec
	extractionDuration *prometheus.HistogramVec
	evaluations        *prometheus.CounterVec
	consistencyRatio   prometheus.Histogram
}

// NewRecorder registers the collectors with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		matricesEvaluated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "arbiter_matrices_evaluated_total",
			Help: "Comparison matrices whose priorities were extracted",
		}, []string{"method"}),
		extractionErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "arbiter_extraction_errors_total",
			Help: "Priority extractions that failed",
		}, []string{"method"}),
		inconsistent: f.NewCounterVec(prometheus.CounterOpts{
			Name: "arbiter_inconsistent_matrices_total",
			Help: "Matrices with a consistency ratio above the acceptable threshold",
		}, []string{"size"}),
		extractionDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "arbiter_priority_extraction_seconds",
			Help:    "Time spent extracting the dominant eigenvector",
			Buckets: prometheus.ExponentialBuckets(0.000001, 4, 10), // 1µs to ~260ms
		}, []string{"method"}),
		evaluations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "arbiter_evaluations_total",
			Help: "Hierarchy evaluations by outcome",
		}, []string{"result"}),
		consistencyRatio: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "arbiter_consistency_ratio",
			Help:    "Distribution of consistency ratios for matrices of size 3 or more",
			Buckets: []float64{0.01, 0.025, 0.05, 0.075, 0.1, 0.15, 0.2, 0.5, 1},
		}),
	}
}

// ObserveExtraction implements ahp.Observer.
func (r *Recorder) ObserveExtraction(method ahp.Method, n int, elapsed time.Duration, c ahp.ConsistencyResult, err error) {
	m := string(method)
	r.extractionDuration.WithLabelValues(m).Observe(elapsed.Seconds())
	if err != nil {
		r.extractionErrors.WithLabelValues(m).Inc()
		return
	}
	r.matricesEvaluated.WithLabelValues(m).Inc()
	if n > 2 {
		r.consistencyRatio.Observe(c.CR)
	}
	if !c.Acceptable {
		r.inconsistent.WithLabelValues(sizeLabel(n)).Inc()
	}
}

// Evaluation outcomes.
const (
	ResultConsistent   = "consistent"
	ResultInconsistent = "inconsistent"
	ResultIncomplete   = "incomplete"
	ResultError        = "error"
)

// ObserveEvaluation counts one hierarchy evaluation.
func (r *Recorder) ObserveEvaluation(result string) {
	r.evaluations.WithLabelValues(result).Inc()
}

func sizeLabel(n int) string {
	switch {
	case n <= 3:
		return "3"
	case n <= 5:
		return "4-5"
	case n <= 9:
		return "6-9"
	default:
		return "10+"
	}
}
