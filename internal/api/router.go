package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Arbiter/internal/evaluation"
)

func NewRouter(svc *evaluation.Service, adminToken string, rateLimit int, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(rateLimit))

	projects := NewProjectsHandler(svc)
	matrices := NewMatricesHandler(svc)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ClientIDMiddleware)

		r.Get("/scale", matrices.Scale)
		r.Post("/matrices/evaluate", matrices.Evaluate)

		r.Post("/projects", projects.Create)
		r.Get("/projects", projects.List)
		r.Get("/projects/{id}", projects.Get)
		r.Put("/projects/{id}/matrices/criteria", projects.SubmitCriteria)
		r.Put("/projects/{id}/matrices/alternatives/{criterion}", projects.SubmitAlternatives)
		r.Get("/projects/{id}/status", projects.Status)
		r.Post("/projects/{id}/evaluate", projects.Evaluate)
		r.Get("/projects/{id}/evaluations/latest", projects.LatestEvaluation)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminToken))
			r.Delete("/projects/{id}", projects.Delete)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
