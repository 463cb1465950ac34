package api

import (
	"encoding/json"
	"net/http"

	"github.com/MikeSquared-Agency/Arbiter/internal/ahp"
	"github.com/MikeSquared-Agency/Arbiter/internal/evaluation"
)

// MatricesHandler serves stateless matrix checks.
type MatricesHandler struct {
	svc *evaluation.Service
}

func NewMatricesHandler(svc *evaluation.Service) *MatricesHandler {
	return &MatricesHandler{svc: svc}
}

// EvaluateMatrixRequest carries either n plus above-diagonal judgments, or a
// full matrix in Rows.
type EvaluateMatrixRequest struct {
	N         int          `json:"n"`
	Items     []string     `json:"items,omitempty"`
	Judgments []Judgment   `json:"judgments,omitempty"`
	Rows      [][]Judgment `json:"rows,omitempty"`
}

func (h *MatricesHandler) Scale(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ahp.SaatyScale)
}

func (h *MatricesHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateMatrixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(req.Rows) > 0 {
		rows := make([][]float64, len(req.Rows))
		for i, row := range req.Rows {
			rows[i] = judgmentValues(row)
		}
		check, err := h.svc.EvaluateRows(rows, req.Items)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"report":    check.Report,
			"verdict":   check.Report.Consistency.Verdict(),
			"rows":      check.Rows,
			"judgments": check.Judgments,
		})
		return
	}
	if req.N == 0 {
		req.N = len(req.Items)
	}
	report, err := h.svc.EvaluateMatrix(req.N, judgmentValues(req.Judgments), req.Items)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"report":  report,
		"verdict": report.Consistency.Verdict(),
	})
}
