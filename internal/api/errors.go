package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MikeSquared-Agency/Arbiter/internal/ahp"
	"github.com/MikeSquared-Agency/Arbiter/internal/evaluation"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

// statusFor maps service and engine errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, evaluation.ErrProjectNotFound), errors.Is(err, evaluation.ErrNoEvaluation):
		return http.StatusNotFound
	case errors.Is(err, ahp.ErrInvalidDimension),
		errors.Is(err, ahp.ErrInvalidJudgment),
		errors.Is(err, ahp.ErrDuplicateLabel),
		errors.Is(err, ahp.ErrUnknownCriterion):
		return http.StatusBadRequest
	case errors.Is(err, ahp.ErrMissingCriterionMatrix):
		return http.StatusConflict
	case errors.Is(err, ahp.ErrInconsistentStructure), errors.Is(err, ahp.ErrNotConverged):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
