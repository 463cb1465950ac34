package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Arbiter/internal/ahp"
	"github.com/MikeSquared-Agency/Arbiter/internal/evaluation"
	"github.com/MikeSquared-Agency/Arbiter/internal/store"
)

func setupTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := ahp.NewEngine(ahp.DefaultOptions(), logger)
	svc := evaluation.New(store.NewMemoryStore(), nil, engine, nil, false, logger)
	return NewRouter(svc, "test-token", 1000, logger)
}

func do(t *testing.T, h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func createVendorProject(t *testing.T, h http.Handler) store.Project {
	t.Helper()
	body := `{"name":"vendor selection","criteria":["Cost","Performance","Security"],"alternatives":["Acme","Globex","Initech"]}`
	w := do(t, h, "POST", "/api/v1/projects", body, ClientHeader, "procurement")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var p store.Project
	require.NoError(t, json.NewDecoder(w.Body).Decode(&p))
	return p
}

func projectPath(p store.Project, suffix string) string {
	return "/api/v1/projects/" + p.ID.String() + suffix
}

func TestCreateProject(t *testing.T) {
	router := setupTestRouter(t)
	p := createVendorProject(t, router)

	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, "procurement", p.Owner, "owner defaults to the client header")
	assert.Equal(t, []string{"Cost", "Performance", "Security"}, p.Criteria)
}

func TestCreateProjectValidation(t *testing.T) {
	router := setupTestRouter(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed", `{`, http.StatusBadRequest},
		{"one criterion", `{"name":"x","criteria":["a"],"alternatives":["p","q"]}`, http.StatusBadRequest},
		{"duplicate alternative", `{"name":"x","criteria":["a","b"],"alternatives":["p","p"]}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, "POST", "/api/v1/projects", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestGetProject(t *testing.T) {
	router := setupTestRouter(t)
	p := createVendorProject(t, router)

	w := do(t, router, "GET", projectPath(p, ""), "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, "GET", "/api/v1/projects/"+uuid.New().String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, "GET", "/api/v1/projects/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListProjects(t *testing.T) {
	router := setupTestRouter(t)

	w := do(t, router, "GET", "/api/v1/projects", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	createVendorProject(t, router)
	w = do(t, router, "GET", "/api/v1/projects?owner=procurement&limit=10", "")
	require.Equal(t, http.StatusOK, w.Code)
	var projects []store.Project
	require.NoError(t, json.NewDecoder(w.Body).Decode(&projects))
	assert.Len(t, projects, 1)

	w = do(t, router, "GET", "/api/v1/projects?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitMatrixAcceptsFractions(t *testing.T) {
	router := setupTestRouter(t)
	p := createVendorProject(t, router)

	w := do(t, router, "PUT", projectPath(p, "/matrices/alternatives/Security"), `{"judgments":["1/5","1/2",3]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var report ahp.MatrixReport
	require.NoError(t, json.NewDecoder(w.Body).Decode(&report))
	assert.Equal(t, "Security", report.Key)
	assert.True(t, report.Consistency.Acceptable)
	assert.InDelta(t, 1.0, sum(report.Priority.Weights), 1e-9)
}

func TestSubmitMatrixErrors(t *testing.T) {
	router := setupTestRouter(t)
	p := createVendorProject(t, router)

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"wrong count", "/matrices/criteria", `{"judgments":[3,5]}`, http.StatusBadRequest},
		{"non-positive", "/matrices/criteria", `{"judgments":[3,0,2]}`, http.StatusBadRequest},
		{"bad fraction", "/matrices/criteria", `{"judgments":["1/0",5,2]}`, http.StatusBadRequest},
		{"unknown criterion", "/matrices/alternatives/Speed", `{"judgments":[1,1,1]}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, "PUT", projectPath(p, tt.path), tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}

	w := do(t, router, "PUT", "/api/v1/projects/"+uuid.New().String()+"/matrices/criteria", `{"judgments":[3,5,2]}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEvaluateFlow(t *testing.T) {
	router := setupTestRouter(t)
	p := createVendorProject(t, router)

	w := do(t, router, "POST", projectPath(p, "/evaluate"), "")
	assert.Equal(t, http.StatusConflict, w.Code, "matrices missing")

	w = do(t, router, "GET", projectPath(p, "/evaluations/latest"), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	matrices := map[string]string{
		"/matrices/criteria":                 `{"judgments":[3,5,2]}`,
		"/matrices/alternatives/Cost":        `{"judgments":[2,4,2]}`,
		"/matrices/alternatives/Performance": `{"judgments":["1/3",1,3]}`,
		"/matrices/alternatives/Security":    `{"judgments":["1/5","1/2",3]}`,
	}
	for path, body := range matrices {
		w := do(t, router, "PUT", projectPath(p, path), body)
		require.Equal(t, http.StatusOK, w.Code, "%s: %s", path, w.Body.String())
	}

	w = do(t, router, "GET", projectPath(p, "/status"), "")
	require.Equal(t, http.StatusOK, w.Code)
	var st evaluation.Status
	require.NoError(t, json.NewDecoder(w.Body).Decode(&st))
	assert.True(t, st.Ready)

	w = do(t, router, "POST", projectPath(p, "/evaluate"), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res evaluation.Result
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	require.NotNil(t, res.Evaluation)
	assert.True(t, res.Evaluation.Consistent)
	require.Len(t, res.Evaluation.Ranking.Ranking, 3)
	assert.Equal(t, "Acme", res.Evaluation.Ranking.Ranking[0].Alternative)

	w = do(t, router, "GET", projectPath(p, "/evaluations/latest"), "")
	require.Equal(t, http.StatusOK, w.Code)
	var rec store.EvaluationRecord
	require.NoError(t, json.NewDecoder(w.Body).Decode(&rec))
	assert.Equal(t, res.EvaluationID, rec.ID)
	assert.Equal(t, "Acme", rec.TopAlternative)
}

func TestDeleteProjectRequiresAdminToken(t *testing.T) {
	router := setupTestRouter(t)
	p := createVendorProject(t, router)

	w := do(t, router, "DELETE", projectPath(p, ""), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, router, "DELETE", projectPath(p, ""), "", "Authorization", "Bearer test-token")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, router, "DELETE", projectPath(p, ""), "", "Authorization", "Bearer test-token")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScaleEndpoint(t *testing.T) {
	router := setupTestRouter(t)
	w := do(t, router, "GET", "/api/v1/scale", "")
	require.Equal(t, http.StatusOK, w.Code)

	var scale []ahp.ScaleEntry
	require.NoError(t, json.NewDecoder(w.Body).Decode(&scale))
	assert.Len(t, scale, len(ahp.SaatyScale))
}

func TestEvaluateMatrixEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	w := do(t, router, "POST", "/api/v1/matrices/evaluate", `{"n":3,"judgments":[9,"1/9",9]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		Report  ahp.MatrixReport `json:"report"`
		Verdict string           `json:"verdict"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	assert.False(t, out.Report.Consistency.Acceptable)
	assert.Contains(t, out.Verdict, "unacceptable")

	w = do(t, router, "POST", "/api/v1/matrices/evaluate", `{"items":["a","b"],"judgments":[4]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for _, body := range []string{
		`{"n":3,"judgments":[1]}`,
		`{"n":-1}`,
		`{"n":-1,"judgments":[2]}`,
		`{}`,
	} {
		w = do(t, router, "POST", "/api/v1/matrices/evaluate", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestEvaluateMatrixEndpointRows(t *testing.T) {
	router := setupTestRouter(t)

	w := do(t, router, "POST", "/api/v1/matrices/evaluate", `{"rows":[[1,2,4],["1/2",1,2],["1/4","1/2",1]]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		Report    ahp.MatrixReport `json:"report"`
		Judgments []float64        `json:"judgments"`
		Rows      [][]float64      `json:"rows"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	assert.Equal(t, []float64{2, 4, 2}, out.Judgments)
	assert.Len(t, out.Rows, 3)
	assert.True(t, out.Report.Consistency.Acceptable)

	w = do(t, router, "POST", "/api/v1/matrices/evaluate", `{"rows":[[1,2],[2,1]]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "non-reciprocal matrix")

	w = do(t, router, "POST", "/api/v1/matrices/evaluate", `{"rows":[[1,2,3],[0.5,1]]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	router := NewMetricsRouter()
	w := do(t, router, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, "GET", "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{evaluation.ErrProjectNotFound, http.StatusNotFound},
		{evaluation.ErrNoEvaluation, http.StatusNotFound},
		{fmt.Errorf("wrap: %w", ahp.ErrInvalidDimension), http.StatusBadRequest},
		{ahp.ErrInvalidJudgment, http.StatusBadRequest},
		{ahp.ErrDuplicateLabel, http.StatusBadRequest},
		{ahp.ErrUnknownCriterion, http.StatusBadRequest},
		{ahp.ErrMissingCriterionMatrix, http.StatusConflict},
		{ahp.ErrInconsistentStructure, http.StatusUnprocessableEntity},
		{ahp.ErrNotConverged, http.StatusUnprocessableEntity},
		{fmt.Errorf("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}
