package hermes

import "time"

type ProjectCreatedEvent struct {
	ProjectID    string   `json:"project_id"`
	Name         string   `json:"name"`
	Owner        string   `json:"owner,omitempty"`
	Criteria     []string `json:"criteria"`
	Alternatives []string `json:"alternatives"`
}

type ProjectDeletedEvent struct {
	ProjectID string `json:"project_id"`
}

type MatrixSubmittedEvent struct {
	ProjectID  string  `json:"project_id"`
	Matrix     string  `json:"matrix"` // "criteria" or a criterion label
	Size       int     `json:"size"`
	CR         float64 `json:"cr"`
	Acceptable bool    `json:"acceptable"`
}

type RankedAlternative struct {
	Alternative string  `json:"alternative"`
	Score       float64 `json:"score"`
}

type ProjectEvaluatedEvent struct {
	ProjectID    string              `json:"project_id"`
	EvaluationID string              `json:"evaluation_id,omitempty"`
	Method       string              `json:"method"`
	Consistent   bool                `json:"consistent"`
	Ranking      []RankedAlternative `json:"ranking"`
	Timestamp    time.Time           `json:"timestamp"`
}

type InconsistentMatrix struct {
	Matrix string  `json:"matrix"`
	CR     float64 `json:"cr"`
}

type ProjectInconsistentEvent struct {
	ProjectID string               `json:"project_id"`
	Matrices  []InconsistentMatrix `json:"matrices"`
	Warnings  []string             `json:"warnings"`
}
