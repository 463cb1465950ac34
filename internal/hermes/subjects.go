package hermes

const (
	StreamName   = "ARBITER_EVENTS"
	StreamMaxAge = "720h" // 30 days

	// SubjectProjectAll matches every project event.
	SubjectProjectAll = "ahp.project.>"
)

func SubjectProjectCreated(projectID string) string { return "ahp.project." + projectID + ".created" }
func SubjectProjectDeleted(projectID string) string { return "ahp.project." + projectID + ".deleted" }

// SubjectMatrixSubmitted fires when a criteria or alternatives matrix is saved.
func SubjectMatrixSubmitted(projectID string) string {
	return "ahp.project." + projectID + ".matrix.submitted"
}

func SubjectProjectEvaluated(projectID string) string {
	return "ahp.project." + projectID + ".evaluated"
}

// SubjectProjectInconsistent fires alongside evaluated when any matrix has CR > 0.10.
func SubjectProjectInconsistent(projectID string) string {
	return "ahp.project." + projectID + ".inconsistent"
}
