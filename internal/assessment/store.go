package assessment

import "context"

// Store is the remote collaborator that persists assessments and computes results.
// Implementations must upsert responses by (assessmentID, questionID).
type Store interface {
	ListCompetencies(ctx context.Context) ([]Competency, error)
	CreateAssessment(ctx context.Context, competencyIDs []string) (Assessment, error)
	// GetAssessment returns the assessment and how many of its questions are answered.
	GetAssessment(ctx context.Context, assessmentID string) (Assessment, int, error)
	SubmitResponse(ctx context.Context, assessmentID, questionID string, rating int, comment string) error
	CompleteAssessment(ctx context.Context, assessmentID string) (Result, error)
	ListMyAssessments(ctx context.Context) ([]Summary, error)
	GetAssessmentResult(ctx context.Context, assessmentID string) (Result, error)
}
