package grpc

import (
	"context"
	"time"

	"github.com/godilite/assessment-server/internal/assessment"
)

// Cacher defines the interface for cache operations.
// Get must return an error matching cache.ErrMiss when the key is absent.
type Cacher interface {
	Close() error
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// AssessmentService is the store implementation the handlers delegate to.
type AssessmentService interface {
	ListCompetencies(ctx context.Context) ([]assessment.Competency, error)
	CreateAssessment(ctx context.Context, userID string, competencyIDs []string) (assessment.Assessment, error)
	GetAssessment(ctx context.Context, userID, assessmentID string) (assessment.Assessment, int, error)
	SubmitResponse(ctx context.Context, userID, assessmentID, questionID string, rating int, comment string) error
	CompleteAssessment(ctx context.Context, userID, assessmentID string) (assessment.Result, error)
	ListMyAssessments(ctx context.Context, userID string) ([]assessment.Summary, error)
	GetAssessmentResult(ctx context.Context, userID, assessmentID string) (assessment.Result, error)
}
