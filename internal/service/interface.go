package service

import (
	"context"
	"time"

	"github.com/godilite/assessment-server/internal/repository/models"
)

// AssessmentRepository defines the database operations the service needs.
type AssessmentRepository interface {
	ListCompetencies(ctx context.Context) ([]models.Competency, error)
	GetQuestionsByCompetencies(ctx context.Context, competencyIDs []string) ([]models.Question, error)

	CreateAssessment(ctx context.Context, a models.Assessment, questions []models.AssessmentQuestion) error
	GetAssessment(ctx context.Context, id string) (models.Assessment, error)
	GetAssessmentQuestions(ctx context.Context, assessmentID string) ([]models.AssessmentQuestion, error)
	UpsertResponse(ctx context.Context, resp models.Response) error
	GetResponses(ctx context.Context, assessmentID string) ([]models.Response, error)
	CompleteAssessment(ctx context.Context, id string, averageScore float64, result []byte, completedAt time.Time) error
	ListAssessmentsByUser(ctx context.Context, userID string) ([]models.AssessmentSummary, error)
}
