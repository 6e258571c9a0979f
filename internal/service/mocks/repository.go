package mocks

import (
	"context"
	"errors"
	"time"

	"github.com/godilite/assessment-server/internal/repository/models"
)

// MockAssessmentRepository is a function-field implementation of the
// AssessmentRepository interface for testing the service layer.
type MockAssessmentRepository struct {
	ListCompetenciesFunc           func(ctx context.Context) ([]models.Competency, error)
	GetQuestionsByCompetenciesFunc func(ctx context.Context, competencyIDs []string) ([]models.Question, error)
	CreateAssessmentFunc           func(ctx context.Context, a models.Assessment, questions []models.AssessmentQuestion) error
	GetAssessmentFunc              func(ctx context.Context, id string) (models.Assessment, error)
	GetAssessmentQuestionsFunc     func(ctx context.Context, assessmentID string) ([]models.AssessmentQuestion, error)
	UpsertResponseFunc             func(ctx context.Context, resp models.Response) error
	GetResponsesFunc               func(ctx context.Context, assessmentID string) ([]models.Response, error)
	CompleteAssessmentFunc         func(ctx context.Context, id string, averageScore float64, result []byte, completedAt time.Time) error
	ListAssessmentsByUserFunc      func(ctx context.Context, userID string) ([]models.AssessmentSummary, error)
}

func (m *MockAssessmentRepository) ListCompetencies(ctx context.Context) ([]models.Competency, error) {
	if m.ListCompetenciesFunc != nil {
		return m.ListCompetenciesFunc(ctx)
	}
	return nil, errors.New("ListCompetenciesFunc not implemented")
}

func (m *MockAssessmentRepository) GetQuestionsByCompetencies(ctx context.Context, competencyIDs []string) ([]models.Question, error) {
	if m.GetQuestionsByCompetenciesFunc != nil {
		return m.GetQuestionsByCompetenciesFunc(ctx, competencyIDs)
	}
	return nil, errors.New("GetQuestionsByCompetenciesFunc not implemented")
}

func (m *MockAssessmentRepository) CreateAssessment(ctx context.Context, a models.Assessment, questions []models.AssessmentQuestion) error {
	if m.CreateAssessmentFunc != nil {
		return m.CreateAssessmentFunc(ctx, a, questions)
	}
	return errors.New("CreateAssessmentFunc not implemented")
}

func (m *MockAssessmentRepository) GetAssessment(ctx context.Context, id string) (models.Assessment, error) {
	if m.GetAssessmentFunc != nil {
		return m.GetAssessmentFunc(ctx, id)
	}
	return models.Assessment{}, errors.New("GetAssessmentFunc not implemented")
}

func (m *MockAssessmentRepository) GetAssessmentQuestions(ctx context.Context, assessmentID string) ([]models.AssessmentQuestion, error) {
	if m.GetAssessmentQuestionsFunc != nil {
		return m.GetAssessmentQuestionsFunc(ctx, assessmentID)
	}
	return nil, errors.New("GetAssessmentQuestionsFunc not implemented")
}

func (m *MockAssessmentRepository) UpsertResponse(ctx context.Context, resp models.Response) error {
	if m.UpsertResponseFunc != nil {
		return m.UpsertResponseFunc(ctx, resp)
	}
	return errors.New("UpsertResponseFunc not implemented")
}

func (m *MockAssessmentRepository) GetResponses(ctx context.Context, assessmentID string) ([]models.Response, error) {
	if m.GetResponsesFunc != nil {
		return m.GetResponsesFunc(ctx, assessmentID)
	}
	return nil, errors.New("GetResponsesFunc not implemented")
}

func (m *MockAssessmentRepository) CompleteAssessment(ctx context.Context, id string, averageScore float64, result []byte, completedAt time.Time) error {
	if m.CompleteAssessmentFunc != nil {
		return m.CompleteAssessmentFunc(ctx, id, averageScore, result, completedAt)
	}
	return errors.New("CompleteAssessmentFunc not implemented")
}

func (m *MockAssessmentRepository) ListAssessmentsByUser(ctx context.Context, userID string) ([]models.AssessmentSummary, error) {
	if m.ListAssessmentsByUserFunc != nil {
		return m.ListAssessmentsByUserFunc(ctx, userID)
	}
	return nil, errors.New("ListAssessmentsByUserFunc not implemented")
}
