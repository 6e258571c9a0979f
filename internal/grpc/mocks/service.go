package mocks

import (
	"context"
	"errors"

	"github.com/godilite/assessment-server/internal/assessment"
)

// MockAssessmentService is a function-field implementation of the
// AssessmentService interface for testing the handler layer.
type MockAssessmentService struct {
	ListCompetenciesFunc    func(ctx context.Context) ([]assessment.Competency, error)
	CreateAssessmentFunc    func(ctx context.Context, userID string, competencyIDs []string) (assessment.Assessment, error)
	GetAssessmentFunc       func(ctx context.Context, userID, assessmentID string) (assessment.Assessment, int, error)
	SubmitResponseFunc      func(ctx context.Context, userID, assessmentID, questionID string, rating int, comment string) error
	CompleteAssessmentFunc  func(ctx context.Context, userID, assessmentID string) (assessment.Result, error)
	ListMyAssessmentsFunc   func(ctx context.Context, userID string) ([]assessment.Summary, error)
	GetAssessmentResultFunc func(ctx context.Context, userID, assessmentID string) (assessment.Result, error)
}

func (m *MockAssessmentService) ListCompetencies(ctx context.Context) ([]assessment.Competency, error) {
	if m.ListCompetenciesFunc != nil {
		return m.ListCompetenciesFunc(ctx)
	}
	return nil, errors.New("ListCompetenciesFunc not implemented")
}

func (m *MockAssessmentService) CreateAssessment(ctx context.Context, userID string, competencyIDs []string) (assessment.Assessment, error) {
	if m.CreateAssessmentFunc != nil {
		return m.CreateAssessmentFunc(ctx, userID, competencyIDs)
	}
	return assessment.Assessment{}, errors.New("CreateAssessmentFunc not implemented")
}

func (m *MockAssessmentService) GetAssessment(ctx context.Context, userID, assessmentID string) (assessment.Assessment, int, error) {
	if m.GetAssessmentFunc != nil {
		return m.GetAssessmentFunc(ctx, userID, assessmentID)
	}
	return assessment.Assessment{}, 0, errors.New("GetAssessmentFunc not implemented")
}

func (m *MockAssessmentService) SubmitResponse(ctx context.Context, userID, assessmentID, questionID string, rating int, comment string) error {
	if m.SubmitResponseFunc != nil {
		return m.SubmitResponseFunc(ctx, userID, assessmentID, questionID, rating, comment)
	}
	return errors.New("SubmitResponseFunc not implemented")
}

func (m *MockAssessmentService) CompleteAssessment(ctx context.Context, userID, assessmentID string) (assessment.Result, error) {
	if m.CompleteAssessmentFunc != nil {
		return m.CompleteAssessmentFunc(ctx, userID, assessmentID)
	}
	return assessment.Result{}, errors.New("CompleteAssessmentFunc not implemented")
}

func (m *MockAssessmentService) ListMyAssessments(ctx context.Context, userID string) ([]assessment.Summary, error) {
	if m.ListMyAssessmentsFunc != nil {
		return m.ListMyAssessmentsFunc(ctx, userID)
	}
	return nil, errors.New("ListMyAssessmentsFunc not implemented")
}

func (m *MockAssessmentService) GetAssessmentResult(ctx context.Context, userID, assessmentID string) (assessment.Result, error) {
	if m.GetAssessmentResultFunc != nil {
		return m.GetAssessmentResultFunc(ctx, userID, assessmentID)
	}
	return assessment.Result{}, errors.New("GetAssessmentResultFunc not implemented")
}
