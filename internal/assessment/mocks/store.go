package mocks

import (
	"context"
	"errors"

	"github.com/godilite/assessment-server/internal/assessment"
)

// MockStore is a function-field implementation of assessment.Store that also
// counts calls so tests can assert a store was not contacted.
type MockStore struct {
	ListCompetenciesFunc    func(ctx context.Context) ([]assessment.Competency, error)
	CreateAssessmentFunc    func(ctx context.Context, competencyIDs []string) (assessment.Assessment, error)
	GetAssessmentFunc       func(ctx context.Context, assessmentID string) (assessment.Assessment, int, error)
	SubmitResponseFunc      func(ctx context.Context, assessmentID, questionID string, rating int, comment string) error
	CompleteAssessmentFunc  func(ctx context.Context, assessmentID string) (assessment.Result, error)
	ListMyAssessmentsFunc   func(ctx context.Context) ([]assessment.Summary, error)
	GetAssessmentResultFunc func(ctx context.Context, assessmentID string) (assessment.Result, error)

	Calls map[string]int
}

func (m *MockStore) record(name string) {
	if m.Calls == nil {
		m.Calls = make(map[string]int)
	}
	m.Calls[name]++
}

// TotalCalls returns the number of store calls of any kind.
func (m *MockStore) TotalCalls() int {
	n := 0
	for _, c := range m.Calls {
		n += c
	}
	return n
}

func (m *MockStore) ListCompetencies(ctx context.Context) ([]assessment.Competency, error) {
	m.record("ListCompetencies")
	if m.ListCompetenciesFunc != nil {
		return m.ListCompetenciesFunc(ctx)
	}
	return nil, errors.New("ListCompetenciesFunc not implemented")
}

func (m *MockStore) CreateAssessment(ctx context.Context, competencyIDs []string) (assessment.Assessment, error) {
	m.record("CreateAssessment")
	if m.CreateAssessmentFunc != nil {
		return m.CreateAssessmentFunc(ctx, competencyIDs)
	}
	return assessment.Assessment{}, errors.New("CreateAssessmentFunc not implemented")
}

func (m *MockStore) GetAssessment(ctx context.Context, assessmentID string) (assessment.Assessment, int, error) {
	m.record("GetAssessment")
	if m.GetAssessmentFunc != nil {
		return m.GetAssessmentFunc(ctx, assessmentID)
	}
	return assessment.Assessment{}, 0, errors.New("GetAssessmentFunc not implemented")
}

func (m *MockStore) SubmitResponse(ctx context.Context, assessmentID, questionID string, rating int, comment string) error {
	m.record("SubmitResponse")
	if m.SubmitResponseFunc != nil {
		return m.SubmitResponseFunc(ctx, assessmentID, questionID, rating, comment)
	}
	return errors.New("SubmitResponseFunc not implemented")
}

func (m *MockStore) CompleteAssessment(ctx context.Context, assessmentID string) (assessment.Result, error) {
	m.record("CompleteAssessment")
	if m.CompleteAssessmentFunc != nil {
		return m.CompleteAssessmentFunc(ctx, assessmentID)
	}
	return assessment.Result{}, errors.New("CompleteAssessmentFunc not implemented")
}

func (m *MockStore) ListMyAssessments(ctx context.Context) ([]assessment.Summary, error) {
	m.record("ListMyAssessments")
	if m.ListMyAssessmentsFunc != nil {
		return m.ListMyAssessmentsFunc(ctx)
	}
	return nil, errors.New("ListMyAssessmentsFunc not implemented")
}

func (m *MockStore) GetAssessmentResult(ctx context.Context, assessmentID string) (assessment.Result, error) {
	m.record("GetAssessmentResult")
	if m.GetAssessmentResultFunc != nil {
		return m.GetAssessmentResultFunc(ctx, assessmentID)
	}
	return assessment.Result{}, errors.New("GetAssessmentResultFunc not implemented")
}
