// Package v1 is the wire contract of the assessment store.
//
// Messages are plain Go structs. On the wire each one travels as a
// google.protobuf.Struct holding its JSON form, so the service can be called
// with any gRPC client and inspected with reflection tooling.
package v1

import "time"

type Empty struct{}

type Competency struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
}

type ListCompetenciesResponse struct {
	Competencies []Competency `json:"competencies"`
}

type Question struct {
	ID                   string            `json:"id"`
	CompetencyID         string            `json:"competencyId"`
	CompetencyName       string            `json:"competencyName"`
	Statement            string            `json:"statement"`
	RatingOptions        map[string]string `json:"ratingOptions"`
	Examples             []string          `json:"examples,omitempty"`
	ProficiencyLevelName string            `json:"proficiencyLevelName,omitempty"`
}

type Assessment struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
	Status    string     `json:"status"`
}

type CreateAssessmentRequest struct {
	CompetencyIDs []string `json:"competencyIds"`
}

type AssessmentRequest struct {
	AssessmentID string `json:"assessmentId"`
}

type GetAssessmentResponse struct {
	Assessment    Assessment `json:"assessment"`
	AnsweredCount int        `json:"answeredCount"`
}

type SubmitResponseRequest struct {
	AssessmentID string `json:"assessmentId"`
	QuestionID   string `json:"questionId"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment,omitempty"`
}

type CompetencyBreakdown struct {
	CompetencyID   string  `json:"competencyId"`
	CompetencyName string  `json:"competencyName"`
	AverageScore   float64 `json:"averageScore"`
	TotalQuestions int     `json:"totalQuestions"`
}

type AssessmentResult struct {
	AverageScore        float64               `json:"averageScore"`
	AnsweredCount       int                   `json:"answeredCount"`
	TotalQuestions      int                   `json:"totalQuestions"`
	CompetencyBreakdown []CompetencyBreakdown `json:"competencyBreakdown"`
}

type AssessmentSummary struct {
	ID             string    `json:"id"`
	Status         string    `json:"status"`
	StartedAt      time.Time `json:"startedAt"`
	AnsweredCount  int       `json:"answeredCount"`
	TotalQuestions int       `json:"totalQuestions"`
	AverageScore   *float64  `json:"averageScore"`
}

type ListMyAssessmentsResponse struct {
	Assessments []AssessmentSummary `json:"assessments"`
}
