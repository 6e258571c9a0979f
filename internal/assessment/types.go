package assessment

import (
	"fmt"
	"time"

	"github.com/godilite/assessment-server/internal/ratingscale"
)

// Status is the lifecycle state of a self-assessment.
type Status string

const (
	StatusSelecting  Status = "SELECTING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusSelecting, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted
}

func ParseStatus(v string) (Status, error) {
	s := Status(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown assessment status %q", v)
	}
	return s, nil
}

// Competency is a skill area a person can choose to be assessed on.
type Competency struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
}

// Question is immutable once it belongs to an assessment.
type Question struct {
	ID                   string                `json:"id"`
	CompetencyID         string                `json:"competencyId"`
	CompetencyName       string                `json:"competencyName"`
	Statement            string                `json:"statement"`
	RatingOptions        ratingscale.Persisted `json:"ratingOptions"`
	Examples             []string              `json:"examples,omitempty"`
	ProficiencyLevelName string                `json:"proficiencyLevelName,omitempty"`
}

// Options returns the selectable ratings for the question.
func (q Question) Options() []ratingscale.NumericOption {
	return ratingscale.ToNumericOptions(q.RatingOptions)
}

type Assessment struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
	Status    Status     `json:"status"`
}

type Response struct {
	QuestionID string `json:"questionId"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment,omitempty"`
}

type CompetencyBreakdown struct {
	CompetencyID   string  `json:"competencyId"`
	CompetencyName string  `json:"competencyName"`
	AverageScore   float64 `json:"averageScore"`
	TotalQuestions int     `json:"totalQuestions"`
}

// Result is computed once at completion and cached with the assessment.
type Result struct {
	AverageScore        float64               `json:"averageScore"`
	AnsweredCount       int                   `json:"answeredCount"`
	TotalQuestions      int                   `json:"totalQuestions"`
	CompetencyBreakdown []CompetencyBreakdown `json:"competencyBreakdown"`
}

// Summary is one row of a caller's assessment history.
type Summary struct {
	ID             string    `json:"id"`
	Status         Status    `json:"status"`
	StartedAt      time.Time `json:"startedAt"`
	AnsweredCount  int       `json:"answeredCount"`
	TotalQuestions int       `json:"totalQuestions"`
	AverageScore   *float64  `json:"averageScore"`
}
