package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/godilite/assessment-server/internal/ratingscale"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

type Competency struct {
	ID          string
	Name        string
	Description string
	Type        string
	Position    int
}

type Question struct {
	ID                   string
	CompetencyID         string
	CompetencyName       string
	Statement            string
	RatingOptions        ratingscale.Persisted
	Examples             StringList
	ProficiencyLevelName string
	Position             int
}

// AssessmentQuestion is a question frozen into an assessment at a position.
type AssessmentQuestion struct {
	AssessmentID string
	Position     int
	Question
}

type Assessment struct {
	ID           string
	UserID       string
	Status       string
	StartedAt    time.Time
	CompletedAt  *time.Time
	AverageScore *float64
	Result       []byte
}

type Response struct {
	AssessmentID string
	QuestionID   string
	Rating       int
	Comment      string
	UpdatedAt    time.Time
}

type AssessmentSummary struct {
	ID             string
	Status         string
	StartedAt      time.Time
	AnsweredCount  int
	TotalQuestions int
	AverageScore   *float64
}

// StringList is stored as a JSON array.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*l = nil
		return nil
	default:
		return errors.New("unsupported type for StringList")
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*l = out
	return nil
}
