package assessment

import (
	"errors"
	"fmt"
)

// ErrValidation is the parent of every local validation failure. Validation
// failures never reach the store.
var ErrValidation = errors.New("validation failed")

var (
	ErrEmptySelection      = fmt.Errorf("%w: select at least one competency", ErrValidation)
	ErrRatingRequired      = fmt.Errorf("%w: select a rating before continuing", ErrValidation)
	ErrRatingOutOfRange    = fmt.Errorf("%w: rating is not an option for this question", ErrValidation)
	ErrUnansweredQuestions = fmt.Errorf("%w: every question must be answered before completing", ErrValidation)
)

var (
	ErrInvalidState        = errors.New("operation not allowed in the current state")
	ErrNoPreviousQuestion  = errors.New("already at the first question")
	ErrAssessmentCompleted = errors.New("assessment is already completed")
	ErrBusy                = errors.New("a request for this assessment is already in flight")
)

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
