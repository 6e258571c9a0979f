package assessment

import (
	"maps"
	"slices"

	"github.com/godilite/assessment-server/internal/ratingscale"
)

// Draft is the rating and comment being entered for the current question.
type Draft struct {
	Rating  *int
	Comment string
}

// State is the full session state. Transition functions never mutate their
// receiver; they return a new State.
type State struct {
	Status       Status
	Selected     []string
	Assessment   *Assessment
	CurrentIndex int
	Answered     map[string]bool
	Draft        Draft
	Result       *Result
}

func initialState() State {
	return State{Status: StatusSelecting}
}

func (s State) clone() State {
	out := s
	out.Selected = slices.Clone(s.Selected)
	out.Answered = maps.Clone(s.Answered)
	if s.Draft.Rating != nil {
		r := *s.Draft.Rating
		out.Draft.Rating = &r
	}
	if s.Assessment != nil {
		a := *s.Assessment
		a.Questions = slices.Clone(s.Assessment.Questions)
		out.Assessment = &a
	}
	if s.Result != nil {
		r := *s.Result
		r.CompetencyBreakdown = slices.Clone(s.Result.CompetencyBreakdown)
		out.Result = &r
	}
	return out
}

func (s State) totalQuestions() int {
	if s.Assessment == nil {
		return 0
	}
	return len(s.Assessment.Questions)
}

func (s State) currentQuestion() (Question, bool) {
	if s.Assessment == nil || s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Assessment.Questions) {
		return Question{}, false
	}
	return s.Assessment.Questions[s.CurrentIndex], true
}

func (s State) isLastQuestion() bool {
	return s.CurrentIndex == s.totalQuestions()-1
}

func (s State) allAnswered() bool {
	if s.Assessment == nil {
		return false
	}
	for _, q := range s.Assessment.Questions {
		if !s.Answered[q.ID] {
			return false
		}
	}
	return true
}

// progress is position based: (currentIndex+1) / total * 100.
func (s State) progress() float64 {
	if s.Status == StatusCompleted && s.Result != nil {
		return 100
	}
	total := s.totalQuestions()
	if total == 0 {
		return 0
	}
	return float64(s.CurrentIndex+1) / float64(total) * 100
}

// guardMutable rejects transitions out of a terminal state.
func (s State) guardMutable() error {
	if s.Status.IsTerminal() {
		return ErrAssessmentCompleted
	}
	return nil
}

func (s State) withSelection(ids []string) (State, error) {
	if err := s.guardMutable(); err != nil {
		return s, err
	}
	if s.Status != StatusSelecting {
		return s, ErrInvalidState
	}
	next := s.clone()
	next.Selected = dedupe(ids)
	return next, nil
}

func (s State) validateStart() error {
	if err := s.guardMutable(); err != nil {
		return err
	}
	if s.Status != StatusSelecting {
		return ErrInvalidState
	}
	if len(s.Selected) == 0 {
		return ErrEmptySelection
	}
	return nil
}

func (s State) started(a Assessment) State {
	next := s.clone()
	a.Status = StatusInProgress
	next.Status = StatusInProgress
	next.Assessment = &a
	next.CurrentIndex = 0
	next.Answered = make(map[string]bool, len(a.Questions))
	next.Draft = Draft{}
	next.Result = nil
	return next
}

// resumed places the session at the first unanswered question, assuming
// responses were submitted in question order.
func resumed(a Assessment, answeredCount int) State {
	s := initialState().started(a)
	for i := 0; i < answeredCount && i < len(a.Questions); i++ {
		s.Answered[a.Questions[i].ID] = true
	}
	s.CurrentIndex = min(answeredCount, max(len(a.Questions)-1, 0))
	return s
}

func (s State) withDraft(d Draft) (State, error) {
	if err := s.guardMutable(); err != nil {
		return s, err
	}
	if s.Status != StatusInProgress {
		return s, ErrInvalidState
	}
	next := s.clone()
	next.Draft = d
	return next, nil
}

func (s State) validateAnswerable() (Question, error) {
	if err := s.guardMutable(); err != nil {
		return Question{}, err
	}
	if s.Status != StatusInProgress {
		return Question{}, ErrInvalidState
	}
	q, ok := s.currentQuestion()
	if !ok {
		return Question{}, ErrInvalidState
	}
	return q, nil
}

// validateRating checks rating against the question's numeric options.
func validateRating(q Question, rating *int) (int, error) {
	if rating == nil {
		return 0, ErrRatingRequired
	}
	if !ratingscale.IsValidRating(q.RatingOptions, *rating) {
		return 0, ErrRatingOutOfRange
	}
	return *rating, nil
}

// answered records the current question as answered and advances unless it is the last.
func (s State) answered(questionID string) State {
	next := s.clone()
	if next.Answered == nil {
		next.Answered = make(map[string]bool)
	}
	next.Answered[questionID] = true
	if !s.isLastQuestion() {
		next.CurrentIndex++
		next.Draft = Draft{}
	}
	return next
}

func (s State) previous() (State, error) {
	if err := s.guardMutable(); err != nil {
		return s, err
	}
	if s.Status != StatusInProgress {
		return s, ErrInvalidState
	}
	if s.CurrentIndex <= 0 {
		return s, ErrNoPreviousQuestion
	}
	next := s.clone()
	next.CurrentIndex--
	next.Draft = Draft{}
	return next, nil
}

func (s State) validateComplete() error {
	if err := s.guardMutable(); err != nil {
		return err
	}
	if s.Status != StatusInProgress {
		return ErrInvalidState
	}
	if !s.allAnswered() {
		return ErrUnansweredQuestions
	}
	return nil
}

func (s State) completed(r Result) State {
	next := s.clone()
	next.Status = StatusCompleted
	if next.Assessment != nil {
		next.Assessment.Status = StatusCompleted
	}
	next.Draft = Draft{}
	next.Result = &r
	return next
}

// viewing shows a stored result without loading its questions.
func viewing(assessmentID string, r Result) State {
	return State{
		Status:     StatusCompleted,
		Assessment: &Assessment{ID: assessmentID, Status: StatusCompleted},
		Result:     &r,
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
