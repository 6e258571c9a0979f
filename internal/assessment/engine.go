// Package assessment runs one person's self-assessment: competency selection,
// one question at a time, then completion with aggregated scores.
//
// The session moves SELECTING → IN_PROGRESS → COMPLETED. Every store call is
// made before the local state changes, so a failed call leaves the session
// exactly where it was and the same action can be retried.
package assessment

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/godilite/assessment-server/internal/ratingscale"
	"go.uber.org/zap"
)

// View is a read-only snapshot of the session for the presentation layer.
type View struct {
	Status         Status
	Selected       []string
	AssessmentID   string
	CurrentIndex   int
	TotalQuestions int
	AnsweredCount  int
	Progress       float64
	Question       *Question
	Options        []ratingscale.NumericOption
	Draft          Draft
	CanGoBack      bool
	Submitting     bool
	Result         *Result
}

// Engine holds the state of a single self-assessment session. Store calls for
// the session are serialized: a second call while one is in flight fails with
// ErrBusy.
type Engine struct {
	store  Store
	logger *zap.Logger

	mu       sync.Mutex
	state    State
	inFlight bool
}

// NewEngine creates an engine in the SELECTING state.
func NewEngine(store Store, logger *zap.Logger) *Engine {
	if store == nil {
		panic("store must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:  store,
		logger: logger.Named("assessment-engine"),
		state:  initialState(),
	}
}

// Snapshot returns the current view.
func (e *Engine) Snapshot() View {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.state.clone()
	v := View{
		Status:         s.Status,
		Selected:       s.Selected,
		CurrentIndex:   s.CurrentIndex,
		TotalQuestions: s.totalQuestions(),
		AnsweredCount:  len(s.Answered),
		Progress:       s.progress(),
		Draft:          s.Draft,
		Submitting:     e.inFlight,
		Result:         s.Result,
	}
	if s.Assessment != nil {
		v.AssessmentID = s.Assessment.ID
	}
	if s.Status == StatusInProgress {
		if q, ok := s.currentQuestion(); ok {
			v.Question = &q
			v.Options = q.Options()
		}
		v.CanGoBack = s.CurrentIndex > 0
	}
	if v.Result != nil && v.TotalQuestions == 0 {
		v.TotalQuestions = v.Result.TotalQuestions
		v.AnsweredCount = v.Result.AnsweredCount
	}
	return v
}

// Competencies lists what can be selected. It does not touch session state.
func (e *Engine) Competencies(ctx context.Context) ([]Competency, error) {
	competencies, err := e.store.ListCompetencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list competencies: %w", err)
	}
	return competencies, nil
}

// SelectCompetencies replaces the current selection. An empty selection is
// accepted here and rejected by Start.
func (e *Engine) SelectCompetencies(ids []string) error {
	return e.update(func(s State) (State, error) {
		return s.withSelection(ids)
	})
}

// Start creates an assessment for the selected competencies.
func (e *Engine) Start(ctx context.Context) error {
	st, err := e.begin()
	if err != nil {
		return err
	}
	var next *State
	defer func() { e.end(next) }()

	if err := st.validateStart(); err != nil {
		return err
	}

	a, err := e.store.CreateAssessment(ctx, slices.Clone(st.Selected))
	if err != nil {
		e.logger.Warn("create assessment failed", zap.Strings("competencies", st.Selected), zap.Error(err))
		return fmt.Errorf("create assessment: %w", err)
	}
	if len(a.Questions) == 0 {
		return fmt.Errorf("create assessment: %w", ErrInvalidState)
	}

	ns := st.started(a)
	next = &ns
	e.logger.Info("assessment started",
		zap.String("assessment_id", a.ID),
		zap.Int("questions", len(a.Questions)))
	return nil
}

// Resume re-enters an unfinished assessment at its first unanswered question.
func (e *Engine) Resume(ctx context.Context, assessmentID string) error {
	st, err := e.begin()
	if err != nil {
		return err
	}
	var next *State
	defer func() { e.end(next) }()

	if st.Status == StatusInProgress {
		return ErrInvalidState
	}

	a, answered, err := e.store.GetAssessment(ctx, assessmentID)
	if err != nil {
		return fmt.Errorf("get assessment: %w", err)
	}
	if a.Status == StatusCompleted {
		return ErrAssessmentCompleted
	}
	if len(a.Questions) == 0 {
		return fmt.Errorf("get assessment: %w", ErrInvalidState)
	}

	ns := resumed(a, answered)
	next = &ns
	e.logger.Info("assessment resumed",
		zap.String("assessment_id", a.ID),
		zap.Int("answered", answered),
		zap.Int("index", ns.CurrentIndex))
	return nil
}

// SetRating stores the pending rating after checking it against the current question.
func (e *Engine) SetRating(rating int) error {
	return e.update(func(s State) (State, error) {
		q, err := s.validateAnswerable()
		if err != nil {
			return s, err
		}
		if _, err := validateRating(q, &rating); err != nil {
			return s, err
		}
		return s.withDraft(Draft{Rating: &rating, Comment: s.Draft.Comment})
	})
}

func (e *Engine) SetComment(comment string) error {
	return e.update(func(s State) (State, error) {
		return s.withDraft(Draft{Rating: s.Draft.Rating, Comment: comment})
	})
}

// Submit sends the pending draft for the current question.
func (e *Engine) Submit(ctx context.Context) error {
	d := e.Snapshot().Draft
	return e.SubmitCurrentResponse(ctx, d.Rating, d.Comment)
}

// SubmitCurrentResponse answers the current question. Answering the last
// question also completes the assessment; if completion fails the response
// stays recorded and Complete can be retried.
func (e *Engine) SubmitCurrentResponse(ctx context.Context, rating *int, comment string) error {
	st, err := e.begin()
	if err != nil {
		return err
	}
	var next *State
	defer func() { e.end(next) }()

	q, err := st.validateAnswerable()
	if err != nil {
		return err
	}
	value, err := validateRating(q, rating)
	if err != nil {
		return err
	}

	assessmentID := st.Assessment.ID
	if err := e.store.SubmitResponse(ctx, assessmentID, q.ID, value, comment); err != nil {
		e.logger.Warn("submit response failed",
			zap.String("assessment_id", assessmentID),
			zap.String("question_id", q.ID),
			zap.Error(err))
		return fmt.Errorf("submit response: %w", err)
	}

	ns := st.answered(q.ID)
	next = &ns
	if !st.isLastQuestion() {
		return nil
	}
	if !ns.allAnswered() {
		return nil
	}

	done, err := e.complete(ctx, ns)
	if err != nil {
		return err
	}
	next = &done
	return nil
}

// GoToPrevious moves back one question and clears the draft.
func (e *Engine) GoToPrevious() error {
	return e.update(func(s State) (State, error) {
		return s.previous()
	})
}

// Complete finalizes the assessment and caches its result.
func (e *Engine) Complete(ctx context.Context) (Result, error) {
	st, err := e.begin()
	if err != nil {
		return Result{}, err
	}
	var next *State
	defer func() { e.end(next) }()

	if err := st.validateComplete(); err != nil {
		return Result{}, err
	}
	done, err := e.complete(ctx, st)
	if err != nil {
		return Result{}, err
	}
	next = &done
	return *done.Result, nil
}

func (e *Engine) complete(ctx context.Context, st State) (State, error) {
	assessmentID := st.Assessment.ID
	result, err := e.store.CompleteAssessment(ctx, assessmentID)
	if err != nil {
		e.logger.Warn("complete assessment failed", zap.String("assessment_id", assessmentID), zap.Error(err))
		return st, fmt.Errorf("complete assessment: %w", err)
	}
	e.logger.Info("assessment completed",
		zap.String("assessment_id", assessmentID),
		zap.Float64("average_score", result.AverageScore),
		zap.Int("answered", result.AnsweredCount))
	return st.completed(result), nil
}

// LoadHistory lists the caller's assessments. It does not touch session state.
func (e *Engine) LoadHistory(ctx context.Context) ([]Summary, error) {
	history, err := e.store.ListMyAssessments(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return history, nil
}

// ViewResult shows the stored result of a completed assessment.
func (e *Engine) ViewResult(ctx context.Context, assessmentID string) (Result, error) {
	_, err := e.begin()
	if err != nil {
		return Result{}, err
	}
	var next *State
	defer func() { e.end(next) }()

	result, err := e.store.GetAssessmentResult(ctx, assessmentID)
	if err != nil {
		return Result{}, fmt.Errorf("get assessment result: %w", err)
	}
	ns := viewing(assessmentID, result)
	next = &ns
	return result, nil
}

// Reset returns to an empty selection. The previous assessment stays in history.
func (e *Engine) Reset() error {
	return e.update(func(State) (State, error) {
		return initialState(), nil
	})
}

func (e *Engine) begin() (State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.inFlight {
		return State{}, ErrBusy
	}
	e.inFlight = true
	return e.state.clone(), nil
}

func (e *Engine) end(next *State) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if next != nil {
		e.state = *next
	}
	e.inFlight = false
}

// update applies a local transition that needs no store call.
func (e *Engine) update(fn func(State) (State, error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.inFlight {
		return ErrBusy
	}
	next, err := fn(e.state.clone())
	if err != nil {
		return err
	}
	e.state = next
	return nil
}
