package assessment_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/godilite/assessment-server/internal/assessment"
	"github.com/godilite/assessment-server/internal/assessment/mocks"
	"github.com/godilite/assessment-server/internal/ratingscale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func intPtr(v int) *int { return &v }

func buildQuestions(n int) []assessment.Question {
	qs := make([]assessment.Question, n)
	for i := range qs {
		qs[i] = assessment.Question{
			ID:             fmt.Sprintf("q%d", i+1),
			CompetencyID:   "comm",
			CompetencyName: "Communication",
			Statement:      fmt.Sprintf("Statement %d", i+1),
		}
	}
	return qs
}

// newStartedEngine returns an engine already IN_PROGRESS over n questions whose
// store accepts every response.
func newStartedEngine(t *testing.T, n int) (*assessment.Engine, *mocks.MockStore) {
	t.Helper()
	store := &mocks.MockStore{
		CreateAssessmentFunc: func(ctx context.Context, ids []string) (assessment.Assessment, error) {
			return assessment.Assessment{ID: "a-1", Questions: buildQuestions(n), Status: assessment.StatusInProgress}, nil
		},
		SubmitResponseFunc: func(ctx context.Context, assessmentID, questionID string, rating int, comment string) error {
			return nil
		},
		CompleteAssessmentFunc: func(ctx context.Context, assessmentID string) (assessment.Result, error) {
			return assessment.Result{AverageScore: 3, AnsweredCount: n, TotalQuestions: n}, nil
		},
	}
	e := assessment.NewEngine(store, zap.NewNop())
	require.NoError(t, e.SelectCompetencies([]string{"comm"}))
	require.NoError(t, e.Start(context.Background()))
	return e, store
}

func TestNewEngine(t *testing.T) {
	t.Run("nil store panics", func(t *testing.T) {
		assert.Panics(t, func() {
			assessment.NewEngine(nil, zap.NewNop())
		})
	})

	t.Run("starts selecting", func(t *testing.T) {
		e := assessment.NewEngine(&mocks.MockStore{}, nil)

		v := e.Snapshot()
		assert.Equal(t, assessment.StatusSelecting, v.Status)
		assert.Nil(t, v.Question)
		assert.Equal(t, 0.0, v.Progress)
	})
}

func TestStart(t *testing.T) {
	ctx := context.Background()

	t.Run("empty selection is a validation failure", func(t *testing.T) {
		store := &mocks.MockStore{}
		e := assessment.NewEngine(store, zap.NewNop())
		require.NoError(t, e.SelectCompetencies(nil))

		err := e.Start(ctx)

		assert.ErrorIs(t, err, assessment.ErrEmptySelection)
		assert.True(t, assessment.IsValidation(err))
		assert.Zero(t, store.TotalCalls())
		assert.Equal(t, assessment.StatusSelecting, e.Snapshot().Status)
	})

	t.Run("selection is deduplicated", func(t *testing.T) {
		var got []string
		store := &mocks.MockStore{
			CreateAssessmentFunc: func(ctx context.Context, ids []string) (assessment.Assessment, error) {
				got = ids
				return assessment.Assessment{ID: "a-1", Questions: buildQuestions(2)}, nil
			},
		}
		e := assessment.NewEngine(store, zap.NewNop())
		require.NoError(t, e.SelectCompetencies([]string{"b", "a", "b", ""}))

		require.NoError(t, e.Start(ctx))
		assert.Equal(t, []string{"b", "a"}, got)
	})

	t.Run("success enters in progress at the first question", func(t *testing.T) {
		e, _ := newStartedEngine(t, 3)

		v := e.Snapshot()
		assert.Equal(t, assessment.StatusInProgress, v.Status)
		assert.Equal(t, "a-1", v.AssessmentID)
		assert.Equal(t, 0, v.CurrentIndex)
		assert.Equal(t, 3, v.TotalQuestions)
		require.NotNil(t, v.Question)
		assert.Equal(t, "q1", v.Question.ID)
		assert.Len(t, v.Options, 4)
		assert.Nil(t, v.Draft.Rating)
		assert.False(t, v.CanGoBack)
	})

	t.Run("store failure keeps selecting", func(t *testing.T) {
		store := &mocks.MockStore{
			CreateAssessmentFunc: func(ctx context.Context, ids []string) (assessment.Assessment, error) {
				return assessment.Assessment{}, errors.New("competency catalog unavailable")
			},
		}
		e := assessment.NewEngine(store, zap.NewNop())
		require.NoError(t, e.SelectCompetencies([]string{"comm"}))

		err := e.Start(ctx)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "competency catalog unavailable")
		assert.False(t, assessment.IsValidation(err))
		v := e.Snapshot()
		assert.Equal(t, assessment.StatusSelecting, v.Status)
		assert.Equal(t, []string{"comm"}, v.Selected)
		assert.Empty(t, v.AssessmentID)
	})

	t.Run("cannot start twice", func(t *testing.T) {
		e, store := newStartedEngine(t, 2)

		assert.ErrorIs(t, e.Start(ctx), assessment.ErrInvalidState)
		assert.Equal(t, 1, store.Calls["CreateAssessment"])
	})
}

func TestSubmitCurrentResponse(t *testing.T) {
	ctx := context.Background()

	t.Run("nil rating does not advance or reach the store", func(t *testing.T) {
		e, store := newStartedEngine(t, 3)

		err := e.SubmitCurrentResponse(ctx, nil, "comment")

		assert.ErrorIs(t, err, assessment.ErrRatingRequired)
		assert.Equal(t, 0, e.Snapshot().CurrentIndex)
		assert.Zero(t, store.Calls["SubmitResponse"])
	})

	t.Run("rating outside the question's options", func(t *testing.T) {
		e, store := newStartedEngine(t, 3)

		err := e.SubmitCurrentResponse(ctx, intPtr(5), "")

		assert.ErrorIs(t, err, assessment.ErrRatingOutOfRange)
		assert.Zero(t, store.Calls["SubmitResponse"])
	})

	t.Run("rating is checked against the question's own scale", func(t *testing.T) {
		store := &mocks.MockStore{
			CreateAssessmentFunc: func(ctx context.Context, ids []string) (assessment.Assessment, error) {
				return assessment.Assessment{ID: "a-1", Questions: []assessment.Question{
					{ID: "q1", CompetencyID: "c", RatingOptions: ratingscale.Persisted{"1": "No", "2": "Yes"}},
					{ID: "q2", CompetencyID: "c"},
				}}, nil
			},
			SubmitResponseFunc: func(ctx context.Context, assessmentID, questionID string, rating int, comment string) error {
				return nil
			},
			CompleteAssessmentFunc: func(ctx context.Context, assessmentID string) (assessment.Result, error) {
				return assessment.Result{AnsweredCount: 2, TotalQuestions: 2}, nil
			},
		}
		e := assessment.NewEngine(store, zap.NewNop())
		require.NoError(t, e.SelectCompetencies([]string{"c"}))
		require.NoError(t, e.Start(ctx))

		assert.ErrorIs(t, e.SubmitCurrentResponse(ctx, intPtr(3), ""), assessment.ErrRatingOutOfRange)
		require.NoError(t, e.SubmitCurrentResponse(ctx, intPtr(2), ""))
		require.NoError(t, e.SubmitCurrentResponse(ctx, intPtr(3), ""))
	})

	t.Run("each answer is sent individually", func(t *testing.T) {
		e, store := newStartedEngine(t, 3)
		var sent []string
		store.SubmitResponseFunc = func(ctx context.Context, assessmentID, questionID string, rating int, comment string) error {
			sent = append(sent, fmt.Sprintf("%s/%s=%d:%s", assessmentID, questionID, rating, comment))
			return nil
		}

		require.NoError(t, e.SubmitCurrentResponse(ctx, intPtr(3), "good"))
		require.NoError(t, e.SubmitCurrentResponse(ctx, intPtr(4), ""))

		assert.Equal(t, []string{"a-1/q1=3:good", "a-1/q2=4:"}, sent)
		assert.Equal(t, 2, e.Snapshot().CurrentIndex)
	})

	t.Run("store failure leaves state unchanged", func(t *testing.T) {
		e, store := newStartedEngine(t, 3)
		store.SubmitResponseFunc = func(ctx context.Context, assessmentID, questionID string, rating int, comment string) error {
			return errors.New("connection reset")
		}
		before := e.Snapshot()

		err := e.SubmitCurrentResponse(ctx, intPtr(2), "")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset")
		after := e.Snapshot()
		assert.Equal(t, before.CurrentIndex, after.CurrentIndex)
		assert.Equal(t, before.AnsweredCount, after.AnsweredCount)
		assert.Equal(t, assessment.StatusInProgress, after.Status)
	})

	t.Run("answering the last question completes", func(t *testing.T) {
		e, store := newStartedEngine(t, 2)

		require.NoError(t, e.SubmitCurrentResponse(ctx, intPtr(2), ""))
		require.NoError(t, e.SubmitCurrentResponse(ctx, intPtr(4), ""))

		v := e.Snapshot()
		assert.Equal(t, assessment.StatusCompleted, v.Status)
		require.NotNil(t, v.Result)
		assert.Equal(t, 3.0, v.Result.AverageScore)
		assert.Equal(t, 100.0, v.Progress)
		assert.Equal(t, 1, store.Calls["CompleteAssessment"])
	})

	t.Run("failed completion stays in progress and can be retried", func(t *testing.T) {
		e, store := newStartedEngine(t, 2)
		store.CompleteAssessmentFunc = func(ctx context.Context, assessmentID string) (assessment.Result, error) {
			return assessment.Result{}, errors.New("scoring backend down")
		}

		require.NoError(t, e.SubmitCurrentResponse(ctx, intPtr(1), ""))
		err := e.SubmitCurrentResponse(ctx, intPtr(2), "")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "scoring backend down")
		v := e.Snapshot()
		assert.Equal(t, assessment.StatusInProgress, v.Status)
		assert.Equal(t, 1, v.CurrentIndex)
		assert.Equal(t, 2, v.AnsweredCount)
		assert.Equal(t, 2, store.Calls["SubmitResponse"])

		store.CompleteAssessmentFunc = func(ctx context.Context, assessmentID string) (assessment.Result, error) {
			return assessment.Result{AverageScore: 1.5, AnsweredCount: 2, TotalQuestions: 2}, nil
		}
		result, err := e.Complete(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1.5, result.AverageScore)
		assert.Equal(t, assessment.StatusCompleted, e.Snapshot().Status)
		assert.Equal(t, 2, store.Calls["SubmitResponse"])
	})
}

func TestProgress(t *testing.T) {
	ctx := context.Background()
	e, _ := newStartedEngine(t, 5)

	assert.Equal(t, 20.0, e.Snapshot().Progress)

	for i := 0; i < 3; i++ {
		require.NoError(t, e.SubmitCurrentResponse(ctx, intPtr(3), ""))
	}

	v := e.Snapshot()
	assert.Equal(t, 3, v.CurrentIndex)
	assert.Equal(t, 80.0, v.Progress)
	assert.Equal(t, 3, v.AnsweredCount)

	require.NoError(t, e.GoToPrevious())

	v = e.Snapshot()
	assert.Equal(t, 2, v.CurrentIndex)
	assert.Equal(t, 60.0, v.Progress)
	assert.Equal(t, 3, v.AnsweredCount)
}

func TestGoToPrevious(t *testing.T) {
	ctx := context.Background()

	t.Run("not at the first question", func(t *testing.T) {
		e, _ := newStartedEngine(t, 3)

		assert.ErrorIs(t, e.GoToPrevious(), assessment.ErrNoPreviousQuestion)
		assert.Equal(t, 0, e.Snapshot().CurrentIndex)
	})

	t.Run("not while selecting", func(t *testing.T) {
		e := assessment.NewEngine(&mocks.MockStore{}, zap.NewNop())

		assert.ErrorIs(t, e.GoToPrevious(), assessment.ErrInvalidState)
	})

	t.Run("clears the draft and re-answering resubmits the same question", func(t *testing.T) {
		e, store := newStartedEngine(t, 3)
		var questions []string
		store.SubmitResponseFunc = func(ctx context.Context, assessmentID, questionID string, rating int, comment string) error {
			questions = append(questions, questionID)
			return nil
		}

		require.NoError(t, e.SubmitCurrentResponse(ctx, intPtr(2), ""))
		require.NoError(t, e.SetRating(3))
		require.NoError(t, e.GoToPrevious())

		v := e.Snapshot()
		assert.Nil(t, v.Draft.Rating)
		assert.Equal(t, "q1", v.Question.ID)

		require.NoError(t, e.SubmitCurrentResponse(ctx, intPtr(4), "changed my mind"))
		assert.Equal(t, []string{"q1", "q1"}, questions)
		assert.Equal(t, 1, e.Snapshot().CurrentIndex)
		assert.Equal(t, 1, e.Snapshot().AnsweredCount)
	})
}

func TestDraft(t *testing.T) {
	ctx := context.Background()
	e, store := newStartedEngine(t, 2)
	var gotRating int
	var gotComment string
	store.SubmitResponseFunc = func(ctx context.Context, assessmentID, questionID string, rating int, comment string) error {
		gotRating, gotComment = rating, comment
		return nil
	}

	assert.ErrorIs(t, e.SetRating(9), assessment.ErrRatingOutOfRange)
	assert.ErrorIs(t, e.Submit(ctx), assessment.ErrRatingRequired)

	require.NoError(t, e.SetComment("steady"))
	require.NoError(t, e.SetRating(3))
	require.NoError(t, e.Submit(ctx))

	assert.Equal(t, 3, gotRating)
	assert.Equal(t, "steady", gotComment)
	v := e.Snapshot()
	assert.Nil(t, v.Draft.Rating)
	assert.Empty(t, v.Draft.Comment)
}

func TestTerminalImmutability(t *testing.T) {
	ctx := context.Background()
	e, store := newStartedEngine(t, 1)
	require.NoError(t, e.SubmitCurrentResponse(ctx, intPtr(4), ""))
	require.Equal(t, assessment.StatusCompleted, e.Snapshot().Status)
	calls := store.TotalCalls()

	assert.ErrorIs(t, e.SubmitCurrentResponse(ctx, intPtr(1), ""), assessment.ErrAssessmentCompleted)
	assert.ErrorIs(t, e.GoToPrevious(), assessment.ErrAssessmentCompleted)
	assert.ErrorIs(t, e.Start(ctx), assessment.ErrAssessmentCompleted)
	assert.ErrorIs(t, e.SelectCompetencies([]string{"comm"}), assessment.ErrAssessmentCompleted)
	assert.ErrorIs(t, e.SetRating(1), assessment.ErrAssessmentCompleted)
	_, err := e.Complete(ctx)
	assert.ErrorIs(t, err, assessment.ErrAssessmentCompleted)

	assert.Equal(t, calls, store.TotalCalls())
	assert.Equal(t, assessment.StatusCompleted, e.Snapshot().Status)

	require.NoError(t, e.Reset())
	assert.Equal(t, assessment.StatusSelecting, e.Snapshot().Status)
}

func TestComplete(t *testing.T) {
	t.Run("rejects unanswered questions locally", func(t *testing.T) {
		e, store := newStartedEngine(t, 3)

		_, err := e.Complete(context.Background())

		assert.ErrorIs(t, err, assessment.ErrUnansweredQuestions)
		assert.Zero(t, store.Calls["CompleteAssessment"])
	})
}

func TestViewResult(t *testing.T) {
	ctx := context.Background()

	t.Run("shows a stored result", func(t *testing.T) {
		store := &mocks.MockStore{
			GetAssessmentResultFunc: func(ctx context.Context, id string) (assessment.Result, error) {
				assert.Equal(t, "a-9", id)
				return assessment.Result{AverageScore: 3.6, AnsweredCount: 5, TotalQuestions: 5}, nil
			},
		}
		e := assessment.NewEngine(store, zap.NewNop())

		result, err := e.ViewResult(ctx, "a-9")

		require.NoError(t, err)
		assert.Equal(t, 3.6, result.AverageScore)
		v := e.Snapshot()
		assert.Equal(t, assessment.StatusCompleted, v.Status)
		assert.Equal(t, "a-9", v.AssessmentID)
		assert.Equal(t, 5, v.TotalQuestions)
		assert.Nil(t, v.Question)
		assert.Zero(t, store.Calls["CreateAssessment"])
	})

	t.Run("failure keeps the current state", func(t *testing.T) {
		store := &mocks.MockStore{
			GetAssessmentResultFunc: func(ctx context.Context, id string) (assessment.Result, error) {
				return assessment.Result{}, errors.New("assessment is not completed")
			},
		}
		e := assessment.NewEngine(store, zap.NewNop())

		_, err := e.ViewResult(ctx, "a-1")

		assert.ErrorContains(t, err, "assessment is not completed")
		assert.Equal(t, assessment.StatusSelecting, e.Snapshot().Status)
	})
}

func TestResume(t *testing.T) {
	ctx := context.Background()

	t.Run("continues at the first unanswered question", func(t *testing.T) {
		store := &mocks.MockStore{
			GetAssessmentFunc: func(ctx context.Context, id string) (assessment.Assessment, int, error) {
				return assessment.Assessment{ID: id, Questions: buildQuestions(4), Status: assessment.StatusInProgress}, 2, nil
			},
		}
		e := assessment.NewEngine(store, zap.NewNop())

		require.NoError(t, e.Resume(ctx, "a-3"))

		v := e.Snapshot()
		assert.Equal(t, assessment.StatusInProgress, v.Status)
		assert.Equal(t, 2, v.CurrentIndex)
		assert.Equal(t, 2, v.AnsweredCount)
		assert.Equal(t, 75.0, v.Progress)
	})

	t.Run("fully answered lands on the last question", func(t *testing.T) {
		store := &mocks.MockStore{
			GetAssessmentFunc: func(ctx context.Context, id string) (assessment.Assessment, int, error) {
				return assessment.Assessment{ID: id, Questions: buildQuestions(3), Status: assessment.StatusInProgress}, 3, nil
			},
			CompleteAssessmentFunc: func(ctx context.Context, id string) (assessment.Result, error) {
				return assessment.Result{AnsweredCount: 3, TotalQuestions: 3}, nil
			},
		}
		e := assessment.NewEngine(store, zap.NewNop())

		require.NoError(t, e.Resume(ctx, "a-3"))
		assert.Equal(t, 2, e.Snapshot().CurrentIndex)

		_, err := e.Complete(ctx)
		require.NoError(t, err)
		assert.Equal(t, assessment.StatusCompleted, e.Snapshot().Status)
	})

	t.Run("completed assessments are not resumable", func(t *testing.T) {
		store := &mocks.MockStore{
			GetAssessmentFunc: func(ctx context.Context, id string) (assessment.Assessment, int, error) {
				return assessment.Assessment{ID: id, Questions: buildQuestions(2), Status: assessment.StatusCompleted}, 2, nil
			},
		}
		e := assessment.NewEngine(store, zap.NewNop())

		assert.ErrorIs(t, e.Resume(ctx, "a-3"), assessment.ErrAssessmentCompleted)
		assert.Equal(t, assessment.StatusSelecting, e.Snapshot().Status)
	})
}

func TestLoadHistory(t *testing.T) {
	e, store := newStartedEngine(t, 3)
	score := 3.2
	store.ListMyAssessmentsFunc = func(ctx context.Context) ([]assessment.Summary, error) {
		return []assessment.Summary{
			{ID: "a-0", Status: assessment.StatusCompleted, AnsweredCount: 4, TotalQuestions: 4, AverageScore: &score},
			{ID: "a-1", Status: assessment.StatusInProgress, TotalQuestions: 3},
		}, nil
	}
	before := e.Snapshot()

	history, err := e.LoadHistory(context.Background())

	require.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Nil(t, history[1].AverageScore)
	assert.Equal(t, before, e.Snapshot())
}

func TestOverlappingRequestsAreRejected(t *testing.T) {
	ctx := context.Background()
	e, store := newStartedEngine(t, 3)

	started := make(chan struct{})
	release := make(chan struct{})
	store.SubmitResponseFunc = func(ctx context.Context, assessmentID, questionID string, rating int, comment string) error {
		close(started)
		<-release
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- e.SubmitCurrentResponse(ctx, intPtr(2), "")
	}()
	<-started

	assert.True(t, e.Snapshot().Submitting)
	assert.ErrorIs(t, e.SubmitCurrentResponse(ctx, intPtr(3), ""), assessment.ErrBusy)
	assert.ErrorIs(t, e.GoToPrevious(), assessment.ErrBusy)
	_, err := e.Complete(ctx)
	assert.ErrorIs(t, err, assessment.ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, e.Snapshot().CurrentIndex)
	assert.False(t, e.Snapshot().Submitting)
}
