package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/godilite/assessment-server/internal/assessment"
	"github.com/godilite/assessment-server/internal/ratingscale"
	"github.com/godilite/assessment-server/internal/repository/models"
)

const (
	dbTimeout = 1 * time.Second
)

var (
	ErrNoCompetencies       = errors.New("select at least one competency")
	ErrNoQuestions          = errors.New("selected competencies have no questions")
	ErrAssessmentNotFound   = errors.New("assessment not found")
	ErrQuestionNotFound     = errors.New("question not found in assessment")
	ErrInvalidRating        = errors.New("rating is not one of the question's options")
	ErrAssessmentCompleted  = errors.New("assessment is already completed")
	ErrAssessmentIncomplete = errors.New("assessment has unanswered questions")
	ErrResultNotReady       = errors.New("assessment is not completed yet")
	ErrStorageFailure       = errors.New("storage failure")
)

// AssessmentService is the server side of the assessment store. Every call is
// scoped to the caller's user id; assessments owned by someone else are not found.
type AssessmentService struct {
	storage AssessmentRepository
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string
}

func NewAssessmentService(storage AssessmentRepository, logger *zap.Logger) *AssessmentService {
	if storage == nil {
		panic("storage must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	return &AssessmentService{
		storage: storage,
		logger:  logger.Named("assessment-service"),
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
}

// ListCompetencies returns the selectable catalog.
func (s *AssessmentService) ListCompetencies(ctx context.Context) ([]assessment.Competency, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.storage.ListCompetencies(dbCtx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	out := make([]assessment.Competency, 0, len(rows))
	for _, c := range rows {
		out = append(out, assessment.Competency{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Type:        c.Type,
		})
	}
	return out, nil
}

// CreateAssessment freezes the questions of the selected competencies into a new
// IN_PROGRESS assessment.
func (s *AssessmentService) CreateAssessment(ctx context.Context, userID string, competencyIDs []string) (assessment.Assessment, error) {
	ids := uniqueNonEmpty(competencyIDs)
	if len(ids) == 0 {
		return assessment.Assessment{}, ErrNoCompetencies
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.storage.GetQuestionsByCompetencies(dbCtx, ids)
	if err != nil {
		return assessment.Assessment{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if len(rows) == 0 {
		return assessment.Assessment{}, ErrNoQuestions
	}

	record := models.Assessment{
		ID:        s.newID(),
		UserID:    userID,
		Status:    string(assessment.StatusInProgress),
		StartedAt: s.now(),
	}
	frozen := make([]models.AssessmentQuestion, len(rows))
	for i, q := range rows {
		// Frozen scales are stored in canonical form.
		q.RatingOptions = ratingscale.Serialize(ratingscale.Normalize(q.RatingOptions))
		frozen[i] = models.AssessmentQuestion{AssessmentID: record.ID, Position: i, Question: q}
	}

	if err := s.storage.CreateAssessment(dbCtx, record, frozen); err != nil {
		return assessment.Assessment{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.logger.Info("assessment created",
		zap.String("assessment_id", record.ID),
		zap.String("user_id", userID),
		zap.Strings("competency_ids", ids),
		zap.Int("questions", len(frozen)))

	return assessment.Assessment{
		ID:        record.ID,
		Questions: toQuestions(frozen),
		Status:    assessment.StatusInProgress,
	}, nil
}

// GetAssessment returns the assessment with the number of answered questions.
func (s *AssessmentService) GetAssessment(ctx context.Context, userID, assessmentID string) (assessment.Assessment, int, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	record, err := s.loadOwned(dbCtx, userID, assessmentID)
	if err != nil {
		return assessment.Assessment{}, 0, err
	}

	questions, err := s.storage.GetAssessmentQuestions(dbCtx, assessmentID)
	if err != nil {
		return assessment.Assessment{}, 0, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	responses, err := s.storage.GetResponses(dbCtx, assessmentID)
	if err != nil {
		return assessment.Assessment{}, 0, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	status, err := assessment.ParseStatus(record.Status)
	if err != nil {
		return assessment.Assessment{}, 0, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	return assessment.Assessment{
		ID:        record.ID,
		Questions: toQuestions(questions),
		Status:    status,
	}, len(responses), nil
}

// SubmitResponse records a rating for one question, replacing any earlier answer.
func (s *AssessmentService) SubmitResponse(ctx context.Context, userID, assessmentID, questionID string, rating int, comment string) error {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	record, err := s.loadOwned(dbCtx, userID, assessmentID)
	if err != nil {
		return err
	}
	if record.Status == string(assessment.StatusCompleted) {
		return ErrAssessmentCompleted
	}

	questions, err := s.storage.GetAssessmentQuestions(dbCtx, assessmentID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	var question *models.AssessmentQuestion
	for i := range questions {
		if questions[i].ID == questionID {
			question = &questions[i]
			break
		}
	}
	if question == nil {
		return fmt.Errorf("%w: %s", ErrQuestionNotFound, questionID)
	}
	if !ratingscale.IsValidRating(question.RatingOptions, rating) {
		return fmt.Errorf("%w: %d", ErrInvalidRating, rating)
	}

	err = s.storage.UpsertResponse(dbCtx, models.Response{
		AssessmentID: assessmentID,
		QuestionID:   questionID,
		Rating:       rating,
		Comment:      comment,
		UpdatedAt:    s.now(),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.logger.Debug("response recorded",
		zap.String("assessment_id", assessmentID),
		zap.String("question_id", questionID),
		zap.Int("rating", rating))
	return nil
}

// CompleteAssessment aggregates the responses and closes the assessment.
// Completing an already completed assessment returns the stored result.
func (s *AssessmentService) CompleteAssessment(ctx context.Context, userID, assessmentID string) (assessment.Result, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	record, err := s.loadOwned(dbCtx, userID, assessmentID)
	if err != nil {
		return assessment.Result{}, err
	}
	if record.Status == string(assessment.StatusCompleted) {
		return decodeResult(record)
	}

	questions, err := s.storage.GetAssessmentQuestions(dbCtx, assessmentID)
	if err != nil {
		return assessment.Result{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	responses, err := s.storage.GetResponses(dbCtx, assessmentID)
	if err != nil {
		return assessment.Result{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if len(responses) < len(questions) {
		return assessment.Result{}, fmt.Errorf("%w: %d of %d answered", ErrAssessmentIncomplete, len(responses), len(questions))
	}

	result := Aggregate(toQuestions(questions), toResponses(responses))
	payload, err := json.Marshal(result)
	if err != nil {
		return assessment.Result{}, fmt.Errorf("encode result: %w", err)
	}

	err = s.storage.CompleteAssessment(dbCtx, assessmentID, result.AverageScore, payload, s.now())
	if errors.Is(err, models.ErrNotFound) {
		// Completed concurrently; the stored result wins.
		record, err = s.loadOwned(dbCtx, userID, assessmentID)
		if err != nil {
			return assessment.Result{}, err
		}
		return decodeResult(record)
	}
	if err != nil {
		return assessment.Result{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.logger.Info("assessment completed",
		zap.String("assessment_id", assessmentID),
		zap.Float64("average_score", result.AverageScore),
		zap.Int("answered", result.AnsweredCount))
	return result, nil
}

// ListMyAssessments returns the caller's history, newest first.
func (s *AssessmentService) ListMyAssessments(ctx context.Context, userID string) ([]assessment.Summary, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.storage.ListAssessmentsByUser(dbCtx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	out := make([]assessment.Summary, 0, len(rows))
	for _, r := range rows {
		out = append(out, assessment.Summary{
			ID:             r.ID,
			Status:         assessment.Status(r.Status),
			StartedAt:      r.StartedAt,
			AnsweredCount:  r.AnsweredCount,
			TotalQuestions: r.TotalQuestions,
			AverageScore:   r.AverageScore,
		})
	}
	return out, nil
}

// GetAssessmentResult returns the cached result of a completed assessment.
func (s *AssessmentService) GetAssessmentResult(ctx context.Context, userID, assessmentID string) (assessment.Result, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	record, err := s.loadOwned(dbCtx, userID, assessmentID)
	if err != nil {
		return assessment.Result{}, err
	}
	if record.Status != string(assessment.StatusCompleted) {
		return assessment.Result{}, ErrResultNotReady
	}
	return decodeResult(record)
}

func (s *AssessmentService) loadOwned(ctx context.Context, userID, assessmentID string) (models.Assessment, error) {
	record, err := s.storage.GetAssessment(ctx, assessmentID)
	if errors.Is(err, models.ErrNotFound) {
		return models.Assessment{}, ErrAssessmentNotFound
	}
	if err != nil {
		return models.Assessment{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if record.UserID != userID {
		s.logger.Warn("assessment requested by non-owner",
			zap.String("assessment_id", assessmentID),
			zap.String("user_id", userID))
		return models.Assessment{}, ErrAssessmentNotFound
	}
	return record, nil
}

func decodeResult(record models.Assessment) (assessment.Result, error) {
	var result assessment.Result
	if err := json.Unmarshal(record.Result, &result); err != nil {
		return assessment.Result{}, fmt.Errorf("%w: decode result of %s: %v", ErrStorageFailure, record.ID, err)
	}
	return result, nil
}

func toQuestions(rows []models.AssessmentQuestion) []assessment.Question {
	out := make([]assessment.Question, 0, len(rows))
	for _, q := range rows {
		out = append(out, assessment.Question{
			ID:                   q.ID,
			CompetencyID:         q.CompetencyID,
			CompetencyName:       q.CompetencyName,
			Statement:            q.Statement,
			RatingOptions:        q.RatingOptions,
			Examples:             []string(q.Examples),
			ProficiencyLevelName: q.ProficiencyLevelName,
		})
	}
	return out
}

func toResponses(rows []models.Response) []assessment.Response {
	out := make([]assessment.Response, 0, len(rows))
	for _, r := range rows {
		out = append(out, assessment.Response{
			QuestionID: r.QuestionID,
			Rating:     r.Rating,
			Comment:    r.Comment,
		})
	}
	return out
}

func uniqueNonEmpty(ids []string) []string {
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
