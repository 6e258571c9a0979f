package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/godilite/assessment-server/internal/repository/models"
)

type AssessmentRepository struct {
	*CompetencyRepository
	db *sql.DB
}

func NewAssessmentRepository(db *sql.DB) *AssessmentRepository {
	return &AssessmentRepository{
		CompetencyRepository: NewCompetencyRepository(db),
		db:                   db,
	}
}

// CreateAssessment stores the assessment together with its frozen question list.
func (r *AssessmentRepository) CreateAssessment(ctx context.Context, a models.Assessment, questions []models.AssessmentQuestion) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin CreateAssessment: %w", err)
	}
	defer tx.Rollback()

	const insertAssessment = `
		INSERT INTO assessments (id, user_id, status, started_at)
		VALUES (?, ?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, insertAssessment, a.ID, a.UserID, a.Status, a.StartedAt); err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}

	const insertQuestion = `
		INSERT INTO assessment_questions (
			assessment_id, position, question_id, competency_id, competency_name,
			statement, rating_options, examples, proficiency_level_name
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, q := range questions {
		if _, err := tx.ExecContext(ctx, insertQuestion,
			a.ID, q.Position, q.ID, q.CompetencyID, q.CompetencyName,
			q.Statement, q.RatingOptions, q.Examples, q.ProficiencyLevelName,
		); err != nil {
			return fmt.Errorf("insert assessment question %s: %w", q.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit CreateAssessment: %w", err)
	}
	return nil
}

func (r *AssessmentRepository) GetAssessment(ctx context.Context, id string) (models.Assessment, error) {
	const query = `
		SELECT id, user_id, status, started_at, completed_at, average_score, result
		FROM assessments
		WHERE id = ?
	`

	var (
		a           models.Assessment
		completedAt sql.NullTime
		score       sql.NullFloat64
		result      sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.UserID, &a.Status, &a.StartedAt, &completedAt, &score, &result,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Assessment{}, fmt.Errorf("assessment %s: %w", id, models.ErrNotFound)
		}
		return models.Assessment{}, fmt.Errorf("query GetAssessment: %w", err)
	}

	if completedAt.Valid {
		t := completedAt.Time
		a.CompletedAt = &t
	}
	if score.Valid {
		s := score.Float64
		a.AverageScore = &s
	}
	if result.Valid {
		a.Result = []byte(result.String)
	}
	return a, nil
}

// GetAssessmentQuestions returns the frozen questions in answering order.
func (r *AssessmentRepository) GetAssessmentQuestions(ctx context.Context, assessmentID string) ([]models.AssessmentQuestion, error) {
	const query = `
		SELECT assessment_id, position, question_id, competency_id, competency_name,
		       statement, rating_options, examples, proficiency_level_name
		FROM assessment_questions
		WHERE assessment_id = ?
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("query GetAssessmentQuestions: %w", err)
	}
	defer rows.Close()

	var results []models.AssessmentQuestion
	for rows.Next() {
		var q models.AssessmentQuestion
		if err := rows.Scan(&q.AssessmentID, &q.Position, &q.ID, &q.CompetencyID, &q.CompetencyName,
			&q.Statement, &q.RatingOptions, &q.Examples, &q.ProficiencyLevelName); err != nil {
			return nil, fmt.Errorf("scan GetAssessmentQuestions row: %w", err)
		}
		results = append(results, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate GetAssessmentQuestions: %w", err)
	}
	return results, nil
}

// UpsertResponse stores a response, replacing any earlier answer to the same question.
func (r *AssessmentRepository) UpsertResponse(ctx context.Context, resp models.Response) error {
	const query = `
		INSERT INTO responses (assessment_id, question_id, rating, comment, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(assessment_id, question_id) DO UPDATE SET
			rating = excluded.rating,
			comment = excluded.comment,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		resp.AssessmentID, resp.QuestionID, resp.Rating, resp.Comment, resp.UpdatedAt, resp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("exec UpsertResponse: %w", err)
	}
	return nil
}

func (r *AssessmentRepository) GetResponses(ctx context.Context, assessmentID string) ([]models.Response, error) {
	const query = `
		SELECT r.assessment_id, r.question_id, r.rating, r.comment, r.updated_at
		FROM responses AS r
		JOIN assessment_questions AS aq
			ON aq.assessment_id = r.assessment_id AND aq.question_id = r.question_id
		WHERE r.assessment_id = ?
		ORDER BY aq.position
	`

	rows, err := r.db.QueryContext(ctx, query, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("query GetResponses: %w", err)
	}
	defer rows.Close()

	var results []models.Response
	for rows.Next() {
		var resp models.Response
		if err := rows.Scan(&resp.AssessmentID, &resp.QuestionID, &resp.Rating, &resp.Comment, &resp.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan GetResponses row: %w", err)
		}
		results = append(results, resp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate GetResponses: %w", err)
	}
	return results, nil
}

// CompleteAssessment marks an in-progress assessment completed and stores its result.
// It returns models.ErrNotFound when no in-progress assessment matches.
func (r *AssessmentRepository) CompleteAssessment(ctx context.Context, id string, averageScore float64, result []byte, completedAt time.Time) error {
	const query = `
		UPDATE assessments
		SET status = 'COMPLETED', completed_at = ?, average_score = ?, result = ?
		WHERE id = ? AND status = 'IN_PROGRESS'
	`

	res, err := r.db.ExecContext(ctx, query, completedAt, averageScore, string(result), id)
	if err != nil {
		return fmt.Errorf("exec CompleteAssessment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected CompleteAssessment: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("in-progress assessment %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// ListAssessmentsByUser returns the user's assessments, newest first.
func (r *AssessmentRepository) ListAssessmentsByUser(ctx context.Context, userID string) ([]models.AssessmentSummary, error) {
	const query = `
		SELECT
			a.id,
			a.status,
			a.started_at,
			(SELECT COUNT(*) FROM responses AS r WHERE r.assessment_id = a.id) AS answered_count,
			(SELECT COUNT(*) FROM assessment_questions AS q WHERE q.assessment_id = a.id) AS total_questions,
			a.average_score
		FROM assessments AS a
		WHERE a.user_id = ?
		ORDER BY a.started_at DESC, a.id
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query ListAssessmentsByUser: %w", err)
	}
	defer rows.Close()

	var results []models.AssessmentSummary
	for rows.Next() {
		var (
			s     models.AssessmentSummary
			score sql.NullFloat64
		)
		if err := rows.Scan(&s.ID, &s.Status, &s.StartedAt, &s.AnsweredCount, &s.TotalQuestions, &score); err != nil {
			return nil, fmt.Errorf("scan ListAssessmentsByUser row: %w", err)
		}
		if score.Valid {
			v := score.Float64
			s.AverageScore = &v
		}
		results = append(results, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ListAssessmentsByUser: %w", err)
	}
	return results, nil
}
