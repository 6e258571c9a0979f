package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/godilite/assessment-server/internal/repository/models"
)

type CompetencyRepository struct {
	db *sql.DB
}

func NewCompetencyRepository(db *sql.DB) *CompetencyRepository {
	return &CompetencyRepository{db: db}
}

// SeedCatalog upserts competencies and questions in a single transaction.
func (r *CompetencyRepository) SeedCatalog(ctx context.Context, competencies []models.Competency, questions []models.Question) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin SeedCatalog: %w", err)
	}
	defer tx.Rollback()

	const upsertCompetency = `
		INSERT INTO competencies (id, name, description, type, position)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			type = excluded.type,
			position = excluded.position
	`
	for _, c := range competencies {
		if _, err := tx.ExecContext(ctx, upsertCompetency, c.ID, c.Name, c.Description, c.Type, c.Position); err != nil {
			return fmt.Errorf("upsert competency %s: %w", c.ID, err)
		}
	}

	const upsertQuestion = `
		INSERT INTO questions (id, competency_id, statement, rating_options, examples, proficiency_level_name, position)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			competency_id = excluded.competency_id,
			statement = excluded.statement,
			rating_options = excluded.rating_options,
			examples = excluded.examples,
			proficiency_level_name = excluded.proficiency_level_name,
			position = excluded.position
	`
	for _, q := range questions {
		if _, err := tx.ExecContext(ctx, upsertQuestion,
			q.ID, q.CompetencyID, q.Statement, q.RatingOptions, q.Examples, q.ProficiencyLevelName, q.Position,
		); err != nil {
			return fmt.Errorf("upsert question %s: %w", q.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit SeedCatalog: %w", err)
	}
	return nil
}

// ListCompetencies returns the catalog in display order.
func (r *CompetencyRepository) ListCompetencies(ctx context.Context) ([]models.Competency, error) {
	const query = `
		SELECT id, name, description, type, position
		FROM competencies
		ORDER BY position, name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query ListCompetencies: %w", err)
	}
	defer rows.Close()

	var results []models.Competency
	for rows.Next() {
		var c models.Competency
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Type, &c.Position); err != nil {
			return nil, fmt.Errorf("scan ListCompetencies row: %w", err)
		}
		results = append(results, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ListCompetencies: %w", err)
	}
	return results, nil
}

// GetQuestionsByCompetencies returns the questions of the given competencies,
// grouped by competency in catalog order.
func (r *CompetencyRepository) GetQuestionsByCompetencies(ctx context.Context, competencyIDs []string) ([]models.Question, error) {
	if len(competencyIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(competencyIDs)), ",")
	query := `
		SELECT q.id, q.competency_id, c.name, q.statement, q.rating_options, q.examples,
		       q.proficiency_level_name, q.position
		FROM questions AS q
		JOIN competencies AS c ON q.competency_id = c.id
		WHERE q.competency_id IN (` + placeholders + `)
		ORDER BY c.position, c.name, q.position, q.id
	`

	args := make([]any, len(competencyIDs))
	for i, id := range competencyIDs {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query GetQuestionsByCompetencies: %w", err)
	}
	defer rows.Close()

	var results []models.Question
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.CompetencyID, &q.CompetencyName, &q.Statement,
			&q.RatingOptions, &q.Examples, &q.ProficiencyLevelName, &q.Position); err != nil {
			return nil, fmt.Errorf("scan GetQuestionsByCompetencies row: %w", err)
		}
		results = append(results, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate GetQuestionsByCompetencies: %w", err)
	}
	return results, nil
}
