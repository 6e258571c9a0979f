package catalog

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/godilite/assessment-server/internal/ratingscale"
	"github.com/godilite/assessment-server/internal/repository"
	"github.com/godilite/assessment-server/internal/repository/models"
)

const validCatalog = `
scales:
  agreement: [Disagree, Neutral, Agree]
competencies:
  - id: comm
    name: Communication
    scale: agreement
    questions:
      - id: q1
        statement: I listen actively
        examples: [Asks questions]
      - id: q2
        statement: I write clearly
        rating_options: [Never, Always]
  - id: lead
    name: Leadership
    questions:
      - id: q3
        statement: I set direction
        scale: agreement
      - id: q4
        statement: I grow others
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(validCatalog))
	require.NoError(t, err)

	require.Len(t, c.Competencies, 2)
	assert.Equal(t, models.Competency{ID: "comm", Name: "Communication", Position: 1}, c.Competencies[0])
	assert.Equal(t, 2, c.Competencies[1].Position)

	require.Len(t, c.Questions, 4)
	byID := make(map[string]models.Question)
	for _, q := range c.Questions {
		byID[q.ID] = q
	}

	agreement := ratingscale.Persisted{"1": "Disagree", "2": "Neutral", "3": "Agree"}
	assert.Equal(t, agreement, byID["q1"].RatingOptions, "competency scale applies")
	assert.Equal(t, models.StringList{"Asks questions"}, byID["q1"].Examples)
	assert.Equal(t, ratingscale.Persisted{"1": "Never", "2": "Always"}, byID["q2"].RatingOptions, "inline options win")
	assert.Equal(t, agreement, byID["q3"].RatingOptions, "question scale applies")
	assert.Equal(t, ratingscale.Serialize(ratingscale.DefaultScale()), byID["q4"].RatingOptions)

	assert.Equal(t, "lead", byID["q4"].CompetencyID)
	assert.Equal(t, 2, byID["q4"].Position)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{
			name:    "no competencies",
			yaml:    `scales: {}`,
			wantErr: ErrInvalidCatalog,
		},
		{
			name: "missing name",
			yaml: `
competencies:
  - id: comm
`,
			wantErr: ErrInvalidCatalog,
		},
		{
			name: "duplicate competency",
			yaml: `
competencies:
  - {id: comm, name: A}
  - {id: comm, name: B}
`,
			wantErr: ErrInvalidCatalog,
		},
		{
			name: "duplicate question across competencies",
			yaml: `
competencies:
  - id: a
    name: A
    questions: [{id: q1, statement: x}]
  - id: b
    name: B
    questions: [{id: q1, statement: y}]
`,
			wantErr: ErrInvalidCatalog,
		},
		{
			name: "unknown scale",
			yaml: `
competencies:
  - id: a
    name: A
    scale: missing
`,
			wantErr: ErrInvalidCatalog,
		},
		{
			name: "scale with six options",
			yaml: `
scales:
  wide: [a, b, c, d, e, f]
competencies:
  - {id: a, name: A}
`,
			wantErr: ratingscale.ErrTooManyOptions,
		},
		{
			name: "single inline option",
			yaml: `
competencies:
  - id: a
    name: A
    questions:
      - {id: q1, statement: x, rating_options: [Only]}
`,
			wantErr: ratingscale.ErrTooFewOptions,
		},
		{
			name: "blank label",
			yaml: `
scales:
  s: [Good, "  "]
competencies:
  - {id: a, name: A}
`,
			wantErr: ratingscale.ErrEmptyLabel,
		},
		{
			name: "empty scale",
			yaml: `
scales:
  s: []
competencies:
  - {id: a, name: A}
`,
			wantErr: ratingscale.ErrTooFewOptions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParse_MalformedYAML(t *testing.T) {
	_, err := Parse([]byte("competencies: [unterminated"))
	assert.ErrorContains(t, err, "parse catalog")
}

func TestLoad_BundledCatalog(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "data", "catalog.yaml"))
	require.NoError(t, err)

	assert.NotEmpty(t, c.Competencies)
	for _, q := range c.Questions {
		assert.NoError(t, ratingscale.Validate(ratingscale.Normalize(q.RatingOptions)), q.ID)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read catalog")
}

type seederFunc func(ctx context.Context, competencies []models.Competency, questions []models.Question) error

func (f seederFunc) SeedCatalog(ctx context.Context, competencies []models.Competency, questions []models.Question) error {
	return f(ctx, competencies, questions)
}

func TestSeed_Error(t *testing.T) {
	c, err := Parse([]byte(validCatalog))
	require.NoError(t, err)

	boom := errors.New("disk full")
	err = c.Seed(context.Background(), seederFunc(func(context.Context, []models.Competency, []models.Question) error {
		return boom
	}), nil)

	assert.ErrorIs(t, err, boom)
}

func TestSeed_Idempotent(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, repository.Migrate(ctx, db))

	c, err := Parse([]byte(validCatalog))
	require.NoError(t, err)

	repo := repository.NewCompetencyRepository(db)
	logger := zaptest.NewLogger(t)
	require.NoError(t, c.Seed(ctx, repo, logger))
	require.NoError(t, c.Seed(ctx, repo, logger))

	competencies, err := repo.ListCompetencies(ctx)
	require.NoError(t, err)
	assert.Len(t, competencies, 2)

	questions, err := repo.GetQuestionsByCompetencies(ctx, []string{"comm"})
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "q1", questions[0].ID)
	assert.Equal(t, "Communication", questions[0].CompetencyName)
}
