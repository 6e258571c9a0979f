// Package catalog loads the competency and question catalog from YAML and
// seeds it into the store.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/godilite/assessment-server/internal/ratingscale"
	"github.com/godilite/assessment-server/internal/repository/models"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

type catalogFile struct {
	Scales       map[string][]string `yaml:"scales"`
	Competencies []competencyFile    `yaml:"competencies"`
}

type competencyFile struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Type        string         `yaml:"type"`
	Scale       string         `yaml:"scale"`
	Questions   []questionFile `yaml:"questions"`
}

type questionFile struct {
	ID               string   `yaml:"id"`
	Statement        string   `yaml:"statement"`
	ProficiencyLevel string   `yaml:"proficiency_level"`
	Examples         []string `yaml:"examples"`
	Scale            string   `yaml:"scale"`
	RatingOptions    []string `yaml:"rating_options"`
}

// Catalog is a validated catalog ready to be seeded. Rating scales are in
// persisted form.
type Catalog struct {
	Competencies []models.Competency
	Questions    []models.Question
}

// Seeder persists a catalog.
type Seeder interface {
	SeedCatalog(ctx context.Context, competencies []models.Competency, questions []models.Question) error
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse validates a YAML catalog. A question uses, in order of precedence, its
// inline rating_options, its named scale, the competency's scale, or the
// default scale.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(file.Competencies) == 0 {
		return nil, fmt.Errorf("%w: no competencies", ErrInvalidCatalog)
	}

	scales := make(map[string]ratingscale.Persisted, len(file.Scales))
	for name, labels := range file.Scales {
		persisted, err := buildScale(labels)
		if err != nil {
			return nil, fmt.Errorf("%w: scale %q: %w", ErrInvalidCatalog, name, err)
		}
		scales[name] = persisted
	}
	defaultScale := ratingscale.Serialize(ratingscale.DefaultScale())

	out := &Catalog{}
	seenCompetencies := make(map[string]bool)
	seenQuestions := make(map[string]bool)

	for i, c := range file.Competencies {
		id := strings.TrimSpace(c.ID)
		if id == "" || strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("%w: competency %d needs an id and a name", ErrInvalidCatalog, i+1)
		}
		if seenCompetencies[id] {
			return nil, fmt.Errorf("%w: duplicate competency %q", ErrInvalidCatalog, id)
		}
		seenCompetencies[id] = true

		competencyScale := defaultScale
		if c.Scale != "" {
			s, ok := scales[c.Scale]
			if !ok {
				return nil, fmt.Errorf("%w: competency %q: unknown scale %q", ErrInvalidCatalog, id, c.Scale)
			}
			competencyScale = s
		}

		out.Competencies = append(out.Competencies, models.Competency{
			ID:          id,
			Name:        strings.TrimSpace(c.Name),
			Description: strings.TrimSpace(c.Description),
			Type:        c.Type,
			Position:    i + 1,
		})

		for j, q := range c.Questions {
			qid := strings.TrimSpace(q.ID)
			if qid == "" || strings.TrimSpace(q.Statement) == "" {
				return nil, fmt.Errorf("%w: competency %q question %d needs an id and a statement", ErrInvalidCatalog, id, j+1)
			}
			if seenQuestions[qid] {
				return nil, fmt.Errorf("%w: duplicate question %q", ErrInvalidCatalog, qid)
			}
			seenQuestions[qid] = true

			scale := competencyScale
			switch {
			case len(q.RatingOptions) > 0:
				s, err := buildScale(q.RatingOptions)
				if err != nil {
					return nil, fmt.Errorf("%w: question %q: %w", ErrInvalidCatalog, qid, err)
				}
				scale = s
			case q.Scale != "":
				s, ok := scales[q.Scale]
				if !ok {
					return nil, fmt.Errorf("%w: question %q: unknown scale %q", ErrInvalidCatalog, qid, q.Scale)
				}
				scale = s
			}

			out.Questions = append(out.Questions, models.Question{
				ID:                   qid,
				CompetencyID:         id,
				Statement:            strings.TrimSpace(q.Statement),
				RatingOptions:        scale,
				Examples:             models.StringList(q.Examples),
				ProficiencyLevelName: q.ProficiencyLevel,
				Position:             j + 1,
			})
		}
	}

	return out, nil
}

func buildScale(labels []string) (ratingscale.Persisted, error) {
	if len(labels) == 0 {
		return nil, ratingscale.ErrTooFewOptions
	}
	options := make([]ratingscale.RatingOption, len(labels))
	for i, label := range labels {
		options[i] = ratingscale.RatingOption{Label: label}
	}
	return ratingscale.NewEditor(options).Serialize()
}

// Seed writes the catalog through seeder. Re-seeding updates rows in place.
func (c *Catalog) Seed(ctx context.Context, seeder Seeder, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := seeder.SeedCatalog(ctx, c.Competencies, c.Questions); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	logger.Info("catalog seeded",
		zap.Int("competencies", len(c.Competencies)),
		zap.Int("questions", len(c.Questions)))
	return nil
}
