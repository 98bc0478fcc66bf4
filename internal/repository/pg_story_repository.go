package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"queuay-worker/internal/models"
)

type pgStoryRepository struct {
	db *pgxpool.Pool
}

// NewPgStoryRepository creates a PostgreSQL-backed StoryRepository.
func NewPgStoryRepository(db *pgxpool.Pool) StoryRepository {
	return &pgStoryRepository{db: db}
}

const storySelect = `
    SELECT s.id, s.journey_id, j.name, s.name, s.title, s.steps, s.outcome,
           s.position, s.is_enabled, s.last_run_at, s.last_result
    FROM stories s
    JOIN journeys j ON j.id = s.journey_id`

func (r *pgStoryRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Story, error) {
	query := storySelect + `
    WHERE s.is_enabled = true AND s.id = ANY($1)
    ORDER BY s.position`
	return r.list(ctx, query, ids)
}

func (r *pgStoryRepository) ListByJourneys(ctx context.Context, journeyIDs []uuid.UUID) ([]models.Story, error) {
	query := storySelect + `
    WHERE s.is_enabled = true AND s.journey_id = ANY($1)
    ORDER BY s.position`
	return r.list(ctx, query, journeyIDs)
}

func (r *pgStoryRepository) ListByApp(ctx context.Context, appID uuid.UUID) ([]models.Story, error) {
	query := storySelect + `
    WHERE s.is_enabled = true AND j.app_id = $1
    ORDER BY s.position`
	return r.list(ctx, query, appID)
}

func (r *pgStoryRepository) list(ctx context.Context, query string, arg any) ([]models.Story, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	defer rows.Close()

	var stories []models.Story
	for rows.Next() {
		story, err := scanStory(rows)
		if err != nil {
			return nil, err
		}
		stories = append(stories, story)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stories: %w", err)
	}
	return stories, nil
}

func scanStory(row pgx.Row) (models.Story, error) {
	var (
		story       models.Story
		stepsJSON   []byte
		outcomeJSON []byte
	)
	err := row.Scan(
		&story.ID, &story.JourneyID, &story.JourneyName, &story.Name, &story.Title,
		&stepsJSON, &outcomeJSON, &story.Position, &story.IsEnabled,
		&story.LastRunAt, &story.LastResult)
	if err != nil {
		return models.Story{}, fmt.Errorf("failed to scan story: %w", err)
	}

	if len(stepsJSON) > 0 {
		if err := json.Unmarshal(stepsJSON, &story.Steps); err != nil {
			return models.Story{}, fmt.Errorf("failed to decode steps of story %s: %w", story.ID, err)
		}
	}
	if len(outcomeJSON) > 0 {
		if err := json.Unmarshal(outcomeJSON, &story.Outcome); err != nil {
			return models.Story{}, fmt.Errorf("failed to decode outcome of story %s: %w", story.ID, err)
		}
	}
	return story, nil
}

func (r *pgStoryRepository) UpdateLastRun(ctx context.Context, id uuid.UUID, at time.Time, result string) error {
	query := `UPDATE stories SET last_run_at = $2, last_result = $3 WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id, at, result); err != nil {
		return fmt.Errorf("failed to update last run of story %s: %w", id, err)
	}
	return nil
}
