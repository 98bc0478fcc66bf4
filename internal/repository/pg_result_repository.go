package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"queuay-worker/internal/models"
)

type pgResultRepository struct {
	db *pgxpool.Pool
}

// NewPgResultRepository creates a PostgreSQL-backed ResultRepository.
func NewPgResultRepository(db *pgxpool.Pool) ResultRepository {
	return &pgResultRepository{db: db}
}

func (r *pgResultRepository) Create(ctx context.Context, result *models.StoryResult) error {
	stepsJSON, err := json.Marshal(result.Steps)
	if err != nil {
		return fmt.Errorf("failed to encode step results: %w", err)
	}
	consoleJSON, err := json.Marshal(result.ConsoleErrors)
	if err != nil {
		return fmt.Errorf("failed to encode console errors: %w", err)
	}
	var healJSON []byte
	if result.HealProposal != nil {
		healJSON, err = json.Marshal(result.HealProposal)
		if err != nil {
			return fmt.Errorf("failed to encode heal proposal: %w", err)
		}
	}

	query := `
        INSERT INTO test_results
            (id, test_run_id, story_id, journey_name, story_name, passed,
             duration_ms, steps, error, screenshot_url, console_errors,
             heal_proposal, retries, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err = r.db.Exec(ctx, query,
		result.ID, result.RunID, result.StoryID,
		result.JourneyName, result.StoryName, result.Passed,
		result.DurationMs, stepsJSON, nullIfEmpty(result.Error),
		nullIfEmpty(result.ScreenshotURL), consoleJSON, healJSON,
		result.Retries, result.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save result of story %s in run %s: %w",
			result.StoryID, result.RunID, err)
	}
	return nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
