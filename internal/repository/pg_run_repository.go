package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"queuay-worker/internal/models"
)

type pgRunRepository struct {
	db *pgxpool.Pool
}

// NewPgRunRepository creates a PostgreSQL-backed RunRepository.
func NewPgRunRepository(db *pgxpool.Pool) RunRepository {
	return &pgRunRepository{db: db}
}

func (r *pgRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Run, error) {
	query := `
        SELECT id, organization_id, app_id, environment_id, trigger_type, status,
               stories_total, stories_passed, stories_failed, stories_skipped,
               duration_ms, started_at, completed_at, created_at
        FROM test_runs
        WHERE id = $1`

	var run models.Run
	if err := pgxscan.Get(ctx, r.db, &run, query, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("test run %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get test run %s: %w", id, err)
	}
	return &run, nil
}

func (r *pgRunRepository) GetStatus(ctx context.Context, id uuid.UUID) (models.RunStatus, error) {
	var status models.RunStatus
	err := r.db.QueryRow(ctx, `SELECT status FROM test_runs WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("test run %s: %w", id, ErrNotFound)
		}
		return "", fmt.Errorf("failed to get status of test run %s: %w", id, err)
	}
	return status, nil
}

func (r *pgRunRepository) Create(ctx context.Context, run *models.Run) error {
	query := `
        INSERT INTO test_runs
            (id, organization_id, app_id, environment_id, trigger_type, status,
             stories_total, stories_passed, stories_failed, stories_skipped, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(ctx, query,
		run.ID, run.OrganizationID, run.AppID, run.EnvironmentID,
		run.TriggerType, run.Status,
		run.StoriesTotal, run.StoriesPassed, run.StoriesFailed, run.StoriesSkipped,
		run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create test run %s: %w", run.ID, err)
	}
	return nil
}

func (r *pgRunRepository) MarkRunning(ctx context.Context, id uuid.UUID, startedAt time.Time, total int) error {
	query := `
        UPDATE test_runs
        SET status = $2, started_at = $3, stories_total = $4
        WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, models.RunStatusRunning, startedAt, total)
	if err != nil {
		return fmt.Errorf("failed to mark test run %s running: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("test run %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *pgRunRepository) UpdateCounts(ctx context.Context, id uuid.UUID, passed, failed int) error {
	query := `UPDATE test_runs SET stories_passed = $2, stories_failed = $3 WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id, passed, failed); err != nil {
		return fmt.Errorf("failed to update counters of test run %s: %w", id, err)
	}
	return nil
}

// Finalization updates guard on the expected current status so a
// cancellation landing mid-run is never overwritten to completed.
// Zero affected rows therefore means "already terminal", not an error.
const (
	markCompletedQuery = `
        UPDATE test_runs
        SET status = $2, completed_at = $3, duration_ms = $4,
            stories_passed = $5, stories_failed = $6
        WHERE id = $1 AND status = 'running'`

	markCompletedEmptyQuery = `
        UPDATE test_runs
        SET status = $2, started_at = $3, completed_at = $3,
            stories_total = 0, stories_passed = 0, stories_failed = 0
        WHERE id = $1 AND status = 'pending'`
)

func (r *pgRunRepository) MarkCompleted(ctx context.Context, id uuid.UUID, completedAt time.Time, durationMs int64, passed, failed int) error {
	if _, err := r.db.Exec(ctx, markCompletedQuery, id, models.RunStatusCompleted, completedAt, durationMs, passed, failed); err != nil {
		return fmt.Errorf("failed to mark test run %s completed: %w", id, err)
	}
	return nil
}

func (r *pgRunRepository) MarkCompletedEmpty(ctx context.Context, id uuid.UUID, now time.Time) error {
	if _, err := r.db.Exec(ctx, markCompletedEmptyQuery, id, models.RunStatusCompleted, now); err != nil {
		return fmt.Errorf("failed to finalize empty test run %s: %w", id, err)
	}
	return nil
}

func (r *pgRunRepository) MarkFailed(ctx context.Context, id uuid.UUID, now time.Time) error {
	query := `UPDATE test_runs SET status = $2, completed_at = $3 WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id, models.RunStatusFailed, now); err != nil {
		return fmt.Errorf("failed to mark test run %s failed: %w", id, err)
	}
	return nil
}
