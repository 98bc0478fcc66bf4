package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"queuay-worker/internal/models"
)

type pgScheduleRepository struct {
	db *pgxpool.Pool
}

// NewPgScheduleRepository creates a PostgreSQL-backed ScheduleRepository.
func NewPgScheduleRepository(db *pgxpool.Pool) ScheduleRepository {
	return &pgScheduleRepository{db: db}
}

func (r *pgScheduleRepository) ListDue(ctx context.Context, now time.Time) ([]models.ScheduledJob, error) {
	query := `
        SELECT sj.id, a.organization_id, sj.app_id, sj.environment_id, sj.name,
               sj.cron_expression, sj.timezone, sj.journey_ids, sj.is_enabled,
               sj.next_run_at, sj.last_run_at, sj.created_at
        FROM scheduled_jobs sj
        JOIN apps a ON a.id = sj.app_id
        WHERE sj.is_enabled = true AND sj.next_run_at <= $1`

	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list due scheduled jobs: %w", err)
	}
	defer rows.Close()

	var jobs []models.ScheduledJob
	for rows.Next() {
		var (
			job        models.ScheduledJob
			journeyIDs []string
		)
		err := rows.Scan(
			&job.ID, &job.OrganizationID, &job.AppID, &job.EnvironmentID, &job.Name,
			&job.CronExpression, &job.Timezone, &journeyIDs, &job.IsEnabled,
			&job.NextRunAt, &job.LastRunAt, &job.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scheduled job: %w", err)
		}

		for _, raw := range journeyIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid journey id %q on scheduled job %s: %w", raw, job.ID, err)
			}
			job.JourneyIDs = append(job.JourneyIDs, id)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scheduled jobs: %w", err)
	}
	return jobs, nil
}

func (r *pgScheduleRepository) MarkTriggered(ctx context.Context, id uuid.UUID, lastRunAt, nextRunAt time.Time) error {
	query := `UPDATE scheduled_jobs SET last_run_at = $2, next_run_at = $3 WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id, lastRunAt, nextRunAt); err != nil {
		return fmt.Errorf("failed to mark scheduled job %s triggered: %w", id, err)
	}
	return nil
}
