package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"queuay-worker/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// RunRepository reads and mutates test-run records. Counters and status are
// only ever written by the orchestrator (and the caller on resolution faults),
// so no optimistic locking is needed.
type RunRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Run, error)
	GetStatus(ctx context.Context, id uuid.UUID) (models.RunStatus, error)
	Create(ctx context.Context, run *models.Run) error
	// MarkRunning transitions the run to running and fixes the story total.
	MarkRunning(ctx context.Context, id uuid.UUID, startedAt time.Time, total int) error
	// UpdateCounts persists incremental pass/fail counters mid-run.
	UpdateCounts(ctx context.Context, id uuid.UUID, passed, failed int) error
	MarkCompleted(ctx context.Context, id uuid.UUID, completedAt time.Time, durationMs int64, passed, failed int) error
	// MarkCompletedEmpty finalizes a run whose resolved story set was empty.
	MarkCompletedEmpty(ctx context.Context, id uuid.UUID, now time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, now time.Time) error
}

// StoryRepository resolves story sets and updates last-run bookkeeping.
// All listing methods return enabled stories only, ordered by position.
type StoryRepository interface {
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Story, error)
	ListByJourneys(ctx context.Context, journeyIDs []uuid.UUID) ([]models.Story, error)
	ListByApp(ctx context.Context, appID uuid.UUID) ([]models.Story, error)
	UpdateLastRun(ctx context.Context, id uuid.UUID, at time.Time, result string) error
}

// ResultRepository persists one StoryResult per story per run.
type ResultRepository interface {
	Create(ctx context.Context, result *models.StoryResult) error
}

// EnvironmentRepository reads target environments.
type EnvironmentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Environment, error)
}

// ScheduleRepository reads due scheduled jobs and records firings.
type ScheduleRepository interface {
	ListDue(ctx context.Context, now time.Time) ([]models.ScheduledJob, error)
	MarkTriggered(ctx context.Context, id uuid.UUID, lastRunAt, nextRunAt time.Time) error
}
