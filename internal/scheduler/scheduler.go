package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"queuay-worker/internal/messaging"
	"queuay-worker/internal/models"
	"queuay-worker/internal/repository"
)

// RunEnqueuer hands a run task to the queue.
type RunEnqueuer interface {
	EnqueueRun(ctx context.Context, payload messaging.RunTaskPayload) error
}

// Trigger promotes due scheduled jobs into pending runs on a fixed tick.
// One trigger instance is expected per deployment.
type Trigger struct {
	schedules repository.ScheduleRepository
	runs      repository.RunRepository
	enqueuer  RunEnqueuer
	interval  time.Duration
	now       func() time.Time
	log       *zap.Logger
}

// NewTrigger wires the schedule trigger.
func NewTrigger(
	schedules repository.ScheduleRepository,
	runs repository.RunRepository,
	enqueuer RunEnqueuer,
	interval time.Duration,
	log *zap.Logger,
) *Trigger {
	return &Trigger{
		schedules: schedules,
		runs:      runs,
		enqueuer:  enqueuer,
		interval:  interval,
		now:       time.Now,
		log:       log.Named("scheduler"),
	}
}

// Start runs the tick loop until the context is cancelled. An immediate
// first tick catches jobs that came due while the worker was down.
func (t *Trigger) Start(ctx context.Context) {
	t.log.Info("schedule trigger started", zap.Duration("interval", t.interval))

	t.Tick(ctx)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.log.Info("schedule trigger stopped")
			return
		case <-ticker.C:
			t.Tick(ctx)
		}
	}
}

// Tick processes every due job once. Failures are isolated per job so one
// broken schedule cannot starve the rest.
func (t *Trigger) Tick(ctx context.Context) {
	now := t.now()

	jobs, err := t.schedules.ListDue(ctx, now)
	if err != nil {
		t.log.Error("failed to list due jobs", zap.Error(err))
		return
	}
	if len(jobs) == 0 {
		return
	}

	t.log.Info("due jobs found", zap.Int("count", len(jobs)))

	for _, job := range jobs {
		if err := t.trigger(ctx, job, now); err != nil {
			t.log.Error("failed to trigger job",
				zap.String("job_id", job.ID.String()),
				zap.String("name", job.Name),
				zap.Error(err))
		}
	}
}

func (t *Trigger) trigger(ctx context.Context, job models.ScheduledJob, now time.Time) error {
	run := &models.Run{
		ID:             uuid.New(),
		OrganizationID: job.OrganizationID,
		AppID:          job.AppID,
		EnvironmentID:  job.EnvironmentID,
		TriggerType:    models.TriggerScheduled,
		Status:         models.RunStatusPending,
		CreatedAt:      now,
	}
	if err := t.runs.Create(ctx, run); err != nil {
		return err
	}

	payload := messaging.RunTaskPayload{
		TestRunID:      run.ID,
		OrganizationID: job.OrganizationID,
		AppID:          job.AppID,
		EnvironmentID:  job.EnvironmentID,
		JourneyIDs:     job.JourneyIDs,
	}
	if err := t.enqueuer.EnqueueRun(ctx, payload); err != nil {
		return err
	}

	loc, err := time.LoadLocation(job.Timezone)
	if err != nil {
		t.log.Warn("invalid timezone, using UTC",
			zap.String("job_id", job.ID.String()),
			zap.String("timezone", job.Timezone))
		loc = time.UTC
	}
	nextRun := NextRun(job.CronExpression, loc, now)

	if err := t.schedules.MarkTriggered(ctx, job.ID, now, nextRun); err != nil {
		return err
	}

	t.log.Info("scheduled run enqueued",
		zap.String("job_id", job.ID.String()),
		zap.String("run_id", run.ID.String()),
		zap.Time("next_run_at", nextRun))
	return nil
}
