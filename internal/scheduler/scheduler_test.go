package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"queuay-worker/internal/messaging"
	"queuay-worker/internal/mocks"
	"queuay-worker/internal/models"
	"queuay-worker/internal/scheduler"
)

func dueJob() models.ScheduledJob {
	return models.ScheduledJob{
		ID:             uuid.New(),
		OrganizationID: uuid.New(),
		AppID:          uuid.New(),
		EnvironmentID:  uuid.New(),
		Name:           "nightly smoke",
		CronExpression: "0 3 * * *",
		Timezone:       "UTC",
		JourneyIDs:     []uuid.UUID{uuid.New()},
		IsEnabled:      true,
	}
}

func TestTickTriggersDueJob(t *testing.T) {
	schedules := mocks.NewMockScheduleRepository(t)
	runs := mocks.NewMockRunRepository(t)
	enqueuer := mocks.NewMockRunEnqueuer(t)

	job := dueJob()
	schedules.On("ListDue", mock.Anything, mock.Anything).Return([]models.ScheduledJob{job}, nil)

	var createdRun *models.Run
	runs.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { createdRun = args.Get(1).(*models.Run) }).
		Return(nil)

	var payload messaging.RunTaskPayload
	enqueuer.On("EnqueueRun", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { payload = args.Get(1).(messaging.RunTaskPayload) }).
		Return(nil)

	schedules.On("MarkTriggered", mock.Anything, job.ID, mock.Anything, mock.Anything).Return(nil)

	trigger := scheduler.NewTrigger(schedules, runs, enqueuer, time.Minute, zap.NewNop())
	trigger.Tick(context.Background())

	if assert.NotNil(t, createdRun) {
		assert.Equal(t, models.RunStatusPending, createdRun.Status)
		assert.Equal(t, models.TriggerScheduled, createdRun.TriggerType)
		assert.Equal(t, job.AppID, createdRun.AppID)
		assert.Equal(t, createdRun.ID, payload.TestRunID)
		assert.Equal(t, job.JourneyIDs, payload.JourneyIDs)
		assert.Empty(t, payload.StoryIDs)
	}
	schedules.AssertExpectations(t)
}

func TestTickNoDueJobs(t *testing.T) {
	schedules := mocks.NewMockScheduleRepository(t)
	runs := mocks.NewMockRunRepository(t)
	enqueuer := mocks.NewMockRunEnqueuer(t)

	schedules.On("ListDue", mock.Anything, mock.Anything).Return(nil, nil)

	trigger := scheduler.NewTrigger(schedules, runs, enqueuer, time.Minute, zap.NewNop())
	trigger.Tick(context.Background())

	runs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	enqueuer.AssertNotCalled(t, "EnqueueRun", mock.Anything, mock.Anything)
}

func TestTickJobFailuresAreIsolated(t *testing.T) {
	schedules := mocks.NewMockScheduleRepository(t)
	runs := mocks.NewMockRunRepository(t)
	enqueuer := mocks.NewMockRunEnqueuer(t)

	broken := dueJob()
	healthy := dueJob()
	schedules.On("ListDue", mock.Anything, mock.Anything).
		Return([]models.ScheduledJob{broken, healthy}, nil)

	runs.On("Create", mock.Anything, mock.Anything).Return(nil)
	enqueuer.On("EnqueueRun", mock.Anything, mock.MatchedBy(func(p messaging.RunTaskPayload) bool {
		return p.AppID == broken.AppID
	})).Return(errors.New("broker unavailable"))
	enqueuer.On("EnqueueRun", mock.Anything, mock.MatchedBy(func(p messaging.RunTaskPayload) bool {
		return p.AppID == healthy.AppID
	})).Return(nil)
	schedules.On("MarkTriggered", mock.Anything, healthy.ID, mock.Anything, mock.Anything).Return(nil)

	trigger := scheduler.NewTrigger(schedules, runs, enqueuer, time.Minute, zap.NewNop())
	trigger.Tick(context.Background())

	// The broken job never advances its schedule; the healthy one does.
	schedules.AssertNotCalled(t, "MarkTriggered", mock.Anything, broken.ID, mock.Anything, mock.Anything)
	schedules.AssertCalled(t, "MarkTriggered", mock.Anything, healthy.ID, mock.Anything, mock.Anything)
}

func TestTickInvalidTimezoneFallsBackToUTC(t *testing.T) {
	schedules := mocks.NewMockScheduleRepository(t)
	runs := mocks.NewMockRunRepository(t)
	enqueuer := mocks.NewMockRunEnqueuer(t)

	job := dueJob()
	job.Timezone = "Mars/Olympus_Mons"
	schedules.On("ListDue", mock.Anything, mock.Anything).Return([]models.ScheduledJob{job}, nil)
	runs.On("Create", mock.Anything, mock.Anything).Return(nil)
	enqueuer.On("EnqueueRun", mock.Anything, mock.Anything).Return(nil)

	var nextRun time.Time
	schedules.On("MarkTriggered", mock.Anything, job.ID, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { nextRun = args.Get(3).(time.Time) }).
		Return(nil)

	trigger := scheduler.NewTrigger(schedules, runs, enqueuer, time.Minute, zap.NewNop())
	trigger.Tick(context.Background())

	assert.False(t, nextRun.IsZero())
	assert.True(t, nextRun.After(time.Now().Add(-time.Minute)))
}
