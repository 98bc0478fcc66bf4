package orchestrator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"queuay-worker/internal/mocks"
	"queuay-worker/internal/models"
	"queuay-worker/internal/orchestrator"
	"queuay-worker/internal/repository"
)

type fixture struct {
	runs    *mocks.MockRunRepository
	stories *mocks.MockStoryRepository
	results *mocks.MockResultRepository
	envs    *mocks.MockEnvironmentRepository
	runner  *mocks.MockStoryRunner
	orch    *orchestrator.Orchestrator
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		runs:    mocks.NewMockRunRepository(t),
		stories: mocks.NewMockStoryRepository(t),
		results: mocks.NewMockResultRepository(t),
		envs:    mocks.NewMockEnvironmentRepository(t),
		runner:  mocks.NewMockStoryRunner(t),
	}
	f.orch = orchestrator.New(f.runs, f.stories, f.results, f.envs, f.runner, nil, zap.NewNop())
	return f
}

func pendingRun(id uuid.UUID) *models.Run {
	return &models.Run{ID: id, Status: models.RunStatusPending, EnvironmentID: uuid.New()}
}

func testEnv() *models.Environment {
	return &models.Environment{ID: uuid.New(), Name: "staging", BaseURL: "https://staging.example.com"}
}

func story(title string, position int) models.Story {
	return models.Story{ID: uuid.New(), Title: title, Position: position, JourneyName: "Checkout"}
}

func TestExecuteEmptyStorySet(t *testing.T) {
	f := newFixture(t)
	runID := uuid.New()
	req := orchestrator.RunRequest{RunID: runID, AppID: uuid.New(), EnvironmentID: uuid.New()}

	f.runs.On("GetByID", mock.Anything, runID).Return(pendingRun(runID), nil)
	f.envs.On("GetByID", mock.Anything, req.EnvironmentID).Return(testEnv(), nil)
	f.stories.On("ListByApp", mock.Anything, req.AppID).Return(nil, nil)
	f.runs.On("MarkCompletedEmpty", mock.Anything, runID, mock.Anything).Return(nil)

	err := f.orch.Execute(context.Background(), req)

	require.NoError(t, err)
	f.runs.AssertNotCalled(t, "MarkRunning", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecuteMixedResults(t *testing.T) {
	f := newFixture(t)
	runID := uuid.New()
	req := orchestrator.RunRequest{RunID: runID, AppID: uuid.New(), EnvironmentID: uuid.New()}

	stories := []models.Story{story("Login", 1), story("Search", 2), story("Checkout", 3)}

	f.runs.On("GetByID", mock.Anything, runID).Return(pendingRun(runID), nil)
	f.envs.On("GetByID", mock.Anything, req.EnvironmentID).Return(testEnv(), nil)
	f.stories.On("ListByApp", mock.Anything, req.AppID).Return(stories, nil)
	f.runs.On("MarkRunning", mock.Anything, runID, mock.Anything, 3).Return(nil)
	f.runs.On("GetStatus", mock.Anything, runID).Return(models.RunStatusRunning, nil)

	f.runner.On("Run", mock.Anything, stories[0], "https://staging.example.com").
		Return(models.ExecutionResult{Passed: true, DurationMs: 100}, nil)
	f.runner.On("Run", mock.Anything, stories[1], "https://staging.example.com").
		Return(models.ExecutionResult{Passed: false, Error: "element not found"}, nil)
	f.runner.On("Run", mock.Anything, stories[2], "https://staging.example.com").
		Return(models.ExecutionResult{Passed: true, DurationMs: 80}, nil)

	f.results.On("Create", mock.Anything, mock.Anything).Return(nil).Times(3)
	f.stories.On("UpdateLastRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Times(3)
	f.runs.On("UpdateCounts", mock.Anything, runID, mock.Anything, mock.Anything).Return(nil).Times(3)
	f.runs.On("MarkCompleted", mock.Anything, runID, mock.Anything, mock.Anything, 2, 1).Return(nil)

	err := f.orch.Execute(context.Background(), req)

	require.NoError(t, err)
	f.runs.AssertExpectations(t)
	f.results.AssertExpectations(t)
}

func TestExecuteStorySelectionPrecedence(t *testing.T) {
	f := newFixture(t)
	runID := uuid.New()
	storyIDs := []uuid.UUID{uuid.New()}
	req := orchestrator.RunRequest{
		RunID:         runID,
		AppID:         uuid.New(),
		EnvironmentID: uuid.New(),
		StoryIDs:      storyIDs,
		JourneyIDs:    []uuid.UUID{uuid.New()},
	}

	f.runs.On("GetByID", mock.Anything, runID).Return(pendingRun(runID), nil)
	f.envs.On("GetByID", mock.Anything, req.EnvironmentID).Return(testEnv(), nil)
	f.stories.On("ListByIDs", mock.Anything, storyIDs).Return(nil, nil)
	f.runs.On("MarkCompletedEmpty", mock.Anything, runID, mock.Anything).Return(nil)

	err := f.orch.Execute(context.Background(), req)

	require.NoError(t, err)
	f.stories.AssertNotCalled(t, "ListByJourneys", mock.Anything, mock.Anything)
	f.stories.AssertNotCalled(t, "ListByApp", mock.Anything, mock.Anything)
}

func TestExecuteCancellationStopsRun(t *testing.T) {
	f := newFixture(t)
	runID := uuid.New()
	req := orchestrator.RunRequest{RunID: runID, AppID: uuid.New(), EnvironmentID: uuid.New()}

	stories := []models.Story{story("Login", 1), story("Search", 2)}

	f.runs.On("GetByID", mock.Anything, runID).Return(pendingRun(runID), nil)
	f.envs.On("GetByID", mock.Anything, req.EnvironmentID).Return(testEnv(), nil)
	f.stories.On("ListByApp", mock.Anything, req.AppID).Return(stories, nil)
	f.runs.On("MarkRunning", mock.Anything, runID, mock.Anything, 2).Return(nil)
	f.runs.On("GetStatus", mock.Anything, runID).Return(models.RunStatusRunning, nil).Once()
	f.runs.On("GetStatus", mock.Anything, runID).Return(models.RunStatusCancelled, nil).Once()

	f.runner.On("Run", mock.Anything, stories[0], mock.Anything).
		Return(models.ExecutionResult{Passed: true}, nil)
	f.results.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	f.stories.On("UpdateLastRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	f.runs.On("UpdateCounts", mock.Anything, runID, 1, 0).Return(nil).Once()

	err := f.orch.Execute(context.Background(), req)

	require.NoError(t, err)
	// The cancelled run keeps its status; no finalization happens.
	f.runs.AssertNotCalled(t, "MarkCompleted",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.runner.AssertNumberOfCalls(t, "Run", 1)
}

func TestExecuteRunnerPanicBecomesFailedResult(t *testing.T) {
	f := newFixture(t)
	runID := uuid.New()
	req := orchestrator.RunRequest{RunID: runID, AppID: uuid.New(), EnvironmentID: uuid.New()}

	stories := []models.Story{story("Login", 1)}

	f.runs.On("GetByID", mock.Anything, runID).Return(pendingRun(runID), nil)
	f.envs.On("GetByID", mock.Anything, req.EnvironmentID).Return(testEnv(), nil)
	f.stories.On("ListByApp", mock.Anything, req.AppID).Return(stories, nil)
	f.runs.On("MarkRunning", mock.Anything, runID, mock.Anything, 1).Return(nil)
	f.runs.On("GetStatus", mock.Anything, runID).Return(models.RunStatusRunning, nil)

	f.runner.On("Run", mock.Anything, stories[0], mock.Anything).
		Run(func(args mock.Arguments) { panic("browser crashed") }).
		Return(models.ExecutionResult{}, nil)

	var persisted *models.StoryResult
	f.results.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { persisted = args.Get(1).(*models.StoryResult) }).
		Return(nil)
	f.stories.On("UpdateLastRun", mock.Anything, stories[0].ID, mock.Anything, models.LastResultFailed).Return(nil)
	f.runs.On("UpdateCounts", mock.Anything, runID, 0, 1).Return(nil)
	f.runs.On("MarkCompleted", mock.Anything, runID, mock.Anything, mock.Anything, 0, 1).Return(nil)

	err := f.orch.Execute(context.Background(), req)

	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.False(t, persisted.Passed)
	assert.Contains(t, persisted.Error, "internal error")
}

func TestExecuteResolutionFaultPropagates(t *testing.T) {
	f := newFixture(t)
	runID := uuid.New()
	req := orchestrator.RunRequest{RunID: runID, AppID: uuid.New(), EnvironmentID: uuid.New()}

	f.runs.On("GetByID", mock.Anything, runID).Return(pendingRun(runID), nil)
	f.envs.On("GetByID", mock.Anything, req.EnvironmentID).Return(testEnv(), nil)
	f.stories.On("ListByApp", mock.Anything, req.AppID).Return(nil, errors.New("connection reset"))

	err := f.orch.Execute(context.Background(), req)

	assert.Error(t, err)
	f.runs.AssertNotCalled(t, "MarkRunning", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.runs.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecuteUnknownEnvironment(t *testing.T) {
	f := newFixture(t)
	runID := uuid.New()
	req := orchestrator.RunRequest{RunID: runID, EnvironmentID: uuid.New()}

	f.runs.On("GetByID", mock.Anything, runID).Return(pendingRun(runID), nil)
	f.envs.On("GetByID", mock.Anything, req.EnvironmentID).Return(nil, repository.ErrNotFound)

	err := f.orch.Execute(context.Background(), req)

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestExecuteTerminalRunSkipped(t *testing.T) {
	f := newFixture(t)
	runID := uuid.New()
	req := orchestrator.RunRequest{RunID: runID, EnvironmentID: uuid.New()}

	run := pendingRun(runID)
	run.Status = models.RunStatusCompleted
	f.runs.On("GetByID", mock.Anything, runID).Return(run, nil)

	err := f.orch.Execute(context.Background(), req)

	require.NoError(t, err)
	f.envs.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
