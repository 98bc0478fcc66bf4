package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"queuay-worker/internal/models"
	"queuay-worker/internal/repository"
)

// RunRequest identifies the run to execute and its story selection. Exactly
// one selector applies: explicit story IDs win over journey IDs, and an
// empty request means every enabled story of the app.
type RunRequest struct {
	RunID          uuid.UUID
	OrganizationID uuid.UUID
	AppID          uuid.UUID
	EnvironmentID  uuid.UUID
	StoryIDs       []uuid.UUID
	JourneyIDs     []uuid.UUID
}

// StoryRunner executes one story against a base URL.
type StoryRunner interface {
	Run(ctx context.Context, story models.Story, baseURL string) (models.ExecutionResult, error)
}

// ProgressPublisher emits progress snapshots for dashboards. Best effort:
// publish failures are logged, never propagated.
type ProgressPublisher interface {
	Publish(ctx context.Context, runID uuid.UUID, p Progress) error
}

// Progress is one run-progress snapshot.
type Progress struct {
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Passed    int    `json:"passed"`
	Failed    int    `json:"failed"`
	Current   string `json:"current,omitempty"`
}

// Orchestrator drives one run end to end: resolve the story set, execute
// each story sequentially, persist results and counters, finalize the run.
type Orchestrator struct {
	runs         repository.RunRepository
	stories      repository.StoryRepository
	results      repository.ResultRepository
	environments repository.EnvironmentRepository
	runner       StoryRunner
	progress     ProgressPublisher
	log          *zap.Logger
}

// New wires the orchestrator. progress may be nil.
func New(
	runs repository.RunRepository,
	stories repository.StoryRepository,
	results repository.ResultRepository,
	environments repository.EnvironmentRepository,
	runner StoryRunner,
	progress ProgressPublisher,
	log *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		runs:         runs,
		stories:      stories,
		results:      results,
		environments: environments,
		runner:       runner,
		progress:     progress,
		log:          log.Named("orchestrator"),
	}
}

// Execute processes the run. Returns an error only for faults before
// execution starts (run/environment lookup, story resolution); the caller
// marks the run failed in that case. Once execution starts, the
// orchestrator owns the run's terminal state.
func (o *Orchestrator) Execute(ctx context.Context, req RunRequest) error {
	log := o.log.With(zap.String("run_id", req.RunID.String()))

	run, err := o.runs.GetByID(ctx, req.RunID)
	if err != nil {
		return fmt.Errorf("failed to load run: %w", err)
	}
	if run.Status.Terminal() {
		log.Warn("run already terminal, skipping", zap.String("status", string(run.Status)))
		return nil
	}

	env, err := o.environments.GetByID(ctx, req.EnvironmentID)
	if err != nil {
		return fmt.Errorf("failed to load environment: %w", err)
	}

	stories, err := o.resolveStories(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to resolve stories: %w", err)
	}

	now := time.Now()
	if len(stories) == 0 {
		log.Info("no stories to run, completing immediately")
		return o.runs.MarkCompletedEmpty(ctx, req.RunID, now)
	}

	if err := o.runs.MarkRunning(ctx, req.RunID, now, len(stories)); err != nil {
		return fmt.Errorf("failed to mark run running: %w", err)
	}

	log.Info("run started",
		zap.Int("stories", len(stories)),
		zap.String("environment", env.Name))

	start := time.Now()
	passed, failed := 0, 0

	for i, story := range stories {
		status, err := o.runs.GetStatus(ctx, req.RunID)
		if err != nil {
			log.Warn("failed to check run status, continuing", zap.Error(err))
		} else if status == models.RunStatusCancelled {
			log.Info("run cancelled, stopping",
				zap.Int("completed", i), zap.Int("total", len(stories)))
			return nil
		}

		o.publishProgress(ctx, req.RunID, Progress{
			Total:     len(stories),
			Completed: i,
			Passed:    passed,
			Failed:    failed,
			Current:   story.Title,
		})

		result := o.runStorySafe(ctx, story, env.BaseURL)
		if result.Passed {
			passed++
		} else {
			failed++
		}

		o.persistResult(ctx, req.RunID, story, result, log)

		if err := o.runs.UpdateCounts(ctx, req.RunID, passed, failed); err != nil {
			log.Warn("failed to update run counters", zap.Error(err))
		}
	}

	durationMs := time.Since(start).Milliseconds()
	if err := o.runs.MarkCompleted(ctx, req.RunID, time.Now(), durationMs, passed, failed); err != nil {
		return fmt.Errorf("failed to finalize run: %w", err)
	}

	o.publishProgress(ctx, req.RunID, Progress{
		Total:     len(stories),
		Completed: len(stories),
		Passed:    passed,
		Failed:    failed,
	})

	log.Info("run completed",
		zap.Int("passed", passed),
		zap.Int("failed", failed),
		zap.Int64("duration_ms", durationMs))
	return nil
}

// resolveStories applies the selection precedence: story IDs, then journey
// IDs, then every enabled story of the app.
func (o *Orchestrator) resolveStories(ctx context.Context, req RunRequest) ([]models.Story, error) {
	switch {
	case len(req.StoryIDs) > 0:
		return o.stories.ListByIDs(ctx, req.StoryIDs)
	case len(req.JourneyIDs) > 0:
		return o.stories.ListByJourneys(ctx, req.JourneyIDs)
	default:
		return o.stories.ListByApp(ctx, req.AppID)
	}
}

// runStorySafe isolates one story execution: runner errors and panics become
// a failed result instead of aborting the run.
func (o *Orchestrator) runStorySafe(ctx context.Context, story models.Story, baseURL string) (result models.ExecutionResult) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Error("story execution panicked",
				zap.String("story_id", story.ID.String()),
				zap.Any("panic", r))
			result = models.ExecutionResult{
				Passed: false,
				Error:  fmt.Sprintf("internal error: %v", r),
			}
		}
	}()

	result, err := o.runner.Run(ctx, story, baseURL)
	if err != nil {
		o.log.Error("story execution failed to start",
			zap.String("story_id", story.ID.String()), zap.Error(err))
		result = models.ExecutionResult{
			Passed: false,
			Error:  "execution error: " + err.Error(),
		}
	}
	return result
}

// persistResult writes the story result row and last-run bookkeeping. Both
// are logged on failure; a good execution result is never discarded because
// persistence hiccuped.
func (o *Orchestrator) persistResult(ctx context.Context, runID uuid.UUID, story models.Story, result models.ExecutionResult, log *zap.Logger) {
	record := &models.StoryResult{
		ID:            uuid.New(),
		RunID:         runID,
		StoryID:       story.ID,
		JourneyName:   story.JourneyName,
		StoryName:     story.Title,
		Passed:        result.Passed,
		DurationMs:    result.DurationMs,
		Steps:         result.Steps,
		Error:         result.Error,
		ScreenshotURL: result.ScreenshotURL,
		ConsoleErrors: result.ConsoleErrors,
		HealProposal:  result.HealProposal,
		Retries:       result.Retries,
		CreatedAt:     time.Now(),
	}
	if err := o.results.Create(ctx, record); err != nil {
		log.Error("failed to persist story result",
			zap.String("story_id", story.ID.String()), zap.Error(err))
	}

	lastResult := models.LastResultPassed
	if !result.Passed {
		lastResult = models.LastResultFailed
	}
	if err := o.stories.UpdateLastRun(ctx, story.ID, time.Now(), lastResult); err != nil {
		log.Warn("failed to update story last run",
			zap.String("story_id", story.ID.String()), zap.Error(err))
	}
}

func (o *Orchestrator) publishProgress(ctx context.Context, runID uuid.UUID, p Progress) {
	if o.progress == nil {
		return
	}
	if err := o.progress.Publish(ctx, runID, p); err != nil {
		o.log.Debug("failed to publish progress", zap.Error(err))
	}
}
