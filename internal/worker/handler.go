package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"queuay-worker/internal/messaging"
	"queuay-worker/internal/orchestrator"
	"queuay-worker/internal/repository"
)

// RunOrchestrator executes a run request. Implemented by the orchestrator.
type RunOrchestrator interface {
	Execute(ctx context.Context, req orchestrator.RunRequest) error
}

// Handler adapts queue payloads into orchestrator requests and owns the
// failure bookkeeping the orchestrator leaves to its caller.
type Handler struct {
	orchestrator RunOrchestrator
	runs         repository.RunRepository
	log          *zap.Logger
}

func NewHandler(orch RunOrchestrator, runs repository.RunRepository, log *zap.Logger) *Handler {
	return &Handler{orchestrator: orch, runs: runs, log: log.Named("handler")}
}

// HandleRun processes one run task. When the orchestrator faults before
// execution starts, the run is marked failed here so it never sticks in
// pending. The original error is returned so the message dead-letters.
func (h *Handler) HandleRun(ctx context.Context, payload messaging.RunTaskPayload) error {
	runsReceived.Inc()
	start := time.Now()

	req := orchestrator.RunRequest{
		RunID:          payload.TestRunID,
		OrganizationID: payload.OrganizationID,
		AppID:          payload.AppID,
		EnvironmentID:  payload.EnvironmentID,
		StoryIDs:       payload.StoryIDs,
		JourneyIDs:     payload.JourneyIDs,
	}

	err := h.orchestrator.Execute(ctx, req)
	runDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		runsFailed.WithLabelValues("orchestration").Inc()
		if markErr := h.runs.MarkFailed(ctx, payload.TestRunID, time.Now()); markErr != nil {
			h.log.Error("failed to mark run failed",
				zap.String("run_id", payload.TestRunID.String()), zap.Error(markErr))
		}
		return err
	}

	runsSucceeded.Inc()
	return nil
}
