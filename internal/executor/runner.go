package executor

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"queuay-worker/internal/browser"
	"queuay-worker/internal/models"
	"queuay-worker/internal/screenshot"
)

// Diagnoser produces an optional heal proposal for a failed story. A nil
// return means no proposal; the diagnoser never fails the run.
type Diagnoser interface {
	Diagnose(ctx context.Context, fragment, errMsg, dom string, screenshotPNG []byte) *models.HealProposal
}

// Options tunes story execution.
type Options struct {
	// RetryCount is the number of retries per step after the first attempt,
	// so each step gets RetryCount+1 attempts.
	RetryCount int
	// RetryBackoff is the fixed delay between attempts of the same step.
	RetryBackoff time.Duration
	// ScreenshotOnFailure captures one screenshot per failing story.
	ScreenshotOnFailure bool
}

// StoryRunner executes one story in a fresh browser session and assembles
// the execution result with diagnostics.
type StoryRunner struct {
	driver      browser.Driver
	steps       *StepExecutor
	verifier    *Verifier
	diagnostics Diagnoser
	screenshots screenshot.Store
	opts        Options
	log         *zap.Logger
}

// NewStoryRunner wires the runner. diagnostics and screenshots may be nil to
// disable healing and screenshot capture respectively.
func NewStoryRunner(
	driver browser.Driver,
	steps *StepExecutor,
	verifier *Verifier,
	diagnostics Diagnoser,
	screenshots screenshot.Store,
	opts Options,
	log *zap.Logger,
) *StoryRunner {
	return &StoryRunner{
		driver:      driver,
		steps:       steps,
		verifier:    verifier,
		diagnostics: diagnostics,
		screenshots: screenshots,
		opts:        opts,
		log:         log.Named("runner"),
	}
}

// Run executes the story start to finish: open a session, navigate to the
// environment's base URL, run each step with retries, verify the declared
// outcome, and capture diagnostics on failure. An error is returned only for
// infrastructure faults that prevent execution at all (no session); step and
// verification failures are reported inside the result.
func (r *StoryRunner) Run(ctx context.Context, story models.Story, baseURL string) (models.ExecutionResult, error) {
	start := time.Now()
	result := models.ExecutionResult{Steps: make([]models.StepResult, 0, len(story.Steps))}

	sess, err := r.driver.NewSession(ctx)
	if err != nil {
		return result, err
	}
	defer func() {
		if closeErr := sess.Close(); closeErr != nil {
			r.log.Warn("failed to close browser session",
				zap.String("story_id", story.ID.String()), zap.Error(closeErr))
		}
	}()

	if err := sess.Navigate(ctx, baseURL); err != nil {
		result.Error = "failed to load " + baseURL + ": " + err.Error()
		r.captureDiagnostics(ctx, sess, story.ID, &result, models.Step{Action: "navigate", Value: baseURL}, result.Error)
		result.ConsoleErrors = sess.ConsoleErrors()
		result.DurationMs = time.Since(start).Milliseconds()
		return result, nil
	}

	failed := false
	for i, step := range story.Steps {
		stepResult := r.runStepWithRetries(ctx, sess, i+1, step, baseURL, &result.Retries)
		result.Steps = append(result.Steps, stepResult)

		if !stepResult.Passed {
			failed = true
			result.Error = stepResult.Error
			r.captureDiagnostics(ctx, sess, story.ID, &result, step, stepResult.Error)
			break
		}
	}

	if !failed {
		if err := r.verifier.Verify(ctx, sess, story.Outcome); err != nil {
			failed = true
			result.Error = err.Error()
			r.captureDiagnostics(ctx, sess, story.ID, &result, models.Step{Action: "verify outcome"}, err.Error())
		}
	}

	result.Passed = !failed
	result.ConsoleErrors = sess.ConsoleErrors()
	result.DurationMs = time.Since(start).Milliseconds()
	return result, nil
}

// runStepWithRetries attempts the step up to RetryCount+1 times, counting
// every failed attempt in the shared retries counter. Only the final attempt
// is reported.
func (r *StoryRunner) runStepWithRetries(ctx context.Context, sess browser.Session, index int, step models.Step, baseURL string, retries *int) models.StepResult {
	var last models.StepResult
	attempts := r.opts.RetryCount + 1

	for attempt := 1; attempt <= attempts; attempt++ {
		last = r.steps.Execute(ctx, sess, index, step, baseURL)
		if last.Passed {
			return last
		}

		*retries++
		r.log.Debug("step attempt failed",
			zap.Int("step", index),
			zap.Int("attempt", attempt),
			zap.String("error", last.Error))

		if attempt < attempts {
			select {
			case <-ctx.Done():
				return last
			case <-time.After(r.opts.RetryBackoff):
			}
		}
	}
	return last
}

// captureDiagnostics takes the failure screenshot and asks for a heal
// proposal. Both are best effort: their failure never changes the outcome.
func (r *StoryRunner) captureDiagnostics(ctx context.Context, sess browser.Session, storyID uuid.UUID, result *models.ExecutionResult, step models.Step, errMsg string) {
	var shot []byte
	if r.opts.ScreenshotOnFailure {
		data, err := sess.Screenshot(ctx)
		if err != nil {
			r.log.Warn("failure screenshot capture failed", zap.Error(err))
		} else {
			shot = data
		}
	}

	if shot != nil && r.screenshots != nil {
		url, err := r.screenshots.Save(ctx, storyID, shot)
		if err != nil {
			r.log.Warn("failure screenshot save failed", zap.Error(err))
		} else {
			result.ScreenshotURL = url
		}
	}

	if r.diagnostics != nil {
		fragment, _ := json.Marshal(step)
		dom, err := sess.Content(ctx)
		if err != nil {
			dom = ""
		}
		result.HealProposal = r.diagnostics.Diagnose(ctx, string(fragment), errMsg, dom, shot)
	}
}
