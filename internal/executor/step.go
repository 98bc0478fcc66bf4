package executor

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"queuay-worker/internal/browser"
	"queuay-worker/internal/models"
)

// ActionKind is the resolved browser action for a step.
type ActionKind int

const (
	ActionUnknown ActionKind = iota
	ActionNavigate
	ActionClick
	ActionFill
	ActionSelect
	ActionCheck
	ActionUncheck
	ActionWait
	ActionScroll
	ActionHover
	ActionPress
	ActionFocus
)

const defaultWaitMillis = 1000

// ResolveAction maps a free-form action verb to a dispatch tag. Matching is
// case-insensitive substring matching with more specific verbs checked
// first, so "uncheck the box" resolves to uncheck rather than check.
func ResolveAction(action string) ActionKind {
	verb := strings.ToLower(action)

	switch {
	case strings.Contains(verb, "navigate"), strings.Contains(verb, "go to"):
		return ActionNavigate
	case strings.Contains(verb, "uncheck"):
		return ActionUncheck
	case strings.Contains(verb, "check"):
		return ActionCheck
	case strings.Contains(verb, "select"), strings.Contains(verb, "choose"):
		return ActionSelect
	case strings.Contains(verb, "click"), strings.Contains(verb, "tap"):
		return ActionClick
	// "press" must precede "enter": "press enter" is a key press, not a fill.
	case strings.Contains(verb, "press"):
		return ActionPress
	case strings.Contains(verb, "fill"), strings.Contains(verb, "type"), strings.Contains(verb, "enter"):
		return ActionFill
	case strings.Contains(verb, "wait"):
		return ActionWait
	case strings.Contains(verb, "scroll"):
		return ActionScroll
	case strings.Contains(verb, "hover"):
		return ActionHover
	case strings.Contains(verb, "focus"):
		return ActionFocus
	}
	return ActionUnknown
}

// StepExecutor performs one step against a session and records the outcome.
type StepExecutor struct {
	log *zap.Logger
}

func NewStepExecutor(log *zap.Logger) *StepExecutor {
	return &StepExecutor{log: log.Named("step")}
}

// Execute runs the step once and returns its result. baseURL resolves
// relative navigation targets. Failure is captured in the result, not
// returned; the session stays usable for a retry.
func (e *StepExecutor) Execute(ctx context.Context, sess browser.Session, index int, step models.Step, baseURL string) models.StepResult {
	start := time.Now()
	kind := ResolveAction(step.Action)
	err := e.perform(ctx, sess, kind, step, baseURL)

	// Most actions trigger page activity; give it a bounded chance to
	// settle. Failure to settle is not a step failure.
	if err == nil && kind != ActionWait {
		if settleErr := sess.WaitForNetworkIdle(ctx); settleErr != nil {
			e.log.Debug("network idle wait elapsed", zap.Int("step", index), zap.Error(settleErr))
		}
	}

	result := models.StepResult{
		Step:       index,
		Action:     step.Action,
		Passed:     err == nil,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}

// perform dispatches the resolved action. Target-based actions with no
// locator are skipped as passing no-ops rather than handing an empty
// selector to the driver.
func (e *StepExecutor) perform(ctx context.Context, sess browser.Session, kind ActionKind, step models.Step, baseURL string) error {
	switch kind {
	case ActionNavigate:
		target := step.Value
		if target == "" {
			target = step.Target()
		}
		return sess.Navigate(ctx, resolveURL(baseURL, target))
	case ActionClick:
		if target := step.Target(); target != "" {
			return sess.Click(ctx, target)
		}
		return nil
	case ActionFill:
		if target := step.Target(); target != "" {
			return sess.Fill(ctx, target, step.Value)
		}
		return nil
	case ActionSelect:
		if target := step.Target(); target != "" {
			return sess.SelectOption(ctx, target, step.Value)
		}
		return nil
	case ActionCheck:
		if target := step.Target(); target != "" {
			return sess.Check(ctx, target)
		}
		return nil
	case ActionUncheck:
		if target := step.Target(); target != "" {
			return sess.Uncheck(ctx, target)
		}
		return nil
	case ActionHover:
		if target := step.Target(); target != "" {
			return sess.Hover(ctx, target)
		}
		return nil
	case ActionFocus:
		if target := step.Target(); target != "" {
			return sess.Focus(ctx, target)
		}
		return nil
	case ActionPress:
		key := step.Value
		if key == "" {
			key = "Enter"
		}
		return sess.Press(ctx, key)
	case ActionWait:
		ms := defaultWaitMillis
		if parsed, err := strconv.Atoi(step.Value); err == nil {
			ms = parsed
		}
		return sess.WaitMillis(ctx, ms)
	case ActionScroll:
		if target := step.Target(); target != "" {
			return sess.ScrollIntoView(ctx, target)
		}
		return sess.ScrollBy(ctx, 500)
	case ActionUnknown:
		// Unrecognized verbs with a target degrade to a click; without one
		// there is nothing to do and the step passes vacuously.
		if target := step.Target(); target != "" {
			e.log.Warn("unknown action, defaulting to click", zap.String("action", step.Action))
			return sess.Click(ctx, target)
		}
		return nil
	}
	return nil
}

func resolveURL(baseURL, value string) string {
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return value
	}
	base := strings.TrimSuffix(baseURL, "/")
	if value == "" {
		return base
	}
	if !strings.HasPrefix(value, "/") {
		value = "/" + value
	}
	return base + value
}
