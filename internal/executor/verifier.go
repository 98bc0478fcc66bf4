package executor

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"queuay-worker/internal/browser"
	"queuay-worker/internal/heal"
	"queuay-worker/internal/models"
)

// ScreenshotInspector evaluates a visual expectation against a screenshot.
// Satisfied by the heal service.
type ScreenshotInspector interface {
	InspectScreenshot(ctx context.Context, screenshotPNG []byte, expectation string, consoleErrors []string) (*heal.InspectionResult, error)
}

// Verifier evaluates a story's declared outcome after all steps passed.
// Checks run in declaration order and stop at the first failure.
type Verifier struct {
	inspector ScreenshotInspector
	log       *zap.Logger
}

// NewVerifier creates a verifier. inspector may be nil, in which case visual
// and other inspector-backed verifications are skipped with a warning
// instead of failing.
func NewVerifier(inspector ScreenshotInspector, log *zap.Logger) *Verifier {
	return &Verifier{inspector: inspector, log: log.Named("verifier")}
}

// Verify runs the outcome's verifications. Returns nil when every check
// holds, or an error describing the first failed check.
func (v *Verifier) Verify(ctx context.Context, sess browser.Session, outcome models.Outcome) error {
	for i, check := range outcome.Verifications {
		if err := v.verifyOne(ctx, sess, check); err != nil {
			return fmt.Errorf("verification %d (%s) failed: %w", i+1, check.Type, err)
		}
	}
	return nil
}

func (v *Verifier) verifyOne(ctx context.Context, sess browser.Session, check models.Verification) error {
	switch check.Type {
	case models.VerificationURL:
		current := sess.URL()
		if !strings.Contains(current, check.Expected) {
			return fmt.Errorf("url %q does not contain %q", current, check.Expected)
		}
		return nil

	case models.VerificationElement:
		target := check.Target
		if target == "" {
			target = check.Expected
		}
		visible, err := sess.IsVisible(ctx, target)
		if err != nil {
			return fmt.Errorf("element %q not found", target)
		}
		if !visible {
			return fmt.Errorf("element %q not visible", target)
		}
		return nil

	case models.VerificationContent:
		visible, err := sess.IsVisible(ctx, fmt.Sprintf("text=%s", check.Expected))
		if err != nil || !visible {
			return fmt.Errorf("content %q not found on page", check.Expected)
		}
		return nil

	default:
		// Visual and any future verification kinds go through the
		// screenshot inspector; without one they are skipped as an
		// unsupported check, never failed and never silently passed.
		return v.inspect(ctx, sess, check)
	}
}

func (v *Verifier) inspect(ctx context.Context, sess browser.Session, check models.Verification) error {
	if v.inspector == nil {
		v.log.Warn("verification kind unsupported without inspector, skipping",
			zap.String("type", string(check.Type)),
			zap.String("expected", check.Expected))
		return nil
	}
	shot, err := sess.Screenshot(ctx)
	if err != nil {
		return fmt.Errorf("screenshot for visual check failed: %w", err)
	}
	result, err := v.inspector.InspectScreenshot(ctx, shot, check.Expected, sess.ConsoleErrors())
	if err != nil {
		v.log.Warn("visual inspection unavailable, skipping check", zap.Error(err))
		return nil
	}
	if !result.Passed {
		return fmt.Errorf("visual check failed: %s", result.Observation)
	}
	return nil
}
