package heal

import (
	"strings"

	"queuay-worker/internal/models"
)

// AutoApplyThreshold is the minimum confidence for a proposal to be marked
// eligible for automatic application. Anything below stays advisory.
const AutoApplyThreshold = 0.8

// Classify buckets an error message into a heal category using keyword
// heuristics. Returns HealCategoryNone when nothing matches.
func Classify(errMsg string) models.HealCategory {
	lower := strings.ToLower(errMsg)

	switch {
	case strings.Contains(lower, "locator"),
		strings.Contains(lower, "selector"),
		strings.Contains(lower, "element"),
		strings.Contains(lower, "strict mode violation"),
		strings.Contains(lower, "waiting for"):
		return models.HealCategorySelector

	case strings.Contains(lower, "navigation"),
		strings.Contains(lower, "page closed"),
		strings.Contains(lower, "target closed"),
		strings.Contains(lower, "context"):
		return models.HealCategoryFlow

	case strings.Contains(lower, "assertion"),
		strings.Contains(lower, "expect"),
		strings.Contains(lower, "match"),
		strings.Contains(lower, "equal"):
		return models.HealCategoryContent
	}

	return models.HealCategoryNone
}

// AutoApplicable reports whether the confidence clears the auto-apply gate.
func AutoApplicable(confidence float64) bool {
	return confidence >= AutoApplyThreshold
}
