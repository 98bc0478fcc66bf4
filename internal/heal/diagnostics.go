package heal

import (
	"context"

	"go.uber.org/zap"

	"queuay-worker/internal/models"
)

// Diagnostics turns step failures into optional heal proposals. It never
// returns an error: AI trouble downgrades to "no proposal" so a run's
// outcome depends only on the browser, not the diagnostic path.
type Diagnostics struct {
	service Service
	log     *zap.Logger
}

// NewDiagnostics wraps a heal service. A nil service disables proposals.
func NewDiagnostics(service Service, log *zap.Logger) *Diagnostics {
	return &Diagnostics{service: service, log: log.Named("diagnostics")}
}

// Diagnose classifies the failure and, when the category is healable and a
// service is configured, asks for a proposal. The returned proposal carries
// the AutoApply flag when confidence clears the threshold; nothing is ever
// mutated here.
func (d *Diagnostics) Diagnose(ctx context.Context, fragment, errMsg, dom string, screenshotPNG []byte) *models.HealProposal {
	category := Classify(errMsg)
	if category == models.HealCategoryNone || d.service == nil {
		return nil
	}

	proposal, err := d.service.ProposeHeal(ctx, fragment, errMsg, dom, screenshotPNG)
	if err != nil {
		d.log.Warn("heal proposal failed", zap.Error(err))
		return nil
	}
	if proposal == nil {
		return nil
	}

	if proposal.Category == "" {
		proposal.Category = category
	}
	proposal.AutoApply = AutoApplicable(proposal.Confidence)
	return proposal
}
