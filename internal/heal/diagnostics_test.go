package heal_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"queuay-worker/internal/heal"
	"queuay-worker/internal/mocks"
	"queuay-worker/internal/models"
)

func TestDiagnoseNoService(t *testing.T) {
	d := heal.NewDiagnostics(nil, zap.NewNop())

	proposal := d.Diagnose(context.Background(), `{"action":"click"}`, "locator not found", "<html></html>", nil)
	assert.Nil(t, proposal)
}

func TestDiagnoseUnhealableCategory(t *testing.T) {
	service := mocks.NewMockHealService(t)
	d := heal.NewDiagnostics(service, zap.NewNop())

	proposal := d.Diagnose(context.Background(), `{"action":"click"}`, "connection refused", "", nil)

	assert.Nil(t, proposal)
	service.AssertNotCalled(t, "ProposeHeal", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDiagnoseSetsAutoApply(t *testing.T) {
	service := mocks.NewMockHealService(t)
	service.On("ProposeHeal", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&models.HealProposal{
			Category:   models.HealCategorySelector,
			Proposed:   "#submit-button",
			Confidence: 0.92,
		}, nil)

	d := heal.NewDiagnostics(service, zap.NewNop())
	proposal := d.Diagnose(context.Background(), `{"action":"click"}`, "locator resolved to 0 elements", "<html></html>", nil)

	assert.NotNil(t, proposal)
	assert.True(t, proposal.AutoApply)
}

func TestDiagnoseLowConfidenceStaysAdvisory(t *testing.T) {
	service := mocks.NewMockHealService(t)
	service.On("ProposeHeal", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&models.HealProposal{
			Category:   models.HealCategorySelector,
			Proposed:   "#maybe",
			Confidence: 0.4,
		}, nil)

	d := heal.NewDiagnostics(service, zap.NewNop())
	proposal := d.Diagnose(context.Background(), `{"action":"click"}`, "waiting for selector", "", nil)

	assert.NotNil(t, proposal)
	assert.False(t, proposal.AutoApply)
}

func TestDiagnoseServiceErrorDegrades(t *testing.T) {
	service := mocks.NewMockHealService(t)
	service.On("ProposeHeal", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("rate limited"))

	d := heal.NewDiagnostics(service, zap.NewNop())
	proposal := d.Diagnose(context.Background(), `{"action":"fill"}`, "element not visible", "", nil)

	assert.Nil(t, proposal)
}

func TestDiagnoseFillsMissingCategory(t *testing.T) {
	service := mocks.NewMockHealService(t)
	service.On("ProposeHeal", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&models.HealProposal{Proposed: "#fixed", Confidence: 0.85}, nil)

	d := heal.NewDiagnostics(service, zap.NewNop())
	proposal := d.Diagnose(context.Background(), `{"action":"click"}`, "selector did not match", "", nil)

	assert.NotNil(t, proposal)
	assert.Equal(t, models.HealCategorySelector, proposal.Category)
}
