package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"queuay-worker/internal/heal"
	"queuay-worker/internal/models"
)

// MockHealService is a mock type for the heal Service type
type MockHealService struct {
	mock.Mock
}

func (_m *MockHealService) ProposeHeal(ctx context.Context, fragment, errMsg, dom string, screenshotPNG []byte) (*models.HealProposal, error) {
	ret := _m.Called(ctx, fragment, errMsg, dom, screenshotPNG)

	var r0 *models.HealProposal
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.HealProposal)
	}
	return r0, ret.Error(1)
}

func (_m *MockHealService) InspectScreenshot(ctx context.Context, screenshotPNG []byte, expectation string, consoleErrors []string) (*heal.InspectionResult, error) {
	ret := _m.Called(ctx, screenshotPNG, expectation, consoleErrors)

	var r0 *heal.InspectionResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*heal.InspectionResult)
	}
	return r0, ret.Error(1)
}

// NewMockHealService creates a new instance of MockHealService and registers the testing interface on the mock.
func NewMockHealService(t interface {
	mock.TestingT
	Helper()
}) *MockHealService {
	m := &MockHealService{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ heal.Service = (*MockHealService)(nil)
