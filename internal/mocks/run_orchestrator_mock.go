package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"queuay-worker/internal/orchestrator"
	"queuay-worker/internal/worker"
)

// MockRunOrchestrator is a mock type for the RunOrchestrator type
type MockRunOrchestrator struct {
	mock.Mock
}

func (_m *MockRunOrchestrator) Execute(ctx context.Context, req orchestrator.RunRequest) error {
	ret := _m.Called(ctx, req)
	return ret.Error(0)
}

// NewMockRunOrchestrator creates a new instance of MockRunOrchestrator and registers the testing interface on the mock.
func NewMockRunOrchestrator(t interface {
	mock.TestingT
	Helper()
}) *MockRunOrchestrator {
	m := &MockRunOrchestrator{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ worker.RunOrchestrator = (*MockRunOrchestrator)(nil)
