package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"queuay-worker/internal/messaging"
	"queuay-worker/internal/scheduler"
)

// MockRunEnqueuer is a mock type for the RunEnqueuer type
type MockRunEnqueuer struct {
	mock.Mock
}

func (_m *MockRunEnqueuer) EnqueueRun(ctx context.Context, payload messaging.RunTaskPayload) error {
	ret := _m.Called(ctx, payload)
	return ret.Error(0)
}

// NewMockRunEnqueuer creates a new instance of MockRunEnqueuer and registers the testing interface on the mock.
func NewMockRunEnqueuer(t interface {
	mock.TestingT
	Helper()
}) *MockRunEnqueuer {
	m := &MockRunEnqueuer{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ scheduler.RunEnqueuer = (*MockRunEnqueuer)(nil)
