package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"queuay-worker/internal/orchestrator"
)

// MockProgressPublisher is a mock type for the ProgressPublisher type
type MockProgressPublisher struct {
	mock.Mock
}

func (_m *MockProgressPublisher) Publish(ctx context.Context, runID uuid.UUID, p orchestrator.Progress) error {
	ret := _m.Called(ctx, runID, p)
	return ret.Error(0)
}

// NewMockProgressPublisher creates a new instance of MockProgressPublisher and registers the testing interface on the mock.
func NewMockProgressPublisher(t interface {
	mock.TestingT
	Helper()
}) *MockProgressPublisher {
	m := &MockProgressPublisher{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ orchestrator.ProgressPublisher = (*MockProgressPublisher)(nil)
