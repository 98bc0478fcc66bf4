package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"queuay-worker/internal/models"
	"queuay-worker/internal/orchestrator"
)

// MockStoryRunner is a mock type for the StoryRunner type
type MockStoryRunner struct {
	mock.Mock
}

func (_m *MockStoryRunner) Run(ctx context.Context, story models.Story, baseURL string) (models.ExecutionResult, error) {
	ret := _m.Called(ctx, story, baseURL)

	var r0 models.ExecutionResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(models.ExecutionResult)
	}
	return r0, ret.Error(1)
}

// NewMockStoryRunner creates a new instance of MockStoryRunner and registers the testing interface on the mock.
func NewMockStoryRunner(t interface {
	mock.TestingT
	Helper()
}) *MockStoryRunner {
	m := &MockStoryRunner{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ orchestrator.StoryRunner = (*MockStoryRunner)(nil)
