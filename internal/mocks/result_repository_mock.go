package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"queuay-worker/internal/models"
	"queuay-worker/internal/repository"
)

// MockResultRepository is a mock type for the ResultRepository type
type MockResultRepository struct {
	mock.Mock
}

func (_m *MockResultRepository) Create(ctx context.Context, result *models.StoryResult) error {
	ret := _m.Called(ctx, result)
	return ret.Error(0)
}

// NewMockResultRepository creates a new instance of MockResultRepository and registers the testing interface on the mock.
func NewMockResultRepository(t interface {
	mock.TestingT
	Helper()
}) *MockResultRepository {
	m := &MockResultRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ repository.ResultRepository = (*MockResultRepository)(nil)
