package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"queuay-worker/internal/models"
	"queuay-worker/internal/repository"
)

// MockStoryRepository is a mock type for the StoryRepository type
type MockStoryRepository struct {
	mock.Mock
}

func (_m *MockStoryRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Story, error) {
	ret := _m.Called(ctx, ids)

	var r0 []models.Story
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.Story)
	}
	return r0, ret.Error(1)
}

func (_m *MockStoryRepository) ListByJourneys(ctx context.Context, journeyIDs []uuid.UUID) ([]models.Story, error) {
	ret := _m.Called(ctx, journeyIDs)

	var r0 []models.Story
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.Story)
	}
	return r0, ret.Error(1)
}

func (_m *MockStoryRepository) ListByApp(ctx context.Context, appID uuid.UUID) ([]models.Story, error) {
	ret := _m.Called(ctx, appID)

	var r0 []models.Story
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.Story)
	}
	return r0, ret.Error(1)
}

func (_m *MockStoryRepository) UpdateLastRun(ctx context.Context, id uuid.UUID, at time.Time, result string) error {
	ret := _m.Called(ctx, id, at, result)
	return ret.Error(0)
}

// NewMockStoryRepository creates a new instance of MockStoryRepository and registers the testing interface on the mock.
func NewMockStoryRepository(t interface {
	mock.TestingT
	Helper()
}) *MockStoryRepository {
	m := &MockStoryRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ repository.StoryRepository = (*MockStoryRepository)(nil)
