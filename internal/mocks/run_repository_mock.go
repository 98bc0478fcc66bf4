package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"queuay-worker/internal/models"
	"queuay-worker/internal/repository"
)

// MockRunRepository is a mock type for the RunRepository type
type MockRunRepository struct {
	mock.Mock
}

func (_m *MockRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Run, error) {
	ret := _m.Called(ctx, id)

	var r0 *models.Run
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Run)
	}
	return r0, ret.Error(1)
}

func (_m *MockRunRepository) GetStatus(ctx context.Context, id uuid.UUID) (models.RunStatus, error) {
	ret := _m.Called(ctx, id)

	var r0 models.RunStatus
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(models.RunStatus)
	}
	return r0, ret.Error(1)
}

func (_m *MockRunRepository) Create(ctx context.Context, run *models.Run) error {
	ret := _m.Called(ctx, run)
	return ret.Error(0)
}

func (_m *MockRunRepository) MarkRunning(ctx context.Context, id uuid.UUID, startedAt time.Time, total int) error {
	ret := _m.Called(ctx, id, startedAt, total)
	return ret.Error(0)
}

func (_m *MockRunRepository) UpdateCounts(ctx context.Context, id uuid.UUID, passed, failed int) error {
	ret := _m.Called(ctx, id, passed, failed)
	return ret.Error(0)
}

func (_m *MockRunRepository) MarkCompleted(ctx context.Context, id uuid.UUID, completedAt time.Time, durationMs int64, passed, failed int) error {
	ret := _m.Called(ctx, id, completedAt, durationMs, passed, failed)
	return ret.Error(0)
}

func (_m *MockRunRepository) MarkCompletedEmpty(ctx context.Context, id uuid.UUID, now time.Time) error {
	ret := _m.Called(ctx, id, now)
	return ret.Error(0)
}

func (_m *MockRunRepository) MarkFailed(ctx context.Context, id uuid.UUID, now time.Time) error {
	ret := _m.Called(ctx, id, now)
	return ret.Error(0)
}

// NewMockRunRepository creates a new instance of MockRunRepository and registers the testing interface on the mock.
func NewMockRunRepository(t interface {
	mock.TestingT
	Helper()
}) *MockRunRepository {
	m := &MockRunRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ repository.RunRepository = (*MockRunRepository)(nil)
