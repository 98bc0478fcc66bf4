package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"queuay-worker/internal/models"
	"queuay-worker/internal/repository"
)

// MockScheduleRepository is a mock type for the ScheduleRepository type
type MockScheduleRepository struct {
	mock.Mock
}

func (_m *MockScheduleRepository) ListDue(ctx context.Context, now time.Time) ([]models.ScheduledJob, error) {
	ret := _m.Called(ctx, now)

	var r0 []models.ScheduledJob
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.ScheduledJob)
	}
	return r0, ret.Error(1)
}

func (_m *MockScheduleRepository) MarkTriggered(ctx context.Context, id uuid.UUID, lastRunAt, nextRunAt time.Time) error {
	ret := _m.Called(ctx, id, lastRunAt, nextRunAt)
	return ret.Error(0)
}

// NewMockScheduleRepository creates a new instance of MockScheduleRepository and registers the testing interface on the mock.
func NewMockScheduleRepository(t interface {
	mock.TestingT
	Helper()
}) *MockScheduleRepository {
	m := &MockScheduleRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ repository.ScheduleRepository = (*MockScheduleRepository)(nil)
