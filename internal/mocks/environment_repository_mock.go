package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"queuay-worker/internal/models"
	"queuay-worker/internal/repository"
)

// MockEnvironmentRepository is a mock type for the EnvironmentRepository type
type MockEnvironmentRepository struct {
	mock.Mock
}

func (_m *MockEnvironmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Environment, error) {
	ret := _m.Called(ctx, id)

	var r0 *models.Environment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Environment)
	}
	return r0, ret.Error(1)
}

// NewMockEnvironmentRepository creates a new instance of MockEnvironmentRepository and registers the testing interface on the mock.
func NewMockEnvironmentRepository(t interface {
	mock.TestingT
	Helper()
}) *MockEnvironmentRepository {
	m := &MockEnvironmentRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ repository.EnvironmentRepository = (*MockEnvironmentRepository)(nil)
