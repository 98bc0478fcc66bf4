package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"queuay-worker/internal/browser"
)

// MockDriver is a mock type for the browser Driver type
type MockDriver struct {
	mock.Mock
}

func (_m *MockDriver) NewSession(ctx context.Context) (browser.Session, error) {
	ret := _m.Called(ctx)

	var r0 browser.Session
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(browser.Session)
	}
	return r0, ret.Error(1)
}

func (_m *MockDriver) Shutdown() error {
	ret := _m.Called()
	return ret.Error(0)
}

// NewMockDriver creates a new instance of MockDriver and registers the testing interface on the mock.
func NewMockDriver(t interface {
	mock.TestingT
	Helper()
}) *MockDriver {
	m := &MockDriver{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ browser.Driver = (*MockDriver)(nil)
