package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"queuay-worker/internal/browser"
)

// MockSession is a mock type for the browser Session type
type MockSession struct {
	mock.Mock
}

func (_m *MockSession) Navigate(ctx context.Context, url string) error {
	ret := _m.Called(ctx, url)
	return ret.Error(0)
}

func (_m *MockSession) Click(ctx context.Context, selector string) error {
	ret := _m.Called(ctx, selector)
	return ret.Error(0)
}

func (_m *MockSession) Fill(ctx context.Context, selector, value string) error {
	ret := _m.Called(ctx, selector, value)
	return ret.Error(0)
}

func (_m *MockSession) SelectOption(ctx context.Context, selector, value string) error {
	ret := _m.Called(ctx, selector, value)
	return ret.Error(0)
}

func (_m *MockSession) Check(ctx context.Context, selector string) error {
	ret := _m.Called(ctx, selector)
	return ret.Error(0)
}

func (_m *MockSession) Uncheck(ctx context.Context, selector string) error {
	ret := _m.Called(ctx, selector)
	return ret.Error(0)
}

func (_m *MockSession) Hover(ctx context.Context, selector string) error {
	ret := _m.Called(ctx, selector)
	return ret.Error(0)
}

func (_m *MockSession) Focus(ctx context.Context, selector string) error {
	ret := _m.Called(ctx, selector)
	return ret.Error(0)
}

func (_m *MockSession) Press(ctx context.Context, key string) error {
	ret := _m.Called(ctx, key)
	return ret.Error(0)
}

func (_m *MockSession) ScrollIntoView(ctx context.Context, selector string) error {
	ret := _m.Called(ctx, selector)
	return ret.Error(0)
}

func (_m *MockSession) ScrollBy(ctx context.Context, pixels int) error {
	ret := _m.Called(ctx, pixels)
	return ret.Error(0)
}

func (_m *MockSession) WaitMillis(ctx context.Context, ms int) error {
	ret := _m.Called(ctx, ms)
	return ret.Error(0)
}

func (_m *MockSession) WaitForNetworkIdle(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

func (_m *MockSession) URL() string {
	ret := _m.Called()
	return ret.String(0)
}

func (_m *MockSession) IsVisible(ctx context.Context, selector string) (bool, error) {
	ret := _m.Called(ctx, selector)
	return ret.Bool(0), ret.Error(1)
}

func (_m *MockSession) Content(ctx context.Context) (string, error) {
	ret := _m.Called(ctx)
	return ret.String(0), ret.Error(1)
}

func (_m *MockSession) Screenshot(ctx context.Context) ([]byte, error) {
	ret := _m.Called(ctx)

	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}
	return r0, ret.Error(1)
}

func (_m *MockSession) ConsoleErrors() []string {
	ret := _m.Called()

	var r0 []string
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]string)
	}
	return r0
}

func (_m *MockSession) Close() error {
	ret := _m.Called()
	return ret.Error(0)
}

// NewMockSession creates a new instance of MockSession and registers the testing interface on the mock.
func NewMockSession(t interface {
	mock.TestingT
	Helper()
}) *MockSession {
	m := &MockSession{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ browser.Session = (*MockSession)(nil)
