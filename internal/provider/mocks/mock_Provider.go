// Package mocks provides test doubles for the provider boundary.
package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"

	provider "github.com/justsurfingit/lead-scout/internal/provider"
)

// MockProvider is a mock type for the Provider interface.
type MockProvider struct {
	mock.Mock
}

// Name returns a fixed provider name.
func (_m *MockProvider) Name() string {
	return "mock"
}

// Generate provides a mock function with given fields: ctx, req
func (_m *MockProvider) Generate(ctx context.Context, req provider.Request) (*provider.Response, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for Generate")
	}

	var r0 *provider.Response
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, provider.Request) (*provider.Response, error)); ok {
		return rf(ctx, req)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*provider.Response)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// NewMockProvider creates a new instance of MockProvider and registers a
// cleanup that asserts the expectations.
func NewMockProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockProvider {
	m := &MockProvider{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
