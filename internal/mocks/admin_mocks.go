package mocks

import (
	"context"

	"cyoa-server/internal/handler"
	"cyoa-server/internal/prompt"
	"cyoa-server/shared/models"

	"github.com/stretchr/testify/mock"
)

// MockTemplateAdmin is a mock type for the TemplateAdmin type
type MockTemplateAdmin struct {
	mock.Mock
}

// List provides a mock function with given fields: ctx
func (_m *MockTemplateAdmin) List(ctx context.Context) ([]prompt.TemplateView, error) {
	ret := _m.Called(ctx)

	var r0 []prompt.TemplateView
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]prompt.TemplateView)
	}
	return r0, ret.Error(1)
}

// Create provides a mock function with given fields: ctx, tpl
func (_m *MockTemplateAdmin) Create(ctx context.Context, tpl models.Template) (*prompt.TemplateView, error) {
	ret := _m.Called(ctx, tpl)

	var r0 *prompt.TemplateView
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*prompt.TemplateView)
	}
	return r0, ret.Error(1)
}

// Update provides a mock function with given fields: ctx, key, patch
func (_m *MockTemplateAdmin) Update(ctx context.Context, key string, patch models.Template) (*prompt.TemplateView, error) {
	ret := _m.Called(ctx, key, patch)

	var r0 *prompt.TemplateView
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*prompt.TemplateView)
	}
	return r0, ret.Error(1)
}

// Delete provides a mock function with given fields: ctx, key
func (_m *MockTemplateAdmin) Delete(ctx context.Context, key string) error {
	ret := _m.Called(ctx, key)
	return ret.Error(0)
}

// NewMockTemplateAdmin creates a new instance of MockTemplateAdmin. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockTemplateAdmin(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTemplateAdmin {
	m := &MockTemplateAdmin{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockParameterAdmin is a mock type for the ParameterAdmin type
type MockParameterAdmin struct {
	mock.Mock
}

// Snapshot provides a mock function with given fields: ctx
func (_m *MockParameterAdmin) Snapshot(ctx context.Context) (map[string]string, error) {
	ret := _m.Called(ctx)

	var r0 map[string]string
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(map[string]string)
	}
	return r0, ret.Error(1)
}

// Set provides a mock function with given fields: ctx, values
func (_m *MockParameterAdmin) Set(ctx context.Context, values map[string]any) (map[string]string, error) {
	ret := _m.Called(ctx, values)

	var r0 map[string]string
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(map[string]string)
	}
	return r0, ret.Error(1)
}

// NewMockParameterAdmin creates a new instance of MockParameterAdmin. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockParameterAdmin(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockParameterAdmin {
	m := &MockParameterAdmin{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var (
	_ handler.TemplateAdmin  = (*MockTemplateAdmin)(nil)
	_ handler.ParameterAdmin = (*MockParameterAdmin)(nil)
)
