package mocks

import (
	"context"

	"cyoa-server/shared/interfaces"
	"cyoa-server/shared/models"

	"github.com/stretchr/testify/mock"
)

// MockTemplateRepository is a mock type for the TemplateRepository type
type MockTemplateRepository struct {
	mock.Mock
}

// Get provides a mock function with given fields: ctx, key
func (_m *MockTemplateRepository) Get(ctx context.Context, key string) (*models.Template, error) {
	ret := _m.Called(ctx, key)

	var r0 *models.Template
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Template)
	}

	return r0, ret.Error(1)
}

// List provides a mock function with given fields: ctx
func (_m *MockTemplateRepository) List(ctx context.Context) ([]*models.Template, error) {
	ret := _m.Called(ctx)

	var r0 []*models.Template
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*models.Template)
	}

	return r0, ret.Error(1)
}

// Upsert provides a mock function with given fields: ctx, tpl
func (_m *MockTemplateRepository) Upsert(ctx context.Context, tpl *models.Template) error {
	ret := _m.Called(ctx, tpl)
	return ret.Error(0)
}

// CreateIfAbsent provides a mock function with given fields: ctx, tpl
func (_m *MockTemplateRepository) CreateIfAbsent(ctx context.Context, tpl *models.Template) (bool, error) {
	ret := _m.Called(ctx, tpl)
	return ret.Bool(0), ret.Error(1)
}

// Delete provides a mock function with given fields: ctx, key
func (_m *MockTemplateRepository) Delete(ctx context.Context, key string) error {
	ret := _m.Called(ctx, key)
	return ret.Error(0)
}

// NewMockTemplateRepository creates a new instance of MockTemplateRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockTemplateRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTemplateRepository {
	m := &MockTemplateRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ interfaces.TemplateRepository = (*MockTemplateRepository)(nil)
