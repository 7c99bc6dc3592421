package mocks

import (
	"context"

	"cyoa-server/shared/interfaces"
	"cyoa-server/shared/models"

	"github.com/stretchr/testify/mock"
)

// MockParameterRepository is a mock type for the ParameterRepository type
type MockParameterRepository struct {
	mock.Mock
}

// GetAll provides a mock function with given fields: ctx
func (_m *MockParameterRepository) GetAll(ctx context.Context) ([]*models.Parameter, error) {
	ret := _m.Called(ctx)

	var r0 []*models.Parameter
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*models.Parameter)
	}

	return r0, ret.Error(1)
}

// UpsertMany provides a mock function with given fields: ctx, values
func (_m *MockParameterRepository) UpsertMany(ctx context.Context, values map[string]string) error {
	ret := _m.Called(ctx, values)
	return ret.Error(0)
}

// CreateMissing provides a mock function with given fields: ctx, values
func (_m *MockParameterRepository) CreateMissing(ctx context.Context, values map[string]string) error {
	ret := _m.Called(ctx, values)
	return ret.Error(0)
}

// NewMockParameterRepository creates a new instance of MockParameterRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockParameterRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockParameterRepository {
	m := &MockParameterRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ interfaces.ParameterRepository = (*MockParameterRepository)(nil)
