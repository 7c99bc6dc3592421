package mocks

import (
	"context"

	"cyoa-server/shared/interfaces"
	"cyoa-server/shared/models"

	"github.com/stretchr/testify/mock"
)

// MockScreenRepository is a mock type for the ScreenRepository type
type MockScreenRepository struct {
	mock.Mock
}

// Create provides a mock function with given fields: ctx, screen
func (_m *MockScreenRepository) Create(ctx context.Context, screen *models.Screen) error {
	ret := _m.Called(ctx, screen)

	if rf, ok := ret.Get(0).(func(context.Context, *models.Screen) error); ok {
		return rf(ctx, screen)
	}
	return ret.Error(0)
}

// GetByID provides a mock function with given fields: ctx, screenID
func (_m *MockScreenRepository) GetByID(ctx context.Context, screenID string) (*models.Screen, error) {
	ret := _m.Called(ctx, screenID)

	var r0 *models.Screen
	if rf, ok := ret.Get(0).(func(context.Context, string) *models.Screen); ok {
		r0 = rf(ctx, screenID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Screen)
	}

	return r0, ret.Error(1)
}

// ListChildren provides a mock function with given fields: ctx, parentID
func (_m *MockScreenRepository) ListChildren(ctx context.Context, parentID string) ([]*models.Screen, error) {
	ret := _m.Called(ctx, parentID)

	var r0 []*models.Screen
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*models.Screen)
	}

	return r0, ret.Error(1)
}

// NewMockScreenRepository creates a new instance of MockScreenRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockScreenRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockScreenRepository {
	m := &MockScreenRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ interfaces.ScreenRepository = (*MockScreenRepository)(nil)
