package mocks

import (
	"context"

	"cyoa-server/shared/interfaces"

	"github.com/stretchr/testify/mock"
)

// MockConfigEventPublisher is a mock type for the ConfigEventPublisher type
type MockConfigEventPublisher struct {
	mock.Mock
}

// PublishConfigEvent provides a mock function with given fields: ctx, event
func (_m *MockConfigEventPublisher) PublishConfigEvent(ctx context.Context, event interfaces.ConfigEvent) error {
	ret := _m.Called(ctx, event)
	return ret.Error(0)
}

// NewMockConfigEventPublisher creates a new instance of MockConfigEventPublisher. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockConfigEventPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockConfigEventPublisher {
	m := &MockConfigEventPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ interfaces.ConfigEventPublisher = (*MockConfigEventPublisher)(nil)
