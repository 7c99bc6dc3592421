package mocks

import (
	"context"

	"cyoa-server/internal/generation"
	"cyoa-server/shared/models"

	"github.com/stretchr/testify/mock"
)

// MockTextClient is a mock type for the TextClient type
type MockTextClient struct {
	mock.Mock
}

// GenerateText provides a mock function with given fields: ctx, prompt, params
func (_m *MockTextClient) GenerateText(ctx context.Context, prompt string, params models.GenerationParameters) (string, error) {
	ret := _m.Called(ctx, prompt, params)
	return ret.String(0), ret.Error(1)
}

// Provider provides a mock function with no fields
func (_m *MockTextClient) Provider() string {
	ret := _m.Called()
	return ret.String(0)
}

// NewMockTextClient creates a new instance of MockTextClient. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockTextClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTextClient {
	m := &MockTextClient{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ generation.TextClient = (*MockTextClient)(nil)
