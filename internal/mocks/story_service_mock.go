package mocks

import (
	"context"
	"io"

	"cyoa-server/internal/handler"
	"cyoa-server/shared/models"

	"github.com/stretchr/testify/mock"
)

// MockStoryService is a mock type for the StoryService type
type MockStoryService struct {
	mock.Mock
}

// StartStory provides a mock function with given fields: ctx, genre
func (_m *MockStoryService) StartStory(ctx context.Context, genre string) (*models.Screen, error) {
	ret := _m.Called(ctx, genre)

	var r0 *models.Screen
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Screen)
	}
	return r0, ret.Error(1)
}

// AdvanceStory provides a mock function with given fields: ctx, parentID, choice
func (_m *MockStoryService) AdvanceStory(ctx context.Context, parentID string, choice string) (*models.Screen, error) {
	ret := _m.Called(ctx, parentID, choice)

	var r0 *models.Screen
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Screen)
	}
	return r0, ret.Error(1)
}

// GetScreen provides a mock function with given fields: ctx, id
func (_m *MockStoryService) GetScreen(ctx context.Context, id string) (*models.Screen, error) {
	ret := _m.Called(ctx, id)

	var r0 *models.Screen
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Screen)
	}
	return r0, ret.Error(1)
}

// Lineage provides a mock function with given fields: ctx, id
func (_m *MockStoryService) Lineage(ctx context.Context, id string) ([]*models.Screen, error) {
	ret := _m.Called(ctx, id)

	var r0 []*models.Screen
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*models.Screen)
	}
	return r0, ret.Error(1)
}

// Children provides a mock function with given fields: ctx, id
func (_m *MockStoryService) Children(ctx context.Context, id string) ([]*models.Screen, error) {
	ret := _m.Called(ctx, id)

	var r0 []*models.Screen
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*models.Screen)
	}
	return r0, ret.Error(1)
}

// ExportTranscriptPDF provides a mock function with given fields: ctx, id, w
func (_m *MockStoryService) ExportTranscriptPDF(ctx context.Context, id string, w io.Writer) error {
	ret := _m.Called(ctx, id, w)

	if rf, ok := ret.Get(0).(func(context.Context, string, io.Writer) error); ok {
		return rf(ctx, id, w)
	}
	return ret.Error(0)
}

// NewMockStoryService creates a new instance of MockStoryService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockStoryService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockStoryService {
	m := &MockStoryService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ handler.StoryService = (*MockStoryService)(nil)
