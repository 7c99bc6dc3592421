package prompt_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cyoa-server/internal/mocks"
	"cyoa-server/internal/prompt"
	"cyoa-server/shared/interfaces"
	"cyoa-server/shared/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestTemplateProvider_CachesUntilInvalidated(t *testing.T) {
	repo := mocks.NewMockTemplateRepository(t)
	repo.On("Get", mock.Anything, "style").Return(&models.Template{Key: "style", Body: "v1"}, nil).Once()
	provider := prompt.NewTemplateProvider(repo, time.Minute, zap.NewNop())
	ctx := context.Background()

	body, ok := provider.Body(ctx, "style")
	assert.True(t, ok)
	assert.Equal(t, "v1", body)

	body, ok = provider.Body(ctx, "style")
	assert.True(t, ok)
	assert.Equal(t, "v1", body)

	repo.On("Get", mock.Anything, "style").Return(&models.Template{Key: "style", Body: "v2"}, nil).Once()
	provider.HandleConfigEvent(ctx, interfaces.ConfigEvent{Kind: interfaces.ConfigEventTemplate, Keys: []string{"style"}})

	body, ok = provider.Body(ctx, "style")
	assert.True(t, ok)
	assert.Equal(t, "v2", body)
}

func TestTemplateProvider_IgnoresParameterEvents(t *testing.T) {
	repo := mocks.NewMockTemplateRepository(t)
	repo.On("Get", mock.Anything, "image").Return(nil, models.ErrNotFound).Once()
	provider := prompt.NewTemplateProvider(repo, time.Minute, zap.NewNop())
	ctx := context.Background()

	_, ok := provider.Body(ctx, "image")
	assert.False(t, ok)

	provider.HandleConfigEvent(ctx, interfaces.ConfigEvent{Kind: interfaces.ConfigEventParameters, Keys: []string{"image"}})

	// Still served from cache: Get was registered only once.
	_, ok = provider.Body(ctx, "image")
	assert.False(t, ok)
}

func TestTemplateProvider_StoreErrorsAreNotCached(t *testing.T) {
	repo := mocks.NewMockTemplateRepository(t)
	repo.On("Get", mock.Anything, "initial").Return(nil, errors.New("connection reset")).Once()
	repo.On("Get", mock.Anything, "initial").Return(&models.Template{Key: "initial", Body: "Genre: {{genre}}"}, nil).Once()
	provider := prompt.NewTemplateProvider(repo, time.Minute, zap.NewNop())
	ctx := context.Background()

	_, ok := provider.Body(ctx, "initial")
	assert.False(t, ok)

	body, ok := provider.Body(ctx, "initial")
	assert.True(t, ok)
	assert.Equal(t, "Genre: {{genre}}", body)
}
