package generation_test

import (
	"context"
	"testing"
	"time"

	"cyoa-server/internal/config"
	"cyoa-server/internal/generation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewTextClient(t *testing.T) {
	ctx := context.Background()
	base := config.AIConfig{GenerationTimeout: time.Second, MaxRetries: 1}

	cfg := base
	cfg.Provider = config.ProviderGemini
	_, err := generation.NewTextClient(ctx, cfg, zap.NewNop())
	assert.ErrorIs(t, err, generation.ErrNoCredential)

	cfg = base
	cfg.Provider = config.ProviderOpenAI
	cfg.OpenAIAPIKey = "sk-test"
	cfg.BaseURL = "http://localhost:1/v1"
	client, err := generation.NewTextClient(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "openai", client.Provider())

	cfg = base
	cfg.Provider = config.ProviderOllama
	cfg.BaseURL = "http://localhost:11434/v1/"
	client, err = generation.NewTextClient(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "ollama", client.Provider())

	cfg = base
	cfg.Provider = "watson"
	_, err = generation.NewTextClient(ctx, cfg, zap.NewNop())
	assert.Error(t, err)
}
