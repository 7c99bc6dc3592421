package generation

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cyoa-server/internal/config"
	"cyoa-server/shared/models"

	"go.uber.org/zap"
)

// ErrNoCredential is returned by NewTextClient when the selected provider
// cannot be reached with the given configuration.
var ErrNoCredential = errors.New("no credential configured for text provider")

// TextClient sends one prompt to a live model and returns its raw answer.
// params are already normalized.
type TextClient interface {
	GenerateText(ctx context.Context, prompt string, params models.GenerationParameters) (string, error)
	Provider() string
}

// NewTextClient builds the client for cfg.Provider.
func NewTextClient(ctx context.Context, cfg config.AIConfig, logger *zap.Logger) (TextClient, error) {
	httpClient := &http.Client{Timeout: cfg.GenerationTimeout}

	switch cfg.Provider {
	case config.ProviderGemini:
		if cfg.GoogleAPIKey == "" {
			return nil, fmt.Errorf("%w: %s", ErrNoCredential, cfg.Provider)
		}
		client, err := NewGeminiClient(ctx, cfg.GoogleAPIKey, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("%w: %s", ErrNoCredential, cfg.Provider)
		}
		client, err := NewOpenAIClient(cfg.OpenAIAPIKey, cfg.BaseURL, cfg.MaxRetries, httpClient, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ProviderOllama:
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("%w: %s", ErrNoCredential, cfg.Provider)
		}
		client, err := NewOllamaClient(cfg.BaseURL, httpClient, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown text provider %q", cfg.Provider)
	}
}
