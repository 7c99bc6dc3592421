package generation

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"cyoa-server/shared/models"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

// OllamaClient calls a local Ollama server through its native chat API.
type OllamaClient struct {
	client *api.Client
	logger *zap.Logger
}

// NewOllamaClient accepts the base URL with or without a trailing /v1.
func NewOllamaClient(baseURL string, httpClient *http.Client, logger *zap.Logger) (*OllamaClient, error) {
	baseURL = strings.TrimSuffix(strings.TrimSuffix(baseURL, "/"), "/v1")
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama base URL %q: %w", baseURL, err)
	}
	return &OllamaClient{
		client: api.NewClient(parsed, httpClient),
		logger: logger.Named("OllamaClient"),
	}, nil
}

func (c *OllamaClient) Provider() string { return "ollama" }

func (c *OllamaClient) GenerateText(ctx context.Context, prompt string, params models.GenerationParameters) (string, error) {
	stream := false
	req := &api.ChatRequest{
		Model:    params.ModelID,
		Messages: []api.Message{{Role: "user", Content: prompt}},
		Stream:   &stream,
		Options: map[string]any{
			"temperature": params.Temperature,
			"num_predict": params.MaxTokens,
		},
	}

	var resp api.ChatResponse
	err := c.client.Chat(ctx, req, func(r api.ChatResponse) error {
		resp = r
		return nil
	})
	if err != nil {
		return "", err
	}

	c.logger.Debug("Ollama usage",
		zap.String("model", params.ModelID),
		zap.Int("promptTokens", resp.PromptEvalCount),
		zap.Int("completionTokens", resp.EvalCount),
	)
	return resp.Message.Content, nil
}
