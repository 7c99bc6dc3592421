package generation

import (
	"context"
	"net/http"

	"cyoa-server/pkg/ai"
	"cyoa-server/shared/models"

	"go.uber.org/zap"
)

// OpenAIClient calls any OpenAI-compatible chat completion endpoint.
type OpenAIClient struct {
	client *ai.Client
	logger *zap.Logger
}

func NewOpenAIClient(apiKey, baseURL string, maxRetries int, httpClient *http.Client, logger *zap.Logger) (*OpenAIClient, error) {
	client, err := ai.New(ai.Config{
		APIKey:     apiKey,
		BaseURL:    baseURL,
		Timeout:    httpClient.Timeout,
		MaxRetries: maxRetries,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, err
	}
	return &OpenAIClient{client: client, logger: logger.Named("OpenAIClient")}, nil
}

func (c *OpenAIClient) Provider() string { return "openai" }

func (c *OpenAIClient) GenerateText(ctx context.Context, prompt string, params models.GenerationParameters) (string, error) {
	text, usage, err := c.client.Complete(ctx, ai.CompletionRequest{
		Model:       params.ModelID,
		Prompt:      prompt,
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	c.logger.Debug("OpenAI usage",
		zap.String("model", params.ModelID),
		zap.Int("promptTokens", usage.PromptTokens),
		zap.Int("completionTokens", usage.CompletionTokens),
	)
	return text, nil
}
