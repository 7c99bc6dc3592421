package generation

import (
	"context"
	"fmt"
	"strings"

	"cyoa-server/shared/models"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GeminiClient calls Google Gemini through the generative-ai-go SDK.
type GeminiClient struct {
	client *genai.Client
	logger *zap.Logger
}

func NewGeminiClient(ctx context.Context, apiKey string, logger *zap.Logger) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiClient{client: client, logger: logger.Named("GeminiClient")}, nil
}

func (c *GeminiClient) Provider() string { return "gemini" }

func (c *GeminiClient) GenerateText(ctx context.Context, prompt string, params models.GenerationParameters) (string, error) {
	model := c.client.GenerativeModel(params.ModelID)
	model.SetTemperature(float32(params.Temperature))
	model.SetMaxOutputTokens(int32(params.MaxTokens))

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	if resp.UsageMetadata != nil {
		c.logger.Debug("Gemini usage",
			zap.String("model", params.ModelID),
			zap.Int32("promptTokens", resp.UsageMetadata.PromptTokenCount),
			zap.Int32("candidateTokens", resp.UsageMetadata.CandidatesTokenCount),
		)
	}
	return sb.String(), nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}
