package generation_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cyoa-server/internal/generation"
	"cyoa-server/shared/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenAIClient_GenerateText(t *testing.T) {
	var got struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "cmpl-1",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"storyText\":\"ok\"}"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 5, "total_tokens": 17}
		}`))
	}))
	defer srv.Close()

	client, err := generation.NewOpenAIClient("sk-test", srv.URL+"/v1", 1, &http.Client{Timeout: 5 * time.Second}, zap.NewNop())
	require.NoError(t, err)

	text, err := client.GenerateText(context.Background(), "Begin.", models.GenerationParameters{
		ModelID: "gpt-4o-mini", Temperature: 0.5, MaxTokens: 300,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"storyText":"ok"}`, text)

	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.InDelta(t, 0.5, got.Temperature, 1e-6)
	assert.Equal(t, 300, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "Begin.", got.Messages[0].Content)
}

func TestOpenAIClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit"}}`))
	}))
	defer srv.Close()

	client, err := generation.NewOpenAIClient("sk-test", srv.URL, 2, &http.Client{Timeout: 5 * time.Second}, zap.NewNop())
	require.NoError(t, err)

	_, err = client.GenerateText(context.Background(), "Begin.", models.GenerationParameters{ModelID: "m", Temperature: 1, MaxTokens: 10})
	assert.Error(t, err)
}

func TestOllamaClient_GenerateText(t *testing.T) {
	var got struct {
		Model    string         `json:"model"`
		Stream   *bool          `json:"stream"`
		Options  map[string]any `json:"options"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama3","message":{"role":"assistant","content":"A quiet hum."},"done":true,"prompt_eval_count":9,"eval_count":4}` + "\n"))
	}))
	defer srv.Close()

	client, err := generation.NewOllamaClient(srv.URL+"/v1", &http.Client{Timeout: 5 * time.Second}, zap.NewNop())
	require.NoError(t, err)

	text, err := client.GenerateText(context.Background(), "Begin.", models.GenerationParameters{
		ModelID: "llama3", Temperature: 0.7, MaxTokens: 128,
	})
	require.NoError(t, err)
	assert.Equal(t, "A quiet hum.", text)

	assert.Equal(t, "llama3", got.Model)
	require.NotNil(t, got.Stream)
	assert.False(t, *got.Stream)
	assert.InDelta(t, 0.7, got.Options["temperature"], 1e-9)
	assert.EqualValues(t, 128, got.Options["num_predict"])
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "Begin.", got.Messages[0].Content)
}
