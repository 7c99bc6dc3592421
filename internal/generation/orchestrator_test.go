package generation_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"cyoa-server/internal/generation"
	"cyoa-server/internal/mocks"
	"cyoa-server/shared/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

const prompt = "Begin a story in noir."

func liveParams() models.GenerationParameters {
	return models.GenerationParameters{ModelID: "gemini-1.5-flash", Temperature: 0.8, MaxTokens: 600}
}

func TestOrchestrator_OfflineMode(t *testing.T) {
	client := mocks.NewMockTextClient(t)
	o := generation.NewOrchestrator(client, time.Second, zap.NewNop())

	params := liveParams()
	params.OfflineMode = true
	assert.Equal(t, generation.OfflineScene(prompt), o.Generate(context.Background(), prompt, params))
	client.AssertNotCalled(t, "GenerateText", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrchestrator_NoClient(t *testing.T) {
	o := generation.NewOrchestrator(nil, time.Second, zap.NewNop())
	assert.Equal(t, generation.OfflineScene(prompt), o.Generate(context.Background(), prompt, liveParams()))
}

func TestOrchestrator_LiveSuccess(t *testing.T) {
	client := mocks.NewMockTextClient(t)
	client.On("Provider").Return("gemini")
	client.On("GenerateText", mock.Anything, prompt, liveParams()).
		Return(`Here you go: {"storyText":"Rain on neon.","choices":["Follow","Wait"],"imagePrompt":"neon rain"} Enjoy!`, nil).Once()

	o := generation.NewOrchestrator(client, time.Second, zap.NewNop())
	scene := o.Generate(context.Background(), prompt, liveParams())

	assert.Equal(t, "Rain on neon.", scene.StoryText)
	assert.Equal(t, []string{"Follow", "Wait"}, scene.Choices)
	assert.Equal(t, "neon rain", scene.ImagePrompt)
}

func TestOrchestrator_BackendFailures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		err  error
	}{
		{"error", "", errors.New("quota exceeded")},
		{"timeout", "", context.DeadlineExceeded},
		{"empty answer", "   ", nil},
		{"json without story", `{"storyText":"","choices":["a","b"]}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := mocks.NewMockTextClient(t)
			client.On("Provider").Return("openai")
			client.On("GenerateText", mock.Anything, prompt, mock.Anything).Return(tt.raw, tt.err).Once()

			o := generation.NewOrchestrator(client, time.Second, zap.NewNop())
			assert.Equal(t, generation.OfflineScene(prompt), o.Generate(context.Background(), prompt, liveParams()))
		})
	}
}

func TestOrchestrator_Timeout(t *testing.T) {
	client := mocks.NewMockTextClient(t)
	client.On("Provider").Return("ollama")
	client.On("GenerateText", mock.Anything, prompt, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return("", context.DeadlineExceeded).Once()

	o := generation.NewOrchestrator(client, 20*time.Millisecond, zap.NewNop())
	assert.Equal(t, generation.OfflineScene(prompt), o.Generate(context.Background(), prompt, liveParams()))
}

func TestOrchestrator_NormalizesParams(t *testing.T) {
	client := mocks.NewMockTextClient(t)
	client.On("Provider").Return("gemini")
	client.On("GenerateText", mock.Anything, prompt, models.GenerationParameters{
		ModelID: models.DefaultModelID, Temperature: 0.8, MaxTokens: 600,
	}).Return("Plain prose answer.", nil).Once()

	o := generation.NewOrchestrator(client, time.Second, zap.NewNop())
	scene := o.Generate(context.Background(), prompt, models.GenerationParameters{Temperature: math.NaN()})
	assert.Equal(t, "Plain prose answer.", scene.StoryText)
	assert.Equal(t, models.DefaultChoices(), scene.Choices)
}

func TestNormalizeParams(t *testing.T) {
	for _, temp := range []float64{math.NaN(), math.Inf(1), 0, -1} {
		p := generation.NormalizeParams(models.GenerationParameters{Temperature: temp, MaxTokens: -5})
		assert.Equal(t, 0.8, p.Temperature)
		assert.Equal(t, 600, p.MaxTokens)
		assert.Equal(t, "gemini-1.5-flash", p.ModelID)
	}

	p := generation.NormalizeParams(models.GenerationParameters{ModelID: "llama3", Temperature: 1.2, MaxTokens: 100})
	assert.Equal(t, models.GenerationParameters{ModelID: "llama3", Temperature: 1.2, MaxTokens: 100}, p)
}
