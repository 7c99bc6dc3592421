// Package generation turns a prompt into a scene, using a live text model when
// one is configured and a deterministic offline generator otherwise.
package generation

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"cyoa-server/pkg/ai"
	"cyoa-server/shared/models"

	"go.uber.org/zap"
)

// Orchestrator never fails: every backend problem ends in the offline scene.
type Orchestrator struct {
	client  TextClient
	timeout time.Duration
	logger  *zap.Logger
}

// NewOrchestrator accepts a nil client, in which case every call is offline.
func NewOrchestrator(client TextClient, timeout time.Duration, logger *zap.Logger) *Orchestrator {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Orchestrator{client: client, timeout: timeout, logger: logger.Named("Orchestrator")}
}

// Generate produces one scene for prompt.
func (o *Orchestrator) Generate(ctx context.Context, prompt string, params models.GenerationParameters) models.Scene {
	if params.OfflineMode {
		offlineFallbacksTotal.WithLabelValues("offline_mode").Inc()
		return OfflineScene(prompt)
	}
	if o.client == nil {
		offlineFallbacksTotal.WithLabelValues("no_client").Inc()
		return OfflineScene(prompt)
	}

	params = NormalizeParams(params)
	provider := o.client.Provider()
	log := o.logger.With(zap.String("provider", provider), zap.String("model", params.ModelID))

	aiPromptTokens.WithLabelValues(params.ModelID).Observe(float64(ai.CountTokens(params.ModelID, prompt)))

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	raw, err := o.client.GenerateText(callCtx, prompt, params)
	aiRequestDuration.WithLabelValues(provider, params.ModelID).Observe(time.Since(start).Seconds())

	if err == nil && strings.TrimSpace(raw) == "" {
		err = ai.ErrEmptyCompletion
	}
	if err != nil {
		status := "error"
		if errors.Is(err, context.DeadlineExceeded) {
			status = "timeout"
		}
		aiRequestsTotal.WithLabelValues(provider, params.ModelID, status).Inc()
		offlineFallbacksTotal.WithLabelValues("backend_" + status).Inc()
		log.Warn("Text backend failed, using offline scene", zap.Error(errors.Join(models.ErrBackend, err)))
		return OfflineScene(prompt)
	}
	aiRequestsTotal.WithLabelValues(provider, params.ModelID, "success").Inc()

	result := ParseResult(raw)
	if result.IsStructured() {
		parseOutcomesTotal.WithLabelValues("structured").Inc()
	} else {
		parseOutcomesTotal.WithLabelValues("raw_text").Inc()
		log.Info("Backend answer is not JSON, using it as story text", zap.Int("length", len(raw)))
	}

	scene, err := Normalize(result)
	if err != nil {
		offlineFallbacksTotal.WithLabelValues("empty_story").Inc()
		log.Warn("Backend answer has no story text, using offline scene")
		return OfflineScene(prompt)
	}
	return scene
}

// NormalizeParams substitutes defaults for unusable values.
func NormalizeParams(p models.GenerationParameters) models.GenerationParameters {
	if math.IsNaN(p.Temperature) || math.IsInf(p.Temperature, 0) || p.Temperature <= 0 {
		p.Temperature = models.DefaultTemperature
	}
	if p.MaxTokens <= 0 {
		p.MaxTokens = models.DefaultMaxTokens
	}
	if strings.TrimSpace(p.ModelID) == "" {
		p.ModelID = models.DefaultModelID
	}
	return p
}
