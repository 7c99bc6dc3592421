// Package imaging produces the landscape and portrait image URLs for a scene.
package imaging

import (
	"context"
	"fmt"

	"cyoa-server/internal/generation"
	"cyoa-server/shared/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	RatioLandscape = "16:9"
	RatioPortrait  = "9:16"
)

var imageSetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "story_generator_image_sets_total",
		Help: "Image pairs produced, by source.",
	},
	[]string{"source"},
)

// PromptBuilder renders the final image description from a scene hint.
type PromptBuilder interface {
	BuildImagePrompt(ctx context.Context, summary string) string
}

// Pipeline never fails: any backend problem yields the placeholder pair.
type Pipeline struct {
	prompts PromptBuilder
	backend Backend
	logger  *zap.Logger
}

// NewPipeline accepts a nil backend, in which case placeholders are always used.
func NewPipeline(prompts PromptBuilder, backend Backend, logger *zap.Logger) *Pipeline {
	return &Pipeline{prompts: prompts, backend: backend, logger: logger.Named("ImagePipeline")}
}

// GenerateImages returns both orientations for hint.
func (p *Pipeline) GenerateImages(ctx context.Context, hint string, params models.GenerationParameters) models.ImageSet {
	final := p.prompts.BuildImagePrompt(ctx, hint)
	if params.OfflineMode || p.backend == nil {
		imageSetsTotal.WithLabelValues("placeholder").Inc()
		return PlaceholderImages(final)
	}

	var set models.ImageSet
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		url, err := p.backend.Generate(gctx, final, RatioLandscape)
		set.LandscapeURL = url
		return err
	})
	g.Go(func() error {
		url, err := p.backend.Generate(gctx, final, RatioPortrait)
		set.PortraitURL = url
		return err
	})
	if err := g.Wait(); err != nil {
		p.logger.Warn("Image backend failed, using placeholders", zap.Error(err))
		imageSetsTotal.WithLabelValues("placeholder_fallback").Inc()
		return PlaceholderImages(final)
	}

	imageSetsTotal.WithLabelValues("backend").Inc()
	return set
}

// PlaceholderImages derives a stable picsum pair from the final prompt.
func PlaceholderImages(finalPrompt string) models.ImageSet {
	seed := generation.HashCode(finalPrompt)
	return models.ImageSet{
		LandscapeURL: fmt.Sprintf("https://picsum.photos/seed/%d/960/540", seed),
		PortraitURL:  fmt.Sprintf("https://picsum.photos/seed/%d/540/960", seed+1),
	}
}
