package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cyoa-server/internal/config"
	"cyoa-server/internal/generation"
	"cyoa-server/internal/imaging"
	"cyoa-server/internal/parameters"
	"cyoa-server/internal/prompt"
	"cyoa-server/internal/story"
	"cyoa-server/shared/interfaces"

	"go.uber.org/zap"
)

// App is the assembled service graph.
type App struct {
	Storage      *Storage
	Provider     *prompt.TemplateProvider
	Templates    *prompt.TemplateService
	Parameters   *parameters.Service
	Orchestrator *generation.Orchestrator
	Images       *imaging.Pipeline
	Stories      *story.Service

	textClient generation.TextClient
}

// New seeds templates and parameters, then wires the story pipeline.
// A text backend that cannot be created leaves the app in offline mode.
func New(ctx context.Context, cfg *config.Config, storage *Storage, publisher interfaces.ConfigEventPublisher, logger *zap.Logger) (*App, error) {
	if err := prompt.SeedTemplates(ctx, storage.Templates, logger); err != nil {
		return nil, err
	}

	defaults, err := parameters.LoadDefaults()
	if err != nil {
		return nil, err
	}

	var textClient generation.TextClient
	if cfg.HasTextCredential() {
		textClient, err = generation.NewTextClient(ctx, cfg.AI, logger)
		if err != nil {
			logger.Warn("Text backend unavailable, running offline", zap.String("provider", cfg.AI.Provider), zap.Error(err))
			textClient = nil
		}
	} else {
		logger.Info("No text backend credential configured, running offline", zap.String("provider", cfg.AI.Provider))
	}

	params := parameters.NewService(storage.Parameters, defaults, textClient == nil, publisher, logger)
	if err := params.Seed(ctx); err != nil {
		return nil, err
	}

	var backend imaging.Backend
	if cfg.Image.BackendURL != "" {
		httpBackend, err := imaging.NewHTTPBackend(imaging.HTTPBackendConfig{
			BaseURL:       cfg.Image.BackendURL,
			SavePath:      cfg.Image.SavePath,
			PublicBaseURL: cfg.Image.PublicBaseURL,
			Timeout:       cfg.Image.Timeout,
			RateInterval:  cfg.Image.RateInterval,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create image backend: %w", err)
		}
		backend = httpBackend
	}

	provider := prompt.NewTemplateProvider(storage.Templates, cfg.Storage.TemplateCacheTTL, logger)
	composer := prompt.NewComposer(provider)
	orchestrator := generation.NewOrchestrator(textClient, cfg.AI.GenerationTimeout, logger)
	images := imaging.NewPipeline(composer, backend, logger)

	return &App{
		Storage:      storage,
		Provider:     provider,
		Templates:    prompt.NewTemplateService(storage.Templates, provider, publisher, logger),
		Parameters:   params,
		Orchestrator: orchestrator,
		Images:       images,
		Stories:      story.NewService(storage.Screens, params, composer, orchestrator, images, logger),
		textClient:   textClient,
	}, nil
}

// Close releases the text client (when it holds resources) and the storage.
func (a *App) Close() error {
	var errs []error
	if c, ok := a.textClient.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	a.Storage.Close()
	return errors.Join(errs...)
}
