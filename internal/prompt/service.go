package prompt

import (
	"context"
	"fmt"
	"strings"

	"cyoa-server/internal/template"
	"cyoa-server/shared/interfaces"
	"cyoa-server/shared/models"

	"go.uber.org/zap"
)

// TemplateView is a stored template plus the placeholder names its body uses.
type TemplateView struct {
	models.Template
	Placeholders []string `json:"placeholders"`
}

func newTemplateView(tpl *models.Template) TemplateView {
	return TemplateView{Template: *tpl, Placeholders: template.Placeholders(tpl.Body)}
}

// TemplateService is the admin-facing side of the template store.
type TemplateService struct {
	repo      interfaces.TemplateRepository
	provider  *TemplateProvider
	publisher interfaces.ConfigEventPublisher
	logger    *zap.Logger
}

func NewTemplateService(repo interfaces.TemplateRepository, provider *TemplateProvider, publisher interfaces.ConfigEventPublisher, logger *zap.Logger) *TemplateService {
	return &TemplateService{
		repo:      repo,
		provider:  provider,
		publisher: publisher,
		logger:    logger.Named("TemplateService"),
	}
}

func (s *TemplateService) List(ctx context.Context) ([]TemplateView, error) {
	templates, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	views := make([]TemplateView, 0, len(templates))
	for _, tpl := range templates {
		views = append(views, newTemplateView(tpl))
	}
	return views, nil
}

// Create adds a new template. An existing key yields models.ErrTemplateExists.
func (s *TemplateService) Create(ctx context.Context, tpl models.Template) (*TemplateView, error) {
	tpl.Key = strings.TrimSpace(tpl.Key)
	if tpl.Key == "" || strings.TrimSpace(tpl.Body) == "" {
		return nil, models.ErrInvalidTemplate
	}

	inserted, err := s.repo.CreateIfAbsent(ctx, &tpl)
	if err != nil {
		return nil, fmt.Errorf("failed to create template %s: %w", tpl.Key, err)
	}
	if !inserted {
		return nil, models.ErrTemplateExists
	}

	s.changed(ctx, tpl.Key, false)
	view := newTemplateView(&tpl)
	return &view, nil
}

// Update replaces the body (and name/kind when given) of an existing template.
func (s *TemplateService) Update(ctx context.Context, key string, patch models.Template) (*TemplateView, error) {
	if strings.TrimSpace(patch.Body) == "" {
		return nil, models.ErrInvalidTemplate
	}

	current, err := s.repo.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	current.Body = patch.Body
	if patch.Name != "" {
		current.Name = patch.Name
	}
	if patch.Kind != "" {
		current.Kind = patch.Kind
	}

	if err := s.repo.Upsert(ctx, current); err != nil {
		return nil, fmt.Errorf("failed to update template %s: %w", key, err)
	}

	s.changed(ctx, key, false)
	view := newTemplateView(current)
	return &view, nil
}

// Delete removes a template; the composer falls back to its built-in text for that key.
func (s *TemplateService) Delete(ctx context.Context, key string) error {
	if err := s.repo.Delete(ctx, key); err != nil {
		return err
	}
	s.changed(ctx, key, true)
	return nil
}

// A failed broadcast only delays other instances until their cache expires.
func (s *TemplateService) changed(ctx context.Context, key string, deleted bool) {
	s.provider.Invalidate(key)
	event := interfaces.ConfigEvent{Kind: interfaces.ConfigEventTemplate, Keys: []string{key}, Deleted: deleted}
	if err := s.publisher.PublishConfigEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish template change", zap.String("key", key), zap.Error(err))
	}
}
