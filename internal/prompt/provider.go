package prompt

import (
	"context"
	"errors"
	"time"

	"cyoa-server/shared/interfaces"
	"cyoa-server/shared/models"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// TemplateSource resolves a template key to its body.
type TemplateSource interface {
	// Body reports ok=false when the key is missing, empty, or could not be read.
	Body(ctx context.Context, key string) (body string, ok bool)
}

type cachedBody struct {
	body  string
	found bool
}

// TemplateProvider is a read-through in-process cache over a TemplateRepository.
// Admin writes and config events drop entries, so a change shows up on the next request.
type TemplateProvider struct {
	repo   interfaces.TemplateRepository
	cache  *cache.Cache
	logger *zap.Logger
}

var _ TemplateSource = (*TemplateProvider)(nil)

// NewTemplateProvider caches lookups for ttl. A ttl <= 0 disables caching.
func NewTemplateProvider(repo interfaces.TemplateRepository, ttl time.Duration, logger *zap.Logger) *TemplateProvider {
	p := &TemplateProvider{
		repo:   repo,
		logger: logger.Named("TemplateProvider"),
	}
	if ttl > 0 {
		p.cache = cache.New(ttl, max(2*ttl, time.Minute))
	}
	return p
}

func (p *TemplateProvider) Body(ctx context.Context, key string) (string, bool) {
	if p.cache == nil {
		return p.load(ctx, key)
	}
	if v, ok := p.cache.Get(key); ok {
		entry := v.(cachedBody)
		return entry.body, entry.found
	}
	return p.load(ctx, key)
}

func (p *TemplateProvider) load(ctx context.Context, key string) (string, bool) {
	tpl, err := p.repo.Get(ctx, key)
	switch {
	case errors.Is(err, models.ErrNotFound):
		p.remember(key, cachedBody{})
		return "", false
	case err != nil:
		// Not cached: the next request retries the store.
		p.logger.Warn("Template lookup failed, using fallback", zap.String("key", key), zap.Error(err))
		return "", false
	}

	entry := cachedBody{body: tpl.Body, found: tpl.Body != ""}
	p.remember(key, entry)
	return entry.body, entry.found
}

func (p *TemplateProvider) remember(key string, entry cachedBody) {
	if p.cache != nil {
		p.cache.SetDefault(key, entry)
	}
}

// Invalidate drops the given keys, or everything when no key is given.
func (p *TemplateProvider) Invalidate(keys ...string) {
	if p.cache == nil {
		return
	}
	if len(keys) == 0 {
		p.cache.Flush()
		return
	}
	for _, key := range keys {
		p.cache.Delete(key)
	}
}

// HandleConfigEvent drops cached templates changed on another instance.
func (p *TemplateProvider) HandleConfigEvent(_ context.Context, event interfaces.ConfigEvent) {
	if event.Kind != interfaces.ConfigEventTemplate {
		return
	}
	p.logger.Debug("Invalidating templates from config event", zap.Strings("keys", event.Keys))
	p.Invalidate(event.Keys...)
}
