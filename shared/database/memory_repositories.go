package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"cyoa-server/shared/interfaces"
	"cyoa-server/shared/models"
)

var (
	_ interfaces.ScreenRepository    = (*MemoryScreenRepository)(nil)
	_ interfaces.TemplateRepository  = (*MemoryTemplateRepository)(nil)
	_ interfaces.ParameterRepository = (*MemoryParameterRepository)(nil)
)

// MemoryScreenRepository is a flat id -> screen map. Parent navigation is one extra lookup.
type MemoryScreenRepository struct {
	mu      sync.RWMutex
	screens map[string]*models.Screen
}

func NewMemoryScreenRepository() *MemoryScreenRepository {
	return &MemoryScreenRepository{screens: make(map[string]*models.Screen)}
}

func (r *MemoryScreenRepository) Create(_ context.Context, screen *models.Screen) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.screens[screen.ScreenID]; exists {
		return models.ErrDuplicateScreen
	}
	stored := screen.Clone()
	stored.CreatedAt = stored.CreatedAt.UTC()
	r.screens[screen.ScreenID] = stored
	return nil
}

func (r *MemoryScreenRepository) GetByID(_ context.Context, screenID string) (*models.Screen, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	screen, ok := r.screens[screenID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return screen.Clone(), nil
}

func (r *MemoryScreenRepository) ListChildren(_ context.Context, parentID string) ([]*models.Screen, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	children := make([]*models.Screen, 0)
	for _, s := range r.screens {
		if s.ParentID != nil && *s.ParentID == parentID {
			children = append(children, s.Clone())
		}
	}
	sort.Slice(children, func(i, j int) bool {
		if children[i].CreatedAt.Equal(children[j].CreatedAt) {
			return children[i].ScreenID < children[j].ScreenID
		}
		return children[i].CreatedAt.Before(children[j].CreatedAt)
	})
	return children, nil
}

// MemoryTemplateRepository keeps templates in a map.
type MemoryTemplateRepository struct {
	mu        sync.RWMutex
	templates map[string]models.Template
}

func NewMemoryTemplateRepository() *MemoryTemplateRepository {
	return &MemoryTemplateRepository{templates: make(map[string]models.Template)}
}

func (r *MemoryTemplateRepository) Get(_ context.Context, key string) (*models.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tpl, ok := r.templates[key]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &tpl, nil
}

func (r *MemoryTemplateRepository) List(_ context.Context) ([]*models.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Template, 0, len(r.templates))
	for _, tpl := range r.templates {
		tpl := tpl
		out = append(out, &tpl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (r *MemoryTemplateRepository) Upsert(_ context.Context, tpl *models.Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tpl.UpdatedAt = time.Now().UTC()
	r.templates[tpl.Key] = *tpl
	return nil
}

func (r *MemoryTemplateRepository) CreateIfAbsent(_ context.Context, tpl *models.Template) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.templates[tpl.Key]; exists {
		return false, nil
	}
	tpl.UpdatedAt = time.Now().UTC()
	r.templates[tpl.Key] = *tpl
	return true, nil
}

func (r *MemoryTemplateRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.templates[key]; !ok {
		return models.ErrNotFound
	}
	delete(r.templates, key)
	return nil
}

// MemoryParameterRepository keeps parameters in a map.
type MemoryParameterRepository struct {
	mu     sync.RWMutex
	values map[string]models.Parameter
}

func NewMemoryParameterRepository() *MemoryParameterRepository {
	return &MemoryParameterRepository{values: make(map[string]models.Parameter)}
}

func (r *MemoryParameterRepository) GetAll(_ context.Context) ([]*models.Parameter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Parameter, 0, len(r.values))
	for _, p := range r.values {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (r *MemoryParameterRepository) UpsertMany(_ context.Context, values map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	for k, v := range values {
		r.values[k] = models.Parameter{Key: k, Value: v, UpdatedAt: now}
	}
	return nil
}

func (r *MemoryParameterRepository) CreateMissing(_ context.Context, values map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	for k, v := range values {
		if _, exists := r.values[k]; !exists {
			r.values[k] = models.Parameter{Key: k, Value: v, UpdatedAt: now}
		}
	}
	return nil
}
