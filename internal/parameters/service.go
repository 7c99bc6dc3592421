// Package parameters manages the admin-tunable generation settings.
package parameters

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"cyoa-server/shared/interfaces"
	"cyoa-server/shared/models"

	"go.uber.org/zap"
)

// Service reads and writes generation parameters. Every Get goes to the store,
// so an admin edit applies to the next request.
type Service struct {
	repo         interfaces.ParameterRepository
	defaults     map[string]string
	forceOffline bool
	publisher    interfaces.ConfigEventPublisher
	logger       *zap.Logger
}

// NewService creates the parameter service. forceOffline pins OfflineMode to true,
// used when no text backend credential is configured.
func NewService(repo interfaces.ParameterRepository, defaults Defaults, forceOffline bool, publisher interfaces.ConfigEventPublisher, logger *zap.Logger) *Service {
	return &Service{
		repo:         repo,
		defaults:     defaults.asMap(),
		forceOffline: forceOffline,
		publisher:    publisher,
		logger:       logger.Named("ParameterService"),
	}
}

// Seed stores the defaults for keys that have never been set.
func (s *Service) Seed(ctx context.Context) error {
	if err := s.repo.CreateMissing(ctx, s.defaults); err != nil {
		return fmt.Errorf("failed to seed parameters: %w", err)
	}
	return nil
}

// Snapshot returns the raw stored values merged over the defaults.
func (s *Service) Snapshot(ctx context.Context) (map[string]string, error) {
	stored, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read parameters: %w", err)
	}
	values := make(map[string]string, len(s.defaults)+len(stored))
	for k, v := range s.defaults {
		values[k] = v
	}
	for _, p := range stored {
		values[p.Key] = p.Value
	}
	return values, nil
}

// Get returns the typed parameters for one generation flow. Store failures fall
// back to the defaults rather than failing the request.
func (s *Service) Get(ctx context.Context) models.GenerationParameters {
	values, err := s.Snapshot(ctx)
	if err != nil {
		s.logger.Warn("Parameter read failed, using defaults", zap.Error(err))
		values = s.defaults
	}
	params := Parse(values)
	if s.forceOffline {
		params.OfflineMode = true
	}
	return params
}

// Set merges values into the store. Values are stored as strings: strings as is,
// numbers and booleans in their plain form, anything else as JSON.
// Concurrent writers to the same key: the last write wins.
func (s *Service) Set(ctx context.Context, values map[string]any) (map[string]string, error) {
	if len(values) == 0 {
		return nil, models.ErrInvalidParameters
	}

	encoded := make(map[string]string, len(values))
	for k, v := range values {
		key := strings.TrimSpace(k)
		if key == "" {
			return nil, fmt.Errorf("%w: empty parameter key", models.ErrValidation)
		}
		str, err := Stringify(v)
		if err != nil {
			return nil, fmt.Errorf("%w: parameter %s: %v", models.ErrValidation, key, err)
		}
		encoded[key] = str
	}

	if err := s.repo.UpsertMany(ctx, encoded); err != nil {
		return nil, fmt.Errorf("failed to store parameters: %w", err)
	}

	keys := make([]string, 0, len(encoded))
	for k := range encoded {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	event := interfaces.ConfigEvent{Kind: interfaces.ConfigEventParameters, Keys: keys}
	if err := s.publisher.PublishConfigEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish parameter change", zap.Strings("keys", keys), zap.Error(err))
	}

	return s.Snapshot(ctx)
}

// Stringify converts an admin-supplied JSON value to its stored form.
func Stringify(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case json.Number:
		return val.String(), nil
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
}

// Parse turns stored strings into typed parameters. It never fails: a
// non-numeric temperature becomes NaN and a non-numeric token limit becomes 0,
// both of which the generator replaces with its defaults.
func Parse(values map[string]string) models.GenerationParameters {
	return models.GenerationParameters{
		ModelID:     strings.TrimSpace(values[models.ParamModelID]),
		Temperature: parseFloat(values[models.ParamTemperature]),
		MaxTokens:   parseInt(values[models.ParamMaxTokens]),
		OfflineMode: strings.EqualFold(strings.TrimSpace(values[models.ParamMockMode]), "true"),
		ImageAspect: strings.TrimSpace(values[models.ParamImageAspect]),
	}
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func parseInt(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return int(f)
	}
	return 0
}
