package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cyoa-server/shared/interfaces"
	"cyoa-server/shared/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ interfaces.ScreenRepository = (*redisScreenCache)(nil)

const screenCacheKeyPrefix = "screen:"

// redisScreenCache is a read-through cache in front of another ScreenRepository.
// Screens never change after creation, so entries are only ever added or expired.
type redisScreenCache struct {
	next   interfaces.ScreenRepository
	client redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisScreenCache wraps next with a Redis cache. Redis failures degrade to direct reads.
func NewRedisScreenCache(next interfaces.ScreenRepository, client redis.Cmdable, ttl time.Duration, logger *zap.Logger) interfaces.ScreenRepository {
	return &redisScreenCache{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger.Named("RedisScreenCache"),
	}
}

func screenCacheKey(id string) string {
	return fmt.Sprintf("%s%s", screenCacheKeyPrefix, id)
}

func (c *redisScreenCache) Create(ctx context.Context, screen *models.Screen) error {
	if err := c.next.Create(ctx, screen); err != nil {
		return err
	}
	c.store(ctx, screen)
	return nil
}

func (c *redisScreenCache) GetByID(ctx context.Context, screenID string) (*models.Screen, error) {
	raw, err := c.client.Get(ctx, screenCacheKey(screenID)).Bytes()
	switch {
	case err == nil:
		var screen models.Screen
		if jsonErr := json.Unmarshal(raw, &screen); jsonErr == nil {
			screen.CreatedAt = screen.CreatedAt.UTC()
			return &screen, nil
		}
		c.logger.Warn("Dropping undecodable cache entry", zap.String("screenID", screenID))
		c.client.Del(ctx, screenCacheKey(screenID))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("Redis read failed, falling back to store", zap.String("screenID", screenID), zap.Error(err))
	}

	screen, err := c.next.GetByID(ctx, screenID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, screen)
	return screen, nil
}

// ListChildren is not cached: the child set of a screen grows over time.
func (c *redisScreenCache) ListChildren(ctx context.Context, parentID string) ([]*models.Screen, error) {
	return c.next.ListChildren(ctx, parentID)
}

func (c *redisScreenCache) store(ctx context.Context, screen *models.Screen) {
	entry := screen.Clone()
	entry.CreatedAt = entry.CreatedAt.UTC()
	payload, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, screenCacheKey(screen.ScreenID), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("Redis write failed", zap.String("screenID", screen.ScreenID), zap.Error(err))
	}
}
