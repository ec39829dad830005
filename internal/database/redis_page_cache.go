package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/interfaces"
	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/models"
)

// Compile-time check
var _ interfaces.PageRepository = (*redisPageCache)(nil)

// redisPageCache decorates a PageRepository with a TTL-bounded redis cache.
// Pages are immutable during play, so a slightly stale page is acceptable;
// the TTL bounds how long an authoring edit can take to become visible.
// Cache failures fall through to the inner repository.
type redisPageCache struct {
	inner  interfaces.PageRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisPageCache wraps the given PageRepository with a redis cache.
func NewRedisPageCache(inner interfaces.PageRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) interfaces.PageRepository {
	return &redisPageCache{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger.Named("RedisPageCache"),
	}
}

func pageCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("page:%s", id.String())
}

func (c *redisPageCache) GetByID(ctx context.Context, querier interfaces.DBTX, id uuid.UUID) (*models.Page, error) {
	key := pageCacheKey(id)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var page models.Page
		if unmarshalErr := json.Unmarshal(data, &page); unmarshalErr == nil {
			return &page, nil
		}
		// Corrupt entry, drop it and fall through.
		c.logger.Warn("Dropping corrupt page cache entry", zap.String("key", key))
		c.client.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("Page cache read failed", zap.String("key", key), zap.Error(err))
	}

	page, err := c.inner.GetByID(ctx, querier, id)
	if err != nil {
		return nil, err
	}

	if data, marshalErr := json.Marshal(page); marshalErr == nil {
		if setErr := c.client.Set(ctx, key, data, c.ttl).Err(); setErr != nil {
			c.logger.Warn("Page cache write failed", zap.String("key", key), zap.Error(setErr))
		}
	}
	return page, nil
}
