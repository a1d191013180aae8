package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"matchability/internal/common/config"
	apperrors "matchability/internal/common/errors"
	"matchability/internal/models"
)

const defaultCacheTTL = time.Hour

// PredictionCache keeps recent predictions keyed by record fingerprint.
type PredictionCache struct {
	redis  *redis.Client
	ttl    time.Duration
	prefix string
}

func NewPredictionCache(client *redis.Client, cfg config.CacheConfig) *PredictionCache {
	ttl := time.Duration(cfg.TTL) * time.Second
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &PredictionCache{redis: client, ttl: ttl, prefix: cfg.KeyPrefix}
}

// Get returns the cached prediction for key. A miss is (nil, false, nil).
func (c *PredictionCache) Get(ctx context.Context, key string) (*models.Prediction, bool, error) {
	val, err := c.redis.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.NewCacheUnavailableError(err)
	}

	var p models.Prediction
	if err := json.Unmarshal(val, &p); err != nil {
		// unreadable entries are dropped and treated as a miss
		c.redis.Del(ctx, c.prefix+key)
		return nil, false, nil
	}
	return &p, true, nil
}

func (c *PredictionCache) Set(ctx context.Context, key string, p *models.Prediction) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := c.redis.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		return apperrors.NewCacheUnavailableError(err)
	}
	return nil
}
