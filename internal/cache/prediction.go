package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stocksight/trendwise/internal/config"
	"github.com/stocksight/trendwise/internal/domain"
	"github.com/stocksight/trendwise/internal/forecaster"
)

type redisPredictionCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopPredictionCache struct{}

// NewPredictionCache returns a redis-backed cache when enabled, otherwise a
// noop.
func NewPredictionCache(cfg config.CacheConfig) (forecaster.PredictionCache, error) {
	if !cfg.Enabled {
		return &noopPredictionCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisPredictionCache{client: client, ttl: ttl}, nil
}

func NewNoopPredictionCache() forecaster.PredictionCache {
	return &noopPredictionCache{}
}

func (c *redisPredictionCache) Get(ctx context.Context, key string) ([]domain.RecommendationRecord, bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var records []domain.RecommendationRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, false, fmt.Errorf("decode prediction cache: %w", err)
	}
	return records, true, nil
}

func (c *redisPredictionCache) Set(ctx context.Context, key string, records []domain.RecommendationRecord) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode prediction cache: %w", err)
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (n *noopPredictionCache) Get(ctx context.Context, key string) ([]domain.RecommendationRecord, bool, error) {
	return nil, false, nil
}

func (n *noopPredictionCache) Set(ctx context.Context, key string, records []domain.RecommendationRecord) error {
	return nil
}
