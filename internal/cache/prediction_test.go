package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocksight/trendwise/internal/config"
	"github.com/stocksight/trendwise/internal/domain"
)

func TestNewPredictionCacheDisabled(t *testing.T) {
	c, err := NewPredictionCache(config.CacheConfig{Enabled: false})
	require.NoError(t, err)

	_, ok := c.(*noopPredictionCache)
	assert.True(t, ok)
}

func TestNoopPredictionCache(t *testing.T) {
	c := NewNoopPredictionCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []domain.RecommendationRecord{{SKU: "A"}}))

	records, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, records)
}
