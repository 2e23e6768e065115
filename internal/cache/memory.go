package cache

import (
	"context"
	"time"

	"loan-predictor/internal/models"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is the single-process stand-in used when no Redis is configured.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a new memory cache
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*models.PredictionResult, bool, error) {
	if val, found := c.cache.Get(key); found {
		result := val.(models.PredictionResult)
		return &result, true, nil
	}
	return nil, false, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, result models.PredictionResult, ttl time.Duration) error {
	c.cache.Set(key, result, ttl)
	return nil
}
