package remote

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cesargomez89/songbook/internal/domain"
)

const indexCacheKey = "remote:index"

type Cache interface {
	GetCache(ctx context.Context, key string) ([]byte, error)
	SetCache(ctx context.Context, key string, data []byte, ttl time.Duration) error
	ClearCache(ctx context.Context) error
}

// CachedGateway keeps the remote index for a while so catalog listings and
// single-category updates do not refetch it each time. Payloads are never cached.
type CachedGateway struct {
	gateway  Gateway
	cache    Cache
	cacheTTL time.Duration
}

func NewCachedGateway(gateway Gateway, cache Cache, cacheTTL time.Duration) *CachedGateway {
	return &CachedGateway{
		gateway:  gateway,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

func (c *CachedGateway) FetchIndex(ctx context.Context) ([]domain.ManifestEntry, error) {
	data, err := c.cache.GetCache(ctx, indexCacheKey)
	if err != nil {
		return nil, err
	}
	if data != nil {
		var entries []domain.ManifestEntry
		if err := json.Unmarshal(data, &entries); err == nil {
			return entries, nil
		}
	}

	entries, err := c.gateway.FetchIndex(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(entries); err == nil {
		_ = c.cache.SetCache(ctx, indexCacheKey, data, c.cacheTTL)
	}

	return entries, nil
}

func (c *CachedGateway) FetchCategoryPayload(ctx context.Context, file string) ([]byte, error) {
	return c.gateway.FetchCategoryPayload(ctx, file)
}

func (c *CachedGateway) ClearCache(ctx context.Context) error {
	return c.cache.ClearCache(ctx)
}
