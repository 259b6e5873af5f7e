package cache

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/ff-asset-aggregator/internal/adapter"
	"github.com/feral-file/ff-asset-aggregator/internal/domain"
	"github.com/feral-file/ff-asset-aggregator/internal/logger"
)

// hardwarePrefix marks cache entries written for hardware device queries.
// Invalidation and introspection only ever touch keys under this prefix.
const hardwarePrefix = "HARD:"

// ResultCache stores rendered aggregation pages keyed by the request URL.
// Keys are lowercased so the owner address embedded in the URL can be
// matched case-insensitively during invalidation.
type ResultCache struct {
	store Store
	json  adapter.JSON
	ttl   time.Duration
}

// NewResultCache creates a new result cache with the given TTL
func NewResultCache(store Store, json adapter.JSON, ttl time.Duration) *ResultCache {
	return &ResultCache{
		store: store,
		json:  json,
		ttl:   ttl,
	}
}

// Key renders the cache key for a request URL
func (c *ResultCache) Key(url string) string {
	return hardwarePrefix + strings.ToLower(url)
}

// GetPage returns the cached page for a request URL. Any read or decode
// error is treated as a miss.
func (c *ResultCache) GetPage(ctx context.Context, url string) (domain.AssetPage, bool) {
	key := c.Key(url)

	value, found, err := c.store.Get(ctx, key)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to read cached page", zap.String("key", key), zap.Error(err))
		return domain.AssetPage{}, false
	}
	if !found {
		return domain.AssetPage{}, false
	}

	var page domain.AssetPage
	if err := c.json.Unmarshal(value, &page); err != nil {
		logger.WarnCtx(ctx, "Failed to decode cached page", zap.String("key", key), zap.Error(err))
		return domain.AssetPage{}, false
	}
	return page, true
}

// SetPage caches a rendered page for a request URL. Write failures are
// logged and swallowed; caching is best-effort.
func (c *ResultCache) SetPage(ctx context.Context, url string, page domain.AssetPage) {
	key := c.Key(url)

	value, err := c.json.Marshal(page)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to encode page for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.Set(ctx, key, value, c.ttl); err != nil {
		logger.WarnCtx(ctx, "Failed to write cached page", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateOwners removes every hardware cache entry whose key contains
// any of the given owner addresses, case-insensitively. It returns the
// removed keys. Errors degrade to an empty result.
func (c *ResultCache) InvalidateOwners(ctx context.Context, owners []string) []string {
	if len(owners) == 0 {
		return []string{}
	}

	keys, err := c.store.Keys(ctx, hardwarePrefix+"*")
	if err != nil {
		logger.ErrorCtx(ctx, "Failed to list cache keys for invalidation", zap.Error(err))
		return []string{}
	}

	lowered := make([]string, 0, len(owners))
	for _, owner := range owners {
		lowered = append(lowered, strings.ToLower(owner))
	}

	var matched []string
	for _, key := range keys {
		for _, owner := range lowered {
			if strings.Contains(key, owner) {
				matched = append(matched, key)
				break
			}
		}
	}
	if len(matched) == 0 {
		return []string{}
	}

	if err := c.store.Del(ctx, matched...); err != nil {
		logger.ErrorCtx(ctx, "Failed to delete cache keys", zap.Strings("keys", matched), zap.Error(err))
		return []string{}
	}

	logger.InfoCtx(ctx, "Invalidated hardware cache entries", zap.Strings("keys", matched))
	return matched
}

// HardwareKeys returns every hardware cache key currently stored
func (c *ResultCache) HardwareKeys(ctx context.Context) []string {
	keys, err := c.store.Keys(ctx, hardwarePrefix+"*")
	if err != nil {
		logger.ErrorCtx(ctx, "Failed to list hardware cache keys", zap.Error(err))
		return []string{}
	}
	if keys == nil {
		keys = []string{}
	}
	return keys
}

// AllKeys returns every cache key currently stored
func (c *ResultCache) AllKeys(ctx context.Context) []string {
	keys, err := c.store.Keys(ctx, "*")
	if err != nil {
		logger.ErrorCtx(ctx, "Failed to list cache keys", zap.Error(err))
		return []string{}
	}
	if keys == nil {
		keys = []string{}
	}
	return keys
}
