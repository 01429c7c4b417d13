// Package cache provides a Redis-backed cache for merged search results.
// The cache is strictly a hint: every failure is logged and treated as a
// miss, and entries are keyed by a stable hash of the search parameters.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kobykotiv/printvisionbolt-sub000/internal/domain"
)

const keyPrefix = "blueprints:search:"

// SearchCache caches merged blueprint search results in Redis.
type SearchCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewSearchCache creates the cache. ttl bounds how long a merged result is
// served before providers are queried again.
func NewSearchCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *SearchCache {
	return &SearchCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached result for the given params, if present.
func (c *SearchCache) Get(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, bool) {
	key, err := cacheKey(params)
	if err != nil {
		c.logger.WarnContext(ctx, "search cache key failed", slog.String("error", err.Error()))
		return nil, false
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "search cache get failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
		return nil, false
	}

	var res domain.SearchResult
	if err := json.Unmarshal(data, &res); err != nil {
		c.logger.WarnContext(ctx, "search cache entry corrupt, dropping",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		c.client.Del(ctx, key)
		return nil, false
	}

	return &res, true
}

// Set stores a merged result under the params' key.
func (c *SearchCache) Set(ctx context.Context, params domain.SearchParams, res domain.SearchResult) {
	key, err := cacheKey(params)
	if err != nil {
		c.logger.WarnContext(ctx, "search cache key failed", slog.String("error", err.Error()))
		return
	}

	data, err := json.Marshal(res)
	if err != nil {
		c.logger.WarnContext(ctx, "search cache marshal failed", slog.String("error", err.Error()))
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "search cache set failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

// cacheKey derives a stable key from the search params. JSON encoding of the
// struct is deterministic (fixed field order), so equal params hash equally.
func cacheKey(params domain.SearchParams) (string, error) {
	data, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("marshal search params: %w", err)
	}
	sum := sha256.Sum256(data)
	return keyPrefix + hex.EncodeToString(sum[:16]), nil
}
