package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const renderKeyPrefix = "content:render:"

// RenderCache stores rendered pages in Redis, keyed by slug, locale and
// output format.
type RenderCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRenderCache(rdb *redis.Client, ttl time.Duration) *RenderCache {
	return &RenderCache{rdb: rdb, ttl: ttl}
}

func renderKey(slug, locale, format string) string {
	return fmt.Sprintf("%s%s:%s:%s", renderKeyPrefix, locale, slug, format)
}

// Get reports a miss as ("", false, nil).
func (c *RenderCache) Get(ctx context.Context, slug, locale, format string) (string, bool, error) {
	val, err := c.rdb.Get(ctx, renderKey(slug, locale, format)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read render cache: %w", err)
	}
	return val, true, nil
}

func (c *RenderCache) Set(ctx context.Context, slug, locale, format, value string) error {
	if err := c.rdb.Set(ctx, renderKey(slug, locale, format), value, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write render cache: %w", err)
	}
	return nil
}

// Invalidate drops every cached format of a document.
func (c *RenderCache) Invalidate(ctx context.Context, slug, locale string) error {
	keys, err := c.rdb.Keys(ctx, renderKey(slug, locale, "*")).Result()
	if err != nil {
		return fmt.Errorf("failed to list render cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate render cache: %w", err)
	}
	return nil
}
