// Package cache is a thin JSON cache over Redis for cheap-to-stale reads
// (record stats, provider status). A nil client disables caching; every
// method then reports a miss, so callers never branch on availability.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	KeyRecordStats    = "linecrm:records:stats"
	KeyProviderStatus = "linecrm:messages:provider-status"
)

type Cache struct {
	client *redis.Client
}

// New wraps a Redis client. client may be nil.
func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get unmarshals the cached value under key into dest. The boolean
// reports a hit; Redis errors degrade to a miss.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	if !c.Enabled() {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// Set stores value under key with a TTL. Failures are ignored; the cache
// is advisory.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if !c.Enabled() {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, raw, ttl)
}

// Invalidate drops a cached key after a write.
func (c *Cache) Invalidate(ctx context.Context, key string) {
	if !c.Enabled() {
		return
	}
	c.client.Del(ctx, key)
}
