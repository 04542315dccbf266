// Package cache keeps resolved permission codes in Redis.
//
// Entries live under a generation number. Invalidate increments the
// generation, which orphans every entry at once; orphans expire by TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how long an orphaned entry lingers
const DefaultTTL = 10 * time.Minute

// PermissionCache implements services.PermissionCache on Redis
type PermissionCache struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewPermissionCache creates a cache. An empty prefix uses "clubhub".
func NewPermissionCache(client redis.Cmdable, prefix string, ttl time.Duration) *PermissionCache {
	if prefix == "" {
		prefix = "clubhub"
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &PermissionCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *PermissionCache) generationKey() string {
	return c.prefix + ":perm:generation"
}

func (c *PermissionCache) entryKey(generation int64, accountID uint) string {
	return fmt.Sprintf("%s:perm:v%d:%d", c.prefix, generation, accountID)
}

func (c *PermissionCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, c.generationKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Get returns the cached codes for the current generation
func (c *PermissionCache) Get(ctx context.Context, accountID uint) ([]string, int64, bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, 0, false, err
	}

	raw, err := c.client.Get(ctx, c.entryKey(gen, accountID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, gen, false, err
	}

	var codes []string
	if err := json.Unmarshal(raw, &codes); err != nil {
		// a corrupt entry is a miss; the caller overwrites it
		return nil, gen, false, nil
	}
	return codes, gen, true, nil
}

// Set stores codes under the given generation
func (c *PermissionCache) Set(ctx context.Context, accountID uint, generation int64, codes []string) error {
	raw, err := json.Marshal(codes)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.entryKey(generation, accountID), raw, c.ttl).Err()
}

// Invalidate starts a new generation
func (c *PermissionCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, c.generationKey()).Err()
}
