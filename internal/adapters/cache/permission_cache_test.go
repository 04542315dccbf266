package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubhub/internal/core/services"
)

var _ services.PermissionCache = (*PermissionCache)(nil)

func TestKeysAreNamespacedByGeneration(t *testing.T) {
	c := NewPermissionCache(nil, "", 0)
	assert.Equal(t, "clubhub:perm:generation", c.generationKey())
	assert.Equal(t, "clubhub:perm:v3:42", c.entryKey(3, 42))
	assert.Equal(t, DefaultTTL, c.ttl)
}

// newLiveCache connects to TEST_REDIS_ADDR and isolates the test under a random prefix
func newLiveCache(t *testing.T) (*PermissionCache, context.Context) {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err())
	return NewPermissionCache(client, "clubhub-test-"+uuid.NewString(), time.Minute), ctx
}

func TestRoundTripAndInvalidate(t *testing.T) {
	c, ctx := newLiveCache(t)

	_, gen, hit, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, 1, gen, []string{"club:create"}))
	codes, _, hit, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"club:create"}, codes)

	require.NoError(t, c.Invalidate(ctx))
	_, _, hit, err = c.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestFillRacingInvalidateIsStranded(t *testing.T) {
	c, ctx := newLiveCache(t)

	_, gen, _, err := c.Get(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx))
	require.NoError(t, c.Set(ctx, 1, gen, []string{"stale"}))

	_, _, hit, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, hit)
}
