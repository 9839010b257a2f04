package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkucode2025/wedemo2025-sub001/internal/config"
	"github.com/pkucode2025/wedemo2025-sub001/internal/logger"
	"github.com/pkucode2025/wedemo2025-sub001/internal/models"
)

func newTestCache(t *testing.T) (*RedisProfileCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisProfileCache(client, time.Minute, logger.Discard()), mr
}

func TestRedisProfileCache_RoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	user := models.PublicUser{ID: "u1", Username: "alice", DisplayName: "Alice", CreatedAt: time.Now().UTC().Truncate(time.Second)}

	_, ok := c.Get(ctx, "u1")
	assert.False(t, ok)

	c.Set(ctx, user)
	assert.True(t, mr.Exists("profile:u1"))
	assert.Equal(t, time.Minute, mr.TTL("profile:u1"))

	got, ok := c.Get(ctx, "u1")
	require.True(t, ok)
	assert.Equal(t, user, *got)

	c.Invalidate(ctx, "u1")
	_, ok = c.Get(ctx, "u1")
	assert.False(t, ok)
}

func TestRedisProfileCache_Expiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, models.PublicUser{ID: "u1"})
	mr.FastForward(2 * time.Minute)

	_, ok := c.Get(ctx, "u1")
	assert.False(t, ok)
}

func TestRedisProfileCache_CorruptEntry(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("profile:u1", "{not json"))

	_, ok := c.Get(context.Background(), "u1")
	assert.False(t, ok)
	assert.False(t, mr.Exists("profile:u1"))
}

func TestRedisProfileCache_ServerDown(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	ctx := context.Background()
	c.Set(ctx, models.PublicUser{ID: "u1"})
	_, ok := c.Get(ctx, "u1")
	assert.False(t, ok)
	c.Invalidate(ctx, "u1")
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	c, closeFn, err := Open(ctx, config.Redis{}, logger.Discard())
	require.NoError(t, err)
	assert.IsType(t, Nop{}, c)
	assert.NoError(t, closeFn())

	mr := miniredis.RunT(t)
	c, closeFn, err = Open(ctx, config.Redis{Addr: mr.Addr(), ProfileTTL: time.Minute}, logger.Discard())
	require.NoError(t, err)
	assert.IsType(t, &RedisProfileCache{}, c)
	assert.NoError(t, closeFn())

	_, _, err = Open(ctx, config.Redis{Addr: "127.0.0.1:1"}, logger.Discard())
	assert.Error(t, err)
}
