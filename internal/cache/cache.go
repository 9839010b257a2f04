package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/pkucode2025/wedemo2025-sub001/internal/config"
	"github.com/pkucode2025/wedemo2025-sub001/internal/models"
)

// ProfileCache keeps public profiles in front of the users table. A miss or
// any cache failure falls back to the database, so implementations never
// return errors to callers.
type ProfileCache interface {
	Get(ctx context.Context, userID string) (*models.PublicUser, bool)
	Set(ctx context.Context, user models.PublicUser)
	Invalidate(ctx context.Context, userID string)
}

const profileKeyPrefix = "profile:"

func profileKey(userID string) string {
	return profileKeyPrefix + userID
}

// RedisProfileCache stores profiles as JSON strings with a TTL.
type RedisProfileCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

func NewRedisProfileCache(client *redis.Client, ttl time.Duration, log *slog.Logger) *RedisProfileCache {
	return &RedisProfileCache{client: client, ttl: ttl, log: log}
}

func (c *RedisProfileCache) Get(ctx context.Context, userID string) (*models.PublicUser, bool) {
	raw, err := c.client.Get(ctx, profileKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.Warn("profile cache read failed", "userId", userID, "error", err)
		return nil, false
	}

	var user models.PublicUser
	if err := json.Unmarshal(raw, &user); err != nil {
		c.log.Warn("profile cache entry corrupt", "userId", userID, "error", err)
		c.Invalidate(ctx, userID)
		return nil, false
	}
	return &user, true
}

func (c *RedisProfileCache) Set(ctx context.Context, user models.PublicUser) {
	raw, err := json.Marshal(user)
	if err != nil {
		c.log.Warn("profile cache encode failed", "userId", user.ID, "error", err)
		return
	}
	if err := c.client.Set(ctx, profileKey(user.ID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("profile cache write failed", "userId", user.ID, "error", err)
	}
}

func (c *RedisProfileCache) Invalidate(ctx context.Context, userID string) {
	if err := c.client.Del(ctx, profileKey(userID)).Err(); err != nil {
		c.log.Warn("profile cache invalidate failed", "userId", userID, "error", err)
	}
}

// Nop is used when no Redis address is configured.
type Nop struct{}

func (Nop) Get(context.Context, string) (*models.PublicUser, bool) { return nil, false }
func (Nop) Set(context.Context, models.PublicUser)                 {}
func (Nop) Invalidate(context.Context, string)                     {}

// Open connects to Redis when cfg.Addr is set and returns the matching
// cache. The returned close func is always safe to call.
func Open(ctx context.Context, cfg config.Redis, log *slog.Logger) (ProfileCache, func() error, error) {
	if cfg.Addr == "" {
		log.Info("redis not configured, profile cache disabled")
		return Nop{}, func() error { return nil }, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, errors.Wrapf(err, "ping redis at %s", cfg.Addr)
	}

	log.Info("redis connected", "addr", cfg.Addr)
	return NewRedisProfileCache(client, cfg.ProfileTTL, log), client.Close, nil
}
