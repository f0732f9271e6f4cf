package di

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	platformredis "fiction_backend/internal/platform/redis"
)

// NewRedis returns a connected Redis client, or nil when Redis is not configured
// or unreachable. Callers fall back to in-process implementations on nil.
func NewRedis(ctx context.Context) *redis.Client {
	cfg := platformredis.LoadConfig()
	if !cfg.Enabled() {
		slog.Info("REDIS_HOST not set, running without Redis")
		return nil
	}

	rdb, err := platformredis.NewRedisClient(ctx, cfg)
	if err != nil {
		slog.Warn("Redis unavailable, running without cache and with in-memory rate limits", "addr", cfg.Addr(), "error", err)
		return nil
	}
	return rdb
}
