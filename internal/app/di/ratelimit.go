package di

import (
	"github.com/redis/go-redis/v9"

	"fiction_backend/internal/shared/ratelimiter"
)

// RateLimiters holds the limiters for the auth and API route groups.
// Both are nil when rate limiting is disabled.
type RateLimiters struct {
	Auth ratelimiter.Limiter
	API  ratelimiter.Limiter
}

// NewRateLimiters creates Redis-backed limiters when rdb is non-nil and
// in-memory limiters otherwise.
func NewRateLimiters(rdb *redis.Client, cfg ratelimiter.Config) RateLimiters {
	if !cfg.Enabled {
		return RateLimiters{}
	}
	return RateLimiters{
		Auth: ratelimiter.New(rdb, cfg.Prefix, cfg.Auth),
		API:  ratelimiter.New(rdb, cfg.Prefix, cfg.API),
	}
}
