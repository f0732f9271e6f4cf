package jwtmw

import (
	"os"
	"strconv"
	"time"
)

// Environment variable names read by LoadConfig.
const (
	EnvKeyJWTSecret          = "JWT_SECRET"
	EnvKeyJWTAlgorithm       = "JWT_ALGORITHM"
	EnvKeyJWTExpirationHours = "JWT_EXPIRATION_HOURS"
)

// DevSecret is used when JWT_SECRET is unset so that local runs work out of the box.
// It must never be used in production.
const DevSecret = "dev-secret-change-me-in-production-12345678"

// Config holds the token signing settings. It is loaded once at startup.
type Config struct {
	Secret     string        // HMAC signing secret
	Algorithm  string        // HS256, HS384 or HS512
	Expiration time.Duration // token lifetime
}

// LoadConfig loads JWT configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		Secret:     os.Getenv(EnvKeyJWTSecret),
		Algorithm:  os.Getenv(EnvKeyJWTAlgorithm),
		Expiration: 24 * time.Hour,
	}
	if cfg.Secret == "" {
		cfg.Secret = DevSecret
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = "HS256"
	}
	if h, err := strconv.Atoi(os.Getenv(EnvKeyJWTExpirationHours)); err == nil && h > 0 {
		cfg.Expiration = time.Duration(h) * time.Hour
	}
	return cfg
}
