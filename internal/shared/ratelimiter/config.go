package ratelimiter

import (
	"fmt"
	"os"
	"strconv"
)

const (
	defaultAuthRule = "5/15minutes"
	defaultAPIRule  = "100/15minutes"
	defaultPrefix   = "ratelimit"
)

// Config はレート制限の設定です。
type Config struct {
	Enabled bool
	// Auth は登録・ログインに適用するルールです。
	Auth Rule
	// API はフィクションAPIに適用するルールです。
	API    Rule
	Prefix string
}

// LoadConfig は環境変数からレート制限の設定を読み込みます。
func LoadConfig() (Config, error) {
	enabled := true
	if v := os.Getenv("RATE_LIMIT_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RATE_LIMIT_ENABLED %q: %w", v, err)
		}
		enabled = b
	}

	auth, err := ParseRule(getenv("AUTH_RATE_LIMIT", defaultAuthRule))
	if err != nil {
		return Config{}, err
	}
	api, err := ParseRule(getenv("API_RATE_LIMIT", defaultAPIRule))
	if err != nil {
		return Config{}, err
	}

	return Config{
		Enabled: enabled,
		Auth:    auth,
		API:     api,
		Prefix:  getenv("RATE_LIMIT_PREFIX", defaultPrefix),
	}, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
