// Package config はアプリケーション全体の設定を環境変数から読み込みます。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ストアドライバー
const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Config はアプリケーション設定です。
type Config struct {
	AppName     string
	AppVersion  string
	Debug       bool
	Port        string
	APIPrefix   string
	CORSOrigins []string
	StoreDriver string
	// ListLimit は GET /fictions が返す最大件数です。
	ListLimit int
	CacheTTL  time.Duration
}

// Addr はhttp.Serverに渡すリッスンアドレスを返します。
func (c Config) Addr() string {
	return ":" + c.Port
}

// AllowAllOrigins はCORS_ORIGINSが "*" の場合にtrueを返します。
func (c Config) AllowAllOrigins() bool {
	for _, o := range c.CORSOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

// LoadConfig は環境変数から設定を読み込みます。
// 未設定の値にはデフォルトを使い、不正な値はエラーを返します。
func LoadConfig() (Config, error) {
	cfg := Config{
		AppName:     getenv("APP_NAME", "Fictions API"),
		AppVersion:  getenv("APP_VERSION", "1.0.0"),
		Port:        getenv("PORT", "3000"),
		APIPrefix:   normalizePrefix(getenv("API_PREFIX", "/api")),
		CORSOrigins: splitList(getenv("CORS_ORIGINS", "*")),
		StoreDriver: strings.ToLower(getenv("STORE_DRIVER", StoreMongo)),
		ListLimit:   1000,
		CacheTTL:    5 * time.Minute,
	}

	if v := os.Getenv("DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DEBUG %q: %w", v, err)
		}
		cfg.Debug = b
	}

	switch cfg.StoreDriver {
	case StoreMongo, StorePostgres, StoreSQLite:
	default:
		return Config{}, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}

	if v := os.Getenv("FICTIONS_LIST_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid FICTIONS_LIST_LIMIT %q", v)
		}
		cfg.ListLimit = n
	}

	if v := os.Getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid CACHE_TTL %q", v)
		}
		cfg.CacheTTL = d
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// normalizePrefix は "/api/" や "api" を "/api" に揃えます。"/" は空文字になります。
func normalizePrefix(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return ""
	}
	return "/" + p
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
