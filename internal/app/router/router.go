// Package router はHTTPルーティングを組み立てます。
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"fiction_backend/internal/app/config"
	authhandler "fiction_backend/internal/feature/auth/transport/handler"
	fictionhandler "fiction_backend/internal/feature/fiction/transport/handler"
	"fiction_backend/internal/platform/http/apierror"
	"fiction_backend/internal/platform/http/handler"
	"fiction_backend/internal/platform/http/middleware"
	jwtmw "fiction_backend/internal/platform/jwt"
	"fiction_backend/internal/shared/ratelimiter"
)

// Deps はルーターが必要とするハンドラーとミドルウェアです。
// レートリミッターがnilの場合、そのグループの制限は無効になります。
type Deps struct {
	Auth        *authhandler.AuthHandler
	Fictions    *fictionhandler.FictionHandler
	System      *handler.SystemHandler
	Verifier    jwtmw.Verifier
	AuthLimiter ratelimiter.Limiter
	APILimiter  ratelimiter.Limiter
	// Metrics がnilの場合、/metrics は公開されません。
	Metrics *middleware.Metrics
}

func NewRouter(cfg config.Config, d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), apierror.Recovery(cfg.Debug), apierror.Handler(cfg.Debug))
	r.Use(cors.New(corsConfig(cfg)))
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
		r.GET("/metrics", d.Metrics.Handler())
	}

	// 認証不要
	// 導通確認用
	r.GET("/", d.System.Root)
	r.GET("/health", d.System.Health)
	r.HEAD("/health", d.System.Health)
	r.OPTIONS("/health", d.System.Health)

	r.NoRoute(apierror.NotFound)

	api := r.Group(cfg.APIPrefix)

	// 新規ユーザー登録とログイン（JWT 発行）
	auth := api.Group("/auth")
	if d.AuthLimiter != nil {
		auth.Use(ratelimiter.Middleware("auth", d.AuthLimiter))
	}
	{
		auth.POST("/register", d.Auth.Register)
		auth.POST("/login", d.Auth.Login)
	}

	fictions := api.Group("/fictions")
	if d.APILimiter != nil {
		fictions.Use(ratelimiter.Middleware("api", d.APILimiter))
	}
	{
		fictions.GET("", d.Fictions.List)
		fictions.GET("/:id", d.Fictions.Get)

		// 認証必須
		// → リクエストヘッダーに JWT が必要になる
		requireAuth := jwtmw.AuthRequired(d.Verifier)
		fictions.POST("", requireAuth, d.Fictions.Create)
		fictions.PUT("/:id", requireAuth, d.Fictions.Update)
		fictions.DELETE("/:id", requireAuth, d.Fictions.Delete)
	}

	return r
}

func corsConfig(cfg config.Config) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodHead, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if cfg.AllowAllOrigins() {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORSOrigins
		c.AllowCredentials = true
	}
	return c
}
