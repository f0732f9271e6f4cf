package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"fiction_backend/internal/app/config"
	"fiction_backend/internal/app/di"
	"fiction_backend/internal/app/router"
	authhandler "fiction_backend/internal/feature/auth/transport/handler"
	authusecase "fiction_backend/internal/feature/auth/usecase"
	fictionhandler "fiction_backend/internal/feature/fiction/transport/handler"
	fictionusecase "fiction_backend/internal/feature/fiction/usecase"
	"fiction_backend/internal/platform/http/handler"
	"fiction_backend/internal/platform/http/middleware"
	"fiction_backend/internal/platform/http/validation"
	jwtmw "fiction_backend/internal/platform/jwt"
	"fiction_backend/internal/platform/password"
	"fiction_backend/internal/shared/ratelimiter"
)

const (
	startupTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	setupLogger(cfg.Debug)

	rlCfg, err := ratelimiter.LoadConfig()
	if err != nil {
		return err
	}

	jwtCfg := jwtmw.LoadConfig()
	// JWT_SECRETチェック（開発中の注意喚起）
	if jwtCfg.Secret == jwtmw.DevSecret {
		slog.Warn("JWT_SECRET is not set. Set a strong secret in production.")
	}
	tokens, err := jwtmw.NewServiceFromConfig(jwtCfg)
	if err != nil {
		return err
	}

	if err := validation.Register(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	// Store
	store, err := di.NewStore(startCtx, cfg.StoreDriver)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}()

	// Redis（任意）
	rdb := di.NewRedis(startCtx)
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// Redisキャッシュでラップ
	fictionRepo := di.NewFictionRepository(rdb, cfg.CacheTTL, store.Fictions)
	limiters := di.NewRateLimiters(rdb, rlCfg)

	// Usecase
	authUC := authusecase.NewAuthUsecase(store.Users, password.NewHasher(password.LoadCostFromEnv()), tokens)
	fictionUC := fictionusecase.NewFictionUsecase(fictionRepo, cfg.ListLimit)

	// ルータ生成
	r := router.NewRouter(cfg, router.Deps{
		Auth:        authhandler.NewAuthHandler(authUC),
		Fictions:    fictionhandler.NewFictionHandler(fictionUC),
		System:      handler.NewSystemHandler(cfg.AppName, cfg.AppVersion, cfg.APIPrefix),
		Verifier:    tokens,
		AuthLimiter: limiters.Auth,
		APILimiter:  limiters.API,
		Metrics:     middleware.NewMetrics(),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			"app", cfg.AppName,
			"version", cfg.AppVersion,
			"addr", srv.Addr,
			"store", cfg.StoreDriver,
			"redis", rdb != nil,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}
