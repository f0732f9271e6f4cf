// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"fiction_backend/internal/app/config"
	authadapters "fiction_backend/internal/feature/auth/adapters"
	authusecase "fiction_backend/internal/feature/auth/usecase"
	fictionadapters "fiction_backend/internal/feature/fiction/adapters"
	fictionusecase "fiction_backend/internal/feature/fiction/usecase"
	"fiction_backend/internal/platform/cache"
	platformdb "fiction_backend/internal/platform/db"
	platformmongo "fiction_backend/internal/platform/mongo"
)

// Store bundles the repositories of the selected storage backend and its teardown hook.
type Store struct {
	Users    authusecase.UserRepository
	Fictions fictionusecase.FictionRepository

	closeFn func(ctx context.Context) error
}

// Close releases the underlying connection.
func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.closeFn == nil {
		return nil
	}
	return s.closeFn(ctx)
}

// NewStore connects to the backend named by driver and returns its repositories.
// The connection is verified before returning.
func NewStore(ctx context.Context, driver string) (*Store, error) {
	switch driver {
	case config.StoreMongo:
		client, db, err := platformmongo.Connect(ctx, platformmongo.LoadConfigFromEnv())
		if err != nil {
			return nil, err
		}
		slog.Info("connected to MongoDB", "database", db.Name())
		return &Store{
			Users:    authadapters.NewUserMongo(db),
			Fictions: fictionadapters.NewFictionMongo(db),
			closeFn:  client.Disconnect,
		}, nil

	case config.StorePostgres, config.StoreSQLite:
		gdb, err := platformdb.OpenDB(platformdb.LoadConfigFromEnv(driver),
			&authadapters.UserModel{}, &fictionadapters.FictionModel{})
		if err != nil {
			return nil, err
		}
		slog.Info("connected to SQL database", "driver", driver)
		return &Store{
			Users:    authadapters.NewUserGorm(gdb),
			Fictions: fictionadapters.NewFictionGorm(gdb),
			closeFn:  func(context.Context) error { return platformdb.Close(gdb) },
		}, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
}

// NewFictionRepository wraps repo with the Redis read cache when rdb is available.
func NewFictionRepository(rdb *redis.Client, ttl time.Duration, repo fictionusecase.FictionRepository) fictionusecase.FictionRepository {
	if rdb == nil {
		return repo
	}
	return cache.NewCachingFictionRepository(rdb, ttl, repo, "fictions")
}
