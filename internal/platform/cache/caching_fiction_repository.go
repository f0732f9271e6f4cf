// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"fiction_backend/internal/feature/fiction/domain/entity"
	"fiction_backend/internal/feature/fiction/usecase"
)

// CachingFictionRepository decorates a FictionRepository with Redis caching.
// Public reads (FindAll, FindByID) are served from the cache; ownership
// lookups always hit the underlying store.
//
// Cache keys embed a namespace generation (ns:gen). Every successful mutation
// increments the generation, so entries written by readers that loaded a row
// before the mutation are never read again and expire with their TTL.
type CachingFictionRepository struct {
	inner     usecase.FictionRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.FictionRepository = (*CachingFictionRepository)(nil)

// NewCachingFictionRepository decorates a FictionRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "fictions".
func NewCachingFictionRepository(rdb *redis.Client, ttl time.Duration, inner usecase.FictionRepository, namespace string) *CachingFictionRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "fictions"
	}
	return &CachingFictionRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// FindAll retrieves fictions, checking cache first then falling back to the store.
func (c *CachingFictionRepository) FindAll(ctx context.Context, limit int) ([]*entity.Fiction, error) {
	if c.rdb == nil {
		return c.inner.FindAll(ctx, limit)
	}
	gen, ok := c.generation(ctx)
	if !ok {
		return c.inner.FindAll(ctx, limit)
	}

	key := c.listKey(gen, limit)
	var out []*entity.Fiction
	if c.get(ctx, key, &out) {
		return out, nil
	}

	out, err := c.inner.FindAll(ctx, limit)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, out)
	return out, nil
}

// FindByID retrieves a single fiction, checking cache first.
// Not-found results are not cached.
func (c *CachingFictionRepository) FindByID(ctx context.Context, id string) (*entity.Fiction, error) {
	if c.rdb == nil {
		return c.inner.FindByID(ctx, id)
	}
	gen, ok := c.generation(ctx)
	if !ok {
		return c.inner.FindByID(ctx, id)
	}

	key := c.itemKey(gen, id)
	var out entity.Fiction
	if c.get(ctx, key, &out) {
		return &out, nil
	}

	f, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, f)
	return f, nil
}

// FindByIDAndOwner is never cached.
func (c *CachingFictionRepository) FindByIDAndOwner(ctx context.Context, id, owner string) (*entity.Fiction, error) {
	return c.inner.FindByIDAndOwner(ctx, id, owner)
}

// Create stores the fiction and invalidates the cache.
func (c *CachingFictionRepository) Create(ctx context.Context, f *entity.Fiction) error {
	if err := c.inner.Create(ctx, f); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// UpdateFields updates the fiction and invalidates the cache.
func (c *CachingFictionRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	if err := c.inner.UpdateFields(ctx, id, fields); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// DeleteByIDAndOwner deletes the fiction and, if anything was removed, invalidates the cache.
func (c *CachingFictionRepository) DeleteByIDAndOwner(ctx context.Context, id, owner string) (int64, error) {
	n, err := c.inner.DeleteByIDAndOwner(ctx, id, owner)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		c.invalidate(ctx)
	}
	return n, nil
}

// generation returns the current cache generation. ok is false when Redis
// cannot be read, in which case the caller bypasses the cache.
func (c *CachingFictionRepository) generation(ctx context.Context) (gen int64, ok bool) {
	gen, err := c.rdb.Get(ctx, c.genKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		slog.Warn("fiction cache generation unavailable", "error", err)
		return 0, false
	}
	return gen, true
}

// invalidate moves readers to a new generation.
func (c *CachingFictionRepository) invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Incr(ctx, c.genKey()).Err(); err != nil {
		slog.Warn("fiction cache invalidation failed", "error", err)
	}
}

// get decodes the cached value at key into dst and reports whether it was a hit.
func (c *CachingFictionRepository) get(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// set stores v at key (best effort).
func (c *CachingFictionRepository) set(ctx context.Context, key string, v any) {
	if b, err := json.Marshal(v); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
}

func (c *CachingFictionRepository) genKey() string {
	return c.namespace + ":gen"
}

func (c *CachingFictionRepository) listKey(gen int64, limit int) string {
	return fmt.Sprintf("%s:g%d:list:%d", c.namespace, gen, limit)
}

func (c *CachingFictionRepository) itemKey(gen int64, id string) string {
	return fmt.Sprintf("%s:g%d:id:%s", c.namespace, gen, safe(id))
}
