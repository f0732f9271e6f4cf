// Package ratelimiter はクライアントごとのリクエスト頻度を制限するリミッターとginミドルウェアを提供します。
package ratelimiter

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Result は1回の判定結果です。
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter はキー（クライアント識別子）ごとにRuleを適用します。
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
	Rule() Rule
}

// MemoryLimiter はプロセス内のトークンバケットで制限します。
// 複数インスタンス間では共有されません。
type MemoryLimiter struct {
	rule    Rule
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// maxIdleBuckets を超えたら、window以上使われていないバケットを破棄します。
const maxIdleBuckets = 10000

var _ Limiter = (*MemoryLimiter)(nil)

// NewMemoryLimiter はruleを適用するMemoryLimiterを生成します。
func NewMemoryLimiter(rule Rule) *MemoryLimiter {
	return &MemoryLimiter{
		rule:    rule,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (m *MemoryLimiter) Rule() Rule { return m.rule }

// Allow はkeyのバケットからトークンを1つ消費します。
func (m *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.buckets[key]
	if !ok {
		if len(m.buckets) >= maxIdleBuckets {
			m.evictIdle(now)
		}
		every := rate.Every(m.rule.Window / time.Duration(m.rule.Limit))
		b = &bucket{lim: rate.NewLimiter(every, m.rule.Limit)}
		m.buckets[key] = b
	}
	b.lastSeen = now

	res := Result{Limit: m.rule.Limit}
	if b.lim.AllowN(now, 1) {
		res.Allowed = true
		res.Remaining = int(math.Max(0, math.Floor(b.lim.TokensAt(now))))
		return res, nil
	}

	r := b.lim.ReserveN(now, 1)
	res.RetryAfter = r.DelayFrom(now)
	r.CancelAt(now)
	return res, nil
}

func (m *MemoryLimiter) evictIdle(now time.Time) {
	for k, b := range m.buckets {
		if now.Sub(b.lastSeen) > m.rule.Window {
			delete(m.buckets, k)
		}
	}
}

// RedisLimiter はRedis上の固定ウィンドウカウンターで制限します。
// 複数インスタンス間で制限を共有できます。
type RedisLimiter struct {
	rdb    *redis.Client
	rule   Rule
	prefix string
}

var _ Limiter = (*RedisLimiter)(nil)

// NewRedisLimiter はキーにprefixを付けてカウントするRedisLimiterを生成します。
func NewRedisLimiter(rdb *redis.Client, prefix string, rule Rule) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, rule: rule, prefix: prefix}
}

func (l *RedisLimiter) Rule() Rule { return l.rule }

// Allow はウィンドウ内のカウントを1増やし、上限を超えていないかを判定します。
// 最初のリクエストでウィンドウの有効期限を設定します。
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	k := fmt.Sprintf("%s:%s", l.prefix, key)

	count, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return Result{}, fmt.Errorf("rate limit incr: %w", err)
	}
	if count == 1 {
		if err := l.rdb.PExpire(ctx, k, l.rule.Window).Err(); err != nil {
			return Result{}, fmt.Errorf("rate limit expire: %w", err)
		}
	}

	res := Result{Limit: l.rule.Limit}
	if count <= int64(l.rule.Limit) {
		res.Allowed = true
		res.Remaining = l.rule.Limit - int(count)
		return res, nil
	}

	ttl, err := l.rdb.PTTL(ctx, k).Result()
	if err != nil {
		return Result{}, fmt.Errorf("rate limit ttl: %w", err)
	}
	if ttl < 0 {
		// 有効期限の設定に失敗したキーが残らないようにする
		_ = l.rdb.PExpire(ctx, k, l.rule.Window).Err()
		ttl = l.rule.Window
	}
	res.RetryAfter = ttl
	return res, nil
}

// New はrdbがnilでなければRedisLimiterを、nilならMemoryLimiterを返します。
func New(rdb *redis.Client, prefix string, rule Rule) Limiter {
	if rdb == nil {
		return NewMemoryLimiter(rule)
	}
	return NewRedisLimiter(rdb, prefix, rule)
}
