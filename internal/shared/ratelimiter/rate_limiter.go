// Package ratelimiter は、キー（クライアントIP等）単位で操作の頻度を制限します。
package ratelimiter

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Limiter は key ごとに1回の操作を許可するか判定します。
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisWindow は Redis 上の固定ウィンドウカウンタです。
// 複数インスタンスで上限を共有します。
type RedisWindow struct {
	client *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

var _ Limiter = (*RedisWindow)(nil)

// NewRedisWindow は window あたり limit 回までを許可する RedisWindow を生成します。
func NewRedisWindow(client *redis.Client, prefix string, limit int, window time.Duration) *RedisWindow {
	return &RedisWindow{
		client: client,
		prefix: prefix,
		limit:  int64(limit),
		window: window,
	}
}

func (l *RedisWindow) Allow(ctx context.Context, key string) (bool, error) {
	k := fmt.Sprintf("%s:%s", l.prefix, key)
	var incr *redis.IntCmd
	// 期限のないカウンタには毎回期限を付け直す（NX なので既存の期限は延ばさない）
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, l.window)
		return nil
	})
	if err != nil {
		return false, err
	}
	return incr.Val() <= l.limit, nil
}

// Local はプロセス内のトークンバケットです。Redis 未設定時に使います。
type Local struct {
	mu        sync.Mutex
	entries   map[string]*localEntry
	every     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type localEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

var _ Limiter = (*Local)(nil)

// NewLocal は window あたり limit 回（バースト limit）を許可する Local を生成します。
func NewLocal(limit int, window time.Duration) *Local {
	return &Local{
		entries: make(map[string]*localEntry),
		every:   rate.Every(window / time.Duration(limit)),
		burst:   limit,
		idle:    window,
		now:     time.Now,
	}
}

func (l *Local) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	e, ok := l.entries[key]
	if !ok {
		e = &localEntry{lim: rate.NewLimiter(l.every, l.burst)}
		l.entries[key] = e
	}
	e.seen = now
	return e.lim.AllowN(now, 1), nil
}

// sweep は idle を超えて使われていないキーを削除します。呼び出し側でロック済み。
func (l *Local) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.idle {
		return
	}
	for k, e := range l.entries {
		if now.Sub(e.seen) >= l.idle {
			delete(l.entries, k)
		}
	}
	l.lastSweep = now
}
