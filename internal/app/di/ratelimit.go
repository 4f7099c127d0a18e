package di

import (
	"time"

	"github.com/redis/go-redis/v9"

	"music_backend/internal/shared/ratelimiter"
)

// /auth 配下の上限（IP・パスごと）
const (
	authRateLimit  = 10
	authRateWindow = time.Minute
)

// NewAuthLimiter returns a Redis fixed window shared by all replicas, or a
// per-process token bucket when Redis is not configured.
func NewAuthLimiter(rdb *redis.Client) ratelimiter.Limiter {
	if rdb != nil {
		return ratelimiter.NewRedisWindow(rdb, "ratelimit:auth", authRateLimit, authRateWindow)
	}
	return ratelimiter.NewLocal(authRateLimit, authRateWindow)
}
