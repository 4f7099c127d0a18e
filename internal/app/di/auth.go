package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "music_backend/internal/feature/auth/adapters"
	"music_backend/internal/feature/auth/usecase"
	"music_backend/internal/platform/session"
)

// NewRevocationStore creates a RevocationStore implementation.
// If Redis is available, it returns a Redis-backed implementation.
// Otherwise, it falls back to PostgreSQL.
func NewRevocationStore(rdb *redis.Client, db *gorm.DB) usecase.RevocationStore {
	if rdb != nil {
		return session.NewRevocationRedis(rdb, "revoked")
	}
	return authadapters.NewRevokedTokenPostgres(db)
}
