package di

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	catalogusecase "music_backend/internal/feature/catalog/usecase"
	"music_backend/internal/platform/cache"
)

// Options はハンドラー層の上限値です。
type Options struct {
	DBTimeout      time.Duration
	BlobTimeout    time.Duration
	CacheTTL       time.Duration
	MaxUploadBytes int64
}

// DefaultMaxUploadBytes は1リクエストのアップロード上限（100MiB）です。
const DefaultMaxUploadBytes = 100 << 20

// LoadOptionsFromEnv reads DB_TIMEOUT, BLOB_TIMEOUT, CACHE_TTL and MAX_UPLOAD_BYTES.
// Invalid values fall back to the defaults with a warning.
func LoadOptionsFromEnv() Options {
	return Options{
		DBTimeout:      getEnvDuration("DB_TIMEOUT", catalogusecase.DefaultReadTimeout),
		BlobTimeout:    getEnvDuration("BLOB_TIMEOUT", catalogusecase.DefaultBlobTimeout),
		CacheTTL:       getEnvDuration("CACHE_TTL", cache.DefaultTTL),
		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes),
	}
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration, using default", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return d
}

func getEnvInt64(key string, fallback int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("invalid integer, using default", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return n
}
