// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"music_backend/internal/feature/catalog/domain/entity"
	"music_backend/internal/feature/catalog/usecase"
)

// DefaultTTL は一覧キャッシュの保持期間です。
const DefaultTTL = 5 * time.Minute

// CachingCatalogRepository decorates a CatalogRepository with a Redis copy of
// the track list. The copy is stored under a generation number; adding a track
// bumps the generation, so a list read before the insert and written back
// afterwards lands on a key nobody reads any more.
type CachingCatalogRepository struct {
	inner     usecase.CatalogRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.CatalogRepository = (*CachingCatalogRepository)(nil)

// NewCachingCatalogRepository decorates inner with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "tracks".
// A nil rdb disables caching.
func NewCachingCatalogRepository(rdb *redis.Client, ttl time.Duration, inner usecase.CatalogRepository, namespace string) *CachingCatalogRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = "tracks"
	}
	return &CachingCatalogRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// ListTracks checks the cache first then falls back to the database.
func (c *CachingCatalogRepository) ListTracks(ctx context.Context) ([]entity.TrackListing, error) {
	if c.rdb == nil {
		return c.inner.ListTracks(ctx)
	}

	gen, err := c.rdb.Get(ctx, c.genKey()).Result()
	switch {
	case errors.Is(err, redis.Nil):
		gen = "0"
	case err != nil:
		// 世代が分からなければキャッシュを使わない
		slog.Warn("track cache unavailable", "error", err, "key", c.genKey())
		return c.inner.ListTracks(ctx)
	}
	key := c.listKey(gen)

	// 1) キャッシュ確認
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.TrackListing
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// 壊れたエントリは削除
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) DBへフォールバック
	out, err := c.inner.ListTracks(ctx)
	if err != nil {
		return nil, err
	}

	// 3) ベストエフォートで保存
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return out, nil
}

// CreateTrack inserts the track and invalidates the cached list.
func (c *CachingCatalogRepository) CreateTrack(ctx context.Context, t *entity.Track) error {
	if err := c.inner.CreateTrack(ctx, t); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}
	// 失敗しても古い世代の一覧は TTL で消える
	if err := c.rdb.Incr(ctx, c.genKey()).Err(); err != nil {
		slog.Warn("track cache invalidation failed", "error", err, "key", c.genKey())
	}
	return nil
}

func (c *CachingCatalogRepository) UpsertArtist(ctx context.Context, name string) (*entity.Artist, error) {
	return c.inner.UpsertArtist(ctx, name)
}

func (c *CachingCatalogRepository) UpsertAlbum(ctx context.Context, title string, artistID uint) (*entity.Album, error) {
	return c.inner.UpsertAlbum(ctx, title, artistID)
}

func (c *CachingCatalogRepository) FindTrackByID(ctx context.Context, id uint) (*entity.Track, error) {
	return c.inner.FindTrackByID(ctx, id)
}

func (c *CachingCatalogRepository) ListFileKeys(ctx context.Context) ([]string, error) {
	return c.inner.ListFileKeys(ctx)
}

// genKey は一覧の世代番号のキーです。
func (c *CachingCatalogRepository) genKey() string {
	return safe(c.namespace) + ":gen"
}

// listKey は世代 gen の一覧のキャッシュキーです。
func (c *CachingCatalogRepository) listKey(gen string) string {
	return safe(c.namespace) + ":all:" + gen
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
