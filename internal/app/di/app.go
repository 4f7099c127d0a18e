// Package di provides dependency injection factories for creating application components.
package di

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"music_backend/internal/app/router"
	authadapters "music_backend/internal/feature/auth/adapters"
	authhandler "music_backend/internal/feature/auth/transport/handler"
	authusecase "music_backend/internal/feature/auth/usecase"
	catalogadapters "music_backend/internal/feature/catalog/adapters"
	cataloghandler "music_backend/internal/feature/catalog/transport/handler"
	catalogusecase "music_backend/internal/feature/catalog/usecase"
	playlistadapters "music_backend/internal/feature/playlist/adapters"
	playlisthandler "music_backend/internal/feature/playlist/transport/handler"
	playlistusecase "music_backend/internal/feature/playlist/usecase"
	"music_backend/internal/platform/blob"
	"music_backend/internal/platform/cache"
	jwtmw "music_backend/internal/platform/jwt"
)

// BlobStore はアップロード先かつ署名付きURLの発行元です。
type BlobStore interface {
	catalogusecase.BlobWriter
	catalogusecase.Presigner
}

// Deps は cmd/server で一度だけ生成する共有リソースです。
type Deps struct {
	DB *gorm.DB
	// Redis が nil の場合キャッシュなし、失効リストとレート制限はフォールバック実装
	Redis *redis.Client
	Blobs BlobStore
	JWT   jwtmw.Config
	// JWTOptions はテストで時計を差し替えるために使います
	JWTOptions  []jwtmw.Option
	Options     Options
	CORSOrigins []string
}

// NewRouter wires repositories, usecases and handlers and returns the engine.
func NewRouter(d Deps) (*gin.Engine, error) {
	if d.DB == nil || d.Blobs == nil {
		return nil, fmt.Errorf("di: database and blob store are required")
	}
	sqlDB, err := d.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("di: sql handle: %w", err)
	}

	// Repository
	userRepo := authadapters.NewUserPostgres(d.DB)
	revocations := NewRevocationStore(d.Redis, d.DB)
	catalogRepo := cache.NewCachingCatalogRepository(d.Redis, d.Options.CacheTTL, catalogadapters.NewCatalogPostgres(d.DB), "tracks")
	playlistRepo := playlistadapters.NewPlaylistPostgres(d.DB)

	// JWT
	generator := jwtmw.NewGenerator(d.JWT.Secret, d.JWT.TTL, d.JWTOptions...)
	verifier := jwtmw.NewVerifier(d.JWT.Secret, revocations, d.JWTOptions...)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, authadapters.NewBcryptHasher(0), generator, revocations)
	uploadUC := catalogusecase.NewUploadUsecase(catalogRepo, d.Blobs, blob.NewObjectKey, d.Options.BlobTimeout)
	trackUC := catalogusecase.NewTrackUsecase(catalogRepo, d.Blobs, d.Options.DBTimeout)
	playlistUC := playlistusecase.NewPlaylistUsecase(playlistRepo, d.Options.DBTimeout)

	// Handler
	cfg := router.Config{
		Auth:        authhandler.NewAuthHandler(authUC),
		Tracks:      cataloghandler.NewTrackHandler(trackUC),
		Upload:      cataloghandler.NewUploadHandler(uploadUC, d.Options.MaxUploadBytes),
		Playlists:   playlisthandler.NewPlaylistHandler(playlistUC),
		Verifier:    verifier,
		AuthLimiter: NewAuthLimiter(d.Redis),
		DB:          sqlDB,
		CORSOrigins: d.CORSOrigins,
	}
	return router.NewRouter(cfg), nil
}
