// Package router assembles the gin engine and its route table.
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "music_backend/internal/feature/auth/transport/handler"
	cataloghandler "music_backend/internal/feature/catalog/transport/handler"
	playlisthandler "music_backend/internal/feature/playlist/transport/handler"
	"music_backend/internal/platform/http/handler"
	"music_backend/internal/platform/http/middleware"
	jwtmw "music_backend/internal/platform/jwt"
)

// Config はルータが必要とするハンドラーとミドルウェアの依存です。
type Config struct {
	Auth      *authhandler.AuthHandler
	Tracks    *cataloghandler.TrackHandler
	Upload    *cataloghandler.UploadHandler
	Playlists *playlisthandler.PlaylistHandler

	Verifier jwtmw.TokenVerifier
	// AuthLimiter が nil の場合 /auth はレート制限なし
	AuthLimiter middleware.Limiter
	// DB が nil の場合 /healthz はDBを確認しない
	DB handler.Pinger

	// CORSOrigins が空の場合は全オリジン許可
	CORSOrigins []string
}

func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog(), newCORS(cfg.CORSOrigins))

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health(cfg.DB))
	r.HEAD("/healthz", handler.Health(cfg.DB))
	// トラック一覧
	r.GET("/tracks", cfg.Tracks.List)
	// 署名付きURL発行（/tracks/stream/:id は旧フロントエンド向けの別名）
	r.GET("/stream/:id", cfg.Tracks.Stream)
	r.GET("/tracks/stream/:id", cfg.Tracks.Stream)

	authGroup := r.Group("/auth")
	limited := authGroup.Group("")
	if cfg.AuthLimiter != nil {
		limited.Use(middleware.RateLimit(cfg.AuthLimiter))
	}
	// 新規ユーザー登録
	limited.POST("/register", cfg.Auth.Register)
	// ログイン（JWT 発行）
	limited.POST("/login", cfg.Auth.Login)

	// 認証必須のルート
	required := jwtmw.AuthRequired(cfg.Verifier)
	authGroup.POST("/logout", required, cfg.Auth.Logout)

	protected := r.Group("/", required)
	{
		protected.POST("/upload", cfg.Upload.Upload)
		protected.POST("/playlists", cfg.Playlists.Create)
		protected.GET("/playlists/me", cfg.Playlists.ListMine)
		protected.POST("/playlists/:id/tracks", cfg.Playlists.AddTrack)
	}

	return r
}

func newCORS(origins []string) gin.HandlerFunc {
	c := cors.DefaultConfig()
	if len(origins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	c.AddAllowHeaders("Authorization", middleware.HeaderRequestID)
	c.AddExposeHeaders(middleware.HeaderRequestID)
	c.MaxAge = 12 * time.Hour
	return cors.New(c)
}
