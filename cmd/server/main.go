package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"music_backend/internal/app/di"
	"music_backend/internal/platform/blob"
	infradb "music_backend/internal/platform/db"
	jwtmw "music_backend/internal/platform/jwt"
	"music_backend/internal/platform/logging"
	infraredis "music_backend/internal/platform/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}
	logging.Setup()

	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// JWT_SECRET は必須
	jwtCfg, err := jwtmw.LoadConfig()
	if err != nil {
		return err
	}

	// db
	db, err := infradb.OpenDB()
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer func() { _ = sqlDB.Close() }()
	}
	if os.Getenv("RUN_MIGRATIONS") == "true" {
		if err := di.Migrate(db); err != nil {
			return err
		}
		slog.Info("migrations applied")
	}

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx); err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("Failed to close Redis client", "error", err)
			}
		}()
	}

	// オブジェクトストア
	blobCfg, err := blob.LoadConfig()
	if err != nil {
		return err
	}
	blobs, err := blob.NewMinioStore(blobCfg)
	if err != nil {
		return err
	}
	ensureCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = blobs.EnsureBucket(ensureCtx)
	cancel()
	if err != nil {
		return err
	}

	router, err := di.NewRouter(di.Deps{
		DB:          db,
		Redis:       rdb,
		Blobs:       blobs,
		JWT:         jwtCfg,
		Options:     di.LoadOptionsFromEnv(),
		CORSOrigins: splitOrigins(os.Getenv("CORS_ORIGINS")),
	})
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// splitOrigins はカンマ区切りのオリジン一覧を分割します。
func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
