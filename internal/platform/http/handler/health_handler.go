// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"music_backend/internal/api"
)

// pingTimeout はDB疎通確認の上限時間です。
const pingTimeout = 2 * time.Second

// Pinger は疎通確認ができる依存先です。*sql.DB が満たします。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health は /healthz エンドポイントのハンドラーを返します。
// db が nil の場合はプロセスの生存のみを返します。
func Health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 明示的にキャッシュを防止
		c.Header("Cache-Control", "no-store")

		switch c.Request.Method {
		case http.MethodHead:
			c.Status(http.StatusOK)
			return
		case http.MethodOptions:
			c.Status(http.StatusNoContent)
			return
		}

		if db == nil {
			c.JSON(http.StatusOK, api.HealthResponse{Status: "ok"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			slog.Error("health check: database unreachable", "error", err)
			c.JSON(http.StatusServiceUnavailable, api.HealthResponse{Status: "degraded", DB: "unreachable"})
			return
		}
		c.JSON(http.StatusOK, api.HealthResponse{Status: "ok", DB: "ok"})
	}
}
