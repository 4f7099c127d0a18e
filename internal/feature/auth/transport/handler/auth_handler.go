// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"music_backend/internal/api"
	"music_backend/internal/feature/auth/domain/entity"
	jwtmw "music_backend/internal/platform/jwt"
	"music_backend/internal/platform/http/respond"
	"music_backend/internal/shared/apperr"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Register は新規ユーザーを登録します。
	Register(ctx context.Context, name, email, password string) (*entity.User, error)
	// Login はユーザーを認証し、成功時にJWTトークンとユーザーを返します。
	Login(ctx context.Context, email, password string) (string, *entity.User, error)
	// Logout は提示されたトークンを失効させます。
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
}

var errInvalidBody = apperr.Validation("invalid request body")

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register はユーザー登録APIエンドポイントを処理します。
// - 必須項目の欠落・メール形式不正は400
// - メール重複も400
// - 成功時は201でユーザーを返却
func (h *AuthHandler) Register(c *gin.Context) {
	var req api.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		respond.Error(c, errInvalidBody)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Name, string(req.Email), req.Password)
	if err != nil {
		respond.Error(c, err)
		return
	}

	slog.Info("user registered", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login はユーザーログインAPIエンドポイントを処理します。
// - バリデーションエラー時は400
// - 認証失敗時は401（メール未登録とパスワード不一致を区別しない）
// - 成功時はJWTトークンとユーザー付きで200
func (h *AuthHandler) Login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		respond.Error(c, apperr.Validation("email and password are required"))
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respond.Error(c, err)
		return
	}

	slog.Info("user login successful", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.LoginResponse{Token: token, User: toUserResponse(user)})
}

// Logout は現在のトークンを失効させます。AuthRequired の後段で使います。
func (h *AuthHandler) Logout(c *gin.Context) {
	id, ok := jwtmw.IdentityFrom(c)
	if !ok {
		respond.Error(c, apperr.Unauthorized("invalid or expired token"))
		return
	}

	if err := h.auth.Logout(c.Request.Context(), id.TokenID, id.ExpiresAt); err != nil {
		respond.Error(c, err)
		return
	}

	slog.Info("user logout", "user_id", id.UserID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.MessageResponse{Message: "ok"})
}

func toUserResponse(u *entity.User) api.UserResponse {
	return api.UserResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}
