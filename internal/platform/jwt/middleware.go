package jwtmw

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"music_backend/internal/api"
)

const (
	ContextUserID   = "userID"
	ContextIdentity = "identity"

	bearerPrefix = "Bearer "
)

// TokenVerifier validates a raw bearer token.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// Identity is the authenticated caller attached to the request.
type Identity struct {
	UserID    uint
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

// AuthRequired returns a Gin middleware function that validates JWT tokens
// and restricts access to authenticated users only.
func AuthRequired(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, bearerPrefix) {
			unauthorized(c)
			return
		}
		tokenStr := strings.TrimPrefix(auth, bearerPrefix)
		if tokenStr == "" {
			unauthorized(c)
			return
		}

		claims, err := v.Verify(c.Request.Context(), tokenStr)
		if err != nil {
			unauthorized(c)
			return
		}

		id := Identity{
			UserID:  claims.UserID,
			Email:   claims.Email,
			TokenID: claims.ID,
		}
		if claims.ExpiresAt != nil {
			id.ExpiresAt = claims.ExpiresAt.Time
		}
		c.Set(ContextIdentity, id)
		c.Set(ContextUserID, id.UserID)
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: ErrInvalidToken.Error()})
}

// IdentityFrom returns the identity stored by AuthRequired.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(ContextIdentity)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// UserIDFrom returns the authenticated user id.
func UserIDFrom(c *gin.Context) (uint, bool) {
	id, ok := IdentityFrom(c)
	if !ok || id.UserID == 0 {
		return 0, false
	}
	return id.UserID, true
}
