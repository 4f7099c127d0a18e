package jwtmw

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every rejected token regardless of cause.
var ErrInvalidToken = errors.New("invalid or expired token")

// leeway absorbs the second granularity of exp.
const leeway = time.Second

// RevocationChecker reports whether a token id was revoked before expiry.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type verifier struct {
	secret  []byte
	revoked RevocationChecker
	now     func() time.Time
}

// NewVerifier returns a verifier for HS256 tokens signed with secret.
// revoked may be nil, in which case revocation is not checked.
func NewVerifier(secret string, revoked RevocationChecker, opts ...Option) TokenVerifier {
	o := buildOptions(opts)
	return &verifier{
		secret:  []byte(secret),
		revoked: revoked,
		now:     o.now,
	}
}

// Verify parses tokenStr and returns its claims.
func (v *verifier) Verify(ctx context.Context, tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims,
		func(t *jwt.Token) (interface{}, error) {
			// HMAC 以外（none 含む）は拒否
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return v.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(leeway),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == 0 || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	if v.revoked != nil {
		revoked, err := v.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			slog.Error("revocation check failed", "error", err, "jti", claims.ID)
			return nil, ErrInvalidToken
		}
		if revoked {
			return nil, ErrInvalidToken
		}
	}
	return claims, nil
}
