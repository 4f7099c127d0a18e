package jwtmw

import (
	"errors"
	"fmt"
	"os"
	"time"
)

const (
	// EnvKeyJWTSecret は署名鍵を読み込む環境変数名です。
	EnvKeyJWTSecret = "JWT_SECRET"
	// EnvKeyJWTTTL はトークンの有効期間（time.ParseDuration 形式）です。
	EnvKeyJWTTTL = "JWT_TTL"

	// DefaultTTL is the token lifetime when JWT_TTL is unset.
	DefaultTTL = 7 * 24 * time.Hour
)

var ErrMissingSecret = errors.New(EnvKeyJWTSecret + " is not set")

// Config holds the signing settings.
type Config struct {
	Secret string
	TTL    time.Duration
}

// LoadConfig reads JWT_SECRET and JWT_TTL. A missing secret is an error so the
// server refuses to start rather than signing with an empty key.
func LoadConfig() (Config, error) {
	secret := os.Getenv(EnvKeyJWTSecret)
	if secret == "" {
		return Config{}, ErrMissingSecret
	}

	ttl := DefaultTTL
	if raw := os.Getenv(EnvKeyJWTTTL); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid %s %q", EnvKeyJWTTTL, raw)
		}
		ttl = d
	}
	return Config{Secret: secret, TTL: ttl}, nil
}

// Option customizes a Generator or Verifier.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
