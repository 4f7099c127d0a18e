// Package blob stores audio files in an S3-compatible object store.
package blob

import (
	"errors"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// Config holds the object store connection settings.
type Config struct {
	// Endpoint is host[:port] without scheme.
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
}

var ErrMissingConfig = errors.New("S3_ENDPOINT and S3_BUCKET are required")

// LoadConfig reads S3_ENDPOINT, S3_ACCESS_KEY, S3_SECRET_KEY, S3_BUCKET,
// S3_USE_SSL and S3_REGION. S3_ENDPOINT may carry an http:// or https://
// scheme, which then decides UseSSL unless S3_USE_SSL is set.
func LoadConfig() (Config, error) {
	cfg := Config{
		AccessKey: os.Getenv("S3_ACCESS_KEY"),
		SecretKey: os.Getenv("S3_SECRET_KEY"),
		Bucket:    os.Getenv("S3_BUCKET"),
		Region:    os.Getenv("S3_REGION"),
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	endpoint, secure, err := parseEndpoint(os.Getenv("S3_ENDPOINT"))
	if err != nil {
		return Config{}, err
	}
	cfg.Endpoint = endpoint
	cfg.UseSSL = secure
	if raw := os.Getenv("S3_USE_SSL"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, errors.New("invalid S3_USE_SSL")
		}
		cfg.UseSSL = v
	}

	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return Config{}, ErrMissingConfig
	}
	return cfg, nil
}

func parseEndpoint(raw string) (host string, secure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, nil
	}
	if !strings.Contains(raw, "://") {
		return strings.TrimSuffix(raw, "/"), false, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false, err
	}
	switch u.Scheme {
	case "http":
		return u.Host, false, nil
	case "https":
		return u.Host, true, nil
	default:
		return "", false, errors.New("unsupported S3_ENDPOINT scheme " + u.Scheme)
	}
}
