// Package respond maps classified application errors to HTTP responses.
package respond

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"music_backend/internal/api"
	"music_backend/internal/shared/apperr"
)

const (
	msgServerError = "server error"
	msgUnavailable = "service unavailable"
)

// StatusOf returns the HTTP status for err.
func StatusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindConflict:
		return http.StatusBadRequest
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as a JSON error body. Client faults carry their message;
// server faults are logged in full and answered with a generic message.
func Error(c *gin.Context, err error) {
	status := StatusOf(err)
	attrs := []any{
		"error", err,
		"kind", apperr.KindOf(err).String(),
		"method", c.Request.Method,
		"path", c.FullPath(),
		"remote_addr", c.ClientIP(),
	}
	if rid, ok := c.Get(RequestIDKey); ok {
		attrs = append(attrs, "request_id", rid)
	}

	var msg string
	switch {
	case status == http.StatusServiceUnavailable:
		slog.Error("request failed", attrs...)
		msg = msgUnavailable
	case status >= http.StatusInternalServerError:
		slog.Error("request failed", attrs...)
		msg = msgServerError
	default:
		slog.Warn("request rejected", attrs...)
		msg = apperr.MessageOf(err)
	}
	c.AbortWithStatusJSON(status, api.ErrorResponse{Error: msg})
}

// RequestIDKey is the gin context key under which the request ID is stored.
const RequestIDKey = "request_id"
