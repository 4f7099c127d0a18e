// Package apperr classifies application errors so the HTTP boundary can map
// them to a status code without knowing which feature produced them.
package apperr

import (
	"context"
	"errors"
)

// Kind is the category of an application error.
type Kind uint8

const (
	// KindInternal is a dependency fault (database, object store). Safe to retry
	// at the caller's discretion; details are never shown to the client.
	KindInternal Kind = iota
	// KindValidation is missing or malformed input.
	KindValidation
	// KindUnauthorized is an absent/invalid token or bad credentials.
	KindUnauthorized
	// KindNotFound is a reference to a resource that does not exist.
	KindNotFound
	// KindConflict is a unique constraint violation that is an expected outcome.
	KindConflict
	// KindUnavailable is a read-path dependency timeout. Retryable.
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Error carries a Kind, a client-safe message and an optional cause.
type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

// Kind returns the error category.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the text that may be shown to the client.
func (e *Error) Message() string { return e.msg }

// New creates an Error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Wrap creates an Error of the given kind around cause.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{kind: kind, msg: msg, err: cause}
}

func Validation(msg string) *Error   { return New(KindValidation, msg) }
func Unauthorized(msg string) *Error { return New(KindUnauthorized, msg) }
func NotFound(msg string) *Error     { return New(KindNotFound, msg) }
func Conflict(msg string) *Error     { return New(KindConflict, msg) }

// Dependency wraps a store fault on a write path. Timeouts stay internal faults
// here because a partially applied write must not be retried blindly.
func Dependency(msg string, cause error) *Error {
	return Wrap(KindInternal, msg, cause)
}

// ReadDependency wraps a store fault on a read path. A deadline overrun becomes
// KindUnavailable so the client knows it may retry.
func ReadDependency(msg string, cause error) *Error {
	if errors.Is(cause, context.DeadlineExceeded) {
		return Wrap(KindUnavailable, msg, cause)
	}
	return Wrap(KindInternal, msg, cause)
}

// KindOf reports the Kind of err. Errors that were never classified are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindInternal
}

// MessageOf returns the client-safe message of the outermost classified error.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.msg
	}
	return ""
}
