package errors

import (
	"fmt"
	"strings"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *TabdeckError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *TabdeckError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// MissingFields reports required form fields that were left empty.
func MissingFields(form string, fields ...string) *TabdeckError {
	return New(ErrCodeInvalidInput,
		fmt.Sprintf("%s: required fields missing: %s", form, strings.Join(fields, ", "))).
		WithDetail("form", form).
		WithDetail("fields", fields)
}

// NotFound creates a record not found error
func NotFound(kind, id string) *TabdeckError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s '%s' not found", kind, id)).
		WithDetail("kind", kind).
		WithDetail("id", id)
}

// TooLarge reports a file over the size limit.
func TooLarge(name string, size, limit int64) *TabdeckError {
	return New(ErrCodeTooLarge, fmt.Sprintf("file '%s' exceeds the %d byte limit", name, limit)).
		WithDetail("name", name).
		WithDetail("size", size).
		WithDetail("limit", limit)
}

// Rejected reports a file whose name matches none of the accept patterns.
func Rejected(name string, accept []string) *TabdeckError {
	return New(ErrCodeRejected, fmt.Sprintf("file '%s' is not an accepted type", name)).
		WithDetail("name", name).
		WithDetail("accept", accept)
}

// Unauthorized creates an error for actions that need a signed-in user.
func Unauthorized(action string) *TabdeckError {
	return New(ErrCodeUnauthorized, fmt.Sprintf("sign in required to %s", action)).
		WithDetail("action", action)
}

// Upstream wraps a failed call to a remote endpoint.
func Upstream(url string, status int, err error) *TabdeckError {
	msg := fmt.Sprintf("request to %s failed", url)
	if status != 0 {
		msg = fmt.Sprintf("request to %s returned %d", url, status)
	}
	e := New(ErrCodeUpstream, msg).WithDetail("url", url)
	if status != 0 {
		e = e.WithDetail("status", status)
	}
	e.Cause = err
	return e
}
