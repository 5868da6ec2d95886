package api

import (
	"errors"
	"fmt"
)

// Sentinel errors the rest of the client matches with errors.Is. They map
// the platform API's failure modes onto a small, stable taxonomy so callers
// never branch on raw HTTP status codes.
var (
	ErrUnavailable       = errors.New("server unavailable")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrIncorrectPassword = errors.New("incorrect password")
)

// StatusError carries the HTTP status and server-reported message of a
// non-2xx response that did not map onto a sentinel.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

// fromStatus converts a non-2xx status into the matching sentinel, falling
// back to a StatusError.
func fromStatus(status int, message string) error {
	switch status {
	case 401:
		return ErrUnauthorized
	case 403:
		return ErrForbidden
	case 404:
		return ErrNotFound
	}
	return &StatusError{Status: status, Message: message}
}
