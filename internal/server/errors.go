package server

import (
	"fmt"
	"net/http"
)

// ErrNotFound indicates the requested resource does not exist for this
// user.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrBadRequest indicates a malformed or semantically invalid request.
type ErrBadRequest struct {
	Message string
}

func (e *ErrBadRequest) Error() string {
	return e.Message
}

// ErrMissingAPIKey indicates an AI-backed endpoint was called without the
// Gemini key header.
type ErrMissingAPIKey struct{}

func (e *ErrMissingAPIKey) Error() string {
	return "missing X-Gemini-API-Key header"
}

// ErrConflict indicates the resource already exists.
type ErrConflict struct {
	Resource string
	ID       string
}

func (e *ErrConflict) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Resource, e.ID)
}

// ErrUpstream indicates a dependency (model, renderer) failed.
type ErrUpstream struct {
	Op    string
	Cause error
}

func (e *ErrUpstream) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Cause)
}

func (e *ErrUpstream) Unwrap() error { return e.Cause }

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrNotFound:
		return http.StatusNotFound
	case *ErrBadRequest:
		return http.StatusBadRequest
	case *ErrMissingAPIKey:
		return http.StatusUnauthorized
	case *ErrConflict:
		return http.StatusConflict
	case *ErrUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
