// Package apierr defines the error kinds shared by the store, serializer
// and controller layers, and their HTTP status codes.
//
//	ErrNotFound          404
//	*ValidationError     400 (with per-field detail)
//	ErrReferenceNotFound 400
//	ErrInvalidIdentifier 400
//	ErrUnavailable       503 (store connectivity or timeout, never retried)
package apierr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrReferenceNotFound = errors.New("referenced record not found")
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrUnavailable       = errors.New("store unavailable")
)

// ValidationError carries field-level problems. Fields maps a wire field
// name to a human-readable message.
type ValidationError struct {
	Fields map[string]string
}

// Invalid builds a ValidationError for a single field.
func Invalid(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// Add records a problem for field, keeping the first message per field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// Empty reports whether no problems were recorded.
func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

// OrNil returns e as an error, or nil when nothing was recorded.
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ReferenceError reports a foreign-key field that does not resolve.
type ReferenceError struct {
	Field string
	ID    string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s: %s %q does not exist", ErrReferenceNotFound, e.Field, e.ID)
}

func (e *ReferenceError) Unwrap() error { return ErrReferenceNotFound }

// MissingReference builds a ReferenceError.
func MissingReference(field, id string) error {
	return &ReferenceError{Field: field, ID: id}
}

// Classify wraps store-level transient failures (network, timeout, server
// selection) in ErrUnavailable. Other errors are returned unchanged.
func Classify(err error) error {
	if err == nil || errors.Is(err, ErrUnavailable) {
		return err
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, mongo.ErrClientDisconnected) ||
		strings.Contains(strings.ToLower(err.Error()), "server selection") {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

// Status maps err to an HTTP status code.
func Status(err error) int {
	var ve *ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &ve),
		errors.Is(err, ErrReferenceNotFound),
		errors.Is(err, ErrInvalidIdentifier):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Code is the short machine-readable error code written in JSON bodies.
func Code(err error) string {
	var ve *ValidationError
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.As(err, &ve):
		return "validation_failed"
	case errors.Is(err, ErrReferenceNotFound):
		return "reference_not_found"
	case errors.Is(err, ErrInvalidIdentifier):
		return "invalid_identifier"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	default:
		return "server_error"
	}
}
