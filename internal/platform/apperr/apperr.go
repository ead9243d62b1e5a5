// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error handling framework for bookdesk.

It provides a rich error type that bridges the gap between failures talking to
the book backend and the JSON responses the gateway sends back to admin tools.

Architecture:

  - AppError: A struct containing machine-readable Code, a client-safe Message,
    and a Kind from the admin error taxonomy.
  - Taxonomy: Validation, Network, Server and Auth failures are distinct kinds
    so every caller can tell them apart with [KindOf].
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// # Error Taxonomy

// Kind classifies a failure by where it happened, not by HTTP status.
type Kind string

const (
	// KindValidation means the input failed a shape or range check before any network call.
	KindValidation Kind = "validation"

	// KindNetwork means the request never reached the backend or the response never arrived.
	KindNetwork Kind = "network"

	// KindServer means the backend answered with a non-2xx status and a message payload.
	KindServer Kind = "server"

	// KindAuth means the credential was missing, expired, or rejected.
	KindAuth Kind = "auth"

	// KindInternal covers everything that is a bug or an infrastructure failure on our side.
	KindInternal Kind = "internal"
)

// AppError is the canonical error type for the bookdesk gateway.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "BACKEND_ERROR").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// Kind is the taxonomy bucket of the failure.
	Kind Kind `json:"kind"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Book") // Returns "Book not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		Kind:       KindServer,
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       "UNAUTHORIZED",
		Message:    msg,
		Kind:       KindAuth,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       "FORBIDDEN",
		Message:    msg,
		Kind:       KindAuth,
		HTTPStatus: http.StatusForbidden,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    msg,
		Kind:       KindValidation,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       "RATE_LIMITED",
		Message:    fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds),
		Kind:       KindValidation,
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// # Backend Errors

// Network creates a 502 [AppError] for a request that never completed a round trip.
func Network(cause error) *AppError {
	return &AppError{
		Code:       "BACKEND_UNREACHABLE",
		Message:    "No response received from the book service",
		Kind:       KindNetwork,
		HTTPStatus: http.StatusBadGateway,
		Cause:      cause,
	}
}

// Server creates an [AppError] for a non-2xx backend answer.
//
// The backend message is surfaced verbatim. 4xx statuses are passed through so
// admin tools can react to them; anything else becomes a 502.
func Server(status int, msg string) *AppError {
	httpStatus := http.StatusBadGateway
	if status >= 400 && status < 500 {
		httpStatus = status
	}
	if msg == "" {
		msg = fmt.Sprintf("Book service responded with status %d", status)
	}
	return &AppError{
		Code:       "BACKEND_ERROR",
		Message:    msg,
		Kind:       KindServer,
		HTTPStatus: httpStatus,
	}
}

// Auth creates a 401 [AppError] for a missing, expired, or rejected credential.
func Auth(msg string) *AppError {
	return &AppError{
		Code:       "AUTH_REQUIRED",
		Message:    msg,
		Kind:       KindAuth,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		Kind:       KindInternal,
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// ServiceUnavailable creates a 503 [AppError] for maintenance mode.
func ServiceUnavailable(msg string) *AppError {
	return &AppError{
		Code:       "SERVICE_UNAVAILABLE",
		Message:    msg,
		Kind:       KindInternal,
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// # Helpers

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// KindOf returns the taxonomy bucket of err, or [KindInternal] for foreign errors.
// A nil error has no kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if ae := As(err); ae != nil && ae.Kind != "" {
		return ae.Kind
	}
	return KindInternal
}
