// Copyright (c) 2026 Artistphere. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the error taxonomy of the Artistphere API.

Every failure that leaves the service layer is an [AppError]. It carries a
stable machine-readable code, a client-safe message and the HTTP status the
handler boundary should answer with.

Taxonomy:

  - Client errors: VALIDATION_ERROR, DUPLICATE_NAME, MISSING_IMAGE, NOT_FOUND.
  - Server errors: UPLOAD_FAILED, STORAGE_UNAVAILABLE, INTERNAL_ERROR.
  - Boundary errors: FORBIDDEN, RATE_LIMITED, PAYLOAD_TOO_LARGE.

None of these are retried by the server. Retrying is the caller's decision.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable error codes.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeDuplicateName      = "DUPLICATE_NAME"
	CodeMissingImage       = "MISSING_IMAGE"
	CodeNotFound           = "NOT_FOUND"
	CodeUploadFailed       = "UPLOAD_FAILED"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
	CodeForbidden          = "FORBIDDEN"
	CodeRateLimited        = "RATE_LIMITED"
	CodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
)

// AppError is the canonical error type for the API.
//
// # Security
//
// Cause is for server-side logging only and is never sent to clients.
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"message"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// Is matches two AppErrors by code, so sentinels like [ErrNotFound] work
// with [errors.Is] regardless of the message they were built with.
func (e *AppError) Is(target error) bool {
	var other *AppError
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

// # Sentinels

// Sentinels for errors.Is checks. Never return these directly; use the
// constructors so each response carries its own message.
var (
	ErrValidation         = &AppError{Code: CodeValidation}
	ErrDuplicateName      = &AppError{Code: CodeDuplicateName}
	ErrMissingImage       = &AppError{Code: CodeMissingImage}
	ErrNotFound           = &AppError{Code: CodeNotFound}
	ErrUploadFailed       = &AppError{Code: CodeUploadFailed}
	ErrStorageUnavailable = &AppError{Code: CodeStorageUnavailable}
	ErrInternal           = &AppError{Code: CodeInternal}
)

// # Client Errors (4xx)

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// DuplicateName creates a 400 [AppError] for a uniqueness violation on the
// artist name. The client must pick another name or upsert by id.
func DuplicateName(name string) *AppError {
	return &AppError{
		Code:       CodeDuplicateName,
		Message:    fmt.Sprintf("An artist named %q already exists", name),
		HTTPStatus: http.StatusBadRequest,
	}
}

// MissingImage creates a 400 [AppError] for a create without any image input.
func MissingImage(field string) *AppError {
	return &AppError{
		Code:       CodeMissingImage,
		Message:    "An image is required",
		HTTPStatus: http.StatusBadRequest,
		Details:    []FieldError{{Field: field, Message: "Provide an image URL, an inline image or a file upload"}},
	}
}

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Artist") // Returns "Artist not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       CodeRateLimited,
		Message:    fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// PayloadTooLarge creates a 413 [AppError] for bodies over the configured cap.
func PayloadTooLarge(limit int64) *AppError {
	return &AppError{
		Code:       CodePayloadTooLarge,
		Message:    fmt.Sprintf("Request body exceeds %d bytes", limit),
		HTTPStatus: http.StatusRequestEntityTooLarge,
	}
}

// # Server Errors (5xx)

// UploadFailure creates a 500 [AppError] for a failed image ingestion step
// (remote host rejected the upload, timed out, or the disk write failed).
func UploadFailure(cause error) *AppError {
	return &AppError{
		Code:       CodeUploadFailed,
		Message:    "Image upload failed",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// StorageUnavailable creates a 503 [AppError] for an unreachable record store.
func StorageUnavailable(cause error) *AppError {
	return &AppError{
		Code:       CodeStorageUnavailable,
		Message:    "Storage is temporarily unavailable",
		HTTPStatus: http.StatusServiceUnavailable,
		Cause:      cause,
	}
}

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
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

// CodeOf returns the code of err's [*AppError], or CodeInternal.
func CodeOf(err error) string {
	if ae := As(err); ae != nil {
		return ae.Code
	}
	return CodeInternal
}
