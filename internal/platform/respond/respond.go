// Copyright (c) 2026 Artistphere. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond provides HTTP response helpers used by all API handlers.
//
// # Envelope
//
// Every response body has the same shape:
//
//	{"success": bool, "data": ..., "meta": ..., "message": "...", "error": "...", "details": [...]}
//
// Clients key off the status code and the success flag. The error code and
// details are informational.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/taibuivan/artistphere/internal/platform/apperr"
	"github.com/taibuivan/artistphere/internal/platform/ctxutil"
	"github.com/taibuivan/artistphere/pkg/pagination"
)

// Envelope is the JSON body written for every response.
type Envelope struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Meta    *pagination.Meta    `json:"meta,omitempty"`
	Message string              `json:"message,omitempty"`
	Error   string              `json:"error,omitempty"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 OK response with data wrapped in the success envelope.
func OK(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 Created response with data wrapped in the success envelope.
func Created(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusCreated, Envelope{Success: true, Data: data})
}

// Status writes a success envelope with an explicit status code.
func Status(writer http.ResponseWriter, statusCode int, data any, message string) {
	JSON(writer, statusCode, Envelope{Success: statusCode < 400, Data: data, Message: message})
}

// Paginated writes a 200 OK response with a page of data and its metadata.
// A nil slice is written as an empty array.
func Paginated[T any](writer http.ResponseWriter, data []T, metadata pagination.Meta) {
	if data == nil {
		data = []T{}
	}
	JSON(writer, http.StatusOK, Envelope{Success: true, Data: data, Meta: &metadata})
}

// Error converts any Go error into a standardized JSON API error response.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	logger := ctxutil.GetLogger(request.Context())

	appError := apperr.As(err)
	if appError == nil {
		// Unexpected internal error: log full details but hide them from the client.
		logger.ErrorContext(request.Context(), "unhandled_error_swallowed",
			slog.String("error", err.Error()),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
		)
		appError = apperr.Internal(err)
	}

	// Always log 5xx errors as they indicate server-side issues.
	if appError.HTTPStatus >= 500 {
		logger.ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
			slog.Any("cause", appError.Cause),
		)
	}

	status := appError.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}

	JSON(writer, status, Envelope{
		Success: false,
		Message: appError.Message,
		Error:   appError.Code,
		Details: appError.Details,
	})
}
