// Copyright (c) 2026 Artistphere. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/artistphere/internal/platform/apperr"
)

// UniqueViolation describes a unique-constraint failure in a form the
// domain layer can turn into its own error (e.g. DUPLICATE_NAME).
type UniqueViolation struct {
	Constraint string
	Cause      error
}

func (e *UniqueViolation) Error() string {
	return "unique violation on " + e.Constraint
}

func (e *UniqueViolation) Unwrap() error { return e.Cause }

// Wrap inspects a database error and classifies it.
//
//   - pgx.ErrNoRows and malformed key text become NOT_FOUND.
//   - Unique violations come back as [*UniqueViolation] for the caller to map.
//   - Connection loss becomes STORAGE_UNAVAILABLE.
//   - Anything else becomes INTERNAL_ERROR.
//
// The action names the failing operation and is kept in the cause chain.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("Resource")
	}

	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch {
		case pgError.Code == pgerrcode.UniqueViolation:
			return &UniqueViolation{Constraint: pgError.ConstraintName, Cause: err}
		case pgError.Code == pgerrcode.InvalidTextRepresentation:
			return apperr.NotFound("Resource")
		case pgerrcode.IsConnectionException(pgError.Code),
			pgerrcode.IsOperatorIntervention(pgError.Code),
			pgerrcode.IsInsufficientResources(pgError.Code):
			return apperr.StorageUnavailable(&actionError{action: action, err: err})
		}
		return apperr.Internal(&actionError{action: action, err: err})
	}

	if IsConnectionError(err) {
		return apperr.StorageUnavailable(&actionError{action: action, err: err})
	}

	return apperr.Internal(&actionError{action: action, err: err})
}

// IsConnectionError reports whether err means the database could not be reached.
func IsConnectionError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var connectError *pgconn.ConnectError
	if errors.As(err, &connectError) {
		return true
	}

	var netError net.Error
	if errors.As(err, &netError) {
		return true
	}

	if pgconn.SafeToRetry(err) {
		return true
	}

	message := err.Error()
	return strings.Contains(message, "closed pool") || strings.Contains(message, "conn closed")
}

type actionError struct {
	action string
	err    error
}

func (e *actionError) Error() string { return e.action + ": " + e.err.Error() }

func (e *actionError) Unwrap() error { return e.err }
