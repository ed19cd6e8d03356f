// Copyright (c) 2026 Artistphere. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/artistphere/internal/platform/apperr"
	"github.com/taibuivan/artistphere/internal/platform/dberr"
)

/*
TestWrap_Classification maps driver errors onto the application taxonomy.
*/
func TestWrap_Classification(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"no_rows", pgx.ErrNoRows, apperr.CodeNotFound},
		{"wrapped_no_rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), apperr.CodeNotFound},
		{"bad_uuid_text", &pgconn.PgError{Code: pgerrcode.InvalidTextRepresentation}, apperr.CodeNotFound},
		{"connection_failure", &pgconn.PgError{Code: pgerrcode.ConnectionFailure}, apperr.CodeStorageUnavailable},
		{"admin_shutdown", &pgconn.PgError{Code: pgerrcode.AdminShutdown}, apperr.CodeStorageUnavailable},
		{"closed_pool", errors.New("closed pool"), apperr.CodeStorageUnavailable},
		{"syntax_error", &pgconn.PgError{Code: pgerrcode.SyntaxError}, apperr.CodeInternal},
		{"unknown", errors.New("boom"), apperr.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := dberr.Wrap(tt.err, "test_action")
			require.Error(t, wrapped)
			assert.Equal(t, tt.wantCode, apperr.CodeOf(wrapped))
		})
	}
}

/*
TestWrap_UniqueViolation surfaces the constraint name to the caller.
*/
func TestWrap_UniqueViolation(t *testing.T) {
	pgError := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "artists_name_key"}

	wrapped := dberr.Wrap(pgError, "create_artist")

	var violation *dberr.UniqueViolation
	require.ErrorAs(t, wrapped, &violation)
	assert.Equal(t, "artists_name_key", violation.Constraint)
	assert.ErrorIs(t, wrapped, pgError)
}

/*
TestWrap_Nil keeps the happy path allocation-free.
*/
func TestWrap_Nil(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "noop"))
}
