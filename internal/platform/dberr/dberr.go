// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/bookdesk/internal/platform/apperr"
)

// SQLSTATE codes the gateway reacts to.
const (
	codeUndefinedTable = "42P01"
	codeQueryCanceled  = "57014"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("Record")
	}

	// 2. Known SQLSTATE classes
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUndefinedTable:
			return apperr.Internal(fmt.Errorf("%s: schema missing, run migrations: %w", action, err))
		case codeQueryCanceled:
			return apperr.ServiceUnavailable("The audit store is busy, try again shortly")
		}
	}

	// 3. Everything else is an internal error
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}
