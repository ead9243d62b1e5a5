// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package audit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/bookdesk/internal/platform/database/schema"
	"github.com/taibuivan/bookdesk/internal/platform/dberr"
)

// # PostgreSQL Repository

// postgresStore implements [Store] using pgx.
type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs a PostgreSQL backed action log.
func NewPostgresStore(pool *pgxpool.Pool) Store {
	return &postgresStore{pool: pool}
}

/*
Insert appends one entry to audit.actionlog.

Parameters:
  - context: context.Context
  - entry: *Entry

Returns:
  - error: Wrapped database errors
*/
func (repository *postgresStore) Insert(context context.Context, entry *Entry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8, $9, NULLIF($10, ''), NULLIF($11, ''), $12)
	`,
		schema.AuditActionLog.Table,
		schema.AuditActionLog.ID,
		schema.AuditActionLog.Action,
		schema.AuditActionLog.ISBN,
		schema.AuditActionLog.Mode,
		schema.AuditActionLog.Term,
		schema.AuditActionLog.Username,
		schema.AuditActionLog.Before,
		schema.AuditActionLog.After,
		schema.AuditActionLog.Outcome,
		schema.AuditActionLog.Error,
		schema.AuditActionLog.RequestID,
		schema.AuditActionLog.CreatedAt,
	)

	_, err := repository.pool.Exec(context, query,
		entry.ID,
		string(entry.Action),
		entry.ISBN,
		entry.Mode,
		entry.Term,
		entry.Username,
		nullableJSON(entry.Before),
		nullableJSON(entry.After),
		string(entry.Outcome),
		entry.Error,
		entry.RequestID,
		entry.CreatedAt,
	)
	return dberr.Wrap(err, "audit_insert")
}

/*
List returns a page of entries, newest first.

Description: Uses COUNT(*) OVER() to return the total alongside the page in a
single round-trip.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []*Entry: Slice of entries
  - int: Total count
  - error: Wrapped database errors
*/
func (repository *postgresStore) List(context context.Context, limit, offset int) ([]*Entry, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, COALESCE(%s, ''), COALESCE(%s, ''), COALESCE(%s, ''), %s,
			%s, %s, %s, COALESCE(%s, ''), COALESCE(%s, ''), %s,
			COUNT(*) OVER() AS total_count
		FROM %s
		ORDER BY %s DESC, %s DESC
		LIMIT $1 OFFSET $2
	`,
		schema.AuditActionLog.ID,
		schema.AuditActionLog.Action,
		schema.AuditActionLog.ISBN,
		schema.AuditActionLog.Mode,
		schema.AuditActionLog.Term,
		schema.AuditActionLog.Username,
		schema.AuditActionLog.Before,
		schema.AuditActionLog.After,
		schema.AuditActionLog.Outcome,
		schema.AuditActionLog.Error,
		schema.AuditActionLog.RequestID,
		schema.AuditActionLog.CreatedAt,
		schema.AuditActionLog.Table,
		schema.AuditActionLog.CreatedAt,
		schema.AuditActionLog.ID,
	)

	rows, err := repository.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "audit_list")
	}
	defer rows.Close()

	entries := make([]*Entry, 0, limit)
	total := 0
	for rows.Next() {
		entry := &Entry{}
		var action, outcome string
		var before, after []byte
		if err := rows.Scan(
			&entry.ID,
			&action,
			&entry.ISBN,
			&entry.Mode,
			&entry.Term,
			&entry.Username,
			&before,
			&after,
			&outcome,
			&entry.Error,
			&entry.RequestID,
			&entry.CreatedAt,
			&total,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "audit_list_scan")
		}
		entry.Action = Action(action)
		entry.Outcome = Outcome(outcome)
		entry.Before = before
		entry.After = after
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "audit_list_rows")
	}

	return entries, total, nil
}

// nullableJSON maps an empty snapshot to SQL NULL.
func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
