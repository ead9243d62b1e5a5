// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/bookdesk/internal/platform/constants"
	"github.com/taibuivan/bookdesk/internal/platform/ctxutil"
	"github.com/taibuivan/bookdesk/pkg/pagination"
	"github.com/taibuivan/bookdesk/pkg/uuid"
)

// Service records and lists action log entries.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService constructs a [Service].
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

/*
Record appends entry to the log.

Description: ID, CreatedAt, RequestID and Username are filled from the
context when missing. The insert uses a context that survives the request
being cancelled; errors are logged and swallowed.

Parameters:
  - context: context.Context
  - entry: Entry
*/
func (service *Service) Record(context context.Context, entry Entry) {
	if entry.ID == "" {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = service.now().UTC()
	}
	if entry.RequestID == "" {
		entry.RequestID = ctxutil.GetRequestID(context)
	}
	if entry.Username == "" {
		entry.Username = ctxutil.Username(context)
	}
	if entry.Outcome == "" {
		entry.Outcome = OutcomeOK
	}

	insertCtx, cancel := contextWithoutCancel(context, constants.AuditWriteTimeout)
	defer cancel()

	if err := service.store.Insert(insertCtx, &entry); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "audit_record_failed",
			slog.String("action", string(entry.Action)),
			slog.String("audit_id", entry.ID),
			slog.Any("error", err),
		)
	}
}

/*
List returns the page of entries described by cursor, with the cursor updated
from the stored total.

Parameters:
  - context: context.Context
  - cursor: pagination.Cursor

Returns:
  - []*Entry: Entries on the page, newest first
  - pagination.Cursor: cursor with TotalRecords and NextOffset applied
  - error: Storage failures
*/
func (service *Service) List(context context.Context, cursor pagination.Cursor) ([]*Entry, pagination.Cursor, error) {
	entries, total, err := service.store.List(context, cursor.Limit, cursor.Offset)
	if err != nil {
		return nil, cursor, err
	}

	var next *int
	if end := cursor.Offset + len(entries); len(entries) > 0 && end < total {
		next = &end
	}
	return entries, cursor.ApplyServerResponse(total, next), nil
}

func contextWithoutCancel(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(parent), timeout)
}
