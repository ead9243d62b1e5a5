// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package audit_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookdesk/internal/audit"
	"github.com/taibuivan/bookdesk/internal/platform/ctxutil"
	"github.com/taibuivan/bookdesk/internal/platform/sec"
	"github.com/taibuivan/bookdesk/pkg/pagination"
)

// memoryStore is an in-memory [audit.Store].
type memoryStore struct {
	mu      sync.Mutex
	entries []*audit.Entry
	failing bool
}

func (store *memoryStore) Insert(_ context.Context, entry *audit.Entry) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.failing {
		return errors.New("insert failed")
	}
	copied := *entry
	store.entries = append(store.entries, &copied)
	return nil
}

func (store *memoryStore) List(_ context.Context, limit, offset int) ([]*audit.Entry, int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	sorted := append([]*audit.Entry(nil), store.entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })

	if offset >= len(sorted) {
		return []*audit.Entry{}, len(sorted), nil
	}
	end := min(offset+limit, len(sorted))
	return sorted[offset:end], len(sorted), nil
}

/*
TestService_Record fills identity and correlation fields from the context.
*/
func TestService_Record(t *testing.T) {
	store := &memoryStore{}
	service := audit.NewService(store)

	ctx := ctxutil.WithRequestID(context.Background(), "req-7")
	ctx = ctxutil.WithSession(ctx, &sec.Session{Username: "librarian"})

	service.Record(ctx, audit.Entry{
		Action: audit.ActionRateBook,
		ISBN:   "9780439554930",
		Before: audit.Snapshot(map[string]int{"count": 10}),
	})

	require.Len(t, store.entries, 1)
	entry := store.entries[0]
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "req-7", entry.RequestID)
	assert.Equal(t, "librarian", entry.Username)
	assert.Equal(t, audit.OutcomeOK, entry.Outcome)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.JSONEq(t, `{"count":10}`, string(entry.Before))
}

/*
TestService_Record_Failure never propagates storage errors.
*/
func TestService_Record_Failure(t *testing.T) {
	service := audit.NewService(&memoryStore{failing: true})
	assert.NotPanics(t, func() {
		service.Record(context.Background(), audit.Entry{Action: audit.ActionLogin})
	})
}

/*
TestService_List pages through the log and reports the next offset.
*/
func TestService_List(t *testing.T) {
	store := &memoryStore{}
	service := audit.NewService(store)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 5 {
		service.Record(context.Background(), audit.Entry{Action: audit.ActionCreateBook, CreatedAt: base.Add(time.Duration(i) * time.Minute)})
	}

	entries, cursor, err := service.List(context.Background(), pagination.New(2))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, base.Add(4*time.Minute), entries[0].CreatedAt)
	assert.Equal(t, 5, cursor.TotalRecords)
	require.NotNil(t, cursor.NextOffset)
	assert.Equal(t, 2, *cursor.NextOffset)

	_, last, err := service.List(context.Background(), pagination.Cursor{Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Nil(t, last.NextOffset)
}

/*
TestHandler_List requires a session and returns the paginated envelope.
*/
func TestHandler_List(t *testing.T) {
	store := &memoryStore{}
	service := audit.NewService(store)
	service.Record(context.Background(), audit.Entry{Action: audit.ActionLogin})
	routes := audit.NewHandler(service).Routes()

	recorder := httptest.NewRecorder()
	routes.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	request := httptest.NewRequest(http.MethodGet, "/?limit=10", nil)
	request = request.WithContext(ctxutil.WithSession(request.Context(), &sec.Session{Username: "librarian"}))
	recorder = httptest.NewRecorder()
	routes.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data []audit.Entry   `json:"data"`
		Meta pagination.Meta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 1)
	assert.Equal(t, 1, envelope.Meta.TotalRecords)
	assert.Equal(t, 10, envelope.Meta.Limit)
}
