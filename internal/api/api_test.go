// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookdesk/internal/api"
	"github.com/taibuivan/bookdesk/internal/audit"
	"github.com/taibuivan/bookdesk/internal/backend"
	"github.com/taibuivan/bookdesk/internal/catalog"
	"github.com/taibuivan/bookdesk/internal/platform/apperr"
	"github.com/taibuivan/bookdesk/internal/platform/config"
	"github.com/taibuivan/bookdesk/internal/platform/metrics"
	"github.com/taibuivan/bookdesk/internal/platform/sec"
	"github.com/taibuivan/bookdesk/internal/users/auth"
	"github.com/taibuivan/bookdesk/internal/views"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type memorySessions struct {
	mu       sync.Mutex
	sessions map[string]*sec.Session
}

func (store *memorySessions) Save(ctx context.Context, hash string, session *sec.Session, ttl time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.sessions[hash] = session
	return nil
}

func (store *memorySessions) Find(ctx context.Context, hash string) (*sec.Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if session, ok := store.sessions[hash]; ok {
		return session, nil
	}
	return nil, apperr.NotFound("Session")
}

func (store *memorySessions) Delete(ctx context.Context, hash string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.sessions, hash)
	return nil
}

type memoryLog struct {
	mu      sync.Mutex
	entries []*audit.Entry
}

func (store *memoryLog) Insert(ctx context.Context, entry *audit.Entry) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.entries = append(store.entries, entry)
	return nil
}

func (store *memoryLog) List(ctx context.Context, limit, offset int) ([]*audit.Entry, int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.entries, len(store.entries), nil
}

// newRouter wires the full router against a fake book backend.
func newRouter(t *testing.T) (http.Handler, *metrics.Metrics) {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		if request.URL.Path == "/books/isbns/9780439554930" {
			_, _ = io.WriteString(writer, `{"result":{"isbn13":"9780439554930","title":"Harry Potter","authors":"J.K. Rowling","publication":1997}}`)
			return
		}
		writer.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(writer, `{"message":"Book not found"}`)
	}))
	t.Cleanup(upstream.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := &config.Config{ServerPort: "0", Environment: "development", SessionTTL: time.Hour, ViewTTL: time.Minute, DefaultPageLimit: 16}
	m := metrics.New()
	inspector := sec.NewTokenInspector("")
	books := backend.New(backend.Options{BaseURL: upstream.URL, Timeout: time.Second, RPS: 100, Inspector: inspector, Metrics: m})

	auditService := audit.NewService(&memoryLog{})
	authService := auth.NewService(books, &memorySessions{sessions: map[string]*sec.Session{}}, inspector, auditService, cfg.SessionTTL)
	catalogService := catalog.NewService(books, auditService, m)
	registry := views.NewRegistry(cfg.ViewTTL, m)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{}, discard)
	server := api.NewServer(ctx, cfg, discard, authService, m, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService),
		Books:     catalog.NewHandler(catalogService),
		Views:     views.NewHandler(views.NewController(registry, catalogService), registry, cfg.DefaultPageLimit),
		Audit:     audit.NewHandler(auditService),
	})
	return server.Handler(), m
}

func serve(handler http.Handler, method, target, token string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, target, nil)
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestServer_Routes checks the mounted groups and the public/private split.
*/
func TestServer_Routes(t *testing.T) {
	router, _ := newRouter(t)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/ready", "").Code)

	recorder := serve(router, http.MethodGet, "/api/v1/books/9780439554930", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	var envelope struct {
		Data struct {
			Title string `json:"title"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, "Harry Potter", envelope.Data.Title)

	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/api/v1/audit/", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodPost, "/api/v1/views/", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/api/v1/books/9780439554930", "unknown-token").Code)
}

/*
TestServer_Metrics exposes the request and backend counters.
*/
func TestServer_Metrics(t *testing.T) {
	router, _ := newRouter(t)

	serve(router, http.MethodGet, "/api/v1/books/9780439554930", "")
	serve(router, http.MethodGet, "/api/v1/books/1234567890123", "")

	recorder := serve(router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	body := recorder.Body.String()
	assert.Contains(t, body, `bookdesk_backend_calls_total{endpoint="get_book",kind="ok"} 1`)
	assert.Contains(t, body, "bookdesk_http_requests_total")
}

/*
TestReadiness reports each dependency and degrades on any failure.
*/
func TestReadiness(t *testing.T) {
	ok := func(ctx context.Context) error { return nil }
	down := func(ctx context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name   string
		deps   api.HealthDependencies
		status int
		state  string
	}{
		{"all_up", api.HealthDependencies{CheckDatabase: ok, CheckCache: ok}, http.StatusOK, "ready"},
		{"cache_down", api.HealthDependencies{CheckDatabase: ok, CheckCache: down}, http.StatusServiceUnavailable, "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, readiness := api.NewHealthHandlers(tt.deps, discard)
			recorder := httptest.NewRecorder()
			readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.status, recorder.Code)

			var envelope struct {
				Data struct {
					Status string `json:"status"`
					Checks []struct {
						Name string `json:"name"`
						OK   bool   `json:"ok"`
					} `json:"checks"`
				} `json:"data"`
			}
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
			assert.Equal(t, tt.state, envelope.Data.Status)
			assert.Len(t, envelope.Data.Checks, 2)
		})
	}
}
