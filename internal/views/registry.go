// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package views

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/bookdesk/internal/core/search"
	"github.com/taibuivan/bookdesk/internal/platform/apperr"
	"github.com/taibuivan/bookdesk/internal/platform/metrics"
	"github.com/taibuivan/bookdesk/pkg/uuid"
)

// View is one search view owned by a single session.
type View struct {
	ID        string       `json:"id"`
	State     search.State `json:"state"`
	UpdatedAt time.Time    `json:"updated_at"`

	owner string
	mu    sync.Mutex
}

// snapshot copies the view for callers; it must be taken under view.mu.
func (view *View) snapshot() *View {
	return &View{ID: view.ID, State: view.State, UpdatedAt: view.UpdatedAt, owner: view.owner}
}

// Registry keeps the live views in memory. Views idle for longer than the TTL
// are removed by [Registry.Run].
type Registry struct {
	mu    sync.RWMutex
	views map[string]*View

	ttl     time.Duration
	now     func() time.Time
	metrics *metrics.Metrics
}

// NewRegistry constructs an empty [Registry]. metrics may be nil.
func NewRegistry(ttl time.Duration, metrics *metrics.Metrics) *Registry {
	return &Registry{
		views:   make(map[string]*View),
		ttl:     ttl,
		now:     time.Now,
		metrics: metrics,
	}
}

// WithClock replaces the registry clock. Used by tests.
func (registry *Registry) WithClock(now func() time.Time) *Registry {
	registry.now = now
	return registry
}

// Create registers a new idle view for owner.
func (registry *Registry) Create(owner string, limit int) *View {
	view := &View{
		ID:        uuid.New(),
		State:     search.New(limit),
		UpdatedAt: registry.now().UTC(),
		owner:     owner,
	}

	registry.mu.Lock()
	registry.views[view.ID] = view
	count := len(registry.views)
	registry.mu.Unlock()

	registry.metrics.SetActiveViews(count)
	return view
}

// lookup returns the live view. Views owned by another session are reported
// as missing.
func (registry *Registry) lookup(owner, id string) (*View, error) {
	registry.mu.RLock()
	view, ok := registry.views[id]
	registry.mu.RUnlock()

	if !ok || view.owner != owner {
		return nil, apperr.NotFound("View")
	}
	return view, nil
}

// Get returns a copy of the view.
func (registry *Registry) Get(owner, id string) (*View, error) {
	view, err := registry.lookup(owner, id)
	if err != nil {
		return nil, err
	}
	view.mu.Lock()
	defer view.mu.Unlock()
	return view.snapshot(), nil
}

// Delete removes the view.
func (registry *Registry) Delete(owner, id string) error {
	if _, err := registry.lookup(owner, id); err != nil {
		return err
	}

	registry.mu.Lock()
	delete(registry.views, id)
	count := len(registry.views)
	registry.mu.Unlock()

	registry.metrics.SetActiveViews(count)
	return nil
}

// Len returns the number of live views.
func (registry *Registry) Len() int {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return len(registry.views)
}

// Sweep removes every view not updated within the TTL and returns how many were removed.
func (registry *Registry) Sweep() int {
	cutoff := registry.now().UTC().Add(-registry.ttl)

	registry.mu.Lock()
	removed := 0
	for id, view := range registry.views {
		view.mu.Lock()
		stale := view.UpdatedAt.Before(cutoff)
		view.mu.Unlock()
		if stale {
			delete(registry.views, id)
			removed++
		}
	}
	count := len(registry.views)
	registry.mu.Unlock()

	registry.metrics.SetActiveViews(count)
	return removed
}

/*
Run sweeps expired views every interval until ctx is cancelled.

It blocks; start it in its own goroutine.
*/
func (registry *Registry) Run(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := registry.Sweep(); removed > 0 {
				logger.DebugContext(ctx, "search_views_expired",
					slog.Int("removed", removed),
					slog.Int("remaining", registry.Len()),
				)
			}
		}
	}
}
