// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package views serves stateful search views: an admin opens a view, pages
through it, retries failures, and reads back what it currently shows.

Architecture:

  - Registry: Live views in memory, one mutex per view, swept after VIEW_TTL.
  - Controller: Applies actions and runs the resulting fetch.
  - Handler: The chi HTTP surface under /api/v1/views.

A fetch runs without holding the view lock. Its outcome is applied with the
sequence number captured when it started, so concurrent actions on the same
view resolve to the newest request.
*/
package views

import (
	"context"
	"log/slog"

	"github.com/taibuivan/bookdesk/internal/catalog"
	"github.com/taibuivan/bookdesk/internal/core/book"
	"github.com/taibuivan/bookdesk/internal/core/search"
	"github.com/taibuivan/bookdesk/internal/platform/ctxutil"
	"github.com/taibuivan/bookdesk/pkg/pagination"
)

// Fetcher runs the lookup behind a view.
type Fetcher interface {
	Search(ctx context.Context, mode book.Mode, term string, cursor pagination.Cursor) (*catalog.Page, error)
}

// Controller dispatches actions to views.
type Controller struct {
	registry *Registry
	fetcher  Fetcher
}

// NewController constructs a new [Controller].
func NewController(registry *Registry, fetcher Fetcher) *Controller {
	return &Controller{registry: registry, fetcher: fetcher}
}

/*
Open creates a view for owner and runs its first search.

Parameters:
  - context: context.Context
  - owner: string (session ID)
  - mode: book.Mode
  - term: string
  - limit: int (page size)

Returns:
  - *View: The view after the first fetch resolved
  - error: Never a fetch error; those are reported in the view's alert
*/
func (controller *Controller) Open(context context.Context, owner string, mode book.Mode, term string, limit int) (*View, error) {
	view := controller.registry.Create(owner, limit)
	return controller.Dispatch(context, owner, view.ID, search.ChangeQuery{Mode: mode, Term: term})
}

/*
Dispatch applies action to the view and, if that started a request, waits for
its outcome.

Parameters:
  - context: context.Context
  - owner: string (session ID)
  - id: string (view ID)
  - action: search.Action

Returns:
  - *View: A copy of the view once the action settled
  - error: NotFound when the view does not exist or belongs to someone else
*/
func (controller *Controller) Dispatch(context context.Context, owner, id string, action search.Action) (*View, error) {
	view, err := controller.registry.lookup(owner, id)
	if err != nil {
		return nil, err
	}

	view.mu.Lock()
	previous := view.State.Seq
	view.State = search.Reduce(view.State, action)
	view.UpdatedAt = controller.registry.now().UTC()
	request, pending := view.State.Pending()
	if !pending || request.Seq == previous {
		snapshot := view.snapshot()
		view.mu.Unlock()
		return snapshot, nil
	}
	view.mu.Unlock()

	outcome := controller.fetch(context, request)

	view.mu.Lock()
	defer view.mu.Unlock()
	view.State = search.Reduce(view.State, outcome)
	view.UpdatedAt = controller.registry.now().UTC()
	if view.State.Seq != request.Seq {
		ctxutil.GetLogger(context).DebugContext(context, "search_outcome_superseded",
			slog.String("view_id", id),
			slog.Uint64("seq", request.Seq),
			slog.Uint64("current_seq", view.State.Seq),
		)
	}
	return view.snapshot(), nil
}

func (controller *Controller) fetch(context context.Context, request search.Request) search.Action {
	page, err := controller.fetcher.Search(context, request.Mode, request.Term, request.Cursor)
	if err != nil {
		return search.Failed{Seq: request.Seq, Err: err}
	}
	return search.Succeeded{
		Seq:     request.Seq,
		Results: page.Results,
		Total:   page.TotalRecords,
		Next:    page.NextOffset,
	}
}
