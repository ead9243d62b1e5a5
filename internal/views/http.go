// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package views

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bookdesk/internal/core/book"
	"github.com/taibuivan/bookdesk/internal/core/search"
	"github.com/taibuivan/bookdesk/internal/platform/middleware"
	requestutil "github.com/taibuivan/bookdesk/internal/platform/request"
	"github.com/taibuivan/bookdesk/internal/platform/respond"
	"github.com/taibuivan/bookdesk/internal/platform/validate"
	"github.com/taibuivan/bookdesk/pkg/pagination"
)

// Action types accepted by POST /{id}/actions.
const (
	ActionChangeQuery  = "change_query"
	ActionNextPage     = "next_page"
	ActionPrevPage     = "prev_page"
	ActionRetry        = "retry"
	ActionDismissAlert = "dismiss_alert"
)

// Field names reported on invalid requests.
const (
	FieldType = "type"
	FieldID   = "id"
)

// Handler serves search views over HTTP.
type Handler struct {
	controller   *Controller
	registry     *Registry
	defaultLimit int
}

// NewHandler constructs a new [Handler].
func NewHandler(controller *Controller, registry *Registry, defaultLimit int) *Handler {
	return &Handler{controller: controller, registry: registry, defaultLimit: defaultLimit}
}

// Routes returns the view routes. Every view belongs to the session that opened it.
//
// # Endpoints
//   - POST   /             : Open a view and run its first search
//   - GET    /{id}         : Current state
//   - POST   /{id}/actions : Apply an action
//   - DELETE /{id}         : Close the view
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Post("/", handler.open)
	router.Get("/{id}", handler.get)
	router.Post("/{id}/actions", handler.act)
	router.Delete("/{id}", handler.close)

	return router
}

type openRequest struct {
	Mode  string `json:"mode"`
	Term  string `json:"term"`
	Limit int    `json:"limit"`
}

type actionRequest struct {
	Type string `json:"type"`
	Mode string `json:"mode"`
	Term string `json:"term"`
}

/*
Open creates a view.

POST /api/v1/views

Request Body:
  - mode: string (default "all")
  - term: string
  - limit: int (default DEFAULT_PAGE_LIMIT)

Response:
  - 201: View (a failed first search is reported in state.alert)
*/
func (handler *Handler) open(writer http.ResponseWriter, request *http.Request) {
	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body openRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	mode, err := parseMode(body.Mode)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	limit := body.Limit
	if limit <= 0 {
		limit = handler.defaultLimit
	}
	if limit > pagination.MaxLimit {
		respond.Error(writer, request, (&validate.Validator{}).Range("limit", limit, 1, pagination.MaxLimit).Err())
		return
	}

	view, err := handler.controller.Open(request.Context(), session.ID, mode, body.Term, limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, view)
}

/*
Get returns the current state of a view.

GET /api/v1/views/{id}
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := viewID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.registry.Get(session.ID, id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

/*
Act applies one action to a view.

POST /api/v1/views/{id}/actions

Request Body:
  - type: change_query | next_page | prev_page | retry | dismiss_alert
  - mode, term: only for change_query

Response:
  - 200: View after the action settled
  - 400: Unknown action type or mode
  - 404: No such view
*/
func (handler *Handler) act(writer http.ResponseWriter, request *http.Request) {
	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := viewID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body actionRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	action, err := toAction(body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.controller.Dispatch(request.Context(), session.ID, id, action)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

/*
Close discards a view.

DELETE /api/v1/views/{id}
*/
func (handler *Handler) close(writer http.ResponseWriter, request *http.Request) {
	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := viewID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.registry.Delete(session.ID, id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Decoding

// viewID reads the {id} path parameter. View IDs are UUIDs.
func viewID(request *http.Request) (string, error) {
	id := requestutil.Param(request, FieldID)
	if err := (&validate.Validator{}).UUID(FieldID, id).Err(); err != nil {
		return "", err
	}
	return id, nil
}

func parseMode(raw string) (book.Mode, error) {
	if raw == "" {
		return book.ModeAll, nil
	}
	mode, ok := book.ParseMode(raw)
	if !ok {
		return "", validate.RequiredError(book.FieldMode, "Unknown search mode")
	}
	return mode, nil
}

func toAction(body actionRequest) (search.Action, error) {
	switch body.Type {
	case ActionChangeQuery:
		mode, err := parseMode(body.Mode)
		if err != nil {
			return nil, err
		}
		return search.ChangeQuery{Mode: mode, Term: body.Term}, nil
	case ActionNextPage:
		return search.NextPage{}, nil
	case ActionPrevPage:
		return search.PrevPage{}, nil
	case ActionRetry:
		return search.Retry{}, nil
	case ActionDismissAlert:
		return search.DismissAlert{}, nil
	}
	return nil, (&validate.Validator{}).
		OneOf(FieldType, body.Type, ActionChangeQuery, ActionNextPage, ActionPrevPage, ActionRetry, ActionDismissAlert).
		Err()
}
