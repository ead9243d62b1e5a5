// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package audit

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bookdesk/internal/platform/middleware"
	"github.com/taibuivan/bookdesk/internal/platform/respond"
	"github.com/taibuivan/bookdesk/pkg/pagination"
)

// Handler serves the action log.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the action log routes. All of them require a session.
//
// # Endpoints
//   - GET / : Paginated action log, newest first.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)
	router.Get("/", handler.list)
	return router
}

/*
List returns a page of the action log.

GET /api/v1/audit?limit=&offset=

Response:
  - 200: []Entry with pagination meta
  - 401: No session
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	entries, cursor, err := handler.service.List(request.Context(), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, entries, cursor.Meta())
}
