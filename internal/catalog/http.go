// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bookdesk/internal/core/book"
	"github.com/taibuivan/bookdesk/internal/platform/middleware"
	requestutil "github.com/taibuivan/bookdesk/internal/platform/request"
	"github.com/taibuivan/bookdesk/internal/platform/respond"
	"github.com/taibuivan/bookdesk/internal/platform/validate"
	"github.com/taibuivan/bookdesk/pkg/pagination"
)

// Handler serves the book catalog over HTTP.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the catalog routes. Reads are public; mutations need a session.
//
// # Endpoints
//   - GET    /              : Search (?mode=&term=&limit=&offset=)
//   - GET    /{isbn}        : Full backend record
//   - POST   /              : Create a book
//   - DELETE /              : Delete by isbn, author or title (?mode=&term=)
//   - PUT    /{isbn}/rating : Cast a vote
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.search)
	router.Get("/{isbn}", handler.get)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Post("/", handler.create)
		protected.Delete("/", handler.delete)
		protected.Put("/{isbn}/rating", handler.rate)
	})

	return router
}

// # Reads

/*
Search runs a lookup in one of the search modes.

GET /api/v1/books?mode=all&limit=16&offset=0
GET /api/v1/books?mode=author&term=Rowling

Response:
  - 200: []book.Summary with pagination meta
  - 400: Unknown mode or invalid term
*/
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	mode := book.ModeAll
	if raw := query.Get(book.FieldMode); raw != "" {
		parsed, ok := book.ParseMode(raw)
		if !ok {
			respond.Error(writer, request, validate.RequiredError(book.FieldMode, "Unknown search mode"))
			return
		}
		mode = parsed
	}

	cursor := pagination.FromRequest(request)
	page, err := handler.service.Search(request.Context(), mode, query.Get(book.FieldTerm), cursor)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Single-shot modes always answer from the first page.
	if !mode.Paginated() {
		cursor = cursor.Reset(cursor.Limit)
	}
	respond.Paginated(writer, page.Results, cursor.ApplyServerResponse(page.TotalRecords, page.NextOffset).Meta())
}

/*
Get returns the full record of one book.

GET /api/v1/books/{isbn}

Response:
  - 200: book.Book
  - 400: ISBN is not a number
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	found, err := handler.service.Get(request.Context(), requestutil.Param(request, "isbn"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, found)
}

// # Mutations

/*
Create adds a book to the catalog. Missing covers are replaced by defaults.

POST /api/v1/books

Request Body:
  - book.Entry

Response:
  - 201: book.Book
  - 400: Validation failed
  - 401: No session
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	credential, err := requestutil.Credential(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var entry book.Entry
	if err := requestutil.DecodeJSON(request, &entry); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.Create(request.Context(), credential, entry)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, created)
}

/*
Delete removes every book matching the given mode and term.

DELETE /api/v1/books?mode=author&term=Rowling

Response:
  - 200: []book.Summary of the deleted books
  - 400: Mode not deletable or invalid term
  - 404: Nothing matched
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	credential, err := requestutil.Credential(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	query := request.URL.Query()
	mode, ok := book.ParseMode(query.Get(book.FieldMode))
	if !ok {
		respond.Error(writer, request, validate.RequiredError(book.FieldMode, "Unknown search mode"))
		return
	}

	deleted, err := handler.service.Delete(request.Context(), credential, mode, query.Get(book.FieldTerm))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, deleted)
}

type rateRequest struct {
	Star int `json:"star"`
}

/*
Rate casts one vote for a book.

PUT /api/v1/books/{isbn}/rating

Request Body:
  - star: int (1-5)

Response:
  - 200: Vote (confirmed=false when the backend copy could not be re-read)
  - 4xx/5xx: Error envelope; data carries the rolled-back Vote when the write failed
*/
func (handler *Handler) rate(writer http.ResponseWriter, request *http.Request) {
	credential, err := requestutil.Credential(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body rateRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	vote, err := handler.service.Rate(request.Context(), credential, requestutil.Param(request, "isbn"), body.Star)
	if err != nil {
		if vote != nil {
			respond.ErrorWithData(writer, request, err, vote)
			return
		}
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, vote)
}
