// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package catalog implements the admin use cases over the book backend:
lookups, searches, creation, deletion and rating votes.

Architecture:

  - Service: Validates input, calls the backend, and records every mutation
    in the action log.
  - Handler: The chi HTTP surface under /api/v1/books.

Ratings follow an optimistic policy. The new histogram is computed locally,
sent to the backend, and then re-read; the backend's copy is what callers
see. If the write fails the previous histogram is returned with the error so
the caller can roll back.
*/
package catalog

import (
	"context"
	"strconv"

	"github.com/taibuivan/bookdesk/internal/audit"
	"github.com/taibuivan/bookdesk/internal/backend"
	"github.com/taibuivan/bookdesk/internal/core/book"
	"github.com/taibuivan/bookdesk/internal/core/rating"
	"github.com/taibuivan/bookdesk/internal/platform/apperr"
	"github.com/taibuivan/bookdesk/internal/platform/ctxutil"
	"github.com/taibuivan/bookdesk/internal/platform/metrics"
	"github.com/taibuivan/bookdesk/internal/platform/validate"
	"github.com/taibuivan/bookdesk/pkg/pagination"
)

// # Contracts & Types

// Backend is the subset of the book service client the catalog needs.
type Backend interface {
	GetByISBN(ctx context.Context, isbn string) (*book.Book, error)
	FindByAuthor(ctx context.Context, name string) ([]book.Book, error)
	FindByTitle(ctx context.Context, title string) ([]book.Book, error)
	FindByRating(ctx context.Context, star int) ([]book.Book, error)
	ListPage(ctx context.Context, cursor pagination.Cursor) (*backend.Page, error)
	CreateBook(ctx context.Context, token string, entry book.Entry) (*book.Book, error)
	DeleteBooks(ctx context.Context, token string, mode book.Mode, value string) ([]book.Book, error)
	UpdateRatings(ctx context.Context, token, isbn string, ratings rating.Histogram) error
}

// Recorder appends to the action log.
type Recorder interface {
	Record(ctx context.Context, entry audit.Entry)
}

// FieldISBN is the field name reported on invalid ISBNs.
const FieldISBN = "isbn"

// Page is one page of search results.
type Page struct {
	Results      []book.Summary
	TotalRecords int
	NextOffset   *int
}

// Vote is the outcome of a rating vote.
type Vote struct {
	ISBN string `json:"isbn"`
	Star int    `json:"star"`

	// Ratings is what the caller should display: the backend's copy when
	// confirmed, the local copy when the re-read failed, or Previous after a
	// failed write.
	Ratings  rating.Histogram `json:"ratings"`
	Previous rating.Histogram `json:"previous"`

	// Confirmed is true only when the backend's copy was read back.
	Confirmed bool `json:"confirmed"`
}

// Service implements the catalog use cases.
type Service struct {
	backend  Backend
	recorder Recorder
	metrics  *metrics.Metrics
}

// NewService constructs a new [Service]. metrics may be nil.
func NewService(backend Backend, recorder Recorder, metrics *metrics.Metrics) *Service {
	return &Service{backend: backend, recorder: recorder, metrics: metrics}
}

// # Queries

/*
Get returns the full backend record of one book.

Parameters:
  - context: context.Context
  - isbn: string (digits only)

Returns:
  - *book.Book: The backend record
  - error: Validation, Network, Server or Auth errors
*/
func (service *Service) Get(context context.Context, isbn string) (*book.Book, error) {
	normalized, err := book.NormalizeTerm(book.ModeISBN, isbn)
	if err != nil {
		return nil, err
	}
	return service.backend.GetByISBN(context, normalized)
}

/*
Search runs a lookup in the given mode.

Description: Only [book.ModeAll] is paginated; the cursor is ignored by the
other modes, which report TotalRecords = len(Results) and no next page.

Parameters:
  - context: context.Context
  - mode: book.Mode
  - term: string (ignored for ModeAll)
  - cursor: pagination.Cursor

Returns:
  - *Page: Display summaries and paging hints
  - error: Validation, Network, Server or Auth errors
*/
func (service *Service) Search(context context.Context, mode book.Mode, term string, cursor pagination.Cursor) (*Page, error) {
	normalized, err := book.NormalizeTerm(mode, term)
	if err != nil {
		return nil, err
	}

	var books []book.Book
	switch mode {
	case book.ModeAll:
		page, err := service.backend.ListPage(context, cursor)
		if err != nil {
			return nil, err
		}
		return &Page{
			Results:      book.SummarizeAll(page.Books),
			TotalRecords: page.TotalRecords,
			NextOffset:   page.NextOffset,
		}, nil

	case book.ModeISBN:
		found, err := service.backend.GetByISBN(context, normalized)
		if err != nil {
			return nil, err
		}
		books = []book.Book{*found}

	case book.ModeAuthor:
		books, err = service.backend.FindByAuthor(context, normalized)

	case book.ModeTitle:
		books, err = service.backend.FindByTitle(context, normalized)

	case book.ModeRating:
		star, _ := strconv.Atoi(normalized)
		books, err = service.backend.FindByRating(context, star)
	}
	if err != nil {
		return nil, err
	}

	return &Page{Results: book.SummarizeAll(books), TotalRecords: len(books)}, nil
}

// # Mutations

/*
Create validates entry and adds it to the catalog.

Parameters:
  - context: context.Context
  - credential: string (backend token, may be empty)
  - entry: book.Entry

Returns:
  - *book.Book: The created record
  - error: Validation, Network, Server or Auth errors
*/
func (service *Service) Create(context context.Context, credential string, entry book.Entry) (*book.Book, error) {
	entry = entry.WithDefaults()
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	created, err := service.backend.CreateBook(context, credential, entry)

	record := audit.Entry{
		Action:  audit.ActionCreateBook,
		ISBN:    entry.ISBN13,
		After:   audit.Snapshot(entry),
		Outcome: audit.OutcomeOf(err),
	}
	if err != nil {
		record.Error = err.Error()
	}
	service.recorder.Record(context, record)

	return created, err
}

/*
Delete removes every book matching mode and term.

Description: Only isbn, author and title deletions are supported. A call that
deletes nothing is reported as not found.

Parameters:
  - context: context.Context
  - credential: string (backend token, may be empty)
  - mode: book.Mode
  - term: string

Returns:
  - []book.Summary: The deleted books
  - error: Validation, Network, Server, Auth or NotFound errors
*/
func (service *Service) Delete(context context.Context, credential string, mode book.Mode, term string) ([]book.Summary, error) {
	if !mode.Deletable() {
		return nil, validate.RequiredError(book.FieldMode, "Books can only be deleted by isbn, author or title")
	}

	normalized, err := book.NormalizeTerm(mode, term)
	if err != nil {
		return nil, err
	}

	deleted, err := service.backend.DeleteBooks(context, credential, mode, normalized)
	if backend.IsNotFound(err) || (err == nil && len(deleted) == 0) {
		err = apperr.NotFound("Books")
	}

	record := audit.Entry{
		Action:  audit.ActionDeleteBooks,
		Mode:    string(mode),
		Term:    normalized,
		Before:  audit.Snapshot(deleted),
		Outcome: audit.OutcomeOf(err),
	}
	if mode == book.ModeISBN {
		record.ISBN = normalized
	}
	if err != nil {
		record.Error = err.Error()
	}
	service.recorder.Record(context, record)

	if err != nil {
		return nil, err
	}
	return book.SummarizeAll(deleted), nil
}

/*
Rate casts one vote for a book.

Description:
 1. Validate the star and load the current histogram.
 2. Apply the vote locally and send the whole histogram to the backend.
 3. Re-read the book; the backend's histogram becomes authoritative.

When the write fails, the returned Vote carries the pre-vote histogram and
Confirmed=false alongside the error. When only the re-read fails, the local
histogram is returned with Confirmed=false and no error.

Parameters:
  - context: context.Context
  - credential: string (backend token, required)
  - isbn: string
  - star: int (1-5)

Returns:
  - *Vote: Always non-nil once the current histogram was loaded
  - error: Validation, Network, Server or Auth errors
*/
func (service *Service) Rate(context context.Context, credential, isbn string, star int) (*Vote, error) {
	v := &validate.Validator{}
	v.Merge(rating.FieldStar, rating.ValidateStar(star))
	normalized, err := book.NormalizeTerm(book.ModeISBN, isbn)
	v.Merge(FieldISBN, err)
	if err := v.Err(); err != nil {
		return nil, err
	}

	// 1. Load the current histogram
	current, err := service.backend.GetByISBN(context, normalized)
	if err != nil {
		return nil, err
	}
	before := current.Ratings

	// 2. Apply and persist
	updated, err := rating.ApplyVote(before, star)
	if err != nil {
		return nil, err
	}

	vote := &Vote{ISBN: normalized, Star: star, Ratings: updated, Previous: before}
	record := audit.Entry{
		Action: audit.ActionRateBook,
		ISBN:   normalized,
		Before: audit.Snapshot(before),
		After:  audit.Snapshot(updated),
	}

	if err := service.backend.UpdateRatings(context, credential, normalized, updated); err != nil {
		vote.Ratings = before
		record.Outcome = audit.OutcomeFailed
		record.Error = err.Error()
		service.finishVote(context, vote, record)
		return vote, err
	}

	// 3. Re-read; the backend copy wins
	refreshed, err := service.backend.GetByISBN(context, normalized)
	if err != nil {
		record.Outcome = audit.OutcomeUnconfirmed
		record.Error = err.Error()
		ctxutil.GetLogger(context).WarnContext(context, "rating_refetch_failed",
			"isbn", normalized,
			"kind", string(apperr.KindOf(err)),
		)
		service.finishVote(context, vote, record)
		return vote, nil
	}

	vote.Ratings = refreshed.Ratings
	vote.Confirmed = true
	record.Outcome = audit.OutcomeOK
	record.After = audit.Snapshot(refreshed.Ratings)
	service.finishVote(context, vote, record)

	return vote, nil
}

func (service *Service) finishVote(context context.Context, vote *Vote, record audit.Entry) {
	service.metrics.ObserveVote(vote.Star, vote.Confirmed)
	service.recorder.Record(context, record)
}

