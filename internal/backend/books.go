// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package backend

import (
	"context"
	"net/http"
	"strconv"

	"github.com/taibuivan/bookdesk/internal/core/book"
	"github.com/taibuivan/bookdesk/internal/core/rating"
	"github.com/taibuivan/bookdesk/internal/platform/apperr"
	"github.com/taibuivan/bookdesk/pkg/pagination"
	"github.com/taibuivan/bookdesk/pkg/term"
)

// # Wire Envelopes

// booksEnvelope is the union of the backend's book response shapes:
// {result}, {results}, and {results, pagination}.
type booksEnvelope struct {
	Result     *book.Book  `json:"result"`
	Results    []book.Book `json:"results"`
	Pagination *pageBlock  `json:"pagination"`
	Message    string      `json:"message"`
}

type pageBlock struct {
	TotalRecords int  `json:"totalRecords"`
	Limit        int  `json:"limit"`
	Offset       int  `json:"offset"`
	NextPage     *int `json:"nextPage"`
}

// books flattens the envelope into a list, preferring the single result.
func (envelope booksEnvelope) books() []book.Book {
	if envelope.Result != nil {
		return []book.Book{*envelope.Result}
	}
	if envelope.Results == nil {
		return []book.Book{}
	}
	return envelope.Results
}

// Page is one page of the full catalog listing.
type Page struct {
	Books        []book.Book
	TotalRecords int
	NextOffset   *int
}

// # Lookups

// GetByISBN fetches a single book. GET /books/isbns/{isbn}
func (client *Client) GetByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	var envelope booksEnvelope
	err := client.do(ctx, call{
		endpoint: "get_book",
		method:   http.MethodGet,
		path:     "/books/isbns/" + term.PathSegment(isbn),
	}, &envelope)
	if err != nil {
		return nil, err
	}

	books := envelope.books()
	if len(books) == 0 {
		return nil, apperr.NotFound("Book")
	}
	return &books[0], nil
}

// FindByAuthor lists books by author name. GET /books/author/{name}
func (client *Client) FindByAuthor(ctx context.Context, name string) ([]book.Book, error) {
	return client.list(ctx, "find_by_author", "/books/author/"+term.PathSegment(name))
}

// FindByTitle lists books by title. GET /books/title/{title}
func (client *Client) FindByTitle(ctx context.Context, title string) ([]book.Book, error) {
	return client.list(ctx, "find_by_title", "/books/title/"+term.PathSegment(title))
}

// FindByRating lists books with the given star rating. GET /books/rating/{n}
func (client *Client) FindByRating(ctx context.Context, star int) ([]book.Book, error) {
	if err := rating.ValidateStar(star); err != nil {
		return nil, err
	}
	return client.list(ctx, "find_by_rating", "/books/rating/"+strconv.Itoa(star))
}

// ListPage fetches one page of the catalog. GET /books/pagination/offset?limit&offset
//
// TotalRecords and NextOffset are copied from the response as-is.
func (client *Client) ListPage(ctx context.Context, cursor pagination.Cursor) (*Page, error) {
	var envelope booksEnvelope
	err := client.do(ctx, call{
		endpoint: "list_page",
		method:   http.MethodGet,
		path:     "/books/pagination/offset",
		query:    cursor.Query(),
	}, &envelope)
	if err != nil {
		return nil, err
	}

	page := &Page{Books: envelope.books()}
	if envelope.Pagination != nil {
		page.TotalRecords = envelope.Pagination.TotalRecords
		page.NextOffset = envelope.Pagination.NextPage
	}
	return page, nil
}

func (client *Client) list(ctx context.Context, endpoint, path string) ([]book.Book, error) {
	var envelope booksEnvelope
	if err := client.do(ctx, call{endpoint: endpoint, method: http.MethodGet, path: path}, &envelope); err != nil {
		return nil, err
	}
	return envelope.books(), nil
}

// # Mutations

// CreateBook posts a new catalog entry. POST /books {entry}
//
// token is optional; when given it is checked and forwarded.
func (client *Client) CreateBook(ctx context.Context, token string, entry book.Entry) (*book.Book, error) {
	if token != "" {
		if err := client.authorize(token); err != nil {
			return nil, err
		}
	}

	var envelope booksEnvelope
	err := client.do(ctx, call{
		endpoint: "create_book",
		method:   http.MethodPost,
		path:     "/books",
		body:     map[string]book.Entry{"entry": entry},
		token:    token,
	}, &envelope)
	if err != nil {
		return nil, err
	}

	if books := envelope.books(); len(books) > 0 {
		return &books[0], nil
	}

	// Some backends answer 201 with only a message; echo the entry back.
	created := book.Book{
		ISBN13:        book.Identifier(entry.ISBN13),
		Title:         entry.Title,
		OriginalTitle: entry.OriginalTitle,
		Authors:       entry.Authors,
		Publication:   book.Year(entry.Publication),
		Ratings:       entry.Ratings,
		Icons:         entry.Icons,
	}
	return &created, nil
}

// DeleteBooks removes every book matching mode and value.
// DELETE /books/isbns/{isbn}, /books/author/{name} or /books/title/{title}
//
// The ISBN route answers {result}; the others answer {results}. Both are returned as a list.
func (client *Client) DeleteBooks(ctx context.Context, token string, mode book.Mode, value string) ([]book.Book, error) {
	var prefix string
	switch mode {
	case book.ModeISBN:
		prefix = "/books/isbns/"
	case book.ModeAuthor:
		prefix = "/books/author/"
	case book.ModeTitle:
		prefix = "/books/title/"
	default:
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   book.FieldMode,
			Message: "Books can only be deleted by isbn, author or title",
		})
	}

	if token != "" {
		if err := client.authorize(token); err != nil {
			return nil, err
		}
	}

	var envelope booksEnvelope
	err := client.do(ctx, call{
		endpoint: "delete_" + string(mode),
		method:   http.MethodDelete,
		path:     prefix + term.PathSegment(value),
		token:    token,
	}, &envelope)
	if err != nil {
		return nil, err
	}
	return envelope.books(), nil
}

// UpdateRatings replaces a book's rating block. PUT /books/rating/{isbn} {ratings}
//
// The bearer token is required and checked locally before anything is sent.
func (client *Client) UpdateRatings(ctx context.Context, token, isbn string, ratings rating.Histogram) error {
	if err := client.authorize(token); err != nil {
		return err
	}

	return client.do(ctx, call{
		endpoint: "rate_book",
		method:   http.MethodPut,
		path:     "/books/rating/" + term.PathSegment(isbn),
		body:     map[string]rating.Histogram{"ratings": ratings},
		token:    token,
	}, nil)
}
