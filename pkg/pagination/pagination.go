// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides the offset cursor used to walk paginated book listings.
//
// # Overview
//
// A [Cursor] is the limit/offset pair of the current page plus the two hints
// the backend reports with every page: the total record count and the offset
// where the next page starts. The hints are never guessed locally; they only
// change through [Cursor.ApplyServerResponse].
//
// All operations use value receivers and return a new cursor, so a caller can
// keep the previous position around while a request is in flight.
package pagination

import (
	"net/http"
	"net/url"
	"strconv"
)

const (
	// DefaultLimit is the number of books per page if not specified.
	DefaultLimit = 16
	// MaxLimit is the upper bound for books per page to prevent system abuse.
	MaxLimit = 100
)

// Cursor describes the current page of an offset-paginated result set.
type Cursor struct {
	// Limit is the page size. Always positive.
	Limit int `json:"limit"`
	// Offset is the zero-based index of the first record on the page.
	Offset int `json:"offset"`
	// TotalRecords is the authoritative count reported by the backend.
	TotalRecords int `json:"total_records"`
	// NextOffset is the backend's hint for the next page start. Nil when unknown
	// or when there is no next page.
	NextOffset *int `json:"next_offset"`
}

// New returns a cursor positioned at the first page.
func New(limit int) Cursor {
	return Cursor{Limit: normalizeLimit(limit)}
}

// # Navigation

// Reset rewinds the cursor to the first page and forgets the next-page hint.
//
// TotalRecords is kept until the next response replaces it. Reset is used
// whenever the search mode or term changes so no paging state leaks from a
// different search.
func (c Cursor) Reset(limit int) Cursor {
	return Cursor{
		Limit:        normalizeLimit(limit),
		TotalRecords: c.TotalRecords,
	}
}

// CanForward reports whether the backend advertised a next page inside the result set.
func (c Cursor) CanForward() bool {
	return c.NextOffset != nil && *c.NextOffset < c.TotalRecords
}

// Forward moves to the page the backend advertised.
//
// It returns the cursor unchanged when [Cursor.CanForward] is false; callers
// are expected to disable their "next" affordance in that case.
func (c Cursor) Forward() Cursor {
	if !c.CanForward() {
		return c
	}
	next := c
	next.Offset = *c.NextOffset
	return next
}

// CanBackward reports whether there is a page before the current one.
func (c Cursor) CanBackward() bool {
	return c.Offset > 0
}

// Backward moves one page back, saturating at offset 0.
func (c Cursor) Backward() Cursor {
	prev := c
	prev.Offset = max(0, c.Offset-c.Limit)
	return prev
}

// ApplyServerResponse records the hints from the latest page response.
//
// A negative next offset is treated as "no next page".
func (c Cursor) ApplyServerResponse(totalRecords int, nextOffset *int) Cursor {
	updated := c
	updated.TotalRecords = max(0, totalRecords)
	updated.NextOffset = nil
	if nextOffset != nil && *nextOffset >= 0 {
		next := *nextOffset
		updated.NextOffset = &next
	}
	return updated
}

// # Wire Helpers

// Query renders the cursor as the limit/offset query string expected by the backend.
func (c Cursor) Query() url.Values {
	values := url.Values{}
	values.Set("limit", strconv.Itoa(c.Limit))
	values.Set("offset", strconv.Itoa(c.Offset))
	return values
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Limit        int  `json:"limit"`
	Offset       int  `json:"offset"`
	TotalRecords int  `json:"total_records"`
	NextOffset   *int `json:"next_offset"`
	HasNext      bool `json:"has_next"`
	HasPrevious  bool `json:"has_previous"`
}

// Meta builds the response metadata for the cursor.
func (c Cursor) Meta() Meta {
	return Meta{
		Limit:        c.Limit,
		Offset:       c.Offset,
		TotalRecords: c.TotalRecords,
		NextOffset:   c.NextOffset,
		HasNext:      c.CanForward(),
		HasPrevious:  c.CanBackward(),
	}
}

// FromRequest parses "limit" and "offset" query parameters from an HTTP request.
//
// # Clamping
//
// Invalid or excessive limits fall back to [DefaultLimit]; invalid or negative
// offsets fall back to 0.
func FromRequest(r *http.Request) Cursor {
	limit := parseIntParam(r, "limit", DefaultLimit)
	offset := parseIntParam(r, "offset", 0)

	cursor := New(limit)
	if offset > 0 {
		cursor.Offset = offset
	}
	return cursor
}

// normalizeLimit clamps a requested page size into (0, MaxLimit].
func normalizeLimit(limit int) int {
	if limit < 1 || limit > MaxLimit {
		return DefaultLimit
	}
	return limit
}

// parseIntParam parses a single integer query parameter with a fallback default.
func parseIntParam(r *http.Request, key string, defaultVal int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}

	return n
}
