// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookdesk/pkg/pagination"
)

func intPtr(v int) *int { return &v }

/*
TestCursor_ForwardThenBackward walks one page forward and back again.
*/
func TestCursor_ForwardThenBackward(t *testing.T) {
	cursor := pagination.Cursor{Limit: 16, Offset: 0, TotalRecords: 100, NextOffset: intPtr(16)}

	forward := cursor.Forward()
	assert.Equal(t, 16, forward.Offset)

	back := forward.Backward()
	assert.Equal(t, 0, back.Offset)

	// The original cursor is untouched.
	assert.Equal(t, 0, cursor.Offset)
}

/*
TestCursor_ForwardNoop covers every case where the next page is not available.
*/
func TestCursor_ForwardNoop(t *testing.T) {
	tests := []struct {
		name   string
		cursor pagination.Cursor
	}{
		{"nil_next_offset", pagination.Cursor{Limit: 16, Offset: 32, TotalRecords: 100}},
		{"next_offset_at_total", pagination.Cursor{Limit: 16, Offset: 80, TotalRecords: 96, NextOffset: intPtr(96)}},
		{"next_offset_past_total", pagination.Cursor{Limit: 16, Offset: 80, TotalRecords: 90, NextOffset: intPtr(96)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, tt.cursor.CanForward())
			assert.Equal(t, tt.cursor, tt.cursor.Forward())
		})
	}
}

/*
TestCursor_BackwardNeverNegative checks saturation at zero for a spread of offsets and limits.
*/
func TestCursor_BackwardNeverNegative(t *testing.T) {
	for _, limit := range []int{1, 3, 16, 100} {
		for _, offset := range []int{0, 1, 2, 15, 16, 17, 99, 250} {
			cursor := pagination.Cursor{Limit: limit, Offset: offset}
			back := cursor.Backward()

			assert.GreaterOrEqual(t, back.Offset, 0)
			assert.Equal(t, max(0, offset-limit), back.Offset)
		}
	}
}

/*
TestCursor_Reset verifies that a reset forgets paging depth but keeps the total.
*/
func TestCursor_Reset(t *testing.T) {
	cursor := pagination.Cursor{Limit: 16, Offset: 64, TotalRecords: 9415, NextOffset: intPtr(80)}

	reset := cursor.Reset(16)

	assert.Equal(t, 0, reset.Offset)
	assert.Nil(t, reset.NextOffset)
	assert.Equal(t, 9415, reset.TotalRecords)
	assert.False(t, reset.CanBackward())
}

/*
TestCursor_ApplyServerResponse checks that hints are copied and sanitized.
*/
func TestCursor_ApplyServerResponse(t *testing.T) {
	next := 16
	cursor := pagination.New(16).ApplyServerResponse(100, &next)

	require.NotNil(t, cursor.NextOffset)
	assert.Equal(t, 16, *cursor.NextOffset)
	assert.Equal(t, 100, cursor.TotalRecords)

	// The cursor must not alias the caller's pointer.
	next = 99
	assert.Equal(t, 16, *cursor.NextOffset)

	cleared := cursor.ApplyServerResponse(100, intPtr(-1))
	assert.Nil(t, cleared.NextOffset)
}

/*
TestNew_LimitClamping checks the default page size fallback.
*/
func TestNew_LimitClamping(t *testing.T) {
	assert.Equal(t, pagination.DefaultLimit, pagination.New(0).Limit)
	assert.Equal(t, pagination.DefaultLimit, pagination.New(-5).Limit)
	assert.Equal(t, pagination.DefaultLimit, pagination.New(pagination.MaxLimit+1).Limit)
	assert.Equal(t, 40, pagination.New(40).Limit)
}

/*
TestFromRequest parses limit and offset from the query string.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		limit  int
		offset int
	}{
		{"defaults", "", pagination.DefaultLimit, 0},
		{"explicit", "?limit=20&offset=40", 20, 40},
		{"garbage", "?limit=abc&offset=xyz", pagination.DefaultLimit, 0},
		{"negative_offset", "?offset=-3", pagination.DefaultLimit, 0},
		{"limit_too_large", "?limit=1000", pagination.DefaultLimit, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/books"+tt.query, nil)
			cursor := pagination.FromRequest(request)

			assert.Equal(t, tt.limit, cursor.Limit)
			assert.Equal(t, tt.offset, cursor.Offset)
		})
	}
}

/*
TestCursor_Meta mirrors the navigation affordances into the response block.
*/
func TestCursor_Meta(t *testing.T) {
	cursor := pagination.Cursor{Limit: 16, Offset: 16, TotalRecords: 100, NextOffset: intPtr(32)}
	meta := cursor.Meta()

	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrevious)
	assert.Equal(t, "16", cursor.Query().Get("limit"))
	assert.Equal(t, "16", cursor.Query().Get("offset"))
}
