// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookdesk/internal/core/book"
	"github.com/taibuivan/bookdesk/internal/core/search"
	"github.com/taibuivan/bookdesk/internal/platform/apperr"
)

func intPtr(n int) *int { return &n }

func loaded(t *testing.T, total int, next *int) search.State {
	t.Helper()
	s := search.Reduce(search.New(16), search.ChangeQuery{Mode: book.ModeAll})
	s = search.Reduce(s, search.Succeeded{Seq: s.Seq, Results: []book.Summary{{Title: "Dune"}}, Total: total, Next: next})
	require.Equal(t, search.StatusLoaded, s.Status)
	return s
}

/*
TestReduce_ChangeQuery resets the cursor and starts a new request.
*/
func TestReduce_ChangeQuery(t *testing.T) {
	s := loaded(t, 100, intPtr(16))
	s = search.Reduce(s, search.NextPage{})
	s = search.Reduce(s, search.Succeeded{Seq: s.Seq, Total: 100, Next: intPtr(32)})
	require.Equal(t, 16, s.Cursor.Offset)

	s = search.Reduce(s, search.ChangeQuery{Mode: book.ModeAuthor, Term: "Herbert"})

	assert.Equal(t, search.StatusLoading, s.Status)
	assert.Equal(t, 0, s.Cursor.Offset)
	assert.Nil(t, s.Cursor.NextOffset)
	assert.Equal(t, 100, s.Cursor.TotalRecords)
	assert.Empty(t, s.Results)

	request, ok := s.Pending()
	require.True(t, ok)
	assert.Equal(t, book.ModeAuthor, request.Mode)
	assert.Equal(t, s.Seq, request.Seq)
}

/*
TestReduce_Paging walks forward and back only when the cursor allows it.
*/
func TestReduce_Paging(t *testing.T) {
	s := loaded(t, 100, intPtr(16))

	s = search.Reduce(s, search.NextPage{})
	assert.Equal(t, search.StatusLoading, s.Status)
	assert.Equal(t, 16, s.Cursor.Offset)

	// Paging while loading is ignored.
	assert.Equal(t, s, search.Reduce(s, search.NextPage{}))

	s = search.Reduce(s, search.Succeeded{Seq: s.Seq, Total: 100, Next: intPtr(32)})
	s = search.Reduce(s, search.PrevPage{})
	assert.Equal(t, 0, s.Cursor.Offset)

	last := loaded(t, 10, nil)
	assert.Equal(t, last, search.Reduce(last, search.NextPage{}))
	assert.Equal(t, last, search.Reduce(last, search.PrevPage{}))
}

/*
TestReduce_Fencing drops outcomes of superseded requests.
*/
func TestReduce_Fencing(t *testing.T) {
	s := search.Reduce(search.New(16), search.ChangeQuery{Mode: book.ModeTitle, Term: "Dune"})
	stale := s.Seq

	s = search.Reduce(s, search.ChangeQuery{Mode: book.ModeTitle, Term: "Emma"})
	require.Greater(t, s.Seq, stale)

	after := search.Reduce(s, search.Succeeded{Seq: stale, Results: []book.Summary{{Title: "Dune"}}, Total: 1})
	assert.Equal(t, s, after)

	after = search.Reduce(s, search.Failed{Seq: stale, Err: errors.New("late")})
	assert.Equal(t, s, after)

	s = search.Reduce(s, search.Succeeded{Seq: s.Seq, Results: []book.Summary{{Title: "Emma"}}, Total: 1})
	require.Len(t, s.Results, 1)
	assert.Equal(t, "Emma", s.Results[0].Title)
}

/*
TestReduce_FailureAndRetry surfaces the error and reissues the same request.
*/
func TestReduce_FailureAndRetry(t *testing.T) {
	s := search.Reduce(search.New(16), search.ChangeQuery{Mode: book.ModeISBN, Term: "9780439554930"})
	s = search.Reduce(s, search.Failed{Seq: s.Seq, Err: apperr.Server(404, "Book not found")})

	assert.Equal(t, search.StatusFailed, s.Status)
	require.NotNil(t, s.Alert)
	assert.Equal(t, apperr.KindServer, s.Alert.Kind)
	assert.Equal(t, "Book not found", s.Alert.Message)

	// Retry is only valid from Failed.
	assert.Equal(t, s, search.Reduce(s, search.PrevPage{}))

	seq := s.Seq
	s = search.Reduce(s, search.Retry{})
	assert.Equal(t, search.StatusLoading, s.Status)
	assert.Equal(t, seq+1, s.Seq)
	assert.Nil(t, s.Alert)
	assert.Equal(t, "9780439554930", s.Term)

	s = search.Reduce(s, search.Failed{Seq: s.Seq, Err: errors.New("boom")})
	assert.Equal(t, apperr.KindInternal, s.Alert.Kind)

	s = search.Reduce(s, search.DismissAlert{})
	assert.Nil(t, s.Alert)
	assert.Equal(t, search.StatusFailed, s.Status)

	loadedState := loaded(t, 1, nil)
	assert.Equal(t, loadedState, search.Reduce(loadedState, search.Retry{}))
}
