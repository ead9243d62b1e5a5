// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookdesk/internal/cli"
	"github.com/taibuivan/bookdesk/internal/core/book"
	"github.com/taibuivan/bookdesk/internal/platform/apperr"
	"github.com/taibuivan/bookdesk/pkg/pagination"
)

// fakeGateway answers like the bookdesk API and remembers the last request.
type fakeGateway struct {
	mu        sync.Mutex
	lastPath  string
	lastQuery string
	lastAuth  string
	lastBody  []byte
	status    int
	answer    string
}

func (fake *fakeGateway) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	fake.mu.Lock()
	defer fake.mu.Unlock()

	fake.lastPath = request.Method + " " + request.URL.Path
	fake.lastQuery = request.URL.RawQuery
	fake.lastAuth = request.Header.Get("Authorization")
	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(request.Body)
	fake.lastBody = buf.Bytes()

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(fake.status)
	_, _ = writer.Write([]byte(fake.answer))
}

func (fake *fakeGateway) respondWith(status int, answer string) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	fake.status = status
	fake.answer = answer
}

func newFake(t *testing.T) (*fakeGateway, *httptest.Server) {
	t.Helper()
	fake := &fakeGateway{status: http.StatusOK, answer: `{"data":null}`}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	return fake, server
}

/*
TestCredentials_RoundTrip stores and clears the remembered session.
*/
func TestCredentials_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.yaml")

	empty, err := cli.LoadCredentials(path)
	require.NoError(t, err)
	assert.False(t, empty.Valid(time.Now()))

	expires := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, cli.SaveCredentials(path, &cli.Credentials{Gateway: "http://gw", Username: "ada", Token: "tok", ExpiresAt: expires}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := cli.LoadCredentials(path)
	require.NoError(t, err)
	assert.Equal(t, "tok", loaded.Token)
	assert.True(t, loaded.Valid(expires.Add(-time.Minute)))
	assert.False(t, loaded.Valid(expires))

	require.NoError(t, cli.ClearCredentials(path))
	require.NoError(t, cli.ClearCredentials(path))
}

/*
TestLoadEntry reads the creation payload with wire field names.
*/
func TestLoadEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
isbn13: "9780439554930"
authors: J.K. Rowling
publication: 1997
original_title: Harry Potter and the Philosopher's Stone
title: Harry Potter and the Sorcerer's Stone
ratings:
  count: 2
  average: 4.5
  rating_4: 1
  rating_5: 1
icons:
  small: https://img/small.png
`), 0o600))

	entry, err := cli.LoadEntry(path)
	require.NoError(t, err)
	assert.Equal(t, "9780439554930", entry.ISBN13)
	assert.Equal(t, 1997, entry.Publication)
	assert.Equal(t, 1, entry.Ratings.Star5)
	assert.Equal(t, "https://img/small.png", entry.Icons.Small)
}

/*
TestGateway_Errors turns error envelopes back into typed errors.
*/
func TestGateway_Errors(t *testing.T) {
	fake, server := newFake(t)
	gateway := cli.NewGateway(server.URL, "session-token", time.Second)

	fake.respondWith(http.StatusBadRequest, `{"error":"Validation failed","code":"VALIDATION_ERROR","kind":"validation","details":[{"field":"term","message":"Must be a number"}]}`)
	_, _, err := gateway.Search(context.Background(), book.ModeISBN, "abc", pagination.New(16))

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.KindValidation, ae.Kind)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, "term", ae.Details[0].Field)
	assert.Equal(t, "Bearer session-token", fake.lastAuth)

	fake.respondWith(http.StatusOK, `not json`)
	_, err = gateway.Book(context.Background(), "1")
	assert.Equal(t, apperr.KindNetwork, apperr.KindOf(err))

	offline := cli.NewGateway("http://127.0.0.1:1", "", time.Second)
	_, err = offline.Me(context.Background())
	assert.Equal(t, apperr.KindNetwork, apperr.KindOf(err))
}

/*
TestGateway_Search sends the mode, term and cursor and returns the meta block.
*/
func TestGateway_Search(t *testing.T) {
	fake, server := newFake(t)
	gateway := cli.NewGateway(server.URL, "", time.Second)

	fake.respondWith(http.StatusOK, `{"data":[{"isbn":"1","title":"Dune"}],"meta":{"limit":16,"offset":16,"total_records":40,"next_offset":32,"has_next":true,"has_previous":true}}`)

	cursor := pagination.New(16)
	cursor.Offset = 16
	results, meta, err := gateway.Search(context.Background(), book.ModeAll, "", cursor)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, 40, meta.TotalRecords)
	require.NotNil(t, meta.NextOffset)
	assert.Equal(t, 32, *meta.NextOffset)
	assert.Equal(t, "GET /api/v1/books", fake.lastPath)
	assert.Contains(t, fake.lastQuery, "offset=16")
	assert.Contains(t, fake.lastQuery, "mode=all")
	assert.Empty(t, fake.lastAuth)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCommand()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

/*
TestCommands_LoginThenRate remembers the session and uses it on later commands.
*/
func TestCommands_LoginThenRate(t *testing.T) {
	fake, server := newFake(t)
	credentials := filepath.Join(t.TempDir(), "credentials.yaml")
	expires := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)

	fake.respondWith(http.StatusOK, `{"data":{"token":"opaque","username":"librarian","expires_at":"`+expires+`"}}`)
	out, err := run(t, "--gateway", server.URL, "--credentials", credentials, "login", "-u", "librarian", "-p", "pw")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as librarian")

	var body map[string]string
	require.NoError(t, json.Unmarshal(fake.lastBody, &body))
	assert.Equal(t, "librarian", body["username"])

	fake.respondWith(http.StatusOK, `{"data":{"isbn":"9780439554930","star":5,"ratings":{"count":1,"average":5,"rating_5":1},"previous":{},"confirmed":true}}`)
	out, err = run(t, "--gateway", server.URL, "--credentials", credentials, "books", "rate", "9780439554930", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "confirmed by the backend")
	assert.Equal(t, "PUT /api/v1/books/9780439554930/rating", fake.lastPath)
	assert.Equal(t, "Bearer opaque", fake.lastAuth)

	fake.respondWith(http.StatusNoContent, "")
	out, err = run(t, "--gateway", server.URL, "--credentials", credentials, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out")
	_, statErr := os.Stat(credentials)
	assert.True(t, os.IsNotExist(statErr))
}

/*
TestCommands_Search titles the table with the searched field.
*/
func TestCommands_Search(t *testing.T) {
	fake, server := newFake(t)
	credentials := filepath.Join(t.TempDir(), "credentials.yaml")

	fake.respondWith(http.StatusOK, `{"data":[{"isbn":"9780439554930","title":"Harry Potter","authors":"J.K. Rowling","publication_year":1997,"rating":{"count":2,"average":4.5}}]}`)
	out, err := run(t, "--gateway", server.URL, "--credentials", credentials, "books", "search", "--mode", "author", "--term", "Rowling")
	require.NoError(t, err)
	assert.Contains(t, out, "Author's Name: Rowling")
	assert.Contains(t, out, "Harry Potter")
	assert.Contains(t, fake.lastQuery, "mode=author")

	fake.respondWith(http.StatusOK, `{"data":[],"meta":{"limit":16,"offset":0,"total_records":0}}`)
	out, err = run(t, "--gateway", server.URL, "--credentials", credentials, "books", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "All Books")
	assert.Contains(t, out, "No books found")
}

/*
TestCommands_Validation rejects bad arguments before calling the gateway.
*/
func TestCommands_Validation(t *testing.T) {
	fake, server := newFake(t)
	credentials := filepath.Join(t.TempDir(), "credentials.yaml")

	_, err := run(t, "--gateway", server.URL, "--credentials", credentials, "books", "delete", "--mode", "rating", "--term", "5")
	assert.Error(t, err)

	_, err = run(t, "--gateway", server.URL, "--credentials", credentials, "books", "rate", "1", "five")
	assert.Error(t, err)

	assert.Empty(t, fake.lastPath)
}
