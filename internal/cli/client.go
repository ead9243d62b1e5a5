// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/bookdesk/internal/audit"
	"github.com/taibuivan/bookdesk/internal/catalog"
	"github.com/taibuivan/bookdesk/internal/core/book"
	"github.com/taibuivan/bookdesk/internal/platform/apperr"
	"github.com/taibuivan/bookdesk/internal/platform/constants"
	"github.com/taibuivan/bookdesk/internal/users/auth"
	"github.com/taibuivan/bookdesk/pkg/pagination"
)

// maxResponseBytes bounds gateway answers.
const maxResponseBytes = 4 << 20

// Gateway is an HTTP client for the bookdesk admin API.
type Gateway struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewGateway creates a client for baseURL. token may be empty for anonymous calls.
func NewGateway(baseURL, token string, timeout time.Duration) *Gateway {
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

type envelope struct {
	Data json.RawMessage  `json:"data"`
	Meta *pagination.Meta `json:"meta"`

	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Kind    apperr.Kind         `json:"kind"`
	Details []apperr.FieldError `json:"details"`
}

// call sends one request and decodes the data block into target.
// The pagination meta is returned when the answer carries one.
func (gateway *Gateway) call(ctx context.Context, method, path string, query url.Values, body, target any) (*pagination.Meta, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("cli: encode body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	endpoint := gateway.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	request, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("cli: build request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if gateway.token != "" {
		request.Header.Set(constants.HeaderAuthorization, "Bearer "+gateway.token)
	}

	response, err := gateway.http.Do(request)
	if err != nil {
		return nil, apperr.Network(err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, apperr.Network(err)
	}
	if response.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(raw)) == 0 {
		if response.StatusCode >= 400 {
			return nil, apperr.Server(response.StatusCode, "")
		}
		return nil, nil
	}

	var answer envelope
	if err := json.Unmarshal(raw, &answer); err != nil {
		return nil, apperr.Network(fmt.Errorf("cli: decode answer: %w", err))
	}

	if response.StatusCode >= 400 {
		return nil, &apperr.AppError{
			Code:       answer.Code,
			Message:    answer.Error,
			Kind:       answer.Kind,
			HTTPStatus: response.StatusCode,
			Details:    answer.Details,
		}
	}

	if target != nil && len(answer.Data) > 0 {
		if err := json.Unmarshal(answer.Data, target); err != nil {
			return nil, apperr.Network(fmt.Errorf("cli: decode data: %w", err))
		}
	}
	return answer.Meta, nil
}

// # Accounts

// Login opens a session.
func (gateway *Gateway) Login(ctx context.Context, input auth.LoginInput) (*auth.Issued, error) {
	var issued auth.Issued
	if _, err := gateway.call(ctx, http.MethodPost, "/api/v1/auth/login", nil, input, &issued); err != nil {
		return nil, err
	}
	return &issued, nil
}

// Register creates an account and opens a session.
func (gateway *Gateway) Register(ctx context.Context, input auth.RegisterInput) (*auth.Issued, error) {
	var issued auth.Issued
	if _, err := gateway.call(ctx, http.MethodPost, "/api/v1/auth/register", nil, input, &issued); err != nil {
		return nil, err
	}
	return &issued, nil
}

// Logout closes the current session.
func (gateway *Gateway) Logout(ctx context.Context) error {
	_, err := gateway.call(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil, nil)
	return err
}

// Me describes the current session.
func (gateway *Gateway) Me(ctx context.Context) (*auth.Profile, error) {
	var profile auth.Profile
	if _, err := gateway.call(ctx, http.MethodGet, "/api/v1/auth/me", nil, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ChangePassword replaces a password and returns the confirmation message.
func (gateway *Gateway) ChangePassword(ctx context.Context, input auth.ChangePasswordInput) (string, error) {
	var answer struct {
		Message string `json:"message"`
	}
	if _, err := gateway.call(ctx, http.MethodPut, "/api/v1/auth/change-password", nil, input, &answer); err != nil {
		return "", err
	}
	return answer.Message, nil
}

// # Books

// Book returns the full record of one book.
func (gateway *Gateway) Book(ctx context.Context, isbn string) (*book.Book, error) {
	var found book.Book
	if _, err := gateway.call(ctx, http.MethodGet, "/api/v1/books/"+url.PathEscape(isbn), nil, nil, &found); err != nil {
		return nil, err
	}
	return &found, nil
}

// Search runs a lookup and returns the summaries with their pagination meta.
func (gateway *Gateway) Search(ctx context.Context, mode book.Mode, term string, cursor pagination.Cursor) ([]book.Summary, pagination.Meta, error) {
	query := cursor.Query()
	query.Set(book.FieldMode, string(mode))
	if term != "" {
		query.Set(book.FieldTerm, term)
	}

	var results []book.Summary
	meta, err := gateway.call(ctx, http.MethodGet, "/api/v1/books", query, nil, &results)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	if meta == nil {
		meta = &pagination.Meta{Limit: cursor.Limit, Offset: cursor.Offset, TotalRecords: len(results)}
	}
	return results, *meta, nil
}

// CreateBook adds a book.
func (gateway *Gateway) CreateBook(ctx context.Context, entry book.Entry) (*book.Book, error) {
	var created book.Book
	if _, err := gateway.call(ctx, http.MethodPost, "/api/v1/books", nil, entry, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteBooks removes every book matching mode and term.
func (gateway *Gateway) DeleteBooks(ctx context.Context, mode book.Mode, term string) ([]book.Summary, error) {
	query := url.Values{}
	query.Set(book.FieldMode, string(mode))
	query.Set(book.FieldTerm, term)

	var deleted []book.Summary
	if _, err := gateway.call(ctx, http.MethodDelete, "/api/v1/books", query, nil, &deleted); err != nil {
		return nil, err
	}
	return deleted, nil
}

// Rate casts a vote.
func (gateway *Gateway) Rate(ctx context.Context, isbn string, star int) (*catalog.Vote, error) {
	var vote catalog.Vote
	body := map[string]int{"star": star}
	if _, err := gateway.call(ctx, http.MethodPut, "/api/v1/books/"+url.PathEscape(isbn)+"/rating", nil, body, &vote); err != nil {
		return nil, err
	}
	return &vote, nil
}

// # Audit

// Audit returns a page of the action log.
func (gateway *Gateway) Audit(ctx context.Context, cursor pagination.Cursor) ([]audit.Entry, pagination.Meta, error) {
	var entries []audit.Entry
	meta, err := gateway.call(ctx, http.MethodGet, "/api/v1/audit", cursor.Query(), nil, &entries)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	if meta == nil {
		meta = &pagination.Meta{Limit: cursor.Limit, Offset: cursor.Offset, TotalRecords: len(entries)}
	}
	return entries, *meta, nil
}

// starArg parses a vote given on the command line.
func starArg(raw string) (int, error) {
	star, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("star must be a number between 1 and 5, got %q", raw)
	}
	return star, nil
}
