// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bookdesk/internal/platform/apperr"
	"github.com/taibuivan/bookdesk/internal/platform/ctxutil"
	"github.com/taibuivan/bookdesk/internal/platform/sec"
	"github.com/taibuivan/bookdesk/internal/platform/validate"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	if request.Body == nil {
		return validate.ErrInvalidJSON
	}
	decoder := json.NewDecoder(http.MaxBytesReader(nil, request.Body, maxBodyBytes))
	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Session extracts the authenticated gateway session from the request context.

Returns nil if the request is not authenticated.
*/
func Session(request *http.Request) *sec.Session {
	return ctxutil.GetSession(request.Context())
}

/*
RequiredSession ensures the request is authenticated and returns its session.

Returns:
  - *sec.Session: The authenticated session
  - error: apperr.Auth if the request is not authenticated
*/
func RequiredSession(request *http.Request) (*sec.Session, error) {
	session := ctxutil.GetSession(request.Context())
	if session == nil {
		return nil, apperr.Auth(sec.MsgTokenMissing)
	}
	return session, nil
}

/*
Credential returns the backend access token bound to the caller's session.

Returns:
  - string: The backend bearer token
  - error: apperr.Auth if there is no session or it holds no token
*/
func Credential(request *http.Request) (string, error) {
	session, err := RequiredSession(request)
	if err != nil {
		return "", err
	}
	if session.AccessToken == "" {
		return "", apperr.Auth(sec.MsgTokenMissing)
	}
	return session.AccessToken, nil
}
