// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/taibuivan/bookdesk/internal/platform/apperr"
	"github.com/taibuivan/bookdesk/internal/platform/constants"
	"github.com/taibuivan/bookdesk/internal/platform/ctxutil"
	"github.com/taibuivan/bookdesk/internal/platform/respond"
	"github.com/taibuivan/bookdesk/internal/platform/sec"
)

// SessionResolver looks up the gateway session for an opaque session token.
//
// Defined here so the middleware does not depend on the auth service.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*sec.Session, error)
}

// Authenticate resolves the session token into a [*sec.Session].
//
// # Flow
//  1. Read 'Authorization: Bearer <token>', falling back to X-Session-Token.
//  2. If absent, the request proceeds as anonymous.
//  3. If present, resolve it via [SessionResolver]; unknown or expired sessions are rejected.
//  4. Inject the session into the request context for downstream use.
func Authenticate(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			token, err := SessionToken(request)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if token == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Session Lookup ─────────────────────────────────────────────
			session, err := resolver.Resolve(request.Context(), token)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			if holder, ok := request.Context().Value(sessionHolderKey{}).(*sessionHolder); ok {
				holder.username = session.Username
			}
			ctx := ctxutil.WithSession(request.Context(), session)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// SessionToken extracts the raw session token, or "" when none was sent.
func SessionToken(request *http.Request) (string, error) {
	if header := request.Header.Get(constants.HeaderAuthorization); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			return "", apperr.Unauthorized("Invalid authorization format")
		}
		return strings.TrimSpace(token), nil
	}
	return strings.TrimSpace(request.Header.Get(constants.SessionHeader)), nil
}

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetSession(request.Context()) == nil {
			respond.Error(writer, request, apperr.Auth(sec.MsgTokenMissing))
			return
		}
		next.ServeHTTP(writer, request)
	})
}
