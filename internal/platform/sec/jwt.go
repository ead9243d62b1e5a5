// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides token inspection and opaque session token primitives.
//
// # Architecture
//
// The gateway never signs JWTs. The book backend issues access tokens at
// login; this package only reads them to learn who they belong to and when
// they expire, so that an expired credential is rejected before any call
// reaches the backend.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/bookdesk/internal/platform/apperr"
)

// Messages surfaced to callers when a credential cannot be used.
const (
	MsgTokenMissing = "Authorization token is missing"
	MsgTokenExpired = "Session expired, please log in again"
	MsgTokenInvalid = "Authorization token is invalid"
)

// AuthClaims is the subset of backend access token claims the gateway reads.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Backends differ on naming; whichever is present is used.
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`
}

// Who returns the best available account name for the token.
func (claims *AuthClaims) Who() string {
	switch {
	case claims.Username != "":
		return claims.Username
	case claims.Name != "":
		return claims.Name
	default:
		return claims.Subject
	}
}

// Expiry returns the token's exp claim, or the zero time when absent.
func (claims *AuthClaims) Expiry() time.Time {
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

// TokenInspector reads backend access tokens.
//
// With a secret it verifies HS256 signatures. Without one it trusts the
// backend and parses the claims unverified, checking only expiry.
type TokenInspector struct {
	secret []byte
	leeway time.Duration
	now    func() time.Time
}

// NewTokenInspector creates an inspector. An empty secret disables signature checks.
func NewTokenInspector(secret string) *TokenInspector {
	return &TokenInspector{
		secret: []byte(secret),
		leeway: 5 * time.Second,
		now:    time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (inspector *TokenInspector) WithClock(now func() time.Time) *TokenInspector {
	inspector.now = now
	return inspector
}

// Verifies reports whether signatures are checked.
func (inspector *TokenInspector) Verifies() bool {
	return len(inspector.secret) > 0
}

// Inspect parses tokenString and returns its claims.
//
// A missing, malformed, badly signed, or expired token yields an AUTH_REQUIRED error.
func (inspector *TokenInspector) Inspect(tokenString string) (*AuthClaims, error) {
	if tokenString == "" {
		return nil, apperr.Auth(MsgTokenMissing)
	}

	claims := &AuthClaims{}
	if inspector.Verifies() {
		parser := jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithLeeway(inspector.leeway),
			jwt.WithTimeFunc(inspector.now),
		)
		_, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
			return inspector.secret, nil
		})
		if err != nil {
			return nil, classify(err)
		}
		return claims, nil
	}

	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, classify(err)
	}

	// ParseUnverified skips validation; expiry is still enforced.
	if expiry := claims.Expiry(); !expiry.IsZero() && inspector.now().After(expiry.Add(inspector.leeway)) {
		return nil, apperr.Auth(MsgTokenExpired)
	}

	return claims, nil
}

// classify maps jwt parse failures onto auth errors.
func classify(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return apperr.Auth(MsgTokenExpired)
	}
	ae := apperr.Auth(MsgTokenInvalid)
	ae.Cause = fmt.Errorf("sec: %w", err)
	return ae
}
