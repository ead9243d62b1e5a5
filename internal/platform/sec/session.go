// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"encoding/json"
	"time"
)

// Session is a gateway login bound to a backend access token.
//
// It is stored under the hash of an opaque session token; the raw token is
// only ever held by the admin client.
type Session struct {
	ID          string          `json:"id"`
	Username    string          `json:"username"`
	AccessToken string          `json:"access_token"`
	User        json.RawMessage `json:"user,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	ExpiresAt   time.Time       `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (session *Session) Expired(now time.Time) bool {
	return !session.ExpiresAt.IsZero() && !now.Before(session.ExpiresAt)
}

// SessionTTL returns how long a session may live: ttl, capped at the backend token expiry.
func SessionTTL(now time.Time, ttl time.Duration, tokenExpiry time.Time) time.Duration {
	if tokenExpiry.IsZero() {
		return ttl
	}
	if remaining := tokenExpiry.Sub(now); remaining < ttl {
		return remaining
	}
	return ttl
}
