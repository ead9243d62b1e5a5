// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/taibuivan/bookdesk/internal/platform/sec"
)

// # Session Data Access

// SessionRepository stores gateway sessions under the hash of their token.
type SessionRepository interface {

	/*
		Save stores session for ttl.

		Parameters:
		  - context: context.Context
		  - tokenHash: string (sec.HashToken of the session token)
		  - session: *sec.Session
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Save(context context.Context, tokenHash string, session *sec.Session, ttl time.Duration) error

	/*
		Find returns the session stored under tokenHash.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - *sec.Session: Stored session
		  - error: apperr.NotFound when absent or expired
	*/
	Find(context context.Context, tokenHash string) (*sec.Session, error)

	/*
		Delete removes the session. Deleting a missing session is not an error.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, tokenHash string) error
}
