// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements admin sign-in against the book backend and the
gateway sessions that carry the backend access token.

Architecture:

  - Service: Forwards credential flows to the backend and opens sessions.
  - Repository: Sessions live in Redis under the SHA-256 of an opaque token.
  - Handler: The chi HTTP surface under /api/v1/auth.

The backend token never leaves the gateway. Admin tools only ever hold the
opaque session token, which expires with the backend token at the latest.
*/
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/bookdesk/internal/audit"
	"github.com/taibuivan/bookdesk/internal/backend"
	"github.com/taibuivan/bookdesk/internal/platform/apperr"
	"github.com/taibuivan/bookdesk/internal/platform/constants"
	"github.com/taibuivan/bookdesk/internal/platform/ctxutil"
	"github.com/taibuivan/bookdesk/internal/platform/sec"
	"github.com/taibuivan/bookdesk/pkg/uuid"
)

// # Contracts & Types

// Accounts is the subset of the backend client used for credential flows.
type Accounts interface {
	Login(ctx context.Context, credentials backend.Credentials) (*backend.Login, error)
	Register(ctx context.Context, registration backend.Registration) (*backend.Login, error)
	ChangePassword(ctx context.Context, token string, change backend.PasswordChange) (string, error)
}

// Recorder appends to the action log.
type Recorder interface {
	Record(ctx context.Context, entry audit.Entry)
}

// Service implements the admin authentication use cases.
type Service struct {
	accounts  Accounts
	sessions  SessionRepository
	inspector *sec.TokenInspector
	recorder  Recorder
	ttl       time.Duration
	now       func() time.Time
}

// NewService constructs a new [Service]. ttl is the longest a session may live.
func NewService(accounts Accounts, sessions SessionRepository, inspector *sec.TokenInspector, recorder Recorder, ttl time.Duration) *Service {
	return &Service{
		accounts:  accounts,
		sessions:  sessions,
		inspector: inspector,
		recorder:  recorder,
		ttl:       ttl,
		now:       time.Now,
	}
}

// WithClock replaces the service clock. Used by tests.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

// # Authentication Flow

/*
Login signs in against the backend and opens a gateway session.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *Issued: The new session token and account
  - error: Validation, Auth, Network or Server errors
*/
func (service *Service) Login(context context.Context, input LoginInput) (*Issued, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	login, err := service.accounts.Login(context, backend.Credentials{
		Username: input.Username,
		Password: input.Password,
	})
	if err != nil {
		service.record(context, audit.ActionLogin, input.Username, err)
		return nil, err
	}

	issued, err := service.open(context, input.Username, login)
	service.record(context, audit.ActionLogin, input.Username, err)
	return issued, err
}

/*
Register creates a backend account and signs it in.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *Issued: The new session token and account
  - error: Validation, Auth, Network or Server errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*Issued, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	login, err := service.accounts.Register(context, backend.Registration{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Phone:     input.Phone,
		Username:  input.Username,
		Password:  input.Password,
		Role:      constants.BackendRole,
	})
	if err != nil {
		service.record(context, audit.ActionRegister, input.Username, err)
		return nil, err
	}

	issued, err := service.open(context, input.Username, login)
	service.record(context, audit.ActionRegister, input.Username, err)
	return issued, err
}

// open stores a session for the backend login and returns its token.
func (service *Service) open(context context.Context, username string, login *backend.Login) (*Issued, error) {
	claims, err := service.inspector.Inspect(login.AccessToken)
	if err != nil {
		return nil, err
	}
	// The account name typed at login addresses the account; claims only fill a gap.
	if username == "" {
		username = claims.Who()
	}

	now := service.now().UTC()
	ttl := sec.SessionTTL(now, service.ttl, claims.Expiry())
	if ttl <= 0 {
		return nil, apperr.Auth(sec.MsgTokenExpired)
	}

	token, err := sec.GenerateSecureToken()
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_failed: %w", err)
	}

	session := &sec.Session{
		ID:          uuid.New(),
		Username:    username,
		AccessToken: login.AccessToken,
		User:        login.User,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
	if err := service.sessions.Save(context, sec.HashToken(token), session, ttl); err != nil {
		return nil, fmt.Errorf("auth_service_session_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "session_opened",
		slog.String("session_id", session.ID),
		slog.String("username", session.Username),
		slog.Time("expires_at", session.ExpiresAt),
	)

	return &Issued{
		Token:     token,
		Username:  session.Username,
		User:      session.User,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

/*
Resolve returns the live session for token. It implements middleware.SessionResolver.

Parameters:
  - context: context.Context
  - token: string (opaque session token)

Returns:
  - *sec.Session: Live session
  - error: apperr.Auth when unknown or expired
*/
func (service *Service) Resolve(context context.Context, token string) (*sec.Session, error) {
	hash := sec.HashToken(token)

	session, err := service.sessions.Find(context, hash)
	if err != nil {
		if ae := apperr.As(err); ae != nil && ae.Code == "NOT_FOUND" {
			return nil, apperr.Auth(sec.MsgTokenInvalid)
		}
		return nil, err
	}

	if session.Expired(service.now()) {
		_ = service.sessions.Delete(context, hash)
		return nil, apperr.Auth(sec.MsgTokenExpired)
	}
	return session, nil
}

/*
Logout closes the session behind token.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - error: Persistence failures
*/
func (service *Service) Logout(context context.Context, token string) error {
	err := service.sessions.Delete(context, sec.HashToken(token))
	service.record(context, audit.ActionLogout, ctxutil.Username(context), err)
	return err
}

/*
ChangePassword replaces a backend account password.

Description: When session is set, its username and backend token are used and
any username in input is ignored. Without a session the backend decides
whether the old password suffices.

Parameters:
  - context: context.Context
  - session: *sec.Session (may be nil)
  - input: ChangePasswordInput

Returns:
  - string: The backend's confirmation message
  - error: Validation, Auth, Network or Server errors
*/
func (service *Service) ChangePassword(context context.Context, session *sec.Session, input ChangePasswordInput) (string, error) {
	var token string
	if session != nil {
		input.Username = session.Username
		token = session.AccessToken
	}
	if err := input.Validate(); err != nil {
		return "", err
	}

	message, err := service.accounts.ChangePassword(context, token, backend.PasswordChange{
		Username:    input.Username,
		OldPassword: input.OldPassword,
		NewPassword: input.NewPassword,
	})
	service.record(context, audit.ActionChangePassword, input.Username, err)
	return message, err
}

func (service *Service) record(context context.Context, action audit.Action, username string, err error) {
	entry := audit.Entry{
		Action:   action,
		Username: username,
		Outcome:  audit.OutcomeOf(err),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	service.recorder.Record(context, entry)
}

