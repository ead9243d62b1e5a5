// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/taibuivan/bookdesk/internal/platform/sec"
	"github.com/taibuivan/bookdesk/internal/platform/validate"
)

// # Inputs

// LoginInput is a sign-in attempt.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate trims the username and checks both fields are present.
func (input *LoginInput) Validate() error {
	input.Username = strings.TrimSpace(input.Username)
	return (&validate.Validator{}).
		Required(FieldUsername, input.Username).
		Required(FieldPassword, input.Password).
		Err()
}

// RegisterInput is a new account.
type RegisterInput struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

// Validate trims the text fields and checks every one is present and bounded.
func (input *RegisterInput) Validate() error {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = strings.TrimSpace(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Username = strings.TrimSpace(input.Username)

	v := &validate.Validator{}
	v.Required(FieldFirstName, input.FirstName).MaxLen(FieldFirstName, input.FirstName, MaxFieldLength)
	v.Required(FieldLastName, input.LastName).MaxLen(FieldLastName, input.LastName, MaxFieldLength)
	v.Required(FieldEmail, input.Email).MaxLen(FieldEmail, input.Email, MaxFieldLength)
	if input.Email != "" {
		v.Email(FieldEmail, input.Email)
	}
	v.Required(FieldPhone, input.Phone).MaxLen(FieldPhone, input.Phone, MaxFieldLength)
	v.Required(FieldUsername, input.Username).MaxLen(FieldUsername, input.Username, MaxFieldLength)
	v.Required(FieldPassword, input.Password).MaxLen(FieldPassword, input.Password, MaxFieldLength)
	return v.Err()
}

// ChangePasswordInput replaces an account password. The confirmation never
// leaves the gateway.
type ChangePasswordInput struct {
	Username        string `json:"username"`
	OldPassword     string `json:"oldPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Validate trims the username and checks the confirmation matches.
func (input *ChangePasswordInput) Validate() error {
	input.Username = strings.TrimSpace(input.Username)
	return (&validate.Validator{}).
		Required(FieldUsername, input.Username).
		Required(FieldOldPassword, input.OldPassword).
		Required(FieldNewPassword, input.NewPassword).
		MaxLen(FieldNewPassword, input.NewPassword, MaxFieldLength).
		Required(FieldConfirmPassword, input.ConfirmPassword).
		Custom(FieldConfirmPassword, input.ConfirmPassword != input.NewPassword, MsgPasswordMismatch).
		Err()
}

// # Outputs

// Issued is a freshly opened gateway session. Token is shown exactly once.
type Issued struct {
	Token     string          `json:"token"`
	Username  string          `json:"username"`
	User      json.RawMessage `json:"user,omitempty"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Profile is the public view of a session.
type Profile struct {
	SessionID string          `json:"session_id"`
	Username  string          `json:"username"`
	User      json.RawMessage `json:"user,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// ProfileOf projects session into a [Profile]; the backend token is never exposed.
func ProfileOf(session *sec.Session) Profile {
	return Profile{
		SessionID: session.ID,
		Username:  session.Username,
		User:      session.User,
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	}
}
