// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package backend

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/taibuivan/bookdesk/internal/platform/apperr"
)

// # Account Payloads

// Credentials is the login body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the account creation body.
type Registration struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Role      int    `json:"role"`
}

// PasswordChange is the change-password body.
type PasswordChange struct {
	Username    string `json:"username"`
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// Login is the backend's answer to login and register: the account and its access token.
type Login struct {
	User        json.RawMessage `json:"user"`
	AccessToken string          `json:"accessToken"`
}

// # Account Calls

// Login exchanges credentials for an access token. POST /login
func (client *Client) Login(ctx context.Context, credentials Credentials) (*Login, error) {
	return client.authenticate(ctx, "login", "/login", credentials)
}

// Register creates an account and signs it in. POST /register
func (client *Client) Register(ctx context.Context, registration Registration) (*Login, error) {
	return client.authenticate(ctx, "register", "/register", registration)
}

func (client *Client) authenticate(ctx context.Context, endpoint, path string, body any) (*Login, error) {
	var login Login
	if err := client.do(ctx, call{endpoint: endpoint, method: http.MethodPost, path: path, body: body}, &login); err != nil {
		return nil, err
	}
	if login.AccessToken == "" {
		return nil, apperr.Server(http.StatusBadGateway, "The book service answered without an access token")
	}
	return &login, nil
}

// ChangePassword replaces the account password. PUT /change-password
//
// token is optional; when given it is checked and forwarded. Returns the backend message.
func (client *Client) ChangePassword(ctx context.Context, token string, change PasswordChange) (string, error) {
	if token != "" {
		if err := client.authorize(token); err != nil {
			return "", err
		}
	}

	var answer struct {
		Message string `json:"message"`
	}
	err := client.do(ctx, call{
		endpoint: "change_password",
		method:   http.MethodPut,
		path:     "/change-password",
		body:     change,
		token:    token,
	}, &answer)
	if err != nil {
		return "", err
	}

	if answer.Message == "" {
		answer.Message = "Password changed successfully"
	}
	return answer.Message, nil
}
