// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bookdesk/internal/platform/middleware"
	requestutil "github.com/taibuivan/bookdesk/internal/platform/request"
	"github.com/taibuivan/bookdesk/internal/platform/respond"
	"github.com/taibuivan/bookdesk/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the authentication HTTP endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /register        : Creates a backend account and opens a session.
//   - POST /login           : Opens a session.
//   - PUT  /change-password : Replaces a password.
//   - POST /logout          : Closes the current session.
//   - GET  /me              : Describes the current session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Put("/change-password", handler.changePassword)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
		r.Get("/me", handler.me)
	})

	return router
}

/*
Register creates a backend account and signs it in.

POST /api/v1/auth/register

Request:
  - Body: RegisterInput (firstname, lastname, email, phone, username, password)

Response:
  - 201: Issued: Session token and account
  - 400: Validation failure
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input RegisterInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	issued, err := handler.authService.Register(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, issued)
}

/*
Login opens a gateway session.

POST /api/v1/auth/login

Request:
  - Body: LoginInput (username, password)

Response:
  - 200: Issued: Session token and account
  - 401: Credentials rejected by the backend
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input LoginInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	issued, err := handler.authService.Login(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, issued)
}

/*
ChangePassword replaces an account password.

PUT /api/v1/auth/change-password

Description: Signed-in callers change their own password. Anonymous callers
must name the account.

Request:
  - Body: ChangePasswordInput (username, oldPassword, newPassword, confirmPassword)

Response:
  - 200: {message}
  - 400: Validation failure (including a mismatched confirmation)
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	var input ChangePasswordInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	message, err := handler.authService.ChangePassword(request.Context(), requestutil.Session(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]string{"message": message})
}

/*
Logout closes the current session.

POST /api/v1/auth/logout

Response:
  - 204: Closed
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	token, err := middleware.SessionToken(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), token); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

/*
Me describes the current session.

GET /api/v1/auth/me

Response:
  - 200: Profile
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, ProfileOf(session))
}
