// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/facilityadmin/internal/account"
	"github.com/taibuivan/facilityadmin/internal/platform/apperr"
	"github.com/taibuivan/facilityadmin/internal/platform/middleware"
	requestutil "github.com/taibuivan/facilityadmin/internal/platform/request"
	"github.com/taibuivan/facilityadmin/internal/platform/respond"
	"github.com/taibuivan/facilityadmin/internal/platform/validate"
)

// Handler exposes the session lifecycle to the console.
type Handler struct {
	manager *Manager
}

// NewHandler constructs a new session [Handler].
func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

// RegisterRoutes mounts the session endpoints.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Public
	router.Get("/", handler.getSession)
	router.Post("/login", handler.login)
	router.Delete("/", handler.logout)

	// Signed-in only
	router.With(middleware.RequireAuthenticated(handler.manager)).Post("/refresh", handler.refresh)
}

/*
GET /api/v1/session.

Description: Returns the current session phase, profile and admin status.

Response:
  - 200: Snapshot
*/
func (handler *Handler) getSession(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, handler.manager.Snapshot())
}

// loginRequest defines the expected JSON payload for login.
type loginRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

// loginResponse tells the caller whether to enter the admin area.
type loginResponse struct {
	IsAdmin bool     `json:"isAdmin"`
	Session Snapshot `json:"session"`
}

/*
POST /api/v1/session/login.

Description: Signs in against the remote API and probes admin access.
A non-admin login succeeds with isAdmin=false; the caller decides what to do.

Request:
  - body: loginRequest

Response:
  - 200: loginResponse
  - 400: ErrValidation: Missing or malformed credentials
  - 4xx: Remote rejection, message kept verbatim
  - 409: ErrConflict: The session changed while signing in
  - 502: ErrBadGateway: Remote API unreachable
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(account.FieldPhoneNumber, input.PhoneNumber).Phone(account.FieldPhoneNumber, input.PhoneNumber)
	validator.Required(account.FieldPassword, input.Password).MaxLen(account.FieldPassword, input.Password, account.MaxPasswordLength)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	isAdmin, err := handler.manager.Login(request.Context(), account.Credentials{
		PhoneNumber: input.PhoneNumber,
		Password:    input.Password,
	})
	if err != nil {
		respond.Error(writer, request, loginError(err))
		return
	}

	respond.OK(writer, loginResponse{IsAdmin: isAdmin, Session: handler.manager.Snapshot()})
}

/*
POST /api/v1/session/refresh.

Description: Re-reads the profile of the signed-in admin. A failure signs
the console out.

Response:
  - 200: Snapshot
  - 401: ErrUnauthorized: Not signed in, or the token was rejected
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	if err := handler.manager.RefreshProfile(request.Context()); err != nil {
		respond.Error(writer, request, loginError(err))
		return
	}
	respond.OK(writer, handler.manager.Snapshot())
}

/*
DELETE /api/v1/session.

Description: Signs out. Always succeeds.

Response:
  - 204: No Content
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	handler.manager.Logout(request.Context())
	respond.NoContent(writer)
}

// loginError maps session-level failures that carry no console code.
func loginError(err error) error {
	if errors.Is(err, ErrSuperseded) {
		conflict := apperr.Conflict("The session changed while signing in")
		conflict.Cause = err
		return conflict
	}
	return err
}
