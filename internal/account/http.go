// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/facilityadmin/internal/platform/request"
	"github.com/taibuivan/facilityadmin/internal/platform/respond"
	"github.com/taibuivan/facilityadmin/internal/platform/validate"
)

// Handler implements the HTTP layer for account management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// RegisterRoutes mounts the account endpoints. The caller applies the
// authentication gate.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Put("/password", handler.updatePassword)
}

// updatePasswordRequest defines the expected JSON payload for password changes.
type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

/*
PUT /api/v1/account/password.

Description: Changes the password of the signed-in admin on the remote API.

Request:
  - body: updatePasswordRequest

Response:
  - 200: Success envelope with the remote confirmation message
  - 400: ErrValidation: Missing or short password
  - 401: ErrUnauthorized: Session expired
  - 4xx: REMOTE_REJECTED: e.g. wrong current password
*/
func (handler *Handler) updatePassword(writer http.ResponseWriter, request *http.Request) {
	var input updatePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldCurrentPassword, input.CurrentPassword).MaxLen(FieldCurrentPassword, input.CurrentPassword, MaxPasswordLength)
	validator.Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, MinPasswordLength).
		MaxLen(FieldNewPassword, input.NewPassword, MaxPasswordLength)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	message, err := handler.accountService.UpdatePassword(request.Context(), PasswordChange{
		CurrentPassword: input.CurrentPassword,
		NewPassword:     input.NewPassword,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if message == "" {
		message = "Password updated"
	}
	respond.JSON(writer, http.StatusOK, respond.SuccessEnvelope{Success: true, Message: message})
}
