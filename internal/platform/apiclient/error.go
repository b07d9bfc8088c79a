// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/taibuivan/facilityadmin/internal/platform/apperr"
)

// Error is a non-2xx answer of the remote API.
type Error struct {
	// Message is the remote "message" field, or the status text.
	Message string

	// Status is the HTTP status code.
	Status int

	// Body is the raw error payload, nil when empty.
	Body json.RawMessage
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("remote api: %d: %s", e.Status, e.Message)
}

// newError builds an [*Error], reading the human-readable message from a
// JSON body when there is one.
func newError(status int, body []byte) *Error {
	apiError := &Error{Status: status}
	if len(body) > 0 && json.Valid(body) {
		apiError.Body = json.RawMessage(body)
	}

	var payload map[string]any
	if json.Unmarshal(body, &payload) == nil {
		if message, ok := payload["message"]; ok && message != nil {
			if text, isString := message.(string); isString {
				apiError.Message = text
			} else {
				apiError.Message = fmt.Sprint(message)
			}
		}
	}

	if apiError.Message == "" {
		apiError.Message = http.StatusText(status)
	}
	if apiError.Message == "" {
		apiError.Message = "Request failed"
	}

	return apiError
}

// # Classification

// StatusOf returns the remote status carried by err, or 0 when err is not an
// answer of the remote API (nil, transport failure, decoding problem).
func StatusOf(err error) int {
	var apiError *Error
	if errors.As(err, &apiError) {
		return apiError.Status
	}
	return 0
}

// IsStatus reports whether err is a remote answer with the given status.
func IsStatus(err error, status int) bool {
	return StatusOf(err) == status
}

// Translate maps a client error onto the console API error taxonomy.
//
//   - 401 → UNAUTHORIZED, 403 → FORBIDDEN, 404 → NOT_FOUND, message kept.
//   - Other 4xx → REMOTE_REJECTED with the remote status and message.
//   - 5xx and transport failures → BAD_GATEWAY.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	if appError := apperr.As(err); appError != nil {
		return appError
	}

	var apiError *Error
	if !errors.As(err, &apiError) {
		if errors.Is(err, context.DeadlineExceeded) {
			return apperr.BadGateway("Remote API timed out", err)
		}
		return apperr.BadGateway("Remote API unreachable", err)
	}

	switch {
	case apiError.Status == http.StatusUnauthorized:
		appError := apperr.Unauthorized(apiError.Message)
		appError.Cause = err
		return appError
	case apiError.Status == http.StatusForbidden:
		appError := apperr.Forbidden(apiError.Message)
		appError.Cause = err
		return appError
	case apiError.Status == http.StatusNotFound:
		return &apperr.AppError{
			Code:       "NOT_FOUND",
			Message:    apiError.Message,
			HTTPStatus: http.StatusNotFound,
			Cause:      err,
		}
	case apiError.Status >= 400 && apiError.Status < 500:
		return apperr.Rejected(apiError.Status, apiError.Message, err)
	default:
		return apperr.BadGateway(apiError.Message, err)
	}
}
