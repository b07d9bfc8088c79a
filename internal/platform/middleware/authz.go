// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"

	"github.com/taibuivan/facilityadmin/internal/platform/apperr"
	"github.com/taibuivan/facilityadmin/internal/platform/ctxutil"
	"github.com/taibuivan/facilityadmin/internal/platform/respond"
)

// SessionState is the view of the admin session the gates need.
//
// Defining it here decouples the middleware from the session package, so
// the session handlers can mount these gates without an import cycle and
// tests can inject a stub.
type SessionState interface {
	Restoring() bool
	IsAuthenticated() bool
	AdminResolved() bool
	IsAdmin() bool
	Principal() ctxutil.Principal
}

// AttachSession injects the signed-in admin into the request context for
// downstream logging.
//
// # Usage
//
// Register it before [StructuredLogger] so the final log line carries the
// user id.
func AttachSession(state SessionState) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if principal := state.Principal(); principal != nil {
				request = request.WithContext(ctxutil.WithPrincipal(request.Context(), principal))
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// RequireAuthenticated blocks requests while no admin is signed in.
//
// # Flow
//  1. Restoration in progress: 503 Service Unavailable.
//  2. No token: 401 Unauthorized.
func RequireAuthenticated(state SessionState) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if err := authenticated(state); err != nil {
				respond.Error(writer, request, err)
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// RequireAdmin blocks requests unless the probe granted admin access to the
// current token. It implies [RequireAuthenticated].
//
// # Flow
//  1. Authentication check (503 while restoring, 401 without token).
//  2. Probe pending: 503 Service Unavailable.
//  3. Probe denied: 403 Forbidden.
func RequireAdmin(state SessionState) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Authentication Check ───────────────────────────────────────
			if err := authenticated(state); err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !state.AdminResolved() {
				respond.Error(writer, request, apperr.ServiceUnavailable("Admin access is still being verified"))
				return
			}
			if !state.IsAdmin() {
				respond.Error(writer, request, apperr.Forbidden("Admin access required"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

func authenticated(state SessionState) *apperr.AppError {
	if state.Restoring() {
		return apperr.ServiceUnavailable("Session is being restored")
	}
	if !state.IsAuthenticated() {
		return apperr.Unauthorized("Authentication required")
	}
	return nil
}
