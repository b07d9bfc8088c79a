// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/facilityadmin/internal/platform/ctxutil"
	"github.com/taibuivan/facilityadmin/internal/platform/middleware"
)

type stubPrincipal string

func (p stubPrincipal) PrincipalID() string { return string(p) }

type stubSession struct {
	restoring     bool
	authenticated bool
	resolved      bool
	admin         bool
}

func (s stubSession) Restoring() bool       { return s.restoring }
func (s stubSession) IsAuthenticated() bool { return s.authenticated }
func (s stubSession) AdminResolved() bool   { return s.resolved }
func (s stubSession) IsAdmin() bool         { return s.admin }

func (s stubSession) Principal() ctxutil.Principal {
	if !s.authenticated {
		return nil
	}
	return stubPrincipal("u1")
}

var okHandler = http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
	writer.WriteHeader(http.StatusOK)
})

/*
TestRequireAdmin_Gates verifies the status produced for every session state.
*/
func TestRequireAdmin_Gates(t *testing.T) {
	tests := []struct {
		name    string
		session stubSession
		status  int
	}{
		{"restoring", stubSession{restoring: true}, http.StatusServiceUnavailable},
		{"anonymous", stubSession{}, http.StatusUnauthorized},
		{"probe_pending", stubSession{authenticated: true}, http.StatusServiceUnavailable},
		{"non_admin", stubSession{authenticated: true, resolved: true}, http.StatusForbidden},
		{"admin", stubSession{authenticated: true, resolved: true, admin: true}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			middleware.RequireAdmin(tt.session)(okHandler).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.status, recorder.Code)
		})
	}
}

/*
TestRequireAuthenticated verifies non-admins pass the authentication gate.
*/
func TestRequireAuthenticated(t *testing.T) {
	recorder := httptest.NewRecorder()
	middleware.RequireAuthenticated(stubSession{authenticated: true, resolved: true})(okHandler).
		ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	middleware.RequireAuthenticated(stubSession{})(okHandler).
		ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestAttachSession verifies the principal reaches downstream handlers.
*/
func TestAttachSession(t *testing.T) {
	var seen ctxutil.Principal
	handler := middleware.AttachSession(stubSession{authenticated: true})(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetPrincipal(request.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if assert.NotNil(t, seen) {
		assert.Equal(t, "u1", seen.PrincipalID())
	}
}

/*
TestRequestID verifies generation and propagation of the correlation id.
*/
func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, recorder.Header().Get("X-Request-ID"))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Request-ID", "given")
	handler.ServeHTTP(httptest.NewRecorder(), request)
	assert.Equal(t, "given", seen)
}

/*
TestRateLimiter verifies requests beyond the burst are rejected per IP.
*/
func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limiter := middleware.NewRateLimiter(ctx, 1, 2)
	handler := limiter.Middleware(okHandler)

	statuses := make([]int, 0, 3)
	for range 3 {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.RemoteAddr = "10.0.0.1:5000"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		statuses = append(statuses, recorder.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "10.0.0.2:5000"
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, other)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

type corsConfig struct {
	dev     bool
	origins []string
}

func (c corsConfig) IsDevelopment() bool      { return c.dev }
func (c corsConfig) AllowedOrigins() []string { return c.origins }

/*
TestCORS verifies suffix matching outside development.
*/
func TestCORS(t *testing.T) {
	handler := middleware.CORS(corsConfig{origins: []string{"admin.example.org"}})(okHandler)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Origin", "https://admin.example.org")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, "https://admin.example.org", recorder.Header().Get("Access-Control-Allow-Origin"))

	request = httptest.NewRequest(http.MethodOptions, "/", nil)
	request.Header.Set("Origin", "https://evil.test")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

/*
TestPanicRecovery verifies a panicking handler yields a 500 envelope.
*/
func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "INTERNAL_ERROR")
}
