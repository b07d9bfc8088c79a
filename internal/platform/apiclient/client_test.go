// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apiclient_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/facilityadmin/internal/platform/apiclient"
	"github.com/taibuivan/facilityadmin/internal/platform/apperr"
	"github.com/taibuivan/facilityadmin/pkg/pagination"
)

type fakeSession struct {
	mu          sync.Mutex
	token       string
	invalidated []string
}

func (s *fakeSession) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *fakeSession) Invalidate(_ context.Context, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidated = append(s.invalidated, token)
}

func newClient(t *testing.T, handler http.HandlerFunc) (*apiclient.Client, *fakeSession) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := apiclient.New(apiclient.Options{BaseURL: server.URL + "/api/v1/", HTTPClient: server.Client()})
	session := &fakeSession{token: "tok-1"}
	client.Attach(session)
	return client, session
}

/*
TestFetch_Headers verifies the bearer token, cache policy and query encoding.
*/
func TestFetch_Headers(t *testing.T) {
	client, _ := newClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/v1/communal", request.URL.Path)
		assert.Equal(t, "1", request.URL.Query().Get("page"))
		assert.Equal(t, "Bearer tok-1", request.Header.Get("Authorization"))
		assert.Equal(t, "no-store", request.Header.Get("Cache-Control"))
		_, _ = writer.Write([]byte(`{"success":true,"data":[{"id":1}],"pagination":{"page":1,"limit":1,"total":9,"totalPages":9}}`))
	})

	envelope, err := client.Fetch(context.Background(), apiclient.Request{
		Path:  "/communal",
		Query: url.Values{"page": {"1"}},
	})
	require.NoError(t, err)
	assert.True(t, envelope.Success)
	assert.True(t, envelope.HasData())
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 9, envelope.Pagination.Total)
}

/*
TestFetch_TokenOverride verifies the explicit token wins over the session.
*/
func TestFetch_TokenOverride(t *testing.T) {
	client, _ := newClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "Bearer explicit", request.Header.Get("Authorization"))
		_, _ = writer.Write([]byte(`{"success":true,"data":null}`))
	})

	envelope, err := client.Fetch(context.Background(), apiclient.Request{Path: "/users", Token: "explicit"})
	require.NoError(t, err)
	assert.False(t, envelope.HasData())
}

/*
TestFetch_Unauthorized verifies a 401 notifies the session with the sent token.
*/
func TestFetch_Unauthorized(t *testing.T) {
	client, session := newClient(t, func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusUnauthorized)
		_, _ = writer.Write([]byte(`{"success":false,"message":"Token expired"}`))
	})

	_, err := client.Fetch(context.Background(), apiclient.Request{Path: "/auth/profile"})
	require.Error(t, err)

	var apiError *apiclient.Error
	require.ErrorAs(t, err, &apiError)
	assert.Equal(t, http.StatusUnauthorized, apiError.Status)
	assert.Equal(t, "Token expired", apiError.Message)
	assert.Equal(t, []string{"tok-1"}, session.invalidated)
}

/*
TestFetch_ErrorMessageFallback verifies the status text is used without a JSON message.
*/
func TestFetch_ErrorMessageFallback(t *testing.T) {
	client, session := newClient(t, func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusInternalServerError)
		_, _ = writer.Write([]byte(`<html>boom</html>`))
	})

	_, err := client.Fetch(context.Background(), apiclient.Request{Path: "/theater"})

	var apiError *apiclient.Error
	require.ErrorAs(t, err, &apiError)
	assert.Equal(t, "Internal Server Error", apiError.Message)
	assert.Nil(t, apiError.Body)
	assert.Empty(t, session.invalidated)
}

/*
TestFetch_NonJSONSuccess verifies an unparsable success body counts as null data.
*/
func TestFetch_NonJSONSuccess(t *testing.T) {
	client, _ := newClient(t, func(writer http.ResponseWriter, _ *http.Request) {
		_, _ = writer.Write([]byte(`deleted`))
	})

	var out map[string]any
	err := client.Do(context.Background(), apiclient.Request{Method: http.MethodDelete, Path: "/dapur/7"}, &out)
	require.NoError(t, err)
	assert.Nil(t, out)
}

/*
TestFetch_TransportFailure verifies network errors are not classified as remote answers.
*/
func TestFetch_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client := apiclient.New(apiclient.Options{BaseURL: baseURL})
	_, err := client.Fetch(context.Background(), apiclient.Request{Path: "/users"})

	require.Error(t, err)
	assert.Equal(t, 0, apiclient.StatusOf(err))
	assert.Equal(t, "BAD_GATEWAY", apperr.As(apiclient.Translate(err)).Code)
}

/*
TestTranslate verifies the remote status taxonomy maps onto console errors.
*/
func TestTranslate(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unauthorized", &apiclient.Error{Status: 401, Message: "expired"}, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", &apiclient.Error{Status: 403, Message: "admins only"}, http.StatusForbidden, "FORBIDDEN"},
		{"not_found", &apiclient.Error{Status: 404, Message: "gone"}, http.StatusNotFound, "NOT_FOUND"},
		{"conflict", &apiclient.Error{Status: 409, Message: "slot taken"}, http.StatusConflict, "REMOTE_REJECTED"},
		{"server", &apiclient.Error{Status: 503, Message: "down"}, http.StatusBadGateway, "BAD_GATEWAY"},
		{"transport", errors.New("dial tcp: refused"), http.StatusBadGateway, "BAD_GATEWAY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appError := apperr.As(apiclient.Translate(tt.err))
			require.NotNil(t, appError)
			assert.Equal(t, tt.status, appError.HTTPStatus)
			assert.Equal(t, tt.code, appError.Code)
		})
	}

	assert.NoError(t, apiclient.Translate(nil))
	assert.Equal(t, "slot taken", apiclient.Translate(&apiclient.Error{Status: 409, Message: "slot taken"}).Error())
}

/*
TestDecodeList verifies array, single-object and null payloads.
*/
func TestDecodeList(t *testing.T) {
	tests := []struct {
		name string
		data string
		want int
	}{
		{"array", `[{"id":"a"},{"id":"b"}]`, 2},
		{"single", `{"id":"a"}`, 1},
		{"null", `null`, 0},
		{"absent", ``, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envelope := &apiclient.Envelope{Data: []byte(tt.data)}
			list, err := apiclient.DecodeList[map[string]any](envelope)
			require.NoError(t, err)
			assert.NotNil(t, list)
			assert.Len(t, list, tt.want)
		})
	}
}

/*
TestEnvelopeTotal verifies the pagination total wins over the payload length.
*/
func TestEnvelopeTotal(t *testing.T) {
	withPagination := &apiclient.Envelope{Data: []byte(`[{}]`), Pagination: &pagination.Meta{Total: 42}}
	assert.Equal(t, 42, withPagination.Total())

	assert.Equal(t, 3, (&apiclient.Envelope{Data: []byte(`[{},{},{}]`)}).Total())
	assert.Equal(t, 0, (&apiclient.Envelope{Data: []byte(`{"id":1}`)}).Total())
	assert.Equal(t, 0, (&apiclient.Envelope{}).Total())
}
