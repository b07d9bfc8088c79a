// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apiclient is the only door to the remote booking API.

Every module of the console talks to the remote API through [Client]: it
resolves the bearer token, issues a fresh (never cached) request against the
configured base URL, decodes the {success, data, message?, pagination?}
envelope and turns non-2xx answers into a typed [*Error].

# Status Classification

This package is the single place that classifies remote status codes.
Callers receive either an [*Envelope] or one error value and decide locally
whether to degrade, retry or propagate ([StatusOf], [IsStatus], [Translate]).

# Session Invalidation

A 401 answer is session-fatal regardless of which call produced it: the
client notifies the attached [Session] before returning the error, so a
stale credential is dropped even when the caller ignores the failure.
*/
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/taibuivan/facilityadmin/internal/platform/constants"
	"github.com/taibuivan/facilityadmin/internal/platform/ctxutil"
	"github.com/taibuivan/facilityadmin/pkg/pagination"
)

// # Contracts

// Session is the credential holder the client reads tokens from and reports
// rejected tokens to. [session.Manager] implements it.
type Session interface {
	// Token returns the current bearer token, or "" when signed out.
	Token() string

	// Invalidate is called after the remote API answered 401 for token.
	Invalidate(ctx context.Context, token string)
}

// Request describes one call against the remote API.
type Request struct {
	// Method defaults to GET.
	Method string

	// Path is relative to the base URL and must start with "/".
	Path string

	// Query is appended to the path when non-empty.
	Query url.Values

	// Body is JSON-encoded when non-nil.
	Body any

	// Header entries override the defaults.
	Header http.Header

	// Token overrides the session token when non-empty.
	Token string
}

// Envelope is the wrapper every successful remote answer carries.
type Envelope struct {
	Success    bool             `json:"success"`
	Data       json.RawMessage  `json:"data"`
	Message    string           `json:"message,omitempty"`
	Pagination *pagination.Meta `json:"pagination,omitempty"`
}

// HasData reports whether the envelope carries a non-null payload.
func (e *Envelope) HasData() bool {
	trimmed := bytes.TrimSpace(e.Data)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// Decode unmarshals the payload into target, keeping numbers as [json.Number]
// when target holds untyped values. A null payload leaves target untouched.
func (e *Envelope) Decode(target any) error {
	if !e.HasData() {
		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(e.Data))
	decoder.UseNumber()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("apiclient: decode payload: %w", err)
	}
	return nil
}

// Total counts the records behind the envelope: the pagination total when
// present, else the length of an array payload, else 0.
func (e *Envelope) Total() int {
	if e.Pagination != nil {
		return e.Pagination.Total
	}

	trimmed := bytes.TrimSpace(e.Data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return 0
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return 0
	}
	return len(items)
}

// DecodeList unmarshals a payload that may be an array, a single object or
// null into a slice. A null payload yields an empty, non-nil slice.
func DecodeList[T any](envelope *Envelope) ([]T, error) {
	if envelope == nil || !envelope.HasData() {
		return []T{}, nil
	}

	if bytes.TrimSpace(envelope.Data)[0] == '[' {
		var list []T
		if err := envelope.Decode(&list); err != nil {
			return nil, err
		}
		if list == nil {
			list = []T{}
		}
		return list, nil
	}

	var single T
	if err := envelope.Decode(&single); err != nil {
		return nil, err
	}
	return []T{single}, nil
}

// # Client

// Options configures a [Client].
type Options struct {
	// BaseURL is the normalized remote API root, e.g. "https://host/api/v1".
	BaseURL string

	// HTTPClient overrides the instrumented default client.
	HTTPClient *http.Client

	// Logger is used when the request context carries none.
	Logger *slog.Logger
}

// Client issues authenticated requests against a single base URL.
//
// It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	session    atomic.Pointer[sessionRef]
}

type sessionRef struct {
	Session
}

// New constructs a [Client].
//
// The default transport is wrapped with otelhttp and carries no timeout of
// its own: deadlines come from the caller's context.
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// Attach binds the session that supplies tokens and receives 401 reports.
//
// It is called once during wiring, after the session manager (which itself
// depends on this client) has been built.
func (c *Client) Attach(session Session) {
	if session == nil {
		c.session.Store(nil)
		return
	}
	c.session.Store(&sessionRef{Session: session})
}

// BaseURL returns the normalized remote API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Fetch performs the request and returns the decoded envelope.
//
// # Failure Modes
//   - Transport failure: a wrapped error that is not an [*Error].
//   - Non-2xx status: an [*Error] carrying the message, status and raw body.
//   - Non-JSON success body: tolerated, the envelope is returned empty.
func (c *Client) Fetch(ctx context.Context, req Request) (*Envelope, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	token := c.resolveToken(req.Token)

	httpRequest, err := c.newRequest(ctx, method, req, token)
	if err != nil {
		return nil, err
	}

	logger := ctxutil.GetLogger(ctx)
	if logger == slog.Default() {
		logger = c.logger
	}

	startTime := time.Now()
	response, err := c.httpClient.Do(httpRequest)
	if err != nil {
		logger.WarnContext(ctx, "remote_request_failed",
			slog.String("method", method),
			slog.String("path", req.Path),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("apiclient: %s %s: %w", method, req.Path, err)
	}
	defer response.Body.Close()

	body, readErr := io.ReadAll(response.Body)

	logger.DebugContext(ctx, "remote_request_finished",
		slog.String("method", method),
		slog.String("path", req.Path),
		slog.Int("status", response.StatusCode),
		slog.Int64("latency_ms", time.Since(startTime).Milliseconds()),
	)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		if response.StatusCode == http.StatusUnauthorized {
			c.invalidate(ctx, token)
		}
		return nil, newError(response.StatusCode, body)
	}

	if readErr != nil {
		return nil, fmt.Errorf("apiclient: %s %s: read body: %w", method, req.Path, readErr)
	}

	envelope := &Envelope{}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, envelope); err != nil {
			// Non-JSON success bodies count as null data.
			envelope = &Envelope{}
		}
	}

	return envelope, nil
}

// Do performs the request and decodes the envelope payload into out.
// A nil out discards the payload.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	envelope, err := c.Fetch(ctx, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return envelope.Decode(out)
}

// # Internals

// resolveToken prefers the explicit override, then the attached session.
func (c *Client) resolveToken(override string) string {
	if override != "" {
		return override
	}
	if ref := c.session.Load(); ref != nil {
		return ref.Token()
	}
	return ""
}

// invalidate reports a rejected token to the attached session.
func (c *Client) invalidate(ctx context.Context, token string) {
	if ref := c.session.Load(); ref != nil {
		ref.Invalidate(ctx, token)
	}
}

// newRequest builds the outgoing [http.Request] with default headers.
func (c *Client) newRequest(ctx context.Context, method string, req Request, token string) (*http.Request, error) {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("apiclient: encode body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("apiclient: build request: %w", err)
	}

	httpRequest.Header.Set(constants.HeaderContentType, "application/json")
	httpRequest.Header.Set("Accept", "application/json")
	httpRequest.Header.Set(constants.HeaderCacheControl, "no-store")
	for key, values := range req.Header {
		httpRequest.Header.Del(key)
		for _, value := range values {
			httpRequest.Header.Add(key, value)
		}
	}

	if token != "" {
		httpRequest.Header.Set(constants.HeaderAuthorization, "Bearer "+token)
	}

	if requestID := ctxutil.GetRequestID(ctx); requestID != "" {
		httpRequest.Header.Set(constants.HeaderXRequestID, requestID)
	}

	return httpRequest, nil
}
