// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the console.

It defines server timeouts, rate limits, well-known persistence keys and the
fixed query shapes sent to the remote booking API.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Session: Persistence keys for the admin credential.
  - Remote Queries: Page sizes and sort fields used against the booking API.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "facility-admin"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	// The dashboard fans out fifteen remote calls, so this is wider than a plain CRUD API.
	DefaultWriteTimeout = 45 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 40 * time.Second

	// StartupTimeout bounds backend connections and session restoration at boot.
	StartupTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 20.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 40

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Session Persistence

const (
	// SessionKeyToken stores the bearer token issued by the remote API.
	SessionKeyToken = "authToken"

	// SessionKeyProfile stores the JSON-serialized profile of the token holder.
	SessionKeyProfile = "authUser"

	// SessionKeyExpiry stores when the token expires (RFC 3339), if known.
	SessionKeyExpiry = "authExpiresAt"

	// DefaultSessionKeyPrefix namespaces the session keys in shared backends.
	DefaultSessionKeyPrefix = "facilityadmin:session:"
)

// # Remote Queries

const (
	// DashboardLatestPerModule is how many recent bookings are pulled per module.
	DashboardLatestPerModule = 4

	// DashboardLatestTotal caps the merged recent-bookings list.
	DashboardLatestTotal = 10

	// BookingPageSize is the default page size for the module booking browser.
	BookingPageSize = 12

	// UserPageSize is the default page size for the user directory.
	UserPageSize = 20

	// BookingSortField is the remote field bookings are ordered by.
	BookingSortField = "waktuMulai"

	// UserSortField is the remote field users are ordered by when none is requested.
	UserSortField = "namaLengkap"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
	HeaderCacheControl  = "Cache-Control"
	HeaderContentType   = "Content-Type"

	ContentTypeJSON = "application/json; charset=utf-8"
)

// # JSON Field Identifiers

const (
	FieldSuccess = "success"
	FieldError   = "error"
	FieldCode    = "code"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)
