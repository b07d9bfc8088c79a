// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package access decides whether a token holder is an administrator.

The remote API exposes no role claim, so admin capability is inferred by
asking for the smallest admin-only resource (one row of the user listing)
and reading the status code.
*/
package access

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/taibuivan/facilityadmin/internal/platform/apiclient"
	"github.com/taibuivan/facilityadmin/pkg/pagination"
)

// ErrNoToken is returned when the probe is asked to run without a token.
var ErrNoToken = errors.New("access: probe requires a token")

// Remote is the subset of [apiclient.Client] the probe needs.
type Remote interface {
	Fetch(ctx context.Context, req apiclient.Request) (*apiclient.Envelope, error)
}

/*
Probe reports whether token grants admin access.

# Outcomes
  - 2xx: true.
  - 403: false. A refusal is data, not a failure.
  - Anything else (401, 5xx, transport): an error, never false.
*/
func Probe(ctx context.Context, remote Remote, token string) (bool, error) {
	if token == "" {
		return false, ErrNoToken
	}

	_, err := remote.Fetch(ctx, apiclient.Request{
		Path:  "/users",
		Query: pagination.Params{Page: 1, Limit: 1}.Values(),
		Token: token,
	})
	switch {
	case err == nil:
		return true, nil
	case apiclient.IsStatus(err, http.StatusForbidden):
		return false, nil
	default:
		return false, err
	}
}

// Prober binds [Probe] to a remote client.
type Prober struct {
	remote Remote
	logger *slog.Logger
}

// NewProber constructs a [Prober].
func NewProber(remote Remote, logger *slog.Logger) *Prober {
	return &Prober{remote: remote, logger: logger}
}

// Probe runs the admin probe for token.
func (prober *Prober) Probe(ctx context.Context, token string) (bool, error) {
	isAdmin, err := Probe(ctx, prober.remote, token)
	if err != nil {
		prober.logger.WarnContext(ctx, "admin_probe_failed",
			slog.Int("status", apiclient.StatusOf(err)),
			slog.Any("error", err),
		)
		return false, err
	}

	prober.logger.DebugContext(ctx, "admin_probe_finished", slog.Bool("is_admin", isAdmin))
	return isAdmin, nil
}
