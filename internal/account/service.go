// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/taibuivan/facilityadmin/internal/platform/apiclient"
	"github.com/taibuivan/facilityadmin/internal/platform/apperr"
	"github.com/taibuivan/facilityadmin/internal/users"
)

// ErrMissingToken is returned when the remote login answer carries no token.
var ErrMissingToken = errors.New("account: login response carries no token")

// Remote is the subset of [apiclient.Client] the account layer needs.
type Remote interface {
	Fetch(ctx context.Context, req apiclient.Request) (*apiclient.Envelope, error)
}

// # Service Layer

// Service calls the remote authentication endpoints.
type Service struct {
	remote Remote
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(remote Remote, logger *slog.Logger) *Service {
	return &Service{
		remote: remote,
		logger: logger,
	}
}

/*
Login exchanges credentials for a bearer token and the holder's profile.

Returns:
  - *Grant: Token and profile
  - error: The remote rejection (message kept verbatim) or [ErrMissingToken]
*/
func (service *Service) Login(ctx context.Context, credentials Credentials) (*Grant, error) {
	envelope, err := service.remote.Fetch(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   credentials,
	})
	if err != nil {
		return nil, apiclient.Translate(err)
	}

	var grant Grant
	if err := envelope.Decode(&grant); err != nil {
		return nil, apiclient.Translate(err)
	}

	if grant.Token == "" {
		return nil, apperr.BadGateway("Login response carries no token", ErrMissingToken)
	}

	service.logger.InfoContext(ctx, "remote_login_succeeded", slog.String("user_id", grant.User.ID.String()))
	return &grant, nil
}

/*
Profile fetches the profile of the holder of token.

An empty token falls back to the token of the current session.
*/
func (service *Service) Profile(ctx context.Context, token string) (*users.User, error) {
	envelope, err := service.remote.Fetch(ctx, apiclient.Request{Path: "/auth/profile", Token: token})
	if err != nil {
		return nil, apiclient.Translate(err)
	}

	var user users.User
	if err := envelope.Decode(&user); err != nil {
		return nil, apiclient.Translate(err)
	}

	return &user, nil
}

/*
UpdatePassword forwards a password change for the signed-in admin.

Returns:
  - string: The remote confirmation message, possibly empty
  - error: The remote rejection (e.g. wrong current password)
*/
func (service *Service) UpdatePassword(ctx context.Context, change PasswordChange) (string, error) {
	envelope, err := service.remote.Fetch(ctx, apiclient.Request{
		Method: http.MethodPut,
		Path:   "/auth/update-password",
		Body:   change,
	})
	if err != nil {
		return "", apiclient.Translate(err)
	}

	service.logger.InfoContext(ctx, "password_updated")
	return envelope.Message, nil
}
