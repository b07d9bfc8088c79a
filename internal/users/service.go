// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package users

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/taibuivan/facilityadmin/internal/platform/apiclient"
	"github.com/taibuivan/facilityadmin/internal/platform/constants"
	"github.com/taibuivan/facilityadmin/pkg/pagination"
)

// Remote is the subset of [apiclient.Client] the directory needs.
type Remote interface {
	Fetch(ctx context.Context, req apiclient.Request) (*apiclient.Envelope, error)
}

// Query selects a page of the directory.
//
// Phone takes precedence over CohortID. A phone search ignores paging.
type Query struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
	CohortID  string
	Phone     string
}

// withDefaults fills the zero fields.
func (q Query) withDefaults() Query {
	if q.Page < 1 {
		q.Page = pagination.DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = constants.UserPageSize
	}
	if q.SortBy == "" {
		q.SortBy = constants.UserSortField
	}
	if q.SortOrder == "" {
		q.SortOrder = constants.SortAsc
	}
	return q
}

// Page is one page of the directory.
type Page struct {
	Users      []User
	Pagination pagination.Meta
	Message    string
}

// PhoneNotFoundMessage is reported when a phone search matches nobody.
const PhoneNotFoundMessage = "Phone number not found"

// Service reads the user directory from the remote API.
type Service struct {
	remote Remote
	logger *slog.Logger
}

// NewService constructs a [Service].
func NewService(remote Remote, logger *slog.Logger) *Service {
	return &Service{
		remote: remote,
		logger: logger,
	}
}

// List returns one page of users.
//
// # Routing
//   - Phone set: GET /users/wa/{phone}. A 404 is an empty page, not an error.
//   - CohortID set: GET /users/angkatan/{cohort} with paging and sorting.
//   - Otherwise: GET /users with paging and sorting.
func (service *Service) List(ctx context.Context, query Query) (*Page, error) {
	query = query.withDefaults()

	if query.Phone != "" {
		return service.findByPhone(ctx, query.Phone)
	}

	path := "/users"
	if query.CohortID != "" {
		path = "/users/angkatan/" + url.PathEscape(query.CohortID)
	}

	values := pagination.Params{Page: query.Page, Limit: query.Limit}.Values()
	values.Set(FieldSortBy, query.SortBy)
	values.Set(FieldSortOrder, query.SortOrder)

	envelope, err := service.remote.Fetch(ctx, apiclient.Request{Path: path, Query: values})
	if err != nil {
		return nil, apiclient.Translate(err)
	}

	list, err := apiclient.DecodeList[User](envelope)
	if err != nil {
		return nil, apiclient.Translate(err)
	}

	page := &Page{Users: list, Message: envelope.Message}
	if envelope.Pagination != nil {
		page.Pagination = *envelope.Pagination
	} else {
		page.Pagination = pagination.NewMeta(query.Page, query.Limit, len(list))
	}

	return page, nil
}

// findByPhone looks a single user up by WhatsApp number.
func (service *Service) findByPhone(ctx context.Context, phone string) (*Page, error) {
	envelope, err := service.remote.Fetch(ctx, apiclient.Request{Path: "/users/wa/" + url.PathEscape(phone)})
	if err != nil {
		if apiclient.IsStatus(err, http.StatusNotFound) {
			service.logger.DebugContext(ctx, "user_phone_not_found")
			return &Page{
				Users:      []User{},
				Pagination: pagination.Meta{Page: 1, Limit: 1, Total: 0, TotalPages: 0},
				Message:    PhoneNotFoundMessage,
			}, nil
		}
		return nil, apiclient.Translate(err)
	}

	list, err := apiclient.DecodeList[User](envelope)
	if err != nil {
		return nil, apiclient.Translate(err)
	}

	limit := len(list)
	if limit == 0 {
		limit = 1
	}

	return &Page{
		Users:      list,
		Pagination: pagination.Meta{Page: 1, Limit: limit, Total: len(list), TotalPages: 1},
		Message:    envelope.Message,
	}, nil
}

// Count returns the total number of users the token may see.
//
// It asks for a single record and reads the pagination total; without a
// pagination block only the returned records are counted.
func (service *Service) Count(ctx context.Context) (int, error) {
	values := pagination.Params{Page: pagination.DefaultPage, Limit: 1}.Values()

	envelope, err := service.remote.Fetch(ctx, apiclient.Request{Path: "/users", Query: values})
	if err != nil {
		return 0, apiclient.Translate(err)
	}
	return envelope.Total(), nil
}
