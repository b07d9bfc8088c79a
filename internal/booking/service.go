// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package booking

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/taibuivan/facilityadmin/internal/facility"
	"github.com/taibuivan/facilityadmin/internal/platform/apiclient"
	"github.com/taibuivan/facilityadmin/internal/platform/apperr"
	"github.com/taibuivan/facilityadmin/internal/platform/constants"
	"github.com/taibuivan/facilityadmin/pkg/pagination"
	"github.com/taibuivan/facilityadmin/pkg/slice"
)

// Remote is the subset of [apiclient.Client] the booking service needs.
type Remote interface {
	Fetch(ctx context.Context, req apiclient.Request) (*apiclient.Envelope, error)
}

// Page is one page of a module's bookings.
type Page struct {
	Module     facility.Key
	Items      []Summary
	Pagination *pagination.Meta
}

// Service reads and deletes bookings on the remote API.
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

// List returns one page of bookings of module key, newest first.
//
// A zero page or limit falls back to page 1 and [constants.BookingPageSize].
// The pagination block is passed through as received and may be nil.
func (service *Service) List(ctx context.Context, key facility.Key, params pagination.Params) (*Page, error) {
	if !key.Valid() {
		return nil, apperr.NotFound("Facility")
	}
	if params.Page < 1 {
		params.Page = pagination.DefaultPage
	}
	if params.Limit < 1 {
		params.Limit = constants.BookingPageSize
	}

	envelope, items, err := service.fetch(ctx, key, params)
	if err != nil {
		return nil, apiclient.Translate(err)
	}

	return &Page{
		Module:     key,
		Items:      items,
		Pagination: envelope.Pagination,
	}, nil
}

// Latest returns at most n of the most recent bookings of module key.
func (service *Service) Latest(ctx context.Context, key facility.Key, n int) ([]Summary, error) {
	if !key.Valid() {
		return nil, apperr.NotFound("Facility")
	}

	_, items, err := service.fetch(ctx, key, pagination.Params{Page: pagination.DefaultPage, Limit: n})
	if err != nil {
		return nil, apiclient.Translate(err)
	}
	return slice.Take(items, n), nil
}

// Count returns the number of bookings of module key.
//
// It asks for a single record and reads the pagination total; without a
// pagination block only the returned records are counted.
func (service *Service) Count(ctx context.Context, key facility.Key) (int, error) {
	if !key.Valid() {
		return 0, apperr.NotFound("Facility")
	}

	values := pagination.Params{Page: pagination.DefaultPage, Limit: 1}.Values()

	envelope, err := service.remote.Fetch(ctx, apiclient.Request{Path: key.Path(), Query: values})
	if err != nil {
		return 0, apiclient.Translate(err)
	}
	return envelope.Total(), nil
}

// Delete removes booking id of module key.
func (service *Service) Delete(ctx context.Context, key facility.Key, id string) error {
	if !key.Valid() {
		return apperr.NotFound("Facility")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return apperr.ValidationError("Booking id is required")
	}

	_, err := service.remote.Fetch(ctx, apiclient.Request{
		Method: http.MethodDelete,
		Path:   key.Path() + "/" + url.PathEscape(id),
	})
	if err != nil {
		return apiclient.Translate(err)
	}

	service.logger.InfoContext(ctx, "booking_deleted",
		slog.String("module", string(key)),
		slog.String("booking_id", id),
	)
	return nil
}

// fetch requests a page of a valid module sorted by start time, newest first, and normalizes it.
func (service *Service) fetch(ctx context.Context, key facility.Key, params pagination.Params) (*apiclient.Envelope, []Summary, error) {
	values := params.Values()
	values.Set("sortBy", constants.BookingSortField)
	values.Set("sortOrder", constants.SortDesc)

	envelope, err := service.remote.Fetch(ctx, apiclient.Request{Path: key.Path(), Query: values})
	if err != nil {
		return nil, nil, err
	}

	raws, err := apiclient.DecodeList[Raw](envelope)
	if err != nil {
		return nil, nil, err
	}

	items := slice.Map(raws, func(raw Raw) Summary {
		return Normalize(key, raw, "")
	})
	if items == nil {
		items = []Summary{}
	}

	return envelope, items, nil
}
