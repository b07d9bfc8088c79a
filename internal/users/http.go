// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/facilityadmin/internal/platform/constants"
	requestutil "github.com/taibuivan/facilityadmin/internal/platform/request"
	"github.com/taibuivan/facilityadmin/internal/platform/respond"
	"github.com/taibuivan/facilityadmin/internal/platform/validate"
	"github.com/taibuivan/facilityadmin/pkg/pagination"
)

// Handler implements the HTTP layer of the user directory.
type Handler struct {
	service *Service
}

// NewHandler constructs a new users [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the directory endpoints. The caller applies the
// admin gate.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listUsers)
}

/*
GET /api/v1/users.

Description: Lists users by page, by cohort, or finds one by WhatsApp number.

Request:
  - page, limit: int (optional)
  - sortBy: string (optional, one of SortableFields)
  - sortOrder: "asc" | "desc" (optional)
  - cohort: string (optional)
  - phone: string (optional, 8-15 digits with optional leading "+")

Response:
  - 200: []User with pagination; an unknown phone yields an empty page
  - 400: ErrValidation: Invalid query
  - 403: ErrForbidden: Remote API refused the listing
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request, constants.UserPageSize)

	query := Query{
		Page:      params.Page,
		Limit:     params.Limit,
		SortBy:    requestutil.Query(request, FieldSortBy),
		SortOrder: requestutil.Query(request, FieldSortOrder),
		CohortID:  requestutil.Query(request, FieldCohort),
		Phone:     requestutil.Query(request, FieldPhone),
	}

	validator := &validate.Validator{}
	if query.SortBy != "" {
		validator.OneOf(FieldSortBy, query.SortBy, SortableFields...)
	}
	if query.SortOrder != "" {
		validator.OneOf(FieldSortOrder, query.SortOrder, constants.SortAsc, constants.SortDesc)
	}
	if query.Phone != "" {
		validator.Phone(FieldPhone, query.Phone)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := handler.service.List(request.Context(), query)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, page.Users, &page.Pagination, page.Message)
}
