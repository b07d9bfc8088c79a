// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package booking

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/facilityadmin/internal/facility"
	"github.com/taibuivan/facilityadmin/internal/platform/apperr"
	"github.com/taibuivan/facilityadmin/internal/platform/constants"
	requestutil "github.com/taibuivan/facilityadmin/internal/platform/request"
	"github.com/taibuivan/facilityadmin/internal/platform/respond"
	"github.com/taibuivan/facilityadmin/internal/platform/viewslot"
	"github.com/taibuivan/facilityadmin/pkg/pagination"
)

// Listing is the booking page the console showed last.
type Listing struct {
	Module     facility.Key     `json:"module"`
	Items      []Summary        `json:"items"`
	Pagination *pagination.Meta `json:"pagination,omitempty"`
	LoadedAt   time.Time        `json:"loadedAt"`
}

// Handler implements the HTTP layer of the booking browser.
type Handler struct {
	service *Service
	current viewslot.Slot[Listing]
}

// NewHandler constructs a new booking [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the booking endpoints. The caller applies the
// admin gate.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/current", handler.currentListing)
	router.Get("/{module}", handler.listBookings)
	router.Delete("/{module}/{id}", handler.deleteBooking)
}

/*
GET /api/v1/bookings/{module}.

Description: Lists the bookings of one facility module, newest first.
The page becomes the current listing unless a newer listing was requested
while it loaded.

Request:
  - module: facility key
  - page, limit: int (optional, limit defaults to 12)

Response:
  - 200: []Summary with the remote pagination
  - 404: ErrNotFound: Unknown facility module
  - 403: ErrForbidden: Remote API refused the listing
*/
func (handler *Handler) listBookings(writer http.ResponseWriter, request *http.Request) {
	key, err := facility.Parse(requestutil.Param(request, "module"))
	if err != nil {
		respond.Error(writer, request, apperr.NotFound("Facility"))
		return
	}

	ticket := handler.current.Begin()

	page, err := handler.service.List(request.Context(), key, pagination.FromRequest(request, constants.BookingPageSize))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.current.Commit(ticket, Listing{
		Module:     page.Module,
		Items:      page.Items,
		Pagination: page.Pagination,
		LoadedAt:   time.Now().UTC(),
	})

	respond.Paginated(writer, page.Items, page.Pagination, "")
}

/*
GET /api/v1/bookings/current.

Description: Returns the most recent committed listing without calling the
remote API.

Response:
  - 200: Listing
  - 404: ErrNotFound: No listing loaded yet
*/
func (handler *Handler) currentListing(writer http.ResponseWriter, request *http.Request) {
	listing, ok := handler.current.Load()
	if !ok {
		respond.Error(writer, request, apperr.NotFound("Booking listing"))
		return
	}
	respond.OK(writer, listing)
}

/*
DELETE /api/v1/bookings/{module}/{id}.

Description: Deletes one booking. A current listing of the same module is
dropped so it is reloaded rather than shown stale.

Response:
  - 204: No Content
  - 404: ErrNotFound: Unknown module or booking
*/
func (handler *Handler) deleteBooking(writer http.ResponseWriter, request *http.Request) {
	key, err := facility.Parse(requestutil.Param(request, "module"))
	if err != nil {
		respond.Error(writer, request, apperr.NotFound("Facility"))
		return
	}

	if err := handler.service.Delete(request.Context(), key, requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.current.ResetIf(func(listing Listing) bool { return listing.Module == key })

	respond.NoContent(writer)
}
