// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dashboard

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/facilityadmin/internal/platform/apperr"
	"github.com/taibuivan/facilityadmin/internal/platform/respond"
	"github.com/taibuivan/facilityadmin/internal/platform/viewslot"
)

// Snapshot is a committed summary and the time it was built.
type Snapshot struct {
	Summary
	BuiltAt time.Time `json:"builtAt"`
}

// Handler serves the dashboard.
type Handler struct {
	aggregator *Aggregator
	latest     viewslot.Slot[Snapshot]
}

// NewHandler constructs a new dashboard [Handler].
func NewHandler(aggregator *Aggregator) *Handler {
	return &Handler{aggregator: aggregator}
}

// RegisterRoutes mounts the dashboard endpoints. The caller applies the
// admin gate.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.build)
	router.Get("/snapshot", handler.snapshot)
}

/*
GET /api/v1/dashboard.

Description: Builds a fresh summary. It replaces the stored snapshot unless
a newer build was started while this one ran; the caller always receives
the summary it asked for.

Response:
  - 200: Snapshot
  - 503: ErrServiceUnavailable: The request was cancelled before completion
*/
func (handler *Handler) build(writer http.ResponseWriter, request *http.Request) {
	ticket := handler.latest.Begin()

	summary, err := handler.aggregator.Build(request.Context())
	if err != nil {
		unavailable := apperr.ServiceUnavailable("Dashboard load was cancelled")
		unavailable.Cause = err
		respond.Error(writer, request, unavailable)
		return
	}

	snapshot := Snapshot{Summary: summary, BuiltAt: time.Now().UTC()}
	handler.latest.Commit(ticket, snapshot)

	respond.OK(writer, snapshot)
}

/*
GET /api/v1/dashboard/snapshot.

Description: Returns the newest committed summary without calling the
remote API.

Response:
  - 200: Snapshot
  - 404: ErrNotFound: No dashboard built yet
*/
func (handler *Handler) snapshot(writer http.ResponseWriter, request *http.Request) {
	snapshot, ok := handler.latest.Load()
	if !ok {
		respond.Error(writer, request, apperr.NotFound("Dashboard snapshot"))
		return
	}
	respond.OK(writer, snapshot)
}
