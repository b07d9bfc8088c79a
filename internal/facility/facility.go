// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package facility is the registry of bookable facility modules.

The set is closed: seven keys, each bound to exactly one remote base path.
Every other package iterates [Keys] instead of hard-coding module names, so
the dashboard and the booking browser always agree on the registry.
*/
package facility

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/facilityadmin/internal/platform/apperr"
	"github.com/taibuivan/facilityadmin/internal/platform/respond"
)

// Key identifies one facility module.
type Key string

const (
	Communal         Key = "communal"
	MultipurposeHall Key = "multipurpose-hall"
	CoworkingSpace   Key = "coworking-space"
	Theater          Key = "theater"
	Kitchen          Key = "kitchen"
	LaundryFemale    Key = "laundry-female"
	LaundryMale      Key = "laundry-male"
)

// Module describes how a facility is reached on the remote API.
type Module struct {
	Key   Key    `json:"key"`
	Path  string `json:"path"`
	Label string `json:"label"`
}

// registry is ordered as the dashboard presents the modules.
var registry = []Module{
	{Key: Communal, Path: "/communal", Label: "Communal Room"},
	{Key: MultipurposeHall, Path: "/serbaguna", Label: "Multipurpose Hall"},
	{Key: CoworkingSpace, Path: "/cws", Label: "Co-working Space"},
	{Key: Theater, Path: "/theater", Label: "Theater"},
	{Key: Kitchen, Path: "/dapur", Label: "Kitchen"},
	{Key: LaundryFemale, Path: "/mesin-cuci-cewe", Label: "Laundry (Female)"},
	{Key: LaundryMale, Path: "/mesin-cuci-cowo", Label: "Laundry (Male)"},
}

var byKey = func() map[Key]Module {
	index := make(map[Key]Module, len(registry))
	for _, module := range registry {
		index[module.Key] = module
	}
	return index
}()

// Keys returns every registered key in display order.
func Keys() []Key {
	keys := make([]Key, len(registry))
	for i, module := range registry {
		keys[i] = module.Key
	}
	return keys
}

// Modules returns a copy of the registry.
func Modules() []Module {
	return append([]Module(nil), registry...)
}

// Parse resolves a raw key, rejecting anything outside the registry.
func Parse(raw string) (Key, error) {
	if _, ok := byKey[Key(raw)]; !ok {
		return "", fmt.Errorf("facility: unknown module %q", raw)
	}
	return Key(raw), nil
}

// Valid reports whether k is a registered key.
func (k Key) Valid() bool {
	_, ok := byKey[k]
	return ok
}

// Path returns the remote base path of k, or "" for an unknown key.
func (k Key) Path() string {
	return byKey[k].Path
}

// Label returns the display label of k.
func (k Key) Label() string {
	return byKey[k].Label
}

// # HTTP

// Handler serves the registry to the console.
type Handler struct{}

// NewHandler constructs a [Handler].
func NewHandler() *Handler {
	return &Handler{}
}

// RegisterRoutes mounts the registry endpoints.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listModules)
	router.Get("/{module}", handler.getModule)
}

func (handler *Handler) listModules(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, Modules())
}

func (handler *Handler) getModule(writer http.ResponseWriter, request *http.Request) {
	key, err := Parse(chi.URLParam(request, "module"))
	if err != nil {
		respond.Error(writer, request, apperr.NotFound("Facility"))
		return
	}
	respond.OK(writer, byKey[key])
}
