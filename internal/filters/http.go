// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package filters

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/RisinaLiliia/deczhen-client/internal/platform/ctxutil"
	"github.com/RisinaLiliia/deczhen-client/internal/platform/respond"
	"github.com/RisinaLiliia/deczhen-client/internal/remote"
)

// Catalog loads the service catalogue.
type Catalog interface {
	Services(ctx context.Context) ([]remote.Service, error)
}

// Handler normalises request-list URLs for the UI host.
type Handler struct {
	catalog  Catalog
	defaults Defaults
}

// NewHandler constructs a new [Handler].
func NewHandler(catalog Catalog, defaults Defaults) *Handler {
	return &Handler{catalog: catalog, defaults: defaults}
}

// Routes returns the filters router.
//
// # Endpoints
//   - GET / : Canonical state for the given query, e.g. /?serviceKey=windows&page=0.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.resolve)
	return router
}

type resolveResponse struct {
	State    State            `json:"state"`
	Services []remote.Service `json:"services"`
	Location string           `json:"location"`
	Replaced bool             `json:"replaced"`
}

// recorder is the navigator of a one-shot resolution.
type recorder struct {
	location string
}

func (nav *recorder) Replace(location string) { nav.location = location }

// resolve handles GET /api/v1/requests/filters.
//
// A catalogue failure is logged and the state resolved without it, so the
// subcategory is kept as given.
func (handler *Handler) resolve(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	services, err := handler.catalog.Services(ctx)
	if err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "filters_catalog_unavailable", slog.Any("error", err))
		services = nil
	}

	nav := &recorder{}
	controller := NewController(request.URL.Query(), services, nav, handler.defaults)

	respond.OK(writer, resolveResponse{
		State:    controller.State(),
		Services: controller.FilteredServices(),
		Location: controller.Location(),
		Replaced: nav.location != "",
	})
}
