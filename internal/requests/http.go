// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requests

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/RisinaLiliia/deczhen-client/internal/platform/apperr"
	"github.com/RisinaLiliia/deczhen-client/internal/platform/ctxutil"
	"github.com/RisinaLiliia/deczhen-client/internal/platform/respond"
	requestutil "github.com/RisinaLiliia/deczhen-client/internal/platform/request"
	"github.com/RisinaLiliia/deczhen-client/internal/remote"
	"github.com/RisinaLiliia/deczhen-client/pkg/convert"
)

// API is the subset of the remote client the handler reads from.
type API interface {
	PublicRequest(ctx context.Context, id string) (*remote.RequestResponse, error)
	MyOffers(ctx context.Context) ([]remote.Offer, error)
}

// Handler serves request details views to the UI host.
type Handler struct {
	api         API
	translate   TranslateFunc
	formatPrice PriceFormatter
	formatDate  DateFormatter
}

// NewHandler constructs a new [Handler] formatting for locale and currency.
func NewHandler(api API, locale, currencyCode string) *Handler {
	return &Handler{
		api:         api,
		translate:   DefaultTranslate,
		formatPrice: NewPriceFormatter(locale, currencyCode),
		formatDate:  NewDateFormatter(locale),
	}
}

// Routes returns the requests router.
//
// # Endpoints
//   - GET /{id}/view : Details view-model plus the viewer's offer card state.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/{id}/view", handler.view)
	return router
}

type detailsResponse struct {
	Request    RequestViewModel `json:"request"`
	OfferState OfferCardState   `json:"offerState"`
	Offer      *remote.Offer    `json:"offer,omitempty"`
}

// view handles GET /api/v1/requests/{id}/view.
//
// The viewer's offers are only looked up for a signed-in session; anonymous
// viewers always get [OfferCardNone]. ?online=1 marks the author online.
func (handler *Handler) view(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	// ── 1. Input ─────────────────────────────────────────────────────────

	id := strings.TrimSpace(requestutil.Param(request, "id"))
	if id == "" {
		respond.Error(writer, request, apperr.NotFound("Request"))
		return
	}

	// ── 2. Upstream reads ────────────────────────────────────────────────

	dto, err := handler.api.PublicRequest(ctx, id)
	if err != nil {
		respond.Error(writer, request, upstreamError(err))
		return
	}

	var offer *remote.Offer
	if ctxutil.GetUserID(ctx) != "" {
		offers, err := handler.api.MyOffers(ctx)
		if err != nil {
			ctxutil.GetLogger(ctx).WarnContext(ctx, "requests_offers_lookup_failed",
				slog.String("request_id", id),
				slog.Any("error", err),
			)
		} else {
			offer = OfferForRequest(offers, id)
		}
	}

	// ── 3. Presentation ──────────────────────────────────────────────────

	respond.OK(writer, detailsResponse{
		Request: BuildRequestDetailsViewModel(ViewModelInput{
			Request:        *dto,
			T:              handler.translate,
			FormatPrice:    handler.formatPrice,
			FormatDate:     handler.formatDate,
			IsClientOnline: convert.ToBool(request.URL.Query().Get("online")),
		}),
		OfferState: ResolveOfferCardState(offer),
		Offer:      offer,
	})
}

func upstreamError(err error) error {
	if apperr.IsAppError(err) {
		return err
	}
	return apperr.Unavailable("Marketplace API is unreachable", err)
}
