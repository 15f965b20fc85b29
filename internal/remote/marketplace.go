// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/RisinaLiliia/deczhen-client/internal/platform/constants"
)

// # Marketplace Reads

// PublicRequest fetches a published service request by ID.
func (client *Client) PublicRequest(ctx context.Context, id string) (*RequestResponse, error) {
	var request RequestResponse
	path := constants.PathPublicRequest + url.PathEscape(id)
	if err := client.do(ctx, http.MethodGet, path, nil, &request, true); err != nil {
		return nil, err
	}
	return &request, nil
}

// MyOffers lists the offers sent by the signed-in provider.
func (client *Client) MyOffers(ctx context.Context) ([]Offer, error) {
	if err := client.requireToken(); err != nil {
		return nil, err
	}

	var offers []Offer
	if err := client.do(ctx, http.MethodGet, constants.PathMyOffers, nil, &offers, true); err != nil {
		return nil, err
	}
	return offers, nil
}

// Services lists the service catalog used by the request filters.
func (client *Client) Services(ctx context.Context) ([]Service, error) {
	var services []Service
	if err := client.do(ctx, http.MethodGet, constants.PathCatalogService, nil, &services, false); err != nil {
		return nil, err
	}
	return services, nil
}

// Health reports whether the API answers its health probe.
func (client *Client) Health(ctx context.Context) error {
	return client.do(ctx, http.MethodGet, constants.PathHealth, nil, nil, false)
}
