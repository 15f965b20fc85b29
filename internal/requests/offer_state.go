// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requests

import (
	"time"

	"github.com/RisinaLiliia/deczhen-client/internal/remote"
)

// OfferCardState is what a request card shows about the viewer's own offer.
type OfferCardState string

const (
	OfferCardNone     OfferCardState = "none"
	OfferCardSent     OfferCardState = "sent"
	OfferCardAccepted OfferCardState = "accepted"
	OfferCardDeclined OfferCardState = "declined"
)

// ResolveOfferCardState collapses an offer's lifecycle into a card state.
// A missing or withdrawn offer is none; unknown statuses count as sent.
func ResolveOfferCardState(offer *remote.Offer) OfferCardState {
	if offer == nil {
		return OfferCardNone
	}

	switch offer.Status {
	case remote.OfferWithdrawn, "":
		return OfferCardNone
	case remote.OfferAccepted:
		return OfferCardAccepted
	case remote.OfferDeclined:
		return OfferCardDeclined
	default:
		return OfferCardSent
	}
}

// OfferForRequest returns the most recently updated offer on requestID, or nil.
func OfferForRequest(offers []remote.Offer, requestID string) *remote.Offer {
	var latest *remote.Offer
	for i := range offers {
		offer := &offers[i]
		if offer.RequestID != requestID {
			continue
		}
		if latest == nil || offerTime(offer).After(offerTime(latest)) {
			latest = offer
		}
	}

	if latest == nil {
		return nil
	}
	copied := *latest
	return &copied
}

func offerTime(offer *remote.Offer) time.Time {
	if !offer.UpdatedAt.IsZero() {
		return offer.UpdatedAt
	}
	return offer.CreatedAt
}
