// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared page/limit parsing for list URLs.
package pagination

import (
	"net/url"

	"github.com/RisinaLiliia/deczhen-client/pkg/convert"
)

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 20
	// MaxLimit is the upper bound for items per page accepted from a URL.
	MaxLimit = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
)

// Params holds the parsed page and limit from a query string.
type Params struct {
	Page  int
	Limit int
}

// FromValues parses "page" and "limit" from query values.
//
// # Clamping
//
// Invalid or negative pages fall back to [DefaultPage]; invalid or excessive
// limits fall back to defaultLimit (or [DefaultLimit] when that is not positive).
func FromValues(values url.Values, defaultLimit int) Params {
	if defaultLimit < 1 || defaultLimit > MaxLimit {
		defaultLimit = DefaultLimit
	}

	page := convert.ToIntD(values.Get("page"), DefaultPage)
	limit := convert.ToIntD(values.Get("limit"), defaultLimit)

	if page < 1 {
		page = DefaultPage
	}

	if limit < 1 || limit > MaxLimit {
		limit = defaultLimit
	}

	return Params{Page: page, Limit: limit}
}
