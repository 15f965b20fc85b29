// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requests turns public request and offer DTOs into display-ready values.

Everything here is pure: no I/O, no clocks. Presence is an injected flag and
formatting is injected through [TranslateFunc], [PriceFormatter] and
[DateFormatter]. Every output field has a fallback, so a view never renders
an empty or undefined value.
*/
package requests

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/RisinaLiliia/deczhen-client/internal/remote"
	"github.com/RisinaLiliia/deczhen-client/pkg/convert"
	"github.com/RisinaLiliia/deczhen-client/pkg/slice"
	"github.com/RisinaLiliia/deczhen-client/pkg/slug"
)

// # Constants

const (
	// DateSentinel replaces any date that cannot be parsed.
	DateSentinel = "—"

	// MaxImages caps the gallery.
	MaxImages = 4

	GenericPlaceholder = "/images/placeholders/request.jpg"
	AvatarPlaceholder  = "/images/placeholders/avatar.jpg"

	calendarLayout = "2006-01-02"
)

// ClientStatus is the presence of the request author.
type ClientStatus string

const (
	ClientOnline  ClientStatus = "online"
	ClientOffline ClientStatus = "offline"
)

// # View model

// RequestViewModel is the display form of a public request.
type RequestViewModel struct {
	ID                 string       `json:"id"`
	Title              string       `json:"title"`
	Description        string       `json:"description"`
	CategoryLabel      string       `json:"categoryLabel"`
	ServiceLabel       string       `json:"serviceLabel"`
	TagList            []string     `json:"tagList"`
	PriceLabel         string       `json:"priceLabel"`
	HasPrice           bool         `json:"hasPrice"`
	PreferredDateLabel string       `json:"preferredDateLabel"`
	CreatedAtLabel     string       `json:"createdAtLabel"`
	CityLabel          string       `json:"cityLabel"`
	RecurrenceLabel    string       `json:"recurrenceLabel"`
	Images             []string     `json:"images"`
	CoverImage         string       `json:"coverImage"`
	ClientName         string       `json:"clientName"`
	ClientAvatarURL    string       `json:"clientAvatarUrl"`
	ClientCity         string       `json:"clientCity"`
	ClientRatingText   string       `json:"clientRatingText"`
	ClientRatingCount  int          `json:"clientRatingCount"`
	ClientStatus       ClientStatus `json:"clientStatus"`
	ClientStatusLabel  string       `json:"clientStatusLabel"`
}

// ViewModelInput carries the request and the injected presentation helpers.
// Nil helpers fall back to [DefaultTranslate] and English formatters.
type ViewModelInput struct {
	Request        remote.RequestResponse
	T              TranslateFunc
	FormatPrice    PriceFormatter
	FormatDate     DateFormatter
	IsClientOnline bool
}

/*
BuildRequestDetailsViewModel derives the request details view.

# Fallback Rules
  - Tags: explicit non-blank tags, else category and service labels.
  - Price: only a positive finite amount is formatted.
  - Dates: "YYYY-MM-DD" (an RFC 3339 prefix is fine); anything else is [DateSentinel].
  - Images: photos then cover, trimmed, deduplicated, at most [MaxImages];
    a category placeholder when none remain.
  - Rating average and count are coerced independently to "0.0" and 0.
*/
func BuildRequestDetailsViewModel(input ViewModelInput) RequestViewModel {
	t := input.T
	if t == nil {
		t = DefaultTranslate
	}
	formatPrice := input.FormatPrice
	if formatPrice == nil {
		formatPrice = NewPriceFormatter("en", "EUR")
	}
	formatDate := input.FormatDate
	if formatDate == nil {
		formatDate = NewDateFormatter("en")
	}

	request := input.Request
	categoryLabel := strings.TrimSpace(request.CategoryName)
	serviceLabel := firstNonBlank(request.SubcategoryName, request.ServiceName)

	model := RequestViewModel{
		ID:                 request.ID,
		Title:              firstNonBlank(request.Title, t(KeyUntitled)),
		Description:        firstNonBlank(request.Description, t(KeyNoDescription)),
		CategoryLabel:      categoryLabel,
		ServiceLabel:       serviceLabel,
		TagList:            tagList(request.Tags, categoryLabel, serviceLabel),
		PreferredDateLabel: dateLabel(request.PreferredDate, formatDate),
		CreatedAtLabel:     dateLabel(request.CreatedAt, formatDate),
		CityLabel:          firstNonBlank(request.CityName, t(KeyCityUnknown)),
		ClientName:         firstNonBlank(request.ClientName, t(KeyClientFallback)),
		ClientAvatarURL:    firstNonBlank(request.ClientAvatarURL, AvatarPlaceholder),
		ClientCity:         firstNonBlank(request.ClientCityName, request.CityName, t(KeyCityUnknown)),
		ClientRatingText:   ratingText(request.ClientRatingAvg),
		ClientRatingCount:  ratingCount(request.ClientRatingCount),
	}

	// ── Price ────────────────────────────────────────────────────────────

	if amount, ok := convert.ToFiniteFloat(request.Price); ok && amount > 0 {
		model.PriceLabel = formatPrice(amount)
		model.HasPrice = true
	} else {
		model.PriceLabel = t(KeyPriceOnRequest)
	}

	// ── Recurrence ───────────────────────────────────────────────────────

	if request.IsRecurring {
		model.RecurrenceLabel = t(KeyRecurring)
	} else {
		model.RecurrenceLabel = t(KeyOneOff)
	}

	// ── Gallery ──────────────────────────────────────────────────────────

	model.Images = images(request)
	model.CoverImage = model.Images[0]

	// ── Presence ─────────────────────────────────────────────────────────

	if input.IsClientOnline {
		model.ClientStatus = ClientOnline
		model.ClientStatusLabel = t(KeyPresenceOnline)
	} else {
		model.ClientStatus = ClientOffline
		model.ClientStatusLabel = t(KeyPresenceOffline)
	}

	return model
}

// CategoryPlaceholder is the stock image for a category, or the generic one.
func CategoryPlaceholder(categoryKey string) string {
	if key := slug.From(categoryKey); key != "" {
		return "/images/categories/" + key + ".jpg"
	}
	return GenericPlaceholder
}

// # Field helpers

func tagList(tags []string, categoryLabel, serviceLabel string) []string {
	explicit := slice.Filter(slice.Map(tags, strings.TrimSpace), func(tag string) bool { return tag != "" })
	if len(explicit) > 0 {
		return explicit
	}
	return slice.Filter([]string{categoryLabel, serviceLabel}, func(label string) bool { return label != "" })
}

func images(request remote.RequestResponse) []string {
	candidates := append(slice.Map(request.Photos, strings.TrimSpace), strings.TrimSpace(request.ImageURL))
	candidates = slice.Filter(candidates, func(src string) bool { return src != "" })

	if gallery := slice.Unique(candidates, MaxImages); len(gallery) > 0 {
		return gallery
	}
	return []string{CategoryPlaceholder(request.CategoryKey)}
}

// dateLabel parses the calendar part of raw. time.Parse rejects impossible
// dates such as 2024-02-30, which then render as the sentinel.
func dateLabel(raw string, format DateFormatter) string {
	raw = strings.TrimSpace(raw)
	if len(raw) < len(calendarLayout) {
		return DateSentinel
	}

	date, err := time.Parse(calendarLayout, raw[:len(calendarLayout)])
	if err != nil {
		return DateSentinel
	}
	return format(date)
}

func ratingText(raw any) string {
	average, ok := convert.ToFiniteFloat(raw)
	if !ok || average < 0 {
		average = 0
	}
	return strconv.FormatFloat(average, 'f', 1, 64)
}

// ratingCount truncates to a whole count in [0, MaxInt32].
func ratingCount(raw any) int {
	count, ok := convert.ToFiniteFloat(raw)
	if !ok || count < 0 {
		return 0
	}
	return int(min(count, math.MaxInt32))
}

func firstNonBlank(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
