// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requests

import (
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// TranslateFunc resolves a message key into display text.
type TranslateFunc func(key string) string

// PriceFormatter renders a positive, finite amount.
type PriceFormatter func(amount float64) string

// DateFormatter renders a calendar date.
type DateFormatter func(date time.Time) string

// Message keys used by the view-model builder.
const (
	KeyUntitled        = "requests.untitled"
	KeyNoDescription   = "requests.no_description"
	KeyPriceOnRequest  = "requests.price_on_request"
	KeyClientFallback  = "requests.client_fallback_name"
	KeyCityUnknown     = "requests.city_unknown"
	KeyRecurring       = "requests.recurring"
	KeyOneOff          = "requests.one_off"
	KeyPresenceOnline  = "presence.online"
	KeyPresenceOffline = "presence.offline"
)

// DefaultMessages are the English fallbacks for every key the builder uses.
var DefaultMessages = map[string]string{
	KeyUntitled:        "Untitled request",
	KeyNoDescription:   "No description provided",
	KeyPriceOnRequest:  "Price on request",
	KeyClientFallback:  "Client",
	KeyCityUnknown:     "Location not specified",
	KeyRecurring:       "Recurring",
	KeyOneOff:          "One-time",
	KeyPresenceOnline:  "Online",
	KeyPresenceOffline: "Offline",
}

// DefaultTranslate looks key up in [DefaultMessages] and echoes unknown keys.
func DefaultTranslate(key string) string {
	if text, ok := DefaultMessages[key]; ok {
		return text
	}
	return key
}

// # Locale-aware formatters

// NewPriceFormatter formats amounts with locale grouping followed by the
// ISO currency code, e.g. "1,250.5 EUR" for en or "1.250,5 EUR" for de.
// An unknown locale falls back to English, an unknown currency to EUR.
func NewPriceFormatter(locale, currencyCode string) PriceFormatter {
	tag := parseLocale(locale)

	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(currencyCode)))
	if err != nil {
		unit = currency.EUR
	}

	printer := message.NewPrinter(tag)
	code := unit.String()

	return func(amount float64) string {
		return printer.Sprint(number.Decimal(amount, number.MaxFractionDigits(2))) + " " + code
	}
}

// NewDateFormatter formats dates the way the marketplace UI shows them.
func NewDateFormatter(locale string) DateFormatter {
	base, _ := parseLocale(locale).Base()

	layout := "Jan 2, 2006"
	switch base.String() {
	case "de", "ru", "uk", "pl":
		layout = "02.01.2006"
	case "fr", "es", "it":
		layout = "02/01/2006"
	}

	return func(date time.Time) string {
		return date.Format(layout)
	}
}

func parseLocale(locale string) language.Tag {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil || tag == language.Und {
		return language.English
	}
	return tag
}
