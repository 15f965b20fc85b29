// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"net/url"
	"strings"
)

// SafeNextPath returns raw when it is a same-origin absolute path, else fallback.
//
// It guards the post-auth redirect ("?next=") against open redirects:
// scheme-relative ("//evil"), backslash ("/\evil") and absolute URLs are refused.
func SafeNextPath(raw, fallback string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "/") {
		return fallback
	}
	if strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return fallback
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme != "" || parsed.Host != "" {
		return fallback
	}

	return raw
}
