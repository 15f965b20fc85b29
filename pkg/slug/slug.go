// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug turns catalog keys into ASCII asset names.
//
// Category keys coming from the marketplace catalog may carry accents,
// underscores or spaces ("Rénovation intérieure", "home_cleaning"); placeholder
// image paths need one stable lowercase-hyphenated form of them.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// separators matches every run of characters outside [a-z0-9].
var separators = regexp.MustCompile(`[^a-z0-9]+`)

// stripMarks decomposes (é → e + ´) and drops the combining marks.
var stripMarks = transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}))

// From lowercases s, removes accents and joins the remaining ASCII words
// with single hyphens. Scripts with no ASCII form collapse to "".
func From(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	return strings.Trim(separators.ReplaceAllString(strings.ToLower(folded), "-"), "-")
}
