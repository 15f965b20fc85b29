// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package presence

import (
	"strings"

	"github.com/RisinaLiliia/deczhen-client/internal/platform/validate"
)

// ActivityKind is a user interaction that proves the user is present.
type ActivityKind string

const (
	ActivityPointer    ActivityKind = "pointer"
	ActivityKeyboard   ActivityKind = "keyboard"
	ActivityTouch      ActivityKind = "touch"
	ActivityScroll     ActivityKind = "scroll"
	ActivityFocus      ActivityKind = "focus"
	ActivityVisibility ActivityKind = "visibility"
)

var activityKinds = []string{
	string(ActivityPointer),
	string(ActivityKeyboard),
	string(ActivityTouch),
	string(ActivityScroll),
	string(ActivityFocus),
	string(ActivityVisibility),
}

// ParseActivity validates raw against the known kinds.
func ParseActivity(raw string) (ActivityKind, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))

	v := &validate.Validator{}
	if err := v.OneOf("kind", raw, activityKinds...).Err(); err != nil {
		return "", err
	}
	return ActivityKind(raw), nil
}
