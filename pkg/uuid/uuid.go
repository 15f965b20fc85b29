// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates time-ordered identifiers for request correlation.

Version 7 values sort by creation time, so X-Request-ID values emitted by the
agent line up with the marketplace API's own logs.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string, falling back to a random v4 when the
// clock-based generator fails.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
