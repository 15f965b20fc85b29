// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"fmt"

	"github.com/RisinaLiliia/deczhen-client/internal/platform/constants"
	"github.com/RisinaLiliia/deczhen-client/internal/platform/kv"
)

// Mode is the side of the marketplace the user last worked in.
type Mode string

const (
	ModeClient   Mode = "client"
	ModeProvider Mode = "provider"
)

// ParseMode validates raw.
func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case ModeClient, ModeProvider:
		return Mode(raw), nil
	default:
		return "", fmt.Errorf("session: unknown mode %q", raw)
	}
}

// ModeStore persists the last used UI mode.
type ModeStore struct {
	store kv.Store
}

// NewModeStore creates a mode store over store.
func NewModeStore(store kv.Store) *ModeStore {
	return &ModeStore{store: store}
}

// Last returns the remembered mode, [ModeClient] when none or unreadable.
func (modes *ModeStore) Last(ctx context.Context) Mode {
	raw, err := modes.store.Get(ctx, constants.LastModeKey)
	if err != nil {
		return ModeClient
	}
	mode, err := ParseMode(raw)
	if err != nil {
		return ModeClient
	}
	return mode
}

// Remember stores mode.
func (modes *ModeStore) Remember(ctx context.Context, mode Mode) error {
	if _, err := ParseMode(string(mode)); err != nil {
		return err
	}
	return modes.store.Set(ctx, constants.LastModeKey, string(mode), 0)
}
