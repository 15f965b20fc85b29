// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/RisinaLiliia/deczhen-client/internal/platform/constants"
)

// # Presence

// PingPresence marks the current user as active.
func (client *Client) PingPresence(ctx context.Context) error {
	if err := client.requireToken(); err != nil {
		return err
	}
	return client.do(ctx, http.MethodPost, constants.PathPresencePing, nil, nil, true)
}

// PresenceURL returns the WebSocket endpoint for token.
//
// Without an override the socket lives on the API host: http becomes ws,
// https becomes wss, and "/presence" is appended to the API path.
func (client *Client) PresenceURL(token string) (string, error) {
	var target *url.URL

	if client.presenceURL != "" {
		parsed, err := url.Parse(client.presenceURL)
		if err != nil {
			return "", fmt.Errorf("remote: invalid presence URL: %w", err)
		}
		target = parsed
	} else {
		target = client.baseURL.JoinPath(constants.PathPresenceSocket)
		switch target.Scheme {
		case "https":
			target.Scheme = "wss"
		default:
			target.Scheme = "ws"
		}
	}

	query := target.Query()
	query.Set("token", token)
	target.RawQuery = query.Encode()

	return target.String(), nil
}
