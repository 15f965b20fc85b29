// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package presence

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Conn is the part of a websocket connection the heartbeat uses.
// *websocket.Conn satisfies it.
type Conn interface {
	ReadMessage() (messageType int, payload []byte, err error)
	WriteControl(messageType int, data []byte, deadline time.Time) error
	Close() error
}

// Dialer opens the presence socket for an access token.
type Dialer interface {
	Dial(ctx context.Context, token string) (Conn, error)
}

// URLBuilder derives the socket URL; the remote client implements it.
type URLBuilder interface {
	PresenceURL(token string) (string, error)
}

// ErrNoToken is returned when a dial is attempted without an access token.
var ErrNoToken = errors.New("presence: no access token")

// WebSocketDialer dials with gorilla/websocket.
type WebSocketDialer struct {
	urls   URLBuilder
	dialer *websocket.Dialer
}

// NewWebSocketDialer creates a dialer with the given handshake timeout.
func NewWebSocketDialer(urls URLBuilder, handshakeTimeout time.Duration) *WebSocketDialer {
	return &WebSocketDialer{
		urls: urls,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: handshakeTimeout,
		},
	}
}

// Dial opens the socket.
func (dialer *WebSocketDialer) Dial(ctx context.Context, token string) (Conn, error) {
	if token == "" {
		return nil, ErrNoToken
	}

	target, err := dialer.urls.PresenceURL(token)
	if err != nil {
		return nil, fmt.Errorf("presence: socket url: %w", err)
	}

	conn, response, err := dialer.dialer.DialContext(ctx, target, nil)
	if response != nil && response.Body != nil {
		response.Body.Close()
	}
	if err != nil {
		if response != nil {
			return nil, fmt.Errorf("presence: dial status %d: %w", response.StatusCode, err)
		}
		return nil, fmt.Errorf("presence: dial: %w", err)
	}

	return conn, nil
}
