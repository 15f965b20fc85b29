// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package remote

import (
	"context"
	"net/http"

	"github.com/RisinaLiliia/deczhen-client/internal/platform/apperr"
	"github.com/RisinaLiliia/deczhen-client/internal/platform/constants"
)

// # Authentication

// Login exchanges credentials for an access token and the current user.
// The API also sets the refresh-token cookie, which lands in the jar.
func (client *Client) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	var response AuthResponse
	if err := client.do(ctx, http.MethodPost, constants.PathAuthLogin, input, &response, false); err != nil {
		return nil, err
	}
	return &response, nil
}

// Register creates an account and signs it in.
func (client *Client) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	var response AuthResponse
	if err := client.do(ctx, http.MethodPost, constants.PathAuthRegister, input, &response, false); err != nil {
		return nil, err
	}
	return &response, nil
}

// Refresh mints a new access token from the refresh-token cookie.
func (client *Client) Refresh(ctx context.Context) (*RefreshResponse, error) {
	var response RefreshResponse
	if err := client.do(ctx, http.MethodPost, constants.PathAuthRefresh, nil, &response, false); err != nil {
		return nil, err
	}
	return &response, nil
}

// Logout revokes the refresh session on the server.
func (client *Client) Logout(ctx context.Context) error {
	return client.do(ctx, http.MethodPost, constants.PathAuthLogout, nil, nil, true)
}

// Me returns the user owning the current access token.
func (client *Client) Me(ctx context.Context) (*User, error) {
	if err := client.requireToken(); err != nil {
		return nil, err
	}

	var user User
	if err := client.do(ctx, http.MethodGet, constants.PathUsersMe, nil, &user, true); err != nil {
		return nil, err
	}
	return &user, nil
}

func (client *Client) requireToken() error {
	if client.tokens == nil || client.tokens.AccessToken() == "" {
		return apperr.Unauthorized("Not signed in")
	}
	return nil
}
