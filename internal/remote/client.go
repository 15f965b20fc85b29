// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package remote is the typed boundary to the marketplace API.

It performs JSON-over-HTTP calls and derives the presence socket URL. The API
itself is a black box: this package only knows request/response shapes.

# Error Contract

  - Transport failures (dial, timeout, cancelled context) are returned wrapped
    with %w and are NOT [apperr.AppError] values.
  - Non-2xx responses become an [*apperr.AppError] whose HTTPStatus is the
    upstream status and whose Code/Message come from the error body.
*/
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/RisinaLiliia/deczhen-client/internal/platform/apperr"
	"github.com/RisinaLiliia/deczhen-client/internal/platform/constants"
	"github.com/RisinaLiliia/deczhen-client/internal/platform/ctxutil"
	"github.com/RisinaLiliia/deczhen-client/pkg/uuid"
)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// TokenSource provides the bearer token for authenticated calls.
type TokenSource interface {
	AccessToken() string
}

// Options configures a [Client].
type Options struct {
	// BaseURL is the absolute API root, e.g. "https://api.deczhen.app".
	BaseURL string

	// PresenceURL overrides the derived WebSocket endpoint.
	PresenceURL string

	// Timeout bounds every HTTP call. Zero keeps the http.Client default.
	Timeout time.Duration

	// Jar holds the refresh-token cookie set by the API.
	Jar http.CookieJar

	// Tokens supplies the bearer token.
	Tokens TokenSource

	// Transport replaces the default round tripper (tests, proxies).
	Transport http.RoundTripper
}

// Client talks to the marketplace API.
type Client struct {
	baseURL     *url.URL
	presenceURL string
	httpClient  *http.Client
	tokens      TokenSource
}

// New validates options and builds a [Client].
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("remote: invalid base URL %q", opts.BaseURL)
	}

	return &Client{
		baseURL:     base,
		presenceURL: opts.PresenceURL,
		tokens:      opts.Tokens,
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Jar:       opts.Jar,
			Transport: opts.Transport,
		},
	}, nil
}

// BaseURL returns the API root. The cookie jar is keyed on it.
func (client *Client) BaseURL() *url.URL {
	copied := *client.baseURL
	return &copied
}

// # Transport

type errorBody struct {
	Message json.RawMessage `json:"message"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

/*
do executes a JSON request.

Parameters:
  - ctx: carries the request ID and logger
  - method, path: HTTP method and API path
  - body: request payload, nil for none
  - out: decode target, nil to discard the response body
  - bearer: attach the current access token when one is held

Returns:
  - error: wrapped transport error or *apperr.AppError for non-2xx
*/
func (client *Client) do(ctx context.Context, method, path string, body, out any, bearer bool) error {
	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("remote: encode %s %s: %w", method, path, err)
		}
		payload = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.baseURL.JoinPath(path).String(), payload)
	if err != nil {
		return fmt.Errorf("remote: build %s %s: %w", method, path, err)
	}

	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	requestID := ctxutil.GetRequestID(ctx)
	if requestID == "" {
		requestID = uuid.New()
	}
	request.Header.Set(constants.HeaderXRequestID, requestID)

	if bearer && client.tokens != nil {
		if token := client.tokens.AccessToken(); token != "" {
			request.Header.Set(constants.HeaderAuthorization, "Bearer "+token)
		}
	}

	logger := ctxutil.GetLogger(ctx)
	startTime := time.Now()

	response, err := client.httpClient.Do(request)
	if err != nil {
		logger.DebugContext(ctx, "remote_request_failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("request_id", requestID),
			slog.Any("error", err),
		)
		return fmt.Errorf("remote: %s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	logger.DebugContext(ctx, "remote_request_finished",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", response.StatusCode),
		slog.Int64("latency_ms", time.Since(startTime).Milliseconds()),
		slog.String("request_id", requestID),
	)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return parseError(response)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, response.Body)
		return nil
	}

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("remote: read %s %s: %w", method, path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return fmt.Errorf("remote: %s %s: empty response body", method, path)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("remote: decode %s %s: %w", method, path, err)
	}

	return nil
}

// parseError turns a non-2xx response into an [*apperr.AppError].
// The API sends "message" either as a string or as a list of strings.
func parseError(response *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBody))

	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return apperr.FromStatus(response.StatusCode, "", "")
	}

	message := body.Error
	if len(body.Message) > 0 {
		var single string
		var list []string
		switch {
		case json.Unmarshal(body.Message, &single) == nil:
			message = single
		case json.Unmarshal(body.Message, &list) == nil:
			message = strings.Join(list, "; ")
		}
	}

	return apperr.FromStatus(response.StatusCode, body.Code, message)
}
