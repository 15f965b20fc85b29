// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/RisinaLiliia/deczhen-client/internal/platform/apperr"
	"github.com/RisinaLiliia/deczhen-client/internal/platform/respond"
	"github.com/RisinaLiliia/deczhen-client/internal/platform/validate"
	requestutil "github.com/RisinaLiliia/deczhen-client/internal/platform/request"
	"github.com/RisinaLiliia/deczhen-client/internal/remote"
)

const defaultNextPath = "/"

// Handler exposes the session store to the UI host.
type Handler struct {
	store *Store
	modes *ModeStore
}

// NewHandler constructs a new [Handler].
func NewHandler(store *Store, modes *ModeStore) *Handler {
	return &Handler{store: store, modes: modes}
}

// Routes returns the session router.
//
// # Endpoints
//   - GET  /          : Current session snapshot.
//   - POST /login     : Sign in; ?next= picks the post-auth location.
//   - POST /register  : Create an account and sign in.
//   - POST /logout    : Sign out.
//   - POST /me        : Reload the profile.
//   - GET  /mode      : Last UI mode.
//   - PUT  /mode      : Remember the UI mode.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.snapshot)
	router.Post("/login", handler.login)
	router.Post("/register", handler.register)
	router.Post("/logout", handler.logout)
	router.Post("/me", handler.me)
	router.Get("/mode", handler.getMode)
	router.Put("/mode", handler.putMode)

	return router
}

type authResponse struct {
	Session Session `json:"session"`
	Next    string  `json:"next"`
}

func (handler *Handler) snapshot(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.store.Snapshot())
}

// login handles POST /api/v1/session/login.
//
// # Returns
//   - 200 with the session and the safe redirect target.
//   - 400 on malformed input, 409 while another sign-in runs, upstream status otherwise.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input remote.LoginInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.store.Login(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, upstreamError(err))
		return
	}

	respond.OK(writer, authResponse{
		Session: session,
		Next:    SafeNextPath(request.URL.Query().Get("next"), defaultNextPath),
	})
}

func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input remote.RegisterInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.store.Register(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, upstreamError(err))
		return
	}

	respond.Status(writer, http.StatusCreated, authResponse{
		Session: session,
		Next:    SafeNextPath(request.URL.Query().Get("next"), defaultNextPath),
	})
}

func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.store.Logout(request.Context()))
}

func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	// A nil user means the session ended; the snapshot says so.
	if _, err := handler.store.FetchMe(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, handler.store.Snapshot())
}

type modePayload struct {
	Mode Mode `json:"mode"`
}

func (handler *Handler) getMode(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, modePayload{Mode: handler.modes.Last(request.Context())})
}

func (handler *Handler) putMode(writer http.ResponseWriter, request *http.Request) {
	var input modePayload
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if _, err := ParseMode(string(input.Mode)); err != nil {
		respond.Error(writer, request, validate.RequiredError("mode", "Must be one of: client, provider"))
		return
	}

	if err := handler.modes.Remember(request.Context(), input.Mode); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, input)
}

// upstreamError reports transport failures as 503 instead of 500.
func upstreamError(err error) error {
	if apperr.IsAppError(err) {
		return err
	}
	return apperr.Unavailable("Marketplace API is unreachable", err)
}
