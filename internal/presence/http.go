// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package presence

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/RisinaLiliia/deczhen-client/internal/platform/respond"
	requestutil "github.com/RisinaLiliia/deczhen-client/internal/platform/request"
)

// Handler exposes the heartbeat to the UI host.
type Handler struct {
	heartbeat *Heartbeat
}

// NewHandler constructs a new [Handler].
func NewHandler(heartbeat *Heartbeat) *Handler {
	return &Handler{heartbeat: heartbeat}
}

// Routes returns the presence router.
//
// # Endpoints
//   - GET  /         : Connection state and counters.
//   - POST /activity : Report a user interaction {"kind": "pointer"}.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.stats)
	router.Post("/activity", handler.activity)

	return router
}

func (handler *Handler) stats(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.heartbeat.Stats())
}

type activityRequest struct {
	Kind string `json:"kind"`
}

func (handler *Handler) activity(writer http.ResponseWriter, request *http.Request) {
	var input activityRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	kind, err := ParseActivity(input.Kind)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.heartbeat.Activity(kind); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Status(writer, http.StatusAccepted, map[string]string{"kind": string(kind)})
}
