package handler

import (
	"net/http"

	"github.com/mcoot/lettergame/internal/realtime"
	"github.com/mcoot/lettergame/internal/services/lobby"
)

// EventsHandler opens push streams for the caller's lobby
type EventsHandler struct {
	lobbies *lobby.Manager
	hubs    *realtime.HubManager
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(lobbies *lobby.Manager, hubs *realtime.HubManager) *EventsHandler {
	return &EventsHandler{lobbies: lobbies, hubs: hubs}
}

// SSE handles GET /api/v1/lobby/events
func (h *EventsHandler) SSE(w http.ResponseWriter, r *http.Request) {
	connectionID, player := caller(r)

	state, err := h.lobbies.GetLobbyState(connectionID, player.PlayerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.hubs.ServeSSE(w, r, state.LobbyID, player.PlayerID, connectionID)
}

// Websocket handles GET /api/v1/lobby/ws
func (h *EventsHandler) Websocket(w http.ResponseWriter, r *http.Request) {
	connectionID, player := caller(r)

	state, err := h.lobbies.GetLobbyState(connectionID, player.PlayerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.hubs.ServeWebsocket(w, r, state.LobbyID, player.PlayerID, connectionID)
}
