package handler

import (
	"net/http"

	"github.com/mcoot/lettergame/internal/api/request"
	"github.com/mcoot/lettergame/internal/api/response"
	"github.com/mcoot/lettergame/internal/services/lobby"
)

// GameHandler handles the running match of the caller's lobby
type GameHandler struct {
	lobbies *lobby.Manager
}

// NewGameHandler creates a new game handler
func NewGameHandler(lobbies *lobby.Manager) *GameHandler {
	return &GameHandler{lobbies: lobbies}
}

// Get handles GET /api/v1/lobby/game
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	connectionID, player := caller(r)

	details, err := h.lobbies.GetGameDetails(connectionID, player.PlayerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, details)
}

// Move handles POST /api/v1/lobby/game/move.
// A rejected move is a 200 with success=false and the reason.
func (h *GameHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req request.MoveRequest
	if !decode(w, r, &req) {
		return
	}
	if len(req.Placements) == 0 {
		WriteError(w, NewInvalidRequestError("placements are required"))
		return
	}
	connectionID, player := caller(r)

	result, err := h.lobbies.Move(connectionID, player.PlayerID, req)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}

// Swap handles POST /api/v1/lobby/game/swap
func (h *GameHandler) Swap(w http.ResponseWriter, r *http.Request) {
	var req request.SwapRequest
	if !decode(w, r, &req) {
		return
	}
	connectionID, player := caller(r)

	if err := h.lobbies.SwapTiles(connectionID, player.PlayerID, req.TileIDs); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Skip handles POST /api/v1/lobby/game/skip
func (h *GameHandler) Skip(w http.ResponseWriter, r *http.Request) {
	connectionID, player := caller(r)

	if err := h.lobbies.SkipTurn(connectionID, player.PlayerID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
