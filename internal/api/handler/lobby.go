package handler

import (
	"net/http"
	"strconv"

	"github.com/mcoot/lettergame/internal/api/middleware"
	"github.com/mcoot/lettergame/internal/api/request"
	"github.com/mcoot/lettergame/internal/api/response"
	"github.com/mcoot/lettergame/internal/model"
	"github.com/mcoot/lettergame/internal/services/lobby"
)

// LobbyHandler handles lobby endpoints.
// Requests after joining are routed by connection id, so no lobby id appears in their paths.
type LobbyHandler struct {
	lobbies *lobby.Manager
}

// NewLobbyHandler creates a new lobby handler
func NewLobbyHandler(lobbies *lobby.Manager) *LobbyHandler {
	return &LobbyHandler{lobbies: lobbies}
}

// caller returns the connection id and player id of the request
func caller(r *http.Request) (string, *model.LobbyPlayer) {
	identity := middleware.MustGetIdentity(r.Context())
	connectionID := middleware.ConnectionID(r)
	return connectionID, &model.LobbyPlayer{
		PlayerID:     identity.PlayerID,
		PlayerName:   identity.Name,
		ConnectionID: connectionID,
	}
}

// List handles GET /api/v1/lobbies
func (h *LobbyHandler) List(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.LobbyList{Lobbies: h.lobbies.GetLobbies()})
}

// Join handles POST /api/v1/lobbies/{lobbyID}/join
func (h *LobbyHandler) Join(w http.ResponseWriter, r *http.Request) {
	lobbyID, ok := pathID(w, r, "lobbyID")
	if !ok {
		return
	}
	_, player := caller(r)

	details, err := h.lobbies.JoinLobby(lobbyID, *player)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, details)
}

// History handles GET /api/v1/lobbies/{lobbyID}/history
func (h *LobbyHandler) History(w http.ResponseWriter, r *http.Request) {
	lobbyID, ok := pathID(w, r, "lobbyID")
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			WriteError(w, NewInvalidRequestError("invalid limit"))
			return
		}
		limit = n
	}

	games, err := h.lobbies.ListHistory(r.Context(), lobbyID, limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.History{Games: games})
}

// Get handles GET /api/v1/lobby
func (h *LobbyHandler) Get(w http.ResponseWriter, r *http.Request) {
	connectionID, player := caller(r)

	state, err := h.lobbies.GetLobbyState(connectionID, player.PlayerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, state)
}

// Leave handles POST /api/v1/lobby/leave
func (h *LobbyHandler) Leave(w http.ResponseWriter, r *http.Request) {
	connectionID, player := caller(r)

	if err := h.lobbies.LeaveLobby(connectionID, player.PlayerID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Disconnect handles POST /api/v1/lobby/disconnect
func (h *LobbyHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	connectionID, player := caller(r)
	h.lobbies.Disconnected(connectionID, player.PlayerID)
	response.NoContent(w)
}

// JoinSeat handles POST /api/v1/lobby/seats/{seatID}
func (h *LobbyHandler) JoinSeat(w http.ResponseWriter, r *http.Request) {
	seatID, ok := pathID(w, r, "seatID")
	if !ok {
		return
	}
	connectionID, player := caller(r)

	if err := h.lobbies.JoinSeat(connectionID, player.PlayerID, seatID); err != nil {
		WriteError(w, err)
		return
	}

	h.writeState(w, r)
}

// LeaveSeat handles DELETE /api/v1/lobby/seat
func (h *LobbyHandler) LeaveSeat(w http.ResponseWriter, r *http.Request) {
	connectionID, player := caller(r)

	if err := h.lobbies.LeaveSeat(connectionID, player.PlayerID); err != nil {
		WriteError(w, err)
		return
	}

	h.writeState(w, r)
}

// UpdateSettings handles PUT /api/v1/lobby/settings
func (h *LobbyHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateSettingsRequest
	if !decode(w, r, &req) {
		return
	}
	connectionID, player := caller(r)

	if err := h.lobbies.UpdateSettings(connectionID, player.PlayerID, req); err != nil {
		WriteError(w, err)
		return
	}

	h.writeState(w, r)
}

// AddBot handles POST /api/v1/lobby/seats/{seatID}/bot
func (h *LobbyHandler) AddBot(w http.ResponseWriter, r *http.Request) {
	seatID, ok := pathID(w, r, "seatID")
	if !ok {
		return
	}
	var req request.AddBotRequest
	if !decode(w, r, &req) {
		return
	}
	connectionID, player := caller(r)

	added, err := h.lobbies.AddBot(connectionID, player.PlayerID, seatID, req.Difficulty)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, added)
}

// RemoveBot handles DELETE /api/v1/lobby/seats/{seatID}/bot
func (h *LobbyHandler) RemoveBot(w http.ResponseWriter, r *http.Request) {
	seatID, ok := pathID(w, r, "seatID")
	if !ok {
		return
	}
	connectionID, player := caller(r)

	if err := h.lobbies.RemoveBot(connectionID, player.PlayerID, seatID); err != nil {
		WriteError(w, err)
		return
	}

	h.writeState(w, r)
}

// Start handles POST /api/v1/lobby/start
func (h *LobbyHandler) Start(w http.ResponseWriter, r *http.Request) {
	connectionID, player := caller(r)

	if err := h.lobbies.StartGame(connectionID, player.PlayerID); err != nil {
		WriteError(w, err)
		return
	}

	h.writeState(w, r)
}

// Chat handles POST /api/v1/lobby/chat
func (h *LobbyHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req request.ChatRequest
	if !decode(w, r, &req) {
		return
	}
	connectionID, player := caller(r)

	if err := h.lobbies.SendMessage(connectionID, player.PlayerID, req.Message); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

func (h *LobbyHandler) writeState(w http.ResponseWriter, r *http.Request) {
	connectionID, player := caller(r)
	state, err := h.lobbies.GetLobbyState(connectionID, player.PlayerID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, state)
}

// Record handles GET /api/v1/games/{recordID}
func (h *LobbyHandler) Record(w http.ResponseWriter, r *http.Request) {
	recordID, ok := pathID(w, r, "recordID")
	if !ok {
		return
	}

	record, err := h.lobbies.GetGameRecord(r.Context(), recordID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, record)
}
