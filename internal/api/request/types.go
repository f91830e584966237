package request

import (
	"github.com/google/uuid"

	"github.com/mcoot/lettergame/internal/model"
)

// LoginRequest is the request body for a guest login
type LoginRequest struct {
	UserName string `json:"user_name"`
}

// ValidateRequest is the request body for checking a token
type ValidateRequest struct {
	Token string `json:"token"`
}

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// PasswordLoginRequest is the request body for logging in with a password
type PasswordLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateSettingsRequest is the request body for changing lobby settings
type UpdateSettingsRequest = model.LobbySettings

// AddBotRequest is the request body for seating a bot
type AddBotRequest struct {
	Difficulty model.BotDifficulty `json:"difficulty"`
}

// ChatRequest is the request body for a chat message
type ChatRequest struct {
	Message string `json:"message"`
}

// MoveRequest is the request body for placing tiles
type MoveRequest = model.MoveRequest

// SwapRequest is the request body for exchanging tiles
type SwapRequest struct {
	TileIDs []uuid.UUID `json:"tile_ids"`
}
