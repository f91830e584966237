package response

import (
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/lettergame/internal/model"
	"github.com/mcoot/lettergame/internal/services/auth"
)

// Player represents a player in API responses
type Player struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	IsGuest     bool      `json:"is_guest"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		IsGuest:     p.IsGuest,
	}
}

// TokenResponse is the response for login endpoints
type TokenResponse struct {
	Token     string    `json:"token"`
	PlayerID  uuid.UUID `json:"player_id"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenFromAuth converts an issued token
func TokenFromAuth(t *auth.Token) TokenResponse {
	return TokenResponse{
		Token:     t.Token,
		PlayerID:  t.PlayerID,
		Name:      t.Name,
		ExpiresAt: t.ExpiresAt,
	}
}

// ValidateResponse reports whether a token is still usable
type ValidateResponse struct {
	Valid bool `json:"valid"`
}

// LobbyList is the response for the lobby listing
type LobbyList struct {
	Lobbies []model.LobbySummary `json:"lobbies"`
}

// History is the response for a lobby's archived matches
type History struct {
	Games []*model.GameRecord `json:"games"`
}

// Status is a bare status response
type Status struct {
	Status string `json:"status"`
}
