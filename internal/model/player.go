package model

import (
	"time"

	"github.com/google/uuid"
)

// Player is an authenticated principal, guest or registered
type Player struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	IsGuest     bool      `json:"is_guest"`
	CreatedAt   time.Time `json:"created_at"`
}

// RegisteredPlayer holds the credentials of a non-guest player
type RegisteredPlayer struct {
	PlayerID     uuid.UUID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
