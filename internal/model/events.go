package model

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies a pushed event
type EventType string

const (
	EventLobbyUpdated EventType = "lobby_updated"
	EventGameUpdated  EventType = "game_updated"
	EventNotification EventType = "notification"
	EventChatMessage  EventType = "chat"
)

// ChatMessage is a lobby chat line
type ChatMessage struct {
	PlayerName string    `json:"player_name"`
	Message    string    `json:"message"`
	SentAt     time.Time `json:"sent_at"`
}

// Notification is a human-readable lobby announcement
type Notification struct {
	Message string `json:"message"`
}

// Event is one push payload, addressed to a lobby group or a single player
type Event struct {
	Type     EventType  `json:"type"`
	LobbyID  uuid.UUID  `json:"lobby_id"`
	PlayerID *uuid.UUID `json:"player_id,omitempty"` // set for single-player delivery
	Data     any        `json:"data"`
}
