package model

import "github.com/google/uuid"

// LobbyState is the phase of a lobby's cycle
type LobbyState string

const (
	LobbyStateLobby    LobbyState = "lobby"
	LobbyStateGame     LobbyState = "game"
	LobbyStatePostGame LobbyState = "post_game"
)

// Language selects the tile set and dictionary
type Language string

const (
	LanguageEnglish Language = "english"
	LanguagePolish  Language = "polish"
)

// IsValid reports whether l is a supported language
func (l Language) IsValid() bool {
	return l == LanguageEnglish || l == LanguagePolish
}

// BotDifficulty selects a bot strategy
type BotDifficulty string

const (
	BotEasy   BotDifficulty = "easy"
	BotMedium BotDifficulty = "medium"
	BotHard   BotDifficulty = "hard"
)

// IsValid reports whether d is a known difficulty
func (d BotDifficulty) IsValid() bool {
	return d == BotEasy || d == BotMedium || d == BotHard
}

// SeatCount is the fixed number of seats per lobby
const SeatCount = 4

// Settings ranges
const (
	MinTimeBankMinutes = 3
	MaxTimeBankMinutes = 60
	MinTilesCount      = 50
	MaxTilesCount      = 200
)

// LobbySettings configures the next match
type LobbySettings struct {
	TimeBankMinutes int       `json:"time_bank_minutes"`
	Language        Language  `json:"language"`
	TilesCount      int       `json:"tiles_count"`
	BoardType       BoardType `json:"board_type"`
}

// DefaultLobbySettings returns the settings a lobby starts and resets with
func DefaultLobbySettings() LobbySettings {
	return LobbySettings{
		TimeBankMinutes: 10,
		Language:        LanguagePolish,
		TilesCount:      100,
		BoardType:       BoardClassic,
	}
}

// Validate checks the settings against the allowed ranges
func (s LobbySettings) Validate() error {
	if s.TimeBankMinutes < MinTimeBankMinutes || s.TimeBankMinutes > MaxTimeBankMinutes {
		return ErrInvalidSettings
	}
	if s.TilesCount < MinTilesCount || s.TilesCount > MaxTilesCount {
		return ErrInvalidSettings
	}
	if !s.Language.IsValid() || !s.BoardType.IsValid() {
		return ErrInvalidSettings
	}
	return nil
}

// Seat is one of a lobby's fixed seats
type Seat struct {
	ID            uuid.UUID     `json:"id"`
	PlayerID      *uuid.UUID    `json:"player_id,omitempty"`
	IsAdmin       bool          `json:"is_admin"`
	Order         int           `json:"order"`
	IsBot         bool          `json:"is_bot"`
	BotDifficulty BotDifficulty `json:"bot_difficulty,omitempty"`
}

// IsOccupied reports whether someone sits in the seat
func (s Seat) IsOccupied() bool {
	return s.PlayerID != nil
}

// LobbyPlayer is a participant of a lobby, human or bot
type LobbyPlayer struct {
	PlayerID      uuid.UUID     `json:"player_id"`
	PlayerName    string        `json:"player_name"`
	IsBot         bool          `json:"is_bot"`
	BotDifficulty BotDifficulty `json:"bot_difficulty,omitempty"`
	ConnectionID  string        `json:"-"`
}

// LobbyStateDetails is a full lobby snapshot
type LobbyStateDetails struct {
	LobbyID      uuid.UUID            `json:"lobby_id"`
	Players      []LobbyPlayer        `json:"players"`
	Seats        []Seat               `json:"seats"`
	Settings     LobbySettings        `json:"settings"`
	State        LobbyState           `json:"state"`
	FinishedGame *GameFinishedDetails `json:"finished_game,omitempty"`
}

// LobbySummary is one entry of the lobby listing
type LobbySummary struct {
	LobbyID     uuid.UUID  `json:"lobby_id"`
	State       LobbyState `json:"state"`
	PlayerCount int        `json:"player_count"`
}

// JoinDetails is returned to a player joining a lobby
type JoinDetails struct {
	PlayerID uuid.UUID         `json:"player_id"`
	Lobby    LobbyStateDetails `json:"lobby"`
}
