package model

import (
	"time"

	"github.com/google/uuid"
)

// PlayerScore is one row of the live scoreboard
type PlayerScore struct {
	PlayerID      uuid.UUID     `json:"player_id"`
	PlayerName    string        `json:"player_name"`
	TotalPoints   int           `json:"total_points"`
	TilesInHand   int           `json:"tiles_in_hand"`
	TimeRemaining time.Duration `json:"time_remaining"`
	TimeDepleted  bool          `json:"time_depleted"`
}

// GameDetails is a snapshot of a match as seen by one viewer
type GameDetails struct {
	Layout              *BoardLayout     `json:"layout"`
	TileDefinitions     []TileDefinition `json:"tile_definitions"`
	PlacedTiles         []PlacedTile     `json:"placed_tiles"`
	Scores              []PlayerScore    `json:"scores"`
	CurrentTurnPlayerID uuid.UUID        `json:"current_turn_player_id"`
	CurrentTurnStarted  time.Time        `json:"current_turn_started_at"`
	MyHand              []TileInstance   `json:"my_hand"` // nil for spectators
	TilesRemainingInBag int              `json:"tiles_remaining_in_bag"`
	Finished            bool             `json:"finished"`
}

// FinishedPlayer is one player's final standing
type FinishedPlayer struct {
	PlayerID   uuid.UUID `json:"player_id"`
	PlayerName string    `json:"player_name"`
	Points     int       `json:"points"`
}

// BestMove is the highest-scoring play that was available on a turn
type BestMove struct {
	Words  []string `json:"words"`
	Points int      `json:"points"`
}

// MoveHistoryEntry records one accepted placement
type MoveHistoryEntry struct {
	PlayerID     uuid.UUID `json:"player_id"`
	PlayerName   string    `json:"player_name"`
	GainedPoints int       `json:"gained_points"`
	TotalPoints  int       `json:"total_points"`
	Words        []string  `json:"words"`
	BestMove     *BestMove `json:"best_move,omitempty"`
	MoveTime     time.Time `json:"move_time"`
}

// GameFinishedDetails summarises a completed match
type GameFinishedDetails struct {
	Players                 []FinishedPlayer   `json:"players"`
	MoveHistory             []MoveHistoryEntry `json:"move_history"`
	GameDuration            time.Duration      `json:"game_duration"`
	FinishedAt              time.Time          `json:"finished_at"`
	PostGameDurationSeconds int                `json:"post_game_duration_seconds"`
}

// Winner returns the highest scoring player, or nil when there are no players
func (d *GameFinishedDetails) Winner() *FinishedPlayer {
	var best *FinishedPlayer
	for i := range d.Players {
		if best == nil || d.Players[i].Points > best.Points {
			best = &d.Players[i]
		}
	}
	return best
}

// GameRecord is an archived finished match
type GameRecord struct {
	ID       uuid.UUID           `json:"id"`
	LobbyID  uuid.UUID           `json:"lobby_id"`
	Settings LobbySettings       `json:"settings"`
	Details  GameFinishedDetails `json:"details"`
}
