package model

import "github.com/google/uuid"

// TilePlacement puts one hand tile on one cell
type TilePlacement struct {
	TileID          uuid.UUID  `json:"tile_id"`
	CellID          uuid.UUID  `json:"cell_id"`
	SelectedValueID *uuid.UUID `json:"selected_value_id,omitempty"`
}

// MoveRequest is a placement move submitted by a player or bot
type MoveRequest struct {
	Placements []TilePlacement `json:"placements"`
}

// MoveErrorCode classifies a rejected move
type MoveErrorCode string

const (
	MoveErrTileNotInHand     MoveErrorCode = "tile_not_in_hand"
	MoveErrWrongTurn         MoveErrorCode = "wrong_turn"
	MoveErrCellOccupied      MoveErrorCode = "cell_occupied"
	MoveErrInvalidWord       MoveErrorCode = "invalid_word"
	MoveErrTilesNotConnected MoveErrorCode = "tiles_not_connected"
	MoveErrTilesNotInline    MoveErrorCode = "tiles_not_inline"
)

// MoveResult is the outcome of a placement move
type MoveResult struct {
	Success bool          `json:"success"`
	Error   MoveErrorCode `json:"error,omitempty"`
	Message string        `json:"message,omitempty"`
}

// MoveAccepted is the successful move result
func MoveAccepted() MoveResult {
	return MoveResult{Success: true}
}

// MoveRejected builds a failed move result
func MoveRejected(code MoveErrorCode, message string) MoveResult {
	return MoveResult{Error: code, Message: message}
}

// ProposedMove pairs a cell with the tile being placed there during validation
type ProposedMove struct {
	Cell       Cell
	Tile       TileInstance
	BaseDef    TileDefinition
	DisplayDef TileDefinition
}

// ScannedWord is one word formed by a move
type ScannedWord struct {
	Text       string `json:"text"`
	Points     int    `json:"points"`
	Horizontal bool   `json:"horizontal"`
}

// ScanResult is every word a move forms and its total value
type ScanResult struct {
	Words  []ScannedWord
	Points int
}

// WordTexts returns the text of each word
func (r ScanResult) WordTexts() []string {
	texts := make([]string, len(r.Words))
	for i, w := range r.Words {
		texts[i] = w.Text
	}
	return texts
}
