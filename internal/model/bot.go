package model

import "github.com/google/uuid"

// BotActionKind discriminates a bot's decision
type BotActionKind string

const (
	BotActionMove BotActionKind = "move"
	BotActionSwap BotActionKind = "swap"
	BotActionSkip BotActionKind = "skip"
)

// BotAction is the single action a bot decides to take on its turn
type BotAction struct {
	Kind    BotActionKind
	Move    MoveRequest
	TileIDs []uuid.UUID
}

// MoveAction wraps a placement
func MoveAction(move MoveRequest) BotAction {
	return BotAction{Kind: BotActionMove, Move: move}
}

// SwapAction wraps a tile exchange
func SwapAction(tileIDs []uuid.UUID) BotAction {
	return BotAction{Kind: BotActionSwap, TileIDs: tileIDs}
}

// SkipAction passes the turn
func SkipAction() BotAction {
	return BotAction{Kind: BotActionSkip}
}
