package model

import (
	"errors"
	"fmt"
)

// Error classes. Every error returned across a component boundary wraps one of these.
var (
	ErrInvalidState    = errors.New("invalid state")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
)

var (
	// Player errors
	ErrPlayerNotFound     = fmt.Errorf("%w: player", ErrNotFound)
	ErrGameRecordNotFound = fmt.Errorf("%w: game record", ErrNotFound)
	ErrUsernameTaken      = fmt.Errorf("%w: username already taken", ErrInvalidArgument)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: invalid token", ErrUnauthorized)

	// Lobby errors
	ErrLobbyNotFound     = fmt.Errorf("%w: lobby not found", ErrInvalidState)
	ErrNotInLobby        = fmt.Errorf("%w: player is not in a lobby", ErrInvalidState)
	ErrNotLobbyAdmin     = fmt.Errorf("%w: player is not the lobby admin", ErrInvalidState)
	ErrLobbyNotIdle      = fmt.Errorf("%w: lobby is not accepting changes", ErrInvalidState)
	ErrSeatUnavailable   = fmt.Errorf("%w: seat is missing or occupied", ErrInvalidState)
	ErrNotSeated         = fmt.Errorf("%w: player has no seat", ErrInvalidState)
	ErrNotBotSeat        = fmt.Errorf("%w: seat is not held by a bot", ErrInvalidState)
	ErrNotEnoughPlayers  = fmt.Errorf("%w: at least two seated players are required", ErrInvalidState)
	ErrGameNotStarted    = fmt.Errorf("%w: no game in progress", ErrInvalidState)
	ErrInvalidSettings   = fmt.Errorf("%w: lobby settings out of range", ErrInvalidArgument)
	ErrEmptyChatMessage  = fmt.Errorf("%w: chat message is empty", ErrInvalidArgument)
	ErrUnknownDifficulty = fmt.Errorf("%w: unknown bot difficulty", ErrInvalidArgument)

	// Game errors
	ErrNotYourTurn          = fmt.Errorf("%w: not this player's turn", ErrInvalidState)
	ErrGameFinished         = fmt.Errorf("%w: game has finished", ErrInvalidState)
	ErrUnknownGamePlayer    = fmt.Errorf("%w: player is not part of this game", ErrInvalidState)
	ErrSwapBagTooSmall      = fmt.Errorf("%w: not enough tiles in the bag to swap", ErrInvalidState)
	ErrNoStrategy           = fmt.Errorf("%w: no strategy for bot difficulty", ErrInvalidState)
	ErrStaleBotMove         = fmt.Errorf("%w: turn advanced before the bot finished", ErrInvalidState)
	ErrNoTilesToSwap        = fmt.Errorf("%w: no tiles to swap", ErrInvalidArgument)
	ErrTileNotInHand        = fmt.Errorf("%w: tile is not in hand", ErrInvalidArgument)
	ErrUnexpectedSelection  = fmt.Errorf("%w: selected value given for a non-blank tile", ErrInvalidArgument)
	ErrMissingSelection     = fmt.Errorf("%w: blank tile placed without a selected value", ErrInvalidArgument)
	ErrInvalidSelection     = fmt.Errorf("%w: selected value is not a letter tile", ErrInvalidArgument)
	ErrUnknownCell          = fmt.Errorf("%w: unknown board cell", ErrInvalidArgument)
	ErrEmptyMove            = fmt.Errorf("%w: move has no placements", ErrInvalidArgument)
	ErrUnsupportedLanguage  = fmt.Errorf("%w: unsupported language", ErrInvalidArgument)
	ErrUnsupportedBoardType = fmt.Errorf("%w: unsupported board type", ErrInvalidArgument)

	// Dictionary errors
	ErrDictionaryNotFound = fmt.Errorf("%w: dictionary", ErrNotFound)
)
