package game

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/lettergame/internal/model"
	"github.com/mcoot/lettergame/internal/services/bot"
)

// handleBotTurns starts the current bot's turn in the background.
// At most one bot thinks at a time; the strategy runs off the lock.
// A bot without a strategy loses its turn; each seat is passed over at most once per call.
func (e *Engine) handleBotTurns() {
	for range e.hands {
		if e.finished || e.botPlaying {
			return
		}
		h := e.hands[e.currentTurn]
		if !h.player.IsBot {
			return
		}

		strategy, err := e.bots.Strategy(h.player.BotDifficulty)
		if err != nil {
			e.logger.Error("bot has no strategy, forcing turn",
				slog.String("player_id", h.player.PlayerID.String()),
				slog.String("error", err.Error()),
			)
			e.forceTurn(h)
			continue
		}

		e.startBotTurn(h, strategy)
		return
	}
}

func (e *Engine) startBotTurn(h *playerHand, strategy bot.Strategy) {
	e.botPlaying = true
	botID := h.player.PlayerID
	turnStarted := e.turnStarted
	placed := append([]model.PlacedTile(nil), e.placed...)
	hand := append([]model.TileInstance(nil), h.tiles...)
	bagCount := len(e.bag)

	e.botTurns.Add(1)
	go func() {
		defer e.botTurns.Done()

		var action model.BotAction
		err := func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("bot strategy panicked: %v", r)
				}
			}()
			action, err = strategy.GetNextMove(e.ctx, e.layout, placed, hand, bagCount, e.provider)
			return err
		}()

		e.locked(func() {
			e.completeBotTurn(botID, turnStarted, action, err)
		})
	}()
}

// completeBotTurn applies a bot's decision, discarding it if the turn moved on meanwhile
func (e *Engine) completeBotTurn(botID uuid.UUID, turnStarted time.Time, action model.BotAction, err error) {
	defer func() {
		e.botPlaying = false
		e.handleBotTurns()
	}()

	if e.finished {
		return
	}
	if !e.isTurnOf(botID) || !e.turnStarted.Equal(turnStarted) {
		e.logger.Warn("discarding bot action",
			slog.String("player_id", botID.String()),
			slog.String("error", model.ErrStaleBotMove.Error()),
		)
		return
	}

	if err == nil {
		err = e.applyBotAction(botID, action)
	}
	if err == nil {
		return
	}

	e.logger.Error("bot turn failed, forcing turn",
		slog.String("player_id", botID.String()),
		slog.String("error", err.Error()),
	)
	if !e.finished && e.isTurnOf(botID) {
		e.forceTurn(e.hands[e.currentTurn])
	}
}

func (e *Engine) applyBotAction(botID uuid.UUID, action model.BotAction) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("applying bot action panicked: %v", r)
		}
	}()

	switch action.Kind {
	case model.BotActionMove:
		result, err := e.handleMove(botID, action.Move)
		if err != nil {
			return err
		}
		if !result.Success {
			return fmt.Errorf("%w: bot move rejected: %s", model.ErrInvalidState, result.Message)
		}
		return nil
	case model.BotActionSwap:
		return e.handleSwap(botID, action.TileIDs)
	case model.BotActionSkip:
		return e.handleSkip(botID)
	default:
		return fmt.Errorf("%w: unknown bot action %q", model.ErrInvalidState, action.Kind)
	}
}

// forceTurn charges h for the elapsed turn and moves on; callers re-trigger bots
func (e *Engine) forceTurn(h *playerHand) {
	started := e.turnStarted
	e.rotateTurn()
	e.subtractTime(h, started, false)
	e.pendingState = true
}
