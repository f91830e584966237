package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/lettergame/internal/dependencies/clock"
	"github.com/mcoot/lettergame/internal/dependencies/random"
	"github.com/mcoot/lettergame/internal/model"
	"github.com/mcoot/lettergame/internal/services/bot"
	"github.com/mcoot/lettergame/internal/services/dictionary"
	"github.com/mcoot/lettergame/internal/services/scoring"
)

const (
	// LowTimeThreshold is the bank below which a move earns LowTimeBonus
	LowTimeThreshold = time.Minute
	LowTimeBonus     = 15 * time.Second

	// MinBagForSwap is the smallest bag a swap may draw from
	MinBagForSwap = model.HandSize
)

// Observer receives match notifications.
// Calls are made after the engine lock is released, so observers may query the engine.
type Observer interface {
	StateChanged()
	GameFinished(details model.GameFinishedDetails)
}

type playerHand struct {
	player       model.LobbyPlayer
	tiles        []model.TileInstance
	points       int
	remaining    time.Duration
	online       bool
	timeDepleted bool
}

func (h *playerHand) tileIndex(id uuid.UUID) int {
	for i, t := range h.tiles {
		if t.TileID == id {
			return i
		}
	}
	return -1
}

func (h *playerHand) removeTiles(ids map[uuid.UUID]bool) []model.TileInstance {
	var removed []model.TileInstance
	kept := h.tiles[:0:0]
	for _, t := range h.tiles {
		if ids[t.TileID] {
			removed = append(removed, t)
			continue
		}
		kept = append(kept, t)
	}
	h.tiles = kept
	return removed
}

// Engine owns one live match. Every mutation happens under mu.
type Engine struct {
	ctx      context.Context
	settings model.LobbySettings
	layout   *model.BoardLayout
	provider dictionary.Provider
	defs     map[uuid.UUID]model.TileDefinition
	scorer   scoring.ServiceInterface
	bots     bot.ServiceInterface
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger
	observer Observer

	mu          sync.Mutex
	hands       []*playerHand // turn order
	bag         []model.TileInstance
	placed      []model.PlacedTile
	history     []model.MoveHistoryEntry
	currentTurn int
	turnStarted time.Time
	startedAt   time.Time
	scoreless   int
	finished    bool
	botPlaying  bool

	// notifications queued under mu, delivered once it is released
	pendingState  bool
	pendingFinish *model.GameFinishedDetails

	botTurns sync.WaitGroup
	analyses sync.WaitGroup
}

// Start announces the initial state and lets a bot take the first turn if it holds it
func (e *Engine) Start() {
	e.locked(func() {
		e.pendingState = true
		e.handleBotTurns()
	})
}

// Wait blocks until no bot turn or move analysis is in flight
func (e *Engine) Wait() {
	e.botTurns.Wait()
	e.analyses.Wait()
	// an analysed bot move may have handed the turn to another bot
	e.botTurns.Wait()
}

// locked runs fn under the engine lock and then delivers queued notifications
func (e *Engine) locked(fn func()) {
	e.mu.Lock()
	fn()
	stateChanged, finished := e.pendingState, e.pendingFinish
	e.pendingState, e.pendingFinish = false, nil
	e.mu.Unlock()

	if e.observer == nil {
		return
	}
	if stateChanged {
		e.observer.StateChanged()
	}
	if finished != nil {
		// the archived history should carry the best move of every turn
		e.analyses.Wait()
		e.mu.Lock()
		finished.MoveHistory = append([]model.MoveHistoryEntry(nil), e.history...)
		e.mu.Unlock()
		e.observer.GameFinished(*finished)
	}
}

// HandleMove validates and applies a placement.
// Rule violations are reported in the MoveResult; malformed requests return an error.
func (e *Engine) HandleMove(playerID uuid.UUID, move model.MoveRequest) (model.MoveResult, error) {
	var (
		result model.MoveResult
		err    error
	)
	e.locked(func() {
		result, err = e.handleMove(playerID, move)
	})
	return result, err
}

// HandleSwapTiles returns tiles to the bag and draws the same number
func (e *Engine) HandleSwapTiles(playerID uuid.UUID, tileIDs []uuid.UUID) error {
	var err error
	e.locked(func() {
		err = e.handleSwap(playerID, tileIDs)
	})
	return err
}

// HandleSkipTurn passes the turn
func (e *Engine) HandleSkipTurn(playerID uuid.UUID) error {
	var err error
	e.locked(func() {
		err = e.handleSkip(playerID)
	})
	return err
}

// CheckGameRules enforces the time bank and the end-of-match conditions. Safe to call repeatedly.
func (e *Engine) CheckGameRules() {
	e.locked(func() {
		if e.finished {
			return
		}

		h := e.hands[e.currentTurn]
		elapsed := e.clock.Now().Sub(e.turnStarted)
		if h.remaining <= elapsed {
			e.logger.Info("time bank depleted", slog.String("player_id", h.player.PlayerID.String()))
			h.remaining = 0
			h.timeDepleted = true
			e.scoreless = 0
			e.rotateTurn()
			e.pendingState = true
		}

		if e.allDepleted() || e.allHumansGone() {
			e.finishGame()
			return
		}

		e.handleBotTurns()
	})
}

// SetPlayerOnline records whether a player is connected
func (e *Engine) SetPlayerOnline(playerID uuid.UUID, online bool) error {
	var err error
	e.locked(func() {
		h := e.hand(playerID)
		if h == nil {
			err = model.ErrUnknownGamePlayer
			return
		}
		h.online = online
	})
	return err
}

// GetGameDetails snapshots the match for viewer; only the viewer's own hand is included
func (e *Engine) GetGameDetails(viewer uuid.UUID) model.GameDetails {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	details := model.GameDetails{
		Layout:              e.layout,
		TileDefinitions:     e.provider.TileDefinitions(),
		PlacedTiles:         append([]model.PlacedTile(nil), e.placed...),
		CurrentTurnPlayerID: e.hands[e.currentTurn].player.PlayerID,
		CurrentTurnStarted:  e.turnStarted,
		TilesRemainingInBag: len(e.bag),
		Finished:            e.finished,
	}
	for i, h := range e.hands {
		remaining := h.remaining
		if i == e.currentTurn && !e.finished {
			remaining = max(0, remaining-now.Sub(e.turnStarted))
		}
		details.Scores = append(details.Scores, model.PlayerScore{
			PlayerID:      h.player.PlayerID,
			PlayerName:    h.player.PlayerName,
			TotalPoints:   h.points,
			TilesInHand:   len(h.tiles),
			TimeRemaining: remaining,
			TimeDepleted:  h.timeDepleted,
		})
		if h.player.PlayerID == viewer {
			details.MyHand = append([]model.TileInstance{}, h.tiles...)
		}
	}
	return details
}

// Players returns the participants in turn order
func (e *Engine) Players() []model.LobbyPlayer {
	e.mu.Lock()
	defer e.mu.Unlock()
	players := make([]model.LobbyPlayer, len(e.hands))
	for i, h := range e.hands {
		players[i] = h.player
	}
	return players
}

// IsFinished reports whether the match has ended
func (e *Engine) IsFinished() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.finished
}

func (e *Engine) hand(playerID uuid.UUID) *playerHand {
	for _, h := range e.hands {
		if h.player.PlayerID == playerID {
			return h
		}
	}
	return nil
}

func (e *Engine) isTurnOf(playerID uuid.UUID) bool {
	return e.hands[e.currentTurn].player.PlayerID == playerID
}

func (e *Engine) handleMove(playerID uuid.UUID, move model.MoveRequest) (model.MoveResult, error) {
	if e.finished {
		return model.MoveResult{}, model.ErrGameFinished
	}
	if !e.isTurnOf(playerID) {
		return e.reject(playerID, model.MoveErrWrongTurn, "Not your turn!"), nil
	}
	if len(move.Placements) == 0 {
		return model.MoveResult{}, model.ErrEmptyMove
	}

	h := e.hands[e.currentTurn]
	proposed, result, err := e.validateMove(h, move)
	if err != nil || !result.Success {
		if err != nil {
			e.logger.Warn("malformed move",
				slog.String("player_id", playerID.String()),
				slog.String("error", err.Error()),
			)
		}
		return result, err
	}

	scan := e.scorer.ScanForWords(e.layout, e.defs, e.placed, proposed)
	if len(scan.Words) == 0 {
		return e.reject(playerID, model.MoveErrInvalidWord, "Move must create at least one word!"), nil
	}
	for _, w := range scan.Words {
		if !e.provider.IsWordInLanguage(w.Text) {
			return e.reject(playerID, model.MoveErrInvalidWord, fmt.Sprintf("Word '%s' is not valid!", w.Text)), nil
		}
	}

	now := e.clock.Now()
	placedBefore := append([]model.PlacedTile(nil), e.placed...)
	handBefore := append([]model.TileInstance(nil), h.tiles...)

	used := make(map[uuid.UUID]bool, len(move.Placements))
	for _, p := range proposed {
		e.placed = append(e.placed, model.PlacedTile{
			CellID:          p.Cell.ID,
			TileID:          p.Tile.TileID,
			ValueID:         p.Tile.ValueID,
			PlayerID:        playerID,
			SelectedValueID: p.Tile.SelectedValueID,
		})
		used[p.Tile.TileID] = true
	}
	h.removeTiles(used)
	h.points += scan.Points
	e.drawTiles(h, model.HandSize-len(h.tiles))

	if scan.Points > 0 {
		e.scoreless = 0
	} else {
		e.handleScorelessTurn()
	}

	e.history = append(e.history, model.MoveHistoryEntry{
		PlayerID:     playerID,
		PlayerName:   h.player.PlayerName,
		GainedPoints: scan.Points,
		TotalPoints:  h.points,
		Words:        scan.WordTexts(),
		MoveTime:     now,
	})
	e.analyseMove(len(e.history)-1, placedBefore, handBefore)

	e.logger.Info("move accepted",
		slog.String("player_id", playerID.String()),
		slog.Int("points", scan.Points),
		slog.Any("words", scan.WordTexts()),
	)

	if e.finished {
		return model.MoveAccepted(), nil
	}
	if len(e.bag) == 0 && len(h.tiles) == 0 {
		e.finishGame()
		return model.MoveAccepted(), nil
	}

	e.endTurn(h, true)
	return model.MoveAccepted(), nil
}

// analyseMove finds the best move that was available for a history entry.
// The search runs off the lock and only the result is written back under it.
func (e *Engine) analyseMove(entry int, placed []model.PlacedTile, hand []model.TileInstance) {
	e.analyses.Add(1)
	go func() {
		defer e.analyses.Done()

		var best *model.BestMove
		func() {
			defer func() {
				if r := recover(); r != nil {
					e.logger.Error("move analysis panicked", slog.Any("error", r))
				}
			}()
			best = e.bots.BestMove(e.provider, e.layout, placed, hand)
		}()

		e.mu.Lock()
		e.history[entry].BestMove = best
		e.mu.Unlock()
	}()
}

func (e *Engine) reject(playerID uuid.UUID, code model.MoveErrorCode, message string) model.MoveResult {
	e.logger.Warn("move rejected",
		slog.String("player_id", playerID.String()),
		slog.String("code", string(code)),
		slog.String("message", message),
	)
	return model.MoveRejected(code, message)
}

// validateMove checks ownership, blank selections, occupancy, connectivity and alignment.
// Nothing is mutated.
func (e *Engine) validateMove(h *playerHand, move model.MoveRequest) ([]model.ProposedMove, model.MoveResult, error) {
	playerID := h.player.PlayerID

	tiles := make(map[uuid.UUID]model.TileInstance, len(move.Placements))
	for _, p := range move.Placements {
		i := h.tileIndex(p.TileID)
		if i < 0 || tiles[p.TileID].TileID != uuid.Nil {
			return nil, e.reject(playerID, model.MoveErrTileNotInHand, "Tile not in hand!"), nil
		}
		tiles[p.TileID] = h.tiles[i]
	}

	for _, p := range move.Placements {
		def := e.defs[tiles[p.TileID].ValueID]
		switch {
		case !def.IsBlank() && p.SelectedValueID != nil:
			return nil, model.MoveResult{}, model.ErrUnexpectedSelection
		case def.IsBlank() && p.SelectedValueID == nil:
			return nil, model.MoveResult{}, model.ErrMissingSelection
		case def.IsBlank():
			selected, ok := e.defs[*p.SelectedValueID]
			if !ok || selected.IsBlank() {
				return nil, model.MoveResult{}, model.ErrInvalidSelection
			}
		}
	}

	occupied := e.occupiedCells()
	cells := make([]model.Cell, 0, len(move.Placements))
	newCells := make(map[uuid.UUID]bool, len(move.Placements))
	for _, p := range move.Placements {
		cell, ok := e.layout.CellByID(p.CellID)
		if !ok {
			return nil, model.MoveResult{}, model.ErrUnknownCell
		}
		if occupied[cell.ID] || newCells[cell.ID] {
			return nil, e.reject(playerID, model.MoveErrCellOccupied, "Cell is already occupied!"), nil
		}
		if cell.Type == model.CellBlocked {
			return nil, e.reject(playerID, model.MoveErrCellOccupied, "Cell is blocked!"), nil
		}
		newCells[cell.ID] = true
		cells = append(cells, cell)
	}

	if !e.isConnected(cells, occupied) {
		return nil, e.reject(playerID, model.MoveErrTilesNotConnected, "Tiles are not connected!"), nil
	}
	if !e.isInLine(cells, occupied, newCells) {
		return nil, e.reject(playerID, model.MoveErrTilesNotInline, "Tiles are not in a line!"), nil
	}

	proposed, err := scoring.BuildProposedMoves(e.layout, e.defs, move.Placements, tiles)
	if err != nil {
		return nil, model.MoveResult{}, err
	}
	return proposed, model.MoveAccepted(), nil
}

func (e *Engine) occupiedCells() map[uuid.UUID]bool {
	occupied := make(map[uuid.UUID]bool, len(e.placed))
	for _, p := range e.placed {
		occupied[p.CellID] = true
	}
	return occupied
}

// isConnected requires a center cell on the first move and a neighbouring tile afterwards
func (e *Engine) isConnected(cells []model.Cell, occupied map[uuid.UUID]bool) bool {
	first := len(e.placed) == 0
	for _, c := range cells {
		if first {
			if c.Type == model.CellCenter {
				return true
			}
			continue
		}
		for _, d := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			if n, ok := e.layout.CellAt(c.X+d[0], c.Y+d[1]); ok && occupied[n.ID] {
				return true
			}
		}
	}
	return false
}

// isInLine requires one row or column with no empty cell between the outermost new tiles
func (e *Engine) isInLine(cells []model.Cell, occupied, newCells map[uuid.UUID]bool) bool {
	sameRow, sameCol := true, true
	minX, maxX, minY, maxY := cells[0].X, cells[0].X, cells[0].Y, cells[0].Y
	for _, c := range cells[1:] {
		sameRow = sameRow && c.Y == cells[0].Y
		sameCol = sameCol && c.X == cells[0].X
		minX, maxX = min(minX, c.X), max(maxX, c.X)
		minY, maxY = min(minY, c.Y), max(maxY, c.Y)
	}
	if !sameRow && !sameCol {
		return false
	}

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			c, ok := e.layout.CellAt(x, y)
			if !ok || (!occupied[c.ID] && !newCells[c.ID]) {
				return false
			}
		}
	}
	return true
}

func (e *Engine) handleSkip(playerID uuid.UUID) error {
	if e.finished {
		return model.ErrGameFinished
	}
	if !e.isTurnOf(playerID) {
		return model.ErrNotYourTurn
	}

	e.logger.Info("turn skipped", slog.String("player_id", playerID.String()))
	e.handleScorelessTurn()
	if e.finished {
		return nil
	}
	e.endTurn(e.hands[e.currentTurn], false)
	return nil
}

func (e *Engine) handleSwap(playerID uuid.UUID, tileIDs []uuid.UUID) error {
	if e.finished {
		return model.ErrGameFinished
	}
	if !e.isTurnOf(playerID) {
		return model.ErrNotYourTurn
	}
	if len(tileIDs) == 0 {
		return model.ErrNoTilesToSwap
	}
	if len(e.bag) < MinBagForSwap {
		return model.ErrSwapBagTooSmall
	}

	h := e.hands[e.currentTurn]
	ids := make(map[uuid.UUID]bool, len(tileIDs))
	for _, id := range tileIDs {
		if ids[id] || h.tileIndex(id) < 0 {
			return model.ErrTileNotInHand
		}
		ids[id] = true
	}

	returned := h.removeTiles(ids)
	e.drawTiles(h, len(returned))
	e.bag = append(e.bag, returned...)
	e.shuffleBag()

	e.logger.Info("tiles swapped",
		slog.String("player_id", playerID.String()),
		slog.Int("count", len(returned)),
	)

	e.handleScorelessTurn()
	if e.finished {
		return nil
	}
	e.endTurn(h, false)
	return nil
}

// endTurn passes the turn on and charges the mover for the time used
func (e *Engine) endTurn(mover *playerHand, moved bool) {
	started := e.turnStarted
	e.rotateTurn()
	e.subtractTime(mover, started, moved)
	e.pendingState = true
	e.handleBotTurns()
}

// rotateTurn moves to the next player with time left, wrapping once; with none left the match ends
func (e *Engine) rotateTurn() {
	n := len(e.hands)
	for i := 1; i <= n; i++ {
		next := (e.currentTurn + i) % n
		if !e.hands[next].timeDepleted {
			e.currentTurn = next
			e.turnStarted = e.clock.Now()
			return
		}
	}
	e.finishGame()
}

func (e *Engine) subtractTime(h *playerHand, started time.Time, moved bool) {
	h.remaining -= e.clock.Now().Sub(started)
	if h.remaining <= 0 {
		h.remaining = 0
		h.timeDepleted = true
		e.scoreless = 0
		return
	}
	if moved && h.remaining < LowTimeThreshold {
		h.remaining += LowTimeBonus
	}
}

// handleScorelessTurn only counts once the bag is down to a third of the tile count
func (e *Engine) handleScorelessTurn() {
	if len(e.bag) > e.settings.TilesCount/3 {
		e.scoreless = 0
		return
	}
	e.scoreless++
	if e.scoreless >= 2*e.playersWithTime() {
		e.logger.Info("scoreless turn limit reached", slog.Int("scoreless_turns", e.scoreless))
		e.finishGame()
	}
}

func (e *Engine) playersWithTime() int {
	n := 0
	for _, h := range e.hands {
		if !h.timeDepleted {
			n++
		}
	}
	return n
}

func (e *Engine) allDepleted() bool {
	return e.playersWithTime() == 0
}

// allHumansGone ignores bots, which are never offline
func (e *Engine) allHumansGone() bool {
	humans := 0
	for _, h := range e.hands {
		if h.player.IsBot {
			continue
		}
		humans++
		if h.online || !h.timeDepleted {
			return false
		}
	}
	return humans > 0
}

func (e *Engine) drawTiles(h *playerHand, count int) {
	for ; count > 0 && len(e.bag) > 0; count-- {
		last := len(e.bag) - 1
		h.tiles = append(h.tiles, e.bag[last])
		e.bag = e.bag[:last]
	}
}

func (e *Engine) shuffleBag() {
	random.Shuffle(e.random, len(e.bag), func(i, j int) {
		e.bag[i], e.bag[j] = e.bag[j], e.bag[i]
	})
}

func (e *Engine) finishGame() {
	if e.finished {
		return
	}
	e.finished = true

	now := e.clock.Now()
	details := model.GameFinishedDetails{
		MoveHistory:  append([]model.MoveHistoryEntry(nil), e.history...),
		GameDuration: now.Sub(e.startedAt),
		FinishedAt:   now,
	}
	for _, h := range e.hands {
		details.Players = append(details.Players, model.FinishedPlayer{
			PlayerID:   h.player.PlayerID,
			PlayerName: h.player.PlayerName,
			Points:     h.points,
		})
	}

	e.logger.Info("game finished",
		slog.Duration("duration", details.GameDuration),
		slog.Int("moves", len(details.MoveHistory)),
	)
	e.pendingFinish = &details
}
