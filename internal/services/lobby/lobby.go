package lobby

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/lettergame/internal/dependencies/clock"
	"github.com/mcoot/lettergame/internal/model"
	"github.com/mcoot/lettergame/internal/services/bot"
	"github.com/mcoot/lettergame/internal/services/game"
	"github.com/mcoot/lettergame/internal/storage"
)

// PostGameDuration is how long results stay up before the lobby resets
const PostGameDuration = 60 * time.Second

// Notifier pushes events to a lobby's connected clients
type Notifier interface {
	SendToGroup(lobbyID uuid.UUID, event model.EventType, payload any)
	SendToPlayer(lobbyID, playerID uuid.UUID, event model.EventType, payload any)
}

// Lobby owns the seats and settings of one table and the match played at it
type Lobby struct {
	id       uuid.UUID
	engines  game.FactoryInterface
	bots     bot.ServiceInterface
	storage  storage.Storage
	notifier Notifier
	clock    clock.Clock
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu           sync.Mutex
	players      []model.LobbyPlayer
	seats        []model.Seat
	settings     model.LobbySettings
	state        model.LobbyState
	finishedGame *model.GameFinishedDetails
	engine       *game.Engine
	cancelMatch  context.CancelFunc

	background sync.WaitGroup
}

// New creates an idle lobby with empty seats and default settings
func New(
	id uuid.UUID,
	engines game.FactoryInterface,
	bots bot.ServiceInterface,
	store storage.Storage,
	notifier Notifier,
	clk clock.Clock,
	logger *slog.Logger,
) *Lobby {
	ctx, cancel := context.WithCancel(context.Background())
	l := &Lobby{
		id:       id,
		engines:  engines,
		bots:     bots,
		storage:  store,
		notifier: notifier,
		clock:    clk,
		logger:   logger.With(slog.String("component", "lobby"), slog.String("lobby_id", id.String())),
		ctx:      ctx,
		cancel:   cancel,
		settings: model.DefaultLobbySettings(),
		state:    model.LobbyStateLobby,
	}
	for i := 0; i < model.SeatCount; i++ {
		l.seats = append(l.seats, model.Seat{
			ID:      uuid.New(),
			IsAdmin: i == 0,
			Order:   i + 1,
		})
	}
	return l
}

// ID returns the lobby id
func (l *Lobby) ID() uuid.UUID {
	return l.id
}

// Close stops any running match and pending reset
func (l *Lobby) Close() {
	l.cancel()
	l.mu.Lock()
	if l.cancelMatch != nil {
		l.cancelMatch()
	}
	engine := l.engine
	l.mu.Unlock()

	if engine != nil {
		engine.Wait()
	}
	l.background.Wait()
}

// Wait blocks until background work (bot turns, the post-game reset) has finished
func (l *Lobby) Wait() {
	l.mu.Lock()
	engine := l.engine
	l.mu.Unlock()
	if engine != nil {
		engine.Wait()
	}
	l.background.Wait()
}

// AssignPlayer adds a player or refreshes their connection.
// A returning player in a running match is marked online again.
func (l *Lobby) AssignPlayer(player model.LobbyPlayer) model.JoinDetails {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i := l.playerIndex(player.PlayerID); i >= 0 {
		l.players[i].ConnectionID = player.ConnectionID
	} else {
		player.IsBot = false
		player.BotDifficulty = ""
		l.players = append(l.players, player)
		l.notify(fmt.Sprintf("%s has joined the lobby.", player.PlayerName))
	}

	if l.state == model.LobbyStateGame && l.engine != nil {
		if err := l.engine.SetPlayerOnline(player.PlayerID, true); err == nil {
			l.logger.Info("player reconnected", slog.String("player_id", player.PlayerID.String()))
		}
	}

	l.logger.Info("player assigned", slog.String("player_id", player.PlayerID.String()))
	l.broadcastState()
	return model.JoinDetails{PlayerID: player.PlayerID, Lobby: l.stateLocked()}
}

// LeaveLobby removes a player and frees their seat
func (l *Lobby) LeaveLobby(playerID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.leaveLocked(playerID)
}

func (l *Lobby) leaveLocked(playerID uuid.UUID) error {
	i := l.playerIndex(playerID)
	if i < 0 {
		return model.ErrNotInLobby
	}
	player := l.players[i]
	l.players = append(l.players[:i], l.players[i+1:]...)

	if seat := l.seatOf(playerID); seat != nil {
		seat.PlayerID = nil
	}
	if l.state == model.LobbyStateGame && l.engine != nil {
		_ = l.engine.SetPlayerOnline(playerID, false)
	}

	l.logger.Info("player left", slog.String("player_id", playerID.String()))
	l.notify(fmt.Sprintf("%s has left the lobby.", player.PlayerName))
	l.broadcastState()
	return nil
}

// PlayerDisconnected marks a player offline during a match and removes them otherwise
func (l *Lobby) PlayerDisconnected(playerID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == model.LobbyStateGame && l.engine != nil {
		if l.playerIndex(playerID) < 0 {
			return model.ErrNotInLobby
		}
		l.logger.Info("player disconnected during game", slog.String("player_id", playerID.String()))
		if err := l.engine.SetPlayerOnline(playerID, false); err != nil {
			l.logger.Debug("disconnected player is not in the match", slog.String("player_id", playerID.String()))
		}
		return nil
	}
	return l.leaveLocked(playerID)
}

// JoinSeat moves a player into an empty seat
func (l *Lobby) JoinSeat(playerID, seatID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.playerIndex(playerID) < 0 {
		return model.ErrNotInLobby
	}
	if l.state != model.LobbyStateLobby {
		return model.ErrLobbyNotIdle
	}
	target := l.seatByID(seatID)
	if target == nil || target.IsOccupied() {
		return model.ErrSeatUnavailable
	}

	if current := l.seatOf(playerID); current != nil {
		current.PlayerID = nil
	}
	id := playerID
	target.PlayerID = &id

	l.logger.Info("player seated",
		slog.String("player_id", playerID.String()),
		slog.Int("seat", target.Order),
	)
	l.broadcastState()
	return nil
}

// LeaveSeat frees the player's seat
func (l *Lobby) LeaveSeat(playerID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != model.LobbyStateLobby {
		return model.ErrLobbyNotIdle
	}
	seat := l.seatOf(playerID)
	if seat == nil {
		return model.ErrNotSeated
	}
	seat.PlayerID = nil
	l.broadcastState()
	return nil
}

// UpdateSettings replaces the match settings. Admin only, while idle.
func (l *Lobby) UpdateSettings(playerID uuid.UUID, settings model.LobbySettings) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.requireAdmin(playerID); err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		l.logger.Warn("settings rejected", slog.String("error", err.Error()))
		return err
	}
	l.settings = settings
	l.broadcastState()
	return nil
}

// AddBot seats a new bot. Admin only, while idle; the admin seat cannot take a bot.
func (l *Lobby) AddBot(playerID, seatID uuid.UUID, difficulty model.BotDifficulty) (model.LobbyPlayer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.requireAdmin(playerID); err != nil {
		return model.LobbyPlayer{}, err
	}
	seat := l.seatByID(seatID)
	if seat == nil || seat.IsOccupied() || seat.IsAdmin {
		return model.LobbyPlayer{}, model.ErrSeatUnavailable
	}

	botPlayer, err := l.bots.NewBotPlayer(l.settings.Language, difficulty)
	if err != nil {
		return model.LobbyPlayer{}, err
	}
	l.players = append(l.players, botPlayer)
	id := botPlayer.PlayerID
	seat.PlayerID = &id
	seat.IsBot = true
	seat.BotDifficulty = difficulty

	l.logger.Info("bot added",
		slog.String("bot_id", botPlayer.PlayerID.String()),
		slog.String("difficulty", string(difficulty)),
	)
	l.notify(fmt.Sprintf("%s has joined the lobby.", botPlayer.PlayerName))
	l.broadcastState()
	return botPlayer, nil
}

// RemoveBot removes the bot sitting in a seat. Admin only, while idle.
func (l *Lobby) RemoveBot(playerID, seatID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.requireAdmin(playerID); err != nil {
		return err
	}
	seat := l.seatByID(seatID)
	if seat == nil || !seat.IsOccupied() || !seat.IsBot {
		return model.ErrNotBotSeat
	}

	botID := *seat.PlayerID
	if i := l.playerIndex(botID); i >= 0 {
		l.players = append(l.players[:i], l.players[i+1:]...)
	}
	clearSeat(seat)

	l.logger.Info("bot removed", slog.String("bot_id", botID.String()))
	l.broadcastState()
	return nil
}

// StartGame begins a match between the seated players. Admin only, while idle.
func (l *Lobby) StartGame(playerID uuid.UUID) error {
	l.mu.Lock()

	if err := l.requireAdmin(playerID); err != nil {
		l.mu.Unlock()
		return err
	}

	var seated []model.LobbyPlayer
	for _, seat := range l.seats {
		if !seat.IsOccupied() {
			continue
		}
		if i := l.playerIndex(*seat.PlayerID); i >= 0 {
			seated = append(seated, l.players[i])
		}
	}
	if len(seated) < 2 {
		l.mu.Unlock()
		return model.ErrNotEnoughPlayers
	}

	ctx, cancel := context.WithCancel(l.ctx)
	observer := &matchObserver{lobby: l}
	engine, err := l.engines.CreateEngine(ctx, l.settings, seated, observer)
	if err != nil {
		cancel()
		l.mu.Unlock()
		l.logger.Error("failed to create game", slog.String("error", err.Error()))
		return err
	}
	observer.engine = engine

	l.engine = engine
	l.cancelMatch = cancel
	l.state = model.LobbyStateGame
	l.finishedGame = nil

	l.logger.Info("game started", slog.Int("players", len(seated)))
	l.notify("Game has started.")
	l.broadcastState()
	l.mu.Unlock()

	engine.Start()
	return nil
}

// currentEngine returns the running match, released from the lobby lock before use
func (l *Lobby) currentEngine() (*game.Engine, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != model.LobbyStateGame || l.engine == nil {
		return nil, model.ErrGameNotStarted
	}
	return l.engine, nil
}

// Move submits a placement to the running match
func (l *Lobby) Move(playerID uuid.UUID, move model.MoveRequest) (model.MoveResult, error) {
	engine, err := l.currentEngine()
	if err != nil {
		return model.MoveResult{}, err
	}
	return engine.HandleMove(playerID, move)
}

// SwapTiles exchanges tiles in the running match
func (l *Lobby) SwapTiles(playerID uuid.UUID, tileIDs []uuid.UUID) error {
	engine, err := l.currentEngine()
	if err != nil {
		return err
	}
	return engine.HandleSwapTiles(playerID, tileIDs)
}

// SkipTurn passes in the running match
func (l *Lobby) SkipTurn(playerID uuid.UUID) error {
	engine, err := l.currentEngine()
	if err != nil {
		return err
	}
	return engine.HandleSkipTurn(playerID)
}

// CheckGameRules polls the running match
func (l *Lobby) CheckGameRules() error {
	engine, err := l.currentEngine()
	if err != nil {
		return err
	}
	engine.CheckGameRules()
	return nil
}

// GetGameDetails returns the running match as seen by playerID
func (l *Lobby) GetGameDetails(playerID uuid.UUID) (model.GameDetails, error) {
	engine, err := l.currentEngine()
	if err != nil {
		return model.GameDetails{}, err
	}
	return engine.GetGameDetails(playerID), nil
}

// SendMessage broadcasts a chat line from a lobby member
func (l *Lobby) SendMessage(playerID uuid.UUID, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return model.ErrEmptyChatMessage
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.playerIndex(playerID)
	if i < 0 {
		return model.ErrNotInLobby
	}
	l.notifier.SendToGroup(l.id, model.EventChatMessage, model.ChatMessage{
		PlayerName: l.players[i].PlayerName,
		Message:    message,
		SentAt:     l.clock.Now(),
	})
	return nil
}

// GetLobbyState snapshots the lobby
func (l *Lobby) GetLobbyState() model.LobbyStateDetails {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stateLocked()
}

// Summary is the lobby's entry in the lobby listing
func (l *Lobby) Summary() model.LobbySummary {
	l.mu.Lock()
	defer l.mu.Unlock()

	count := 0
	for _, p := range l.players {
		if !p.IsBot {
			count++
		}
	}
	return model.LobbySummary{LobbyID: l.id, State: l.state, PlayerCount: count}
}

// HasPlayer reports whether playerID has joined this lobby
func (l *Lobby) HasPlayer(playerID uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.playerIndex(playerID) >= 0
}

// finishGame archives a finished match, shows the results and schedules the reset
func (l *Lobby) finishGame(engine *game.Engine, details model.GameFinishedDetails) {
	l.mu.Lock()
	if l.state != model.LobbyStateGame || l.engine != engine {
		l.mu.Unlock()
		return
	}

	details.PostGameDurationSeconds = int(PostGameDuration / time.Second)
	l.finishedGame = &details
	l.state = model.LobbyStatePostGame
	l.engine = nil
	if l.cancelMatch != nil {
		l.cancelMatch()
		l.cancelMatch = nil
	}
	record := &model.GameRecord{
		ID:       uuid.New(),
		LobbyID:  l.id,
		Settings: l.settings,
		Details:  details,
	}

	l.logger.Info("game finished", slog.String("record_id", record.ID.String()))
	l.notify("Game has finished.")
	l.broadcastState()
	l.background.Add(1)
	l.mu.Unlock()

	go func() {
		defer l.background.Done()

		if err := l.storage.SaveGameRecord(l.ctx, record); err != nil {
			l.logger.Error("failed to archive game",
				slog.String("record_id", record.ID.String()),
				slog.String("error", err.Error()),
			)
		}

		if err := l.clock.Sleep(l.ctx, PostGameDuration); err != nil {
			return
		}
		l.Restart()
	}()
}

// Restart clears seats, removes bots and restores default settings
func (l *Lobby) Restart() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancelMatch != nil {
		l.cancelMatch()
		l.cancelMatch = nil
	}
	l.engine = nil
	l.state = model.LobbyStateLobby
	l.finishedGame = nil
	l.settings = model.DefaultLobbySettings()
	for i := range l.seats {
		clearSeat(&l.seats[i])
	}

	humans := l.players[:0]
	for _, p := range l.players {
		if !p.IsBot {
			humans = append(humans, p)
		}
	}
	l.players = humans

	l.logger.Info("lobby reset")
	l.broadcastState()
}

func (l *Lobby) requireAdmin(playerID uuid.UUID) error {
	if l.playerIndex(playerID) < 0 {
		return model.ErrNotInLobby
	}
	admin := l.seats[0]
	if admin.PlayerID == nil || *admin.PlayerID != playerID {
		return model.ErrNotLobbyAdmin
	}
	if l.state != model.LobbyStateLobby {
		return model.ErrLobbyNotIdle
	}
	return nil
}

func (l *Lobby) playerIndex(playerID uuid.UUID) int {
	for i, p := range l.players {
		if p.PlayerID == playerID {
			return i
		}
	}
	return -1
}

func (l *Lobby) seatByID(seatID uuid.UUID) *model.Seat {
	for i := range l.seats {
		if l.seats[i].ID == seatID {
			return &l.seats[i]
		}
	}
	return nil
}

func (l *Lobby) seatOf(playerID uuid.UUID) *model.Seat {
	for i := range l.seats {
		if p := l.seats[i].PlayerID; p != nil && *p == playerID {
			return &l.seats[i]
		}
	}
	return nil
}

func clearSeat(seat *model.Seat) {
	seat.PlayerID = nil
	seat.IsBot = false
	seat.BotDifficulty = ""
}

func (l *Lobby) stateLocked() model.LobbyStateDetails {
	seats := make([]model.Seat, len(l.seats))
	for i, s := range l.seats {
		if s.PlayerID != nil {
			id := *s.PlayerID
			s.PlayerID = &id
		}
		seats[i] = s
	}
	return model.LobbyStateDetails{
		LobbyID:      l.id,
		Players:      append([]model.LobbyPlayer(nil), l.players...),
		Seats:        seats,
		Settings:     l.settings,
		State:        l.state,
		FinishedGame: l.finishedGame,
	}
}

func (l *Lobby) broadcastState() {
	l.notifier.SendToGroup(l.id, model.EventLobbyUpdated, l.stateLocked())
}

func (l *Lobby) notify(message string) {
	l.notifier.SendToGroup(l.id, model.EventNotification, model.Notification{Message: message})
}

// matchObserver forwards one engine's notifications to the lobby
type matchObserver struct {
	lobby  *Lobby
	engine *game.Engine
}

// StateChanged pushes each human player their own view of the match
func (o *matchObserver) StateChanged() {
	for _, p := range o.engine.Players() {
		if p.IsBot {
			continue
		}
		o.lobby.notifier.SendToPlayer(o.lobby.id, p.PlayerID, model.EventGameUpdated, o.engine.GetGameDetails(p.PlayerID))
	}
}

func (o *matchObserver) GameFinished(details model.GameFinishedDetails) {
	o.lobby.finishGame(o.engine, details)
}

var _ game.Observer = (*matchObserver)(nil)
