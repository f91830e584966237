package lobby

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/mcoot/lettergame/internal/model"
	"github.com/mcoot/lettergame/internal/storage"
)

// DefaultHistoryLimit caps ListHistory when no limit is given
const DefaultHistoryLimit = 20

// Manager routes requests to the fixed set of lobbies.
// A player is in at most one lobby; requests are resolved by connection id first
// and by player id when the connection is unknown.
type Manager struct {
	lobbies []*Lobby
	byID    map[uuid.UUID]*Lobby
	storage storage.Storage
	logger  *slog.Logger

	mu          sync.RWMutex
	connections map[string]uuid.UUID
}

// NewManager creates a Manager over the given lobbies
func NewManager(lobbies []*Lobby, store storage.Storage, logger *slog.Logger) *Manager {
	m := &Manager{
		lobbies:     lobbies,
		byID:        make(map[uuid.UUID]*Lobby, len(lobbies)),
		storage:     store,
		logger:      logger.With(slog.String("component", "lobby-manager")),
		connections: make(map[string]uuid.UUID),
	}
	for _, l := range lobbies {
		m.byID[l.ID()] = l
	}
	return m
}

// GetLobbies lists every lobby in creation order
func (m *Manager) GetLobbies() []model.LobbySummary {
	summaries := make([]model.LobbySummary, 0, len(m.lobbies))
	for _, l := range m.lobbies {
		summaries = append(summaries, l.Summary())
	}
	return summaries
}

// Lobby looks up a lobby by id
func (m *Manager) Lobby(lobbyID uuid.UUID) (*Lobby, error) {
	l, ok := m.byID[lobbyID]
	if !ok {
		return nil, model.ErrLobbyNotFound
	}
	return l, nil
}

// JoinLobby assigns the player to a lobby, leaving any other lobby they were in
func (m *Manager) JoinLobby(lobbyID uuid.UUID, player model.LobbyPlayer) (model.JoinDetails, error) {
	target, err := m.Lobby(lobbyID)
	if err != nil {
		return model.JoinDetails{}, err
	}

	if current, err := m.find(player.ConnectionID, player.PlayerID); err == nil && current != target {
		if err := current.LeaveLobby(player.PlayerID); err != nil && !errors.Is(err, model.ErrNotInLobby) {
			return model.JoinDetails{}, err
		}
	}

	details := target.AssignPlayer(player)

	m.mu.Lock()
	m.connections[player.ConnectionID] = lobbyID
	m.mu.Unlock()

	m.logger.Info("player joined lobby",
		slog.String("player_id", player.PlayerID.String()),
		slog.String("lobby_id", lobbyID.String()),
	)
	return details, nil
}

// find resolves the lobby for a request
func (m *Manager) find(connectionID string, playerID uuid.UUID) (*Lobby, error) {
	m.mu.RLock()
	lobbyID, ok := m.connections[connectionID]
	m.mu.RUnlock()

	if ok {
		if l := m.byID[lobbyID]; l != nil && l.HasPlayer(playerID) {
			return l, nil
		}
	}
	for _, l := range m.lobbies {
		if l.HasPlayer(playerID) {
			return l, nil
		}
	}
	return nil, model.ErrNotInLobby
}

// LeaveLobby removes the player from their lobby
func (m *Manager) LeaveLobby(connectionID string, playerID uuid.UUID) error {
	l, err := m.find(connectionID, playerID)
	if err != nil {
		return err
	}
	m.forget(connectionID)
	return l.LeaveLobby(playerID)
}

// Disconnected handles a closed connection
func (m *Manager) Disconnected(connectionID string, playerID uuid.UUID) {
	l, err := m.find(connectionID, playerID)
	m.forget(connectionID)
	if err != nil {
		return
	}
	if err := l.PlayerDisconnected(playerID); err != nil && !errors.Is(err, model.ErrNotInLobby) {
		m.logger.Warn("disconnect handling failed",
			slog.String("player_id", playerID.String()),
			slog.String("error", err.Error()),
		)
	}
}

func (m *Manager) forget(connectionID string) {
	m.mu.Lock()
	delete(m.connections, connectionID)
	m.mu.Unlock()
}

// GetLobbyState returns the state of the player's lobby
func (m *Manager) GetLobbyState(connectionID string, playerID uuid.UUID) (model.LobbyStateDetails, error) {
	l, err := m.find(connectionID, playerID)
	if err != nil {
		return model.LobbyStateDetails{}, err
	}
	return l.GetLobbyState(), nil
}

func (m *Manager) JoinSeat(connectionID string, playerID, seatID uuid.UUID) error {
	l, err := m.find(connectionID, playerID)
	if err != nil {
		return err
	}
	return l.JoinSeat(playerID, seatID)
}

func (m *Manager) LeaveSeat(connectionID string, playerID uuid.UUID) error {
	l, err := m.find(connectionID, playerID)
	if err != nil {
		return err
	}
	return l.LeaveSeat(playerID)
}

func (m *Manager) UpdateSettings(connectionID string, playerID uuid.UUID, settings model.LobbySettings) error {
	l, err := m.find(connectionID, playerID)
	if err != nil {
		return err
	}
	return l.UpdateSettings(playerID, settings)
}

func (m *Manager) AddBot(connectionID string, playerID, seatID uuid.UUID, difficulty model.BotDifficulty) (model.LobbyPlayer, error) {
	l, err := m.find(connectionID, playerID)
	if err != nil {
		return model.LobbyPlayer{}, err
	}
	return l.AddBot(playerID, seatID, difficulty)
}

func (m *Manager) RemoveBot(connectionID string, playerID, seatID uuid.UUID) error {
	l, err := m.find(connectionID, playerID)
	if err != nil {
		return err
	}
	return l.RemoveBot(playerID, seatID)
}

func (m *Manager) StartGame(connectionID string, playerID uuid.UUID) error {
	l, err := m.find(connectionID, playerID)
	if err != nil {
		return err
	}
	return l.StartGame(playerID)
}

func (m *Manager) SendMessage(connectionID string, playerID uuid.UUID, message string) error {
	l, err := m.find(connectionID, playerID)
	if err != nil {
		return err
	}
	return l.SendMessage(playerID, message)
}

func (m *Manager) GetGameDetails(connectionID string, playerID uuid.UUID) (model.GameDetails, error) {
	l, err := m.find(connectionID, playerID)
	if err != nil {
		return model.GameDetails{}, err
	}
	return l.GetGameDetails(playerID)
}

func (m *Manager) Move(connectionID string, playerID uuid.UUID, move model.MoveRequest) (model.MoveResult, error) {
	l, err := m.find(connectionID, playerID)
	if err != nil {
		return model.MoveResult{}, err
	}
	return l.Move(playerID, move)
}

func (m *Manager) SwapTiles(connectionID string, playerID uuid.UUID, tileIDs []uuid.UUID) error {
	l, err := m.find(connectionID, playerID)
	if err != nil {
		return err
	}
	return l.SwapTiles(playerID, tileIDs)
}

func (m *Manager) SkipTurn(connectionID string, playerID uuid.UUID) error {
	l, err := m.find(connectionID, playerID)
	if err != nil {
		return err
	}
	return l.SkipTurn(playerID)
}

// CheckGameRules polls every lobby with a running match
func (m *Manager) CheckGameRules() {
	for _, l := range m.lobbies {
		if err := l.CheckGameRules(); err != nil && !errors.Is(err, model.ErrGameNotStarted) {
			m.logger.Error("rules check failed",
				slog.String("lobby_id", l.ID().String()),
				slog.String("error", err.Error()),
			)
		}
	}
}

// ListHistory returns archived matches of a lobby, newest first
func (m *Manager) ListHistory(ctx context.Context, lobbyID uuid.UUID, limit int) ([]*model.GameRecord, error) {
	if _, err := m.Lobby(lobbyID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return m.storage.ListGameRecords(ctx, lobbyID, limit)
}

// GetGameRecord returns one archived match
func (m *Manager) GetGameRecord(ctx context.Context, recordID uuid.UUID) (*model.GameRecord, error) {
	return m.storage.GetGameRecord(ctx, recordID)
}

// Close stops every lobby
func (m *Manager) Close() {
	for _, l := range m.lobbies {
		l.Close()
	}
}
