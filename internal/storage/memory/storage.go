package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/mcoot/lettergame/internal/model"
	"github.com/mcoot/lettergame/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players           map[uuid.UUID]*model.Player
	registeredPlayers map[uuid.UUID]*model.RegisteredPlayer
	usernameIndex     map[string]uuid.UUID
	gameRecords       map[uuid.UUID]*model.GameRecord
	recordsByLobby    map[uuid.UUID][]uuid.UUID
	dictionaries      map[model.Language][]string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:           make(map[uuid.UUID]*model.Player),
		registeredPlayers: make(map[uuid.UUID]*model.RegisteredPlayer),
		usernameIndex:     make(map[string]uuid.UUID),
		gameRecords:       make(map[uuid.UUID]*model.GameRecord),
		recordsByLobby:    make(map[uuid.UUID][]uuid.UUID),
		dictionaries:      make(map[model.Language][]string),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *player
	s.players[player.ID] = &p
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id uuid.UUID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	p := *player
	return &p, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, id)
	return nil
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := *rp
	s.registeredPlayers[rp.PlayerID] = &r
	s.usernameIndex[rp.Username] = rp.PlayerID
	return nil
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID uuid.UUID) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	r := *rp
	return &r, nil
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	playerID, ok := s.usernameIndex[username]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return s.GetRegisteredPlayer(ctx, playerID)
}

// Game record operations

func (s *Storage) SaveGameRecord(ctx context.Context, record *model.GameRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.gameRecords[record.ID]; !exists {
		s.recordsByLobby[record.LobbyID] = append(s.recordsByLobby[record.LobbyID], record.ID)
	}
	r := *record
	s.gameRecords[record.ID] = &r
	return nil
}

func (s *Storage) GetGameRecord(ctx context.Context, id uuid.UUID) (*model.GameRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.gameRecords[id]
	if !ok {
		return nil, model.ErrGameRecordNotFound
	}
	r := *record
	return &r, nil
}

func (s *Storage) ListGameRecords(ctx context.Context, lobbyID uuid.UUID, limit int) ([]*model.GameRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.recordsByLobby[lobbyID]
	records := make([]*model.GameRecord, 0, len(ids))
	for _, id := range ids {
		r := *s.gameRecords[id]
		records = append(records, &r)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Details.FinishedAt.After(records[j].Details.FinishedAt)
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Dictionary operations

func (s *Storage) GetDictionaryWords(ctx context.Context, lang model.Language) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	words, ok := s.dictionaries[lang]
	if !ok {
		return nil, model.ErrDictionaryNotFound
	}
	return append([]string(nil), words...), nil
}

func (s *Storage) SaveDictionaryWords(ctx context.Context, lang model.Language, words []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dictionaries[lang] = append([]string(nil), words...)
	return nil
}
