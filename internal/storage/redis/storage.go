package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mcoot/lettergame/internal/model"
	"github.com/mcoot/lettergame/internal/storage"
)

// dictionaryBatchSize bounds the members sent per SADD
const dictionaryBatchSize = 10000

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
	keys   keyspace
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
		keys:   newKeyspace(cfg.KeyPrefix),
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) getJSON(ctx context.Context, key string, notFound error, out any) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return notFound
		}
		return err
	}
	return json.Unmarshal(data, out)
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	// Apply TTL only for guest players
	var ttl time.Duration
	if player.IsGuest {
		ttl = s.cfg.GuestPlayerTTL
	}
	return s.client.Set(ctx, s.keys.player(player.ID), data, ttl).Err()
}

func (s *Storage) GetPlayer(ctx context.Context, id uuid.UUID) (*model.Player, error) {
	var player model.Player
	if err := s.getJSON(ctx, s.keys.player(id), model.ErrPlayerNotFound, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id uuid.UUID) error {
	return s.client.Del(ctx, s.keys.player(id)).Err()
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	data, err := json.Marshal(rp)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.keys.registeredPlayer(rp.PlayerID), data, 0) // No TTL
	pipe.Set(ctx, s.keys.usernameIndex(rp.Username), rp.PlayerID.String(), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID uuid.UUID) (*model.RegisteredPlayer, error) {
	var rp model.RegisteredPlayer
	if err := s.getJSON(ctx, s.keys.registeredPlayer(playerID), model.ErrPlayerNotFound, &rp); err != nil {
		return nil, err
	}
	return &rp, nil
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	// Look up player ID from username index
	playerIDStr, err := s.client.Get(ctx, s.keys.usernameIndex(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	playerID, err := uuid.Parse(playerIDStr)
	if err != nil {
		return nil, err
	}
	return s.GetRegisteredPlayer(ctx, playerID)
}

// Game record operations

func (s *Storage) SaveGameRecord(ctx context.Context, record *model.GameRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	indexKey := s.keys.lobbyRecordsIndex(record.LobbyID)

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.keys.gameRecord(record.ID), data, s.cfg.GameRecordTTL)
	pipe.ZAdd(ctx, indexKey, redis.Z{
		Score:  float64(record.Details.FinishedAt.UnixMilli()),
		Member: record.ID.String(),
	})
	if s.cfg.GameRecordTTL > 0 {
		pipe.Expire(ctx, indexKey, s.cfg.GameRecordTTL) // Keep index TTL in sync
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetGameRecord(ctx context.Context, id uuid.UUID) (*model.GameRecord, error) {
	var record model.GameRecord
	if err := s.getJSON(ctx, s.keys.gameRecord(id), model.ErrGameRecordNotFound, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Storage) ListGameRecords(ctx context.Context, lobbyID uuid.UUID, limit int) ([]*model.GameRecord, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	ids, err := s.client.ZRevRange(ctx, s.keys.lobbyRecordsIndex(lobbyID), 0, stop).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.GameRecord{}, nil
	}

	keys := make([]string, 0, len(ids))
	for _, idStr := range ids {
		id, err := uuid.Parse(idStr)
		if err != nil {
			continue
		}
		keys = append(keys, s.keys.gameRecord(id))
	}
	if len(keys) == 0 {
		return []*model.GameRecord{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	records := make([]*model.GameRecord, 0, len(values))
	for _, val := range values {
		str, ok := val.(string)
		if !ok {
			continue // Record may have expired
		}
		var record model.GameRecord
		if err := json.Unmarshal([]byte(str), &record); err != nil {
			continue // Skip invalid data
		}
		records = append(records, &record)
	}
	return records, nil
}

// Dictionary operations

func (s *Storage) GetDictionaryWords(ctx context.Context, lang model.Language) ([]string, error) {
	key := s.keys.dictionary(lang)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, model.ErrDictionaryNotFound
	}

	return s.client.SMembers(ctx, key).Result()
}

func (s *Storage) SaveDictionaryWords(ctx context.Context, lang model.Language, words []string) error {
	key := s.keys.dictionary(lang)

	// Replace the set atomically, in batches to keep each command bounded
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	for start := 0; start < len(words); start += dictionaryBatchSize {
		end := min(start+dictionaryBatchSize, len(words))
		members := make([]interface{}, 0, end-start)
		for _, w := range words[start:end] {
			members = append(members, w)
		}
		pipe.SAdd(ctx, key, members...)
	}

	_, err := pipe.Exec(ctx)
	return err
}
