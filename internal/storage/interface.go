package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/mcoot/lettergame/internal/model"
)

// Storage defines the interface for data persistence.
// Live lobby and match state stays in memory; only accounts, finished games and
// dictionaries are stored.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id uuid.UUID) (*model.Player, error)
	DeletePlayer(ctx context.Context, id uuid.UUID) error

	// Registered player operations
	SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error
	GetRegisteredPlayer(ctx context.Context, playerID uuid.UUID) (*model.RegisteredPlayer, error)
	GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error)

	// Finished game archive
	SaveGameRecord(ctx context.Context, record *model.GameRecord) error
	GetGameRecord(ctx context.Context, id uuid.UUID) (*model.GameRecord, error)
	// ListGameRecords returns up to limit records for the lobby, newest first
	ListGameRecords(ctx context.Context, lobbyID uuid.UUID, limit int) ([]*model.GameRecord, error)

	// Dictionary operations
	GetDictionaryWords(ctx context.Context, lang model.Language) ([]string, error)
	SaveDictionaryWords(ctx context.Context, lang model.Language, words []string) error
}
