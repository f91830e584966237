package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/lettergame/internal/dependencies/clock"
	"github.com/mcoot/lettergame/internal/dependencies/random"
	"github.com/mcoot/lettergame/internal/realtime"
	"github.com/mcoot/lettergame/internal/services/auth"
	"github.com/mcoot/lettergame/internal/services/board"
	"github.com/mcoot/lettergame/internal/services/bot"
	"github.com/mcoot/lettergame/internal/services/dictionary"
	"github.com/mcoot/lettergame/internal/services/game"
	"github.com/mcoot/lettergame/internal/services/lobby"
	"github.com/mcoot/lettergame/internal/services/scoring"
	"github.com/mcoot/lettergame/internal/storage"
	"github.com/mcoot/lettergame/internal/storage/memory"
	redisstorage "github.com/mcoot/lettergame/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// DefaultLobbyCount is the size of the lobby pool when none is configured
const DefaultLobbyCount = 4

// HousekeepingInterval is how often expired revocations and idle hubs are swept
const HousekeepingInterval = 5 * time.Minute

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	DictionaryService *dictionary.Service
	BoardService      *board.Service
	ScoringService    *scoring.Service
	BotService        *bot.Service
	GameFactory       *game.Factory
	Lobbies           *lobby.Manager
	RulesTicker       *lobby.RulesTicker
	AuthService       *auth.Service
	HubManager        *realtime.HubManager

	logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service.
	// A zero TokenDuration falls back to auth.DefaultConfig() durations.
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// LobbyCount is the number of lobbies created at start-up
	LobbyCount int
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	if len(cfg.AuthConfig.Secret) == 0 {
		return nil, errors.New("AuthConfig.Secret is required")
	}

	return newWithDependencies(store, clock.New(), random.New(), cfg.AuthConfig, cfg.LobbyCount, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	authCfg auth.Config,
	lobbyCount int,
	logger *slog.Logger,
) *App {
	if lobbyCount <= 0 {
		lobbyCount = DefaultLobbyCount
	}

	dictService := dictionary.New(store, logger)
	boardService := board.New(logger)
	scoringService := scoring.New()
	botService := bot.NewService(scoringService, clk, rnd, logger)
	gameFactory := game.NewFactory(boardService, dictService, scoringService, botService, clk, rnd, logger)
	authService := auth.New(store, clk, authCfg, logger)
	hubManager := realtime.NewHubManager(logger)

	lobbies := make([]*lobby.Lobby, 0, lobbyCount)
	for i := 0; i < lobbyCount; i++ {
		lobbies = append(lobbies, lobby.New(uuid.New(), gameFactory, botService, store, hubManager, clk, logger))
	}
	manager := lobby.NewManager(lobbies, store, logger)
	hubManager.SetDisconnectHandler(manager.Disconnected)

	return &App{
		Storage:           store,
		Clock:             clk,
		Random:            rnd,
		DictionaryService: dictService,
		BoardService:      boardService,
		ScoringService:    scoringService,
		BotService:        botService,
		GameFactory:       gameFactory,
		Lobbies:           manager,
		RulesTicker:       lobby.NewRulesTicker(manager, lobby.DefaultRulesInterval, logger),
		AuthService:       authService,
		HubManager:        hubManager,
		logger:            logger.With(slog.String("component", "app")),
	}
}

// Housekeep drops expired token revocations and push hubs nobody listens to
func (a *App) Housekeep() {
	a.AuthService.CleanRevoked()
	a.HubManager.CleanupEmptyHubs()
}

// RunHousekeeping calls Housekeep every interval until ctx is cancelled
func (a *App) RunHousekeeping(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = HousekeepingInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.Housekeep()
			a.logger.Debug("housekeeping done")
		}
	}
}

// Close stops every lobby and push hub
func (a *App) Close() {
	a.Lobbies.Close()
	a.HubManager.Close()
}
