package game

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/lettergame/internal/dependencies/clock"
	"github.com/mcoot/lettergame/internal/dependencies/random"
	"github.com/mcoot/lettergame/internal/model"
	"github.com/mcoot/lettergame/internal/services/board"
	"github.com/mcoot/lettergame/internal/services/bot"
	"github.com/mcoot/lettergame/internal/services/dictionary"
	"github.com/mcoot/lettergame/internal/services/scoring"
)

// Factory builds engines for new matches
type Factory struct {
	boards    board.ServiceInterface
	providers dictionary.ProviderFactory
	scorer    scoring.ServiceInterface
	bots      bot.ServiceInterface
	clock     clock.Clock
	random    random.Random
	logger    *slog.Logger
}

// NewFactory creates a new engine Factory
func NewFactory(
	boards board.ServiceInterface,
	providers dictionary.ProviderFactory,
	scorer scoring.ServiceInterface,
	bots bot.ServiceInterface,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Factory {
	return &Factory{
		boards:    boards,
		providers: providers,
		scorer:    scorer,
		bots:      bots,
		clock:     clock,
		random:    random,
		logger:    logger,
	}
}

// CreateEngine sets up a match: players are shuffled with bots after humans,
// the bag is filled from the language's tile weights and every player is dealt a full hand.
// Bot turns run under ctx. Call Start to begin play.
func (f *Factory) CreateEngine(
	ctx context.Context,
	settings model.LobbySettings,
	players []model.LobbyPlayer,
	observer Observer,
) (*Engine, error) {
	if len(players) < 2 {
		return nil, model.ErrNotEnoughPlayers
	}

	layout, err := f.boards.GenerateBoard(settings.BoardType)
	if err != nil {
		return nil, err
	}
	provider, err := f.providers.CreateProvider(settings.Language)
	if err != nil {
		return nil, err
	}

	order := append([]model.LobbyPlayer(nil), players...)
	random.Shuffle(f.random, len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	sort.SliceStable(order, func(i, j int) bool {
		return !order[i].IsBot && order[j].IsBot
	})

	now := f.clock.Now()
	e := &Engine{
		ctx:         ctx,
		settings:    settings,
		layout:      layout,
		provider:    provider,
		defs:        model.TileDefinitionsByID(provider.TileDefinitions()),
		scorer:      f.scorer,
		bots:        f.bots,
		clock:       f.clock,
		random:      f.random,
		logger:      f.logger.With(slog.String("component", "game-engine")),
		observer:    observer,
		turnStarted: now,
		startedAt:   now,
	}

	e.bag = fillBag(provider.TileDefinitions(), settings.TilesCount)
	e.shuffleBag()

	bank := time.Duration(settings.TimeBankMinutes) * time.Minute
	for _, p := range order {
		h := &playerHand{player: p, remaining: bank, online: true}
		e.drawTiles(h, model.HandSize)
		e.hands = append(e.hands, h)
	}

	e.logger.Info("game created",
		slog.Int("player_count", len(order)),
		slog.String("language", string(settings.Language)),
		slog.String("board_type", string(settings.BoardType)),
		slog.Int("bag", len(e.bag)),
	)

	return e, nil
}

// fillBag creates round(tilesCount * weight / 100) tiles of each definition
func fillBag(defs []model.TileDefinition, tilesCount int) []model.TileInstance {
	var bag []model.TileInstance
	for _, d := range defs {
		count := int(math.Round(float64(tilesCount*d.Weight) / 100))
		for i := 0; i < count; i++ {
			bag = append(bag, model.TileInstance{TileID: uuid.New(), ValueID: d.ValueID})
		}
	}
	return bag
}

// Interface for dependency injection
type FactoryInterface interface {
	CreateEngine(ctx context.Context, settings model.LobbySettings, players []model.LobbyPlayer, observer Observer) (*Engine, error)
}

var _ FactoryInterface = (*Factory)(nil)
