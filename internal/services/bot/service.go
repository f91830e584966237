package bot

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/mcoot/lettergame/internal/dependencies/clock"
	"github.com/mcoot/lettergame/internal/dependencies/random"
	"github.com/mcoot/lettergame/internal/model"
	"github.com/mcoot/lettergame/internal/services/dictionary"
	"github.com/mcoot/lettergame/internal/services/scoring"
)

// Service creates bot players and hands out their strategies
type Service struct {
	simulator  *Simulator
	scorer     scoring.ServiceInterface
	strategies Strategies
	random     random.Random
	logger     *slog.Logger
}

// NewService creates a new bot Service with the default strategies
func NewService(scorer scoring.ServiceInterface, clk clock.Clock, rnd random.Random, logger *slog.Logger) *Service {
	sim := NewSimulator()
	return NewServiceWithStrategies(sim, scorer, NewStrategies(sim, scorer, clk, rnd), rnd, logger)
}

// NewServiceWithStrategies creates a bot Service with the given strategies
func NewServiceWithStrategies(
	sim *Simulator,
	scorer scoring.ServiceInterface,
	strategies Strategies,
	rnd random.Random,
	logger *slog.Logger,
) *Service {
	return &Service{
		simulator:  sim,
		scorer:     scorer,
		strategies: strategies,
		random:     rnd,
		logger:     logger.With(slog.String("component", "bot-service")),
	}
}

// Strategy returns the strategy for a difficulty
func (s *Service) Strategy(difficulty model.BotDifficulty) (Strategy, error) {
	st, ok := s.strategies[difficulty]
	if !ok {
		s.logger.Error("no strategy for difficulty", slog.String("difficulty", string(difficulty)))
		return nil, model.ErrNoStrategy
	}
	return st, nil
}

// NewBotPlayer creates a named bot participant for a lobby playing in lang
func (s *Service) NewBotPlayer(lang model.Language, difficulty model.BotDifficulty) (model.LobbyPlayer, error) {
	if !difficulty.IsValid() {
		return model.LobbyPlayer{}, model.ErrUnknownDifficulty
	}

	names := firstNames[lang]
	if len(names) == 0 {
		names = firstNames[model.LanguageEnglish]
	}

	return model.LobbyPlayer{
		PlayerID:      uuid.New(),
		PlayerName:    "Bot " + names[s.random.Intn(len(names))],
		IsBot:         true,
		BotDifficulty: difficulty,
	}, nil
}

// BestMove finds the highest scoring move available to hand, or nil if there is none
func (s *Service) BestMove(
	provider dictionary.Provider,
	layout *model.BoardLayout,
	placed []model.PlacedTile,
	hand []model.TileInstance,
) *model.BestMove {
	base := strategyBase{simulator: s.simulator, scorer: s.scorer}
	moves := s.simulator.SimulateMoves(provider, MaxLetters, layout, placed, hand)
	top, ok := best(base.score(layout, placed, hand, provider, moves))
	if !ok {
		return nil
	}
	return &model.BestMove{
		Words:  top.result.WordTexts(),
		Points: top.result.Points,
	}
}

// Interface for dependency injection
type ServiceInterface interface {
	Strategy(difficulty model.BotDifficulty) (Strategy, error)
	NewBotPlayer(lang model.Language, difficulty model.BotDifficulty) (model.LobbyPlayer, error)
	BestMove(
		provider dictionary.Provider,
		layout *model.BoardLayout,
		placed []model.PlacedTile,
		hand []model.TileInstance,
	) *model.BestMove
}

var _ ServiceInterface = (*Service)(nil)
