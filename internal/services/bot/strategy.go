package bot

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/lettergame/internal/dependencies/clock"
	"github.com/mcoot/lettergame/internal/dependencies/random"
	"github.com/mcoot/lettergame/internal/model"
	"github.com/mcoot/lettergame/internal/services/dictionary"
	"github.com/mcoot/lettergame/internal/services/scoring"
)

// MaxLetters is how many tiles a bot will consider placing at once
const MaxLetters = model.HandSize

// MinBagForSwap is the smallest bag a swap may draw from
const MinBagForSwap = model.HandSize

// Strategy decides a bot's action for its turn
type Strategy interface {
	GetNextMove(
		ctx context.Context,
		layout *model.BoardLayout,
		placed []model.PlacedTile,
		hand []model.TileInstance,
		bagCount int,
		provider dictionary.Provider,
	) (model.BotAction, error)
}

// Strategies selects a strategy by difficulty
type Strategies map[model.BotDifficulty]Strategy

// NewStrategies builds the easy, medium and hard strategies
func NewStrategies(sim *Simulator, scorer scoring.ServiceInterface, clk clock.Clock, rnd random.Random) Strategies {
	base := strategyBase{simulator: sim, scorer: scorer, clock: clk, random: rnd}
	return Strategies{
		model.BotEasy:   &EasyStrategy{base},
		model.BotMedium: &MediumStrategy{base},
		model.BotHard:   &HardStrategy{base},
	}
}

// strategyBase holds what every difficulty shares
type strategyBase struct {
	simulator *Simulator
	scorer    scoring.ServiceInterface
	clock     clock.Clock
	random    random.Random
}

// think waits a random delay in [minDelay, maxDelay]
func (b strategyBase) think(ctx context.Context, minDelay, maxDelay time.Duration) error {
	spread := int((maxDelay - minDelay) / time.Second)
	delay := minDelay + time.Duration(b.random.Intn(spread+1))*time.Second
	return b.clock.Sleep(ctx, delay)
}

// randomSwap exchanges between one and all hand tiles, chosen at random
func (b strategyBase) randomSwap(hand []model.TileInstance) model.BotAction {
	ids := tileIDs(hand)
	random.Shuffle(b.random, len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	count := 1 + b.random.Intn(len(ids))
	return model.SwapAction(ids[:count])
}

// fallback swaps the whole hand when the bag allows it, else passes
func (b strategyBase) fallback(hand []model.TileInstance, bagCount int) model.BotAction {
	if len(hand) == 0 || bagCount < MinBagForSwap {
		return model.SkipAction()
	}
	return model.SwapAction(tileIDs(hand))
}

type scoredMove struct {
	move   model.MoveRequest
	result model.ScanResult
}

// score values every candidate, in enumeration order
func (b strategyBase) score(
	layout *model.BoardLayout,
	placed []model.PlacedTile,
	hand []model.TileInstance,
	provider dictionary.Provider,
	moves []model.MoveRequest,
) []scoredMove {
	defs := model.TileDefinitionsByID(provider.TileDefinitions())
	handByID := make(map[uuid.UUID]model.TileInstance, len(hand))
	for _, t := range hand {
		handByID[t.TileID] = t
	}

	scored := make([]scoredMove, 0, len(moves))
	for _, m := range moves {
		proposed, err := scoring.BuildProposedMoves(layout, defs, m.Placements, handByID)
		if err != nil {
			continue
		}
		scored = append(scored, scoredMove{
			move:   m,
			result: b.scorer.ScanForWords(layout, defs, placed, proposed),
		})
	}
	return scored
}

// best returns the first strictly highest scoring move
func best(scored []scoredMove) (scoredMove, bool) {
	if len(scored) == 0 {
		return scoredMove{}, false
	}
	top := scored[0]
	for _, sm := range scored[1:] {
		if sm.result.Points > top.result.Points {
			top = sm
		}
	}
	return top, true
}

func tileIDs(hand []model.TileInstance) []uuid.UUID {
	ids := make([]uuid.UUID, len(hand))
	for i, t := range hand {
		ids[i] = t.TileID
	}
	return ids
}

// EasyStrategy plays a random short move and ignores scoring
type EasyStrategy struct {
	strategyBase
}

const (
	easyMinDelay      = 5 * time.Second
	easyMaxDelay      = 40 * time.Second
	easySwapChance    = 0.10
	easyMaxPlacements = 6
)

func (s *EasyStrategy) GetNextMove(
	ctx context.Context,
	layout *model.BoardLayout,
	placed []model.PlacedTile,
	hand []model.TileInstance,
	bagCount int,
	provider dictionary.Provider,
) (model.BotAction, error) {
	if err := s.think(ctx, easyMinDelay, easyMaxDelay); err != nil {
		return model.BotAction{}, err
	}

	if len(placed) == 0 {
		return model.SkipAction(), nil
	}

	if len(hand) > 0 && bagCount >= MinBagForSwap && s.random.Float64() < easySwapChance {
		return s.randomSwap(hand), nil
	}

	var short []model.MoveRequest
	for _, m := range s.simulator.SimulateMoves(provider, MaxLetters, layout, placed, hand) {
		if len(m.Placements) <= easyMaxPlacements {
			short = append(short, m)
		}
	}
	if len(short) == 0 {
		return s.fallback(hand, bagCount), nil
	}
	return model.MoveAction(short[s.random.Intn(len(short))]), nil
}

// MediumStrategy samples from the better scoring moves
type MediumStrategy struct {
	strategyBase
}

const (
	mediumMinDelay   = 3 * time.Second
	mediumMaxDelay   = 30 * time.Second
	mediumSwapChance = 0.05
	mediumTopShare   = 0.3
	mediumMinTop     = 5
)

func (s *MediumStrategy) GetNextMove(
	ctx context.Context,
	layout *model.BoardLayout,
	placed []model.PlacedTile,
	hand []model.TileInstance,
	bagCount int,
	provider dictionary.Provider,
) (model.BotAction, error) {
	if err := s.think(ctx, mediumMinDelay, mediumMaxDelay); err != nil {
		return model.BotAction{}, err
	}

	if len(placed) == 0 && len(hand) == 0 {
		return model.SkipAction(), nil
	}

	if len(hand) > 0 && bagCount >= MinBagForSwap && s.random.Float64() < mediumSwapChance {
		return s.randomSwap(hand), nil
	}

	moves := s.simulator.SimulateMoves(provider, MaxLetters, layout, placed, hand)
	scored := s.score(layout, placed, hand, provider, moves)
	if len(scored) == 0 {
		return s.fallback(hand, bagCount), nil
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].result.Points > scored[j].result.Points
	})
	top := max(mediumMinTop, int(float64(len(scored))*mediumTopShare))
	top = min(top, len(scored))

	return model.MoveAction(scored[s.random.Intn(top)].move), nil
}

// HardStrategy always plays the highest scoring move
type HardStrategy struct {
	strategyBase
}

const (
	hardMinDelay = 2 * time.Second
	hardMaxDelay = 15 * time.Second
)

func (s *HardStrategy) GetNextMove(
	ctx context.Context,
	layout *model.BoardLayout,
	placed []model.PlacedTile,
	hand []model.TileInstance,
	bagCount int,
	provider dictionary.Provider,
) (model.BotAction, error) {
	if err := s.think(ctx, hardMinDelay, hardMaxDelay); err != nil {
		return model.BotAction{}, err
	}

	moves := s.simulator.SimulateMoves(provider, MaxLetters, layout, placed, hand)
	top, ok := best(s.score(layout, placed, hand, provider, moves))
	if !ok {
		return s.fallback(hand, bagCount), nil
	}
	return model.MoveAction(top.move), nil
}

var (
	_ Strategy = (*EasyStrategy)(nil)
	_ Strategy = (*MediumStrategy)(nil)
	_ Strategy = (*HardStrategy)(nil)
)
