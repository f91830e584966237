package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/lettergame/internal/dependencies/mocks"
	"github.com/mcoot/lettergame/internal/model"
	"github.com/mcoot/lettergame/internal/services/board"
	"github.com/mcoot/lettergame/internal/services/bot"
	"github.com/mcoot/lettergame/internal/services/dictionary"
	"github.com/mcoot/lettergame/internal/services/scoring"
	"github.com/mcoot/lettergame/internal/storage/memory"
	"github.com/mcoot/lettergame/internal/testutil"
)

type recordingObserver struct {
	mu           sync.Mutex
	stateChanges int
	finished     []model.GameFinishedDetails
}

func (o *recordingObserver) StateChanged() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stateChanges++
}

func (o *recordingObserver) GameFinished(details model.GameFinishedDetails) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.finished = append(o.finished, details)
}

func (o *recordingObserver) counts() (int, int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stateChanges, len(o.finished)
}

// stubStrategy returns whatever next decides and records what it was shown
type stubStrategy struct {
	mu       sync.Mutex
	calls    int
	lastHand []model.TileInstance
	lastBag  int
	next     func() (model.BotAction, error)
}

func (s *stubStrategy) GetNextMove(
	_ context.Context,
	_ *model.BoardLayout,
	_ []model.PlacedTile,
	hand []model.TileInstance,
	bagCount int,
	_ dictionary.Provider,
) (model.BotAction, error) {
	s.mu.Lock()
	s.calls++
	s.lastHand = hand
	s.lastBag = bagCount
	next := s.next
	s.mu.Unlock()
	return next()
}

type EngineSuite struct {
	suite.Suite
	clock    *mocks.MockClock
	random   *mocks.MockRandom
	factory  *Factory
	provider dictionary.Provider
	byText   map[string]model.TileDefinition
	observer *recordingObserver
	strategy *stubStrategy
	settings model.LobbySettings

	alice, bob, robot model.LobbyPlayer
	engine            *Engine
	ctx               context.Context
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	logger := testutil.NopLogger()
	s.ctx = context.Background()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()

	dict := dictionary.New(memory.New(), logger)
	s.Require().NoError(dict.LoadWords(model.LanguageEnglish, []string{"cat", "cats", "at", "ta", "act"}))
	provider, err := dict.CreateProvider(model.LanguageEnglish)
	s.Require().NoError(err)
	s.provider = provider
	s.byText = make(map[string]model.TileDefinition)
	for _, d := range provider.TileDefinitions() {
		s.byText[d.Text] = d
	}

	scorer := scoring.New()
	s.strategy = &stubStrategy{next: func() (model.BotAction, error) { return model.SkipAction(), nil }}
	bots := bot.NewServiceWithStrategies(bot.NewSimulator(), scorer,
		bot.Strategies{model.BotEasy: s.strategy}, s.random, logger)

	s.factory = NewFactory(board.New(logger), dict, scorer, bots, s.clock, s.random, logger)
	s.observer = &recordingObserver{}
	s.settings = model.LobbySettings{
		TimeBankMinutes: 10,
		Language:        model.LanguageEnglish,
		TilesCount:      100,
		BoardType:       model.BoardClassic,
	}

	s.alice = model.LobbyPlayer{PlayerID: uuid.New(), PlayerName: "alice"}
	s.bob = model.LobbyPlayer{PlayerID: uuid.New(), PlayerName: "bob"}
	s.robot = model.LobbyPlayer{PlayerID: uuid.New(), PlayerName: "Bot Arthur", IsBot: true, BotDifficulty: model.BotEasy}
}

func (s *EngineSuite) TearDownTest() {
	if s.engine != nil {
		s.engine.Wait()
	}
}

// create builds an engine whose turn order matches players
func (s *EngineSuite) create(players ...model.LobbyPlayer) *Engine {
	// Fisher-Yates picks that leave the order unchanged
	for i := len(players) - 1; i > 0; i-- {
		s.random.QueueIntn(i)
	}
	e, err := s.factory.CreateEngine(s.ctx, s.settings, players, s.observer)
	s.Require().NoError(err)
	s.engine = e
	return e
}

func (s *EngineSuite) tile(text string) model.TileInstance {
	def, ok := s.byText[text]
	s.Require().True(ok, text)
	return model.TileInstance{TileID: uuid.New(), ValueID: def.ValueID}
}

func (s *EngineSuite) setHand(p model.LobbyPlayer, texts ...string) []model.TileInstance {
	tiles := make([]model.TileInstance, len(texts))
	for i, t := range texts {
		tiles[i] = s.tile(t)
	}
	s.engine.hand(p.PlayerID).tiles = tiles
	return tiles
}

func (s *EngineSuite) at(t model.TileInstance, x, y int) model.TilePlacement {
	c, ok := s.engine.layout.CellAt(x, y)
	s.Require().True(ok)
	return model.TilePlacement{TileID: t.TileID, CellID: c.ID}
}

func (s *EngineSuite) move(p model.LobbyPlayer, placements ...model.TilePlacement) model.MoveResult {
	result, err := s.engine.HandleMove(p.PlayerID, model.MoveRequest{Placements: placements})
	s.Require().NoError(err)
	return result
}

// playCat has alice lay CAT from the center cell rightwards
func (s *EngineSuite) playCat() {
	tiles := s.setHand(s.alice, "C", "A", "T", "E", "E", "E", "E")
	result := s.move(s.alice, s.at(tiles[0], 7, 7), s.at(tiles[1], 8, 7), s.at(tiles[2], 9, 7))
	s.Require().True(result.Success, result.Message)
}

func (s *EngineSuite) current() uuid.UUID {
	return s.engine.GetGameDetails(uuid.Nil).CurrentTurnPlayerID
}

// snapshot captures everything a rejected action must leave alone
func (s *EngineSuite) snapshot() (model.GameDetails, int, int) {
	details := s.engine.GetGameDetails(s.alice.PlayerID)
	return details, len(s.engine.bag), len(s.engine.history)
}

// Construction

func (s *EngineSuite) TestCreateDealsFullHands() {
	e := s.create(s.alice, s.bob)

	details := e.GetGameDetails(s.alice.PlayerID)
	s.Equal(s.alice.PlayerID, details.CurrentTurnPlayerID)
	s.Len(details.MyHand, model.HandSize)
	s.Equal(100-2*model.HandSize, details.TilesRemainingInBag)
	s.Require().Len(details.Scores, 2)
	for _, sc := range details.Scores {
		s.Equal(model.HandSize, sc.TilesInHand)
		s.Equal(10*time.Minute, sc.TimeRemaining)
		s.Zero(sc.TotalPoints)
	}
	s.Equal(15, details.Layout.Width)
	s.Empty(details.PlacedTiles)
}

func (s *EngineSuite) TestCreateRequiresTwoPlayers() {
	_, err := s.factory.CreateEngine(s.ctx, s.settings, []model.LobbyPlayer{s.alice}, s.observer)
	s.ErrorIs(err, model.ErrNotEnoughPlayers)
}

func (s *EngineSuite) TestCreateUnsupportedLanguage() {
	s.settings.Language = "klingon"
	_, err := s.factory.CreateEngine(s.ctx, s.settings, []model.LobbyPlayer{s.alice, s.bob}, s.observer)
	s.ErrorIs(err, model.ErrUnsupportedLanguage)
}

func (s *EngineSuite) TestBotsPlayAfterHumans() {
	e := s.create(s.robot, s.alice, s.bob)

	players := e.Players()
	s.Require().Len(players, 3)
	s.False(players[0].IsBot)
	s.False(players[1].IsBot)
	s.True(players[2].IsBot)
}

func (s *EngineSuite) TestStartNotifies() {
	e := s.create(s.alice, s.bob)
	e.Start()

	changes, finished := s.observer.counts()
	s.Equal(1, changes)
	s.Zero(finished)
}

func (s *EngineSuite) TestFillBagRoundsWeights() {
	bag := fillBag(s.provider.TileDefinitions(), 50)

	counts := make(map[uuid.UUID]int)
	for _, t := range bag {
		counts[t.ValueID]++
	}
	s.Equal(5, counts[s.byText["A"].ValueID]) // 4.5
	s.Equal(6, counts[s.byText["E"].ValueID]) // 6
	s.Equal(1, counts[s.byText["Z"].ValueID]) // 0.5
	s.Equal(1, counts[s.byText[model.BlankText].ValueID])
}

// Moves

func (s *EngineSuite) TestCatThroughCenter() {
	s.create(s.alice, s.bob)

	s.playCat()

	details := s.engine.GetGameDetails(s.alice.PlayerID)
	s.Equal(s.bob.PlayerID, details.CurrentTurnPlayerID)
	s.Len(details.PlacedTiles, 3)
	s.Len(details.MyHand, model.HandSize)
	s.Equal(100-2*model.HandSize-3, details.TilesRemainingInBag)
	s.Equal(10, details.Scores[0].TotalPoints)

	s.Require().Len(s.engine.history, 1)
	entry := s.engine.history[0]
	s.Equal([]string{"CAT"}, entry.Words)
	s.Equal(10, entry.GainedPoints)
	s.Equal(10, entry.TotalPoints)
	s.Equal(s.clock.Now(), entry.MoveTime)

	changes, _ := s.observer.counts()
	s.Equal(1, changes)
}

func (s *EngineSuite) TestHistoryRecordsBestMove() {
	s.create(s.alice, s.bob)
	tiles := s.setHand(s.alice, "C", "A", "T", "S", "E", "E", "E")

	result := s.move(s.alice, s.at(tiles[0], 7, 7), s.at(tiles[1], 8, 7), s.at(tiles[2], 9, 7))
	s.Require().True(result.Success)
	s.engine.Wait()

	best := s.engine.history[0].BestMove
	s.Require().NotNil(best)
	s.Equal([]string{"CATS"}, best.Words)
	s.Equal(12, best.Points)
}

// slowAnalysis holds every best-move search until released
type slowAnalysis struct {
	bot.ServiceInterface
	started chan struct{}
	release chan struct{}
}

func (a *slowAnalysis) BestMove(
	provider dictionary.Provider,
	layout *model.BoardLayout,
	placed []model.PlacedTile,
	hand []model.TileInstance,
) *model.BestMove {
	a.started <- struct{}{}
	<-a.release
	return a.ServiceInterface.BestMove(provider, layout, placed, hand)
}

func (s *EngineSuite) TestBestMoveSearchDoesNotBlockPlay() {
	analysis := &slowAnalysis{
		ServiceInterface: s.factory.bots,
		started:          make(chan struct{}, 1),
		release:          make(chan struct{}),
	}
	slow := *s.factory
	slow.bots = analysis
	s.factory = &slow

	e := s.create(s.alice, s.bob)
	tiles := s.setHand(s.alice, "C", "A", "T", "S", "E", "E", "E")

	result := s.move(s.alice, s.at(tiles[0], 7, 7), s.at(tiles[1], 8, 7), s.at(tiles[2], 9, 7))
	s.Require().True(result.Success)
	<-analysis.started

	// the match carries on while the search is outstanding
	details := e.GetGameDetails(s.bob.PlayerID)
	s.Equal(s.bob.PlayerID, details.CurrentTurnPlayerID)
	s.Len(details.PlacedTiles, 3)
	s.Equal(10*time.Minute, details.Scores[0].TimeRemaining)
	s.Require().NoError(e.HandleSkipTurn(s.bob.PlayerID))

	close(analysis.release)
	e.Wait()

	s.Require().NotNil(e.history[0].BestMove)
	s.Equal([]string{"CATS"}, e.history[0].BestMove.Words)
}

func (s *EngineSuite) TestFinishWaitsForBestMove() {
	e := s.create(s.alice, s.bob)
	e.bag = nil
	tiles := s.setHand(s.alice, "C", "A", "T")

	result := s.move(s.alice, s.at(tiles[0], 7, 7), s.at(tiles[1], 8, 7), s.at(tiles[2], 9, 7))
	s.Require().True(result.Success)

	_, finished := s.observer.counts()
	s.Require().Equal(1, finished)
	history := s.observer.finished[0].MoveHistory
	s.Require().Len(history, 1)
	s.Require().NotNil(history[0].BestMove)
	s.Equal(10, history[0].BestMove.Points)
}

func (s *EngineSuite) TestWrongTurnIsRejected() {
	s.create(s.alice, s.bob)
	tiles := s.setHand(s.bob, "C", "A", "T")
	before, bag, history := s.snapshot()

	result := s.move(s.bob, s.at(tiles[0], 7, 7), s.at(tiles[1], 8, 7), s.at(tiles[2], 9, 7))

	s.False(result.Success)
	s.Equal(model.MoveErrWrongTurn, result.Error)
	s.Equal("Not your turn!", result.Message)
	after, bagAfter, historyAfter := s.snapshot()
	s.Equal(before, after)
	s.Equal(bag, bagAfter)
	s.Equal(history, historyAfter)
}

func (s *EngineSuite) TestTileNotInHand() {
	s.create(s.alice, s.bob)
	s.setHand(s.alice, "C", "A", "T")

	result := s.move(s.alice, s.at(s.tile("C"), 7, 7))

	s.Equal(model.MoveErrTileNotInHand, result.Error)
	s.Equal("Tile not in hand!", result.Message)
}

func (s *EngineSuite) TestSameTileTwiceIsNotInHand() {
	s.create(s.alice, s.bob)
	tiles := s.setHand(s.alice, "C", "A", "T")

	result := s.move(s.alice, s.at(tiles[0], 7, 7), s.at(tiles[0], 8, 7))

	s.Equal(model.MoveErrTileNotInHand, result.Error)
}

func (s *EngineSuite) TestEmptyMove() {
	s.create(s.alice, s.bob)

	_, err := s.engine.HandleMove(s.alice.PlayerID, model.MoveRequest{})
	s.ErrorIs(err, model.ErrInvalidArgument)
}

func (s *EngineSuite) TestFirstMoveMustCoverCenter() {
	s.create(s.alice, s.bob)
	tiles := s.setHand(s.alice, "C", "A", "T")
	before, bag, _ := s.snapshot()

	result := s.move(s.alice, s.at(tiles[0], 2, 2), s.at(tiles[1], 3, 2), s.at(tiles[2], 4, 2))

	s.Equal(model.MoveErrTilesNotConnected, result.Error)
	s.Equal("Tiles are not connected!", result.Message)
	after, bagAfter, _ := s.snapshot()
	s.Equal(before, after)
	s.Equal(bag, bagAfter)
}

func (s *EngineSuite) TestLaterMoveMustTouchBoard() {
	s.create(s.alice, s.bob)
	s.playCat()
	tiles := s.setHand(s.bob, "A", "T")

	result := s.move(s.bob, s.at(tiles[0], 0, 0), s.at(tiles[1], 1, 0))

	s.Equal(model.MoveErrTilesNotConnected, result.Error)
}

func (s *EngineSuite) TestTilesMustShareALine() {
	s.create(s.alice, s.bob)
	tiles := s.setHand(s.alice, "C", "A")

	result := s.move(s.alice, s.at(tiles[0], 7, 7), s.at(tiles[1], 8, 8))

	s.Equal(model.MoveErrTilesNotInline, result.Error)
	s.Equal("Tiles are not in a line!", result.Message)
}

func (s *EngineSuite) TestTilesMustNotLeaveGaps() {
	s.create(s.alice, s.bob)
	tiles := s.setHand(s.alice, "C", "T")

	result := s.move(s.alice, s.at(tiles[0], 7, 7), s.at(tiles[1], 9, 7))

	s.Equal(model.MoveErrTilesNotInline, result.Error)
}

func (s *EngineSuite) TestExistingTilesCloseTheLine() {
	s.create(s.alice, s.bob)
	s.playCat()

	tiles := s.setHand(s.bob, "S", "A")
	result := s.move(s.bob, s.at(tiles[0], 10, 7), s.at(tiles[1], 8, 8))
	s.Equal(model.MoveErrTilesNotInline, result.Error)

	// the existing A at (8,7) fills the gap, so the move reaches word checking
	tiles = s.setHand(s.bob, "A", "S")
	result = s.move(s.bob, s.at(tiles[0], 8, 6), s.at(tiles[1], 8, 8))
	s.Equal(model.MoveErrInvalidWord, result.Error)
	s.Equal("Word 'AAS' is not valid!", result.Message)
}

func (s *EngineSuite) TestCellOccupied() {
	s.create(s.alice, s.bob)
	s.playCat()
	tiles := s.setHand(s.bob, "S")

	result := s.move(s.bob, s.at(tiles[0], 7, 7))

	s.Equal(model.MoveErrCellOccupied, result.Error)
	s.Equal("Cell is already occupied!", result.Message)
}

func (s *EngineSuite) TestInvalidWordIsAtomic() {
	s.create(s.alice, s.bob)
	tiles := s.setHand(s.alice, "T", "A", "C")
	before, bag, history := s.snapshot()

	result := s.move(s.alice, s.at(tiles[0], 7, 7), s.at(tiles[1], 8, 7), s.at(tiles[2], 9, 7))

	s.Equal(model.MoveErrInvalidWord, result.Error)
	s.Equal("Word 'TAC' is not valid!", result.Message)
	after, bagAfter, historyAfter := s.snapshot()
	s.Equal(before, after)
	s.Equal(bag, bagAfter)
	s.Equal(history, historyAfter)
}

func (s *EngineSuite) TestSingleTileFormsNoWord() {
	s.create(s.alice, s.bob)
	tiles := s.setHand(s.alice, "A")

	result := s.move(s.alice, s.at(tiles[0], 7, 7))

	s.Equal(model.MoveErrInvalidWord, result.Error)
	s.Equal("Move must create at least one word!", result.Message)
}

func (s *EngineSuite) TestPerpendicularWordExtendsScore() {
	s.create(s.alice, s.bob)
	s.playCat()
	tiles := s.setHand(s.bob, "S")

	result := s.move(s.bob, s.at(tiles[0], 10, 7))

	s.Require().True(result.Success)
	s.Equal([]string{"CATS"}, s.engine.history[1].Words)
	s.Equal(6, s.engine.hand(s.bob.PlayerID).points)
}

// Blanks

func (s *EngineSuite) TestBlankWithoutSelection() {
	s.create(s.alice, s.bob)
	tiles := s.setHand(s.alice, model.BlankText, "A", "T")

	_, err := s.engine.HandleMove(s.alice.PlayerID, model.MoveRequest{Placements: []model.TilePlacement{
		s.at(tiles[0], 7, 7), s.at(tiles[1], 8, 7), s.at(tiles[2], 9, 7),
	}})

	s.ErrorIs(err, model.ErrMissingSelection)
	s.ErrorIs(err, model.ErrInvalidArgument)
	s.Empty(s.engine.placed)
}

func (s *EngineSuite) TestBlankWithSelectionScoresZero() {
	s.create(s.alice, s.bob)
	tiles := s.setHand(s.alice, model.BlankText, "A", "T")
	blank := s.at(tiles[0], 7, 7)
	c := s.byText["C"].ValueID
	blank.SelectedValueID = &c

	result := s.move(s.alice, blank, s.at(tiles[1], 8, 7), s.at(tiles[2], 9, 7))

	s.Require().True(result.Success, result.Message)
	s.Equal([]string{"CAT"}, s.engine.history[0].Words)
	s.Equal(4, s.engine.history[0].GainedPoints)
	s.Require().NotNil(s.engine.placed[0].SelectedValueID)
	s.Equal(c, *s.engine.placed[0].SelectedValueID)
	s.Equal(s.byText[model.BlankText].ValueID, s.engine.placed[0].ValueID)
}

func (s *EngineSuite) TestSelectionOnLetterTile() {
	s.create(s.alice, s.bob)
	tiles := s.setHand(s.alice, "C", "A", "T")
	first := s.at(tiles[0], 7, 7)
	c := s.byText["C"].ValueID
	first.SelectedValueID = &c

	_, err := s.engine.HandleMove(s.alice.PlayerID, model.MoveRequest{Placements: []model.TilePlacement{
		first, s.at(tiles[1], 8, 7), s.at(tiles[2], 9, 7),
	}})
	s.ErrorIs(err, model.ErrUnexpectedSelection)
}

func (s *EngineSuite) TestBlankSelectingBlank() {
	s.create(s.alice, s.bob)
	tiles := s.setHand(s.alice, model.BlankText, "A")
	first := s.at(tiles[0], 7, 7)
	blankID := s.byText[model.BlankText].ValueID
	first.SelectedValueID = &blankID

	_, err := s.engine.HandleMove(s.alice.PlayerID, model.MoveRequest{Placements: []model.TilePlacement{
		first, s.at(tiles[1], 8, 7),
	}})
	s.ErrorIs(err, model.ErrInvalidSelection)
}

// Swap and skip

func (s *EngineSuite) TestSwapKeepsBagSize() {
	e := s.create(s.alice, s.bob)
	hand := append([]model.TileInstance(nil), e.hand(s.alice.PlayerID).tiles...)
	bagBefore := len(e.bag)

	s.Require().NoError(e.HandleSwapTiles(s.alice.PlayerID, []uuid.UUID{hand[0].TileID, hand[1].TileID}))

	s.Equal(bagBefore, len(e.bag))
	after := e.hand(s.alice.PlayerID)
	s.Len(after.tiles, model.HandSize)
	s.Equal(-1, after.tileIndex(hand[0].TileID))
	s.Equal(-1, after.tileIndex(hand[1].TileID))
	s.NotEqual(-1, after.tileIndex(hand[2].TileID))
	s.Equal(s.bob.PlayerID, s.current())
}

func (s *EngineSuite) TestSwapWithSmallBag() {
	e := s.create(s.alice, s.bob)
	e.bag = e.bag[:5]
	hand := append([]model.TileInstance(nil), e.hand(s.alice.PlayerID).tiles...)

	err := e.HandleSwapTiles(s.alice.PlayerID, []uuid.UUID{hand[0].TileID, hand[1].TileID})

	s.ErrorIs(err, model.ErrSwapBagTooSmall)
	s.ErrorIs(err, model.ErrInvalidState)
	s.Len(e.bag, 5)
	s.Equal(hand, e.hand(s.alice.PlayerID).tiles)
	s.Equal(s.alice.PlayerID, s.current())
}

func (s *EngineSuite) TestSwapErrors() {
	e := s.create(s.alice, s.bob)
	aliceTile := e.hand(s.alice.PlayerID).tiles[0].TileID

	s.ErrorIs(e.HandleSwapTiles(s.bob.PlayerID, []uuid.UUID{aliceTile}), model.ErrNotYourTurn)
	s.ErrorIs(e.HandleSwapTiles(s.alice.PlayerID, nil), model.ErrNoTilesToSwap)
	s.ErrorIs(e.HandleSwapTiles(s.alice.PlayerID, []uuid.UUID{uuid.New()}), model.ErrTileNotInHand)
	s.ErrorIs(e.HandleSwapTiles(s.alice.PlayerID, []uuid.UUID{aliceTile, aliceTile}), model.ErrTileNotInHand)
	s.Equal(s.alice.PlayerID, s.current())
}

func (s *EngineSuite) TestSkipRotatesTurn() {
	e := s.create(s.alice, s.bob)

	s.ErrorIs(e.HandleSkipTurn(s.bob.PlayerID), model.ErrNotYourTurn)
	s.Require().NoError(e.HandleSkipTurn(s.alice.PlayerID))
	s.Equal(s.bob.PlayerID, s.current())
	s.Require().NoError(e.HandleSkipTurn(s.bob.PlayerID))
	s.Equal(s.alice.PlayerID, s.current())
}

// Time accounting

func (s *EngineSuite) TestTurnTimeIsCharged() {
	e := s.create(s.alice, s.bob)
	s.clock.Advance(2 * time.Minute)

	s.Require().NoError(e.HandleSkipTurn(s.alice.PlayerID))

	s.Equal(8*time.Minute, e.hand(s.alice.PlayerID).remaining)
	s.Equal(10*time.Minute, e.hand(s.bob.PlayerID).remaining)
	s.Equal(s.clock.Now(), e.GetGameDetails(uuid.Nil).CurrentTurnStarted)
}

func (s *EngineSuite) TestLowTimeBonusOnMove() {
	e := s.create(s.alice, s.bob)
	e.hand(s.alice.PlayerID).remaining = 70 * time.Second
	s.clock.Advance(20 * time.Second)

	s.playCat()

	s.Equal(65*time.Second, e.hand(s.alice.PlayerID).remaining)
}

func (s *EngineSuite) TestNoLowTimeBonusOnSkip() {
	e := s.create(s.alice, s.bob)
	e.hand(s.alice.PlayerID).remaining = 70 * time.Second
	s.clock.Advance(20 * time.Second)

	s.Require().NoError(e.HandleSkipTurn(s.alice.PlayerID))

	s.Equal(50*time.Second, e.hand(s.alice.PlayerID).remaining)
}

func (s *EngineSuite) TestCheckGameRulesDepletesTimeBank() {
	e := s.create(s.alice, s.bob)
	s.clock.Advance(10 * time.Minute)

	e.CheckGameRules()

	alice := e.hand(s.alice.PlayerID)
	s.True(alice.timeDepleted)
	s.Zero(alice.remaining)
	s.Equal(s.bob.PlayerID, s.current())
	s.False(e.IsFinished())

	// idempotent within the same instant
	e.CheckGameRules()
	s.Equal(s.bob.PlayerID, s.current())
}

func (s *EngineSuite) TestRotationSkipsDepletedPlayers() {
	carol := model.LobbyPlayer{PlayerID: uuid.New(), PlayerName: "carol"}
	e := s.create(s.alice, s.bob, carol)
	e.hand(s.bob.PlayerID).timeDepleted = true

	s.Require().NoError(e.HandleSkipTurn(s.alice.PlayerID))

	s.Equal(carol.PlayerID, s.current())
}

func (s *EngineSuite) TestAllDepletedFinishes() {
	e := s.create(s.alice, s.bob)
	e.hand(s.bob.PlayerID).timeDepleted = true
	s.clock.Advance(11 * time.Minute)

	e.CheckGameRules()

	s.True(e.IsFinished())
	_, finished := s.observer.counts()
	s.Equal(1, finished)

	e.CheckGameRules()
	_, finished = s.observer.counts()
	s.Equal(1, finished)
}

func (s *EngineSuite) TestOfflineDepletedHumansFinish() {
	e := s.create(s.alice, s.robot)
	s.Require().NoError(e.SetPlayerOnline(s.alice.PlayerID, false))
	e.hand(s.alice.PlayerID).timeDepleted = true

	e.CheckGameRules()

	s.True(e.IsFinished())
}

func (s *EngineSuite) TestOfflineHumanWithTimeContinues() {
	e := s.create(s.alice, s.bob)
	s.Require().NoError(e.SetPlayerOnline(s.alice.PlayerID, false))

	e.CheckGameRules()

	s.False(e.IsFinished())
}

func (s *EngineSuite) TestSetPlayerOnlineUnknown() {
	e := s.create(s.alice, s.bob)
	err := e.SetPlayerOnline(uuid.New(), true)
	s.ErrorIs(err, model.ErrUnknownGamePlayer)
	s.ErrorIs(err, model.ErrInvalidState)
}

// Ending the match

func (s *EngineSuite) TestScorelessTurnsIgnoredWhileBagIsFull() {
	e := s.create(s.alice, s.bob)

	for i := 0; i < 6; i++ {
		s.Require().NoError(e.HandleSkipTurn(s.current()))
	}

	s.False(e.IsFinished())
	s.Zero(e.scoreless)
}

func (s *EngineSuite) TestScorelessTurnsEndMatch() {
	e := s.create(s.alice, s.bob)
	e.bag = e.bag[:30]

	for i := 0; i < 3; i++ {
		s.Require().NoError(e.HandleSkipTurn(s.current()))
	}
	s.False(e.IsFinished())

	s.Require().NoError(e.HandleSkipTurn(s.current()))
	s.True(e.IsFinished())

	_, finished := s.observer.counts()
	s.Equal(1, finished)
}

func (s *EngineSuite) TestScoringMoveResetsScorelessCount() {
	e := s.create(s.alice, s.bob)
	e.bag = e.bag[:30]
	s.Require().NoError(e.HandleSkipTurn(s.alice.PlayerID))
	s.Require().NoError(e.HandleSkipTurn(s.bob.PlayerID))
	s.Equal(2, e.scoreless)

	s.playCat()

	s.Zero(e.scoreless)
}

func (s *EngineSuite) TestEmptyBagAndHandFinishes() {
	e := s.create(s.alice, s.bob)
	e.bag = nil
	tiles := s.setHand(s.alice, "C", "A", "T")
	s.clock.Advance(5 * time.Minute)

	result := s.move(s.alice, s.at(tiles[0], 7, 7), s.at(tiles[1], 8, 7), s.at(tiles[2], 9, 7))

	s.Require().True(result.Success)
	s.True(e.IsFinished())
	_, finished := s.observer.counts()
	s.Require().Equal(1, finished)

	details := s.observer.finished[0]
	s.Equal(5*time.Minute, details.GameDuration)
	s.Equal(s.clock.Now(), details.FinishedAt)
	s.Len(details.MoveHistory, 1)
	s.Require().NotNil(details.Winner())
	s.Equal(s.alice.PlayerID, details.Winner().PlayerID)
	s.Equal(10, details.Winner().Points)
}

func (s *EngineSuite) TestActionsAfterFinishAreRejected() {
	e := s.create(s.alice, s.bob)
	e.hand(s.bob.PlayerID).timeDepleted = true
	s.clock.Advance(11 * time.Minute)
	e.CheckGameRules()
	s.Require().True(e.IsFinished())

	_, err := e.HandleMove(s.alice.PlayerID, model.MoveRequest{})
	s.ErrorIs(err, model.ErrGameFinished)
	s.ErrorIs(e.HandleSkipTurn(s.alice.PlayerID), model.ErrGameFinished)
	s.ErrorIs(e.HandleSwapTiles(s.alice.PlayerID, []uuid.UUID{uuid.New()}), model.ErrGameFinished)
}

// Views

func (s *EngineSuite) TestGameDetailsShowOnlyOwnHand() {
	e := s.create(s.alice, s.bob)

	s.Equal(e.hand(s.alice.PlayerID).tiles, e.GetGameDetails(s.alice.PlayerID).MyHand)
	s.Equal(e.hand(s.bob.PlayerID).tiles, e.GetGameDetails(s.bob.PlayerID).MyHand)
	s.Nil(e.GetGameDetails(uuid.New()).MyHand)
}

func (s *EngineSuite) TestGameDetailsCountDownCurrentPlayer() {
	e := s.create(s.alice, s.bob)
	s.clock.Advance(90 * time.Second)

	details := e.GetGameDetails(s.alice.PlayerID)

	s.Equal(10*time.Minute-90*time.Second, details.Scores[0].TimeRemaining)
	s.Equal(10*time.Minute, details.Scores[1].TimeRemaining)
}

// Bots

func (s *EngineSuite) TestBotTakesItsTurn() {
	e := s.create(s.alice, s.robot)

	s.playCat()
	e.Wait()

	s.Equal(s.alice.PlayerID, s.current())
	s.strategy.mu.Lock()
	s.Equal(1, s.strategy.calls)
	s.Len(s.strategy.lastHand, model.HandSize)
	s.Equal(100-2*model.HandSize-3, s.strategy.lastBag)
	s.strategy.mu.Unlock()
	s.False(e.botPlaying)
}

func (s *EngineSuite) TestBotMoveIsApplied() {
	e := s.create(s.alice, s.robot)
	s.playCat()
	e.Wait()
	botTiles := s.setHand(s.robot, "S")
	cell, _ := e.layout.CellAt(10, 7)
	s.strategy.next = func() (model.BotAction, error) {
		return model.MoveAction(model.MoveRequest{Placements: []model.TilePlacement{
			{TileID: botTiles[0].TileID, CellID: cell.ID},
		}}), nil
	}

	// alice skips so the bot plays with the scripted hand
	s.Require().NoError(e.HandleSkipTurn(s.alice.PlayerID))
	e.Wait()

	s.Equal(s.alice.PlayerID, s.current())
	s.Len(e.history, 2)
	s.Equal([]string{"CATS"}, e.history[1].Words)
}

func (s *EngineSuite) TestBotPanicForcesTurn() {
	e := s.create(s.alice, s.robot)
	s.strategy.next = func() (model.BotAction, error) {
		panic("boom")
	}

	s.playCat()
	e.Wait()

	s.Equal(s.alice.PlayerID, s.current())
	s.False(e.botPlaying)
	s.Len(e.history, 1)
}

func (s *EngineSuite) TestBotErrorForcesTurn() {
	e := s.create(s.alice, s.robot)
	s.strategy.next = func() (model.BotAction, error) {
		return model.BotAction{}, errors.New("no idea")
	}
	s.playCat()
	e.Wait()

	s.Equal(s.alice.PlayerID, s.current())
}

func (s *EngineSuite) TestRejectedBotMoveForcesTurn() {
	e := s.create(s.alice, s.robot)
	s.strategy.next = func() (model.BotAction, error) {
		return model.MoveAction(model.MoveRequest{Placements: []model.TilePlacement{
			{TileID: uuid.New(), CellID: e.layout.Cells[0].ID},
		}}), nil
	}

	s.playCat()
	e.Wait()

	s.Equal(s.alice.PlayerID, s.current())
	s.Len(e.history, 1)
	s.Len(e.placed, 3)
}

func (s *EngineSuite) TestStaleBotResultIsDiscarded() {
	e := s.create(s.alice, s.robot)
	release := make(chan struct{})
	s.strategy.next = func() (model.BotAction, error) {
		<-release
		return model.SkipAction(), nil
	}

	s.playCat()
	s.clock.Advance(11 * time.Minute)
	e.CheckGameRules()
	s.Equal(s.alice.PlayerID, s.current())
	startedBefore := e.GetGameDetails(uuid.Nil).CurrentTurnStarted

	close(release)
	e.Wait()

	s.Equal(s.alice.PlayerID, s.current())
	s.Equal(startedBefore, e.GetGameDetails(uuid.Nil).CurrentTurnStarted)
	s.True(e.hand(s.robot.PlayerID).timeDepleted)
}

func (s *EngineSuite) TestBotWithoutStrategyIsSkipped() {
	broken := model.LobbyPlayer{PlayerID: uuid.New(), PlayerName: "Bot X", IsBot: true, BotDifficulty: model.BotHard}
	e := s.create(s.alice, broken)

	s.playCat()

	s.Equal(s.alice.PlayerID, s.current())
	s.False(e.botPlaying)
}

func (s *EngineSuite) TestNextBotPlaysAfterBotWithoutStrategy() {
	broken := model.LobbyPlayer{PlayerID: uuid.New(), PlayerName: "Bot X", IsBot: true, BotDifficulty: model.BotHard}
	e := s.create(s.alice, broken, s.robot)

	s.playCat()
	e.Wait()

	s.Equal(s.alice.PlayerID, s.current())
	s.strategy.mu.Lock()
	s.Equal(1, s.strategy.calls)
	s.strategy.mu.Unlock()
	s.False(e.botPlaying)
}

func (s *EngineSuite) TestBotsOnlyMatchIsNotAbandoned() {
	first := model.LobbyPlayer{PlayerID: uuid.New(), PlayerName: "Bot X", IsBot: true, BotDifficulty: model.BotHard}
	second := model.LobbyPlayer{PlayerID: uuid.New(), PlayerName: "Bot Y", IsBot: true, BotDifficulty: model.BotHard}
	e := s.create(first, second)

	e.CheckGameRules()

	s.False(e.IsFinished())
	s.Equal(first.PlayerID, s.current())
	_, finished := s.observer.counts()
	s.Zero(finished)
}
