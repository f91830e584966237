package bot_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/lettergame/internal/model"
	"github.com/mcoot/lettergame/internal/services/board"
	"github.com/mcoot/lettergame/internal/services/bot"
	"github.com/mcoot/lettergame/internal/services/dictionary"
	"github.com/mcoot/lettergame/internal/storage/memory"
	"github.com/mcoot/lettergame/internal/testutil"
)

// fixture is shared by the simulator, strategy and service suites
type fixture struct {
	suite.Suite
	dict     *dictionary.Service
	provider dictionary.Provider
	layout   *model.BoardLayout
	byText   map[string]model.TileDefinition
	placed   []model.PlacedTile
}

func (f *fixture) setupFixture(words ...string) {
	f.dict = dictionary.New(memory.New(), testutil.NopLogger())
	f.Require().NoError(f.dict.LoadWords(model.LanguageEnglish, words))

	provider, err := f.dict.CreateProvider(model.LanguageEnglish)
	f.Require().NoError(err)
	f.provider = provider

	f.byText = make(map[string]model.TileDefinition)
	for _, d := range provider.TileDefinitions() {
		f.byText[d.Text] = d
	}

	layout, err := board.New(testutil.NopLogger()).GenerateBoard(model.BoardClassic)
	f.Require().NoError(err)
	f.layout = layout
	f.placed = nil
}

func (f *fixture) tile(text string) model.TileInstance {
	return model.TileInstance{TileID: uuid.New(), ValueID: f.byText[text].ValueID}
}

func (f *fixture) cellID(x, y int) uuid.UUID {
	c, ok := f.layout.CellAt(x, y)
	f.Require().True(ok)
	return c.ID
}

func (f *fixture) place(x, y int, text string) {
	f.placed = append(f.placed, model.PlacedTile{
		CellID:  f.cellID(x, y),
		TileID:  uuid.New(),
		ValueID: f.byText[text].ValueID,
	})
}

// placeCat lays CAT across the centre row, x 6..8
func (f *fixture) placeCat() {
	f.place(6, 7, "C")
	f.place(7, 7, "A")
	f.place(8, 7, "T")
}

type SimulatorSuite struct {
	fixture
	simulator *bot.Simulator
}

func TestSimulatorSuite(t *testing.T) {
	suite.Run(t, new(SimulatorSuite))
}

func (s *SimulatorSuite) SetupTest() {
	s.setupFixture("cat", "cats")
	s.simulator = bot.NewSimulator()
}

func (s *SimulatorSuite) simulate(rack ...model.TileInstance) []model.MoveRequest {
	return s.simulator.SimulateMoves(s.provider, bot.MaxLetters, s.layout, s.placed, rack)
}

func (s *SimulatorSuite) TestEmptyRackHasNoMoves() {
	s.placeCat()
	s.Empty(s.simulate())
}

func (s *SimulatorSuite) TestFirstMoveMustCoverCenter() {
	moves := s.simulate(s.tile("C"), s.tile("A"), s.tile("T"))

	// three horizontal and three vertical offsets cover (7,7)
	s.Len(moves, 6)
	center := s.cellID(7, 7)
	for _, m := range moves {
		s.Len(m.Placements, 3)
		covers := false
		for _, p := range m.Placements {
			if p.CellID == center {
				covers = true
			}
		}
		s.True(covers)
	}
}

func (s *SimulatorSuite) TestMovesAreDistinct() {
	moves := s.simulate(s.tile("C"), s.tile("A"), s.tile("T"))

	seen := make(map[string]bool)
	for _, m := range moves {
		key := ""
		for _, p := range m.Placements {
			key += p.CellID.String() + p.TileID.String()
		}
		s.False(seen[key])
		seen[key] = true
	}
}

func (s *SimulatorSuite) TestExtendsExistingWord() {
	s.placeCat()
	sTile := s.tile("S")

	moves := s.simulate(sTile)

	s.Require().Len(moves, 1)
	s.Equal([]model.TilePlacement{{TileID: sTile.TileID, CellID: s.cellID(9, 7)}}, moves[0].Placements)
}

func (s *SimulatorSuite) TestBlankTakesMissingLetter() {
	s.placeCat()
	blank := s.tile(model.BlankText)

	moves := s.simulate(blank)

	s.Require().Len(moves, 1)
	p := moves[0].Placements[0]
	s.Equal(blank.TileID, p.TileID)
	s.Equal(s.cellID(9, 7), p.CellID)
	s.Require().NotNil(p.SelectedValueID)
	s.Equal(s.byText["S"].ValueID, *p.SelectedValueID)
}

func (s *SimulatorSuite) TestBlankOnlyStandsInForMissingLetters() {
	blank := s.tile(model.BlankText)

	moves := s.simulate(s.tile("C"), s.tile("A"), s.tile("T"), blank)

	s.NotEmpty(moves)
	for _, m := range moves {
		for _, p := range m.Placements {
			if p.TileID != blank.TileID {
				continue
			}
			// C, A and T are in the rack, so the blank is only ever the S of CATS
			s.Require().NotNil(p.SelectedValueID)
			s.Equal(s.byText["S"].ValueID, *p.SelectedValueID)
		}
	}
}

func (s *SimulatorSuite) TestNothingPlayable() {
	s.placeCat()
	s.Empty(s.simulate(s.tile("Z"), s.tile("Q")))
}

func (s *SimulatorSuite) TestBlockedCellsAreSkipped() {
	s.Require().NoError(s.dict.LoadWords(model.LanguageEnglish, []string{"at"}))

	types := [][]model.CellType{
		{model.CellNormal, model.CellNormal, model.CellNormal},
		{model.CellNormal, model.CellCenter, model.CellBlocked},
		{model.CellNormal, model.CellNormal, model.CellNormal},
	}
	var cells []model.Cell
	for y, row := range types {
		for x, t := range row {
			cells = append(cells, model.Cell{ID: uuid.New(), X: x, Y: y, Type: t})
		}
	}
	s.layout = model.NewBoardLayout(3, 3, cells)

	moves := s.simulate(s.tile("A"), s.tile("T"))

	// across from (0,1), down from (1,0) and (1,1); (2,1) is blocked
	s.Len(moves, 3)
	blocked := s.cellID(2, 1)
	for _, m := range moves {
		for _, p := range m.Placements {
			s.NotEqual(blocked, p.CellID)
		}
	}
}

func (s *SimulatorSuite) TestCrossWordsMustBeValid() {
	s.Require().NoError(s.dict.LoadWords(model.LanguageEnglish, []string{"cat", "at", "ta"}))
	s.placeCat()

	// T below A forms AT down; T below C would form CT
	moves := s.simulate(s.tile("T"))

	for _, m := range moves {
		s.NotEqual(s.cellID(6, 8), m.Placements[0].CellID)
	}
	s.NotEmpty(moves)
}
