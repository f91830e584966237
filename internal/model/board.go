package model

import (
	"encoding/json"

	"github.com/google/uuid"
)

// CellType is the score multiplier class of a board cell
type CellType string

const (
	CellNormal       CellType = "normal"
	CellDoubleLetter CellType = "double_letter"
	CellTripleLetter CellType = "triple_letter"
	CellDoubleWord   CellType = "double_word"
	CellTripleWord   CellType = "triple_word"
	CellBlocked      CellType = "blocked"
	CellCenter       CellType = "center"
)

// LetterMultiplier returns the factor applied to a newly placed tile's points
func (t CellType) LetterMultiplier() int {
	switch t {
	case CellDoubleLetter:
		return 2
	case CellTripleLetter:
		return 3
	default:
		return 1
	}
}

// WordMultiplier returns the factor applied to a word containing a newly placed tile on this cell
func (t CellType) WordMultiplier() int {
	switch t {
	case CellDoubleWord, CellCenter:
		return 2
	case CellTripleWord:
		return 3
	default:
		return 1
	}
}

// BoardType selects a board template
type BoardType string

const (
	BoardClassic    BoardType = "classic"
	BoardArena      BoardType = "arena"
	BoardWildlands  BoardType = "wildlands"
	BoardBigClassic BoardType = "big_classic"
	BoardCrossfire  BoardType = "crossfire"
	BoardIslands    BoardType = "islands"
	BoardStronghold BoardType = "stronghold"
)

// BoardTypes lists every board type in display order
var BoardTypes = []BoardType{
	BoardClassic, BoardArena, BoardWildlands, BoardBigClassic,
	BoardCrossfire, BoardIslands, BoardStronghold,
}

// IsValid reports whether t is a known board type
func (t BoardType) IsValid() bool {
	for _, bt := range BoardTypes {
		if bt == t {
			return true
		}
	}
	return false
}

// Cell is one square of a board layout
type Cell struct {
	ID   uuid.UUID `json:"id"`
	X    int       `json:"x"` // column
	Y    int       `json:"y"` // row
	Type CellType  `json:"type"`
}

// BoardLayout is the immutable grid for one match
type BoardLayout struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Cells  []Cell `json:"cells"` // row-major

	byID map[uuid.UUID]int
}

// NewBoardLayout builds a layout from row-major cells
func NewBoardLayout(width, height int, cells []Cell) *BoardLayout {
	b := &BoardLayout{Width: width, Height: height, Cells: cells}
	b.index()
	return b
}

func (b *BoardLayout) index() {
	b.byID = make(map[uuid.UUID]int, len(b.Cells))
	for i, c := range b.Cells {
		b.byID[c.ID] = i
	}
}

// UnmarshalJSON decodes a layout and indexes its cells, so decoded layouts are read-only afterwards
func (b *BoardLayout) UnmarshalJSON(data []byte) error {
	type plain BoardLayout
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*b = BoardLayout(decoded)
	b.index()
	return nil
}

// CellByID looks up a cell by its id. A layout built without NewBoardLayout is scanned.
func (b *BoardLayout) CellByID(id uuid.UUID) (Cell, bool) {
	if b.byID == nil {
		for _, c := range b.Cells {
			if c.ID == id {
				return c, true
			}
		}
		return Cell{}, false
	}
	i, ok := b.byID[id]
	if !ok {
		return Cell{}, false
	}
	return b.Cells[i], true
}

// CellAt returns the cell at column x, row y
func (b *BoardLayout) CellAt(x, y int) (Cell, bool) {
	if !b.InBounds(x, y) {
		return Cell{}, false
	}
	return b.Cells[y*b.Width+x], true
}

// InBounds reports whether (x, y) lies on the board
func (b *BoardLayout) InBounds(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}
