package bot

import "github.com/mcoot/lettergame/internal/model"

const empty rune = 0

// grid is the board as lower-cased letters, indexed [y][x]
type grid struct {
	width, height int
	letters       [][]rune
	blocked       [][]bool
}

func newGrid(layout *model.BoardLayout) *grid {
	g := &grid{
		width:   layout.Width,
		height:  layout.Height,
		letters: make([][]rune, layout.Height),
		blocked: make([][]bool, layout.Height),
	}
	for y := 0; y < layout.Height; y++ {
		g.letters[y] = make([]rune, layout.Width)
		g.blocked[y] = make([]bool, layout.Width)
	}
	for _, c := range layout.Cells {
		if c.Type == model.CellBlocked {
			g.blocked[c.Y][c.X] = true
		}
	}
	return g
}

func (g *grid) set(x, y int, r rune) {
	g.letters[y][x] = r
}

func (g *grid) filled(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height && g.letters[y][x] != empty
}

// view reads a grid in rows and columns, optionally transposed so
// vertical words can be searched as rows
type view struct {
	g          *grid
	transposed bool
}

func (v view) rows() int {
	if v.transposed {
		return v.g.width
	}
	return v.g.height
}

func (v view) cols() int {
	if v.transposed {
		return v.g.height
	}
	return v.g.width
}

// xy maps view coordinates back to the board
func (v view) xy(row, col int) (int, int) {
	if v.transposed {
		return row, col
	}
	return col, row
}

func (v view) at(row, col int) rune {
	x, y := v.xy(row, col)
	return v.g.letters[y][x]
}

func (v view) isBlocked(row, col int) bool {
	x, y := v.xy(row, col)
	return v.g.blocked[y][x]
}

func (v view) inBounds(row, col int) bool {
	return row >= 0 && row < v.rows() && col >= 0 && col < v.cols()
}

func (v view) isEmpty(row, col int) bool {
	return !v.inBounds(row, col) || v.at(row, col) == empty
}
