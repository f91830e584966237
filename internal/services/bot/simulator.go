package bot

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/mcoot/lettergame/internal/model"
	"github.com/mcoot/lettergame/internal/services/dictionary"
)

// Simulator enumerates every legal placement a rack can make
type Simulator struct{}

// NewSimulator creates a new Simulator
func NewSimulator() *Simulator {
	return &Simulator{}
}

type rackTile struct {
	tile   model.TileInstance
	letter rune // empty for a blank
}

type step struct {
	row, col int
	tile     model.TileInstance
	selected *uuid.UUID
}

// letterSet is the set of letters allowed on a cell; nil allows every letter
type letterSet map[rune]bool

func (s letterSet) allows(r rune) bool {
	return s == nil || s[r]
}

type search struct {
	v          view
	root       *dictionary.TrieNode
	alphabet   []rune
	letterDefs map[rune]model.TileDefinition
	cross      [][]letterSet
	rack       []rackTile
	used       []bool
	maxLetters int
	firstMove  bool
	centers    map[[2]int]bool // board x,y
	layout     *model.BoardLayout

	found *moveSet
}

type moveSet struct {
	seen  map[string]bool
	moves []model.MoveRequest
}

// SimulateMoves returns every placement of at most maxLetters rack tiles that forms
// only dictionary words and connects to the board. Blocked boards and empty racks
// give an empty result.
func (s *Simulator) SimulateMoves(
	provider dictionary.Provider,
	maxLetters int,
	layout *model.BoardLayout,
	placed []model.PlacedTile,
	rack []model.TileInstance,
) []model.MoveRequest {
	found := &moveSet{seen: make(map[string]bool)}
	if len(rack) == 0 || maxLetters <= 0 {
		return found.moves
	}

	trie := provider.WordTrie()
	defs := model.TileDefinitionsByID(provider.TileDefinitions())
	letterOf := func(text string) rune {
		for _, r := range trie.Normalize(text) {
			return r
		}
		return empty
	}

	letterDefs := make(map[rune]model.TileDefinition)
	for _, d := range provider.TileDefinitions() {
		if !d.IsBlank() {
			letterDefs[letterOf(d.Text)] = d
		}
	}

	g := newGrid(layout)
	for _, pt := range placed {
		cell, ok := layout.CellByID(pt.CellID)
		if !ok {
			continue
		}
		g.set(cell.X, cell.Y, letterOf(defs[pt.DisplayValueID()].Text))
	}

	tiles := make([]rackTile, 0, len(rack))
	for _, t := range rack {
		def, ok := defs[t.ValueID]
		if !ok {
			continue
		}
		rt := rackTile{tile: t}
		if !def.IsBlank() {
			rt.letter = letterOf(def.Text)
		}
		tiles = append(tiles, rt)
	}

	centers := make(map[[2]int]bool)
	for _, c := range layout.Cells {
		if c.Type == model.CellCenter {
			centers[[2]int{c.X, c.Y}] = true
		}
	}

	if maxLetters > len(tiles) {
		maxLetters = len(tiles)
	}

	for _, transposed := range []bool{false, true} {
		srch := &search{
			v:          view{g: g, transposed: transposed},
			root:       trie.Root(),
			alphabet:   dictionary.Alphabet(provider),
			letterDefs: letterDefs,
			rack:       tiles,
			used:       make([]bool, len(tiles)),
			maxLetters: maxLetters,
			firstMove:  len(placed) == 0,
			centers:    centers,
			layout:     layout,
			found:      found,
		}
		srch.computeCrossChecks()
		srch.run()
	}

	return found.moves
}

func (s *search) computeCrossChecks() {
	v := s.v
	s.cross = make([][]letterSet, v.rows())
	for row := 0; row < v.rows(); row++ {
		s.cross[row] = make([]letterSet, v.cols())
		for col := 0; col < v.cols(); col++ {
			if v.isBlocked(row, col) {
				s.cross[row][col] = letterSet{}
				continue
			}
			if !v.isEmpty(row, col) {
				continue
			}

			var prefix, suffix []rune
			for r := row - 1; !v.isEmpty(r, col); r-- {
				prefix = append([]rune{v.at(r, col)}, prefix...)
			}
			for r := row + 1; !v.isEmpty(r, col); r++ {
				suffix = append(suffix, v.at(r, col))
			}
			if len(prefix) == 0 && len(suffix) == 0 {
				continue
			}

			allowed := letterSet{}
			for _, letter := range s.alphabet {
				if s.isWord(string(prefix) + string(letter) + string(suffix)) {
					allowed[letter] = true
				}
			}
			s.cross[row][col] = allowed
		}
	}
}

// isWord walks an already lower-cased word through the trie
func (s *search) isWord(word string) bool {
	node := s.root
	for _, r := range word {
		next, ok := node.Children[r]
		if !ok {
			return false
		}
		node = next
	}
	return node.IsEnd
}

func (s *search) run() {
	for row := 0; row < s.v.rows(); row++ {
		for col := 0; col < s.v.cols(); col++ {
			if col == 0 || s.v.isEmpty(row, col-1) {
				s.extendRight(row, col, col, s.root, nil)
			}
		}
	}
}

func (s *search) extendRight(row, anchor, col int, node *dictionary.TrieNode, steps []step) {
	if !s.v.inBounds(row, col) {
		s.record(anchor, col, node, steps)
		return
	}

	if letter := s.v.at(row, col); letter != empty {
		next, ok := node.Children[letter]
		if !ok {
			return
		}
		s.extendRight(row, anchor, col+1, next, steps)
		return
	}

	s.record(anchor, col, node, steps)
	if len(steps) >= s.maxLetters {
		return
	}

	allowed := s.cross[row][col]
	for _, letter := range s.alphabet {
		child, ok := node.Children[letter]
		if !ok || !allowed.allows(letter) {
			continue
		}
		i, ok := s.findInRack(letter)
		if !ok {
			continue
		}

		st := step{row: row, col: col, tile: s.rack[i].tile}
		if s.rack[i].letter == empty {
			id := s.letterDefs[letter].ValueID
			st.selected = &id
		}

		s.used[i] = true
		s.extendRight(row, anchor, col+1, child, append(steps, st))
		s.used[i] = false
	}
}

// findInRack prefers an exact letter tile and falls back to an unused blank
func (s *search) findInRack(letter rune) (int, bool) {
	blank := -1
	for i, t := range s.rack {
		if s.used[i] {
			continue
		}
		if t.letter == letter {
			return i, true
		}
		if t.letter == empty && blank < 0 {
			blank = i
		}
	}
	if blank >= 0 {
		if _, ok := s.letterDefs[letter]; ok {
			return blank, true
		}
	}
	return 0, false
}

// record keeps a finished run that is a complete word of two or more letters.
// Single-letter runs are found by the other orientation.
func (s *search) record(anchor, end int, node *dictionary.TrieNode, steps []step) {
	if !node.IsEnd || len(steps) == 0 || end-anchor < 2 {
		return
	}
	if !s.connected(steps) {
		return
	}

	placements := make([]model.TilePlacement, len(steps))
	keys := make([]string, len(steps))
	for i, st := range steps {
		x, y := s.v.xy(st.row, st.col)
		cell, _ := s.layout.CellAt(x, y)
		placements[i] = model.TilePlacement{
			TileID:          st.tile.TileID,
			CellID:          cell.ID,
			SelectedValueID: st.selected,
		}
		keys[i] = cell.ID.String() + "-" + st.tile.TileID.String()
		if st.selected != nil {
			keys[i] += "-" + st.selected.String()
		}
	}

	sort.Strings(keys)
	key := strings.Join(keys, ",")
	if s.found.seen[key] {
		return
	}
	s.found.seen[key] = true
	s.found.moves = append(s.found.moves, model.MoveRequest{Placements: placements})
}

func (s *search) connected(steps []step) bool {
	for _, st := range steps {
		x, y := s.v.xy(st.row, st.col)
		if s.firstMove {
			if s.centers[[2]int{x, y}] {
				return true
			}
			continue
		}
		if s.v.g.filled(x-1, y) || s.v.g.filled(x+1, y) || s.v.g.filled(x, y-1) || s.v.g.filled(x, y+1) {
			return true
		}
	}
	return false
}
