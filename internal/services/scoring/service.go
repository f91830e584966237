package scoring

import (
	"strings"

	"github.com/google/uuid"

	"github.com/mcoot/lettergame/internal/model"
)

// BingoBonus is added when a move uses the whole rack
const BingoBonus = 50

// Service finds and scores the words a move forms
type Service struct{}

// New creates a new scoring Service
func New() *Service {
	return &Service{}
}

type point struct{ x, y int }

type boardTile struct {
	points   int
	text     string
	cellType model.CellType
	isNew    bool
}

// ScanForWords returns every word of two or more letters formed by proposed, with its score.
// For a single tile both lines through it are scanned; otherwise the shared line plus
// the perpendicular line through each placed tile.
func (s *Service) ScanForWords(
	layout *model.BoardLayout,
	defs map[uuid.UUID]model.TileDefinition,
	placed []model.PlacedTile,
	proposed []model.ProposedMove,
) model.ScanResult {
	board := make(map[point]boardTile, len(placed)+len(proposed))
	for _, pt := range placed {
		cell, ok := layout.CellByID(pt.CellID)
		if !ok {
			continue
		}
		board[point{cell.X, cell.Y}] = boardTile{
			points:   defs[pt.ValueID].Points,
			text:     defs[pt.DisplayValueID()].Text,
			cellType: cell.Type,
		}
	}
	for _, m := range proposed {
		board[point{m.Cell.X, m.Cell.Y}] = boardTile{
			points:   m.BaseDef.Points,
			text:     m.DisplayDef.Text,
			cellType: m.Cell.Type,
			isNew:    true,
		}
	}

	var words []model.ScannedWord
	add := func(w *model.ScannedWord) {
		if w != nil {
			words = append(words, *w)
		}
	}

	switch {
	case len(proposed) == 0:
	case len(proposed) == 1:
		c := proposed[0].Cell
		add(scanLine(board, c.X, c.Y, true))
		add(scanLine(board, c.X, c.Y, false))
	default:
		horizontal := proposed[0].Cell.Y == proposed[1].Cell.Y
		add(scanLine(board, proposed[0].Cell.X, proposed[0].Cell.Y, horizontal))
		for _, m := range proposed {
			add(scanLine(board, m.Cell.X, m.Cell.Y, !horizontal))
		}
	}

	return model.ScanResult{
		Words:  words,
		Points: totalPoints(words, len(proposed)),
	}
}

func totalPoints(words []model.ScannedWord, tilesPlaced int) int {
	total := 0
	for _, w := range words {
		total += w.Points
	}
	if tilesPlaced == model.HandSize {
		total += BingoBonus
	}
	return total
}

func scanLine(board map[point]boardTile, x, y int, horizontal bool) *model.ScannedWord {
	dx, dy := 0, 1
	if horizontal {
		dx, dy = 1, 0
	}

	for {
		if _, ok := board[point{x - dx, y - dy}]; !ok {
			break
		}
		x -= dx
		y -= dy
	}

	var text strings.Builder
	score, wordMultiplier, count := 0, 1, 0
	for {
		tile, ok := board[point{x, y}]
		if !ok {
			break
		}
		text.WriteString(tile.text)

		points := tile.points
		if tile.isNew {
			points *= tile.cellType.LetterMultiplier()
			wordMultiplier *= tile.cellType.WordMultiplier()
		}
		score += points

		x += dx
		y += dy
		count++
	}

	if count < 2 {
		return nil
	}
	return &model.ScannedWord{
		Text:       text.String(),
		Points:     score * wordMultiplier,
		Horizontal: horizontal,
	}
}

// Interface for dependency injection
type ServiceInterface interface {
	ScanForWords(
		layout *model.BoardLayout,
		defs map[uuid.UUID]model.TileDefinition,
		placed []model.PlacedTile,
		proposed []model.ProposedMove,
	) model.ScanResult
}

var _ ServiceInterface = (*Service)(nil)
