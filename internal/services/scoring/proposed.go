package scoring

import (
	"github.com/google/uuid"

	"github.com/mcoot/lettergame/internal/model"
)

// BuildProposedMoves resolves placements against the layout and the tiles they use.
// tiles maps tile id to the instance being placed, with any blank selection applied.
func BuildProposedMoves(
	layout *model.BoardLayout,
	defs map[uuid.UUID]model.TileDefinition,
	placements []model.TilePlacement,
	tiles map[uuid.UUID]model.TileInstance,
) ([]model.ProposedMove, error) {
	moves := make([]model.ProposedMove, 0, len(placements))
	for _, p := range placements {
		cell, ok := layout.CellByID(p.CellID)
		if !ok {
			return nil, model.ErrUnknownCell
		}
		tile, ok := tiles[p.TileID]
		if !ok {
			return nil, model.ErrTileNotInHand
		}
		tile.SelectedValueID = p.SelectedValueID

		baseDef, ok := defs[tile.ValueID]
		if !ok {
			return nil, model.ErrInvalidSelection
		}
		displayDef, ok := defs[tile.DisplayValueID()]
		if !ok {
			return nil, model.ErrInvalidSelection
		}

		moves = append(moves, model.ProposedMove{
			Cell:       cell,
			Tile:       tile,
			BaseDef:    baseDef,
			DisplayDef: displayDef,
		})
	}
	return moves, nil
}
