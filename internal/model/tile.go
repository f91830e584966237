package model

import "github.com/google/uuid"

// BlankText is the display text of the wildcard tile definition
const BlankText = "?"

// HandSize is the rack capacity
const HandSize = 7

// TileDefinition describes one letter of a language's tile set
type TileDefinition struct {
	ValueID uuid.UUID `json:"value_id"`
	Text    string    `json:"text"`
	Points  int       `json:"points"`
	Weight  int       `json:"weight"` // share of the bag, in percent of the tile count
}

// IsBlank reports whether this is the wildcard definition
func (d TileDefinition) IsBlank() bool {
	return d.Text == BlankText
}

// TileInstance is one physical tile
type TileInstance struct {
	TileID          uuid.UUID  `json:"tile_id"`
	ValueID         uuid.UUID  `json:"value_id"`
	SelectedValueID *uuid.UUID `json:"selected_value_id,omitempty"`
}

// DisplayValueID is the definition the tile shows: the selection for a placed blank, else its own value
func (t TileInstance) DisplayValueID() uuid.UUID {
	if t.SelectedValueID != nil {
		return *t.SelectedValueID
	}
	return t.ValueID
}

// PlacedTile is a tile committed to the board
type PlacedTile struct {
	CellID          uuid.UUID  `json:"cell_id"`
	TileID          uuid.UUID  `json:"tile_id"`
	ValueID         uuid.UUID  `json:"value_id"`
	PlayerID        uuid.UUID  `json:"player_id"`
	SelectedValueID *uuid.UUID `json:"selected_value_id,omitempty"`
}

// DisplayValueID is the definition the placed tile represents
func (p PlacedTile) DisplayValueID() uuid.UUID {
	if p.SelectedValueID != nil {
		return *p.SelectedValueID
	}
	return p.ValueID
}

// TileDefinitionsByID indexes definitions by value id
func TileDefinitionsByID(defs []TileDefinition) map[uuid.UUID]TileDefinition {
	m := make(map[uuid.UUID]TileDefinition, len(defs))
	for _, d := range defs {
		m[d.ValueID] = d
	}
	return m
}
