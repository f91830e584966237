package dictionary

import (
	"github.com/google/uuid"

	"github.com/mcoot/lettergame/internal/model"
)

// tileNamespace seeds the stable definition ids
var tileNamespace = uuid.MustParse("b946c91f-99b8-45d0-971a-0e044b61014e")

type tileSpec struct {
	text   string
	points int
	weight int
}

var englishTiles = []tileSpec{
	{"A", 1, 9}, {"B", 3, 2}, {"C", 3, 2}, {"D", 2, 4}, {"E", 1, 12},
	{"F", 4, 2}, {"G", 2, 3}, {"H", 4, 2}, {"I", 1, 9}, {"J", 8, 1},
	{"K", 5, 1}, {"L", 1, 4}, {"M", 3, 2}, {"N", 1, 6}, {"O", 1, 8},
	{"P", 3, 2}, {"Q", 10, 1}, {"R", 1, 6}, {"S", 1, 4}, {"T", 1, 6},
	{"U", 1, 4}, {"V", 4, 2}, {"W", 4, 2}, {"X", 8, 1}, {"Y", 4, 2},
	{"Z", 10, 1}, {model.BlankText, 0, 2},
}

var polishTiles = []tileSpec{
	{"A", 1, 9}, {"Ą", 5, 1}, {"B", 3, 2}, {"C", 2, 3}, {"Ć", 6, 1},
	{"D", 2, 3}, {"E", 1, 7}, {"Ę", 5, 1}, {"F", 5, 1}, {"G", 3, 2},
	{"H", 3, 2}, {"I", 1, 8}, {"J", 3, 2}, {"K", 2, 3}, {"L", 2, 3},
	{"Ł", 3, 2}, {"M", 2, 3}, {"N", 1, 5}, {"Ń", 7, 1}, {"O", 1, 6},
	{"Ó", 5, 1}, {"P", 2, 3}, {"R", 1, 4}, {"S", 1, 4}, {"Ś", 5, 1},
	{"T", 2, 3}, {"U", 3, 2}, {"W", 1, 4}, {"Y", 2, 4}, {"Z", 1, 5},
	{"Ź", 9, 1}, {"Ż", 5, 1}, {model.BlankText, 0, 2},
}

// buildDefinitions turns a tile table into definitions with ids stable across restarts
func buildDefinitions(lang model.Language, table []tileSpec) []model.TileDefinition {
	defs := make([]model.TileDefinition, len(table))
	for i, t := range table {
		defs[i] = model.TileDefinition{
			ValueID: uuid.NewSHA1(tileNamespace, []byte(string(lang)+":"+t.text)),
			Text:    t.text,
			Points:  t.points,
			Weight:  t.weight,
		}
	}
	return defs
}
