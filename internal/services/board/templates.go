package board

import "github.com/mcoot/lettergame/internal/model"

// Row templates. '3' triple word, '2' double word, 'T' triple letter,
// 'D' double letter, '*' center, anything else normal.
var templates = map[model.BoardType][]string{
	model.BoardClassic: {
		"3..D...3...D..3",
		".2...T...T...2.",
		"..2...D.D...2..",
		"D..2...D...2..D",
		"....2.....2....",
		".T...T...T...T.",
		"..D...D.D...D..",
		"3..D...*...D..3",
		"..D...D.D...D..",
		".T...T...T...T.",
		"....2.....2....",
		"D..2...D...2..D",
		"..2...D.D...2..",
		".2...T...T...2.",
		"3..D...3...D..3",
	},
	model.BoardArena: {
		"...............",
		".3...D...D...3.",
		"..2...D.D...2..",
		"...2...D...2...",
		"....*.....*....",
		"....D..*..D....",
		"..D...D.D...D..",
		"..D..*.*.*..D..",
		"..D...D.D...D..",
		"....D..*..D....",
		"....*.....*....",
		"...2...D...2...",
		"..2...D.D...2..",
		".3...D...D...3.",
		"...............",
	},
	model.BoardWildlands: {
		"3....T...T....3",
		".D...2...2...D.",
		"..D....2....D..",
		".T.D...*...D.T.",
		"...2.D...D.2...",
		"T.....D.D.....T",
		"...2.*...*.2...",
		"3..D...*...D..3",
		"...2.*...*.2...",
		"T.....D.D.....T",
		"...2.D...D.2...",
		".T.D...*...D.T.",
		"..D....2....D..",
		".D...2...2...D.",
		"3....T...T....3",
	},
	model.BoardBigClassic: {
		"3..D....3....D..3",
		".2....T...T....2.",
		"..2....D.D....2..",
		"D..2....D....2..D",
		"....2.......2....",
		".T....T...T....T.",
		"..D....D.D....D..",
		"..D....D.D....D..",
		"3..D....*....D..3",
		"..D....D.D....D..",
		"..D....D.D....D..",
		".T....T...T....T.",
		"....2.......2....",
		"D..2....D....2..D",
		"..2....D.D....2..",
		".2....T...T....2.",
		"3..D....3....D..3",
	},
	model.BoardCrossfire: {
		"3.....D.D.....3",
		".3...T...T...3.",
		"..3.2.....2.3..",
		"...3.......3...",
		"....2.....2....",
		"DT...D...D...TD",
		"......D.D......",
		"D......*......D",
		"......D.D......",
		"DT...D...D...TD",
		"....2.....2....",
		"...3.......3...",
		"..3.2.....2.3..",
		".3...T...T...3.",
		"3.....D.D.....3",
	},
	model.BoardIslands: {
		"3..D...3...D..3",
		".2..T.....T..2.",
		"..D.........D..",
		"D..2.......2..D",
		".T..D.....D..T.",
		".....T...T.....",
		"......2.2......",
		"3......*......3",
		"......2.2......",
		".....T...T.....",
		".T..D.....D..T.",
		"D..2.......2..D",
		"..D.........D..",
		".2..T.....T..2.",
		"3..D...3...D..3",
	},
	model.BoardStronghold: {
		"3.....D...D.....3",
		".2.............2.",
		"..D...........D..",
		"...T.........T...",
		"....2.......2....",
		".....D.....D.....",
		"D.....T...T.....D",
		"......D.D.D......",
		"......D.*.D......",
		"......D.D.D......",
		"D.....T...T.....D",
		".....D.....D.....",
		"....2.......2....",
		"...T.........T...",
		"..D...........D..",
		".2.............2.",
		"3.....D...D.....3",
	},
}

func cellTypeFor(c byte) model.CellType {
	switch c {
	case '3':
		return model.CellTripleWord
	case '2':
		return model.CellDoubleWord
	case 'T':
		return model.CellTripleLetter
	case 'D':
		return model.CellDoubleLetter
	case '*':
		return model.CellCenter
	default:
		return model.CellNormal
	}
}
