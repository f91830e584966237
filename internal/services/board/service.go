package board

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/mcoot/lettergame/internal/model"
)

// Service generates board layouts from the built-in templates
type Service struct {
	logger *slog.Logger
}

// New creates a new board Service
func New(logger *slog.Logger) *Service {
	return &Service{
		logger: logger.With(slog.String("component", "board-service")),
	}
}

// GenerateBoard builds a fresh layout for the board type.
// Multiplier placement is fixed per type; every call issues new cell ids.
func (s *Service) GenerateBoard(boardType model.BoardType) (*model.BoardLayout, error) {
	rows, ok := templates[boardType]
	if !ok {
		s.logger.Warn("unknown board type requested", slog.String("board_type", string(boardType)))
		return nil, model.ErrUnsupportedBoardType
	}

	height := len(rows)
	width := len(rows[0])
	cells := make([]model.Cell, 0, width*height)
	for y, row := range rows {
		for x := 0; x < width; x++ {
			cells = append(cells, model.Cell{
				ID:   uuid.New(),
				X:    x,
				Y:    y,
				Type: cellTypeFor(row[x]),
			})
		}
	}

	return model.NewBoardLayout(width, height, cells), nil
}

// Interface for dependency injection
type ServiceInterface interface {
	GenerateBoard(boardType model.BoardType) (*model.BoardLayout, error)
}

var _ ServiceInterface = (*Service)(nil)
