package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Commands for the running game of your lobby",
	}

	cmd.AddCommand(newGameShowCmd())
	cmd.AddCommand(newGameMoveCmd())
	cmd.AddCommand(newGameSwapCmd())
	cmd.AddCommand(newGameSkipCmd())

	return cmd
}

func fetchGame() (GameDetails, error) {
	var game GameDetails
	err := client.Get("/api/v1/lobby/game", &game)
	return game, err
}

func newGameShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the board, scores and your hand",
		RunE: func(cmd *cobra.Command, args []string) error {
			game, err := fetchGame()
			if err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(game)
			return nil
		},
	}
}

// placement is one tile placement in the API request shape
type placement struct {
	TileID          string  `json:"tile_id"`
	CellID          string  `json:"cell_id"`
	SelectedValueID *string `json:"selected_value_id,omitempty"`
}

// parsePlacement reads "<hand#>@<x>,<y>[=<letter>]", where the letter picks a blank's value
func parsePlacement(game GameDetails, arg string) (placement, error) {
	handRef, rest, ok := strings.Cut(arg, "@")
	if !ok {
		return placement{}, fmt.Errorf("placement %q: expected <hand#>@<x>,<y>[=<letter>]", arg)
	}

	index, err := strconv.Atoi(handRef)
	if err != nil || index < 1 || index > len(game.MyHand) {
		return placement{}, fmt.Errorf("placement %q: hand position must be 1-%d", arg, len(game.MyHand))
	}
	tile := game.MyHand[index-1]

	coords, letter, _ := strings.Cut(rest, "=")
	xs, ys, ok := strings.Cut(coords, ",")
	if !ok {
		return placement{}, fmt.Errorf("placement %q: expected x,y", arg)
	}
	x, errX := strconv.Atoi(xs)
	y, errY := strconv.Atoi(ys)
	if errX != nil || errY != nil || x < 0 || y < 0 || x >= game.Layout.Width || y >= game.Layout.Height {
		return placement{}, fmt.Errorf("placement %q: cell out of range", arg)
	}

	p := placement{
		TileID: tile.TileID,
		CellID: game.Layout.Cells[y*game.Layout.Width+x].ID,
	}

	if letter != "" {
		for _, d := range game.TileDefinitions {
			if strings.EqualFold(d.Text, letter) {
				valueID := d.ValueID
				p.SelectedValueID = &valueID
				break
			}
		}
		if p.SelectedValueID == nil {
			return placement{}, fmt.Errorf("placement %q: unknown letter %q", arg, letter)
		}
	}

	return p, nil
}

func newGameMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <hand#>@<x>,<y>[=<letter>]...",
		Short: "Place tiles from your hand",
		Long: `Place tiles from your hand onto the board.

Each placement names a hand position (as listed by "game show"), the target
cell as column,row, and for a blank tile the letter it should stand for:

  lettergame game move 1@7,7 2@8,7 5@9,7=e`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			game, err := fetchGame()
			if err != nil {
				return err
			}

			placements := make([]placement, 0, len(args))
			for _, arg := range args {
				p, err := parsePlacement(game, arg)
				if err != nil {
					return err
				}
				placements = append(placements, p)
			}

			var result MoveResult
			if err := client.Post("/api/v1/lobby/game/move", map[string]any{"placements": placements}, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameSwapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "swap <hand#>...",
		Short: "Exchange tiles with the bag, ending your turn",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			game, err := fetchGame()
			if err != nil {
				return err
			}

			tileIDs := make([]string, 0, len(args))
			for _, arg := range args {
				index, err := strconv.Atoi(arg)
				if err != nil || index < 1 || index > len(game.MyHand) {
					return fmt.Errorf("hand position must be 1-%d, got %q", len(game.MyHand), arg)
				}
				tileIDs = append(tileIDs, game.MyHand[index-1].TileID)
			}

			if err := client.Post("/api/v1/lobby/game/swap", map[string]any{"tile_ids": tileIDs}, nil); err != nil {
				return err
			}

			NewOutput(cfg.Output).PrintMessage(fmt.Sprintf("Swapped %d tiles", len(tileIDs)))
			return nil
		},
	}
}

func newGameSkipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "skip",
		Short: "Pass your turn",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/lobby/game/skip", nil, nil); err != nil {
				return err
			}

			NewOutput(cfg.Output).PrintMessage("Turn skipped")
			return nil
		},
	}
}
