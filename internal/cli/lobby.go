package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newLobbyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lobby",
		Short: "Lobby commands",
	}

	cmd.AddCommand(newLobbyListCmd())
	cmd.AddCommand(newLobbyJoinCmd())
	cmd.AddCommand(newLobbyLeaveCmd())
	cmd.AddCommand(newLobbyShowCmd())
	cmd.AddCommand(newLobbyHistoryCmd())
	cmd.AddCommand(newLobbySeatCmd())
	cmd.AddCommand(newLobbyUnseatCmd())
	cmd.AddCommand(newLobbySettingsCmd())
	cmd.AddCommand(newLobbyBotCmd())
	cmd.AddCommand(newLobbyStartCmd())
	cmd.AddCommand(newLobbyChatCmd())

	return cmd
}

func newLobbyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the server's lobbies",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result LobbyList
			if err := client.Get("/api/v1/lobbies", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newLobbyJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <lobby-id>",
		Short: "Join a lobby, leaving any other",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result JoinResult
			if err := client.Post(fmt.Sprintf("/api/v1/lobbies/%s/join", args[0]), nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newLobbyLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave",
		Short: "Leave the current lobby",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/lobby/leave", nil, nil); err != nil {
				return err
			}

			NewOutput(cfg.Output).PrintMessage("Left the lobby")
			return nil
		},
	}
}

func newLobbyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current lobby",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result LobbyState
			if err := client.Get("/api/v1/lobby", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newLobbyHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <lobby-id>",
		Short: "List a lobby's finished games, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/lobbies/%s/history", args[0])
			if limit > 0 {
				path += fmt.Sprintf("?limit=%d", limit)
			}

			var result History
			if err := client.Get(path, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of games (default: server default)")

	return cmd
}

// resolveSeat accepts a seat id or a 1-based seat number
func resolveSeat(ref string) (string, error) {
	number, err := strconv.Atoi(ref)
	if err != nil {
		return ref, nil
	}

	var state LobbyState
	if err := client.Get("/api/v1/lobby", &state); err != nil {
		return "", err
	}
	for _, s := range state.Seats {
		if s.Order == number {
			return s.ID, nil
		}
	}
	return "", fmt.Errorf("no seat %d", number)
}

func newLobbySeatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seat <seat>",
		Short: "Take a seat, by number or id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seatID, err := resolveSeat(args[0])
			if err != nil {
				return err
			}

			var result LobbyState
			if err := client.Post("/api/v1/lobby/seats/"+seatID, nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newLobbyUnseatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unseat",
		Short: "Leave your seat",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result LobbyState
			if err := client.Delete("/api/v1/lobby/seat", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newLobbySettingsCmd() *cobra.Command {
	var timeBank, tiles int
	var language, board string

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Change the lobby settings (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var state LobbyState
			if err := client.Get("/api/v1/lobby", &state); err != nil {
				return err
			}

			settings := state.Settings
			if cmd.Flags().Changed("time-bank") {
				settings.TimeBankMinutes = timeBank
			}
			if cmd.Flags().Changed("tiles") {
				settings.TilesCount = tiles
			}
			if language != "" {
				settings.Language = strings.ToLower(language)
			}
			if board != "" {
				settings.BoardType = strings.ToLower(board)
			}

			var result LobbyState
			if err := client.Put("/api/v1/lobby/settings", settings, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&timeBank, "time-bank", 0, "Time bank per player in minutes (3-60)")
	cmd.Flags().IntVar(&tiles, "tiles", 0, "Number of tiles in the bag (50-200)")
	cmd.Flags().StringVar(&language, "language", "", "Language: english, polish")
	cmd.Flags().StringVar(&board, "board", "", "Board: classic, arena, wildlands, big_classic, crossfire, islands, stronghold")

	return cmd
}

func newLobbyBotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Seat or remove bots (admin only)",
	}

	var difficulty string
	add := &cobra.Command{
		Use:   "add <seat>",
		Short: "Seat a bot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seatID, err := resolveSeat(args[0])
			if err != nil {
				return err
			}

			var result LobbyPlayer
			req := map[string]string{"difficulty": difficulty}
			if err := client.Post("/api/v1/lobby/seats/"+seatID+"/bot", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
	add.Flags().StringVar(&difficulty, "difficulty", "medium", "Bot difficulty: easy, medium, hard")

	remove := &cobra.Command{
		Use:   "remove <seat>",
		Short: "Remove a bot from its seat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seatID, err := resolveSeat(args[0])
			if err != nil {
				return err
			}

			var result LobbyState
			if err := client.Delete("/api/v1/lobby/seats/"+seatID+"/bot", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.AddCommand(add, remove)
	return cmd
}

func newLobbyStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the game (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result LobbyState
			if err := client.Post("/api/v1/lobby/start", nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newLobbyChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat <message...>",
		Short: "Send a chat message to the lobby",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"message": strings.Join(args, " ")}
			if err := client.Post("/api/v1/lobby/chat", req, nil); err != nil {
				return err
			}

			NewOutput(cfg.Output).PrintMessage("Sent")
			return nil
		},
	}
}
