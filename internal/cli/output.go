package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case TokenResult:
		o.printToken(v)
	case ValidateResult:
		fmt.Printf("Valid: %t\n", v.Valid)
	case LobbyList:
		o.printLobbyList(v)
	case JoinResult:
		fmt.Printf("Joined as %s\n", v.PlayerID)
		o.printLobbyState(v.Lobby)
	case LobbyState:
		o.printLobbyState(v)
	case LobbyPlayer:
		fmt.Printf("%s (%s)\n", v.PlayerName, v.PlayerID)
	case History:
		o.printHistory(v)
	case GameDetails:
		o.printGame(v)
	case MoveResult:
		o.printMoveResult(v)
	case HealthResult:
		fmt.Printf("Status: %s\n", v.Status)
		if v.LatencyMS > 0 {
			fmt.Printf("Latency: %dms\n", v.LatencyMS)
		}
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// TokenResult is returned by the login endpoints
type TokenResult struct {
	Token     string    `json:"token"`
	PlayerID  string    `json:"player_id"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ValidateResult reports whether a token is still usable
type ValidateResult struct {
	Valid bool `json:"valid"`
}

// LobbySummary is one entry of the lobby list
type LobbySummary struct {
	LobbyID     string `json:"lobby_id"`
	State       string `json:"state"`
	PlayerCount int    `json:"player_count"`
}

// LobbyList response type
type LobbyList struct {
	Lobbies []LobbySummary `json:"lobbies"`
}

// LobbyPlayer response type
type LobbyPlayer struct {
	PlayerID      string `json:"player_id"`
	PlayerName    string `json:"player_name"`
	IsBot         bool   `json:"is_bot"`
	BotDifficulty string `json:"bot_difficulty,omitempty"`
}

// Seat response type
type Seat struct {
	ID            string  `json:"id"`
	PlayerID      *string `json:"player_id,omitempty"`
	IsAdmin       bool    `json:"is_admin"`
	Order         int     `json:"order"`
	IsBot         bool    `json:"is_bot"`
	BotDifficulty string  `json:"bot_difficulty,omitempty"`
}

// Settings response type
type Settings struct {
	TimeBankMinutes int    `json:"time_bank_minutes"`
	Language        string `json:"language"`
	TilesCount      int    `json:"tiles_count"`
	BoardType       string `json:"board_type"`
}

// FinishedPlayer is a final standing
type FinishedPlayer struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Points     int    `json:"points"`
}

// HistoryEntry is one accepted move of a finished game
type HistoryEntry struct {
	PlayerName   string   `json:"player_name"`
	GainedPoints int      `json:"gained_points"`
	TotalPoints  int      `json:"total_points"`
	Words        []string `json:"words"`
	BestMove     *struct {
		Words  []string `json:"words"`
		Points int      `json:"points"`
	} `json:"best_move,omitempty"`
}

// FinishedGame response type
type FinishedGame struct {
	Players                 []FinishedPlayer `json:"players"`
	MoveHistory             []HistoryEntry   `json:"move_history"`
	GameDuration            time.Duration    `json:"game_duration"`
	FinishedAt              time.Time        `json:"finished_at"`
	PostGameDurationSeconds int              `json:"post_game_duration_seconds"`
}

// LobbyState response type
type LobbyState struct {
	LobbyID      string        `json:"lobby_id"`
	Players      []LobbyPlayer `json:"players"`
	Seats        []Seat        `json:"seats"`
	Settings     Settings      `json:"settings"`
	State        string        `json:"state"`
	FinishedGame *FinishedGame `json:"finished_game,omitempty"`
}

// JoinResult response type
type JoinResult struct {
	PlayerID string     `json:"player_id"`
	Lobby    LobbyState `json:"lobby"`
}

// GameRecord is an archived game
type GameRecord struct {
	ID      string       `json:"id"`
	LobbyID string       `json:"lobby_id"`
	Details FinishedGame `json:"details"`
}

// History response type
type History struct {
	Games []GameRecord `json:"games"`
}

// Cell is one board cell
type Cell struct {
	ID   string `json:"id"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Type string `json:"type"`
}

// Layout is the board shape
type Layout struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Cells  []Cell `json:"cells"`
}

// TileDefinition maps a value id to its letter
type TileDefinition struct {
	ValueID string `json:"value_id"`
	Text    string `json:"text"`
	Points  int    `json:"points"`
}

// Tile is a tile in hand
type Tile struct {
	TileID  string `json:"tile_id"`
	ValueID string `json:"value_id"`
}

// PlacedTile is a tile on the board
type PlacedTile struct {
	CellID          string  `json:"cell_id"`
	ValueID         string  `json:"value_id"`
	SelectedValueID *string `json:"selected_value_id,omitempty"`
}

// Score is one player's standing in a running game
type Score struct {
	PlayerID      string        `json:"player_id"`
	PlayerName    string        `json:"player_name"`
	TotalPoints   int           `json:"total_points"`
	TilesInHand   int           `json:"tiles_in_hand"`
	TimeRemaining time.Duration `json:"time_remaining"`
	TimeDepleted  bool          `json:"time_depleted"`
}

// GameDetails response type
type GameDetails struct {
	Layout              Layout           `json:"layout"`
	TileDefinitions     []TileDefinition `json:"tile_definitions"`
	PlacedTiles         []PlacedTile     `json:"placed_tiles"`
	Scores              []Score          `json:"scores"`
	CurrentTurnPlayerID string           `json:"current_turn_player_id"`
	MyHand              []Tile           `json:"my_hand"`
	TilesRemainingInBag int              `json:"tiles_remaining_in_bag"`
	Finished            bool             `json:"finished"`
}

// MoveResult response type
type MoveResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// HealthResult response type
type HealthResult struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms,omitempty"`
}

func (o *Output) printPlayer(p Player) {
	guestStr := "no"
	if p.IsGuest {
		guestStr = "yes"
	}
	fmt.Printf("Player: %s (%s)\n", p.DisplayName, p.ID)
	fmt.Printf("Guest: %s\n", guestStr)
}

func (o *Output) printToken(t TokenResult) {
	fmt.Printf("Player: %s (%s)\n", t.Name, t.PlayerID)
	fmt.Printf("Expires: %s\n", t.ExpiresAt.Format(time.RFC3339))
	fmt.Printf("Token: %s\n", t.Token)
}

func (o *Output) printLobbyList(l LobbyList) {
	for _, lobby := range l.Lobbies {
		fmt.Printf("%s  %-9s  %d players\n", lobby.LobbyID, lobby.State, lobby.PlayerCount)
	}
}

func (o *Output) printLobbyState(l LobbyState) {
	fmt.Printf("Lobby: %s\n", l.LobbyID)
	fmt.Printf("State: %s\n", l.State)
	fmt.Printf("Settings: %s, %s board, %d tiles, %d minute time bank\n",
		l.Settings.Language, l.Settings.BoardType, l.Settings.TilesCount, l.Settings.TimeBankMinutes)

	names := make(map[string]string, len(l.Players))
	for _, p := range l.Players {
		names[p.PlayerID] = p.PlayerName
	}

	fmt.Println("Seats:")
	for _, s := range l.Seats {
		occupant := "(empty)"
		if s.PlayerID != nil {
			occupant = names[*s.PlayerID]
			if s.IsBot {
				occupant += " [bot " + s.BotDifficulty + "]"
			}
		}
		admin := ""
		if s.IsAdmin {
			admin = " [admin]"
		}
		fmt.Printf("  %d. %s  %s%s\n", s.Order, s.ID, occupant, admin)
	}

	fmt.Printf("Players (%d):\n", len(l.Players))
	for _, p := range l.Players {
		fmt.Printf("  - %s (%s)\n", p.PlayerName, p.PlayerID)
	}

	if l.FinishedGame != nil {
		fmt.Println()
		o.printFinished(*l.FinishedGame)
	}
}

func (o *Output) printFinished(f FinishedGame) {
	fmt.Printf("Finished at %s after %s\n", f.FinishedAt.Format(time.RFC3339), f.GameDuration.Round(time.Second))
	players := append([]FinishedPlayer(nil), f.Players...)
	sort.SliceStable(players, func(i, j int) bool { return players[i].Points > players[j].Points })
	for i, p := range players {
		fmt.Printf("  %d. %s: %d points\n", i+1, p.PlayerName, p.Points)
	}
	for _, m := range f.MoveHistory {
		line := fmt.Sprintf("    %s +%d (%d) %s", m.PlayerName, m.GainedPoints, m.TotalPoints, strings.Join(m.Words, ", "))
		if m.BestMove != nil {
			line += fmt.Sprintf("  best: %s +%d", strings.Join(m.BestMove.Words, ", "), m.BestMove.Points)
		}
		fmt.Println(line)
	}
}

func (o *Output) printHistory(h History) {
	if len(h.Games) == 0 {
		fmt.Println("No finished games")
		return
	}
	for _, g := range h.Games {
		fmt.Printf("Game %s\n", g.ID)
		o.printFinished(g.Details)
		fmt.Println()
	}
}

func (o *Output) printGame(g GameDetails) {
	letters := make(map[string]string, len(g.TileDefinitions))
	for _, d := range g.TileDefinitions {
		letters[d.ValueID] = d.Text
	}

	placed := make(map[string]string, len(g.PlacedTiles))
	for _, p := range g.PlacedTiles {
		value := p.ValueID
		if p.SelectedValueID != nil {
			value = *p.SelectedValueID
		}
		placed[p.CellID] = strings.ToUpper(letters[value])
	}

	o.printBoard(g.Layout, placed)

	fmt.Println("\nScores:")
	for _, s := range g.Scores {
		marker := "  "
		if s.PlayerID == g.CurrentTurnPlayerID {
			marker = "> "
		}
		depleted := ""
		if s.TimeDepleted {
			depleted = " [out of time]"
		}
		fmt.Printf("%s%s: %d points, %d tiles, %s left%s\n",
			marker, s.PlayerName, s.TotalPoints, s.TilesInHand, s.TimeRemaining.Round(time.Second), depleted)
	}
	fmt.Printf("Tiles in bag: %d\n", g.TilesRemainingInBag)

	if g.MyHand != nil {
		fmt.Print("Hand:")
		for i, t := range g.MyHand {
			fmt.Printf(" %d:%s", i+1, strings.ToUpper(letters[t.ValueID]))
		}
		fmt.Println()
	}

	if g.Finished {
		fmt.Println("Game finished")
	}
}

// cellSymbols marks premium cells on an empty board
var cellSymbols = map[string]string{
	"double_letter": "d",
	"triple_letter": "t",
	"double_word":   "2",
	"triple_word":   "3",
	"center":        "*",
	"blocked":       "#",
}

func (o *Output) printBoard(layout Layout, placed map[string]string) {
	if layout.Width == 0 || len(layout.Cells) == 0 {
		return
	}

	fmt.Print("    ")
	for x := 0; x < layout.Width; x++ {
		fmt.Printf("%3d", x)
	}
	fmt.Println()

	for y := 0; y < layout.Height; y++ {
		fmt.Printf("%3d ", y)
		for x := 0; x < layout.Width; x++ {
			cell := layout.Cells[y*layout.Width+x]
			symbol := "."
			if letter, ok := placed[cell.ID]; ok {
				symbol = letter
			} else if s, ok := cellSymbols[cell.Type]; ok {
				symbol = s
			}
			fmt.Printf("%3s", symbol)
		}
		fmt.Println()
	}
}

func (o *Output) printMoveResult(m MoveResult) {
	if m.Success {
		fmt.Println("Move accepted")
		return
	}
	fmt.Printf("Move rejected: %s (%s)\n", m.Message, m.Error)
}
