package e2e_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/lettergame/internal/api"
	"github.com/mcoot/lettergame/internal/factory"
	"github.com/mcoot/lettergame/internal/testutil"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "lettergame-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/lettergame")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "token"),
	}
}

// withTokenFile returns a runner for a second player sharing the binary
func (r *cliRunner) withTokenFile(path string) *cliRunner {
	return &cliRunner{
		binaryPath: r.binaryPath,
		serverURL:  r.serverURL,
		tokenFile:  path,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	cmd.Env = append(os.Environ(), "LETTERGAME_TOKEN=", "LETTERGAME_CONNECTION=")
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	app      *factory.TestApp
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	app := factory.NewTestApp()
	require.NoError(t, app.LoadTestDictionary())

	router := api.NewRouter(api.RouterConfig{
		Logger:      testutil.NopLogger(),
		AuthService: app.AuthService,
		Lobbies:     app.Lobbies,
		HubManager:  app.HubManager,
	})

	cfg := api.DefaultServerConfig()
	cfg.Addr = addr
	cfg.ShutdownTimeout = 5 * time.Second
	server := api.NewServer(router, cfg, testutil.NopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		if err := server.Run(ctx); err != nil {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		app:  app,
		addr: serverURL,
		shutdown: func() {
			cancel()
			<-stopped
			app.Close()
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type tokenResponse struct {
	Token    string `json:"token"`
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

type seatResponse struct {
	ID       string  `json:"id"`
	PlayerID *string `json:"player_id"`
	Order    int     `json:"order"`
	IsBot    bool    `json:"is_bot"`
}

type lobbyResponse struct {
	LobbyID  string         `json:"lobby_id"`
	State    string         `json:"state"`
	Seats    []seatResponse `json:"seats"`
	Settings struct {
		Language        string `json:"language"`
		TimeBankMinutes int    `json:"time_bank_minutes"`
	} `json:"settings"`
}

type lobbyListResponse struct {
	Lobbies []struct {
		LobbyID     string `json:"lobby_id"`
		State       string `json:"state"`
		PlayerCount int    `json:"player_count"`
	} `json:"lobbies"`
}

type gameResponse struct {
	CurrentTurnPlayerID string `json:"current_turn_player_id"`
	MyHand              []struct {
		TileID string `json:"tile_id"`
	} `json:"my_hand"`
	Scores []struct {
		PlayerID string `json:"player_id"`
	} `json:"scores"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func decode[T any](t *testing.T, output string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(output), &v), "output: %s", output)
	return v
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	resp := decode[struct {
		Status string `json:"status"`
	}](t, output)
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_HealthWaitGivesUp(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := "http://" + listener.Addr().String()
	require.NoError(t, listener.Close())

	cli := newCLIRunner(t, addr)
	output, err := cli.run("health", "--wait", "600ms")
	require.Error(t, err)
	assert.Contains(t, output, "not healthy after 600ms")
}

func TestCLI_LoginCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("login", "Alice")
	require.NoError(t, err, "output: %s", output)
	tok := decode[tokenResponse](t, output)
	assert.Equal(t, "Alice", tok.Name)
	assert.NotEmpty(t, tok.Token)

	// The token is saved in the token file
	output, err = cli.run("whoami")
	require.NoError(t, err, "output: %s", output)
	player := decode[struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
		IsGuest     bool   `json:"is_guest"`
	}](t, output)
	assert.Equal(t, "Alice", player.DisplayName)
	assert.Equal(t, tok.PlayerID, player.ID)
	assert.True(t, player.IsGuest)

	output, err = cli.run("validate")
	require.NoError(t, err, "output: %s", output)
	assert.True(t, decode[struct {
		Valid bool `json:"valid"`
	}](t, output).Valid)
}

func TestCLI_RegisterAndPasswordLogin(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("register", "--user", "carol", "--pass", "hunter22", "--name", "Carol")
	require.NoError(t, err, "output: %s", output)
	registered := decode[tokenResponse](t, output)
	assert.Equal(t, "Carol", registered.Name)

	other := cli.withTokenFile(filepath.Join(t.TempDir(), "token2"))
	output, err = other.run("login", "--user", "carol", "--pass", "hunter22")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, registered.PlayerID, decode[tokenResponse](t, output).PlayerID)

	output, err = other.run("login", "--user", "carol", "--pass", "nope")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "invalid credentials")
}

func TestCLI_LobbyAndGameFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	alice := newCLIRunner(t, ts.addr)
	bob := alice.withTokenFile(filepath.Join(t.TempDir(), "token2"))

	output, err := alice.run("login", "Alice")
	require.NoError(t, err, "output: %s", output)
	aliceTok := decode[tokenResponse](t, output)

	output, err = bob.run("login", "Bob")
	require.NoError(t, err, "output: %s", output)
	bobTok := decode[tokenResponse](t, output)

	output, err = alice.run("lobby", "list")
	require.NoError(t, err, "output: %s", output)
	list := decode[lobbyListResponse](t, output)
	require.Len(t, list.Lobbies, factory.TestLobbyCount)
	lobbyID := list.Lobbies[0].LobbyID

	_, err = alice.run("lobby", "join", lobbyID)
	require.NoError(t, err)
	_, err = bob.run("lobby", "join", lobbyID)
	require.NoError(t, err)

	// Seats are addressed by number
	output, err = alice.run("lobby", "seat", "1")
	require.NoError(t, err, "output: %s", output)
	output, err = bob.run("lobby", "seat", "2")
	require.NoError(t, err, "output: %s", output)
	state := decode[lobbyResponse](t, output)
	require.NotNil(t, state.Seats[1].PlayerID)
	assert.Equal(t, bobTok.PlayerID, *state.Seats[1].PlayerID)

	// Only the admin may change settings
	_, err = bob.run("lobby", "settings", "--language", "english")
	assert.Error(t, err)

	output, err = alice.run("lobby", "settings", "--language", "english", "--time-bank", "5")
	require.NoError(t, err, "output: %s", output)
	state = decode[lobbyResponse](t, output)
	assert.Equal(t, "english", state.Settings.Language)
	assert.Equal(t, 5, state.Settings.TimeBankMinutes)

	output, err = alice.run("lobby", "bot", "add", "3", "--difficulty", "easy")
	require.NoError(t, err, "output: %s", output)
	output, err = alice.run("lobby", "bot", "remove", "3")
	require.NoError(t, err, "output: %s", output)
	assert.False(t, decode[lobbyResponse](t, output).Seats[2].IsBot)

	output, err = bob.run("lobby", "chat", "good", "luck")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "Sent", decode[messageResponse](t, output).Message)

	output, err = alice.run("lobby", "start")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "game", decode[lobbyResponse](t, output).State)

	output, err = alice.run("game", "show")
	require.NoError(t, err, "output: %s", output)
	game := decode[gameResponse](t, output)
	assert.Len(t, game.MyHand, 7)
	assert.Len(t, game.Scores, 2)

	// Turn order is shuffled at the start
	first, second := alice, bob
	firstID := aliceTok.PlayerID
	if game.CurrentTurnPlayerID == bobTok.PlayerID {
		first, second = bob, alice
		firstID = bobTok.PlayerID
	}
	require.Equal(t, firstID, game.CurrentTurnPlayerID)

	_, err = second.run("game", "skip")
	assert.Error(t, err, "the player without the turn cannot act")

	output, err = first.run("game", "skip")
	require.NoError(t, err, "output: %s", output)

	output, err = second.run("game", "swap", "1", "2")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "Swapped 2 tiles", decode[messageResponse](t, output).Message)

	output, err = alice.run("game", "show")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, firstID, decode[gameResponse](t, output).CurrentTurnPlayerID)

	// A placement outside the board is rejected before reaching the server
	output, err = alice.run("game", "move", "1@99,99")
	assert.Error(t, err)
	assert.Contains(t, output, "out of range")

	output, err = alice.run("lobby", "history", lobbyID)
	require.NoError(t, err, "output: %s", output)
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("whoami")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "unauthorized")

	_, err = cli.run("login", "Alice")
	require.NoError(t, err)

	output, err = cli.run("lobby", "show")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not in a lobby")

	output, err = cli.run("lobby", "join", "00000000-0000-0000-0000-000000000000")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")
}
