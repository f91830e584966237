package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/lettergame/internal/api/handler"
	"github.com/mcoot/lettergame/internal/api/middleware"
	"github.com/mcoot/lettergame/internal/api/response"
	sharedmw "github.com/mcoot/lettergame/internal/middleware"
	"github.com/mcoot/lettergame/internal/realtime"
	"github.com/mcoot/lettergame/internal/services/auth"
	"github.com/mcoot/lettergame/internal/services/lobby"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	AuthService auth.ServiceInterface
	Lobbies     *lobby.Manager
	HubManager  *realtime.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.AuthService)
	lobbyHandler := handler.NewLobbyHandler(cfg.Lobbies)
	gameHandler := handler.NewGameHandler(cfg.Lobbies)
	eventsHandler := handler.NewEventsHandler(cfg.Lobbies, cfg.HubManager)

	authMiddleware := middleware.Auth(cfg.AuthService)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(sharedmw.Logging(cfg.Logger))

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Auth routes issue tokens, so they sit outside the auth middleware
	api.HandleFunc("/auth/login", playerHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/validate", playerHandler.Validate).Methods(http.MethodPost)
	api.HandleFunc("/auth/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/password-login", playerHandler.PasswordLogin).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware)

	protected.HandleFunc("/auth/logout", playerHandler.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/players/me", playerHandler.GetMe).Methods(http.MethodGet)

	protected.HandleFunc("/lobbies", lobbyHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/lobbies/{lobbyID}/join", lobbyHandler.Join).Methods(http.MethodPost)
	protected.HandleFunc("/lobbies/{lobbyID}/history", lobbyHandler.History).Methods(http.MethodGet)
	protected.HandleFunc("/games/{recordID}", lobbyHandler.Record).Methods(http.MethodGet)

	// The caller's current lobby, resolved from the connection id
	protected.HandleFunc("/lobby", lobbyHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/lobby/leave", lobbyHandler.Leave).Methods(http.MethodPost)
	protected.HandleFunc("/lobby/disconnect", lobbyHandler.Disconnect).Methods(http.MethodPost)
	protected.HandleFunc("/lobby/seats/{seatID}", lobbyHandler.JoinSeat).Methods(http.MethodPost)
	protected.HandleFunc("/lobby/seat", lobbyHandler.LeaveSeat).Methods(http.MethodDelete)
	protected.HandleFunc("/lobby/settings", lobbyHandler.UpdateSettings).Methods(http.MethodPut)
	protected.HandleFunc("/lobby/seats/{seatID}/bot", lobbyHandler.AddBot).Methods(http.MethodPost)
	protected.HandleFunc("/lobby/seats/{seatID}/bot", lobbyHandler.RemoveBot).Methods(http.MethodDelete)
	protected.HandleFunc("/lobby/start", lobbyHandler.Start).Methods(http.MethodPost)
	protected.HandleFunc("/lobby/chat", lobbyHandler.Chat).Methods(http.MethodPost)

	protected.HandleFunc("/lobby/game", gameHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/lobby/game/move", gameHandler.Move).Methods(http.MethodPost)
	protected.HandleFunc("/lobby/game/swap", gameHandler.Swap).Methods(http.MethodPost)
	protected.HandleFunc("/lobby/game/skip", gameHandler.Skip).Methods(http.MethodPost)

	protected.HandleFunc("/lobby/events", eventsHandler.SSE).Methods(http.MethodGet)
	protected.HandleFunc("/lobby/ws", eventsHandler.Websocket).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Status{Status: "ok"})
}
