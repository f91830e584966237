package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/lettergame/internal/model"
	"github.com/mcoot/lettergame/internal/services/lobby"
)

// message is one encoded event queued for delivery
type message struct {
	event  model.EventType
	target *uuid.UUID // nil delivers to every client of the hub
	data   []byte
}

// Hub manages the push streams of a single lobby
type Hub struct {
	lobbyID uuid.UUID
	clients map[*Client]bool
	mu      sync.RWMutex
	logger  *slog.Logger

	// Channels for managing clients
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	done       chan struct{}
}

// NewHub creates a new Hub for a lobby
func NewHub(lobbyID uuid.UUID, logger *slog.Logger) *Hub {
	return &Hub{
		lobbyID:    lobbyID,
		clients:    make(map[*Client]bool),
		logger:     logger.With(slog.String("lobby_id", lobbyID.String())),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Info("push hub started")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			clientCount := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("push client registered",
				slog.String("player_id", client.playerID.String()),
				slog.Int("total_clients", clientCount))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				clientCount := len(h.clients)
				h.mu.Unlock()
				h.logger.Info("push client unregistered",
					slog.String("player_id", client.playerID.String()),
					slog.Duration("connection_duration", time.Since(client.connectedAt)),
					slog.Int("total_clients", clientCount))
			} else {
				h.mu.Unlock()
			}

		case msg := <-h.broadcast:
			h.mu.RLock()
			dropped := 0
			for client := range h.clients {
				if msg.target != nil && *msg.target != client.playerID {
					continue
				}
				select {
				case client.send <- msg:
				default:
					dropped++
				}
			}
			h.mu.RUnlock()
			if dropped > 0 {
				h.logger.Warn("push messages dropped - client buffer full",
					slog.String("event", string(msg.event)),
					slog.Int("dropped", dropped))
			}

		case <-h.done:
			h.mu.Lock()
			clientCount := len(h.clients)
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("push hub stopped", slog.Int("disconnected_clients", clientCount))
			return
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) enqueue(msg message) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("push broadcast dropped - hub buffer full", slog.String("event", string(msg.event)))
	}
}

// Close shuts down the hub
func (h *Hub) Close() {
	close(h.done)
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// DisconnectHandler is told when the last stream of a connection closes
type DisconnectHandler func(connectionID string, playerID uuid.UUID)

// HubManager owns the hubs of all lobbies and delivers lobby events to them
type HubManager struct {
	hubs        map[uuid.UUID]*Hub
	streams     map[string]int    // open streams per connection id
	subscribers map[uuid.UUID]int // streams per lobby from Subscribe until Unsubscribe
	mu          sync.Mutex
	logger  *slog.Logger

	onDisconnect DisconnectHandler
}

// NewHubManager creates a new HubManager
func NewHubManager(logger *slog.Logger) *HubManager {
	return &HubManager{
		hubs:        make(map[uuid.UUID]*Hub),
		streams:     make(map[string]int),
		subscribers: make(map[uuid.UUID]int),
		logger:      logger.With(slog.String("component", "realtime")),
	}
}

// SetDisconnectHandler installs the callback for closed connections
func (m *HubManager) SetDisconnectHandler(handler DisconnectHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onDisconnect = handler
}

// GetOrCreateHub returns the hub for a lobby, creating one if it doesn't exist
func (m *HubManager) GetOrCreateHub(lobbyID uuid.UUID) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hubLocked(lobbyID)
}

func (m *HubManager) hubLocked(lobbyID uuid.UUID) *Hub {
	if hub, ok := m.hubs[lobbyID]; ok {
		return hub
	}
	hub := NewHub(lobbyID, m.logger)
	m.hubs[lobbyID] = hub
	go hub.Run()
	return hub
}

// GetHub returns the hub for a lobby, or nil if it doesn't exist
func (m *HubManager) GetHub(lobbyID uuid.UUID) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hubs[lobbyID]
}

// Subscribe opens a stream for a player's connection in a lobby
func (m *HubManager) Subscribe(lobbyID, playerID uuid.UUID, connectionID string) *Client {
	m.mu.Lock()
	hub := m.hubLocked(lobbyID)
	m.streams[connectionID]++
	// counted before Register so a cleanup in between keeps the hub
	m.subscribers[lobbyID]++
	m.mu.Unlock()

	client := NewClient(hub, playerID, connectionID)
	hub.Register(client)
	return client
}

// Unsubscribe closes a stream; closing the last stream of a connection reports a disconnect
func (m *HubManager) Unsubscribe(client *Client) {
	client.hub.Unregister(client)

	m.mu.Lock()
	lobbyID := client.hub.lobbyID
	m.subscribers[lobbyID]--
	if m.subscribers[lobbyID] <= 0 {
		delete(m.subscribers, lobbyID)
	}
	m.streams[client.connectionID]--
	last := m.streams[client.connectionID] <= 0
	if last {
		delete(m.streams, client.connectionID)
	}
	handler := m.onDisconnect
	m.mu.Unlock()

	if last && handler != nil {
		m.logger.Info("connection closed",
			slog.String("connection_id", client.connectionID),
			slog.String("player_id", client.playerID.String()))
		handler(client.connectionID, client.playerID)
	}
}

// SendToGroup delivers an event to every stream of a lobby
func (m *HubManager) SendToGroup(lobbyID uuid.UUID, event model.EventType, payload any) {
	m.send(lobbyID, nil, event, payload)
}

// SendToPlayer delivers an event to one player's streams in a lobby
func (m *HubManager) SendToPlayer(lobbyID, playerID uuid.UUID, event model.EventType, payload any) {
	m.send(lobbyID, &playerID, event, payload)
}

func (m *HubManager) send(lobbyID uuid.UUID, target *uuid.UUID, event model.EventType, payload any) {
	hub := m.GetHub(lobbyID)
	if hub == nil {
		return
	}
	data, err := json.Marshal(model.Event{Type: event, LobbyID: lobbyID, PlayerID: target, Data: payload})
	if err != nil {
		m.logger.Error("failed to encode event",
			slog.String("event", string(event)),
			slog.String("error", err.Error()))
		return
	}
	hub.enqueue(message{event: event, target: target, data: data})
}

// Close stops every hub
func (m *HubManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, hub := range m.hubs {
		hub.Close()
		delete(m.hubs, id)
	}
}

// CleanupEmptyHubs removes hubs nobody is subscribed to
func (m *HubManager) CleanupEmptyHubs() {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, hub := range m.hubs {
		if m.subscribers[id] == 0 {
			hub.Close()
			delete(m.hubs, id)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Info("empty push hubs cleaned up", slog.Int("removed", removed))
	}
}

var _ lobby.Notifier = (*HubManager)(nil)
