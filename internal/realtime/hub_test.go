package realtime

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/lettergame/internal/model"
	"github.com/mcoot/lettergame/internal/testutil"
)

type disconnectRecorder struct {
	mu    sync.Mutex
	calls []string
}

func (d *disconnectRecorder) handle(connectionID string, _ uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, connectionID)
}

func (d *disconnectRecorder) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

type HubSuite struct {
	suite.Suite
	manager     *HubManager
	disconnects *disconnectRecorder
	lobbyID     uuid.UUID
	alice, bob  uuid.UUID
}

func TestHubSuite(t *testing.T) {
	suite.Run(t, new(HubSuite))
}

func (s *HubSuite) SetupTest() {
	s.manager = NewHubManager(testutil.NopLogger())
	s.disconnects = &disconnectRecorder{}
	s.manager.SetDisconnectHandler(s.disconnects.handle)
	s.lobbyID = uuid.New()
	s.alice = uuid.New()
	s.bob = uuid.New()
}

func (s *HubSuite) TearDownTest() {
	s.manager.Close()
}

func (s *HubSuite) receive(c *Client) message {
	select {
	case msg := <-c.send:
		return msg
	case <-time.After(time.Second):
		s.FailNow("timed out waiting for message")
		return message{}
	}
}

func (s *HubSuite) assertSilent(c *Client) {
	select {
	case msg := <-c.send:
		s.Failf("unexpected message", "got %s", msg.event)
	case <-time.After(20 * time.Millisecond):
	}
}

func (s *HubSuite) decode(msg message) model.Event {
	var event model.Event
	s.Require().NoError(json.Unmarshal(msg.data, &event))
	return event
}

func (s *HubSuite) waitForClients(n int) {
	s.Require().Eventually(func() bool {
		hub := s.manager.GetHub(s.lobbyID)
		return hub != nil && hub.ClientCount() == n
	}, time.Second, time.Millisecond)
}

func (s *HubSuite) TestSendToGroupReachesEveryone() {
	a := s.manager.Subscribe(s.lobbyID, s.alice, "a")
	b := s.manager.Subscribe(s.lobbyID, s.bob, "b")

	s.manager.SendToGroup(s.lobbyID, model.EventNotification, model.Notification{Message: "Game has started."})

	for _, c := range []*Client{a, b} {
		msg := s.receive(c)
		s.Equal(model.EventNotification, msg.event)
		event := s.decode(msg)
		s.Equal(s.lobbyID, event.LobbyID)
		s.Nil(event.PlayerID)
		s.Equal("Game has started.", event.Data.(map[string]any)["message"])
	}
}

func (s *HubSuite) TestSendToPlayerIsPrivate() {
	a := s.manager.Subscribe(s.lobbyID, s.alice, "a")
	b := s.manager.Subscribe(s.lobbyID, s.bob, "b")

	s.manager.SendToPlayer(s.lobbyID, s.bob, model.EventGameUpdated, map[string]int{"tiles": 7})

	event := s.decode(s.receive(b))
	s.Equal(model.EventGameUpdated, event.Type)
	s.Require().NotNil(event.PlayerID)
	s.Equal(s.bob, *event.PlayerID)
	s.assertSilent(a)
}

func (s *HubSuite) TestOtherLobbiesAreIsolated() {
	a := s.manager.Subscribe(s.lobbyID, s.alice, "a")

	s.manager.SendToGroup(uuid.New(), model.EventChatMessage, model.ChatMessage{Message: "hi"})

	s.assertSilent(a)
}

func (s *HubSuite) TestLastStreamReportsDisconnect() {
	first := s.manager.Subscribe(s.lobbyID, s.alice, "tab")
	second := s.manager.Subscribe(s.lobbyID, s.alice, "tab")

	s.manager.Unsubscribe(first)
	s.Zero(s.disconnects.count())

	s.manager.Unsubscribe(second)
	s.Equal(1, s.disconnects.count())
	s.Equal("tab", s.disconnects.calls[0])
}

func (s *HubSuite) TestUnsubscribeClosesStream() {
	c := s.manager.Subscribe(s.lobbyID, s.alice, "a")

	s.manager.Unsubscribe(c)

	_, ok := <-c.send
	s.False(ok)
	s.Equal(0, s.manager.GetHub(s.lobbyID).ClientCount())
}

func (s *HubSuite) TestCleanupEmptyHubs() {
	c := s.manager.Subscribe(s.lobbyID, s.alice, "a")
	empty := uuid.New()
	s.manager.GetOrCreateHub(empty)

	s.manager.CleanupEmptyHubs()

	s.Nil(s.manager.GetHub(empty))
	s.NotNil(s.manager.GetHub(s.lobbyID))
	s.manager.Unsubscribe(c)
}

func (s *HubSuite) TestCleanupKeepsHubOfFreshSubscriber() {
	c := s.manager.Subscribe(s.lobbyID, s.alice, "a")
	hub := s.manager.GetHub(s.lobbyID)

	s.manager.CleanupEmptyHubs()

	s.Same(hub, s.manager.GetHub(s.lobbyID))
	s.manager.SendToGroup(s.lobbyID, model.EventNotification, "hi")
	select {
	case msg, ok := <-c.send:
		s.Require().True(ok)
		s.Equal(model.EventNotification, msg.event)
	case <-time.After(time.Second):
		s.Fail("subscriber stopped receiving after cleanup")
	}

	s.manager.Unsubscribe(c)
	s.manager.CleanupEmptyHubs()
	s.Nil(s.manager.GetHub(s.lobbyID))
}

func (s *HubSuite) TestServeSSE() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.manager.ServeSSE(w, r, s.lobbyID, s.alice, "sse")
	}))
	defer server.Close()

	resp, err := http.Get(server.URL)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal("text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	s.Require().NoError(err)
	s.Equal("event: connected\n", line)
	_, _ = reader.ReadString('\n')
	_, _ = reader.ReadString('\n')

	s.manager.SendToGroup(s.lobbyID, model.EventChatMessage, model.ChatMessage{PlayerName: "bob", Message: "hello"})

	line, err = reader.ReadString('\n')
	s.Require().NoError(err)
	s.Equal("event: chat\n", line)
	line, err = reader.ReadString('\n')
	s.Require().NoError(err)
	s.True(strings.HasPrefix(line, "data: {"))
	s.Contains(line, `"message":"hello"`)
}

func (s *HubSuite) TestServeWebsocket() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.manager.ServeWebsocket(w, r, s.lobbyID, s.alice, "ws")
	}))
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	s.Require().NoError(err)
	s.waitForClients(1)

	s.manager.SendToPlayer(s.lobbyID, s.alice, model.EventLobbyUpdated, map[string]string{"state": "lobby"})

	var event model.Event
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(time.Second)))
	s.Require().NoError(conn.ReadJSON(&event))
	s.Equal(model.EventLobbyUpdated, event.Type)
	s.Equal(s.lobbyID, event.LobbyID)

	s.Require().NoError(conn.Close())
	s.Eventually(func() bool { return s.disconnects.count() == 1 }, time.Second, time.Millisecond)
}

func TestFormatSSEMessage(t *testing.T) {
	tests := []struct {
		name     string
		event    string
		data     string
		expected string
	}{
		{
			name:     "single line",
			event:    "chat",
			data:     `{"a":1}`,
			expected: "event: chat\ndata: {\"a\":1}\n\n",
		},
		{
			name:     "multi line",
			event:    "notification",
			data:     "one\r\ntwo\n",
			expected: "event: notification\ndata: one\ndata: two\n\n",
		},
		{
			name:     "empty",
			event:    "ping",
			data:     "",
			expected: "event: ping\ndata: \n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(formatSSEMessage(tt.event, tt.data)); got != tt.expected {
				t.Errorf("formatSSEMessage(%q, %q)\ngot:  %q\nwant: %q", tt.event, tt.data, got, tt.expected)
			}
		})
	}
}
