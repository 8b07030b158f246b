package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ashwinpillai/eclauction/internal/auction"
	"github.com/ashwinpillai/eclauction/internal/logger"
	"github.com/ashwinpillai/eclauction/internal/models"
)

// mockSnapshotProvider returns a fixed snapshot for new clients
type mockSnapshotProvider struct {
	snap auction.Snapshot
}

func (m *mockSnapshotProvider) Snapshot() auction.Snapshot {
	return m.snap
}

func newTestHub() (*Hub, *mockSnapshotProvider) {
	provider := &mockSnapshotProvider{
		snap: auction.Snapshot{SessionID: "test-session", Version: 1, State: auction.StateIntro},
	}
	return New(logger.New(), provider), provider
}

func TestNew_CreatesHubWithDependencies(t *testing.T) {
	hub, _ := newTestHub()

	if hub == nil {
		t.Fatal("expected hub to be created")
	}
	if hub.log == nil {
		t.Error("expected logger to be set")
	}
	if hub.session == nil {
		t.Error("expected snapshot provider to be set")
	}
	if hub.clients == nil {
		t.Error("expected clients map to be initialized")
	}
	if hub.broadcast == nil || hub.register == nil || hub.unregister == nil {
		t.Error("expected channels to be initialized")
	}
}

func TestHub_BroadcastWithNoClients(t *testing.T) {
	hub, _ := newTestHub()
	hub.Start()

	time.Sleep(10 * time.Millisecond)

	// Broadcasting must not block even with no clients
	done := make(chan bool)
	go func() {
		hub.BroadcastSnapshot(auction.Snapshot{Version: 2})
		done <- true
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Error("BroadcastSnapshot blocked with no clients")
	}
}

func TestHub_ClientRegistration(t *testing.T) {
	hub, _ := newTestHub()
	hub.Start()

	time.Sleep(10 * time.Millisecond)

	client := &Client{
		hub:  hub,
		send: make(chan models.WSMessage, 256),
	}

	hub.register <- client
	time.Sleep(50 * time.Millisecond)

	hub.mutex.RLock()
	_, exists := hub.clients[client]
	hub.mutex.RUnlock()

	if !exists {
		t.Error("expected client to be registered")
	}
}

func TestHub_ClientUnregistration(t *testing.T) {
	hub, _ := newTestHub()
	hub.Start()

	time.Sleep(10 * time.Millisecond)

	client := &Client{
		hub:  hub,
		send: make(chan models.WSMessage, 256),
	}

	hub.register <- client
	time.Sleep(50 * time.Millisecond)

	hub.unregister <- client
	time.Sleep(50 * time.Millisecond)

	hub.mutex.RLock()
	_, exists := hub.clients[client]
	hub.mutex.RUnlock()

	if exists {
		t.Error("expected client to be unregistered")
	}
}

func TestServeWs_ClientConnection(t *testing.T) {
	hub, _ := newTestHub()
	hub.Start()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()

	url := "ws" + server.URL[4:]

	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer ws.Close()

	time.Sleep(100 * time.Millisecond)

	hub.mutex.RLock()
	clientCount := len(hub.clients)
	hub.mutex.RUnlock()

	if clientCount != 1 {
		t.Errorf("expected 1 client, got %d", clientCount)
	}
}

func TestServeWs_NewClientReceivesSnapshot(t *testing.T) {
	hub, provider := newTestHub()
	provider.snap.Version = 7
	hub.Start()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()

	ws, _, err := websocket.DefaultDialer.Dial("ws"+server.URL[4:], nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer ws.Close()

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read initial snapshot: %v", err)
	}

	var msg struct {
		Type    string           `json:"type"`
		Payload auction.Snapshot `json:"payload"`
	}
	if err := json.Unmarshal(message, &msg); err != nil {
		t.Fatalf("failed to unmarshal message: %v", err)
	}
	if msg.Type != "snapshot" {
		t.Errorf("expected type 'snapshot', got %s", msg.Type)
	}
	if msg.Payload.Version != 7 || msg.Payload.SessionID != "test-session" {
		t.Errorf("unexpected snapshot payload: %+v", msg.Payload)
	}
}

func TestServeWs_BroadcastToClient(t *testing.T) {
	hub, _ := newTestHub()
	hub.Start()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()

	ws, _, err := websocket.DefaultDialer.Dial("ws"+server.URL[4:], nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer ws.Close()

	time.Sleep(100 * time.Millisecond)

	// Discard the initial snapshot
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := ws.ReadMessage(); err != nil {
		t.Fatalf("failed to read initial snapshot: %v", err)
	}

	hub.BroadcastSnapshot(auction.Snapshot{Version: 42, State: auction.StateOpen})

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read broadcast: %v", err)
	}

	var msg struct {
		Type    string           `json:"type"`
		Payload auction.Snapshot `json:"payload"`
	}
	if err := json.Unmarshal(message, &msg); err != nil {
		t.Fatalf("failed to unmarshal message: %v", err)
	}
	if msg.Payload.Version != 42 {
		t.Errorf("expected version 42, got %d", msg.Payload.Version)
	}
}

func TestServeWs_ClientDisconnect(t *testing.T) {
	hub, _ := newTestHub()
	hub.Start()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()

	ws, _, err := websocket.DefaultDialer.Dial("ws"+server.URL[4:], nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	ws.Close()
	time.Sleep(200 * time.Millisecond)

	hub.mutex.RLock()
	clientCount := len(hub.clients)
	hub.mutex.RUnlock()

	if clientCount != 0 {
		t.Errorf("expected 0 clients after disconnect, got %d", clientCount)
	}
}

func TestServeWs_MultipleClientsReceiveBroadcast(t *testing.T) {
	hub, _ := newTestHub()
	hub.Start()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()

	url := "ws" + server.URL[4:]

	var conns []*websocket.Conn
	for i := 0; i < 3; i++ {
		ws, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			t.Fatalf("failed to connect client %d: %v", i+1, err)
		}
		defer ws.Close()
		conns = append(conns, ws)
	}

	time.Sleep(200 * time.Millisecond)

	// Discard initial snapshots
	for i, ws := range conns {
		ws.SetReadDeadline(time.Now().Add(2 * time.Second))
		if _, _, err := ws.ReadMessage(); err != nil {
			t.Errorf("client %d failed to read initial snapshot: %v", i+1, err)
		}
	}

	hub.mutex.RLock()
	clientCount := len(hub.clients)
	hub.mutex.RUnlock()
	if clientCount != 3 {
		t.Errorf("expected 3 clients, got %d", clientCount)
	}

	hub.BroadcastSnapshot(auction.Snapshot{Version: 9})

	for i, ws := range conns {
		ws.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, message, err := ws.ReadMessage()
		if err != nil {
			t.Errorf("client %d failed to read broadcast: %v", i+1, err)
			continue
		}

		var msg struct {
			Payload auction.Snapshot `json:"payload"`
		}
		if err := json.Unmarshal(message, &msg); err != nil {
			t.Errorf("client %d failed to unmarshal: %v", i+1, err)
			continue
		}
		if msg.Payload.Version != 9 {
			t.Errorf("client %d got version %d, want 9", i+1, msg.Payload.Version)
		}
	}
}

func TestServeWs_UpgradeError(t *testing.T) {
	hub, _ := newTestHub()
	hub.Start()

	// Plain GET without upgrade headers must not panic
	req := httptest.NewRequest("GET", "/ws", nil)
	w := httptest.NewRecorder()

	hub.ServeWs(w, req)
}

func TestWritePump_ChannelClosed(t *testing.T) {
	hub, _ := newTestHub()
	hub.Start()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()

	ws, _, err := websocket.DefaultDialer.Dial("ws"+server.URL[4:], nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer ws.Close()

	time.Sleep(100 * time.Millisecond)

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	ws.ReadMessage()

	closeReceived := make(chan bool, 1)
	ws.SetCloseHandler(func(code int, text string) error {
		closeReceived <- true
		return nil
	})

	go func() {
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	hub.mutex.RLock()
	var client *Client
	for c := range hub.clients {
		client = c
		break
	}
	hub.mutex.RUnlock()

	if client == nil {
		t.Fatal("no client found")
	}

	// Unregistering closes the send channel, which makes writePump send
	// a close frame
	hub.unregister <- client

	select {
	case <-closeReceived:
	case <-time.After(500 * time.Millisecond):
		t.Error("expected to receive close message from server")
	}
}
