package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hackersim/backend/internal/state"
)

// dialTestWS creates a test HTTP server that upgrades to WebSocket and returns
// the server-side connection. The caller must close the server.
func dialTestWS(t *testing.T) (*httptest.Server, *websocket.Conn) {
	t.Helper()
	srv, serverConn, clientConn := dialTestWSPair(t)
	_ = clientConn.Close()
	return srv, serverConn
}

// dialTestWSPair is dialTestWS keeping the client side open, for tests that
// read what the broadcaster sends.
func dialTestWSPair(t *testing.T) (*httptest.Server, *websocket.Conn, *websocket.Conn) {
	t.Helper()

	connCh := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		connCh <- c
	}))

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	clientConn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial: %v", err)
	}

	select {
	case serverConn := <-connCh:
		return srv, serverConn, clientConn
	case <-time.After(2 * time.Second):
		srv.Close()
		t.Fatal("timed out waiting for server-side WebSocket connection")
		return nil, nil, nil
	}
}

func TestAddClient_MaxConnections(t *testing.T) {
	const maxConns = 2

	store := state.NewStore(state.NewGameState())
	store.Update([]string{state.FieldXP, state.FieldLevel}, func(g *state.GameState) {
		g.XP = 215
		g.Level = 3
	})
	b := NewBroadcaster(store, 100*time.Millisecond, time.Hour, maxConns)
	defer b.Stop()

	// The first player connects and receives the current game snapshot.
	srv1, serverConn1, clientConn1 := dialTestWSPair(t)
	defer srv1.Close()
	c1, err := b.AddClient(serverConn1)
	if err != nil {
		t.Fatalf("AddClient: %v", err)
	}

	clientConn1.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := clientConn1.ReadMessage()
	if err != nil {
		t.Fatalf("read join snapshot: %v", err)
	}
	var joined struct {
		Type    MessageType `json:"type"`
		Payload struct {
			State struct {
				XP int `json:"xp"`
			} `json:"state"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(raw, &joined); err != nil {
		t.Fatalf("unmarshal join snapshot: %v", err)
	}
	if joined.Type != MsgSnapshot || joined.Payload.State.XP != 215 {
		t.Fatalf("join message = %s xp=%d, want snapshot xp=215", joined.Type, joined.Payload.State.XP)
	}

	// A second viewer fills the last slot.
	srv2, serverConn2 := dialTestWS(t)
	defer srv2.Close()
	if _, err := b.AddClient(serverConn2); err != nil {
		t.Fatalf("AddClient at limit: %v", err)
	}

	// The next one is turned away.
	srv3, serverConn3 := dialTestWS(t)
	defer srv3.Close()
	if _, err := b.AddClient(serverConn3); !errors.Is(err, ErrTooManyConnections) {
		t.Fatalf("expected ErrTooManyConnections, got %v", err)
	}
	if got := b.ClientCount(); got != maxConns {
		t.Fatalf("expected %d clients after rejection, got %d", maxConns, got)
	}

	// A slot freed by a leaving viewer reopens.
	b.RemoveClient(c1)

	srv4, serverConn4 := dialTestWS(t)
	defer srv4.Close()
	if _, err := b.AddClient(serverConn4); err != nil {
		t.Fatalf("AddClient after removal: %v", err)
	}
	if got := b.ClientCount(); got != maxConns {
		t.Fatalf("expected %d clients after re-add, got %d", maxConns, got)
	}
}

func TestAddClient_ZeroMaxConnections_Unlimited(t *testing.T) {
	store := state.NewStore(state.NewGameState())
	b := NewBroadcaster(store, 100*time.Millisecond, time.Hour, 0)
	defer b.Stop()

	var servers []*httptest.Server
	for i := 0; i < 10; i++ {
		srv, conn := dialTestWS(t)
		servers = append(servers, srv)

		if _, err := b.AddClient(conn); err != nil {
			t.Fatalf("AddClient[%d]: unexpected error with maxConns=0: %v", i, err)
		}
	}

	if got := b.ClientCount(); got != 10 {
		t.Fatalf("expected 10 clients, got %d", got)
	}

	for _, srv := range servers {
		srv.Close()
	}
}
