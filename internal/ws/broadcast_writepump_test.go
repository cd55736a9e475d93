package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/hackersim/backend/internal/state"
)

// TestWritePump_RemovesClientOnWriteError verifies that a client whose
// connection dies mid-snapshot is dropped from the broadcaster's client map
// instead of lingering and eating future sends.
func TestWritePump_RemovesClientOnWriteError(t *testing.T) {
	srv, serverConn := dialTestWS(t)
	defer srv.Close()

	store := state.NewStore(state.NewGameState())
	store.Update([]string{state.FieldXP}, func(g *state.GameState) {
		g.XP = 150
	})
	b := NewBroadcaster(store, time.Hour, time.Hour, 0)
	defer b.Stop()

	// Build the client by hand so writePump starts only after the queue is
	// primed.
	c := &client{
		conn: serverConn,
		b:    b,
		send: make(chan []byte, 64),
	}
	b.mu.Lock()
	b.clients[c] = true
	b.mu.Unlock()

	if got := b.ClientCount(); got != 1 {
		t.Fatalf("expected 1 client before test, got %d", got)
	}

	// Kill the connection, then queue a real snapshot: the write fails and
	// writePump must remove the client.
	serverConn.Close()

	data, err := json.Marshal(b.snapshotMessage())
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	c.send <- data

	go c.writePump()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if b.ClientCount() == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("client not removed after write error; ClientCount = %d", b.ClientCount())
}
