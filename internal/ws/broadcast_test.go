package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/hackersim/backend/internal/event"
	"github.com/hackersim/backend/internal/state"
)

func newTestBroadcaster(store *state.Store) *Broadcaster {
	return &Broadcaster{
		clients:  make(map[*client]bool),
		store:    store,
		throttle: time.Millisecond,
		done:     make(chan struct{}),
	}
}

func TestSnapshotMessage(t *testing.T) {
	g := state.NewGameState()
	g.XP = 150
	b := newTestBroadcaster(state.NewStore(g))

	msg := b.snapshotMessage()
	if msg.Type != MsgSnapshot {
		t.Fatalf("type = %s, want snapshot", msg.Type)
	}
	payload, ok := msg.Payload.(SnapshotPayload)
	if !ok {
		t.Fatalf("payload type %T", msg.Payload)
	}
	if payload.State.XP != 150 {
		t.Errorf("snapshot xp = %d, want 150", payload.State.XP)
	}
	// 150 XP is level 2 with 50 into the 115 needed for level 3.
	if payload.Progress.Level != 2 || payload.Progress.CurrentXP != 50 {
		t.Errorf("progress = %+v", payload.Progress)
	}
}

func TestSnapshotMessage_RoundTripsAsJSON(t *testing.T) {
	b := newTestBroadcaster(state.NewStore(state.NewGameState()))

	data, err := json.Marshal(b.snapshotMessage())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded struct {
		Type    MessageType `json:"type"`
		Payload struct {
			State struct {
				PlayerID string `json:"playerId"`
				Level    int    `json:"level"`
			} `json:"state"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Type != MsgSnapshot || decoded.Payload.State.Level != 1 {
		t.Errorf("decoded = %+v", decoded)
	}
	if decoded.Payload.State.PlayerID == "" {
		t.Error("player id missing from wire format")
	}
}

func TestQueueStateChanged_CoalescesWithinThrottle(t *testing.T) {
	b := newTestBroadcaster(state.NewStore(state.NewGameState()))
	b.throttle = 50 * time.Millisecond

	for i := 0; i < 10; i++ {
		b.QueueStateChanged()
	}

	b.flushMu.Lock()
	if !b.statePending {
		t.Error("no pending state after queueing")
	}
	timers := b.flushTimer
	b.flushMu.Unlock()
	if timers == nil {
		t.Fatal("no flush timer scheduled")
	}

	// After the window the pending flag clears even with zero clients.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		b.flushMu.Lock()
		cleared := !b.statePending && b.flushTimer == nil
		b.flushMu.Unlock()
		if cleared {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("flush never ran")
}

func TestAttachBus_ForwardsEvents(t *testing.T) {
	store := state.NewStore(state.NewGameState())
	b := NewBroadcaster(store, time.Millisecond, time.Hour, 0)
	defer b.Stop()

	bus := event.NewBus()
	b.AttachBus(bus)

	srv, serverConn, clientConn := dialTestWSPair(t)
	defer srv.Close()
	defer clientConn.Close()
	if _, err := b.AddClient(serverConn); err != nil {
		t.Fatal(err)
	}

	bus.Emit(event.TopicBadgeUnlocked, "script_kiddie")

	// The connect snapshot arrives first; keep reading until the event shows
	// up or the deadline passes.
	clientConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		_, data, err := clientConn.ReadMessage()
		if err != nil {
			t.Fatalf("event never arrived: %v", err)
		}
		var msg struct {
			Type    MessageType `json:"type"`
			Payload struct {
				Topic string `json:"topic"`
				Data  string `json:"data"`
			} `json:"payload"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if msg.Type != MsgEvent {
			continue
		}
		if msg.Payload.Topic != event.TopicBadgeUnlocked || msg.Payload.Data != "script_kiddie" {
			t.Errorf("event payload = %+v", msg.Payload)
		}
		return
	}
}

func TestRemoveClient_Idempotent(t *testing.T) {
	b := newTestBroadcaster(state.NewStore(state.NewGameState()))

	srv, serverConn := dialTestWS(t)
	defer srv.Close()

	c := newClient(serverConn, b)
	b.mu.Lock()
	b.clients[c] = true
	b.mu.Unlock()

	b.RemoveClient(c)
	b.RemoveClient(c) // second removal must not panic on the closed channel

	if got := b.ClientCount(); got != 0 {
		t.Errorf("clientCount = %d, want 0", got)
	}
}
