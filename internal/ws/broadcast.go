package ws

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hackersim/backend/internal/event"
	"github.com/hackersim/backend/internal/progress"
	"github.com/hackersim/backend/internal/state"
	"github.com/hackersim/backend/internal/telemetry"
)

// ErrTooManyConnections is returned by AddClient when the connection limit
// has been reached.
var ErrTooManyConnections = errors.New("too many websocket connections")

type client struct {
	conn *websocket.Conn
	b    *Broadcaster
	send chan []byte
}

func newClient(conn *websocket.Conn, b *Broadcaster) *client {
	c := &client{
		conn: conn,
		b:    b,
		send: make(chan []byte, 64),
	}
	go c.writePump()
	return c
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			c.b.RemoveClient(c)
			return
		}
	}
}

func (c *client) close() {
	close(c.send)
}

// Broadcaster pushes game state and events to websocket clients. Bus events
// go out immediately; state changes are coalesced behind a throttle so a
// burst of updates produces one snapshot. A periodic loop re-sends the full
// snapshot plus host telemetry so late or lossy clients converge.
type Broadcaster struct {
	mu       sync.RWMutex
	clients  map[*client]bool
	maxConns int

	store          *state.Store
	throttle       time.Duration
	snapshotTicker *time.Ticker
	done           chan struct{}

	flushMu      sync.Mutex
	statePending bool
	flushTimer   *time.Timer
}

// NewBroadcaster starts the snapshot loop. maxConns 0 means unlimited.
func NewBroadcaster(store *state.Store, throttle, snapshotInterval time.Duration, maxConns int) *Broadcaster {
	b := &Broadcaster{
		clients:  make(map[*client]bool),
		maxConns: maxConns,
		store:    store,
		throttle: throttle,
		done:     make(chan struct{}),
	}

	b.snapshotTicker = time.NewTicker(snapshotInterval)
	go b.snapshotLoop()

	return b
}

// Stop ends the snapshot loop and disconnects every client.
func (b *Broadcaster) Stop() {
	b.snapshotTicker.Stop()
	close(b.done)

	b.mu.Lock()
	for c := range b.clients {
		delete(b.clients, c)
		c.close()
	}
	b.mu.Unlock()
}

// AttachBus forwards every bus event to connected clients and queues a
// throttled snapshot after each one.
func (b *Broadcaster) AttachBus(bus *event.Bus) {
	bus.SubscribeAll(func(topic string, payload any) {
		b.broadcast(WSMessage{
			Type:    MsgEvent,
			Payload: EventPayload{Topic: topic, Data: payload},
		})
		b.QueueStateChanged()
	})
}

func (b *Broadcaster) AddClient(conn *websocket.Conn) (*client, error) {
	b.mu.Lock()
	if b.maxConns > 0 && len(b.clients) >= b.maxConns {
		b.mu.Unlock()
		return nil, ErrTooManyConnections
	}
	c := newClient(conn, b)
	b.clients[c] = true
	b.mu.Unlock()

	data, _ := json.Marshal(b.snapshotMessage())
	select {
	case c.send <- data:
	default:
		// Client too slow, drop the snapshot
	}

	return c, nil
}

func (b *Broadcaster) RemoveClient(c *client) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		c.close()
	}
	b.mu.Unlock()
}

// QueueStateChanged schedules a snapshot broadcast after the throttle
// window. Repeated calls within the window coalesce into one send.
func (b *Broadcaster) QueueStateChanged() {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	b.statePending = true
	if b.flushTimer == nil {
		b.flushTimer = time.AfterFunc(b.throttle, b.flush)
	}
}

func (b *Broadcaster) flush() {
	b.flushMu.Lock()
	pending := b.statePending
	b.statePending = false
	b.flushTimer = nil
	b.flushMu.Unlock()

	if !pending {
		return
	}
	b.broadcast(b.snapshotMessage())
}

func (b *Broadcaster) snapshotMessage() WSMessage {
	snap := b.store.Snapshot()
	return WSMessage{
		Type: MsgSnapshot,
		Payload: SnapshotPayload{
			State:    snap,
			Progress: progress.XPProgress(snap.XP),
		},
	}
}

func (b *Broadcaster) snapshotLoop() {
	for {
		select {
		case <-b.done:
			return
		case <-b.snapshotTicker.C:
			b.broadcast(b.snapshotMessage())
			b.broadcast(WSMessage{
				Type:    MsgTelemetry,
				Payload: TelemetryPayload{Host: telemetry.Sample()},
			})
		}
	}
}

func (b *Broadcaster) broadcast(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("broadcast marshal error: %v", err)
		return
	}

	b.mu.RLock()
	clients := make([]*client, 0, len(b.clients))
	for c := range b.clients {
		clients = append(clients, c)
	}
	b.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- data:
		default:
			// Client can't keep up, disconnect it
			log.Printf("ws client too slow, disconnecting")
			b.RemoveClient(c)
		}
	}
}

func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}
