package state

import (
	"log"
	"sync"
)

// Subscriber receives the post-write snapshot after a field it watches has
// changed.
type Subscriber func(*GameState)

// Store guards the game state behind a mutex and notifies field-keyed
// subscribers after every write. All reads are deep-copy snapshots, so a
// caller never observes a partially applied update.
type Store struct {
	mu   sync.RWMutex
	game *GameState

	subMu sync.RWMutex
	subs  map[string][]Subscriber
}

func NewStore(g *GameState) *Store {
	return &Store{game: g, subs: make(map[string][]Subscriber)}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() *GameState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game.Clone()
}

// Subscribe registers fn to be called with a fresh snapshot whenever an
// update names the given field.
func (s *Store) Subscribe(field string, fn Subscriber) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subs[field] = append(s.subs[field], fn)
}

// Update applies fn to the state under the write lock, then notifies the
// subscribers of every named field with the post-write snapshot. It returns
// that snapshot. Notification happens outside the lock; a panicking
// subscriber is logged and skipped.
func (s *Store) Update(fields []string, fn func(*GameState)) *GameState {
	s.mu.Lock()
	fn(s.game)
	snap := s.game.Clone()
	s.mu.Unlock()

	for _, field := range fields {
		s.subMu.RLock()
		subs := make([]Subscriber, len(s.subs[field]))
		copy(subs, s.subs[field])
		s.subMu.RUnlock()
		for _, sub := range subs {
			notify(field, snap, sub)
		}
	}
	return snap
}

func notify(field string, snap *GameState, sub Subscriber) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("state: subscriber panic on %s: %v", field, r)
		}
	}()
	sub(snap)
}
