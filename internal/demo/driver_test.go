package demo

import (
	"context"
	"testing"
	"time"

	"github.com/hackersim/backend/internal/event"
	"github.com/hackersim/backend/internal/game"
	"github.com/hackersim/backend/internal/state"
)

type winRNG struct{}

func (winRNG) Float64() float64 { return 0.0 }

func TestDriver_ExecutesCommands(t *testing.T) {
	store := state.NewStore(state.NewGameState())
	engine := game.New(store, nil, event.NewBus(), game.Options{RNG: winRNG{}})

	d := New(engine, 5*time.Millisecond)
	d.SetScript([]string{"scan"})

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if store.Snapshot().TotalCommands >= 3 {
			cancel()
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	t.Fatalf("driver executed %d commands, want at least 3", store.Snapshot().TotalCommands)
}

func TestDriver_LogsInOnStart(t *testing.T) {
	store := state.NewStore(state.NewGameState())
	engine := game.New(store, nil, event.NewBus(), game.Options{RNG: winRNG{}})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	New(engine, time.Hour).Start(ctx)

	if snap := store.Snapshot(); snap.LoginStreak != 1 {
		t.Errorf("loginStreak = %d, want 1", snap.LoginStreak)
	}
}
