package state

import "testing"

func TestSnapshot_IsIndependentCopy(t *testing.T) {
	s := NewStore(NewGameState())
	snap := s.Snapshot()
	snap.XP = 999
	snap.CommandCounts["scan"] = 5

	if got := s.Snapshot(); got.XP != 0 || got.CommandCounts["scan"] != 0 {
		t.Error("mutating a snapshot leaked into the store")
	}
}

func TestUpdate_NotifiesSubscribedField(t *testing.T) {
	s := NewStore(NewGameState())
	var seen int
	s.Subscribe(FieldXP, func(g *GameState) { seen = g.XP })

	s.Update([]string{FieldXP}, func(g *GameState) { g.XP = 150 })

	if seen != 150 {
		t.Errorf("subscriber saw xp=%d, want 150", seen)
	}
}

func TestUpdate_DoesNotNotifyOtherFields(t *testing.T) {
	s := NewStore(NewGameState())
	called := false
	s.Subscribe(FieldMissions, func(*GameState) { called = true })

	s.Update([]string{FieldXP}, func(g *GameState) { g.XP = 10 })

	if called {
		t.Error("missions subscriber notified for an xp update")
	}
}

func TestUpdate_SubscriberSeesFullyAppliedUpdate(t *testing.T) {
	s := NewStore(NewGameState())
	var xp, level int
	s.Subscribe(FieldLevel, func(g *GameState) { xp, level = g.XP, g.Level })

	s.Update([]string{FieldXP, FieldLevel}, func(g *GameState) {
		g.XP = 215
		g.Level = 3
	})

	if xp != 215 || level != 3 {
		t.Errorf("subscriber saw torn state xp=%d level=%d", xp, level)
	}
}

func TestUpdate_PanickingSubscriberIsRecovered(t *testing.T) {
	s := NewStore(NewGameState())
	var delivered bool
	s.Subscribe(FieldXP, func(*GameState) { panic("boom") })
	s.Subscribe(FieldXP, func(*GameState) { delivered = true })

	s.Update([]string{FieldXP}, func(g *GameState) { g.XP = 1 })

	if !delivered {
		t.Error("panicking subscriber blocked delivery to the next one")
	}
}
