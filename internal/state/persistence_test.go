package state

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingFileReturnsFreshState(t *testing.T) {
	fs := NewFileStore(t.TempDir())
	g, err := fs.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if g.PlayerID == "" {
		t.Error("fresh state has no player id")
	}
	if g.Level != 1 {
		t.Errorf("fresh state level = %d, want 1", g.Level)
	}
	if g.Collections == nil || g.DailyCompletions == nil || g.CommandCounts == nil || g.Leaderboards == nil {
		t.Error("fresh state has nil maps")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	fs := NewFileStore(t.TempDir())

	g := NewGameState()
	g.XP = 315
	g.Level = 3
	g.UnlockedBadges = []string{"script_kiddie"}
	g.Collections["datafragments"] = []string{"frag_alpha"}
	g.DailyCompletions["2026-08-24"] = 2
	g.LoginStreak = 4
	now := time.Now().UTC()
	g.Missions = []Mission{{
		ID: "mission-01", Title: "First Contact", Description: "d",
		Status: StatusActive, Reward: "50 XP",
		Steps:     []Step{{ID: "s1", Text: "Scan the network", Completed: true}},
		Progress:  100,
		StartedAt: &now,
	}}
	g.Leaderboards["mission-01"] = []ScoreEntry{{ID: "e1", PlayerID: g.PlayerID, MissionID: "mission-01", Score: 3600}}

	if err := fs.Save(g); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := fs.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.XP != 315 || loaded.Level != 3 {
		t.Errorf("xp/level = %d/%d, want 315/3", loaded.XP, loaded.Level)
	}
	if len(loaded.UnlockedBadges) != 1 || loaded.UnlockedBadges[0] != "script_kiddie" {
		t.Errorf("badges = %v", loaded.UnlockedBadges)
	}
	if loaded.DailyCompletions["2026-08-24"] != 2 {
		t.Errorf("dailyCompletions = %v", loaded.DailyCompletions)
	}
	if len(loaded.Missions) != 1 || !loaded.Missions[0].Steps[0].Completed {
		t.Error("mission step completion lost in round trip")
	}
	if loaded.Leaderboards["mission-01"][0].Score != 3600 {
		t.Error("leaderboard entry lost in round trip")
	}
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStore(dir)
	if err := fs.Save(NewGameState()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".state-") {
			t.Errorf("leftover temp file: %s", e.Name())
		}
	}
}

func TestLoad_PreservesPlayerIDAcrossSaves(t *testing.T) {
	fs := NewFileStore(t.TempDir())
	g := NewGameState()
	id := g.PlayerID
	if err := fs.Save(g); err != nil {
		t.Fatal(err)
	}
	loaded, err := fs.Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.PlayerID != id {
		t.Errorf("player id changed across save/load: %s != %s", loaded.PlayerID, id)
	}
}
