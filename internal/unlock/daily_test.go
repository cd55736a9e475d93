package unlock

import (
	"testing"
	"time"

	"github.com/hackersim/backend/internal/state"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestApplyLogin_FirstEver(t *testing.T) {
	g := state.NewGameState()
	res := ApplyLogin(g, day("2026-08-24"))

	if !res.First {
		t.Error("first login not flagged")
	}
	if res.Streak != 1 || g.LoginStreak != 1 {
		t.Errorf("streak = %d, want 1", res.Streak)
	}
	if res.BonusXP != XPDailyLogin {
		t.Errorf("bonus = %d, want %d", res.BonusXP, XPDailyLogin)
	}
	if g.LastLogin != "2026-08-24" {
		t.Errorf("lastLogin = %q", g.LastLogin)
	}
}

func TestApplyLogin_SameDayIsNoOp(t *testing.T) {
	g := state.NewGameState()
	ApplyLogin(g, day("2026-08-24"))
	res := ApplyLogin(g, day("2026-08-24"))

	if res.First {
		t.Error("repeat login flagged as first")
	}
	if res.BonusXP != 0 {
		t.Errorf("repeat login granted %d XP", res.BonusXP)
	}
	if g.LoginStreak != 1 {
		t.Errorf("streak = %d, want 1", g.LoginStreak)
	}
}

func TestApplyLogin_ConsecutiveDaysExtendStreak(t *testing.T) {
	g := state.NewGameState()
	ApplyLogin(g, day("2026-08-24"))
	res := ApplyLogin(g, day("2026-08-25"))

	if res.Streak != 2 {
		t.Errorf("streak = %d, want 2", res.Streak)
	}
	if res.BonusXP != XPDailyLogin+XPStreakBonus {
		t.Errorf("bonus = %d, want %d", res.BonusXP, XPDailyLogin+XPStreakBonus)
	}
}

func TestApplyLogin_GapResetsStreak(t *testing.T) {
	g := state.NewGameState()
	ApplyLogin(g, day("2026-08-24"))
	ApplyLogin(g, day("2026-08-25"))
	res := ApplyLogin(g, day("2026-08-28"))

	if res.Streak != 1 {
		t.Errorf("streak after gap = %d, want 1", res.Streak)
	}
}

func TestApplyLogin_StreakBonusCapped(t *testing.T) {
	g := state.NewGameState()
	g.LoginStreak = 40
	g.LastLogin = "2026-08-23"
	res := ApplyLogin(g, day("2026-08-24"))

	if res.Streak != 41 {
		t.Errorf("streak = %d, want 41", res.Streak)
	}
	if res.BonusXP != XPDailyLogin+XPStreakBonusCap {
		t.Errorf("bonus = %d, want capped %d", res.BonusXP, XPDailyLogin+XPStreakBonusCap)
	}
}
