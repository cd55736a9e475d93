package unlock

import (
	"time"

	"github.com/hackersim/backend/internal/state"
)

const (
	// XPDailyLogin is the base XP for the first login of a day.
	XPDailyLogin = 25
	// XPStreakBonus is added per consecutive day beyond the first,
	// capped at XPStreakBonusCap.
	XPStreakBonus    = 5
	XPStreakBonusCap = 50

	dateLayout = "2006-01-02"
)

// LoginResult describes the effect of a daily login.
type LoginResult struct {
	Streak  int  `json:"streak"`
	BonusXP int  `json:"bonusXp"`
	First   bool `json:"first"` // first login of this calendar day
}

// ApplyLogin records a login at now against g. A repeat login on the same
// day is a no-op. A login on the day after the last one extends the streak;
// any gap resets it to 1.
func ApplyLogin(g *state.GameState, now time.Time) LoginResult {
	today := now.UTC().Format(dateLayout)
	if g.LastLogin == today {
		return LoginResult{Streak: g.LoginStreak}
	}

	yesterday := now.UTC().AddDate(0, 0, -1).Format(dateLayout)
	if g.LastLogin == yesterday {
		g.LoginStreak++
	} else {
		g.LoginStreak = 1
	}
	g.LastLogin = today

	bonus := XPDailyLogin + min((g.LoginStreak-1)*XPStreakBonus, XPStreakBonusCap)
	return LoginResult{Streak: g.LoginStreak, BonusXP: bonus, First: true}
}
