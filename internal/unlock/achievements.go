package unlock

import "github.com/hackersim/backend/internal/state"

func buildAchievements() []Entry {
	return []Entry{

		// ── Missions ───────────────────────────────────────────────────────

		{
			ID: "first_blood", Name: "First Blood",
			Description: "Complete your first mission",
			Icon:        "🩸",
			Condition:   func(g *state.GameState) bool { return g.CompletedMissions >= 1 },
			Reward:      Reward{XP: 50},
		},
		{
			ID: "operator", Name: "Operator",
			Description: "Complete 5 missions",
			Icon:        "🕶️",
			Condition:   func(g *state.GameState) bool { return g.CompletedMissions >= 5 },
			Reward:      Reward{XP: 100},
		},
		{
			ID: "mastermind", Name: "Mastermind",
			Description: "Complete 10 missions",
			Icon:        "🧠",
			Condition:   func(g *state.GameState) bool { return g.CompletedMissions >= 10 },
			Reward:      Reward{XP: 150, Title: "Mastermind"},
		},

		// ── Terminal ───────────────────────────────────────────────────────

		{
			ID: "keyboard_warmup", Name: "Keyboard Warmup",
			Description: "Execute 25 commands",
			Icon:        "⌨️",
			Condition:   func(g *state.GameState) bool { return g.TotalCommands >= 25 },
			Reward:      Reward{XP: 25},
		},
		{
			ID: "terminal_veteran", Name: "Terminal Veteran",
			Description: "Execute 250 commands",
			Icon:        "🖥️",
			Condition:   func(g *state.GameState) bool { return g.TotalCommands >= 250 },
			Reward:      Reward{XP: 100},
		},
		{
			ID: "jack_of_all_trades", Name: "Jack of All Trades",
			Description: "Use 6 different commands",
			Icon:        "🃏",
			Condition: func(g *state.GameState) bool {
				distinct := 0
				for _, n := range g.CommandCounts {
					if n > 0 {
						distinct++
					}
				}
				return distinct >= 6
			},
			Reward: Reward{XP: 75},
		},
		{
			ID: "learn_from_failure", Name: "Learn From Failure",
			Description: "Fail 10 commands and keep going",
			Icon:        "🔁",
			Condition:   func(g *state.GameState) bool { return g.TotalFailures >= 10 },
			Reward:      Reward{XP: 50},
		},

		// ── Dedication ─────────────────────────────────────────────────────

		{
			ID: "night_shift", Name: "Night Shift",
			Description: "Log in 7 days in a row",
			Icon:        "🌙",
			Condition:   func(g *state.GameState) bool { return g.LoginStreak >= 7 },
			Reward:      Reward{XP: 150, BadgeID: "script_kiddie"},
		},
		{
			ID: "daily_grind", Name: "Daily Grind",
			Description: "Finish 10 daily challenges",
			Icon:        "📅",
			Condition: func(g *state.GameState) bool {
				total := 0
				for _, n := range g.DailyCompletions {
					total += n
				}
				return total >= 10
			},
			Reward: Reward{XP: 100},
		},
	}
}
