package unlock

import "github.com/hackersim/backend/internal/state"

func buildMilestones() []Entry {
	return []Entry{
		{
			ID: "level_5", Name: "Rising Star",
			Description: "Reach level 5",
			Icon:        "⭐",
			Condition:   func(g *state.GameState) bool { return g.Level >= 5 },
			Reward:      Reward{XP: 50},
		},
		{
			ID: "level_10", Name: "Seasoned Runner",
			Description: "Reach level 10",
			Icon:        "🌟",
			Condition:   func(g *state.GameState) bool { return g.Level >= 10 },
			Reward:      Reward{XP: 100},
		},
		{
			ID: "level_20", Name: "Net Legend",
			Description: "Reach level 20",
			Icon:        "💫",
			Condition:   func(g *state.GameState) bool { return g.Level >= 20 },
			Reward:      Reward{XP: 250, Title: "Net Legend"},
		},
		{
			ID: "xp_1000", Name: "Grinder",
			Description: "Earn 1,000 total XP",
			Icon:        "🏋️",
			Condition:   func(g *state.GameState) bool { return g.XP >= 1000 },
			Reward:      Reward{XP: 50},
		},
		{
			ID: "xp_10000", Name: "Obsessed",
			Description: "Earn 10,000 total XP",
			Icon:        "🔥",
			Condition:   func(g *state.GameState) bool { return g.XP >= 10000 },
			Reward:      Reward{XP: 200},
		},
	}
}
