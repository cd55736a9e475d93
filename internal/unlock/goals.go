package unlock

import "github.com/hackersim/backend/internal/state"

func buildGoals() []Entry {
	return []Entry{
		{
			ID: "campaign_25", Name: "The Long Game",
			Description: "Complete 25 missions",
			Icon:        "🗺️",
			Condition:   func(g *state.GameState) bool { return g.CompletedMissions >= 25 },
			Reward:      Reward{XP: 500, Title: "Campaign Veteran"},
		},
		{
			ID: "streak_30", Name: "Always Online",
			Description: "Keep a 30-day login streak",
			Icon:        "🛰️",
			Condition:   func(g *state.GameState) bool { return g.LoginStreak >= 30 },
			Reward:      Reward{XP: 400},
		},
		{
			ID: "full_fragments", Name: "Archivist",
			Description: "Recover every data fragment",
			Icon:        "🗄️",
			Condition: func(g *state.GameState) bool {
				return len(g.Collections[CollectionFragments]) >= countCollection(CollectionFragments)
			},
			Reward: Reward{XP: 300, Title: "Archivist"},
		},
		{
			ID: "full_toolkit", Name: "Fully Equipped",
			Description: "Assemble the complete toolkit",
			Icon:        "🧰",
			Condition: func(g *state.GameState) bool {
				return len(g.Collections[CollectionTools]) >= countCollection(CollectionTools)
			},
			Reward: Reward{XP: 300},
		},
	}
}

// countCollection returns the number of collectibles declared for a
// collection, so "complete the set" goals stay in sync with the registry.
func countCollection(collection string) int {
	n := 0
	for _, e := range buildCollectibles() {
		if e.Collection == collection {
			n++
		}
	}
	return n
}
