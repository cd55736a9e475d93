package unlock

import "github.com/hackersim/backend/internal/state"

// Collection names for collectible sets. The game state stores each set
// under collections[<name>].
const (
	CollectionFragments = "datafragments"
	CollectionTools     = "tools"
)

func buildCollectibles() []Entry {
	return []Entry{

		// ── Data fragments ─────────────────────────────────────────────────
		// Recovered by pulling files off compromised hosts.

		{
			ID: "frag_alpha", Name: "Fragment Alpha",
			Description: "Recovered from your first download",
			Icon:        "🧩",
			Collection:  CollectionFragments,
			Condition:   func(g *state.GameState) bool { return g.CommandCounts["download"] >= 1 },
		},
		{
			ID: "frag_beta", Name: "Fragment Beta",
			Description: "Recovered after 5 downloads",
			Icon:        "🧩",
			Collection:  CollectionFragments,
			Condition:   func(g *state.GameState) bool { return g.CommandCounts["download"] >= 5 },
		},
		{
			ID: "frag_gamma", Name: "Fragment Gamma",
			Description: "Recovered after 15 downloads",
			Icon:        "🧩",
			Collection:  CollectionFragments,
			Condition:   func(g *state.GameState) bool { return g.CommandCounts["download"] >= 15 },
			Reward:      Reward{XP: 50},
		},

		// ── Toolkit ────────────────────────────────────────────────────────
		// Tools are earned by demonstrating the matching skill.

		{
			ID: "tool_portmapper", Name: "Port Mapper",
			Description: "Earned after 20 scans",
			Icon:        "🛠️",
			Collection:  CollectionTools,
			Condition:   func(g *state.GameState) bool { return g.CommandCounts["scan"] >= 20 },
		},
		{
			ID: "tool_rainbow", Name: "Rainbow Table",
			Description: "Earned after 15 decrypts",
			Icon:        "🌈",
			Collection:  CollectionTools,
			Condition:   func(g *state.GameState) bool { return g.CommandCounts["decrypt"] >= 15 },
		},
		{
			ID: "tool_rootkit", Name: "Rootkit",
			Description: "Earned at level 15",
			Icon:        "🪛",
			Collection:  CollectionTools,
			Condition:   func(g *state.GameState) bool { return g.Level >= 15 },
			Reward:      Reward{XP: 100},
		},
	}
}
