package unlock

import "github.com/hackersim/backend/internal/state"

// Modifier channel names contributed by badge effects.
const (
	EffectXPBonus        = "xpBonus"
	EffectScanSpeed      = "scanSpeed"
	EffectDecryptSuccess = "decryptSuccess"
	EffectBypassChance   = "bypassChance"
	EffectCommandSpeed   = "commandSpeed"
	EffectAllSuccessRate = "allSuccessRate"
)

func buildBadges() []Entry {
	return []Entry{
		{
			ID: "script_kiddie", Name: "Script Kiddie",
			Description: "Complete your first mission",
			Icon:        "💾",
			Condition:   func(g *state.GameState) bool { return g.CompletedMissions >= 1 },
			Reward:      Reward{XP: 25},
			Effects:     map[string]float64{EffectXPBonus: 1.05},
		},
		{
			ID: "port_sniffer", Name: "Port Sniffer",
			Description: "Run 10 scans",
			Icon:        "📡",
			Condition:   func(g *state.GameState) bool { return g.CommandCounts["scan"] >= 10 },
			Reward:      Reward{XP: 30},
			Effects:     map[string]float64{EffectScanSpeed: 1.25},
		},
		{
			ID: "crypto_cracker", Name: "Crypto Cracker",
			Description: "Run 10 successful decrypts",
			Icon:        "🔓",
			Condition:   func(g *state.GameState) bool { return g.CommandCounts["decrypt"] >= 10 },
			Reward:      Reward{XP: 40},
			Effects:     map[string]float64{EffectDecryptSuccess: 1.2},
		},
		{
			ID: "ghost_protocol", Name: "Ghost Protocol",
			Description: "Slip past 5 firewalls",
			Icon:        "👻",
			Condition:   func(g *state.GameState) bool { return g.CommandCounts["bypass"] >= 5 },
			Reward:      Reward{XP: 50},
			Effects:     map[string]float64{EffectBypassChance: 1.15},
		},
		{
			ID: "speed_demon", Name: "Speed Demon",
			Description: "Finish a mission in under a minute",
			Icon:        "⚡",
			Condition: func(g *state.GameState) bool {
				return g.FastestMissionSec > 0 && g.FastestMissionSec < 60
			},
			Reward:  Reward{XP: 60},
			Effects: map[string]float64{EffectCommandSpeed: 1.2},
		},
		{
			ID: "flawless", Name: "Flawless",
			Description: "Complete 3 missions without a single failed command",
			Icon:        "✨",
			Condition:   func(g *state.GameState) bool { return g.PerfectMissions >= 3 },
			Reward:      Reward{XP: 75},
			Effects:     map[string]float64{EffectXPBonus: 1.1},
		},
		{
			ID: "elite_hacker", Name: "Elite Hacker",
			Description: "Reach level 10",
			Icon:        "🎖️",
			Condition:   func(g *state.GameState) bool { return g.Level >= 10 },
			Reward:      Reward{XP: 100},
			Effects:     map[string]float64{EffectAllSuccessRate: 1.05},
		},
	}
}
