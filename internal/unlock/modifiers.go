package unlock

// Modifiers is the combined multiplier set contributed by unlocked badges.
// Every channel defaults to 1.0 (no effect). Channels multiply together, so
// the order badges were unlocked in never matters.
type Modifiers struct {
	XPBonus        float64 `json:"xpBonus"`
	ScanSpeed      float64 `json:"scanSpeed"`
	DecryptSuccess float64 `json:"decryptSuccess"`
	BypassChance   float64 `json:"bypassChance"`
	CommandSpeed   float64 `json:"commandSpeed"`
	AllSuccessRate float64 `json:"allSuccessRate"`
}

// DefaultModifiers returns the identity multiplier set.
func DefaultModifiers() Modifiers {
	return Modifiers{
		XPBonus:        1.0,
		ScanSpeed:      1.0,
		DecryptSuccess: 1.0,
		BypassChance:   1.0,
		CommandSpeed:   1.0,
		AllSuccessRate: 1.0,
	}
}

// Aggregate folds the effects of every unlocked badge into a single
// multiplier set. Unknown badge ids are skipped.
func Aggregate(unlockedBadges []string) Modifiers {
	m := DefaultModifiers()
	badges := buildBadges()
	for _, id := range unlockedBadges {
		for _, b := range badges {
			if b.ID != id {
				continue
			}
			for channel, mult := range b.Effects {
				m.apply(channel, mult)
			}
			break
		}
	}
	return m
}

// Channels returns the per-command modifier channels as a map for the
// command resolver, keyed by channel name.
func (m Modifiers) Channels() map[string]float64 {
	return map[string]float64{
		EffectScanSpeed:      m.ScanSpeed,
		EffectDecryptSuccess: m.DecryptSuccess,
		EffectBypassChance:   m.BypassChance,
		EffectCommandSpeed:   m.CommandSpeed,
	}
}

func (m *Modifiers) apply(channel string, mult float64) {
	switch channel {
	case EffectXPBonus:
		m.XPBonus *= mult
	case EffectScanSpeed:
		m.ScanSpeed *= mult
	case EffectDecryptSuccess:
		m.DecryptSuccess *= mult
	case EffectBypassChance:
		m.BypassChance *= mult
	case EffectCommandSpeed:
		m.CommandSpeed *= mult
	case EffectAllSuccessRate:
		m.AllSuccessRate *= mult
	}
}
