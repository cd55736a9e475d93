// Package progress implements the experience curve: a pure mapping between
// total XP and player level. Level costs grow exponentially; all functions
// are deterministic and treat negative XP as zero.
package progress

import "math"

const (
	baseLevelCost = 100
	costGrowth    = 1.15
)

// XPForLevel returns the XP cost of attaining the given level from the one
// before it. Level 1 is free, level 2 costs 100, and each level after costs
// 15% more than the last (floored): level 3 is 115, level 4 is 132, and so on.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return int(math.Floor(baseLevelCost * math.Pow(costGrowth, float64(level-2))))
}

// TotalXPForLevel returns the cumulative XP required to reach level.
func TotalXPForLevel(level int) int {
	total := 0
	for i := 2; i <= level; i++ {
		total += XPForLevel(i)
	}
	return total
}

// LevelFromXP returns the highest level whose cumulative cost fits within
// totalXP. The lowest possible level is 1.
func LevelFromXP(totalXP int) int {
	if totalXP < 0 {
		totalXP = 0
	}
	level := 1
	remaining := totalXP
	for {
		cost := XPForLevel(level + 1)
		if remaining < cost {
			return level
		}
		remaining -= cost
		level++
	}
}

// Progress describes the player's position within the current level.
type Progress struct {
	Level          int     `json:"level"`
	CurrentXP      int     `json:"currentXp"`      // XP earned within the current level
	XPForNextLevel int     `json:"xpForNextLevel"` // cost of the next level
	Fraction       float64 `json:"progress"`       // 0.0–1.0 within the current level
	XPNeeded       int     `json:"xpNeeded"`       // XP still required for the next level
}

// XPProgress computes the display-ready progress for a total XP amount.
// The fraction is clamped to [0, 1] even for pathological inputs.
func XPProgress(totalXP int) Progress {
	if totalXP < 0 {
		totalXP = 0
	}
	level := LevelFromXP(totalXP)
	current := totalXP - TotalXPForLevel(level)
	next := XPForLevel(level + 1)

	frac := 1.0
	if next > 0 {
		frac = min(max(float64(current)/float64(next), 0), 1)
	}

	return Progress{
		Level:          level,
		CurrentXP:      current,
		XPForNextLevel: next,
		Fraction:       frac,
		XPNeeded:       max(next-current, 0),
	}
}
