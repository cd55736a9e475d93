// Package state holds the single shared game state: XP, missions, unlock
// sets, collections, login streak, and leaderboards. Every core component
// reads a snapshot and writes back through the Store; there is no other
// shared mutable data.
package state

import "time"

// MissionStatus is the lifecycle state of a mission. Transitions only move
// forward: locked -> active -> completed.
type MissionStatus string

const (
	StatusLocked    MissionStatus = "locked"
	StatusActive    MissionStatus = "active"
	StatusCompleted MissionStatus = "completed"
)

// Step is a single objective within a mission. Completed is monotonic: once
// true it is never reset.
type Step struct {
	ID        string `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// Solution is an alternate completion path for a mission: a set of step ids
// or command names that, once all satisfied, complete the mission with its
// own reward.
type Solution struct {
	ID          string   `json:"id" yaml:"id"`
	Steps       []string `json:"steps" yaml:"steps"`
	RewardXP    int      `json:"rewardXp" yaml:"reward_xp"`
	Bonus       string   `json:"bonus,omitempty" yaml:"bonus"`
	SuccessRate float64  `json:"successRate,omitempty" yaml:"success_rate"`
}

// Mission is a multi-step quest with a status, a free-text reward, and an
// optional set of alternate solutions.
type Mission struct {
	ID           string        `json:"id" yaml:"id"`
	Title        string        `json:"title" yaml:"title"`
	Description  string        `json:"description" yaml:"description"`
	Status       MissionStatus `json:"status" yaml:"status"`
	Steps        []Step        `json:"steps" yaml:"steps"`
	Reward       string        `json:"reward" yaml:"reward"`
	Progress     int           `json:"progress" yaml:"progress"` // 0-100, derived from Steps
	Type         string        `json:"type" yaml:"type"`
	Difficulty   string        `json:"difficulty,omitempty" yaml:"difficulty"`
	EstimatedSec float64       `json:"estimatedSec,omitempty" yaml:"estimated_sec"`
	Solutions    []Solution    `json:"solutions,omitempty" yaml:"solutions"`

	// Runtime tracking, not authored content.
	CurrentSolution  string          `json:"currentSolution,omitempty" yaml:"-"`
	SolutionProgress map[string]bool `json:"solutionProgress,omitempty" yaml:"-"`
	FailedAttempts   int             `json:"failedAttempts,omitempty" yaml:"-"`
	StartedAt        *time.Time      `json:"startedAt,omitempty" yaml:"-"`
	CompletedAt      *time.Time      `json:"completedAt,omitempty" yaml:"-"`
}

// ScoreEntry is one leaderboard submission for a mission.
type ScoreEntry struct {
	ID         string    `json:"id"`
	PlayerID   string    `json:"playerId"`
	MissionID  string    `json:"missionId"`
	Score      int       `json:"score"`
	RecordedAt time.Time `json:"recordedAt"`
}

// GameState is the persistent player state. Level is cached for display but
// always derivable from XP; the mission engine recomputes it on every XP
// change. Command retry counters are deliberately absent: they are
// session-scoped and live in the command resolver.
type GameState struct {
	Version  int    `json:"version"`
	PlayerID string `json:"playerId"`

	XP    int `json:"xp"`
	Level int `json:"level"`

	Missions []Mission `json:"missions"`

	UnlockedBadges       []string            `json:"unlockedBadges"`
	UnlockedAchievements []string            `json:"unlockedAchievements"`
	UnlockedMilestones   []string            `json:"unlockedMilestones"`
	CompletedGoals       []string            `json:"completedGoals"`
	Collections          map[string][]string `json:"collections"`

	DailyCompletions map[string]int `json:"dailyCompletions"`

	// DailyCommandCounts tracks successful commands per day (outer key
	// YYYY-MM-DD), feeding daily challenge progress.
	DailyCommandCounts map[string]map[string]int `json:"dailyCommandCounts"`

	// ClaimedChallenges records which daily challenge rewards were already
	// paid out, per day, so a challenge never pays twice.
	ClaimedChallenges map[string][]string `json:"claimedChallenges"`

	LoginStreak int    `json:"loginStreak"`
	LastLogin   string `json:"lastLogin,omitempty"` // YYYY-MM-DD

	Title string `json:"title,omitempty"`

	CompletedMissions int     `json:"completedMissions"`
	PerfectMissions   int     `json:"perfectMissions"`
	FastestMissionSec float64 `json:"fastestMissionSec,omitempty"`

	CommandCounts map[string]int `json:"commandCounts"`
	TotalCommands int            `json:"totalCommands"`
	TotalFailures int            `json:"totalFailures"`

	Leaderboards map[string][]ScoreEntry `json:"leaderboards"`

	LastUpdated time.Time `json:"lastUpdated"`
}

// Field names used to key store subscriptions.
const (
	FieldXP           = "xp"
	FieldLevel        = "level"
	FieldMissions     = "missions"
	FieldBadges       = "unlockedBadges"
	FieldAchievements = "unlockedAchievements"
	FieldMilestones   = "unlockedMilestones"
	FieldGoals        = "completedGoals"
	FieldCollections  = "collections"
	FieldDaily        = "dailyCompletions"
	FieldStreak       = "loginStreak"
	FieldTitle        = "title"
	FieldCounters     = "counters"
	FieldLeaderboards = "leaderboards"
)

// Clone returns a deep copy of the mission, duplicating slices, maps, and
// pointer fields so the copy can be mutated independently.
func (m Mission) Clone() Mission {
	c := m
	c.Steps = make([]Step, len(m.Steps))
	copy(c.Steps, m.Steps)
	if len(m.Solutions) > 0 {
		c.Solutions = make([]Solution, len(m.Solutions))
		for i, sol := range m.Solutions {
			cs := sol
			cs.Steps = make([]string, len(sol.Steps))
			copy(cs.Steps, sol.Steps)
			c.Solutions[i] = cs
		}
	}
	if m.SolutionProgress != nil {
		c.SolutionProgress = make(map[string]bool, len(m.SolutionProgress))
		for k, v := range m.SolutionProgress {
			c.SolutionProgress[k] = v
		}
	}
	if m.StartedAt != nil {
		t := *m.StartedAt
		c.StartedAt = &t
	}
	if m.CompletedAt != nil {
		t := *m.CompletedAt
		c.CompletedAt = &t
	}
	return c
}

// Clone returns a deep copy of the game state.
func (g *GameState) Clone() *GameState {
	c := *g

	c.Missions = make([]Mission, len(g.Missions))
	for i, m := range g.Missions {
		c.Missions[i] = m.Clone()
	}

	c.UnlockedBadges = cloneStrings(g.UnlockedBadges)
	c.UnlockedAchievements = cloneStrings(g.UnlockedAchievements)
	c.UnlockedMilestones = cloneStrings(g.UnlockedMilestones)
	c.CompletedGoals = cloneStrings(g.CompletedGoals)

	c.Collections = make(map[string][]string, len(g.Collections))
	for k, v := range g.Collections {
		c.Collections[k] = cloneStrings(v)
	}

	c.DailyCompletions = make(map[string]int, len(g.DailyCompletions))
	for k, v := range g.DailyCompletions {
		c.DailyCompletions[k] = v
	}

	c.DailyCommandCounts = make(map[string]map[string]int, len(g.DailyCommandCounts))
	for day, counts := range g.DailyCommandCounts {
		dc := make(map[string]int, len(counts))
		for k, v := range counts {
			dc[k] = v
		}
		c.DailyCommandCounts[day] = dc
	}

	c.ClaimedChallenges = make(map[string][]string, len(g.ClaimedChallenges))
	for day, ids := range g.ClaimedChallenges {
		c.ClaimedChallenges[day] = cloneStrings(ids)
	}

	c.CommandCounts = make(map[string]int, len(g.CommandCounts))
	for k, v := range g.CommandCounts {
		c.CommandCounts[k] = v
	}

	c.Leaderboards = make(map[string][]ScoreEntry, len(g.Leaderboards))
	for k, v := range g.Leaderboards {
		entries := make([]ScoreEntry, len(v))
		copy(entries, v)
		c.Leaderboards[k] = entries
	}

	return &c
}

func cloneStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
