// Package unlock implements the five parallel "unlock once, grant reward"
// registries: badges, achievements, milestones, long-term goals, and
// collectibles. All five share one sweep engine that evaluates predicates
// over a game-state snapshot in declaration order, records new unlocks, and
// grants rewards through an injected sink. Sweeps are idempotent and safe to
// run from a periodic timer.
package unlock

import (
	"log"

	"github.com/hackersim/backend/internal/state"
)

// Kind identifies which registry a tracker serves.
type Kind string

const (
	KindBadge       Kind = "badge"
	KindAchievement Kind = "achievement"
	KindMilestone   Kind = "milestone"
	KindGoal        Kind = "goal"
	KindCollectible Kind = "collectible"
)

// Reward is what unlocking an entry grants. Zero-value fields grant nothing.
type Reward struct {
	XP      int
	BadgeID string // nested badge unlock
	Title   string // title assignment
}

// Entry is a single unlockable definition. Registries are static: built once
// at startup and never mutated.
type Entry struct {
	ID          string
	Name        string
	Description string
	Icon        string
	// Condition reports whether the entry should unlock given a snapshot.
	Condition func(*state.GameState) bool
	Reward    Reward
	// Effects holds multiplier channels contributed while unlocked.
	// Only badges define these; see Aggregate.
	Effects map[string]float64
	// Collection names the set a collectible belongs to. Empty for the
	// other four kinds.
	Collection string
}

// Sink receives reward grants for newly unlocked entries. The tracker gets
// its collaborators at construction time instead of reaching for globals.
type Sink interface {
	AwardXP(amount int, reason string)
	UnlockBadge(id string)
	AssignTitle(title string)
}

// Tracker sweeps one registry. The has/record pair abstracts where each kind
// stores its unlocked set on the game state.
type Tracker struct {
	kind     Kind
	registry []Entry
	has      func(*state.GameState, Entry) bool
	record   func(*state.GameState, Entry)
}

// Kind returns which registry this tracker serves.
func (t *Tracker) Kind() Kind { return t.kind }

// Registry returns a shallow copy of the tracker's entries in declaration
// order.
func (t *Tracker) Registry() []Entry {
	out := make([]Entry, len(t.registry))
	copy(out, t.registry)
	return out
}

// Find returns the entry with the given id.
func (t *Tracker) Find(id string) (Entry, bool) {
	for _, e := range t.registry {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Sweep evaluates every not-yet-unlocked entry against g in declaration
// order. New unlocks are recorded on g first, then rewards are granted
// through sink, so reward hooks always observe the recorded unlock. Calling
// Sweep twice on unchanged state yields an empty second result.
func (t *Tracker) Sweep(g *state.GameState, sink Sink) []Entry {
	var newly []Entry
	for _, e := range t.registry {
		if t.has(g, e) {
			continue
		}
		if e.Condition == nil || !e.Condition(g) {
			continue
		}
		t.record(g, e)
		newly = append(newly, e)
	}
	for _, e := range newly {
		grant(t.kind, e, sink)
	}
	return newly
}

func grant(kind Kind, e Entry, sink Sink) {
	if sink == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("unlock: reward hook panic for %s %s: %v", kind, e.ID, r)
		}
	}()
	if e.Reward.XP > 0 {
		sink.AwardXP(e.Reward.XP, string(kind)+":"+e.ID)
	}
	if e.Reward.BadgeID != "" {
		sink.UnlockBadge(e.Reward.BadgeID)
	}
	if e.Reward.Title != "" {
		sink.AssignTitle(e.Reward.Title)
	}
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// sliceTracker builds a tracker whose unlocked set is a plain string slice
// on the game state.
func sliceTracker(kind Kind, registry []Entry, field func(*state.GameState) *[]string) *Tracker {
	return &Tracker{
		kind:     kind,
		registry: registry,
		has: func(g *state.GameState, e Entry) bool {
			return containsID(*field(g), e.ID)
		},
		record: func(g *state.GameState, e Entry) {
			*field(g) = append(*field(g), e.ID)
		},
	}
}

// NewBadgeTracker returns the badge registry tracker.
func NewBadgeTracker() *Tracker {
	return sliceTracker(KindBadge, buildBadges(), func(g *state.GameState) *[]string {
		return &g.UnlockedBadges
	})
}

// NewAchievementTracker returns the achievement registry tracker.
func NewAchievementTracker() *Tracker {
	return sliceTracker(KindAchievement, buildAchievements(), func(g *state.GameState) *[]string {
		return &g.UnlockedAchievements
	})
}

// NewMilestoneTracker returns the milestone registry tracker.
func NewMilestoneTracker() *Tracker {
	return sliceTracker(KindMilestone, buildMilestones(), func(g *state.GameState) *[]string {
		return &g.UnlockedMilestones
	})
}

// NewGoalTracker returns the long-term goal registry tracker.
func NewGoalTracker() *Tracker {
	return sliceTracker(KindGoal, buildGoals(), func(g *state.GameState) *[]string {
		return &g.CompletedGoals
	})
}

// NewCollectibleTracker returns the collectible registry tracker.
// Collectibles record into per-collection sets instead of a flat slice.
func NewCollectibleTracker() *Tracker {
	return &Tracker{
		kind:     KindCollectible,
		registry: buildCollectibles(),
		has: func(g *state.GameState, e Entry) bool {
			return containsID(g.Collections[e.Collection], e.ID)
		},
		record: func(g *state.GameState, e Entry) {
			g.Collections[e.Collection] = append(g.Collections[e.Collection], e.ID)
		},
	}
}
