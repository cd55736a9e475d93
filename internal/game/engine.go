// Package game wires the core together: command resolution, mission
// progression, XP, unlock sweeps, and leaderboards, all mediated through the
// state store and announced on the event bus.
package game

import (
	"context"
	"log"
	"math"
	"sync/atomic"
	"time"

	"github.com/hackersim/backend/internal/command"
	"github.com/hackersim/backend/internal/event"
	"github.com/hackersim/backend/internal/leaderboard"
	"github.com/hackersim/backend/internal/mission"
	"github.com/hackersim/backend/internal/progress"
	"github.com/hackersim/backend/internal/state"
	"github.com/hackersim/backend/internal/unlock"
)

// maxSweepRounds bounds the unlock cascade per trigger. Rewards can unlock
// further entries (XP from an achievement crossing a milestone threshold);
// each round is a full pass over all registries, and a registry this size
// settles in two or three.
const maxSweepRounds = 5

// Engine is the single orchestrator for one player's game. All mutations go
// through the store; observers hang off the bus.
type Engine struct {
	store    *state.Store
	files    *state.FileStore
	bus      *event.Bus
	resolver *command.Resolver
	missions *mission.Engine
	trackers []*unlock.Tracker

	clock       func() time.Time
	dirty       atomic.Bool
	estimateFor func(difficulty string) float64

	sweepEvery time.Duration
	saveEvery  time.Duration
}

// Options tunes the engine's background loop. Zero values get defaults.
type Options struct {
	SweepInterval time.Duration
	SaveInterval  time.Duration
	RNG           command.RandomSource
	// EstimateFor supplies a per-difficulty completion estimate for missions
	// that don't carry their own, typically config.EstimatedSec.
	EstimateFor func(difficulty string) float64
}

func New(store *state.Store, files *state.FileStore, bus *event.Bus, opts Options) *Engine {
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = 30 * time.Second
	}
	if opts.SaveInterval <= 0 {
		opts.SaveInterval = 15 * time.Second
	}
	rng := opts.RNG
	if rng == nil {
		rng = command.DefaultRNG()
	}
	return &Engine{
		store:    store,
		files:    files,
		bus:      bus,
		resolver: command.NewResolver(rng),
		missions: mission.NewEngine(),
		trackers: []*unlock.Tracker{
			unlock.NewBadgeTracker(),
			unlock.NewAchievementTracker(),
			unlock.NewMilestoneTracker(),
			unlock.NewGoalTracker(),
			unlock.NewCollectibleTracker(),
		},
		clock:       time.Now,
		estimateFor: opts.EstimateFor,
		sweepEvery:  opts.SweepInterval,
		saveEvery:   opts.SaveInterval,
	}
}

// SetClock overrides the time source, for tests.
func (e *Engine) SetClock(clock func() time.Time) {
	e.clock = clock
	e.missions.SetClock(clock)
}

// Resolver exposes the command resolver for probability display.
func (e *Engine) Resolver() *command.Resolver { return e.resolver }

// Store exposes the state store for read-only snapshot consumers.
func (e *Engine) Store() *state.Store { return e.store }

// CommandResult is the full outcome of one terminal command.
type CommandResult struct {
	Command     string  `json:"command"`
	Success     bool    `json:"success"`
	Reason      string  `json:"reason,omitempty"`
	Probability float64 `json:"probability"`
	Retries     int     `json:"retries"`
	LockedOut   bool    `json:"lockedOut"`

	StepsCompleted []mission.Match      `json:"stepsCompleted,omitempty"`
	Completions    []mission.Completion `json:"completions,omitempty"`
	XPAwarded      int                  `json:"xpAwarded"`
	Level          int                  `json:"level"`
	LeveledUp      bool                 `json:"leveledUp"`
}

// ExecuteCommand runs one terminal command end to end: resolve the outcome,
// record the attempt, complete matching mission steps, award XP, submit
// scores, and sweep the unlock registries. A non-nil override replaces the
// probabilistic draw with a mini-game result; everything downstream treats
// the two identically.
func (e *Engine) ExecuteCommand(cmd string, override *command.Outcome) CommandResult {
	res := CommandResult{Command: cmd}

	// A locked-out command refuses the plain draw. Mini-games bypass the
	// lockout: their outcome was earned, not drawn.
	if override == nil && e.resolver.LockedOut(cmd) {
		snap := e.store.Snapshot()
		res.LockedOut = true
		res.Reason = "locked"
		res.Retries = e.resolver.Retries(cmd)
		res.Level = snap.Level
		e.bus.Emit(event.TopicCommandResult, res)
		return res
	}

	e.refreshModifiers()
	res.Probability = e.resolver.SuccessProbability(cmd)

	if override != nil {
		res.Success = override.Success
		res.Reason = override.Reason
	} else {
		res.Success = e.resolver.Resolve(cmd)
	}
	e.resolver.RecordAttempt(cmd, res.Success)
	res.Retries = e.resolver.Retries(cmd)
	res.LockedOut = e.resolver.LockedOut(cmd)

	var completions []mission.Completion
	var challenges []mission.DailyChallenge
	snap := e.store.Update(
		[]string{state.FieldCounters, state.FieldMissions, state.FieldDaily, state.FieldLeaderboards},
		func(g *state.GameState) {
			g.CommandCounts[cmd]++
			g.TotalCommands++
			if !res.Success {
				g.TotalFailures++
				mission.RecordFailure(g)
				return
			}

			for _, m := range mission.FindMatches(cmd, g.Missions) {
				sr := e.missions.CompleteStep(g, m.MissionID, m.StepID)
				if !sr.Changed {
					continue
				}
				res.StepsCompleted = append(res.StepsCompleted, m)
				if sr.Completion != nil {
					completions = append(completions, *sr.Completion)
				} else if c := e.missions.SatisfySolutionStep(g, m.MissionID, m.StepID); c != nil {
					completions = append(completions, *c)
				}
			}

			// A selected solution may key its steps by command name rather
			// than step id; the command itself advances those.
			for i := range g.Missions {
				if g.Missions[i].CurrentSolution == "" {
					continue
				}
				if c := e.missions.SatisfySolutionStep(g, g.Missions[i].ID, cmd); c != nil {
					completions = append(completions, *c)
				}
			}

			now := e.clock().UTC()
			today := now.Format("2006-01-02")
			for _, c := range completions {
				g.DailyCompletions[today]++
				e.submitScore(g, c)
			}
			challenges = mission.RecordDailyCommand(g, cmd, now)
		})

	e.markDirty()
	res.Completions = completions
	res.Level = snap.Level

	e.bus.Emit(event.TopicCommandResult, res)
	for _, m := range res.StepsCompleted {
		e.bus.Emit(event.TopicStepComplete, m)
	}
	for _, c := range completions {
		e.bus.Emit(event.TopicMissionComplete, c)
		if c.UnlockedNext != "" {
			e.bus.Emit(event.TopicMissionUnlocked, c.UnlockedNext)
		}
	}
	for _, ch := range challenges {
		e.bus.Emit(event.TopicDailyChallenge, ch)
	}

	oldLevel := snap.Level
	for _, c := range completions {
		res.XPAwarded += e.AwardXP(c.RewardXP, "mission:"+c.MissionID)
	}
	for _, ch := range challenges {
		res.XPAwarded += e.AwardXP(ch.RewardXP, "daily:"+ch.ID)
	}
	if len(completions) > 0 {
		e.resolver.Reset()
	}

	e.RunSweeps()

	final := e.store.Snapshot()
	res.Level = final.Level
	res.LeveledUp = final.Level > oldLevel
	return res
}

// CompleteStepDirect completes a step outside command matching, for steps
// with no command vocabulary that the UI resolves itself. Returns the
// mission completion if this was the final step, nil otherwise.
func (e *Engine) CompleteStepDirect(missionID, stepID string) *mission.Completion {
	var sr mission.StepResult
	e.store.Update(
		[]string{state.FieldMissions, state.FieldDaily, state.FieldLeaderboards},
		func(g *state.GameState) {
			sr = e.missions.CompleteStep(g, missionID, stepID)
			if sr.Changed && sr.Completion == nil {
				sr.Completion = e.missions.SatisfySolutionStep(g, missionID, stepID)
			}
			if sr.Completion != nil {
				today := e.clock().UTC().Format("2006-01-02")
				g.DailyCompletions[today]++
				e.submitScore(g, *sr.Completion)
			}
		})
	if !sr.Changed {
		return nil
	}

	e.markDirty()
	e.bus.Emit(event.TopicStepComplete, mission.Match{MissionID: missionID, StepID: stepID})
	if c := sr.Completion; c != nil {
		e.bus.Emit(event.TopicMissionComplete, *c)
		if c.UnlockedNext != "" {
			e.bus.Emit(event.TopicMissionUnlocked, c.UnlockedNext)
		}
		e.AwardXP(c.RewardXP, "mission:"+c.MissionID)
		e.resolver.Reset()
	}
	e.RunSweeps()
	return sr.Completion
}

// submitScore scores a completion and records it on the mission's board.
// Runs inside a store update.
func (e *Engine) submitScore(g *state.GameState, c mission.Completion) {
	var estimated float64
	retries := 0
	difficulty := ""
	for i := range g.Missions {
		if g.Missions[i].ID == c.MissionID {
			estimated = g.Missions[i].EstimatedSec
			retries = g.Missions[i].FailedAttempts
			difficulty = g.Missions[i].Difficulty
			break
		}
	}
	if estimated <= 0 && e.estimateFor != nil {
		estimated = e.estimateFor(difficulty)
	}
	score := leaderboard.Score(c.TimeTakenSec, estimated, retries, difficulty)
	leaderboard.Submit(g, c.MissionID, score, e.clock())
}

// AwardXP adds XP (scaled by the badge XP multiplier), recomputes the level,
// and activates any missions the new level unlocks. Returns the boosted
// amount actually awarded. Implements unlock.Sink.
func (e *Engine) AwardXP(amount int, reason string) int {
	if amount <= 0 {
		return 0
	}

	mods := unlock.Aggregate(e.store.Snapshot().UnlockedBadges)
	boosted := int(math.Round(float64(amount) * mods.XPBonus))

	var leveledFrom, leveledTo int
	var activated []string
	snap := e.store.Update(
		[]string{state.FieldXP, state.FieldLevel, state.FieldMissions},
		func(g *state.GameState) {
			leveledFrom = g.Level
			g.XP += boosted
			g.Level = progress.LevelFromXP(g.XP)
			leveledTo = g.Level
			if leveledTo > leveledFrom {
				activated = e.missions.ActivateEligible(g)
			}
		})

	e.markDirty()
	e.bus.Emit(event.TopicXPAdd, map[string]any{"amount": boosted, "reason": reason, "xp": snap.XP})
	if leveledTo > leveledFrom {
		e.bus.Emit(event.TopicLevelUp, map[string]any{"from": leveledFrom, "to": leveledTo})
		for _, id := range activated {
			e.bus.Emit(event.TopicMissionUnlocked, id)
		}
	}
	return boosted
}

// UnlockBadge force-unlocks a badge outside the normal predicate sweep, used
// by reward grants that name a badge directly. Implements unlock.Sink.
func (e *Engine) UnlockBadge(id string) {
	unlocked := false
	e.store.Update([]string{state.FieldBadges}, func(g *state.GameState) {
		for _, b := range g.UnlockedBadges {
			if b == id {
				return
			}
		}
		g.UnlockedBadges = append(g.UnlockedBadges, id)
		unlocked = true
	})
	if unlocked {
		e.markDirty()
		e.bus.Emit(event.TopicBadgeUnlocked, id)
	}
}

// AssignTitle sets the player's display title. Implements unlock.Sink.
func (e *Engine) AssignTitle(title string) {
	e.store.Update([]string{state.FieldTitle}, func(g *state.GameState) {
		g.Title = title
	})
	e.markDirty()
}

// grantQueue buffers reward grants issued during a sweep so they can be
// applied after the store update completes. Granting inline would re-enter
// the store lock.
type grantQueue struct {
	xp     []xpGrant
	badges []string
	titles []string
}

type xpGrant struct {
	amount int
	reason string
}

func (q *grantQueue) AwardXP(amount int, reason string) {
	q.xp = append(q.xp, xpGrant{amount, reason})
}
func (q *grantQueue) UnlockBadge(id string)    { q.badges = append(q.badges, id) }
func (q *grantQueue) AssignTitle(title string) { q.titles = append(q.titles, title) }

var kindTopics = map[unlock.Kind]string{
	unlock.KindBadge:       event.TopicBadgeUnlocked,
	unlock.KindAchievement: event.TopicAchievementUnlocked,
	unlock.KindMilestone:   event.TopicMilestoneUnlocked,
	unlock.KindGoal:        event.TopicGoalCompleted,
	unlock.KindCollectible: event.TopicCollectibleFound,
}

var kindFields = map[unlock.Kind]string{
	unlock.KindBadge:       state.FieldBadges,
	unlock.KindAchievement: state.FieldAchievements,
	unlock.KindMilestone:   state.FieldMilestones,
	unlock.KindGoal:        state.FieldGoals,
	unlock.KindCollectible: state.FieldCollections,
}

// RunSweeps evaluates all five unlock registries until no new entry fires,
// bounded by maxSweepRounds. Rewards queued during a round are applied
// between rounds, so a reward that satisfies another predicate is picked up
// by the next pass.
func (e *Engine) RunSweeps() []unlock.Entry {
	var all []unlock.Entry
	for round := 0; round < maxSweepRounds; round++ {
		var roundNew []unlock.Entry
		for _, t := range e.trackers {
			queue := &grantQueue{}
			var newly []unlock.Entry
			e.store.Update([]string{kindFields[t.Kind()]}, func(g *state.GameState) {
				newly = t.Sweep(g, queue)
			})
			if len(newly) == 0 {
				continue
			}
			e.markDirty()
			topic := kindTopics[t.Kind()]
			for _, entry := range newly {
				e.bus.Emit(topic, entry.ID)
			}
			for _, grant := range queue.xp {
				e.AwardXP(grant.amount, grant.reason)
			}
			for _, id := range queue.badges {
				e.UnlockBadge(id)
			}
			for _, title := range queue.titles {
				e.AssignTitle(title)
			}
			roundNew = append(roundNew, newly...)
		}
		if len(roundNew) == 0 {
			break
		}
		all = append(all, roundNew...)
	}
	if len(all) > 0 {
		e.refreshModifiers()
	}
	return all
}

// RecordLogin applies the daily login at the engine's clock: first login of
// the day extends or resets the streak and pays the streak bonus.
func (e *Engine) RecordLogin() unlock.LoginResult {
	var res unlock.LoginResult
	e.store.Update([]string{state.FieldStreak}, func(g *state.GameState) {
		res = unlock.ApplyLogin(g, e.clock())
	})
	if !res.First {
		return res
	}
	e.markDirty()
	e.bus.Emit(event.TopicDailyLogin, res)
	e.AwardXP(res.BonusXP, "daily:login")
	e.RunSweeps()
	return res
}

// SeedMissions installs mission content when the state has none, activating
// the first mission. Loading a saved state keeps its missions.
func (e *Engine) SeedMissions(ms []state.Mission) {
	if len(ms) == 0 {
		return
	}
	seeded := false
	e.store.Update([]string{state.FieldMissions}, func(g *state.GameState) {
		if len(g.Missions) > 0 {
			return
		}
		g.Missions = make([]state.Mission, len(ms))
		for i, m := range ms {
			g.Missions[i] = m.Clone()
		}
		if g.Missions[0].Status == state.StatusLocked {
			g.Missions[0].Status = state.StatusActive
		}
		if g.Missions[0].Status == state.StatusActive && g.Missions[0].StartedAt == nil {
			now := e.clock()
			g.Missions[0].StartedAt = &now
		}
		seeded = true
	})
	if seeded {
		e.markDirty()
	}
}

// SelectSolution picks an alternate completion path on a mission.
func (e *Engine) SelectSolution(missionID, solutionID string) error {
	var err error
	e.store.Update([]string{state.FieldMissions}, func(g *state.GameState) {
		err = e.missions.SelectSolution(g, missionID, solutionID)
	})
	if err == nil {
		e.markDirty()
	}
	return err
}

// refreshModifiers recomputes badge multipliers and installs them on the
// resolver.
func (e *Engine) refreshModifiers() {
	mods := unlock.Aggregate(e.store.Snapshot().UnlockedBadges)
	e.resolver.SetModifiers(mods.AllSuccessRate, mods.Channels())
}

func (e *Engine) markDirty() { e.dirty.Store(true) }

// Save persists the current state if anything changed since the last save.
func (e *Engine) Save() error {
	if e.files == nil || !e.dirty.Swap(false) {
		return nil
	}
	return e.files.Save(e.store.Snapshot())
}

// Run drives the periodic sweep and save loops until ctx is cancelled, then
// performs a final save.
func (e *Engine) Run(ctx context.Context) {
	sweep := time.NewTicker(e.sweepEvery)
	defer sweep.Stop()
	save := time.NewTicker(e.saveEvery)
	defer save.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := e.Save(); err != nil {
				log.Printf("game: final save: %v", err)
			}
			return
		case <-sweep.C:
			e.RunSweeps()
		case <-save.C:
			if err := e.Save(); err != nil {
				log.Printf("game: save: %v", err)
			}
		}
	}
}
