package mission

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
	"unicode"

	"github.com/hackersim/backend/internal/state"
)

// DefaultRewardXP is awarded when a reward string carries no parsable
// integer. Reward XP rides in free text ("50 XP + Hacker Badge"); content
// authors must lead with the amount, and this default papers over the ones
// who forget.
const DefaultRewardXP = 50

// ErrSolutionNotFound is returned when selecting a solution that does not
// exist on the mission.
var ErrSolutionNotFound = errors.New("solution not found")

// ErrMissionNotFound is returned by explicit operations on unknown missions.
// Idempotent operations (CompleteStep) treat unknown ids as a silent no-op
// instead.
var ErrMissionNotFound = errors.New("mission not found")

// Engine applies step and mission completion rules to the mission list held
// in the game state. It mutates the state it is given; callers run it inside
// a store update so observers only ever see fully applied transitions.
type Engine struct {
	// typeRequirements gates mission activation by player level, keyed by
	// mission type. Types without an entry have no gate.
	typeRequirements map[string]int
	clock            func() time.Time
}

func NewEngine() *Engine {
	return &Engine{
		typeRequirements: map[string]int{
			"infiltration": 3,
			"heist":        5,
			"takedown":     8,
		},
		clock: time.Now,
	}
}

// SetClock overrides the time source, for tests.
func (e *Engine) SetClock(clock func() time.Time) { e.clock = clock }

// Completion describes a mission that just completed and the side effects
// the caller owes: XP to award and a leaderboard submission.
type Completion struct {
	MissionID    string  `json:"missionId"`
	Title        string  `json:"title"`
	RewardXP     int     `json:"rewardXp"`
	TimeTakenSec float64 `json:"timeTakenSec"`
	Perfect      bool    `json:"perfect"`
	// UnlockedNext is the id of the next mission activated by this
	// completion, or empty.
	UnlockedNext string `json:"unlockedNext,omitempty"`
}

// StepResult reports what CompleteStep changed.
type StepResult struct {
	Changed    bool
	Completion *Completion // non-nil when the step completed the mission
}

// CompleteStep marks the step completed and recomputes mission progress.
// Unknown mission, unknown step, and already-completed step are all silent
// no-ops. If every step is now complete and the mission is active, the
// mission completes and the next locked mission in sequence may activate.
func (e *Engine) CompleteStep(g *state.GameState, missionID, stepID string) StepResult {
	idx := findMission(g, missionID)
	if idx < 0 {
		return StepResult{}
	}
	m := &g.Missions[idx]

	stepIdx := -1
	for i, s := range m.Steps {
		if s.ID == stepID {
			stepIdx = i
			break
		}
	}
	if stepIdx < 0 || m.Steps[stepIdx].Completed {
		return StepResult{}
	}

	m.Steps[stepIdx].Completed = true
	m.Progress = Recompute(m.Steps)

	res := StepResult{Changed: true}
	if m.Progress == 100 && m.Status == state.StatusActive {
		c := e.completeMission(g, idx)
		res.Completion = &c
	}
	return res
}

// Recompute derives the 0-100 progress value from the step list. The cached
// Progress field is never trusted: the step completion list is the source
// of truth.
func Recompute(steps []state.Step) int {
	if len(steps) == 0 {
		return 0
	}
	done := 0
	for _, s := range steps {
		if s.Completed {
			done++
		}
	}
	return int(math.Round(100 * float64(done) / float64(len(steps))))
}

// completeMission transitions the mission to completed, updates the global
// counters, and activates the next eligible mission. All state changes land
// before the caller runs XP and unlock side effects, so predicate sweeps
// observe the fully updated mission list.
func (e *Engine) completeMission(g *state.GameState, idx int) Completion {
	m := &g.Missions[idx]
	now := e.clock()
	m.Status = state.StatusCompleted
	m.CompletedAt = &now

	g.CompletedMissions++

	var elapsed float64
	if m.StartedAt != nil {
		elapsed = now.Sub(*m.StartedAt).Seconds()
		if elapsed > 0 && (g.FastestMissionSec == 0 || elapsed < g.FastestMissionSec) {
			g.FastestMissionSec = elapsed
		}
	}

	perfect := m.FailedAttempts == 0
	if perfect {
		g.PerfectMissions++
	}

	c := Completion{
		MissionID:    m.ID,
		Title:        m.Title,
		RewardXP:     ParseRewardXP(m.Reward),
		TimeTakenSec: elapsed,
		Perfect:      perfect,
	}
	c.UnlockedNext = e.activateNext(g, idx)
	return c
}

// activateNext unlocks the mission following idx if it is locked and its
// type's level requirement is met. Returns the activated mission id.
func (e *Engine) activateNext(g *state.GameState, idx int) string {
	next := idx + 1
	if next >= len(g.Missions) {
		return ""
	}
	n := &g.Missions[next]
	if n.Status != state.StatusLocked {
		return ""
	}
	if g.Level < e.typeRequirements[n.Type] {
		return ""
	}
	n.Status = state.StatusActive
	now := e.clock()
	n.StartedAt = &now
	return n.ID
}

// ActivateEligible activates locked missions whose predecessor has completed
// and whose level gate is now met. Called after level-ups, so a mission held
// back only by level opens without another completion.
func (e *Engine) ActivateEligible(g *state.GameState) []string {
	var activated []string
	for i := range g.Missions {
		m := &g.Missions[i]
		if m.Status != state.StatusLocked {
			continue
		}
		if i > 0 && g.Missions[i-1].Status != state.StatusCompleted {
			continue
		}
		if g.Level < e.typeRequirements[m.Type] {
			continue
		}
		m.Status = state.StatusActive
		now := e.clock()
		m.StartedAt = &now
		activated = append(activated, m.ID)
	}
	return activated
}

// RecordFailure notes a failed command against every active mission, which
// forfeits their perfect-completion bonus.
func RecordFailure(g *state.GameState) {
	for i := range g.Missions {
		if g.Missions[i].Status == state.StatusActive {
			g.Missions[i].FailedAttempts++
		}
	}
}

// SelectSolution fixes the mission's current solution and starts a fresh
// per-solution progress record. Unlike CompleteStep, an unknown mission or
// solution id is a reported error.
func (e *Engine) SelectSolution(g *state.GameState, missionID, solutionID string) error {
	idx := findMission(g, missionID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrMissionNotFound, missionID)
	}
	m := &g.Missions[idx]
	for _, sol := range m.Solutions {
		if sol.ID == solutionID {
			m.CurrentSolution = solutionID
			m.SolutionProgress = make(map[string]bool)
			return nil
		}
	}
	return fmt.Errorf("%w: %s on mission %s", ErrSolutionNotFound, solutionID, missionID)
}

// SatisfySolutionStep marks one step or command of the current solution
// satisfied. Solution progress is independent of step completion; when every
// referenced key is satisfied, the mission completes with the solution's
// reward. Returns the completion when that happens.
func (e *Engine) SatisfySolutionStep(g *state.GameState, missionID, key string) *Completion {
	idx := findMission(g, missionID)
	if idx < 0 {
		return nil
	}
	m := &g.Missions[idx]
	if m.CurrentSolution == "" || m.Status != state.StatusActive {
		return nil
	}

	var sol *state.Solution
	for i := range m.Solutions {
		if m.Solutions[i].ID == m.CurrentSolution {
			sol = &m.Solutions[i]
			break
		}
	}
	if sol == nil {
		return nil
	}

	referenced := false
	for _, s := range sol.Steps {
		if s == key {
			referenced = true
			break
		}
	}
	if !referenced {
		return nil
	}

	if m.SolutionProgress == nil {
		m.SolutionProgress = make(map[string]bool)
	}
	m.SolutionProgress[key] = true

	for _, s := range sol.Steps {
		if !m.SolutionProgress[s] {
			return nil
		}
	}

	c := e.completeMission(g, idx)
	if sol.RewardXP > 0 {
		c.RewardXP = sol.RewardXP
	}
	return &c
}

// ParseRewardXP extracts the first integer token from a free-text reward
// string ("50 XP + Hacker Badge" -> 50). Missing numbers fall back to
// DefaultRewardXP.
func ParseRewardXP(reward string) int {
	start := -1
	for i, r := range reward {
		if unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			return parseInt(reward[start:i])
		}
	}
	if start >= 0 {
		return parseInt(reward[start:])
	}
	return DefaultRewardXP
}

// parseInt converts a digit run. Atoi errors only on overflow here; an
// absurd reward amount falls back to the default rather than wrapping.
func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return DefaultRewardXP
	}
	return n
}

func findMission(g *state.GameState, id string) int {
	for i := range g.Missions {
		if g.Missions[i].ID == id {
			return i
		}
	}
	return -1
}
