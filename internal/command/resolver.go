// Package command resolves terminal command attempts into success or
// failure. Each command has a base success rate that consecutive failures
// erode; unlocked badges can push the odds back up. The resolver draws from
// an injectable random source and never updates its own retry counters: the
// caller reports outcomes explicitly, so a mini-game can substitute its own
// result for the draw without double-counting.
package command

import "sync"

const (
	// DefaultBaseRate applies to commands without an explicit entry.
	DefaultBaseRate = 0.8
	// RetryPenalty is subtracted from the base rate per consecutive failure.
	RetryPenalty = 0.1
	// MinSuccessRate is the floor no penalty can push below.
	MinSuccessRate = 0.1
	// MaxRetries consecutive failures lock a command out. The lockout itself
	// is caller policy; LockedOut reports when it applies.
	MaxRetries = 3
)

// baseRates holds per-command base success rates. Missing commands use
// DefaultBaseRate.
var baseRates = map[string]float64{
	"scan":       0.9,
	"connect":    0.85,
	"download":   0.8,
	"decrypt":    0.75,
	"bruteforce": 0.7,
	"bypass":     0.65,
	"inject":     0.6,
	"trace":      0.8,
}

// modifierChannel maps a command to the badge-modifier channel that applies
// to it, if any. The allSuccessRate channel applies to every command.
var modifierChannel = map[string]string{
	"decrypt": "decryptSuccess",
	"bypass":  "bypassChance",
}

// Outcome is the final result of a command attempt. Reason is set when the
// outcome came from a mini-game instead of the probabilistic draw
// (e.g. "cancelled" when the player aborted it).
type Outcome struct {
	Success bool    `json:"success"`
	Reason  string  `json:"reason,omitempty"`
	TimeSec float64 `json:"time,omitempty"`
}

// Resolver computes success probabilities and draws outcomes. Retry counters
// are process-lifetime only: they reset on restart and are never persisted,
// so a string of early failures is not a lasting punishment.
type Resolver struct {
	mu         sync.Mutex
	retries    map[string]int
	rng        RandomSource
	allRate    float64            // global multiplier from badges
	perCommand map[string]float64 // modifier channel name -> multiplier
}

func NewResolver(rng RandomSource) *Resolver {
	return &Resolver{
		retries:    make(map[string]int),
		rng:        rng,
		allRate:    1.0,
		perCommand: make(map[string]float64),
	}
}

// SetModifiers installs the current badge multipliers: a global
// allSuccessRate factor and named per-channel factors (decryptSuccess,
// bypassChance). Call whenever the unlocked badge set changes.
func (r *Resolver) SetModifiers(allSuccessRate float64, channels map[string]float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.allRate = allSuccessRate
	r.perCommand = make(map[string]float64, len(channels))
	for k, v := range channels {
		r.perCommand[k] = v
	}
}

// BaseRate returns the configured base success rate for a command.
func BaseRate(cmd string) float64 {
	if rate, ok := baseRates[cmd]; ok {
		return rate
	}
	return DefaultBaseRate
}

// SuccessProbability returns the current success probability for cmd,
// clamped to [MinSuccessRate, 1.0].
func (r *Resolver) SuccessProbability(cmd string) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.probabilityLocked(cmd)
}

func (r *Resolver) probabilityLocked(cmd string) float64 {
	p := BaseRate(cmd) - float64(r.retries[cmd])*RetryPenalty
	if p < MinSuccessRate {
		p = MinSuccessRate
	}
	if r.allRate > 0 {
		p *= r.allRate
	}
	if ch, ok := modifierChannel[cmd]; ok {
		if mult, ok := r.perCommand[ch]; ok && mult > 0 {
			p *= mult
		}
	}
	return min(max(p, MinSuccessRate), 1.0)
}

// Resolve draws an outcome for cmd. It does not touch the retry counter;
// report the final outcome with RecordAttempt.
func (r *Resolver) Resolve(cmd string) bool {
	r.mu.Lock()
	p := r.probabilityLocked(cmd)
	r.mu.Unlock()
	return r.rng.Float64() < p
}

// RecordAttempt updates the consecutive-failure counter for cmd: success
// resets it, failure increments it. Mini-game outcomes (including
// cancellations) are reported through the same path.
func (r *Resolver) RecordAttempt(cmd string, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if success {
		r.retries[cmd] = 0
		return
	}
	r.retries[cmd]++
}

// Retries returns the consecutive-failure count for cmd.
func (r *Resolver) Retries(cmd string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.retries[cmd]
}

// LockedOut reports whether cmd has hit MaxRetries consecutive failures.
// Enforcing the lockout is the caller's decision.
func (r *Resolver) LockedOut(cmd string) bool {
	return r.Retries(cmd) >= MaxRetries
}

// Reset clears all retry counters, e.g. when a mission completes.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retries = make(map[string]int)
}
