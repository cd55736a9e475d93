package mission

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/hackersim/backend/internal/state"
)

// dailyChallengeCount is how many challenges rotate in per day.
const dailyChallengeCount = 3

// target templates for procedural missions. Each row pairs a flavor name
// with the step vocabulary the matcher recognizes, so every generated step
// is satisfiable by some command.
var targetNames = []string{
	"MegaCorp mainframe", "city power grid", "offshore data haven",
	"satellite uplink", "darknet exchange", "research lab cluster",
	"bank clearing house", "signal relay station",
}

var stepTemplates = []struct {
	text    string
	command string
}{
	{"Scan the network for open ports", "scan"},
	{"Connect to the remote server", "connect"},
	{"Decrypt the intercepted password hash", "decrypt"},
	{"Bruteforce the admin credentials", "bruteforce"},
	{"Bypass the intrusion defense grid", "bypass"},
	{"Inject the payload through the vulnerability", "inject"},
	{"Download the target data files", "download"},
	{"Trace the connection back to its origin", "trace"},
}

var difficultyTiers = []struct {
	name  string
	steps int
	xp    int
}{
	{"easy", 3, 50},
	{"medium", 4, 100},
	{"hard", 5, 200},
	{"very_hard", 6, 400},
}

// Generate builds n procedural missions from a seed. The same seed always
// yields the same missions, so a run can be replayed. Generated missions
// start locked; the first authored mission stays the entry point.
func Generate(seed uint64, n int) []state.Mission {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	missions := make([]state.Mission, 0, n)
	for i := 0; i < n; i++ {
		tier := difficultyTiers[rng.IntN(len(difficultyTiers))]
		target := targetNames[rng.IntN(len(targetNames))]

		perm := rng.Perm(len(stepTemplates))
		steps := make([]state.Step, tier.steps)
		for j := 0; j < tier.steps; j++ {
			tpl := stepTemplates[perm[j%len(perm)]]
			steps[j] = state.Step{
				ID:   fmt.Sprintf("step-%d", j+1),
				Text: tpl.text,
			}
		}

		m := state.Mission{
			ID:          fmt.Sprintf("gen-%016x-%02d", seed, i+1),
			Title:       fmt.Sprintf("Operation: %s", target),
			Description: fmt.Sprintf("Infiltrate the %s and get out clean.", target),
			Type:        "generated",
			Difficulty:  tier.name,
			Status:      state.StatusLocked,
			Steps:       steps,
			Reward:      fmt.Sprintf("%d XP", tier.xp),
		}
		missions = append(missions, m)
	}
	return missions
}

// DailyChallenge is a one-day goal keyed into DailyCompletions by date.
type DailyChallenge struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Command     string `json:"command"`
	Target      int    `json:"target"`
	RewardXP    int    `json:"rewardXp"`
}

var dailyPool = []DailyChallenge{
	{ID: "daily_scan", Description: "Run 5 network scans", Command: "scan", Target: 5, RewardXP: 30},
	{ID: "daily_decrypt", Description: "Decrypt 3 ciphers", Command: "decrypt", Target: 3, RewardXP: 40},
	{ID: "daily_bruteforce", Description: "Bruteforce 3 credential sets", Command: "bruteforce", Target: 3, RewardXP: 40},
	{ID: "daily_bypass", Description: "Bypass 2 defense grids", Command: "bypass", Target: 2, RewardXP: 50},
	{ID: "daily_inject", Description: "Inject 2 payloads", Command: "inject", Target: 2, RewardXP: 50},
	{ID: "daily_download", Description: "Exfiltrate 3 data caches", Command: "download", Target: 3, RewardXP: 40},
	{ID: "daily_trace", Description: "Trace 2 connections to source", Command: "trace", Target: 2, RewardXP: 40},
	{ID: "daily_connect", Description: "Open 5 remote sessions", Command: "connect", Target: 5, RewardXP: 30},
}

// DailyChallenges deterministically picks the day's challenges from the pool
// using a hash-based shuffle, so every client agrees on the rotation without
// coordination.
func DailyChallenges(day time.Time) []DailyChallenge {
	n := len(dailyPool)

	h := sha256.Sum256([]byte(day.Format("2006-01-02")))
	seed := binary.BigEndian.Uint64(h[:8])

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	for i := n - 1; i > 0; i-- {
		seed = seed*6364136223846793005 + 1442695040888963407 // LCG step
		j := int(seed % uint64(i+1))
		indices[i], indices[j] = indices[j], indices[i]
	}

	count := dailyChallengeCount
	if count > n {
		count = n
	}
	picked := make([]DailyChallenge, count)
	for i := 0; i < count; i++ {
		picked[i] = dailyPool[indices[i]]
	}
	return picked
}

// RecordDailyCommand counts one successful command toward the day's
// challenges and returns any that just reached their target. A challenge
// claims at most once per day; the claim is recorded on the state so the
// reward is never paid twice. Runs inside a store update.
func RecordDailyCommand(g *state.GameState, cmd string, day time.Time) []DailyChallenge {
	key := day.UTC().Format("2006-01-02")
	if g.DailyCommandCounts == nil {
		g.DailyCommandCounts = make(map[string]map[string]int)
	}
	counts := g.DailyCommandCounts[key]
	if counts == nil {
		counts = make(map[string]int)
		g.DailyCommandCounts[key] = counts
	}
	counts[cmd]++

	var claimed []DailyChallenge
	for _, ch := range DailyChallenges(day) {
		if counts[ch.Command] < ch.Target || challengeClaimed(g, key, ch.ID) {
			continue
		}
		if g.ClaimedChallenges == nil {
			g.ClaimedChallenges = make(map[string][]string)
		}
		g.ClaimedChallenges[key] = append(g.ClaimedChallenges[key], ch.ID)
		claimed = append(claimed, ch)
	}
	return claimed
}

func challengeClaimed(g *state.GameState, key, id string) bool {
	for _, c := range g.ClaimedChallenges[key] {
		if c == id {
			return true
		}
	}
	return false
}
