// Package leaderboard scores completed missions and keeps per-mission
// ranked top-N boards inside the game state.
package leaderboard

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/hackersim/backend/internal/state"
)

const (
	// BaseScore is the flat award for any completion; bonuses stack on top.
	BaseScore = 1000

	// MaxEntries caps each mission's stored board.
	MaxEntries = 100

	// rankWindow bounds how deep Rank will scan. Boards are already capped
	// well below this; the bound guards against a corrupted state blob.
	rankWindow = 1000
)

var difficultyMultipliers = map[string]float64{
	"easy":      1.0,
	"medium":    1.5,
	"hard":      2.0,
	"very_hard": 3.0,
}

// Score computes the deterministic mission score. Faster-than-estimate runs
// and low retry counts earn stepped bonuses; the difficulty multiplier is
// applied last and the result floored, so equal runs always tie exactly.
func Score(timeTakenSec, estimatedSec float64, retries int, difficulty string) int {
	score := float64(BaseScore)
	score += float64(timeBonus(timeTakenSec, estimatedSec))
	score += float64(efficiencyBonus(retries))

	mult, ok := difficultyMultipliers[difficulty]
	if !ok {
		mult = 1.0
	}
	return int(math.Floor(score * mult))
}

func timeBonus(taken, estimated float64) int {
	if estimated <= 0 || taken <= 0 {
		return 0
	}
	ratio := taken / estimated
	switch {
	case ratio <= 0.5:
		return 500
	case ratio <= 0.75:
		return 300
	case ratio <= 1.0:
		return 100
	default:
		return 0
	}
}

func efficiencyBonus(retries int) int {
	switch retries {
	case 0:
		return 300
	case 1:
		return 150
	case 2:
		return 50
	default:
		return 0
	}
}

// Submit records a score on the mission's board, keeping it sorted high to
// low. The sort is stable, so equal scores keep submission order: earlier
// runs outrank later ties. Boards are truncated to MaxEntries; an entry that
// falls off the end is gone. Returns the stored entry.
func Submit(g *state.GameState, missionID string, score int, at time.Time) state.ScoreEntry {
	entry := state.ScoreEntry{
		ID:         uuid.NewString(),
		PlayerID:   g.PlayerID,
		MissionID:  missionID,
		Score:      score,
		RecordedAt: at,
	}

	if g.Leaderboards == nil {
		g.Leaderboards = make(map[string][]state.ScoreEntry)
	}
	board := append(g.Leaderboards[missionID], entry)
	sort.SliceStable(board, func(i, j int) bool {
		return board[i].Score > board[j].Score
	})
	if len(board) > MaxEntries {
		board = board[:MaxEntries]
	}
	g.Leaderboards[missionID] = board
	return entry
}

// Rank returns the 1-based position of an entry id on its mission's board,
// or 0 if the entry is not present. The store holds one player, who may have
// several runs on the same board, so ranks key on the entry id of a single
// run rather than on the player id.
func Rank(g *state.GameState, missionID, entryID string) int {
	board := g.Leaderboards[missionID]
	for i, e := range board {
		if i >= rankWindow {
			break
		}
		if e.ID == entryID {
			return i + 1
		}
	}
	return 0
}

// Top returns up to n entries from the mission's board, best first.
func Top(g *state.GameState, missionID string, n int) []state.ScoreEntry {
	board := g.Leaderboards[missionID]
	if n > len(board) {
		n = len(board)
	}
	out := make([]state.ScoreEntry, n)
	copy(out, board[:n])
	return out
}
