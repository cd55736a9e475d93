package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const (
	// stateVersion is bumped when the schema changes. Load can use it to
	// apply migrations in the future.
	stateVersion = 1

	stateFileName = "state.json"
	appDirName    = "hackersim"
)

// FileStore handles loading and saving GameState to disk. The browser
// frontend treats this as an opaque blob store; the schema belongs to the
// backend alone.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir. The directory is created
// on the first Save. Pass an empty string to use the default XDG state path.
func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = defaultStateDir()
	}
	return &FileStore{dir: dir}
}

// Path returns the full path to the state file.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, stateFileName)
}

// Load reads the game state from disk. If the file does not exist, a fresh
// state with a new player id is returned.
func (s *FileStore) Load() (*GameState, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return NewGameState(), nil
		}
		return nil, fmt.Errorf("reading state: %w", err)
	}

	var g GameState
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parsing state: %w", err)
	}
	g.initMaps()
	if g.PlayerID == "" {
		g.PlayerID = uuid.NewString()
	}
	if g.Level < 1 {
		g.Level = 1
	}
	return &g, nil
}

// Save writes the state to disk using an atomic temp-file-then-rename.
func (s *FileStore) Save(g *GameState) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}

	g.Version = stateVersion
	g.LastUpdated = time.Now().UTC()

	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(s.dir, ".state-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path()); err != nil {
		return fmt.Errorf("renaming state file: %w", err)
	}
	committed = true

	return nil
}

// NewGameState returns a zero-progress state with initialized maps and a
// fresh player id.
func NewGameState() *GameState {
	return &GameState{
		Version:            stateVersion,
		PlayerID:           uuid.NewString(),
		Level:              1,
		Collections:        make(map[string][]string),
		DailyCompletions:   make(map[string]int),
		DailyCommandCounts: make(map[string]map[string]int),
		ClaimedChallenges:  make(map[string][]string),
		CommandCounts:      make(map[string]int),
		Leaderboards:       make(map[string][]ScoreEntry),
	}
}

// initMaps ensures all map fields are non-nil after deserialization.
func (g *GameState) initMaps() {
	if g.Collections == nil {
		g.Collections = make(map[string][]string)
	}
	if g.DailyCompletions == nil {
		g.DailyCompletions = make(map[string]int)
	}
	if g.DailyCommandCounts == nil {
		g.DailyCommandCounts = make(map[string]map[string]int)
	}
	if g.ClaimedChallenges == nil {
		g.ClaimedChallenges = make(map[string][]string)
	}
	if g.CommandCounts == nil {
		g.CommandCounts = make(map[string]int)
	}
	if g.Leaderboards == nil {
		g.Leaderboards = make(map[string][]ScoreEntry)
	}
}

// defaultStateDir returns ~/.local/state/hackersim, respecting
// XDG_STATE_HOME if set.
func defaultStateDir() string {
	if base := os.Getenv("XDG_STATE_HOME"); base != "" {
		return filepath.Join(base, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".local", "state", appDirName)
}
