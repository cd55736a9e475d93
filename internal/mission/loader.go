package mission

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hackersim/backend/internal/state"
)

// missionFile is the YAML shape of an authored content file.
type missionFile struct {
	Missions []state.Mission `yaml:"missions"`
}

// Load reads mission definitions from path, which may be a single YAML file
// or a directory of them (read in name order). Invalid records are dropped,
// never fatal; the count of rejected records is returned alongside the
// accepted ones.
func Load(path string) ([]state.Mission, int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, 0, fmt.Errorf("content source: %w", err)
	}

	var files []string
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, 0, fmt.Errorf("reading content dir: %w", err)
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || (!strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml")) {
				continue
			}
			files = append(files, filepath.Join(path, name))
		}
		sort.Strings(files)
	} else {
		files = []string{path}
	}

	var accepted []state.Mission
	rejected := 0
	seen := make(map[string]bool)
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, rejected, fmt.Errorf("reading %s: %w", f, err)
		}
		var mf missionFile
		if err := yaml.Unmarshal(data, &mf); err != nil {
			return nil, rejected, fmt.Errorf("parsing %s: %w", f, err)
		}
		for _, m := range mf.Missions {
			if err := Validate(m); err != nil {
				rejected++
				log.Printf("mission: dropping invalid record in %s: %v", filepath.Base(f), err)
				continue
			}
			if seen[m.ID] {
				rejected++
				log.Printf("mission: dropping duplicate id %s in %s", m.ID, filepath.Base(f))
				continue
			}
			seen[m.ID] = true
			m.Progress = Recompute(m.Steps)
			accepted = append(accepted, m)
		}
	}
	return accepted, rejected, nil
}

// Validate checks the required fields of an authored mission record.
func Validate(m state.Mission) error {
	if m.ID == "" {
		return fmt.Errorf("missing id")
	}
	if m.Title == "" {
		return fmt.Errorf("%s: missing title", m.ID)
	}
	if m.Description == "" {
		return fmt.Errorf("%s: missing description", m.ID)
	}
	switch m.Status {
	case state.StatusActive, state.StatusLocked, state.StatusCompleted:
	default:
		return fmt.Errorf("%s: invalid status %q", m.ID, m.Status)
	}
	if len(m.Steps) == 0 {
		return fmt.Errorf("%s: no steps", m.ID)
	}
	if m.Reward == "" {
		return fmt.Errorf("%s: missing reward", m.ID)
	}
	stepIDs := make(map[string]bool)
	for i, s := range m.Steps {
		if s.ID == "" {
			return fmt.Errorf("%s: step %d missing id", m.ID, i)
		}
		if s.Text == "" {
			return fmt.Errorf("%s: step %s missing text", m.ID, s.ID)
		}
		if stepIDs[s.ID] {
			return fmt.Errorf("%s: duplicate step id %s", m.ID, s.ID)
		}
		stepIDs[s.ID] = true
	}
	for _, sol := range m.Solutions {
		if sol.ID == "" {
			return fmt.Errorf("%s: solution missing id", m.ID)
		}
		if len(sol.Steps) == 0 {
			return fmt.Errorf("%s: solution %s has no steps", m.ID, sol.ID)
		}
	}
	return nil
}
