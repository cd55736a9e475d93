// Package config loads the YAML server configuration. A missing file is not
// an error: LoadOrDefault falls back to the built-in defaults so the binary
// runs with zero setup.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Game   GameConfig   `yaml:"game"`
	// Estimates maps mission difficulty to the expected completion time in
	// seconds, used by the leaderboard's time bonus. Missions can override
	// per-mission.
	Estimates map[string]float64 `yaml:"estimates"`
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	Host           string   `yaml:"host"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxConnections int      `yaml:"max_connections"`
}

type GameConfig struct {
	SweepInterval     time.Duration `yaml:"sweep_interval"`
	SaveInterval      time.Duration `yaml:"save_interval"`
	BroadcastThrottle time.Duration `yaml:"broadcast_throttle"`
	SnapshotInterval  time.Duration `yaml:"snapshot_interval"`
	ContentDir        string        `yaml:"content_dir"`
	StateDir          string        `yaml:"state_dir"`
}

// DefaultEstimateSec applies when neither the mission nor the config carries
// an estimate for its difficulty.
const DefaultEstimateSec = 600

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
			Host: "127.0.0.1",
		},
		Game: GameConfig{
			SweepInterval:     30 * time.Second,
			SaveInterval:      15 * time.Second,
			BroadcastThrottle: 100 * time.Millisecond,
			SnapshotInterval:  5 * time.Second,
			ContentDir:        "content",
		},
		Estimates: map[string]float64{
			"easy":      300,
			"medium":    600,
			"hard":      1200,
			"very_hard": 2400,
		},
	}
}

// Load reads and parses the config at path over the defaults. A missing file
// is an error; use LoadOrDefault when the file is optional.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads path if it exists and returns the defaults if it
// does not. Parse errors in an existing file are still reported.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// EstimatedSec returns the expected completion time for a difficulty.
func (c *Config) EstimatedSec(difficulty string) float64 {
	if sec, ok := c.Estimates[difficulty]; ok && sec > 0 {
		return sec
	}
	if sec, ok := c.Estimates["default"]; ok && sec > 0 {
		return sec
	}
	return DefaultEstimateSec
}
