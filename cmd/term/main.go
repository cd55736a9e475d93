// Command term runs the game in the terminal: the same engine the server
// uses, fronted by a bubbletea prompt instead of a browser.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/hackersim/backend/internal/config"
	"github.com/hackersim/backend/internal/event"
	"github.com/hackersim/backend/internal/game"
	"github.com/hackersim/backend/internal/mission"
	"github.com/hackersim/backend/internal/state"
	"github.com/hackersim/backend/internal/tui"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	contentDir := flag.String("content", "", "Override mission content directory")
	stateDir := flag.String("state", "", "Override state directory")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *contentDir != "" {
		cfg.Game.ContentDir = *contentDir
	}
	if *stateDir != "" {
		cfg.Game.StateDir = *stateDir
	}

	files := state.NewFileStore(cfg.Game.StateDir)
	saved, err := files.Load()
	if err != nil {
		log.Fatalf("Failed to load state: %v", err)
	}
	store := state.NewStore(saved)

	engine := game.New(store, files, event.NewBus(), game.Options{
		SweepInterval: cfg.Game.SweepInterval,
		SaveInterval:  cfg.Game.SaveInterval,
		EstimateFor:   cfg.EstimatedSec,
	})

	if len(saved.Missions) == 0 {
		missions, rejected, err := mission.Load(cfg.Game.ContentDir)
		if err != nil {
			log.Printf("No mission content loaded from %s: %v", cfg.Game.ContentDir, err)
		} else {
			if rejected > 0 {
				log.Printf("Rejected %d invalid mission records", rejected)
			}
			engine.SeedMissions(missions)
		}
	}

	engine.RecordLogin()

	ctx, cancel := context.WithCancel(context.Background())
	go engine.Run(ctx)

	if err := tui.Run(engine); err != nil {
		cancel()
		log.Fatalf("TUI error: %v", err)
	}
	cancel()

	if err := engine.Save(); err != nil {
		log.Printf("Final save failed: %v", err)
	}
}
