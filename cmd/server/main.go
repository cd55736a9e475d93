package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/hackersim/backend/internal/config"
	"github.com/hackersim/backend/internal/demo"
	"github.com/hackersim/backend/internal/event"
	"github.com/hackersim/backend/internal/frontend"
	"github.com/hackersim/backend/internal/game"
	"github.com/hackersim/backend/internal/mission"
	"github.com/hackersim/backend/internal/state"
	"github.com/hackersim/backend/internal/ws"
)

func main() {
	demoMode := flag.Bool("demo", false, "Run a scripted player against the engine")
	devMode := flag.Bool("dev", false, "Development mode (serve frontend from filesystem)")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	port := flag.Int("port", 0, "Override server port")
	contentDir := flag.String("content", "", "Override mission content directory")
	stateDir := flag.String("state", "", "Override state directory")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port > 0 {
		cfg.Server.Port = *port
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

	bus := event.NewBus()
	engine := game.New(store, files, bus, game.Options{
		SweepInterval: cfg.Game.SweepInterval,
		SaveInterval:  cfg.Game.SaveInterval,
		EstimateFor:   cfg.EstimatedSec,
	})

	// Seed missions from content on first run; a saved state keeps its own.
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

	broadcaster := ws.NewBroadcaster(store, cfg.Game.BroadcastThrottle, cfg.Game.SnapshotInterval, cfg.Server.MaxConnections)
	broadcaster.AttachBus(bus)

	frontendDir := ""
	if *devMode {
		exe, _ := os.Executable()
		frontendDir = filepath.Join(filepath.Dir(exe), "..", "..", "frontend")
		// If running with go run, the exe path is in a temp dir, use CWD instead
		if _, err := os.Stat(frontendDir); os.IsNotExist(err) {
			cwd, _ := os.Getwd()
			frontendDir = filepath.Join(cwd, "..", "frontend")
		}
	}

	// Embedded frontend handler: when built with -tags embed, serves from binary.
	// Otherwise falls back to serving from the filesystem.
	var embeddedHandler http.Handler
	if !*devMode {
		embeddedHandler = frontend.Handler()
		if embeddedHandler == nil {
			cwd, _ := os.Getwd()
			fallback := filepath.Join(cwd, "..", "frontend")
			if _, err := os.Stat(fallback); err == nil {
				log.Printf("No embedded frontend, falling back to: %s", fallback)
				embeddedHandler = http.FileServer(http.Dir(fallback))
			}
		}
	}

	server := ws.NewServer(engine, broadcaster, frontendDir, *devMode, embeddedHandler, cfg.Server.AllowedOrigins)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go engine.Run(ctx)

	if *demoMode {
		log.Println("Starting in demo mode")
		demo.New(engine, 0).Start(ctx)
	}

	mux := http.NewServeMux()
	server.SetupRoutes(mux)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down...")
		cancel()
		broadcaster.Stop()
		if err := engine.Save(); err != nil {
			log.Printf("Final save failed: %v", err)
		}
		os.Exit(0)
	}()

	if err := ws.ListenAndServe(cfg.Server.Host, cfg.Server.Port, mux); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
