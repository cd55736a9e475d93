// Package demo drives the game without a player: a scripted operator types
// terminal commands on a ticker so the frontend has something to show.
// Enabled by the -demo flag.
package demo

import (
	"context"
	"log"
	"math/rand/v2"
	"time"

	"github.com/hackersim/backend/internal/game"
)

// defaultScript cycles through the command vocabulary roughly the way a
// player working a mission would: recon first, then entry, then extraction.
var defaultScript = []string{
	"scan", "scan", "connect", "decrypt", "bruteforce",
	"scan", "bypass", "inject", "download", "trace",
}

type Driver struct {
	engine   *game.Engine
	interval time.Duration
	script   []string
	rng      *rand.Rand
}

func New(engine *game.Engine, interval time.Duration) *Driver {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Driver{
		engine:   engine,
		interval: interval,
		script:   defaultScript,
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// SetScript overrides the command sequence, for tests.
func (d *Driver) SetScript(script []string) {
	d.script = script
}

func (d *Driver) Start(ctx context.Context) {
	d.engine.RecordLogin()
	go d.run(ctx)
}

func (d *Driver) run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	step := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cmd := d.script[step%len(d.script)]
			step++

			// An occasional off-script command keeps the counters and
			// achievement sweeps honest.
			if d.rng.IntN(10) == 0 {
				cmd = d.script[d.rng.IntN(len(d.script))]
			}

			res := d.engine.ExecuteCommand(cmd, nil)
			if res.LockedOut {
				log.Printf("demo: %s locked out, moving on", cmd)
			}
		}
	}
}
