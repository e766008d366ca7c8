package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/lox/holdemtracker/internal/config"
	"github.com/lox/holdemtracker/internal/display"
	"github.com/lox/holdemtracker/internal/game"
	"github.com/lox/holdemtracker/internal/phh"
	"github.com/lox/holdemtracker/internal/replay"
	"github.com/lox/holdemtracker/internal/tracker"
)

// ReplayCmd feeds a session script through a tracker.
type ReplayCmd struct {
	Script   string `arg:"" type:"existingfile" help:"HCL session script"`
	JSON     bool   `help:"Print the final game snapshot as JSON instead of recaps"`
	Detailed bool   `help:"Use the detailed snapshot shape with --json"`
	PHHDir   string `name:"phh-dir" type:"existingdir" help:"Write a PHH record of every finished round into this directory"`
}

func (c *ReplayCmd) Run(globals *Globals) error {
	cfg, logger, err := globals.setup()
	if err != nil {
		return err
	}

	events, err := loadEvents(c.Script, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	t := tracker.New(cfg.Game.BuyIn, cfg.Game.Multiplier, tracker.WithLogger(logger))
	if err := replay.Run(ctx, t, events); err != nil {
		return fmt.Errorf("replaying %s: %w", c.Script, err)
	}
	logger.Info("Replay complete", "script", c.Script, "events", len(events))

	if c.PHHDir != "" {
		if err := writeHandHistories(t, c.PHHDir, logger); err != nil {
			return err
		}
	}

	if c.JSON {
		data, err := t.Snapshot(c.Detailed)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	return t.View(func(g *game.Game) error {
		for i, r := range g.Rounds() {
			fmt.Println(display.RenderRound(r, i+1))
		}
		fmt.Println(display.RenderGame(g))
		return nil
	})
}

// loadEvents decodes a script, filling game settings it leaves out from
// the configuration.
func loadEvents(path string, cfg *config.Config) ([]replay.Event, error) {
	script, err := replay.LoadScript(path)
	if err != nil {
		return nil, err
	}
	if script.Game.BuyIn == 0 {
		script.Game.BuyIn = cfg.Game.BuyIn
	}
	if script.Game.Multiplier == 0 {
		script.Game.Multiplier = cfg.Game.Multiplier
	}
	if len(script.Game.Stacks) == 0 && script.Game.StartingStack == 0 {
		script.Game.StartingStack = cfg.Game.StartingStack
	}
	return script.Events()
}

func writeHandHistories(t *tracker.Tracker, dir string, logger *log.Logger) error {
	var rounds int
	err := t.View(func(g *game.Game) error {
		rounds = len(g.Rounds())
		return nil
	})
	if err != nil {
		return err
	}

	written := 0
	for n := 1; n <= rounds; n++ {
		hh, err := t.RoundHistory(n)
		if errors.Is(err, game.ErrRoundNotEnded) {
			continue
		}
		if err != nil {
			return fmt.Errorf("round %d: %w", n, err)
		}
		path := filepath.Join(dir, phh.FileName(hh.HandID))
		if err := phh.WriteFile(path, hh); err != nil {
			return err
		}
		written++
	}
	logger.Info("Wrote hand histories", "dir", dir, "rounds", written)
	return nil
}
