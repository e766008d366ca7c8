package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/lox/holdemtracker/internal/replay"
	"github.com/lox/holdemtracker/internal/server"
	"github.com/lox/holdemtracker/internal/tracker"
)

// ServeCmd runs the snapshot server.
type ServeCmd struct {
	Addr   string `help:"Listen address, overriding the configured host and port"`
	Script string `type:"existingfile" help:"Replay an HCL session script into the tracker once serving"`
}

func (c *ServeCmd) Run(globals *Globals) error {
	cfg, logger, err := globals.setup()
	if err != nil {
		return err
	}

	var events []replay.Event
	if c.Script != "" {
		if events, err = loadEvents(c.Script, cfg); err != nil {
			return err
		}
	}

	addr := cfg.Address()
	if c.Addr != "" {
		addr = c.Addr
	}

	t := tracker.New(cfg.Game.BuyIn, cfg.Game.Multiplier, tracker.WithLogger(logger))
	srv := server.NewServer(addr, t, logger, server.WithEquitySamples(cfg.Equity.Samples))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(ctx)
	})
	if len(events) > 0 {
		g.Go(func() error {
			if err := replay.Run(ctx, t, events); err != nil {
				return fmt.Errorf("replaying %s: %w", c.Script, err)
			}
			logger.Info("Replay complete", "script", c.Script, "events", len(events))
			return nil
		})
	}
	return g.Wait()
}
