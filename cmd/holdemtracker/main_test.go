package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdemtracker/internal/config"
	"github.com/lox/holdemtracker/internal/deck"
	"github.com/lox/holdemtracker/internal/phh"
	"github.com/lox/holdemtracker/internal/replay"
	"github.com/lox/holdemtracker/internal/tracker"
)

const sessionScript = "../../internal/replay/testdata/session.hcl"

func TestGlobalsSetup(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "none.hcl")

	cfg, logger, err := (&Globals{Config: missing}).setup()
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, log.InfoLevel, logger.GetLevel())

	_, logger, err = (&Globals{Config: missing, LogLevel: "debug"}).setup()
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, logger.GetLevel())

	_, _, err = (&Globals{Config: missing, LogLevel: "chatty"}).setup()
	assert.ErrorContains(t, err, "invalid config")
}

func TestLoadEventsFillsFromConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "short.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
game {
  players = ["hero", "left", "right"]
}
`), 0o600))

	cfg := config.Default()
	cfg.Game.StartingStack = 800
	cfg.Game.BuyIn = 20

	events, err := loadEvents(path, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, replay.StartGame, events[0].Type)
	assert.Equal(t, []int{800, 800, 800}, events[0].Stacks)
	assert.Equal(t, 20, events[0].BuyIn)
	assert.Equal(t, 2, events[0].Multiplier)
}

func TestWriteHandHistories(t *testing.T) {
	t.Parallel()

	events, err := loadEvents(sessionScript, config.Default())
	require.NoError(t, err)

	tr := tracker.New(5, 2)
	require.NoError(t, replay.Run(context.Background(), tr, events))

	dir := t.TempDir()
	require.NoError(t, writeHandHistories(tr, dir, log.New(io.Discard)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	hh, err := phh.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, "NT", hh.Variant)
	assert.Equal(t, "holdemtracker", hh.Table)
	assert.Equal(t, entries[0].Name(), phh.FileName(hh.HandID))
}

func TestCheckDistinct(t *testing.T) {
	t.Parallel()

	require.NoError(t, checkDistinct(deck.MustParseCards("AH KD 2S 7D 9C")))

	var dup deck.DuplicateCardError
	require.ErrorAs(t, checkDistinct(deck.MustParseCards("AH KD KD")), &dup)
	assert.Equal(t, deck.MustParseCards("KD")[0], dup.Card)
}
