// Package config loads the tracker's HCL configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// DefaultFile is the configuration file read when none is given.
const DefaultFile = "holdemtracker.hcl"

// Config represents the complete tracker configuration
type Config struct {
	Server *ServerSettings `hcl:"server,block"`
	Game   *GameSettings   `hcl:"game,block"`
	Equity *EquitySettings `hcl:"equity,block"`
}

// ServerSettings configures the snapshot server
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// GameSettings are the defaults for tracked sit-and-go games
type GameSettings struct {
	BuyIn         int      `hcl:"buy_in,optional"`
	Multiplier    int      `hcl:"multiplier,optional"`
	StartingStack int      `hcl:"starting_stack,optional"`
	Players       []string `hcl:"players,optional"`
}

// EquitySettings configures Monte Carlo equity estimates
type EquitySettings struct {
	Samples   int `hcl:"samples,optional"`
	Opponents int `hcl:"opponents,optional"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Server: &ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Game: &GameSettings{
			BuyIn:         5,
			Multiplier:    2,
			StartingStack: 500,
			Players:       []string{"hero", "left", "right"},
		},
		Equity: &EquitySettings{
			Samples:   5000,
			Opponents: 2,
		},
	}
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	defaults := Default()

	if c.Server == nil {
		c.Server = defaults.Server
	}
	if c.Server.Address == "" {
		c.Server.Address = defaults.Server.Address
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaults.Server.Port
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = defaults.Server.LogLevel
	}

	if c.Game == nil {
		c.Game = defaults.Game
	}
	if c.Game.BuyIn == 0 {
		c.Game.BuyIn = defaults.Game.BuyIn
	}
	if c.Game.Multiplier == 0 {
		c.Game.Multiplier = defaults.Game.Multiplier
	}
	if c.Game.StartingStack == 0 {
		c.Game.StartingStack = defaults.Game.StartingStack
	}
	if len(c.Game.Players) == 0 {
		c.Game.Players = defaults.Game.Players
	}

	if c.Equity == nil {
		c.Equity = defaults.Equity
	}
	if c.Equity.Samples == 0 {
		c.Equity.Samples = defaults.Equity.Samples
	}
	if c.Equity.Opponents == 0 {
		c.Equity.Opponents = defaults.Equity.Opponents
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if _, err := log.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.Server.LogLevel)
	}

	if c.Game.BuyIn < 0 {
		return fmt.Errorf("game: buy-in must not be negative")
	}
	if c.Game.Multiplier < 1 {
		return fmt.Errorf("game: multiplier must be at least 1")
	}
	if c.Game.StartingStack <= 0 {
		return fmt.Errorf("game: starting stack must be positive")
	}
	if len(c.Game.Players) != 3 {
		return fmt.Errorf("game: exactly 3 players are required, got %d", len(c.Game.Players))
	}
	for i, name := range c.Game.Players {
		if name == "" {
			return fmt.Errorf("game: player %d has no name", i+1)
		}
		if slices.Index(c.Game.Players, name) != i {
			return fmt.Errorf("game: duplicate player name %q", name)
		}
	}

	if c.Equity.Samples <= 0 {
		return fmt.Errorf("equity: samples must be positive")
	}
	if c.Equity.Opponents < 1 || c.Equity.Opponents > 2 {
		return fmt.Errorf("equity: opponents must be 1 or 2")
	}
	return nil
}

// Address returns the full server address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// Stacks returns the starting stack for every configured player.
func (c *Config) Stacks() []int {
	stacks := make([]int, len(c.Game.Players))
	for i := range stacks {
		stacks[i] = c.Game.StartingStack
	}
	return stacks
}
