package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/lox/holdemtracker/internal/config"
)

// version is set by ldflags during build
var version = "dev"

// Globals are the flags shared by every command.
type Globals struct {
	Config   string `short:"c" default:"holdemtracker.hcl" env:"HOLDEMTRACKER_CONFIG" help:"Path to the HCL config file"`
	LogLevel string `name:"log-level" env:"HOLDEMTRACKER_LOG_LEVEL" help:"Override the configured log level (debug, info, warn, error)"`
}

// setup loads the configuration and builds the logger every command uses.
func (g *Globals) setup() (*config.Config, *log.Logger, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, nil, fmt.Errorf("loading %s: %w", g.Config, err)
	}
	if g.LogLevel != "" {
		cfg.Server.LogLevel = g.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	level, err := log.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
	return cfg, logger, nil
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Replay   ReplayCmd        `cmd:"" help:"Replay an HCL session script and print round recaps"`
	Serve    ServeCmd         `cmd:"" help:"Run the snapshot server"`
	Rank     RankCmd          `cmd:"" help:"Rank a hand and estimate its equity"`
	Validate ValidateCmd      `cmd:"" help:"Validate a snapshot document against its JSON schema"`
}

func main() {
	// A missing .env is fine
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holdemtracker"),
		kong.Description("Texas Hold'em hand evaluator and three-seat sit-and-go tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
