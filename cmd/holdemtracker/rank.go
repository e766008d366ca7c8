package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/holdemtracker/internal/deck"
	"github.com/lox/holdemtracker/internal/display"
	"github.com/lox/holdemtracker/internal/evaluator"
	"github.com/lox/holdemtracker/internal/randutil"
)

// RankCmd ranks a hand against a board and estimates its equity.
type RankCmd struct {
	Hand      string `required:"" help:"Hole cards, e.g. 'AH KD'"`
	Board     string `short:"b" help:"Board cards, e.g. '2S 3H 7D'"`
	Samples   int    `short:"n" help:"Monte Carlo samples (defaults to the configured value)"`
	Opponents int    `short:"o" help:"Random opponents (defaults to the configured value)"`
	Seed      *int64 `help:"Random seed for reproducible equity"`
}

func (c *RankCmd) Run(globals *Globals) error {
	cfg, logger, err := globals.setup()
	if err != nil {
		return err
	}

	hand, err := deck.ParseHand(c.Hand)
	if err != nil {
		return fmt.Errorf("hand: %w", err)
	}
	cards, err := deck.ParseCards(c.Board)
	if err != nil {
		return fmt.Errorf("board: %w", err)
	}
	if err := checkDistinct(append(hand.Cards(), cards...)); err != nil {
		return err
	}
	board, err := evaluator.NewBoard(cards...)
	if err != nil {
		return err
	}

	res, err := board.Evaluate(hand)
	if err != nil {
		return err
	}
	desc, err := board.Describe(hand)
	if err != nil {
		return err
	}

	samples, opponents := cfg.Equity.Samples, cfg.Equity.Opponents
	if c.Samples > 0 {
		samples = c.Samples
	}
	if c.Opponents > 0 {
		opponents = c.Opponents
	}
	rng, seed := randutil.Seeded(c.Seed)
	logger.Debug("Estimating equity", "samples", samples, "opponents", opponents, "seed", seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eq, err := evaluator.EstimateEquity(ctx, evaluator.EquityRequest{
		Hand:      hand,
		Board:     cards,
		Opponents: opponents,
		Samples:   samples,
	}, rng)
	if err != nil {
		return err
	}

	fmt.Println(renderRank(hand, board, res, desc, eq, opponents))
	return nil
}

func checkDistinct(cards []deck.Card) error {
	seen := make(map[deck.Card]bool, len(cards))
	for _, c := range cards {
		if seen[c] {
			return deck.DuplicateCardError{Card: c}
		}
		seen[c] = true
	}
	return nil
}

func renderRank(hand deck.Hand, board *evaluator.Board, res evaluator.Result, desc string, eq evaluator.Equity, opponents int) string {
	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, display.LabelStyle.Render(label), value)
	}

	notation := hand.Notation()
	if p, ok := hand.Percentile(); ok {
		notation += fmt.Sprintf(" (%.0f%%)", p*100)
	}

	lines := []string{
		row("Hand", display.FormatCards(hand.Cards())+" "+notation),
		row("Board", display.FormatCards(board.Cards())),
		row("Rank", display.HandInfoStyle.Render(res.Rank.String())),
		row("Best", display.FormatCards(res.BestFive)),
		row("Reads", desc),
		row("Equity", fmt.Sprintf("%.1f%% vs %d (win %.1f%%, tie %.1f%%, %d samples)",
			eq.Share*100, opponents, eq.Win*100, eq.Tie*100, eq.Samples)),
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		display.HeaderStyle.Render("Hand rank"),
		display.BoxStyle.Render(strings.Join(lines, "\n")))
}
