// Package display renders rounds and games for the terminal.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/holdemtracker/internal/deck"
	"github.com/lox/holdemtracker/internal/game"
	"github.com/lox/holdemtracker/internal/statistics"
)

// FormatCards formats cards with colors
func FormatCards(cards []deck.Card) string {
	if len(cards) == 0 {
		return "[]"
	}

	formatted := make([]string, 0, len(cards))
	for _, card := range cards {
		if card.Suit.IsRed() {
			formatted = append(formatted, RedCardStyle.Render(card.String()))
		} else {
			formatted = append(formatted, BlackCardStyle.Render(card.String()))
		}
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

// DescribeAction phrases one log entry, e.g. "left raises to 60".
func DescribeAction(name string, a game.RoundAction) string {
	switch a.Kind {
	case game.Check:
		return name + " checks"
	case game.Call:
		return fmt.Sprintf("%s calls %d", name, a.Amount)
	case game.Bet:
		return fmt.Sprintf("%s bets %d", name, a.Amount)
	case game.Raise:
		return fmt.Sprintf("%s raises to %d", name, a.Amount)
	case game.Fold:
		return name + " folds"
	case game.AllIn:
		return fmt.Sprintf("%s is all-in for %d", name, a.Amount)
	case game.PaySmallBlind:
		return fmt.Sprintf("%s posts small blind %d", name, a.Amount)
	case game.PayBigBlind:
		return fmt.Sprintf("%s posts big blind %d", name, a.Amount)
	default:
		return name + " waits"
	}
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle.Render(label), value)
}

func handInfo(r *game.Round) string {
	hand := r.Hand()
	if !hand.IsSet() {
		return InfoStyle.Render("unknown")
	}

	info := FormatCards(hand.Cards()) + " " + hand.Notation()
	if p, ok := hand.Percentile(); ok {
		info += fmt.Sprintf(" (%.0f%%)", p*100)
	}
	if desc, err := r.Board().Describe(hand); err == nil {
		info += " " + HandInfoStyle.Render(desc)
	}
	return info
}

// RenderRound renders a recap of round number n.
func RenderRound(r *game.Round, n int) string {
	header := HeaderStyle.Render(fmt.Sprintf("Round %d", n))

	blinds := r.Blinds()
	lines := []string{
		row("Dealer", r.Name(r.Dealer())),
		row("Blinds", fmt.Sprintf("%d/%d", blinds.Small, blinds.Big)),
		row("Hand", handInfo(r)),
		row("Board", FormatCards(r.Board().Cards())),
	}

	for _, street := range []game.Street{game.Preflop, game.Flop, game.Turn, game.River} {
		actions := r.Actions(street)
		if len(actions) == 0 {
			continue
		}
		described := make([]string, 0, len(actions))
		for _, a := range actions {
			described = append(described, DescribeAction(r.Name(a.Player), a))
		}
		lines = append(lines, row(street.String(), ActionsStyle.Render(strings.Join(described, ", "))))
	}

	lines = append(lines, row("Pot", fmt.Sprintf("%d", r.Pot())))
	lines = append(lines, renderOutcome(r)...)

	return lipgloss.JoinVertical(lipgloss.Left, header, BoxStyle.Render(strings.Join(lines, "\n")))
}

func renderOutcome(r *game.Round) []string {
	res, err := r.Result()
	if err != nil {
		return []string{row("Status", InfoStyle.Render("in progress, "+r.Street().String()))}
	}

	var lines []string
	if res.Showdown {
		for _, group := range res.Ranking {
			for _, seat := range group {
				status, _ := r.Status(seat)
				shown := InfoStyle.Render("mucked")
				if status.Hand.IsSet() {
					shown = FormatCards(status.Hand.Cards())
					if desc, err := r.Board().Describe(status.Hand); err == nil {
						shown += " " + desc
					}
				}
				lines = append(lines, row("Shows", r.Name(seat)+" "+shown))
			}
		}
	}

	for _, p := range res.Payouts {
		name := r.Name(p.Seat)
		switch {
		case p.Won > 0 && p.Seat == game.HeroSeat:
			lines = append(lines, row("Result", SuccessStyle.Render(fmt.Sprintf("%s wins %d", name, p.Won))))
		case p.Won > 0:
			lines = append(lines, row("Result", fmt.Sprintf("%s wins %d", name, p.Won)))
		}
		if p.Refund > 0 {
			lines = append(lines, row("Refund", fmt.Sprintf("%s gets %d back", name, p.Refund)))
		}
	}
	return lines
}

// RenderGame renders the game's players and outcome.
func RenderGame(g *game.Game) string {
	header := HeaderStyle.Render("Game " + g.ID())

	lines := []string{
		row("Buy-in", fmt.Sprintf("%d x%d", g.BuyIn(), g.Multiplier())),
		row("Rounds", fmt.Sprintf("%d", len(g.Rounds()))),
	}
	for _, p := range g.Players() {
		stack := fmt.Sprintf("%d", p.Stack)
		if p.Eliminated {
			stack = ErrorStyle.Render("eliminated")
		}
		lines = append(lines, row(p.Name, stack))
	}

	if stats := statistics.FromGame(g); stats.Rounds > 0 {
		lines = append(lines, row("Hero", fmt.Sprintf("%+d chips, %.2f bb/round, VPIP %.0f%%",
			stats.NetChips, stats.Mean(), stats.VPIP()*100)))
	}

	switch {
	case g.Won():
		lines = append(lines, row("Status", SuccessStyle.Render(fmt.Sprintf("won, prize %d", g.Prize()))))
	case g.IsOver():
		lines = append(lines, row("Status", ErrorStyle.Render("over")))
	default:
		lines = append(lines, row("Status", InfoStyle.Render("in progress")))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, BoxStyle.Render(strings.Join(lines, "\n")))
}
