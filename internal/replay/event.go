// Package replay turns observations of a table into tracker calls. Events
// arrive either as JSON from the transport or from HCL session scripts.
package replay

import (
	"context"
	"fmt"

	"github.com/lox/holdemtracker/internal/deck"
	"github.com/lox/holdemtracker/internal/game"
	"github.com/lox/holdemtracker/internal/tracker"
)

// EventType identifies what was observed.
type EventType string

const (
	StartGame EventType = "start_game"
	NewRound  EventType = "new_round"
	Action    EventType = "action"
	Board     EventType = "board"
	Reveal    EventType = "reveal"
	EndStreet EventType = "end_street"
	Showdown  EventType = "showdown"
	EndGame   EventType = "end_game"
)

// Event is one observation. Which fields matter depends on Type.
type Event struct {
	Type EventType `json:"type"`

	// start_game
	Players    []string `json:"players,omitempty"`
	Stacks     []int    `json:"stacks,omitempty"`
	BuyIn      int      `json:"buy_in,omitempty"`
	Multiplier int      `json:"multiplier,omitempty"`

	// new_round
	Dealer int          `json:"dealer,omitempty"`
	Blinds *game.Blinds `json:"blinds,omitempty"`

	// new_round (hero) and reveal (any player)
	Hand string `json:"hand,omitempty"`

	// action and reveal
	Player int    `json:"player,omitempty"`
	Action string `json:"action,omitempty"`
	Amount int    `json:"amount,omitempty"`

	// board
	Cards string `json:"cards,omitempty"`
}

func (e Event) String() string {
	switch e.Type {
	case Action:
		if e.Amount > 0 {
			return fmt.Sprintf("%s %s %d", game.PlayerKey(e.Player), e.Action, e.Amount)
		}
		return fmt.Sprintf("%s %s", game.PlayerKey(e.Player), e.Action)
	case Board:
		return "board " + e.Cards
	case Reveal:
		return fmt.Sprintf("reveal %s %s", game.PlayerKey(e.Player), e.Hand)
	default:
		return string(e.Type)
	}
}

func parseHand(s string) (deck.Hand, error) {
	if s == "" {
		return deck.Hand{}, nil
	}
	return deck.ParseHand(s)
}

// Apply feeds one event to the tracker.
func Apply(t *tracker.Tracker, e Event) error {
	switch e.Type {
	case StartGame:
		return t.Start(e.Players, e.Stacks, e.BuyIn, e.Multiplier)

	case NewRound:
		if e.Blinds == nil {
			return fmt.Errorf("new_round needs blinds")
		}
		hand, err := parseHand(e.Hand)
		if err != nil {
			return err
		}
		_, err = t.NewRound(*e.Blinds, hand, e.Dealer)
		return err

	case Action:
		kind, err := game.ParseActionKind(e.Action)
		if err != nil {
			return err
		}
		return t.Act(e.Player, kind, e.Amount)

	case Board:
		cards, err := deck.ParseCards(e.Cards)
		if err != nil {
			return err
		}
		return t.Deal(cards...)

	case Reveal:
		hand, err := deck.ParseHand(e.Hand)
		if err != nil {
			return err
		}
		return t.Reveal(e.Player, hand)

	case EndStreet:
		return t.EndStreet()

	case Showdown:
		_, err := t.Showdown()
		return err

	case EndGame:
		return t.EndGame()
	}
	return fmt.Errorf("unknown event type %q", e.Type)
}

// Run applies events in order, stopping at the first error or when ctx is
// cancelled.
func Run(ctx context.Context, t *tracker.Tracker, events []Event) error {
	for i, e := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := Apply(t, e); err != nil {
			return fmt.Errorf("event %d (%s): %w", i+1, e, err)
		}
	}
	return nil
}
