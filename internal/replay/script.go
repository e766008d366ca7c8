package replay

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/holdemtracker/internal/game"
)

// Script is a recorded session:
//
//	game {
//	  buy_in     = 5
//	  multiplier = 2
//	  players    = ["hero", "left", "right"]
//	  stacks     = [1500, 1500, 1500]
//	}
//
//	round {
//	  dealer      = 3
//	  small_blind = 50
//	  big_blind   = 100
//	  hand        = "AH KD"
//
//	  event "check" { player = 1 }
//	  event "bet" {
//	    player = 2
//	    amount = 100
//	  }
//	  event "board" { cards = "2S 7D 9C" }
//	}
//
// Events within a round run in file order.
type Script struct {
	Game    GameBlock    `hcl:"game,block"`
	Rounds  []RoundBlock `hcl:"round,block"`
	EndGame bool         `hcl:"end_game,optional"`
}

// GameBlock seats the players. Stacks may be given per player or as one
// starting stack for everyone.
type GameBlock struct {
	BuyIn         int      `hcl:"buy_in,optional"`
	Multiplier    int      `hcl:"multiplier,optional"`
	Players       []string `hcl:"players"`
	Stacks        []int    `hcl:"stacks,optional"`
	StartingStack int      `hcl:"starting_stack,optional"`
}

// RoundBlock is one round and everything observed during it.
type RoundBlock struct {
	Dealer     int          `hcl:"dealer"`
	SmallBlind int          `hcl:"small_blind"`
	BigBlind   int          `hcl:"big_blind"`
	Hand       string       `hcl:"hand,optional"`
	Events     []EventBlock `hcl:"event,block"`
}

// EventBlock is labelled with an action name (check, call, bet, raise,
// fold, allin) or one of board, reveal, end_street and showdown.
type EventBlock struct {
	Kind   string `hcl:"kind,label"`
	Player int    `hcl:"player,optional"`
	Amount int    `hcl:"amount,optional"`
	Cards  string `hcl:"cards,optional"`
	Hand   string `hcl:"hand,optional"`
}

// LoadScript reads and decodes a script file.
func LoadScript(filename string) (*Script, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return ParseScript(src, filename)
}

// ParseScript decodes a script. filename is used in diagnostics.
func ParseScript(src []byte, filename string) (*Script, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var script Script
	diags = gohcl.DecodeBody(file.Body, nil, &script)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	return &script, nil
}

// Events flattens the script into the events it describes.
func (s *Script) Events() ([]Event, error) {
	stacks := s.Game.Stacks
	if len(stacks) == 0 && s.Game.StartingStack > 0 {
		stacks = make([]int, len(s.Game.Players))
		for i := range stacks {
			stacks[i] = s.Game.StartingStack
		}
	}
	if len(stacks) == 0 {
		return nil, fmt.Errorf("game block needs stacks or starting_stack")
	}

	events := []Event{{
		Type:       StartGame,
		Players:    s.Game.Players,
		Stacks:     stacks,
		BuyIn:      s.Game.BuyIn,
		Multiplier: s.Game.Multiplier,
	}}

	for i, round := range s.Rounds {
		events = append(events, Event{
			Type:   NewRound,
			Dealer: round.Dealer,
			Blinds: &game.Blinds{Small: round.SmallBlind, Big: round.BigBlind},
			Hand:   round.Hand,
		})
		for _, block := range round.Events {
			e, err := block.event()
			if err != nil {
				return nil, fmt.Errorf("round %d: %w", i+1, err)
			}
			events = append(events, e)
		}
	}

	if s.EndGame {
		events = append(events, Event{Type: EndGame})
	}
	return events, nil
}

func (b EventBlock) event() (Event, error) {
	switch b.Kind {
	case "board":
		return Event{Type: Board, Cards: b.Cards}, nil
	case "reveal":
		return Event{Type: Reveal, Player: b.Player, Hand: b.Hand}, nil
	case "end_street":
		return Event{Type: EndStreet}, nil
	case "showdown":
		return Event{Type: Showdown}, nil
	}
	if _, err := game.ParseActionKind(b.Kind); err != nil {
		return Event{}, fmt.Errorf("unknown event %q", b.Kind)
	}
	return Event{Type: Action, Player: b.Player, Action: b.Kind, Amount: b.Amount}, nil
}
