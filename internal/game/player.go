package game

import (
	"github.com/lox/holdemtracker/internal/deck"
)

// NumSeats is the number of players at the table.
const NumSeats = 3

// HeroSeat is the tracked player, whose hole cards are known from the start.
const HeroSeat = 1

// Player is a seated player. It outlives rounds and is owned by Game.
type Player struct {
	Name       string `json:"name"`
	Stack      int    `json:"stack"`
	Eliminated bool   `json:"eliminated"`
}

// Position is a seat's role relative to the dealer button.
type Position int

const (
	NoPosition Position = iota
	Dealer
	SmallBlind
	BigBlind
)

func (p Position) String() string {
	switch p {
	case Dealer:
		return "dealer"
	case SmallBlind:
		return "small_blind"
	case BigBlind:
		return "big_blind"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler
func (p Position) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// PlayerStatus is a player's ledger for one round. It refers to the Player
// by seat; the Player itself lives in the Game's seat array.
type PlayerStatus struct {
	Seat         int        `json:"seat"`
	Position     Position   `json:"position"`
	LastAction   ActionKind `json:"last_action"`
	TotalBet     int        `json:"total_bet"`
	StreetBet    int        `json:"street_bet"`
	MaxWinnable  int        `json:"max_winnable"`
	InitialStack int        `json:"initial_stack"`
	InRound      bool       `json:"in_round"`
	IsAllIn      bool       `json:"all_in"`
	Hand         deck.Hand  `json:"hand"`

	acted bool
}

// Remaining returns the chips the player has behind.
func (ps *PlayerStatus) Remaining() int {
	return ps.InitialStack - ps.TotalBet
}

// CanAct reports whether the player can still put chips in.
func (ps *PlayerStatus) CanAct() bool {
	return ps.InRound && !ps.IsAllIn
}

// commit moves up to amount chips from the stack into the pot and returns
// what was actually committed.
func (ps *PlayerStatus) commit(amount int) int {
	amount = min(amount, ps.Remaining())
	if amount < 0 {
		amount = 0
	}
	ps.TotalBet += amount
	ps.StreetBet += amount
	if ps.TotalBet == ps.InitialStack {
		ps.IsAllIn = true
	}
	return amount
}
