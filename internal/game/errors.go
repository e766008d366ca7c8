package game

import (
	"errors"
	"fmt"
)

var (
	ErrRoundNotEnded = errors.New("round has not ended")
	ErrRoundEnded    = errors.New("round already ended")
	ErrNotShowdown   = errors.New("round has not reached showdown")
	ErrGameOver      = errors.New("game is over")
	ErrNoRound       = errors.New("no round has been started")
)

// IllegalActionError is returned when a player cannot take an action in
// their current state, such as acting after folding.
type IllegalActionError struct {
	Player int
	Action ActionKind
	Reason string
}

func (e IllegalActionError) Error() string {
	return fmt.Sprintf("illegal %s by %s: %s", e.Action, PlayerKey(e.Player), e.Reason)
}

// UnknownPlayerError is returned for a seat number outside 1..3.
type UnknownPlayerError struct {
	Player int
}

func (e UnknownPlayerError) Error() string {
	return fmt.Sprintf("unknown player %d, expected 1..%d", e.Player, NumSeats)
}
