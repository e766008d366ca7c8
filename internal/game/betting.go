package game

import (
	"encoding/json"
	"fmt"
	"time"
)

// Street represents the betting round
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
	Showdown
)

// bettingStreets are the streets that carry an action log.
var bettingStreets = [...]Street{Preflop, Flop, Turn, River}

func (s Street) String() string {
	if s < Preflop || s > Showdown {
		return "unknown"
	}
	return [...]string{"preflop", "flop", "turn", "river", "showdown"}[s]
}

// Key returns the street's key in round JSON snapshots.
func (s Street) Key() string {
	if s < Preflop || s > Showdown {
		return "unknown"
	}
	return [...]string{"pre_flop", "flop", "turn", "river", "showdown"}[s]
}

// ActionKind is what a player did.
type ActionKind int

const (
	NoAction ActionKind = iota
	Check
	Call
	Bet
	Raise
	Fold
	AllIn
	PaySmallBlind
	PayBigBlind
)

func (a ActionKind) String() string {
	switch a {
	case Check:
		return "Check"
	case Call:
		return "Call"
	case Bet:
		return "Bet"
	case Raise:
		return "Raise"
	case Fold:
		return "Fold"
	case AllIn:
		return "AllIn"
	case PaySmallBlind:
		return "PaySmallBlind"
	case PayBigBlind:
		return "PayBigBlind"
	default:
		return "None"
	}
}

// MarshalText implements encoding.TextMarshaler
func (a ActionKind) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// HasAmount reports whether the action moves chips into the pot.
func (a ActionKind) HasAmount() bool {
	switch a {
	case Call, Bet, Raise, AllIn, PaySmallBlind, PayBigBlind:
		return true
	}
	return false
}

// ParseActionKind accepts the names produced by String, case-sensitively,
// plus the lower case forms used in replay scripts.
func ParseActionKind(s string) (ActionKind, error) {
	switch s {
	case "Check", "check":
		return Check, nil
	case "Call", "call":
		return Call, nil
	case "Bet", "bet":
		return Bet, nil
	case "Raise", "raise":
		return Raise, nil
	case "Fold", "fold":
		return Fold, nil
	case "AllIn", "allin", "all_in":
		return AllIn, nil
	}
	return NoAction, fmt.Errorf("unknown action %q", s)
}

// Blinds are the forced bets collected at the start of a round.
type Blinds struct {
	Small int `json:"small"`
	Big   int `json:"big"`
}

// RoundAction is one entry of a round's action log. Entries are never
// modified once appended.
type RoundAction struct {
	Kind   ActionKind
	Player int // seat, 1-based
	// Elapsed is the time since the previous action on the round, or since
	// the round started for the first action.
	Elapsed time.Duration
	// Amount is the player's street total after the action for amount
	// bearing kinds, zero otherwise.
	Amount int
}

type roundActionJSON struct {
	Action  string  `json:"action"`
	Player  string  `json:"player"`
	Elapsed float64 `json:"elapsed_time"`
	Amount  *int    `json:"amount,omitempty"`
}

// PlayerKey returns the snapshot name of a seat, e.g. "player_1".
func PlayerKey(seat int) string {
	return fmt.Sprintf("player_%d", seat)
}

// MarshalJSON implements json.Marshaler
func (a RoundAction) MarshalJSON() ([]byte, error) {
	out := roundActionJSON{
		Action:  a.Kind.String(),
		Player:  PlayerKey(a.Player),
		Elapsed: a.Elapsed.Seconds(),
	}
	if a.Kind.HasAmount() {
		amount := a.Amount
		out.Amount = &amount
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler
func (a *RoundAction) UnmarshalJSON(data []byte) error {
	var in roundActionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	var kind ActionKind
	switch in.Action {
	case "PaySmallBlind":
		kind = PaySmallBlind
	case "PayBigBlind":
		kind = PayBigBlind
	default:
		k, err := ParseActionKind(in.Action)
		if err != nil {
			return err
		}
		kind = k
	}

	var seat int
	if _, err := fmt.Sscanf(in.Player, "player_%d", &seat); err != nil {
		return fmt.Errorf("invalid player %q: %w", in.Player, err)
	}

	*a = RoundAction{
		Kind:    kind,
		Player:  seat,
		Elapsed: time.Duration(in.Elapsed * float64(time.Second)),
	}
	if in.Amount != nil {
		a.Amount = *in.Amount
	}
	return nil
}
