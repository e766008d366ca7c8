package phh

import (
	"bytes"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"

	"github.com/lox/holdemtracker/internal/game"
)

// Encode writes the hand history to the provided writer in PHH TOML format.
func Encode(w io.Writer, hand *HandHistory) error {
	if hand == nil {
		return fmt.Errorf("phh: hand history is nil")
	}

	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(hand)
}

// EncodeToBytes encodes and returns the result as bytes.
func EncodeToBytes(hand *HandHistory) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, hand); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatAction converts a logged action to its PHH form for player pN,
// given the highest street total before it. Blind posts are not emitted:
// they are captured in blinds_or_straddles.
func FormatAction(player int, action game.RoundAction, highest int) (string, bool) {
	p := fmt.Sprintf("p%d", player)
	switch action.Kind {
	case game.Fold:
		return p + " f", true
	case game.Check, game.Call:
		return p + " cc", true
	case game.Bet, game.Raise:
		if action.Amount <= 0 {
			return "", false
		}
		return fmt.Sprintf("%s cbr %d", p, action.Amount), true
	case game.AllIn:
		// An all-in for no more than the current bet is a call
		if action.Amount <= highest {
			return p + " cc", true
		}
		return fmt.Sprintf("%s cbr %d", p, action.Amount), true
	case game.PaySmallBlind, game.PayBigBlind:
		return "", false
	default:
		return fmt.Sprintf("# %s %s %d", p, action.Kind, action.Amount), true
	}
}

// FromRound builds the hand history of a finished round.
func FromRound(r *game.Round, opts Options) (*HandHistory, error) {
	if !r.Ended() {
		return nil, fmt.Errorf("phh: %w", game.ErrRoundNotEnded)
	}
	result, err := r.Result()
	if err != nil {
		return nil, fmt.Errorf("phh: %w", err)
	}

	// PHH numbers players from the first seat after the dealer
	var order []int
	index := make(map[int]int)
	for i := 1; i <= game.NumSeats; i++ {
		seat := (r.Dealer()+i-1)%game.NumSeats + 1
		status, _ := r.Status(seat)
		if status.InitialStack == 0 {
			continue
		}
		order = append(order, seat)
		index[seat] = len(order)
	}

	n := len(order)
	hh := &HandHistory{
		Variant:           "NT",
		Table:             opts.Table,
		SeatCount:         game.NumSeats,
		Seats:             make([]int, n),
		Antes:             make([]int, n),
		BlindsOrStraddles: make([]int, n),
		MinBet:            r.Blinds().Big,
		StartingStacks:    make([]int, n),
		FinishingStacks:   make([]int, n),
		Winnings:          make([]int, n),
		Players:           make([]string, n),
		HandID:            opts.HandID,
		Metadata: map[string]any{
			"hero":   fmt.Sprintf("p%d", index[game.HeroSeat]),
			"dealer": r.Name(r.Dealer()),
		},
	}

	started := r.StartedAt().UTC()
	if !started.IsZero() {
		hh.Time = started.Format("15:04:05")
		hh.TimeZone = "UTC"
		hh.Day, hh.Month, hh.Year = started.Day(), int(started.Month()), started.Year()
	}

	for i, seat := range order {
		status, _ := r.Status(seat)
		hh.Seats[i] = seat
		hh.Players[i] = r.Name(seat)
		hh.StartingStacks[i] = status.InitialStack
		hh.FinishingStacks[i] = status.Remaining()
	}
	for _, p := range result.Payouts {
		i, ok := index[p.Seat]
		if !ok {
			continue
		}
		hh.Winnings[i-1] = p.Won
		hh.FinishingStacks[i-1] += p.Won + p.Refund
	}

	for _, seat := range order {
		status, _ := r.Status(seat)
		hh.Actions = append(hh.Actions, fmt.Sprintf("d dh p%d %s", index[seat], formatHand(status.Hand)))
	}

	board := r.Board().Cards()
	deals := map[game.Street][]int{
		game.Flop:  {0, 3},
		game.Turn:  {3, 4},
		game.River: {4, 5},
	}
	for _, street := range []game.Street{game.Preflop, game.Flop, game.Turn, game.River} {
		if span, ok := deals[street]; ok && len(board) >= span[1] {
			hh.Actions = append(hh.Actions, "d db "+FormatCards(board[span[0]:span[1]]))
		}

		highest := 0
		for _, action := range r.Actions(street) {
			switch action.Kind {
			case game.PaySmallBlind, game.PayBigBlind:
				hh.BlindsOrStraddles[index[action.Player]-1] = action.Amount
			}
			if formatted, ok := FormatAction(index[action.Player], action, highest); ok {
				hh.Actions = append(hh.Actions, formatted)
			}
			highest = max(highest, action.Amount)
		}
	}

	if result.Showdown {
		for _, seat := range order {
			status, _ := r.Status(seat)
			if status.InRound && status.Hand.IsSet() {
				hh.Actions = append(hh.Actions, fmt.Sprintf("p%d sm %s", index[seat], formatHand(status.Hand)))
			}
		}
	}
	return hh, nil
}
