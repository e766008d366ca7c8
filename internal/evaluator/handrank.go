package evaluator

import (
	"errors"
	"fmt"
)

// HandRank is the category of a poker hand, weakest first.
type HandRank int

const (
	HighCard HandRank = iota
	Pair
	TwoPair
	Trips
	Straight
	Flush
	Full
	Quads
	StraightFlush
)

// String returns the readable name of the hand
func (r HandRank) String() string {
	switch r {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case Trips:
		return "Trips"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case Full:
		return "Full House"
	case Quads:
		return "Quads"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// ErrBothHandsUnset is returned when neither compared hand has known cards.
var ErrBothHandsUnset = errors.New("both hands are unset")

// UnsupportedRankForComboError is returned when a combo is requested for a
// rank that has none, such as HighCard.
type UnsupportedRankForComboError struct {
	Rank HandRank
}

func (e UnsupportedRankForComboError) Error() string {
	return fmt.Sprintf("no combo for hand rank %s", e.Rank)
}
