package evaluator

import (
	"fmt"

	"github.com/paulhankin/poker"

	"github.com/lox/holdemtracker/internal/deck"
)

// toPH converts a card to the paulhankin/poker representation, where the
// Ace is rank 1.
func toPH(c deck.Card) (poker.Card, error) {
	var s poker.Suit
	switch c.Suit {
	case deck.Clubs:
		s = poker.Club
	case deck.Diamonds:
		s = poker.Diamond
	case deck.Hearts:
		s = poker.Heart
	case deck.Spades:
		s = poker.Spade
	default:
		var zero poker.Card
		return zero, fmt.Errorf("cannot convert unknown card %s", c.ShortName())
	}
	r := poker.Rank(c.Rank)
	if c.Rank == deck.Ace {
		r = poker.Rank(1)
	}
	return poker.MakeCard(s, r)
}

func toPHCards(cards []deck.Card) ([]poker.Card, error) {
	out := make([]poker.Card, len(cards))
	for i, c := range cards {
		pc, err := toPH(c)
		if err != nil {
			return nil, err
		}
		out[i] = pc
	}
	return out, nil
}

// Describe returns a human readable description of the best hand, such as
// "full house, kings over sevens". Before the flop only the category name
// is available.
func (b *Board) Describe(hand deck.Hand) (string, error) {
	res, err := b.Evaluate(hand)
	if err != nil {
		return "", err
	}
	if len(res.BestFive) < 5 {
		return res.Rank.String(), nil
	}
	cards, err := toPHCards(res.BestFive)
	if err != nil {
		return "", err
	}
	return poker.Describe(cards)
}

// score7 is the paulhankin/poker score of seven known cards, larger is better.
func score7(cards []deck.Card) (int16, error) {
	if len(cards) != 7 {
		return 0, fmt.Errorf("score7 needs 7 cards, got %d", len(cards))
	}
	converted, err := toPHCards(cards)
	if err != nil {
		return 0, err
	}
	var hand [7]poker.Card
	copy(hand[:], converted)
	return poker.Eval7(&hand), nil
}
