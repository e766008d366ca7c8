package evaluator

import (
	"slices"

	"github.com/lox/holdemtracker/internal/deck"
)

// Result is a ranked hand: its category, the cards forming the category,
// and the best five cards ordered for tie-breaking.
type Result struct {
	Rank HandRank
	// Combo holds the cards that make the named hand; empty for HighCard.
	Combo []deck.Card
	// BestFive is Combo followed by the highest kickers. Grouped hands list
	// the larger group first, straights run from the top card down with a
	// wheel Ace last.
	BestFive []deck.Card
}

// GetHandRank ranks the board plus the hole cards. The board itself is not
// modified.
func (b *Board) GetHandRank(hand deck.Hand) HandRank {
	return rankCards(b.merged(hand))
}

// Evaluate ranks the board plus the hole cards and extracts the best five.
func (b *Board) Evaluate(hand deck.Hand) (Result, error) {
	return evaluateCards(b.merged(hand))
}

func (b *Board) merged(hand deck.Hand) []deck.Card {
	cards := b.Cards()
	return append(cards, hand.Cards()...)
}

// rankCards evaluates the categories from weakest to strongest, each
// overriding the previous when it holds.
func rankCards(cards []deck.Card) HandRank {
	h := newHistogram(cards)

	rank := HighCard
	if h.countRanksAtLeast(2) >= 1 {
		rank = Pair
	}
	if h.countRanksAtLeast(2) >= 2 {
		rank = TwoPair
	}
	if h.countRanksAtLeast(3) >= 1 {
		rank = max(rank, Trips)
	}
	if highestWindow(h.ranks, straightLen) >= 0 {
		rank = Straight
	}
	flushCount, flushIdx := h.maxSuitCount()
	if flushCount >= flushLen {
		rank = Flush
	}
	if rank >= Pair && h.hasFull() {
		rank = Full
	}
	if h.countRanksAtLeast(4) >= 1 {
		rank = Quads
	}
	if flushCount >= flushLen {
		suited := suitedRanks(cards, deck.Suits[flushIdx])
		if highestWindow(suited, straightLen) >= 0 {
			rank = StraightFlush
		}
	}
	return rank
}

func evaluateCards(cards []deck.Card) (Result, error) {
	rank := rankCards(cards)
	res := Result{Rank: rank}

	if rank != HighCard {
		combo, err := bestCombo(rank, cards)
		if err != nil {
			return Result{}, err
		}
		res.Combo = combo
	}
	res.BestFive = fillKickers(res.Combo, cards)
	return res, nil
}

// bestCombo extracts the cards that make up the named hand.
func bestCombo(rank HandRank, cards []deck.Card) ([]deck.Card, error) {
	switch rank {
	case Pair, TwoPair, Trips, Full, Quads:
		return groupedCombo(rank, cards), nil
	case Straight:
		h := newHistogram(cards)
		return runCombo(h.ranks, cards, deck.UnknownSuit), nil
	case Flush:
		_, idx := newHistogram(cards).maxSuitCount()
		return flushCombo(cards, deck.Suits[idx]), nil
	case StraightFlush:
		_, idx := newHistogram(cards).maxSuitCount()
		suit := deck.Suits[idx]
		return runCombo(suitedRanks(cards, suit), cards, suit), nil
	default:
		return nil, UnsupportedRankForComboError{Rank: rank}
	}
}

// byRankDesc orders cards from the highest rank down, suits breaking ties so
// the order is deterministic.
func byRankDesc(a, b deck.Card) int {
	if a.Rank != b.Rank {
		return int(b.Rank) - int(a.Rank)
	}
	return int(a.Suit) - int(b.Suit)
}

// groupedCombo handles the same-rank families. Cards are grouped by rank,
// groups ordered by size then rank, and the required groups taken from the top.
func groupedCombo(rank HandRank, cards []deck.Card) []deck.Card {
	h := newHistogram(cards)

	var groups [][]deck.Card
	for r := deck.Ace; r >= deck.Two; r-- {
		if h.rankCount(r) < 2 {
			continue
		}
		var group []deck.Card
		for _, c := range cards {
			if c.IsSet() && c.Rank == r {
				group = append(group, c)
			}
		}
		slices.SortFunc(group, byRankDesc)
		groups = append(groups, group)
	}
	slices.SortStableFunc(groups, func(a, b []deck.Card) int {
		return len(b) - len(a)
	})

	var combo []deck.Card
	switch rank {
	case Quads:
		combo = groups[0][:4]
	case Full:
		combo = append(combo, groups[0][:3]...)
		combo = append(combo, groups[1][:2]...)
	case Trips:
		combo = groups[0][:3]
	case TwoPair:
		combo = append(combo, groups[0][:2]...)
		combo = append(combo, groups[1][:2]...)
	case Pair:
		combo = groups[0][:2]
	}
	return slices.Clone(combo)
}

// runCombo picks one card per rank from the highest complete five-slot
// window. With a known suit only cards of that suit are used.
func runCombo(slots [rankSlots]int, cards []deck.Card, suit deck.Suit) []deck.Card {
	top := highestWindow(slots, straightLen)
	if top < 0 {
		return nil
	}

	combo := make([]deck.Card, 0, straightLen)
	for slot := top; slot > top-straightLen; slot-- {
		want := slotRank(slot)
		for _, c := range sortedCards(cards) {
			if c.Rank == want && (suit == deck.UnknownSuit || c.Suit == suit) {
				combo = append(combo, c)
				break
			}
		}
	}
	return combo
}

func flushCombo(cards []deck.Card, suit deck.Suit) []deck.Card {
	var combo []deck.Card
	for _, c := range sortedCards(cards) {
		if c.Suit == suit {
			combo = append(combo, c)
		}
	}
	return combo[:flushLen]
}

func sortedCards(cards []deck.Card) []deck.Card {
	sorted := deck.KnownCards(cards)
	slices.SortFunc(sorted, byRankDesc)
	return sorted
}

// fillKickers appends the highest cards not already in the combo until five
// cards are held or the cards run out.
func fillKickers(combo, cards []deck.Card) []deck.Card {
	best := slices.Clone(combo)
	for _, c := range sortedCards(cards) {
		if len(best) >= 5 {
			break
		}
		if !slices.Contains(best, c) {
			best = append(best, c)
		}
	}
	return best
}

// tieBreakValues maps the best five to comparable values, counting the Ace
// as 1 when it closes a wheel.
func (r Result) tieBreakValues() []int {
	values := make([]int, len(r.BestFive))
	wheel := (r.Rank == Straight || r.Rank == StraightFlush) &&
		len(r.BestFive) == 5 && r.BestFive[0].Rank == deck.Five
	for i, c := range r.BestFive {
		values[i] = int(c.Rank)
		if wheel && c.Rank == deck.Ace {
			values[i] = 1
		}
	}
	return values
}

// Compare returns 1 if r beats other, -1 if it loses, 0 on a tie.
func (r Result) Compare(other Result) int {
	if r.Rank != other.Rank {
		if r.Rank > other.Rank {
			return 1
		}
		return -1
	}

	a, b := r.tieBreakValues(), other.tieBreakValues()
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] > b[i] {
			return 1
		}
		if a[i] < b[i] {
			return -1
		}
	}
	return 0
}

// CompareHands compares two hole-card hands against this board. It returns
// 1 when first wins, -1 when second wins and 0 on a split. An unset hand
// loses to a set one; two unset hands fail with ErrBothHandsUnset.
func (b *Board) CompareHands(first, second deck.Hand) (int, error) {
	switch {
	case !first.IsSet() && !second.IsSet():
		return 0, ErrBothHandsUnset
	case !first.IsSet():
		return -1, nil
	case !second.IsSet():
		return 1, nil
	}

	r1, err := b.Evaluate(first)
	if err != nil {
		return 0, err
	}
	r2, err := b.Evaluate(second)
	if err != nil {
		return 0, err
	}
	return r1.Compare(r2), nil
}
