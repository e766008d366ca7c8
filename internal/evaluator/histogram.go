package evaluator

import "github.com/lox/holdemtracker/internal/deck"

const (
	// rankSlots holds one slot per rank plus slot 0, which mirrors the Ace so
	// that the wheel (A-2-3-4-5) is an ordinary window.
	rankSlots   = deck.NumRanks + 1
	straightLen = 5
	flushLen    = 5
)

// histogram counts ranks and suits of a set of cards. Unknown cards are skipped.
type histogram struct {
	ranks [rankSlots]int
	suits [deck.NumSuits]int
}

func rankSlot(r deck.Rank) int {
	return int(r) - 1
}

// slotRank maps a slot back to a rank, slot 0 being the low Ace.
func slotRank(slot int) deck.Rank {
	if slot == 0 {
		return deck.Ace
	}
	return deck.Rank(slot + 1)
}

func newHistogram(cards []deck.Card) histogram {
	var h histogram
	for _, c := range cards {
		h.add(c)
	}
	return h
}

func (h *histogram) add(c deck.Card) {
	if !c.IsSet() {
		return
	}
	h.ranks[rankSlot(c.Rank)]++
	if c.Rank == deck.Ace {
		h.ranks[0]++
	}
	h.suits[c.Suit.Index()]++
}

// rankCount returns how many cards share the rank.
func (h *histogram) rankCount(r deck.Rank) int {
	return h.ranks[rankSlot(r)]
}

// countRanks returns how many ranks have exactly n cards. Slot 0 is ignored.
func (h *histogram) countRanks(n int) int {
	total := 0
	for slot := 1; slot < rankSlots; slot++ {
		if h.ranks[slot] == n {
			total++
		}
	}
	return total
}

// countRanksAtLeast returns how many ranks have n or more cards.
func (h *histogram) countRanksAtLeast(n int) int {
	total := 0
	for slot := 1; slot < rankSlots; slot++ {
		if h.ranks[slot] >= n {
			total++
		}
	}
	return total
}

func (h *histogram) maxRankCount() int {
	best := 0
	for slot := 1; slot < rankSlots; slot++ {
		best = max(best, h.ranks[slot])
	}
	return best
}

// hasFull reports a rank with 3+ cards plus a different rank with 2+ cards.
func (h *histogram) hasFull() bool {
	return h.countRanksAtLeast(3) >= 1 && h.countRanksAtLeast(2) >= 2
}

// highestWindow returns the top slot of the highest 5-slot window holding at
// least need populated slots, or -1.
func highestWindow(slots [rankSlots]int, need int) int {
	for top := rankSlots - 1; top >= straightLen-1; top-- {
		filled := 0
		for slot := top - straightLen + 1; slot <= top; slot++ {
			if slots[slot] > 0 {
				filled++
			}
		}
		if filled >= need {
			return top
		}
	}
	return -1
}

// maxSuitCount returns the largest suit count and its suit slot.
func (h *histogram) maxSuitCount() (int, int) {
	best, bestIdx := 0, -1
	for idx, n := range h.suits {
		if n > best {
			best, bestIdx = n, idx
		}
	}
	return best, bestIdx
}

// suitedRanks builds the rank slots for the cards of one suit.
func suitedRanks(cards []deck.Card, suit deck.Suit) [rankSlots]int {
	var slots [rankSlots]int
	for _, c := range cards {
		if !c.IsSet() || c.Suit != suit {
			continue
		}
		slots[rankSlot(c.Rank)]++
		if c.Rank == deck.Ace {
			slots[0]++
		}
	}
	return slots
}
