package evaluator

import (
	"encoding/json"
	"fmt"

	"github.com/lox/holdemtracker/internal/deck"
)

// BoardSize is the number of community card slots.
const BoardSize = 5

// BoardProperties are the texture flags of the community cards alone.
// JSON keys are part of the snapshot contract.
type BoardProperties struct {
	PossibleStraight  bool `json:"possibleStraight"`
	PossibleFlush     bool `json:"possibleFlush"`
	PossibleFlushDraw bool `json:"possibleFlushDraw"`
	Pair              bool `json:"paire"`
	TwoPair           bool `json:"doublePaire"`
	Trips             bool `json:"trips"`
	Straight          bool `json:"straight"`
	Flush             bool `json:"flush"`
	Full              bool `json:"full"`
	Quads             bool `json:"quads"`
	StraightFlush     bool `json:"straightFlush"`
}

// Board holds the community cards, revealed as flop (slots 0-2), turn (3)
// and river (4). Unrevealed slots hold deck.UnknownCard. Texture flags are
// recomputed from scratch after every mutation.
type Board struct {
	cards [BoardSize]deck.Card
	hist  histogram
	props BoardProperties
}

// NewBoard fills the slots in order with the given cards (at most five).
func NewBoard(cards ...deck.Card) (*Board, error) {
	if len(cards) > BoardSize {
		return nil, fmt.Errorf("board holds at most %d cards, got %d", BoardSize, len(cards))
	}
	b := &Board{}
	copy(b.cards[:], cards)
	b.recompute()
	return b, nil
}

// SetFlop overwrites the three flop slots.
func (b *Board) SetFlop(first, second, third deck.Card) {
	b.cards[0], b.cards[1], b.cards[2] = first, second, third
	b.recompute()
}

// SetTurn overwrites the turn slot.
func (b *Board) SetTurn(c deck.Card) {
	b.cards[3] = c
	b.recompute()
}

// SetRiver overwrites the river slot.
func (b *Board) SetRiver(c deck.Card) {
	b.cards[4] = c
	b.recompute()
}

// Reset clears every slot.
func (b *Board) Reset() {
	b.cards = [BoardSize]deck.Card{}
	b.recompute()
}

// Card returns the card in slot i, which may be unknown.
func (b *Board) Card(i int) deck.Card {
	if i < 0 || i >= BoardSize {
		return deck.UnknownCard
	}
	return b.cards[i]
}

// Cards returns the revealed cards in slot order.
func (b *Board) Cards() []deck.Card {
	return deck.KnownCards(b.cards[:])
}

// Count returns the number of revealed cards.
func (b *Board) Count() int {
	return len(b.Cards())
}

// IsComplete reports whether all five cards are known.
func (b *Board) IsComplete() bool {
	return b.Count() == BoardSize
}

func (b *Board) recompute() {
	h := newHistogram(b.cards[:])
	b.hist = h

	var p BoardProperties
	p.Pair = h.countRanks(2) >= 1
	p.TwoPair = h.countRanks(2) >= 2
	p.Trips = h.countRanks(3) == 1
	p.Full = h.hasFull()

	p.Straight = highestWindow(h.ranks, straightLen) >= 0
	// Two more cards could still complete a straight.
	p.PossibleStraight = highestWindow(h.ranks, straightLen-2) >= 0

	maxSuit, _ := h.maxSuitCount()
	p.Flush = maxSuit >= flushLen
	p.PossibleFlush = maxSuit >= 3
	p.PossibleFlushDraw = maxSuit >= 2

	p.Quads = h.countRanks(4) >= 1
	// On five board cards a straight and a flush can only be the same cards.
	p.StraightFlush = p.Straight && p.Flush

	b.props = p
}

// Properties returns the texture flags.
func (b *Board) Properties() BoardProperties { return b.props }

func (b *Board) HasPair() bool              { return b.props.Pair }
func (b *Board) HasTwoPair() bool           { return b.props.TwoPair }
func (b *Board) HasTrips() bool             { return b.props.Trips }
func (b *Board) HasStraight() bool          { return b.props.Straight }
func (b *Board) HasPossibleStraight() bool  { return b.props.PossibleStraight }
func (b *Board) HasFlush() bool             { return b.props.Flush }
func (b *Board) HasPossibleFlush() bool     { return b.props.PossibleFlush }
func (b *Board) HasPossibleFlushDraw() bool { return b.props.PossibleFlushDraw }
func (b *Board) HasFull() bool              { return b.props.Full }
func (b *Board) HasQuads() bool             { return b.props.Quads }
func (b *Board) HasStraightFlush() bool     { return b.props.StraightFlush }

// String returns the revealed cards separated by spaces.
func (b *Board) String() string {
	s := ""
	for i, c := range b.Cards() {
		if i > 0 {
			s += " "
		}
		s += c.String()
	}
	return s
}

// MarshalJSON encodes the board as an array of its revealed cards.
func (b *Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Cards())
}

// UnmarshalJSON decodes an array of up to five cards into the slots in order.
func (b *Board) UnmarshalJSON(data []byte) error {
	var cards []deck.Card
	if err := json.Unmarshal(data, &cards); err != nil {
		return err
	}
	decoded, err := NewBoard(cards...)
	if err != nil {
		return err
	}
	*b = *decoded
	return nil
}

// DetailedBoard is the detailed JSON view of a board.
type DetailedBoard struct {
	Cards      []deck.Card     `json:"cards"`
	Properties BoardProperties `json:"properties"`
}

// Detailed returns the detailed JSON view.
func (b *Board) Detailed() DetailedBoard {
	return DetailedBoard{Cards: b.Cards(), Properties: b.props}
}
