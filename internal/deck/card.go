package deck

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidCard is returned for card strings that cannot be parsed.
var ErrInvalidCard = errors.New("invalid card")

// InvalidRankError reports an unknown rank character during parsing.
type InvalidRankError struct {
	Char string
}

func (e InvalidRankError) Error() string { return fmt.Sprintf("invalid rank: %q", e.Char) }
func (e InvalidRankError) Unwrap() error { return ErrInvalidCard }

// InvalidSuitError reports an unknown suit character during parsing.
type InvalidSuitError struct {
	Char string
}

func (e InvalidSuitError) Error() string { return fmt.Sprintf("invalid suit: %q", e.Char) }
func (e InvalidSuitError) Unwrap() error { return ErrInvalidCard }

// Suit represents a card suit. The zero value is an unknown suit.
type Suit int

const (
	UnknownSuit Suit = iota
	Hearts
	Diamonds
	Clubs
	Spades
)

// NumSuits is the number of known suits.
const NumSuits = 4

// Suits lists the known suits in index order.
var Suits = [NumSuits]Suit{Hearts, Diamonds, Clubs, Spades}

// String returns the suit symbol
func (s Suit) String() string {
	switch s {
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// Name returns the singular suit name used in JSON snapshots
func (s Suit) Name() string {
	switch s {
	case Hearts:
		return "Heart"
	case Diamonds:
		return "Diamond"
	case Clubs:
		return "Club"
	case Spades:
		return "Spade"
	default:
		return "Unknown"
	}
}

// Char returns the one-letter suit code ("H", "D", "C", "S")
func (s Suit) Char() string {
	switch s {
	case Hearts:
		return "H"
	case Diamonds:
		return "D"
	case Clubs:
		return "C"
	case Spades:
		return "S"
	default:
		return "?"
	}
}

// Index returns the 0-based histogram slot of a known suit, -1 otherwise.
func (s Suit) Index() int {
	if s < Hearts || s > Spades {
		return -1
	}
	return int(s - Hearts)
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank, Ace high. The zero value is an unknown rank.
type Rank int

const (
	UnknownRank Rank = 0
	Two         Rank = iota + 1
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// NumRanks is the number of distinct known ranks.
const NumRanks = 13

var rankNames = [...]string{
	Two: "Two", Three: "Three", Four: "Four", Five: "Five", Six: "Six",
	Seven: "Seven", Eight: "Eight", Nine: "Nine", Ten: "Ten",
	Jack: "Jack", Queen: "Queen", King: "King", Ace: "Ace",
}

const rankChars = "??23456789TJQKA"

// IsKnown reports whether r is in 2..14.
func (r Rank) IsKnown() bool {
	return r >= Two && r <= Ace
}

// String returns the one-character rank code ("2".."9", "T", "J", "Q", "K", "A")
func (r Rank) String() string {
	if !r.IsKnown() {
		return "?"
	}
	return string(rankChars[r])
}

// Name returns the rank name used in JSON snapshots
func (r Rank) Name() string {
	if !r.IsKnown() {
		return "Unknown"
	}
	return rankNames[r]
}

// Card represents a playing card
type Card struct {
	Rank Rank
	Suit Suit
}

// UnknownCard is the placeholder for a card that has not been revealed yet.
var UnknownCard = Card{}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// IsSet reports whether both rank and suit are known.
func (c Card) IsSet() bool {
	return c.Rank.IsKnown() && c.Suit.Index() >= 0
}

// IsBroadway returns true for T, J, Q, K and A.
func (c Card) IsBroadway() bool {
	return c.Rank >= Ten && c.Rank <= Ace
}

// IsAce returns true if the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

// ShortName returns the rank and suit codes, e.g. "AH" or "TD".
func (c Card) ShortName() string {
	return c.Rank.String() + c.Suit.Char()
}

// String returns the string representation of a card (e.g., "A♠")
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

type cardJSON struct {
	ShortName string `json:"shortName"`
	Rank      string `json:"rank"`
	Suit      string `json:"suit"`
}

// MarshalJSON encodes the card as {"shortName", "rank", "suit"}.
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(cardJSON{
		ShortName: c.ShortName(),
		Rank:      c.Rank.Name(),
		Suit:      c.Suit.Name(),
	})
}

// UnmarshalJSON decodes a card from its shortName.
func (c *Card) UnmarshalJSON(data []byte) error {
	var raw cardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	card, err := ParseCard(raw.ShortName)
	if err != nil {
		return err
	}
	*c = card
	return nil
}

// ParseCard parses a card such as "AH", "td" or "10s". "??" yields UnknownCard.
func ParseCard(s string) (Card, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "??" {
		return UnknownCard, nil
	}
	if len(s) < 2 || len(s) > 3 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}

	rankPart, suitPart := s[:len(s)-1], s[len(s)-1:]
	var rank Rank
	switch rankPart {
	case "2":
		rank = Two
	case "3":
		rank = Three
	case "4":
		rank = Four
	case "5":
		rank = Five
	case "6":
		rank = Six
	case "7":
		rank = Seven
	case "8":
		rank = Eight
	case "9":
		rank = Nine
	case "T", "10":
		rank = Ten
	case "J":
		rank = Jack
	case "Q":
		rank = Queen
	case "K":
		rank = King
	case "A":
		rank = Ace
	default:
		return Card{}, InvalidRankError{Char: rankPart}
	}

	var suit Suit
	switch suitPart {
	case "H":
		suit = Hearts
	case "D":
		suit = Diamonds
	case "C":
		suit = Clubs
	case "S":
		suit = Spades
	default:
		return Card{}, InvalidSuitError{Char: suitPart}
	}

	return NewCard(rank, suit), nil
}

// ParseCards parses a list of cards separated by spaces or commas ("AH KD")
// or written back to back ("AhKd", "10h9h").
func ParseCards(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})

	var cards []Card
	for _, field := range fields {
		for len(field) > 0 {
			n := 2
			if strings.HasPrefix(field, "10") {
				n = 3
			}
			if len(field) < n {
				return nil, fmt.Errorf("%w: %q", ErrInvalidCard, field)
			}
			card, err := ParseCard(field[:n])
			if err != nil {
				return nil, err
			}
			cards = append(cards, card)
			field = field[n:]
		}
	}
	return cards, nil
}

// MustParseCards is ParseCards for literals known to be valid.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// KnownCards filters out unknown placeholder cards, preserving order.
func KnownCards(cards []Card) []Card {
	known := make([]Card, 0, len(cards))
	for _, c := range cards {
		if c.IsSet() {
			known = append(known, c)
		}
	}
	return known
}
