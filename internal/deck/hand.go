package deck

import (
	"encoding/json"
	"fmt"
)

// DuplicateCardError is returned when a hand is built from the same card twice.
type DuplicateCardError struct {
	Card Card
}

func (e DuplicateCardError) Error() string {
	return fmt.Sprintf("duplicate card in hand: %s", e.Card.ShortName())
}

// premiumHands holds the unordered rank pairs treated as premium: QQ, KK, AA and AK.
var premiumHands = [][2]Rank{
	{Queen, Queen},
	{King, Ace},
	{Ace, King},
	{King, King},
	{Ace, Ace},
}

// Hand is a player's two hole cards plus attributes derived once at construction.
// The zero value is an unset hand (both cards unknown).
type Hand struct {
	cards [2]Card

	suited    bool
	aceSuited bool
	broadway  bool
	plur      bool
	connected bool
	premium   bool
}

// NewHand builds a hand from two hole cards. Unknown cards are accepted as
// placeholders; two identical known cards are rejected.
func NewHand(first, second Card) (Hand, error) {
	if first.IsSet() && first == second {
		return Hand{}, DuplicateCardError{Card: first}
	}

	h := Hand{cards: [2]Card{first, second}}
	if !h.IsSet() {
		return h, nil
	}

	// Order matters: later attributes build on earlier ones.
	h.suited = first.Suit == second.Suit
	h.aceSuited = h.suited && (first.IsAce() || second.IsAce())
	h.broadway = first.IsBroadway() || second.IsBroadway()
	h.plur = first.IsBroadway() && second.IsBroadway()
	h.connected = isConnected(first.Rank, second.Rank)
	h.premium = isPremium(first.Rank, second.Rank)
	return h, nil
}

// ParseHand parses two hole cards, e.g. "AH KD".
func ParseHand(s string) (Hand, error) {
	cards, err := ParseCards(s)
	if err != nil {
		return Hand{}, err
	}
	if len(cards) != 2 {
		return Hand{}, fmt.Errorf("%w: hand needs 2 cards, got %d", ErrInvalidCard, len(cards))
	}
	return NewHand(cards[0], cards[1])
}

// MustParseHand is ParseHand for literals known to be valid.
func MustParseHand(s string) Hand {
	h, err := ParseHand(s)
	if err != nil {
		panic(err)
	}
	return h
}

func isConnected(a, b Rank) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	if diff <= 1 {
		return true
	}
	// Ace plays low next to a Two.
	return (a == Ace && b == Two) || (a == Two && b == Ace)
}

func isPremium(a, b Rank) bool {
	for _, p := range premiumHands {
		if (p[0] == a && p[1] == b) || (p[0] == b && p[1] == a) {
			return true
		}
	}
	return false
}

// IsSet reports whether both hole cards are known.
func (h Hand) IsSet() bool {
	return h.cards[0].IsSet() && h.cards[1].IsSet()
}

// First returns the first hole card.
func (h Hand) First() Card { return h.cards[0] }

// Second returns the second hole card.
func (h Hand) Second() Card { return h.cards[1] }

// Cards returns the known hole cards.
func (h Hand) Cards() []Card {
	return KnownCards(h.cards[:])
}

// Contains reports whether c is one of the hole cards.
func (h Hand) Contains(c Card) bool {
	return c.IsSet() && (h.cards[0] == c || h.cards[1] == c)
}

func (h Hand) IsSuited() bool    { return h.suited }
func (h Hand) IsAceSuited() bool { return h.aceSuited }
func (h Hand) IsBroadway() bool  { return h.broadway }
func (h Hand) IsPLUR() bool      { return h.plur }
func (h Hand) IsConnected() bool { return h.connected }
func (h Hand) IsPremium() bool   { return h.premium }

// String returns e.g. "A♥ K♦".
func (h Hand) String() string {
	return h.cards[0].String() + " " + h.cards[1].String()
}

// HandProperties is the detailed JSON view of the derived attributes.
type HandProperties struct {
	Suited    bool `json:"suited"`
	AceSuited bool `json:"aceSuited"`
	Broadway  bool `json:"broadway"`
	PLUR      bool `json:"plur"`
	Connected bool `json:"connected"`
	Premium   bool `json:"premium"`
}

// Properties returns the derived attributes.
func (h Hand) Properties() HandProperties {
	return HandProperties{
		Suited:    h.suited,
		AceSuited: h.aceSuited,
		Broadway:  h.broadway,
		PLUR:      h.plur,
		Connected: h.connected,
		Premium:   h.premium,
	}
}

// MarshalJSON encodes the hand as an array of its known cards.
func (h Hand) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Cards())
}

// UnmarshalJSON decodes an array of 0-2 cards.
func (h *Hand) UnmarshalJSON(data []byte) error {
	var cards []Card
	if err := json.Unmarshal(data, &cards); err != nil {
		return err
	}
	if len(cards) > 2 {
		return fmt.Errorf("%w: hand holds at most 2 cards, got %d", ErrInvalidCard, len(cards))
	}
	var pair [2]Card
	copy(pair[:], cards)
	hand, err := NewHand(pair[0], pair[1])
	if err != nil {
		return err
	}
	*h = hand
	return nil
}

// DetailedHand is the detailed JSON view of a hand.
type DetailedHand struct {
	Cards      []Card         `json:"cards"`
	Properties HandProperties `json:"properties"`
}

// Detailed returns the detailed JSON view.
func (h Hand) Detailed() DetailedHand {
	return DetailedHand{Cards: h.Cards(), Properties: h.Properties()}
}
