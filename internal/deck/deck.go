package deck

import (
	rand "math/rand/v2"
)

// Deck represents a deck of playing cards
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewDeck creates a new standard 52-card deck, minus any excluded cards.
func NewDeck(rng *rand.Rand, exclude ...Card) *Deck {
	d := &Deck{
		cards: make([]Card, 0, NumRanks*NumSuits),
		rng:   rng,
	}
	d.fill(exclude)
	return d
}

func (d *Deck) fill(exclude []Card) {
	d.cards = d.cards[:0]
	for _, suit := range Suits {
		for rank := Two; rank <= Ace; rank++ {
			c := NewCard(rank, suit)
			if !containsCard(exclude, c) {
				d.cards = append(d.cards, c)
			}
		}
	}
}

func containsCard(cards []Card, c Card) bool {
	for _, x := range cards {
		if x == c {
			return true
		}
	}
	return false
}

// Shuffle randomizes the order of cards in the deck
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Deal removes and returns the top card from the deck
func (d *Deck) Deal() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}

	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// DealN deals n cards from the deck, fewer if the deck runs out.
func (d *Deck) DealN(n int) []Card {
	if n > len(d.cards) {
		n = len(d.cards)
	}

	cards := make([]Card, n)
	copy(cards, d.cards[:n])
	d.cards = d.cards[n:]
	return cards
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return len(d.cards)
}

// Reset restores the deck, minus excluded cards, and shuffles it
func (d *Deck) Reset(exclude ...Card) {
	d.cards = make([]Card, 0, NumRanks*NumSuits)
	d.fill(exclude)
	d.Shuffle()
}
