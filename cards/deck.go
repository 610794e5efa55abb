package cards

import (
	"errors"
	"math/rand"
)

// ErrDeckEmpty is returned when a card is requested from an exhausted deck.
// Running dry mid-hand is a precondition violation: callers must Reset the
// deck between hands.
var ErrDeckEmpty = errors.New("deck is empty")

// Deck is an ordered stack of 52 unique cards. It is owned exclusively by
// the dealer and mutated only through Shuffle, Draw, Burn and Reset.
type Deck struct {
	cards Stack
}

// NewDeck creates a standard 52-card deck and shuffles it.
func NewDeck() *Deck {
	d := &Deck{}
	d.build()
	d.Shuffle()
	return d
}

func (d *Deck) build() {
	d.cards = make(Stack, 0, 52)
	for rank := Two; rank <= Ace; rank++ {
		for suit := Spades; suit <= Clubs; suit++ {
			d.cards = append(d.cards, Card{Rank: rank, Suit: suit})
		}
	}
}

// Shuffle randomizes the order of the remaining cards uniformly.
func (d *Deck) Shuffle() {
	rand.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Reset rebuilds the full 52-card deck and reshuffles it.
func (d *Deck) Reset() {
	d.build()
	d.Shuffle()
}

// Draw deals the top card from the deck.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrDeckEmpty
	}

	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card, nil
}

// Burn discards the top card face down.
func (d *Deck) Burn() error {
	_, err := d.Draw()
	return err
}

// Remaining returns the number of cards left in the deck.
func (d *Deck) Remaining() int {
	return len(d.cards)
}
