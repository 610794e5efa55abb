package domain

import (
	"github.com/google/uuid"
	"github.com/greenfelt/holdem/cards"
)

// Croupier is the dealer. It exclusively owns the deck and performs every
// deal; between resets the deck plus the dealt cards always form the full
// 52-card set.
type Croupier struct {
	ID   string
	Name string
	deck *cards.Deck
}

// NewCroupier creates a dealer with a fresh shuffled deck.
func NewCroupier(name string) *Croupier {
	return &Croupier{
		ID:   uuid.NewString(),
		Name: name,
		deck: cards.NewDeck(),
	}
}

// Reset rebuilds and reshuffles the deck for a new hand.
func (c *Croupier) Reset() {
	c.deck.Reset()
}

// Remaining returns how many cards are left in the deck.
func (c *Croupier) Remaining() int {
	return c.deck.Remaining()
}

// DealHoleCards deals two cards to every player, one card each around the
// table before the second, matching conventional deal order.
func (c *Croupier) DealHoleCards(players []*Player) error {
	for round := 0; round < 2; round++ {
		for _, player := range players {
			card, err := c.deck.Draw()
			if err != nil {
				return err
			}
			player.Hand = append(player.Hand, card)
		}
	}
	return nil
}

// DealFlop burns one card and deals three community cards.
func (c *Croupier) DealFlop() (cards.Stack, error) {
	if err := c.deck.Burn(); err != nil {
		return nil, err
	}

	flop := make(cards.Stack, 0, 3)
	for i := 0; i < 3; i++ {
		card, err := c.deck.Draw()
		if err != nil {
			return nil, err
		}
		flop = append(flop, card)
	}
	return flop, nil
}

// DealTurn burns one card and deals the turn.
func (c *Croupier) DealTurn() (cards.Card, error) {
	if err := c.deck.Burn(); err != nil {
		return cards.Card{}, err
	}
	return c.deck.Draw()
}

// DealRiver burns one card and deals the river.
func (c *Croupier) DealRiver() (cards.Card, error) {
	return c.DealTurn()
}

// PickWinners selects the winners among the given players: those holding
// the strongest combination category, ties broken by the single highest
// card across the winning five-card sets. Players sharing that top rank
// all win and split the pot.
func (c *Croupier) PickWinners(players []*Player) []*Player {
	if len(players) == 0 {
		return nil
	}

	maxCombination := players[0].Result.Combination
	for _, p := range players[1:] {
		if p.Result.Combination > maxCombination {
			maxCombination = p.Result.Combination
		}
	}

	candidates := make([]*Player, 0, len(players))
	for _, p := range players {
		if p.Result.Combination == maxCombination {
			candidates = append(candidates, p)
		}
	}

	if len(candidates) == 1 {
		return candidates
	}

	var topRank cards.Rank
	for _, p := range candidates {
		if rank := p.Result.TopRank(); rank > topRank {
			topRank = rank
		}
	}

	winners := make([]*Player, 0, len(candidates))
	for _, p := range candidates {
		if p.Result.TopRank() == topRank {
			winners = append(winners, p)
		}
	}
	return winners
}
