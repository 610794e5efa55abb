package hands

import (
	"github.com/greenfelt/holdem/cards"
)

// Combination represents the strength category of a poker hand, weakest first.
type Combination int

const (
	None Combination = iota
	Kicker
	Pair
	TwoPairs
	Set
	Straight
	Flush
	FullHouse
	Quad
	StraightFlush
	RoyalFlush
)

// String returns a human-readable name for the combination.
func (c Combination) String() string {
	switch c {
	case None:
		return "none"
	case Kicker:
		return "kicker"
	case Pair:
		return "pair"
	case TwoPairs:
		return "two pairs"
	case Set:
		return "set"
	case Straight:
		return "straight"
	case Flush:
		return "flush"
	case FullHouse:
		return "full house"
	case Quad:
		return "quad"
	case StraightFlush:
		return "straight flush"
	case RoyalFlush:
		return "royal flush"
	default:
		return "unknown"
	}
}

// Result is the outcome of evaluating a seven-card hand: the combination
// category and exactly the five cards that constitute the best hand,
// sorted ascending by rank.
type Result struct {
	Combination Combination
	Cards       cards.Stack
}

// TopRank returns the highest rank among the combination cards, or zero
// for an empty result.
func (r Result) TopRank() cards.Rank {
	var top cards.Rank
	for _, c := range r.Cards {
		if c.Rank > top {
			top = c.Rank
		}
	}
	return top
}
