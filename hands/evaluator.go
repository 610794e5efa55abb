package hands

import (
	"fmt"
	"sort"

	"github.com/greenfelt/holdem/cards"
)

// Evaluate classifies a player's two hole cards plus the five community
// cards into the best five-card combination. It fails unless the combined
// input is exactly seven cards.
//
// Checks run strongest-first: straights and flushes are settled before the
// rank-multiplicity categories, so a weaker check can never override an
// outcome already decided by a stronger one. Low-Ace ("wheel") straights
// are not recognized; an Ace only completes the top-end run.
func Evaluate(hole, community cards.Stack) (Result, error) {
	all := make(cards.Stack, 0, len(hole)+len(community))
	all = append(all, hole...)
	all = append(all, community...)

	if len(all) != 7 {
		return Result{}, fmt.Errorf("need exactly 7 cards to evaluate, got %d", len(all))
	}

	sortByRankAsc(all)

	if res, ok := straightOrFlush(all); ok {
		return finalize(res, all), nil
	}

	return finalize(multiples(all), all), nil
}

// sortByRankAsc sorts cards ascending by rank. Suits carry no strength but
// break ties so the result is deterministic regardless of input order.
func sortByRankAsc(stack cards.Stack) {
	sort.Slice(stack, func(i, j int) bool {
		if stack[i].Rank != stack[j].Rank {
			return stack[i].Rank < stack[j].Rank
		}
		return stack[i].Suit < stack[j].Suit
	})
}

// straightWindow finds the highest run of 5+ consecutive distinct ranks and
// returns the top five ranks of that run as a [start, end] window.
func straightWindow(ranks []cards.Rank) (cards.Rank, cards.Rank, bool) {
	var end cards.Rank
	found := false
	run := 1

	for i := 1; i < len(ranks); i++ {
		if ranks[i] == ranks[i-1]+1 {
			run++
		} else {
			run = 1
		}
		if run >= 5 {
			found = true
			end = ranks[i]
		}
	}

	if !found {
		return 0, 0, false
	}
	return end - 4, end, true
}

func distinctRanks(all cards.Stack) []cards.Rank {
	ranks := make([]cards.Rank, 0, len(all))
	for _, c := range all {
		if len(ranks) == 0 || ranks[len(ranks)-1] != c.Rank {
			ranks = append(ranks, c.Rank)
		}
	}
	return ranks
}

// straightOrFlush settles every category involving a straight or a flush.
// The input must be sorted ascending by rank.
func straightOrFlush(all cards.Stack) (Result, bool) {
	start, end, hasStraight := straightWindow(distinctRanks(all))

	var suitCounts [4]int
	for _, c := range all {
		suitCounts[c.Suit]++
	}

	flushSuit := cards.Suit(-1)
	for suit, count := range suitCounts {
		if count >= 5 {
			flushSuit = cards.Suit(suit)
			break
		}
	}
	hasFlush := flushSuit >= 0

	if hasStraight {
		window := make(cards.Stack, 0, 7)
		for _, c := range all {
			if c.Rank >= start && c.Rank <= end {
				window = append(window, c)
			}
		}

		// The straight's window restricted to a single suit yields a
		// straight flush, or a royal flush when it tops out at the Ace.
		if suited, ok := sameSuitRun(window); ok {
			if end == cards.Ace {
				return Result{Combination: RoyalFlush, Cards: suited}, true
			}
			return Result{Combination: StraightFlush, Cards: suited}, true
		}

		if hasFlush {
			return Result{Combination: Flush, Cards: topOfSuit(all, flushSuit)}, true
		}

		// Duplicate ranks inside the window fold to one representative each.
		straightCards := make(cards.Stack, 0, 5)
		for _, c := range window {
			if len(straightCards) == 0 || straightCards[len(straightCards)-1].Rank != c.Rank {
				straightCards = append(straightCards, c)
			}
		}
		return Result{Combination: Straight, Cards: straightCards}, true
	}

	if hasFlush {
		return Result{Combination: Flush, Cards: topOfSuit(all, flushSuit)}, true
	}

	return Result{}, false
}

// sameSuitRun reports whether the straight window contains five cards of a
// single suit, which necessarily cover all five ranks of the window.
func sameSuitRun(window cards.Stack) (cards.Stack, bool) {
	var bySuit [4]cards.Stack
	for _, c := range window {
		bySuit[c.Suit] = append(bySuit[c.Suit], c)
	}
	for _, suited := range bySuit {
		if len(suited) == 5 {
			return suited, true
		}
	}
	return nil, false
}

// topOfSuit returns the five highest cards of the given suit, ascending.
func topOfSuit(all cards.Stack, suit cards.Suit) cards.Stack {
	suited := make(cards.Stack, 0, 7)
	for _, c := range all {
		if c.Suit == suit {
			suited = append(suited, c)
		}
	}
	if len(suited) > 5 {
		suited = suited[len(suited)-5:]
	}
	return suited
}

// multiples classifies by the rank-multiplicity histogram once straights
// and flushes have been ruled out. The input must be sorted ascending.
func multiples(all cards.Stack) Result {
	var counts [int(cards.Ace) + 1]int
	for _, c := range all {
		counts[c.Rank]++
	}

	highestWith := func(n int, exclude cards.Rank) cards.Rank {
		for rank := cards.Ace; rank >= cards.Two; rank-- {
			if rank != exclude && counts[rank] >= n {
				return rank
			}
		}
		return 0
	}

	ofRank := func(rank cards.Rank, limit int) cards.Stack {
		picked := make(cards.Stack, 0, limit)
		// Walk from the top so the overflow copy of a rank is dropped low.
		for i := len(all) - 1; i >= 0 && len(picked) < limit; i-- {
			if all[i].Rank == rank {
				picked = append(picked, all[i])
			}
		}
		sortByRankAsc(picked)
		return picked
	}

	if quad := highestWith(4, 0); quad > 0 {
		return Result{Combination: Quad, Cards: ofRank(quad, 4)}
	}

	if trip := highestWith(3, 0); trip > 0 {
		if pair := highestWith(2, trip); pair > 0 {
			combo := append(ofRank(trip, 3), ofRank(pair, 2)...)
			sortByRankAsc(combo)
			return Result{Combination: FullHouse, Cards: combo}
		}
		return Result{Combination: Set, Cards: ofRank(trip, 3)}
	}

	if first := highestWith(2, 0); first > 0 {
		if second := highestWith(2, first); second > 0 {
			combo := append(ofRank(second, 2), ofRank(first, 2)...)
			sortByRankAsc(combo)
			return Result{Combination: TwoPairs, Cards: combo}
		}
		return Result{Combination: Pair, Cards: ofRank(first, 2)}
	}

	return Result{Combination: Kicker, Cards: cards.Stack{all[len(all)-1]}}
}

// finalize pads a result whose natural card set is under five cards with
// the highest-ranked remaining cards, then re-sorts ascending.
func finalize(res Result, all cards.Stack) Result {
	if len(res.Cards) >= 5 {
		sortByRankAsc(res.Cards)
		return res
	}

	combo := make(cards.Stack, 0, 5)
	combo = append(combo, res.Cards...)

	for i := len(all) - 1; i >= 0 && len(combo) < 5; i-- {
		if !combo.Contains(all[i]) {
			combo = append(combo, all[i])
		}
	}

	sortByRankAsc(combo)
	return Result{Combination: res.Combination, Cards: combo}
}
