package evaluator

import (
	"errors"
	"sort"
	"strings"

	"justapoker/pkg/deck"
)

// ErrInsufficientCards is returned when fewer than five cards are available to evaluate
var ErrInsufficientCards = errors.New("at least five cards are required to evaluate a hand")

// Evaluate determines the best five-card hand from a player's hole cards
// and the community cards.
//
// Hands of the same rank compare equal; kickers within a rank are not
// considered. Callers that need a finer comparison must not rely on this
// package to provide one.
func Evaluate(hole, community []*deck.Card) (HandRank, deck.Hand, error) {
	cards := make(deck.Hand, 0, len(hole)+len(community))
	cards = append(cards, hole...)
	cards = append(cards, community...)

	return bestHand(cards)
}

// bestHand finds the highest-ranking five-card hand in the card collection.
// The checks run in strictly descending strength order; the first match wins.
func bestHand(cards deck.Hand) (HandRank, deck.Hand, error) {
	if len(cards) < 5 {
		return 0, nil, ErrInsufficientCards
	}

	sorted := cards.Clone()
	sort.Sort(byRankDesc(sorted))

	if flush := findFlush(sorted); flush != nil {
		if straightFlush := findStraight(flush); straightFlush != nil {
			if straightFlush.FirstCard().Rank == deck.Ace {
				return RoyalFlush, straightFlush, nil
			}

			return StraightFlush, straightFlush, nil
		}

		return Flush, flush, nil
	}

	if straight := findStraight(sorted); straight != nil {
		return Straight, straight, nil
	}

	counts := rankCounts(sorted)

	if quads := findOfAKind(sorted, counts, 4); quads != nil {
		return FourOfAKind, quads, nil
	}

	if fullHouse := findFullHouse(sorted, counts); fullHouse != nil {
		return FullHouse, fullHouse, nil
	}

	if trips := findOfAKind(sorted, counts, 3); trips != nil {
		return ThreeOfAKind, trips, nil
	}

	if twoPair := findTwoPair(sorted, counts); twoPair != nil {
		return TwoPair, twoPair, nil
	}

	if pair := findOfAKind(sorted, counts, 2); pair != nil {
		return Pair, pair, nil
	}

	return HighCard, sorted[0:5], nil
}

// byRankDesc sorts by rank descending; ties break on suit so the order is
// deterministic even though suits carry no strength.
type byRankDesc deck.Hand

func (h byRankDesc) Len() int { return len(h) }

func (h byRankDesc) Less(i, j int) bool {
	if h[i].Rank != h[j].Rank {
		return h[i].Rank > h[j].Rank
	}

	return strings.Compare(string(h[i].Suit), string(h[j].Suit)) > 0
}

func (h byRankDesc) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

// findFlush returns the five highest cards of a suit holding five or more
// cards, or nil if no such suit exists
func findFlush(sorted deck.Hand) deck.Hand {
	suits := make(map[deck.Suit]deck.Hand)
	for _, card := range sorted {
		suits[card.Suit] = append(suits[card.Suit], card)
	}

	for _, suit := range []deck.Suit{deck.Clubs, deck.Diamonds, deck.Hearts, deck.Spades} {
		if suited := suits[suit]; len(suited) >= 5 {
			return suited[0:5]
		}
	}

	return nil
}

// findStraight returns the highest five-card run, or nil if there is none.
// The wheel (5-4-3-2-A) is returned with the ace last, playing low.
func findStraight(sorted deck.Hand) deck.Hand {
	if len(sorted) == 0 {
		return nil
	}

	// dedupe by rank, keeping the first (highest-suit) instance
	unique := make(deck.Hand, 0, len(sorted))
	prevRank := 0
	for _, card := range sorted {
		if card.Rank != prevRank {
			unique.AddCard(card)
			prevRank = card.Rank
		}
	}

	for i := 0; i+4 < len(unique); i++ {
		if unique[i].Rank-unique[i+4].Rank == 4 {
			return unique[i : i+5]
		}
	}

	// the wheel: ace plays low below 5-4-3-2
	if unique.FirstCard().Rank == deck.Ace {
		wheel := make(deck.Hand, 0, 5)
		for _, rank := range []int{5, 4, 3, 2} {
			card := cardOfRank(unique, rank)
			if card == nil {
				return nil
			}

			wheel.AddCard(card)
		}

		wheel.AddCard(unique.FirstCard())
		return wheel
	}

	return nil
}

func cardOfRank(cards deck.Hand, rank int) *deck.Card {
	for _, card := range cards {
		if card.Rank == rank {
			return card
		}
	}

	return nil
}

func rankCounts(cards deck.Hand) map[int]int {
	counts := make(map[int]int)
	for _, card := range cards {
		counts[card.Rank]++
	}

	return counts
}

// ranksByCountDesc returns the ranks holding at least want cards, highest rank first
func ranksByCountDesc(counts map[int]int, want int) []int {
	ranks := make([]int, 0, len(counts))
	for rank, count := range counts {
		if count >= want {
			ranks = append(ranks, rank)
		}
	}

	sort.Sort(sort.Reverse(sort.IntSlice(ranks)))
	return ranks
}

// findOfAKind returns n cards of the highest rank holding at least n,
// padded with the highest remaining cards to make five
func findOfAKind(sorted deck.Hand, counts map[int]int, n int) deck.Hand {
	ranks := ranksByCountDesc(counts, n)
	if len(ranks) == 0 {
		return nil
	}

	best := ranks[0]
	hand := make(deck.Hand, 0, 5)
	for _, card := range sorted {
		if card.Rank == best && len(hand) < n {
			hand.AddCard(card)
		}
	}

	for _, card := range sorted {
		if len(hand) == 5 {
			break
		}

		if card.Rank != best {
			hand.AddCard(card)
		}
	}

	return hand
}

// findFullHouse returns the highest trips combined with the highest pair of
// a different rank, or nil if either part is missing
func findFullHouse(sorted deck.Hand, counts map[int]int) deck.Hand {
	tripRanks := ranksByCountDesc(counts, 3)
	if len(tripRanks) == 0 {
		return nil
	}

	tripRank := tripRanks[0]

	pairRank := 0
	for _, rank := range ranksByCountDesc(counts, 2) {
		if rank != tripRank {
			pairRank = rank
			break
		}
	}

	if pairRank == 0 {
		return nil
	}

	hand := make(deck.Hand, 0, 5)
	for _, card := range sorted {
		if card.Rank == tripRank && len(hand) < 3 {
			hand.AddCard(card)
		}
	}

	pairCards := 0
	for _, card := range sorted {
		if card.Rank == pairRank && pairCards < 2 {
			hand.AddCard(card)
			pairCards++
		}
	}

	return hand
}

// findTwoPair returns the two highest pairs padded with the highest
// remaining card of a third rank, or nil without two distinct pairs
func findTwoPair(sorted deck.Hand, counts map[int]int) deck.Hand {
	pairRanks := ranksByCountDesc(counts, 2)
	if len(pairRanks) < 2 {
		return nil
	}

	high, low := pairRanks[0], pairRanks[1]

	hand := make(deck.Hand, 0, 5)
	highCards, lowCards := 0, 0
	for _, card := range sorted {
		if card.Rank == high && highCards < 2 {
			hand.AddCard(card)
			highCards++
		}
	}
	for _, card := range sorted {
		if card.Rank == low && lowCards < 2 {
			hand.AddCard(card)
			lowCards++
		}
	}

	for _, card := range sorted {
		if card.Rank != high && card.Rank != low {
			hand.AddCard(card)
			break
		}
	}

	return hand
}
