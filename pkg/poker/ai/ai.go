// Package ai provides a heuristic decision policy for computer-controlled
// seats. The policy weighs hand strength, table position, and two persisted
// personality knobs (aggression and bluff factor) to pick an action.
package ai

import (
	"github.com/sirupsen/logrus"

	"justapoker/internal/rng"
	"justapoker/pkg/deck"
	"justapoker/pkg/poker/action"
	"justapoker/pkg/poker/evaluator"
	"justapoker/pkg/poker/gamestate"
	"justapoker/pkg/poker/player"
)

// positions relative to the dealer
const (
	positionEarly = iota
	positionMiddle
	positionLate
)

// post-flop base strength per hand category
var rankStrengths = map[evaluator.HandRank]float64{
	evaluator.HighCard:      0.1,
	evaluator.Pair:          0.2,
	evaluator.TwoPair:       0.4,
	evaluator.ThreeOfAKind:  0.6,
	evaluator.Straight:      0.7,
	evaluator.Flush:         0.8,
	evaluator.FullHouse:     0.9,
	evaluator.FourOfAKind:   0.95,
	evaluator.StraightFlush: 0.98,
	evaluator.RoyalFlush:    1.0,
}

// BasicAI decides actions for an AI seat using simple strength and
// pot-odds heuristics
type BasicAI struct {
	logger logrus.FieldLogger
	rng    rng.Generator
}

// New returns a BasicAI. A nil generator falls back to crypto randomness,
// and a nil logger falls back to the standard logger.
func New(logger logrus.FieldLogger, generator rng.Generator) *BasicAI {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	if generator == nil {
		generator = rng.Crypto{}
	}

	return &BasicAI{
		logger: logger,
		rng:    generator,
	}
}

// Decide returns the action the AI wants to take for the player. The
// returned intent may still be sanitized by the caller against the table
// rules, the same way human input is.
func (b *BasicAI) Decide(view *gamestate.View, p *player.Player) (action.Action, int) {
	strength := b.handStrength(view, p)

	bluffing := b.rng.Float64() < p.BluffFactor
	if bluffing {
		// play the hand backwards
		if strength < 0.5 {
			strength = 0.8
		} else {
			strength = 0.2
		}
	}

	act, amount := b.decide(view, p, strength, b.position(view, p), bluffing)
	b.logger.WithFields(logrus.Fields{
		"player":   p.Name,
		"strength": strength,
		"bluffing": bluffing,
		"action":   act,
		"amount":   amount,
	}).Debug("ai decision")

	return act, amount
}

// handStrength scores the player's current holding in [0, 1]
func (b *BasicAI) handStrength(view *gamestate.View, p *player.Player) float64 {
	if len(view.Community) == 0 {
		return preflopStrength(p.Hole)
	}

	handRank, _, err := evaluator.Evaluate(p.Hole, view.Community)
	if err != nil {
		return 0
	}

	strength := rankStrengths[handRank]

	// discount early streets where the category may still improve or be
	// outdrawn
	certainty := float64(len(view.Community)) / 5

	return strength*certainty + strength*(1-certainty)*0.8
}

// preflopStrength scores two hole cards in [0, 1]
func preflopStrength(hole deck.Hand) float64 {
	if len(hole) != 2 {
		return 0
	}

	first, second := hole[0], hole[1]

	if first.Rank == second.Rank {
		// pocket pair, 0.5 for deuces up to 1.0 for aces
		return 0.5 + float64(first.Rank-2)/24
	}

	high, low := first.Rank, second.Rank
	if low > high {
		high, low = low, high
	}

	value := float64(high-2) / 12 * 0.5

	switch high - low {
	case 1:
		value += 0.1
	case 2:
		value += 0.05
	}

	if first.Suit == second.Suit {
		value += 0.2
	}

	return min(0.85, max(0.1, value))
}

// position buckets the player's seat relative to the dealer
func (b *BasicAI) position(view *gamestate.View, p *player.Player) int {
	numActive := len(view.Active)
	if numActive == 0 {
		return positionMiddle
	}

	seat := 0
	for i, vp := range view.Players {
		if vp == p {
			seat = i
			break
		}
	}

	relative := ((seat-view.DealerPosition)%numActive + numActive) % numActive

	if relative < numActive/3 {
		return positionEarly
	} else if relative < 2*numActive/3 {
		return positionMiddle
	}

	return positionLate
}

func (b *BasicAI) decide(view *gamestate.View, p *player.Player, strength float64, position int, bluffing bool) (action.Action, int) {
	potSize := view.TotalOnTable()
	callAmount := view.CurrentBet - p.Bet
	canCheck := callAmount == 0

	switch position {
	case positionEarly:
		strength -= 0.1
	case positionLate:
		strength += 0.1
	}

	// pull the score towards 1.0 for aggressive personalities
	strength = strength*(1.0-p.Aggression) + p.Aggression

	// callRatio is the price of continuing relative to the pot
	callRatio := 1.0
	if potSize > 0 {
		callRatio = float64(callAmount) / float64(potSize)
	}

	switch {
	case strength > 0.8:
		if canCheck {
			if b.rng.Float64() < 0.3 {
				// slow play occasionally
				return action.Check, 0
			}

			return action.Bet, int(float64(potSize) * (0.5 + b.rng.Float64()*0.5))
		}

		raiseTo := int(float64(view.CurrentBet)*2.5 + b.rng.Float64()*float64(potSize)*0.2)
		if raiseTo > p.Chips {
			return action.AllIn, 0
		}

		return action.Raise, raiseTo
	case strength > 0.5:
		if canCheck {
			if b.rng.Float64() < 0.7 {
				return action.Check, 0
			}

			return action.Bet, potSize / 2
		}

		if callRatio < 0.2 || bluffing {
			if b.rng.Float64() < 0.3 {
				return action.Raise, view.CurrentBet * 3 / 2
			}

			return action.Call, 0
		}

		return action.Fold, 0
	case strength > 0.3:
		if canCheck {
			return action.Check, 0
		}

		if callRatio < 0.1 || bluffing {
			return action.Call, 0
		}

		return action.Fold, 0
	}

	if canCheck {
		if position == positionLate && b.rng.Float64() < 0.1 {
			// rare stab from late position
			return action.Bet, int(float64(potSize) * 0.3)
		}

		return action.Check, 0
	}

	if callRatio < 0.05 && bluffing {
		return action.Call, 0
	}

	return action.Fold, 0
}
