// Package gamestate drives a hand of Texas Hold'em through its betting
// streets: blind posting, turn order, legal player actions, pot accounting,
// and the showdown.
//
// The state machine is fully synchronous and exclusively owned by a single
// driving loop. It knows nothing about how decisions are produced; the loop
// supplies one action per call to PlayerAction.
package gamestate

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"justapoker/pkg/deck"
	"justapoker/pkg/poker/action"
	"justapoker/pkg/poker/evaluator"
	"justapoker/pkg/poker/player"
)

// GameState owns the table state for a session of hands
type GameState struct {
	logger  logrus.FieldLogger
	players []*player.Player

	// dealt marks the seats that were dealt into the current hand.
	// A seat is active while dealt and not folded; a player who is
	// all-in stays active until the hand resolves.
	dealt []bool

	deck      *deck.Deck
	community deck.Hand

	pot        int
	currentBet int
	minRaise   int

	smallBlind int
	bigBlind   int

	dealerPosition   int
	currentPosition  int
	bigBlindPosition int

	round         BettingRound
	lastAggressor int // seat index, -1 when no one has bet or raised

	// when non-zero, hands are dealt from a seeded deck
	deckSeed int64
}

// SetDeckSeed forces every subsequent hand to shuffle with the given seed,
// for reproducing hands. Zero restores random shuffles.
func (g *GameState) SetDeckSeed(seed int64) {
	g.deckSeed = seed
}

// New returns a new game state for the given players.
// The players slice is the fixed seat order for the session.
func New(logger logrus.FieldLogger, players []*player.Player, smallBlind, bigBlind int) (*GameState, error) {
	if len(players) < 2 {
		return nil, ErrInvalidPlayerCount
	}

	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &GameState{
		logger:        logger,
		players:       players,
		dealt:         make([]bool, len(players)),
		deck:          deck.New(),
		community:     make(deck.Hand, 0, 5),
		smallBlind:    smallBlind,
		bigBlind:      bigBlind,
		minRaise:      bigBlind,
		round:         RoundPreFlop,
		lastAggressor: -1,
	}, nil
}

// StartHand deals a fresh hand: new shuffled deck, cleared table state,
// hole cards, blinds, and first-to-act. Chip counts and the dealer rotation
// carry over from the previous hand.
func (g *GameState) StartHand() error {
	playersWithChips := 0
	for _, p := range g.players {
		if p.Chips > 0 {
			playersWithChips++
		}
	}

	if playersWithChips < 2 {
		return ErrInvalidPlayerCount
	}

	g.deck = deck.New()
	if g.deckSeed != 0 {
		g.deck.SetSeed(g.deckSeed)
	}
	g.deck.Shuffle()

	g.community = make(deck.Hand, 0, 5)
	g.pot = 0
	g.currentBet = 0
	g.minRaise = g.bigBlind
	g.round = RoundPreFlop
	g.lastAggressor = -1

	for i, p := range g.players {
		p.NewHand()
		g.dealt[i] = p.Chips > 0
	}

	g.dealerPosition = (g.dealerPosition + 1) % len(g.players)

	// two passes of one card each, not two at once
	for pass := 0; pass < 2; pass++ {
		for i, p := range g.players {
			if !g.dealt[i] {
				continue
			}

			card, err := g.deck.Draw()
			if err != nil {
				return err
			}

			p.Hole.AddCard(card)
		}
	}

	g.postBlinds()
	g.setFirstToAct()

	g.logger.WithFields(logrus.Fields{
		"dealer":  g.players[g.dealerPosition].Name,
		"players": playersWithChips,
	}).Info("hand started")

	return nil
}

// postBlinds posts the small and big blinds.
// Heads-up, the dealer posts the small blind; otherwise the two seats after
// the dealer post in order.
func (g *GameState) postBlinds() {
	var sbPos int
	if g.activeCount() == 2 {
		sbPos = g.nextDealtFrom(g.dealerPosition)
	} else {
		sbPos = g.nextDealtFrom(g.dealerPosition + 1)
	}
	bbPos := g.nextDealtFrom(sbPos + 1)

	sb := g.players[sbPos]
	sb.Wager(min(g.smallBlind, sb.Chips))

	bb := g.players[bbPos]
	posted := bb.Wager(min(g.bigBlind, bb.Chips))

	g.currentBet = posted
	g.minRaise = g.bigBlind
	g.bigBlindPosition = bbPos

	g.logger.WithFields(logrus.Fields{
		"smallBlind": sb.Name,
		"bigBlind":   bb.Name,
	}).Debug("blinds posted")
}

// setFirstToAct sets the current position for the start of a street.
// Pre-flop, action starts after the big blind; post-flop, after the dealer.
func (g *GameState) setFirstToAct() {
	start := g.dealerPosition + 1
	if g.round == RoundPreFlop {
		start = g.bigBlindPosition + 1
	}

	g.currentPosition = g.nextEligibleFrom(start)
}

// nextDealtFrom returns the first seat at or after pos that was dealt in
func (g *GameState) nextDealtFrom(pos int) int {
	n := len(g.players)
	for i := 0; i < n; i++ {
		seat := (pos + i) % n
		if g.dealt[seat] && !g.players[seat].Folded {
			return seat
		}
	}

	return pos % n
}

// nextEligibleFrom returns the first seat at or after pos that can still
// act: dealt in, not folded, and holding chips. If the full circle is
// exhausted, pos itself is returned.
func (g *GameState) nextEligibleFrom(pos int) int {
	n := len(g.players)
	for i := 0; i < n; i++ {
		seat := (pos + i) % n
		if g.canAct(seat) {
			return seat
		}
	}

	return pos % n
}

func (g *GameState) isActive(seat int) bool {
	return g.dealt[seat] && !g.players[seat].Folded
}

func (g *GameState) canAct(seat int) bool {
	return g.isActive(seat) && g.players[seat].Chips > 0
}

func (g *GameState) activeCount() int {
	count := 0
	for seat := range g.players {
		if g.isActive(seat) {
			count++
		}
	}

	return count
}

// ActivePlayers returns the players still contesting the hand, in seat order
func (g *GameState) ActivePlayers() []*player.Player {
	active := make([]*player.Player, 0, len(g.players))
	for seat, p := range g.players {
		if g.isActive(seat) {
			active = append(active, p)
		}
	}

	return active
}

// CurrentPlayer returns the player whose turn it is
func (g *GameState) CurrentPlayer() *player.Player {
	return g.players[g.currentPosition]
}

// PlayerAction applies one action for the current player and advances the
// turn. It reports whether the betting round is now complete.
func (g *GameState) PlayerAction(act action.Action, amount int) (bool, error) {
	p := g.CurrentPlayer()

	switch act {
	case action.Fold:
		p.Folded = true

		g.logAction(p, act, 0)

		if g.activeCount() == 1 {
			return true, nil
		}

	case action.Check:
		if g.currentBet > p.Bet {
			return false, fmt.Errorf("%w: cannot check when there is a bet to call", ErrIllegalAction)
		}

		g.logAction(p, act, 0)

	case action.Call:
		called := p.Wager(g.currentBet - p.Bet)
		g.logAction(p, act, called)

	case action.Bet:
		if g.currentBet > 0 {
			return false, fmt.Errorf("%w: cannot bet when a bet is already open", ErrIllegalAction)
		}

		if amount < g.bigBlind {
			amount = g.bigBlind
		}
		if amount > p.Chips {
			amount = p.Chips
		}

		p.Wager(amount)
		g.currentBet = amount
		g.minRaise = amount
		g.lastAggressor = g.currentPosition

		g.logAction(p, act, amount)

	case action.Raise:
		if g.currentBet == 0 {
			return false, fmt.Errorf("%w: cannot raise when there is no bet", ErrIllegalAction)
		}

		if minTo := g.currentBet + g.minRaise; amount < minTo {
			amount = minTo
		}
		if amount > p.Stake() {
			amount = p.Stake()
		}

		increment := amount - g.currentBet
		p.Wager(amount - p.Bet)

		if increment > 0 {
			g.currentBet = amount
			g.minRaise = increment
			g.lastAggressor = g.currentPosition
		}

		g.logAction(p, act, amount)

	case action.AllIn:
		total := p.Stake()
		p.Wager(p.Chips)

		if total > g.currentBet {
			// a short all-in acts as a raise but only moves the
			// minimum when it meets the normal increment
			if total-g.currentBet >= g.minRaise {
				g.minRaise = total - g.currentBet
			}

			g.currentBet = total
			g.lastAggressor = g.currentPosition
		}

		g.logAction(p, act, total)

	default:
		return false, action.UnknownActionError{Token: string(act)}
	}

	g.advanceTurn()
	return g.isRoundComplete(), nil
}

func (g *GameState) logAction(p *player.Player, act action.Action, amount int) {
	g.logger.WithFields(logrus.Fields{
		"player": p.Name,
		"round":  g.round.String(),
	}).Infof("%s %s", p.Name, act.LogMessage(amount))
}

func (g *GameState) advanceTurn() {
	g.currentPosition = g.nextEligibleFrom(g.currentPosition + 1)
}

// isRoundComplete reports whether the betting round is over: one player
// left, or every active player has matched the bet (or is all-in) and the
// action has cycled back to the last aggressor.
func (g *GameState) isRoundComplete() bool {
	if g.activeCount() <= 1 {
		return true
	}

	for seat, p := range g.players {
		if g.isActive(seat) && p.Bet != g.currentBet && p.Chips > 0 {
			return false
		}
	}

	// an all-in aggressor can no longer be cycled back to
	return g.lastAggressor == -1 ||
		g.currentPosition == g.lastAggressor ||
		!g.canAct(g.lastAggressor)
}

// NextBettingRound sweeps bets into the pot and advances to the next
// street, dealing community cards as required. It reports true when the
// hand has reached the showdown.
func (g *GameState) NextBettingRound() (bool, error) {
	g.CollectBets()

	switch g.round {
	case RoundPreFlop:
		g.round = RoundFlop
		if err := g.dealCommunity(3); err != nil {
			return false, err
		}
	case RoundFlop:
		g.round = RoundTurn
		if err := g.dealCommunity(1); err != nil {
			return false, err
		}
	case RoundTurn:
		g.round = RoundRiver
		if err := g.dealCommunity(1); err != nil {
			return false, err
		}
	case RoundRiver, RoundShowdown:
		g.round = RoundShowdown
		return true, nil
	}

	g.setFirstToAct()
	return false, nil
}

// CollectBets sweeps every outstanding bet into the pot and resets the
// street's betting state. NextBettingRound calls this; it is exported for
// hands that end early when everyone else folds.
func (g *GameState) CollectBets() {
	for _, p := range g.players {
		g.pot += p.Bet
		p.Bet = 0
	}

	g.currentBet = 0
	g.lastAggressor = -1
}

// Pot returns the chips collected so far, excluding outstanding bets
func (g *GameState) Pot() int {
	return g.pot
}

func (g *GameState) dealCommunity(count int) error {
	cards, err := g.deck.DrawCount(count)
	if err != nil {
		return err
	}

	g.community = append(g.community, cards...)

	g.logger.WithFields(logrus.Fields{
		"round": g.round.String(),
		"board": g.community.String(),
	}).Info("community cards dealt")

	return nil
}

// Result is one player's showdown outcome
type Result struct {
	Player *player.Player
	Rank   evaluator.HandRank
	Best   deck.Hand
}

// Showdown evaluates every active player's hand and returns the results
// strongest category first. Players sharing a category tie; kickers are
// not compared. Ties preserve seat order.
func (g *GameState) Showdown() ([]Result, error) {
	active := g.ActivePlayers()
	if len(active) == 0 {
		return nil, ErrNotInHand
	}

	results := make([]Result, 0, len(active))
	for _, p := range active {
		rank, best, err := evaluator.Evaluate(p.Hole, g.community)
		if err != nil {
			return nil, err
		}

		results = append(results, Result{Player: p, Rank: rank, Best: best})
	}

	// insertion sort keeps ties in seat order
	for i := 1; i < len(results); i++ {
		for j := i; j > 0 && results[j].Rank > results[j-1].Rank; j-- {
			results[j], results[j-1] = results[j-1], results[j]
		}
	}

	return results, nil
}

// AwardPot splits the pot between the winners and returns the amount each
// received, in the order given. The pot divides evenly; the remainder goes
// one chip at a time to the earliest winners, so the caller's ordering
// decides who gets the odd chips.
func (g *GameState) AwardPot(winners []*player.Player) []int {
	if len(winners) == 0 {
		return nil
	}

	share := g.pot / len(winners)
	remainder := g.pot % len(winners)

	awards := make([]int, len(winners))
	for i, w := range winners {
		award := share
		if i < remainder {
			award++
		}

		w.Chips += award
		awards[i] = award

		g.logger.WithFields(logrus.Fields{
			"player": w.Name,
			"amount": award,
		}).Info("pot awarded")
	}

	g.pot = 0
	return awards
}
