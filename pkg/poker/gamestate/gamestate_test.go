package gamestate

import (
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"justapoker/pkg/poker/action"
	"justapoker/pkg/poker/player"
)

func newTestGame(t *testing.T, smallBlind, bigBlind int, chips ...int) *GameState {
	t.Helper()

	players := make([]*player.Player, len(chips))
	for i, c := range chips {
		players[i] = player.New("player-"+string(rune('A'+i)), player.KindAI, c)
	}

	g, err := New(logrus.StandardLogger(), players, smallBlind, bigBlind)
	require.NoError(t, err)
	g.deckSeed = 1

	return g
}

func totalChips(g *GameState) int {
	total := g.pot
	for _, p := range g.players {
		total += p.Chips + p.Bet
	}

	return total
}

func TestNew(t *testing.T) {
	a := assert.New(t)

	g, err := New(nil, []*player.Player{player.New("solo", player.KindHuman, 100)}, 1, 2)
	a.Nil(g)
	a.Equal(ErrInvalidPlayerCount, err)

	g, err = New(nil, []*player.Player{
		player.New("a", player.KindHuman, 100),
		player.New("b", player.KindAI, 100),
	}, 1, 2)
	a.NoError(err)
	a.NotNil(g)
	a.Equal(RoundPreFlop, g.round)
	a.Equal(-1, g.lastAggressor)
}

func TestStartHand(t *testing.T) {
	a := assert.New(t)

	g := newTestGame(t, 1, 2, 100, 100, 100)
	a.NoError(g.StartHand())

	// dealer button advanced from seat 0 to seat 1
	a.Equal(1, g.dealerPosition)

	for _, p := range g.players {
		a.Equal(2, len(p.Hole))
		a.False(p.Folded)
	}

	// 3-handed: small blind after dealer, big blind after that
	a.Equal(1, g.players[2].Bet, "small blind")
	a.Equal(2, g.players[0].Bet, "big blind")
	a.Equal(2, g.currentBet)
	a.Equal(2, g.minRaise)
	a.Equal(0, g.bigBlindPosition)

	// pre-flop action starts after the big blind
	a.Equal(1, g.currentPosition)

	// 3 players x 2 hole cards dealt
	a.Equal(46, g.deck.CardsLeft())
	a.Equal(0, len(g.community))
}

func TestStartHand_headsUpBlinds(t *testing.T) {
	a := assert.New(t)

	g := newTestGame(t, 5, 10, 100, 100)
	a.NoError(g.StartHand())

	// heads-up: the dealer posts the small blind
	a.Equal(1, g.dealerPosition)
	a.Equal(5, g.players[1].Bet, "dealer posts small blind")
	a.Equal(10, g.players[0].Bet, "other player posts big blind")
	a.Equal(10, g.currentBet)

	// dealer acts first pre-flop
	a.Equal(1, g.currentPosition)
}

func TestStartHand_skipsEliminatedPlayers(t *testing.T) {
	a := assert.New(t)

	g := newTestGame(t, 1, 2, 100, 0, 100, 100)
	a.NoError(g.StartHand())

	a.False(g.dealt[1])
	a.Equal(0, len(g.players[1].Hole))
	a.Equal(3, len(g.ActivePlayers()))

	// blinds skip the eliminated seat: dealer=1, sb=2, bb=3
	a.Equal(1, g.players[2].Bet)
	a.Equal(2, g.players[3].Bet)
}

func TestStartHand_needsTwoPlayersWithChips(t *testing.T) {
	g := newTestGame(t, 1, 2, 100, 0)
	assert.Equal(t, ErrInvalidPlayerCount, g.StartHand())
}

func TestStartHand_shortStackedBlind(t *testing.T) {
	a := assert.New(t)

	g := newTestGame(t, 5, 10, 100, 100, 4)
	a.NoError(g.StartHand())

	// seat 2 can only post 4 of the 5 small blind
	a.Equal(4, g.players[2].Bet)
	a.Equal(0, g.players[2].Chips)
	a.Equal(10, g.currentBet)
}

func TestPlayerAction_fold(t *testing.T) {
	a := assert.New(t)

	g := newTestGame(t, 1, 2, 100, 100, 100)
	a.NoError(g.StartHand())

	complete, err := g.PlayerAction(action.Fold, 0)
	a.NoError(err)
	a.False(complete)
	a.True(g.players[1].Folded)
	a.Equal(2, len(g.ActivePlayers()))

	// second fold leaves one player; the round completes immediately
	complete, err = g.PlayerAction(action.Fold, 0)
	a.NoError(err)
	a.True(complete)
	a.Equal(1, len(g.ActivePlayers()))
	a.Equal(0, len(g.community), "no community cards on an early win")
}

func TestPlayerAction_check(t *testing.T) {
	a := assert.New(t)

	g := newTestGame(t, 1, 2, 100, 100, 100)
	a.NoError(g.StartHand())

	// seat 1 faces the big blind and cannot check
	_, err := g.PlayerAction(action.Check, 0)
	a.ErrorIs(err, ErrIllegalAction)

	// state must be untouched after the failure
	a.Equal(1, g.currentPosition)
	a.Equal(0, g.players[1].Bet)
}

func TestPlayerAction_call(t *testing.T) {
	a := assert.New(t)

	g := newTestGame(t, 1, 2, 100, 100, 100)
	a.NoError(g.StartHand())

	complete, err := g.PlayerAction(action.Call, 0)
	a.NoError(err)
	a.False(complete)
	a.Equal(2, g.players[1].Bet)
	a.Equal(98, g.players[1].Chips)
	a.Equal(2, g.currentPosition)
}

func TestPlayerAction_partialCall(t *testing.T) {
	a := assert.New(t)

	g := newTestGame(t, 5, 20, 100, 100, 30)
	a.NoError(g.StartHand())

	// dealer=1, so seat 2 posted the 5 small blind; seat 1 acts first
	a.Equal(1, g.currentPosition)

	// seat 1 raises to 80
	_, err := g.PlayerAction(action.Raise, 80)
	a.NoError(err)
	a.Equal(80, g.currentBet)

	// seat 2 has 25 chips behind its 5 blind; the call is partial
	a.Equal(2, g.currentPosition)
	_, err = g.PlayerAction(action.Call, 0)
	a.NoError(err)
	a.Equal(30, g.players[2].Bet)
	a.Equal(0, g.players[2].Chips)

	// short call does not reopen the betting
	a.Equal(80, g.currentBet)
}

func TestPlayerAction_bet(t *testing.T) {
	a := assert.New(t)

	g := newTestGame(t, 1, 2, 100, 100, 100)
	a.NoError(g.StartHand())

	// betting is closed pre-flop because of the blinds
	_, err := g.PlayerAction(action.Bet, 10)
	a.ErrorIs(err, ErrIllegalAction)

	// walk to the flop
	playToFlop(t, g)
	a.Equal(RoundFlop, g.round)
	a.Equal(0, g.currentBet)

	// action starts after the dealer post-flop
	a.Equal(2, g.currentPosition)

	complete, err := g.PlayerAction(action.Bet, 10)
	a.NoError(err)
	a.False(complete)
	a.Equal(10, g.currentBet)
	a.Equal(10, g.minRaise)
	a.Equal(10, g.players[2].Bet)
	a.Equal(2, g.lastAggressor)
}

func TestPlayerAction_betFlooredAndCapped(t *testing.T) {
	a := assert.New(t)

	g := newTestGame(t, 1, 2, 100, 100, 5)
	a.NoError(g.StartHand())
	playToFlop(t, g)

	// a bet below the big blind is floored to it
	_, err := g.PlayerAction(action.Bet, 1)
	a.NoError(err)
	a.Equal(2, g.currentBet)

	// a bet beyond the stack is capped to the player's chips
	g2 := newTestGame(t, 1, 2, 100, 100, 100)
	a.NoError(g2.StartHand())
	playToFlop(t, g2)

	_, err = g2.PlayerAction(action.Bet, 500)
	a.NoError(err)
	a.Equal(98, g2.currentBet, "bet capped at remaining chips")
	a.Equal(0, g2.CurrentPlayer().Bet) // turn advanced
}

func TestPlayerAction_raise(t *testing.T) {
	a := assert.New(t)

	g := newTestGame(t, 1, 2, 100, 100, 100)
	a.NoError(g.StartHand())

	// a raise below the minimum is floored to current bet + min raise
	_, err := g.PlayerAction(action.Raise, 3)
	a.NoError(err)
	a.Equal(4, g.currentBet)
	a.Equal(2, g.minRaise)
	a.Equal(4, g.players[1].Bet)
	a.Equal(1, g.lastAggressor)

	// a full raise updates the minimum to the increment
	_, err = g.PlayerAction(action.Raise, 10)
	a.NoError(err)
	a.Equal(10, g.currentBet)
	a.Equal(6, g.minRaise)
	a.Equal(2, g.lastAggressor)

	// raising with nothing open is illegal post-flop
	g2 := newTestGame(t, 1, 2, 100, 100, 100)
	a.NoError(g2.StartHand())
	playToFlop(t, g2)
	_, err = g2.PlayerAction(action.Raise, 10)
	a.ErrorIs(err, ErrIllegalAction)
}

func TestPlayerAction_raiseCappedAtStake(t *testing.T) {
	a := assert.New(t)

	g := newTestGame(t, 1, 2, 100, 20, 100)
	a.NoError(g.StartHand())

	// seat 1 holds 20 and raises far beyond its stack
	_, err := g.PlayerAction(action.Raise, 500)
	a.NoError(err)
	a.Equal(20, g.currentBet)
	a.Equal(20, g.players[1].Bet)
	a.Equal(0, g.players[1].Chips)
	a.Equal(18, g.minRaise)
}

func TestPlayerAction_allIn(t *testing.T) {
	a := assert.New(t)

	g := newTestGame(t, 1, 2, 100, 50, 100)
	a.NoError(g.StartHand())

	// seat 1 shoves 50: acts as a raise
	_, err := g.PlayerAction(action.AllIn, 0)
	a.NoError(err)
	a.Equal(50, g.currentBet)
	a.Equal(48, g.minRaise)
	a.Equal(0, g.players[1].Chips)
	a.Equal(1, g.lastAggressor)

	// seat 2 shoves 100-1=99 over: also a raise
	_, err = g.PlayerAction(action.AllIn, 0)
	a.NoError(err)
	a.Equal(100, g.currentBet)
	a.Equal(50, g.minRaise)
}

func TestPlayerAction_allInBelowCurrentBetIsACall(t *testing.T) {
	a := assert.New(t)

	g := newTestGame(t, 1, 2, 100, 100, 30)
	a.NoError(g.StartHand())

	_, err := g.PlayerAction(action.Raise, 60)
	a.NoError(err)
	a.Equal(60, g.currentBet)

	// seat 2's 30-chip shove cannot match; it acts as a capped call
	_, err = g.PlayerAction(action.AllIn, 0)
	a.NoError(err)
	a.Equal(60, g.currentBet, "current bet unchanged")
	a.Equal(30, g.players[2].Bet)
	a.Equal(0, g.players[2].Chips)
	a.Equal(1, g.lastAggressor, "aggressor unchanged")
}

func TestPlayerAction_shortAllInRaiseKeepsMinRaise(t *testing.T) {
	a := assert.New(t)

	g := newTestGame(t, 1, 2, 100, 100, 10)
	a.NoError(g.StartHand())

	_, err := g.PlayerAction(action.Raise, 8)
	a.NoError(err)
	a.Equal(8, g.currentBet)
	a.Equal(6, g.minRaise)

	// the 10-chip shove raises by 2, below the 6 minimum: the bet moves
	// but the minimum increment does not
	_, err = g.PlayerAction(action.AllIn, 0)
	a.NoError(err)
	a.Equal(10, g.currentBet)
	a.Equal(6, g.minRaise)
	a.Equal(2, g.lastAggressor)
}

func TestPlayerAction_unknownAction(t *testing.T) {
	a := assert.New(t)

	g := newTestGame(t, 1, 2, 100, 100, 100)
	a.NoError(g.StartHand())

	_, err := g.PlayerAction(action.Action("limp"), 0)

	var unknownErr action.UnknownActionError
	a.ErrorAs(err, &unknownErr)
	a.Equal("limp", unknownErr.Token)
}

func TestRoundCompletion_gating(t *testing.T) {
	a := assert.New(t)

	g := newTestGame(t, 1, 2, 100, 100, 100)
	a.NoError(g.StartHand())

	// seat 1 calls: seat 2 (small blind) still owes
	complete, err := g.PlayerAction(action.Call, 0)
	a.NoError(err)
	a.False(complete, "round must stay open while a bet is unmatched")

	// small blind completes: big blind is matched, no aggressor
	complete, err = g.PlayerAction(action.Call, 0)
	a.NoError(err)
	a.True(complete)
}

func TestRoundCompletion_noAggressor(t *testing.T) {
	a := assert.New(t)

	g := newTestGame(t, 1, 2, 100, 100, 100)
	a.NoError(g.StartHand())
	playToFlop(t, g)

	// with no aggressor and every bet matched at zero, a single check
	// closes the street
	complete, err := g.PlayerAction(action.Check, 0)
	a.NoError(err)
	a.True(complete)
}

func TestRoundCompletion_waitsForAggressorCycle(t *testing.T) {
	a := assert.New(t)

	g := newTestGame(t, 1, 2, 100, 100, 100)
	a.NoError(g.StartHand())

	_, err := g.PlayerAction(action.Raise, 10) // seat 1
	a.NoError(err)

	complete, err := g.PlayerAction(action.Call, 0) // seat 2
	a.NoError(err)
	a.False(complete, "big blind has not responded to the raise")

	complete, err = g.PlayerAction(action.Call, 0) // seat 0 (big blind)
	a.NoError(err)
	a.True(complete, "action cycled back to the aggressor")
}

func TestRoundCompletion_allInAggressor(t *testing.T) {
	a := assert.New(t)

	g := newTestGame(t, 1, 2, 100, 40, 100)
	a.NoError(g.StartHand())

	// seat 1 shoves 40
	_, err := g.PlayerAction(action.AllIn, 0)
	a.NoError(err)

	complete, err := g.PlayerAction(action.Call, 0) // seat 2
	a.NoError(err)
	a.False(complete)

	// seat 0 calls; the aggressor cannot act again, the round closes
	complete, err = g.PlayerAction(action.Call, 0)
	a.NoError(err)
	a.True(complete)
}

func TestNextBettingRound(t *testing.T) {
	a := assert.New(t)

	g := newTestGame(t, 1, 2, 100, 100, 100)
	a.NoError(g.StartHand())

	playToFlop(t, g)
	a.Equal(RoundFlop, g.round)
	a.Equal(6, g.pot, "blinds and calls swept into the pot")
	a.Equal(3, len(g.community))
	a.Equal(0, g.currentBet)
	a.Equal(-1, g.lastAggressor)
	for _, p := range g.players {
		a.Equal(0, p.Bet)
	}

	checkAround(t, g)
	a.Equal(RoundTurn, g.round)
	a.Equal(4, len(g.community))

	checkAround(t, g)
	a.Equal(RoundRiver, g.round)
	a.Equal(5, len(g.community))

	checkAround(t, g)
	a.Equal(RoundShowdown, g.round)
	a.Equal(5, len(g.community))
}

func TestShowdown(t *testing.T) {
	a := assert.New(t)

	g := newTestGame(t, 1, 2, 100, 100, 100)
	a.NoError(g.StartHand())
	playToFlop(t, g)
	checkAround(t, g)
	checkAround(t, g)
	checkAround(t, g)

	a.Equal(RoundShowdown, g.round)

	results, err := g.Showdown()
	a.NoError(err)
	a.Equal(3, len(results))

	for i := 1; i < len(results); i++ {
		a.GreaterOrEqual(int(results[i-1].Rank), int(results[i].Rank), "results sorted strongest first")
	}

	for _, r := range results {
		a.Equal(5, len(r.Best))
	}
}

func TestShowdown_foldedPlayersExcluded(t *testing.T) {
	a := assert.New(t)

	g := newTestGame(t, 1, 2, 100, 100, 100)
	a.NoError(g.StartHand())

	_, err := g.PlayerAction(action.Fold, 0)
	a.NoError(err)

	playToFlop(t, g)
	checkAround(t, g)
	checkAround(t, g)
	checkAround(t, g)

	results, err := g.Showdown()
	a.NoError(err)
	a.Equal(2, len(results))
	for _, r := range results {
		a.NotEqual(g.players[1], r.Player)
	}
}

func TestAwardPot(t *testing.T) {
	a := assert.New(t)

	g := newTestGame(t, 1, 2, 100, 100, 100)
	g.pot = 100

	winners := []*player.Player{g.players[2], g.players[0], g.players[1]}
	awards := g.AwardPot(winners)

	// remainder chips go to the earliest winners in the given order
	a.Equal([]int{34, 33, 33}, awards)
	a.Equal(134, g.players[2].Chips)
	a.Equal(133, g.players[0].Chips)
	a.Equal(133, g.players[1].Chips)
	a.Equal(0, g.pot)

	a.Nil(g.AwardPot(nil))
}

func TestChipConservation(t *testing.T) {
	a := assert.New(t)

	random := rand.New(rand.NewSource(99)) // nolint:gosec

	for trial := 0; trial < 50; trial++ {
		g := newTestGame(t, 1, 2, 100, 100, 100, 100)
		g.deckSeed = int64(trial + 1)
		total := totalChips(g)

		a.NoError(g.StartHand())
		a.Equal(total, totalChips(g), "blinds must conserve chips")

		for round := 0; round < 4; round++ {
			complete := false
			for steps := 0; !complete && steps < 100; steps++ {
				act, amount := randomLegalAction(g, random)

				var err error
				complete, err = g.PlayerAction(act, amount)
				a.NoError(err)
				a.Equal(total, totalChips(g), "action %s must conserve chips", act)
			}

			a.True(complete, "betting round must terminate")

			if len(g.ActivePlayers()) == 1 {
				break
			}

			done, err := g.NextBettingRound()
			a.NoError(err)
			a.Equal(total, totalChips(g))

			if done {
				break
			}
		}

		winner := g.ActivePlayers()[0]
		g.AwardPot([]*player.Player{winner})
		a.Equal(total, totalChips(g), "award must conserve chips")
	}
}

func randomLegalAction(g *GameState, random *rand.Rand) (action.Action, int) {
	p := g.CurrentPlayer()

	if g.currentBet > p.Bet {
		switch random.Intn(4) {
		case 0:
			return action.Fold, 0
		case 1:
			return action.Raise, g.currentBet + g.minRaise + random.Intn(5)
		case 2:
			return action.AllIn, 0
		default:
			return action.Call, 0
		}
	}

	if g.currentBet == 0 && random.Intn(3) == 0 {
		return action.Bet, g.bigBlind + random.Intn(10)
	}

	return action.Check, 0
}

// playToFlop calls around pre-flop and advances to the flop
func playToFlop(t *testing.T, g *GameState) {
	t.Helper()

	for steps := 0; steps < 10; steps++ {
		complete, err := g.PlayerAction(action.Call, 0)
		require.NoError(t, err)

		if complete {
			break
		}
	}

	done, err := g.NextBettingRound()
	require.NoError(t, err)
	require.False(t, done)
}

// checkAround has every player check and advances to the next street
func checkAround(t *testing.T, g *GameState) {
	t.Helper()

	for steps := 0; steps < 10; steps++ {
		complete, err := g.PlayerAction(action.Check, 0)
		require.NoError(t, err)

		if complete {
			break
		}
	}

	_, err := g.NextBettingRound()
	require.NoError(t, err)
}