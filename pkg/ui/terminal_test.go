package ui

import (
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"

	"justapoker/pkg/deck"
	"justapoker/pkg/poker/action"
	"justapoker/pkg/poker/evaluator"
	"justapoker/pkg/poker/gamestate"
	"justapoker/pkg/poker/player"
)

func TestMain(m *testing.M) {
	pterm.DisableColor()
	m.Run()
}

func TestActionOptions(t *testing.T) {
	a := assert.New(t)

	p := player.New("alice", player.KindHuman, 100)
	view := &gamestate.View{CurrentBet: 0, BigBlind: 2}

	options := actionOptions(view, p)
	a.Equal([]string{"Check", "Bet", "All-in", "Fold"}, options)

	view.CurrentBet = 10
	options = actionOptions(view, p)
	a.Equal([]string{"Call (10)", "Raise", "All-in", "Fold"}, options)

	// a short stack sees what a call actually costs
	p.Chips = 4
	options = actionOptions(view, p)
	a.Equal("Call (4)", options[0])
}

func TestMinAmount(t *testing.T) {
	a := assert.New(t)

	view := &gamestate.View{CurrentBet: 10, MinRaise: 4, BigBlind: 2}
	a.Equal(14, minAmount(view, action.Raise))
	a.Equal(2, minAmount(view, action.Bet))
}

func TestPlayerBox(t *testing.T) {
	a := assert.New(t)

	p := player.New("alice", player.KindHuman, 90)
	p.Bet = 10
	p.Hole = deck.CardsFromString("14s,13s")

	hidden := playerBox(p, false)
	a.Contains(hidden, "alice")
	a.Contains(hidden, "Bet: 10")
	a.Contains(hidden, "Chips: 90")
	a.Contains(hidden, "? ?")
	a.NotContains(hidden, "A♠")

	shown := playerBox(p, true)
	a.Contains(shown, "A♠")
	a.NotContains(shown, "? ?")

	p.Folded = true
	a.Contains(playerBox(p, false), "Folded")

	busted := player.New("bob", player.KindAI, 0)
	a.Contains(playerBox(busted, false), "Busted")
}

func TestBoardLine(t *testing.T) {
	a := assert.New(t)

	players := []*player.Player{
		player.New("alice", player.KindHuman, 100),
		player.New("bob", player.KindAI, 100),
	}
	players[0].Bet = 5

	view := &gamestate.View{
		Pot:     20,
		Round:   gamestate.RoundFlop,
		Players: players,
	}

	line := boardLine(view)
	a.Contains(line, "--")
	a.Contains(line, "Pot: 25")
	a.Contains(line, "flop")

	view.Community = deck.CardsFromString("2c,7d,10h")
	line = boardLine(view)
	a.Contains(line, "2♣")
	a.NotContains(line, "--")
}

func TestDescribeResult(t *testing.T) {
	a := assert.New(t)

	alice := player.New("alice", player.KindHuman, 100)
	bob := player.New("bob", player.KindAI, 100)

	results := []gamestate.Result{
		{Player: alice, Rank: evaluator.Flush, Best: deck.CardsFromString("14s,12s,9s,5s,2s")},
	}

	desc := describeResult(results, alice)
	a.Contains(desc, "Flush")
	a.Contains(desc, "A♠")

	a.Equal("", describeResult(results, bob))
	a.Equal("", describeResult(nil, alice))
}
