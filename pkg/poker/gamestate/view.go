package gamestate

import (
	"justapoker/pkg/deck"
	"justapoker/pkg/poker/player"
)

// View is a read-only snapshot of the table for rendering collaborators
// and decision policies. Mutating it has no effect on the game.
type View struct {
	Pot             int
	CurrentBet      int
	MinRaise        int
	SmallBlind      int
	BigBlind        int
	Community       deck.Hand
	Round           BettingRound
	DealerPosition  int
	CurrentPosition int
	Players         []*player.Player
	Active          []*player.Player
}

// View returns a snapshot of the current state
func (g *GameState) View() *View {
	players := make([]*player.Player, len(g.players))
	copy(players, g.players)

	return &View{
		Pot:             g.pot,
		CurrentBet:      g.currentBet,
		MinRaise:        g.minRaise,
		SmallBlind:      g.smallBlind,
		BigBlind:        g.bigBlind,
		Community:       g.community.Clone(),
		Round:           g.round,
		DealerPosition:  g.dealerPosition,
		CurrentPosition: g.currentPosition,
		Players:         players,
		Active:          g.ActivePlayers(),
	}
}

// TotalOnTable is the pot plus every outstanding bet; useful for sizing
// decisions before the street's bets are swept
func (v *View) TotalOnTable() int {
	total := v.Pot
	for _, p := range v.Players {
		total += p.Bet
	}

	return total
}
