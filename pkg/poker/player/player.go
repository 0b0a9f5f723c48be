// Package player defines the player entity consumed by the betting state
// machine. A player's decision-making lives behind a capability interface at
// the session layer; this package only carries identity, chips, and per-hand
// state.
package player

import (
	"github.com/google/uuid"

	"justapoker/pkg/deck"
)

// Kind discriminates player implementations for persistence
type Kind string

// kind constants
const (
	KindHuman Kind = "human"
	KindAI    Kind = "ai"
)

// Player is a seat at the table
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind Kind   `json:"kind"`

	// Chips and Bet partition the player's stake: any wager moves the
	// same amount from Chips to Bet.
	Chips  int       `json:"chips"`
	Bet    int       `json:"-"`
	Folded bool      `json:"-"`
	Hole   deck.Hand `json:"-"`

	HandsPlayed   int `json:"handsPlayed"`
	HandsWon      int `json:"handsWon"`
	BiggestPotWon int `json:"biggestPotWon"`

	// AI tuning, persisted so an opponent keeps its personality across sessions
	Aggression  float64 `json:"aggression,omitempty"`
	BluffFactor float64 `json:"bluffFactor,omitempty"`
}

// New returns a new player with a generated ID
func New(name string, kind Kind, chips int) *Player {
	return &Player{
		ID:    uuid.New().String(),
		Name:  name,
		Kind:  kind,
		Chips: chips,
		Hole:  make(deck.Hand, 0, 2),
	}
}

// NewHand resets the player's per-hand state
func (p *Player) NewHand() {
	p.Folded = false
	p.Hole = make(deck.Hand, 0, 2)
	p.Bet = 0
}

// Wager moves up to amount from the player's chips into their bet and
// returns the amount actually moved
func (p *Player) Wager(amount int) int {
	if amount > p.Chips {
		amount = p.Chips
	}

	p.Chips -= amount
	p.Bet += amount

	return amount
}

// Stake is the player's total commitment this street plus remaining chips
func (p *Player) Stake() int {
	return p.Chips + p.Bet
}

// UpdateStats records the outcome of a hand
func (p *Player) UpdateStats(won bool, potSize int) {
	p.HandsPlayed++

	if won {
		p.HandsWon++
		if potSize > p.BiggestPotWon {
			p.BiggestPotWon = potSize
		}
	}
}
