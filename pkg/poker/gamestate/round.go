package gamestate

import "encoding/json"

// BettingRound represents a street of betting
type BettingRound int

// constants for BettingRound
const (
	RoundPreFlop BettingRound = iota
	RoundFlop
	RoundTurn
	RoundRiver
	RoundShowdown
)

func (r BettingRound) String() string {
	switch r {
	case RoundPreFlop:
		return "pre-flop"
	case RoundFlop:
		return "flop"
	case RoundTurn:
		return "turn"
	case RoundRiver:
		return "river"
	case RoundShowdown:
		return "showdown"
	}

	return ""
}

// MarshalJSON encodes JSON
func (r BettingRound) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}{
		ID:   int(r),
		Name: r.String(),
	})
}
