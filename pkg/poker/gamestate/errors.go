package gamestate

import "errors"

// ErrInvalidPlayerCount is returned when a game is constructed or a hand is
// started with fewer than two players
var ErrInvalidPlayerCount = errors.New("at least two players are required")

// ErrIllegalAction is returned when an action is not legal in the current
// betting state. Callers can match it with errors.Is.
var ErrIllegalAction = errors.New("illegal action")

// ErrNotInHand is returned when a showdown is requested before any cards
// have been dealt
var ErrNotInHand = errors.New("no hand is in progress")
