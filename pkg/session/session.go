// Package session runs a poker game from start to finish. It owns the
// table lifecycle, asks a Decider for each action, cleans the intent up
// against the table rules, and feeds the result to the betting engine.
package session

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"justapoker/pkg/poker/action"
	"justapoker/pkg/poker/gamestate"
	"justapoker/pkg/poker/player"
	"justapoker/pkg/storage"
)

// ErrNoDecider is returned when a seated player's kind has no decider
var ErrNoDecider = errors.New("session: no decider for player kind")

// Decider picks an action for a player when it is their turn. The returned
// intent is sanitized before it reaches the betting engine, so a decider
// may be sloppy about amounts and legality.
type Decider interface {
	Decide(view *gamestate.View, p *player.Player) (action.Action, int)
}

// Observer is notified as hands progress. Renderers implement this; a nil
// observer is replaced with a silent one.
type Observer interface {
	// HandStarted fires after blinds are posted and hole cards are dealt
	HandStarted(view *gamestate.View)

	// TurnStarted fires before p's decider is consulted
	TurnStarted(view *gamestate.View, p *player.Player)

	// ActionTaken fires after the betting engine accepts the action
	ActionTaken(view *gamestate.View, p *player.Player, act action.Action, amount int)

	// HandFinished fires once the pot is awarded. results is nil when the
	// hand ended on folds without a showdown.
	HandFinished(view *gamestate.View, results []gamestate.Result, winners []*player.Player, awards []int)

	// GameFinished fires when a single player holds all the chips
	GameFinished(winner *player.Player)

	// KeepPlaying asks whether to deal another hand
	KeepPlaying() bool
}

// Options configures a session
type Options struct {
	SmallBlind int
	BigBlind   int

	// Store, when set, persists players and history after every hand
	Store *storage.Store

	Observer Observer
}

// Session orchestrates hands at a single table
type Session struct {
	logger   logrus.FieldLogger
	game     *gamestate.GameState
	players  []*player.Player
	deciders map[player.Kind]Decider
	observer Observer
	store    *storage.Store
}

// New creates a session for the players. Every seated player's kind must
// have a decider.
func New(logger logrus.FieldLogger, players []*player.Player, deciders map[player.Kind]Decider, opts Options) (*Session, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	for _, p := range players {
		if _, ok := deciders[p.Kind]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoDecider, p.Kind)
		}
	}

	if opts.SmallBlind <= 0 {
		opts.SmallBlind = 1
	}

	if opts.BigBlind <= 0 {
		opts.BigBlind = opts.SmallBlind * 2
	}

	game, err := gamestate.New(logger, players, opts.SmallBlind, opts.BigBlind)
	if err != nil {
		return nil, err
	}

	observer := opts.Observer
	if observer == nil {
		observer = nopObserver{}
	}

	return &Session{
		logger:   logger,
		game:     game,
		players:  players,
		deciders: deciders,
		observer: observer,
		store:    opts.Store,
	}, nil
}

// Run deals hands until one player holds all the chips or the observer
// declines to continue
func (s *Session) Run() error {
	for {
		funded := s.fundedPlayers()
		if len(funded) == 1 {
			s.observer.GameFinished(funded[0])
			return nil
		}

		if err := s.PlayHand(); err != nil {
			return err
		}

		s.persist()

		if !s.observer.KeepPlaying() {
			return nil
		}
	}
}

// PlayHand plays a single hand through to the pot award
func (s *Session) PlayHand() error {
	if err := s.game.StartHand(); err != nil {
		return err
	}

	s.observer.HandStarted(s.game.View())

	for {
		p := s.game.CurrentPlayer()
		view := s.game.View()
		s.observer.TurnStarted(view, p)

		act, amount := s.deciders[p.Kind].Decide(view, p)
		act, amount = s.sanitize(view, p, act, amount)

		complete, err := s.game.PlayerAction(act, amount)
		if err != nil {
			// the rules rejected a cleaned-up intent; folding keeps the
			// hand moving
			s.logger.WithError(err).WithFields(logrus.Fields{
				"player": p.Name,
				"action": act,
			}).Warn("action rejected, folding")

			act, amount = action.Fold, 0
			if complete, err = s.game.PlayerAction(act, amount); err != nil {
				return err
			}
		}

		s.observer.ActionTaken(s.game.View(), p, act, amount)

		if !complete {
			continue
		}

		if active := s.game.ActivePlayers(); len(active) == 1 {
			return s.finishFolded(active[0])
		}

		done, err := s.game.NextBettingRound()
		if err != nil {
			return err
		}

		if done {
			return s.finishShowdown()
		}
	}
}

// finishFolded ends a hand that everyone but one player folded out of
func (s *Session) finishFolded(winner *player.Player) error {
	s.game.CollectBets()
	awards := s.game.AwardPot([]*player.Player{winner})
	s.updateStats([]*player.Player{winner}, awards)

	s.observer.HandFinished(s.game.View(), nil, []*player.Player{winner}, awards)
	return nil
}

// finishShowdown evaluates the remaining hands and splits the pot between
// every player holding the strongest category
func (s *Session) finishShowdown() error {
	results, err := s.game.Showdown()
	if err != nil {
		return err
	}

	winners := make([]*player.Player, 0, len(results))
	for _, r := range results {
		if r.Rank != results[0].Rank {
			break
		}

		winners = append(winners, r.Player)
	}

	awards := s.game.AwardPot(winners)
	s.updateStats(winners, awards)

	s.observer.HandFinished(s.game.View(), results, winners, awards)
	return nil
}

// updateStats credits the hand to everyone who was dealt in
func (s *Session) updateStats(winners []*player.Player, awards []int) {
	for _, p := range s.players {
		if len(p.Hole) == 0 {
			continue
		}

		won := false
		award := 0
		for i, w := range winners {
			if w == p {
				won = true
				award = awards[i]
				break
			}
		}

		p.UpdateStats(won, award)
	}
}

// sanitize converts an intent into an action the betting engine will
// accept: illegal checks become folds, bets with an open bet become
// raises and vice versa, and amounts are floored and capped
func (s *Session) sanitize(view *gamestate.View, p *player.Player, act action.Action, amount int) (action.Action, int) {
	if p.Chips == 0 {
		return action.AllIn, 0
	}

	switch act {
	case action.Fold:
		return action.Fold, 0
	case action.Check:
		if view.CurrentBet > p.Bet {
			s.logger.WithField("player", p.Name).Warn("invalid check, converting to fold")
			return action.Fold, 0
		}

		return action.Check, 0
	case action.Call:
		return action.Call, 0
	case action.Bet:
		if view.CurrentBet > 0 {
			s.logger.WithField("player", p.Name).Warn("invalid bet, converting to raise")
			return action.Raise, s.clampRaise(view, p, amount)
		}

		return action.Bet, clamp(amount, view.BigBlind, p.Chips)
	case action.Raise:
		if view.CurrentBet == 0 {
			s.logger.WithField("player", p.Name).Warn("invalid raise, converting to bet")
			return action.Bet, clamp(amount, view.BigBlind, p.Chips)
		}

		return action.Raise, s.clampRaise(view, p, amount)
	case action.AllIn:
		return action.AllIn, 0
	}

	s.logger.WithFields(logrus.Fields{
		"player": p.Name,
		"action": act,
	}).Warn("unknown action, converting to fold")

	return action.Fold, 0
}

func (s *Session) clampRaise(view *gamestate.View, p *player.Player, amount int) int {
	return clamp(amount, view.CurrentBet+view.MinRaise, p.Stake())
}

func clamp(amount, low, high int) int {
	return min(max(amount, low), high)
}

// persist saves the roster and a history entry; failures are logged but
// do not stop the game
func (s *Session) persist() {
	if s.store == nil {
		return
	}

	if err := s.store.SavePlayers(s.players); err != nil {
		s.logger.WithError(err).Warn("could not save players")
	}

	chips := make(map[string]int, len(s.players))
	for _, p := range s.players {
		chips[p.Name] = p.Chips
	}

	if err := s.store.AppendHistory(storage.HistoryEntry{Chips: chips}); err != nil {
		s.logger.WithError(err).Warn("could not save history")
	}
}

func (s *Session) fundedPlayers() []*player.Player {
	funded := make([]*player.Player, 0, len(s.players))
	for _, p := range s.players {
		if p.Chips > 0 {
			funded = append(funded, p)
		}
	}

	return funded
}

type nopObserver struct{}

func (nopObserver) HandStarted(*gamestate.View)                       {}
func (nopObserver) TurnStarted(*gamestate.View, *player.Player)       {}
func (nopObserver) ActionTaken(*gamestate.View, *player.Player, action.Action, int) {
}
func (nopObserver) HandFinished(*gamestate.View, []gamestate.Result, []*player.Player, []int) {
}
func (nopObserver) GameFinished(*player.Player) {}
func (nopObserver) KeepPlaying() bool           { return true }
