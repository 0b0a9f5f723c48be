// Package ui renders the table in the terminal and collects actions from
// the human player. It implements both the session's Decider and Observer
// so one Terminal drives the whole interactive game.
package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"

	"justapoker/internal/util"
	"justapoker/pkg/deck"
	"justapoker/pkg/poker/action"
	"justapoker/pkg/poker/gamestate"
	"justapoker/pkg/poker/player"
)

// Terminal is a pterm-based table renderer and input collector
type Terminal struct {
	logger logrus.FieldLogger

	// revealAll shows every live hand, set during the showdown
	revealAll bool
}

// New returns a Terminal. A nil logger falls back to the standard logger.
func New(logger logrus.FieldLogger) *Terminal {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Terminal{logger: logger}
}

// Banner prints the title screen
func (t *Terminal) Banner() {
	pterm.DefaultHeader.WithFullWidth().Println("Just A Poker Game")
	pterm.Println()
}

// SetupPlayers builds the roster interactively. Saved players can be
// reused; new human and AI seats are added until the table is full enough.
func (t *Terminal) SetupPlayers(existing []*player.Player, startingChips int) []*player.Player {
	players := make([]*player.Player, 0, len(existing))

	if len(existing) > 0 {
		names := make([]string, len(existing))
		for i, p := range existing {
			names[i] = fmt.Sprintf("%s (%d chips)", p.Name, p.Chips)
		}

		selected, _ := pterm.DefaultInteractiveMultiselect.
			WithDefaultText("Select returning players").
			WithOptions(names).
			Show()

		for _, pick := range selected {
			for i, label := range names {
				if label == pick {
					players = append(players, existing[i])
					break
				}
			}
		}
	}

	if !t.hasHuman(players) {
		name, _ := pterm.DefaultInteractiveTextInput.
			WithDefaultText("Enter your name").
			Show()
		if strings.TrimSpace(name) == "" {
			name = "Player"
		}

		players = append(players, player.New(strings.TrimSpace(name), player.KindHuman, startingChips))
	}

	for len(players) < 2 || t.confirm("Add another AI opponent?") {
		bot := player.New(util.GetRandomName(), player.KindAI, startingChips)
		bot.Aggression = 0.3 + float64(len(players))*0.1
		bot.BluffFactor = 0.2

		pterm.Info.Printfln("%s joins the table", bot.Name)
		players = append(players, bot)

		if len(players) >= 8 {
			break
		}
	}

	return players
}

func (t *Terminal) hasHuman(players []*player.Player) bool {
	for _, p := range players {
		if p.Kind == player.KindHuman {
			return true
		}
	}

	return false
}

// Decide prompts the human for an action
func (t *Terminal) Decide(view *gamestate.View, p *player.Player) (action.Action, int) {
	options := actionOptions(view, p)

	choice, _ := pterm.DefaultInteractiveSelect.
		WithDefaultText(fmt.Sprintf("%s, select your action", p.Name)).
		WithOptions(options).
		Show()

	fields := strings.Fields(choice)
	if len(fields) == 0 {
		return action.Fold, 0
	}

	// the call option carries an amount annotation, drop it before parsing
	act, err := action.FromString(strings.ToLower(fields[0]))
	if err != nil {
		t.logger.WithError(err).Warn("unrecognized selection")
		return action.Fold, 0
	}

	amount := 0
	if act == action.Bet || act == action.Raise {
		prompt := fmt.Sprintf("Enter amount (min %d)", minAmount(view, act))
		input, _ := pterm.DefaultInteractiveTextInput.
			WithDefaultText(prompt).
			Show()

		amount, err = strconv.Atoi(strings.TrimSpace(input))
		if err != nil {
			// the session floors it to the legal minimum
			amount = 0
		}
	}

	return act, amount
}

// HandStarted renders the fresh table
func (t *Terminal) HandStarted(view *gamestate.View) {
	t.revealAll = false
	pterm.Println()
	pterm.DefaultSection.Printfln("New hand, %s deals", view.Players[view.DealerPosition].Name)
}

// TurnStarted renders the table before the player acts
func (t *Terminal) TurnStarted(view *gamestate.View, p *player.Player) {
	if p.Kind != player.KindHuman {
		return
	}

	t.render(view, p)
}

// ActionTaken announces the action just applied. Call and all-in amounts
// are computed by the betting engine, so only the verb is shown for those.
func (t *Terminal) ActionTaken(_ *gamestate.View, p *player.Player, act action.Action, amount int) {
	msg := act.LogMessage(amount)
	switch act {
	case action.Call:
		msg = "called"
	case action.AllIn:
		msg = "went all-in"
	}

	pterm.Info.Println(p.Name + " " + msg)
}

// HandFinished shows the showdown and who took the pot
func (t *Terminal) HandFinished(view *gamestate.View, results []gamestate.Result, winners []*player.Player, awards []int) {
	t.revealAll = results != nil
	t.render(view, nil)

	lines := make([]string, 0, len(winners))
	for i, w := range winners {
		line := fmt.Sprintf("%s wins %d", pterm.LightCyan(w.Name), awards[i])
		if desc := describeResult(results, w); desc != "" {
			line += " with " + desc
		}

		lines = append(lines, line)
	}

	box := pterm.DefaultBox.WithLeftPadding(4).WithRightPadding(4).WithTopPadding(1).WithBottomPadding(1)
	pterm.Println(box.
		WithTitle(pterm.LightGreen("|POT|")).
		WithTitleTopCenter().
		Sprint(strings.Join(lines, "\n")))
}

// GameFinished announces the last player standing
func (t *Terminal) GameFinished(winner *player.Player) {
	pterm.Success.Printfln("%s wins the game with %d chips!", winner.Name, winner.Chips)
}

// KeepPlaying asks whether to deal another hand
func (t *Terminal) KeepPlaying() bool {
	return t.confirm("Deal another hand?")
}

// ShowStats prints the lifetime table for the roster
func (t *Terminal) ShowStats(players []*player.Player) {
	rows := pterm.TableData{{"Player", "Chips", "Hands", "Won", "Win %", "Biggest Pot"}}
	for _, p := range players {
		winRate := "-"
		if p.HandsPlayed > 0 {
			winRate = fmt.Sprintf("%.1f%%", float64(p.HandsWon)/float64(p.HandsPlayed)*100)
		}

		rows = append(rows, []string{
			p.Name,
			strconv.Itoa(p.Chips),
			strconv.Itoa(p.HandsPlayed),
			strconv.Itoa(p.HandsWon),
			winRate,
			strconv.Itoa(p.BiggestPotWon),
		})
	}

	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func (t *Terminal) confirm(text string) bool {
	ok, _ := pterm.DefaultInteractiveConfirm.WithDefaultText(text).Show()
	return ok
}

// render draws every seat, the board, and the pot. Hole cards stay hidden
// except for the acting human and at the showdown.
func (t *Terminal) render(view *gamestate.View, current *player.Player) {
	seats := make([]pterm.Panel, 0, len(view.Players))
	for _, p := range view.Players {
		reveal := p == current || (t.revealAll && !p.Folded)
		seats = append(seats, pterm.Panel{Data: playerBox(p, reveal)})
	}

	board := pterm.Panel{Data: boardLine(view)}

	_ = pterm.DefaultPanel.WithPanels([][]pterm.Panel{
		seats,
		{board},
	}).Render()
}

// playerBox formats one seat
func playerBox(p *player.Player, reveal bool) string {
	box := pterm.DefaultBox.WithLeftPadding(2).WithRightPadding(2).WithTopPadding(1).WithBottomPadding(1)

	status := pterm.LightGreen("Active")
	switch {
	case p.Chips == 0 && len(p.Hole) == 0:
		return box.WithTitle(p.Name).WithTitleTopLeft().Sprint(pterm.Cyan("Busted"))
	case p.Folded:
		status = pterm.LightRed("Folded")
	}

	cards := "? ?"
	if reveal {
		cards = prettyCards(p.Hole)
	}

	return box.WithTitle(p.Name).WithTitleTopLeft().
		Sprintf("%s\nBet: %d\nChips: %d\n%s", status, p.Bet, p.Chips, cards)
}

// boardLine formats the community cards, pot, and street
func boardLine(view *gamestate.View) string {
	board := "--"
	if len(view.Community) > 0 {
		board = prettyCards(view.Community)
	}

	return pterm.BgGreen.Sprintf("\n %s | Pot: %d | %s \n", board, view.TotalOnTable(), view.Round)
}

// prettyCards joins cards with their suit symbols for display
func prettyCards(cards deck.Hand) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}

	return strings.Join(parts, " ")
}

// describeResult names the winning hand when a showdown happened
func describeResult(results []gamestate.Result, p *player.Player) string {
	for _, r := range results {
		if r.Player == p {
			return fmt.Sprintf("%s (%s)", r.Rank, prettyCards(r.Best))
		}
	}

	return ""
}

// actionOptions lists the actions worth offering given the table state
func actionOptions(view *gamestate.View, p *player.Player) []string {
	toCall := view.CurrentBet - p.Bet

	if toCall <= 0 {
		return []string{
			action.Check.String(),
			action.Bet.String(),
			action.AllIn.String(),
			action.Fold.String(),
		}
	}

	options := []string{
		fmt.Sprintf("%s (%d)", action.Call, min(toCall, p.Chips)),
		action.Raise.String(),
		action.AllIn.String(),
		action.Fold.String(),
	}

	return options
}

// minAmount is the smallest legal total for a bet or raise
func minAmount(view *gamestate.View, act action.Action) int {
	if act == action.Raise {
		return view.CurrentBet + view.MinRaise
	}

	return view.BigBlind
}
