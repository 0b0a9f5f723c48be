package main

import (
	"flag"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"justapoker/internal/config"
	"justapoker/internal/rng"
	"justapoker/pkg/poker/ai"
	"justapoker/pkg/poker/player"
	"justapoker/pkg/session"
	"justapoker/pkg/storage"
	"justapoker/pkg/ui"
)

// Version is the game version
var Version = "v0.0.0-dev"

var statsOnly = flag.Bool("stats", false, "show player statistics and exit")

func main() {
	flag.Parse()
	setupLogger()

	logger := logrus.StandardLogger()
	logger.WithField("version", Version).Debug("starting")

	cfg := config.Instance()

	store, err := storage.New(logger, cfg.DataDir)
	if err != nil {
		logrus.WithError(err).Fatal("could not open storage")
	}

	term := ui.New(logger)
	term.Banner()

	existing, err := store.LoadPlayers()
	if err != nil {
		logrus.WithError(err).Fatal("could not load players")
	}

	if *statsOnly {
		term.ShowStats(existing)
		return
	}

	players := term.SetupPlayers(existing, cfg.StartingChips)

	deciders := map[player.Kind]session.Decider{
		player.KindHuman: term,
		player.KindAI:    ai.New(logger, rng.Crypto{}),
	}

	s, err := session.New(logger, players, deciders, session.Options{
		SmallBlind: cfg.SmallBlind,
		BigBlind:   cfg.BigBlind,
		Store:      store,
		Observer:   term,
	})
	if err != nil {
		logrus.WithError(err).Fatal("could not start the game")
	}

	if err := s.Run(); err != nil {
		logrus.WithError(err).Fatal("game ended unexpectedly")
	}

	term.ShowStats(players)
}

func setupLogger() {
	if lvl := config.Instance().Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
