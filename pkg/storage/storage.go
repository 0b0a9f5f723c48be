// Package storage persists players and game history as JSON files in a
// local data directory.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"justapoker/pkg/poker/player"
)

const (
	playersFile = "players.json"
	historyFile = "history.json"
)

// Store reads and writes game data under a single directory
type Store struct {
	logger logrus.FieldLogger
	dir    string
}

// HistoryEntry records the table's chip counts after a hand
type HistoryEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Chips     map[string]int `json:"chips"`
}

type playersDocument struct {
	Players []*player.Player `json:"players"`
}

type historyDocument struct {
	History []HistoryEntry `json:"history"`
}

// New returns a store rooted at dir, creating the directory if needed
func New(logger logrus.FieldLogger, dir string) (*Store, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create data directory: %w", err)
	}

	return &Store{
		logger: logger,
		dir:    dir,
	}, nil
}

// SavePlayers writes the player roster
func (s *Store) SavePlayers(players []*player.Player) error {
	if err := s.writeFile(playersFile, playersDocument{Players: players}); err != nil {
		return err
	}

	s.logger.WithField("count", len(players)).Info("saved players")
	return nil
}

// LoadPlayers reads the player roster. A missing file is not an error; it
// returns an empty roster.
func (s *Store) LoadPlayers() ([]*player.Player, error) {
	var doc playersDocument
	found, err := s.readFile(playersFile, &doc)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, nil
	}

	s.logger.WithField("count", len(doc.Players)).Info("loaded players")
	return doc.Players, nil
}

// AppendHistory adds an entry to the game history
func (s *Store) AppendHistory(entry HistoryEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	var doc historyDocument
	if _, err := s.readFile(historyFile, &doc); err != nil {
		return err
	}

	doc.History = append(doc.History, entry)
	return s.writeFile(historyFile, doc)
}

// History returns up to limit entries, newest first. A limit of zero or
// less returns everything.
func (s *Store) History(limit int) ([]HistoryEntry, error) {
	var doc historyDocument
	if _, err := s.readFile(historyFile, &doc); err != nil {
		return nil, err
	}

	entries := doc.History
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	return entries, nil
}

// writeFile marshals v and atomically replaces the named file
func (s *Store) writeFile(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*")
	if err != nil {
		return fmt.Errorf("could not create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("could not write %s: %w", name, err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("could not close %s: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("could not replace %s: %w", name, err)
	}

	return nil
}

// readFile unmarshals the named file into v, reporting whether it existed
func (s *Store) readFile(name string, v interface{}) (bool, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, fmt.Errorf("could not read %s: %w", name, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("could not parse %s: %w", name, err)
	}

	return true, nil
}
