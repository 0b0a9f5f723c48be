package config

import (
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"justapoker/internal/util"
)

// Config provides configuration for the poker game
type Config struct {
	loaded        bool
	SmallBlind    int    `yaml:"smallBlind" envconfig:"small_blind"`
	BigBlind      int    `yaml:"bigBlind" envconfig:"big_blind"`
	StartingChips int    `yaml:"startingChips" envconfig:"starting_chips"`
	DataDir       string `yaml:"dataDir" envconfig:"data_dir"`
	Log           struct {
		Level string `yaml:"level" envconfig:"level"`
	} `yaml:"log"`
}

var config Config

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// A missing config file is not an error; defaults and environment
// variables still apply.
func Load() error {
	config = defaults()

	configFile := util.Getenv("POKER_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("poker", &config); err != nil {
		return err
	}

	config.loaded = true
	return nil
}

func defaults() Config {
	cfg := Config{
		SmallBlind:    1,
		BigBlind:      2,
		StartingChips: 1000,
	}

	if home, err := os.UserHomeDir(); err == nil {
		cfg.DataDir = filepath.Join(home, ".justapoker")
	}

	return cfg
}
