package util

import (
	"fmt"
	"math/rand"
	"time"
)

var random = rand.New(rand.NewSource(time.Now().UnixNano())) // nolint:gosec

var adjectives = []string{
	"Lucky", "Bluffing", "Stony", "Slick", "Grinning", "Patient", "Reckless", "Steady", "Crafty", "Bold",
	"Quiet", "Sly", "Cold", "Loose", "Tight", "Wild", "Calm", "Sharp", "Grand", "Iron",
}

var animals = []string{
	"Shark", "Fox", "Owl", "Wolf", "Badger", "Viper", "Raven", "Tiger", "Mule", "Coyote",
	"Otter", "Hawk", "Bear", "Lynx", "Stoat", "Crane", "Moose", "Weasel", "Heron", "Boar",
}

// GetRandomName returns a random name by combining an adjective with an animal
func GetRandomName() string {
	adjectivesIndex := random.Intn(len(adjectives))
	animalsIndex := random.Intn(len(animals))

	return fmt.Sprintf("%s %s", adjectives[adjectivesIndex], animals[animalsIndex])
}
