package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHand_AddCard(t *testing.T) {
	a := assert.New(t)

	hand := make(Hand, 0)
	hand.AddCard(CardFromString("2c"))
	hand.AddCard(CardFromString("14h"))

	a.Equal("2c,14h", hand.String())
	a.True(hand.HasCard(CardFromString("14h")))
	a.False(hand.HasCard(CardFromString("14s")))
}

func TestHand_FirstAndLastCard(t *testing.T) {
	a := assert.New(t)

	hand := Hand(CardsFromString("2c,3c,4c"))
	a.Equal("2c", CardToString(hand.FirstCard()))
	a.Equal("4c", CardToString(hand.LastCard()))

	empty := Hand{}
	a.Nil(empty.FirstCard())
	a.Nil(empty.LastCard())
}

func TestHand_Clone(t *testing.T) {
	a := assert.New(t)

	hand := Hand(CardsFromString("2c,3c"))
	clone := hand.Clone()
	clone[0] = CardFromString("14s")

	a.Equal("2c,3c", hand.String())
	a.Equal("14s,3c", clone.String())
}
