package rng

import (
	"crypto/rand"
	"math/big"
)

const float64Precision = 1 << 53

// Crypto wraps the crypto/rand library
type Crypto struct{}

// Intn returns a random number from 0 < n
func (c Crypto) Intn(n int) int {
	b, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}

	return int(b.Int64())
}

// Float64 returns a random number in [0.0, 1.0)
func (c Crypto) Float64() float64 {
	b, err := rand.Int(rand.Reader, big.NewInt(float64Precision))
	if err != nil {
		panic(err)
	}

	return float64(b.Int64()) / float64(float64Precision)
}
