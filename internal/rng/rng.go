// Package rng produces uniform random integers from the operating
// system's cryptographically secure source. There is no seeding API;
// an unusable source is unrecoverable and panics.
package rng

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// UniformInt returns a uniform random integer in the half-open range
// [lo, hi). Panics if hi <= lo or if the OS source fails.
func UniformInt(lo, hi int) int {
	if hi <= lo {
		panic(fmt.Sprintf("rng: empty range [%d, %d)", lo, hi))
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(hi-lo)))
	if err != nil {
		panic(fmt.Sprintf("rng: os source unavailable: %v", err))
	}
	return int(n.Int64()) + lo
}

// Shuffle permutes n elements with a Fisher-Yates walk over UniformInt.
func Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := UniformInt(0, i+1)
		swap(i, j)
	}
}

// Die rolls one six-sided die.
func Die() int { return UniformInt(1, 7) }

// Dice rolls a pair of dice.
func Dice() (int, int) { return Die(), Die() }
