// Package generator builds falling-piece sequences.
package generator

import (
	"math/rand"
	"time"
)

// Generator deals piece kinds from shuffled bags so every kind appears once
// per bag.
type Generator struct {
	rnd   *rand.Rand
	kinds int
	bag   []int
}

// New returns a Generator over kinds piece kinds seeded with the current time.
func New(kinds int) *Generator {
	return NewSeeded(kinds, time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(kinds int, seed int64) *Generator {
	if kinds < 1 {
		kinds = 1
	}
	return &Generator{rnd: rand.New(rand.NewSource(seed)), kinds: kinds}
}

// Next returns the next piece kind in [0, kinds).
func (g *Generator) Next() int {
	if len(g.bag) == 0 {
		g.refill()
	}
	k := g.bag[0]
	g.bag = g.bag[1:]
	return k
}

// Reset discards the rest of the current bag.
func (g *Generator) Reset() {
	g.bag = g.bag[:0]
}

func (g *Generator) refill() {
	g.bag = g.rnd.Perm(g.kinds)
}
