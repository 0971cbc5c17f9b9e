package ident

import (
	"math/rand"
	"strconv"
	"sync"
	"time"
)

// Generator produces prefixed opaque identifiers such as
// "tx_k2j9fz01x8p3". Uniqueness is probabilistic, not enforced;
// collisions are accepted as practically improbable.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a generator backed by the given source. Pass a fixed-seed
// source to make ids deterministic in tests.
func New(src rand.Source) *Generator {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Generator{rng: rand.New(src)}
}

func (g *Generator) New(prefix string) string {
	g.mu.Lock()
	token := strconv.FormatUint(g.rng.Uint64(), 36)
	g.mu.Unlock()
	return prefix + "_" + token
}
