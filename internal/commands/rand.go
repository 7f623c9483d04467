package commands

import (
	"math/rand/v2"
	"sync"
	"time"
)

// lockedSource serializes access to a rand.Source so one *rand.Rand can be
// shared by concurrently running handlers.
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

// NewRand returns a concurrency-safe generator seeded with seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(&lockedSource{src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)})
}

// NewTimeSeededRand seeds from the current time.
func NewTimeSeededRand() *rand.Rand {
	return NewRand(uint64(time.Now().UnixNano()))
}
