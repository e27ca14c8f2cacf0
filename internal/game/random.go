package game

import (
	"math/rand/v2"
	"sync"
	"time"
)

// lockedSource lets every room share one process-wide generator.
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

var sharedRand = rand.New(&lockedSource{src: rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())})

// NewSeededRand returns a generator for deterministic tests.
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
