package recommend

import (
	mathrand "math/rand"
	"sync/atomic"
	"time"
)

// Rand is the random-source seam for every randomized decision in this
// package. Production wiring draws a fresh source per request; tests inject a
// seeded one to force determinism.
type Rand interface {
	Float64() float64
	Intn(n int) int
	Int63() int64
	Shuffle(n int, swap func(i, j int))
}

// Factory produces one Rand per recommendation request.
type Factory func() Rand

var seedCounter int64

// NewRand returns an entropy-seeded source. The counter keeps two requests in
// the same nanosecond from sharing a seed.
func NewRand() Rand {
	seed := time.Now().UnixNano() + atomic.AddInt64(&seedCounter, 1)
	return mathrand.New(mathrand.NewSource(seed))
}

// NewSeededRand is the deterministic variant used by tests.
func NewSeededRand(seed int64) Rand {
	return mathrand.New(mathrand.NewSource(seed))
}
