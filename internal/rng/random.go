// Package rng provides the random sources used by the park simulation.
// A seed of zero draws its seed from crypto/rand.
package rng

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"
	"sync"
)

// Source is the subset of math/rand the simulation draws from.
type Source interface {
	Intn(n int) int
	Float64() float64
}

// Locked is a math/rand generator safe for use from several goroutines.
type Locked struct {
	mu  sync.Mutex
	rnd *mrand.Rand
}

// New returns a seeded source. Seed 0 picks a random seed.
func New(seed int64) *Locked {
	if seed == 0 {
		seed = CryptoSeed()
	}
	return &Locked{rnd: mrand.New(mrand.NewSource(seed))}
}

func (l *Locked) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rnd.Intn(n)
}

func (l *Locked) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rnd.Float64()
}

// CryptoSeed returns a non-zero seed read from crypto/rand.
func CryptoSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 1
	}
	seed := int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
	if seed == 0 {
		seed = 1
	}
	return seed
}

// Sequence replays fixed values. It is used to force outcomes in tests and
// falls back to zero once exhausted.
type Sequence struct {
	Ints   []int
	Floats []float64
	i, f   int
}

// NewSequence returns a Sequence that yields ints in order.
func NewSequence(ints ...int) *Sequence {
	return &Sequence{Ints: ints}
}

func (s *Sequence) Intn(n int) int {
	if s.i >= len(s.Ints) {
		return 0
	}
	v := s.Ints[s.i]
	s.i++
	if v >= n {
		v = n - 1
	}
	return v
}

func (s *Sequence) Float64() float64 {
	if s.f >= len(s.Floats) {
		return 0
	}
	v := s.Floats[s.f]
	s.f++
	return v
}
