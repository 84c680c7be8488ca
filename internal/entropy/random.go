// Package entropy provides the randomness behind force-probability draws and
// provider picks. Sources are cheap to create and safe for concurrent use;
// simulations that need reproducible runs seed them explicitly.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"log/slog"
	mathrand "math/rand"
	"sync"
	"time"
)

// Source yields uniform random values. The zero value is not usable; build
// one with NewSource or NewSeeded.
type Source struct {
	mu  sync.Mutex
	rng *mathrand.Rand
}

// NewSource creates a source seeded from the OS entropy pool, falling back
// to the wall clock if that fails.
func NewSource() *Source {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		slog.Warn("crypto seed unavailable, seeding from clock", "error", err)
		return NewSeeded(time.Now().UnixNano())
	}
	return NewSeeded(int64(binary.LittleEndian.Uint64(buf[:])))
}

// NewSeeded creates a deterministic source for reproducible runs.
func NewSeeded(seed int64) *Source {
	return &Source{rng: mathrand.New(mathrand.NewSource(seed))}
}

// Float64 returns a uniform value in [0, 1).
func (s *Source) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// Intn returns a uniform value in [0, n). Panics if n <= 0, matching
// math/rand.
func (s *Source) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}
