package domain

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// NumberGenerator produces contract numbers of the form CT-YYYYMMDD-XXXX.
// The random suffix is not a uniqueness guarantee; the unique index on the
// contracts table is. The generator is seedable so tests can pin the output.
type NumberGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewNumberGenerator builds a generator with a fixed seed.
func NewNumberGenerator(seed int64) *NumberGenerator {
	return &NumberGenerator{rnd: rand.New(rand.NewSource(seed))}
}

// NewRandomNumberGenerator builds a generator seeded from the clock.
func NewRandomNumberGenerator() *NumberGenerator {
	return NewNumberGenerator(time.Now().UnixNano())
}

// Generate returns the next contract number for the given issuance date.
func (g *NumberGenerator) Generate(date time.Time) string {
	g.mu.Lock()
	suffix := 1000 + g.rnd.Intn(9000)
	g.mu.Unlock()

	return fmt.Sprintf("CT-%s-%04d", date.UTC().Format("20060102"), suffix)
}
