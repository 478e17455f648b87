package httpclient

import (
	"sync"
	"time"
)

type breakerState int

const (
	stateClosed breakerState = iota
	stateOpen
	stateHalfOpen
)

// breaker tracks consecutive transient failures across calls. At threshold
// it opens and short-circuits everything for the cooldown, then half-opens
// and lets a single trial call through.
type breaker struct {
	mu        sync.Mutex
	threshold int
	cooldown  time.Duration

	state    breakerState
	failures int
	openedAt time.Time
}

func newBreaker(threshold int, cooldown time.Duration) *breaker {
	return &breaker{
		threshold: threshold,
		cooldown:  cooldown,
		state:     stateClosed,
	}
}

// allow reports whether a call may proceed. The transition from open to
// half-open happens here, so exactly one caller gets the trial slot.
func (b *breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case stateOpen:
		if time.Since(b.openedAt) >= b.cooldown {
			b.state = stateHalfOpen
			return true
		}
		return false
	case stateHalfOpen:
		// Trial call already in flight.
		return false
	default:
		return true
	}
}

func (b *breaker) success() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state = stateClosed
	b.failures = 0
}

func (b *breaker) failure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == stateHalfOpen {
		b.state = stateOpen
		b.openedAt = time.Now()
		return
	}

	b.failures++
	if b.failures >= b.threshold {
		b.state = stateOpen
		b.openedAt = time.Now()
	}
}
