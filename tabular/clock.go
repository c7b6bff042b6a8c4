package tabular

import (
	"sync"
	"time"
)

// =============================================================================
// CLOCK - Injected time source
// =============================================================================

// Clock abstracts "now" so status derivation (pending vs overdue) and
// cache staleness can be tested against arbitrary dates.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock returns a programmable instant for tests.
type FixedClock struct {
	mu      sync.Mutex
	current time.Time
}

func NewFixedClock(at time.Time) *FixedClock {
	return &FixedClock{current: at}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

func (c *FixedClock) Set(at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = at
}
