package testutil

import (
	"sync"
	"time"
)

// ManualClock provides a thread-safe deterministic clock for tests.
//
// Each call to Now() returns the current instant and advances the clock
// by a fixed step. Code that measures a duration between two Now() calls
// therefore observes exactly one step, making latency values in test
// output reproducible.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type ManualClock struct {
	mu      sync.Mutex
	start   time.Time
	step    time.Duration
	current time.Time
}

// NewManualClock creates a clock starting at start, advancing by step
// on every Now() call.
func NewManualClock(start time.Time, step time.Duration) *ManualClock {
	return &ManualClock{start: start, step: step, current: start}
}

// Now returns the current instant and advances the clock by one step.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.current
	c.current = c.current.Add(c.step)
	return now
}

// Current returns the current instant without advancing.
func (c *ManualClock) Current() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Reset rewinds the clock to its start instant.
//
// Used for test reuse. After Reset(), the next call to Now() returns
// the start instant again.
func (c *ManualClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.start
}
