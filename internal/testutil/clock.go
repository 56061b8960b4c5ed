package testutil

import (
	"sync"
	"time"
)

// FixedTime is the instant FixedClock starts at.
var FixedTime = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

// StubClock is a seo.Clock that only moves when told to. Safe for concurrent use.
type StubClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewStubClock(t time.Time) *StubClock {
	return &StubClock{now: t}
}

// FixedClock returns a StubClock set to FixedTime.
func FixedClock() *StubClock {
	return NewStubClock(FixedTime)
}

func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *StubClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set moves the clock to t.
func (c *StubClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
