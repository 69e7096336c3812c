package generator

import "sync"

// Clock supplies the current logical simulation time.
type Clock interface {
	Now() float64
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() float64

func (f ClockFunc) Now() float64 { return f() }

// SimClock is a manually advanced clock.
type SimClock struct {
	mu  sync.Mutex
	now float64
}

func NewSimClock(start float64) *SimClock {
	return &SimClock{now: start}
}

func (c *SimClock) Now() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d and returns the new time.
func (c *SimClock) Advance(d float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += d
	return c.now
}
