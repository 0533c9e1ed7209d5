// Package clock isolates wall-clock reads: run durations and the timestamp
// written into generated list headers.
package clock

import "time"

// Clock reports the current instant.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// MockClock returns CurrentTime until moved with Advance. It is not safe for
// concurrent use.
type MockClock struct {
	CurrentTime time.Time
}

// At returns a MockClock pinned to t.
func At(t time.Time) *MockClock { return &MockClock{CurrentTime: t} }

func (c *MockClock) Now() time.Time { return c.CurrentTime }

// Advance moves the clock forward by d.
func (c *MockClock) Advance(d time.Duration) { c.CurrentTime = c.CurrentTime.Add(d) }
