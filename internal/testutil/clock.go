package testutil

import (
	"sync"
	"time"
)

// Epoch is the fixed instant StepClock starts from.
var Epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// StepClock is a deterministic measure.TimeSource.
//
// The first call to Now() returns Epoch; each later call advances by Step.
// A zero Step freezes time, which makes every elapsed figure exactly 0.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type StepClock struct {
	mu    sync.Mutex
	Step  time.Duration
	calls int64
}

// NewStepClock creates a clock that advances by step on every reading.
func NewStepClock(step time.Duration) *StepClock {
	return &StepClock{Step: step}
}

// Now returns Epoch + calls*Step and counts the call.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := Epoch.Add(time.Duration(c.calls) * c.Step)
	c.calls++
	return t
}

// Calls returns how many times Now has been called.
func (c *StepClock) Calls() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// Reset rewinds the clock to Epoch.
func (c *StepClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = 0
}
