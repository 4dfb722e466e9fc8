package engine

// Clock is the logical clock that stamps trace lines.
//
// Each run gets its own Clock starting at 0, so the first emitted line of
// every run has seq 1 regardless of what ran before. A Clock belongs to one
// Recorder and is not safe for concurrent use.
type Clock struct {
	seq int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	c.seq++
	return c.seq
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq
}
