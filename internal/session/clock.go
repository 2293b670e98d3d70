package session

import "sync/atomic"

// Sequencer hands out pass sequence numbers.
type Sequencer interface {
	Next() int64
}

// Clock is a monotonic logical clock. Passes are ordered by the numbers it
// hands out, never by wall time.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock whose first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock that resumes after start. Used to continue a
// journaled session.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last number handed out.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
