package game

import "time"

// RunClock is the whole-run countdown. It ticks once per wall-clock second,
// independent of the frame rate.
type RunClock struct {
	total     int
	remaining int
	expired   bool
}

// NewRunClock creates a clock counting down from total, truncated to seconds.
func NewRunClock(total time.Duration) *RunClock {
	secs := int(total / time.Second)
	return &RunClock{total: secs, remaining: secs}
}

// Tick decrements the clock by one second. It returns true exactly once, on
// the tick that reaches zero.
func (c *RunClock) Tick() bool {
	if c.expired {
		return false
	}
	if c.remaining > 0 {
		c.remaining--
	}
	if c.remaining == 0 {
		c.expired = true
		return true
	}
	return false
}

func (c *RunClock) Remaining() int { return c.remaining }

func (c *RunClock) Total() int { return c.total }

func (c *RunClock) Expired() bool { return c.expired }
