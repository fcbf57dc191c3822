package platform

import "time"

// Clock measures the time between frames. MaxDelta caps a single step so a
// stall (debugger, suspended terminal) does not produce one huge update.
type Clock struct {
	MaxDelta time.Duration
	now      func() time.Time
	last     time.Time
}

func NewClock(maxDelta time.Duration) *Clock {
	return newClock(maxDelta, time.Now)
}

func newClock(maxDelta time.Duration, now func() time.Time) *Clock {
	return &Clock{MaxDelta: maxDelta, now: now, last: now()}
}

// Tick returns the time since the previous Tick.
func (c *Clock) Tick() time.Duration {
	t := c.now()
	dt := t.Sub(c.last)
	c.last = t
	if dt < 0 {
		dt = 0
	}
	if c.MaxDelta > 0 && dt > c.MaxDelta {
		dt = c.MaxDelta
	}
	return dt
}
