// Package clock tracks the countdown of an auction session.
package clock

import "time"

// Clock computes remaining time on demand from wall-clock reads. There is no background timer,
// so slow frames or a suspended process only make the next poll see more elapsed time.
type Clock struct {
	now      func() time.Time
	duration time.Duration
	start    time.Time

	// floor is the smallest remaining value reported since the last reset.
	floor time.Duration
}

// New starts a session of the given duration. A nil now uses time.Now.
func New(duration time.Duration, now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	if duration < 0 {
		duration = 0
	}
	c := &Clock{now: now, duration: duration}
	c.Reset()
	return c
}

// Duration returns the fixed session length.
func (c *Clock) Duration() time.Duration {
	return c.duration
}

// Remaining returns the time left, never negative and never larger than a previous poll.
func (c *Clock) Remaining() time.Duration {
	remaining := c.duration - c.now().Sub(c.start)
	if remaining < 0 {
		remaining = 0
	}
	if remaining > c.floor {
		remaining = c.floor
	}
	c.floor = remaining
	return remaining
}

// IsExpired reports whether no time is left. Once true it stays true until Reset.
func (c *Clock) IsExpired() bool {
	return c.Remaining() == 0
}

// Reset starts the countdown again from the full duration.
func (c *Clock) Reset() {
	c.start = c.now()
	c.floor = c.duration
}

// Countdown splits the remaining time into whole minutes and seconds for display.
func (c *Clock) Countdown() (minutes, seconds int, remaining time.Duration) {
	remaining = c.Remaining()
	total := int(remaining / time.Second)
	return total / 60, total % 60, remaining
}
