package citas

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Reservation hold defaults, in minutes. The general default mirrors the
// upstream's 20-minute hold; a session rebuilt from a shared link gets the
// shorter recovery hold.
const (
	DefaultTTLMinutos     = 20
	RecuperacionTTLMinuto = 10
)

// DisplaySegundosPorDefecto is the banner auto-dismiss hint attached to
// confirmation messages.
const DisplaySegundosPorDefecto = 5

// Countdown is the client-side payment timer. It only ever counts down,
// floors at zero and stays there; the upstream service remains the
// authority on actual reservation expiry.
type Countdown struct {
	mu        sync.Mutex
	remaining int
}

// NewCountdown starts a countdown at the given number of seconds, clamped
// to non-negative.
func NewCountdown(seconds int) *Countdown {
	if seconds < 0 {
		seconds = 0
	}
	return &Countdown{remaining: seconds}
}

// Tick decrements the remaining seconds by one and returns the new value.
// Ticking at zero has no effect.
func (c *Countdown) Tick() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.remaining > 0 {
		c.remaining--
	}
	return c.remaining
}

// Remaining returns the seconds left.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Expired reports whether the countdown has reached zero.
func (c *Countdown) Expired() bool {
	return c.Remaining() <= 0
}

// Display renders the remaining time as zero-padded MM:SS.
func (c *Countdown) Display() string {
	return FormatSeconds(c.Remaining())
}

// FormatSeconds renders a second count as zero-padded MM:SS, clamped to
// non-negative.
func FormatSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Run ticks once per second, invoking onTick with the remaining seconds
// after each tick, until the countdown reaches zero or ctx is cancelled.
// The ticker is always torn down on return; callers that navigate away
// cancel ctx and leak nothing.
func (c *Countdown) Run(ctx context.Context, onTick func(remaining int)) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			remaining := c.Tick()
			if onTick != nil {
				onTick(remaining)
			}
			if remaining <= 0 {
				return
			}
		}
	}
}
