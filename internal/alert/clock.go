package alert

import (
	"fmt"
	"sync"
	"time"
)

// SimClock derives a virtual "now" from wall-clock time plus an adjustable
// offset. The offset is computed once at jump time and then held, so virtual
// time keeps advancing naturally after a jump. Jumping backward is allowed;
// callers that care about re-firing must handle it themselves.
type SimClock struct {
	mu     sync.Mutex
	offset time.Duration
	loc    *time.Location
	wall   func() time.Time // test seam
}

// NewSimClock returns a clock whose wall-clock jumps anchor to days in loc.
// Race start times are anchored in the same configured location, so a jump
// to a displayed HH:MM must resolve there, not in the process-local zone.
func NewSimClock(loc *time.Location) *SimClock {
	if loc == nil {
		loc = time.Local
	}
	return &SimClock{loc: loc, wall: time.Now}
}

func (c *SimClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wall().Add(c.offset)
}

func (c *SimClock) Offset() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offset
}

// JumpTo moves virtual time to the target instant.
func (c *SimClock) JumpTo(target time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset = target.Sub(c.wall())
}

// JumpToWallClock jumps to an HH:MM time of day on the current calendar day
// in the clock's configured location. An unparsable input is rejected and
// the prior offset is kept.
func (c *SimClock) JumpToWallClock(hhmm string) error {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return fmt.Errorf("invalid time %q: %w", hhmm, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.wall().In(c.loc)
	target := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, c.loc)
	c.offset = target.Sub(now)
	return nil
}

// Reset returns the clock to real time.
func (c *SimClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset = 0
}
