package alert

import (
	"testing"
	"time"
)

func testClock(wall time.Time) *SimClock {
	c := NewSimClock(time.UTC)
	c.wall = func() time.Time { return wall }
	return c
}

func TestSimClockRealTime(t *testing.T) {
	wall := time.Date(2026, 1, 4, 12, 0, 0, 0, time.UTC)
	c := testClock(wall)

	if !c.Now().Equal(wall) {
		t.Errorf("Fresh clock should read wall time, got %v", c.Now())
	}
	if c.Offset() != 0 {
		t.Errorf("Fresh clock offset should be zero, got %v", c.Offset())
	}
}

func TestSimClockJumpTo(t *testing.T) {
	wall := time.Date(2026, 1, 4, 12, 0, 0, 0, time.UTC)
	c := testClock(wall)

	target := time.Date(2026, 1, 4, 15, 28, 0, 0, time.UTC)
	c.JumpTo(target)

	if !c.Now().Equal(target) {
		t.Errorf("Now mismatch after jump: got %v, want %v", c.Now(), target)
	}
	if c.Offset() != 3*time.Hour+28*time.Minute {
		t.Errorf("Offset mismatch: got %v", c.Offset())
	}

	// Virtual time keeps advancing with the wall clock after a jump.
	c.wall = func() time.Time { return wall.Add(30 * time.Second) }
	if !c.Now().Equal(target.Add(30 * time.Second)) {
		t.Errorf("Virtual time did not advance: got %v", c.Now())
	}
}

func TestSimClockJumpBackward(t *testing.T) {
	wall := time.Date(2026, 1, 4, 12, 0, 0, 0, time.UTC)
	c := testClock(wall)

	target := wall.Add(-2 * time.Hour)
	c.JumpTo(target)

	if !c.Now().Equal(target) {
		t.Errorf("Backward jump failed: got %v, want %v", c.Now(), target)
	}
}

func TestSimClockJumpToWallClock(t *testing.T) {
	wall := time.Date(2026, 1, 4, 12, 0, 45, 0, time.UTC)
	c := testClock(wall)

	if err := c.JumpToWallClock("15:28"); err != nil {
		t.Fatalf("JumpToWallClock failed: %v", err)
	}

	want := time.Date(2026, 1, 4, 15, 28, 0, 0, time.UTC)
	if !c.Now().Equal(want) {
		t.Errorf("Now mismatch: got %v, want %v", c.Now(), want)
	}
}

func TestSimClockJumpToWallClockUsesConfiguredZone(t *testing.T) {
	// The wall clock runs in UTC but the clock is configured for JST. A jump
	// to a displayed race-card time must land at that HH:MM in JST, not UTC.
	jst := time.FixedZone("JST", 9*60*60)
	wall := time.Date(2026, 1, 4, 1, 0, 0, 0, time.UTC) // 10:00 JST

	c := NewSimClock(jst)
	c.wall = func() time.Time { return wall }

	if err := c.JumpToWallClock("15:28"); err != nil {
		t.Fatalf("JumpToWallClock failed: %v", err)
	}

	got := c.Now().In(jst)
	if got.Hour() != 15 || got.Minute() != 28 {
		t.Errorf("Jump landed at %v JST, want 15:28", got.Format("15:04"))
	}
	if got.Day() != 4 {
		t.Errorf("Jump left the JST calendar day: got %v", got)
	}

	// The same target coincides with a race starting 15:30 JST.
	start := time.Date(2026, 1, 4, 15, 30, 0, 0, jst)
	if d := start.Sub(c.Now()); d != 2*time.Minute {
		t.Errorf("Distance to a 15:30 JST start: got %v, want 2m", d)
	}
}

func TestSimClockJumpToWallClockInvalid(t *testing.T) {
	wall := time.Date(2026, 1, 4, 12, 0, 0, 0, time.UTC)
	c := testClock(wall)
	c.JumpTo(wall.Add(time.Hour))
	before := c.Offset()

	for _, bad := range []string{"", "25:99", "soon", "15-28"} {
		if err := c.JumpToWallClock(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}

	if c.Offset() != before {
		t.Errorf("Rejected jump changed the offset: got %v, want %v", c.Offset(), before)
	}
}

func TestSimClockReset(t *testing.T) {
	wall := time.Date(2026, 1, 4, 12, 0, 0, 0, time.UTC)
	c := testClock(wall)

	c.JumpTo(wall.Add(5 * time.Hour))
	c.Reset()

	if c.Offset() != 0 {
		t.Errorf("Offset not cleared: got %v", c.Offset())
	}
	if !c.Now().Equal(wall) {
		t.Errorf("Now mismatch after reset: got %v", c.Now())
	}
}
