package retirement

import (
	"testing"
	"time"

	"github.com/lostandfound/server/internal/ids"
)

func TestDueForRetirementAfterIdleThreshold(t *testing.T) {
	c := NewController(2 * time.Second)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.OnJoin(1, start)
	c.OnAction(1, true, start) // stops immediately, idle-start = join time

	order := []ids.PlayerID{1}

	if due := c.DueForRetirement(order, start.Add(time.Second)); len(due) != 0 {
		t.Fatalf("expected no retirement before threshold, got %v", due)
	}
	if due := c.DueForRetirement(order, start.Add(3*time.Second)); len(due) != 1 {
		t.Fatalf("expected retirement due after threshold, got %v", due)
	}
}

func TestMovementClearsIdleStart(t *testing.T) {
	c := NewController(time.Second)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.OnJoin(1, start)
	c.OnAction(1, true, start)
	c.OnAction(1, false, start.Add(500*time.Millisecond))

	due := c.DueForRetirement([]ids.PlayerID{1}, start.Add(2*time.Second))
	if len(due) != 0 {
		t.Fatalf("expected movement to clear idle tracking, got due=%v", due)
	}
}

func TestMarkRetiredIsIdempotent(t *testing.T) {
	c := NewController(time.Second)
	c.OnJoin(1, time.Now())

	if !c.MarkRetired(1) {
		t.Fatal("expected first retirement to succeed")
	}
	if c.MarkRetired(1) {
		t.Fatal("expected second retirement of the same player to be a no-op")
	}
}

func TestPlayTimeTracksJoinTime(t *testing.T) {
	c := NewController(time.Second)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.OnJoin(1, start)

	got := c.PlayTime(1, start.Add(5*time.Second))
	if got != 5*time.Second {
		t.Fatalf("expected 5s play time, got %v", got)
	}
}
