package motion

import (
	"testing"

	"github.com/lostandfound/server/internal/geometry"
	"github.com/lostandfound/server/internal/ids"
	"github.com/lostandfound/server/internal/world"
)

func singleRoadMap(x0, y0, x1 int) *world.Map {
	m := world.NewMap(ids.MapID("m"), "m")
	m.Roads = []geometry.Road{{Orientation: geometry.Horizontal, Start: geometry.Point{X: x0, Y: y0}, End: x1}}
	return m
}

func TestZeroVelocityIsNoOp(t *testing.T) {
	m := singleRoadMap(0, 0, 10)
	res, err := Constrain(m, geometry.Position{X: 3, Y: 0}, geometry.Velocity{}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.End != (geometry.Position{X: 3, Y: 0}) || res.Clipped {
		t.Fatalf("expected no-op, got %+v", res)
	}
}

func TestUnclippedMotion(t *testing.T) {
	// Road (0,0)-(10,0), dog at (0,0), velocity (5,0), dt=1 -> end (5,0), not clipped.
	m := singleRoadMap(0, 0, 10)
	res, err := Constrain(m, geometry.Position{X: 0, Y: 0}, geometry.Velocity{VX: 5, VY: 0}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.End != (geometry.Position{X: 5, Y: 0}) {
		t.Fatalf("expected (5,0), got %+v", res.End)
	}
	if res.Clipped {
		t.Fatal("expected unclipped motion")
	}
}

func TestRoadClip(t *testing.T) {
	// Road (0,0)-(5,0), dog at (0,0), velocity (10,0), dt=1 -> end (5,0), clipped.
	m := singleRoadMap(0, 0, 5)
	res, err := Constrain(m, geometry.Position{X: 0, Y: 0}, geometry.Velocity{VX: 10, VY: 0}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.End != (geometry.Position{X: 5, Y: 0}) {
		t.Fatalf("expected (5,0), got %+v", res.End)
	}
	if !res.Clipped {
		t.Fatal("expected clipped motion")
	}
}

func TestStartOffRoadIsWorldInvariant(t *testing.T) {
	m := singleRoadMap(0, 0, 10)
	_, err := Constrain(m, geometry.Position{X: 100, Y: 100}, geometry.Velocity{VX: 1}, 1)
	if err == nil {
		t.Fatal("expected WorldInvariant error for off-road start")
	}
}

func TestMotionContinuesOntoIntersectingRoad(t *testing.T) {
	// A vertical road crossing the horizontal one at x=5 lets the dog turn
	// onto it: starting exactly at the intersection, heading straight up,
	// the vertical strip must be the one chosen (farthest along velocity).
	m := world.NewMap(ids.MapID("m"), "m")
	m.Roads = []geometry.Road{
		{Orientation: geometry.Horizontal, Start: geometry.Point{X: 0, Y: 0}, End: 10},
		{Orientation: geometry.Vertical, Start: geometry.Point{X: 5, Y: 0}, End: 10},
	}

	res, err := Constrain(m, geometry.Position{X: 5, Y: 0}, geometry.Velocity{VX: 0, VY: 5}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.End != (geometry.Position{X: 5, Y: 5}) {
		t.Fatalf("expected to continue onto vertical road to (5,5), got %+v", res.End)
	}
	if res.Clipped {
		t.Fatal("expected unclipped motion along intersecting road")
	}
}
