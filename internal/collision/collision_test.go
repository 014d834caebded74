package collision

import (
	"testing"

	"github.com/lostandfound/server/internal/geometry"
	"github.com/lostandfound/server/internal/ids"
	"github.com/lostandfound/server/internal/session"
	"github.com/lostandfound/server/internal/world"
)

func roadMap() *world.Map {
	m := world.NewMap(ids.MapID("m"), "m")
	m.Roads = []geometry.Road{{Orientation: geometry.Horizontal, Start: geometry.Point{X: 0, Y: 0}, End: 10}}
	return m
}

func TestSingleRoadPickup(t *testing.T) {
	m := roadMap()
	m.AddLootItem(world.LootItem{ID: 1, TypeIdx: 1, Value: 10, Position: geometry.Position{X: 5, Y: 0}})

	dog := &session.Dog{Bag: session.NewBag(1)}
	start := geometry.Position{X: 0, Y: 0}
	end := geometry.Position{X: 5, Y: 0}

	Resolve(m, dog, start, end)

	if dog.Bag.Len() != 1 {
		t.Fatalf("expected bag len 1, got %d", dog.Bag.Len())
	}
	if m.LootCount() != 0 {
		t.Fatalf("expected loot removed from map, got %d remaining", m.LootCount())
	}
}

func TestFullBagSkip(t *testing.T) {
	m := roadMap()
	m.AddLootItem(world.LootItem{ID: 1, TypeIdx: 1, Value: 10, Position: geometry.Position{X: 5, Y: 0}})

	dog := &session.Dog{Bag: session.NewBag(1)}
	dog.Bag.Add(session.BagItem{TypeIdx: 1, Value: 5})

	start := geometry.Position{X: 0, Y: 0}
	end := geometry.Position{X: 5, Y: 0}

	Resolve(m, dog, start, end)

	if dog.Bag.Len() != 1 {
		t.Fatalf("expected bag unchanged at len 1, got %d", dog.Bag.Len())
	}
	if m.LootCount() != 1 {
		t.Fatalf("expected item to remain on map, got %d", m.LootCount())
	}
}

func TestPickupThenReturnInOneTick(t *testing.T) {
	m := roadMap()
	m.Offices = []world.Office{{ID: ids.OfficeID("o"), Position: geometry.Point{X: 8, Y: 0}}}
	m.AddLootItem(world.LootItem{ID: 1, TypeIdx: 1, Value: 10, Position: geometry.Position{X: 2, Y: 0}})

	dog := &session.Dog{Bag: session.NewBag(2)}
	start := geometry.Position{X: 0, Y: 0}
	end := geometry.Position{X: 10, Y: 0}

	Resolve(m, dog, start, end)

	if dog.Score != 10 {
		t.Fatalf("expected score 10, got %d", dog.Score)
	}
	if dog.Bag.Len() != 0 {
		t.Fatalf("expected empty bag after return, got %d", dog.Bag.Len())
	}
	if m.LootCount() != 0 {
		t.Fatalf("expected loot removed from map, got %d", m.LootCount())
	}
}

func TestFindCollisionTimeZeroLengthSegment(t *testing.T) {
	p := geometry.Position{X: 0, Y: 0}
	if _, ok := FindCollisionTime(p, p, geometry.Position{X: 0.1, Y: 0}, 0.3); !ok {
		t.Fatal("expected collision at t=0 for a stationary dog within radius")
	}
	if _, ok := FindCollisionTime(p, p, geometry.Position{X: 5, Y: 0}, 0.3); ok {
		t.Fatal("expected no collision for a stationary dog far from target")
	}
}
