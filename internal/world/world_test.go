package world

import (
	"math/rand"
	"testing"

	"github.com/lostandfound/server/internal/geometry"
	"github.com/lostandfound/server/internal/ids"
)

func TestLoadFileMissingMapsIsConfigurationError(t *testing.T) {
	_, err := Load([]byte(`{}`), false)
	if err == nil {
		t.Fatal("expected error for config with no maps")
	}
}

func TestLoadSingleHorizontalRoadMap(t *testing.T) {
	data := []byte(`{
		"defaultDogSpeed": 2,
		"defaultBagCapacity": 3,
		"maps": [{
			"id": "map1",
			"name": "First",
			"roads": [{"x0": 0, "y0": 0, "x1": 10, "y1": 0}],
			"buildings": [],
			"offices": [{"id": "o1", "x": 5, "y": 0, "offsetX": 0, "offsetY": 0}]
		}]
	}`)

	w, err := Load(data, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m, ok := w.FindMap(ids.MapID("map1"))
	if !ok {
		t.Fatal("expected map1 to be loaded")
	}
	if m.DogSpeed != 2 {
		t.Fatalf("expected inherited dog speed 2, got %v", m.DogSpeed)
	}
	if len(m.Offices) != 1 {
		t.Fatalf("expected 1 office, got %d", len(m.Offices))
	}
	if !m.IsOnRoad(geometry.Position{X: 0, Y: 0}) {
		t.Fatal("expected road start to be on road")
	}
	if m.IsOnRoad(geometry.Position{X: 0, Y: 5}) {
		t.Fatal("expected far point to be off road")
	}
}

func TestInvalidRoadIsConfigurationError(t *testing.T) {
	data := []byte(`{"maps": [{"id": "m", "name": "n", "roads": [{"x0": 0, "y0": 0}]}]}`)
	if _, err := Load(data, false); err == nil {
		t.Fatal("expected configuration error for road missing x1/y1")
	}
}

func TestRandomDogPositionOnRoad(t *testing.T) {
	m := NewMap(ids.MapID("m"), "m")
	m.Roads = []geometry.Road{{Orientation: geometry.Horizontal, Start: geometry.Point{X: 0, Y: 0}, End: 10}}

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		pos, err := m.RandomDogPosition(rng)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !m.IsOnRoad(pos) {
			t.Fatalf("sampled position %+v not on road", pos)
		}
	}
}

func TestLootIdsAreNotReissued(t *testing.T) {
	w := &World{}
	first := w.NextLootItemID()
	m := NewMap(ids.MapID("m"), "m")
	m.AddLootItem(LootItem{ID: first})
	m.RemoveLootItem(first)
	second := w.NextLootItemID()
	if first == second {
		t.Fatal("expected distinct loot item ids")
	}
}
