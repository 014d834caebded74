// Package loot implements the tick-end loot generation policy: restocking
// a map's loot set once it runs dry.
package loot

import (
	"github.com/lostandfound/server/internal/geometry"
	"github.com/lostandfound/server/internal/world"
)

// SpawnCount is how many items are spawned for a map whose loot set has
// run empty.
const SpawnCount = 5

// DefaultTypeIndex and DefaultValue are the catalog entry used by the
// minimal faithful generation policy; a richer policy may consult
// Map.LootTypes instead, behind the same Generate entry point.
const (
	DefaultTypeIndex = 1
	DefaultValue     = 10.0
)

// Generate restocks every map in w whose current loot set is empty,
// placing SpawnCount items at fixed, evenly spaced seed positions along
// the map's first road. Maps with no roads, or with loot still present,
// are left untouched.
func Generate(w *world.World) {
	for _, m := range w.AllMaps() {
		if m.LootCount() > 0 {
			continue
		}
		generateForMap(w, m)
	}
}

func generateForMap(w *world.World, m *world.Map) {
	if len(m.Roads) == 0 {
		return
	}
	road := m.Roads[0]

	for i := 0; i < SpawnCount; i++ {
		pos := seedPosition(road, i)
		m.AddLootItem(world.LootItem{
			ID:       w.NextLootItemID(),
			TypeIdx:  DefaultTypeIndex,
			Value:    DefaultValue,
			Position: pos,
		})
	}
}

// seedPosition places the i-th of SpawnCount items evenly along the road's
// axis, offset from its start so no two seed positions coincide.
func seedPosition(road geometry.Road, i int) geometry.Position {
	offset := float64(i + 1)
	switch road.Orientation {
	case geometry.Horizontal:
		return geometry.Position{X: float64(road.Start.X) + offset, Y: float64(road.Start.Y)}
	default:
		return geometry.Position{X: float64(road.Start.X), Y: float64(road.Start.Y) + offset}
	}
}
