// Package world holds the per-map topology loaded once at startup — roads,
// buildings, offices, the loot-type catalog, dog speed and bag capacity —
// plus the mutable set of loot items currently present on each map. The
// World is exclusively owned by the application façade; callers elsewhere
// only ever see it through façade-serialized access.
package world

import (
	"fmt"
	"math/rand"
	"sync/atomic"

	"github.com/lostandfound/server/internal/geometry"
	"github.com/lostandfound/server/internal/ids"
)

// LootType is a catalog entry: an index and the base value items of that
// type are worth.
type LootType struct {
	Index int
	Value float64
}

// Office is a deposit point that converts a dog's bag contents to score.
type Office struct {
	ID       ids.OfficeID
	Position geometry.Point
	OffsetX  int
	OffsetY  int
}

// LootItem is a pickup lying on a map.
type LootItem struct {
	ID       ids.LootItemID
	TypeIdx  int
	Value    float64
	Position geometry.Position
}

// Map is the immutable topology of one map plus its mutable loot set.
type Map struct {
	ID          ids.MapID
	Name        string
	Roads       []geometry.Road
	Buildings   []geometry.Building
	Offices     []Office
	LootTypes   []LootType
	DogSpeed    float64
	BagCapacity int

	// loot and lootOrder are mutated only under the façade's exclusive
	// lock. lootOrder tracks insertion order since Go map iteration order
	// is randomized per run, and collision event tie-breaking depends on
	// a stable, deterministic ordering of loot items.
	loot      map[ids.LootItemID]LootItem
	lootOrder []ids.LootItemID
}

// NewMap builds an empty map ready to receive roads/buildings/offices.
func NewMap(id ids.MapID, name string) *Map {
	return &Map{
		ID:   id,
		Name: name,
		loot: make(map[ids.LootItemID]LootItem),
	}
}

// RoadsContaining returns every road strip of the map whose rectangle
// contains pos.
func (m *Map) RoadsContaining(pos geometry.Position) []geometry.Road {
	var result []geometry.Road
	for _, road := range m.Roads {
		if road.Rectangle().Contains(pos) {
			result = append(result, road)
		}
	}
	return result
}

// IsOnRoad reports whether pos lies in the union of the map's road strips.
func (m *Map) IsOnRoad(pos geometry.Position) bool {
	for _, road := range m.Roads {
		if road.Rectangle().Contains(pos) {
			return true
		}
	}
	return false
}

// DefaultDogPosition returns the start of the map's first road, the
// non-randomized spawn point.
func (m *Map) DefaultDogPosition() (geometry.Position, error) {
	if len(m.Roads) == 0 {
		return geometry.Position{}, fmt.Errorf("map %q has no roads", m.ID)
	}
	first := m.Roads[0]
	return geometry.Position{X: float64(first.Start.X), Y: float64(first.Start.Y)}, nil
}

// RandomDogPosition samples a point uniformly on the map's road network:
// pick a road weighted by length, then a uniform point along its axis.
func (m *Map) RandomDogPosition(rng *rand.Rand) (geometry.Position, error) {
	if len(m.Roads) == 0 {
		return geometry.Position{}, fmt.Errorf("map %q has no roads", m.ID)
	}

	lengths := make([]float64, len(m.Roads))
	total := 0.0
	for i, road := range m.Roads {
		l := roadLength(road)
		if l == 0 {
			l = 1 // a zero-length road (single point) still gets picked sometimes
		}
		lengths[i] = l
		total += l
	}

	pick := rng.Float64() * total
	chosen := m.Roads[len(m.Roads)-1]
	acc := 0.0
	for i, l := range lengths {
		acc += l
		if pick <= acc {
			chosen = m.Roads[i]
			break
		}
	}

	return pointOnRoad(chosen, rng), nil
}

func roadLength(r geometry.Road) float64 {
	switch r.Orientation {
	case geometry.Horizontal:
		d := r.End - r.Start.X
		if d < 0 {
			d = -d
		}
		return float64(d)
	default:
		d := r.End - r.Start.Y
		if d < 0 {
			d = -d
		}
		return float64(d)
	}
}

func pointOnRoad(r geometry.Road, rng *rand.Rand) geometry.Position {
	switch r.Orientation {
	case geometry.Horizontal:
		x0, x1 := float64(r.Start.X), float64(r.End)
		if x0 > x1 {
			x0, x1 = x1, x0
		}
		return geometry.Position{X: x0 + rng.Float64()*(x1-x0), Y: float64(r.Start.Y)}
	default:
		y0, y1 := float64(r.Start.Y), float64(r.End)
		if y0 > y1 {
			y0, y1 = y1, y0
		}
		return geometry.Position{X: float64(r.Start.X), Y: y0 + rng.Float64()*(y1-y0)}
	}
}

// LootItems returns the loot currently on the map, in the order items
// were added — the stable ordering collision event tie-breaking relies
// on.
func (m *Map) LootItems() []LootItem {
	items := make([]LootItem, 0, len(m.lootOrder))
	for _, id := range m.lootOrder {
		items = append(items, m.loot[id])
	}
	return items
}

// LootCount reports how many loot items currently sit on the map.
func (m *Map) LootCount() int {
	return len(m.loot)
}

// AddLootItem places an item on the map. Ids must be unique among present
// items; callers (the loot generator) are responsible for that.
func (m *Map) AddLootItem(item LootItem) {
	m.loot[item.ID] = item
	m.lootOrder = append(m.lootOrder, item.ID)
}

// FindLootItem looks up a loot item still present on the map.
func (m *Map) FindLootItem(id ids.LootItemID) (LootItem, bool) {
	item, ok := m.loot[id]
	return item, ok
}

// RemoveLootItem removes an item so no later event in the same tick can
// refer to it.
func (m *Map) RemoveLootItem(id ids.LootItemID) {
	if _, ok := m.loot[id]; !ok {
		return
	}
	delete(m.loot, id)
	for i, existing := range m.lootOrder {
		if existing == id {
			m.lootOrder = append(m.lootOrder[:i], m.lootOrder[i+1:]...)
			break
		}
	}
}

// LootTypeByIndex looks up a catalog entry; ok is false for an unknown index.
func (m *Map) LootTypeByIndex(idx int) (LootType, bool) {
	for _, lt := range m.LootTypes {
		if lt.Index == idx {
			return lt, true
		}
	}
	return LootType{}, false
}

// World is the set of all loaded maps plus the defaults used when a map
// doesn't override them.
type World struct {
	Maps                  map[ids.MapID]*Map
	order                 []ids.MapID // preserves config file order for deterministic iteration
	DefaultDogSpeed       float64
	DefaultBagCapacity    int
	DogRetirementSeconds  float64
	RandomizeSpawnPoints  bool
	LootGeneratorReserved map[string]any // parsed but currently unused, per the config contract

	nextLootID uint64 // process-wide monotonic counter, shared by initial seeding and the runtime generator
}

// NextLootItemID draws the next value from the process-wide monotonically
// increasing loot item id counter. Ids are never reused once an item is
// removed.
func (w *World) NextLootItemID() ids.LootItemID {
	return ids.LootItemID(atomic.AddUint64(&w.nextLootID, 1) - 1)
}

// FindMap looks up a map by id.
func (w *World) FindMap(id ids.MapID) (*Map, bool) {
	m, ok := w.Maps[id]
	return m, ok
}

// AllMaps returns every map in the order they were declared in config.
func (w *World) AllMaps() []*Map {
	out := make([]*Map, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.Maps[id])
	}
	return out
}

// AddMap registers a map, preserving declaration order.
func (w *World) AddMap(m *Map) {
	if w.Maps == nil {
		w.Maps = make(map[ids.MapID]*Map)
	}
	w.Maps[m.ID] = m
	w.order = append(w.order, m.ID)
}
