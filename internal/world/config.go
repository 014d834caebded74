package world

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lostandfound/server/internal/geometry"
	"github.com/lostandfound/server/internal/ids"
	apperrors "github.com/lostandfound/server/internal/shared/errors"
)

// rawConfig mirrors the on-disk JSON shape from §6.1 of the world
// configuration contract.
type rawConfig struct {
	DefaultDogSpeed    *float64       `json:"defaultDogSpeed"`
	DefaultBagCapacity *int           `json:"defaultBagCapacity"`
	DogRetirementTime  *float64       `json:"dogRetirementTime"`
	LootGeneratorConfig map[string]any `json:"lootGeneratorConfig"`
	Maps               []rawMap       `json:"maps"`
}

type rawMap struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	DogSpeed    *float64       `json:"dogSpeed"`
	BagCapacity *int           `json:"bagCapacity"`
	Roads       []rawRoad      `json:"roads"`
	Buildings   []rawBuilding  `json:"buildings"`
	Offices     []rawOffice    `json:"offices"`
	LootTypes   []rawLootType  `json:"lootTypes"`
}

type rawRoad struct {
	X0 int  `json:"x0"`
	Y0 int  `json:"y0"`
	X1 *int `json:"x1"`
	Y1 *int `json:"y1"`
}

type rawBuilding struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type rawOffice struct {
	ID      string `json:"id"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	OffsetX int    `json:"offsetX"`
	OffsetY int    `json:"offsetY"`
}

type rawLootType struct {
	Value *float64 `json:"value"`
}

const defaultDogRetirementSeconds = 60.0

// LoadFile reads and parses a world configuration file, per §6.1. A
// malformed or incomplete configuration is a Configuration error and is
// fatal at startup — the caller should not attempt to continue serving.
func LoadFile(path string, randomizeSpawnPoints bool) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.WrapConfiguration("failed to open world config", err)
	}
	return Load(data, randomizeSpawnPoints)
}

// Load parses raw JSON bytes into a World.
func Load(data []byte, randomizeSpawnPoints bool) (*World, error) {
	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.WrapConfiguration("failed to parse world config", err)
	}

	if len(raw.Maps) == 0 {
		return nil, apperrors.Configuration("world config must declare at least one map")
	}

	w := &World{
		DefaultDogSpeed:       1.0,
		DefaultBagCapacity:    3,
		DogRetirementSeconds:  defaultDogRetirementSeconds,
		RandomizeSpawnPoints:  randomizeSpawnPoints,
		LootGeneratorReserved: raw.LootGeneratorConfig,
	}

	if raw.DefaultDogSpeed != nil {
		w.DefaultDogSpeed = *raw.DefaultDogSpeed
	}
	if raw.DefaultBagCapacity != nil {
		w.DefaultBagCapacity = *raw.DefaultBagCapacity
	}
	if raw.DogRetirementTime != nil {
		w.DogRetirementSeconds = *raw.DogRetirementTime
	}

	for _, rm := range raw.Maps {
		m, err := parseMap(rm, w)
		if err != nil {
			return nil, err
		}
		w.AddMap(m)
		seedInitialLoot(m, w)
	}

	return w, nil
}

func parseMap(rm rawMap, w *World) (*Map, error) {
	if rm.ID == "" {
		return nil, apperrors.Configuration("map entry missing required \"id\"")
	}
	if len(rm.Roads) == 0 {
		return nil, apperrors.Configuration(fmt.Sprintf("map %q declares no roads", rm.ID))
	}

	m := NewMap(ids.MapID(rm.ID), rm.Name)
	m.DogSpeed = w.DefaultDogSpeed
	if rm.DogSpeed != nil {
		m.DogSpeed = *rm.DogSpeed
	}
	m.BagCapacity = w.DefaultBagCapacity
	if rm.BagCapacity != nil {
		m.BagCapacity = *rm.BagCapacity
	}

	for _, rr := range rm.Roads {
		road, err := parseRoad(rr)
		if err != nil {
			return nil, fmt.Errorf("map %q: %w", rm.ID, err)
		}
		m.Roads = append(m.Roads, road)
	}

	for _, rb := range rm.Buildings {
		m.Buildings = append(m.Buildings, geometry.Building{
			Position: geometry.Point{X: rb.X, Y: rb.Y},
			Size:     geometry.Size{W: rb.W, H: rb.H},
		})
	}

	for _, ro := range rm.Offices {
		if ro.ID == "" {
			return nil, apperrors.Configuration(fmt.Sprintf("map %q: office missing id", rm.ID))
		}
		m.Offices = append(m.Offices, Office{
			ID:       ids.OfficeID(ro.ID),
			Position: geometry.Point{X: ro.X, Y: ro.Y},
			OffsetX:  ro.OffsetX,
			OffsetY:  ro.OffsetY,
		})
	}

	for i, rl := range rm.LootTypes {
		value := 10.0
		if rl.Value != nil {
			value = *rl.Value
		}
		m.LootTypes = append(m.LootTypes, LootType{Index: i, Value: value})
	}

	return m, nil
}

func parseRoad(rr rawRoad) (geometry.Road, error) {
	start := geometry.Point{X: rr.X0, Y: rr.Y0}
	switch {
	case rr.X1 != nil:
		return geometry.Road{Orientation: geometry.Horizontal, Start: start, End: *rr.X1}, nil
	case rr.Y1 != nil:
		return geometry.Road{Orientation: geometry.Vertical, Start: start, End: *rr.Y1}, nil
	default:
		return geometry.Road{}, apperrors.Configuration("invalid road: neither x1 nor y1 given")
	}
}

// seedInitialLoot restores the original implementation's behavior of
// populating each declared loot type with a handful of items at load time
// (see SPEC_FULL.md §4.4a), so a freshly loaded map is never observed empty
// before the runtime generator's first tick.
func seedInitialLoot(m *Map, w *World) {
	const itemsPerType = 3
	if len(m.Roads) == 0 {
		return
	}
	road := m.Roads[0]
	count := 0
	for _, lt := range m.LootTypes {
		for i := 0; i < itemsPerType; i++ {
			// Same placement as the runtime generator: one unit apart along
			// the first road's axis, starting one unit from its start.
			offset := float64(count + 1)
			pos := geometry.Position{X: float64(road.Start.X) + offset, Y: float64(road.Start.Y)}
			if road.Orientation == geometry.Vertical {
				pos = geometry.Position{X: float64(road.Start.X), Y: float64(road.Start.Y) + offset}
			}
			m.AddLootItem(LootItem{
				ID:       w.NextLootItemID(),
				TypeIdx:  lt.Index,
				Value:    lt.Value,
				Position: pos,
			})
			count++
		}
	}
}
