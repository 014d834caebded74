// Package collision finds and applies the pickup and office-return events
// along a dog's per-tick motion segment, ordered by time-of-impact.
package collision

import (
	"math"
	"sort"

	"github.com/lostandfound/server/internal/geometry"
	"github.com/lostandfound/server/internal/ids"
	"github.com/lostandfound/server/internal/session"
	"github.com/lostandfound/server/internal/world"
)

// EventType distinguishes a pickup from an office return.
type EventType int

const (
	ItemPickup EventType = iota
	OfficeReturn
)

// Event is a single candidate collision along a dog's motion segment,
// carrying enough identity to apply its effect once events are sorted.
type Event struct {
	Type     EventType
	Time     float64 // t in [0,1] along the segment
	LootItem ids.LootItemID
}

// FindCollisionTime returns the earliest t in [0,1] at which a point moving
// along the segment start->end comes within radius of target, or false if
// the segment never does. A zero-length segment reports t=0 iff the start
// point is already within radius.
func FindCollisionTime(start, end, target geometry.Position, radius float64) (float64, bool) {
	dx := end.X - start.X
	dy := end.Y - start.Y
	pathLength := math.Hypot(dx, dy)

	if pathLength < 1e-9 {
		if geometry.Distance(start, target) <= radius {
			return 0, true
		}
		return 0, false
	}

	dirX := dx / pathLength
	dirY := dy / pathLength

	toTargetX := target.X - start.X
	toTargetY := target.Y - start.Y
	projection := toTargetX*dirX + toTargetY*dirY

	// Perpendicular distance from target to the line through the segment.
	distanceToPath := math.Abs(toTargetX*dirY - toTargetY*dirX)
	if distanceToPath > radius {
		return 0, false
	}

	halfChord := math.Sqrt(radius*radius - distanceToPath*distanceToPath)
	distanceToCollision := projection - halfChord
	if projection+halfChord < 0 || distanceToCollision > pathLength {
		return 0, false
	}

	// A start point already inside the circle collides at t=0.
	return math.Max(distanceToCollision, 0) / pathLength, true
}

// gatherEvents enumerates every candidate pickup and office-return event
// along the segment start->end, in the order loot items and offices appear
// on the map — this insertion order is the stable tie-break for equal t.
func gatherEvents(m *world.Map, start, end geometry.Position) []Event {
	var events []Event

	for _, item := range m.LootItems() {
		if t, ok := FindCollisionTime(start, end, item.Position, geometry.ItemCollisionRadius); ok {
			events = append(events, Event{Type: ItemPickup, Time: t, LootItem: item.ID})
		}
	}

	for _, office := range m.Offices {
		officePos := geometry.Position{X: float64(office.Position.X), Y: float64(office.Position.Y)}
		if t, ok := FindCollisionTime(start, end, officePos, geometry.OfficeCollisionRadius); ok {
			events = append(events, Event{Type: OfficeReturn, Time: t})
		}
	}

	return events
}

// Resolve finds every pickup and office-return event along dog's motion
// from start to end on map m, and applies them in ascending time order:
// pickups append to the bag and remove the item from the map unless the
// bag is full (silently dropped), office returns credit the whole bag to
// score and empty it.
func Resolve(m *world.Map, dog *session.Dog, start, end geometry.Position) {
	events := gatherEvents(m, start, end)
	if len(events) == 0 {
		return
	}

	sort.SliceStable(events, func(i, j int) bool { return events[i].Time < events[j].Time })

	for _, event := range events {
		switch event.Type {
		case ItemPickup:
			item, ok := m.FindLootItem(event.LootItem)
			if !ok {
				continue // already taken by an earlier event this tick
			}
			if dog.Bag.Add(session.BagItem{TypeIdx: item.TypeIdx, Value: item.Value}) {
				m.RemoveLootItem(item.ID)
			}
		case OfficeReturn:
			for _, item := range dog.Bag.Empty() {
				dog.AddScore(item.Value)
			}
		}
	}
}
