// Package ids defines the typed identifier wrappers used across the
// simulation so that a map id can never be handed where a dog id is
// expected, and so on. Each wrapper is a plain newtype over its payload:
// no behavior beyond hashing and comparing as that payload.
package ids

import "fmt"

// MapID identifies a loaded map. Stable across the process lifetime.
type MapID string

func (id MapID) String() string { return string(id) }

// DogID identifies a dog (a player's avatar), unique across the process.
type DogID uint64

func (id DogID) String() string { return fmt.Sprintf("%d", uint64(id)) }

// PlayerID identifies a player, unique across the process.
type PlayerID uint64

func (id PlayerID) String() string { return fmt.Sprintf("%d", uint64(id)) }

// LootItemID identifies a loot item, unique within its map while present.
type LootItemID uint64

func (id LootItemID) String() string { return fmt.Sprintf("%d", uint64(id)) }

// OfficeID identifies an office by its configured string id.
type OfficeID string

func (id OfficeID) String() string { return string(id) }
