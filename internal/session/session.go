// Package session owns the players, dogs, auth tokens, and the indices
// mapping token→player, player-id→player, dog-id→dog. It is the single
// authority on identity; callers elsewhere borrow references to Player and
// Dog values only while holding the façade's lock.
package session

import (
	"fmt"

	"github.com/lostandfound/server/internal/geometry"
	"github.com/lostandfound/server/internal/ids"
)

// Dog is a player's avatar: the moving, colliding, loot-carrying entity.
type Dog struct {
	ID       ids.DogID
	Owner    string
	MapID    ids.MapID
	Position geometry.Position
	Velocity geometry.Velocity
	Facing   geometry.Direction
	Bag      Bag
	Score    int
}

// AddScore credits points, e.g. from an office return.
func (d *Dog) AddScore(points float64) {
	d.Score += int(points)
}

// Player is the durable identity behind a Dog: a display name, the dog it
// controls, the map it's playing on, and the auth token that names it.
type Player struct {
	ID    ids.PlayerID
	Name  string
	DogID ids.DogID
	MapID ids.MapID
	Token string
}

// Registry is the session index: it owns the Players and Dogs sequences
// and keeps the token/player-id/dog-id indices consistent with them.
type Registry struct {
	players []Player
	dogs    []*Dog

	tokenIndex    map[string]int
	playerIDIndex map[ids.PlayerID]int
	dogIDIndex    map[ids.DogID]int

	nextPlayerID ids.PlayerID
	nextDogID    ids.DogID
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{
		tokenIndex:    make(map[string]int),
		playerIDIndex: make(map[ids.PlayerID]int),
		dogIDIndex:    make(map[ids.DogID]int),
	}
}

// Join creates a new Player and Dog, assigns a fresh token, and records all
// three index entries. The caller has already validated user_name and
// map_id and resolved the spawn position and per-map speed/bag capacity.
func (r *Registry) Join(userName string, mapID ids.MapID, spawn geometry.Position, bagCapacity int) (token string, playerID ids.PlayerID, dogID ids.DogID, err error) {
	token, err = GenerateToken()
	if err != nil {
		return "", 0, 0, err
	}

	dogID = r.nextDogID
	r.nextDogID++

	dog := &Dog{
		ID:       dogID,
		Owner:    userName,
		MapID:    mapID,
		Position: spawn,
		Facing:   geometry.DirNorth,
		Bag:      NewBag(bagCapacity),
	}
	r.dogs = append(r.dogs, dog)

	playerID = r.nextPlayerID
	r.nextPlayerID++

	player := Player{ID: playerID, Name: userName, DogID: dogID, MapID: mapID, Token: token}
	r.players = append(r.players, player)

	r.tokenIndex[token] = len(r.players) - 1
	r.playerIDIndex[playerID] = len(r.players) - 1
	r.dogIDIndex[dogID] = len(r.dogs) - 1

	return token, playerID, dogID, nil
}

// FindByToken looks up a player by auth token.
func (r *Registry) FindByToken(token string) (Player, bool) {
	idx, ok := r.tokenIndex[token]
	if !ok || idx >= len(r.players) {
		return Player{}, false
	}
	return r.players[idx], true
}

// FindPlayer looks up a player by id.
func (r *Registry) FindPlayer(id ids.PlayerID) (Player, bool) {
	idx, ok := r.playerIDIndex[id]
	if !ok || idx >= len(r.players) {
		return Player{}, false
	}
	return r.players[idx], true
}

// FindDog looks up a dog by id, returning the live pointer so callers can
// mutate its position, velocity and bag in place.
func (r *Registry) FindDog(id ids.DogID) (*Dog, bool) {
	idx, ok := r.dogIDIndex[id]
	if !ok || idx >= len(r.dogs) {
		return nil, false
	}
	return r.dogs[idx], true
}

// PlayersOnMap returns every player sharing the given map, in sequence
// order.
func (r *Registry) PlayersOnMap(mapID ids.MapID) []Player {
	var out []Player
	for _, p := range r.players {
		if p.MapID == mapID {
			out = append(out, p)
		}
	}
	return out
}

// AllDogs returns the live dog sequence, in stable order, for the tick
// loop to iterate.
func (r *Registry) AllDogs() []*Dog {
	return r.dogs
}

// AllPlayers returns a snapshot of the player sequence.
func (r *Registry) AllPlayers() []Player {
	out := make([]Player, len(r.players))
	copy(out, r.players)
	return out
}

// move translates a move code into a velocity/facing pair at the given
// per-map dog speed. ok is false for an unrecognized code.
func move(code string, speed float64, currentFacing geometry.Direction) (geometry.Velocity, geometry.Direction, bool) {
	switch code {
	case "L":
		return geometry.Velocity{VX: -speed}, geometry.DirWest, true
	case "R":
		return geometry.Velocity{VX: speed}, geometry.DirEast, true
	case "U":
		return geometry.Velocity{VY: -speed}, geometry.DirNorth, true
	case "D":
		return geometry.Velocity{VY: speed}, geometry.DirSouth, true
	case "":
		return geometry.Velocity{}, currentFacing, true
	default:
		return geometry.Velocity{}, "", false
	}
}

// SetAction applies a move code to the player's dog at the given per-map
// dog speed. It returns false for an unrecognized move code, leaving the
// dog untouched.
func (r *Registry) SetAction(playerID ids.PlayerID, moveCode string, dogSpeed float64) (bool, error) {
	player, ok := r.FindPlayer(playerID)
	if !ok {
		return false, fmt.Errorf("player %s not found", playerID)
	}
	dog, ok := r.FindDog(player.DogID)
	if !ok {
		return false, fmt.Errorf("dog %s not found", player.DogID)
	}

	velocity, facing, ok := move(moveCode, dogSpeed, dog.Facing)
	if !ok {
		return false, nil
	}

	dog.Velocity = velocity
	dog.Facing = facing
	return true, nil
}

// Remove excises a player and its dog from every index and from the
// Players/Dogs sequences. Used only by the retirement controller.
func (r *Registry) Remove(playerID ids.PlayerID) bool {
	player, ok := r.FindPlayer(playerID)
	if !ok {
		return false
	}

	delete(r.tokenIndex, player.Token)
	delete(r.playerIDIndex, playerID)
	delete(r.dogIDIndex, player.DogID)

	r.players = filterPlayers(r.players, playerID)
	r.dogs = filterDogs(r.dogs, player.DogID)

	r.rebuildIndices()
	return true
}

func filterPlayers(players []Player, exclude ids.PlayerID) []Player {
	out := players[:0:0]
	for _, p := range players {
		if p.ID != exclude {
			out = append(out, p)
		}
	}
	return out
}

func filterDogs(dogs []*Dog, exclude ids.DogID) []*Dog {
	out := dogs[:0:0]
	for _, d := range dogs {
		if d.ID != exclude {
			out = append(out, d)
		}
	}
	return out
}

// rebuildIndices recomputes all three indices from the current sequences.
// Removal from an ordered sequence shifts every later element's position,
// so the index-by-position maps must be rebuilt rather than patched.
// Keying the sequences by surrogate id instead would avoid the rebuild.
func (r *Registry) rebuildIndices() {
	r.tokenIndex = make(map[string]int, len(r.players))
	r.playerIDIndex = make(map[ids.PlayerID]int, len(r.players))
	for i, p := range r.players {
		r.tokenIndex[p.Token] = i
		r.playerIDIndex[p.ID] = i
	}

	r.dogIDIndex = make(map[ids.DogID]int, len(r.dogs))
	for i, d := range r.dogs {
		r.dogIDIndex[d.ID] = i
	}
}
