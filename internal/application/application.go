// Package application provides the single-writer façade that owns the
// world and session registry and serializes every mutation — HTTP
// request or tick — behind one exclusive lock.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/lostandfound/server/internal/collision"
	"github.com/lostandfound/server/internal/geometry"
	"github.com/lostandfound/server/internal/ids"
	"github.com/lostandfound/server/internal/loot"
	"github.com/lostandfound/server/internal/motion"
	"github.com/lostandfound/server/internal/records"
	"github.com/lostandfound/server/internal/retirement"
	apperrors "github.com/lostandfound/server/internal/shared/errors"
	"github.com/lostandfound/server/internal/session"
	"github.com/lostandfound/server/internal/world"
)

// PlayerView is a read-only snapshot of a player and its dog, safe to
// hand to a caller after the façade's lock has been released.
type PlayerView struct {
	PlayerID ids.PlayerID
	Name     string
	DogID    ids.DogID
	MapID    ids.MapID
	Position geometry.Position
	Velocity geometry.Velocity
	Facing   geometry.Direction
	Score    int
	Bag      []session.BagItem
}

// Application is the sole mutable owner of the world and session state.
type Application struct {
	mu sync.Mutex

	world      *world.World
	registry   *session.Registry
	retirement *retirement.Controller
	sink       records.Sink
	rng        *rand.Rand
	logger     *slog.Logger

	randomizeSpawnPoints bool
	retirementCallback   RetirementCallback
}

// New creates a façade over an already-loaded world. rng is used only
// for randomized spawn point sampling; pass a process-wide source, not
// one seeded per call.
func New(w *world.World, sink records.Sink, rng *rand.Rand, logger *slog.Logger) *Application {
	return &Application{
		world:                w,
		registry:             session.NewRegistry(),
		retirement:           retirement.NewController(time.Duration(w.DogRetirementSeconds * float64(time.Second))),
		sink:                 sink,
		rng:                  rng,
		logger:               logger.With("component", "application"),
		randomizeSpawnPoints: w.RandomizeSpawnPoints,
	}
}

// JoinGame creates a new player and dog on the named map. user_name must
// be non-empty and map_id must resolve to a known map.
func (a *Application) JoinGame(userName string, mapID ids.MapID) (token string, playerID ids.PlayerID, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if userName == "" {
		return "", 0, apperrors.Validation("user_name must not be empty")
	}

	m, ok := a.world.FindMap(mapID)
	if !ok {
		return "", 0, apperrors.Validation(fmt.Sprintf("unknown map %q", mapID))
	}

	spawn, err := a.spawnPosition(m)
	if err != nil {
		return "", 0, apperrors.WrapConfiguration("failed to resolve spawn position", err)
	}

	bagCapacity := m.BagCapacity
	if bagCapacity == 0 {
		bagCapacity = a.world.DefaultBagCapacity
	}

	token, playerID, _, err = a.registry.Join(userName, mapID, spawn, bagCapacity)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create session: %w", err)
	}

	a.retirement.OnJoin(playerID, time.Now())
	return token, playerID, nil
}

func (a *Application) spawnPosition(m *world.Map) (geometry.Position, error) {
	if a.randomizeSpawnPoints {
		return m.RandomDogPosition(a.rng)
	}
	return m.DefaultDogPosition()
}

// FindPlayerByToken resolves a session token to a player view, or
// Unauthorized if the token is unknown (including retired tokens, which
// have already been removed from the registry).
func (a *Application) FindPlayerByToken(token string) (PlayerView, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	player, ok := a.registry.FindByToken(token)
	if !ok {
		return PlayerView{}, apperrors.Unauthorized("unknown or retired session token")
	}
	return a.viewOf(player), nil
}

// PlayersOnSameMap returns every player sharing the map of the player
// named by token, or Unauthorized if the token is unknown.
func (a *Application) PlayersOnSameMap(token string) ([]PlayerView, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	player, ok := a.registry.FindByToken(token)
	if !ok {
		return nil, apperrors.Unauthorized("unknown or retired session token")
	}

	var views []PlayerView
	for _, p := range a.registry.PlayersOnMap(player.MapID) {
		views = append(views, a.viewOf(p))
	}
	return views, nil
}

func (a *Application) viewOf(p session.Player) PlayerView {
	view := PlayerView{PlayerID: p.ID, Name: p.Name, DogID: p.DogID, MapID: p.MapID}
	if dog, ok := a.registry.FindDog(p.DogID); ok {
		view.Position = dog.Position
		view.Velocity = dog.Velocity
		view.Facing = dog.Facing
		view.Score = dog.Score
		view.Bag = dog.Bag.Items()
	}
	return view
}

// SetPlayerAction applies a move code to the player's dog. ok is false
// for an unrecognized move code.
func (a *Application) SetPlayerAction(token, moveCode string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	player, ok := a.registry.FindByToken(token)
	if !ok {
		return false, apperrors.Unauthorized("unknown or retired session token")
	}

	m, ok := a.world.FindMap(player.MapID)
	if !ok {
		return false, apperrors.WorldInvariant(fmt.Sprintf("player on unknown map %q", player.MapID))
	}
	speed := m.DogSpeed
	if speed == 0 {
		speed = a.world.DefaultDogSpeed
	}

	applied, err := a.registry.SetAction(player.ID, moveCode, speed)
	if err != nil || !applied {
		return applied, err
	}

	a.retirement.OnAction(player.ID, moveCode == "", time.Now())
	return true, nil
}

// RetirementCallback is invoked with a retired player's final tuple,
// after the record has already been (attempted to be) persisted.
type RetirementCallback func(name string, score int, playTime time.Duration)

// SetRetirementCallback installs a hook fired synchronously, under the
// façade's lock, each time a player is retired during a tick.
func (a *Application) SetRetirementCallback(cb RetirementCallback) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.retirementCallback = cb
}

// Tick advances the simulation by delta: motion, collisions, loot
// regeneration, then retirement checks, in that order, for every dog in
// stable sequence order.
func (a *Application) Tick(ctx context.Context, delta time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()

	deltaSeconds := delta.Seconds()

	for _, dog := range a.registry.AllDogs() {
		a.moveDog(dog, deltaSeconds)
	}

	loot.Generate(a.world)
	a.checkRetirement(ctx, delta)
}

// moveDog mirrors the original UpdateGameState structure: the move is
// computed (a no-op when velocity is zero), but collisions are always
// resolved against the resulting segment, even a zero-length one — a
// dog parked on top of a freshly restocked item or sitting in an
// office still needs to register that overlap on an idle tick.
func (a *Application) moveDog(dog *session.Dog, deltaSeconds float64) {
	m, ok := a.world.FindMap(dog.MapID)
	if !ok {
		return
	}

	start := dog.Position
	end := start

	if !dog.Velocity.IsZero() {
		result, err := motion.Constrain(m, start, dog.Velocity, deltaSeconds)
		if err != nil {
			a.logger.Error("world invariant violated while moving dog", "error", err, "dog", dog.ID, "map", dog.MapID)
			return
		}

		dog.Position = result.End
		if result.Clipped {
			dog.Velocity = geometry.Velocity{}
		}
		end = result.End
	}

	collision.Resolve(m, dog, start, end)
}

func (a *Application) checkRetirement(ctx context.Context, delta time.Duration) {
	players := a.registry.AllPlayers()
	order := make([]ids.PlayerID, len(players))
	for i, p := range players {
		order[i] = p.ID
	}

	now := time.Now()
	due := a.retirement.DueForRetirement(order, now)
	for _, playerID := range due {
		a.retirePlayer(ctx, playerID, now)
	}
}

func (a *Application) retirePlayer(ctx context.Context, playerID ids.PlayerID, now time.Time) {
	if !a.retirement.MarkRetired(playerID) {
		return
	}

	player, ok := a.registry.FindPlayer(playerID)
	if !ok {
		a.retirement.Forget(playerID)
		return
	}
	dog, _ := a.registry.FindDog(player.DogID)

	playTime := a.retirement.PlayTime(playerID, now)
	score := 0
	if dog != nil {
		score = dog.Score
	}

	if a.sink != nil {
		if err := a.sink.Add(ctx, player.Name, score, playTime); err != nil {
			// SinkUnavailable already pushed the record onto the sink's own
			// pending-retry queue; session state must not block on it.
			a.logger.Warn("records sink append failed, queued for retry", "error", err, "player", player.Name)
		}
	}

	if a.retirementCallback != nil {
		a.retirementCallback(player.Name, score, playTime)
	}

	a.registry.Remove(playerID)
	a.retirement.Forget(playerID)
}

// GetRecords is a thin wrapper over the records sink's ranked query.
func (a *Application) GetRecords(ctx context.Context, start, max int) ([]records.Record, error) {
	if a.sink == nil {
		return nil, apperrors.SinkUnavailable("records sink not configured", nil)
	}
	return a.sink.Top(ctx, start, max)
}
