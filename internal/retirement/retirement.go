// Package retirement tracks each player's idle time and join time, and
// decides when a player has been idle long enough to retire.
package retirement

import (
	"time"

	"github.com/lostandfound/server/internal/ids"
)

// Meta is the per-player bookkeeping the retirement controller needs,
// kept distinct from session.Player: join time and idle tracking have no
// bearing on identity or indexing.
type Meta struct {
	JoinTime      time.Time
	IdleStartTime time.Time
	Retired       bool
}

// Controller tracks Meta for every active player.
type Controller struct {
	idleThreshold time.Duration
	meta          map[ids.PlayerID]*Meta
}

// NewController creates a retirement controller with the given idle
// threshold (dog_retirement_time).
func NewController(idleThreshold time.Duration) *Controller {
	return &Controller{
		idleThreshold: idleThreshold,
		meta:          make(map[ids.PlayerID]*Meta),
	}
}

// OnJoin starts tracking a newly joined player as of now.
func (c *Controller) OnJoin(playerID ids.PlayerID, now time.Time) {
	c.meta[playerID] = &Meta{JoinTime: now}
}

// OnAction records that the player's dog just became idle or non-idle.
// Movement clears idle-start-time; stopping sets it to now unless already
// set, per the "stopping is itself idle from this moment on" rule.
func (c *Controller) OnAction(playerID ids.PlayerID, idle bool, now time.Time) {
	m, ok := c.meta[playerID]
	if !ok {
		return
	}
	if idle {
		if m.IdleStartTime.IsZero() {
			m.IdleStartTime = now
		}
		return
	}
	m.IdleStartTime = time.Time{}
}

// PlayTime reports how long the player has been joined, as of now.
func (c *Controller) PlayTime(playerID ids.PlayerID, now time.Time) time.Duration {
	m, ok := c.meta[playerID]
	if !ok {
		return 0
	}
	return now.Sub(m.JoinTime)
}

// DueForRetirement reports the player ids whose idle duration has reached
// the configured threshold, in index order, skipping anyone already
// retired.
func (c *Controller) DueForRetirement(order []ids.PlayerID, now time.Time) []ids.PlayerID {
	var due []ids.PlayerID
	for _, id := range order {
		m, ok := c.meta[id]
		if !ok || m.Retired {
			continue
		}
		if m.IdleStartTime.IsZero() {
			continue
		}
		if now.Sub(m.IdleStartTime) >= c.idleThreshold {
			due = append(due, id)
		}
	}
	return due
}

// MarkRetired flags a player as retired and idempotently reports whether
// this call actually performed the transition: a second call for the same
// player id is a no-op returning false.
func (c *Controller) MarkRetired(playerID ids.PlayerID) bool {
	m, ok := c.meta[playerID]
	if !ok || m.Retired {
		return false
	}
	m.Retired = true
	return true
}

// Forget drops all bookkeeping for a player once it has been fully
// removed from the session registry.
func (c *Controller) Forget(playerID ids.PlayerID) {
	delete(c.meta, playerID)
}
