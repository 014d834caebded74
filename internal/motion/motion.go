// Package motion implements the road-constrained motion rule: given a
// starting position already on a map's road network, a velocity and a time
// step, it computes the position the dog actually ends up at and whether
// that motion was clipped by a road boundary.
package motion

import (
	"math"

	"github.com/lostandfound/server/internal/geometry"
	apperrors "github.com/lostandfound/server/internal/shared/errors"
	"github.com/lostandfound/server/internal/world"
)

// Result is the outcome of constraining one dog's motion for one tick.
type Result struct {
	End     geometry.Position
	Clipped bool
}

// Constrain computes the final position of a move from start with the
// given velocity over delta seconds, clipped to the road network of m.
//
// Zero velocity is a no-op: (start, false). A start point that lies on no
// road strip is an invariant violation — the caller must never have let a
// dog wander off the road network, so this returns a WorldInvariant error
// rather than silently teleporting the dog anywhere.
func Constrain(m *world.Map, start geometry.Position, v geometry.Velocity, delta float64) (Result, error) {
	if v.IsZero() {
		return Result{End: start, Clipped: false}, nil
	}

	containing := m.RoadsContaining(start)
	if len(containing) == 0 {
		return Result{}, apperrors.WorldInvariant("dog position is not on any road strip")
	}

	target := geometry.Position{
		X: start.X + v.VX*delta,
		Y: start.Y + v.VY*delta,
	}

	best := containing[0].Rectangle().Clip(target)
	bestDist := math.Hypot(best.X-start.X, best.Y-start.Y)

	for _, road := range containing[1:] {
		candidate := road.Rectangle().Clip(target)
		dist := math.Hypot(candidate.X-start.X, candidate.Y-start.Y)
		if dist > bestDist {
			best = candidate
			bestDist = dist
		}
	}

	clipped := best != target
	return Result{End: best, Clipped: clipped}, nil
}
