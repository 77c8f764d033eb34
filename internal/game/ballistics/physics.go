// Package ballistics solves launch velocities and angles for a projectile fired
// under constant gravity, and traces the resulting trajectory across the tile grid.
//
// All functions take offsets relative to the launch point with Y growing upward,
// and gravity g as a positive downward acceleration.
package ballistics

import (
	"errors"
	"math"
)

// ErrNoSolution is returned when no launch angle reaches the offset at the
// requested velocity.
var ErrNoSolution = errors.New("ballistics: velocity too low to reach target")

// degenerateTolerance is the relative size of the discriminant, compared to v^4,
// below which the high and low arcs are treated as one.
const degenerateTolerance = 1e-9

// MinimalVelocity returns the smallest launch speed for which some angle reaches
// the offset (dx, dy).
//
// Postcondition: result >= 0. Callers treat a result above the weapon's maximum
// velocity as unreachable.
func MinimalVelocity(dx, dy, g float64) float64 {
	return math.Sqrt(g * (dy + math.Hypot(dx, dy)))
}

// MinimalAngle returns the single launch angle that reaches horizontal offset dx
// when fired at exactly the minimal velocity v.
func MinimalAngle(v, dx, g float64) float64 {
	return math.Atan2(v*v, g*dx)
}

// LaunchAngles returns the high and low arc angles, in that order, that reach
// (dx, dy) at speed v. When v is the minimal velocity the two arcs coincide and
// a single angle is returned.
//
// Precondition: dx != 0.
// Postcondition: returns one or two angles, or ErrNoSolution when v is below
// the minimal velocity.
func LaunchAngles(v, dx, dy, g float64) ([]float64, error) {
	v2 := v * v
	v4 := v2 * v2
	disc := v4 - g*(g*dx*dx+2*dy*v2)
	if math.Abs(disc) <= degenerateTolerance*v4 {
		return []float64{MinimalAngle(v, dx, g)}, nil
	}
	if disc < 0 || math.IsNaN(disc) {
		return nil, ErrNoSolution
	}
	delta := math.Sqrt(disc)
	high := math.Atan2(v2+delta, g*dx)
	low := math.Atan2(v2-delta, g*dx)
	return []float64{high, low}, nil
}
