// Package ai chooses one action per turn for an artillery-style character:
// which target to engage, with which weapon, from which position, and at what
// angle and strength.
//
// A turn runs in four phases. The Selector ranks candidate targets, the
// Optimizer searches firing positions, speeds and arcs for the least obstructed
// shot at each, and the Decider picks a plan and commits it through a Controller.
package ai

import (
	"github.com/cory-johannsen/arcbot/internal/game/ballistics"
	"github.com/cory-johannsen/arcbot/internal/game/world"
)

// TargetKind names the variant of a Target.
type TargetKind string

const (
	// KindEnemy is a living character on another team.
	KindEnemy TargetKind = "enemy"
	// KindPickup is a health box tile.
	KindPickup TargetKind = "pickup"
)

// Target is either an EnemyTarget or a PickupTarget. Use a type switch to
// reach the payload.
type Target interface {
	// Position returns the world point a shot at this target aims for.
	Position() world.Vec2
	Kind() TargetKind
	goal() ballistics.Goal
}

// EnemyTarget is an opposing character.
type EnemyTarget struct {
	Character *world.Character
}

// Position implements Target.
func (e EnemyTarget) Position() world.Vec2 { return e.Character.Pos }

// Kind implements Target.
func (e EnemyTarget) Kind() TargetKind { return KindEnemy }

func (e EnemyTarget) goal() ballistics.Goal {
	return ballistics.Goal{Pos: e.Character.Pos}
}

// PickupTarget is a health box. Shots aim at the centre of its tile.
type PickupTarget struct {
	Tile   world.Tile
	center world.Vec2
}

// NewPickupTarget returns a target aimed at the centre of tile.
func NewPickupTarget(tile world.Tile, tileSize float64) PickupTarget {
	return PickupTarget{Tile: tile, center: tile.Coord.Center(tileSize)}
}

// Position implements Target.
func (p PickupTarget) Position() world.Vec2 { return p.center }

// Kind implements Target.
func (p PickupTarget) Kind() TargetKind { return KindPickup }

func (p PickupTarget) goal() ballistics.Goal {
	return ballistics.Goal{Pos: p.center, Cell: p.Tile.Coord, Occupies: true}
}
