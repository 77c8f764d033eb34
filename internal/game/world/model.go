// Package world provides the board snapshot the bot reads each turn: tiles,
// characters, weapons, and the State interface the host implements.
package world

import (
	"fmt"
	"math"
)

// DefaultTileSize is the edge length of one grid cell in world units.
const DefaultTileSize = 16

// Vec2 is a point or direction in continuous world coordinates. Y grows upward.
type Vec2 struct {
	X float64
	Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Dist returns the Euclidean distance between v and o.
func (v Vec2) Dist(o Vec2) float64 { return v.Sub(o).Len() }

func (v Vec2) String() string { return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Y) }

// TileCoord is an integer grid cell.
type TileCoord struct {
	X int
	Y int
}

// ToTileCoord maps a world position to its grid cell by dividing each axis by
// tileSize and truncating toward zero.
//
// Precondition: tileSize > 0.
func ToTileCoord(p Vec2, tileSize float64) TileCoord {
	return TileCoord{X: int(p.X / tileSize), Y: int(p.Y / tileSize)}
}

// Below returns the cell directly beneath c.
func (c TileCoord) Below() TileCoord { return TileCoord{X: c.X, Y: c.Y - 1} }

// Center returns the world position of the middle of c.
func (c TileCoord) Center(tileSize float64) Vec2 {
	return Vec2{X: (float64(c.X) + 0.5) * tileSize, Y: (float64(c.Y) + 0.5) * tileSize}
}

// TileType tags the kind of terrain occupying a cell.
type TileType string

const (
	// TileSolid is ordinary blocking terrain.
	TileSolid TileType = "solid"
	// TileHealthBox is a pickup that heals the character whose shot hits it.
	TileHealthBox TileType = "health_box"
)

// Tile is a present terrain cell. A cell without a Tile is open space.
// Two tiles are the same tile when their coordinates are equal.
type Tile struct {
	Coord TileCoord
	Type  TileType
}

// IsPickup reports whether t is a health box.
func (t Tile) IsPickup() bool { return t.Type == TileHealthBox }

// WeaponType identifies a weapon in a character's inventory.
type WeaponType string

const (
	// WaterPistol is the default arcing weapon. Its ammo is unlimited.
	WaterPistol WeaponType = "water_pistol"
	// Mjolnir is the high-damage straight-line weapon.
	Mjolnir WeaponType = "mjolnir"
)

// WeaponSpec holds the fixed per-shot properties of a weapon type.
type WeaponSpec struct {
	Type   WeaponType
	Damage int
	// Range is the maximum effective distance in world units; 0 means unbounded.
	Range float64
}

// InRange reports whether a target at distance d is within w's effective range.
func (w WeaponSpec) InRange(d float64) bool {
	return w.Range <= 0 || d <= w.Range
}

// Character is one playable unit on the board.
type Character struct {
	Name    string
	Team    int
	Health  int // 0-100
	Stamina int // movement budget in world units
	Pos     Vec2
	Alive   bool
	// Ammo holds remaining shots per limited weapon. WaterPistol is never tracked.
	Ammo map[WeaponType]int
}

// HasAmmo reports whether c can fire w this turn.
func (c *Character) HasAmmo(w WeaponType) bool {
	if w == WaterPistol {
		return true
	}
	return c.Ammo[w] > 0
}

// State is the read-only world snapshot supplied by the host each turn.
type State interface {
	// Tile returns the tile at grid cell (x, y), or false for open space.
	Tile(x, y int) (Tile, bool)
	// BoardSize returns the board dimensions in tiles.
	BoardSize() (width, height int)
	TeamCount() int
	CharactersPerTeam() int
	// Character returns the index-th character of team, or nil if absent.
	Character(team, index int) *Character
}

// TileAt looks up the tile containing world position p.
func TileAt(s State, p Vec2, tileSize float64) (Tile, bool) {
	c := ToTileCoord(p, tileSize)
	return s.Tile(c.X, c.Y)
}
