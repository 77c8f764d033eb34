// Package testutil provides shared board fixtures for package tests.
package testutil

import "github.com/cory-johannsen/arcbot/internal/game/world"

// TileSize is the tile edge length the fixtures are laid out with.
const TileSize = world.DefaultTileSize

// FlatBoard returns a width x height board whose lowest ground rows are solid.
//
// Precondition: 0 <= ground < height.
func FlatBoard(width, height, ground, teams int) *world.Board {
	b := world.NewBoard(width, height, teams)
	for y := 0; y < ground; y++ {
		for x := 0; x < width; x++ {
			b.SetTile(x, y, world.TileSolid)
		}
	}
	return b
}

// Column fills cells (x, y0)..(x, y1) inclusive with tiles of type t.
func Column(b *world.Board, x, y0, y1 int, t world.TileType) {
	for y := y0; y <= y1; y++ {
		b.SetTile(x, y, t)
	}
}

// Standing returns the world position of a character standing in the middle of
// cell (tileX, tileY).
func Standing(tileX, tileY int) world.Vec2 {
	return world.TileCoord{X: tileX, Y: tileY}.Center(TileSize)
}

// Place adds a living character to b and returns it.
func Place(b *world.Board, name string, team, health int, pos world.Vec2) *world.Character {
	c := &world.Character{
		Name:    name,
		Team:    team,
		Health:  health,
		Stamina: 100,
		Pos:     pos,
		Alive:   true,
		Ammo:    map[world.WeaponType]int{},
	}
	if err := b.AddCharacter(c); err != nil {
		panic(err)
	}
	return c
}

// CountingState wraps a State and counts Tile lookups.
type CountingState struct {
	world.State
	Lookups int
}

// Tile implements world.State.
func (c *CountingState) Tile(x, y int) (world.Tile, bool) {
	c.Lookups++
	return c.State.Tile(x, y)
}
