package world

import "fmt"

// Board is an in-memory State used by the CLI and by tests.
//
// Invariant: every tile coordinate lies within [0,width) x [0,height).
type Board struct {
	width  int
	height int
	tiles  map[TileCoord]TileType
	teams  [][]*Character
}

// NewBoard returns an empty board of width x height tiles with teamCount teams.
//
// Precondition: width, height > 0; teamCount >= 1.
func NewBoard(width, height, teamCount int) *Board {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("world.NewBoard: invalid size %dx%d", width, height))
	}
	if teamCount < 1 {
		panic("world.NewBoard: teamCount must be >= 1")
	}
	return &Board{
		width:  width,
		height: height,
		tiles:  make(map[TileCoord]TileType),
		teams:  make([][]*Character, teamCount),
	}
}

// SetTile places a tile of type t at (x, y). Out-of-bounds cells are ignored.
func (b *Board) SetTile(x, y int, t TileType) {
	if !b.inBounds(x, y) {
		return
	}
	b.tiles[TileCoord{X: x, Y: y}] = t
}

// ClearTile turns (x, y) into open space.
func (b *Board) ClearTile(x, y int) {
	delete(b.tiles, TileCoord{X: x, Y: y})
}

// AddCharacter appends c to its team.
//
// Postcondition: returns an error if c.Team is not a valid team index.
func (b *Board) AddCharacter(c *Character) error {
	if c.Team < 0 || c.Team >= len(b.teams) {
		return fmt.Errorf("world.Board: character %q has team %d, board has %d teams", c.Name, c.Team, len(b.teams))
	}
	b.teams[c.Team] = append(b.teams[c.Team], c)
	return nil
}

// FindCharacter returns the character with the given name, or nil.
func (b *Board) FindCharacter(name string) *Character {
	for _, team := range b.teams {
		for _, c := range team {
			if c.Name == name {
				return c
			}
		}
	}
	return nil
}

// Tile implements State.
func (b *Board) Tile(x, y int) (Tile, bool) {
	t, ok := b.tiles[TileCoord{X: x, Y: y}]
	if !ok {
		return Tile{}, false
	}
	return Tile{Coord: TileCoord{X: x, Y: y}, Type: t}, true
}

// BoardSize implements State.
func (b *Board) BoardSize() (int, int) { return b.width, b.height }

// TeamCount implements State.
func (b *Board) TeamCount() int { return len(b.teams) }

// CharactersPerTeam implements State; it reports the size of the largest team.
func (b *Board) CharactersPerTeam() int {
	n := 0
	for _, team := range b.teams {
		if len(team) > n {
			n = len(team)
		}
	}
	return n
}

// Character implements State.
func (b *Board) Character(team, index int) *Character {
	if team < 0 || team >= len(b.teams) {
		return nil
	}
	if index < 0 || index >= len(b.teams[team]) {
		return nil
	}
	return b.teams[team][index]
}

func (b *Board) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}
