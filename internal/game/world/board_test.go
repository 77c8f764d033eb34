package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_SetTileIgnoresOutOfBounds(t *testing.T) {
	b := NewBoard(4, 4, 1)
	b.SetTile(-1, 0, TileSolid)
	b.SetTile(4, 0, TileSolid)
	b.SetTile(1, 1, TileSolid)

	_, ok := b.Tile(-1, 0)
	assert.False(t, ok)
	tile, ok := b.Tile(1, 1)
	require.True(t, ok)
	assert.Equal(t, TileCoord{X: 1, Y: 1}, tile.Coord)

	b.ClearTile(1, 1)
	_, ok = b.Tile(1, 1)
	assert.False(t, ok)
}

func TestBoard_Characters(t *testing.T) {
	b := NewBoard(4, 4, 2)
	require.NoError(t, b.AddCharacter(&Character{Name: "a", Team: 0}))
	require.NoError(t, b.AddCharacter(&Character{Name: "b", Team: 1}))
	require.NoError(t, b.AddCharacter(&Character{Name: "c", Team: 1}))
	assert.Error(t, b.AddCharacter(&Character{Name: "d", Team: 2}))

	assert.Equal(t, 2, b.CharactersPerTeam())
	assert.Equal(t, "c", b.Character(1, 1).Name)
	assert.Nil(t, b.Character(0, 1), "short team yields nil for missing slot")
	assert.Nil(t, b.Character(5, 0))
	assert.Equal(t, "b", b.FindCharacter("b").Name)
	assert.Nil(t, b.FindCharacter("zed"))
}

func TestNewBoard_PanicsOnInvalidSize(t *testing.T) {
	assert.Panics(t, func() { NewBoard(0, 4, 1) })
	assert.Panics(t, func() { NewBoard(4, 4, 0) })
}

func TestTileAt(t *testing.T) {
	b := NewBoard(4, 4, 1)
	b.SetTile(2, 1, TileHealthBox)
	tile, ok := TileAt(b, Vec2{X: 40, Y: 20}, 16)
	require.True(t, ok)
	assert.True(t, tile.IsPickup())
}
