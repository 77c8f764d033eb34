package world

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validScenarioYAML = `
scenario:
  name: ridge
  width: 6
  height: 4
  teams: 2
  tiles:
    - "......"
    - "...+.."
    - "..#..."
    - "######"
  characters:
    - name: meowdin
      team: 0
      health: 60
      stamina: 40
      x: 8
      y: 24
      ammo:
        mjolnir: 1
    - name: rival
      team: 1
      health: 80
      x: 72
      y: 24
    - name: ghost
      team: 1
      health: 0
      x: 88
      y: 24
      alive: false
`

func TestLoadScenarioFromBytes_Valid(t *testing.T) {
	sc, err := LoadScenarioFromBytes([]byte(validScenarioYAML))
	require.NoError(t, err)

	assert.Equal(t, "ridge", sc.Name)
	assert.Equal(t, float64(DefaultTileSize), sc.TileSize)

	w, h := sc.Board.BoardSize()
	assert.Equal(t, 6, w)
	assert.Equal(t, 4, h)
	assert.Equal(t, 2, sc.Board.TeamCount())
	assert.Equal(t, 2, sc.Board.CharactersPerTeam())

	// The last YAML row is the bottom of the board.
	for x := 0; x < 6; x++ {
		tile, ok := sc.Board.Tile(x, 0)
		require.True(t, ok, "ground tile at x=%d", x)
		assert.Equal(t, TileSolid, tile.Type)
	}
	tile, ok := sc.Board.Tile(3, 2)
	require.True(t, ok)
	assert.True(t, tile.IsPickup())
	_, ok = sc.Board.Tile(0, 3)
	assert.False(t, ok)

	me := sc.Board.FindCharacter("meowdin")
	require.NotNil(t, me)
	assert.True(t, me.Alive)
	assert.Equal(t, 1, me.Ammo[Mjolnir])
	assert.Equal(t, Vec2{X: 8, Y: 24}, me.Pos)

	ghost := sc.Board.FindCharacter("ghost")
	require.NotNil(t, ghost)
	assert.False(t, ghost.Alive)
}

func TestLoadScenarioFromBytes_InvalidYAML(t *testing.T) {
	_, err := LoadScenarioFromBytes([]byte("not: [valid yaml"))
	assert.Error(t, err)
}

func TestLoadScenarioFromBytes_RowCountMismatch(t *testing.T) {
	yaml := `
scenario:
  name: short
  width: 2
  height: 3
  teams: 1
  tiles:
    - ".."
    - "##"
`
	_, err := LoadScenarioFromBytes([]byte(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tiles must have 3 rows")
}

func TestLoadScenarioFromBytes_UnknownCell(t *testing.T) {
	yaml := `
scenario:
  name: odd
  width: 2
  height: 1
  teams: 1
  tiles:
    - "#x"
`
	_, err := LoadScenarioFromBytes([]byte(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown cell")
}

func TestLoadScenarioFromBytes_CharacterErrors(t *testing.T) {
	yaml := `
scenario:
  name: bad
  width: 1
  height: 1
  teams: 1
  tiles:
    - "."
  characters:
    - name: a
      team: 3
      health: 120
    - name: a
      team: 0
      health: 50
      ammo:
        bazooka: 1
`
	_, err := LoadScenarioFromBytes([]byte(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "health must be 0-100")
	assert.Contains(t, err.Error(), "team must be 0-0")
	assert.Contains(t, err.Error(), "duplicate character")
	assert.Contains(t, err.Error(), "unknown weapon")
}

func TestLoadScenarioFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validScenarioYAML), 0644))

	sc, err := LoadScenarioFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ridge", sc.Name)
}

func TestLoadScenarioFromFile_NotFound(t *testing.T) {
	_, err := LoadScenarioFromFile("/nonexistent/scenario.yaml")
	assert.Error(t, err)
}
