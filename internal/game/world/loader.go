package world

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario is a named board snapshot loaded from YAML.
type Scenario struct {
	Name     string
	TileSize float64
	Board    *Board
}

// yamlScenarioFile is the top-level YAML structure for scenario files.
type yamlScenarioFile struct {
	Scenario yamlScenario `yaml:"scenario"`
}

// yamlScenario is the YAML representation of a scenario.
//
// Tiles lists board rows from the top down: '#' solid, '+' health box, '.' open.
type yamlScenario struct {
	Name       string          `yaml:"name"`
	Width      int             `yaml:"width"`
	Height     int             `yaml:"height"`
	Teams      int             `yaml:"teams"`
	TileSize   float64         `yaml:"tile_size"`
	Tiles      []string        `yaml:"tiles"`
	Characters []yamlCharacter `yaml:"characters"`
}

type yamlCharacter struct {
	Name    string         `yaml:"name"`
	Team    int            `yaml:"team"`
	Health  int            `yaml:"health"`
	Stamina int            `yaml:"stamina"`
	X       float64        `yaml:"x"`
	Y       float64        `yaml:"y"`
	Alive   *bool          `yaml:"alive"` // nil = alive
	Ammo    map[string]int `yaml:"ammo"`
}

// LoadScenarioFromFile reads and validates a single scenario YAML file.
//
// Precondition: path must point to a valid YAML scenario file.
// Postcondition: Returns a validated Scenario or a non-nil error.
func LoadScenarioFromFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file %s: %w", path, err)
	}
	return LoadScenarioFromBytes(data)
}

// LoadScenarioFromBytes parses and validates a scenario from YAML bytes.
//
// Postcondition: Returns a validated Scenario or a non-nil error.
func LoadScenarioFromBytes(data []byte) (*Scenario, error) {
	var file yamlScenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}
	if err := file.Scenario.validate(); err != nil {
		return nil, fmt.Errorf("validating scenario: %w", err)
	}
	return convertYAMLScenario(file.Scenario)
}

func (ys yamlScenario) validate() error {
	var errs []string
	if ys.Name == "" {
		errs = append(errs, "name must not be empty")
	}
	if ys.Width <= 0 || ys.Height <= 0 {
		errs = append(errs, fmt.Sprintf("board size must be positive, got %dx%d", ys.Width, ys.Height))
	}
	if ys.Teams < 1 {
		errs = append(errs, fmt.Sprintf("teams must be >= 1, got %d", ys.Teams))
	}
	if ys.TileSize < 0 {
		errs = append(errs, "tile_size must not be negative")
	}
	if len(ys.Tiles) != ys.Height {
		errs = append(errs, fmt.Sprintf("tiles must have %d rows, got %d", ys.Height, len(ys.Tiles)))
	}
	for i, row := range ys.Tiles {
		if len(row) != ys.Width {
			errs = append(errs, fmt.Sprintf("tiles row %d must have %d columns, got %d", i, ys.Width, len(row)))
		}
		if bad := strings.Trim(row, "#+."); bad != "" {
			errs = append(errs, fmt.Sprintf("tiles row %d has unknown cell %q", i, bad[:1]))
		}
	}
	names := make(map[string]struct{}, len(ys.Characters))
	for _, c := range ys.Characters {
		if c.Name == "" {
			errs = append(errs, "character name must not be empty")
		}
		if _, dup := names[c.Name]; dup {
			errs = append(errs, fmt.Sprintf("duplicate character %q", c.Name))
		}
		names[c.Name] = struct{}{}
		if c.Health < 0 || c.Health > 100 {
			errs = append(errs, fmt.Sprintf("character %q: health must be 0-100, got %d", c.Name, c.Health))
		}
		if c.Stamina < 0 {
			errs = append(errs, fmt.Sprintf("character %q: stamina must not be negative", c.Name))
		}
		if c.Team < 0 || c.Team >= ys.Teams {
			errs = append(errs, fmt.Sprintf("character %q: team must be 0-%d, got %d", c.Name, ys.Teams-1, c.Team))
		}
		for w := range c.Ammo {
			if WeaponType(w) != WaterPistol && WeaponType(w) != Mjolnir {
				errs = append(errs, fmt.Sprintf("character %q: unknown weapon %q", c.Name, w))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("scenario %q: %s", ys.Name, strings.Join(errs, "; "))
	}
	return nil
}

// convertYAMLScenario converts the parsed YAML structures into a Board.
func convertYAMLScenario(ys yamlScenario) (*Scenario, error) {
	tileSize := ys.TileSize
	if tileSize == 0 {
		tileSize = DefaultTileSize
	}
	board := NewBoard(ys.Width, ys.Height, ys.Teams)
	for row, line := range ys.Tiles {
		y := ys.Height - 1 - row
		for x, cell := range line {
			switch cell {
			case '#':
				board.SetTile(x, y, TileSolid)
			case '+':
				board.SetTile(x, y, TileHealthBox)
			}
		}
	}
	for _, yc := range ys.Characters {
		alive := yc.Alive == nil || *yc.Alive
		ammo := make(map[WeaponType]int, len(yc.Ammo))
		for w, n := range yc.Ammo {
			ammo[WeaponType(w)] = n
		}
		if err := board.AddCharacter(&Character{
			Name:    yc.Name,
			Team:    yc.Team,
			Health:  yc.Health,
			Stamina: yc.Stamina,
			Pos:     Vec2{X: yc.X, Y: yc.Y},
			Alive:   alive,
			Ammo:    ammo,
		}); err != nil {
			return nil, err
		}
	}
	return &Scenario{Name: ys.Name, TileSize: tileSize, Board: board}, nil
}
