package ballistics

import (
	"math"

	"github.com/cory-johannsen/arcbot/internal/config"
	"github.com/cory-johannsen/arcbot/internal/game/world"
)

// Kind selects the motion model used when tracing a shot.
type Kind int

const (
	// Arc is gravity-affected parabolic flight.
	Arc Kind = iota
	// Line is straight flight with no gravity term.
	Line
)

func (k Kind) String() string {
	switch k {
	case Arc:
		return "arc"
	case Line:
		return "line"
	default:
		return "unknown"
	}
}

// Goal is the point a trace ends at. When Occupies is set the goal sits inside
// tile Cell, and the trace stops on entering that cell without counting it.
type Goal struct {
	Pos      world.Vec2
	Cell     world.TileCoord
	Occupies bool
}

// Direction returns the unit vector for launch angle theta.
func Direction(theta float64) world.Vec2 {
	return world.Vec2{X: math.Cos(theta), Y: math.Sin(theta)}
}

// Tracer samples trajectories against the tile grid. It shares gravity with the
// angle solver so solved angles and traced paths agree.
type Tracer struct {
	gravity    float64
	tileSize   float64
	timeStep   float64
	maxSamples int
}

// NewTracer builds a Tracer from the ballistics configuration.
//
// Precondition: cfg has passed config.Validate.
func NewTracer(cfg config.BallisticsConfig) Tracer {
	return Tracer{
		gravity:    cfg.Gravity,
		tileSize:   cfg.TileSize,
		timeStep:   cfg.TimeStep,
		maxSamples: cfg.MaxSamples,
	}
}

// Gravity returns the downward acceleration the tracer simulates.
func (tr Tracer) Gravity() float64 { return tr.gravity }

// PositionAt returns the projectile position t seconds after launch from p0 at
// speed v and angle theta.
func (tr Tracer) PositionAt(p0 world.Vec2, v, theta, t float64, kind Kind) world.Vec2 {
	x := p0.X + v*t*math.Cos(theta)
	y := p0.Y + v*t*math.Sin(theta)
	if kind == Arc {
		y -= 0.5 * tr.gravity * t * t
	}
	return world.Vec2{X: x, Y: y}
}

// TimeToTarget returns the flight time until the projectile's x coordinate
// equals target.X. The y coordinate at that moment is not checked.
func (tr Tracer) TimeToTarget(p0, target world.Vec2, v, theta float64) float64 {
	return (target.X - p0.X) / (v * math.Cos(theta))
}

// Walk samples the trajectory every time step from launch until it reaches
// target's x coordinate, calling visit with the cell of each sample that lies in
// a different cell than the previous sample. Walk stops when visit returns false.
//
// Postcondition: returns the number of samples taken, at most max_samples.
func (tr Tracer) Walk(p0 world.Vec2, v, theta float64, target world.Vec2, kind Kind, visit func(world.TileCoord) bool) int {
	limit := tr.TimeToTarget(p0, target, v, theta)
	var prev world.TileCoord
	samples := 0
	for i := 0; i < tr.maxSamples; i++ {
		t := float64(i) * tr.timeStep
		if !(t < limit) {
			break
		}
		samples++
		cell := world.ToTileCoord(tr.PositionAt(p0, v, theta, t, kind), tr.tileSize)
		if i > 0 && cell == prev {
			continue
		}
		prev = cell
		if !visit(cell) {
			break
		}
	}
	return samples
}

// Rasterize returns the ordered cells visited by the trajectory, with
// consecutive samples in the same cell collapsed.
func (tr Tracer) Rasterize(p0 world.Vec2, v, theta float64, target world.Vec2, kind Kind) []world.TileCoord {
	var cells []world.TileCoord
	tr.Walk(p0, v, theta, target, kind, func(c world.TileCoord) bool {
		cells = append(cells, c)
		return true
	})
	return cells
}

// CountObstructions returns the number of distinct occupied tiles the
// trajectory enters before reaching goal. Re-entering the most recently counted
// tile is not counted again. A goal occupying its own tile never obstructs itself.
//
// Postcondition: result >= 0; 0 means a clear shot.
func (tr Tracer) CountObstructions(s world.State, p0 world.Vec2, goal Goal, v, theta float64, kind Kind) int {
	count := 0
	var last world.TileCoord
	seen := false
	tr.Walk(p0, v, theta, goal.Pos, kind, func(c world.TileCoord) bool {
		if _, ok := s.Tile(c.X, c.Y); !ok {
			return true
		}
		if goal.Occupies && c == goal.Cell {
			return false
		}
		if seen && c == last {
			return true
		}
		last, seen = c, true
		count++
		return true
	})
	return count
}
