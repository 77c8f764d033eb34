package ai

import (
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arcbot/internal/config"
	"github.com/cory-johannsen/arcbot/internal/game/ballistics"
	"github.com/cory-johannsen/arcbot/internal/game/world"
)

// ShotPlan is one firing solution: where to move, how to aim, and what to fire.
type ShotPlan struct {
	// Obstructions is the number of tiles the shot passes through; 0 is a clear shot.
	Obstructions int
	// Direction is the unit launch vector.
	Direction world.Vec2
	// Angle is the launch angle in radians.
	Angle float64
	// Velocity is the launch speed in world units per second.
	Velocity float64
	// Strength is Velocity as a fraction of the maximum velocity.
	Strength float64
	// MoveOffset is the lateral move, in world units, made before firing.
	MoveOffset int
	Weapon     world.WeaponType
}

// Optimizer searches firing positions, launch speeds and arcs for the least
// obstructed shot at a single target.
//
// Invariant: the solver and the tracer share one gravity constant.
type Optimizer struct {
	ballistics config.BallisticsConfig
	strategy   config.StrategyConfig
	weapons    map[world.WeaponType]world.WeaponSpec
	tracer     ballistics.Tracer
	logger     *zap.Logger
}

// NewOptimizer constructs an Optimizer. A nil logger disables logging.
//
// Precondition: cfg has passed config.Validate.
func NewOptimizer(cfg config.Config, logger *zap.Logger) *Optimizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Optimizer{
		ballistics: cfg.Ballistics,
		strategy:   cfg.Strategy,
		weapons:    WeaponCatalog(cfg.Weapons),
		tracer:     ballistics.NewTracer(cfg.Ballistics),
		logger:     logger,
	}
}

// Offsets returns the lateral offsets to try, in search order: 0, then rightward
// offsets by increasing distance, then leftward. Each direction stops at the
// first cell the character could not stand in, or at the movement bound.
//
// Postcondition: result[0] == 0.
func (o *Optimizer) Offsets(s world.State, pos world.Vec2, stamina int) []int {
	bound := o.strategy.MovementBound
	if o.strategy.StaminaGated && stamina < bound {
		bound = stamina
	}
	offsets := []int{0}
	for _, dir := range []int{1, -1} {
		for d := o.strategy.MoveStep; d <= bound; d += o.strategy.MoveStep {
			if !o.canStand(s, pos.Add(world.Vec2{X: float64(dir * d)})) {
				break
			}
			offsets = append(offsets, dir*d)
		}
	}
	return offsets
}

// canStand reports whether p lies in an open cell directly above an occupied one.
func (o *Optimizer) canStand(s world.State, p world.Vec2) bool {
	cell := world.ToTileCoord(p, o.ballistics.TileSize)
	if _, blocked := s.Tile(cell.X, cell.Y); blocked {
		return false
	}
	below := cell.Below()
	_, floor := s.Tile(below.X, below.Y)
	return floor
}

// BestShot returns the least obstructed arcing shot with the default weapon
// from any reachable standing position. The search returns as soon as a clear
// shot is found; among equally obstructed shots the first found wins.
//
// Postcondition: returns false when no standing position can reach target.
func (o *Optimizer) BestShot(s world.State, pos world.Vec2, stamina int, target Target) (ShotPlan, bool) {
	g := o.tracer.Gravity()
	maxV := o.ballistics.MaxVelocity
	n := o.ballistics.VelocitySamples
	if n < 2 {
		n = 2
	}
	weapon := o.weapons[world.WaterPistol]
	goal := target.goal()

	var best ShotPlan
	found := false
	for _, offset := range o.Offsets(s, pos, stamina) {
		from := pos.Add(world.Vec2{X: float64(offset)})
		rel := goal.Pos.Sub(from)
		if rel.X == 0 || !weapon.InRange(rel.Len()) {
			continue
		}
		vmin := ballistics.MinimalVelocity(rel.X, rel.Y, g)
		if vmin > maxV {
			continue
		}
		for i := 0; i < n; i++ {
			v := vmin + (maxV-vmin)*float64(i)/float64(n-1)
			var angles []float64
			if i == 0 {
				angles = []float64{ballistics.MinimalAngle(v, rel.X, g)}
			} else {
				var err error
				if angles, err = ballistics.LaunchAngles(v, rel.X, rel.Y, g); err != nil {
					continue
				}
			}
			for _, theta := range angles {
				obstructions := o.tracer.CountObstructions(s, from, goal, v, theta, ballistics.Arc)
				if found && obstructions >= best.Obstructions {
					continue
				}
				best = o.plan(world.WaterPistol, obstructions, offset, v, theta)
				found = true
				if obstructions == 0 {
					o.logResult(target, best, true)
					return best, true
				}
			}
		}
	}
	o.logResult(target, best, found)
	return best, found
}

// BestLineShot returns a clear straight shot with the Mjolnir at full strength
// from the first standing position that has one. Obstructed line shots are
// never accepted.
func (o *Optimizer) BestLineShot(s world.State, pos world.Vec2, stamina int, target Target) (ShotPlan, bool) {
	weapon := o.weapons[world.Mjolnir]
	goal := target.goal()
	for _, offset := range o.Offsets(s, pos, stamina) {
		from := pos.Add(world.Vec2{X: float64(offset)})
		rel := goal.Pos.Sub(from)
		if rel.X == 0 || !weapon.InRange(rel.Len()) {
			continue
		}
		theta := math.Atan2(rel.Y, rel.X)
		if o.tracer.CountObstructions(s, from, goal, o.ballistics.MaxVelocity, theta, ballistics.Line) == 0 {
			plan := o.plan(world.Mjolnir, 0, offset, o.ballistics.MaxVelocity, theta)
			o.logResult(target, plan, true)
			return plan, true
		}
	}
	o.logResult(target, ShotPlan{Weapon: world.Mjolnir}, false)
	return ShotPlan{}, false
}

func (o *Optimizer) plan(w world.WeaponType, obstructions, offset int, v, theta float64) ShotPlan {
	return ShotPlan{
		Obstructions: obstructions,
		Direction:    ballistics.Direction(theta),
		Angle:        theta,
		Velocity:     v,
		Strength:     v / o.ballistics.MaxVelocity,
		MoveOffset:   offset,
		Weapon:       w,
	}
}

func (o *Optimizer) logResult(target Target, plan ShotPlan, found bool) {
	if !found {
		o.logger.Debug("no shot found",
			zap.String("target", string(target.Kind())),
			zap.Stringer("target_pos", target.Position()),
			zap.String("weapon", string(plan.Weapon)),
		)
		return
	}
	o.logger.Debug("shot found",
		zap.String("target", string(target.Kind())),
		zap.Stringer("target_pos", target.Position()),
		zap.String("weapon", string(plan.Weapon)),
		zap.Int("obstructions", plan.Obstructions),
		zap.Int("move", plan.MoveOffset),
		zap.Float64("strength", plan.Strength),
	)
}
