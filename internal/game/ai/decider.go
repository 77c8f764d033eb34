package ai

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arcbot/internal/config"
	"github.com/cory-johannsen/arcbot/internal/game/world"
)

// Phase is one step of a turn.
type Phase int

const (
	PhaseBuildTargets Phase = iota
	PhaseEvaluate
	PhaseCommit
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseBuildTargets:
		return "build_targets"
	case PhaseEvaluate:
		return "evaluate"
	case PhaseCommit:
		return "commit"
	case PhaseDone:
		return "done"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Ranker supplies the ordered candidate targets and the weapons to try on each.
// *Selector implements Ranker.
type Ranker interface {
	Candidates(st world.State, shooter *world.Character) []Target
	WeaponsFor(shooter *world.Character, target Target) []world.WeaponType
}

// Decision is the outcome of one turn.
type Decision struct {
	// ID correlates the log lines of one turn.
	ID   string
	Turn int
	// HasPlan is false when no target could be engaged; Target and Plan are
	// then zero.
	HasPlan bool
	Target  Target
	Plan    ShotPlan
}

// Decider runs the per-turn state machine: build targets, evaluate shots,
// commit the best one.
//
// A Decider is not safe for concurrent use.
type Decider struct {
	strategy     config.StrategyConfig
	pistolDamage int
	ranker       Ranker
	optimizer    *Optimizer
	logger       *zap.Logger
	turn         int
}

// NewDecider constructs a Decider. A nil logger disables logging.
//
// Precondition: cfg has passed config.Validate; ranker and optimizer are non-nil.
func NewDecider(cfg config.Config, ranker Ranker, optimizer *Optimizer, logger *zap.Logger) *Decider {
	if ranker == nil {
		panic("ai.NewDecider: ranker must not be nil")
	}
	if optimizer == nil {
		panic("ai.NewDecider: optimizer must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Decider{
		strategy:     cfg.Strategy,
		pistolDamage: cfg.Weapons.WaterPistol.Damage,
		ranker:       ranker,
		optimizer:    optimizer,
		logger:       logger,
	}
}

// Turn returns the number of turns decided so far.
func (d *Decider) Turn() int { return d.turn }

// Decide chooses the action for shooter without applying it.
func (d *Decider) Decide(st world.State, shooter *world.Character) Decision {
	d.turn++
	dec := Decision{ID: uuid.NewString(), Turn: d.turn}
	log := d.logger.With(
		zap.String("decision_id", dec.ID),
		zap.Int("turn", dec.Turn),
		zap.String("shooter", shooter.Name),
	)

	var targets []Target
	for phase := PhaseBuildTargets; phase < PhaseCommit; {
		switch phase {
		case PhaseBuildTargets:
			targets = d.ranker.Candidates(st, shooter)
			log.Debug("targets built", zap.Int("count", len(targets)))
			phase = PhaseEvaluate
		case PhaseEvaluate:
			dec.Target, dec.Plan, dec.HasPlan = d.evaluate(st, shooter, targets, log)
			phase = PhaseCommit
		}
	}

	if !dec.HasPlan {
		log.Info("no action")
		return dec
	}
	log.Info("shot chosen",
		zap.String("target", string(dec.Target.Kind())),
		zap.Stringer("target_pos", dec.Target.Position()),
		zap.String("weapon", string(dec.Plan.Weapon)),
		zap.Int("obstructions", dec.Plan.Obstructions),
		zap.Int("move", dec.Plan.MoveOffset),
		zap.Float64("strength", dec.Plan.Strength),
	)
	return dec
}

// ExecuteTurn decides and, when a plan exists, commits it through ctrl.
func (d *Decider) ExecuteTurn(st world.State, shooter *world.Character, ctrl Controller) Decision {
	dec := d.Decide(st, shooter)
	if dec.HasPlan {
		commit(ctrl, dec.Plan)
	}
	return dec
}

func (d *Decider) evaluate(st world.State, shooter *world.Character, targets []Target, log *zap.Logger) (Target, ShotPlan, bool) {
	var (
		bestTarget      Target
		best            ShotPlan
		found           bool
		suppressEnemies bool
	)
	for _, t := range targets {
		pickup, isPickup := t.(PickupTarget)
		if !isPickup && suppressEnemies {
			continue
		}
		if isPickup && !d.checkPickup(st, pickup, log) {
			continue
		}
		plan, ok := d.shotFor(st, shooter, t)
		if !ok {
			continue
		}
		if isPickup {
			expectedDamage := d.pistolDamage * plan.Obstructions
			if expectedDamage >= shooter.Health {
				log.Debug("pickup rejected",
					zap.Stringer("target_pos", t.Position()),
					zap.Int("expected_damage", expectedDamage),
				)
				continue
			}
			if d.strategy.HealAmount-expectedDamage > 0 {
				suppressEnemies = true
			}
		}
		if !found || plan.Obstructions < best.Obstructions {
			bestTarget, best, found = t, plan, true
		}
		if plan.Obstructions == 0 {
			break
		}
	}
	return bestTarget, best, found
}

// checkPickup reports whether the board still holds a pickup at the target's tile.
// A mismatch is a caller bug: it panics under strict invariants.
func (d *Decider) checkPickup(st world.State, p PickupTarget, log *zap.Logger) bool {
	tile, ok := st.Tile(p.Tile.Coord.X, p.Tile.Coord.Y)
	if ok && tile.IsPickup() {
		return true
	}
	if d.strategy.StrictInvariants {
		panic(fmt.Sprintf("ai: pickup target at tile (%d, %d) is not a pickup", p.Tile.Coord.X, p.Tile.Coord.Y))
	}
	log.Error("pickup target is not a pickup",
		zap.Int("tile_x", p.Tile.Coord.X),
		zap.Int("tile_y", p.Tile.Coord.Y),
	)
	return false
}

func (d *Decider) shotFor(st world.State, shooter *world.Character, t Target) (ShotPlan, bool) {
	for _, w := range d.ranker.WeaponsFor(shooter, t) {
		var (
			plan ShotPlan
			ok   bool
		)
		if w == world.Mjolnir {
			plan, ok = d.optimizer.BestLineShot(st, shooter.Pos, shooter.Stamina, t)
		} else {
			plan, ok = d.optimizer.BestShot(st, shooter.Pos, shooter.Stamina, t)
		}
		if ok {
			return plan, true
		}
	}
	return ShotPlan{}, false
}

func commit(ctrl Controller, plan ShotPlan) {
	ctrl.SelectWeapon(plan.Weapon)
	if plan.MoveOffset != 0 {
		ctrl.Move(plan.MoveOffset)
	}
	ctrl.Aim(plan.Direction, plan.Strength)
	ctrl.Shoot()
}
