package ai

import (
	"sort"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arcbot/internal/config"
	"github.com/cory-johannsen/arcbot/internal/game/world"
)

// vetoHook is the optional Lua global consulted for every candidate target:
//
//	veto_target(kind, x, y, health, distance) -> boolean
const vetoHook = "veto_target"

// ScriptCaller is the interface required by the Selector to evaluate Lua hooks.
type ScriptCaller interface {
	// CallHook calls a named Lua function in the given profile's VM.
	// Returns (LNil, nil) if the function is not defined.
	CallHook(profile, hook string, args ...lua.LValue) (lua.LValue, error)
}

// Selector enumerates and ranks the targets a character may engage this turn.
type Selector struct {
	strategy config.StrategyConfig
	weapons  map[world.WeaponType]world.WeaponSpec
	tileSize float64
	hooks    ScriptCaller
	profile  string
	logger   *zap.Logger
}

// NewSelector constructs a Selector. hooks may be nil to disable scripted
// vetoes; a nil logger disables logging.
//
// Precondition: cfg has passed config.Validate.
func NewSelector(cfg config.Config, hooks ScriptCaller, logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{
		strategy: cfg.Strategy,
		weapons:  WeaponCatalog(cfg.Weapons),
		tileSize: cfg.Ballistics.TileSize,
		hooks:    hooks,
		profile:  cfg.Scripting.Profile,
		logger:   logger,
	}
}

// ShouldHeal reports whether a character at health would gain the full heal
// amount from a pickup without exceeding max health.
func (s *Selector) ShouldHeal(health int) bool {
	return health <= s.strategy.MaxHealth-s.strategy.HealAmount
}

// Candidates returns the ranked targets for shooter: pickups first when the
// shooter should heal, then enemies.
//
// Postcondition: every PickupTarget precedes every EnemyTarget.
func (s *Selector) Candidates(st world.State, shooter *world.Character) []Target {
	var out []Target
	if s.ShouldHeal(shooter.Health) {
		out = append(out, s.Pickups(st, shooter)...)
	}
	return append(out, s.Enemies(st, shooter)...)
}

// Pickups returns every health box on the board, nearest first.
func (s *Selector) Pickups(st world.State, shooter *world.Character) []Target {
	var boxes []Target
	w, h := st.BoardSize()
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			tile, ok := st.Tile(x, y)
			if !ok || !tile.IsPickup() {
				continue
			}
			t := NewPickupTarget(tile, s.tileSize)
			if s.vetoed(shooter, t) {
				continue
			}
			boxes = append(boxes, t)
		}
	}
	byDistance(boxes, shooter.Pos)
	return boxes
}

// Enemies returns every living character on another team, ordered by health
// and, among equal health, by distance.
func (s *Selector) Enemies(st world.State, shooter *world.Character) []Target {
	var enemies []Target
	for team := 0; team < st.TeamCount(); team++ {
		if team == shooter.Team {
			continue
		}
		for i := 0; i < st.CharactersPerTeam(); i++ {
			c := st.Character(team, i)
			if c == nil || !c.Alive {
				continue
			}
			t := EnemyTarget{Character: c}
			if s.vetoed(shooter, t) {
				continue
			}
			enemies = append(enemies, t)
		}
	}
	byDistance(enemies, shooter.Pos)
	sort.SliceStable(enemies, func(i, j int) bool {
		return enemies[i].(EnemyTarget).Character.Health < enemies[j].(EnemyTarget).Character.Health
	})
	return enemies
}

// WeaponsFor returns the weapons to try against target, in order. The Mjolnir
// leads when the shooter has ammo for it and the enemy's health is in
// (pistol damage, mjolnir damage], where it turns a non-lethal shot lethal.
func (s *Selector) WeaponsFor(shooter *world.Character, target Target) []world.WeaponType {
	enemy, ok := target.(EnemyTarget)
	if !ok {
		return []world.WeaponType{world.WaterPistol}
	}
	health := enemy.Character.Health
	if shooter.HasAmmo(world.Mjolnir) &&
		health > s.weapons[world.WaterPistol].Damage &&
		health <= s.weapons[world.Mjolnir].Damage {
		return []world.WeaponType{world.Mjolnir, world.WaterPistol}
	}
	return []world.WeaponType{world.WaterPistol}
}

func (s *Selector) vetoed(shooter *world.Character, t Target) bool {
	if s.hooks == nil {
		return false
	}
	health := 0
	if e, ok := t.(EnemyTarget); ok {
		health = e.Character.Health
	}
	pos := t.Position()
	ret, err := s.hooks.CallHook(s.profile, vetoHook,
		lua.LString(t.Kind()),
		lua.LNumber(pos.X),
		lua.LNumber(pos.Y),
		lua.LNumber(health),
		lua.LNumber(pos.Dist(shooter.Pos)),
	)
	if err != nil {
		s.logger.Warn("target veto hook failed", zap.String("profile", s.profile), zap.Error(err))
		return false
	}
	if ret != lua.LTrue {
		return false
	}
	s.logger.Debug("target vetoed by script",
		zap.String("target", string(t.Kind())),
		zap.Stringer("target_pos", pos),
	)
	return true
}

func byDistance(targets []Target, from world.Vec2) {
	sort.SliceStable(targets, func(i, j int) bool {
		return targets[i].Position().Dist(from) < targets[j].Position().Dist(from)
	})
}
