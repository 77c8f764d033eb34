package ai

import (
	"fmt"

	"github.com/cory-johannsen/arcbot/internal/game/world"
)

// Controller applies the chosen action to the host game.
type Controller interface {
	SelectWeapon(w world.WeaponType)
	// Move walks the character offset world units along x; negative is left.
	Move(offset int)
	// Aim sets the launch direction (a unit vector) and strength in [0,1].
	Aim(direction world.Vec2, strength float64)
	Shoot()
}

// ActionKind names one Controller call.
type ActionKind string

const (
	ActionSelectWeapon ActionKind = "select_weapon"
	ActionMove         ActionKind = "move"
	ActionAim          ActionKind = "aim"
	ActionShoot        ActionKind = "shoot"
)

// Action is one recorded Controller call.
type Action struct {
	Kind      ActionKind
	Weapon    world.WeaponType
	Offset    int
	Direction world.Vec2
	Strength  float64
}

func (a Action) String() string {
	switch a.Kind {
	case ActionSelectWeapon:
		return fmt.Sprintf("select_weapon %s", a.Weapon)
	case ActionMove:
		return fmt.Sprintf("move %+d", a.Offset)
	case ActionAim:
		return fmt.Sprintf("aim %s strength=%.3f", a.Direction, a.Strength)
	default:
		return string(a.Kind)
	}
}

// Recorder is a Controller that records calls instead of applying them.
type Recorder struct {
	Actions []Action
}

// SelectWeapon implements Controller.
func (r *Recorder) SelectWeapon(w world.WeaponType) {
	r.Actions = append(r.Actions, Action{Kind: ActionSelectWeapon, Weapon: w})
}

// Move implements Controller.
func (r *Recorder) Move(offset int) {
	r.Actions = append(r.Actions, Action{Kind: ActionMove, Offset: offset})
}

// Aim implements Controller.
func (r *Recorder) Aim(direction world.Vec2, strength float64) {
	r.Actions = append(r.Actions, Action{Kind: ActionAim, Direction: direction, Strength: strength})
}

// Shoot implements Controller.
func (r *Recorder) Shoot() {
	r.Actions = append(r.Actions, Action{Kind: ActionShoot})
}
