package action

import (
	"fmt"

	"github.com/stratago/simcore/internal/unit"
)

const defaultCooldown = 10

// step moves u one tile toward the goal the order describes through
// UpdatePathFinderData. Between tiles the unit waits Type.Speed cycles.
func step(u *unit.Unit, env *unit.Env, o unit.Order) unit.PathStatus {
	in := unit.PathFinderInput{Unit: u}
	o.UpdatePathFinderData(&in)
	if in.Reached(u.TilePos) {
		return unit.PathReached
	}
	if env.Pathfinder == nil {
		return unit.PathUnreachable
	}
	if u.Wait > 0 {
		u.Wait--
		return unit.PathMoving
	}
	status := env.Pathfinder.Step(u, &in)
	if status == unit.PathMoving && u.Type != nil {
		u.Wait = u.Type.Speed
	}
	return status
}

func cooldown(u *unit.Unit) int {
	if u.Type != nil && u.Type.Cooldown > 0 {
		return u.Type.Cooldown
	}
	return defaultCooldown
}

func attackRange(u *unit.Unit) int {
	if u.Type == nil || u.Type.AttackRange < 1 {
		return 1
	}
	return u.Type.AttackRange
}

// fire shoots at target (or at pos when target is nil) once the attack
// cooldown has run out. It reports whether a missile left.
func fire(u *unit.Unit, env *unit.Env, target *unit.Unit, pos unit.Vec2i) bool {
	if u.Wait > 0 {
		u.Wait--
		return false
	}
	if env.Combat == nil {
		return false
	}
	env.Combat.FireMissile(u, target, pos)
	if env.Visibility != nil {
		env.Visibility.UnHide(u)
	}
	u.Wait = cooldown(u)
	return true
}

func errNoUnits(key string) error {
	return fmt.Errorf("%s: no unit table to resolve references", key)
}

func errUnknownUnit(key string, ref any) error {
	return fmt.Errorf("%s: unknown unit %v", key, ref)
}
