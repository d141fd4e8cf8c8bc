package system

import (
	"github.com/stratago/simcore/internal/unit"
	"github.com/stratago/simcore/internal/world"
)

// Hooks are the entry points the AI and animation code call into. Each one
// offers the event to the unit's current order before the AI collaborator.
type Hooks struct {
	world *world.State
}

func NewHooks(ws *world.State) *Hooks {
	return &Hooks{world: ws}
}

// OnUnitKilled runs while the unit still holds the order it died under.
func (h *Hooks) OnUnitKilled(u *unit.Unit) {
	if o := u.CurrentOrder(); o != nil {
		o.AiUnitKilled(u, h.world.Env())
	}
	if h.world.AI != nil {
		h.world.AI.UnitKilled(u)
	}
}

// OnHitUnit reports whether the current order handled the hit. Unhandled
// hits go to the AI.
func (h *Hooks) OnHitUnit(u *unit.Unit, attacker *unit.Unit, damage int) bool {
	if o := u.CurrentOrder(); o != nil && o.OnAiHitUnit(u, attacker, damage) {
		return true
	}
	if h.world.AI != nil {
		h.world.AI.HitUnit(u, attacker, damage)
	}
	return false
}

// OnAnimationAttackStep runs at the attack keyframe of the unit's animation.
func (h *Hooks) OnAnimationAttackStep(u *unit.Unit) {
	if o := u.CurrentOrder(); o != nil {
		o.OnAnimationAttack(u, h.world.Env())
	}
}
