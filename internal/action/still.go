package action

import (
	"github.com/stratago/simcore/internal/core/ecs"
	"github.com/stratago/simcore/internal/unit"
)

// Still is the idle order. Units standing still shoot at enemies in range;
// unless told to stand ground they also answer attackers. Units inside a
// transport just wait.
type Still struct {
	unit.BaseOrder
	standGround bool
	retaliate   ecs.EntityID
}

func newStill(standGround bool) *Still {
	kind := unit.KindStill
	if standGround {
		kind = unit.KindStandGround
	}
	return &Still{BaseOrder: unit.NewBaseOrder(kind), standGround: standGround}
}

func (o *Still) ParseSpecificData(key string, args *unit.Args, pc *unit.ParseContext) (bool, error) {
	return false, nil
}

func (o *Still) Execute(u *unit.Unit, env *unit.Env) unit.Result {
	if u.Removed {
		return unit.ResultContinue
	}
	if u.Type == nil || !u.Type.CanAttack || env.Combat == nil {
		return unit.ResultContinue
	}
	var target *unit.Unit
	if !o.retaliate.IsZero() && env.Units != nil {
		if t, ok := env.Units.Lookup(o.retaliate); ok && t.Alive() &&
			u.TilePos.Distance(t.TilePos) <= attackRange(u) {
			target = t
		} else {
			o.retaliate = ecs.NoEntity
		}
	}
	if target == nil {
		target = env.Combat.AttackUnitsInRange(u)
	}
	if target == nil {
		u.State = 0
		return unit.ResultContinue
	}
	u.State = 1
	fire(u, env, target, unit.InvalidPos)
	return unit.ResultContinue
}

// OnAiHitUnit remembers the attacker so the next cycles shoot back.
func (o *Still) OnAiHitUnit(u *unit.Unit, attacker *unit.Unit, damage int) bool {
	if o.standGround || attacker == nil || u.Type == nil || !u.Type.CanAttack {
		return false
	}
	o.retaliate = attacker.ID
	return true
}

func (o *Still) Release() {
	o.BaseOrder.Release()
	o.retaliate = ecs.NoEntity
}
