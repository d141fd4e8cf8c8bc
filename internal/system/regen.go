package system

import (
	"github.com/stratago/simcore/internal/data"
	"github.com/stratago/simcore/internal/unit"
)

// regenerate sets the unit's hit point regeneration for the coming second.
// A unit at or below its type's burn threshold loses BurnDamageRate hit
// points at once and does not regenerate while burning. Units off the map or
// under construction never burn but still get their type's rate. Dying units
// are left alone.
func (p *PeriodicStage) regenerate(u *unit.Unit) {
	hp := u.HP()
	if u.Destroyed || hp == nil || hp.Max == 0 {
		return
	}
	action := u.CurrentAction()
	if action == unit.KindDie {
		return
	}

	u.Burning = false
	if ut := u.Type; !u.Removed && action != unit.KindBuilt &&
		ut != nil && ut.BurnDamageRate != 0 && 100*hp.Value/hp.Max <= ut.BurnPercent {
		u.Burning = true
		hp.Value -= ut.BurnDamageRate
		if hp.Value <= 0 {
			hp.Value = 0
			p.death.LetUnitDie(u)
			return
		}
	}

	if u.Burning {
		hp.Increase = 0
	} else if u.Type != nil && len(u.Type.Stats) > data.HPIndex {
		hp.Increase = u.Type.Stats[data.HPIndex].Increase
	}
}
