package system

import (
	"go.uber.org/zap"

	"github.com/stratago/simcore/internal/data"
	"github.com/stratago/simcore/internal/unit"
)

// timedBuffs run down by one second's worth of cycles every second.
var timedBuffs = [...]int{
	data.BloodlustIndex,
	data.HasteIndex,
	data.SlowIndex,
	data.InvisibleIndex,
	data.UnholyArmorIndex,
}

// decayBuffs handles everything that runs out over time: an expired
// time-to-live drains hit points, timed buffs shrink, shields recharge, and
// every enabled variable steps by its increase and is clamped into [0, Max].
// elapsed is the number of cycles since the last pass.
func (p *PeriodicStage) decayBuffs(u *unit.Unit, cycle uint64, elapsed int) {
	hp := u.HP()
	if u.TTL != 0 && hp != nil && int64(u.TTL) < int64(cycle)-int64(hp.Value) {
		p.log.Debug("unit outlived its time to live",
			zap.Stringer("unit", u.ID),
			zap.Uint64("ttl", u.TTL),
			zap.Uint64("cycle", cycle),
		)
		hp.Value -= elapsed
		if hp.Value <= 0 {
			hp.Value = 0
			p.death.LetUnitDie(u)
		}
	}

	for _, idx := range timedBuffs {
		if v := u.Variable(idx); v != nil {
			v.Increase = -elapsed
		}
	}
	if v := u.Variable(data.ShieldIndex); v != nil {
		v.Increase = 1
	}

	invisible := u.Variable(data.InvisibleIndex)
	wasHidden := invisible != nil && invisible.Value > 0
	for i := range u.Variables {
		u.Variables[i].Step()
	}
	if wasHidden && invisible.Value == 0 {
		p.visibility.UnHide(u)
	}
}
