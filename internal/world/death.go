package world

import (
	"go.uber.org/zap"

	"github.com/stratago/simcore/internal/action"
	"github.com/stratago/simcore/internal/core/ecs"
	"github.com/stratago/simcore/internal/core/event"
	"github.com/stratago/simcore/internal/unit"
)

// LetUnitDie implements unit.Death. The unit's orders are replaced by a die
// order; the current order and the AI hear about it first. Passengers die
// with their transporter.
func (s *State) LetUnitDie(u *unit.Unit) {
	if u.Destroyed || u.CurrentAction() == unit.KindDie {
		return
	}
	if s.listener != nil {
		s.listener.OnUnitKilled(u)
	} else if s.AI != nil {
		s.AI.UnitKilled(u)
	}
	if hp := u.HP(); hp != nil {
		hp.Value = 0
		hp.Increase = 0
	}
	u.ClearCriticalOrder()
	u.ReplaceOrders(action.NewDie())
	u.State = 0
	u.Wait = 0
	u.TTL = 0
	u.Burning = false
	u.Anim = unit.Anim{}

	for _, id := range u.Inside {
		if p, ok := s.Lookup(id); ok {
			p.Container = ecs.NoEntity
			s.LetUnitDie(p)
		}
	}
	u.Inside = nil

	event.Emit(s.Bus, event.UnitKilled{Unit: u.ID, Ident: u.Ident()})
	s.log.Debug("unit killed",
		zap.Uint64("cycle", s.cycle),
		zap.Stringer("unit", u.ID),
		zap.String("type", u.Ident()),
	)
}

// OnDeathAnimationCaught implements unit.Death. The unit leaves the map and
// is queued for removal at the end of the cycle; references to it stop
// resolving once the cleanup pass has run.
func (s *State) OnDeathAnimationCaught(u *unit.Unit) {
	if u.Destroyed {
		return
	}
	u.Destroyed = true
	u.Removed = true
	for _, o := range u.Orders {
		o.Release()
	}
	u.ClearCriticalOrder()
	if u.Refs > 0 {
		u.Refs--
	}
	s.grid.Vacate(u.TilePos, u.ID)
	s.ecs.MarkForDestruction(u.ID)
	s.deselect(u.ID)
	event.Emit(s.Bus, event.UnitDestroyed{Unit: u.ID})
}
