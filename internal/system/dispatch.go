package system

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/stratago/simcore/internal/action"
	"github.com/stratago/simcore/internal/synchash"
	"github.com/stratago/simcore/internal/trace"
	"github.com/stratago/simcore/internal/unit"
)

// DispatchStage advances every unit's current order by one cycle and folds
// the result into the sync checksum.
type DispatchStage struct {
	hash *synchash.Hash
	sink trace.Sink
	log  *zap.Logger

	traceFailed bool
}

func NewDispatchStage(hash *synchash.Hash, sink trace.Sink, log *zap.Logger) *DispatchStage {
	if sink == nil {
		sink = trace.Nop{}
	}
	return &DispatchStage{hash: hash, sink: sink, log: log}
}

// Run dispatches the snapshot in order. The checksum fold happens for every
// non-destroyed unit, including ones whose action handling bailed out early.
func (d *DispatchStage) Run(env *unit.Env, units []*unit.Unit) {
	for _, u := range units {
		if u.Destroyed {
			continue
		}
		d.handle(u, env)
		d.dump(env, u)

		kind := 0
		if len(u.Orders) > 0 {
			kind = int(u.CurrentAction())
		}
		d.hash.Fold(kind, u.State, u.Refs)
	}
}

// handle is one unit's action handling: the critical order, queue promotion
// and the current order's Execute. Queue management is skipped while the
// animation is unbreakable.
func (d *DispatchStage) handle(u *unit.Unit, env *unit.Env) {
	if len(u.Orders) == 0 {
		panic(fmt.Errorf("%w: unit %s has an empty order queue", unit.ErrInvariant, u.ID))
	}

	if !u.Anim.Unbreakable {
		if o := u.CriticalOrder; o != nil {
			u.CriticalOrder = nil
			res := o.Execute(u, env)
			o.Release()
			if res == unit.ResultDied {
				env.Death.OnDeathAnimationCaught(u)
				return
			}
		}

		front := u.Orders[0]
		if front.Finished() && front.Kind() != unit.KindStill && len(u.Orders) == 1 {
			u.SetCurrentOrder(action.NewStill())
			u.State = 0
			d.selectionChanged(u, env)
		}

		if u.Orders[0].Finished() && len(u.Orders) > 1 {
			if u.Removed {
				d.log.Debug("flushing removed unit",
					zap.Stringer("unit", u.ID),
					zap.Int("queued", len(u.Orders)),
				)
				return
			}
			u.PopOrder()
			u.State = 0
			u.Wait = 0
			d.selectionChanged(u, env)
		}
	}

	o := u.Orders[0]
	switch o.Execute(u, env) {
	case unit.ResultFinished:
		o.SetFinished(true)
	case unit.ResultDied:
		env.Death.OnDeathAnimationCaught(u)
	}
}

func (d *DispatchStage) selectionChanged(u *unit.Unit, env *unit.Env) {
	if env.Selection != nil && env.Selection.IsOnlySelected(u) {
		env.Selection.SelectedUnitChanged()
	}
}

func (d *DispatchStage) dump(env *unit.Env, u *unit.Unit) {
	l := trace.Line{
		Cycle:  env.Cycle,
		Slot:   u.Slot,
		Ident:  u.Ident(),
		State:  u.State,
		Action: -1,
		Player: u.Player,
		Refs:   u.Refs,
		X:      u.TilePos.X,
		Y:      u.TilePos.Y,
		IX:     u.IX,
		IY:     u.IY,
	}
	if len(u.Orders) > 0 {
		l.Action = int(u.CurrentAction())
	}
	if env.Rand != nil {
		l.Seed = env.Rand.Seed()
	}
	if err := d.sink.Record(l); err != nil && !d.traceFailed {
		d.traceFailed = true
		d.log.Warn("trace sink failed, further errors suppressed", zap.Error(err))
	}
}
