package action

import (
	"github.com/stratago/simcore/internal/core/ecs"
	"github.com/stratago/simcore/internal/unit"
)

const (
	resourceToMine = iota
	resourceHarvest
	resourceToDepot
)

// Resource shuttles a worker between a mine (the goal) and a depot. The
// order is bound to its worker when created; a stale worker reference ends it.
type Resource struct {
	unit.BaseOrder
	worker        ecs.EntityID
	Depot         ecs.EntityID
	TimeToHarvest int
	Load          int
	target        unit.Vec2i
}

// NewResource binds the order to its worker. owner may be nil for an order
// restored before its unit exists; Execute then trusts the executing unit.
func NewResource(owner *unit.Unit) *Resource {
	o := &Resource{BaseOrder: unit.NewBaseOrder(unit.KindResource), TimeToHarvest: 10, Load: 10}
	if owner != nil {
		o.worker = owner.ID
	}
	return o
}

// Worker returns the bound worker.
func (o *Resource) Worker() ecs.EntityID { return o.worker }

func (o *Resource) ParseSpecificData(key string, args *unit.Args, pc *unit.ParseContext) (bool, error) {
	var err error
	switch key {
	case "depot":
		var ref any
		if ref, err = args.Value(key); err != nil {
			break
		}
		if pc.Units == nil {
			return true, errNoUnits(key)
		}
		id, ok := pc.Units.ResolveRef(ref)
		if !ok {
			return true, errUnknownUnit(key, ref)
		}
		o.Depot = id
	case "time-to-harvest":
		o.TimeToHarvest, err = args.Int(key)
	case "load":
		o.Load, err = args.Int(key)
	default:
		return false, nil
	}
	return true, err
}

func (o *Resource) UpdatePathFinderData(in *unit.PathFinderInput) {
	in.SetMinRange(0)
	in.SetMaxRange(1)
	in.SetGoal(o.target, unit.Vec2i{})
}

func (o *Resource) Execute(u *unit.Unit, env *unit.Env) unit.Result {
	if !o.worker.IsZero() && o.worker != u.ID {
		return o.Finish()
	}
	switch u.State {
	case resourceToMine:
		mine := env.GoalUnit(o)
		if mine == nil {
			o.ClearGoal()
			return o.Finish()
		}
		o.target = mine.TilePos
		switch step(u, env, o) {
		case unit.PathUnreachable:
			return o.Finish()
		case unit.PathReached:
			u.State = resourceHarvest
			o.SetProgress(0)
		}
	case resourceHarvest:
		progress := o.Progress() + 1
		o.SetProgress(progress)
		if progress >= o.TimeToHarvest {
			u.Carrying = o.Load
			u.State = resourceToDepot
		}
	case resourceToDepot:
		var depot *unit.Unit
		if env.Units != nil && !o.Depot.IsZero() {
			depot, _ = env.Units.Lookup(o.Depot)
		}
		if depot == nil || depot.Destroyed {
			return o.Finish()
		}
		o.target = depot.TilePos
		switch step(u, env, o) {
		case unit.PathUnreachable:
			return o.Finish()
		case unit.PathReached:
			u.Carrying = 0
			u.State = resourceToMine
		}
	}
	return unit.ResultContinue
}

func (o *Resource) Release() {
	o.BaseOrder.Release()
	o.worker = ecs.NoEntity
	o.Depot = ecs.NoEntity
}
