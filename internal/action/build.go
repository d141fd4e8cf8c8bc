package action

import (
	"github.com/stratago/simcore/internal/data"
	"github.com/stratago/simcore/internal/unit"
)

// Build walks a worker to a site and places a building there.
type Build struct {
	unit.BaseOrder
	Dest  unit.Vec2i
	Range int
	Type  *data.UnitType
}

func NewBuild() *Build {
	return &Build{BaseOrder: unit.NewBaseOrder(unit.KindBuild), Range: 1}
}

func (o *Build) ParseSpecificData(key string, args *unit.Args, pc *unit.ParseContext) (bool, error) {
	var err error
	switch key {
	case "tile":
		o.Dest, err = args.Pos(key)
	case "range":
		o.Range, err = args.Int(key)
	case "type":
		o.Type, err = pc.UnitType(key, args)
	default:
		return false, nil
	}
	return true, err
}

func (o *Build) UpdatePathFinderData(in *unit.PathFinderInput) {
	in.SetMinRange(0)
	in.SetMaxRange(o.Range)
	in.SetGoal(o.Dest, unit.Vec2i{})
}

func (o *Build) Execute(u *unit.Unit, env *unit.Env) unit.Result {
	if o.Type == nil || env.Spawner == nil {
		return o.Finish()
	}
	switch step(u, env, o) {
	case unit.PathUnreachable:
		return o.Finish()
	case unit.PathMoving:
		return unit.ResultContinue
	}
	site := env.Spawner.SpawnUnit(o.Type, u.Player, o.Dest)
	if site != nil && o.Type.BuildTime > 0 {
		built := NewBuilt()
		built.SetGoal(u.ID)
		hp := site.HP()
		if hp != nil {
			hp.Value = 1
		}
		site.ReplaceOrders(built)
	}
	return o.Finish()
}

// Built is the order of a building under construction. Progress is saved as
// the order's state counter; the goal is the worker, if any.
type Built struct {
	unit.BaseOrder
}

func NewBuilt() *Built {
	return &Built{BaseOrder: unit.NewBaseOrder(unit.KindBuilt)}
}

func (o *Built) ParseSpecificData(key string, args *unit.Args, pc *unit.ParseContext) (bool, error) {
	return false, nil
}

func (o *Built) Execute(u *unit.Unit, env *unit.Env) unit.Result {
	total := 1
	if u.Type != nil && u.Type.BuildTime > 0 {
		total = u.Type.BuildTime
	}
	progress := o.Progress() + 1
	o.SetProgress(progress)
	if hp := u.HP(); hp != nil && hp.Max > 0 {
		grown := hp.Max * progress / total
		if grown > hp.Value {
			hp.Value = grown
			hp.Clamp()
		}
	}
	if progress < total {
		return unit.ResultContinue
	}
	o.ClearGoal()
	return o.Finish()
}

// Repair walks next to a damaged goal and restores one hit point every
// RepairCycle cycles.
type Repair struct {
	unit.BaseOrder
	RepairCycle int
	target      unit.Vec2i
}

func NewRepair() *Repair {
	return &Repair{BaseOrder: unit.NewBaseOrder(unit.KindRepair), RepairCycle: 1}
}

func (o *Repair) ParseSpecificData(key string, args *unit.Args, pc *unit.ParseContext) (bool, error) {
	var err error
	switch key {
	case "repair-cycle":
		o.RepairCycle, err = args.Int(key)
	case "tile":
		o.target, err = args.Pos(key)
	default:
		return false, nil
	}
	return true, err
}

func (o *Repair) UpdatePathFinderData(in *unit.PathFinderInput) {
	in.SetMinRange(0)
	in.SetMaxRange(1)
	in.SetGoal(o.target, unit.Vec2i{})
}

func (o *Repair) Execute(u *unit.Unit, env *unit.Env) unit.Result {
	goal := env.GoalUnit(o)
	if goal == nil || !goal.Alive() {
		o.ClearGoal()
		return o.Finish()
	}
	hp := goal.HP()
	if hp == nil || hp.Value >= hp.Max {
		return o.Finish()
	}
	o.target = goal.TilePos
	switch step(u, env, o) {
	case unit.PathUnreachable:
		return o.Finish()
	case unit.PathMoving:
		return unit.ResultContinue
	}
	progress := o.Progress() + 1
	if progress < o.RepairCycle {
		o.SetProgress(progress)
		return unit.ResultContinue
	}
	o.SetProgress(0)
	hp.Value++
	if hp.Value >= hp.Max {
		hp.Value = hp.Max
		return o.Finish()
	}
	return unit.ResultContinue
}
