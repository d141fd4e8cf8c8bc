package action

import (
	"github.com/stratago/simcore/internal/core/ecs"
	"github.com/stratago/simcore/internal/unit"
)

// Board walks to a transporter (the goal) and gets in.
type Board struct {
	unit.BaseOrder
	Range  int
	target unit.Vec2i
}

func NewBoard() *Board {
	return &Board{BaseOrder: unit.NewBaseOrder(unit.KindBoard), Range: 1}
}

func (o *Board) ParseSpecificData(key string, args *unit.Args, pc *unit.ParseContext) (bool, error) {
	var err error
	switch key {
	case "range":
		o.Range, err = args.Int(key)
	case "tile":
		o.target, err = args.Pos(key)
	default:
		return false, nil
	}
	return true, err
}

func (o *Board) UpdatePathFinderData(in *unit.PathFinderInput) {
	in.SetMinRange(0)
	in.SetMaxRange(o.Range)
	in.SetGoal(o.target, unit.Vec2i{})
}

func (o *Board) Execute(u *unit.Unit, env *unit.Env) unit.Result {
	transporter := env.GoalUnit(o)
	if transporter == nil || !transporter.Alive() {
		o.ClearGoal()
		return o.Finish()
	}
	o.target = transporter.TilePos
	switch step(u, env, o) {
	case unit.PathUnreachable:
		return o.Finish()
	case unit.PathMoving:
		return unit.ResultContinue
	}
	u.Removed = true
	u.Container = transporter.ID
	transporter.Inside = append(transporter.Inside, u.ID)
	return o.Finish()
}

// Unload drives to a tile and drops every passenger there.
type Unload struct {
	unit.BaseOrder
	Dest unit.Vec2i
}

func NewUnload() *Unload {
	return &Unload{BaseOrder: unit.NewBaseOrder(unit.KindUnload)}
}

func (o *Unload) ParseSpecificData(key string, args *unit.Args, pc *unit.ParseContext) (bool, error) {
	if key != "tile" {
		return false, nil
	}
	var err error
	o.Dest, err = args.Pos(key)
	return true, err
}

func (o *Unload) UpdatePathFinderData(in *unit.PathFinderInput) {
	in.SetMinRange(0)
	in.SetMaxRange(0)
	in.SetGoal(o.Dest, unit.Vec2i{})
}

func (o *Unload) Execute(u *unit.Unit, env *unit.Env) unit.Result {
	if len(u.Inside) == 0 {
		return o.Finish()
	}
	if step(u, env, o) == unit.PathMoving {
		return unit.ResultContinue
	}
	for _, id := range u.Inside {
		if env.Units == nil {
			break
		}
		p, ok := env.Units.Lookup(id)
		if !ok {
			continue
		}
		p.Removed = false
		p.Container = ecs.NoEntity
		p.TilePos = u.TilePos
	}
	u.Inside = u.Inside[:0]
	return o.Finish()
}
