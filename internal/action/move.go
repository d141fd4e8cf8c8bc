package action

import "github.com/stratago/simcore/internal/unit"

// Move walks to a tile.
type Move struct {
	unit.BaseOrder
	Dest  unit.Vec2i
	Range int
}

func NewMove() *Move {
	return &Move{BaseOrder: unit.NewBaseOrder(unit.KindMove)}
}

// MoveTo is the command-side constructor.
func MoveTo(dest unit.Vec2i) *Move {
	o := NewMove()
	o.Dest = dest
	return o
}

func (o *Move) ParseSpecificData(key string, args *unit.Args, pc *unit.ParseContext) (bool, error) {
	var err error
	switch key {
	case "range":
		o.Range, err = args.Int(key)
	case "tile":
		o.Dest, err = args.Pos(key)
	default:
		return false, nil
	}
	return true, err
}

func (o *Move) UpdatePathFinderData(in *unit.PathFinderInput) {
	in.SetMinRange(0)
	in.SetMaxRange(o.Range)
	in.SetGoal(o.Dest, unit.Vec2i{})
}

func (o *Move) Execute(u *unit.Unit, env *unit.Env) unit.Result {
	switch step(u, env, o) {
	case unit.PathReached, unit.PathUnreachable:
		return o.Finish()
	}
	return unit.ResultContinue
}

// Follow keeps close to its goal until the goal disappears.
type Follow struct {
	unit.BaseOrder
	Range  int
	target unit.Vec2i
}

func NewFollow() *Follow {
	return &Follow{BaseOrder: unit.NewBaseOrder(unit.KindFollow), Range: 1}
}

func (o *Follow) ParseSpecificData(key string, args *unit.Args, pc *unit.ParseContext) (bool, error) {
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

func (o *Follow) UpdatePathFinderData(in *unit.PathFinderInput) {
	in.SetMinRange(0)
	in.SetMaxRange(o.Range)
	in.SetGoal(o.target, unit.Vec2i{})
}

func (o *Follow) Execute(u *unit.Unit, env *unit.Env) unit.Result {
	goal := env.GoalUnit(o)
	if goal == nil || goal.CurrentAction() == unit.KindDie {
		o.ClearGoal()
		return o.Finish()
	}
	o.target = goal.TilePos
	if step(u, env, o) == unit.PathUnreachable {
		return o.Finish()
	}
	return unit.ResultContinue
}

// Patrol walks back and forth between two tiles, forever.
type Patrol struct {
	unit.BaseOrder
	Dest  unit.Vec2i
	Other unit.Vec2i
	Range int
}

func NewPatrol() *Patrol {
	return &Patrol{BaseOrder: unit.NewBaseOrder(unit.KindPatrol)}
}

func (o *Patrol) ParseSpecificData(key string, args *unit.Args, pc *unit.ParseContext) (bool, error) {
	var err error
	switch key {
	case "tile":
		o.Dest, err = args.Pos(key)
	case "patrol":
		o.Other, err = args.Pos(key)
	case "range":
		o.Range, err = args.Int(key)
	default:
		return false, nil
	}
	return true, err
}

func (o *Patrol) UpdatePathFinderData(in *unit.PathFinderInput) {
	in.SetMinRange(0)
	in.SetMaxRange(o.Range)
	in.SetGoal(o.Dest, unit.Vec2i{})
}

func (o *Patrol) Execute(u *unit.Unit, env *unit.Env) unit.Result {
	switch step(u, env, o) {
	case unit.PathReached:
		o.Dest, o.Other = o.Other, o.Dest
	case unit.PathUnreachable:
		return o.Finish()
	}
	return unit.ResultContinue
}
