package action

import "github.com/stratago/simcore/internal/unit"

// Attack fights a goal unit, or walks to a tile fighting whatever comes in
// range. The ground variant shoots a tile once and is done.
type Attack struct {
	unit.BaseOrder
	ground   bool
	Dest     unit.Vec2i
	Range    int
	MinRange int
	target   unit.Vec2i
}

func NewAttack(ground bool) *Attack {
	kind := unit.KindAttack
	if ground {
		kind = unit.KindAttackGround
	}
	return &Attack{BaseOrder: unit.NewBaseOrder(kind), ground: ground}
}

func (o *Attack) ParseSpecificData(key string, args *unit.Args, pc *unit.ParseContext) (bool, error) {
	var err error
	switch key {
	case "range":
		o.Range, err = args.Int(key)
	case "min-range":
		o.MinRange, err = args.Int(key)
	case "tile":
		o.Dest, err = args.Pos(key)
	default:
		return false, nil
	}
	return true, err
}

func (o *Attack) UpdatePathFinderData(in *unit.PathFinderInput) {
	in.SetMinRange(o.MinRange)
	in.SetMaxRange(o.Range)
	in.SetGoal(o.target, unit.Vec2i{})
}

func (o *Attack) Execute(u *unit.Unit, env *unit.Env) unit.Result {
	if o.ground {
		return o.executeGround(u, env)
	}

	hadGoal := !o.Goal().IsZero()
	target := env.GoalUnit(o)
	if target != nil && !target.Alive() {
		target = nil
	}
	if hadGoal && target == nil {
		// explicit target gone: done
		o.ClearGoal()
		u.State = 0
		return o.Finish()
	}
	if target == nil && env.Combat != nil {
		target = env.Combat.AttackUnitsInRange(u)
	}

	if target != nil {
		o.Range = attackRange(u)
		o.target = target.TilePos
		if u.TilePos.Distance(target.TilePos) <= o.Range {
			u.State = 2
			fire(u, env, target, unit.InvalidPos)
			return unit.ResultContinue
		}
		u.State = 1
		if step(u, env, o) == unit.PathUnreachable {
			return o.Finish()
		}
		return unit.ResultContinue
	}

	// attack-move with nothing in sight
	u.State = 1
	o.target = o.Dest
	o.Range = 0
	switch step(u, env, o) {
	case unit.PathReached, unit.PathUnreachable:
		u.State = 0
		return o.Finish()
	}
	return unit.ResultContinue
}

func (o *Attack) executeGround(u *unit.Unit, env *unit.Env) unit.Result {
	o.target = o.Dest
	o.Range = attackRange(u)
	if u.TilePos.Distance(o.Dest) > o.Range {
		if step(u, env, o) == unit.PathUnreachable {
			return o.Finish()
		}
		return unit.ResultContinue
	}
	if fire(u, env, nil, o.Dest) {
		return o.Finish()
	}
	return unit.ResultContinue
}

// OnAiHitUnit turns an attack-move into a fight with the attacker.
func (o *Attack) OnAiHitUnit(u *unit.Unit, attacker *unit.Unit, damage int) bool {
	if o.ground || attacker == nil || !o.Goal().IsZero() {
		return false
	}
	o.SetGoal(attacker.ID)
	return true
}
