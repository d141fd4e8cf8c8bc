package unit

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/stratago/simcore/internal/core/ecs"
)

// ErrInvariant marks programming errors. Code that detects one panics with an
// error wrapping it; nothing in the simulation recovers from it.
var ErrInvariant = errors.New("invariant violation")

// Order is one unit intent. Every variant embeds BaseOrder, which supplies
// the shared state and the default hooks; variants supply Execute and
// ParseSpecificData and override hooks where they need to.
type Order interface {
	Kind() Kind
	Finished() bool
	SetFinished(finished bool)
	Goal() ecs.EntityID
	SetGoal(id ecs.EntityID)
	ClearGoal()

	// Execute advances the order by one cycle.
	Execute(u *Unit, env *Env) Result

	// ParseGenericData claims keywords shared by every kind.
	ParseGenericData(key string, args *Args, pc *ParseContext) (bool, error)
	// ParseSpecificData claims keywords of this kind only.
	ParseSpecificData(key string, args *Args, pc *ParseContext) (bool, error)

	FillSeenValues(u *Unit)
	OnAiHitUnit(u *Unit, attacker *Unit, damage int) bool
	AiUnitKilled(u *Unit, env *Env)
	OnAnimationAttack(u *Unit, env *Env)
	UpdatePathFinderData(in *PathFinderInput)

	// Release drops the weak goal reference. Called when the order leaves
	// its queue slot; the referent is not affected.
	Release()
}

// BaseOrder carries the fields every order has.
type BaseOrder struct {
	kind     Kind
	finished bool
	goal     ecs.EntityID
	state    int
}

func NewBaseOrder(kind Kind) BaseOrder {
	return BaseOrder{kind: kind}
}

func (o *BaseOrder) Kind() Kind              { return o.kind }
func (o *BaseOrder) Finished() bool          { return o.finished }
func (o *BaseOrder) SetFinished(f bool)      { o.finished = f }
func (o *BaseOrder) Goal() ecs.EntityID      { return o.goal }
func (o *BaseOrder) SetGoal(id ecs.EntityID) { o.goal = id }
func (o *BaseOrder) ClearGoal()              { o.goal = ecs.NoEntity }
func (o *BaseOrder) Release()                { o.ClearGoal() }

// Progress is the order's own saved progress counter ("state" in descriptors).
func (o *BaseOrder) Progress() int     { return o.state }
func (o *BaseOrder) SetProgress(n int) { o.state = n }

// Finish marks the order done and returns ResultFinished for convenience.
func (o *BaseOrder) Finish() Result {
	o.finished = true
	return ResultFinished
}

func (o *BaseOrder) ParseGenericData(key string, args *Args, pc *ParseContext) (bool, error) {
	switch key {
	case "finished":
		o.finished = true
		return true, nil
	case "goal":
		ref, err := args.Value(key)
		if err != nil {
			return true, err
		}
		if pc == nil || pc.Units == nil {
			return true, fmt.Errorf("goal: no unit table to resolve %v", ref)
		}
		id, ok := pc.Units.ResolveRef(ref)
		if !ok {
			return true, fmt.Errorf("goal: unknown unit %v", ref)
		}
		o.goal = id
		return true, nil
	case "state":
		n, err := args.Int(key)
		if err != nil {
			return true, err
		}
		o.state = n
		return true, nil
	}
	return false, nil
}

// FillSeenValues records what enemies see of this order.
func (o *BaseOrder) FillSeenValues(u *Unit) {
	u.Seen.State = 0
	if o.kind == KindUpgradeTo {
		u.Seen.State = 1 << 1
	}
	if u.CurrentAction() == KindDie {
		u.Seen.State = 3
	}
}

func (o *BaseOrder) OnAiHitUnit(u *Unit, attacker *Unit, damage int) bool {
	return false
}

// AiUnitKilled logs deaths that happen under orders where death is unusual.
func (o *BaseOrder) AiUnitKilled(u *Unit, env *Env) {
	switch o.kind {
	case KindStill, KindAttack, KindMove:
		return
	}
	if env == nil || env.Log == nil {
		return
	}
	env.Log.Debug("unit killed with unexpected order",
		zap.Int("player", u.Player),
		zap.Int("slot", u.Slot),
		zap.String("type", u.Ident()),
		zap.Stringer("order", o.kind),
	)
}

// OnAnimationAttack runs at the attack keyframe of an animation.
func (o *BaseOrder) OnAnimationAttack(u *Unit, env *Env) {
	if u.Type == nil || !u.Type.CanAttack || env.Combat == nil {
		return
	}
	goal := env.Combat.AttackUnitsInRange(u)
	if goal == nil {
		return
	}
	env.Combat.FireMissile(u, goal, InvalidPos)
	// a unit is invisible until it attacks
	if env.Visibility != nil {
		env.Visibility.UnHide(u)
	}
}

// UpdatePathFinderData must be overridden by every order that moves.
func (o *BaseOrder) UpdatePathFinderData(in *PathFinderInput) {
	panic(fmt.Errorf("%w: UpdatePathFinderData called on %s", ErrInvariant, o.kind))
}
