package unit

import (
	"go.uber.org/zap"

	"github.com/stratago/simcore/internal/core/ecs"
	"github.com/stratago/simcore/internal/data"
	"github.com/stratago/simcore/internal/synchash"
)

// Resolver turns weak references into units.
type Resolver interface {
	// Lookup returns the unit behind id, false once it has been destroyed.
	Lookup(id ecs.EntityID) (*Unit, bool)
	// ResolveRef accepts a saved reference ("U0003" or a slot number).
	ResolveRef(ref any) (ecs.EntityID, bool)
}

// PathStatus is the outcome of one pathfinder step.
type PathStatus int

const (
	PathMoving PathStatus = iota
	PathReached
	PathUnreachable
)

// PathFinderInput describes where an order wants its unit to go.
type PathFinderInput struct {
	Unit     *Unit
	Goal     Vec2i
	GoalSize Vec2i
	MinRange int
	MaxRange int
}

func (in *PathFinderInput) SetGoal(pos, size Vec2i) {
	in.Goal = pos
	in.GoalSize = size
}

// Reached reports whether pos lies within the goal's range band.
func (in *PathFinderInput) Reached(pos Vec2i) bool {
	d := pos.Distance(in.Goal)
	return d >= in.MinRange && d <= in.MaxRange
}

func (in *PathFinderInput) SetMinRange(r int) { in.MinRange = r }
func (in *PathFinderInput) SetMaxRange(r int) { in.MaxRange = r }

// Pathfinder moves units one tile at a time. Step is only called while the
// unit has not reached the input's range band.
type Pathfinder interface {
	Step(u *Unit, in *PathFinderInput) PathStatus
}

// Combat resolves attacks.
type Combat interface {
	AttackUnitsInRange(u *Unit) *Unit
	FireMissile(u *Unit, goal *Unit, pos Vec2i)
	HitUnit(attacker, target *Unit, damage int)
}

// Death owns the dying process.
type Death interface {
	// LetUnitDie starts the death of u (queue replaced by a die order).
	LetUnitDie(u *Unit)
	// OnDeathAnimationCaught finalizes a unit whose die order completed.
	OnDeathAnimationCaught(u *Unit)
}

// Visibility handles fog-of-war side effects.
type Visibility interface {
	UnHide(u *Unit)
}

// Selection is the selection display collaborator.
type Selection interface {
	IsOnlySelected(u *Unit) bool
	SelectedUnitChanged()
}

// AI receives notifications the AI module acts upon.
type AI interface {
	UnitKilled(u *Unit)
	HitUnit(u *Unit, attacker *Unit, damage int)
}

// Spawner creates and transforms units on behalf of orders.
type Spawner interface {
	SpawnUnit(ut *data.UnitType, player int, pos Vec2i) *Unit
	TransformUnit(u *Unit, ut *data.UnitType)
}

// Env bundles the collaborators an order may use while executing.
type Env struct {
	Cycle      uint64
	Units      Resolver
	Rand       *synchash.Rand
	Pathfinder Pathfinder
	Combat     Combat
	Death      Death
	Visibility Visibility
	Selection  Selection
	AI         AI
	Spawner    Spawner
	Log        *zap.Logger
}

// GoalUnit resolves an order's goal, nil when unset or destroyed.
func (e *Env) GoalUnit(o Order) *Unit {
	id := o.Goal()
	if id.IsZero() || e.Units == nil {
		return nil
	}
	g, ok := e.Units.Lookup(id)
	if !ok || g.Destroyed {
		return nil
	}
	return g
}
