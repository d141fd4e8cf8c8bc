package event

import "github.com/stratago/simcore/internal/core/ecs"

// SelectionChanged is emitted when the only selected unit changed its current
// order, so the selection display must refresh.
type SelectionChanged struct {
	Unit ecs.EntityID
}

// UnitRevealed is emitted when a unit stops being invisible.
type UnitRevealed struct {
	Unit ecs.EntityID
}

// UnitHit is emitted for damage that the unit's order did not handle itself.
type UnitHit struct {
	Unit     ecs.EntityID
	Attacker ecs.EntityID
	Damage   int
}

// UnitKilled is emitted when a unit's hit points reach zero.
type UnitKilled struct {
	Unit  ecs.EntityID
	Ident string
}

// UnitDestroyed is emitted once the death animation finished and the unit
// left the world.
type UnitDestroyed struct {
	Unit ecs.EntityID
}
