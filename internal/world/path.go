package world

import (
	"github.com/stratago/simcore/internal/unit"
)

// LinePathfinder walks units straight at their goal, sidestepping along one
// axis when the diagonal tile is taken. It does no search: a unit boxed in
// on all three candidate tiles gives up.
type LinePathfinder struct {
	state *State
}

func NewLinePathfinder(s *State) *LinePathfinder {
	return &LinePathfinder{state: s}
}

// Step implements unit.Pathfinder.
func (p *LinePathfinder) Step(u *unit.Unit, in *unit.PathFinderInput) unit.PathStatus {
	if u.Type == nil || u.Type.Speed <= 0 || u.Type.Building {
		return unit.PathUnreachable
	}
	if in.Reached(u.TilePos) {
		return unit.PathReached
	}
	from := u.TilePos
	for _, next := range candidates(from, in) {
		if next == from || p.state.grid.IsOccupied(next, u.ID) {
			continue
		}
		p.state.grid.Move(from, next, u.ID)
		u.TilePos = next
		u.IX, u.IY = 0, 0
		if in.Reached(next) {
			return unit.PathReached
		}
		return unit.PathMoving
	}
	return unit.PathUnreachable
}

// candidates lists the tiles worth trying, best first. When the unit is
// closer than the minimum range it backs away instead.
func candidates(from unit.Vec2i, in *unit.PathFinderInput) []unit.Vec2i {
	target := in.Goal
	if from.Distance(in.Goal) < in.MinRange {
		target = unit.Vec2i{X: 2*from.X - in.Goal.X, Y: 2*from.Y - in.Goal.Y}
	}
	diag := from.StepToward(target)
	return []unit.Vec2i{
		diag,
		{X: diag.X, Y: from.Y},
		{X: from.X, Y: diag.Y},
	}
}
