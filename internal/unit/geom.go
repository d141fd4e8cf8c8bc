package unit

// Vec2i is a tile position.
type Vec2i struct {
	X, Y int
}

// InvalidPos marks "no position" (missile fired at a unit, not at the ground).
var InvalidPos = Vec2i{X: -1, Y: -1}

func (v Vec2i) Add(o Vec2i) Vec2i { return Vec2i{v.X + o.X, v.Y + o.Y} }

// Distance is the tile (Chebyshev) distance used for ranges.
func (v Vec2i) Distance(o Vec2i) int {
	dx, dy := abs(v.X-o.X), abs(v.Y-o.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// StepToward returns the neighbouring tile one step closer to o.
func (v Vec2i) StepToward(o Vec2i) Vec2i {
	return Vec2i{v.X + sign(o.X-v.X), v.Y + sign(o.Y-v.Y)}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
