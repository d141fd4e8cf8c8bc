package world

import (
	"github.com/stratago/simcore/internal/core/ecs"
	"github.com/stratago/simcore/internal/unit"
)

// EntityGrid is a tile occupancy map for collision checks. A tile may hold
// several units (a worker standing on its construction site). Occupants are
// kept in insertion order so OccupantAt is stable across peers.
type EntityGrid struct {
	tiles map[unit.Vec2i][]ecs.EntityID
}

func newEntityGrid() *EntityGrid {
	return &EntityGrid{tiles: make(map[unit.Vec2i][]ecs.EntityID)}
}

// Occupy marks an entity as occupying a tile.
func (g *EntityGrid) Occupy(pos unit.Vec2i, id ecs.EntityID) {
	for _, v := range g.tiles[pos] {
		if v == id {
			return
		}
	}
	g.tiles[pos] = append(g.tiles[pos], id)
}

// Vacate removes an entity from a tile.
func (g *EntityGrid) Vacate(pos unit.Vec2i, id ecs.EntityID) {
	cell := g.tiles[pos]
	for i, v := range cell {
		if v == id {
			cell = append(cell[:i], cell[i+1:]...)
			break
		}
	}
	if len(cell) == 0 {
		delete(g.tiles, pos)
		return
	}
	g.tiles[pos] = cell
}

// Move vacates the old tile and occupies the new one.
func (g *EntityGrid) Move(from, to unit.Vec2i, id ecs.EntityID) {
	if from == to {
		return
	}
	g.Vacate(from, id)
	g.Occupy(to, id)
}

// IsOccupied returns true if any entity other than exclude occupies the tile.
func (g *EntityGrid) IsOccupied(pos unit.Vec2i, exclude ecs.EntityID) bool {
	for _, id := range g.tiles[pos] {
		if id != exclude {
			return true
		}
	}
	return false
}

// OccupantAt returns the first occupant of the tile, NoEntity if empty.
func (g *EntityGrid) OccupantAt(pos unit.Vec2i) ecs.EntityID {
	if cell := g.tiles[pos]; len(cell) > 0 {
		return cell[0]
	}
	return ecs.NoEntity
}

// Occupants returns a copy of the tile's occupants in arrival order.
func (g *EntityGrid) Occupants(pos unit.Vec2i) []ecs.EntityID {
	return append([]ecs.EntityID(nil), g.tiles[pos]...)
}

func (g *EntityGrid) reset() {
	clear(g.tiles)
}
