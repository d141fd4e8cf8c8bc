package unit

import (
	"github.com/stratago/simcore/internal/core/ecs"
	"github.com/stratago/simcore/internal/data"
)

// Anim is the slice of animation state the action core looks at.
type Anim struct {
	// Unbreakable is set while the current animation step must not be
	// interrupted; the dispatch stage then leaves the queue alone.
	Unbreakable bool
	Frame       int
}

// Seen is the snapshot other players see through the fog of war.
type Seen struct {
	State int
}

// Unit holds the in-memory data for one entity in the world.
// Accessed only from the game loop goroutine, no locks needed.
type Unit struct {
	ID     ecs.EntityID
	Slot   int // creation number, stable for the unit's lifetime
	Type   *data.UnitType
	Player int // -1 = neutral

	// Orders is never empty while the unit lives; Orders[0] is current.
	Orders        []Order
	CriticalOrder Order

	Variables []data.Variable

	Destroyed bool
	Removed   bool // not on the map (inside a transport, a mine, or dead)
	Burning   bool
	Anim      Anim

	State int // per-order scratch state, reset on promotion
	Wait  int // cycles to idle before the current order acts again
	Refs  uint32
	TTL   uint64 // cycle after which the unit starts to expire (0 = never)
	Blink int

	TilePos Vec2i
	IX, IY  int // pixel offset inside the tile

	Seen Seen

	Container ecs.EntityID   // transporter this unit boarded
	Inside    []ecs.EntityID // units carried
	Carrying  int            // resources held
}

// CurrentOrder returns the front of the queue, or nil for an empty queue.
func (u *Unit) CurrentOrder() Order {
	if len(u.Orders) == 0 {
		return nil
	}
	return u.Orders[0]
}

// CurrentAction returns the kind of the current order.
func (u *Unit) CurrentAction() Kind {
	if len(u.Orders) == 0 {
		return KindNone
	}
	return u.Orders[0].Kind()
}

// Variable returns the variable at index i, or nil when out of range.
func (u *Unit) Variable(i int) *data.Variable {
	if i < 0 || i >= len(u.Variables) {
		return nil
	}
	return &u.Variables[i]
}

// HP returns the hit point variable.
func (u *Unit) HP() *data.Variable {
	return u.Variable(data.HPIndex)
}

// Ident returns the type ident, "unit-killed" once the type is gone.
func (u *Unit) Ident() string {
	if u.Type == nil {
		return "unit-killed"
	}
	return u.Type.Ident
}

// Alive reports whether the unit is in play.
func (u *Unit) Alive() bool {
	return !u.Destroyed && u.CurrentAction() != KindDie
}

// PushOrder appends an order to the back of the queue.
func (u *Unit) PushOrder(o Order) {
	u.Orders = append(u.Orders, o)
}

// ReplaceOrders releases every queued order and installs the given ones.
func (u *Unit) ReplaceOrders(orders ...Order) {
	for _, o := range u.Orders {
		o.Release()
	}
	u.Orders = append(u.Orders[:0], orders...)
}

// PopOrder releases and removes the current order.
func (u *Unit) PopOrder() {
	if len(u.Orders) == 0 {
		return
	}
	u.Orders[0].Release()
	u.Orders[0] = nil
	u.Orders = u.Orders[1:]
}

// SetCurrentOrder releases the current order and puts o in its place.
func (u *Unit) SetCurrentOrder(o Order) {
	if len(u.Orders) == 0 {
		u.Orders = append(u.Orders, o)
		return
	}
	u.Orders[0].Release()
	u.Orders[0] = o
}

// ClearCriticalOrder releases and drops the pending critical order.
func (u *Unit) ClearCriticalOrder() {
	if u.CriticalOrder != nil {
		u.CriticalOrder.Release()
		u.CriticalOrder = nil
	}
}
