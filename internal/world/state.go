package world

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/stratago/simcore/internal/action"
	"github.com/stratago/simcore/internal/core/ecs"
	"github.com/stratago/simcore/internal/core/event"
	"github.com/stratago/simcore/internal/data"
	"github.com/stratago/simcore/internal/synchash"
	"github.com/stratago/simcore/internal/unit"
)

// Listener receives the notifications that must reach a unit's current order
// before the AI sees them. The action system's hooks implement it.
type Listener interface {
	OnUnitKilled(u *unit.Unit)
	OnHitUnit(u *unit.Unit, attacker *unit.Unit, damage int) bool
}

// State tracks every unit in the simulation and implements the default
// collaborators orders act through.
// Single-goroutine access only (game loop).
type State struct {
	ecs   *ecs.World
	units *ecs.PtrComponentStore[unit.Unit]
	grid  *EntityGrid

	Bus   *event.Bus
	Types *data.Table
	Rand  *synchash.Rand
	AI    unit.AI

	selected []ecs.EntityID
	listener Listener
	cycle    uint64
	log      *zap.Logger
}

func NewState(types *data.Table, rnd *synchash.Rand, bus *event.Bus, log *zap.Logger) *State {
	w := ecs.NewWorld()
	units := ecs.NewPtrComponentStore[unit.Unit]()
	w.Registry().Register(units)
	s := &State{
		ecs:   w,
		units: units,
		grid:  newEntityGrid(),
		Bus:   bus,
		Types: types,
		Rand:  rnd,
		log:   log,
	}
	s.AI = NewAINotifier(bus, log)
	return s
}

// ECS exposes the entity world for the cleanup pass.
func (s *State) ECS() *ecs.World { return s.ecs }

// SetListener installs the order-first notification hooks.
func (s *State) SetListener(l Listener) { s.listener = l }

// SetCycle records the cycle being simulated; Env reports it to orders.
func (s *State) SetCycle(cycle uint64) { s.cycle = cycle }

func (s *State) Cycle() uint64 { return s.cycle }

// Env assembles the collaborators for one cycle of order execution.
func (s *State) Env() *unit.Env {
	return &unit.Env{
		Cycle:      s.cycle,
		Units:      s,
		Rand:       s.Rand,
		Pathfinder: NewLinePathfinder(s),
		Combat:     s,
		Death:      s,
		Visibility: s,
		Selection:  s,
		AI:         s.AI,
		Spawner:    s,
		Log:        s.log,
	}
}

// --- units ---

// CreateUnit places a unit of the named type. It starts with a single still
// order, so its queue is never empty.
func (s *State) CreateUnit(ident string, player int, pos unit.Vec2i) (*unit.Unit, error) {
	ut, ok := s.Types.Get(ident)
	if !ok {
		return nil, fmt.Errorf("create unit: unknown unit type %q", ident)
	}
	return s.SpawnUnit(ut, player, pos), nil
}

// SpawnUnit implements unit.Spawner.
func (s *State) SpawnUnit(ut *data.UnitType, player int, pos unit.Vec2i) *unit.Unit {
	id := s.ecs.CreateEntity()
	u := &unit.Unit{
		ID:        id,
		Slot:      int(id.Index()),
		Type:      ut,
		Player:    player,
		Orders:    []unit.Order{action.NewStill()},
		Variables: s.Types.NewVariables(ut),
		Refs:      1,
		TilePos:   pos,
	}
	s.units.Set(id, u)
	s.grid.Occupy(pos, id)
	s.log.Debug("unit spawned",
		zap.Stringer("unit", id),
		zap.String("type", ut.Ident),
		zap.Int("player", player),
	)
	return u
}

// TransformUnit implements unit.Spawner. Hit points keep their ratio, timed
// buffs carry over.
func (s *State) TransformUnit(u *unit.Unit, ut *data.UnitType) {
	vars := s.Types.NewVariables(ut)
	if old := u.HP(); old != nil && old.Max > 0 && len(vars) > data.HPIndex {
		vars[data.HPIndex].Value = vars[data.HPIndex].Max * old.Value / old.Max
	}
	for _, idx := range []int{data.ShieldIndex, data.BloodlustIndex, data.HasteIndex, data.SlowIndex, data.InvisibleIndex, data.UnholyArmorIndex} {
		if idx < len(u.Variables) && idx < len(vars) {
			vars[idx].Value = u.Variables[idx].Value
			vars[idx].Clamp()
		}
	}
	s.log.Debug("unit transformed",
		zap.Stringer("unit", u.ID),
		zap.String("from", u.Ident()),
		zap.String("to", ut.Ident),
	)
	u.Type = ut
	u.Variables = vars
}

// Lookup implements unit.Resolver.
func (s *State) Lookup(id ecs.EntityID) (*unit.Unit, bool) {
	if !s.ecs.Alive(id) {
		return nil, false
	}
	return s.units.Get(id)
}

// Unit returns the live unit in a slot.
func (s *State) Unit(slot int) (*unit.Unit, bool) {
	if slot < 0 {
		return nil, false
	}
	id, ok := s.ecs.Pool().Lookup(uint32(slot))
	if !ok {
		return nil, false
	}
	return s.Lookup(id)
}

// ResolveRef implements unit.Resolver. It accepts "U%04X" strings and slot
// numbers.
func (s *State) ResolveRef(ref any) (ecs.EntityID, bool) {
	var slot int
	switch v := ref.(type) {
	case string:
		hex, ok := strings.CutPrefix(v, "U")
		if !ok {
			return ecs.NoEntity, false
		}
		n, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return ecs.NoEntity, false
		}
		slot = int(n)
	case int:
		slot = v
	case int64:
		slot = int(v)
	case float64:
		slot = int(v)
	default:
		return ecs.NoEntity, false
	}
	u, ok := s.Unit(slot)
	if !ok {
		return ecs.NoEntity, false
	}
	return u.ID, true
}

// Snapshot returns the live units in creation order. Units created while the
// snapshot is processed are not part of it. The occupancy grid is rebuilt
// from the snapshot, since orders move units on and off the map directly.
func (s *State) Snapshot() []*unit.Unit {
	ids := s.ecs.Live()
	out := make([]*unit.Unit, 0, len(ids))
	s.grid.reset()
	for _, id := range ids {
		u, ok := s.units.Get(id)
		if !ok {
			continue
		}
		out = append(out, u)
		if !u.Removed && !u.Destroyed {
			s.grid.Occupy(u.TilePos, id)
		}
	}
	return out
}

// UnitCount returns the number of live units.
func (s *State) UnitCount() int { return s.ecs.LiveCount() }

// Grid exposes tile occupancy.
func (s *State) Grid() *EntityGrid { return s.grid }

// --- selection ---

// Select replaces the selection.
func (s *State) Select(ids ...ecs.EntityID) {
	s.selected = append(s.selected[:0], ids...)
}

// Selected returns the current selection.
func (s *State) Selected() []ecs.EntityID {
	return append([]ecs.EntityID(nil), s.selected...)
}

// IsOnlySelected implements unit.Selection.
func (s *State) IsOnlySelected(u *unit.Unit) bool {
	return len(s.selected) == 1 && s.selected[0] == u.ID
}

// SelectedUnitChanged implements unit.Selection.
func (s *State) SelectedUnitChanged() {
	if len(s.selected) == 0 {
		return
	}
	event.Emit(s.Bus, event.SelectionChanged{Unit: s.selected[0]})
}

func (s *State) deselect(id ecs.EntityID) {
	for i, v := range s.selected {
		if v == id {
			s.selected = append(s.selected[:i], s.selected[i+1:]...)
			s.SelectedUnitChanged()
			return
		}
	}
}

// --- visibility ---

// UnHide implements unit.Visibility.
func (s *State) UnHide(u *unit.Unit) {
	if v := u.Variable(data.InvisibleIndex); v != nil {
		v.Value = 0
	}
	event.Emit(s.Bus, event.UnitRevealed{Unit: u.ID})
}
