package system

import (
	"go.uber.org/zap"

	coresys "github.com/stratago/simcore/internal/core/system"
	"github.com/stratago/simcore/internal/synchash"
	"github.com/stratago/simcore/internal/trace"
	"github.com/stratago/simcore/internal/world"
)

// ActionSystem is the simulation driver: each cycle it snapshots the live
// units, runs the periodic effects once per second and dispatches every
// unit's orders. Phase 2 (Update).
type ActionSystem struct {
	world           *world.State
	cyclesPerSecond uint64
	periodic        *PeriodicStage
	dispatch        *DispatchStage
	hooks           *Hooks
}

func NewActionSystem(ws *world.State, hash *synchash.Hash, sink trace.Sink, cyclesPerSecond int, log *zap.Logger) *ActionSystem {
	if cyclesPerSecond <= 0 {
		cyclesPerSecond = 1
	}
	s := &ActionSystem{
		world:           ws,
		cyclesPerSecond: uint64(cyclesPerSecond),
		periodic:        NewPeriodicStage(cyclesPerSecond, ws, ws, log),
		dispatch:        NewDispatchStage(hash, sink, log),
		hooks:           NewHooks(ws),
	}
	ws.SetListener(s.hooks)
	return s
}

func (s *ActionSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *ActionSystem) Update(cycle uint64) {
	s.AdvanceOneCycle(cycle)
}

// Hooks returns the AI and animation entry points.
func (s *ActionSystem) Hooks() *Hooks { return s.hooks }

// AdvanceOneCycle runs one cycle. The snapshot is taken before anything
// runs, so units created during the cycle first act in the next one.
func (s *ActionSystem) AdvanceOneCycle(cycle uint64) {
	s.world.SetCycle(cycle)
	units := s.world.Snapshot()
	if cycle%s.cyclesPerSecond == 0 {
		s.periodic.Run(cycle, units)
	}
	s.dispatch.Run(s.world.Env(), units)
}
