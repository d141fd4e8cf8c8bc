package system

import (
	"github.com/stratago/simcore/internal/core/event"
	coresys "github.com/stratago/simcore/internal/core/system"
)

// EventSystem makes last cycle's events visible and delivers them.
// Phase 1 (PreUpdate).
type EventSystem struct {
	bus *event.Bus
}

func NewEventSystem(bus *event.Bus) *EventSystem {
	return &EventSystem{bus: bus}
}

func (s *EventSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *EventSystem) Update(_ uint64) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
