package system

import (
	"go.uber.org/zap"

	coresys "github.com/stratago/simcore/internal/core/system"
)

// Scheduler runs the commands a scenario scheduled for a cycle.
type Scheduler interface {
	RunDue(cycle uint64) error
}

// InputSystem applies scheduled commands before anything else in the cycle,
// so every peer sees the same orders at the same point. Phase 0 (Input).
type InputSystem struct {
	scheduler Scheduler
	log       *zap.Logger
}

func NewInputSystem(scheduler Scheduler, log *zap.Logger) *InputSystem {
	return &InputSystem{scheduler: scheduler, log: log}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(cycle uint64) {
	if s.scheduler == nil {
		return
	}
	// a failing command is dropped; the same failure happens on every peer
	if err := s.scheduler.RunDue(cycle); err != nil {
		s.log.Error("scheduled command failed", zap.Uint64("cycle", cycle), zap.Error(err))
	}
}
