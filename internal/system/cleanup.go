package system

import (
	"github.com/stratago/simcore/internal/core/ecs"
	coresys "github.com/stratago/simcore/internal/core/system"
)

// CleanupSystem flushes the deferred entity destruction queue at cycle end.
// Phase 6 (Cleanup).
type CleanupSystem struct {
	world *ecs.World
}

func NewCleanupSystem(world *ecs.World) *CleanupSystem {
	return &CleanupSystem{world: world}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ uint64) {
	s.world.FlushDestroyQueue()
}
