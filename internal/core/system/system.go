package system

// Phase defines execution ordering within a single cycle.
type Phase int

const (
	PhaseInput      Phase = iota // 0: apply queued commands
	PhasePreUpdate               // 1: deliver last cycle's events
	PhaseUpdate                  // 2: unit actions (periodic effects + dispatch)
	PhasePostUpdate              // 3: reserved for effects that read post-dispatch state
	PhaseOutput                  // 4: debug output
	PhasePersist                 // 5: checksum ledger
	PhaseCleanup                 // 6: destroy queued entities
)

// System is the interface every ECS system implements.
// cycle is the global cycle counter for the cycle being simulated.
type System interface {
	Phase() Phase
	Update(cycle uint64)
}
