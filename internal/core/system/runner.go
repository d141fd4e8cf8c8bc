package system

import "sort"

// Runner executes systems in phase order each cycle.
// Systems sharing a phase keep their registration order.
type Runner struct {
	systems []System
	sorted  bool
}

func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 8),
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Tick runs one full cycle.
func (r *Runner) Tick(cycle uint64) {
	r.ensureSorted()
	for _, s := range r.systems {
		s.Update(cycle)
	}
}

// TickPhase runs only the systems of the given phase.
func (r *Runner) TickPhase(phase Phase, cycle uint64) {
	r.ensureSorted()
	for _, s := range r.systems {
		if s.Phase() == phase {
			s.Update(cycle)
		}
	}
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
