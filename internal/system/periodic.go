package system

import (
	"go.uber.org/zap"

	"github.com/stratago/simcore/internal/unit"
)

// PeriodicStage runs the once-per-second effects: blink countdown, burning
// and regeneration, then buff decay with the reveal of units whose
// invisibility ran out.
type PeriodicStage struct {
	cyclesPerSecond int
	death           unit.Death
	visibility      unit.Visibility
	log             *zap.Logger
}

func NewPeriodicStage(cyclesPerSecond int, death unit.Death, visibility unit.Visibility, log *zap.Logger) *PeriodicStage {
	return &PeriodicStage{
		cyclesPerSecond: cyclesPerSecond,
		death:           death,
		visibility:      visibility,
		log:             log,
	}
}

// Run applies one second of effects to the snapshot. Destroyed units are
// skipped.
func (p *PeriodicStage) Run(cycle uint64, units []*unit.Unit) {
	for _, u := range units {
		if u.Destroyed {
			continue
		}
		if u.Blink > 0 {
			u.Blink--
		}
		p.regenerate(u)
		p.decayBuffs(u, cycle, p.cyclesPerSecond)
	}
}
