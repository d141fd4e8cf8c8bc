package world

import (
	"go.uber.org/zap"

	"github.com/stratago/simcore/internal/core/event"
	"github.com/stratago/simcore/internal/unit"
)

// AINotifier is the default AI collaborator. Decision making lives outside
// the simulation core, so it only records what happened: a debug log line and
// an event for subscribers.
type AINotifier struct {
	bus *event.Bus
	log *zap.Logger
}

func NewAINotifier(bus *event.Bus, log *zap.Logger) *AINotifier {
	return &AINotifier{bus: bus, log: log}
}

// UnitKilled implements unit.AI. The killed event itself is emitted by the
// death collaborator.
func (a *AINotifier) UnitKilled(u *unit.Unit) {
	a.log.Debug("ai: unit killed",
		zap.Stringer("unit", u.ID),
		zap.Int("player", u.Player),
		zap.Stringer("order", u.CurrentAction()),
	)
}

// HitUnit implements unit.AI.
func (a *AINotifier) HitUnit(u *unit.Unit, attacker *unit.Unit, damage int) {
	ev := event.UnitHit{Unit: u.ID, Damage: damage}
	if attacker != nil {
		ev.Attacker = attacker.ID
	}
	event.Emit(a.bus, ev)
	a.log.Debug("ai: unit hit",
		zap.Stringer("unit", u.ID),
		zap.Stringer("attacker", ev.Attacker),
		zap.Int("damage", damage),
	)
}
