package world

import (
	"github.com/stratago/simcore/internal/data"
	"github.com/stratago/simcore/internal/unit"
)

func attackRange(u *unit.Unit) int {
	if u.Type == nil || u.Type.AttackRange < 1 {
		return 1
	}
	return u.Type.AttackRange
}

// hostile reports whether a may shoot at b. Neutral units (player < 0) are
// never picked automatically.
func hostile(a, b *unit.Unit) bool {
	return a != b && b.Player >= 0 && a.Player != b.Player &&
		!b.Removed && b.Alive()
}

// AttackUnitsInRange implements unit.Combat: the nearest hostile unit in
// range, lowest slot first on ties. Removed units see nothing.
func (s *State) AttackUnitsInRange(u *unit.Unit) *unit.Unit {
	if u.Removed || u.Type == nil || !u.Type.CanAttack {
		return nil
	}
	rng := attackRange(u)
	var best *unit.Unit
	bestDist := 0
	for _, id := range s.ecs.Live() {
		other, ok := s.units.Get(id)
		if !ok || !hostile(u, other) {
			continue
		}
		d := u.TilePos.Distance(other.TilePos)
		if d > rng {
			continue
		}
		if best == nil || d < bestDist || (d == bestDist && other.Slot < best.Slot) {
			best, bestDist = other, d
		}
	}
	return best
}

// FireMissile implements unit.Combat. Missiles hit at once: a goal takes
// the damage, a ground shot hits everyone standing on pos.
func (s *State) FireMissile(u *unit.Unit, goal *unit.Unit, pos unit.Vec2i) {
	damage := s.damage(u)
	if goal != nil {
		s.HitUnit(u, goal, damage)
		return
	}
	if pos == unit.InvalidPos {
		return
	}
	for _, id := range s.grid.Occupants(pos) {
		if target, ok := s.Lookup(id); ok && target != u {
			s.HitUnit(u, target, damage)
		}
	}
}

// damage is basic damage plus a random share of piercing damage, drawn from
// the synchronized generator.
func (s *State) damage(u *unit.Unit) int {
	if u.Type == nil {
		return 1
	}
	dmg := u.Type.BasicDamage
	if u.Type.PiercingDamage > 0 {
		dmg += s.Rand.Intn(u.Type.PiercingDamage + 1)
	}
	if dmg < 1 {
		dmg = 1
	}
	return dmg
}

// HitUnit implements unit.Combat. Shield absorbs damage first. A surviving
// target's listener (its order, then the AI) hears about the hit.
func (s *State) HitUnit(attacker, target *unit.Unit, damage int) {
	if !target.Alive() || damage <= 0 {
		return
	}
	hp := target.HP()
	if hp == nil {
		return
	}
	if shield := target.Variable(data.ShieldIndex); shield != nil && shield.Enable && shield.Value > 0 {
		absorbed := min(shield.Value, damage)
		shield.Value -= absorbed
		damage -= absorbed
	}
	hp.Value -= damage
	if hp.Value <= 0 {
		hp.Value = 0
		s.LetUnitDie(target)
		return
	}
	if s.listener != nil {
		s.listener.OnHitUnit(target, attacker, damage)
		return
	}
	if s.AI != nil {
		s.AI.HitUnit(target, attacker, damage)
	}
}
