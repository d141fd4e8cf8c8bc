package action

import (
	"fmt"

	"github.com/stratago/simcore/internal/data"
	"github.com/stratago/simcore/internal/unit"
)

// spellVariables maps the timed-buff spells to the variable they charge.
var spellVariables = map[string]int{
	"bloodlust":    data.BloodlustIndex,
	"haste":        data.HasteIndex,
	"slow":         data.SlowIndex,
	"invisibility": data.InvisibleIndex,
	"unholy-armor": data.UnholyArmorIndex,
	"heal":         data.HPIndex,
}

// SpellCast walks into range of its goal (or tile) and casts once.
type SpellCast struct {
	unit.BaseOrder
	Spell    string
	Range    int
	Dest     unit.Vec2i
	Amount   int
	ManaCost int
	target   unit.Vec2i
}

func NewSpellCast() *SpellCast {
	return &SpellCast{BaseOrder: unit.NewBaseOrder(unit.KindSpellCast), Range: 1, Amount: 500}
}

func (o *SpellCast) ParseSpecificData(key string, args *unit.Args, pc *unit.ParseContext) (bool, error) {
	var err error
	switch key {
	case "spell":
		if o.Spell, err = args.String(key); err == nil {
			if _, ok := spellVariables[o.Spell]; !ok {
				err = fmt.Errorf("%s: unknown spell %q", key, o.Spell)
			}
		}
	case "range":
		o.Range, err = args.Int(key)
	case "tile":
		o.Dest, err = args.Pos(key)
	case "amount":
		o.Amount, err = args.Int(key)
	case "mana-cost":
		o.ManaCost, err = args.Int(key)
	default:
		return false, nil
	}
	return true, err
}

func (o *SpellCast) UpdatePathFinderData(in *unit.PathFinderInput) {
	in.SetMinRange(0)
	in.SetMaxRange(o.Range)
	in.SetGoal(o.target, unit.Vec2i{})
}

func (o *SpellCast) Execute(u *unit.Unit, env *unit.Env) unit.Result {
	idx, ok := spellVariables[o.Spell]
	if !ok {
		return o.Finish()
	}
	target := u
	o.target = u.TilePos
	if !o.Goal().IsZero() {
		target = env.GoalUnit(o)
		if target == nil || !target.Alive() {
			o.ClearGoal()
			return o.Finish()
		}
		o.target = target.TilePos
	}
	switch step(u, env, o) {
	case unit.PathUnreachable:
		return o.Finish()
	case unit.PathMoving:
		return unit.ResultContinue
	}

	mana := u.Variable(data.ManaIndex)
	if o.ManaCost > 0 {
		if mana == nil || mana.Value < o.ManaCost {
			return o.Finish()
		}
		mana.Value -= o.ManaCost
	}
	if v := target.Variable(idx); v != nil {
		v.Value += o.Amount
		v.Clamp()
	}
	if env.Visibility != nil && idx != data.InvisibleIndex {
		env.Visibility.UnHide(u)
	}
	return o.Finish()
}
