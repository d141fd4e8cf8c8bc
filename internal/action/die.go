package action

import "github.com/stratago/simcore/internal/unit"

// Die plays the death animation. The animation cannot be interrupted; when
// its last frame is reached Execute reports ResultDied and the dispatch
// stage hands the unit to the death collaborator.
type Die struct {
	unit.BaseOrder
}

func NewDie() *Die {
	return &Die{BaseOrder: unit.NewBaseOrder(unit.KindDie)}
}

func (o *Die) ParseSpecificData(key string, args *unit.Args, pc *unit.ParseContext) (bool, error) {
	return false, nil
}

func (o *Die) Execute(u *unit.Unit, env *unit.Env) unit.Result {
	frames := 1
	if u.Type != nil && u.Type.DeathFrames > 0 {
		frames = u.Type.DeathFrames
	}
	frame := o.Progress()
	if frame < frames {
		u.Anim.Unbreakable = true
		u.Anim.Frame = frame
		o.SetProgress(frame + 1)
		return unit.ResultContinue
	}
	u.Anim.Unbreakable = false
	o.SetFinished(true)
	return unit.ResultDied
}
