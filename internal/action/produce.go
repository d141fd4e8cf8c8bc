package action

import (
	"fmt"

	"github.com/stratago/simcore/internal/data"
	"github.com/stratago/simcore/internal/unit"
)

func producerTicks(key string, args *unit.Args) (int, error) {
	n, err := args.Int(key)
	if err == nil && n < 0 {
		err = fmt.Errorf("%s: negative duration %d", key, n)
	}
	return n, err
}

func typeTicks(ut *data.UnitType, ticks int) int {
	if ticks > 0 {
		return ticks
	}
	if ut != nil && ut.BuildTime > 0 {
		return ut.BuildTime
	}
	return 1
}

// Train produces a new unit next to the trainer.
type Train struct {
	unit.BaseOrder
	Type  *data.UnitType
	Ticks int
}

func NewTrain() *Train {
	return &Train{BaseOrder: unit.NewBaseOrder(unit.KindTrain)}
}

func (o *Train) ParseSpecificData(key string, args *unit.Args, pc *unit.ParseContext) (bool, error) {
	var err error
	switch key {
	case "type":
		o.Type, err = pc.UnitType(key, args)
	case "ticks":
		o.Ticks, err = producerTicks(key, args)
	default:
		return false, nil
	}
	return true, err
}

func (o *Train) Execute(u *unit.Unit, env *unit.Env) unit.Result {
	if o.Type == nil {
		return o.Finish()
	}
	progress := o.Progress() + 1
	o.SetProgress(progress)
	if progress < typeTicks(o.Type, o.Ticks) {
		return unit.ResultContinue
	}
	if env.Spawner != nil {
		env.Spawner.SpawnUnit(o.Type, u.Player, u.TilePos.Add(unit.Vec2i{X: 1}))
	}
	return o.Finish()
}

// Research spends time on an upgrade. The upgrade's effect belongs to the
// player model and is out of this package's hands.
type Research struct {
	unit.BaseOrder
	Upgrade string
	Ticks   int
}

func NewResearch() *Research {
	return &Research{BaseOrder: unit.NewBaseOrder(unit.KindResearch), Ticks: 1}
}

func (o *Research) ParseSpecificData(key string, args *unit.Args, pc *unit.ParseContext) (bool, error) {
	var err error
	switch key {
	case "upgrade":
		o.Upgrade, err = args.String(key)
	case "ticks":
		o.Ticks, err = producerTicks(key, args)
	default:
		return false, nil
	}
	return true, err
}

func (o *Research) Execute(u *unit.Unit, env *unit.Env) unit.Result {
	progress := o.Progress() + 1
	o.SetProgress(progress)
	if progress < o.Ticks {
		return unit.ResultContinue
	}
	return o.Finish()
}

// UpgradeTo turns the unit into another type after some time.
type UpgradeTo struct {
	unit.BaseOrder
	Type  *data.UnitType
	Ticks int
}

func NewUpgradeTo() *UpgradeTo {
	return &UpgradeTo{BaseOrder: unit.NewBaseOrder(unit.KindUpgradeTo)}
}

func (o *UpgradeTo) ParseSpecificData(key string, args *unit.Args, pc *unit.ParseContext) (bool, error) {
	var err error
	switch key {
	case "type":
		o.Type, err = pc.UnitType(key, args)
	case "ticks":
		o.Ticks, err = producerTicks(key, args)
	default:
		return false, nil
	}
	return true, err
}

func (o *UpgradeTo) Execute(u *unit.Unit, env *unit.Env) unit.Result {
	if o.Type == nil {
		return o.Finish()
	}
	progress := o.Progress() + 1
	o.SetProgress(progress)
	if progress < typeTicks(o.Type, o.Ticks) {
		return unit.ResultContinue
	}
	if env.Spawner != nil {
		env.Spawner.TransformUnit(u, o.Type)
	}
	return o.Finish()
}

// TransformInto changes the unit's type at once.
type TransformInto struct {
	unit.BaseOrder
	Type *data.UnitType
}

func NewTransformInto() *TransformInto {
	return &TransformInto{BaseOrder: unit.NewBaseOrder(unit.KindTransformInto)}
}

func (o *TransformInto) ParseSpecificData(key string, args *unit.Args, pc *unit.ParseContext) (bool, error) {
	if key != "type" {
		return false, nil
	}
	var err error
	o.Type, err = pc.UnitType(key, args)
	return true, err
}

func (o *TransformInto) Execute(u *unit.Unit, env *unit.Env) unit.Result {
	if o.Type != nil && env.Spawner != nil {
		env.Spawner.TransformUnit(u, o.Type)
	}
	return o.Finish()
}
