package unit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/stratago/simcore/internal/core/ecs"
	"github.com/stratago/simcore/internal/data"
)

// stubOrder relies on every BaseOrder default.
type stubOrder struct {
	BaseOrder
	released int
}

func newStub(kind Kind) *stubOrder {
	return &stubOrder{BaseOrder: NewBaseOrder(kind)}
}

func (o *stubOrder) Execute(u *Unit, env *Env) Result { return ResultContinue }
func (o *stubOrder) ParseSpecificData(key string, args *Args, pc *ParseContext) (bool, error) {
	return false, nil
}
func (o *stubOrder) Release() {
	o.released++
	o.BaseOrder.Release()
}

type stubCombat struct {
	target *Unit
	fired  int
}

func (c *stubCombat) AttackUnitsInRange(*Unit) *Unit          { return c.target }
func (c *stubCombat) FireMissile(u, goal *Unit, pos Vec2i)    { c.fired++ }
func (c *stubCombat) HitUnit(attacker, target *Unit, dmg int) {}

type stubVisibility struct{ unhidden []*Unit }

func (v *stubVisibility) UnHide(u *Unit) { v.unhidden = append(v.unhidden, u) }

func TestQueueHelpers(t *testing.T) {
	u := &Unit{}
	assert.Nil(t, u.CurrentOrder())
	assert.Equal(t, KindNone, u.CurrentAction())

	a, b, c := newStub(KindMove), newStub(KindAttack), newStub(KindStill)
	a.SetGoal(ecs.NewEntityID(4, 1))
	u.PushOrder(a)
	u.PushOrder(b)
	assert.Equal(t, KindMove, u.CurrentAction())

	u.PopOrder()
	assert.Equal(t, 1, a.released)
	assert.True(t, a.Goal().IsZero())
	assert.Equal(t, KindAttack, u.CurrentAction())

	u.SetCurrentOrder(c)
	assert.Equal(t, 1, b.released)
	assert.Len(t, u.Orders, 1)

	u.ReplaceOrders(a, b)
	assert.Equal(t, 1, c.released)
	assert.Len(t, u.Orders, 2)

	u.CriticalOrder = c
	u.ClearCriticalOrder()
	assert.Nil(t, u.CriticalOrder)
	assert.Equal(t, 2, c.released)
}

func TestAlive(t *testing.T) {
	u := &Unit{Orders: []Order{newStub(KindStill)}}
	assert.True(t, u.Alive())
	u.Orders[0] = newStub(KindDie)
	assert.False(t, u.Alive())
	u.Orders[0] = newStub(KindStill)
	u.Destroyed = true
	assert.False(t, u.Alive())
}

func TestIdent(t *testing.T) {
	u := &Unit{}
	assert.Equal(t, "unit-killed", u.Ident())
	u.Type = &data.UnitType{Ident: "unit-footman"}
	assert.Equal(t, "unit-footman", u.Ident())
}

func TestFillSeenValues(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindStill, 0},
		{KindUpgradeTo, 2},
		{KindDie, 3},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			o := newStub(tt.kind)
			u := &Unit{Orders: []Order{o}, Seen: Seen{State: 7}}
			o.FillSeenValues(u)
			assert.Equal(t, tt.want, u.Seen.State)
		})
	}
}

func TestUpdatePathFinderData_DefaultPanics(t *testing.T) {
	o := newStub(KindStill)
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, ErrInvariant))
	}()
	o.UpdatePathFinderData(&PathFinderInput{})
}

func TestOnAiHitUnit_DefaultDeclines(t *testing.T) {
	assert.False(t, newStub(KindMove).OnAiHitUnit(&Unit{}, &Unit{}, 3))
}

func TestAiUnitKilled_LogsUnexpectedKinds(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	env := &Env{Log: zap.New(core)}
	u := &Unit{Slot: 3}

	for _, k := range []Kind{KindStill, KindAttack, KindMove} {
		newStub(k).AiUnitKilled(u, env)
	}
	assert.Zero(t, logs.Len())

	newStub(KindBuild).AiUnitKilled(u, env)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "action-build", logs.All()[0].ContextMap()["order"])
}

func TestOnAnimationAttack(t *testing.T) {
	target := &Unit{}
	combat := &stubCombat{target: target}
	vis := &stubVisibility{}
	env := &Env{Combat: combat, Visibility: vis}

	archer := &Unit{Type: &data.UnitType{CanAttack: true}}
	newStub(KindAttack).OnAnimationAttack(archer, env)
	assert.Equal(t, 1, combat.fired)
	assert.Equal(t, []*Unit{archer}, vis.unhidden)

	peasant := &Unit{Type: &data.UnitType{}}
	newStub(KindAttack).OnAnimationAttack(peasant, env)
	assert.Equal(t, 1, combat.fired)

	combat.target = nil
	newStub(KindAttack).OnAnimationAttack(archer, env)
	assert.Equal(t, 1, combat.fired)
}

func TestParseGenericData(t *testing.T) {
	o := newStub(KindMove)
	args := NewArgs([]any{4})
	claimed, err := o.ParseGenericData("state", args, nil)
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Equal(t, 4, o.Progress())

	claimed, err = o.ParseGenericData("finished", NewArgs(nil), nil)
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.True(t, o.Finished())

	claimed, err = o.ParseGenericData("goal", NewArgs([]any{"U0001"}), nil)
	assert.True(t, claimed)
	assert.Error(t, err, "no resolver")

	claimed, err = o.ParseGenericData("range", NewArgs([]any{1}), nil)
	assert.False(t, claimed)
	assert.NoError(t, err)
}

func TestArgs(t *testing.T) {
	a := NewArgs([]any{"tile", []int{3, 4}, "n", 2.0, "bad", 2.5})
	assert.Equal(t, 1, a.Index())

	k, err := a.Keyword()
	require.NoError(t, err)
	assert.Equal(t, "tile", k)
	pos, err := a.Pos(k)
	require.NoError(t, err)
	assert.Equal(t, Vec2i{X: 3, Y: 4}, pos)

	_, _ = a.Keyword()
	n, err := a.Int("n")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, _ = a.Keyword()
	_, err = a.Int("bad")
	assert.Error(t, err)
	assert.False(t, a.More())

	_, err = a.String("past-end")
	assert.Error(t, err)
}

func TestGeometry(t *testing.T) {
	assert.Equal(t, 3, Vec2i{}.Distance(Vec2i{X: -3, Y: 2}))
	assert.Equal(t, Vec2i{X: 1, Y: -1}, Vec2i{}.StepToward(Vec2i{X: 5, Y: -2}))
	assert.Equal(t, Vec2i{X: 5, Y: 5}, Vec2i{X: 5, Y: 5}.StepToward(Vec2i{X: 5, Y: 5}))

	in := PathFinderInput{}
	in.SetGoal(Vec2i{X: 4}, Vec2i{})
	in.SetMinRange(1)
	in.SetMaxRange(2)
	assert.False(t, in.Reached(Vec2i{X: 4}))
	assert.True(t, in.Reached(Vec2i{X: 3}))
	assert.False(t, in.Reached(Vec2i{}))
}

func TestKinds(t *testing.T) {
	kinds := Kinds()
	assert.Len(t, kinds, 19)
	assert.NotContains(t, kinds, KindNone)
	assert.Equal(t, "action-attack-ground", KindAttackGround.Tag())
	assert.Equal(t, "died", ResultDied.String())
}
