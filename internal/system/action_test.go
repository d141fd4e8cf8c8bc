package system

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stratago/simcore/internal/action"
	"github.com/stratago/simcore/internal/core/event"
	coresys "github.com/stratago/simcore/internal/core/system"
	"github.com/stratago/simcore/internal/data"
	"github.com/stratago/simcore/internal/synchash"
	"github.com/stratago/simcore/internal/trace"
	"github.com/stratago/simcore/internal/unit"
	"github.com/stratago/simcore/internal/world"
)

const cps = 30

const testTypes = `
unit_types:
  - ident: unit-grunt
    can_attack: true
    attack_range: 1
    basic_damage: 4
    piercing_damage: 2
    speed: 1
    cooldown: 3
    death_frames: 2
    stats:
      hp: {max: 40, increase: 2}
  - ident: unit-torch
    burn_percent: 50
    burn_damage_rate: 3
    stats:
      hp: {max: 40, increase: 2}
  - ident: unit-hall
    building: true
    build_time: 5
    stats:
      hp: {max: 100}
`

// stubOrder is an order whose Execute result the test controls.
type stubOrder struct {
	unit.BaseOrder
	result unit.Result
	calls  int
}

func newStubOrder(kind unit.Kind, result unit.Result) *stubOrder {
	return &stubOrder{BaseOrder: unit.NewBaseOrder(kind), result: result}
}

func (p *stubOrder) Execute(u *unit.Unit, env *unit.Env) unit.Result {
	p.calls++
	return p.result
}

func (p *stubOrder) ParseSpecificData(key string, args *unit.Args, pc *unit.ParseContext) (bool, error) {
	return false, nil
}

type harness struct {
	world  *world.State
	hash   *synchash.Hash
	action *ActionSystem
	runner *coresys.Runner
	trace  *bytes.Buffer
	sink   *trace.WriterSink
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	types, err := data.ParseUnitTypes([]byte(testTypes))
	require.NoError(t, err)
	log := zap.NewNop()
	ws := world.NewState(types, synchash.NewRand(0x1234), event.NewBus(), log)
	hash := synchash.New(0)
	buf := &bytes.Buffer{}
	sink := trace.NewWriterSink(buf)

	as := NewActionSystem(ws, hash, sink, cps, log)
	r := coresys.NewRunner()
	r.Register(NewCleanupSystem(ws.ECS()))
	r.Register(as)
	r.Register(NewEventSystem(ws.Bus))
	return &harness{world: ws, hash: hash, action: as, runner: r, trace: buf, sink: sink}
}

func (h *harness) spawn(t *testing.T, ident string, player, x, y int) *unit.Unit {
	t.Helper()
	u, err := h.world.CreateUnit(ident, player, unit.Vec2i{X: x, Y: y})
	require.NoError(t, err)
	return u
}

// dispatchOnly advances a non-periodic cycle.
func (h *harness) dispatchOnly() { h.action.AdvanceOneCycle(1) }

func TestDispatch_FinishedSoleOrderBecomesStill(t *testing.T) {
	h := newHarness(t)
	u := h.spawn(t, "unit-grunt", 0, 0, 0)
	front := newStubOrder(unit.KindMove, unit.ResultContinue)
	front.SetFinished(true)
	u.ReplaceOrders(front)
	u.State = 5
	h.world.Select(u.ID)

	h.dispatchOnly()

	require.Len(t, u.Orders, 1)
	assert.Equal(t, unit.KindStill, u.CurrentAction())
	assert.False(t, u.CurrentOrder().Finished())
	assert.Zero(t, u.State)
	assert.Zero(t, front.calls)

	h.world.Bus.SwapBuffers()
	assert.Equal(t, 1, event.Pending[event.SelectionChanged](h.world.Bus))
}

func TestDispatch_FinishedStillStays(t *testing.T) {
	h := newHarness(t)
	u := h.spawn(t, "unit-grunt", 0, 0, 0)
	still := newStubOrder(unit.KindStill, unit.ResultContinue)
	still.SetFinished(true)
	u.ReplaceOrders(still)

	h.dispatchOnly()
	assert.Same(t, still, u.CurrentOrder())
	assert.Equal(t, 1, still.calls)
}

func TestDispatch_PopsFinishedFront(t *testing.T) {
	h := newHarness(t)
	u := h.spawn(t, "unit-grunt", 0, 0, 0)
	first := newStubOrder(unit.KindMove, unit.ResultContinue)
	first.SetFinished(true)
	second := newStubOrder(unit.KindAttack, unit.ResultContinue)
	third := newStubOrder(unit.KindPatrol, unit.ResultContinue)
	u.ReplaceOrders(first, second, third)
	u.State, u.Wait = 3, 4

	h.dispatchOnly()

	require.Len(t, u.Orders, 2)
	assert.Same(t, second, u.CurrentOrder())
	assert.Equal(t, 1, second.calls)
	assert.Zero(t, first.calls)
	assert.Zero(t, u.State)
	assert.Zero(t, u.Wait)
}

func TestDispatch_RemovedUnitAbortsButStillFolds(t *testing.T) {
	h := newHarness(t)
	u := h.spawn(t, "unit-grunt", 0, 0, 0)
	first := newStubOrder(unit.KindBuild, unit.ResultContinue)
	first.SetFinished(true)
	second := newStubOrder(unit.KindMove, unit.ResultContinue)
	u.ReplaceOrders(first, second)
	u.Removed = true
	u.State = 2

	before := h.hash.Sum32()
	h.dispatchOnly()
	require.NoError(t, h.sink.Flush())

	assert.Len(t, u.Orders, 2)
	assert.Same(t, first, u.CurrentOrder())
	assert.Zero(t, first.calls)
	assert.Zero(t, second.calls)
	assert.Equal(t, 2, u.State)

	want := synchash.New(before)
	want.Fold(int(unit.KindBuild), 2, u.Refs)
	assert.Equal(t, want.Sum32(), h.hash.Sum32())
	assert.Equal(t, 1, bytes.Count(h.trace.Bytes(), []byte("\n")))
}

func TestDispatch_UnbreakableLeavesQueueAlone(t *testing.T) {
	h := newHarness(t)
	u := h.spawn(t, "unit-grunt", 0, 0, 0)
	first := newStubOrder(unit.KindMove, unit.ResultContinue)
	first.SetFinished(true)
	second := newStubOrder(unit.KindAttack, unit.ResultContinue)
	u.ReplaceOrders(first, second)
	critical := newStubOrder(unit.KindMove, unit.ResultContinue)
	u.CriticalOrder = critical
	u.Anim.Unbreakable = true

	h.dispatchOnly()

	assert.Len(t, u.Orders, 2)
	assert.Same(t, first, u.CurrentOrder())
	assert.Equal(t, 1, first.calls, "the current order still executes")
	assert.Zero(t, critical.calls)
	assert.Same(t, critical, u.CriticalOrder)
}

func TestDispatch_CriticalOrderRunsOnce(t *testing.T) {
	h := newHarness(t)
	u := h.spawn(t, "unit-grunt", 0, 0, 0)
	critical := newStubOrder(unit.KindSpellCast, unit.ResultFinished)
	u.CriticalOrder = critical
	front := newStubOrder(unit.KindMove, unit.ResultContinue)
	u.ReplaceOrders(front)

	h.dispatchOnly()
	h.dispatchOnly()

	assert.Equal(t, 1, critical.calls)
	assert.Nil(t, u.CriticalOrder)
	assert.Same(t, front, u.CurrentOrder())
	assert.Equal(t, 2, front.calls)
}

func TestDispatch_ResultsUpdateOrder(t *testing.T) {
	h := newHarness(t)
	u := h.spawn(t, "unit-grunt", 0, 0, 0)
	o := newStubOrder(unit.KindMove, unit.ResultFinished)
	u.ReplaceOrders(o)

	h.dispatchOnly()
	assert.True(t, o.Finished())
	h.dispatchOnly()
	assert.Equal(t, unit.KindStill, u.CurrentAction())

	dying := newStubOrder(unit.KindDie, unit.ResultDied)
	u.ReplaceOrders(dying)
	h.dispatchOnly()
	assert.True(t, u.Destroyed)
	assert.Equal(t, 1, h.world.ECS().Pending())

	dying.calls = 0
	h.dispatchOnly()
	assert.Zero(t, dying.calls, "destroyed units are skipped")
}

func TestDispatch_DeathAnimationEndsInDestruction(t *testing.T) {
	h := newHarness(t)
	u := h.spawn(t, "unit-grunt", 0, 0, 0)
	h.world.LetUnitDie(u)

	for cycle := uint64(1); cycle <= 5; cycle++ {
		h.runner.Tick(cycle)
	}
	assert.True(t, u.Destroyed)
	assert.Zero(t, h.world.UnitCount())
}

func TestDispatch_EmptyQueuePanics(t *testing.T) {
	h := newHarness(t)
	u := h.spawn(t, "unit-grunt", 0, 0, 0)
	u.Orders = nil
	assert.PanicsWithError(t, "invariant violation: unit "+u.ID.String()+" has an empty order queue", h.dispatchOnly)
}

func TestQueueNeverEmpty(t *testing.T) {
	h := newHarness(t)
	rnd := synchash.NewRand(99)
	makeOrder := func() unit.Order {
		switch rnd.Intn(6) {
		case 0:
			return action.MoveTo(unit.Vec2i{X: rnd.Intn(10), Y: rnd.Intn(10)})
		case 1:
			return action.NewAttack(false)
		case 2:
			o := action.NewAttack(true)
			o.Dest = unit.Vec2i{X: rnd.Intn(10), Y: rnd.Intn(10)}
			return o
		case 3:
			o := action.NewResearch()
			o.Ticks = rnd.Intn(5)
			return o
		case 4:
			return action.NewStandGround()
		}
		o := action.NewPatrol()
		o.Dest = unit.Vec2i{X: rnd.Intn(10)}
		return o
	}
	for i := 0; i < 12; i++ {
		u := h.spawn(t, "unit-grunt", i%3, rnd.Intn(10), rnd.Intn(10))
		n := rnd.Intn(4)
		for j := 0; j < n; j++ {
			u.PushOrder(makeOrder())
		}
		if i%4 == 0 {
			u.Orders[0].SetFinished(true)
		}
	}

	for cycle := uint64(0); cycle < 300; cycle++ {
		h.runner.Tick(cycle)
		for _, u := range h.world.Snapshot() {
			if u.Destroyed {
				continue
			}
			require.NotEmpty(t, u.Orders, "cycle %d unit %s", cycle, u.ID)
		}
	}
}

func TestAdvanceOneCycle_PeriodicOnlyOnSecondBoundary(t *testing.T) {
	h := newHarness(t)
	u := h.spawn(t, "unit-grunt", 0, 0, 0)
	u.HP().Value = 10
	u.Blink = 3

	h.action.AdvanceOneCycle(1)
	assert.Equal(t, 10, u.HP().Value)
	assert.Equal(t, 3, u.Blink)

	h.action.AdvanceOneCycle(cps)
	assert.Equal(t, 12, u.HP().Value)
	assert.Equal(t, 2, u.Blink)
}

func TestAdvanceOneCycle_SpawnedUnitsWaitForNextCycle(t *testing.T) {
	h := newHarness(t)
	hall := h.spawn(t, "unit-hall", 0, 0, 0)
	grunt, _ := h.world.Types.Get("unit-grunt")
	train := action.NewTrain()
	train.Type = grunt
	train.Ticks = 1
	hall.ReplaceOrders(train)

	h.action.AdvanceOneCycle(1)
	require.NoError(t, h.sink.Flush())
	assert.Equal(t, 2, h.world.UnitCount())
	assert.Equal(t, 1, bytes.Count(h.trace.Bytes(), []byte("\n")), "only the hall was dispatched")
}

func TestChecksumDeterminism(t *testing.T) {
	build := func() *harness {
		h := newHarness(t)
		a := h.spawn(t, "unit-grunt", 0, 0, 0)
		b := h.spawn(t, "unit-grunt", 1, 6, 0)
		h.spawn(t, "unit-torch", 1, 9, 9).HP().Value = 15
		mv := action.MoveTo(unit.Vec2i{X: 5, Y: 0})
		a.ReplaceOrders(mv, action.NewAttack(false))
		b.ReplaceOrders(action.NewAttack(false))
		return h
	}
	one, two := build(), build()

	var sums []uint32
	for cycle := uint64(0); cycle < 240; cycle++ {
		one.runner.Tick(cycle)
		two.runner.Tick(cycle)
		require.Equal(t, one.hash.Sum32(), two.hash.Sum32(), "cycle %d", cycle)
		sums = append(sums, one.hash.Sum32())
	}
	require.NoError(t, one.sink.Flush())
	require.NoError(t, two.sink.Flush())
	assert.Equal(t, one.trace.String(), two.trace.String())
	assert.NotEqual(t, sums[0], sums[len(sums)-1])

	// a different starting position must show up in the checksum
	three := build()
	three.world.Snapshot()[1].TilePos = unit.Vec2i{X: 1, Y: 0}
	diverged := false
	for cycle := uint64(0); cycle < 240 && !diverged; cycle++ {
		three.runner.Tick(cycle)
		diverged = three.hash.Sum32() != sums[cycle]
	}
	assert.True(t, diverged)
}

func TestDispatch_TraceLinePerUnit(t *testing.T) {
	h := newHarness(t)
	h.spawn(t, "unit-grunt", 0, 3, 4)
	h.spawn(t, "unit-hall", -1, 7, 7)

	h.action.AdvanceOneCycle(5)
	require.NoError(t, h.sink.Flush())

	assert.Equal(t,
		"5: 0 unit-grunt S0-1 P0 Refs 1: 1234 3,4 0,0\n"+
			"5: 1 unit-hall S0-1 P-1 Refs 1: 1234 7,7 0,0\n",
		h.trace.String())
}
