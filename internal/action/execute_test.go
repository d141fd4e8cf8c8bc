package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratago/simcore/internal/core/ecs"
	"github.com/stratago/simcore/internal/data"
	"github.com/stratago/simcore/internal/unit"
)

func runUntilDone(t *testing.T, o unit.Order, u *unit.Unit, env *unit.Env, limit int) (unit.Result, int) {
	t.Helper()
	for i := 1; i <= limit; i++ {
		if r := o.Execute(u, env); r != unit.ResultContinue {
			return r, i
		}
	}
	t.Fatalf("%s still running after %d cycles", o.Kind(), limit)
	return unit.ResultContinue, limit
}

func TestMove_WalksAndFinishes(t *testing.T) {
	u := newTestUnit(1, walker, unit.Vec2i{})
	env := &unit.Env{Pathfinder: &linePath{}}

	o := MoveTo(unit.Vec2i{X: 3, Y: 0})
	r, _ := runUntilDone(t, o, u, env, 20)

	assert.Equal(t, unit.ResultFinished, r)
	assert.True(t, o.Finished())
	assert.Equal(t, unit.Vec2i{X: 3, Y: 0}, u.TilePos)
}

func TestMove_UnreachableFinishes(t *testing.T) {
	u := newTestUnit(1, footman, unit.Vec2i{}) // speed 0 cannot walk
	o := MoveTo(unit.Vec2i{X: 5, Y: 5})
	assert.Equal(t, unit.ResultFinished, o.Execute(u, &unit.Env{Pathfinder: &linePath{}}))
}

func TestDie_HoldsAnimationThenReportsDied(t *testing.T) {
	ut := &data.UnitType{Ident: "unit-x", DeathFrames: 2}
	u := newTestUnit(1, ut, unit.Vec2i{})
	o := NewDie()
	env := &unit.Env{}

	assert.Equal(t, unit.ResultContinue, o.Execute(u, env))
	assert.True(t, u.Anim.Unbreakable)
	assert.Equal(t, unit.ResultContinue, o.Execute(u, env))
	assert.Equal(t, unit.ResultDied, o.Execute(u, env))
	assert.False(t, u.Anim.Unbreakable)
	assert.True(t, o.Finished())
}

func TestBuilt_GrowsHitPoints(t *testing.T) {
	u := newTestUnit(1, farm, unit.Vec2i{})
	u.HP().Value = 1
	o := NewBuilt()

	r, n := runUntilDone(t, o, u, &unit.Env{}, 10)
	assert.Equal(t, unit.ResultFinished, r)
	assert.Equal(t, farm.BuildTime, n)
	assert.Equal(t, u.HP().Max, u.HP().Value)
}

func TestBuild_PlacesSiteUnderConstruction(t *testing.T) {
	worker := newTestUnit(1, walker, unit.Vec2i{})
	sp := &fakeSpawner{}
	env := &unit.Env{Pathfinder: &linePath{}, Spawner: sp}

	o := NewBuild()
	o.Type = farm
	o.Dest = unit.Vec2i{X: 2, Y: 0}
	r, _ := runUntilDone(t, o, worker, env, 20)

	assert.Equal(t, unit.ResultFinished, r)
	require.Len(t, sp.spawned, 1)
	site := sp.spawned[0]
	assert.Equal(t, unit.KindBuilt, site.CurrentAction())
	assert.Equal(t, 1, site.HP().Value)
	assert.Equal(t, worker.ID, site.CurrentOrder().Goal())
}

func TestTrain_SpawnsNextToTrainer(t *testing.T) {
	hall := newTestUnit(1, farm, unit.Vec2i{X: 4, Y: 4})
	sp := &fakeSpawner{}
	o := NewTrain()
	o.Type = footman
	o.Ticks = 2

	env := &unit.Env{Spawner: sp}
	assert.Equal(t, unit.ResultContinue, o.Execute(hall, env))
	assert.Equal(t, unit.ResultFinished, o.Execute(hall, env))
	require.Len(t, sp.spawned, 1)
	assert.Equal(t, unit.Vec2i{X: 5, Y: 4}, sp.spawned[0].TilePos)
}

func TestUpgradeAndTransform(t *testing.T) {
	u := newTestUnit(1, farm, unit.Vec2i{})
	sp := &fakeSpawner{}
	env := &unit.Env{Spawner: sp}

	up := NewUpgradeTo()
	up.Type = footman
	up.Ticks = 1
	assert.Equal(t, unit.ResultFinished, up.Execute(u, env))

	tr := NewTransformInto()
	tr.Type = walker
	assert.Equal(t, unit.ResultFinished, tr.Execute(u, env))

	assert.Equal(t, []string{"unit-footman", "unit-walker"}, sp.transformed)
	assert.Same(t, walker, u.Type)
}

func TestAttackGround_FiresOnceAtTile(t *testing.T) {
	u := newTestUnit(1, footman, unit.Vec2i{})
	c := &fakeCombat{}
	o := NewAttack(true)
	o.Dest = unit.Vec2i{X: 1, Y: 0}

	assert.Equal(t, unit.ResultFinished, o.Execute(u, &unit.Env{Combat: c}))
	assert.Equal(t, []unit.Vec2i{{X: 1, Y: 0}}, c.ground)
	assert.Equal(t, footman.Cooldown, u.Wait)
}

func TestAttack_ExplicitGoalGoneFinishes(t *testing.T) {
	u := newTestUnit(1, footman, unit.Vec2i{})
	o := NewAttack(false)
	o.SetGoal(ecs.NewEntityID(9, 1))

	env := &unit.Env{Units: &fakeUnits{}, Combat: &fakeCombat{}}
	assert.Equal(t, unit.ResultFinished, o.Execute(u, env))
	assert.True(t, o.Goal().IsZero())
}

func TestAttack_FiresAtTargetInRange(t *testing.T) {
	u := newTestUnit(1, footman, unit.Vec2i{})
	enemy := newTestUnit(2, footman, unit.Vec2i{X: 1})
	c := &fakeCombat{}
	o := NewAttack(false)
	o.SetGoal(enemy.ID)

	env := &unit.Env{Units: &fakeUnits{units: []*unit.Unit{u, enemy}}, Combat: c}
	assert.Equal(t, unit.ResultContinue, o.Execute(u, env))
	assert.Equal(t, 2, u.State)
	require.Len(t, c.shots, 1)
	assert.Same(t, enemy, c.shots[0])

	// cooling down
	assert.Equal(t, unit.ResultContinue, o.Execute(u, env))
	assert.Len(t, c.shots, 1)
}

func TestStill_RetaliatesUnlessStandingGround(t *testing.T) {
	u := newTestUnit(1, footman, unit.Vec2i{})
	attacker := newTestUnit(2, footman, unit.Vec2i{X: 1})
	c := &fakeCombat{}
	env := &unit.Env{Units: &fakeUnits{units: []*unit.Unit{u, attacker}}, Combat: c}

	still := NewStill()
	assert.True(t, still.OnAiHitUnit(u, attacker, 5))
	assert.Equal(t, unit.ResultContinue, still.Execute(u, env))
	require.Len(t, c.shots, 1)
	assert.Same(t, attacker, c.shots[0])

	assert.False(t, NewStandGround().OnAiHitUnit(u, attacker, 5))
}

func TestStill_PassengersHoldFire(t *testing.T) {
	u := newTestUnit(1, footman, unit.Vec2i{})
	attacker := newTestUnit(2, footman, unit.Vec2i{X: 1})
	c := &fakeCombat{}
	env := &unit.Env{Units: &fakeUnits{units: []*unit.Unit{u, attacker}}, Combat: c}

	still := NewStill()
	require.True(t, still.OnAiHitUnit(u, attacker, 5))
	u.Removed = true
	assert.Equal(t, unit.ResultContinue, still.Execute(u, env))
	assert.Empty(t, c.shots)

	u.Removed = false
	assert.Equal(t, unit.ResultContinue, still.Execute(u, env))
	assert.Len(t, c.shots, 1)
}

func TestSpellCast_ChargesTargetVariable(t *testing.T) {
	u := newTestUnit(1, walker, unit.Vec2i{})
	o := NewSpellCast()
	o.Spell = "haste"
	o.Amount = 2000
	o.ManaCost = 10

	assert.Equal(t, unit.ResultFinished, o.Execute(u, &unit.Env{}))
	assert.Equal(t, 1000, u.Variable(data.HasteIndex).Value, "clamped to max")
	assert.Equal(t, 90, u.Variable(data.ManaIndex).Value)
}

func TestSpellCast_NotEnoughMana(t *testing.T) {
	u := newTestUnit(1, walker, unit.Vec2i{})
	u.Variable(data.ManaIndex).Value = 5
	o := NewSpellCast()
	o.Spell = "slow"
	o.ManaCost = 10

	assert.Equal(t, unit.ResultFinished, o.Execute(u, &unit.Env{}))
	assert.Zero(t, u.Variable(data.SlowIndex).Value)
}

func TestResource_StaleWorkerEndsOrder(t *testing.T) {
	owner := newTestUnit(1, walker, unit.Vec2i{})
	other := newTestUnit(2, walker, unit.Vec2i{})
	o := NewResource(owner)
	assert.Equal(t, unit.ResultFinished, o.Execute(other, &unit.Env{}))
}

func TestResource_HarvestCycle(t *testing.T) {
	worker := newTestUnit(1, walker, unit.Vec2i{})
	mine := newTestUnit(2, farm, unit.Vec2i{X: 1})
	depot := newTestUnit(3, farm, unit.Vec2i{X: -1})
	env := &unit.Env{Units: &fakeUnits{units: []*unit.Unit{worker, mine, depot}}, Pathfinder: &linePath{}}

	o := NewResource(worker)
	o.SetGoal(mine.ID)
	o.Depot = depot.ID
	o.TimeToHarvest = 2
	o.Load = 7

	o.Execute(worker, env) // adjacent: start harvesting
	o.Execute(worker, env)
	o.Execute(worker, env)
	assert.Equal(t, 7, worker.Carrying)
	o.Execute(worker, env) // adjacent to the depot too
	assert.Zero(t, worker.Carrying)
	assert.False(t, o.Finished(), "resource orders loop until interrupted")

	o.Release()
	assert.True(t, o.Worker().IsZero())
}

func TestBoardAndUnload(t *testing.T) {
	ship := newTestUnit(1, walker, unit.Vec2i{})
	grunt := newTestUnit(2, walker, unit.Vec2i{X: 1})
	env := &unit.Env{Units: &fakeUnits{units: []*unit.Unit{ship, grunt}}, Pathfinder: &linePath{}}

	board := NewBoard()
	board.SetGoal(ship.ID)
	assert.Equal(t, unit.ResultFinished, board.Execute(grunt, env))
	assert.True(t, grunt.Removed)
	assert.Equal(t, []ecs.EntityID{grunt.ID}, ship.Inside)

	unload := NewUnload()
	unload.Dest = unit.Vec2i{X: 2, Y: 2}
	r, _ := runUntilDone(t, unload, ship, env, 20)
	assert.Equal(t, unit.ResultFinished, r)
	assert.False(t, grunt.Removed)
	assert.Equal(t, unit.Vec2i{X: 2, Y: 2}, grunt.TilePos)
	assert.Empty(t, ship.Inside)
}

func TestFollow_EndsWhenGoalDies(t *testing.T) {
	leader := newTestUnit(1, walker, unit.Vec2i{X: 3})
	u := newTestUnit(2, walker, unit.Vec2i{})
	env := &unit.Env{Units: &fakeUnits{units: []*unit.Unit{leader, u}}, Pathfinder: &linePath{}}

	o := NewFollow()
	o.SetGoal(leader.ID)
	assert.Equal(t, unit.ResultContinue, o.Execute(u, env))

	leader.ReplaceOrders(NewDie())
	assert.Equal(t, unit.ResultFinished, o.Execute(u, env))
}

func TestPatrol_NeverFinishes(t *testing.T) {
	u := newTestUnit(1, walker, unit.Vec2i{})
	o := NewPatrol()
	o.Dest = unit.Vec2i{X: 2}
	o.Other = unit.Vec2i{}
	env := &unit.Env{Pathfinder: &linePath{}}
	for i := 0; i < 30; i++ {
		require.Equal(t, unit.ResultContinue, o.Execute(u, env))
	}
	assert.False(t, o.Finished())
}
