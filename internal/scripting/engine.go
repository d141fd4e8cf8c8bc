package scripting

import (
	"errors"
	"fmt"
	"math"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/stratago/simcore/internal/action"
	"github.com/stratago/simcore/internal/core/ecs"
	"github.com/stratago/simcore/internal/data"
	"github.com/stratago/simcore/internal/unit"
	"github.com/stratago/simcore/internal/world"
)

// Engine wraps a single gopher-lua VM running a scenario: the script places
// units, hands out orders and schedules commands for later cycles.
// Single-goroutine access only (game loop).
type Engine struct {
	vm    *lua.LState
	world *world.State
	log   *zap.Logger

	schedule map[uint64][]*lua.LFunction
	current  uint64
	next     uint64 // first cycle that has not run yet
}

// NewEngine creates a Lua VM with the scenario API bound to ws.
func NewEngine(ws *world.State, log *zap.Logger) *Engine {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{
		vm:       vm,
		world:    ws,
		log:      log,
		schedule: make(map[uint64][]*lua.LFunction),
	}
	for name, fn := range map[string]lua.LGFunction{
		"CreateUnit":       e.luaCreateUnit,
		"SetOrders":        e.luaSetOrders,
		"AddOrder":         e.luaAddOrder,
		"SetCriticalOrder": e.luaSetCriticalOrder,
		"CurrentOrder":     e.luaCurrentOrder,
		"SelectUnit":       e.luaSelectUnit,
		"SetVariable":      e.luaSetVariable,
		"GetVariable":      e.luaGetVariable,
		"KillUnit":         e.luaKillUnit,
		"At":               e.luaAt,
		"Cycle":            e.luaCycle,
	} {
		vm.SetGlobal(name, vm.NewFunction(fn))
	}
	return e
}

// LoadFile runs a scenario file. Top-level statements run immediately.
func (e *Engine) LoadFile(path string) error {
	if err := e.vm.DoFile(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	e.log.Debug("loaded lua scenario", zap.String("file", path), zap.Int("scheduled", e.Scheduled()))
	return nil
}

// LoadString runs scenario source.
func (e *Engine) LoadString(src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	return nil
}

// RunDue calls the functions scheduled for cycle in the order they were
// scheduled. A failing function does not stop the others.
func (e *Engine) RunDue(cycle uint64) error {
	e.current = cycle
	if cycle >= e.next {
		e.next = cycle + 1
	}
	fns := e.schedule[cycle]
	if len(fns) == 0 {
		return nil
	}
	delete(e.schedule, cycle)

	var errs []error
	for _, fn := range fns {
		if err := e.vm.CallByParam(lua.P{
			Fn:      fn,
			NRet:    0,
			Protect: true,
		}, lua.LNumber(cycle)); err != nil {
			errs = append(errs, fmt.Errorf("scenario at cycle %d: %w", cycle, err))
		}
	}
	return errors.Join(errs...)
}

// Scheduled returns the number of functions waiting for a later cycle.
func (e *Engine) Scheduled() int {
	n := 0
	for _, fns := range e.schedule {
		n += len(fns)
	}
	return n
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// --- Lua API ---

// CreateUnit(ident, player, x, y) -> slot
func (e *Engine) luaCreateUnit(L *lua.LState) int {
	ident := L.CheckString(1)
	player := L.CheckInt(2)
	x, y := L.CheckInt(3), L.CheckInt(4)
	u, err := e.world.CreateUnit(ident, player, unit.Vec2i{X: x, Y: y})
	if err != nil {
		L.RaiseError("CreateUnit: %v", err)
		return 0
	}
	L.Push(lua.LNumber(u.Slot))
	return 1
}

// SetOrders(slot, {order, ...}) replaces the whole queue.
func (e *Engine) luaSetOrders(L *lua.LState) int {
	u := e.checkCommandable(L, 1)
	list := L.CheckTable(2)
	n := list.Len()
	if n == 0 {
		L.ArgError(2, "order list is empty")
		return 0
	}
	orders := make([]unit.Order, 0, n)
	for i := 1; i <= n; i++ {
		t, ok := list.RawGetInt(i).(*lua.LTable)
		if !ok {
			L.ArgError(2, fmt.Sprintf("order #%d is not a table", i))
			return 0
		}
		orders = append(orders, e.parseOrder(L, u, t))
	}
	u.ReplaceOrders(orders...)
	u.State = 0
	u.Wait = 0
	return 0
}

// AddOrder(slot, order) appends to the queue.
func (e *Engine) luaAddOrder(L *lua.LState) int {
	u := e.checkCommandable(L, 1)
	u.PushOrder(e.parseOrder(L, u, L.CheckTable(2)))
	return 0
}

// SetCriticalOrder(slot, order)
func (e *Engine) luaSetCriticalOrder(L *lua.LState) int {
	u := e.checkCommandable(L, 1)
	o := e.parseOrder(L, u, L.CheckTable(2))
	u.ClearCriticalOrder()
	u.CriticalOrder = o
	return 0
}

// CurrentOrder(slot) -> tag, finished
func (e *Engine) luaCurrentOrder(L *lua.LState) int {
	u := e.checkUnit(L, 1)
	o := u.CurrentOrder()
	if o == nil {
		L.Push(lua.LNil)
		L.Push(lua.LFalse)
		return 2
	}
	L.Push(lua.LString(o.Kind().Tag()))
	L.Push(lua.LBool(o.Finished()))
	return 2
}

// SelectUnit(slot, ...) replaces the selection. No arguments clears it.
func (e *Engine) luaSelectUnit(L *lua.LState) int {
	sel := make([]ecs.EntityID, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		sel = append(sel, e.checkUnit(L, i).ID)
	}
	e.world.Select(sel...)
	return 0
}

// SetVariable(slot, name, value [, max [, increase]])
func (e *Engine) luaSetVariable(L *lua.LState) int {
	u := e.checkUnit(L, 1)
	v := e.checkVariable(L, u, 2)
	v.Value = L.CheckInt(3)
	if L.GetTop() >= 4 {
		v.Max = L.CheckInt(4)
	}
	if L.GetTop() >= 5 {
		v.Increase = L.CheckInt(5)
	}
	v.Enable = true
	v.Clamp()
	return 0
}

// GetVariable(slot, name) -> value, max
func (e *Engine) luaGetVariable(L *lua.LState) int {
	u := e.checkUnit(L, 1)
	v := e.checkVariable(L, u, 2)
	L.Push(lua.LNumber(v.Value))
	L.Push(lua.LNumber(v.Max))
	return 2
}

// KillUnit(slot)
func (e *Engine) luaKillUnit(L *lua.LState) int {
	e.world.LetUnitDie(e.checkUnit(L, 1))
	return 0
}

// At(cycle, fn) runs fn(cycle) at the start of that cycle.
func (e *Engine) luaAt(L *lua.LState) int {
	n := L.CheckNumber(1)
	fn := L.CheckFunction(2)
	if n < 0 || n != lua.LNumber(math.Trunc(float64(n))) {
		L.ArgError(1, "cycle must be a non-negative integer")
		return 0
	}
	cycle := uint64(n)
	if cycle < e.next {
		L.ArgError(1, fmt.Sprintf("cycle %d already ran", cycle))
		return 0
	}
	e.schedule[cycle] = append(e.schedule[cycle], fn)
	return 0
}

// Cycle() -> the cycle whose commands are running
func (e *Engine) luaCycle(L *lua.LState) int {
	L.Push(lua.LNumber(e.current))
	return 1
}

// --- helpers ---

func (e *Engine) checkUnit(L *lua.LState, n int) *unit.Unit {
	slot := L.CheckInt(n)
	u, ok := e.world.Unit(slot)
	if !ok {
		L.ArgError(n, fmt.Sprintf("no live unit in slot %d", slot))
		return nil
	}
	return u
}

// checkCommandable is checkUnit for calls that change orders. A dying unit
// keeps its Die order until the death animation is over.
func (e *Engine) checkCommandable(L *lua.LState, n int) *unit.Unit {
	u := e.checkUnit(L, n)
	if u != nil && u.CurrentAction() == unit.KindDie {
		L.ArgError(n, fmt.Sprintf("unit in slot %d is dying", u.Slot))
		return nil
	}
	return u
}

func (e *Engine) checkVariable(L *lua.LState, u *unit.Unit, n int) *data.Variable {
	name := L.CheckString(n)
	idx, ok := e.world.Types.VariableIndex(name)
	if !ok {
		L.ArgError(n, fmt.Sprintf("unknown variable %q", name))
		return nil
	}
	v := u.Variable(idx)
	if v == nil {
		L.ArgError(n, fmt.Sprintf("unit has no variable %q", name))
		return nil
	}
	return v
}

func (e *Engine) parseOrder(L *lua.LState, u *unit.Unit, t *lua.LTable) unit.Order {
	d, err := Descriptor(t)
	if err != nil {
		L.RaiseError("%v", err)
		return nil
	}
	o, err := action.ParseOrder(d, &unit.ParseContext{
		Owner: u,
		Units: e.world,
		Types: e.world.Types,
	})
	if err != nil {
		L.RaiseError("%v", err)
		return nil
	}
	return o
}
