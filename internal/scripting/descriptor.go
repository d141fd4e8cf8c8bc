package scripting

import (
	"fmt"
	"math"

	lua "github.com/yuin/gopher-lua"

	"github.com/stratago/simcore/internal/action"
)

// Descriptor converts a Lua order table into an order descriptor:
//
//	{"action-move", "tile", {12, 7}, "finished", false}
//
// The first element is the tag. Integral numbers become int, {x, y} pairs
// become []int, strings and booleans pass through.
func Descriptor(t *lua.LTable) (action.Descriptor, error) {
	n := t.Len()
	if n == 0 {
		return action.Descriptor{}, fmt.Errorf("order table is empty")
	}
	tag, ok := t.RawGetInt(1).(lua.LString)
	if !ok {
		return action.Descriptor{}, fmt.Errorf("order tag must be a string, got %s", t.RawGetInt(1).Type())
	}
	d := action.Descriptor{Tag: string(tag), Fields: make([]any, 0, n-1)}
	for i := 2; i <= n; i++ {
		v, err := fieldValue(t.RawGetInt(i))
		if err != nil {
			return action.Descriptor{}, fmt.Errorf("%s: field %d: %w", tag, i-1, err)
		}
		d.Fields = append(d.Fields, v)
	}
	return d, nil
}

func fieldValue(v lua.LValue) (any, error) {
	switch lv := v.(type) {
	case lua.LString:
		return string(lv), nil
	case lua.LBool:
		return bool(lv), nil
	case lua.LNumber:
		f := float64(lv)
		if f == math.Trunc(f) && f >= math.MinInt32 && f <= math.MaxInt32 {
			return int(f), nil
		}
		return f, nil
	case *lua.LTable:
		n := lv.Len()
		out := make([]int, 0, n)
		for i := 1; i <= n; i++ {
			num, ok := lv.RawGetInt(i).(lua.LNumber)
			if !ok || float64(num) != math.Trunc(float64(num)) {
				return nil, fmt.Errorf("position element %d is not an integer", i)
			}
			out = append(out, int(num))
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported value type %s", v.Type())
}
