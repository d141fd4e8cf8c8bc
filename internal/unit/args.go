package unit

import (
	"fmt"

	"github.com/stratago/simcore/internal/data"
)

// Args is a cursor over the fields of an order descriptor. Parse hooks read a
// keyword, then pull that keyword's arguments from the following positions.
//
// Field values are string, int, bool or []int (a tile position).
type Args struct {
	fields []any
	pos    int
}

func NewArgs(fields []any) *Args {
	return &Args{fields: fields}
}

// More reports whether unread fields remain.
func (a *Args) More() bool { return a.pos < len(a.fields) }

// Index returns the position of the next field, 1-based past the tag as in
// the descriptor table.
func (a *Args) Index() int { return a.pos + 1 }

func (a *Args) next(key string) (any, error) {
	if a.pos >= len(a.fields) {
		return nil, fmt.Errorf("%s: missing value", key)
	}
	v := a.fields[a.pos]
	a.pos++
	return v, nil
}

// Keyword reads the next field, which must be a string.
func (a *Args) Keyword() (string, error) {
	v, err := a.next("keyword")
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Sprint(v), fmt.Errorf("expected keyword, got %T %v", v, v)
	}
	return s, nil
}

// Value reads the next field as-is.
func (a *Args) Value(key string) (any, error) {
	return a.next(key)
}

// Int reads the next field as an integer.
func (a *Args) Int(key string) (int, error) {
	v, err := a.next(key)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("%s: %v is not an integer", key, n)
		}
		return int(n), nil
	}
	return 0, fmt.Errorf("%s: expected integer, got %T", key, v)
}

// String reads the next field as a string.
func (a *Args) String(key string) (string, error) {
	v, err := a.next(key)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s: expected string, got %T", key, v)
	}
	return s, nil
}

// Pos reads the next field as a tile position {x, y}.
func (a *Args) Pos(key string) (Vec2i, error) {
	v, err := a.next(key)
	if err != nil {
		return Vec2i{}, err
	}
	xy, ok := v.([]int)
	if !ok || len(xy) != 2 {
		return Vec2i{}, fmt.Errorf("%s: expected {x, y}, got %v", key, v)
	}
	return Vec2i{X: xy[0], Y: xy[1]}, nil
}

// TypeResolver looks up unit types by ident.
type TypeResolver interface {
	Get(ident string) (*data.UnitType, bool)
}

// ParseContext is what parse hooks may consult while building an order.
type ParseContext struct {
	Owner *Unit
	Units Resolver
	Types TypeResolver
}

// UnitType reads an ident argument and resolves it.
func (pc *ParseContext) UnitType(key string, args *Args) (*data.UnitType, error) {
	ident, err := args.String(key)
	if err != nil {
		return nil, err
	}
	if pc.Types == nil {
		return nil, fmt.Errorf("%s: no unit types available", key)
	}
	ut, ok := pc.Types.Get(ident)
	if !ok {
		return nil, fmt.Errorf("%s: unknown unit type %q", key, ident)
	}
	return ut, nil
}
