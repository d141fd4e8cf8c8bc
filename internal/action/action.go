// Package action holds the concrete order kinds and the factory that builds
// them from saved descriptors.
package action

import (
	"errors"
	"fmt"

	"github.com/stratago/simcore/internal/unit"
)

// ErrParse matches every *ParseError with errors.Is.
var ErrParse = errors.New("parse order")

// ParseError reports a descriptor the factory could not turn into an order.
// It is fatal to whatever load or command triggered the parse.
type ParseError struct {
	Tag   string
	Field string // empty when the tag itself is unknown
	Index int    // descriptor position of Field
	Err   error  // set when the field was claimed but its value was bad
}

func (e *ParseError) Error() string {
	switch {
	case e.Field == "" && e.Err == nil:
		return fmt.Sprintf("parse order: unsupported type: %s", e.Tag)
	case e.Err != nil:
		return fmt.Sprintf("parse order %s: field %d (%s): %v", e.Tag, e.Index, e.Field, e.Err)
	}
	return fmt.Sprintf("parse order %s: unsupported tag: %s", e.Tag, e.Field)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// Descriptor is a saved order: a kind tag followed by keyword/value fields.
type Descriptor struct {
	Tag    string
	Fields []any
}

type constructor func(pc *unit.ParseContext) unit.Order

var constructors = map[string]constructor{
	"action-attack":         func(*unit.ParseContext) unit.Order { return NewAttack(false) },
	"action-attack-ground":  func(*unit.ParseContext) unit.Order { return NewAttack(true) },
	"action-board":          func(*unit.ParseContext) unit.Order { return NewBoard() },
	"action-build":          func(*unit.ParseContext) unit.Order { return NewBuild() },
	"action-built":          func(*unit.ParseContext) unit.Order { return NewBuilt() },
	"action-die":            func(*unit.ParseContext) unit.Order { return NewDie() },
	"action-follow":         func(*unit.ParseContext) unit.Order { return NewFollow() },
	"action-move":           func(*unit.ParseContext) unit.Order { return NewMove() },
	"action-patrol":         func(*unit.ParseContext) unit.Order { return NewPatrol() },
	"action-repair":         func(*unit.ParseContext) unit.Order { return NewRepair() },
	"action-research":       func(*unit.ParseContext) unit.Order { return NewResearch() },
	"action-resource":       func(pc *unit.ParseContext) unit.Order { return NewResource(pc.Owner) },
	"action-spell-cast":     func(*unit.ParseContext) unit.Order { return NewSpellCast() },
	"action-stand-ground":   func(*unit.ParseContext) unit.Order { return newStill(true) },
	"action-still":          func(*unit.ParseContext) unit.Order { return newStill(false) },
	"action-train":          func(*unit.ParseContext) unit.Order { return NewTrain() },
	"action-transform-into": func(*unit.ParseContext) unit.Order { return NewTransformInto() },
	"action-upgrade-to":     func(*unit.ParseContext) unit.Order { return NewUpgradeTo() },
	"action-unload":         func(*unit.ParseContext) unit.Order { return NewUnload() },
}

// Tags lists every descriptor tag the factory understands.
func Tags() []string {
	tags := make([]string, 0, len(constructors))
	for _, k := range unit.Kinds() {
		if _, ok := constructors[k.Tag()]; ok {
			tags = append(tags, k.Tag())
		}
	}
	return tags
}

// ParseOrder builds one order from a descriptor. Each keyword is offered to
// the generic parser first, then to the kind's own parser.
//
// On error the partially parsed order is discarded, but side effects already
// made by earlier parses (other orders assigned to the same unit) stay; the
// caller must abort the whole load.
func ParseOrder(d Descriptor, pc *unit.ParseContext) (unit.Order, error) {
	ctor, ok := constructors[d.Tag]
	if !ok {
		return nil, &ParseError{Tag: d.Tag}
	}
	if pc == nil {
		pc = &unit.ParseContext{}
	}
	o := ctor(pc)

	args := unit.NewArgs(d.Fields)
	for args.More() {
		idx := args.Index()
		key, err := args.Keyword()
		if err != nil {
			return nil, &ParseError{Tag: d.Tag, Field: key, Index: idx}
		}
		claimed, err := o.ParseGenericData(key, args, pc)
		if !claimed && err == nil {
			claimed, err = o.ParseSpecificData(key, args, pc)
		}
		if err != nil {
			return nil, &ParseError{Tag: d.Tag, Field: key, Index: idx, Err: err}
		}
		if !claimed {
			return nil, &ParseError{Tag: d.Tag, Field: key, Index: idx}
		}
	}
	return o, nil
}

// NewStill returns the idle order every queue falls back to.
func NewStill() unit.Order { return newStill(false) }

// NewStandGround returns an idle order that never chases.
func NewStandGround() unit.Order { return newStill(true) }
