package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// UnitType holds the static definition shared by every unit of one kind.
type UnitType struct {
	Ident          string `yaml:"ident"`
	Name           string `yaml:"name"`
	CanAttack      bool   `yaml:"can_attack"`
	AttackRange    int    `yaml:"attack_range"`
	BasicDamage    int    `yaml:"basic_damage"`
	PiercingDamage int    `yaml:"piercing_damage"`
	Speed          int    `yaml:"speed"`            // cycles per tile step (0 = cannot move)
	Cooldown       int    `yaml:"cooldown"`         // cycles between attacks
	BurnPercent    int    `yaml:"burn_percent"`     // burns at or below this HP percent
	BurnDamageRate int    `yaml:"burn_damage_rate"` // HP lost per second while burning
	BuildTime      int    `yaml:"build_time"`       // cycles to construct
	DeathFrames    int    `yaml:"death_frames"`     // cycles of death animation
	Building       bool   `yaml:"building"`

	// Stats is indexed by variable index (see Table.VariableIndex).
	Stats []Variable `yaml:"-"`
}

type variableDecl struct {
	Name string `yaml:"name"`
}

type unitTypeEntry struct {
	UnitType `yaml:",inline"`
	Stats    map[string]Variable `yaml:"stats"`
}

type unitTypeFile struct {
	Variables []variableDecl  `yaml:"variables"`
	UnitTypes []unitTypeEntry `yaml:"unit_types"`
}

// Table holds all unit types indexed by ident plus the variable layout.
type Table struct {
	types     map[string]*UnitType
	order     []string
	varNames  []string
	varByName map[string]int
}

// Get returns the unit type for ident.
func (t *Table) Get(ident string) (*UnitType, bool) {
	ut, ok := t.types[ident]
	return ut, ok
}

// Count returns the number of unit types.
func (t *Table) Count() int {
	return len(t.types)
}

// Idents returns unit type idents in file order.
func (t *Table) Idents() []string {
	return append([]string(nil), t.order...)
}

// VariableCount returns the number of variables, built-in and user-defined.
func (t *Table) VariableCount() int {
	return len(t.varNames)
}

// VariableIndex resolves a variable name.
func (t *Table) VariableIndex(name string) (int, bool) {
	i, ok := t.varByName[name]
	return i, ok
}

// VariableName returns the name of a variable index.
func (t *Table) VariableName(i int) string {
	if i < 0 || i >= len(t.varNames) {
		return ""
	}
	return t.varNames[i]
}

// NewVariables returns a fresh copy of the type's variable defaults.
func (t *Table) NewVariables(ut *UnitType) []Variable {
	out := make([]Variable, len(t.varNames))
	copy(out, ut.Stats)
	return out
}

// LoadUnitTypes loads the unit type table from a YAML file.
func LoadUnitTypes(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read unit_types: %w", err)
	}
	t, err := ParseUnitTypes(raw)
	if err != nil {
		return nil, fmt.Errorf("parse unit_types: %w", err)
	}
	return t, nil
}

// ParseUnitTypes builds the table from YAML bytes.
func ParseUnitTypes(raw []byte) (*Table, error) {
	var f unitTypeFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}

	t := &Table{
		types:     make(map[string]*UnitType, len(f.UnitTypes)),
		varByName: make(map[string]int, builtinVariableCount+len(f.Variables)),
	}
	for _, name := range builtinVariableNames {
		t.varByName[name] = len(t.varNames)
		t.varNames = append(t.varNames, name)
	}
	for _, decl := range f.Variables {
		if decl.Name == "" {
			return nil, fmt.Errorf("variable without name")
		}
		if _, dup := t.varByName[decl.Name]; dup {
			return nil, fmt.Errorf("duplicate variable %q", decl.Name)
		}
		t.varByName[decl.Name] = len(t.varNames)
		t.varNames = append(t.varNames, decl.Name)
	}

	for i := range f.UnitTypes {
		entry := f.UnitTypes[i]
		if entry.Ident == "" {
			return nil, fmt.Errorf("unit type #%d without ident", i)
		}
		if _, dup := t.types[entry.Ident]; dup {
			return nil, fmt.Errorf("duplicate unit type %q", entry.Ident)
		}
		ut := entry.UnitType
		ut.Stats = make([]Variable, len(t.varNames))
		for name, v := range entry.Stats {
			idx, ok := t.varByName[name]
			if !ok {
				return nil, fmt.Errorf("unit type %s: unknown variable %q", ut.Ident, name)
			}
			// listing a stat enables it
			v.Enable = true
			if v.Value == 0 && idx == HPIndex {
				v.Value = v.Max
			}
			v.Clamp()
			ut.Stats[idx] = v
		}
		// timed buffs are always tracked so spells can apply them to any unit
		for _, idx := range []int{BloodlustIndex, HasteIndex, SlowIndex, InvisibleIndex, UnholyArmorIndex} {
			if !ut.Stats[idx].Enable {
				ut.Stats[idx] = Variable{Enable: true, Max: 1000}
			}
		}
		t.types[ut.Ident] = &ut
		t.order = append(t.order, ut.Ident)
	}
	return t, nil
}
