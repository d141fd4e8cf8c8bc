package data

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTypes = `
variables:
  - name: poison
unit_types:
  - ident: unit-footman
    can_attack: true
    burn_percent: 10
    stats:
      hp: {max: 60, increase: 1}
      poison: {max: 20, increase: -1}
  - ident: unit-farm
    building: true
    stats:
      hp: {max: 400, value: 100}
`

func TestParseUnitTypes(t *testing.T) {
	tbl, err := ParseUnitTypes([]byte(sampleTypes))
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.Count())
	assert.Equal(t, []string{"unit-footman", "unit-farm"}, tbl.Idents())
	assert.Equal(t, builtinVariableCount+1, tbl.VariableCount())

	poison, ok := tbl.VariableIndex("poison")
	require.True(t, ok)
	assert.Equal(t, builtinVariableCount, poison)
	assert.Equal(t, "poison", tbl.VariableName(poison))
	assert.Equal(t, "hp", tbl.VariableName(HPIndex))
	assert.Equal(t, "", tbl.VariableName(-1))

	footman, ok := tbl.Get("unit-footman")
	require.True(t, ok)
	assert.True(t, footman.CanAttack)
	assert.Equal(t, Variable{Enable: true, Value: 60, Max: 60, Increase: 1}, footman.Stats[HPIndex],
		"hp starts full when no value is given")
	assert.Equal(t, Variable{Enable: true, Max: 20, Increase: -1}, footman.Stats[poison])
	assert.True(t, footman.Stats[HasteIndex].Enable, "timed buffs are always enabled")
	assert.False(t, footman.Stats[ManaIndex].Enable)

	farm, _ := tbl.Get("unit-farm")
	assert.Equal(t, 100, farm.Stats[HPIndex].Value)
}

func TestNewVariablesIsACopy(t *testing.T) {
	tbl, err := ParseUnitTypes([]byte(sampleTypes))
	require.NoError(t, err)
	footman, _ := tbl.Get("unit-footman")

	vars := tbl.NewVariables(footman)
	vars[HPIndex].Value = 1
	assert.Equal(t, 60, footman.Stats[HPIndex].Value)
}

func TestParseUnitTypes_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing ident", "unit_types:\n  - name: x\n"},
		{"duplicate ident", "unit_types:\n  - ident: a\n  - ident: a\n"},
		{"unknown variable", "unit_types:\n  - ident: a\n    stats:\n      nope: {max: 1}\n"},
		{"duplicate variable", "variables:\n  - name: hp\n"},
		{"unnamed variable", "variables:\n  - name: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseUnitTypes([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadUnitTypes_ShippedFile(t *testing.T) {
	tbl, err := LoadUnitTypes(filepath.Join("..", "..", "data", "yaml", "unit_types.yaml"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, tbl.Count(), 5)
	_, ok := tbl.Get("unit-footman")
	assert.True(t, ok)
}

func TestVariableStep(t *testing.T) {
	tests := []struct {
		name    string
		in      Variable
		want    int
		changed bool
	}{
		{"regen", Variable{Enable: true, Value: 5, Max: 10, Increase: 2}, 7, true},
		{"clamp max", Variable{Enable: true, Value: 9, Max: 10, Increase: 5}, 10, true},
		{"clamp zero", Variable{Enable: true, Value: 2, Max: 10, Increase: -30}, 0, true},
		{"already zero", Variable{Enable: true, Value: 0, Max: 10, Increase: -30}, 0, false},
		{"disabled", Variable{Value: 2, Max: 10, Increase: -1}, 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.in
			assert.Equal(t, tt.changed, v.Step())
			assert.Equal(t, tt.want, v.Value)
		})
	}
}
