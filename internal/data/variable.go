package data

// Built-in variable indices. User-defined variables declared in the unit type
// file follow these, in declaration order.
const (
	HPIndex = iota
	ManaIndex
	ShieldIndex
	BloodlustIndex
	HasteIndex
	SlowIndex
	InvisibleIndex
	UnholyArmorIndex

	builtinVariableCount
)

var builtinVariableNames = [builtinVariableCount]string{
	"hp", "mana", "shield", "bloodlust", "haste", "slow", "invisible", "unholy_armor",
}

// Variable is one numeric unit attribute. Increase is applied once per second
// by the periodic effects pass and the result is clamped into [0, Max].
type Variable struct {
	Enable   bool `yaml:"-"`
	Value    int  `yaml:"value"`
	Max      int  `yaml:"max"`
	Increase int  `yaml:"increase"`
}

// Step applies Increase and clamps. It reports whether the value changed.
func (v *Variable) Step() bool {
	if !v.Enable || v.Increase == 0 {
		return false
	}
	before := v.Value
	v.Value += v.Increase
	v.Clamp()
	return v.Value != before
}

// Clamp forces Value into [0, Max].
func (v *Variable) Clamp() {
	if v.Value > v.Max {
		v.Value = v.Max
	}
	if v.Value < 0 {
		v.Value = 0
	}
}
