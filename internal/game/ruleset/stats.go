package ruleset

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DamageType identifies one of the ten damage types a resistance applies to.
type DamageType int

const (
	DamagePhysical DamageType = iota
	DamageFire
	DamageIce
	DamageLightning
	DamagePoison
	DamageHoly
	DamageDark
	DamageArcane
	DamageWind
	DamageEarth

	// DamageTypeCount is the number of damage types.
	DamageTypeCount
)

var damageTypeNames = [DamageTypeCount]string{
	"physical", "fire", "ice", "lightning", "poison",
	"holy", "dark", "arcane", "wind", "earth",
}

// String returns the lower-case damage type name.
func (d DamageType) String() string {
	if d < 0 || d >= DamageTypeCount {
		return "unknown"
	}
	return damageTypeNames[d]
}

// ParseDamageType resolves a damage type name.
//
// Postcondition: Returns (type, true) for a known name, or (DamagePhysical, false) otherwise.
func ParseDamageType(name string) (DamageType, bool) {
	for i, n := range damageTypeNames {
		if n == name {
			return DamageType(i), true
		}
	}
	return DamagePhysical, false
}

// UnmarshalYAML decodes a damage type from its name.
func (d *DamageType) UnmarshalYAML(node *yaml.Node) error {
	var name string
	if err := node.Decode(&name); err != nil {
		return err
	}
	dt, ok := ParseDamageType(name)
	if !ok {
		return fmt.Errorf("unknown damage type %q", name)
	}
	*d = dt
	return nil
}

// Resistances holds one resistance value per damage type, indexed by DamageType.
type Resistances [DamageTypeCount]int

// UnmarshalYAML decodes resistances from a map of damage type name to value.
func (r *Resistances) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]int
	if err := node.Decode(&raw); err != nil {
		return err
	}
	var out Resistances
	for name, v := range raw {
		dt, ok := ParseDamageType(name)
		if !ok {
			return fmt.Errorf("unknown resistance damage type %q", name)
		}
		out[dt] = v
	}
	*r = out
	return nil
}

// Stats is the aggregate stat block shared by characters (absolute values)
// and equipment (deltas).
//
// Integer fields add and subtract exactly. Chance fields are percentages.
type Stats struct {
	Health  int `yaml:"health"`
	Mana    int `yaml:"mana"`
	Stamina int `yaml:"stamina"`

	Attack  int `yaml:"attack"`
	Defense int `yaml:"defense"`
	Speed   int `yaml:"speed"`

	Strength     int `yaml:"strength"`
	Dexterity    int `yaml:"dexterity"`
	Intelligence int `yaml:"intelligence"`
	Vitality     int `yaml:"vitality"`
	Wisdom       int `yaml:"wisdom"`
	Luck         int `yaml:"luck"`

	CriticalChance float64 `yaml:"critical_chance"`
	CriticalDamage float64 `yaml:"critical_damage"`
	DodgeChance    float64 `yaml:"dodge_chance"`
	BlockChance    float64 `yaml:"block_chance"`
	Accuracy       float64 `yaml:"accuracy"`

	Resistances Resistances `yaml:"resistances"`
}

// Add returns the field-wise sum of s and d.
func (s Stats) Add(d Stats) Stats {
	out := Stats{
		Health:         s.Health + d.Health,
		Mana:           s.Mana + d.Mana,
		Stamina:        s.Stamina + d.Stamina,
		Attack:         s.Attack + d.Attack,
		Defense:        s.Defense + d.Defense,
		Speed:          s.Speed + d.Speed,
		Strength:       s.Strength + d.Strength,
		Dexterity:      s.Dexterity + d.Dexterity,
		Intelligence:   s.Intelligence + d.Intelligence,
		Vitality:       s.Vitality + d.Vitality,
		Wisdom:         s.Wisdom + d.Wisdom,
		Luck:           s.Luck + d.Luck,
		CriticalChance: s.CriticalChance + d.CriticalChance,
		CriticalDamage: s.CriticalDamage + d.CriticalDamage,
		DodgeChance:    s.DodgeChance + d.DodgeChance,
		BlockChance:    s.BlockChance + d.BlockChance,
		Accuracy:       s.Accuracy + d.Accuracy,
	}
	for i := range out.Resistances {
		out.Resistances[i] = s.Resistances[i] + d.Resistances[i]
	}
	return out
}

// IsZero reports whether every field of s is zero.
func (s Stats) IsZero() bool {
	return s == Stats{}
}
