package condition

// Modifier returns the net modifier all active effects apply to stat.
// Each instance contributes +Magnitude when positive and -Magnitude otherwise.
func Modifier(s *Set, stat Stat) int {
	if s == nil || stat == StatNone {
		return 0
	}
	total := 0
	for _, e := range s.effects {
		if e.Modifies == stat {
			total += e.Modifier()
		}
	}
	return total
}

// AttackModifier returns the net attack modifier from s.
func AttackModifier(s *Set) int { return Modifier(s, StatAttack) }

// DefenseModifier returns the net defense modifier from s.
func DefenseModifier(s *Set) int { return Modifier(s, StatDefense) }
