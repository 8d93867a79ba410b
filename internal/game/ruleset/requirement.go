// Package ruleset holds the static combat rules shared by characters,
// equipment and skills: class archetypes, the stat block and requirements.
package ruleset

import "fmt"

// RequirementType distinguishes what a Requirement checks.
type RequirementType string

const (
	// RequireLevel demands a minimum character level.
	RequireLevel RequirementType = "level"
	// RequireClass restricts to a single class.
	RequireClass RequirementType = "class"
)

// Requirement is one prerequisite for equipping an item or learning a skill.
type Requirement struct {
	Type  RequirementType `yaml:"type"`
	Value int             `yaml:"value"`
	Class Class           `yaml:"class"`
}

// Subject is what requirements are evaluated against.
type Subject struct {
	Level int
	Class Class
}

// Check reports whether s meets r.
//
// Postcondition: Returns nil when satisfied, or an error naming the unmet requirement.
func (r Requirement) Check(s Subject) error {
	switch r.Type {
	case RequireLevel:
		if s.Level < r.Value {
			return fmt.Errorf("requires level %d, have %d", r.Value, s.Level)
		}
	case RequireClass:
		if s.Class != r.Class {
			return fmt.Errorf("requires class %s", r.Class)
		}
	default:
		return fmt.Errorf("unknown requirement type %q", r.Type)
	}
	return nil
}

// CheckAll returns the first unmet requirement in reqs, or nil.
func CheckAll(reqs []Requirement, s Subject) error {
	for _, r := range reqs {
		if err := r.Check(s); err != nil {
			return err
		}
	}
	return nil
}
