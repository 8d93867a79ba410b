// Package character defines the character model and the in-memory store that
// owns characters and equipment instances.
package character

import (
	"time"

	"github.com/cory-johannsen/battlecore/internal/game/inventory"
	"github.com/cory-johannsen/battlecore/internal/game/ruleset"
	"github.com/cory-johannsen/battlecore/internal/game/skill"
)

// Appearance is purely cosmetic and rolled once at creation.
type Appearance struct {
	Hair   string
	Eyes   string
	Skin   string
	Height int // centimetres
}

// MaxLevel is the highest character level.
const MaxLevel = 50

// ExperienceToNext returns the experience needed to advance from level to
// level+1, or 0 at MaxLevel.
func ExperienceToNext(level int) int {
	if level >= MaxLevel {
		return 0
	}
	return level * 100
}

// Character is a player character's state.
//
// BaseStats holds the class template plus any caller adjustments. Equipment
// deltas are never folded into BaseStats; Stats derives the total on demand.
type Character struct {
	ID         string
	OwnerID    string
	Name       string
	Class      ruleset.Class
	Level      int
	Experience int

	BaseStats ruleset.Stats
	Skills    []*skill.Skill
	Equipment inventory.Set

	Appearance Appearance

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Stats returns the aggregate stats: base plus the sum of equipped deltas.
func (c *Character) Stats() ruleset.Stats {
	return c.BaseStats.Add(c.Equipment.TotalDelta())
}

// Skill returns the learned skill with the given ID.
//
// Postcondition: Returns (skill, true) if learned, or (nil, false) otherwise.
func (c *Character) Skill(id string) (*skill.Skill, bool) {
	for _, s := range c.Skills {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// Subject returns the view requirements are checked against.
func (c *Character) Subject() ruleset.Subject {
	return ruleset.Subject{Level: c.Level, Class: c.Class}
}

// Clone returns a deep copy of c.
func (c *Character) Clone() *Character {
	cp := *c
	cp.Skills = make([]*skill.Skill, len(c.Skills))
	for i, s := range c.Skills {
		cp.Skills[i] = s.Clone()
	}
	cp.Equipment = c.Equipment.Clone()
	return &cp
}
