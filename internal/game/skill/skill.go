// Package skill defines skill templates and the per-character skill instances
// copied from them, including experience and leveling.
package skill

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/battlecore/internal/game/ruleset"
)

var (
	// ErrMaxLevel is returned when leveling a skill already at its max level.
	ErrMaxLevel = errors.New("skill already at max level")
	// ErrInsufficientExperience is returned when a skill has not accumulated
	// enough experience to level up.
	ErrInsufficientExperience = errors.New("insufficient skill experience")
)

// Type is the broad category of a skill.
type Type string

const (
	TypeAttack  Type = "attack"
	TypeMagic   Type = "magic"
	TypeHeal    Type = "heal"
	TypeBuff    Type = "buff"
	TypeDebuff  Type = "debuff"
	TypeUtility Type = "utility"
)

// EffectType distinguishes flat skill effects.
type EffectType string

const (
	EffectDamage  EffectType = "damage"
	EffectHealing EffectType = "healing"
	EffectStatus  EffectType = "status"
)

// TargetSelector chooses who a flat status effect lands on.
type TargetSelector string

const (
	TargetEnemy TargetSelector = "target"
	TargetSelf  TargetSelector = "self"
)

// Effect is a flat effect attached to a skill.
type Effect struct {
	Type     EffectType     `yaml:"type"`
	Status   string         `yaml:"status"`
	Value    int            `yaml:"value"`
	Duration int            `yaml:"duration"`
	Target   TargetSelector `yaml:"target"`
}

// Skill is both the template loaded from content and the instance a
// character owns. Instances are independent copies made at learn time.
type Skill struct {
	ID               string                `yaml:"id"`
	Name             string                `yaml:"name"`
	Description      string                `yaml:"description"`
	Type             Type                  `yaml:"type"`
	Category         string                `yaml:"category"`
	Level            int                   `yaml:"level"`
	MaxLevel         int                   `yaml:"max_level"`
	Experience       int                   `yaml:"experience"`
	ExperienceToNext int                   `yaml:"experience_to_next"`
	Cooldown         int                   `yaml:"cooldown"`
	ManaCost         int                   `yaml:"mana_cost"`
	StaminaCost      int                   `yaml:"stamina_cost"`
	BaseDamage       int                   `yaml:"base_damage"`
	BaseHealing      int                   `yaml:"base_healing"`
	Range            int                   `yaml:"range"`
	Area             int                   `yaml:"area"`
	DamageType       ruleset.DamageType    `yaml:"damage_type"`
	Effects          []Effect              `yaml:"effects"`
	Requirements     []ruleset.Requirement `yaml:"requirements"`
	// Hook names an optional scripted resolve hook.
	Hook string `yaml:"hook"`
}

// BasicAttackID is the ID of the skill every character starts with.
const BasicAttackID = "basic_attack"

// BasicAttack returns a fresh copy of the starting skill: no mana cost,
// fixed stamina cost, fixed damage.
func BasicAttack() *Skill {
	return &Skill{
		ID:               BasicAttackID,
		Name:             "Basic Attack",
		Description:      "A plain strike with whatever is at hand.",
		Type:             TypeAttack,
		Category:         "physical",
		Level:            1,
		MaxLevel:         10,
		ExperienceToNext: 100,
		StaminaCost:      5,
		BaseDamage:       10,
		Range:            1,
		Area:             1,
		DamageType:       ruleset.DamagePhysical,
	}
}

// Clone returns a deep copy of s.
func (s *Skill) Clone() *Skill {
	cp := *s
	cp.Effects = append([]Effect(nil), s.Effects...)
	cp.Requirements = append([]ruleset.Requirement(nil), s.Requirements...)
	return &cp
}

// Instantiate returns a level-1 copy of the template with no experience.
func (s *Skill) Instantiate() *Skill {
	cp := s.Clone()
	if cp.Level < 1 {
		cp.Level = 1
	}
	cp.Experience = 0
	return cp
}

// GainExperience adds amount to the skill's experience.
//
// Precondition: amount >= 0.
func (s *Skill) GainExperience(amount int) {
	s.Experience += amount
}

// LevelUp advances the skill one level.
//
// Postcondition: on success Level is incremented, Experience is 0,
// ExperienceToNext is floor(1.5x) and BaseDamage/BaseHealing are floor(1.2x);
// on error the skill is unchanged.
func (s *Skill) LevelUp() error {
	if s.Level >= s.MaxLevel {
		return fmt.Errorf("%s level %d: %w", s.ID, s.Level, ErrMaxLevel)
	}
	if s.Experience < s.ExperienceToNext {
		return fmt.Errorf("%s has %d/%d: %w", s.ID, s.Experience, s.ExperienceToNext, ErrInsufficientExperience)
	}
	s.Level++
	s.Experience = 0
	s.ExperienceToNext = s.ExperienceToNext * 3 / 2
	s.BaseDamage = s.BaseDamage * 6 / 5
	s.BaseHealing = s.BaseHealing * 6 / 5
	return nil
}

// Validate checks that a template satisfies its invariants.
//
// Postcondition: returns nil iff all fields are valid.
func (s *Skill) Validate() error {
	var errs []error
	if s.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if s.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if s.MaxLevel < 1 {
		errs = append(errs, fmt.Errorf("max_level must be >= 1, got %d", s.MaxLevel))
	}
	if s.ExperienceToNext < 1 {
		errs = append(errs, fmt.Errorf("experience_to_next must be >= 1, got %d", s.ExperienceToNext))
	}
	if s.ManaCost < 0 || s.StaminaCost < 0 {
		errs = append(errs, errors.New("costs must not be negative"))
	}
	if s.BaseDamage < 0 || s.BaseHealing < 0 {
		errs = append(errs, errors.New("base damage and healing must not be negative"))
	}
	for i, e := range s.Effects {
		switch e.Type {
		case EffectDamage, EffectHealing:
		case EffectStatus:
			if e.Status == "" {
				errs = append(errs, fmt.Errorf("effects[%d]: status effect needs a status id", i))
			}
		default:
			errs = append(errs, fmt.Errorf("effects[%d]: unknown type %q", i, e.Type))
		}
		switch e.Target {
		case "", TargetEnemy, TargetSelf:
		default:
			errs = append(errs, fmt.Errorf("effects[%d]: unknown target %q", i, e.Target))
		}
	}
	return errors.Join(errs...)
}
