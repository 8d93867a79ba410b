package character

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/battlecore/internal/game/dice"
	"github.com/cory-johannsen/battlecore/internal/game/inventory"
	"github.com/cory-johannsen/battlecore/internal/game/ruleset"
	"github.com/cory-johannsen/battlecore/internal/game/skill"
)

var (
	hairColors = []string{"black", "brown", "auburn", "blonde", "red", "grey", "white", "silver"}
	eyeColors  = []string{"brown", "blue", "green", "hazel", "grey", "amber", "violet"}
	skinTones  = []string{"pale", "fair", "olive", "tan", "brown", "dark", "ashen"}
)

const (
	minHeight = 150
	maxHeight = 200
)

// RollAppearance draws a random cosmetic appearance from src.
//
// Postcondition: Height is in [minHeight, maxHeight].
func RollAppearance(src dice.Source) Appearance {
	return Appearance{
		Hair:   hairColors[src.Intn(len(hairColors))],
		Eyes:   eyeColors[src.Intn(len(eyeColors))],
		Skin:   skinTones[src.Intn(len(skinTones))],
		Height: minHeight + src.Intn(maxHeight-minHeight+1),
	}
}

// Build constructs a new level-1 Character of the given class.
// Base stats come from the class template; the only skill is Basic Attack
// and every equipment slot is empty.
//
// Precondition: name must be non-empty; src must not be nil.
// Postcondition: Returns a Character with a fresh ID, or a non-nil error if the class is unknown.
func Build(ownerID, name string, class ruleset.Class, src dice.Source, now time.Time) (*Character, error) {
	if name == "" {
		return nil, errors.New("character name must not be empty")
	}
	base, ok := ruleset.BaseStats(class)
	if !ok {
		return nil, fmt.Errorf("unknown class %q", class)
	}
	return &Character{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		Name:       name,
		Class:      class,
		Level:      1,
		BaseStats:  base,
		Skills:     []*skill.Skill{skill.BasicAttack()},
		Equipment:  make(inventory.Set),
		Appearance: RollAppearance(src),
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}
