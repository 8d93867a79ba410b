package character_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/battlecore/internal/game/character"
	"github.com/cory-johannsen/battlecore/internal/game/dice"
	"github.com/cory-johannsen/battlecore/internal/game/ruleset"
	"github.com/cory-johannsen/battlecore/internal/game/skill"
)

func TestBuild_UsesClassTemplate(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c, err := character.Build("owner-1", "Hero", ruleset.ClassWarrior, dice.NewSeededSource(1), now)
	require.NoError(t, err)

	base, _ := ruleset.BaseStats(ruleset.ClassWarrior)
	assert.Equal(t, base, c.BaseStats)
	assert.Equal(t, base, c.Stats())
	assert.Equal(t, 1, c.Level)
	assert.Equal(t, "owner-1", c.OwnerID)
	assert.NotEmpty(t, c.ID)
	assert.Empty(t, c.Equipment)
	assert.Equal(t, now, c.CreatedAt)

	require.Len(t, c.Skills, 1)
	assert.Equal(t, skill.BasicAttackID, c.Skills[0].ID)
	assert.Zero(t, c.Skills[0].ManaCost)
}

func TestBuild_UnknownClass(t *testing.T) {
	_, err := character.Build("o", "Hero", ruleset.Class("bogus"), dice.NewSeededSource(1), time.Now())
	assert.Error(t, err)
}

func TestBuild_EmptyName(t *testing.T) {
	_, err := character.Build("o", "", ruleset.ClassMage, dice.NewSeededSource(1), time.Now())
	assert.Error(t, err)
}

func TestRollAppearance_Fixed(t *testing.T) {
	a := character.RollAppearance(dice.NewFixedSource(0))
	assert.Equal(t, "black", a.Hair)
	assert.Equal(t, "brown", a.Eyes)
	assert.Equal(t, "pale", a.Skin)
	assert.Equal(t, 150, a.Height)
}

func TestPropertyRollAppearance_HeightInRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		a := character.RollAppearance(dice.NewSeededSource(seed))
		if a.Height < 150 || a.Height > 200 {
			rt.Fatalf("height %d out of range", a.Height)
		}
		if a.Hair == "" || a.Eyes == "" || a.Skin == "" {
			rt.Fatalf("empty appearance field: %+v", a)
		}
	})
}

func TestClone_Independent(t *testing.T) {
	c, err := character.Build("o", "Hero", ruleset.ClassMage, dice.NewSeededSource(1), time.Now())
	require.NoError(t, err)
	cp := c.Clone()
	cp.Skills[0].Level = 9
	cp.BaseStats.Attack = 999
	assert.Equal(t, 1, c.Skills[0].Level)
	assert.NotEqual(t, 999, c.BaseStats.Attack)
}
