package skill_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/battlecore/internal/game/ruleset"
	"github.com/cory-johannsen/battlecore/internal/game/skill"
)

func fireball() *skill.Skill {
	return &skill.Skill{
		ID: "fireball", Name: "Fireball", Type: skill.TypeMagic,
		Level: 1, MaxLevel: 3, ExperienceToNext: 100,
		ManaCost: 20, BaseDamage: 18, BaseHealing: 5,
		DamageType: ruleset.DamageFire,
		Effects: []skill.Effect{
			{Type: skill.EffectStatus, Status: "burning", Value: 2, Duration: 3, Target: skill.TargetEnemy},
		},
	}
}

func TestBasicAttack(t *testing.T) {
	s := skill.BasicAttack()
	assert.Equal(t, skill.BasicAttackID, s.ID)
	assert.Equal(t, 0, s.ManaCost)
	assert.Positive(t, s.StaminaCost)
	assert.Positive(t, s.BaseDamage)
	assert.NoError(t, s.Validate())
}

func TestLevelUp_Example(t *testing.T) {
	s := fireball()
	s.Experience = 100
	require.NoError(t, s.LevelUp())
	assert.Equal(t, 2, s.Level)
	assert.Equal(t, 0, s.Experience)
	assert.Equal(t, 150, s.ExperienceToNext)
	assert.Equal(t, 21, s.BaseDamage) // floor(18 * 1.2) = floor(21.6)
	assert.Equal(t, 6, s.BaseHealing) // floor(5 * 1.2)
}

func TestLevelUp_InsufficientExperience(t *testing.T) {
	s := fireball()
	s.Experience = 99
	err := s.LevelUp()
	require.Error(t, err)
	assert.True(t, errors.Is(err, skill.ErrInsufficientExperience))
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, 99, s.Experience)
}

func TestLevelUp_MaxLevel(t *testing.T) {
	s := fireball()
	s.Level = 3
	s.Experience = 1000
	err := s.LevelUp()
	assert.True(t, errors.Is(err, skill.ErrMaxLevel))
	assert.Equal(t, 3, s.Level)
}

func TestInstantiate_IndependentCopy(t *testing.T) {
	tmpl := fireball()
	inst := tmpl.Instantiate()
	inst.Effects[0].Value = 99
	inst.Experience = 100
	require.NoError(t, inst.LevelUp())
	assert.Equal(t, 2, tmpl.Effects[0].Value)
	assert.Equal(t, 1, tmpl.Level)
	assert.Equal(t, 18, tmpl.BaseDamage)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, fireball().Validate())
	bad := fireball()
	bad.Effects = append(bad.Effects, skill.Effect{Type: "teleport"})
	assert.Error(t, bad.Validate())
	bad = fireball()
	bad.Effects[0].Status = ""
	assert.Error(t, bad.Validate())
	bad = fireball()
	bad.MaxLevel = 0
	assert.Error(t, bad.Validate())
}

func TestRegistry_BasicAttackPresent(t *testing.T) {
	reg := skill.NewRegistry()
	_, ok := reg.Get(skill.BasicAttackID)
	assert.True(t, ok)
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	reg := skill.NewRegistry()
	require.NoError(t, reg.Register(fireball()))
	assert.Error(t, reg.Register(fireball()))
	assert.Len(t, reg.All(), 2)
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "heal.yaml"), []byte(`
id: mend
name: Mend
type: heal
max_level: 5
experience_to_next: 80
mana_cost: 15
base_healing: 12
damage_type: holy
effects:
  - type: status
    status: regenerating
    value: 1
    duration: 2
    target: self
requirements:
  - type: level
    value: 2
`), 0644))
	reg, err := skill.LoadDirectory(dir)
	require.NoError(t, err)
	s, ok := reg.Get("mend")
	require.True(t, ok)
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, ruleset.DamageHoly, s.DamageType)
	assert.Equal(t, skill.TargetSelf, s.Effects[0].Target)
	assert.Equal(t, ruleset.RequireLevel, s.Requirements[0].Type)
}

func TestLoadDirectory_RejectsUnknownField(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.yaml"), []byte("id: x\nname: X\nmax_level: 1\nexperience_to_next: 1\nmana: 3\n"), 0644))
	_, err := skill.LoadDirectory(dir)
	assert.Error(t, err)
}

func TestPropertyLevelUp_Growth(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		next := rapid.IntRange(1, 10_000).Draw(t, "next")
		dmg := rapid.IntRange(0, 10_000).Draw(t, "dmg")
		s := &skill.Skill{ID: "s", Name: "S", Level: 1, MaxLevel: 2, ExperienceToNext: next, Experience: next, BaseDamage: dmg}
		require.NoError(t, s.LevelUp())
		assert.Equal(t, int(float64(next)*1.5), s.ExperienceToNext)
		assert.Equal(t, (dmg*12)/10, s.BaseDamage)
	})
}
