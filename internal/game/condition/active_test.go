package condition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/battlecore/internal/game/condition"
)

func burning() *condition.Def {
	return &condition.Def{ID: "burning", Name: "Burning", CanStack: true, MaxStacks: 3, Modifies: condition.StatDefense}
}

func shielded() *condition.Def {
	return &condition.Def{ID: "shielded", Name: "Shielded", Positive: true, Modifies: condition.StatDefense}
}

func TestNewEffect_FromDef(t *testing.T) {
	e := condition.NewEffect(burning(), "burning", 2, 3, "fireball")
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "Burning", e.Name)
	assert.Equal(t, 3, e.RemainingTurns)
	assert.Equal(t, condition.Stackable(3), e.Stacking)
	assert.Equal(t, "fireball", e.SourceSkillID)
}

func TestNewEffect_UnknownDefIsUnique(t *testing.T) {
	e := condition.NewEffect(nil, "mystery", 1, 2, "s")
	assert.Equal(t, condition.Unique(), e.Stacking)
	assert.Equal(t, "mystery", e.Name)
	assert.False(t, e.Positive)
}

func TestSet_Apply_UniqueRefreshes(t *testing.T) {
	s := condition.NewSet()
	assert.True(t, s.Apply(condition.NewEffect(shielded(), "shielded", 2, 2, "s"), condition.PolicyEnforced))
	assert.False(t, s.Apply(condition.NewEffect(shielded(), "shielded", 5, 4, "s"), condition.PolicyEnforced))
	require.Equal(t, 1, s.Count("shielded"))
	e := s.All()[0]
	assert.Equal(t, 4, e.RemainingTurns)
	assert.Equal(t, 5, e.Magnitude)
}

func TestSet_Apply_StackableCapped(t *testing.T) {
	s := condition.NewSet()
	for i := 0; i < 5; i++ {
		s.Apply(condition.NewEffect(burning(), "burning", 1, 2, "s"), condition.PolicyEnforced)
	}
	assert.Equal(t, 3, s.Count("burning"))
}

func TestSet_Apply_UnboundedDuplicates(t *testing.T) {
	s := condition.NewSet()
	for i := 0; i < 5; i++ {
		assert.True(t, s.Apply(condition.NewEffect(shielded(), "shielded", 1, 2, "s"), condition.PolicyUnbounded))
	}
	assert.Equal(t, 5, s.Count("shielded"))
}

func TestSet_Apply_PermanentNotShortened(t *testing.T) {
	s := condition.NewSet()
	s.Apply(condition.NewEffect(shielded(), "shielded", 1, -1, "s"), condition.PolicyEnforced)
	s.Apply(condition.NewEffect(shielded(), "shielded", 1, 3, "s"), condition.PolicyEnforced)
	assert.Equal(t, -1, s.All()[0].RemainingTurns)
}

func TestSet_Tick_Expires(t *testing.T) {
	s := condition.NewSet()
	s.Apply(condition.NewEffect(burning(), "burning", 1, 1, "s"), condition.PolicyEnforced)
	s.Apply(condition.NewEffect(shielded(), "shielded", 1, 2, "s"), condition.PolicyEnforced)
	expired := s.Tick()
	require.Len(t, expired, 1)
	assert.Equal(t, "burning", expired[0].Type)
	assert.Equal(t, 0, s.Count("burning"))
	assert.Equal(t, 1, s.Count("shielded"))
	assert.Len(t, s.Tick(), 1)
	assert.Equal(t, 0, s.Len())
}

func TestSet_Tick_PermanentStays(t *testing.T) {
	s := condition.NewSet()
	s.Apply(condition.NewEffect(shielded(), "shielded", 1, -1, "s"), condition.PolicyEnforced)
	for i := 0; i < 10; i++ {
		assert.Empty(t, s.Tick())
	}
	assert.Equal(t, 1, s.Len())
}

func TestSet_Remove(t *testing.T) {
	s := condition.NewSet()
	e := condition.NewEffect(shielded(), "shielded", 1, 2, "s")
	s.Apply(e, condition.PolicyEnforced)
	s.Remove("missing")
	assert.Equal(t, 1, s.Len())
	s.Remove(e.ID)
	assert.Equal(t, 0, s.Len())
}

func TestSet_Clone_Independent(t *testing.T) {
	s := condition.NewSet()
	s.Apply(condition.NewEffect(shielded(), "shielded", 1, 2, "s"), condition.PolicyEnforced)
	cp := s.Clone()
	cp.Tick()
	assert.Equal(t, 2, s.All()[0].RemainingTurns)
	assert.Equal(t, 1, cp.All()[0].RemainingTurns)
}

func TestPropertySet_EnforcedNeverExceedsLimit(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		maxStacks := rapid.IntRange(2, 5).Draw(t, "max_stacks")
		applies := rapid.IntRange(1, 20).Draw(t, "applies")
		def := &condition.Def{ID: "x", Name: "X", CanStack: true, MaxStacks: maxStacks}
		s := condition.NewSet()
		for i := 0; i < applies; i++ {
			d := rapid.IntRange(-1, 6).Draw(t, "duration")
			s.Apply(condition.NewEffect(def, "x", 1, d, "s"), condition.PolicyEnforced)
			assert.LessOrEqual(t, s.Count("x"), maxStacks)
		}
	})
}

func TestPropertySet_TickNeverLeavesZero(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := condition.NewSet()
		n := rapid.IntRange(1, 8).Draw(t, "n")
		for i := 0; i < n; i++ {
			d := rapid.IntRange(-1, 5).Draw(t, "duration")
			s.Apply(condition.NewEffect(nil, "t", 1, d, "s"), condition.PolicyUnbounded)
		}
		ticks := rapid.IntRange(1, 6).Draw(t, "ticks")
		for i := 0; i < ticks; i++ {
			s.Tick()
			for _, e := range s.All() {
				assert.NotEqual(t, 0, e.RemainingTurns)
			}
		}
	})
}

func TestParsePolicy(t *testing.T) {
	p, err := condition.ParsePolicy("enforced")
	require.NoError(t, err)
	assert.Equal(t, condition.PolicyEnforced, p)

	p, err = condition.ParsePolicy("unbounded")
	require.NoError(t, err)
	assert.Equal(t, condition.PolicyUnbounded, p)

	_, err = condition.ParsePolicy("capped")
	assert.Error(t, err)
}
