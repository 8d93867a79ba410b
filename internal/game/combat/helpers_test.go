package combat_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/battlecore/internal/events"
	"github.com/cory-johannsen/battlecore/internal/game/character"
	"github.com/cory-johannsen/battlecore/internal/game/combat"
	"github.com/cory-johannsen/battlecore/internal/game/condition"
	"github.com/cory-johannsen/battlecore/internal/game/dice"
	"github.com/cory-johannsen/battlecore/internal/game/ruleset"
	"github.com/cory-johannsen/battlecore/internal/game/skill"
)

// neverCrit draws 0.999999 on every roll, so no percentage check below 100 succeeds.
func neverCrit() dice.Source { return dice.NewFixedSource(999_999) }

// alwaysCrit draws 0 on every roll, so any positive percentage check succeeds.
func alwaysCrit() dice.Source { return dice.NewFixedSource(0) }

var battleStart = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store  *character.Store
	engine *combat.Engine
	rec    *events.Recorder
}

func testSkills(t testing.TB) *skill.Registry {
	reg := skill.NewRegistry()
	for _, s := range []*skill.Skill{
		{ID: "mend", Name: "Mend", Type: skill.TypeHeal, MaxLevel: 5, ExperienceToNext: 100, ManaCost: 10, BaseHealing: 20},
		{ID: "ignite", Name: "Ignite", Type: skill.TypeMagic, MaxLevel: 5, ExperienceToNext: 100, ManaCost: 500,
			Effects: []skill.Effect{{Type: skill.EffectStatus, Status: "burning", Value: 2, Duration: 2, Target: skill.TargetEnemy}}},
		{ID: "weaken", Name: "Weaken", Type: skill.TypeDebuff, MaxLevel: 5, ExperienceToNext: 100,
			Effects: []skill.Effect{{Type: skill.EffectStatus, Status: "weakened", Value: 12, Duration: 5}}},
		{ID: "guard", Name: "Guard", Type: skill.TypeBuff, MaxLevel: 5, ExperienceToNext: 100,
			Effects: []skill.Effect{{Type: skill.EffectStatus, Status: "shielded", Value: 88, Duration: -1, Target: skill.TargetSelf}}},
		{ID: "smite", Name: "Smite", Type: skill.TypeAttack, MaxLevel: 5, ExperienceToNext: 100, BaseDamage: 10,
			Effects: []skill.Effect{{Type: skill.EffectDamage, Value: 5}, {Type: skill.EffectHealing, Value: 3}}},
		{ID: "venom", Name: "Venom", Type: skill.TypeAttack, MaxLevel: 5, ExperienceToNext: 100, BaseDamage: 10,
			Effects: []skill.Effect{
				{Type: skill.EffectStatus, Status: "burning", Value: 2, Duration: 2, Target: skill.TargetEnemy},
				{Type: skill.EffectStatus, Status: "shielded", Value: 5, Duration: 2, Target: skill.TargetSelf},
			}},
		{ID: "scripted", Name: "Scripted", Type: skill.TypeAttack, MaxLevel: 5, ExperienceToNext: 100, BaseDamage: 10, Hook: "bonus"},
	} {
		require.NoError(t, reg.Register(s))
	}
	return reg
}

func testConditions() *condition.Registry {
	reg := condition.NewRegistry()
	reg.Register(&condition.Def{ID: "burning", Name: "Burning", CanStack: true, MaxStacks: 2})
	reg.Register(&condition.Def{ID: "weakened", Name: "Weakened", Modifies: condition.StatDefense})
	reg.Register(&condition.Def{ID: "shielded", Name: "Shielded", Positive: true, Modifies: condition.StatDefense})
	return reg
}

// newFixture builds a store and engine. opts.Random, Clock, Publisher and
// Conditions are filled in when unset.
func newFixture(t testing.TB, opts combat.Options) *fixture {
	t.Helper()
	rec := &events.Recorder{}
	store := character.NewStore(testSkills(t), nil, dice.NewSeededSource(3), events.Nop, zap.NewNop())
	if opts.Random == nil {
		opts.Random = neverCrit()
	}
	if opts.Clock == nil {
		opts.Clock = func() time.Time { return battleStart }
	}
	if opts.Publisher == nil {
		opts.Publisher = rec
	}
	if opts.Conditions == nil {
		opts.Conditions = testConditions()
	}
	return &fixture{store: store, engine: combat.NewEngine(store, opts), rec: rec}
}

// character creates a character of class, applies mutate to its base stats
// and teaches it skills.
func (f *fixture) character(t testing.TB, name string, class ruleset.Class, mutate func(*ruleset.Stats), skills ...string) string {
	t.Helper()
	c, err := f.store.Create("owner", name, class)
	require.NoError(t, err)
	if mutate != nil {
		base := c.BaseStats
		mutate(&base)
		_, err = f.store.UpdateStats(c.ID, base)
		require.NoError(t, err)
	}
	for _, id := range skills {
		_, err = f.store.LearnSkill(context.Background(), c.ID, id)
		require.NoError(t, err)
	}
	return c.ID
}

func (f *fixture) start(t testing.TB, ids ...string) *combat.Battle {
	t.Helper()
	b, err := f.engine.StartBattle(context.Background(), combat.StartRequest{CharacterIDs: ids, Type: combat.TypePvP})
	require.NoError(t, err)
	return b
}

func (f *fixture) turn(battleID, actor, skillID, target string) (*combat.TurnResult, error) {
	return f.engine.ExecuteTurn(context.Background(), combat.TurnRequest{
		BattleID: battleID, ParticipantID: actor, SkillID: skillID, TargetID: target,
	})
}

func speed(v int) func(*ruleset.Stats) {
	return func(s *ruleset.Stats) { s.Speed = v }
}

func health(v int) func(*ruleset.Stats) {
	return func(s *ruleset.Stats) { s.Health = v }
}
