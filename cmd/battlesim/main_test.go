package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/battlecore/internal/game/combat"
	"github.com/cory-johannsen/battlecore/internal/game/dice"
	"github.com/cory-johannsen/battlecore/internal/game/ruleset"
)

const contentRoot = "../../content"

func TestSimulator_RunsToTerminalState(t *testing.T) {
	for _, seed := range []uint64{1, 2, 3, 42} {
		sim, cleanup, err := newSimulator(contentRoot, dice.NewSeededSource(seed), 60, zaptest.NewLogger(t))
		require.NoError(t, err)

		b, err := sim.Run(context.Background(), []ruleset.Class{ruleset.ClassWarrior, ruleset.ClassMage, ruleset.ClassRogue})
		cleanup()
		require.NoError(t, err, "seed %d", seed)

		assert.True(t, b.Status.Terminal(), "seed %d", seed)
		assert.Len(t, b.Participants, 3)
		if b.Status == combat.StatusCompleted {
			assert.NotEmpty(t, b.WinnerID)
			assert.Len(t, b.Alive(), 1)
			require.Len(t, b.Rewards, 1)
			assert.Equal(t, b.WinnerID, b.Rewards[0].ParticipantID)
			w, err := sim.store.Get(b.WinnerID)
			require.NoError(t, err)
			assert.Equal(t, 2, w.Level, "seed %d", seed)
		}
	}
}

func TestSimulator_PrepareEquipsAndTeaches(t *testing.T) {
	sim, cleanup, err := newSimulator(contentRoot, dice.NewSeededSource(7), 10, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer cleanup()

	id, err := sim.prepare(context.Background(), "rogue-1", ruleset.ClassRogue)
	require.NoError(t, err)
	c, err := sim.store.Get(id)
	require.NoError(t, err)

	_, ok := c.Skill("backstab")
	assert.True(t, ok, "rogue qualifies for backstab")
	_, ok = c.Skill("war_cry")
	assert.False(t, ok, "war cry needs level 2")
	assert.NotEmpty(t, c.Equipment)
	_, ok = c.Equipment["chest"]
	assert.False(t, ok, "chainmail needs level 3")
}

func TestSimulator_GrantRewardsUnlocksLevelRequirement(t *testing.T) {
	sim, cleanup, err := newSimulator(contentRoot, dice.NewSeededSource(7), 10, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer cleanup()
	ctx := context.Background()

	id, err := sim.prepare(ctx, "warrior-1", ruleset.ClassWarrior)
	require.NoError(t, err)
	_, err = sim.store.LearnSkill(ctx, id, "war_cry")
	require.Error(t, err)

	b := &combat.Battle{Rewards: []combat.Reward{
		{ID: "r1", ParticipantID: id, Type: combat.RewardExperience, Amount: combat.DefaultVictoryExperience},
		{ID: "r2", ParticipantID: id, Type: "gold", Amount: 500},
	}}
	require.NoError(t, sim.grantRewards(ctx, b))

	c, err := sim.store.LearnSkill(ctx, id, "war_cry")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Level)
	assert.Equal(t, 0, c.Experience)
	_, ok := c.Skill("war_cry")
	assert.True(t, ok)

	b.Rewards = []combat.Reward{{ID: "r3", ParticipantID: "missing", Type: combat.RewardExperience, Amount: 1}}
	assert.Error(t, sim.grantRewards(ctx, b))
}

func TestNewSimulator_MissingContent(t *testing.T) {
	_, _, err := newSimulator(t.TempDir(), dice.NewSeededSource(1), 10, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestSimulator_LoadsTactics(t *testing.T) {
	sim, cleanup, err := newSimulator(contentRoot, dice.NewSeededSource(3), 10, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, 2, sim.tactics.Len())
	p, ok := sim.tactics.PlannerForClass(ruleset.ClassMage)
	require.True(t, ok)
	assert.Equal(t, "caster", p.Domain().ID)
	p, ok = sim.tactics.PlannerForClass(ruleset.ClassWarrior)
	require.True(t, ok)
	assert.Equal(t, "skirmisher", p.Domain().ID)
}

func TestSimulator_ChooseFollowsTactics(t *testing.T) {
	sim, cleanup, err := newSimulator(contentRoot, dice.NewSeededSource(5), 10, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer cleanup()

	a, err := sim.prepare(context.Background(), "warrior-1", ruleset.ClassWarrior)
	require.NoError(t, err)
	bID, err := sim.prepare(context.Background(), "warrior-2", ruleset.ClassWarrior)
	require.NoError(t, err)
	b, err := sim.engine.StartBattle(context.Background(), combat.StartRequest{CharacterIDs: []string{a, bID}, Type: combat.TypeArena})
	require.NoError(t, err)

	actor := b.CurrentParticipant()
	req := sim.choose(b, actor)
	assert.Equal(t, actor.ID, req.ParticipantID)
	assert.NotEmpty(t, req.SkillID)
	assert.NotEqual(t, actor.ID, req.TargetID, "healthy skirmisher attacks its only opponent")
	assert.NotEmpty(t, req.TargetID)
}

func TestLoadTactics_MissingDir(t *testing.T) {
	reg, err := loadTactics(t.TempDir()+"/none", nil)
	require.NoError(t, err)
	assert.Zero(t, reg.Len())
}
