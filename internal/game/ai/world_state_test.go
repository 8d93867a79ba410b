package ai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/battlecore/internal/game/ai"
	"github.com/cory-johannsen/battlecore/internal/game/combat"
	"github.com/cory-johannsen/battlecore/internal/game/condition"
	"github.com/cory-johannsen/battlecore/internal/game/skill"
)

func TestWorldState_Enemies_ExcludesActorAndFallen(t *testing.T) {
	ws := threeWay()
	ws.Combatants[2].Alive = false
	enemies := ws.Enemies()
	require.Len(t, enemies, 1)
	assert.Equal(t, "b", enemies[0].ID)
}

func TestWorldState_NextEnemy_WrapsAround(t *testing.T) {
	ws := threeWay()
	ws.Actor = ws.Combatants[2]
	assert.Equal(t, "a", ws.NextEnemy().ID, "wraps from the last seat to the first")

	ws.Actor = ws.Combatants[1]
	assert.Equal(t, "c", ws.NextEnemy().ID)
}

func TestWorldState_Selectors(t *testing.T) {
	ws := threeWay()
	assert.Equal(t, "a", ws.ResolveTarget(ai.TargetSelf))
	assert.Equal(t, "b", ws.ResolveTarget(ai.TargetNextEnemy))
	assert.Equal(t, "c", ws.ResolveTarget(ai.TargetWeakestEnemy))
	assert.Equal(t, "b", ws.ResolveTarget(ai.TargetStrongestEnemy))
	assert.Equal(t, "", ws.ResolveTarget(""))
}

func TestWorldState_NoEnemies(t *testing.T) {
	ws := threeWay()
	ws.Combatants = ws.Combatants[:1]
	assert.Nil(t, ws.WeakestEnemy())
	assert.Nil(t, ws.StrongestEnemy())
	assert.Nil(t, ws.NextEnemy())
	assert.Equal(t, "", ws.ResolveTarget(ai.TargetWeakestEnemy))
}

func TestWorldState_HealthPercent(t *testing.T) {
	assert.InDelta(t, 20.0, (&ai.CombatantState{Health: 10, MaxHealth: 50}).HealthPercent(), 1e-9)
	assert.Zero(t, (&ai.CombatantState{Health: 10}).HealthPercent())
}

func TestWorldState_ResolveSkill(t *testing.T) {
	ws := threeWay()
	id, ok := ws.ResolveSkill(&ai.Operator{SkillType: skill.TypeHeal})
	require.True(t, ok)
	assert.Equal(t, "heal", id)

	_, ok = ws.ResolveSkill(&ai.Operator{Skill: "fireball"})
	assert.False(t, ok)
}

func TestBuildWorldState(t *testing.T) {
	b := &combat.Battle{
		ID: "b1",
		Participants: []*combat.Participant{
			{ID: "p1", Name: "Ana", Health: 40, MaxHealth: 100, Effects: condition.NewSet(),
				Skills: []*skill.Skill{{ID: skill.BasicAttackID, Type: skill.TypeAttack}}},
			{ID: "p2", Name: "Bo", Health: 0, MaxHealth: 80, Effects: condition.NewSet()},
		},
	}

	ws, err := ai.BuildWorldState(b, "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", ws.Actor.ID)
	assert.Len(t, ws.Skills, 1)
	require.Len(t, ws.Combatants, 2)
	assert.True(t, ws.Combatants[0].Alive)
	assert.False(t, ws.Combatants[1].Alive)
	assert.Same(t, ws.Actor, ws.Combatants[0])

	_, err = ai.BuildWorldState(b, "ghost")
	assert.Error(t, err)
}
