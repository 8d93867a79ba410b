package ai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/battlecore/internal/game/ai"
	"github.com/cory-johannsen/battlecore/internal/game/skill"
)

func TestPlanner_Plan_DefaultsToNextEnemy(t *testing.T) {
	planner := ai.NewPlanner(duelistDomain(), &hookCaller{})

	actions, err := planner.Plan(threeWay())
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, ai.PlannedAction{SkillID: skill.BasicAttackID, TargetID: "b"}, actions[0])
}

func TestPlanner_Plan_HealsWhenHookApproves(t *testing.T) {
	caller := &hookCaller{results: map[string]lua.LValue{"badly_hurt": lua.LTrue}}
	planner := ai.NewPlanner(duelistDomain(), caller)

	actions, err := planner.Plan(threeWay())
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, ai.PlannedAction{SkillID: "heal", TargetID: "a"}, actions[0])
}

func TestPlanner_Plan_FinishesWeakest(t *testing.T) {
	caller := &hookCaller{results: map[string]lua.LValue{"enemy_wounded": lua.LTrue}}
	planner := ai.NewPlanner(duelistDomain(), caller)

	actions, err := planner.Plan(threeWay())
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, ai.PlannedAction{SkillID: "power_strike", TargetID: "c"}, actions[0])
}

func TestPlanner_Plan_PassesActorToHooks(t *testing.T) {
	caller := &hookCaller{}
	planner := ai.NewPlanner(duelistDomain(), caller)

	_, err := planner.Plan(threeWay())
	require.NoError(t, err)
	require.NotEmpty(t, caller.args)
	assert.Equal(t, "badly_hurt", caller.calls[0])
	assert.Equal(t, []lua.LValue{lua.LString("a"), lua.LNumber(50), lua.LNumber(2)}, caller.args[0])
}

func TestPlanner_Plan_DropsUnknownSkill(t *testing.T) {
	caller := &hookCaller{results: map[string]lua.LValue{"badly_hurt": lua.LTrue}}
	planner := ai.NewPlanner(duelistDomain(), caller)
	ws := threeWay()
	ws.Skills = ws.Skills[:1] // no heal

	actions, err := planner.Plan(ws)
	require.NoError(t, err)
	assert.Empty(t, actions)
}

func TestPlanner_Plan_DropsUnresolvableTarget(t *testing.T) {
	planner := ai.NewPlanner(duelistDomain(), &hookCaller{})
	ws := threeWay()
	for _, c := range ws.Combatants[1:] {
		c.Alive = false
	}

	actions, err := planner.Plan(ws)
	require.NoError(t, err)
	assert.Empty(t, actions)
}

func TestPlanner_Plan_RejectsNilActor(t *testing.T) {
	planner := ai.NewPlanner(duelistDomain(), &hookCaller{})
	_, err := planner.Plan(&ai.WorldState{})
	assert.Error(t, err)
}

func TestNewPlanner_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { ai.NewPlanner(nil, &hookCaller{}) })
	assert.Panics(t, func() { ai.NewPlanner(duelistDomain(), nil) })
}

func TestProperty_Planner_TargetsAreLivingParticipants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		caller := &hookCaller{results: map[string]lua.LValue{}}
		if rapid.Bool().Draw(rt, "hurt") {
			caller.results["badly_hurt"] = lua.LTrue
		}
		if rapid.Bool().Draw(rt, "wounded") {
			caller.results["enemy_wounded"] = lua.LTrue
		}
		ws := threeWay()
		for i, c := range ws.Combatants[1:] {
			c.Alive = rapid.Bool().Draw(rt, "alive"+string(rune('b'+i)))
			c.Health = rapid.IntRange(0, c.MaxHealth).Draw(rt, "health"+string(rune('b'+i)))
		}

		actions, err := ai.NewPlanner(duelistDomain(), caller).Plan(ws)
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		if actions == nil {
			rt.Fatal("Plan must return non-nil slice")
		}
		for _, a := range actions {
			found := false
			for _, c := range ws.Combatants {
				if c.ID == a.TargetID && c.Alive {
					found = true
				}
			}
			if !found {
				rt.Fatalf("action %+v targets no living participant", a)
			}
		}
	})
}
