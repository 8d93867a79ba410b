package ai_test

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/battlecore/internal/game/ai"
	"github.com/cory-johannsen/battlecore/internal/game/skill"
)

// hookCaller answers each hook from a fixed table; unknown hooks return LNil.
type hookCaller struct {
	results map[string]lua.LValue
	calls   []string
	args    [][]lua.LValue
}

func (h *hookCaller) CallHook(hook string, args ...lua.LValue) (lua.LValue, error) {
	h.calls = append(h.calls, hook)
	h.args = append(h.args, args)
	if v, ok := h.results[hook]; ok {
		return v, nil
	}
	return lua.LNil, nil
}

func duelistDomain() *ai.Domain {
	return &ai.Domain{
		ID: "duelist",
		Tasks: []*ai.Task{
			{ID: ai.RootTask},
			{ID: "fight"},
		},
		Methods: []*ai.Method{
			{TaskID: ai.RootTask, ID: "recover", Precondition: "badly_hurt", Subtasks: []string{"heal_self"}},
			{TaskID: ai.RootTask, ID: "engage", Subtasks: []string{"fight"}},
			{TaskID: "fight", ID: "finish", Precondition: "enemy_wounded", Subtasks: []string{"strike_weakest"}},
			{TaskID: "fight", ID: "press", Subtasks: []string{"hit_next"}},
		},
		Operators: []*ai.Operator{
			{ID: "heal_self", SkillType: skill.TypeHeal, Target: ai.TargetSelf},
			{ID: "strike_weakest", Skill: "power_strike", Target: ai.TargetWeakestEnemy},
			{ID: "hit_next", Skill: skill.BasicAttackID, Target: ai.TargetNextEnemy},
		},
	}
}

func threeWay() *ai.WorldState {
	actor := &ai.CombatantState{ID: "a", Name: "Ana", Health: 50, MaxHealth: 100, Alive: true}
	return &ai.WorldState{
		Actor: actor,
		Skills: []*skill.Skill{
			{ID: skill.BasicAttackID, Type: skill.TypeAttack},
			{ID: "power_strike", Type: skill.TypeAttack},
			{ID: "heal", Type: skill.TypeHeal},
		},
		Combatants: []*ai.CombatantState{
			actor,
			{ID: "b", Name: "Bo", Health: 90, MaxHealth: 100, Alive: true},
			{ID: "c", Name: "Cy", Health: 10, MaxHealth: 50, Alive: true},
		},
	}
}
