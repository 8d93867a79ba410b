package ai

import "github.com/cory-johannsen/battlecore/internal/game/skill"

// CombatantState captures a participant's planning-relevant state.
type CombatantState struct {
	ID        string
	Name      string
	Health    int
	MaxHealth int
	Mana      int
	Alive     bool
	Effects   []string
}

// HealthPercent returns current health as a percentage of MaxHealth; 0 if MaxHealth == 0.
func (c *CombatantState) HealthPercent() float64 {
	if c.MaxHealth <= 0 {
		return 0
	}
	return float64(c.Health) / float64(c.MaxHealth) * 100
}

// WorldState is the snapshot passed to the planner for one actor.
//
// Combatants are in turn order and include the actor.
//
// Invariant: Actor must not be nil.
type WorldState struct {
	Actor      *CombatantState
	Skills     []*skill.Skill
	Combatants []*CombatantState
}

// Enemies returns every living combatant other than the actor, in turn order.
func (ws *WorldState) Enemies() []*CombatantState {
	var out []*CombatantState
	for _, c := range ws.Combatants {
		if c.Alive && c.ID != ws.Actor.ID {
			out = append(out, c)
		}
	}
	return out
}

// NextEnemy returns the first living enemy after the actor in turn order,
// wrapping around, or nil.
func (ws *WorldState) NextEnemy() *CombatantState {
	self := -1
	for i, c := range ws.Combatants {
		if c.ID == ws.Actor.ID {
			self = i
			break
		}
	}
	n := len(ws.Combatants)
	for i := 1; i <= n; i++ {
		c := ws.Combatants[(self+i+n)%n]
		if c.Alive && c.ID != ws.Actor.ID {
			return c
		}
	}
	return nil
}

// WeakestEnemy returns the living enemy with the lowest health percentage, or nil.
//
// Postcondition: ties broken by turn order.
func (ws *WorldState) WeakestEnemy() *CombatantState {
	return ws.pickEnemy(func(a, b *CombatantState) bool { return a.HealthPercent() < b.HealthPercent() })
}

// StrongestEnemy returns the living enemy with the most health remaining, or nil.
//
// Postcondition: ties broken by turn order.
func (ws *WorldState) StrongestEnemy() *CombatantState {
	return ws.pickEnemy(func(a, b *CombatantState) bool { return a.Health > b.Health })
}

func (ws *WorldState) pickEnemy(better func(a, b *CombatantState) bool) *CombatantState {
	enemies := ws.Enemies()
	if len(enemies) == 0 {
		return nil
	}
	best := enemies[0]
	for _, e := range enemies[1:] {
		if better(e, best) {
			best = e
		}
	}
	return best
}

// ResolveTarget maps a selector to a participant ID.
//
// Postcondition: "" for the empty selector or when no enemy qualifies.
func (ws *WorldState) ResolveTarget(selector string) string {
	var c *CombatantState
	switch selector {
	case TargetSelf:
		c = ws.Actor
	case TargetNextEnemy:
		c = ws.NextEnemy()
	case TargetWeakestEnemy:
		c = ws.WeakestEnemy()
	case TargetStrongestEnemy:
		c = ws.StrongestEnemy()
	}
	if c == nil {
		return ""
	}
	return c.ID
}

// ResolveSkill returns the ID of the actor's skill that op names.
func (ws *WorldState) ResolveSkill(op *Operator) (string, bool) {
	for _, s := range ws.Skills {
		if op.Skill != "" && s.ID == op.Skill {
			return s.ID, true
		}
		if op.SkillType != "" && s.Type == op.SkillType {
			return s.ID, true
		}
	}
	return "", false
}
