package combat

import (
	"math"

	"github.com/cory-johannsen/battlecore/internal/game/condition"
	"github.com/cory-johannsen/battlecore/internal/game/dice"
	"github.com/cory-johannsen/battlecore/internal/game/skill"
	"github.com/cory-johannsen/battlecore/internal/scripting"
)

// MaxDamage caps the damage of a single skill use.
const MaxDamage = math.MaxInt32

// ComputeDamage applies the damage formula:
//
//	floor(base * (attack/10) * critMultiplier * (100/(100+defense)) + flat)
//
// Negative defense counts as zero. A NaN flat bonus is ignored. The result
// is at least 1 whenever base > 0.
//
// Postcondition: Returns a value in [0, MaxDamage]; >= 1 if base > 0.
func ComputeDamage(base, attack int, critMultiplier float64, defense int, flat float64) int {
	if defense < 0 {
		defense = 0
	}
	raw := float64(base) * (float64(attack) / 10) * critMultiplier * (100 / float64(100+defense))
	total := raw + flat
	if math.IsNaN(total) {
		total = raw
	}
	total = max(min(math.Floor(total), MaxDamage), -MaxDamage)
	dmg := int(total)
	if base > 0 && dmg < 1 {
		return 1
	}
	if dmg < 0 {
		return 0
	}
	return dmg
}

// ComputeHealing applies the healing formula floor(base * (intelligence/10)) + flat.
//
// Postcondition: Returns >= 0.
func ComputeHealing(base, intelligence, flat int) int {
	heal := int(math.Floor(float64(base)*(float64(intelligence)/10))) + flat
	if heal < 0 {
		return 0
	}
	return heal
}

// SkillHooks runs scripted skill hooks. *scripting.Manager satisfies it.
type SkillHooks interface {
	SkillBonus(hook string, call scripting.SkillCall) float64
}

// pendingEffect is a status effect resolved from a skill, not yet applied.
type pendingEffect struct {
	recipient *Participant
	effect    *condition.Effect
}

// resolution is the outcome of resolving one skill use.
type resolution struct {
	damage   int
	healing  int
	critical bool
	effects  []pendingEffect
}

// resolveSkill computes damage, healing and status effects for actor using
// sk against target. It does not mutate any participant.
//
// Precondition: actor and sk are non-nil; target may be nil.
func resolveSkill(actor, target *Participant, sk *skill.Skill, src dice.Source, conditions *condition.Registry, hooks SkillHooks) resolution {
	var res resolution
	var flatDamage float64
	flatHealing := 0

	for _, fx := range sk.Effects {
		switch fx.Type {
		case skill.EffectDamage:
			flatDamage += float64(fx.Value)
		case skill.EffectHealing:
			flatHealing += fx.Value
		case skill.EffectStatus:
			recipient := target
			if fx.Target == skill.TargetSelf {
				recipient = actor
			}
			if recipient == nil {
				continue
			}
			def, _ := conditions.Get(fx.Status)
			res.effects = append(res.effects, pendingEffect{
				recipient: recipient,
				effect:    condition.NewEffect(def, fx.Status, fx.Value, fx.Duration, sk.ID),
			})
		}
	}

	if target != nil {
		if sk.Hook != "" && hooks != nil {
			bonus := hooks.SkillBonus(sk.Hook, skillCall(actor, target, sk))
			if !math.IsNaN(bonus) && !math.IsInf(bonus, 0) {
				flatDamage += bonus
			}
		}
		if sk.BaseDamage > 0 || flatDamage > 0 {
			critMultiplier := 1.0
			if sk.BaseDamage > 0 && dice.Chance(src, actor.Stats.CriticalChance) {
				res.critical = true
				critMultiplier = actor.Stats.CriticalDamage / 100
			}
			res.damage = ComputeDamage(
				sk.BaseDamage,
				actor.Stats.Attack+condition.AttackModifier(actor.Effects),
				critMultiplier,
				target.Stats.Defense+condition.DefenseModifier(target.Effects),
				flatDamage,
			)
		}
	}

	res.healing = ComputeHealing(sk.BaseHealing, actor.Stats.Intelligence, flatHealing)
	return res
}

func skillCall(actor, target *Participant, sk *skill.Skill) scripting.SkillCall {
	call := scripting.SkillCall{
		SkillID:    sk.ID,
		SkillLevel: sk.Level,
		BaseDamage: sk.BaseDamage,
		Actor:      combatantInfo(actor),
	}
	if target != nil {
		info := combatantInfo(target)
		call.Target = &info
	}
	return call
}

func combatantInfo(p *Participant) scripting.CombatantInfo {
	info := scripting.CombatantInfo{
		ID:        p.ID,
		Name:      p.Name,
		Health:    p.Health,
		MaxHealth: p.MaxHealth,
		Attack:    p.Stats.Attack + condition.AttackModifier(p.Effects),
		Defense:   p.Stats.Defense + condition.DefenseModifier(p.Effects),
	}
	for _, e := range p.Effects.All() {
		info.Effects = append(info.Effects, e.Type)
	}
	return info
}
