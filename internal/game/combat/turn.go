package combat

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/battlecore/internal/events"
)

// TurnRequest is one participant's action.
type TurnRequest struct {
	BattleID      string
	ParticipantID string
	SkillID       string
	TargetID      string // empty for untargeted skills
}

// TurnResult reports what an accepted turn did.
type TurnResult struct {
	Battle     *Battle // snapshot after the turn
	ActorID    string
	SkillID    string
	TargetID   string
	Damage     int
	Healing    int
	Critical   bool
	Applied    []string // status types applied this turn
	Expired    []string // status types that expired on the actor at turn start
	Eliminated []string // participant IDs reduced to zero health this turn
	Ended      bool
}

// ExecuteTurn validates and resolves one turn.
//
// The request is rejected without mutation when the battle is missing or not
// active, the actor is missing or inactive, the skill is not among the actor's
// skills, the actor does not own the current turn, or the target is missing
// or eliminated.
//
// Postcondition: on success the actor's status effects have ticked, the skill
// is resolved, and the battle has either completed (at most one participant
// alive), timed out (turn ceiling reached) or advanced to the next turn.
func (e *Engine) ExecuteTurn(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	en, ok := e.lookup(req.BattleID)
	if !ok {
		return nil, e.rejectTurn(fmt.Errorf("battle %q: %w", req.BattleID, ErrNotFound))
	}

	en.mu.Lock()
	res, end, err := e.executeLocked(en.battle, req)
	en.mu.Unlock()
	if err != nil {
		return nil, e.rejectTurn(err)
	}

	e.opts.Metrics.TurnExecuted(TurnAccepted)
	if res.Damage > 0 {
		e.opts.Metrics.DamageDealt(res.Damage)
	}
	if end != nil {
		e.ended(ctx, *end)
	}
	return res, nil
}

func (e *Engine) executeLocked(b *Battle, req TurnRequest) (*TurnResult, *events.BattleEnd, error) {
	if b.Status != StatusActive {
		return nil, nil, fmt.Errorf("battle %q is %s: %w", b.ID, b.Status, ErrInvalidOperation)
	}
	actor, ok := b.Participant(req.ParticipantID)
	if !ok {
		return nil, nil, fmt.Errorf("participant %q in battle %q: %w", req.ParticipantID, b.ID, ErrNotFound)
	}
	if !actor.Active || !actor.Alive() {
		return nil, nil, fmt.Errorf("participant %q is eliminated: %w", actor.ID, ErrInvalidOperation)
	}
	sk, ok := actor.Skill(req.SkillID)
	if !ok {
		return nil, nil, fmt.Errorf("participant %q has no skill %q: %w", actor.ID, req.SkillID, ErrNotFound)
	}
	if current := b.CurrentParticipant(); current.ID != actor.ID {
		return nil, nil, fmt.Errorf("turn %d belongs to %q, not %q: %w", b.CurrentTurn, current.ID, actor.ID, ErrInvalidOperation)
	}
	var target *Participant
	if req.TargetID != "" {
		target, ok = b.Participant(req.TargetID)
		if !ok {
			return nil, nil, fmt.Errorf("target %q in battle %q: %w", req.TargetID, b.ID, ErrNotFound)
		}
		if !target.Alive() {
			return nil, nil, fmt.Errorf("target %q is eliminated: %w", target.ID, ErrInvalidOperation)
		}
	}

	result := &TurnResult{ActorID: actor.ID, SkillID: sk.ID, TargetID: req.TargetID}
	for _, fx := range actor.Effects.Tick() {
		result.Expired = append(result.Expired, fx.Type)
	}

	out := resolveSkill(actor, target, sk, e.opts.Random, e.opts.Conditions, e.opts.Hooks)

	actor.Combat.SkillsUsed++
	actor.UsedSkills = append(actor.UsedSkills, sk.ID)
	actor.Mana = max(actor.Mana-sk.ManaCost, 0)
	actor.Stamina = max(actor.Stamina-sk.StaminaCost, 0)

	if out.critical {
		actor.Combat.CriticalHits++
		result.Critical = true
	}
	if out.damage > 0 && target != nil {
		wasAlive := target.Alive()
		target.Health = max(target.Health-out.damage, 0)
		actor.Combat.DamageDealt += out.damage
		target.Combat.DamageReceived += out.damage
		result.Damage = out.damage
		if wasAlive && !target.Alive() {
			actor.Combat.Kills++
			target.Combat.Deaths++
			target.Active = false
			result.Eliminated = append(result.Eliminated, target.ID)
		}
	}
	if out.healing > 0 && actor.Alive() {
		actor.Health = min(actor.Health+out.healing, actor.MaxHealth)
		actor.Combat.HealingDone += out.healing
		actor.Combat.HealingReceived += out.healing
		result.Healing = out.healing
	}
	for _, pe := range out.effects {
		if !pe.recipient.Alive() {
			continue
		}
		pe.recipient.Effects.Apply(pe.effect, e.opts.Stacking)
		actor.Combat.StatusEffectsApplied++
		pe.recipient.Combat.StatusEffectsReceived++
		result.Applied = append(result.Applied, pe.effect.Type)
	}

	var end *events.BattleEnd
	if alive := b.Alive(); len(alive) <= 1 {
		winner := ""
		if len(alive) == 1 {
			winner = alive[0].ID
		}
		e.finish(b, StatusCompleted, winner)
		if len(alive) == 1 {
			b.Rewards = append(b.Rewards, e.opts.Rewards.Distribute(b, alive[0])...)
		}
		s := summarize(b)
		end = &s
	} else {
		advanceTurn(b)
		if elapsedTurns(b) >= b.MaxTurns {
			e.finish(b, StatusTimeout, "")
			s := summarize(b)
			end = &s
		}
	}
	result.Ended = end != nil
	result.Battle = b.Clone()
	return result, end, nil
}

func (e *Engine) rejectTurn(err error) error {
	e.opts.Metrics.TurnExecuted(TurnRejected)
	e.opts.Logger.Debug("turn rejected", zap.Error(err))
	return err
}
