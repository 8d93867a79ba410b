package ai

import (
	"fmt"

	"github.com/cory-johannsen/battlecore/internal/game/combat"
)

// BuildWorldState constructs a WorldState snapshot of b for the participant actorID.
//
// Precondition: b must not be nil.
// Postcondition: ws.Actor.ID == actorID; every participant is represented in turn order.
func BuildWorldState(b *combat.Battle, actorID string) (*WorldState, error) {
	actor, ok := b.Participant(actorID)
	if !ok {
		return nil, fmt.Errorf("ai.BuildWorldState: participant %q not in battle %s", actorID, b.ID)
	}
	ws := &WorldState{Skills: actor.Skills}
	for _, p := range b.Participants {
		cs := &CombatantState{
			ID:        p.ID,
			Name:      p.Name,
			Health:    p.Health,
			MaxHealth: p.MaxHealth,
			Mana:      p.Mana,
			Alive:     p.Alive(),
		}
		if p.Effects != nil {
			for _, fx := range p.Effects.All() {
				cs.Effects = append(cs.Effects, fx.Type)
			}
		}
		if p.ID == actorID {
			ws.Actor = cs
		}
		ws.Combatants = append(ws.Combatants, cs)
	}
	return ws, nil
}
