package combat

import (
	"fmt"
	"sort"
)

// TurnPolicy controls how the turn ceiling counts turns. Under both policies
// the participant allowed to act is Participants[CurrentTurn % len(Participants)]
// and CurrentTurn steps over the slots of eliminated participants.
type TurnPolicy string

const (
	// TurnSkipEliminated counts only accepted turns against MaxTurns.
	TurnSkipEliminated TurnPolicy = "skip_eliminated"
	// TurnRoundRobin counts every slot CurrentTurn passes, so eliminated
	// participants keep occupying their slot and use up the ceiling.
	TurnRoundRobin TurnPolicy = "round_robin"
)

// ParseTurnPolicy resolves a policy name.
func ParseTurnPolicy(name string) (TurnPolicy, error) {
	switch p := TurnPolicy(name); p {
	case TurnSkipEliminated, TurnRoundRobin:
		return p, nil
	default:
		return "", fmt.Errorf("unknown turn policy %q", name)
	}
}

// assignTurnOrder sorts participants by speed, highest first, keeping the
// input order among equal speeds, and writes each position into TurnOrder.
//
// Postcondition: participants[i].TurnOrder == i.
func assignTurnOrder(participants []*Participant) {
	sort.SliceStable(participants, func(i, j int) bool {
		return participants[i].Stats.Speed > participants[j].Stats.Speed
	})
	for i, p := range participants {
		p.TurnOrder = i
	}
}

// advanceTurn moves CurrentTurn to the next living participant's slot. Each
// slot passed, living or not, increments CurrentTurn.
//
// Precondition: at least one participant is alive.
func advanceTurn(b *Battle) {
	b.CurrentTurn++
	for range b.Participants {
		if b.CurrentParticipant().Alive() {
			return
		}
		b.CurrentTurn++
	}
}

// elapsedTurns is the turn count compared against MaxTurns.
func elapsedTurns(b *Battle) int {
	if b.TurnPolicy == TurnRoundRobin {
		return b.CurrentTurn
	}
	n := 0
	for _, p := range b.Participants {
		n += p.Combat.SkillsUsed
	}
	return n
}
