package combat_test

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/cory-johannsen/battlecore/internal/game/combat"
	"github.com/cory-johannsen/battlecore/internal/game/dice"
	"github.com/cory-johannsen/battlecore/internal/game/ruleset"
	"github.com/cory-johannsen/battlecore/internal/game/skill"
)

func TestPropertyStartBattle_TurnOrderSortedAndStable(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := newFixture(t, combat.Options{})
		speeds := rapid.SliceOfN(rapid.IntRange(1, 5), 2, 8).Draw(rt, "speeds")
		ids := make([]string, len(speeds))
		position := make(map[string]int, len(speeds))
		for i, s := range speeds {
			ids[i] = f.character(t, fmt.Sprintf("C%d", i), ruleset.ClassWarrior, speed(s))
			position[ids[i]] = i
		}

		b := f.start(t, ids...)
		for i := 1; i < len(b.Participants); i++ {
			prev, cur := b.Participants[i-1], b.Participants[i]
			if prev.Stats.Speed < cur.Stats.Speed {
				rt.Fatalf("speed increases at %d: %d < %d", i, prev.Stats.Speed, cur.Stats.Speed)
			}
			if prev.Stats.Speed == cur.Stats.Speed && position[prev.ID] > position[cur.ID] {
				rt.Fatalf("equal speeds reordered at %d", i)
			}
		}
		seen := make(map[int]bool)
		for _, p := range b.Participants {
			if p.TurnOrder < 0 || p.TurnOrder >= len(ids) || seen[p.TurnOrder] {
				rt.Fatalf("turn order %d is not a permutation index", p.TurnOrder)
			}
			seen[p.TurnOrder] = true
		}
	})
}

func TestPropertyExecuteTurn_HealthStaysInBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		policy := rapid.SampledFrom([]combat.TurnPolicy{combat.TurnSkipEliminated, combat.TurnRoundRobin}).Draw(rt, "policy")
		f := newFixture(t, combat.Options{Random: dice.NewSeededSource(seed), TurnPolicy: policy, MaxTurns: 40})

		n := rapid.IntRange(2, 4).Draw(rt, "participants")
		ids := make([]string, n)
		for i := range ids {
			class := rapid.SampledFrom(ruleset.Classes()).Draw(rt, fmt.Sprintf("class%d", i))
			hp := rapid.IntRange(1, 60).Draw(rt, fmt.Sprintf("hp%d", i))
			ids[i] = f.character(t, fmt.Sprintf("C%d", i), class, health(hp), "mend", "smite", "weaken")
		}
		b := f.start(t, ids...)
		skills := []string{skill.BasicAttackID, "mend", "smite", "weaken"}

		for step := 0; step < 60 && b.Status == combat.StatusActive; step++ {
			actor := b.CurrentParticipant()
			if !actor.Alive() {
				rt.Fatalf("step %d: turn %d belongs to eliminated %s", step, b.CurrentTurn, actor.ID)
			}
			var targets []string
			for _, p := range b.Participants {
				if p.Alive() && p.ID != actor.ID {
					targets = append(targets, p.ID)
				}
			}
			target := rapid.SampledFrom(targets).Draw(rt, fmt.Sprintf("target%d", step))
			sk := rapid.SampledFrom(skills).Draw(rt, fmt.Sprintf("skill%d", step))
			res, err := f.turn(b.ID, actor.ID, sk, target)
			if err != nil {
				rt.Fatalf("step %d: %v", step, err)
			}
			if sk != "mend" && res.Damage < 1 && sk != "weaken" {
				rt.Fatalf("step %d: damaging skill dealt %d", step, res.Damage)
			}
			b = res.Battle
			for _, p := range b.Participants {
				if p.Health < 0 || p.Health > p.MaxHealth {
					rt.Fatalf("step %d: %s health %d outside [0, %d]", step, p.ID, p.Health, p.MaxHealth)
				}
			}
		}
	})
}
