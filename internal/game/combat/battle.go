// Package combat implements the turn-based battle engine: battle state,
// damage and healing formulas, turn order, reward distribution and the
// stale-battle scheduler.
package combat

import (
	"errors"
	"time"

	"github.com/cory-johannsen/battlecore/internal/game/condition"
	"github.com/cory-johannsen/battlecore/internal/game/inventory"
	"github.com/cory-johannsen/battlecore/internal/game/ruleset"
	"github.com/cory-johannsen/battlecore/internal/game/skill"
)

var (
	// ErrNotFound is returned when a battle, participant or skill ID does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrInvalidOperation is returned when an operation is refused, such as
	// acting out of turn or acting in a battle that is no longer active.
	ErrInvalidOperation = errors.New("invalid operation")
)

// Status is a battle's lifecycle state.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusForfeited Status = "forfeited"
	StatusTimeout   Status = "timeout"
)

// Terminal reports whether s is one of the end states.
func (s Status) Terminal() bool {
	return s != StatusActive
}

// BattleType classifies a battle.
type BattleType string

const (
	TypePvP        BattleType = "pvp"
	TypePvE        BattleType = "pve"
	TypeRaid       BattleType = "raid"
	TypeTournament BattleType = "tournament"
	TypeArena      BattleType = "arena"
)

// Position is a participant's place on the battlefield.
type Position struct {
	X int
	Y int
}

// CombatStats accumulates a participant's activity over one battle.
type CombatStats struct {
	DamageDealt           int
	DamageReceived        int
	HealingDone           int
	HealingReceived       int
	SkillsUsed            int
	CriticalHits          int
	Misses                int
	Dodges                int
	Blocks                int
	StatusEffectsApplied  int
	StatusEffectsReceived int
	Kills                 int
	Deaths                int
	Assists               int
}

// Participant is a character's per-battle state, snapshotted at battle start.
//
// Invariant: 0 <= Health <= MaxHealth; TurnOrder never changes after start.
type Participant struct {
	ID          string // equal to the character ID
	CharacterID string
	Name        string
	Class       ruleset.Class
	Stats       ruleset.Stats // aggregate stats at battle start

	Health     int
	MaxHealth  int
	Mana       int
	MaxMana    int
	Stamina    int
	MaxStamina int

	Effects    *condition.Set
	Skills     []*skill.Skill
	UsedSkills []string
	TurnOrder  int
	Combat     CombatStats
	Equipment  map[inventory.Slot]string // slot → equipment ID
	Position   Position
	Active     bool
}

// Alive reports whether p has health remaining.
func (p *Participant) Alive() bool {
	return p.Health > 0
}

// Skill returns the available skill with the given ID.
func (p *Participant) Skill(id string) (*skill.Skill, bool) {
	for _, s := range p.Skills {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// Clone returns a deep copy of p.
func (p *Participant) Clone() *Participant {
	cp := *p
	cp.Effects = p.Effects.Clone()
	cp.Skills = make([]*skill.Skill, len(p.Skills))
	for i, s := range p.Skills {
		cp.Skills[i] = s.Clone()
	}
	cp.UsedSkills = append([]string(nil), p.UsedSkills...)
	cp.Equipment = make(map[inventory.Slot]string, len(p.Equipment))
	for k, v := range p.Equipment {
		cp.Equipment[k] = v
	}
	return &cp
}

// Reward is one reward record granted at battle completion.
type Reward struct {
	ID            string
	ParticipantID string
	Type          string
	Amount        int
	Description   string
	Claimed       bool
}

// Battle is one battle's full state.
//
// Participants are stored in turn order: Participants[i].TurnOrder == i.
type Battle struct {
	ID           string
	Type         BattleType
	Participants []*Participant
	CurrentTurn  int
	MaxTurns     int
	Status       Status
	WinnerID     string
	Rewards      []Reward
	StartedAt    time.Time
	EndedAt      time.Time
	Duration     time.Duration
	ArenaID      string
	WeatherID    string
	SpecialRules []string
	Spectators   []string
	TurnPolicy   TurnPolicy
}

// Participant returns the participant with the given ID.
func (b *Battle) Participant(id string) (*Participant, bool) {
	for _, p := range b.Participants {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// CurrentParticipant returns the participant whose turn it is:
// Participants[CurrentTurn % len(Participants)].
func (b *Battle) CurrentParticipant() *Participant {
	if len(b.Participants) == 0 {
		return nil
	}
	return b.Participants[b.CurrentTurn%len(b.Participants)]
}

// Alive returns every participant with health remaining, in turn order.
func (b *Battle) Alive() []*Participant {
	var out []*Participant
	for _, p := range b.Participants {
		if p.Alive() {
			out = append(out, p)
		}
	}
	return out
}

// Clone returns a deep copy of b.
func (b *Battle) Clone() *Battle {
	cp := *b
	cp.Participants = make([]*Participant, len(b.Participants))
	for i, p := range b.Participants {
		cp.Participants[i] = p.Clone()
	}
	cp.Rewards = make([]Reward, len(b.Rewards))
	copy(cp.Rewards, b.Rewards)
	cp.SpecialRules = append([]string(nil), b.SpecialRules...)
	cp.Spectators = append([]string(nil), b.Spectators...)
	return &cp
}
