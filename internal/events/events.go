// Package events defines the notifications the combat core announces and the
// Publisher capability used to deliver them.
package events

import (
	"context"
	"errors"
	"time"
)

// Notification names.
const (
	BattleStarted       = "battle.started"
	BattleEnded         = "battle.ended"
	SkillLearned        = "skill.learned"
	SkillLeveledUp      = "skill.leveled_up"
	EquipmentEquipped   = "equipment.equipped"
	EquipmentUnequipped = "equipment.unequipped"
	CharacterLeveledUp  = "character.leveled_up"
)

// Publisher delivers a named notification with an arbitrary payload.
//
// Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, name string, payload any) error
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(ctx context.Context, name string, payload any) error

// Publish calls f.
func (f PublisherFunc) Publish(ctx context.Context, name string, payload any) error {
	return f(ctx, name, payload)
}

// Nop discards every notification.
var Nop Publisher = PublisherFunc(func(context.Context, string, any) error { return nil })

// Fanout delivers each notification to every publisher in order.
//
// Postcondition: every publisher is called even if an earlier one fails;
// the returned error joins all failures.
type Fanout []Publisher

// Publish delivers the notification to every member of f.
func (f Fanout) Publish(ctx context.Context, name string, payload any) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, name, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Filter forwards only the named notifications to Next.
type Filter struct {
	Names []string
	Next  Publisher
}

// Publish forwards the notification when its name is in f.Names.
func (f Filter) Publish(ctx context.Context, name string, payload any) error {
	for _, n := range f.Names {
		if n == name {
			return f.Next.Publish(ctx, name, payload)
		}
	}
	return nil
}

// SkillChange is the payload for SkillLearned and SkillLeveledUp.
type SkillChange struct {
	CharacterID string `json:"character_id"`
	SkillID     string `json:"skill_id"`
	Level       int    `json:"level"`
}

// LevelChange is the payload for CharacterLeveledUp.
type LevelChange struct {
	CharacterID string `json:"character_id"`
	Level       int    `json:"level"`
}

// EquipmentChange is the payload for EquipmentEquipped and EquipmentUnequipped.
type EquipmentChange struct {
	CharacterID string `json:"character_id"`
	EquipmentID string `json:"equipment_id"`
	Slot        string `json:"slot"`
}

// BattleStart is the payload for BattleStarted.
type BattleStart struct {
	BattleID       string    `json:"battle_id"`
	Type           string    `json:"type"`
	ArenaID        string    `json:"arena_id"`
	WeatherID      string    `json:"weather_id"`
	ParticipantIDs []string  `json:"participant_ids"`
	StartedAt      time.Time `json:"started_at"`
}

// ParticipantSummary is one participant's final tally in a BattleEnd.
type ParticipantSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	TurnOrder      int    `json:"turn_order"`
	Health         int    `json:"health"`
	MaxHealth      int    `json:"max_health"`
	DamageDealt    int    `json:"damage_dealt"`
	DamageReceived int    `json:"damage_received"`
	HealingDone    int    `json:"healing_done"`
	SkillsUsed     int    `json:"skills_used"`
	CriticalHits   int    `json:"critical_hits"`
	Kills          int    `json:"kills"`
	Deaths         int    `json:"deaths"`
}

// BattleEnd is the payload for BattleEnded.
type BattleEnd struct {
	BattleID     string               `json:"battle_id"`
	Type         string               `json:"type"`
	Status       string               `json:"status"`
	WinnerID     string               `json:"winner_id,omitempty"`
	Turns        int                  `json:"turns"`
	StartedAt    time.Time            `json:"started_at"`
	EndedAt      time.Time            `json:"ended_at"`
	Duration     time.Duration        `json:"duration"`
	RewardCount  int                  `json:"reward_count"`
	Participants []ParticipantSummary `json:"participants"`
}
