package character

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/battlecore/internal/events"
	"github.com/cory-johannsen/battlecore/internal/game/dice"
	"github.com/cory-johannsen/battlecore/internal/game/inventory"
	"github.com/cory-johannsen/battlecore/internal/game/ruleset"
	"github.com/cory-johannsen/battlecore/internal/game/skill"
)

var (
	// ErrNotFound is returned when a character, equipment or skill ID does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrInvalidOperation is returned when an operation is refused, such as
	// unmet requirements or insufficient skill experience.
	ErrInvalidOperation = errors.New("invalid operation")
)

// Store owns every character and equipment instance in memory.
// All methods are safe for concurrent use. Getters return deep copies.
type Store struct {
	mu         sync.RWMutex
	characters map[string]*Character           // id → character
	equipment  map[string]*inventory.Equipment // id → instance

	skills    *skill.Registry
	templates *inventory.Registry
	src       dice.Source
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewStore creates an empty Store.
//
// Precondition: skills, src, publisher and logger must not be nil.
// templates may be nil, in which case CreateEquipment always fails.
func NewStore(skills *skill.Registry, templates *inventory.Registry, src dice.Source, publisher events.Publisher, logger *zap.Logger) *Store {
	if templates == nil {
		templates = inventory.NewRegistry()
	}
	return &Store{
		characters: make(map[string]*Character),
		equipment:  make(map[string]*inventory.Equipment),
		skills:     skills,
		templates:  templates,
		src:        src,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

// SetClock replaces the store's time source.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Create builds and stores a new character of the given class.
//
// Postcondition: Returns a snapshot of the stored character, or ErrInvalidOperation
// if the name is empty or the class is unknown.
func (s *Store) Create(ownerID, name string, class ruleset.Class) (*Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := Build(ownerID, name, class, s.src, s.now())
	if err != nil {
		return nil, fmt.Errorf("creating character: %w: %w", ErrInvalidOperation, err)
	}
	s.characters[c.ID] = c
	s.logger.Info("character created",
		zap.String("character_id", c.ID),
		zap.String("owner_id", ownerID),
		zap.String("class", string(class)),
	)
	return c.Clone(), nil
}

// Get returns a snapshot of the character with the given ID.
func (s *Store) Get(id string) (*Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.characters[id]
	if !ok {
		return nil, fmt.Errorf("character %q: %w", id, ErrNotFound)
	}
	return c.Clone(), nil
}

// ListByOwner returns snapshots of every character owned by ownerID,
// oldest first.
func (s *Store) ListByOwner(ownerID string) []*Character {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Character
	for _, c := range s.characters {
		if c.OwnerID == ownerID {
			out = append(out, c.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// UpdateStats replaces the character's base stats. Equipped deltas keep
// applying on top of the new base.
func (s *Store) UpdateStats(id string, base ruleset.Stats) (*Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.characters[id]
	if !ok {
		return nil, fmt.Errorf("character %q: %w", id, ErrNotFound)
	}
	c.BaseStats = base
	c.UpdatedAt = s.now()
	return c.Clone(), nil
}

// AddEquipment registers an existing equipment instance. An empty ID is
// replaced with a fresh UUID.
//
// Postcondition: Returns the stored instance's snapshot, or ErrInvalidOperation
// if the ID is taken, the slot is unknown, or the instance claims to be equipped.
func (s *Store) AddEquipment(e *inventory.Equipment) (*inventory.Equipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if _, exists := s.equipment[e.ID]; exists {
		return nil, fmt.Errorf("equipment %q already registered: %w", e.ID, ErrInvalidOperation)
	}
	if !e.Slot.Valid() {
		return nil, fmt.Errorf("equipment %q slot %q: %w", e.ID, e.Slot, ErrInvalidOperation)
	}
	if e.Equipped || e.OwnerID != "" {
		return nil, fmt.Errorf("equipment %q is already equipped: %w", e.ID, ErrInvalidOperation)
	}
	stored := e.Clone()
	s.equipment[stored.ID] = stored
	return stored.Clone(), nil
}

// CreateEquipment instantiates a new equipment instance from a template.
func (s *Store) CreateEquipment(templateID string) (*inventory.Equipment, error) {
	def, ok := s.templates.Def(templateID)
	if !ok {
		return nil, fmt.Errorf("equipment template %q: %w", templateID, ErrNotFound)
	}
	return s.AddEquipment(def.NewInstance())
}

// GetEquipment returns a snapshot of the equipment instance with the given ID.
func (s *Store) GetEquipment(id string) (*inventory.Equipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.equipment[id]
	if !ok {
		return nil, fmt.Errorf("equipment %q: %w", id, ErrNotFound)
	}
	return e.Clone(), nil
}

// Equip places an equipment instance in one of the character's slots,
// displacing whatever the slot held.
//
// Precondition: slot must be the item's own slot type.
// Postcondition: On success the item is marked equipped and owned by the
// character, any displaced item is marked unequipped, and Stats reflects the
// new item's deltas. On error nothing changes.
func (s *Store) Equip(ctx context.Context, characterID, equipmentID string, slot inventory.Slot) (*Character, error) {
	s.mu.Lock()

	c, ok := s.characters[characterID]
	if !ok {
		s.mu.Unlock()
		return nil, s.reject("equip", fmt.Errorf("character %q: %w", characterID, ErrNotFound))
	}
	e, ok := s.equipment[equipmentID]
	if !ok {
		s.mu.Unlock()
		return nil, s.reject("equip", fmt.Errorf("equipment %q: %w", equipmentID, ErrNotFound))
	}
	if !slot.Valid() || e.Slot != slot {
		s.mu.Unlock()
		return nil, s.reject("equip", fmt.Errorf("equipment %q fits %s, not %q: %w", equipmentID, e.Slot, slot, ErrInvalidOperation))
	}
	if e.Equipped && e.OwnerID != characterID {
		s.mu.Unlock()
		return nil, s.reject("equip", fmt.Errorf("equipment %q is held by another character: %w", equipmentID, ErrInvalidOperation))
	}
	if err := ruleset.CheckAll(e.Requirements, c.Subject()); err != nil {
		s.mu.Unlock()
		return nil, s.reject("equip", fmt.Errorf("equipment %q: %w: %w", equipmentID, ErrInvalidOperation, err))
	}
	if c.Equipment[slot] == e {
		snapshot := c.Clone()
		s.mu.Unlock()
		return snapshot, nil
	}

	var displaced *inventory.Equipment
	if old := c.Equipment[slot]; old != nil {
		old.Equipped = false
		old.OwnerID = ""
		displaced = old
	}
	e.Equipped = true
	e.OwnerID = characterID
	c.Equipment[slot] = e
	c.UpdatedAt = s.now()
	snapshot := c.Clone()
	s.mu.Unlock()

	if displaced != nil {
		s.publish(ctx, events.EquipmentUnequipped, events.EquipmentChange{
			CharacterID: characterID, EquipmentID: displaced.ID, Slot: string(slot),
		})
	}
	s.publish(ctx, events.EquipmentEquipped, events.EquipmentChange{
		CharacterID: characterID, EquipmentID: equipmentID, Slot: string(slot),
	})
	return snapshot, nil
}

// Unequip clears a slot. It is a no-op when the slot is already empty.
//
// Postcondition: the removed item is marked unequipped with no owner.
func (s *Store) Unequip(ctx context.Context, characterID string, slot inventory.Slot) (*Character, error) {
	s.mu.Lock()

	c, ok := s.characters[characterID]
	if !ok {
		s.mu.Unlock()
		return nil, s.reject("unequip", fmt.Errorf("character %q: %w", characterID, ErrNotFound))
	}
	if !slot.Valid() {
		s.mu.Unlock()
		return nil, s.reject("unequip", fmt.Errorf("slot %q: %w", slot, ErrInvalidOperation))
	}
	e := c.Equipment[slot]
	if e == nil {
		snapshot := c.Clone()
		s.mu.Unlock()
		return snapshot, nil
	}
	delete(c.Equipment, slot)
	e.Equipped = false
	e.OwnerID = ""
	c.UpdatedAt = s.now()
	snapshot := c.Clone()
	s.mu.Unlock()

	s.publish(ctx, events.EquipmentUnequipped, events.EquipmentChange{
		CharacterID: characterID, EquipmentID: e.ID, Slot: string(slot),
	})
	return snapshot, nil
}

// LearnSkill copies a skill template into the character's skill list.
// Learning an already-known skill returns the character unchanged.
func (s *Store) LearnSkill(ctx context.Context, characterID, skillID string) (*Character, error) {
	s.mu.Lock()

	c, ok := s.characters[characterID]
	if !ok {
		s.mu.Unlock()
		return nil, s.reject("learn skill", fmt.Errorf("character %q: %w", characterID, ErrNotFound))
	}
	tmpl, ok := s.skills.Get(skillID)
	if !ok {
		s.mu.Unlock()
		return nil, s.reject("learn skill", fmt.Errorf("skill %q: %w", skillID, ErrNotFound))
	}
	if _, known := c.Skill(skillID); known {
		snapshot := c.Clone()
		s.mu.Unlock()
		return snapshot, nil
	}
	if err := ruleset.CheckAll(tmpl.Requirements, c.Subject()); err != nil {
		s.mu.Unlock()
		return nil, s.reject("learn skill", fmt.Errorf("skill %q: %w: %w", skillID, ErrInvalidOperation, err))
	}
	learned := tmpl.Instantiate()
	c.Skills = append(c.Skills, learned)
	c.UpdatedAt = s.now()
	snapshot := c.Clone()
	s.mu.Unlock()

	s.publish(ctx, events.SkillLearned, events.SkillChange{
		CharacterID: characterID, SkillID: skillID, Level: learned.Level,
	})
	return snapshot, nil
}

// GainSkillExperience adds experience to one of the character's learned skills.
//
// Precondition: amount >= 0.
func (s *Store) GainSkillExperience(characterID, skillID string, amount int) (*Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount < 0 {
		return nil, fmt.Errorf("negative skill experience %d: %w", amount, ErrInvalidOperation)
	}
	c, ok := s.characters[characterID]
	if !ok {
		return nil, fmt.Errorf("character %q: %w", characterID, ErrNotFound)
	}
	sk, ok := c.Skill(skillID)
	if !ok {
		return nil, fmt.Errorf("character %q has not learned %q: %w", characterID, skillID, ErrNotFound)
	}
	sk.GainExperience(amount)
	c.UpdatedAt = s.now()
	return c.Clone(), nil
}

// GainExperience adds character experience, advancing Level while the
// accumulated experience covers ExperienceToNext. Surplus carries over.
//
// Precondition: amount >= 0.
// Postcondition: Level <= MaxLevel; at MaxLevel experience stops accruing.
// One CharacterLeveledUp notification is published per level gained.
func (s *Store) GainExperience(ctx context.Context, characterID string, amount int) (*Character, error) {
	if amount < 0 {
		return nil, s.reject("gain experience", fmt.Errorf("negative experience %d: %w", amount, ErrInvalidOperation))
	}
	s.mu.Lock()
	c, ok := s.characters[characterID]
	if !ok {
		s.mu.Unlock()
		return nil, s.reject("gain experience", fmt.Errorf("character %q: %w", characterID, ErrNotFound))
	}
	from := c.Level
	if c.Level < MaxLevel {
		c.Experience += amount
	}
	for c.Level < MaxLevel && c.Experience >= ExperienceToNext(c.Level) {
		c.Experience -= ExperienceToNext(c.Level)
		c.Level++
	}
	if c.Level >= MaxLevel {
		c.Experience = 0
	}
	to := c.Level
	c.UpdatedAt = s.now()
	snapshot := c.Clone()
	s.mu.Unlock()

	for level := from + 1; level <= to; level++ {
		s.publish(ctx, events.CharacterLeveledUp, events.LevelChange{CharacterID: characterID, Level: level})
	}
	return snapshot, nil
}

// LevelUpSkill advances one of the character's learned skills by one level.
//
// Postcondition: On success the skill's level is incremented and its
// experience reset. Fails with ErrNotFound if the skill is not learned, or
// ErrInvalidOperation if it is at max level or lacks experience.
func (s *Store) LevelUpSkill(ctx context.Context, characterID, skillID string) (*Character, error) {
	s.mu.Lock()

	c, ok := s.characters[characterID]
	if !ok {
		s.mu.Unlock()
		return nil, s.reject("level up skill", fmt.Errorf("character %q: %w", characterID, ErrNotFound))
	}
	sk, ok := c.Skill(skillID)
	if !ok {
		s.mu.Unlock()
		return nil, s.reject("level up skill", fmt.Errorf("character %q has not learned %q: %w", characterID, skillID, ErrNotFound))
	}
	if err := sk.LevelUp(); err != nil {
		s.mu.Unlock()
		return nil, s.reject("level up skill", fmt.Errorf("%w: %w", ErrInvalidOperation, err))
	}
	level := sk.Level
	c.UpdatedAt = s.now()
	snapshot := c.Clone()
	s.mu.Unlock()

	s.publish(ctx, events.SkillLeveledUp, events.SkillChange{
		CharacterID: characterID, SkillID: skillID, Level: level,
	})
	return snapshot, nil
}

// reject logs a refused operation at Debug and returns err unchanged.
func (s *Store) reject(op string, err error) error {
	s.logger.Debug("character operation rejected", zap.String("op", op), zap.Error(err))
	return err
}

// publish announces a notification. Failures are logged, never returned.
func (s *Store) publish(ctx context.Context, name string, payload any) {
	if err := s.publisher.Publish(ctx, name, payload); err != nil {
		s.logger.Warn("publishing event", zap.String("event", name), zap.Error(err))
	}
}
