// Package inventory defines equipment instances, the nine equipment slots,
// and the equipment template registry.
package inventory

import "github.com/cory-johannsen/battlecore/internal/game/ruleset"

// Slot identifies one of the nine fixed equipment slots.
type Slot string

const (
	SlotWeapon   Slot = "weapon"
	SlotOffhand  Slot = "offhand"
	SlotHead     Slot = "head"
	SlotChest    Slot = "chest"
	SlotHands    Slot = "hands"
	SlotLegs     Slot = "legs"
	SlotFeet     Slot = "feet"
	SlotNecklace Slot = "necklace"
	SlotRing     Slot = "ring"
)

// allSlots lists every slot in display order.
var allSlots = []Slot{
	SlotWeapon, SlotOffhand, SlotHead, SlotChest, SlotHands,
	SlotLegs, SlotFeet, SlotNecklace, SlotRing,
}

// slotDisplayNames maps every slot to its human-readable label.
var slotDisplayNames = map[Slot]string{
	SlotWeapon:   "Weapon",
	SlotOffhand:  "Off Hand",
	SlotHead:     "Head",
	SlotChest:    "Chest",
	SlotHands:    "Hands",
	SlotLegs:     "Legs",
	SlotFeet:     "Feet",
	SlotNecklace: "Necklace",
	SlotRing:     "Ring",
}

// Slots returns the nine slots in display order.
func Slots() []Slot {
	out := make([]Slot, len(allSlots))
	copy(out, allSlots)
	return out
}

// Valid reports whether s is one of the nine slots.
func (s Slot) Valid() bool {
	_, ok := slotDisplayNames[s]
	return ok
}

// DisplayName returns the human-readable label for s, or s itself if unknown.
func (s Slot) DisplayName() string {
	if label, ok := slotDisplayNames[s]; ok {
		return label
	}
	return string(s)
}

// Rarity grades equipment.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Effect is a conditional effect carried by an equipment item, such as a
// chance to apply a status on hit.
type Effect struct {
	Trigger string  `yaml:"trigger"`
	Type    string  `yaml:"type"`
	Value   int     `yaml:"value"`
	Chance  float64 `yaml:"chance"`
}

// Equipment is one equipment instance.
//
// Invariant: Equipped is true iff OwnerID is non-empty.
type Equipment struct {
	ID            string
	TemplateID    string
	Name          string
	Slot          Slot
	Rarity        Rarity
	Level         int
	Stats         ruleset.Stats // deltas applied to the wearer
	Effects       []Effect
	Requirements  []ruleset.Requirement
	Durability    int
	MaxDurability int
	Equipped      bool
	OwnerID       string
}

// Clone returns a deep copy of e.
func (e *Equipment) Clone() *Equipment {
	cp := *e
	cp.Effects = append([]Effect(nil), e.Effects...)
	cp.Requirements = append([]ruleset.Requirement(nil), e.Requirements...)
	return &cp
}

// Set maps each occupied slot to the equipment held there.
// A missing key means the slot is empty.
type Set map[Slot]*Equipment

// TotalDelta sums the stat deltas of every equipped item.
//
// Postcondition: the result is independent of map iteration order.
func (s Set) TotalDelta() ruleset.Stats {
	var total ruleset.Stats
	for _, slot := range allSlots {
		if e := s[slot]; e != nil {
			total = total.Add(e.Stats)
		}
	}
	return total
}

// IDs returns slot -> equipment ID for every occupied slot.
func (s Set) IDs() map[Slot]string {
	out := make(map[Slot]string, len(s))
	for slot, e := range s {
		if e != nil {
			out[slot] = e.ID
		}
	}
	return out
}

// Clone returns a deep copy of s.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for slot, e := range s {
		if e != nil {
			out[slot] = e.Clone()
		}
	}
	return out
}
