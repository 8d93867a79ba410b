package inventory

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/battlecore/internal/game/ruleset"
)

// Def is the static definition of an equipment item, loaded from YAML.
type Def struct {
	ID            string                `yaml:"id"`
	Name          string                `yaml:"name"`
	Slot          Slot                  `yaml:"slot"`
	Rarity        Rarity                `yaml:"rarity"`
	Level         int                   `yaml:"level"`
	Stats         ruleset.Stats         `yaml:"stats"`
	Effects       []Effect              `yaml:"effects"`
	Requirements  []ruleset.Requirement `yaml:"requirements"`
	MaxDurability int                   `yaml:"max_durability"`
}

// Validate checks that d satisfies its invariants.
//
// Postcondition: returns nil iff all fields are valid.
func (d *Def) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if !d.Slot.Valid() {
		errs = append(errs, fmt.Errorf("slot %q is not one of the nine equipment slots", d.Slot))
	}
	if d.MaxDurability < 1 {
		errs = append(errs, fmt.Errorf("max_durability must be >= 1, got %d", d.MaxDurability))
	}
	return errors.Join(errs...)
}

// NewInstance creates a fresh, unequipped, fully repaired instance of d.
//
// Postcondition: the instance has a new UUID and TemplateID == d.ID.
func (d *Def) NewInstance() *Equipment {
	rarity := d.Rarity
	if rarity == "" {
		rarity = RarityCommon
	}
	level := d.Level
	if level < 1 {
		level = 1
	}
	return &Equipment{
		ID:            uuid.NewString(),
		TemplateID:    d.ID,
		Name:          d.Name,
		Slot:          d.Slot,
		Rarity:        rarity,
		Level:         level,
		Stats:         d.Stats,
		Effects:       append([]Effect(nil), d.Effects...),
		Requirements:  append([]ruleset.Requirement(nil), d.Requirements...),
		Durability:    d.MaxDurability,
		MaxDurability: d.MaxDurability,
	}
}

// Registry holds equipment templates indexed by ID.
type Registry struct {
	defs map[string]*Def
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Def)}
}

// Register adds d to the registry.
//
// Precondition: d must not be nil.
// Postcondition: Def(d.ID) returns (d, true); returns error if d is invalid or already registered.
func (r *Registry) Register(d *Def) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("inventory: Registry.Register %q: %w", d.ID, err)
	}
	if _, exists := r.defs[d.ID]; exists {
		return fmt.Errorf("inventory: Registry.Register: equipment ID %q already registered", d.ID)
	}
	r.defs[d.ID] = d
	return nil
}

// Def returns the template for id and whether it was found.
func (r *Registry) Def(id string) (*Def, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns every template sorted by ID.
func (r *Registry) All() []*Def {
	out := make([]*Def, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadEquipment parses every *.yaml file in dir as an equipment template.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a populated Registry or the first load error.
func LoadEquipment(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading equipment dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var d Def
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&d); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := reg.Register(&d); err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
	}
	return reg, nil
}
