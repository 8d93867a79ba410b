// Package condition implements status effects: their static definitions,
// the stacking policy, and the per-participant active set.
package condition

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Stat names a combat stat a status effect's magnitude modifies.
type Stat string

const (
	StatNone    Stat = ""
	StatAttack  Stat = "attack"
	StatDefense Stat = "defense"
)

// StackKind is the tag of a Stacking variant.
type StackKind int

const (
	// StackUnique allows at most one instance; re-application refreshes it.
	StackUnique StackKind = iota
	// StackStackable allows up to MaxStacks independent instances.
	StackStackable
)

// Stacking is the tagged variant {Unique, Stackable(maxStacks)}.
// Construct it with Unique or Stackable.
type Stacking struct {
	Kind      StackKind
	MaxStacks int
}

// Unique returns the single-instance stacking policy.
func Unique() Stacking { return Stacking{Kind: StackUnique, MaxStacks: 1} }

// Stackable returns a policy allowing up to maxStacks instances.
//
// Precondition: maxStacks >= 1; smaller values are treated as 1.
func Stackable(maxStacks int) Stacking {
	if maxStacks < 1 {
		maxStacks = 1
	}
	return Stacking{Kind: StackStackable, MaxStacks: maxStacks}
}

// Limit returns the maximum number of simultaneous instances.
func (s Stacking) Limit() int {
	if s.Kind == StackUnique {
		return 1
	}
	return s.MaxStacks
}

// Def is the static definition of a status effect, loaded from YAML.
type Def struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Positive    bool   `yaml:"positive"`
	CanStack    bool   `yaml:"can_stack"`
	MaxStacks   int    `yaml:"max_stacks"`
	// Modifies names the stat the effect magnitude is applied to, if any.
	Modifies Stat `yaml:"modifies"`
}

// Stacking returns the stacking policy declared by d.
func (d *Def) Stacking() Stacking {
	if !d.CanStack {
		return Unique()
	}
	return Stackable(d.MaxStacks)
}

// Validate checks d's invariants.
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
	if d.CanStack && d.MaxStacks < 2 {
		errs = append(errs, fmt.Errorf("stackable effect needs max_stacks >= 2, got %d", d.MaxStacks))
	}
	switch d.Modifies {
	case StatNone, StatAttack, StatDefense:
	default:
		errs = append(errs, fmt.Errorf("modifies must be one of attack, defense or empty; got %q", d.Modifies))
	}
	return errors.Join(errs...)
}

// Registry holds all known Defs keyed by ID.
type Registry struct {
	defs map[string]*Def
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Def)}
}

// Register adds def to the registry, overwriting any existing entry with the same ID.
// Precondition: def must not be nil and def.ID must not be empty.
func (r *Registry) Register(def *Def) {
	r.defs[def.ID] = def
}

// Get returns the Def for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Def, bool) {
	if r == nil {
		return nil, false
	}
	d, ok := r.defs[id]
	return d, ok
}

// All returns every registered Def sorted by ID.
func (r *Registry) All() []*Def {
	out := make([]*Def, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses and validates each as a
// Def, and returns a populated Registry.
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to parse.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading condition dir %q: %w", dir, err)
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
		var def Def
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("validating %q: %w", path, err)
		}
		reg.Register(&def)
	}
	return reg, nil
}
