package skill

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Registry holds skill templates indexed by ID.
// It is populated at startup and read-only afterwards.
type Registry struct {
	skills map[string]*Skill
}

// NewRegistry returns a Registry holding only the basic attack template.
func NewRegistry() *Registry {
	r := &Registry{skills: make(map[string]*Skill)}
	r.skills[BasicAttackID] = BasicAttack()
	return r
}

// Register adds s to the registry.
//
// Precondition: s must not be nil.
// Postcondition: Get(s.ID) returns s; returns an error if s is invalid or the ID is taken.
func (r *Registry) Register(s *Skill) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("skill: Registry.Register %q: %w", s.ID, err)
	}
	if _, exists := r.skills[s.ID]; exists {
		return fmt.Errorf("skill: Registry.Register: skill ID %q already registered", s.ID)
	}
	r.skills[s.ID] = s
	return nil
}

// Get returns the template for id.
//
// Postcondition: ok is true iff the id is registered.
func (r *Registry) Get(id string) (*Skill, bool) {
	s, ok := r.skills[id]
	return s, ok
}

// All returns every template sorted by ID.
func (r *Registry) All() []*Skill {
	out := make([]*Skill, 0, len(r.skills))
	for _, s := range r.skills {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadDirectory parses every *.yaml file in dir as a skill template and
// registers it into a new Registry.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a populated Registry or the first load error.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading skill dir %q: %w", dir, err)
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
		s := &Skill{Level: 1}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(s); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := reg.Register(s); err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
	}
	return reg, nil
}
