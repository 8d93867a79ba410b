package ai

import (
	"fmt"

	"github.com/cory-johannsen/battlecore/internal/game/ruleset"
)

// Registry indexes Planners by domain ID and class.
//
// Invariant: each domain ID is registered at most once.
type Registry struct {
	planners map[string]*Planner
	order    []string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{planners: make(map[string]*Planner)}
}

// Register creates and stores a Planner for domain.
//
// Precondition: domain and caller must not be nil.
// Postcondition: returns error on domain ID collision.
func (r *Registry) Register(domain *Domain, caller ScriptCaller) error {
	if _, exists := r.planners[domain.ID]; exists {
		return fmt.Errorf("ai.Registry: domain %q already registered", domain.ID)
	}
	r.planners[domain.ID] = NewPlanner(domain, caller)
	r.order = append(r.order, domain.ID)
	return nil
}

// PlannerFor returns the Planner for domainID, or false if not registered.
func (r *Registry) PlannerFor(domainID string) (*Planner, bool) {
	p, ok := r.planners[domainID]
	return p, ok
}

// PlannerForClass returns the first registered planner whose domain drives
// class c, falling back to the first domain that lists no classes.
func (r *Registry) PlannerForClass(c ruleset.Class) (*Planner, bool) {
	var fallback *Planner
	for _, id := range r.order {
		p := r.planners[id]
		if p.domain.Drives(c) {
			return p, true
		}
		if fallback == nil && len(p.domain.Classes) == 0 {
			fallback = p
		}
	}
	return fallback, fallback != nil
}

// Len returns the number of registered planners.
func (r *Registry) Len() int { return len(r.planners) }
