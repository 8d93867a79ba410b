package condition

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Policy selects whether stacking declarations are enforced on application.
type Policy int

const (
	// PolicyEnforced applies the Unique/Stackable rules.
	PolicyEnforced Policy = iota
	// PolicyUnbounded appends every application as a new instance.
	PolicyUnbounded
)

// ParsePolicy resolves "enforced" or "unbounded".
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "enforced":
		return PolicyEnforced, nil
	case "unbounded":
		return PolicyUnbounded, nil
	default:
		return PolicyEnforced, fmt.Errorf("unknown stacking policy %q", name)
	}
}

// Effect is one status effect instance attached to a participant.
type Effect struct {
	ID             string
	Type           string
	Name           string
	Magnitude      int
	Duration       int
	RemainingTurns int // -1 = permanent
	Positive       bool
	Stacking       Stacking
	Modifies       Stat
	SourceSkillID  string
}

// NewEffect instantiates an effect of def. A nil def yields a unique effect
// named after typ with no stat modifier.
//
// Postcondition: RemainingTurns == duration; ID is a fresh UUID.
func NewEffect(def *Def, typ string, magnitude, duration int, sourceSkillID string) *Effect {
	e := &Effect{
		ID:             uuid.NewString(),
		Type:           typ,
		Name:           typ,
		Magnitude:      magnitude,
		Duration:       duration,
		RemainingTurns: duration,
		Stacking:       Unique(),
		SourceSkillID:  sourceSkillID,
	}
	if def != nil {
		e.Name = def.Name
		e.Positive = def.Positive
		e.Stacking = def.Stacking()
		e.Modifies = def.Modifies
	}
	return e
}

// Modifier returns the signed contribution of e to its modified stat.
func (e *Effect) Modifier() int {
	if e.Positive {
		return e.Magnitude
	}
	return -e.Magnitude
}

// Set tracks the status effects currently attached to one participant, in
// application order.
// It is not safe for concurrent use; the caller must serialise access.
type Set struct {
	effects []*Effect
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{}
}

// Apply attaches e under policy.
//
// Under PolicyEnforced, when the number of instances of e.Type has reached
// e.Stacking.Limit(), no instance is added; instead the instance with the
// fewest remaining turns takes the larger of the two remaining-turn counts
// and magnitudes.
//
// Postcondition: Count(e.Type) <= e.Stacking.Limit() under PolicyEnforced.
// Returns true iff a new instance was appended.
func (s *Set) Apply(e *Effect, policy Policy) bool {
	if policy == PolicyUnbounded {
		s.effects = append(s.effects, e)
		return true
	}
	var weakest *Effect
	n := 0
	for _, cur := range s.effects {
		if cur.Type != e.Type {
			continue
		}
		n++
		if weakest == nil || lifetime(cur) < lifetime(weakest) {
			weakest = cur
		}
	}
	if n < e.Stacking.Limit() {
		s.effects = append(s.effects, e)
		return true
	}
	if lifetime(e) > lifetime(weakest) {
		weakest.RemainingTurns = e.RemainingTurns
	}
	if e.Magnitude > weakest.Magnitude {
		weakest.Magnitude = e.Magnitude
	}
	return false
}

// lifetime orders effects by remaining turns, permanent effects last.
func lifetime(e *Effect) int {
	if e.RemainingTurns < 0 {
		return math.MaxInt
	}
	return e.RemainingTurns
}

// Tick decrements the remaining turns of every timed effect by one and
// removes those that reach zero. Permanent effects (RemainingTurns < 0) are
// not affected.
//
// Postcondition: No returned effect remains in the set.
func (s *Set) Tick() []*Effect {
	var expired []*Effect
	kept := s.effects[:0]
	for _, e := range s.effects {
		if e.RemainingTurns >= 0 {
			e.RemainingTurns--
			if e.RemainingTurns <= 0 {
				expired = append(expired, e)
				continue
			}
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(s.effects); i++ {
		s.effects[i] = nil
	}
	s.effects = kept
	return expired
}

// Remove deletes the instance with the given effect ID. No-op when absent.
func (s *Set) Remove(id string) {
	for i, e := range s.effects {
		if e.ID == id {
			s.effects = append(s.effects[:i], s.effects[i+1:]...)
			return
		}
	}
}

// Count returns the number of instances of typ.
func (s *Set) Count(typ string) int {
	n := 0
	for _, e := range s.effects {
		if e.Type == typ {
			n++
		}
	}
	return n
}

// Len returns the total number of instances.
func (s *Set) Len() int { return len(s.effects) }

// All returns a copy of the effect slice. The pointed-to effects are shared.
func (s *Set) All() []*Effect {
	out := make([]*Effect, len(s.effects))
	copy(out, s.effects)
	return out
}

// Clone returns a deep copy of s.
func (s *Set) Clone() *Set {
	out := &Set{effects: make([]*Effect, len(s.effects))}
	for i, e := range s.effects {
		cp := *e
		out.effects[i] = &cp
	}
	return out
}
