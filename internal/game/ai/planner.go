package ai

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// ScriptCaller is the interface required by the Planner to evaluate Lua preconditions.
// scripting.Manager satisfies it.
type ScriptCaller interface {
	// CallHook calls a named Lua function. Returns (LNil, nil) if the function is not defined.
	CallHook(hook string, args ...lua.LValue) (lua.LValue, error)
}

// PlannedAction is one skill use produced by the planner.
type PlannedAction struct {
	SkillID  string
	TargetID string // empty for untargeted skills
}

// Planner evaluates an HTN domain for one actor and produces an ordered plan.
//
// Invariant: domain and caller must not be nil.
type Planner struct {
	domain *Domain
	caller ScriptCaller
}

// NewPlanner constructs a Planner.
//
// Precondition: domain and caller must not be nil.
func NewPlanner(domain *Domain, caller ScriptCaller) *Planner {
	if domain == nil {
		panic("ai.NewPlanner: domain must not be nil")
	}
	if caller == nil {
		panic("ai.NewPlanner: caller must not be nil")
	}
	return &Planner{domain: domain, caller: caller}
}

// Domain returns the domain p plans with.
func (p *Planner) Domain() *Domain { return p.domain }

// Plan evaluates the HTN domain against state and returns an ordered plan.
//
// Operators whose skill the actor does not know, or whose target selector
// resolves to nobody, are dropped.
//
// Precondition: state and state.Actor must not be nil.
// Postcondition: returns non-nil slice (may be empty); never returns error for Lua failures
// (they are treated as precondition-false).
func (p *Planner) Plan(state *WorldState) ([]PlannedAction, error) {
	if state == nil || state.Actor == nil {
		return nil, fmt.Errorf("ai.Planner.Plan: state and state.Actor must not be nil")
	}

	taskQueue := []string{RootTask}
	result := []PlannedAction{}

	const maxDepth = 32
	steps := 0

	for len(taskQueue) > 0 && steps < maxDepth {
		steps++
		current := taskQueue[0]
		taskQueue = taskQueue[1:]

		if op, ok := p.domain.OperatorByID(current); ok {
			skillID, known := state.ResolveSkill(op)
			if !known {
				continue
			}
			target := state.ResolveTarget(op.Target)
			if op.Target != "" && target == "" {
				continue
			}
			result = append(result, PlannedAction{SkillID: skillID, TargetID: target})
			continue
		}

		method := p.findApplicableMethod(current, state)
		if method == nil {
			continue
		}
		taskQueue = append(append([]string(nil), method.Subtasks...), taskQueue...)
	}
	return result, nil
}

// findApplicableMethod returns the first Method for taskID whose precondition passes,
// or nil if none applies.
//
// Hooks receive the actor's ID, its health percentage and the number of
// living enemies. An empty Precondition always passes.
func (p *Planner) findApplicableMethod(taskID string, state *WorldState) *Method {
	for _, m := range p.domain.MethodsForTask(taskID) {
		if m.Precondition == "" {
			return m
		}
		val, _ := p.caller.CallHook(m.Precondition,
			lua.LString(state.Actor.ID),
			lua.LNumber(state.Actor.HealthPercent()),
			lua.LNumber(len(state.Enemies())),
		)
		if val == lua.LTrue {
			return m
		}
	}
	return nil
}
