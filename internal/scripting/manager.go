package scripting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/battlecore/internal/game/dice"
)

// CombatantInfo is a snapshot of a participant passed to Lua hooks.
type CombatantInfo struct {
	ID        string
	Name      string
	Health    int
	MaxHealth int
	Attack    int
	Defense   int
	Effects   []string
}

// SkillCall describes one skill resolution passed to a skill hook.
// Target is nil when the skill has no target.
type SkillCall struct {
	SkillID    string
	SkillLevel int
	BaseDamage int
	Actor      CombatantInfo
	Target     *CombatantInfo
}

// Manager owns one sandboxed LState holding every loaded hook script.
//
// The LState is single-threaded; Manager serializes all calls into it.
type Manager struct {
	mu     sync.Mutex
	state  *lua.LState
	limit  int
	src    dice.Source
	logger *zap.Logger
}

// NewManager creates a Manager with no scripts loaded.
//
// Precondition: src and logger must be non-nil.
func NewManager(src dice.Source, logger *zap.Logger) *Manager {
	return &Manager{src: src, logger: logger}
}

// Load creates a sandboxed VM, registers the engine.* module, then executes
// every *.lua file in scriptDir in lexicographic order. A previously loaded
// VM is replaced only when loading succeeds.
//
// Precondition: scriptDir must be a readable directory; instLimit >= 0.
// Postcondition: returns error on read or Lua load failure.
func (m *Manager) Load(scriptDir string, instLimit int) error {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}
	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	L := NewSandboxedState()
	m.RegisterModules(L)
	for _, path := range luaFiles {
		release := WithBudget(L, instLimit)
		err := L.DoFile(path)
		release()
		if err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}

	m.mu.Lock()
	if m.state != nil {
		m.state.Close()
	}
	m.state = L
	m.limit = instLimit
	m.mu.Unlock()

	m.logger.Info("skill scripts loaded",
		zap.String("dir", scriptDir),
		zap.Int("files", len(luaFiles)),
	)
	return nil
}

// Close releases the VM. The Manager behaves as if no scripts were loaded afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != nil {
		m.state.Close()
		m.state = nil
	}
}

// CallHook calls the named Lua global function. Returns (LNil, nil) if no
// scripts are loaded or the hook is not defined. Lua runtime errors,
// including an exhausted instruction budget, are logged at Warn level and
// never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == nil {
		m.logger.Debug("scripting: no scripts loaded", zap.String("hook", hook))
		return lua.LNil, nil
	}
	return m.call(hook, args...), nil
}

// call runs hook in the loaded VM. m.mu must be held and m.state non-nil.
func (m *Manager) call(hook string, args ...lua.LValue) lua.LValue {
	L := m.state
	fn := L.GetGlobal(hook)
	if fn.Type() != lua.LTFunction {
		return lua.LNil
	}

	release := WithBudget(L, m.limit)
	defer release()
	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret
}

// SkillBonus calls hook(skill, actor, target) and returns its numeric result.
// A missing hook, a non-numeric or non-finite result, or a Lua error all
// yield 0.
func (m *Manager) SkillBonus(hook string, call SkillCall) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return 0
	}
	L := m.state

	skillTbl := L.NewTable()
	skillTbl.RawSetString("id", lua.LString(call.SkillID))
	skillTbl.RawSetString("level", lua.LNumber(call.SkillLevel))
	skillTbl.RawSetString("base_damage", lua.LNumber(call.BaseDamage))

	var target lua.LValue = lua.LNil
	if call.Target != nil {
		target = combatantTable(L, *call.Target)
	}

	n, ok := m.call(hook, skillTbl, combatantTable(L, call.Actor), target).(lua.LNumber)
	if !ok {
		return 0
	}
	v := float64(n)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		m.logger.Warn("scripting: non-finite skill bonus ignored", zap.String("hook", hook))
		return 0
	}
	return v
}

func combatantTable(L *lua.LState, c CombatantInfo) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("id", lua.LString(c.ID))
	t.RawSetString("name", lua.LString(c.Name))
	t.RawSetString("health", lua.LNumber(c.Health))
	t.RawSetString("max_health", lua.LNumber(c.MaxHealth))
	t.RawSetString("attack", lua.LNumber(c.Attack))
	t.RawSetString("defense", lua.LNumber(c.Defense))
	effects := L.NewTable()
	for _, e := range c.Effects {
		effects.Append(lua.LString(e))
	}
	t.RawSetString("effects", effects)
	return t
}
