package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/battlecore/internal/game/dice"
)

// RegisterModules registers the engine table into L:
//
//	engine.chance(percent) -> bool   draws from the Manager's dice source
//	engine.log(msg)                  logs msg at Debug
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetField(engine, "chance", L.NewFunction(func(L *lua.LState) int {
		percent := float64(L.CheckNumber(1))
		L.Push(lua.LBool(dice.Chance(m.src, percent)))
		return 1
	}))
	L.SetField(engine, "log", L.NewFunction(func(L *lua.LState) int {
		m.logger.Debug("lua", zap.String("msg", L.CheckString(1)))
		return 0
	}))
	L.SetGlobal("engine", engine)
}
