package scripting

import (
	"math"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers the arcbot.* Lua table into L:
//
//	arcbot.profile                   name of the profile the VM belongs to
//	arcbot.log.debug/info/warn(msg)  write msg to the Go logger
//	arcbot.distance(x1, y1, x2, y2)  Euclidean distance
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: arcbot global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState, profile string) {
	arcbot := L.NewTable()
	L.SetField(arcbot, "profile", lua.LString(profile))

	log := L.NewTable()
	levels := map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
	}
	for name, fn := range levels {
		fn := fn // per-iteration copy (pre-Go 1.22 loop variable semantics)
		L.SetField(log, name, L.NewFunction(func(L *lua.LState) int {
			fn(L.CheckString(1), zap.String("profile", profile), zap.String("source", "lua"))
			return 0
		}))
	}
	L.SetField(arcbot, "log", log)

	L.SetField(arcbot, "distance", L.NewFunction(func(L *lua.LState) int {
		dx := float64(L.CheckNumber(3) - L.CheckNumber(1))
		dy := float64(L.CheckNumber(4) - L.CheckNumber(2))
		L.Push(lua.LNumber(math.Hypot(dx, dy)))
		return 1
	}))

	L.SetGlobal("arcbot", arcbot)
}
