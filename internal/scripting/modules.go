package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RegisterModules registers all engine.* Lua functions into L.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L with roll, participant,
// broadcast, and the engine.log table.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetGlobal("engine", engine)

	L.SetField(engine, "roll", L.NewFunction(m.luaRoll))
	L.SetField(engine, "participant", L.NewFunction(m.luaParticipant))
	L.SetField(engine, "broadcast", L.NewFunction(m.luaBroadcast))

	log := L.NewTable()
	L.SetField(engine, "log", log)
	L.SetField(log, "debug", m.luaLog(L, zap.DebugLevel))
	L.SetField(log, "info", m.luaLog(L, zap.InfoLevel))
	L.SetField(log, "warn", m.luaLog(L, zap.WarnLevel))
	L.SetField(log, "error", m.luaLog(L, zap.ErrorLevel))
}

// luaRoll implements engine.roll(sides) -> number in [1, sides].
func (m *Manager) luaRoll(L *lua.LState) int {
	sides := L.CheckInt(1)
	if sides < 1 {
		L.ArgError(1, "sides must be positive")
		return 0
	}
	L.Push(lua.LNumber(m.src.Intn(sides) + 1))
	return 1
}

// luaParticipant implements engine.participant(uid) -> table|nil with fields
// uid, name, hp, max_hp. Returns nil when the uid is unknown or no
// GetParticipant callback is wired.
func (m *Manager) luaParticipant(L *lua.LState) int {
	uid := L.CheckString(1)
	if m.GetParticipant == nil {
		L.Push(lua.LNil)
		return 1
	}
	p := m.GetParticipant(uid)
	if p == nil {
		L.Push(lua.LNil)
		return 1
	}
	t := L.NewTable()
	L.SetField(t, "uid", lua.LString(p.UID))
	L.SetField(t, "name", lua.LString(p.Name))
	L.SetField(t, "hp", lua.LNumber(p.HP))
	L.SetField(t, "max_hp", lua.LNumber(p.MaxHP))
	L.Push(t)
	return 1
}

// luaBroadcast implements engine.broadcast(msg). No-op without a Broadcast
// callback.
func (m *Manager) luaBroadcast(L *lua.LState) int {
	msg := L.CheckString(1)
	if m.Broadcast != nil {
		m.Broadcast(msg)
	}
	return 0
}

// luaLog builds an engine.log.<level>(msg) function writing through the
// Manager's zap logger.
func (m *Manager) luaLog(L *lua.LState, level zapcore.Level) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		msg := L.CheckString(1)
		if ce := m.logger.Check(level, msg); ce != nil {
			ce.Write(zap.String("source", "lua"))
		}
		return 0
	})
}
