package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers all engine.* Lua tables into L:
//
//	engine.log.debug/info/warn/error(msg)
//	engine.dice.roll(expr) -> total
//	engine.message(msg)
//	engine.quest_done(race) -> bool
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetGlobal("engine", engine)

	logTbl := L.NewTable()
	for name, fn := range map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	} {
		L.SetField(logTbl, name, L.NewFunction(func(L *lua.LState) int {
			fn(L.CheckString(1), zap.String("source", "lua"))
			return 0
		}))
	}
	L.SetField(engine, "log", logTbl)

	diceTbl := L.NewTable()
	L.SetField(diceTbl, "roll", L.NewFunction(m.luaRoll))
	L.SetField(engine, "dice", diceTbl)

	L.SetField(engine, "message", L.NewFunction(func(L *lua.LState) int {
		msg := L.CheckString(1)
		if m.Say != nil {
			m.Say(msg)
		}
		return 0
	}))

	L.SetField(engine, "quest_done", L.NewFunction(func(L *lua.LState) int {
		race := L.CheckString(1)
		done := m.QuestDone != nil && m.QuestDone(race)
		L.Push(lua.LBool(done))
		return 1
	}))
}

// luaRoll rolls a dice expression; a malformed expression raises a Lua error.
func (m *Manager) luaRoll(L *lua.LState) int {
	expr := L.CheckString(1)
	res, err := m.roller.RollExpr(expr)
	if err != nil {
		L.RaiseError("engine.dice.roll: %s", err.Error())
		return 0
	}
	L.Push(lua.LNumber(res.Total()))
	return 1
}
