package scripting

import (
	"github.com/google/uuid"
	lua "github.com/yuin/gopher-lua"
)

// Lua hook function names dispatched over the encounter lifecycle. A script
// defines whichever subset it cares about; absence is not an error.
const (
	hookCombatStart = "on_combat_start"
	hookTurnStart   = "on_turn_start"
	hookCombatEnd   = "on_combat_end"
)

// CombatHooks adapts the Manager to the combat package's lifecycle hook
// contract. Errors inside scripts are swallowed by CallHook; combat flow
// never depends on script health.
type CombatHooks struct {
	mgr *Manager
}

// NewCombatHooks wraps mgr for lifecycle dispatch.
//
// Precondition: mgr must not be nil.
func NewCombatHooks(mgr *Manager) *CombatHooks {
	return &CombatHooks{mgr: mgr}
}

// OnCombatStart dispatches on_combat_start(world_id, round).
func (h *CombatHooks) OnCombatStart(worldID string, round int) {
	h.mgr.CallHook(worldID, hookCombatStart, lua.LString(worldID), lua.LNumber(round)) //nolint:errcheck
}

// OnTurnStart dispatches on_turn_start(world_id, actor_uid, round).
func (h *CombatHooks) OnTurnStart(worldID string, actorID uuid.UUID, round int) {
	h.mgr.CallHook(worldID, hookTurnStart, lua.LString(worldID), lua.LString(actorID.String()), lua.LNumber(round)) //nolint:errcheck
}

// OnCombatEnd dispatches on_combat_end(world_id, rounds).
func (h *CombatHooks) OnCombatEnd(worldID string, rounds int) {
	h.mgr.CallHook(worldID, hookCombatEnd, lua.LString(worldID), lua.LNumber(rounds)) //nolint:errcheck
}
