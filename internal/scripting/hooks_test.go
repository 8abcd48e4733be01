package scripting_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duskhollow/skirmish/internal/scripting"
)

func TestCombatHooks_DispatchesLifecycle(t *testing.T) {
	mgr, _ := newTestManager(t)
	var got []string
	mgr.Broadcast = func(msg string) { got = append(got, msg) }
	loadScript(t, mgr, `
		function on_combat_start(world_id, round)
			engine.broadcast("start " .. world_id .. " r" .. round)
		end
		function on_turn_start(world_id, actor_uid, round)
			engine.broadcast("turn " .. actor_uid)
		end
		function on_combat_end(world_id, rounds)
			engine.broadcast("end after " .. rounds)
		end
	`)
	hooks := scripting.NewCombatHooks(mgr)
	actor := uuid.New()

	hooks.OnCombatStart("arena", 1)
	hooks.OnTurnStart("arena", actor, 1)
	hooks.OnCombatEnd("arena", 3)

	require.Len(t, got, 3)
	assert.Equal(t, "start arena r1", got[0])
	assert.Equal(t, "turn "+actor.String(), got[1])
	assert.Equal(t, "end after 3", got[2])
}

func TestCombatHooks_MissingHooksAreSilent(t *testing.T) {
	mgr, _ := newTestManager(t)
	loadScript(t, mgr, `-- defines nothing`)
	hooks := scripting.NewCombatHooks(mgr)

	assert.NotPanics(t, func() {
		hooks.OnCombatStart("arena", 1)
		hooks.OnTurnStart("arena", uuid.New(), 1)
		hooks.OnCombatEnd("arena", 2)
	})
}
