package hud_test

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/duskhollow/skirmish/internal/game/combat"
	"github.com/duskhollow/skirmish/internal/game/hud"
	"github.com/duskhollow/skirmish/internal/host"
)

// scriptedSource replays a fixed Intn sequence.
type scriptedSource struct {
	values []int
	i      int
}

func (s *scriptedSource) Intn(n int) int {
	v := s.values[s.i%len(s.values)]
	s.i++
	if v >= n {
		v = n - 1
	}
	return v
}

// threeWayState starts combat with Alice (roll 18), Bob (12) and a Ganger
// (5), in that initiative order.
func threeWayState(t *testing.T) (*combat.CombatState, uuid.UUID, uuid.UUID) {
	t.Helper()
	alice, bob, ganger := uuid.New(), uuid.New(), uuid.New()
	tm := combat.NewTurnManager(&scriptedSource{values: []int{17, 11, 4}}, 0, zap.NewNop())
	state, err := tm.StartCombat("arena", []combat.Participant{
		{ID: alice, Kind: combat.KindPlayer, Name: "Alice"},
		{ID: bob, Kind: combat.KindPlayer, Name: "Bob"},
		{ID: ganger, Kind: combat.KindNPC, Name: "Ganger"},
	})
	require.NoError(t, err)
	return state, alice, bob
}

func get(t *testing.T, b *host.UICommandBuilder, key string) string {
	t.Helper()
	v, ok := b.Get(key)
	require.True(t, ok, "missing HUD key %s", key)
	return v
}

func TestRender_CurrentActorView(t *testing.T) {
	state, alice, _ := threeWayState(t)
	h := hud.NewCombatHud(host.NewMemoryWorld("arena"), 8)

	b := host.NewUICommandBuilder()
	h.Render(alice, state, b)

	assert.Equal(t, "Alice", get(t, b, "#currentTurnName.Text"))
	assert.Equal(t, "Your turn!", get(t, b, "#turnPrompt.Text"))
	assert.Equal(t, "#4caf50", get(t, b, "#turnPrompt.Style.TextColor"))
	assert.Equal(t, "Round 1", get(t, b, "#roundLabel.Text"))
}

func TestRender_WaitingView(t *testing.T) {
	state, _, bob := threeWayState(t)
	h := hud.NewCombatHud(host.NewMemoryWorld("arena"), 8)

	b := host.NewUICommandBuilder()
	h.Render(bob, state, b)

	assert.Equal(t, "Waiting for Alice...", get(t, b, "#turnPrompt.Text"))
	assert.Equal(t, "#888888", get(t, b, "#turnPrompt.Style.TextColor"))
}

func TestRender_InitiativeSlots(t *testing.T) {
	state, alice, bob := threeWayState(t)
	h := hud.NewCombatHud(host.NewMemoryWorld("arena"), 8)

	b := host.NewUICommandBuilder()
	h.Render(bob, state, b)

	assert.Equal(t, "1. Alice (18)", get(t, b, "#initSlot0.Text"))
	assert.Equal(t, "2. Bob (12)", get(t, b, "#initSlot1.Text"))
	assert.Equal(t, "3. Ganger (5)", get(t, b, "#initSlot2.Text"))

	// Bob views: Alice is current (yellow, bold), Bob is self (blue), the
	// ganger is neither (gray).
	assert.Equal(t, "#ffeb3b", get(t, b, "#initSlot0.Style.TextColor"))
	assert.Equal(t, "true", get(t, b, "#initSlot0.Style.RenderBold"))
	assert.Equal(t, "#2196f3", get(t, b, "#initSlot1.Style.TextColor"))
	assert.Equal(t, "false", get(t, b, "#initSlot1.Style.RenderBold"))
	assert.Equal(t, "#cccccc", get(t, b, "#initSlot2.Style.TextColor"))

	// Current actor viewing themselves gets green.
	b2 := host.NewUICommandBuilder()
	h.Render(alice, state, b2)
	assert.Equal(t, "#4caf50", get(t, b2, "#initSlot0.Style.TextColor"))
}

func TestRender_SurplusSlotsHidden(t *testing.T) {
	state, _, bob := threeWayState(t)
	h := hud.NewCombatHud(host.NewMemoryWorld("arena"), 8)

	b := host.NewUICommandBuilder()
	h.Render(bob, state, b)

	for slot := 3; slot < 8; slot++ {
		key := fmt.Sprintf("#initSlot%d.Visible", slot)
		assert.Equal(t, "false", get(t, b, key))
	}
	assert.Equal(t, "true", get(t, b, "#initSlot0.Visible"))
}

func TestShow_PushesThroughSink(t *testing.T) {
	state, alice, _ := threeWayState(t)
	world := host.NewMemoryWorld("arena")
	h := hud.NewCombatHud(world, 8)

	h.Show(alice, state)

	updates := world.UIUpdates()
	require.Len(t, updates, 1)
	assert.Equal(t, alice, updates[0].PlayerID)
	assert.False(t, updates[0].Clear)
	assert.NotEmpty(t, updates[0].Commands)
}

func TestShow_InactiveStateNoOp(t *testing.T) {
	world := host.NewMemoryWorld("arena")
	tm := combat.NewTurnManager(&scriptedSource{values: []int{10}}, 0, zap.NewNop())
	h := hud.NewCombatHud(world, 8)

	h.Show(uuid.New(), tm.State("arena"))

	assert.Empty(t, world.UIUpdates())
}

func TestHide_IssuesClear(t *testing.T) {
	world := host.NewMemoryWorld("arena")
	h := hud.NewCombatHud(world, 8)
	alice := uuid.New()

	h.Hide(alice)

	updates := world.UIUpdates()
	require.Len(t, updates, 1)
	assert.True(t, updates[0].Clear)
	assert.Empty(t, updates[0].Commands)
}
