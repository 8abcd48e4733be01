package targeting_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/duskhollow/skirmish/internal/game/targeting"
	"github.com/duskhollow/skirmish/internal/host"
)

const testInterval = 400 * time.Millisecond

func newFixture(t *testing.T) (*targeting.Manager, *host.MemoryWorld) {
	t.Helper()
	world := host.NewMemoryWorld("w1")
	h := targeting.NewHighlighter(testInterval, 0.25, world)
	return targeting.NewManager(h, world, zap.NewNop()), world
}

func TestSelectTarget_Success(t *testing.T) {
	m, world := newFixture(t)
	playerID, _ := world.AddPlayer("Alice", host.Vec3{}, 20)
	npc := world.AddNPC("Ganger", host.Vec3{X: 3}, 18)

	ok := m.SelectTarget(playerID, npc, world)
	assert.True(t, ok)

	ref, has := m.TargetRef(playerID)
	require.True(t, has)
	assert.Equal(t, npc, ref)

	msgs := world.Messages(playerID)
	require.NotEmpty(t, msgs)
	assert.Equal(t, "[Skirmish] Target: Ganger (HP: 18/18)", msgs[len(msgs)-1])

	// Ring of 8 plus center marker.
	assert.Len(t, world.Spawns(), 9)
}

func TestSelectTarget_SelfRejected(t *testing.T) {
	m, world := newFixture(t)
	playerID, selfRef := world.AddPlayer("Alice", host.Vec3{}, 20)

	ok := m.SelectTarget(playerID, selfRef, world)
	assert.False(t, ok)

	_, has := m.TargetRef(playerID)
	assert.False(t, has)
	assert.Contains(t, world.Messages(playerID), "[Skirmish] You cannot target yourself!")
}

func TestSelectTarget_ToggleOff(t *testing.T) {
	m, world := newFixture(t)
	playerID, _ := world.AddPlayer("Alice", host.Vec3{}, 20)
	npc := world.AddNPC("Ganger", host.Vec3{}, 18)

	require.True(t, m.SelectTarget(playerID, npc, world))

	// Same target again clears it and reports failure.
	ok := m.SelectTarget(playerID, npc, world)
	assert.False(t, ok)
	_, has := m.TargetRef(playerID)
	assert.False(t, has)
	assert.Contains(t, world.Messages(playerID), "[Skirmish] Target cleared.")
}

func TestSelectTarget_InvalidRollsBack(t *testing.T) {
	m, world := newFixture(t)
	playerID, _ := world.AddPlayer("Alice", host.Vec3{}, 20)
	npc := world.AddNPC("Ganger", host.Vec3{}, 18)
	world.Invalidate(npc)

	ok := m.SelectTarget(playerID, npc, world)
	assert.False(t, ok)
	_, has := m.TargetRef(playerID)
	assert.False(t, has)
	assert.Contains(t, world.Messages(playerID), "[Skirmish] Invalid target.")
}

func TestSelectTarget_ReplacesPrevious(t *testing.T) {
	m, world := newFixture(t)
	playerID, _ := world.AddPlayer("Alice", host.Vec3{}, 20)
	first := world.AddNPC("Ganger", host.Vec3{}, 18)
	second := world.AddNPC("Bruiser", host.Vec3{X: 2}, 30)

	require.True(t, m.SelectTarget(playerID, first, world))
	require.True(t, m.SelectTarget(playerID, second, world))

	ref, has := m.TargetRef(playerID)
	require.True(t, has)
	assert.Equal(t, second, ref)
}

func TestInfo_DeadTargetAutoClears(t *testing.T) {
	m, world := newFixture(t)
	playerID, _ := world.AddPlayer("Alice", host.Vec3{}, 20)
	npc := world.AddNPC("Ganger", host.Vec3{}, 18)

	require.True(t, m.SelectTarget(playerID, npc, world))
	world.SetHP(npc, 0)

	info := m.Info(playerID, world)
	assert.Nil(t, info)

	// The registry entry was removed as a side effect.
	_, has := m.TargetRef(playerID)
	assert.False(t, has)
}

func TestInfo_StaleRefAutoClears(t *testing.T) {
	m, world := newFixture(t)
	playerID, _ := world.AddPlayer("Alice", host.Vec3{}, 20)
	npc := world.AddNPC("Ganger", host.Vec3{}, 18)

	require.True(t, m.SelectTarget(playerID, npc, world))
	world.Invalidate(npc)

	assert.Nil(t, m.Info(playerID, world))
	_, has := m.TargetRef(playerID)
	assert.False(t, has)
}

func TestInfo_LiveTarget(t *testing.T) {
	m, world := newFixture(t)
	playerID, _ := world.AddPlayer("Alice", host.Vec3{}, 20)
	npc := world.AddNPC("Ganger", host.Vec3{}, 18)
	world.SetHP(npc, 4)

	require.True(t, m.SelectTarget(playerID, npc, world))

	info := m.Info(playerID, world)
	require.NotNil(t, info)
	assert.Equal(t, "Ganger", info.Name)
	assert.Equal(t, 4.0, info.CurrentHP)
	assert.InDelta(t, 4.0/18.0, info.HPPercent(), 1e-9)
}

func TestClearAllTargets(t *testing.T) {
	m, world := newFixture(t)
	p1, _ := world.AddPlayer("Alice", host.Vec3{}, 20)
	p2, _ := world.AddPlayer("Bob", host.Vec3{}, 20)
	npc := world.AddNPC("Ganger", host.Vec3{}, 18)

	require.True(t, m.SelectTarget(p1, npc, world))
	require.True(t, m.SelectTarget(p2, npc, world))

	m.ClearAllTargets()

	_, has1 := m.TargetRef(p1)
	_, has2 := m.TargetRef(p2)
	assert.False(t, has1)
	assert.False(t, has2)

	// Idempotent.
	m.ClearAllTargets()
	m.ClearTarget(p1)
}

func TestIsValidTarget(t *testing.T) {
	m, world := newFixture(t)
	_, playerRef := world.AddPlayer("Alice", host.Vec3{}, 20)
	npc := world.AddNPC("Ganger", host.Vec3{}, 18)

	assert.True(t, m.IsValidTarget(npc, world))
	assert.False(t, m.IsValidTarget(playerRef, world))

	world.Invalidate(npc)
	assert.False(t, m.IsValidTarget(npc, world))
}

func TestIsTargeted(t *testing.T) {
	m, world := newFixture(t)
	playerID, _ := world.AddPlayer("Alice", host.Vec3{}, 20)
	npc := world.AddNPC("Ganger", host.Vec3{}, 18)
	other := world.AddNPC("Bruiser", host.Vec3{}, 30)

	require.True(t, m.SelectTarget(playerID, npc, world))
	assert.True(t, m.IsTargeted(npc))
	assert.False(t, m.IsTargeted(other))
}

func TestHasTarget(t *testing.T) {
	m, world := newFixture(t)
	playerID, _ := world.AddPlayer("Alice", host.Vec3{}, 20)
	npc := world.AddNPC("Ganger", host.Vec3{}, 18)

	assert.False(t, m.HasTarget(playerID, world))
	require.True(t, m.SelectTarget(playerID, npc, world))
	assert.True(t, m.HasTarget(playerID, world))

	world.Invalidate(npc)
	assert.False(t, m.HasTarget(playerID, world))
}

func TestRefreshHighlights_SkipsAbsentAndStale(t *testing.T) {
	world := host.NewMemoryWorld("w1")
	// Short interval so the sweep is allowed to re-emit.
	h := targeting.NewHighlighter(time.Millisecond, 0.25, world)
	m := targeting.NewManager(h, world, zap.NewNop())

	p1, _ := world.AddPlayer("Alice", host.Vec3{}, 20)
	p2, p2Ref := world.AddPlayer("Bob", host.Vec3{}, 20)
	npc1 := world.AddNPC("Ganger", host.Vec3{}, 18)
	npc2 := world.AddNPC("Bruiser", host.Vec3{}, 30)

	require.True(t, m.SelectTarget(p1, npc1, world))
	require.True(t, m.SelectTarget(p2, npc2, world))

	// p2 leaves; p1's target goes stale.
	world.Remove(p2Ref)
	world.Invalidate(npc1)

	world.ResetSpawns()
	time.Sleep(5 * time.Millisecond)
	m.RefreshHighlights(world)

	// Neither entry re-emits: one player is gone, the other target stale.
	assert.Empty(t, world.Spawns())
}

func TestSelectTarget_Property_AtMostOneEntryPerPlayer(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		world := host.NewMemoryWorld("w1")
		h := targeting.NewHighlighter(testInterval, 0.25, world)
		m := targeting.NewManager(h, world, zap.NewNop())

		playerID, selfRef := world.AddPlayer("Alice", host.Vec3{}, 20)
		npcs := make([]host.EntityRef, 4)
		for i := range npcs {
			npcs[i] = world.AddNPC("N", host.Vec3{X: float64(i)}, 10)
		}

		steps := rapid.IntRange(1, 25).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			pick := rapid.IntRange(0, len(npcs)).Draw(rt, "pick")
			if pick == len(npcs) {
				m.SelectTarget(playerID, selfRef, world)
			} else {
				m.SelectTarget(playerID, npcs[pick], world)
			}

			count := 0
			for _, ref := range npcs {
				if got, has := m.TargetRef(playerID); has && got == ref {
					count++
				}
			}
			assert.LessOrEqual(rt, count, 1)
		}
	})
}
