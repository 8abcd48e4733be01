package movement_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duskhollow/skirmish/internal/game/movement"
	"github.com/duskhollow/skirmish/internal/host"
)

func TestRenderPath_SkipsOrigin(t *testing.T) {
	world := host.NewMemoryWorld("arena")
	playerID, _ := world.AddPlayer("Alice", host.Vec3{X: 0.5, Y: 64, Z: 0.5}, 20)
	renderer := movement.NewPathRenderer(500*time.Millisecond, world)

	state := movement.PlanPath(host.BlockPos{Y: 64}, host.BlockPos{X: 3, Y: 64}, 6)
	renderer.RenderPath(playerID, state)

	spawns := world.Spawns()
	// Three waypoints past the origin; the origin block stays unmarked.
	require.Len(t, spawns, 3)
	for _, s := range spawns {
		assert.NotEqual(t, host.BlockPos{Y: 64}.Center(), s.Pos)
		assert.Equal(t, []uuid.UUID{playerID}, s.Viewers)
	}
}

func TestRenderPath_DestinationMarker(t *testing.T) {
	world := host.NewMemoryWorld("arena")
	playerID, _ := world.AddPlayer("Alice", host.Vec3{}, 20)
	renderer := movement.NewPathRenderer(500*time.Millisecond, world)

	state := movement.PlanPath(host.BlockPos{Y: 64}, host.BlockPos{X: 2, Y: 64}, 6)
	renderer.RenderPath(playerID, state)

	spawns := world.Spawns()
	require.Len(t, spawns, 2)
	// Intermediate waypoint is smaller and dimmer than the destination.
	assert.Equal(t, float32(0.5), spawns[0].Scale)
	assert.Equal(t, float32(0.8), spawns[1].Scale)
	assert.Equal(t, host.BlockPos{X: 2, Y: 64}.Center(), spawns[1].Pos)
	assert.Greater(t, spawns[1].Color.G, spawns[0].Color.G)
}

func TestRenderPath_UnreachableColors(t *testing.T) {
	world := host.NewMemoryWorld("arena")
	playerID, _ := world.AddPlayer("Alice", host.Vec3{}, 20)
	renderer := movement.NewPathRenderer(500*time.Millisecond, world)

	state := movement.PlanPath(host.BlockPos{Y: 64}, host.BlockPos{X: 8, Y: 64}, 6)
	require.False(t, state.Reachable)
	renderer.RenderPath(playerID, state)

	for _, s := range world.Spawns() {
		assert.Greater(t, s.Color.R, s.Color.G, "unreachable paths render red")
	}
}

func TestRenderPath_ThrottlesUnchangedPath(t *testing.T) {
	world := host.NewMemoryWorld("arena")
	playerID, _ := world.AddPlayer("Alice", host.Vec3{}, 20)
	renderer := movement.NewPathRenderer(time.Minute, world)

	state := movement.PlanPath(host.BlockPos{Y: 64}, host.BlockPos{X: 2, Y: 64}, 6)
	renderer.RenderPath(playerID, state)
	first := len(world.Spawns())

	renderer.RenderPath(playerID, state)
	assert.Len(t, world.Spawns(), first, "unchanged path inside the interval is not re-emitted")
}

func TestRenderPath_ReEmitsAfterInterval(t *testing.T) {
	world := host.NewMemoryWorld("arena")
	playerID, _ := world.AddPlayer("Alice", host.Vec3{}, 20)
	renderer := movement.NewPathRenderer(10*time.Millisecond, world)

	state := movement.PlanPath(host.BlockPos{Y: 64}, host.BlockPos{X: 2, Y: 64}, 6)
	renderer.RenderPath(playerID, state)
	first := len(world.Spawns())

	time.Sleep(20 * time.Millisecond)
	renderer.RenderPath(playerID, state)
	assert.Len(t, world.Spawns(), first*2)
}

func TestRenderPath_NewDestinationEmitsImmediately(t *testing.T) {
	world := host.NewMemoryWorld("arena")
	playerID, _ := world.AddPlayer("Alice", host.Vec3{}, 20)
	renderer := movement.NewPathRenderer(time.Minute, world)

	renderer.RenderPath(playerID, movement.PlanPath(host.BlockPos{Y: 64}, host.BlockPos{X: 2, Y: 64}, 6))
	first := len(world.Spawns())

	renderer.RenderPath(playerID, movement.PlanPath(host.BlockPos{Y: 64}, host.BlockPos{X: 0, Y: 64, Z: 3}, 6))
	assert.Greater(t, len(world.Spawns()), first)
}

func TestRefreshAll(t *testing.T) {
	world := host.NewMemoryWorld("arena")
	playerID, _ := world.AddPlayer("Alice", host.Vec3{}, 20)
	renderer := movement.NewPathRenderer(10*time.Millisecond, world)

	renderer.RenderPath(playerID, movement.PlanPath(host.BlockPos{Y: 64}, host.BlockPos{X: 2, Y: 64}, 6))
	world.ResetSpawns()

	renderer.RefreshAll()
	assert.Empty(t, world.Spawns(), "refresh inside the interval is a no-op")

	time.Sleep(20 * time.Millisecond)
	renderer.RefreshAll()
	assert.Len(t, world.Spawns(), 2)
}

func TestClearPath(t *testing.T) {
	world := host.NewMemoryWorld("arena")
	playerID, _ := world.AddPlayer("Alice", host.Vec3{}, 20)
	renderer := movement.NewPathRenderer(time.Millisecond, world)

	renderer.RenderPath(playerID, movement.PlanPath(host.BlockPos{Y: 64}, host.BlockPos{X: 2, Y: 64}, 6))
	require.True(t, renderer.HasActivePath(playerID))

	renderer.ClearPath(playerID)
	assert.False(t, renderer.HasActivePath(playerID))

	world.ResetSpawns()
	time.Sleep(5 * time.Millisecond)
	renderer.RefreshAll()
	assert.Empty(t, world.Spawns(), "cleared paths are not refreshed")
}
