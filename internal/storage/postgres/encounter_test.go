package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duskhollow/skirmish/internal/game/combat"
	"github.com/duskhollow/skirmish/internal/storage/postgres"
	"github.com/duskhollow/skirmish/internal/testutil"
)

func newStore(t *testing.T) *postgres.EncounterStore {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	return postgres.NewEncounterStore(pc.RawPool)
}

func summaryAt(worldID string, rounds int, endedAt time.Time) combat.EncounterSummary {
	return combat.EncounterSummary{
		EncounterID:  uuid.New(),
		WorldID:      worldID,
		Rounds:       rounds,
		Participants: 3,
		StartedAt:    endedAt.Add(-5 * time.Minute),
		EndedAt:      endedAt,
	}
}

func TestEncounterStore_RecordAndList(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	older := summaryAt("arena", 4, now.Add(-time.Hour))
	newer := summaryAt("arena", 2, now)
	require.NoError(t, store.RecordEncounter(ctx, older))
	require.NoError(t, store.RecordEncounter(ctx, newer))

	got, err := store.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, newer.EncounterID, got[0].EncounterID, "newest first")
	assert.Equal(t, older.EncounterID, got[1].EncounterID)
	assert.Equal(t, 4, got[1].Rounds)
	assert.Equal(t, 3, got[1].Participants)
	assert.WithinDuration(t, older.EndedAt, got[1].EndedAt, time.Millisecond)
}

func TestEncounterStore_ListRecent_Limit(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, store.RecordEncounter(ctx, summaryAt("arena", i+1, time.Now().UTC())))
	}

	got, err := store.ListRecent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestEncounterStore_DuplicateID_Fails(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	sum := summaryAt("arena", 1, time.Now().UTC())
	require.NoError(t, store.RecordEncounter(ctx, sum))
	assert.Error(t, store.RecordEncounter(ctx, sum))
}

func TestEncounterStore_CountByWorld(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordEncounter(ctx, summaryAt("arena", 1, time.Now().UTC())))
	require.NoError(t, store.RecordEncounter(ctx, summaryAt("arena", 2, time.Now().UTC())))
	require.NoError(t, store.RecordEncounter(ctx, summaryAt("docks", 1, time.Now().UTC())))

	n, err := store.CountByWorld(ctx, "arena")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = store.CountByWorld(ctx, "nowhere")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
