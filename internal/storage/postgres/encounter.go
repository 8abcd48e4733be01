package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duskhollow/skirmish/internal/game/combat"
)

// EncounterStore persists finished encounter summaries. It implements the
// combat package's Archiver contract.
type EncounterStore struct {
	db *pgxpool.Pool
}

// NewEncounterStore creates an EncounterStore backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewEncounterStore(db *pgxpool.Pool) *EncounterStore {
	return &EncounterStore{db: db}
}

// RecordEncounter inserts one finished encounter.
//
// Precondition: s.EncounterID must be non-nil and unique.
// Postcondition: The encounter row exists, or a non-nil error is returned.
func (s *EncounterStore) RecordEncounter(ctx context.Context, sum combat.EncounterSummary) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO encounters (id, world_id, rounds, participants, started_at, ended_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		sum.EncounterID, sum.WorldID, sum.Rounds, sum.Participants, sum.StartedAt, sum.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting encounter %s: %w", sum.EncounterID, err)
	}
	return nil
}

// ListRecent returns up to limit encounters, newest first.
//
// Precondition: limit must be positive.
func (s *EncounterStore) ListRecent(ctx context.Context, limit int) ([]combat.EncounterSummary, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, world_id, rounds, participants, started_at, ended_at
		 FROM encounters
		 ORDER BY ended_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying encounters: %w", err)
	}
	defer rows.Close()

	var out []combat.EncounterSummary
	for rows.Next() {
		var sum combat.EncounterSummary
		if err := rows.Scan(&sum.EncounterID, &sum.WorldID, &sum.Rounds, &sum.Participants, &sum.StartedAt, &sum.EndedAt); err != nil {
			return nil, fmt.Errorf("scanning encounter row: %w", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating encounters: %w", err)
	}
	return out, nil
}

// CountByWorld returns the number of archived encounters for worldID.
func (s *EncounterStore) CountByWorld(ctx context.Context, worldID string) (int, error) {
	var n int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM encounters WHERE world_id = $1`,
		worldID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting encounters for %q: %w", worldID, err)
	}
	return n, nil
}
