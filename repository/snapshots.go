package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/NiranEC77/helens-dashboard/models"
)

// snapshotRetention bounds how many movers snapshots are kept.
const snapshotRetention = 20

// SaveMoversSnapshot persists a movers response as the newest snapshot and
// prunes out-of-retention rows.
func (r *Repository) SaveMoversSnapshot(ctx context.Context, snapshot models.MoversResponse) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO movers_snapshots (id, source, payload, created_at) VALUES (?, ?, ?, ?)`,
		uuid.New().String(), string(snapshot.Source), string(payload), time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`DELETE FROM movers_snapshots WHERE id NOT IN (
			SELECT id FROM movers_snapshots ORDER BY created_at DESC LIMIT ?
		)`, snapshotRetention,
	)
	if err != nil {
		return fmt.Errorf("pruning snapshots: %w", err)
	}
	return nil
}

// LatestMoversSnapshot returns the newest persisted movers response, or nil
// when none exists.
func (r *Repository) LatestMoversSnapshot(ctx context.Context) (*models.MoversResponse, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM movers_snapshots ORDER BY created_at DESC LIMIT 1`,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot models.MoversResponse
	if err := json.Unmarshal([]byte(payload), &snapshot); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &snapshot, nil
}
