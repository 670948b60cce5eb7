package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetBlob returns the named JSON document, or nil when none is stored.
func (r *Repository) GetBlob(ctx context.Context, name string) ([]byte, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM blobs WHERE name = ?`, name,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading blob %q: %w", name, err)
	}
	return []byte(data), nil
}

// SetBlob stores the named JSON document, replacing any previous value.
func (r *Repository) SetBlob(ctx context.Context, name string, data []byte) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO blobs (name, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		name, string(data), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("writing blob %q: %w", name, err)
	}
	return nil
}
