package repository

import (
	"context"

	"github.com/NiranEC77/helens-dashboard/models"
)

// RepositoryInterface defines all repository operations
type RepositoryInterface interface {
	// Health and lifecycle
	Close() error
	Health(ctx context.Context) error

	// Named JSON documents (watchlist state)
	GetBlob(ctx context.Context, name string) ([]byte, error)
	SetBlob(ctx context.Context, name string, data []byte) error

	// Movers snapshots
	SaveMoversSnapshot(ctx context.Context, snapshot models.MoversResponse) error
	LatestMoversSnapshot(ctx context.Context) (*models.MoversResponse, error)
}

// Compile-time interface verification
var _ RepositoryInterface = (*Repository)(nil)
