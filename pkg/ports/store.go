package ports

import (
	"context"

	"github.com/aretw0/morenodes/pkg/domain"
)

// SnapshotStore defines the interface for persisting evaluated graph snapshots.
type SnapshotStore interface {
	// Save persists the snapshot under the given ID, replacing any previous one.
	Save(ctx context.Context, id string, snap *domain.GraphSnapshot) error

	// Load retrieves the snapshot for a given ID.
	// Returns domain.ErrSnapshotNotFound if it does not exist.
	Load(ctx context.Context, id string) (*domain.GraphSnapshot, error)

	// Delete removes the snapshot. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of stored snapshots.
	List(ctx context.Context) ([]string, error)
}
