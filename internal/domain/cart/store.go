// internal/domain/cart/store.go
package cart

import (
	"context"
	"errors"
)

var (
	// ErrSnapshotNotFound is returned when no document exists for the key
	ErrSnapshotNotFound = errors.New("cart snapshot not found")
	// ErrStaleSnapshot is returned when the store already holds a newer version
	ErrStaleSnapshot = errors.New("cart snapshot is stale")
)

// Store is the per-identity remote document store contract. Implementations
// must treat Save as a full-document overwrite and reject snapshots whose
// version is not newer than the one they hold.
type Store interface {
	Load(ctx context.Context, uid string) (*Snapshot, error)
	Save(ctx context.Context, uid string, snap *Snapshot) error
}

// Slot is the process-local durable slot holding the anonymous cart.
// It is read once at startup and overwritten after every transition.
type Slot interface {
	Load() (*Snapshot, error)
	Save(snap *Snapshot) error
}
