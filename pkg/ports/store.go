package ports

import (
	"context"

	"github.com/douglas-run/douglas/pkg/domain"
)

// GalaxyStore is an open handle on one Galaxy's persistent store.
// Handles are short-lived: opened inside a run (or a db command) and
// closed before control returns to the caller.
type GalaxyStore interface {
	// EnsureTable creates the model's table if absent. Idempotent.
	EnsureTable(ctx context.Context, model domain.ModelSpec) error

	// Insert persists one payload as a single atomic statement and
	// returns the assigned record id. Non-string payloads are
	// serialized to JSON text before storage.
	Insert(ctx context.Context, model domain.ModelSpec, payload any) (int64, error)

	// List returns all records of the model, oldest first.
	List(ctx context.Context, model domain.ModelSpec) ([]domain.Record, error)

	// Delete removes the given record ids and reports how many went.
	Delete(ctx context.Context, model domain.ModelSpec, ids []int64) (int64, error)

	Close() error
}

// StoreManager owns the mapping from Galaxy names to physical stores.
// Each Galaxy gets its own store file at a deterministic path; stores
// are created lazily on first open and never dropped implicitly.
type StoreManager interface {
	Open(ctx context.Context, galaxy string) (GalaxyStore, error)

	// Reset deletes the Galaxy's entire store file. Explicit
	// maintenance only; a missing store is not an error.
	Reset(galaxy string) error

	// Path returns the store file location for the Galaxy, whether or
	// not it exists yet.
	Path(galaxy string) string
}
