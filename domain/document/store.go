package document

import (
	"context"

	"github.com/AayushMore1708/api-hub/domain/storage"
)

// Store persists documentation chunks. Rows are append-only: there are no
// update or delete operations in the design.
type Store interface {
	// SaveAll persists a batch of documents atomically, preserving order.
	SaveAll(ctx context.Context, docs []Document) error

	// Find retrieves documents matching the given options, in insertion order.
	Find(ctx context.Context, options ...storage.Option) ([]Document, error)

	// CountByLibrary returns the number of stored documents for a library.
	CountByLibrary(ctx context.Context, library string) (int64, error)
}

// WithLibrary filters by the "library" column.
func WithLibrary(library string) storage.Option {
	return storage.WithCondition("library", library)
}
