// Package blob defines the addressable blob-store adapter used by the
// archive index, and its three implementations: an S3-compatible object
// store (durable variant), a SQLite table (local variant, blob inlined next
// to the catalog), and an in-memory map for tests.
package blob

import "context"

// Store is a flat, addressable blob store. Keys are opaque to the store;
// the archive index scopes them per teacher.
type Store interface {
	// Put writes data under key, overwriting any previous value.
	Put(ctx context.Context, key string, data []byte) error

	// Get returns the blob stored under key, or common.ErrorNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the blob under key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
