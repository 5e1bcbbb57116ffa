// Package archive persists the snapshot catalog: metadata rows describing
// where each snapshot's bytes live. Rows are immutable after creation.
package archive

import (
	"context"

	"github.com/mbriard/carnets/internal/models"
)

type Repository interface {
	// Create inserts a catalog row. The caller has already persisted the blob.
	Create(ctx context.Context, e *models.ArchiveEntry) error

	// GetByID returns an entry regardless of owner, or common.ErrorNotFound.
	// Ownership is the caller's concern: the archive index checks it and maps
	// a foreign owner to the same not-found result.
	GetByID(ctx context.Context, id string) (*models.ArchiveEntry, error)

	// ListByTeacher returns a teacher's entries ordered newest-first.
	ListByTeacher(ctx context.Context, teacherID string) ([]models.ArchiveEntry, error)

	// Delete removes one catalog row. It reports whether a row was deleted.
	Delete(ctx context.Context, id string) (bool, error)

	// StatsByTeacher aggregates count, total bytes and newest creation time.
	StatsByTeacher(ctx context.Context, teacherID string) (*models.ArchiveStats, error)
}
