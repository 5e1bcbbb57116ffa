// Package backup implements the snapshot engine shared by the durable and
// local variants: building a snapshot of everything one teacher owns,
// cataloguing it in the archive index, and restoring it atomically.
package backup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mbriard/carnets/internal/common"
	"github.com/mbriard/carnets/internal/repositories/repomanager"
	"github.com/mbriard/carnets/internal/snapshot"
)

// Builder gathers every entity owned by a teacher into one versioned
// document. It only reads; persisting the result is the archive index's job.
type Builder struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
}

// NewBuilder constructs a Builder over the given store.
func NewBuilder(db *sql.DB, repos repomanager.RepositoryManager) *Builder {
	return &Builder{db: db, repos: repos}
}

// Build captures the teacher's full state. If any collection read fails the
// whole build fails: a partial snapshot is never returned, so it can never
// be indexed.
func (b *Builder) Build(ctx context.Context, teacherID string) (*snapshot.Document, error) {
	t, err := b.repos.Teachers(b.db).GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: teacher %s", common.ErrOwnerNotFound, teacherID)
		}
		return nil, fmt.Errorf("%w: load teacher: %w", common.ErrStorage, err)
	}

	var c snapshot.Collections

	if c.Students, err = b.repos.Students(b.db).ListByTeacher(ctx, teacherID); err != nil {
		return nil, fmt.Errorf("%w: collect students: %w", common.ErrStorage, err)
	}
	if c.Booklets, err = b.repos.Booklets(b.db).ListByTeacher(ctx, teacherID); err != nil {
		return nil, fmt.Errorf("%w: collect booklets: %w", common.ErrStorage, err)
	}
	if c.Photos, err = b.repos.Photos(b.db).ListByTeacher(ctx, teacherID); err != nil {
		return nil, fmt.Errorf("%w: collect photos: %w", common.ErrStorage, err)
	}
	if c.PendingPhotos, err = b.repos.PendingPhotos(b.db).ListByTeacher(ctx, teacherID); err != nil {
		return nil, fmt.Errorf("%w: collect pending photos: %w", common.ErrStorage, err)
	}

	return snapshot.New(snapshot.Owner{ID: t.ID, Email: t.Email}, c), nil
}
