package backup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mbriard/carnets/internal/blob"
	"github.com/mbriard/carnets/internal/common"
	"github.com/mbriard/carnets/internal/logging"
	"github.com/mbriard/carnets/internal/models"
	"github.com/mbriard/carnets/internal/repositories/repomanager"
	"github.com/mbriard/carnets/internal/snapshot"
)

// Index is the snapshot catalog. It owns the pairing between blobs and
// catalog rows: the blob is always written before its row, and deleted
// before its row, so a crash can only ever leave an orphan blob, never a
// row pointing at nothing.
type Index struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
	blobs blob.Store
	log   logging.Logger
}

// NewIndex constructs an archive index over the given stores.
func NewIndex(db *sql.DB, repos repomanager.RepositoryManager, blobs blob.Store, log logging.Logger) *Index {
	return &Index{db: db, repos: repos, blobs: blobs, log: log}
}

// StorageKey generates a blob key scoped to the teacher: a date component
// for operator-friendly listing plus a random component against collisions.
func StorageKey(teacherID string) string {
	d := time.Now()
	return fmt.Sprintf("backups/%s/%d/%d/%d/%v", teacherID, d.Year(), d.Month(), d.Day(), uuid.New())
}

// Store persists the document's bytes and then catalogs them. The returned
// entry is immutable from here on.
func (ix *Index) Store(ctx context.Context, teacherID string, doc *snapshot.Document) (*models.ArchiveEntry, error) {
	data, err := doc.Marshal()
	if err != nil {
		return nil, err
	}

	key := StorageKey(teacherID)
	if err := ix.blobs.Put(ctx, key, data); err != nil {
		return nil, fmt.Errorf("%w: put snapshot blob: %w", common.ErrStorage, err)
	}

	entry := &models.ArchiveEntry{
		ID:            uuid.New().String(),
		TeacherID:     teacherID,
		BlobKey:       key,
		SizeBytes:     int64(len(data)),
		FormatVersion: doc.FormatVersion,
		CreatedAt:     doc.CreatedAt,
	}

	if err := ix.repos.Archive(ix.db).Create(ctx, entry); err != nil {
		// The blob stays behind as an orphan; garbage collection can reclaim
		// it. The inverse (a row without a blob) would break restore.
		ix.log.Warn(ctx, "catalog write failed, orphan blob left behind", "blob_key", key)
		return nil, fmt.Errorf("%w: catalog snapshot: %w", common.ErrStorage, err)
	}

	return entry, nil
}

// List returns the teacher's catalog entries, newest first. Snapshot bytes
// are never included.
func (ix *Index) List(ctx context.Context, teacherID string) ([]models.ArchiveEntry, error) {
	entries, err := ix.repos.Archive(ix.db).ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("%w: list archive: %w", common.ErrStorage, err)
	}
	return entries, nil
}

// FetchRaw returns a snapshot's raw bytes and its catalog entry. An absent
// entry and an entry owned by another teacher are indistinguishable: both
// surface ErrSnapshotNotFound.
func (ix *Index) FetchRaw(ctx context.Context, entryID, teacherID string) ([]byte, *models.ArchiveEntry, error) {
	entry, err := ix.repos.Archive(ix.db).GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrSnapshotNotFound
		}
		return nil, nil, fmt.Errorf("%w: read catalog: %w", common.ErrStorage, err)
	}
	if !Owns(teacherID, entry.TeacherID) {
		return nil, nil, common.ErrSnapshotNotFound
	}

	data, err := ix.blobs.Get(ctx, entry.BlobKey)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: get snapshot blob %s: %w", common.ErrStorage, entry.BlobKey, err)
	}
	return data, entry, nil
}

// Fetch decodes the snapshot behind an entry, enforcing ownership and the
// format-version gate.
func (ix *Index) Fetch(ctx context.Context, entryID, teacherID string) (*snapshot.Document, *models.ArchiveEntry, error) {
	data, entry, err := ix.FetchRaw(ctx, entryID, teacherID)
	if err != nil {
		return nil, nil, err
	}
	doc, err := snapshot.Decode(data)
	if err != nil {
		return nil, nil, err
	}
	return doc, entry, nil
}

// Remove deletes a snapshot: blob first, then the catalog row. If the blob
// deletion fails the row is retained and the error propagated, so the
// catalog never references a deleted blob.
func (ix *Index) Remove(ctx context.Context, entryID, teacherID string) error {
	entry, err := ix.repos.Archive(ix.db).GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrSnapshotNotFound
		}
		return fmt.Errorf("%w: read catalog: %w", common.ErrStorage, err)
	}
	if !Owns(teacherID, entry.TeacherID) {
		return common.ErrSnapshotNotFound
	}

	if err := ix.blobs.Delete(ctx, entry.BlobKey); err != nil {
		return fmt.Errorf("%w: delete snapshot blob %s: %w", common.ErrStorage, entry.BlobKey, err)
	}
	if _, err := ix.repos.Archive(ix.db).Delete(ctx, entryID); err != nil {
		return fmt.Errorf("%w: delete catalog row: %w", common.ErrStorage, err)
	}
	return nil
}

// Stats aggregates the teacher's archive: count, total bytes, newest capture.
func (ix *Index) Stats(ctx context.Context, teacherID string) (*models.ArchiveStats, error) {
	stats, err := ix.repos.Archive(ix.db).StatsByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("%w: archive stats: %w", common.ErrStorage, err)
	}
	return stats, nil
}
