package backup

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mbriard/carnets/internal/common"
	"github.com/mbriard/carnets/internal/dbx"
	"github.com/mbriard/carnets/internal/logging"
	"github.com/mbriard/carnets/internal/repositories/repomanager"
	"github.com/mbriard/carnets/internal/snapshot"
)

// Report counts the entities a restore recreated, for caller-visible
// confirmation.
type Report struct {
	Students      int `json:"studentsCount"`
	Booklets      int `json:"bookletsCount"`
	Photos        int `json:"photosCount"`
	PendingPhotos int `json:"pendingPhotosCount"`
}

// Engine replaces all of a teacher's current state with a snapshot's
// contents inside one transaction. Restore is a deliberate wipe-and-replace:
// anything created after the snapshot was taken is gone once it commits.
type Engine struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
	index *Index
	log   logging.Logger
}

// NewEngine constructs a restore engine sharing the index's stores.
func NewEngine(db *sql.DB, repos repomanager.RepositoryManager, index *Index, log logging.Logger) *Engine {
	return &Engine{db: db, repos: repos, index: index, log: log}
}

// Restore fetches the snapshot behind entryID (inheriting the index's
// ownership check) and applies it.
func (e *Engine) Restore(ctx context.Context, entryID, teacherID string) (*Report, error) {
	doc, _, err := e.index.Fetch(ctx, entryID, teacherID)
	if err != nil {
		return nil, err
	}
	return e.RestoreDocument(ctx, doc, teacherID)
}

// RestoreDocument applies an already-decoded snapshot document. This is the
// path shared by catalog restores and direct imports of an uploaded file.
//
// The embedded owner is re-validated here even though Fetch already checked
// the catalog row: the catalog is metadata, the blob is authoritative, and a
// mismatch between the two means corruption or tampering.
func (e *Engine) RestoreDocument(ctx context.Context, doc *snapshot.Document, teacherID string) (*Report, error) {
	if !Owns(teacherID, doc.Owner.ID) {
		return nil, fmt.Errorf("%w: snapshot owner %q, caller %q", common.ErrOwnershipMismatch, doc.Owner.ID, teacherID)
	}

	if n := doc.NormalizeReferences(); n > 0 {
		e.log.Warn(ctx, "nulled dangling photo references in snapshot", "count", n)
	}

	specs := collectionOrder()
	report := &Report{}

	err := dbx.WithTx(ctx, e.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		// Children before parents so foreign keys never dangle mid-wipe.
		for i := len(specs) - 1; i >= 0; i-- {
			if _, err := specs[i].wipe(ctx, e.repos, tx, teacherID); err != nil {
				return fmt.Errorf("wipe %s: %w", specs[i].name, err)
			}
		}
		// Parents before children so references resolve as rows appear.
		for _, spec := range specs {
			n, err := spec.insert(ctx, e.repos, tx, doc, teacherID)
			if err != nil {
				return fmt.Errorf("restore %s: %w", spec.name, err)
			}
			*spec.count(report) = n
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorage, err)
	}

	e.log.Info(ctx, "restore complete",
		"teacher_id", teacherID,
		"students", report.Students,
		"booklets", report.Booklets,
		"photos", report.Photos,
		"pending_photos", report.PendingPhotos,
	)
	return report, nil
}
