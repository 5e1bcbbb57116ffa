package local

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mbriard/carnets/internal/backup"
	"github.com/mbriard/carnets/internal/blob"
	"github.com/mbriard/carnets/internal/common"
	"github.com/mbriard/carnets/internal/logging"
	"github.com/mbriard/carnets/internal/models"
	"github.com/mbriard/carnets/internal/repositories/repomanager"
	"github.com/mbriard/carnets/internal/snapshot"
)

// Retention defaults for the rotating history.
const (
	DefaultRetainCount = 3
	DefaultMaxAge      = 7 * 24 * time.Hour
)

// Service exposes the local-variant operations the UI consumes: manual
// snapshots, the rotating history, restore from a slot, and export/import of
// a snapshot document as a file.
type Service struct {
	db        *sql.DB
	repos     repomanager.RepositoryManager
	teacherID string

	retainCount int
	maxAge      time.Duration

	builder *backup.Builder
	index   *backup.Index
	engine  *backup.Engine
	log     logging.Logger
}

// NewService wires the shared backup engine over the profile database. The
// snapshot blobs are inlined in the same SQLite file as the catalog.
func NewService(db *sql.DB, repos repomanager.RepositoryManager, teacherID string, log logging.Logger) *Service {
	blobs := blob.NewSQLiteStore(db)
	index := backup.NewIndex(db, repos, blobs, log)
	return &Service{
		db:          db,
		repos:       repos,
		teacherID:   teacherID,
		retainCount: DefaultRetainCount,
		maxAge:      DefaultMaxAge,
		builder:     backup.NewBuilder(db, repos),
		index:       index,
		engine:      backup.NewEngine(db, repos, index, log),
		log:         log,
	}
}

// SetRetention overrides the retained-slot count and the age window used by
// PruneExpired. Zero values keep the current settings.
func (s *Service) SetRetention(count int, maxAge time.Duration) {
	if count > 0 {
		s.retainCount = count
	}
	if maxAge > 0 {
		s.maxAge = maxAge
	}
}

// EnsureProfile creates the profile's teacher row on first run.
func (s *Service) EnsureProfile(ctx context.Context, email, displayName string) error {
	_, err := s.repos.Teachers(s.db).GetByID(ctx, s.teacherID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return err
	}
	return s.repos.Teachers(s.db).Create(ctx, &models.Teacher{
		ID:          s.teacherID,
		Email:       email,
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC(),
	})
}

// SnapshotNow captures the profile state into a new history slot, then
// evicts the oldest slots beyond the retained count.
func (s *Service) SnapshotNow(ctx context.Context) (*models.ArchiveEntry, error) {
	doc, err := s.builder.Build(ctx, s.teacherID)
	if err != nil {
		return nil, err
	}
	entry, err := s.index.Store(ctx, s.teacherID, doc)
	if err != nil {
		return nil, err
	}
	if err := s.enforceCount(ctx); err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns the rotating history, newest first.
func (s *Service) List(ctx context.Context) ([]models.ArchiveEntry, error) {
	return s.index.List(ctx, s.teacherID)
}

// RestoreSlot replaces current profile state with a history slot's contents.
func (s *Service) RestoreSlot(ctx context.Context, entryID string) (*backup.Report, error) {
	return s.engine.Restore(ctx, entryID, s.teacherID)
}

// Export builds a fresh snapshot and returns its encoded bytes for download.
// Nothing is written to the history.
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	doc, err := s.builder.Build(ctx, s.teacherID)
	if err != nil {
		return nil, err
	}
	return doc.Marshal()
}

// Import decodes an uploaded snapshot document and restores from it. The
// document's embedded owner must be this profile; the format-version gate
// applies as on any other read.
func (s *Service) Import(ctx context.Context, data []byte) (*backup.Report, error) {
	doc, err := snapshot.Decode(data)
	if err != nil {
		return nil, err
	}
	return s.engine.RestoreDocument(ctx, doc, s.teacherID)
}

// PruneExpired evicts history slots older than the retention window,
// regardless of count. It reports how many were removed.
func (s *Service) PruneExpired(ctx context.Context, now time.Time) (int, error) {
	entries, err := s.index.List(ctx, s.teacherID)
	if err != nil {
		return 0, err
	}
	cutoff := now.Add(-s.maxAge)

	pruned := 0
	for _, e := range entries {
		if e.CreatedAt.Before(cutoff) {
			if err := s.index.Remove(ctx, e.ID, s.teacherID); err != nil {
				return pruned, err
			}
			pruned++
		}
	}
	return pruned, nil
}

func (s *Service) enforceCount(ctx context.Context) error {
	entries, err := s.index.List(ctx, s.teacherID)
	if err != nil {
		return err
	}
	if len(entries) <= s.retainCount {
		return nil
	}
	// List is newest-first, so everything past the retained prefix goes.
	for _, e := range entries[s.retainCount:] {
		if err := s.index.Remove(ctx, e.ID, s.teacherID); err != nil {
			return err
		}
	}
	return nil
}

// NewProfileID generates an id for a fresh profile.
func NewProfileID() string {
	return uuid.New().String()
}
