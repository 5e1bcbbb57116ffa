package local

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbriard/carnets/internal/blob"
	"github.com/mbriard/carnets/internal/common"
	"github.com/mbriard/carnets/internal/logging"
	"github.com/mbriard/carnets/internal/models"
	"github.com/mbriard/carnets/internal/snapshot"
)

func nopLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func setupService(t *testing.T) (*Service, *sql.DB) {
	t.Helper()
	ctx := context.Background()

	db, repos, err := InitDatabase(ctx, "file:local_tests?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	for _, table := range []string{"blobs", "backup_archive", "pending_photos", "photos", "booklets", "students", "teachers"} {
		_, err = db.Exec(`DELETE FROM ` + table)
		require.NoError(t, err)
	}

	svc := NewService(db, repos, "profile-1", nopLogger())
	require.NoError(t, svc.EnsureProfile(ctx, "dupont@ecole.fr", "Mme Dupont"))

	now := time.Now().UTC()
	require.NoError(t, repos.Students(db).Create(ctx, &models.Student{
		ID: "s1", TeacherID: "profile-1", FirstName: "Léa", LastName: "Martin",
		BirthDate: "2021-03-14", Level: "PS", CreatedAt: now, UpdatedAt: now,
	}))
	return svc, db
}

func TestEnsureProfile_Idempotent(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureProfile(ctx, "other@ecole.fr", "Autre"))

	teacher, err := svc.repos.Teachers(db).GetByID(ctx, "profile-1")
	require.NoError(t, err)
	assert.Equal(t, "dupont@ecole.fr", teacher.Email)
}

func TestSnapshotNow_KeepsNewestSlots(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 4; i++ {
		entry, err := svc.SnapshotNow(ctx)
		require.NoError(t, err)
		ids = append(ids, entry.ID)
		time.Sleep(5 * time.Millisecond)
	}

	entries, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, DefaultRetainCount)
	assert.Equal(t, ids[3], entries[0].ID)
	assert.Equal(t, ids[2], entries[1].ID)
	assert.Equal(t, ids[1], entries[2].ID)
	for _, e := range entries {
		assert.NotEqual(t, ids[0], e.ID)
	}

	// the evicted slot's bytes are gone too
	_, _, err = svc.index.Fetch(ctx, ids[0], "profile-1")
	assert.ErrorIs(t, err, common.ErrSnapshotNotFound)
}

func TestSetRetention(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	svc.SetRetention(1, 0)
	assert.Equal(t, DefaultMaxAge, svc.maxAge)

	for i := 0; i < 3; i++ {
		_, err := svc.SnapshotNow(ctx)
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	entries, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestPruneExpired(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	fresh, err := svc.SnapshotNow(ctx)
	require.NoError(t, err)

	// plant a slot well past the retention window
	blobs := blob.NewSQLiteStore(db)
	key := "backups/profile-1/old"
	require.NoError(t, blobs.Put(ctx, key, []byte(`{}`)))
	old := &models.ArchiveEntry{
		ID:            uuid.New().String(),
		TeacherID:     "profile-1",
		BlobKey:       key,
		SizeBytes:     2,
		FormatVersion: snapshot.FormatVersion,
		CreatedAt:     time.Now().UTC().Add(-8 * 24 * time.Hour),
	}
	require.NoError(t, svc.repos.Archive(db).Create(ctx, old))

	pruned, err := svc.PruneExpired(ctx, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 1, pruned)

	entries, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, fresh.ID, entries[0].ID)

	_, err = blobs.Get(ctx, key)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestExportImport_RoundTrip(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	data, err := svc.Export(ctx)
	require.NoError(t, err)

	// export writes no history slot
	entries, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = db.ExecContext(ctx, `DELETE FROM students`)
	require.NoError(t, err)

	report, err := svc.Import(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Students)

	got, err := svc.repos.Students(db).ListByTeacher(ctx, "profile-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Léa", got[0].FirstName)
}

func TestImport_WrongOwnerRejected(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	doc := snapshot.New(snapshot.Owner{ID: "someone-else", Email: "x@ecole.fr"}, snapshot.Collections{})
	data, err := doc.Marshal()
	require.NoError(t, err)

	_, err = svc.Import(ctx, data)
	assert.ErrorIs(t, err, common.ErrOwnershipMismatch)

	// the profile's state was not wiped
	got, err := svc.repos.Students(db).ListByTeacher(ctx, "profile-1")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestImport_UnsupportedVersionRejected(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.Import(context.Background(), []byte(`{"formatVersion":"3.0.0","owner":{"id":"profile-1"}}`))
	assert.ErrorIs(t, err, common.ErrUnsupportedSnapshotVersion)
}
