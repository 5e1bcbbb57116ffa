package backup

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mbriard/carnets/internal/blob"
	"github.com/mbriard/carnets/internal/logging"
	"github.com/mbriard/carnets/internal/models"
	"github.com/mbriard/carnets/internal/repositories/repomanager"

	_ "modernc.org/sqlite"
)

const testSchema = `
CREATE TABLE IF NOT EXISTS teachers (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  display_name TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS students (
  id TEXT PRIMARY KEY,
  teacher_id TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  birth_date TEXT NOT NULL DEFAULT '',
  level TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS booklets (
  id TEXT PRIMARY KEY,
  teacher_id TEXT NOT NULL,
  student_id TEXT NOT NULL,
  period TEXT NOT NULL DEFAULT '',
  synthesis TEXT NOT NULL DEFAULT '',
  skills TEXT NOT NULL DEFAULT '[]',
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS photos (
  id TEXT PRIMARY KEY,
  teacher_id TEXT NOT NULL,
  student_id TEXT,
  booklet_id TEXT,
  caption TEXT NOT NULL DEFAULT '',
  content_type TEXT NOT NULL DEFAULT '',
  data BLOB NOT NULL,
  taken_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS pending_photos (
  id TEXT PRIMARY KEY,
  teacher_id TEXT NOT NULL,
  content_type TEXT NOT NULL DEFAULT '',
  data BLOB NOT NULL,
  captured_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS backup_archive (
  id TEXT PRIMARY KEY,
  teacher_id TEXT NOT NULL,
  blob_key TEXT NOT NULL,
  size_bytes INTEGER NOT NULL,
  format_version TEXT NOT NULL,
  created_at TIMESTAMP NOT NULL
);
`

type testEnv struct {
	db      *sql.DB
	repos   repomanager.RepositoryManager
	blobs   *blob.MemoryStore
	builder *Builder
	index   *Index
	engine  *Engine
}

func nopLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sql.Open("sqlite", "file:backup_tests?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	for _, table := range []string{"teachers", "students", "booklets", "photos", "pending_photos", "backup_archive"} {
		_, err = db.Exec(`DELETE FROM ` + table)
		require.NoError(t, err)
	}

	repos := repomanager.NewSQLiteRepositoryManager()
	blobs := blob.NewMemoryStore()
	log := nopLogger()
	index := NewIndex(db, repos, blobs, log)

	return &testEnv{
		db:      db,
		repos:   repos,
		blobs:   blobs,
		builder: NewBuilder(db, repos),
		index:   index,
		engine:  NewEngine(db, repos, index, log),
	}
}

func strptr(s string) *string { return &s }

// seedTenant creates a teacher with 2 students, one booklet each (the first
// with 3 evaluated skills, the second with none), 1 evidence photo and 1
// pending photo.
func seedTenant(t *testing.T, env *testEnv, teacherID, email string) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	evaluated := now.Add(-time.Hour)

	require.NoError(t, env.repos.Teachers(env.db).Create(ctx, &models.Teacher{
		ID: teacherID, Email: email, DisplayName: "Mme Dupont", CreatedAt: now,
	}))

	require.NoError(t, env.repos.Students(env.db).Create(ctx, &models.Student{
		ID: teacherID + "-s1", TeacherID: teacherID, FirstName: "Léa", LastName: "Martin",
		BirthDate: "2021-03-14", Level: "PS", CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, env.repos.Students(env.db).Create(ctx, &models.Student{
		ID: teacherID + "-s2", TeacherID: teacherID, FirstName: "Noah", LastName: "Petit",
		BirthDate: "2020-11-02", Level: "MS", CreatedAt: now.Add(time.Second), UpdatedAt: now,
	}))

	require.NoError(t, env.repos.Booklets(env.db).Create(ctx, &models.Booklet{
		ID: teacherID + "-b1", TeacherID: teacherID, StudentID: teacherID + "-s1", Period: "2026-T1",
		Synthesis: "Très bonne période.",
		Skills: []models.SkillEvaluation{
			{SkillID: "lang-01", Domain: "langage", Label: "comprend une consigne", Status: models.SkillAcquired, EvaluatedAt: &evaluated},
			{SkillID: "mot-03", Domain: "motricité", Label: "découpe au ciseau", Status: models.SkillInProgress, Comment: "encore hésitant", EvaluatedAt: &evaluated},
			{SkillID: "num-02", Domain: "nombres", Label: "compte jusqu'à 10", Status: models.SkillAcquired, EvaluatedAt: &evaluated},
		},
		CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, env.repos.Booklets(env.db).Create(ctx, &models.Booklet{
		ID: teacherID + "-b2", TeacherID: teacherID, StudentID: teacherID + "-s2", Period: "2026-T1",
		Skills:    []models.SkillEvaluation{},
		CreatedAt: now.Add(time.Second), UpdatedAt: now,
	}))

	require.NoError(t, env.repos.Photos(env.db).Create(ctx, &models.Photo{
		ID: teacherID + "-p1", TeacherID: teacherID,
		StudentID: strptr(teacherID + "-s1"), BookletID: strptr(teacherID + "-b1"),
		Caption: "atelier découpage", ContentType: "image/jpeg", Data: []byte{0xff, 0xd8, 0x01},
		TakenAt: now,
	}))

	require.NoError(t, env.repos.PendingPhotos(env.db).Create(ctx, &models.PendingPhoto{
		ID: teacherID + "-pp1", TeacherID: teacherID,
		ContentType: "image/jpeg", Data: []byte{0xff, 0xd8, 0x02}, CapturedAt: now,
	}))
}
