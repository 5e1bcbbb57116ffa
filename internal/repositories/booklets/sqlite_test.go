package booklets

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbriard/carnets/internal/models"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:booklets_tests?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
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
`)
	require.NoError(t, err)
	_, err = db.Exec(`DELETE FROM booklets`)
	require.NoError(t, err)

	return db
}

func TestCreateAndGetByID_SkillsSurviveVerbatim(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	evaluated := now.Add(-time.Hour)

	b := &models.Booklet{
		ID:        "b1",
		TeacherID: "t1",
		StudentID: "s1",
		Period:    "2025-T1",
		Synthesis: "Progresse bien en motricité.",
		Skills: []models.SkillEvaluation{
			{SkillID: "lang-01", Domain: "langage", Label: "comprend une consigne", Status: models.SkillAcquired, EvaluatedAt: &evaluated},
			{SkillID: "mot-03", Domain: "motricité", Label: "découpe au ciseau", Status: models.SkillInProgress, Comment: "encore hésitant"},
			{SkillID: "num-02", Domain: "nombres", Label: "compte jusqu'à 10", Status: models.SkillNotEvaluated},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, r.Create(ctx, b))

	got, err := r.GetByID(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, got.Skills, 3)
	assert.Equal(t, models.SkillAcquired, got.Skills[0].Status)
	assert.Equal(t, "encore hésitant", got.Skills[1].Comment)
	assert.Equal(t, models.SkillNotEvaluated, got.Skills[2].Status)
	require.NotNil(t, got.Skills[0].EvaluatedAt)
	assert.True(t, got.Skills[0].EvaluatedAt.Equal(evaluated))
	assert.Equal(t, "Progresse bien en motricité.", got.Synthesis)
}

func TestListByTeacher_EmptyWhenNoRows(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	got, err := r.ListByTeacher(context.Background(), "t1")
	require.NoError(t, err)
	assert.Empty(t, got)
}
