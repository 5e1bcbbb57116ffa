package archive

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/mbriard/carnets/internal/common"
	"github.com/mbriard/carnets/internal/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()

	mock.ExpectExec(`INSERT INTO backup_archive .*`).
		WithArgs("e1", "t1", "backups/t1/k", int64(42), "2.0.0", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &models.ArchiveEntry{
		ID:            "e1",
		TeacherID:     "t1",
		BlobKey:       "backups/t1/k",
		SizeBytes:     42,
		FormatVersion: "2.0.0",
		CreatedAt:     now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO backup_archive .*`).
		WillReturnError(errors.New("db is down"))

	err := repo.Create(context.Background(), &models.ArchiveEntry{ID: "e1"})
	if err == nil || !regexp.MustCompile(`db error: .*db is down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM backup_archive WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestGetByID_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "teacher_id", "blob_key", "size_bytes", "format_version", "created_at"}).
		AddRow("e1", "t1", "backups/t1/k", int64(42), "2.0.0", now)

	mock.ExpectQuery(`SELECT .* FROM backup_archive WHERE id = \$1`).
		WithArgs("e1").
		WillReturnRows(rows)

	e, err := repo.GetByID(context.Background(), "e1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.TeacherID != "t1" || e.BlobKey != "backups/t1/k" || e.SizeBytes != 42 {
		t.Fatalf("unexpected entry: %+v", e)
	}
}

func TestListByTeacher_OrderedNewestFirst(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "teacher_id", "blob_key", "size_bytes", "format_version", "created_at"}).
		AddRow("e2", "t1", "k2", int64(2), "2.0.0", now).
		AddRow("e1", "t1", "k1", int64(1), "2.0.0", now.Add(-time.Hour))

	mock.ExpectQuery(`SELECT .* FROM backup_archive WHERE teacher_id = \$1 ORDER BY created_at DESC`).
		WithArgs("t1").
		WillReturnRows(rows)

	entries, err := repo.ListByTeacher(context.Background(), "t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 || entries[0].ID != "e2" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestDelete_ReportsRowsAffected(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM backup_archive WHERE id = \$1`).
		WithArgs("e1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.Delete(context.Background(), "e1")
	if err != nil || !ok {
		t.Fatalf("expected deleted=true, got ok=%v err=%v", ok, err)
	}

	mock.ExpectExec(`DELETE FROM backup_archive WHERE id = \$1`).
		WithArgs("e2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err = repo.Delete(context.Background(), "e2")
	if err != nil || ok {
		t.Fatalf("expected deleted=false, got ok=%v err=%v", ok, err)
	}
}

func TestStatsByTeacher(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"count", "sum", "max"}).AddRow(3, int64(120), now)

	mock.ExpectQuery(`SELECT COUNT\(\*\), COALESCE\(SUM\(size_bytes\), 0\), MAX\(created_at\).*`).
		WithArgs("t1").
		WillReturnRows(rows)

	s, err := repo.StatsByTeacher(context.Background(), "t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Count != 3 || s.TotalBytes != 120 || s.NewestAt == nil {
		t.Fatalf("unexpected stats: %+v", s)
	}
}
