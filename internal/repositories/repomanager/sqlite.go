package repomanager

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/mbriard/carnets/internal/dbx"
	"github.com/mbriard/carnets/internal/local/migrations"
	"github.com/mbriard/carnets/internal/repositories/archive"
	"github.com/mbriard/carnets/internal/repositories/booklets"
	"github.com/mbriard/carnets/internal/repositories/pendingphotos"
	"github.com/mbriard/carnets/internal/repositories/photos"
	"github.com/mbriard/carnets/internal/repositories/students"
	"github.com/mbriard/carnets/internal/repositories/teachers"
)

// SQLiteRepositoryManager vends SQLite-backed repository implementations for
// the local profile database.
type SQLiteRepositoryManager struct{}

// NewSQLiteRepositoryManager constructs a SQLite-backed RepositoryManager.
func NewSQLiteRepositoryManager() *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{}
}

func (m *SQLiteRepositoryManager) Teachers(db dbx.DBTX) teachers.Repository {
	return teachers.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Students(db dbx.DBTX) students.Repository {
	return students.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Booklets(db dbx.DBTX) booklets.Repository {
	return booklets.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Photos(db dbx.DBTX) photos.Repository {
	return photos.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) PendingPhotos(db dbx.DBTX) pendingphotos.Repository {
	return pendingphotos.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Archive(db dbx.DBTX) archive.Repository {
	return archive.NewSQLiteRepository(db)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}
